package app

import (
	"context"
	"sync"

	"vineyard-quiz/internal/domain"
)

// View is one participant's projection of a session document.
type View struct {
	Code                 string            `json:"code,omitempty"`
	State                domain.State      `json:"-"`
	Phase                string            `json:"phase"`
	HostName             string            `json:"hostName,omitempty"`
	IsHost               bool              `json:"isHost"`
	CurrentQuestionIndex int               `json:"currentQuestionIndex"`
	QuizEnded            bool              `json:"quizEnded"`
	Questions            []domain.Question `json:"questions,omitempty"`
	Score                int               `json:"score"`
	Rank                 int               `json:"rank,omitempty"`
	SelectedAnswer       string            `json:"selectedAnswer,omitempty"`
	Feedback             domain.Feedback   `json:"feedback,omitempty"`
	Players              []domain.Player   `json:"players,omitempty"`
	Winners              []domain.Player   `json:"winners,omitempty"`
	Err                  error             `json:"-"`
	Error                string            `json:"error,omitempty"`
}

// ViewSynchronizer keeps exactly one subscription to the active session of
// one identity and republishes every change as a fresh View.
type ViewSynchronizer struct {
	store    SessionStore
	identity string
	views    chan View

	mu     sync.Mutex
	gen    uint64
	cancel func()
	code   string
	view   View
	closed bool
}

func NewViewSynchronizer(store SessionStore, identity string) *ViewSynchronizer {
	v := &ViewSynchronizer{
		store:    store,
		identity: identity,
		views:    make(chan View, 1),
	}
	v.mu.Lock()
	v.publishLocked(lobbyView(nil))
	v.mu.Unlock()
	return v
}

// Views delivers the latest projection; intermediate views may be skipped
// when the reader is slow. The channel closes on Close.
func (v *ViewSynchronizer) Views() <-chan View {
	return v.views
}

// Current returns the most recent projection.
func (v *ViewSynchronizer) Current() View {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.view
}

// Code returns the followed session code, or "" in the lobby.
func (v *ViewSynchronizer) Code() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.code
}

// Follow releases any previous subscription and subscribes to rawCode.
func (v *ViewSynchronizer) Follow(ctx context.Context, rawCode string) error {
	code, err := NormalizeCode(rawCode)
	if err != nil {
		return err
	}

	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return context.Canceled
	}
	v.releaseLocked()
	v.gen++
	gen := v.gen
	v.mu.Unlock()

	events, cancel, err := v.store.Subscribe(ctx, code)
	if err != nil {
		return err
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.gen != gen || v.closed {
		// Superseded by a concurrent Follow or Leave.
		cancel()
		return nil
	}
	v.cancel = cancel
	v.code = code
	go v.consume(gen, events)
	return nil
}

// Leave releases the subscription and returns the view to the lobby.
func (v *ViewSynchronizer) Leave() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return
	}
	v.releaseLocked()
	v.gen++
	v.publishLocked(lobbyView(nil))
}

// Close releases the subscription and closes the Views channel.
func (v *ViewSynchronizer) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return
	}
	v.releaseLocked()
	v.gen++
	v.closed = true
	close(v.views)
}

func (v *ViewSynchronizer) consume(gen uint64, events <-chan domain.SessionEvent) {
	for ev := range events {
		v.mu.Lock()
		if v.gen != gen || v.closed {
			v.mu.Unlock()
			return
		}
		switch {
		case ev.Err != nil:
			view := v.view
			view.Err = ev.Err
			view.Error = ev.Err.Error()
			v.publishLocked(view)
		case !ev.Exists:
			v.releaseLocked()
			v.gen++
			v.publishLocked(lobbyView(domain.ErrSessionNotFound))
			v.mu.Unlock()
			return
		default:
			v.publishLocked(Project(ev.Session, v.identity))
		}
		v.mu.Unlock()
	}
}

// releaseLocked cancels the active subscription; cancel must not block.
func (v *ViewSynchronizer) releaseLocked() {
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
	v.code = ""
}

func (v *ViewSynchronizer) publishLocked(view View) {
	v.view = view
	select {
	case v.views <- view:
	default:
		select {
		case <-v.views:
		default:
		}
		v.views <- view
	}
}

// Project replaces the whole view from a session document for identity.
func Project(sess domain.Session, identity string) View {
	state := sess.State()
	view := View{
		Code:                 sess.Code,
		State:                state,
		Phase:                state.Name(),
		HostName:             sess.HostName,
		IsHost:               sess.IsHost(identity),
		CurrentQuestionIndex: sess.CurrentQuestionIndex,
		QuizEnded:            sess.QuizEnded,
		Questions:            sess.Clone().Questions,
		Players:              domain.Rank(sess.Players),
		Rank:                 domain.RankOf(sess.Players, identity),
	}
	if p, ok := sess.Player(identity); ok {
		view.Score = p.Score
		view.SelectedAnswer = p.SelectedAnswerForQuestion
		view.Feedback = p.FeedbackForQuestion
	}
	if ended, ok := state.(domain.Ended); ok {
		view.Winners = ended.Winners
	}
	return view
}

func lobbyView(err error) View {
	view := View{State: domain.Lobby{}, Phase: domain.Lobby{}.Name(), Err: err}
	if err != nil {
		view.Error = err.Error()
	}
	return view
}
