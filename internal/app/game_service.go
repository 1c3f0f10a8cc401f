package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"vineyard-quiz/internal/domain"
)

const (
	// maxUpdateAttempts bounds read-modify-write retries on version conflicts.
	maxUpdateAttempts = 5
	// maxCreateAttempts bounds re-allocation when a create loses the race for a code.
	maxCreateAttempts = 3
)

// AnswerOutcome reports what SubmitAnswer did. Accepted is false when the
// round was already answered or the quiz ended.
type AnswerOutcome struct {
	Accepted bool            `json:"accepted"`
	Correct  bool            `json:"correct"`
	Feedback domain.Feedback `json:"feedback,omitempty"`
	Score    int             `json:"score"`
	Session  domain.Session  `json:"-"`
}

// GameService owns the multiplayer session state machine.
type GameService struct {
	store     SessionStore
	directory *Directory
	supply    *QuestionSupply
	now       func() time.Time
}

func NewGameService(store SessionStore, directory *Directory, supply *QuestionSupply) *GameService {
	return &GameService{store: store, directory: directory, supply: supply, now: time.Now}
}

// NewGameServiceWithClock is test-only for deterministic timestamps.
func NewGameServiceWithClock(store SessionStore, directory *Directory, supply *QuestionSupply, now func() time.Time) *GameService {
	s := NewGameService(store, directory, supply)
	s.now = now
	return s
}

// Supply exposes the question supply used for draws and generation.
func (s *GameService) Supply() *QuestionSupply {
	return s.supply
}

// CreateSession allocates a code and writes a fresh session. The host is
// recorded but never inserted into the player list.
func (s *GameService) CreateSession(ctx context.Context, hostID, hostName string, questions []domain.Question) (domain.Session, error) {
	hostName = strings.TrimSpace(hostName)
	if hostID == "" || hostName == "" {
		return domain.Session{}, domain.ErrInvalidName
	}
	if len(questions) == 0 {
		return domain.Session{}, fmt.Errorf("%w: a session needs questions", domain.ErrInvalidQuestion)
	}
	for _, q := range questions {
		if err := q.Validate(); err != nil {
			return domain.Session{}, err
		}
	}

	for attempt := 0; attempt < maxCreateAttempts; attempt++ {
		code, err := s.directory.Allocate(ctx)
		if err != nil {
			return domain.Session{}, err
		}
		session := domain.Session{
			Code:      code,
			HostID:    hostID,
			HostName:  hostName,
			Questions: questions,
			Players:   []domain.Player{},
			CreatedAt: s.now().UTC(),
			Version:   1,
		}
		err = s.store.Create(ctx, session)
		if errors.Is(err, domain.ErrSessionExists) {
			continue
		}
		if err != nil {
			return domain.Session{}, err
		}
		return session.Clone(), nil
	}
	return domain.Session{}, domain.ErrAllocationExhausted
}

// Get reads the session under a user-entered code.
func (s *GameService) Get(ctx context.Context, rawCode string) (domain.Session, error) {
	code, err := NormalizeCode(rawCode)
	if err != nil {
		return domain.Session{}, err
	}
	return s.store.Get(ctx, code)
}

// JoinSession appends playerID on first join and is idempotent afterwards.
// The host never becomes a player, so a host join is a no-op.
func (s *GameService) JoinSession(ctx context.Context, rawCode, playerID, playerName string) (domain.Session, error) {
	playerName = strings.TrimSpace(playerName)
	if playerID == "" || playerName == "" {
		return domain.Session{}, domain.ErrInvalidName
	}
	return s.mutate(ctx, rawCode, func(sess domain.Session) (*domain.SessionUpdate, error) {
		if _, ok := sess.Player(playerID); ok || sess.IsHost(playerID) {
			return nil, nil
		}
		players := append(append([]domain.Player{}, sess.Players...), domain.Player{
			ID:       playerID,
			UserName: playerName,
		})
		return &domain.SessionUpdate{Players: players}, nil
	})
}

// SubmitAnswer records choice for playerID on the current round. A second
// answer in the same round, or any answer after the quiz ended, is ignored.
// An empty choice is ErrInvalidAnswer.
func (s *GameService) SubmitAnswer(ctx context.Context, rawCode, playerID, choice string) (AnswerOutcome, error) {
	if strings.TrimSpace(choice) == "" {
		return AnswerOutcome{}, domain.ErrInvalidAnswer
	}
	var outcome AnswerOutcome
	sess, err := s.mutate(ctx, rawCode, func(sess domain.Session) (*domain.SessionUpdate, error) {
		outcome = AnswerOutcome{}
		if sess.IsHost(playerID) {
			return nil, domain.ErrForbidden
		}
		player, ok := sess.Player(playerID)
		if !ok {
			return nil, domain.ErrParticipantNotFound
		}
		outcome.Score = player.Score
		outcome.Feedback = player.FeedbackForQuestion
		question, ok := sess.CurrentQuestion()
		if player.HasAnswered() || !ok {
			return nil, nil
		}

		outcome.Accepted = true
		outcome.Correct = question.IsCorrect(choice)
		outcome.Feedback = domain.FeedbackIncorrect
		if outcome.Correct {
			outcome.Feedback = domain.FeedbackCorrect
			outcome.Score++
		}

		players := make([]domain.Player, len(sess.Players))
		for i, p := range sess.Players {
			if p.ID == playerID {
				p.Score = outcome.Score
				p.SelectedAnswerForQuestion = choice
				p.FeedbackForQuestion = outcome.Feedback
			}
			players[i] = p
		}
		return &domain.SessionUpdate{Players: players}, nil
	})
	if err != nil {
		return AnswerOutcome{}, err
	}
	outcome.Session = sess
	return outcome, nil
}

// AdvanceQuestion moves the host's session to the next round, or ends it
// after the last question. Every player's answer state is cleared; scores stay.
func (s *GameService) AdvanceQuestion(ctx context.Context, rawCode, callerID string) (domain.Session, error) {
	return s.mutate(ctx, rawCode, func(sess domain.Session) (*domain.SessionUpdate, error) {
		if !sess.IsHost(callerID) {
			return nil, domain.ErrForbidden
		}
		if sess.QuizEnded {
			return nil, nil
		}
		update := &domain.SessionUpdate{Players: clearRound(sess.Players, false)}
		next := sess.CurrentQuestionIndex + 1
		if next < len(sess.Questions) {
			update.CurrentQuestionIndex = &next
		} else {
			ended := true
			update.QuizEnded = &ended
		}
		return update, nil
	})
}

// RestartSession resets the cursor, the ended flag and every score, and
// replaces the questions with a fresh draw.
func (s *GameService) RestartSession(ctx context.Context, rawCode, callerID string, questions []domain.Question) (domain.Session, error) {
	if len(questions) == 0 {
		return domain.Session{}, fmt.Errorf("%w: a session needs questions", domain.ErrInvalidQuestion)
	}
	for _, q := range questions {
		if err := q.Validate(); err != nil {
			return domain.Session{}, err
		}
	}
	return s.mutate(ctx, rawCode, func(sess domain.Session) (*domain.SessionUpdate, error) {
		if !sess.IsHost(callerID) {
			return nil, domain.ErrForbidden
		}
		zero, ended := 0, false
		return &domain.SessionUpdate{
			CurrentQuestionIndex: &zero,
			QuizEnded:            &ended,
			Players:              clearRound(sess.Players, true),
			Questions:            questions,
		}, nil
	})
}

// AppendQuestion extends the host's session without moving the cursor.
func (s *GameService) AppendQuestion(ctx context.Context, rawCode, callerID string, question domain.Question) (domain.Session, error) {
	if err := question.Validate(); err != nil {
		return domain.Session{}, err
	}
	return s.mutate(ctx, rawCode, func(sess domain.Session) (*domain.SessionUpdate, error) {
		if !sess.IsHost(callerID) {
			return nil, domain.ErrForbidden
		}
		qs := append(append([]domain.Question{}, sess.Questions...), question)
		return &domain.SessionUpdate{Questions: qs}, nil
	})
}

// GenerateQuestion asks the supply for a question on topic and appends it.
// Only the host may generate. Nothing is written when generation fails.
func (s *GameService) GenerateQuestion(ctx context.Context, rawCode, callerID, topic string) (domain.Question, domain.Session, error) {
	code, err := NormalizeCode(rawCode)
	if err != nil {
		return domain.Question{}, domain.Session{}, err
	}
	sess, err := s.store.Get(ctx, code)
	if err != nil {
		return domain.Question{}, domain.Session{}, err
	}
	if !sess.IsHost(callerID) {
		return domain.Question{}, domain.Session{}, domain.ErrForbidden
	}
	question, err := s.supply.RequestGenerated(ctx, topic)
	if err != nil {
		return domain.Question{}, domain.Session{}, err
	}
	if err := ctx.Err(); err != nil {
		return domain.Question{}, domain.Session{}, err
	}
	sess, err = s.AppendQuestion(ctx, code, callerID, question)
	if err != nil {
		return domain.Question{}, domain.Session{}, err
	}
	return question, sess, nil
}

// Subscribe exposes the store's change feed for a code.
func (s *GameService) Subscribe(ctx context.Context, rawCode string) (<-chan domain.SessionEvent, func(), error) {
	code, err := NormalizeCode(rawCode)
	if err != nil {
		return nil, nil, err
	}
	return s.store.Subscribe(ctx, code)
}

// mutate runs a version-checked read-modify-write. fn returning a nil update
// means nothing to write and the current document is returned.
func (s *GameService) mutate(ctx context.Context, rawCode string, fn func(domain.Session) (*domain.SessionUpdate, error)) (domain.Session, error) {
	code, err := NormalizeCode(rawCode)
	if err != nil {
		return domain.Session{}, err
	}

	for attempt := 0; ; attempt++ {
		sess, err := s.store.Get(ctx, code)
		if err != nil {
			return domain.Session{}, err
		}
		update, err := fn(sess)
		if err != nil {
			return domain.Session{}, err
		}
		if update == nil {
			return sess, nil
		}
		updated, err := s.store.Update(ctx, code, sess.Version, *update)
		if errors.Is(err, domain.ErrVersionConflict) && attempt+1 < maxUpdateAttempts {
			continue
		}
		return updated, err
	}
}

func clearRound(players []domain.Player, resetScore bool) []domain.Player {
	out := make([]domain.Player, len(players))
	for i, p := range players {
		p = p.ClearRound()
		if resetScore {
			p.Score = 0
		}
		out[i] = p
	}
	return out
}
