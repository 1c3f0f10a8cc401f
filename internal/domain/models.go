package domain

import (
	"fmt"
	"strings"
	"time"
)

// OptionCount is the number of choices every question carries.
const OptionCount = 4

// Feedback is the per-round verdict stored on a player.
type Feedback string

const (
	FeedbackCorrect   Feedback = "Correct!"
	FeedbackIncorrect Feedback = "Incorrect."
)

// Question is an immutable multiple-choice question.
type Question struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
}

// Validate checks the invariants every question must hold before entering a quiz:
// a prompt, exactly four distinct non-empty options, and a correct answer among them.
func (q Question) Validate() error {
	if strings.TrimSpace(q.Question) == "" {
		return fmt.Errorf("%w: empty prompt", ErrInvalidQuestion)
	}
	if len(q.Options) != OptionCount {
		return fmt.Errorf("%w: want %d options, got %d", ErrInvalidQuestion, OptionCount, len(q.Options))
	}
	seen := make(map[string]struct{}, len(q.Options))
	for _, opt := range q.Options {
		if strings.TrimSpace(opt) == "" {
			return fmt.Errorf("%w: empty option", ErrInvalidQuestion)
		}
		if _, dup := seen[opt]; dup {
			return fmt.Errorf("%w: duplicate option %q", ErrInvalidQuestion, opt)
		}
		seen[opt] = struct{}{}
	}
	if _, ok := seen[q.CorrectAnswer]; !ok {
		return fmt.Errorf("%w: correct answer %q is not an option", ErrInvalidQuestion, q.CorrectAnswer)
	}
	return nil
}

// IsCorrect compares by exact text.
func (q Question) IsCorrect(choice string) bool {
	return choice == q.CorrectAnswer
}

// Clone copies the option slice so callers cannot alias stored questions.
func (q Question) Clone() Question {
	q.Options = append([]string(nil), q.Options...)
	return q
}

// Player is a session participant and their per-round answer state.
type Player struct {
	ID                        string   `json:"id"`
	UserName                  string   `json:"userName"`
	Score                     int      `json:"score"`
	SelectedAnswerForQuestion string   `json:"selectedAnswerForQuestion,omitempty"`
	FeedbackForQuestion       Feedback `json:"feedbackForQuestion,omitempty"`
}

// HasAnswered reports whether the player already answered the current round.
// Feedback is set on every accepted answer, whatever the choice was.
func (p Player) HasAnswered() bool {
	return p.SelectedAnswerForQuestion != "" || p.FeedbackForQuestion != ""
}

// ClearRound drops the transient per-round fields.
func (p Player) ClearRound() Player {
	p.SelectedAnswerForQuestion = ""
	p.FeedbackForQuestion = ""
	return p
}

// Session is the shared multiplayer game document.
type Session struct {
	Code                 string     `json:"code"`
	HostID               string     `json:"hostId"`
	HostName             string     `json:"hostName"`
	Questions            []Question `json:"questions"`
	CurrentQuestionIndex int        `json:"currentQuestionIndex"`
	QuizEnded            bool       `json:"quizEnded"`
	Players              []Player   `json:"players"`
	CreatedAt            time.Time  `json:"createdAt"`
	// Version is bumped by the store on every successful write.
	Version int64 `json:"version"`
}

// IsHost reports whether id created the session.
func (s Session) IsHost(id string) bool {
	return id != "" && id == s.HostID
}

// Player looks a participant up by identity.
func (s Session) Player(id string) (Player, bool) {
	for _, p := range s.Players {
		if p.ID == id {
			return p, true
		}
	}
	return Player{}, false
}

// CurrentQuestion returns the question under the cursor, if any.
func (s Session) CurrentQuestion() (Question, bool) {
	if s.QuizEnded || s.CurrentQuestionIndex < 0 || s.CurrentQuestionIndex >= len(s.Questions) {
		return Question{}, false
	}
	return s.Questions[s.CurrentQuestionIndex], true
}

// Clone deep-copies the slices of the document.
func (s Session) Clone() Session {
	questions := make([]Question, len(s.Questions))
	for i, q := range s.Questions {
		questions[i] = q.Clone()
	}
	s.Questions = questions
	s.Players = append([]Player{}, s.Players...)
	return s
}

// SessionUpdate is a shallow field overwrite. Nil fields are left untouched and
// slices replace the stored value wholesale.
type SessionUpdate struct {
	CurrentQuestionIndex *int
	QuizEnded            *bool
	Players              []Player
	Questions            []Question
}

// Apply writes the set fields onto s.
func (u SessionUpdate) Apply(s *Session) {
	if u.CurrentQuestionIndex != nil {
		s.CurrentQuestionIndex = *u.CurrentQuestionIndex
	}
	if u.QuizEnded != nil {
		s.QuizEnded = *u.QuizEnded
	}
	if u.Players != nil {
		s.Players = append([]Player{}, u.Players...)
	}
	if u.Questions != nil {
		s.Questions = make([]Question, len(u.Questions))
		for i, q := range u.Questions {
			s.Questions[i] = q.Clone()
		}
	}
}

// SessionEvent is one change notification for a subscribed session document.
// Exists is false when the document is absent; Err carries a listener failure.
type SessionEvent struct {
	Code    string
	Session Session
	Exists  bool
	Err     error
}

// Profile is the persisted display name of an identity.
type Profile struct {
	ID       string `json:"id"`
	UserName string `json:"userName"`
}
