package app

import "vineyard-quiz/internal/domain"

// LocalQuizState is the single-player analogue of a session document.
type LocalQuizState struct {
	Questions            []domain.Question `json:"questions"`
	CurrentQuestionIndex int               `json:"currentQuestionIndex"`
	Score                int               `json:"score"`
	QuizEnded            bool              `json:"quizEnded"`
	AnswerSelected       bool              `json:"answerSelected"`
	SelectedAnswer       string            `json:"selectedAnswer,omitempty"`
	Feedback             domain.Feedback   `json:"feedback,omitempty"`
}

// LocalQuiz runs a quiz entirely in process memory. The sole participant both
// answers and administers. It is not safe for concurrent use.
type LocalQuiz struct {
	draw  func() []domain.Question
	state LocalQuizState
}

// NewLocalQuiz starts a quiz with a first draw.
func NewLocalQuiz(draw func() []domain.Question) *LocalQuiz {
	q := &LocalQuiz{draw: draw}
	q.Restart()
	return q
}

// Restart zeroes progress and draws a fresh question set.
func (q *LocalQuiz) Restart() {
	q.state = LocalQuizState{Questions: q.draw()}
	if len(q.state.Questions) == 0 {
		q.state.QuizEnded = true
	}
}

// State returns a copy of the current state.
func (q *LocalQuiz) State() LocalQuizState {
	s := q.state
	s.Questions = append([]domain.Question(nil), q.state.Questions...)
	return s
}

// Current returns the question under the cursor.
func (q *LocalQuiz) Current() (domain.Question, bool) {
	if q.state.QuizEnded || q.state.CurrentQuestionIndex >= len(q.state.Questions) {
		return domain.Question{}, false
	}
	return q.state.Questions[q.state.CurrentQuestionIndex], true
}

// SubmitAnswer scores choice once per question; later calls in the same round
// are ignored and report Accepted false.
func (q *LocalQuiz) SubmitAnswer(choice string) AnswerOutcome {
	question, ok := q.Current()
	if !ok || q.state.AnswerSelected {
		return AnswerOutcome{Score: q.state.Score, Feedback: q.state.Feedback}
	}

	q.state.AnswerSelected = true
	q.state.SelectedAnswer = choice
	out := AnswerOutcome{Accepted: true, Correct: question.IsCorrect(choice), Feedback: domain.FeedbackIncorrect}
	if out.Correct {
		q.state.Score++
		out.Feedback = domain.FeedbackCorrect
	}
	q.state.Feedback = out.Feedback
	out.Score = q.state.Score
	return out
}

// Next clears the round and moves on, ending the quiz after the last question.
func (q *LocalQuiz) Next() {
	if q.state.QuizEnded {
		return
	}
	q.state.AnswerSelected = false
	q.state.SelectedAnswer = ""
	q.state.Feedback = ""
	if q.state.CurrentQuestionIndex < len(q.state.Questions)-1 {
		q.state.CurrentQuestionIndex++
		return
	}
	q.state.QuizEnded = true
}

// AppendQuestion adds a generated question to the end of the local set.
func (q *LocalQuiz) AppendQuestion(question domain.Question) error {
	if err := question.Validate(); err != nil {
		return err
	}
	q.state.Questions = append(q.state.Questions, question)
	return nil
}
