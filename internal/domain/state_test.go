package domain

import (
	"errors"
	"testing"
)

func TestWinnersAreTieSafe(t *testing.T) {
	players := []Player{
		{ID: "a", Score: 5},
		{ID: "b", Score: 5},
		{ID: "c", Score: 3},
	}
	winners := Winners(players)
	if len(winners) != 2 || winners[0].ID != "a" || winners[1].ID != "b" {
		t.Fatalf("expected a and b to win, got %+v", winners)
	}
	if Winners(nil) != nil {
		t.Fatalf("expected no winners without players")
	}
}

func TestRankKeepsJoinOrderOnTies(t *testing.T) {
	players := []Player{
		{ID: "a", Score: 1},
		{ID: "b", Score: 4},
		{ID: "c", Score: 1},
	}
	ranked := Rank(players)
	if ranked[0].ID != "b" || ranked[1].ID != "a" || ranked[2].ID != "c" {
		t.Fatalf("unexpected ranking %+v", ranked)
	}
	if RankOf(players, "c") != 3 || RankOf(players, "zz") != 0 {
		t.Fatalf("unexpected rank positions")
	}
	if players[0].ID != "a" {
		t.Fatalf("rank must not reorder the input")
	}
}

func TestSessionStateIsTotal(t *testing.T) {
	s := Session{Questions: []Question{sampleQuestion()}}
	if st, ok := s.State().(InProgress); !ok || st.Index != 0 || st.Total != 1 {
		t.Fatalf("expected in progress at 0, got %#v", s.State())
	}

	s.QuizEnded = true
	if _, ok := s.State().(Ended); !ok {
		t.Fatalf("expected ended, got %#v", s.State())
	}

	s.QuizEnded = false
	s.CurrentQuestionIndex = 1
	if _, ok := s.State().(Ended); !ok {
		t.Fatalf("expected cursor past the end to read as ended")
	}
}

func TestQuestionValidate(t *testing.T) {
	if err := sampleQuestion().Validate(); err != nil {
		t.Fatalf("valid question rejected: %v", err)
	}

	cases := map[string]Question{
		"three options": {Question: "q", Options: []string{"a", "b", "c"}, CorrectAnswer: "a"},
		"duplicate":     {Question: "q", Options: []string{"a", "a", "b", "c"}, CorrectAnswer: "a"},
		"not an option": {Question: "q", Options: []string{"a", "b", "c", "d"}, CorrectAnswer: "e"},
		"empty prompt":  {Question: " ", Options: []string{"a", "b", "c", "d"}, CorrectAnswer: "a"},
		"blank option":  {Question: "q", Options: []string{"a", "", "c", "d"}, CorrectAnswer: "a"},
	}
	for name, q := range cases {
		if err := q.Validate(); !errors.Is(err, ErrInvalidQuestion) {
			t.Fatalf("%s: expected ErrInvalidQuestion, got %v", name, err)
		}
	}
}

func TestSessionUpdateReplacesSlices(t *testing.T) {
	s := Session{Players: []Player{{ID: "a", Score: 2}}}
	idx := 3
	players := []Player{{ID: "a", Score: 0}}
	SessionUpdate{CurrentQuestionIndex: &idx, Players: players}.Apply(&s)

	if s.CurrentQuestionIndex != 3 || s.Players[0].Score != 0 {
		t.Fatalf("update not applied: %+v", s)
	}
	players[0].Score = 9
	if s.Players[0].Score != 0 {
		t.Fatalf("applied players must not alias the update")
	}
}

func sampleQuestion() Question {
	return Question{
		Question:      "Which of the following is a red grape varietal?",
		Options:       []string{"Chardonnay", "Sauvignon Blanc", "Merlot", "Pinot Grigio"},
		CorrectAnswer: "Merlot",
	}
}

func TestHasAnsweredTracksFeedback(t *testing.T) {
	p := Player{ID: "p1", FeedbackForQuestion: FeedbackIncorrect}
	if !p.HasAnswered() {
		t.Fatalf("a scored round with no recorded choice must count as answered")
	}
	if p.ClearRound().HasAnswered() {
		t.Fatalf("cleared round must count as unanswered")
	}
}
