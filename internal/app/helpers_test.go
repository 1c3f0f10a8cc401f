package app

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"vineyard-quiz/internal/domain"
	"vineyard-quiz/internal/infra/memory"
)

func question(prompt, correct string, others ...string) domain.Question {
	return domain.Question{
		Question:      prompt,
		Options:       append([]string{correct}, others...),
		CorrectAnswer: correct,
		Explanation:   "because",
	}
}

func twoQuestions() []domain.Question {
	return []domain.Question{
		question("Which grape is red?", "Merlot", "Chardonnay", "Riesling", "Viognier"),
		question("Which region is in France?", "Bordeaux", "Napa", "Rioja", "Barossa"),
	}
}

func manyQuestions(n int) []domain.Question {
	qs := make([]domain.Question, n)
	for i := range qs {
		qs[i] = question(fmt.Sprintf("Question %d?", i), "a", "b", "c", "d")
	}
	return qs
}

// sequenceCodes returns a generator yielding codes in order, then repeating the last.
func sequenceCodes(codes ...string) func() string {
	var mu sync.Mutex
	i := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		c := codes[i]
		if i < len(codes)-1 {
			i++
		}
		return c
	}
}

type fakeGenerator struct {
	mu      sync.Mutex
	text    string
	err     error
	calls   int
	prompts []string
	schemas []Schema
}

func (g *fakeGenerator) Generate(_ context.Context, prompt string, schema Schema) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	g.prompts = append(g.prompts, prompt)
	g.schemas = append(g.schemas, schema)
	return g.text, g.err
}

func newTestService(t *testing.T, gen TextGenerator, codes ...string) (*GameService, *memory.SessionStore) {
	t.Helper()
	store := memory.NewSessionStore()
	if len(codes) == 0 {
		codes = []string{"GAME"}
	}
	dir := NewDirectoryWithGenerator(store, sequenceCodes(codes...))
	supply := NewQuestionSupply(manyQuestions(12), gen, nil)
	now := time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)
	return NewGameServiceWithClock(store, dir, supply, func() time.Time { return now }), store
}

func waitView(t *testing.T, views <-chan View, match func(View) bool) View {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case v, ok := <-views:
			if !ok {
				t.Fatalf("views closed")
			}
			if match(v) {
				return v
			}
		case <-deadline:
			t.Fatalf("timed out waiting for view")
		}
	}
}
