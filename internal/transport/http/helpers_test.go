package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"sync"
	"testing"

	"vineyard-quiz/internal/app"
	"vineyard-quiz/internal/domain"
	"vineyard-quiz/internal/infra/memory"
)

type fakeGenerator struct {
	mu   sync.Mutex
	text string
	err  error
}

func (g *fakeGenerator) set(text string, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.text, g.err = text, err
}

func (g *fakeGenerator) Generate(context.Context, string, app.Schema) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.text, g.err
}

// testPool has every correct answer on a known varietal.
func testPool() []domain.Question {
	qs := make([]domain.Question, 10)
	for i := range qs {
		qs[i] = domain.Question{
			Question:      fmt.Sprintf("Which grape is behind wine %d?", i),
			Options:       []string{"Merlot (Right Bank)", "Chardonnay", "Riesling", "Gamay"},
			CorrectAnswer: "Merlot (Right Bank)",
			Explanation:   "Merlot dominates the Right Bank.",
		}
	}
	return qs
}

type testEnv struct {
	server *httptest.Server
	store  *memory.SessionStore
	gen    *fakeGenerator
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := memory.NewSessionStore()
	gen := &fakeGenerator{text: "Merlot is soft and plummy."}
	supply := app.NewQuestionSupply(testPool(), gen, memory.NewElaborationCache(0))
	games := app.NewGameService(store, app.NewDirectory(store), supply)
	profiles := app.NewProfileService(memory.NewProfileStore())
	api := NewAPI(games, profiles, store, Options{Version: "test"})

	server := httptest.NewServer(api.Router())
	t.Cleanup(server.Close)
	return &testEnv{server: server, store: store, gen: gen}
}

// newClient returns a client with its own cookie jar, i.e. its own identity.
func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	return &http.Client{Jar: jar}
}

func doJSON(t *testing.T, c *http.Client, method, url string, body any, out any) int {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s %s: %v", method, url, err)
		}
	}
	return resp.StatusCode
}
