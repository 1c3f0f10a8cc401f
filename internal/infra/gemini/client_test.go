package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"vineyard-quiz/internal/app"
)

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func newTestClient(rt http.RoundTripper) *Client {
	return NewClient(&http.Client{Transport: rt}, "https://example.test/v1beta", "", "secret")
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewReader([]byte(body))),
		Header:     make(http.Header),
	}
}

func TestGenerateSendsSchemaAndKey(t *testing.T) {
	var seen generateRequest
	var seenURL, seenKey string

	client := newTestClient(roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		seenURL = r.URL.String()
		seenKey = r.Header.Get("x-goog-api-key")
		if err := json.NewDecoder(r.Body).Decode(&seen); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		return jsonResponse(http.StatusOK, `{"candidates":[{"content":{"parts":[{"text":"{\"question\":"},{"text":"\"q\"}"}]}}]}`), nil
	}))

	text, err := client.Generate(context.Background(), "make a question", app.Schema{"type": "OBJECT"})
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if text != `{"question":"q"}` {
		t.Fatalf("expected joined parts, got %q", text)
	}
	if seenURL != "https://example.test/v1beta/models/gemini-2.0-flash:generateContent" {
		t.Fatalf("unexpected url %s", seenURL)
	}
	if seenKey != "secret" {
		t.Fatalf("api key header missing")
	}
	if seen.GenerationConfig == nil || seen.GenerationConfig.ResponseMimeType != "application/json" {
		t.Fatalf("expected JSON generation config, got %+v", seen.GenerationConfig)
	}
	if seen.Contents[0].Parts[0].Text != "make a question" {
		t.Fatalf("prompt not sent: %+v", seen.Contents)
	}
}

func TestGeneratePlainTextOmitsConfig(t *testing.T) {
	var raw []byte
	client := newTestClient(roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		raw, _ = io.ReadAll(r.Body)
		return jsonResponse(http.StatusOK, `{"candidates":[{"content":{"parts":[{"text":"Malbec is inky."}]}}]}`), nil
	}))

	text, err := client.Generate(context.Background(), "describe malbec", nil)
	if err != nil || text != "Malbec is inky." {
		t.Fatalf("unexpected result %q %v", text, err)
	}
	if strings.Contains(string(raw), "generationConfig") {
		t.Fatalf("plain prompts must not send a generation config: %s", raw)
	}
}

func TestGeneratePropagatesNonOKStatus(t *testing.T) {
	client := newTestClient(roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusTooManyRequests, `{"error":{"message":"quota"}}`), nil
	}))

	_, err := client.Generate(context.Background(), "x", nil)
	if err == nil || !strings.Contains(err.Error(), "429") {
		t.Fatalf("expected status error, got %v", err)
	}
}

func TestGenerateRejectsEmptyAndBlocked(t *testing.T) {
	bodies := map[string]string{
		"no candidates": `{"candidates":[]}`,
		"blocked":       `{"promptFeedback":{"blockReason":"SAFETY"}}`,
		"not json":      `not-json`,
	}
	for name, body := range bodies {
		client := newTestClient(roundTripperFunc(func(r *http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusOK, body), nil
		}))
		if _, err := client.Generate(context.Background(), "x", nil); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestGenerateRequiresKey(t *testing.T) {
	client := NewClient(nil, "", "", "")
	if _, err := client.Generate(context.Background(), "x", nil); err == nil {
		t.Fatalf("expected error without api key")
	}
}
