package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"vineyard-quiz/internal/domain"
	"vineyard-quiz/internal/questions"
)

// questionSchema is the structured-output contract for generated questions.
var questionSchema = Schema{
	"type": "OBJECT",
	"properties": map[string]any{
		"question": map[string]any{"type": "STRING"},
		"options": map[string]any{
			"type":     "ARRAY",
			"items":    map[string]any{"type": "STRING"},
			"minItems": domain.OptionCount,
			"maxItems": domain.OptionCount,
		},
		"correctAnswer": map[string]any{"type": "STRING"},
		"explanation":   map[string]any{"type": "STRING"},
	},
	"required": []string{"question", "options", "correctAnswer", "explanation"},
}

const questionPrompt = `Generate a multiple-choice quiz question about "%s" at a beginner level. Provide 4 distinct options, the correct answer, and a concise explanation. Do NOT include any image URLs. Return in the following JSON format:
{
  "question": "...",
  "options": ["...", "...", "...", "..."],
  "correctAnswer": "...",
  "explanation": "..."
}`

const varietalPrompt = `Provide a concise, 2-3 sentence description of the wine varietal: %s. Focus on its typical characteristics and origin.`

// QuestionSupply feeds both runners: a fixed pool plus external generation.
type QuestionSupply struct {
	pool      []domain.Question
	intn      questions.IntN
	generator TextGenerator
	cache     ElaborationCache
}

// NewQuestionSupply builds a supply over pool. generator and cache may be nil,
// in which case generation reports ErrGenerationFailed and elaborations are not cached.
func NewQuestionSupply(pool []domain.Question, generator TextGenerator, cache ElaborationCache) *QuestionSupply {
	return &QuestionSupply{pool: pool, generator: generator, cache: cache}
}

// WithRand swaps the random source; tests use it for deterministic draws.
func (s *QuestionSupply) WithRand(intn questions.IntN) *QuestionSupply {
	s.intn = intn
	return s
}

// SampleTen draws a fresh set of questions.DrawSize distinct questions.
func (s *QuestionSupply) SampleTen() []domain.Question {
	return questions.Sample(s.intn, s.pool, questions.DrawSize)
}

// RequestGenerated asks the text service for one question on topic. Any
// transport failure, malformed payload or invariant violation yields ErrGenerationFailed.
func (s *QuestionSupply) RequestGenerated(ctx context.Context, topic string) (domain.Question, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return domain.Question{}, fmt.Errorf("%w: topic is required", domain.ErrGenerationFailed)
	}
	if s.generator == nil {
		return domain.Question{}, fmt.Errorf("%w: generation is not configured", domain.ErrGenerationFailed)
	}

	text, err := s.generator.Generate(ctx, fmt.Sprintf(questionPrompt, topic), questionSchema)
	if err != nil {
		return domain.Question{}, fmt.Errorf("%w: %v", domain.ErrGenerationFailed, err)
	}
	return decodeGeneratedQuestion(text)
}

// Elaborate returns a short generated description of a varietal.
func (s *QuestionSupply) Elaborate(ctx context.Context, varietal string) (string, error) {
	varietal = strings.TrimSpace(varietal)
	if varietal == "" {
		return "", fmt.Errorf("%w: varietal is required", domain.ErrGenerationFailed)
	}
	if s.generator == nil {
		return "", fmt.Errorf("%w: generation is not configured", domain.ErrGenerationFailed)
	}

	load := func(ctx context.Context) (string, error) {
		text, err := s.generator.Generate(ctx, fmt.Sprintf(varietalPrompt, varietal), nil)
		if err != nil {
			return "", fmt.Errorf("%w: %v", domain.ErrGenerationFailed, err)
		}
		text = strings.TrimSpace(text)
		if text == "" {
			return "", fmt.Errorf("%w: empty elaboration", domain.ErrGenerationFailed)
		}
		return text, nil
	}
	if s.cache == nil {
		return load(ctx)
	}
	return s.cache.Get(ctx, strings.ToLower(varietal), load)
}

func decodeGeneratedQuestion(text string) (domain.Question, error) {
	var q domain.Question
	dec := json.NewDecoder(strings.NewReader(cleanJSONContent(text)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&q); err != nil {
		return domain.Question{}, fmt.Errorf("%w: invalid JSON: %v", domain.ErrGenerationFailed, err)
	}
	q.Question = strings.TrimSpace(q.Question)
	q.Explanation = strings.TrimSpace(q.Explanation)
	if err := q.Validate(); err != nil {
		if errors.Is(err, domain.ErrInvalidQuestion) {
			return domain.Question{}, fmt.Errorf("%w: %v", domain.ErrGenerationFailed, err)
		}
		return domain.Question{}, err
	}
	return q, nil
}

// cleanJSONContent strips markdown code fences some models wrap JSON in.
func cleanJSONContent(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	return strings.TrimSpace(content)
}
