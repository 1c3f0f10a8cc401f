package app

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"

	"vineyard-quiz/internal/domain"
)

const (
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	// CodeLength is the number of letters in a game code.
	CodeLength = 4
	// MaxAllocationAttempts bounds how many taken candidates Allocate tolerates.
	MaxAllocationAttempts = 100
)

// GenerateCode draws CodeLength independent uniform letters.
func GenerateCode() string {
	var b strings.Builder
	b.Grow(CodeLength)
	for i := 0; i < CodeLength; i++ {
		b.WriteByte(codeAlphabet[rand.IntN(len(codeAlphabet))])
	}
	return b.String()
}

// NormalizeCode uppercases a user-entered code and checks its shape.
func NormalizeCode(raw string) (string, error) {
	code := strings.ToUpper(strings.TrimSpace(raw))
	if len(code) != CodeLength {
		return "", domain.ErrInvalidCode
	}
	for i := 0; i < len(code); i++ {
		if code[i] < 'A' || code[i] > 'Z' {
			return "", domain.ErrInvalidCode
		}
	}
	return code, nil
}

// Directory hands out session codes that are free at allocation time.
type Directory struct {
	store       SessionStore
	generate    func() string
	maxAttempts int
}

func NewDirectory(store SessionStore) *Directory {
	return NewDirectoryWithGenerator(store, GenerateCode)
}

// NewDirectoryWithGenerator lets tests control the candidate sequence.
func NewDirectoryWithGenerator(store SessionStore, generate func() string) *Directory {
	return &Directory{store: store, generate: generate, maxAttempts: MaxAllocationAttempts}
}

// Allocate returns the first generated code not present in the store.
func (d *Directory) Allocate(ctx context.Context) (string, error) {
	for attempt := 0; attempt < d.maxAttempts; attempt++ {
		code := d.generate()
		exists, err := d.store.Exists(ctx, code)
		if err != nil {
			if errors.Is(err, domain.ErrStoreUnavailable) {
				return "", err
			}
			return "", fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
		}
		if !exists {
			return code, nil
		}
	}
	return "", domain.ErrAllocationExhausted
}
