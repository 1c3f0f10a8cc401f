package app

import (
	"context"

	"vineyard-quiz/internal/domain"
)

// SessionStore abstracts the shared document store holding game sessions
// (in-memory, Redis, Postgres).
type SessionStore interface {
	// Create writes a new session; ErrSessionExists if the code is taken.
	Create(ctx context.Context, session domain.Session) error
	// Get returns the session or ErrSessionNotFound.
	Get(ctx context.Context, code string) (domain.Session, error)
	Exists(ctx context.Context, code string) (bool, error)
	// Update overwrites the set fields if the stored version still equals
	// version, returning the new document or ErrVersionConflict.
	Update(ctx context.Context, code string, version int64, update domain.SessionUpdate) (domain.Session, error)
	Delete(ctx context.Context, code string) error
	// Subscribe delivers the current document first, then every change.
	// The caller must invoke the returned cancel function to avoid leaks.
	Subscribe(ctx context.Context, code string) (<-chan domain.SessionEvent, func(), error)
}

// ProfileStore persists display names per identity.
type ProfileStore interface {
	Get(ctx context.Context, id string) (domain.Profile, error)
	Put(ctx context.Context, profile domain.Profile) error
}

// Schema is a loosely typed response schema hint for structured generation.
type Schema map[string]any

// TextGenerator turns a prompt into text. With a schema the response must be
// JSON conforming to it.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string, schema Schema) (string, error)
}

// ElaborationCache memoizes generated varietal descriptions.
type ElaborationCache interface {
	Get(ctx context.Context, key string, load func(ctx context.Context) (string, error)) (string, error)
}
