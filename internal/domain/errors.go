package domain

import "errors"

var (
	// ErrSessionNotFound is returned when no game session exists for a code, or it vanished mid-play.
	ErrSessionNotFound = errors.New("game session not found")
	// ErrSessionExists is returned when a session is created under a code that is already taken.
	ErrSessionExists = errors.New("game session already exists")
	// ErrForbidden is returned when a non-host attempts a host-only operation.
	ErrForbidden = errors.New("only the proctor can do that")
	// ErrAllocationExhausted indicates no free session code was found within the attempt budget.
	ErrAllocationExhausted = errors.New("could not allocate a unique game code")
	// ErrGenerationFailed indicates the text service returned nothing usable.
	ErrGenerationFailed = errors.New("question generation failed")
	// ErrStoreUnavailable wraps network or backend failures of a store.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrVersionConflict is returned when a session changed between read and write.
	ErrVersionConflict = errors.New("game session was modified concurrently")
	// ErrParticipantNotFound is returned when a user tries to act before joining.
	ErrParticipantNotFound = errors.New("participant not found in game")
	// ErrInvalidQuestion indicates a question violates the four-option invariants.
	ErrInvalidQuestion = errors.New("invalid question")
	// ErrInvalidCode indicates a session code that is not four letters.
	ErrInvalidCode = errors.New("game code must be 4 letters")
	// ErrInvalidAnswer indicates an empty answer choice.
	ErrInvalidAnswer = errors.New("answer is required")
	// ErrInvalidName indicates an empty display name.
	ErrInvalidName = errors.New("name is required")
	// ErrProfileNotFound is returned when an identity has not saved a name yet.
	ErrProfileNotFound = errors.New("profile not found")
)
