package app

import (
	"context"
	"strings"

	"vineyard-quiz/internal/domain"
)

// ProfileService remembers the display name of each identity.
type ProfileService struct {
	store ProfileStore
}

func NewProfileService(store ProfileStore) *ProfileService {
	return &ProfileService{store: store}
}

// SetName stores a trimmed, non-empty name for id.
func (s *ProfileService) SetName(ctx context.Context, id, name string) (domain.Profile, error) {
	name = strings.TrimSpace(name)
	if id == "" || name == "" {
		return domain.Profile{}, domain.ErrInvalidName
	}
	profile := domain.Profile{ID: id, UserName: name}
	if err := s.store.Put(ctx, profile); err != nil {
		return domain.Profile{}, err
	}
	return profile, nil
}

// Name returns the saved name or ErrProfileNotFound.
func (s *ProfileService) Name(ctx context.Context, id string) (string, error) {
	profile, err := s.store.Get(ctx, id)
	if err != nil {
		return "", err
	}
	return profile.UserName, nil
}
