package redis

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"
	"vineyard-quiz/internal/domain"
)

// ProfileStore keeps one JSON profile document per identity without expiry.
type ProfileStore struct {
	client    *redis.Client
	namespace string
}

func NewProfileStore(client *redis.Client, namespace string) *ProfileStore {
	return &ProfileStore{client: client, namespace: namespace}
}

func (s *ProfileStore) Get(ctx context.Context, id string) (domain.Profile, error) {
	data, err := s.client.Get(ctx, profileKey(s.namespace, id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Profile{}, domain.ErrProfileNotFound
	}
	if err != nil {
		return domain.Profile{}, unavailable(err)
	}
	var p domain.Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return domain.Profile{}, err
	}
	return p, nil
}

func (s *ProfileStore) Put(ctx context.Context, profile domain.Profile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, profileKey(s.namespace, profile.ID), data, 0).Err(); err != nil {
		return unavailable(err)
	}
	return nil
}
