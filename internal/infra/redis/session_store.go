package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"vineyard-quiz/internal/domain"
)

// SessionStore keeps each session as one JSON document and announces every
// write on a per-session channel, so several server instances can share games.
// An empty payload on the channel means the document was deleted.
//
// Keys expire after ttl. Expiry is silent: subscribers are only told about
// explicit deletes.
type SessionStore struct {
	client    *redis.Client
	namespace string
	ttl       time.Duration
}

func NewSessionStore(client *redis.Client, namespace string, ttl time.Duration) *SessionStore {
	return &SessionStore{client: client, namespace: namespace, ttl: ttl}
}

func (s *SessionStore) Create(ctx context.Context, session domain.Session) error {
	if session.Version == 0 {
		session.Version = 1
	}
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	ok, err := s.client.SetNX(ctx, sessionKey(s.namespace, session.Code), data, s.ttl).Result()
	if err != nil {
		return unavailable(err)
	}
	if !ok {
		return domain.ErrSessionExists
	}
	s.publish(ctx, session.Code, string(data))
	return nil
}

func (s *SessionStore) Get(ctx context.Context, code string) (domain.Session, error) {
	data, err := s.client.Get(ctx, sessionKey(s.namespace, code)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Session{}, domain.ErrSessionNotFound
	}
	if err != nil {
		return domain.Session{}, unavailable(err)
	}
	return decodeSession(data)
}

func (s *SessionStore) Exists(ctx context.Context, code string) (bool, error) {
	n, err := s.client.Exists(ctx, sessionKey(s.namespace, code)).Result()
	if err != nil {
		return false, unavailable(err)
	}
	return n > 0, nil
}

// Update applies the change inside WATCH/MULTI. A concurrent writer touching
// the key, or a version mismatch, surfaces as ErrVersionConflict.
func (s *SessionStore) Update(ctx context.Context, code string, version int64, update domain.SessionUpdate) (domain.Session, error) {
	key := sessionKey(s.namespace, code)
	var updated domain.Session
	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return domain.ErrSessionNotFound
		}
		if err != nil {
			return unavailable(err)
		}
		current, err := decodeSession(data)
		if err != nil {
			return err
		}
		if current.Version != version {
			return domain.ErrVersionConflict
		}
		update.Apply(&current)
		current.Version++
		next, err := json.Marshal(current)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, next, redis.KeepTTL)
			pipe.Publish(ctx, sessionChannel(s.namespace, code), string(next))
			return nil
		})
		if err != nil {
			return err
		}
		updated = current
		return nil
	}, key)
	switch {
	case err == nil:
		return updated, nil
	case errors.Is(err, redis.TxFailedErr):
		return domain.Session{}, domain.ErrVersionConflict
	case errors.Is(err, domain.ErrSessionNotFound), errors.Is(err, domain.ErrVersionConflict),
		errors.Is(err, domain.ErrStoreUnavailable):
		return domain.Session{}, err
	default:
		return domain.Session{}, unavailable(err)
	}
}

func (s *SessionStore) Delete(ctx context.Context, code string) error {
	n, err := s.client.Del(ctx, sessionKey(s.namespace, code)).Result()
	if err != nil {
		return unavailable(err)
	}
	if n > 0 {
		s.publish(ctx, code, "")
	}
	return nil
}

// Subscribe listens on the session channel before reading the current
// document so no write between the two is missed. Events older than the last
// delivered version are dropped.
func (s *SessionStore) Subscribe(ctx context.Context, code string) (<-chan domain.SessionEvent, func(), error) {
	subCtx, cancel := context.WithCancel(ctx)
	pubsub := s.client.Subscribe(subCtx, sessionChannel(s.namespace, code))
	if _, err := pubsub.Receive(subCtx); err != nil {
		cancel()
		_ = pubsub.Close()
		return nil, nil, unavailable(err)
	}

	out := make(chan domain.SessionEvent, 1)
	first := domain.SessionEvent{Code: code}
	current, err := s.Get(subCtx, code)
	switch {
	case err == nil:
		first.Session, first.Exists = current, true
	case errors.Is(err, domain.ErrSessionNotFound):
	default:
		first.Err = err
	}
	out <- first

	go func() {
		defer close(out)
		defer pubsub.Close()
		lastVersion := first.Session.Version
		msgs := pubsub.Channel()
		for {
			select {
			case <-subCtx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				ev := domain.SessionEvent{Code: code}
				if msg.Payload != "" {
					sess, err := decodeSession([]byte(msg.Payload))
					if err != nil {
						ev.Err = err
					} else if sess.Version <= lastVersion {
						continue
					} else {
						ev.Session, ev.Exists = sess, true
						lastVersion = sess.Version
					}
				} else {
					lastVersion = 0
				}
				offerLatest(out, ev)
			}
		}
	}()
	return out, cancel, nil
}

func (s *SessionStore) publish(ctx context.Context, code, payload string) {
	if err := s.client.Publish(ctx, sessionChannel(s.namespace, code), payload).Err(); err != nil {
		log.Printf("publish session %s: %v", code, err)
	}
}

// offerLatest replaces a pending event so slow readers only see the newest.
func offerLatest(ch chan domain.SessionEvent, ev domain.SessionEvent) {
	select {
	case ch <- ev:
	default:
		select {
		case <-ch:
		default:
		}
		ch <- ev
	}
}

func decodeSession(data []byte) (domain.Session, error) {
	var sess domain.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return domain.Session{}, fmt.Errorf("decode session: %w", err)
	}
	if sess.Players == nil {
		sess.Players = []domain.Player{}
	}
	return sess, nil
}
