package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"vineyard-quiz/internal/domain"
)

// notifyChannel carries change notices for every namespace. Payloads only
// name the row; listeners re-read the document since NOTIFY is capped at 8000 bytes.
const notifyChannel = "game_sessions"

type changeNotice struct {
	Namespace string `json:"namespace"`
	Code      string `json:"code"`
	Version   int64  `json:"version"`
	Deleted   bool   `json:"deleted,omitempty"`
}

// SessionStore keeps sessions as JSONB rows with a version column used for
// compare-and-swap, and fans changes out with LISTEN/NOTIFY.
type SessionStore struct {
	pool      *pgxpool.Pool
	namespace string
}

func NewSessionStore(pool *pgxpool.Pool, namespace string) *SessionStore {
	return &SessionStore{pool: pool, namespace: namespace}
}

func (s *SessionStore) Create(ctx context.Context, session domain.Session) error {
	if session.Version == 0 {
		session.Version = 1
	}
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return s.pool.BeginFunc(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
INSERT INTO game_sessions (namespace, code, data, version, created_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (namespace, code) DO NOTHING`,
			s.namespace, session.Code, data, session.Version, session.CreatedAt)
		if err != nil {
			return unavailable(err)
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrSessionExists
		}
		return s.notify(ctx, tx, changeNotice{Code: session.Code, Version: session.Version})
	})
}

func (s *SessionStore) Get(ctx context.Context, code string) (domain.Session, error) {
	return s.get(ctx, s.pool, code, "")
}

func (s *SessionStore) Exists(ctx context.Context, code string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM game_sessions WHERE namespace=$1 AND code=$2)`,
		s.namespace, code).Scan(&exists)
	if err != nil {
		return false, unavailable(err)
	}
	return exists, nil
}

// Update locks the row, checks the version and writes the merged document
// in one transaction.
func (s *SessionStore) Update(ctx context.Context, code string, version int64, update domain.SessionUpdate) (domain.Session, error) {
	var updated domain.Session
	err := s.pool.BeginFunc(ctx, func(tx pgx.Tx) error {
		current, err := s.get(ctx, tx, code, " FOR UPDATE")
		if err != nil {
			return err
		}
		if current.Version != version {
			return domain.ErrVersionConflict
		}
		update.Apply(&current)
		current.Version++
		data, err := json.Marshal(current)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `
UPDATE game_sessions SET data=$1, version=$2, updated_at=now()
WHERE namespace=$3 AND code=$4`,
			data, current.Version, s.namespace, code); err != nil {
			return unavailable(err)
		}
		updated = current
		return s.notify(ctx, tx, changeNotice{Code: code, Version: current.Version})
	})
	if err != nil {
		return domain.Session{}, err
	}
	return updated, nil
}

func (s *SessionStore) Delete(ctx context.Context, code string) error {
	return s.pool.BeginFunc(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM game_sessions WHERE namespace=$1 AND code=$2`, s.namespace, code)
		if err != nil {
			return unavailable(err)
		}
		if tag.RowsAffected() == 0 {
			return nil
		}
		return s.notify(ctx, tx, changeNotice{Code: code, Deleted: true})
	})
}

// Reap deletes sessions created before now minus retention and tells listeners.
func (s *SessionStore) Reap(ctx context.Context, retention time.Duration) (int, error) {
	reaped := 0
	err := s.pool.BeginFunc(ctx, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, `
DELETE FROM game_sessions WHERE namespace=$1 AND created_at < $2
RETURNING code`, s.namespace, time.Now().Add(-retention))
		if err != nil {
			return unavailable(err)
		}
		var codes []string
		for rows.Next() {
			var code string
			if err := rows.Scan(&code); err != nil {
				rows.Close()
				return err
			}
			codes = append(codes, code)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return unavailable(err)
		}
		for _, code := range codes {
			if err := s.notify(ctx, tx, changeNotice{Code: code, Deleted: true}); err != nil {
				return err
			}
		}
		reaped = len(codes)
		return nil
	})
	return reaped, err
}

// RunReaper calls Reap every interval until ctx is done.
func (s *SessionStore) RunReaper(ctx context.Context, retention, interval time.Duration) {
	if retention <= 0 || interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n, err := s.Reap(ctx, retention); err != nil {
				log.Printf("reap sessions: %v", err)
			} else if n > 0 {
				log.Printf("reaped %d sessions", n)
			}
		}
	}
}

// Subscribe holds one pooled connection in LISTEN mode for the lifetime of
// the subscription.
func (s *SessionStore) Subscribe(ctx context.Context, code string) (<-chan domain.SessionEvent, func(), error) {
	subCtx, cancel := context.WithCancel(ctx)
	conn, err := s.pool.Acquire(subCtx)
	if err != nil {
		cancel()
		return nil, nil, unavailable(err)
	}
	if _, err := conn.Exec(subCtx, "LISTEN "+notifyChannel); err != nil {
		conn.Release()
		cancel()
		return nil, nil, unavailable(err)
	}

	out := make(chan domain.SessionEvent, 1)
	first := s.snapshot(subCtx, code)
	out <- first

	go func() {
		defer close(out)
		defer releaseListener(conn)
		lastVersion := first.Session.Version
		for {
			n, err := conn.Conn().WaitForNotification(subCtx)
			if err != nil {
				if subCtx.Err() == nil {
					offerLatest(out, domain.SessionEvent{Code: code, Err: unavailable(err)})
				}
				return
			}
			var notice changeNotice
			if err := json.Unmarshal([]byte(n.Payload), &notice); err != nil {
				continue
			}
			if notice.Namespace != s.namespace || notice.Code != code {
				continue
			}
			if notice.Deleted {
				lastVersion = 0
				offerLatest(out, domain.SessionEvent{Code: code})
				continue
			}
			if notice.Version <= lastVersion {
				continue
			}
			ev := s.snapshot(subCtx, code)
			if ev.Exists {
				lastVersion = ev.Session.Version
			}
			offerLatest(out, ev)
		}
	}()
	return out, cancel, nil
}

func (s *SessionStore) snapshot(ctx context.Context, code string) domain.SessionEvent {
	ev := domain.SessionEvent{Code: code}
	sess, err := s.Get(ctx, code)
	switch {
	case err == nil:
		ev.Session, ev.Exists = sess, true
	case errors.Is(err, domain.ErrSessionNotFound):
	default:
		ev.Err = err
	}
	return ev
}

type querier interface {
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

func (s *SessionStore) get(ctx context.Context, q querier, code, lock string) (domain.Session, error) {
	var raw []byte
	var version int64
	err := q.QueryRow(ctx,
		`SELECT data, version FROM game_sessions WHERE namespace=$1 AND code=$2`+lock,
		s.namespace, code).Scan(&raw, &version)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Session{}, domain.ErrSessionNotFound
	}
	if err != nil {
		return domain.Session{}, unavailable(err)
	}
	var sess domain.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return domain.Session{}, fmt.Errorf("unmarshal session: %w", err)
	}
	sess.Version = version
	if sess.Players == nil {
		sess.Players = []domain.Player{}
	}
	return sess, nil
}

func (s *SessionStore) notify(ctx context.Context, tx pgx.Tx, notice changeNotice) error {
	notice.Namespace = s.namespace
	payload, err := json.Marshal(notice)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `SELECT pg_notify($1, $2)`, notifyChannel, string(payload)); err != nil {
		return unavailable(err)
	}
	return nil
}

// releaseListener returns the connection without its LISTEN registration, or
// closes it when that cannot be undone.
func releaseListener(conn *pgxpool.Conn) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := conn.Exec(ctx, "UNLISTEN *"); err != nil {
		_ = conn.Conn().Close(ctx)
	}
	conn.Release()
}

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

func unavailable(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return fmt.Errorf("%w: %s (%s)", domain.ErrStoreUnavailable, pgErr.Message, pgErr.Code)
	}
	return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
}
