package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"vineyard-quiz/internal/domain"
)

// ProfileStore persists display names in a local SQLite file, for single-node
// deployments that keep sessions in memory but want names to survive restarts.
type ProfileStore struct {
	db *sql.DB
}

func NewProfileStore(path string) (*ProfileStore, error) {
	if strings.TrimSpace(path) == "" {
		path = "profiles.db"
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`PRAGMA busy_timeout = 5000;`); err != nil {
		_ = db.Close()
		return nil, err
	}

	store := &ProfileStore{db: db}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *ProfileStore) Close() error {
	return s.db.Close()
}

func (s *ProfileStore) initSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS profiles (
		user_id TEXT PRIMARY KEY,
		user_name TEXT NOT NULL,
		updated_at_unix INTEGER NOT NULL
	);`)
	return err
}

func (s *ProfileStore) Get(ctx context.Context, id string) (domain.Profile, error) {
	p := domain.Profile{ID: id}
	err := s.db.QueryRowContext(ctx, `SELECT user_name FROM profiles WHERE user_id = ?`, id).Scan(&p.UserName)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Profile{}, domain.ErrProfileNotFound
	}
	if err != nil {
		return domain.Profile{}, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return p, nil
}

func (s *ProfileStore) Put(ctx context.Context, profile domain.Profile) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO profiles (user_id, user_name, updated_at_unix) VALUES (?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET user_name = excluded.user_name, updated_at_unix = excluded.updated_at_unix`,
		profile.ID, profile.UserName, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return nil
}
