package memory

import (
	"context"
	"sync"
	"time"

	"vineyard-quiz/internal/domain"
)

// SessionStore is an in-process implementation of app.SessionStore.
// Every write bumps Version and fans the new document out to subscribers.
type SessionStore struct {
	clock func() time.Time

	mu       sync.RWMutex
	sessions map[string]domain.Session
	subs     map[string]map[int]chan domain.SessionEvent
	nextSub  int
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		clock:    time.Now,
		sessions: make(map[string]domain.Session),
		subs:     make(map[string]map[int]chan domain.SessionEvent),
	}
}

func (s *SessionStore) Create(_ context.Context, session domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[session.Code]; ok {
		return domain.ErrSessionExists
	}
	if session.Version == 0 {
		session.Version = 1
	}
	session = session.Clone()
	s.sessions[session.Code] = session
	s.broadcastLocked(session.Code, domain.SessionEvent{Code: session.Code, Session: session.Clone(), Exists: true})
	return nil
}

func (s *SessionStore) Get(_ context.Context, code string) (domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[code]
	if !ok {
		return domain.Session{}, domain.ErrSessionNotFound
	}
	return session.Clone(), nil
}

func (s *SessionStore) Exists(_ context.Context, code string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.sessions[code]
	return ok, nil
}

func (s *SessionStore) Update(_ context.Context, code string, version int64, update domain.SessionUpdate) (domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[code]
	if !ok {
		return domain.Session{}, domain.ErrSessionNotFound
	}
	if session.Version != version {
		return domain.Session{}, domain.ErrVersionConflict
	}
	session = session.Clone()
	update.Apply(&session)
	session.Version++
	s.sessions[code] = session
	s.broadcastLocked(code, domain.SessionEvent{Code: session.Code, Session: session.Clone(), Exists: true})
	return session.Clone(), nil
}

func (s *SessionStore) Delete(_ context.Context, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleteLocked(code)
	return nil
}

func (s *SessionStore) deleteLocked(code string) {
	if _, ok := s.sessions[code]; !ok {
		return
	}
	delete(s.sessions, code)
	s.broadcastLocked(code, domain.SessionEvent{Code: code})
}

// Subscribe queues the current document (or its absence) and then every write.
// A slow reader only ever sees the newest pending event.
func (s *SessionStore) Subscribe(ctx context.Context, code string) (<-chan domain.SessionEvent, func(), error) {
	ch := make(chan domain.SessionEvent, 1)

	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	if s.subs[code] == nil {
		s.subs[code] = make(map[int]chan domain.SessionEvent)
	}
	s.subs[code][id] = ch
	if session, ok := s.sessions[code]; ok {
		ch <- domain.SessionEvent{Code: session.Code, Session: session.Clone(), Exists: true}
	} else {
		ch <- domain.SessionEvent{Code: code}
	}
	s.mu.Unlock()

	var once sync.Once
	done := make(chan struct{})
	cancel := func() {
		once.Do(func() {
			close(done)
			s.mu.Lock()
			defer s.mu.Unlock()
			if subs, ok := s.subs[code]; ok {
				delete(subs, id)
				if len(subs) == 0 {
					delete(s.subs, code)
				}
			}
			close(ch)
		})
	}
	go func() {
		select {
		case <-ctx.Done():
			cancel()
		case <-done:
		}
	}()
	return ch, cancel, nil
}

// Subscribers reports how many listeners are attached to code.
func (s *SessionStore) Subscribers(code string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subs[code])
}

// Reap deletes sessions created more than retention ago and returns how many went.
func (s *SessionStore) Reap(retention time.Duration) int {
	cutoff := s.clock().Add(-retention)
	s.mu.Lock()
	defer s.mu.Unlock()
	reaped := 0
	for code, session := range s.sessions {
		if session.CreatedAt.Before(cutoff) {
			s.deleteLocked(code)
			reaped++
		}
	}
	return reaped
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
			s.Reap(retention)
		}
	}
}

func (s *SessionStore) broadcastLocked(code string, ev domain.SessionEvent) {
	for _, ch := range s.subs[code] {
		select {
		case ch <- ev:
		default:
			// drop the stale pending event, keep the latest
			select {
			case <-ch:
			default:
			}
			ch <- ev
		}
	}
}
