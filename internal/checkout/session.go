package checkout

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rbenali/kahina/internal/domain"
	"github.com/rbenali/kahina/internal/telemetry"
)

const defaultSessionTTL = 2 * time.Hour

// SessionStore keeps the live checkout forms, keyed by session ID. Sessions
// live in memory only: an in-progress checkout does not survive a restart,
// and a submitted or expired one is gone for good.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*session
	ttl      time.Duration
	logger   *slog.Logger
}

type session struct {
	form     *Form
	lastSeen time.Time
}

func NewSessionStore(ttl time.Duration, logger *slog.Logger) *SessionStore {
	if ttl == 0 {
		ttl = defaultSessionTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionStore{
		sessions: make(map[string]*session),
		ttl:      ttl,
		logger:   logger,
	}
}

// Create registers a form and returns its new session ID.
func (s *SessionStore) Create(form *Form) string {
	id := uuid.New().String()
	s.mu.Lock()
	s.sessions[id] = &session{form: form, lastSeen: time.Now()}
	s.mu.Unlock()
	return id
}

// Get returns the form for a session and refreshes its idle timer.
func (s *SessionStore) Get(id string) (*Form, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, domain.NotFound("session.get", "checkout session", id)
	}
	if time.Since(sess.lastSeen) > s.ttl {
		delete(s.sessions, id)
		if m := telemetry.Business; m != nil {
			m.SessionsExpired.Inc()
		}
		return nil, domain.NotFound("session.get", "checkout session", id)
	}
	sess.lastSeen = time.Now()
	return sess.form, nil
}

// Delete discards a session, typically after a successful submission.
func (s *SessionStore) Delete(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// Len returns the number of live sessions.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// StartJanitor evicts idle sessions until the context is cancelled.
func (s *SessionStore) StartJanitor(ctx context.Context, interval time.Duration) {
	if interval == 0 {
		interval = 5 * time.Minute
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.evictIdle()
			}
		}
	}()
}

func (s *SessionStore) evictIdle() {
	cutoff := time.Now().Add(-s.ttl)
	var evicted int

	s.mu.Lock()
	for id, sess := range s.sessions {
		if sess.lastSeen.Before(cutoff) {
			delete(s.sessions, id)
			evicted++
		}
	}
	s.mu.Unlock()

	if evicted > 0 {
		if m := telemetry.Business; m != nil {
			m.SessionsExpired.Add(float64(evicted))
		}
		s.logger.Info("evicted idle checkout sessions", "count", evicted)
	}
}
