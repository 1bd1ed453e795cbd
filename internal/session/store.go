// Package session owns the single current platform session: it probes
// for a persisted session at startup, mirrors every platform-pushed
// transition, and fans the new value out to its own listeners
// synchronously and in subscription order.
package session

import (
	"log/slog"
	"sync"

	"github.com/komiteplus/committee-backend/internal/autherrors"
	"github.com/komiteplus/committee-backend/internal/platform"
)

type listener struct {
	id int
	fn func(*platform.Session)
}

type Store struct {
	client platform.Client

	mu        sync.Mutex
	current   *platform.Session
	listeners []listener
	nextID    int
	unsub     platform.Unsubscribe
}

func NewStore(client platform.Client) *Store {
	return &Store{client: client}
}

// Init subscribes to platform session events and probes for an
// existing session. A failed probe is absorbed and treated as signed
// out rather than crashing startup.
func (s *Store) Init() {
	s.mu.Lock()
	s.unsub = s.client.OnSessionChange(s.apply)
	s.mu.Unlock()

	sess, err := s.client.GetSession()
	if err != nil {
		slog.Error("session probe failed, treating as signed out", "error", err)
		sess = nil
	}
	s.apply(sess)
}

func (s *Store) Close() {
	s.mu.Lock()
	unsub := s.unsub
	s.unsub = nil
	s.mu.Unlock()
	if unsub != nil {
		unsub()
	}
}

// Current returns the session, or nil when signed out.
func (s *Store) Current() *platform.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// OnChange registers a listener called with the new session (or nil)
// on every transition. Listeners for a single event fire in
// subscription order.
func (s *Store) OnChange(fn func(*platform.Session)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, listener{id: id, fn: fn})
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, l := range s.listeners {
			if l.id == id {
				s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

// SignIn exchanges credentials for a session. Failures come back as
// an AuthError; the store state is only updated through the resulting
// platform event.
func (s *Store) SignIn(email, password string) (*platform.Session, error) {
	sess, err := s.client.SignInWithPassword(email, password)
	if err != nil {
		return nil, &autherrors.AuthError{Op: "sign in", Err: err}
	}
	return sess, nil
}

// SignOut clears the session. The remote call is best-effort: a
// network failure is logged, never surfaced, and local state is
// cleared regardless.
func (s *Store) SignOut() {
	if err := s.client.SignOut(); err != nil {
		slog.Error("remote sign-out failed, local session cleared anyway", "error", err)
	}
	// The platform clears its local session and announces nil even on
	// remote failure; make sure the store converges if it did not.
	s.mu.Lock()
	cleared := s.current == nil
	s.mu.Unlock()
	if !cleared {
		s.apply(nil)
	}
}

func (s *Store) apply(sess *platform.Session) {
	s.mu.Lock()
	s.current = sess
	fns := make([]func(*platform.Session), len(s.listeners))
	for i, l := range s.listeners {
		fns[i] = l.fn
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(sess)
	}
}
