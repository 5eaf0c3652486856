package dashboard

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

const DefaultSessionTTL = 12 * time.Hour

type session struct {
	mu       sync.Mutex
	state    State
	loaded   bool
	lastSeen time.Time
}

// SessionStore keeps one State per browser session. Work on a session is
// serialised so each action runs to completion before the next starts.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*session
	init     func(ctx context.Context) State
	ttl      time.Duration
	now      func() time.Time
}

func NewSessionStore(init func(ctx context.Context) State, ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionStore{
		sessions: make(map[string]*session),
		init:     init,
		ttl:      ttl,
		now:      time.Now,
	}
}

func NewSessionID() string { return uuid.NewString() }

// Update runs fn against the session's state under the session lock and
// stores what fn returns. Unknown ids start from the init state.
func (s *SessionStore) Update(ctx context.Context, id string, fn func(State) (State, error)) (State, error) {
	sess := s.session(id)

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if !sess.loaded {
		if s.init != nil {
			sess.state = s.init(ctx)
		}
		sess.loaded = true
	}

	next, err := fn(sess.state)
	sess.state = next
	return next, err
}

// Get returns the session's state, initialising it if needed.
func (s *SessionStore) Get(ctx context.Context, id string) State {
	st, _ := s.Update(ctx, id, func(cur State) (State, error) { return cur, nil })
	return st
}

func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *SessionStore) session(id string) *session {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	sess, ok := s.sessions[id]
	if !ok {
		s.pruneLocked(now)
		sess = &session{}
		s.sessions[id] = sess
	}
	sess.lastSeen = now
	return sess
}

func (s *SessionStore) pruneLocked(now time.Time) {
	for id, sess := range s.sessions {
		if now.Sub(sess.lastSeen) > s.ttl {
			delete(s.sessions, id)
		}
	}
}
