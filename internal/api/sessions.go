package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"educdash/internal/dashboard"
)

// SessionCookie carries the session id.
const SessionCookie = "educdash_session"

type session struct {
	state dashboard.State
	seen  time.Time
}

// Sessions keeps the menu state of each browser session in memory.
// Idle sessions expire after the TTL.
type Sessions struct {
	mu     sync.Mutex
	ttl    time.Duration
	now    func() time.Time
	states map[string]*session
}

func NewSessions(ttl time.Duration) *Sessions {
	return &Sessions{ttl: ttl, now: time.Now, states: make(map[string]*session)}
}

// Get returns the state of id. Unknown or expired ids get the zero state.
func (s *Sessions) Get(id string) dashboard.State {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	sess, ok := s.states[id]
	if !ok || now.Sub(sess.seen) > s.ttl {
		delete(s.states, id)
		return dashboard.State{}
	}
	sess.seen = now
	return sess.state
}

// Put stores st under id and drops expired sessions.
func (s *Sessions) Put(id string, st dashboard.State) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for k, sess := range s.states {
		if now.Sub(sess.seen) > s.ttl {
			delete(s.states, k)
		}
	}
	s.states[id] = &session{state: st, seen: now}
}

// Len returns the number of live sessions.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.states)
}

// sessionID returns the request's session id, issuing a new cookie when
// the request has none or carries a malformed one.
func (s *Sessions) sessionID(c echo.Context) string {
	if cookie, err := c.Cookie(SessionCookie); err == nil {
		if id, err := uuid.Parse(cookie.Value); err == nil {
			return id.String()
		}
	}
	id := uuid.NewString()
	c.SetCookie(&http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		MaxAge:   int(s.ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}
