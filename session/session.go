// Package session holds the in-memory record of the authenticated user.
// It notifies observers synchronously whenever the held value changes.
// Nothing here survives a process restart.
package session

import (
	"time"

	"group-chat/auth"
	"group-chat/domain"
)

// Observer is invoked synchronously after every login or logout.
type Observer func()

// Session owns zero-or-one authenticated User for the lifetime of the
// running application. It is created explicitly and injected into its
// dependents; there is no package-level instance.
//
// The client runs a single event loop, so Session does no locking and is
// not safe for concurrent use.
type Session struct {
	user      *domain.User
	token     string
	observers map[int]Observer
	nextID    int
}

func New() *Session {
	return &Session{observers: make(map[int]Observer)}
}

// Login replaces the current user wholesale. Validation already happened at
// the remote boundary; none is performed here.
func (s *Session) Login(user domain.User) {
	s.LoginWithToken(user, "")
}

// LoginWithToken additionally stores the bearer token when the backend
// returned one alongside the user. An empty token is fine.
func (s *Session) LoginWithToken(user domain.User, token string) {
	s.user = &user
	s.token = token
	s.notify()
}

// Logout clears the current user, returning the application to the
// unauthenticated navigation branch.
func (s *Session) Logout() {
	s.user = nil
	s.token = ""
	s.notify()
}

func (s *Session) Current() (domain.User, bool) {
	if s.user == nil {
		return domain.User{}, false
	}
	return *s.user, true
}

// Token returns the bearer token of the current session, if any.
func (s *Session) Token() string {
	return s.token
}

// ExpiresAt reports when the session token expires, decoded client-side
// without signature verification. It is display-only and never used for
// authorization decisions. Zero time means no token or no expiry claim.
func (s *Session) ExpiresAt() time.Time {
	if s.token == "" {
		return time.Time{}
	}
	expiry, err := auth.TokenExpiry(s.token)
	if err != nil {
		return time.Time{}
	}
	return expiry
}

// Subscribe registers an observer and returns its unsubscribe function.
// Observers run synchronously during Login/Logout, in no particular order.
func (s *Session) Subscribe(fn Observer) func() {
	id := s.nextID
	s.nextID++
	s.observers[id] = fn
	return func() {
		delete(s.observers, id)
	}
}

func (s *Session) notify() {
	for _, fn := range s.observers {
		fn()
	}
}
