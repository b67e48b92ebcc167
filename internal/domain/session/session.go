// Package session models the authenticated identity the client acts as.
package session

import (
	"errors"
	"time"
)

var ErrNoSession = errors.New("no authenticated session")

// User is the identity behind a session.
type User struct {
	ID    string `json:"id" yaml:"id"`
	Email string `json:"email" yaml:"email"`
	Role  string `json:"role" yaml:"role"`
}

// Session is an ownership-scoped credential. Services receive it explicitly
// and never mutate it.
type Session struct {
	User         User      `json:"user" yaml:"user"`
	AccessToken  string    `json:"access_token" yaml:"access_token"`
	RefreshToken string    `json:"refresh_token" yaml:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at" yaml:"expires_at"`
}

// UserID returns the authenticated user's identifier, empty for a nil session.
func (s *Session) UserID() string {
	if s == nil {
		return ""
	}
	return s.User.ID
}

// Valid reports whether the session carries an identity and an unexpired token.
func (s *Session) Valid(now time.Time) bool {
	return s != nil && s.User.ID != "" && s.AccessToken != "" && now.Before(s.ExpiresAt)
}

// ExpiresWithin reports whether the access token expires in less than d.
func (s *Session) ExpiresWithin(now time.Time, d time.Duration) bool {
	return s == nil || s.ExpiresAt.Sub(now) < d
}

// Clone returns a copy safe to hand out to readers.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	cp := *s
	return &cp
}

// AuthEventType enumerates backend-driven auth change events.
type AuthEventType string

const (
	EventSignedIn       AuthEventType = "SIGNED_IN"
	EventTokenRefreshed AuthEventType = "TOKEN_REFRESHED"
	EventSignedOut      AuthEventType = "SIGNED_OUT"
	EventUserUpdated    AuthEventType = "USER_UPDATED"
)

// AuthEvent carries the session after the change; nil for sign-out.
type AuthEvent struct {
	Type    AuthEventType
	Session *Session
}
