// Package account holds backend credentials and refresh-token sessions.
package account

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrEmailTaken      = errors.New("email already registered")
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionRevoked  = errors.New("session revoked or expired")
)

// Account is a registered user's credentials.
type Account struct {
	ID               string
	Email            string
	PasswordHash     string
	Role             string
	EmailConfirmedAt *time.Time
	LastSignInAt     *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// NormalizeEmail lower-cases and trims an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Session is one refresh-token lineage of an account.
type Session struct {
	ID               string
	UserID           string
	RefreshTokenHash string
	UserAgent        string
	ExpiresAt        time.Time
	RevokedAt        *time.Time
	LastActivityAt   time.Time
	CreatedAt        time.Time
}

// Active reports whether the session can still be refreshed at now.
func (s *Session) Active(now time.Time) bool {
	return s.RevokedAt == nil && now.Before(s.ExpiresAt)
}

// Rotate swaps in a new refresh token hash and extends the session.
func (s *Session) Rotate(hash string, now time.Time, ttl time.Duration) {
	s.RefreshTokenHash = hash
	s.LastActivityAt = now
	s.ExpiresAt = now.Add(ttl)
}

func (s *Session) Revoke(now time.Time) {
	if s.RevokedAt == nil {
		s.RevokedAt = &now
	}
}

type Repository interface {
	Create(ctx context.Context, a *Account) error
	GetByID(ctx context.Context, id string) (*Account, error)
	GetByEmail(ctx context.Context, email string) (*Account, error)
	TouchSignIn(ctx context.Context, id string, at time.Time) error
	UpdatePasswordHash(ctx context.Context, id, hash string) error
}

type SessionRepository interface {
	Create(ctx context.Context, s *Session) error
	GetByID(ctx context.Context, id string) (*Session, error)
	GetByRefreshHash(ctx context.Context, hash string) (*Session, error)
	Update(ctx context.Context, s *Session) error
	RevokeAllForUser(ctx context.Context, userID string, at time.Time) error
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}
