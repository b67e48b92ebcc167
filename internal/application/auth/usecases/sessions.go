package usecases

import (
	"context"
	"time"

	"github.com/fitpass-app/fitpass/internal/domain/account"
	"github.com/fitpass-app/fitpass/internal/infrastructure/auth"
	"github.com/fitpass-app/fitpass/internal/shared/id"
)

// sessionIssuer opens a new refresh-token session for an account.
type sessionIssuer struct {
	sessions account.SessionRepository
	tokens   TokenIssuer
}

func (s sessionIssuer) open(ctx context.Context, acc *account.Account, userAgent string, now time.Time) (*auth.TokenPair, error) {
	sessionID := id.NewUUID()
	pair, err := s.tokens.Generate(identityOf(acc, sessionID))
	if err != nil {
		return nil, err
	}
	sess := &account.Session{
		ID:               sessionID,
		UserID:           acc.ID,
		RefreshTokenHash: auth.HashToken(pair.RefreshToken),
		UserAgent:        userAgent,
		ExpiresAt:        now.Add(s.tokens.RefreshTTL()),
		LastActivityAt:   now,
		CreatedAt:        now,
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, err
	}
	return pair, nil
}

func identityOf(acc *account.Account, sessionID string) auth.Identity {
	return auth.Identity{UserID: acc.ID, Email: acc.Email, Role: acc.Role, SessionID: sessionID}
}
