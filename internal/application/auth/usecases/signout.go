package usecases

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/fitpass-app/fitpass/internal/domain/account"
	"github.com/fitpass-app/fitpass/internal/shared/biztime"
	"github.com/fitpass-app/fitpass/internal/shared/errors"
	"github.com/fitpass-app/fitpass/internal/shared/logger"
)

// Sign out scopes.
const (
	ScopeGlobal = "global"
	ScopeLocal  = "local"
)

type SignOutCommand struct {
	UserID    string
	SessionID string
	Scope     string
}

type SignOutUseCase struct {
	sessions account.SessionRepository
	logger   logger.Interface
	now      func() time.Time
}

func NewSignOutUseCase(sessions account.SessionRepository, logger logger.Interface) *SignOutUseCase {
	return &SignOutUseCase{sessions: sessions, logger: logger, now: biztime.NowUTC}
}

// Execute revokes the caller's session, or all of them for the global scope.
// Signing out an already revoked session succeeds.
func (uc *SignOutUseCase) Execute(ctx context.Context, cmd SignOutCommand) error {
	uc.logger.Infow("executing sign out use case", "user_id", cmd.UserID, "scope", cmd.Scope)

	if cmd.UserID == "" {
		return errors.NewUnauthorizedError("not signed in")
	}

	now := uc.now()
	switch cmd.Scope {
	case "", ScopeGlobal:
		return uc.sessions.RevokeAllForUser(ctx, cmd.UserID, now)
	case ScopeLocal:
	default:
		return errors.NewValidationError("invalid scope", cmd.Scope)
	}

	sess, err := uc.sessions.GetByID(ctx, cmd.SessionID)
	if err != nil {
		if stderrors.Is(err, account.ErrSessionNotFound) {
			return nil
		}
		return err
	}
	if sess.UserID != cmd.UserID {
		return errors.NewForbiddenError("session belongs to another user")
	}
	sess.Revoke(now)
	return uc.sessions.Update(ctx, sess)
}
