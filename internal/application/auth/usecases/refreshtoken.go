package usecases

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/fitpass-app/fitpass/internal/domain/account"
	"github.com/fitpass-app/fitpass/internal/infrastructure/auth"
	"github.com/fitpass-app/fitpass/internal/shared/biztime"
	"github.com/fitpass-app/fitpass/internal/shared/db"
	"github.com/fitpass-app/fitpass/internal/shared/errors"
	"github.com/fitpass-app/fitpass/internal/shared/logger"
)

type RefreshTokenCommand struct {
	RefreshToken string
}

// RefreshTokenUseCase rotates a refresh token. Each refresh token is single
// use; presenting a rotated one revokes every session of the user.
type RefreshTokenUseCase struct {
	accounts   account.Repository
	sessions   account.SessionRepository
	tokens     TokenIssuer
	transactor db.Transactor
	logger     logger.Interface
	now        func() time.Time
}

func NewRefreshTokenUseCase(
	accounts account.Repository,
	sessions account.SessionRepository,
	tokens TokenIssuer,
	transactor db.Transactor,
	logger logger.Interface,
) *RefreshTokenUseCase {
	return &RefreshTokenUseCase{
		accounts:   accounts,
		sessions:   sessions,
		tokens:     tokens,
		transactor: transactor,
		logger:     logger,
		now:        biztime.NowUTC,
	}
}

func (uc *RefreshTokenUseCase) Execute(ctx context.Context, cmd RefreshTokenCommand) (*AuthResult, error) {
	uc.logger.Infow("executing refresh token use case")

	if cmd.RefreshToken == "" {
		return nil, errors.NewValidationError("refresh_token is required")
	}
	claims, err := uc.tokens.VerifyRefresh(cmd.RefreshToken)
	if err != nil {
		return nil, errors.NewUnauthorizedError("Invalid Refresh Token")
	}

	now := uc.now()
	var result *AuthResult
	reused := false
	err = uc.transactor.RunInTransaction(ctx, func(txCtx context.Context) error {
		sess, err := uc.sessions.GetByRefreshHash(txCtx, auth.HashToken(cmd.RefreshToken))
		if err != nil {
			if stderrors.Is(err, account.ErrSessionNotFound) {
				reused = true
				return uc.sessions.RevokeAllForUser(txCtx, claims.UserID(), now)
			}
			return err
		}
		if sess.ID != claims.SessionID || sess.UserID != claims.UserID() || !sess.Active(now) {
			return account.ErrSessionRevoked
		}

		acc, err := uc.accounts.GetByID(txCtx, sess.UserID)
		if err != nil {
			return err
		}
		pair, err := uc.tokens.Generate(identityOf(acc, sess.ID))
		if err != nil {
			return err
		}
		sess.Rotate(auth.HashToken(pair.RefreshToken), now, uc.tokens.RefreshTTL())
		if err := uc.sessions.Update(txCtx, sess); err != nil {
			return err
		}
		result = &AuthResult{Account: acc, Tokens: pair}
		return nil
	})

	switch {
	case err != nil && (stderrors.Is(err, account.ErrSessionRevoked) || stderrors.Is(err, account.ErrAccountNotFound)):
		return nil, errors.NewUnauthorizedError("Invalid Refresh Token")
	case err != nil:
		uc.logger.Errorw("failed to refresh token", "user_id", claims.UserID(), "error", err)
		return nil, err
	case reused:
		uc.logger.Warnw("refresh token reuse detected, sessions revoked", "user_id", claims.UserID())
		return nil, errors.NewUnauthorizedError("Invalid Refresh Token: Already Used")
	}

	uc.logger.Infow("token refreshed", "user_id", claims.UserID(), "session_id", claims.SessionID)
	return result, nil
}
