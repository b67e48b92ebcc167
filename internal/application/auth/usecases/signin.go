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

type SignInCommand struct {
	Email     string
	Password  string
	UserAgent string
}

type SignInUseCase struct {
	accounts account.Repository
	hasher   PasswordHasher
	issuer   sessionIssuer
	logger   logger.Interface
	now      func() time.Time
}

func NewSignInUseCase(
	accounts account.Repository,
	sessions account.SessionRepository,
	hasher PasswordHasher,
	tokens TokenIssuer,
	logger logger.Interface,
) *SignInUseCase {
	return &SignInUseCase{
		accounts: accounts,
		hasher:   hasher,
		issuer:   sessionIssuer{sessions: sessions, tokens: tokens},
		logger:   logger,
		now:      biztime.NowUTC,
	}
}

func (uc *SignInUseCase) Execute(ctx context.Context, cmd SignInCommand) (*AuthResult, error) {
	email := account.NormalizeEmail(cmd.Email)
	uc.logger.Infow("executing sign in use case", "email", email)

	if email == "" || cmd.Password == "" {
		return nil, errors.NewValidationError("email and password are required")
	}

	acc, err := uc.accounts.GetByEmail(ctx, email)
	if err != nil {
		if stderrors.Is(err, account.ErrAccountNotFound) {
			return nil, errors.NewInvalidCredentialsError()
		}
		uc.logger.Errorw("failed to get account by email", "error", err)
		return nil, err
	}
	if err := uc.hasher.Verify(cmd.Password, acc.PasswordHash); err != nil {
		uc.logger.Warnw("sign in rejected", "user_id", acc.ID)
		return nil, errors.NewInvalidCredentialsError()
	}

	uc.upgradeHash(ctx, acc, cmd.Password)

	now := uc.now()
	pair, err := uc.issuer.open(ctx, acc, cmd.UserAgent, now)
	if err != nil {
		uc.logger.Errorw("failed to open session", "user_id", acc.ID, "error", err)
		return nil, err
	}
	if err := uc.accounts.TouchSignIn(ctx, acc.ID, now); err != nil {
		uc.logger.Warnw("failed to record sign in", "user_id", acc.ID, "error", err)
	}
	acc.LastSignInAt = &now

	uc.logger.Infow("user signed in", "user_id", acc.ID)
	return &AuthResult{Account: acc, Tokens: pair}, nil
}

// upgradeHash re-hashes the password after a successful sign in when the
// configured bcrypt cost changed. Failures only cost the upgrade.
func (uc *SignInUseCase) upgradeHash(ctx context.Context, acc *account.Account, password string) {
	if !uc.hasher.NeedsRehash(acc.PasswordHash) {
		return
	}
	hash, err := uc.hasher.Hash(password)
	if err != nil {
		uc.logger.Warnw("failed to rehash password", "user_id", acc.ID, "error", err)
		return
	}
	if err := uc.accounts.UpdatePasswordHash(ctx, acc.ID, hash); err != nil {
		uc.logger.Warnw("failed to store rehashed password", "user_id", acc.ID, "error", err)
		return
	}
	acc.PasswordHash = hash
	uc.logger.Infow("password hash upgraded", "user_id", acc.ID)
}
