package usecases

import (
	"context"
	stderrors "errors"
	"net/mail"
	"time"

	"github.com/fitpass-app/fitpass/internal/domain/account"
	"github.com/fitpass-app/fitpass/internal/domain/profile"
	"github.com/fitpass-app/fitpass/internal/shared/biztime"
	"github.com/fitpass-app/fitpass/internal/shared/db"
	"github.com/fitpass-app/fitpass/internal/shared/errors"
	"github.com/fitpass-app/fitpass/internal/shared/id"
	"github.com/fitpass-app/fitpass/internal/shared/logger"
)

type SignUpCommand struct {
	Email     string
	Password  string
	FullName  string
	UserAgent string
}

// SignUpUseCase registers an account, creates its member profile and signs
// it in.
type SignUpUseCase struct {
	accounts   account.Repository
	profiles   profile.Repository
	hasher     PasswordHasher
	issuer     sessionIssuer
	transactor db.Transactor
	logger     logger.Interface
	now        func() time.Time
}

func NewSignUpUseCase(
	accounts account.Repository,
	sessions account.SessionRepository,
	profiles profile.Repository,
	hasher PasswordHasher,
	tokens TokenIssuer,
	transactor db.Transactor,
	logger logger.Interface,
) *SignUpUseCase {
	return &SignUpUseCase{
		accounts:   accounts,
		profiles:   profiles,
		hasher:     hasher,
		issuer:     sessionIssuer{sessions: sessions, tokens: tokens},
		transactor: transactor,
		logger:     logger,
		now:        biztime.NowUTC,
	}
}

func (uc *SignUpUseCase) Execute(ctx context.Context, cmd SignUpCommand) (*AuthResult, error) {
	email := account.NormalizeEmail(cmd.Email)
	uc.logger.Infow("executing sign up use case", "email", email)

	if err := validateCredentials(email, cmd.Password); err != nil {
		return nil, err
	}

	hash, err := uc.hasher.Hash(cmd.Password)
	if err != nil {
		uc.logger.Errorw("failed to hash password", "error", err)
		return nil, errors.NewInternalError("failed to register user")
	}

	now := uc.now()
	acc := &account.Account{
		ID:           id.NewUUID(),
		Email:        email,
		PasswordHash: hash,
		Role:         profile.RoleMember,
		LastSignInAt: &now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	var result *AuthResult
	err = uc.transactor.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := uc.accounts.Create(txCtx, acc); err != nil {
			return err
		}
		p := &profile.Profile{
			ID:             acc.ID,
			Email:          email,
			FullName:       cmd.FullName,
			Role:           profile.RoleMember,
			OnboardingStep: profile.StepProfile,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := uc.profiles.Create(txCtx, p); err != nil {
			return err
		}
		pair, err := uc.issuer.open(txCtx, acc, cmd.UserAgent, now)
		if err != nil {
			return err
		}
		result = &AuthResult{Account: acc, Tokens: pair}
		return nil
	})
	if err != nil {
		if stderrors.Is(err, account.ErrEmailTaken) || errors.IsDuplicateError(err) {
			return nil, errors.NewConflictError("User already registered").WithPGCode(errors.CodeUniqueViolation)
		}
		uc.logger.Errorw("failed to register user", "email", email, "error", err)
		return nil, err
	}

	uc.logger.Infow("user registered", "user_id", acc.ID)
	return result, nil
}

func validateCredentials(email, password string) error {
	if email == "" || password == "" {
		return errors.NewValidationError("email and password are required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return errors.NewValidationError("invalid email address", email)
	}
	if len(password) < MinPasswordLength {
		return errors.NewValidationError("Password should be at least 6 characters")
	}
	return nil
}
