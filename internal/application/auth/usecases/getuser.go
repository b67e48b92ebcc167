package usecases

import (
	"context"
	stderrors "errors"

	"github.com/fitpass-app/fitpass/internal/domain/account"
	"github.com/fitpass-app/fitpass/internal/shared/errors"
	"github.com/fitpass-app/fitpass/internal/shared/logger"
)

type GetUserUseCase struct {
	accounts account.Repository
	logger   logger.Interface
}

func NewGetUserUseCase(accounts account.Repository, logger logger.Interface) *GetUserUseCase {
	return &GetUserUseCase{accounts: accounts, logger: logger}
}

func (uc *GetUserUseCase) Execute(ctx context.Context, userID string) (*account.Account, error) {
	acc, err := uc.accounts.GetByID(ctx, userID)
	if err != nil {
		if stderrors.Is(err, account.ErrAccountNotFound) {
			return nil, errors.NewUnauthorizedError("User from sub claim in JWT does not exist")
		}
		uc.logger.Errorw("failed to get user", "user_id", userID, "error", err)
		return nil, err
	}
	return acc, nil
}
