package usecases

import (
	"time"

	"github.com/fitpass-app/fitpass/internal/domain/account"
	"github.com/fitpass-app/fitpass/internal/infrastructure/auth"
)

type TokenIssuer interface {
	Generate(id auth.Identity) (*auth.TokenPair, error)
	VerifyRefresh(token string) (*auth.Claims, error)
	RefreshTTL() time.Duration
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) error
	NeedsRehash(hash string) bool
}

// MinPasswordLength matches the hosted auth default.
const MinPasswordLength = 6

// AuthResult is a signed-in account with its token pair.
type AuthResult struct {
	Account *account.Account
	Tokens  *auth.TokenPair
}
