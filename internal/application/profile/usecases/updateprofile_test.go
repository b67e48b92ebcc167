package usecases

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitpass-app/fitpass/internal/domain/profile"
	apperrors "github.com/fitpass-app/fitpass/internal/shared/errors"
	"github.com/fitpass-app/fitpass/internal/shared/logger"
)

func strPtr(s string) *string { return &s }

func TestUpdateProfile(t *testing.T) {
	repo := &mockProfileRepository{stored: &profile.Profile{ID: "u1", FullName: "Old", Role: profile.RoleMember}}
	uc := NewUpdateProfileUseCase(repo, logger.NewNopLogger())

	p, err := uc.Execute(context.Background(), UpdateProfileCommand{
		UserID:    "u1",
		FullName:  strPtr("  Ana Souza "),
		AvatarURL: strPtr("https://cdn.example.com/a.png"),
		Goals:     json.RawMessage(`["strength"]`),
	})
	require.NoError(t, err)
	assert.Equal(t, "Ana Souza", p.FullName)
	assert.Equal(t, "https://cdn.example.com/a.png", repo.stored.AvatarURL)
	assert.JSONEq(t, `["strength"]`, string(repo.stored.Goals))
	assert.Equal(t, profile.RoleMember, repo.stored.Role)
}

func TestUpdateProfile_Validation(t *testing.T) {
	repo := &mockProfileRepository{stored: &profile.Profile{ID: "u1"}}
	uc := NewUpdateProfileUseCase(repo, logger.NewNopLogger())

	_, err := uc.Execute(context.Background(), UpdateProfileCommand{UserID: "u1", AvatarURL: strPtr("javascript:alert(1)")})
	assert.True(t, apperrors.IsValidationError(err))

	_, err = uc.Execute(context.Background(), UpdateProfileCommand{UserID: "u1", Goals: json.RawMessage(`{`)})
	assert.True(t, apperrors.IsValidationError(err))

	_, err = uc.Execute(context.Background(), UpdateProfileCommand{UserID: "ghost", FullName: strPtr("x")})
	assert.True(t, apperrors.IsNotFoundError(err))
	assert.Zero(t, repo.updates)
}
