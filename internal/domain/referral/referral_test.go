package referral

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFamilyInvite(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	inv, err := NewFamilyInvite("i1", "owner", "  Bia@Example.com ", "tok", now, 7*24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, "bia@example.com", inv.Email)
	assert.Equal(t, now.AddDate(0, 0, 7), inv.ExpiresAt)

	_, err = NewFamilyInvite("i2", "owner", "not-an-email", "tok", now, time.Hour)
	assert.ErrorIs(t, err, ErrInviteEmailTarget)
}

func TestFamilyInvite_Accept(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	inv, err := NewFamilyInvite("i1", "owner", "bia@example.com", "tok", now, time.Hour)
	require.NoError(t, err)

	assert.ErrorIs(t, inv.CheckAcceptable("owner", now), ErrSelfInvite)
	assert.ErrorIs(t, inv.CheckAcceptable("bia", now.Add(2*time.Hour)), ErrInviteExpired)

	require.NoError(t, inv.Accept("bia", now.Add(time.Minute)))
	require.NotNil(t, inv.AcceptedBy)
	assert.Equal(t, "bia", *inv.AcceptedBy)

	assert.ErrorIs(t, inv.Accept("caio", now.Add(2*time.Minute)), ErrInviteUsed)
}
