package usecases

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitpass-app/fitpass/internal/domain/academy"
	"github.com/fitpass-app/fitpass/internal/domain/checkin"
	"github.com/fitpass-app/fitpass/internal/infrastructure/ratelimit"
	apperrors "github.com/fitpass-app/fitpass/internal/shared/errors"
	"github.com/fitpass-app/fitpass/internal/shared/logger"
)

// academyAt sits on Avenida Paulista.
var academyAt = &academy.Academy{ID: "a1", Name: "Paulista Gym", Latitude: -23.561414, Longitude: -46.655881}

func pendingCheckin(t *testing.T, userID string) *checkin.Checkin {
	t.Helper()
	c, err := checkin.NewCheckin("c1", userID, "a1")
	require.NoError(t, err)
	return c
}

type validateFixture struct {
	repo    *mockCheckinRepository
	limiter *mockRateLimiter
	metrics *recordingMetrics
	tx      *mockTransactor
	stored  *checkin.Checkin
	uc      *ValidateCheckinUseCase
}

func newValidateFixture(t *testing.T, c *checkin.Checkin) *validateFixture {
	f := &validateFixture{
		limiter: &mockRateLimiter{},
		metrics: &recordingMetrics{},
		tx:      &mockTransactor{},
	}
	f.repo = &mockCheckinRepository{
		GetByIDFunc: func(_ context.Context, id string) (*checkin.Checkin, error) {
			if c == nil || id != c.ID() {
				return nil, checkin.ErrCheckinNotFound
			}
			return c, nil
		},
		UpdateFunc: func(_ context.Context, c *checkin.Checkin) error {
			f.stored = c
			return nil
		},
	}
	academies := &mockAcademyReader{GetByIDFunc: func(context.Context, string) (*academy.Academy, error) {
		return academyAt, nil
	}}
	f.uc = NewValidateCheckinUseCase(f.repo, academies, f.tx, f.limiter, f.metrics,
		ValidateCheckinConfig{DefaultRadiusMeters: 100, ValidationsPerHour: 30}, logger.NewNopLogger())
	return f
}

func TestValidateCheckin_InsideGeofence(t *testing.T) {
	f := newValidateFixture(t, pendingCheckin(t, "u1"))

	res, err := f.uc.Execute(context.Background(), ValidateCheckinCommand{
		CheckinID: "c1", UserID: "u1", CallerID: "u1",
		Latitude: -23.561500, Longitude: -46.655900,
	})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Empty(t, res.Message)

	require.NotNil(t, f.stored)
	assert.Equal(t, checkin.StatusValidated, f.stored.Status())
	require.NotNil(t, f.stored.DistanceMeters())
	assert.Less(t, *f.stored.DistanceMeters(), 20.0)
	assert.Equal(t, 1, f.tx.calls)
	assert.Equal(t, []string{OutcomeAccepted}, f.metrics.validations)
}

func TestValidateCheckin_TooFar(t *testing.T) {
	f := newValidateFixture(t, pendingCheckin(t, "u1"))

	// about 1.1 km north
	res, err := f.uc.Execute(context.Background(), ValidateCheckinCommand{
		CheckinID: "c1", UserID: "u1", CallerID: "u1",
		Latitude: -23.551414, Longitude: -46.655881,
	})
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, checkin.RejectionTooFar, res.Message)

	require.NotNil(t, f.stored)
	assert.Equal(t, checkin.StatusPending, f.stored.Status())
	assert.InDelta(t, 1112, *f.stored.DistanceMeters(), 5)
	assert.Equal(t, []string{OutcomeTooFar}, f.metrics.validations)
}

func TestValidateCheckin_StructuredRejections(t *testing.T) {
	validated := pendingCheckin(t, "u1")
	require.NoError(t, validated.Validate())
	expired := pendingCheckin(t, "u1")
	require.NoError(t, expired.Expire())

	tests := []struct {
		name    string
		stored  *checkin.Checkin
		cmd     ValidateCheckinCommand
		success bool
		message string
		outcome string
	}{
		{
			name:    "already validated is idempotent",
			stored:  validated,
			cmd:     ValidateCheckinCommand{CheckinID: "c1", UserID: "u1", CallerID: "u1"},
			success: true,
			outcome: OutcomeIdempotent,
		},
		{
			name:    "expired",
			stored:  expired,
			cmd:     ValidateCheckinCommand{CheckinID: "c1", UserID: "u1", CallerID: "u1"},
			message: MessageNotPending,
			outcome: OutcomeNotPending,
		},
		{
			name:    "unknown check-in",
			stored:  nil,
			cmd:     ValidateCheckinCommand{CheckinID: "c1", UserID: "u1", CallerID: "u1"},
			message: MessageNotFound,
			outcome: OutcomeNotFound,
		},
		{
			name:    "check-in of another user",
			stored:  pendingCheckin(t, "u2"),
			cmd:     ValidateCheckinCommand{CheckinID: "c1", UserID: "u1", CallerID: "u1"},
			message: MessageForeign,
			outcome: OutcomeForeign,
		},
		{
			name:    "caller impersonating another user",
			stored:  pendingCheckin(t, "u2"),
			cmd:     ValidateCheckinCommand{CheckinID: "c1", UserID: "u2", CallerID: "u1", CallerRole: "member"},
			message: MessageForeign,
			outcome: OutcomeForeign,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newValidateFixture(t, tt.stored)
			tt.cmd.Latitude, tt.cmd.Longitude = academyAt.Latitude, academyAt.Longitude

			res, err := f.uc.Execute(context.Background(), tt.cmd)
			require.NoError(t, err)
			assert.Equal(t, tt.success, res.Success)
			assert.Equal(t, tt.message, res.Message)
			assert.Nil(t, f.stored, "nothing is written")
			assert.Equal(t, []string{tt.outcome}, f.metrics.validations)
		})
	}
}

func TestValidateCheckin_SuperadminMayValidateForUser(t *testing.T) {
	f := newValidateFixture(t, pendingCheckin(t, "u2"))
	res, err := f.uc.Execute(context.Background(), ValidateCheckinCommand{
		CheckinID: "c1", UserID: "u2", CallerID: "admin", CallerRole: "superadmin",
		Latitude: academyAt.Latitude, Longitude: academyAt.Longitude,
	})
	require.NoError(t, err)
	assert.True(t, res.Success)
}

func TestValidateCheckin_InvalidInput(t *testing.T) {
	f := newValidateFixture(t, pendingCheckin(t, "u1"))

	_, err := f.uc.Execute(context.Background(), ValidateCheckinCommand{UserID: "u1", CallerID: "u1"})
	assert.True(t, apperrors.IsValidationError(err))

	_, err = f.uc.Execute(context.Background(), ValidateCheckinCommand{
		CheckinID: "c1", UserID: "u1", CallerID: "u1", Latitude: 91,
	})
	assert.True(t, apperrors.IsValidationError(err))
}

func TestValidateCheckin_RateLimited(t *testing.T) {
	f := newValidateFixture(t, pendingCheckin(t, "u1"))
	var gotKey string
	var gotConfig ratelimit.RateLimitConfig
	f.limiter.AllowFunc = func(_ context.Context, key string, config ratelimit.RateLimitConfig) (bool, error) {
		gotKey, gotConfig = key, config
		return false, nil
	}

	_, err := f.uc.Execute(context.Background(), ValidateCheckinCommand{
		CheckinID: "c1", UserID: "u1", CallerID: "u1",
		Latitude: academyAt.Latitude, Longitude: academyAt.Longitude,
	})
	appErr := apperrors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, 429, appErr.Code)
	assert.Equal(t, "validate_checkin:u1", gotKey)
	assert.Equal(t, 30, gotConfig.RequestsPerHour)
	assert.Zero(t, f.tx.calls)
}

func TestValidateCheckin_LimiterFailureDoesNotBlock(t *testing.T) {
	f := newValidateFixture(t, pendingCheckin(t, "u1"))
	f.limiter.AllowFunc = func(context.Context, string, ratelimit.RateLimitConfig) (bool, error) {
		return false, errors.New("redis down")
	}

	res, err := f.uc.Execute(context.Background(), ValidateCheckinCommand{
		CheckinID: "c1", UserID: "u1", CallerID: "u1",
		Latitude: academyAt.Latitude, Longitude: academyAt.Longitude,
	})
	require.NoError(t, err)
	assert.True(t, res.Success)
}

func TestValidateCheckin_RepositoryFailure(t *testing.T) {
	f := newValidateFixture(t, pendingCheckin(t, "u1"))
	f.repo.UpdateFunc = func(context.Context, *checkin.Checkin) error { return errors.New("disk full") }

	_, err := f.uc.Execute(context.Background(), ValidateCheckinCommand{
		CheckinID: "c1", UserID: "u1", CallerID: "u1",
		Latitude: academyAt.Latitude, Longitude: academyAt.Longitude,
	})
	assert.ErrorContains(t, err, "disk full")
	assert.Empty(t, f.metrics.validations)
}

func TestExpireStaleCheckins(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	var cutoff time.Time
	repo := &mockCheckinRepository{ExpirePendingBeforeFunc: func(_ context.Context, c time.Time) (int64, error) {
		cutoff = c
		return 3, nil
	}}
	metrics := &recordingMetrics{}
	uc := NewExpireStaleCheckinsUseCase(repo, 0, metrics, logger.NewNopLogger())
	uc.now = func() time.Time { return now }

	n, err := uc.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, now.Add(-DefaultPendingTTL), cutoff)
	assert.Equal(t, 3, metrics.expired)

	repo.ExpirePendingBeforeFunc = func(context.Context, time.Time) (int64, error) { return 0, errors.New("boom") }
	_, err = uc.Execute(context.Background())
	assert.Error(t, err)
}

func TestReserveCheckin(t *testing.T) {
	metrics := &recordingMetrics{}
	var created *checkin.Checkin
	repo := &mockCheckinRepository{CreateFunc: func(_ context.Context, c *checkin.Checkin) error {
		if created != nil {
			return checkin.ErrPendingExists
		}
		created = c
		return nil
	}}
	academies := &mockAcademyReader{GetByIDFunc: func(_ context.Context, id string) (*academy.Academy, error) {
		if id == "a1" {
			return academyAt, nil
		}
		return nil, academy.ErrAcademyNotFound
	}}
	uc := NewReserveCheckinUseCase(repo, academies, metrics, logger.NewNopLogger())

	c, err := uc.Execute(context.Background(), ReserveCheckinCommand{UserID: "u1", AcademyID: "a1"})
	require.NoError(t, err)
	assert.Equal(t, checkin.StatusPending, c.Status())
	assert.NotEmpty(t, c.ID())

	_, err = uc.Execute(context.Background(), ReserveCheckinCommand{UserID: "u1", AcademyID: "a1"})
	appErr := apperrors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.True(t, apperrors.IsConflictError(err))
	assert.Equal(t, "23505", appErr.PGCode)

	_, err = uc.Execute(context.Background(), ReserveCheckinCommand{UserID: "u1", AcademyID: "nope"})
	assert.True(t, apperrors.IsValidationError(err))

	_, err = uc.Execute(context.Background(), ReserveCheckinCommand{AcademyID: "a1"})
	assert.True(t, apperrors.IsValidationError(err))

	assert.Equal(t, []string{"created", "conflict"}, metrics.reservations)
}
