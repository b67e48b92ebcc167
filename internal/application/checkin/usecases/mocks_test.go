package usecases

import (
	"context"
	"sync"
	"time"

	"github.com/fitpass-app/fitpass/internal/domain/academy"
	"github.com/fitpass-app/fitpass/internal/domain/checkin"
	"github.com/fitpass-app/fitpass/internal/infrastructure/ratelimit"
)

type mockCheckinRepository struct {
	CreateFunc              func(ctx context.Context, c *checkin.Checkin) error
	UpdateFunc              func(ctx context.Context, c *checkin.Checkin) error
	GetByIDFunc             func(ctx context.Context, id string) (*checkin.Checkin, error)
	FindLatestPendingFunc   func(ctx context.Context, userID string) (*checkin.Checkin, error)
	ListFunc                func(ctx context.Context, filter checkin.Filter) ([]*checkin.Checkin, error)
	ExpirePendingBeforeFunc func(ctx context.Context, cutoff time.Time) (int64, error)
	CountValidatedFunc      func(ctx context.Context, filter checkin.CountFilter) (map[string]int64, error)
}

func (m *mockCheckinRepository) Create(ctx context.Context, c *checkin.Checkin) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, c)
	}
	return nil
}

func (m *mockCheckinRepository) Update(ctx context.Context, c *checkin.Checkin) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, c)
	}
	return nil
}

func (m *mockCheckinRepository) GetByID(ctx context.Context, id string) (*checkin.Checkin, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, checkin.ErrCheckinNotFound
}

func (m *mockCheckinRepository) FindLatestPending(ctx context.Context, userID string) (*checkin.Checkin, error) {
	if m.FindLatestPendingFunc != nil {
		return m.FindLatestPendingFunc(ctx, userID)
	}
	return nil, nil
}

func (m *mockCheckinRepository) List(ctx context.Context, filter checkin.Filter) ([]*checkin.Checkin, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return nil, nil
}

func (m *mockCheckinRepository) ExpirePendingBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	if m.ExpirePendingBeforeFunc != nil {
		return m.ExpirePendingBeforeFunc(ctx, cutoff)
	}
	return 0, nil
}

func (m *mockCheckinRepository) CountValidated(ctx context.Context, filter checkin.CountFilter) (map[string]int64, error) {
	if m.CountValidatedFunc != nil {
		return m.CountValidatedFunc(ctx, filter)
	}
	return map[string]int64{}, nil
}

type mockAcademyReader struct {
	GetByIDFunc func(ctx context.Context, id string) (*academy.Academy, error)
}

func (m *mockAcademyReader) GetByID(ctx context.Context, id string) (*academy.Academy, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, academy.ErrAcademyNotFound
}

type mockRateLimiter struct {
	AllowFunc func(ctx context.Context, key string, config ratelimit.RateLimitConfig) (bool, error)
}

func (m *mockRateLimiter) Allow(ctx context.Context, key string, config ratelimit.RateLimitConfig) (bool, error) {
	if m.AllowFunc != nil {
		return m.AllowFunc(ctx, key, config)
	}
	return true, nil
}

type mockTransactor struct {
	calls int
}

func (m *mockTransactor) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	return fn(ctx)
}

type recordingMetrics struct {
	mu           sync.Mutex
	validations  []string
	reservations []string
	expired      int
}

func (m *recordingMetrics) RecordValidation(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.validations = append(m.validations, outcome)
}

func (m *recordingMetrics) RecordReservation(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reservations = append(m.reservations, outcome)
}

func (m *recordingMetrics) RecordExpired(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.expired += n
}
