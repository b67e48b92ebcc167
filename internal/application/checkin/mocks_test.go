package checkin

import (
	"context"
	"sync"

	"github.com/fitpass-app/fitpass/internal/domain/checkin"
	"github.com/fitpass-app/fitpass/internal/domain/session"
)

type mockGateway struct {
	FindPendingFunc func(ctx context.Context, sess *session.Session) (checkin.Lookup, error)
	ReserveFunc     func(ctx context.Context, sess *session.Session, academyID string) (checkin.Reservation, error)
	ValidateFunc    func(ctx context.Context, sess *session.Session, checkinID string, at checkin.Coordinates) checkin.Verdict

	mu            sync.Mutex
	findCalls     int
	reserveCalls  int
	validateCalls int
	lastPosition  checkin.Coordinates
}

func (m *mockGateway) FindPending(ctx context.Context, sess *session.Session) (checkin.Lookup, error) {
	m.mu.Lock()
	m.findCalls++
	m.mu.Unlock()
	if m.FindPendingFunc != nil {
		return m.FindPendingFunc(ctx, sess)
	}
	return checkin.None(), nil
}

func (m *mockGateway) Reserve(ctx context.Context, sess *session.Session, academyID string) (checkin.Reservation, error) {
	m.mu.Lock()
	m.reserveCalls++
	m.mu.Unlock()
	if m.ReserveFunc != nil {
		return m.ReserveFunc(ctx, sess, academyID)
	}
	return checkin.Reservation{}, nil
}

func (m *mockGateway) Validate(ctx context.Context, sess *session.Session, checkinID string, at checkin.Coordinates) checkin.Verdict {
	m.mu.Lock()
	m.validateCalls++
	m.lastPosition = at
	m.mu.Unlock()
	if m.ValidateFunc != nil {
		return m.ValidateFunc(ctx, sess, checkinID, at)
	}
	return checkin.Accepted{}
}

func (m *mockGateway) ValidateCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.validateCalls
}

type mockLocator struct {
	RequestPermissionFunc func(ctx context.Context) (bool, error)
	CurrentPositionFunc   func(ctx context.Context) (checkin.Coordinates, error)
}

func (m *mockLocator) RequestPermission(ctx context.Context) (bool, error) {
	if m.RequestPermissionFunc != nil {
		return m.RequestPermissionFunc(ctx)
	}
	return true, nil
}

func (m *mockLocator) CurrentPosition(ctx context.Context) (checkin.Coordinates, error) {
	if m.CurrentPositionFunc != nil {
		return m.CurrentPositionFunc(ctx)
	}
	return checkin.Coordinates{Latitude: 10.0, Longitude: 20.0}, nil
}

type stubMessages struct{}

const (
	msgTooFar     = "closer please"
	msgGeneric    = "could not validate"
	msgPermission = "need location"
	msgNoLocation = "no location"
)

func (stubMessages) CheckinTooFar() string         { return msgTooFar }
func (stubMessages) CheckinGenericFailure() string { return msgGeneric }
func (stubMessages) LocationPermission() string    { return msgPermission }
func (stubMessages) LocationUnavailable() string   { return msgNoLocation }

type recordingRecorder struct {
	mu       sync.Mutex
	outcomes []string
}

func (r *recordingRecorder) RecordOutcome(outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, outcome)
}
