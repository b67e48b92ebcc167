package checkin

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitpass-app/fitpass/internal/domain/checkin"
	"github.com/fitpass-app/fitpass/internal/domain/session"
	"github.com/fitpass-app/fitpass/internal/shared/logger"
)

func testSession() *session.Session {
	return &session.Session{
		User:        session.User{ID: "user-1", Email: "ana@example.com", Role: "member"},
		AccessToken: "token",
		ExpiresAt:   time.Now().Add(time.Hour),
	}
}

func newTestFlow(gw *mockGateway, loc *mockLocator) *Flow {
	return NewFlow(gw, loc, stubMessages{}, logger.NewNopLogger())
}

func pendingReservation(id, academyID, academyName string) checkin.Reservation {
	return checkin.Reservation{
		ID:          id,
		UserID:      "user-1",
		AcademyID:   academyID,
		AcademyName: academyName,
		Status:      checkin.StatusPending,
		CreatedAt:   time.Now(),
	}
}

// enterPending drives a flow into pending with an adopted reservation.
func enterPending(t *testing.T, gw *mockGateway, loc *mockLocator) *Flow {
	t.Helper()
	gw.FindPendingFunc = func(ctx context.Context, sess *session.Session) (checkin.Lookup, error) {
		return checkin.Found(pendingReservation("chk-1", "academy-x", "Academy X")), nil
	}
	f := newTestFlow(gw, loc)
	step := f.Enter(context.Background(), testSession(), "academy-x")
	require.Equal(t, checkin.StatePending, step.State)
	return f
}

func TestFlow_Enter_NoPending(t *testing.T) {
	gw := &mockGateway{}
	f := newTestFlow(gw, &mockLocator{})

	step := f.Enter(context.Background(), testSession(), "academy-x")

	assert.Equal(t, checkin.StateIdle, step.State)
	assert.Nil(t, step.Reservation)
	assert.Nil(t, step.Alert)
	assert.False(t, step.NoOp)
	assert.Equal(t, 1, gw.findCalls)
}

func TestFlow_Enter_RecoversPendingForOtherAcademy(t *testing.T) {
	gw := &mockGateway{
		FindPendingFunc: func(ctx context.Context, sess *session.Session) (checkin.Lookup, error) {
			return checkin.Found(pendingReservation("chk-b", "academy-b", "Academy B")), nil
		},
	}
	f := newTestFlow(gw, &mockLocator{})

	step := f.Enter(context.Background(), testSession(), "academy-a")

	assert.Equal(t, checkin.StatePending, step.State)
	assert.Equal(t, "Academy B", step.AcademyName())
	r, ok := f.Reservation()
	require.True(t, ok)
	assert.Equal(t, "chk-b", r.ID)
}

func TestFlow_Enter_LookupErrorStaysIdle(t *testing.T) {
	gw := &mockGateway{
		FindPendingFunc: func(ctx context.Context, sess *session.Session) (checkin.Lookup, error) {
			return checkin.None(), errors.New("network unreachable")
		},
	}
	f := newTestFlow(gw, &mockLocator{})

	step := f.Enter(context.Background(), testSession(), "academy-a")

	assert.Equal(t, checkin.StateIdle, step.State)
	require.NotNil(t, step.Alert)
	assert.Equal(t, AlertTransport, step.Alert.Kind)
	assert.Equal(t, "network unreachable", step.Alert.Message)
}

func TestFlow_Enter_WithoutSession(t *testing.T) {
	gw := &mockGateway{}
	f := newTestFlow(gw, &mockLocator{})

	step := f.Enter(context.Background(), nil, "academy-a")

	assert.Equal(t, checkin.StateIdle, step.State)
	assert.Equal(t, 0, gw.findCalls)
}

func TestFlow_Reserve_CreatesPending(t *testing.T) {
	var created []string
	gw := &mockGateway{
		ReserveFunc: func(ctx context.Context, sess *session.Session, academyID string) (checkin.Reservation, error) {
			created = append(created, academyID)
			return pendingReservation("chk-1", academyID, "Academy X"), nil
		},
	}
	f := newTestFlow(gw, &mockLocator{})
	f.Enter(context.Background(), testSession(), "academy-x")

	step := f.Reserve(context.Background(), testSession(), "")

	assert.Equal(t, checkin.StatePending, step.State)
	assert.Equal(t, "Academy X", step.AcademyName())
	assert.Equal(t, []string{"academy-x"}, created)
	assert.Equal(t, checkin.StatusPending, step.Reservation.Status)
}

func TestFlow_Reserve_FailureStaysIdle(t *testing.T) {
	gw := &mockGateway{
		ReserveFunc: func(ctx context.Context, sess *session.Session, academyID string) (checkin.Reservation, error) {
			return checkin.Reservation{}, errors.New("JWT expired")
		},
	}
	f := newTestFlow(gw, &mockLocator{})

	step := f.Reserve(context.Background(), testSession(), "academy-x")

	assert.Equal(t, checkin.StateIdle, step.State)
	assert.Nil(t, step.Reservation)
	require.NotNil(t, step.Alert)
	assert.Equal(t, AlertReservation, step.Alert.Kind)
	assert.Equal(t, "JWT expired", step.Alert.Message)

	_, ok := f.Reservation()
	assert.False(t, ok)
}

func TestFlow_Reserve_Preconditions(t *testing.T) {
	tests := []struct {
		name      string
		sess      *session.Session
		academyID string
	}{
		{name: "missing academy", sess: testSession(), academyID: ""},
		{name: "missing session", sess: nil, academyID: "academy-x"},
		{name: "missing user id", sess: &session.Session{AccessToken: "t"}, academyID: "academy-x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := &mockGateway{}
			f := newTestFlow(gw, &mockLocator{})

			step := f.Reserve(context.Background(), tt.sess, tt.academyID)

			assert.True(t, step.NoOp)
			assert.Equal(t, checkin.StateIdle, step.State)
			assert.Nil(t, step.Alert)
			assert.Equal(t, 0, gw.reserveCalls)
		})
	}
}

func TestFlow_Reserve_ConflictAdoptsExisting(t *testing.T) {
	gw := &mockGateway{
		ReserveFunc: func(ctx context.Context, sess *session.Session, academyID string) (checkin.Reservation, error) {
			return checkin.Reservation{}, fmt.Errorf("insert checkin: %w", checkin.ErrPendingExists)
		},
	}
	f := newTestFlow(gw, &mockLocator{})
	f.Enter(context.Background(), testSession(), "academy-a")

	gw.FindPendingFunc = func(ctx context.Context, sess *session.Session) (checkin.Lookup, error) {
		return checkin.Found(pendingReservation("chk-b", "academy-b", "Academy B")), nil
	}
	step := f.Reserve(context.Background(), testSession(), "academy-a")

	assert.Equal(t, checkin.StatePending, step.State)
	assert.Equal(t, "Academy B", step.AcademyName())
	assert.Nil(t, step.Alert)
}

func TestFlow_AtMostOnePendingReservation(t *testing.T) {
	reserved := 0
	gw := &mockGateway{
		ReserveFunc: func(ctx context.Context, sess *session.Session, academyID string) (checkin.Reservation, error) {
			reserved++
			return pendingReservation(fmt.Sprintf("chk-%d", reserved), academyID, "Academy "+academyID), nil
		},
	}
	f := newTestFlow(gw, &mockLocator{})

	first := f.Reserve(context.Background(), testSession(), "x")
	second := f.Reserve(context.Background(), testSession(), "y")
	third := f.Reserve(context.Background(), testSession(), "z")

	assert.Equal(t, 1, reserved)
	assert.False(t, first.NoOp)
	assert.True(t, second.NoOp)
	assert.True(t, third.NoOp)
	assert.Equal(t, "chk-1", third.Reservation.ID)
	assert.Equal(t, "Academy x", third.AcademyName())
}

func TestFlow_Validate_Success(t *testing.T) {
	gw := &mockGateway{}
	rec := &recordingRecorder{}
	f := enterPending(t, gw, &mockLocator{})
	f.WithRecorder(rec)

	var gotID string
	gw.ValidateFunc = func(ctx context.Context, sess *session.Session, checkinID string, at checkin.Coordinates) checkin.Verdict {
		gotID = checkinID
		return checkin.ValidationResult{Success: true}.Verdict()
	}

	step := f.Validate(context.Background(), testSession())

	assert.Equal(t, checkin.StateSuccess, step.State)
	require.NotNil(t, step.Navigation)
	assert.Equal(t, map[string]string{"success": "true"}, step.Navigation.Params())
	assert.Equal(t, "chk-1", gotID)
	assert.Equal(t, checkin.Coordinates{Latitude: 10.0, Longitude: 20.0}, gw.lastPosition)
	assert.Equal(t, []string{OutcomeAccepted}, rec.outcomes)
}

func TestFlow_Validate_PermissionDenied(t *testing.T) {
	gw := &mockGateway{}
	loc := &mockLocator{
		RequestPermissionFunc: func(ctx context.Context) (bool, error) { return false, nil },
	}
	f := enterPending(t, gw, loc)

	step := f.Validate(context.Background(), testSession())

	assert.Equal(t, checkin.StatePending, step.State)
	require.NotNil(t, step.Alert)
	assert.Equal(t, AlertPermission, step.Alert.Kind)
	assert.Equal(t, msgPermission, step.Alert.Message)
	assert.Nil(t, step.Navigation)
	assert.Equal(t, 0, gw.ValidateCalls())
}

func TestFlow_Validate_PermissionError(t *testing.T) {
	gw := &mockGateway{}
	loc := &mockLocator{
		RequestPermissionFunc: func(ctx context.Context) (bool, error) {
			return false, errors.New("no terminal")
		},
	}
	f := enterPending(t, gw, loc)

	step := f.Validate(context.Background(), testSession())

	assert.Equal(t, checkin.StatePending, step.State)
	assert.Equal(t, AlertPermission, step.Alert.Kind)
	assert.Equal(t, 0, gw.ValidateCalls())
}

func TestFlow_Validate_LocationFailure(t *testing.T) {
	gw := &mockGateway{}
	loc := &mockLocator{
		CurrentPositionFunc: func(ctx context.Context) (checkin.Coordinates, error) {
			return checkin.Coordinates{}, errors.New("gps timeout")
		},
	}
	f := enterPending(t, gw, loc)

	step := f.Validate(context.Background(), testSession())

	assert.Equal(t, checkin.StatePending, step.State)
	assert.Equal(t, AlertLocation, step.Alert.Kind)
	assert.Equal(t, "gps timeout", step.Alert.Message)
	assert.Equal(t, 0, gw.ValidateCalls())
}

func TestFlow_Validate_RejectionMessages(t *testing.T) {
	tests := []struct {
		name    string
		reason  string
		wantMsg string
	}{
		{name: "too far", reason: "Too far from academy", wantMsg: msgTooFar},
		{name: "other reason", reason: "Check-in is not pending", wantMsg: msgGeneric},
		{name: "case differs", reason: "too far from academy", wantMsg: msgGeneric},
		{name: "empty reason", reason: "", wantMsg: msgGeneric},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := &mockGateway{}
			f := enterPending(t, gw, &mockLocator{})
			gw.ValidateFunc = func(ctx context.Context, sess *session.Session, checkinID string, at checkin.Coordinates) checkin.Verdict {
				return checkin.ValidationResult{Success: false, Message: tt.reason}.Verdict()
			}

			step := f.Validate(context.Background(), testSession())

			assert.Equal(t, checkin.StateFailure, step.State)
			require.NotNil(t, step.Navigation)
			assert.Equal(t, map[string]string{"success": "false", "message": tt.wantMsg}, step.Navigation.Params())
		})
	}
}

func TestFlow_Validate_TransportFailureStaysPending(t *testing.T) {
	gw := &mockGateway{}
	f := enterPending(t, gw, &mockLocator{})
	gw.ValidateFunc = func(ctx context.Context, sess *session.Session, checkinID string, at checkin.Coordinates) checkin.Verdict {
		return checkin.TransportFailure{Detail: "Network request failed"}
	}

	step := f.Validate(context.Background(), testSession())

	assert.Equal(t, checkin.StatePending, step.State)
	require.NotNil(t, step.Alert)
	assert.Equal(t, AlertTransport, step.Alert.Kind)
	assert.Equal(t, "Network request failed", step.Alert.Message)
	assert.Nil(t, step.Navigation)
}

func TestFlow_Validate_RetryAfterTransportFailure(t *testing.T) {
	gw := &mockGateway{}
	f := enterPending(t, gw, &mockLocator{})

	verdicts := []checkin.Verdict{
		checkin.TransportFailure{Detail: "timeout"},
		checkin.TransportFailure{Detail: "timeout"},
		checkin.Accepted{},
	}
	gw.ValidateFunc = func(ctx context.Context, sess *session.Session, checkinID string, at checkin.Coordinates) checkin.Verdict {
		v := verdicts[0]
		verdicts = verdicts[1:]
		return v
	}

	first := f.Validate(context.Background(), testSession())
	second := f.Validate(context.Background(), testSession())
	assert.Equal(t, checkin.StatePending, first.State)
	assert.Equal(t, checkin.StatePending, second.State)
	assert.Nil(t, first.Navigation)
	assert.Nil(t, second.Navigation)

	third := f.Validate(context.Background(), testSession())
	assert.Equal(t, checkin.StateSuccess, third.State)
	assert.Equal(t, 3, gw.ValidateCalls())
}

func TestFlow_Validate_Preconditions(t *testing.T) {
	gw := &mockGateway{}
	f := newTestFlow(gw, &mockLocator{})

	step := f.Validate(context.Background(), testSession())
	assert.True(t, step.NoOp)
	assert.Equal(t, checkin.StateIdle, step.State)

	f = enterPending(t, gw, &mockLocator{})
	step = f.Validate(context.Background(), nil)
	assert.True(t, step.NoOp)
	assert.Equal(t, checkin.StatePending, step.State)
	assert.Equal(t, 0, gw.ValidateCalls())
}

func TestFlow_Validate_TerminalIsFinal(t *testing.T) {
	gw := &mockGateway{}
	f := enterPending(t, gw, &mockLocator{})

	require.Equal(t, checkin.StateSuccess, f.Validate(context.Background(), testSession()).State)

	step := f.Validate(context.Background(), testSession())
	assert.True(t, step.NoOp)
	assert.Equal(t, checkin.StateSuccess, step.State)
	assert.Equal(t, 1, gw.ValidateCalls())
}

func TestFlow_Validate_InFlightGuard(t *testing.T) {
	gw := &mockGateway{}
	f := enterPending(t, gw, &mockLocator{})

	entered := make(chan struct{})
	unblock := make(chan struct{})
	gw.ValidateFunc = func(ctx context.Context, sess *session.Session, checkinID string, at checkin.Coordinates) checkin.Verdict {
		close(entered)
		<-unblock
		return checkin.Accepted{}
	}

	done := make(chan Step)
	go func() { done <- f.Validate(context.Background(), testSession()) }()

	<-entered
	assert.Equal(t, checkin.StateValidating, f.State())

	dup := f.Validate(context.Background(), testSession())
	assert.True(t, dup.NoOp)
	assert.Equal(t, checkin.StateValidating, dup.State)

	close(unblock)
	final := <-done
	assert.Equal(t, checkin.StateSuccess, final.State)
	assert.Equal(t, 1, gw.ValidateCalls())
}

func TestFlow_Validate_UnknownVerdict(t *testing.T) {
	gw := &mockGateway{}
	f := enterPending(t, gw, &mockLocator{})
	gw.ValidateFunc = func(ctx context.Context, sess *session.Session, checkinID string, at checkin.Coordinates) checkin.Verdict {
		return nil
	}

	step := f.Validate(context.Background(), testSession())

	assert.Equal(t, checkin.StatePending, step.State)
	assert.Equal(t, msgGeneric, step.Alert.Message)
}

func TestFlow_ResolvePendingReservation(t *testing.T) {
	gw := &mockGateway{
		FindPendingFunc: func(ctx context.Context, sess *session.Session) (checkin.Lookup, error) {
			return checkin.Found(pendingReservation("chk-1", "a", "A")), nil
		},
	}
	f := newTestFlow(gw, &mockLocator{})

	lookup, err := f.ResolvePendingReservation(context.Background(), testSession())
	require.NoError(t, err)
	r, ok := lookup.Found()
	assert.True(t, ok)
	assert.Equal(t, "chk-1", r.ID)
	assert.Equal(t, checkin.StateIdle, f.State())

	_, err = f.ResolvePendingReservation(context.Background(), nil)
	assert.ErrorIs(t, err, session.ErrNoSession)
}

func TestNavigation_Params(t *testing.T) {
	assert.Equal(t, map[string]string{"success": "true"}, Navigation{Success: true}.Params())
	assert.Equal(t,
		map[string]string{"success": "false", "message": "nope"},
		Navigation{Message: "nope"}.Params(),
	)
}
