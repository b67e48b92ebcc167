// Package checkin drives the client-side check-in flow: reserve a slot at an
// academy, then confirm presence through remote geofence validation.
package checkin

import (
	"context"
	"errors"
	"sync"

	"github.com/fitpass-app/fitpass/internal/domain/checkin"
	"github.com/fitpass-app/fitpass/internal/domain/session"
	"github.com/fitpass-app/fitpass/internal/shared/logger"
)

// Outcome labels passed to the OutcomeRecorder.
const (
	OutcomeAccepted         = "accepted"
	OutcomeRejected         = "rejected"
	OutcomeTransportFailure = "transport_failure"
	OutcomePermissionDenied = "permission_denied"
)

// Flow is the check-in state machine for one screen instance.
// Operations are safe to call concurrently; while a reservation or a
// validation is in flight further calls return a NoOp step.
type Flow struct {
	gateway  ReservationGateway
	locator  Locator
	messages Messages
	recorder OutcomeRecorder
	logger   logger.Interface

	mu          sync.Mutex
	state       checkin.FlowState
	target      string
	reservation *checkin.Reservation
	busy        bool
}

// NewFlow creates a flow in the idle state.
func NewFlow(gateway ReservationGateway, locator Locator, messages Messages, log logger.Interface) *Flow {
	return &Flow{
		gateway:  gateway,
		locator:  locator,
		messages: messages,
		logger:   log,
		state:    checkin.StateIdle,
	}
}

// WithRecorder attaches an outcome recorder.
func (f *Flow) WithRecorder(r OutcomeRecorder) *Flow {
	f.recorder = r
	return f
}

// State returns the current state.
func (f *Flow) State() checkin.FlowState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Reservation returns the adopted or created reservation, if any.
func (f *Flow) Reservation() (checkin.Reservation, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.reservation == nil {
		return checkin.Reservation{}, false
	}
	return *f.reservation, true
}

// ResolvePendingReservation looks up the user's pending check-in, independent
// of the academy the user navigated to.
func (f *Flow) ResolvePendingReservation(ctx context.Context, sess *session.Session) (checkin.Lookup, error) {
	if sess.UserID() == "" {
		return checkin.None(), session.ErrNoSession
	}
	return f.gateway.FindPending(ctx, sess)
}

// Enter starts the flow for academyHint. An existing pending check-in always
// wins over the hint, whichever academy it belongs to.
func (f *Flow) Enter(ctx context.Context, sess *session.Session, academyHint string) Step {
	f.mu.Lock()
	if f.busy {
		defer f.mu.Unlock()
		return f.snapshot(true)
	}
	f.busy = true
	f.state = checkin.StateIdle
	f.target = academyHint
	f.reservation = nil
	f.mu.Unlock()

	defer f.release()

	if sess.UserID() == "" {
		return f.step(nil, nil)
	}

	lookup, err := f.gateway.FindPending(ctx, sess)
	if err != nil {
		f.logger.Warnw("failed to resolve pending check-in",
			"user_id", sess.UserID(),
			"error", err,
		)
		return f.step(&Alert{Kind: AlertTransport, Message: err.Error()}, nil)
	}

	if r, ok := lookup.Found(); ok {
		f.adopt(r)
		if academyHint != "" && academyHint != r.AcademyID {
			f.logger.Infow("adopted pending check-in for another academy",
				"checkin_id", r.ID,
				"academy_id", r.AcademyID,
				"requested_academy_id", academyHint,
			)
		}
	}
	return f.step(nil, nil)
}

// Reserve creates a pending check-in at academyID, or at the academy given to
// Enter when academyID is empty.
func (f *Flow) Reserve(ctx context.Context, sess *session.Session, academyID string) Step {
	f.mu.Lock()
	if academyID == "" {
		academyID = f.target
	}
	if f.busy || f.state != checkin.StateIdle || academyID == "" || sess.UserID() == "" {
		defer f.mu.Unlock()
		return f.snapshot(true)
	}
	f.busy = true
	f.mu.Unlock()

	defer f.release()

	r, err := f.gateway.Reserve(ctx, sess, academyID)
	if err == nil {
		f.logger.Infow("check-in reserved",
			"checkin_id", r.ID,
			"user_id", sess.UserID(),
			"academy_id", academyID,
		)
		f.adopt(r)
		return f.step(nil, nil)
	}

	if errors.Is(err, checkin.ErrPendingExists) {
		lookup, lerr := f.gateway.FindPending(ctx, sess)
		if lerr == nil {
			if existing, ok := lookup.Found(); ok {
				f.logger.Infow("reservation conflict, adopting existing pending check-in",
					"checkin_id", existing.ID,
					"user_id", sess.UserID(),
				)
				f.adopt(existing)
				return f.step(nil, nil)
			}
		}
	}

	f.logger.Warnw("failed to reserve check-in",
		"user_id", sess.UserID(),
		"academy_id", academyID,
		"error", err,
	)
	return f.step(&Alert{Kind: AlertReservation, Message: err.Error()}, nil)
}

// Validate acquires the device position and submits it for the pending
// check-in. Permission, location and transport problems keep the flow in
// pending; only a structured backend answer ends it.
func (f *Flow) Validate(ctx context.Context, sess *session.Session) Step {
	f.mu.Lock()
	if f.busy || f.state != checkin.StatePending || f.reservation == nil || f.reservation.ID == "" || sess.UserID() == "" {
		defer f.mu.Unlock()
		return f.snapshot(true)
	}
	f.busy = true
	f.state = checkin.StateValidating
	checkinID := f.reservation.ID
	f.mu.Unlock()

	defer f.release()

	granted, err := f.locator.RequestPermission(ctx)
	if err != nil || !granted {
		f.logger.Infow("location permission not granted",
			"checkin_id", checkinID,
			"error", err,
		)
		f.record(OutcomePermissionDenied)
		return f.back(&Alert{Kind: AlertPermission, Message: f.messages.LocationPermission()})
	}

	pos, err := f.locator.CurrentPosition(ctx)
	if err != nil {
		f.logger.Warnw("failed to acquire device position",
			"checkin_id", checkinID,
			"error", err,
		)
		msg := err.Error()
		if msg == "" {
			msg = f.messages.LocationUnavailable()
		}
		return f.back(&Alert{Kind: AlertLocation, Message: msg})
	}

	verdict := f.gateway.Validate(ctx, sess, checkinID, pos)

	switch v := verdict.(type) {
	case checkin.Accepted:
		f.logger.Infow("check-in validated",
			"checkin_id", checkinID,
			"user_id", sess.UserID(),
		)
		f.record(OutcomeAccepted)
		return f.finish(checkin.StateSuccess, &Navigation{Success: true})

	case checkin.Rejected:
		f.logger.Infow("check-in rejected",
			"checkin_id", checkinID,
			"user_id", sess.UserID(),
			"reason", v.Reason,
		)
		f.record(OutcomeRejected)
		return f.finish(checkin.StateFailure, &Navigation{Success: false, Message: f.rejectionMessage(v.Reason)})

	case checkin.TransportFailure:
		f.logger.Warnw("check-in validation call failed",
			"checkin_id", checkinID,
			"error", v.Detail,
		)
		f.record(OutcomeTransportFailure)
		msg := v.Detail
		if msg == "" {
			msg = f.messages.CheckinGenericFailure()
		}
		return f.back(&Alert{Kind: AlertTransport, Message: msg})

	default:
		f.logger.Errorw("unexpected validation verdict",
			"checkin_id", checkinID,
			"verdict", v,
		)
		f.record(OutcomeTransportFailure)
		return f.back(&Alert{Kind: AlertTransport, Message: f.messages.CheckinGenericFailure()})
	}
}

func (f *Flow) rejectionMessage(reason string) string {
	if reason == checkin.RejectionTooFar {
		return f.messages.CheckinTooFar()
	}
	return f.messages.CheckinGenericFailure()
}

func (f *Flow) adopt(r checkin.Reservation) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reservation = &r
	f.state = checkin.StatePending
}

// back returns from validating to pending with an alert.
func (f *Flow) back(alert *Alert) Step {
	f.mu.Lock()
	f.state = checkin.StatePending
	f.mu.Unlock()
	return f.step(alert, nil)
}

func (f *Flow) finish(state checkin.FlowState, nav *Navigation) Step {
	f.mu.Lock()
	f.state = state
	f.mu.Unlock()
	return f.step(nil, nav)
}

func (f *Flow) release() {
	f.mu.Lock()
	f.busy = false
	f.mu.Unlock()
}

func (f *Flow) record(outcome string) {
	if f.recorder != nil {
		f.recorder.RecordOutcome(outcome)
	}
}

func (f *Flow) step(alert *Alert, nav *Navigation) Step {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := f.snapshot(false)
	s.Alert = alert
	s.Navigation = nav
	return s
}

// snapshot must be called with mu held.
func (f *Flow) snapshot(noop bool) Step {
	s := Step{State: f.state, NoOp: noop}
	if f.reservation != nil {
		r := *f.reservation
		s.Reservation = &r
	}
	return s
}
