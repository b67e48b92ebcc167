package checkin

import (
	"context"

	"github.com/fitpass-app/fitpass/internal/domain/checkin"
	"github.com/fitpass-app/fitpass/internal/domain/session"
)

// ReservationGateway is the remote side of the check-in flow.
type ReservationGateway interface {
	// FindPending returns the user's most recent pending check-in joined with
	// the academy name.
	FindPending(ctx context.Context, sess *session.Session) (checkin.Lookup, error)
	// Reserve inserts a pending check-in. It returns checkin.ErrPendingExists
	// when the backend refuses a second pending reservation.
	Reserve(ctx context.Context, sess *session.Session, academyID string) (checkin.Reservation, error)
	// Validate submits the position for the authoritative proximity check.
	// Transport errors are reported as checkin.TransportFailure, never as panics.
	Validate(ctx context.Context, sess *session.Session, checkinID string, at checkin.Coordinates) checkin.Verdict
}

// Locator gives access to the device position.
type Locator interface {
	RequestPermission(ctx context.Context) (bool, error)
	CurrentPosition(ctx context.Context) (checkin.Coordinates, error)
}

// Messages provides the localized texts the flow hands to the presentation layer.
type Messages interface {
	CheckinTooFar() string
	CheckinGenericFailure() string
	LocationPermission() string
	LocationUnavailable() string
}

// OutcomeRecorder observes validation outcomes. Optional.
type OutcomeRecorder interface {
	RecordOutcome(outcome string)
}
