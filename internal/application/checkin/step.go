package checkin

import (
	"strconv"

	"github.com/fitpass-app/fitpass/internal/domain/checkin"
)

// AlertKind classifies a recoverable condition.
type AlertKind string

const (
	AlertReservation AlertKind = "reservation"
	AlertPermission  AlertKind = "permission"
	AlertLocation    AlertKind = "location"
	AlertTransport   AlertKind = "transport"
)

// Alert is a recoverable condition the presentation layer should surface.
type Alert struct {
	Kind    AlertKind
	Message string
}

// Navigation is the hand-off to the result view on a terminal outcome.
type Navigation struct {
	Success bool
	Message string
}

// Params renders the navigation as result view parameters.
func (n Navigation) Params() map[string]string {
	params := map[string]string{"success": strconv.FormatBool(n.Success)}
	if n.Message != "" {
		params["message"] = n.Message
	}
	return params
}

// Step is the result of a flow operation.
type Step struct {
	State       checkin.FlowState
	Reservation *checkin.Reservation
	Alert       *Alert
	Navigation  *Navigation
	// NoOp is set when a precondition was not met and nothing happened.
	NoOp bool
}

// AcademyName returns the display name of the reservation shown by the step.
func (s Step) AcademyName() string {
	if s.Reservation == nil {
		return ""
	}
	return s.Reservation.AcademyName
}
