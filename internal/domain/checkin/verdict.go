package checkin

// RejectionTooFar is the backend's rejection reason when the device is
// outside the academy geofence.
const RejectionTooFar = "Too far from academy"

// Verdict is the outcome of a remote validation call. The concrete types are
// Accepted, Rejected and TransportFailure.
type Verdict interface {
	isVerdict()
}

// Accepted means presence was confirmed.
type Accepted struct{}

// Rejected is a structured business rejection.
type Rejected struct {
	Reason string
}

// TransportFailure means the call itself failed and no decision was made.
type TransportFailure struct {
	Detail string
}

func (Accepted) isVerdict()         {}
func (Rejected) isVerdict()         {}
func (TransportFailure) isVerdict() {}

// ValidationResult is the wire shape returned by validate_checkin.
type ValidationResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// Verdict converts the wire result into a verdict.
func (r ValidationResult) Verdict() Verdict {
	if r.Success {
		return Accepted{}
	}
	return Rejected{Reason: r.Message}
}
