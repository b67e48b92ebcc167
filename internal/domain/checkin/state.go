package checkin

// FlowState is the client-side check-in flow state.
type FlowState string

const (
	StateIdle       FlowState = "idle"
	StatePending    FlowState = "pending"
	StateValidating FlowState = "validating"
	StateSuccess    FlowState = "success"
	StateFailure    FlowState = "failure"
)

func (s FlowState) String() string { return string(s) }

// IsTerminal reports whether the flow has reached a result view.
func (s FlowState) IsTerminal() bool {
	return s == StateSuccess || s == StateFailure
}
