package checkin

import "fmt"

// Status is the persisted lifecycle status of a check-in record.
type Status string

const (
	StatusPending   Status = "pending"
	StatusValidated Status = "validated"
	StatusExpired   Status = "expired"
)

var validStatuses = map[Status]bool{
	StatusPending:   true,
	StatusValidated: true,
	StatusExpired:   true,
}

func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !validStatuses[st] {
		return "", fmt.Errorf("invalid check-in status: %q", s)
	}
	return st, nil
}

func (s Status) String() string { return string(s) }

func (s Status) IsPending() bool { return s == StatusPending }

// IsTerminal reports whether no further transition is possible.
func (s Status) IsTerminal() bool { return s == StatusValidated || s == StatusExpired }
