package checkin

import "errors"

var (
	ErrCheckinNotFound    = errors.New("check-in not found")
	ErrPendingExists      = errors.New("user already has a pending check-in")
	ErrNotPending         = errors.New("check-in is not pending")
	ErrAlreadyValidated   = errors.New("check-in already validated")
	ErrInvalidCoordinates = errors.New("coordinates out of range")
)
