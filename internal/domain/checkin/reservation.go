package checkin

import "time"

// Reservation is the client's view of a pending check-in, joined with the
// academy display name.
type Reservation struct {
	ID          string
	UserID      string
	AcademyID   string
	AcademyName string
	Status      Status
	CreatedAt   time.Time
}

// Lookup is the result of resolving a user's pending reservation.
// The zero value means no reservation exists.
type Lookup struct {
	reservation *Reservation
}

// Found wraps an existing reservation.
func Found(r Reservation) Lookup {
	return Lookup{reservation: &r}
}

// None is the empty lookup.
func None() Lookup {
	return Lookup{}
}

// Found reports whether a reservation exists, returning a copy when it does.
func (l Lookup) Found() (Reservation, bool) {
	if l.reservation == nil {
		return Reservation{}, false
	}
	return *l.reservation, true
}
