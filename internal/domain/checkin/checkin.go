package checkin

import (
	"fmt"
	"time"

	"github.com/fitpass-app/fitpass/internal/shared/biztime"
)

// Checkin is a user's claim of presence at an academy, as stored by the backend.
type Checkin struct {
	id             string
	userID         string
	academyID      string
	status         Status
	position       *Coordinates
	distanceMeters *float64
	validatedAt    *time.Time
	expiredAt      *time.Time
	createdAt      time.Time
	updatedAt      time.Time
}

// NewCheckin reserves a pending check-in.
func NewCheckin(id, userID, academyID string) (*Checkin, error) {
	if id == "" {
		return nil, fmt.Errorf("check-in ID is required")
	}
	if userID == "" {
		return nil, fmt.Errorf("user ID is required")
	}
	if academyID == "" {
		return nil, fmt.Errorf("academy ID is required")
	}

	now := biztime.NowUTC()
	return &Checkin{
		id:        id,
		userID:    userID,
		academyID: academyID,
		status:    StatusPending,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// ReconstructCheckin rebuilds a check-in from persistence.
func ReconstructCheckin(
	id, userID, academyID string,
	status Status,
	position *Coordinates,
	distanceMeters *float64,
	validatedAt, expiredAt *time.Time,
	createdAt, updatedAt time.Time,
) (*Checkin, error) {
	if id == "" {
		return nil, fmt.Errorf("check-in ID is required")
	}
	if _, err := ParseStatus(string(status)); err != nil {
		return nil, err
	}
	return &Checkin{
		id:             id,
		userID:         userID,
		academyID:      academyID,
		status:         status,
		position:       position,
		distanceMeters: distanceMeters,
		validatedAt:    validatedAt,
		expiredAt:      expiredAt,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}, nil
}

func (c *Checkin) ID() string               { return c.id }
func (c *Checkin) UserID() string           { return c.userID }
func (c *Checkin) AcademyID() string        { return c.academyID }
func (c *Checkin) Status() Status           { return c.status }
func (c *Checkin) Position() *Coordinates   { return c.position }
func (c *Checkin) DistanceMeters() *float64 { return c.distanceMeters }
func (c *Checkin) ValidatedAt() *time.Time  { return c.validatedAt }
func (c *Checkin) ExpiredAt() *time.Time    { return c.expiredAt }
func (c *Checkin) CreatedAt() time.Time     { return c.createdAt }
func (c *Checkin) UpdatedAt() time.Time     { return c.updatedAt }

// BelongsTo reports whether userID owns the check-in.
func (c *Checkin) BelongsTo(userID string) bool {
	return c.userID == userID
}

// RecordAttempt stores the last submitted position and its distance to the academy.
func (c *Checkin) RecordAttempt(p Coordinates, distance float64) {
	pos := p
	c.position = &pos
	c.distanceMeters = &distance
	c.updatedAt = biztime.NowUTC()
}

// Validate confirms presence. Only pending check-ins can be validated.
func (c *Checkin) Validate() error {
	switch c.status {
	case StatusValidated:
		return ErrAlreadyValidated
	case StatusPending:
	default:
		return ErrNotPending
	}
	now := biztime.NowUTC()
	c.status = StatusValidated
	c.validatedAt = &now
	c.updatedAt = now
	return nil
}

// Expire abandons a pending reservation.
func (c *Checkin) Expire() error {
	if !c.status.IsPending() {
		return ErrNotPending
	}
	now := biztime.NowUTC()
	c.status = StatusExpired
	c.expiredAt = &now
	c.updatedAt = now
	return nil
}

// IsStale reports whether a pending reservation is older than ttl at now.
func (c *Checkin) IsStale(now time.Time, ttl time.Duration) bool {
	return c.status.IsPending() && now.Sub(c.createdAt) > ttl
}
