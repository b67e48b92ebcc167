package checkin

import (
	"context"
	"time"
)

// Repository persists check-ins for the backend.
type Repository interface {
	Create(ctx context.Context, c *Checkin) error
	Update(ctx context.Context, c *Checkin) error
	GetByID(ctx context.Context, id string) (*Checkin, error)
	// FindLatestPending returns the most recent pending check-in of a user, or nil.
	FindLatestPending(ctx context.Context, userID string) (*Checkin, error)
	List(ctx context.Context, filter Filter) ([]*Checkin, error)
	// ExpirePendingBefore marks pending check-ins created before cutoff as expired.
	ExpirePendingBefore(ctx context.Context, cutoff time.Time) (int64, error)
	CountValidated(ctx context.Context, filter CountFilter) (map[string]int64, error)
}

type Filter struct {
	UserID    string
	AcademyID string
	Status    *Status
	Limit     int
	Offset    int
	OrderDesc bool
}

// CountFilter selects validated check-ins per user inside a window.
type CountFilter struct {
	UserIDs   []string
	AcademyID string
	From      time.Time
	To        time.Time
}
