// Package academy models gyms and studios users can check into.
package academy

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fitpass-app/fitpass/internal/domain/checkin"
)

var ErrAcademyNotFound = errors.New("academy not found")

// Academy is a gym location with its check-in geofence.
type Academy struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Address      string    `json:"address,omitempty"`
	Latitude     float64   `json:"latitude"`
	Longitude    float64   `json:"longitude"`
	RadiusMeters float64   `json:"radius_meters"`
	OwnerID      string    `json:"owner_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

func (a *Academy) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return fmt.Errorf("academy name is required")
	}
	if a.RadiusMeters < 0 {
		return fmt.Errorf("radius must not be negative")
	}
	return checkin.Coordinates{Latitude: a.Latitude, Longitude: a.Longitude}.Validate()
}

// Geofence returns the check-in fence, using defaultRadius when none is set.
func (a *Academy) Geofence(defaultRadius float64) checkin.Geofence {
	radius := a.RadiusMeters
	if radius <= 0 {
		radius = defaultRadius
	}
	return checkin.Geofence{
		Center:       checkin.Coordinates{Latitude: a.Latitude, Longitude: a.Longitude},
		RadiusMeters: radius,
	}
}

type Repository interface {
	Create(ctx context.Context, a *Academy) error
	Update(ctx context.Context, a *Academy) error
	GetByID(ctx context.Context, id string) (*Academy, error)
	List(ctx context.Context, limit, offset int) ([]*Academy, error)
	NamesByID(ctx context.Context, ids []string) (map[string]string, error)
}
