package rest

import (
	"encoding/json"
	"time"
)

// CheckinInsert reserves a check-in. Status may only name the initial
// state.
type CheckinInsert struct {
	AcademyID string `json:"academy_id" validate:"required"`
	UserID    string `json:"user_id"`
	Status    string `json:"status" validate:"omitempty,eq=pending"`
}

type ParticipantInsert struct {
	CompetitionID string `json:"competition_id" validate:"required"`
	UserID        string `json:"user_id"`
}

type ReviewInsert struct {
	AcademyID string `json:"academy_id" validate:"required"`
	UserID    string `json:"user_id"`
	Rating    int    `json:"rating" validate:"rating"`
	Body      string `json:"body"`
}

type AcademyInsert struct {
	Name         string  `json:"name" validate:"required,max=200"`
	Address      string  `json:"address" validate:"max=500"`
	Latitude     float64 `json:"latitude" validate:"latitude"`
	Longitude    float64 `json:"longitude" validate:"longitude"`
	RadiusMeters float64 `json:"radius_meters" validate:"gte=0"`
	OwnerID      string  `json:"owner_id"`
}

type CompetitionInsert struct {
	Title       string    `json:"title" validate:"required,max=200"`
	Description string    `json:"description"`
	AcademyID   *string   `json:"academy_id"`
	StartsAt    time.Time `json:"starts_at" validate:"required"`
	EndsAt      time.Time `json:"ends_at" validate:"required,gtfield=StartsAt"`
}

// ProfilePatch carries the user editable profile columns; absent fields are
// left unchanged.
type ProfilePatch struct {
	FullName  *string         `json:"full_name"`
	AvatarURL *string         `json:"avatar_url"`
	Goals     json.RawMessage `json:"goals"`
}

type AcademyPatch struct {
	Name         *string  `json:"name"`
	Address      *string  `json:"address"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
	RadiusMeters *float64 `json:"radius_meters"`
}
