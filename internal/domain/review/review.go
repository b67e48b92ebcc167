// Package review models academy reviews written by members.
package review

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrReviewNotFound = errors.New("review not found")

const (
	MinRating     = 1
	MaxRating     = 5
	MaxBodyLength = 4000
)

// Review is one user's opinion of one academy. Body is markdown; BodyHTML is
// the sanitized rendering.
type Review struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	AcademyID string    `json:"academy_id"`
	Rating    int       `json:"rating"`
	Body      string    `json:"body"`
	BodyHTML  string    `json:"body_html,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func ValidateRating(rating int) error {
	if rating < MinRating || rating > MaxRating {
		return fmt.Errorf("rating must be between %d and %d", MinRating, MaxRating)
	}
	return nil
}

func (r *Review) Validate() error {
	if r.AcademyID == "" {
		return fmt.Errorf("academy ID is required")
	}
	if err := ValidateRating(r.Rating); err != nil {
		return err
	}
	if len(strings.TrimSpace(r.Body)) > MaxBodyLength {
		return fmt.Errorf("review body exceeds %d characters", MaxBodyLength)
	}
	return nil
}

// Summary aggregates the ratings of an academy.
type Summary struct {
	AcademyID string  `json:"academy_id"`
	Count     int     `json:"count"`
	Average   float64 `json:"average"`
}

// Summarize averages ratings; an empty slice yields a zero summary.
func Summarize(academyID string, reviews []*Review) Summary {
	s := Summary{AcademyID: academyID}
	if len(reviews) == 0 {
		return s
	}
	total := 0
	for _, r := range reviews {
		total += r.Rating
	}
	s.Count = len(reviews)
	s.Average = float64(total) / float64(len(reviews))
	return s
}

type Repository interface {
	// Upsert keeps one review per user and academy.
	Upsert(ctx context.Context, r *Review) error
	ListByAcademy(ctx context.Context, academyID string, limit, offset int) ([]*Review, error)
	GetByID(ctx context.Context, id string) (*Review, error)
}
