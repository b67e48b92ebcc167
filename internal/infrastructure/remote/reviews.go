package remote

import (
	"context"
	"fmt"

	"github.com/fitpass-app/fitpass/internal/domain/review"
	"github.com/fitpass-app/fitpass/internal/domain/session"
	"github.com/fitpass-app/fitpass/internal/infrastructure/supabase"
)

type Reviews struct {
	client *supabase.Client
}

func NewReviews(client *supabase.Client) *Reviews {
	return &Reviews{client: client}
}

func (s *Reviews) ListForAcademy(ctx context.Context, sess *session.Session, academyID string, limit int) ([]review.Review, error) {
	c, err := as(s.client, sess)
	if err != nil {
		return nil, err
	}
	var out []review.Review
	if err := c.From(TableReviews).
		Eq("academy_id", academyID).
		Order("created_at", false).
		Limit(limit).
		Execute(ctx, &out); err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return out, nil
}

// Submit creates or replaces the caller's review of an academy.
func (s *Reviews) Submit(ctx context.Context, sess *session.Session, academyID string, rating int, body string) (*review.Review, error) {
	r := review.Review{AcademyID: academyID, UserID: sess.UserID(), Rating: rating, Body: body}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	c, err := as(s.client, sess)
	if err != nil {
		return nil, err
	}
	payload := map[string]any{
		"academy_id": academyID,
		"user_id":    sess.UserID(),
		"rating":     rating,
		"body":       body,
	}
	var rows []review.Review
	if err := c.From(TableReviews).Upsert(ctx, payload, "user_id,academy_id", &rows); err != nil {
		return nil, fmt.Errorf("submit review: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("submit review: backend returned no row")
	}
	return &rows[0], nil
}

func (s *Reviews) AverageRating(ctx context.Context, sess *session.Session, academyID string) (review.Summary, error) {
	c, err := as(s.client, sess)
	if err != nil {
		return review.Summary{}, err
	}
	var rows []*review.Review
	if err := c.From(TableReviews).Select("rating").Eq("academy_id", academyID).Execute(ctx, &rows); err != nil {
		return review.Summary{}, fmt.Errorf("average rating: %w", err)
	}
	return review.Summarize(academyID, rows), nil
}
