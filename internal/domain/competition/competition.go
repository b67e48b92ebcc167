// Package competition models check-in based challenges and their rankings.
package competition

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

var (
	ErrCompetitionNotFound = errors.New("competition not found")
	ErrCompetitionClosed   = errors.New("competition is not open for joining")
	ErrAlreadyJoined       = errors.New("already joined this competition")
)

// Competition counts validated check-ins between StartsAt and EndsAt,
// optionally restricted to one academy.
type Competition struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	AcademyID   *string   `json:"academy_id,omitempty"`
	StartsAt    time.Time `json:"starts_at"`
	EndsAt      time.Time `json:"ends_at"`
	CreatedBy   string    `json:"created_by,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func (c *Competition) Validate() error {
	if strings.TrimSpace(c.Title) == "" {
		return fmt.Errorf("competition title is required")
	}
	if !c.EndsAt.After(c.StartsAt) {
		return fmt.Errorf("competition must end after it starts")
	}
	return nil
}

// IsActive reports whether now falls inside the competition window.
func (c *Competition) IsActive(now time.Time) bool {
	return !now.Before(c.StartsAt) && now.Before(c.EndsAt)
}

// CanJoin allows joining until the competition ends.
func (c *Competition) CanJoin(now time.Time) bool {
	return now.Before(c.EndsAt)
}

// Participant is a user's standing in a competition.
type Participant struct {
	CompetitionID string    `json:"competition_id"`
	UserID        string    `json:"user_id"`
	Score         int64     `json:"score"`
	Rank          *int      `json:"rank,omitempty"`
	JoinedAt      time.Time `json:"joined_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Standing is one leaderboard row.
type Standing struct {
	UserID string
	Score  int64
	Rank   int
}

// Rank orders scores descending and assigns standard competition ranks:
// tied users share a rank and the next rank skips (1, 2, 2, 4). Ties are
// listed by user ID for a stable order.
func Rank(scores map[string]int64) []Standing {
	out := make([]Standing, 0, len(scores))
	for userID, score := range scores {
		out = append(out, Standing{UserID: userID, Score: score})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].UserID < out[j].UserID
	})
	for i := range out {
		if i > 0 && out[i].Score == out[i-1].Score {
			out[i].Rank = out[i-1].Rank
		} else {
			out[i].Rank = i + 1
		}
	}
	return out
}

type Repository interface {
	Create(ctx context.Context, c *Competition) error
	GetByID(ctx context.Context, id string) (*Competition, error)
	List(ctx context.Context, filter Filter) ([]*Competition, error)
	ListActive(ctx context.Context, now time.Time) ([]*Competition, error)
}

type Filter struct {
	ActiveAt *time.Time
	Limit    int
	Offset   int
}

type ParticipantRepository interface {
	Join(ctx context.Context, p *Participant) error
	ListByCompetition(ctx context.Context, competitionID string) ([]*Participant, error)
	ListByUser(ctx context.Context, userID string) ([]*Participant, error)
	// SaveStandings replaces score and rank of every participant in one transaction.
	SaveStandings(ctx context.Context, competitionID string, standings []Standing) error
}
