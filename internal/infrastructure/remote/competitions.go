package remote

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fitpass-app/fitpass/internal/domain/competition"
	"github.com/fitpass-app/fitpass/internal/domain/session"
	"github.com/fitpass-app/fitpass/internal/infrastructure/supabase"
	"github.com/fitpass-app/fitpass/internal/shared/logger"
)

type Competitions struct {
	client *supabase.Client
	logger logger.Interface
	now    func() time.Time
}

func NewCompetitions(client *supabase.Client, log logger.Interface) *Competitions {
	return &Competitions{client: client, logger: log, now: time.Now}
}

// ListActive returns competitions whose window contains the current time.
func (s *Competitions) ListActive(ctx context.Context, sess *session.Session) ([]competition.Competition, error) {
	c, err := as(s.client, sess)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC().Format(time.RFC3339)
	var out []competition.Competition
	if err := c.From(TableCompetitions).
		Lte("starts_at", now).
		Gt("ends_at", now).
		Order("ends_at", true).
		Execute(ctx, &out); err != nil {
		return nil, fmt.Errorf("list active competitions: %w", err)
	}
	return out, nil
}

func (s *Competitions) Get(ctx context.Context, sess *session.Session, id string) (*competition.Competition, error) {
	c, err := as(s.client, sess)
	if err != nil {
		return nil, err
	}
	var out competition.Competition
	if err := c.From(TableCompetitions).Eq("id", id).Single(ctx, &out); err != nil {
		if supabase.IsNotFound(err) {
			return nil, competition.ErrCompetitionNotFound
		}
		return nil, fmt.Errorf("get competition: %w", err)
	}
	return &out, nil
}

// Leaderboard returns participants by rank; unranked participants come last.
func (s *Competitions) Leaderboard(ctx context.Context, sess *session.Session, competitionID string) ([]competition.Participant, error) {
	c, err := as(s.client, sess)
	if err != nil {
		return nil, err
	}
	var out []competition.Participant
	if err := c.From(TableParticipants).
		Eq("competition_id", competitionID).
		Order("rank", true).
		Order("score", false).
		Execute(ctx, &out); err != nil {
		return nil, fmt.Errorf("leaderboard: %w", err)
	}
	return out, nil
}

func (s *Competitions) Join(ctx context.Context, sess *session.Session, competitionID string) (*competition.Participant, error) {
	c, err := as(s.client, sess)
	if err != nil {
		return nil, err
	}
	payload := map[string]string{"competition_id": competitionID, "user_id": sess.UserID()}
	var rows []competition.Participant
	if err := c.From(TableParticipants).Insert(ctx, payload, &rows); err != nil {
		if supabase.IsConflict(err) {
			return nil, competition.ErrAlreadyJoined
		}
		return nil, fmt.Errorf("join competition: %w", err)
	}
	if len(rows) == 0 {
		return nil, errors.New("join competition: backend returned no row")
	}
	s.logger.Infow("joined competition", "competition_id", competitionID, "user_id", sess.UserID())
	return &rows[0], nil
}

// RefreshRankings asks the backend to recompute scores and ranks.
func (s *Competitions) RefreshRankings(ctx context.Context, sess *session.Session, competitionID string) (int, error) {
	c, err := as(s.client, sess)
	if err != nil {
		return 0, err
	}
	var out struct {
		Updated int `json:"updated"`
	}
	if err := c.RPC(ctx, RPCUpdateRankings, map[string]string{"p_competition_id": competitionID}, &out); err != nil {
		return 0, fmt.Errorf("update rankings: %w", err)
	}
	return out.Updated, nil
}
