package usecases

import (
	"context"
	"time"

	"github.com/fitpass-app/fitpass/internal/domain/academy"
	"github.com/fitpass-app/fitpass/internal/domain/checkin"
	"github.com/fitpass-app/fitpass/internal/domain/competition"
)

type mockCompetitionRepository struct {
	CreateFunc     func(ctx context.Context, c *competition.Competition) error
	GetByIDFunc    func(ctx context.Context, id string) (*competition.Competition, error)
	ListFunc       func(ctx context.Context, filter competition.Filter) ([]*competition.Competition, error)
	ListActiveFunc func(ctx context.Context, now time.Time) ([]*competition.Competition, error)
}

func (m *mockCompetitionRepository) Create(ctx context.Context, c *competition.Competition) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, c)
	}
	return nil
}

func (m *mockCompetitionRepository) GetByID(ctx context.Context, id string) (*competition.Competition, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, competition.ErrCompetitionNotFound
}

func (m *mockCompetitionRepository) List(ctx context.Context, filter competition.Filter) ([]*competition.Competition, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return nil, nil
}

func (m *mockCompetitionRepository) ListActive(ctx context.Context, now time.Time) ([]*competition.Competition, error) {
	if m.ListActiveFunc != nil {
		return m.ListActiveFunc(ctx, now)
	}
	return nil, nil
}

type mockParticipantRepository struct {
	JoinFunc              func(ctx context.Context, p *competition.Participant) error
	ListByCompetitionFunc func(ctx context.Context, competitionID string) ([]*competition.Participant, error)
	ListByUserFunc        func(ctx context.Context, userID string) ([]*competition.Participant, error)
	SaveStandingsFunc     func(ctx context.Context, competitionID string, standings []competition.Standing) error
}

func (m *mockParticipantRepository) Join(ctx context.Context, p *competition.Participant) error {
	if m.JoinFunc != nil {
		return m.JoinFunc(ctx, p)
	}
	return nil
}

func (m *mockParticipantRepository) ListByCompetition(ctx context.Context, competitionID string) ([]*competition.Participant, error) {
	if m.ListByCompetitionFunc != nil {
		return m.ListByCompetitionFunc(ctx, competitionID)
	}
	return nil, nil
}

func (m *mockParticipantRepository) ListByUser(ctx context.Context, userID string) ([]*competition.Participant, error) {
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(ctx, userID)
	}
	return nil, nil
}

func (m *mockParticipantRepository) SaveStandings(ctx context.Context, competitionID string, standings []competition.Standing) error {
	if m.SaveStandingsFunc != nil {
		return m.SaveStandingsFunc(ctx, competitionID, standings)
	}
	return nil
}

type mockCheckinCounter struct {
	CountValidatedFunc func(ctx context.Context, filter checkin.CountFilter) (map[string]int64, error)
}

func (m *mockCheckinCounter) CountValidated(ctx context.Context, filter checkin.CountFilter) (map[string]int64, error) {
	return m.CountValidatedFunc(ctx, filter)
}

type countingMetrics struct {
	standings int
}

func (m *countingMetrics) RecordStandingsUpdated(n int) { m.standings += n }

type mockAcademyReader struct {
	academies map[string]*academy.Academy
}

func (m *mockAcademyReader) GetByID(ctx context.Context, id string) (*academy.Academy, error) {
	if a, ok := m.academies[id]; ok {
		return a, nil
	}
	return nil, academy.ErrAcademyNotFound
}
