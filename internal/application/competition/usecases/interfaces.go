package usecases

import (
	"context"

	"github.com/fitpass-app/fitpass/internal/domain/academy"
	"github.com/fitpass-app/fitpass/internal/domain/checkin"
)

// CheckinCounter counts validated check-ins per user.
type CheckinCounter interface {
	CountValidated(ctx context.Context, filter checkin.CountFilter) (map[string]int64, error)
}

type Metrics interface {
	RecordStandingsUpdated(n int)
}

// RankingResult is the wire result of update_competition_rankings.
type RankingResult struct {
	Updated int `json:"updated"`
}

// AcademyReader resolves the academy a competition is restricted to.
type AcademyReader interface {
	GetByID(ctx context.Context, id string) (*academy.Academy, error)
}
