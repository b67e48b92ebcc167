package usecases

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"github.com/fitpass-app/fitpass/internal/domain/academy"
	"github.com/fitpass-app/fitpass/internal/domain/review"
	"github.com/fitpass-app/fitpass/internal/shared/biztime"
	"github.com/fitpass-app/fitpass/internal/shared/errors"
	"github.com/fitpass-app/fitpass/internal/shared/id"
	"github.com/fitpass-app/fitpass/internal/shared/logger"
	"github.com/fitpass-app/fitpass/internal/shared/services/markdown"
)

type AcademyReader interface {
	GetByID(ctx context.Context, id string) (*academy.Academy, error)
}

type SubmitReviewCommand struct {
	UserID    string
	AcademyID string
	Rating    int
	Body      string
}

// SubmitReviewUseCase stores the caller's review of an academy, replacing
// any earlier review by the same user.
type SubmitReviewUseCase struct {
	reviews   review.Repository
	academies AcademyReader
	renderer  markdown.Renderer
	logger    logger.Interface
	now       func() time.Time
}

func NewSubmitReviewUseCase(
	reviews review.Repository,
	academies AcademyReader,
	renderer markdown.Renderer,
	logger logger.Interface,
) *SubmitReviewUseCase {
	return &SubmitReviewUseCase{
		reviews:   reviews,
		academies: academies,
		renderer:  renderer,
		logger:    logger,
		now:       biztime.NowUTC,
	}
}

func (uc *SubmitReviewUseCase) Execute(ctx context.Context, cmd SubmitReviewCommand) (*review.Review, error) {
	uc.logger.Infow("executing submit review use case", "user_id", cmd.UserID, "academy_id", cmd.AcademyID)

	if cmd.UserID == "" {
		return nil, errors.NewUnauthorizedError("authentication required")
	}
	now := uc.now()
	rv := &review.Review{
		ID:        id.NewUUID(),
		UserID:    cmd.UserID,
		AcademyID: cmd.AcademyID,
		Rating:    cmd.Rating,
		Body:      strings.TrimSpace(cmd.Body),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := rv.Validate(); err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	if _, err := uc.academies.GetByID(ctx, cmd.AcademyID); err != nil {
		if stderrors.Is(err, academy.ErrAcademyNotFound) {
			return nil, errors.NewValidationError("unknown academy", cmd.AcademyID)
		}
		return nil, err
	}

	html, err := uc.renderer.Render(rv.Body)
	if err != nil {
		uc.logger.Errorw("failed to render review", "error", err)
		return nil, errors.NewValidationError("review body could not be rendered")
	}
	rv.BodyHTML = html

	if err := uc.reviews.Upsert(ctx, rv); err != nil {
		uc.logger.Errorw("failed to save review", "user_id", cmd.UserID, "error", err)
		return nil, err
	}

	uc.logger.Infow("review saved", "review_id", rv.ID, "rating", rv.Rating)
	return rv, nil
}
