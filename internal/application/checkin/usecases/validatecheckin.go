package usecases

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/fitpass-app/fitpass/internal/domain/checkin"
	"github.com/fitpass-app/fitpass/internal/domain/profile"
	"github.com/fitpass-app/fitpass/internal/infrastructure/ratelimit"
	"github.com/fitpass-app/fitpass/internal/shared/db"
	"github.com/fitpass-app/fitpass/internal/shared/errors"
	"github.com/fitpass-app/fitpass/internal/shared/logger"
)

// Rejection messages returned with success=false.
const (
	MessageNotFound   = "Check-in not found"
	MessageForeign    = "Check-in belongs to another user"
	MessageNotPending = "Check-in is no longer pending"
)

type ValidateCheckinCommand struct {
	CheckinID string
	// UserID is the p_user_id argument; it must match the caller unless the
	// caller is a superadmin.
	UserID     string
	CallerID   string
	CallerRole string
	Latitude   float64
	Longitude  float64
}

type ValidateCheckinConfig struct {
	DefaultRadiusMeters float64
	ValidationsPerHour  int
}

type ValidateCheckinUseCase struct {
	checkinRepo checkin.Repository
	academies   AcademyReader
	txManager   db.Transactor
	limiter     RateLimiter
	metrics     Metrics
	config      ValidateCheckinConfig
	logger      logger.Interface
}

func NewValidateCheckinUseCase(
	checkinRepo checkin.Repository,
	academies AcademyReader,
	txManager db.Transactor,
	limiter RateLimiter,
	metrics Metrics,
	config ValidateCheckinConfig,
	logger logger.Interface,
) *ValidateCheckinUseCase {
	if config.DefaultRadiusMeters <= 0 {
		config.DefaultRadiusMeters = 100
	}
	return &ValidateCheckinUseCase{
		checkinRepo: checkinRepo,
		academies:   academies,
		txManager:   txManager,
		limiter:     limiter,
		metrics:     metrics,
		config:      config,
		logger:      logger,
	}
}

// Execute measures the distance between the submitted position and the
// academy and validates the check-in when it lies inside the geofence.
// Business rejections are returned as a result with Success=false; only
// malformed input, throttling and infrastructure failures are errors.
func (uc *ValidateCheckinUseCase) Execute(ctx context.Context, cmd ValidateCheckinCommand) (*checkin.ValidationResult, error) {
	uc.logger.Infow("executing validate check-in use case",
		"checkin_id", cmd.CheckinID,
		"user_id", cmd.UserID,
	)

	pos := checkin.Coordinates{Latitude: cmd.Latitude, Longitude: cmd.Longitude}
	if err := uc.validateCommand(cmd, pos); err != nil {
		uc.metrics.RecordValidation(OutcomeInvalid)
		return nil, err
	}

	if cmd.UserID != cmd.CallerID && cmd.CallerRole != profile.RoleSuperadmin {
		uc.metrics.RecordValidation(OutcomeForeign)
		return &checkin.ValidationResult{Success: false, Message: MessageForeign}, nil
	}

	if uc.config.ValidationsPerHour > 0 {
		allowed, err := uc.limiter.Allow(ctx, "validate_checkin:"+cmd.UserID, ratelimit.RateLimitConfig{
			RequestsPerHour: uc.config.ValidationsPerHour,
		})
		if err != nil {
			// a broken limiter must not block check-ins
			uc.logger.Warnw("rate limiter unavailable", "user_id", cmd.UserID, "error", err)
		} else if !allowed {
			uc.metrics.RecordValidation(OutcomeRateLimited)
			return nil, errors.NewRateLimitedError("too many validation attempts, try again later")
		}
	}

	var (
		result  checkin.ValidationResult
		outcome string
	)
	err := uc.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		c, err := uc.checkinRepo.GetByID(ctx, cmd.CheckinID)
		if err != nil {
			if stderrors.Is(err, checkin.ErrCheckinNotFound) {
				result, outcome = checkin.ValidationResult{Message: MessageNotFound}, OutcomeNotFound
				return nil
			}
			return err
		}

		if !c.BelongsTo(cmd.UserID) {
			result, outcome = checkin.ValidationResult{Message: MessageForeign}, OutcomeForeign
			return nil
		}
		switch c.Status() {
		case checkin.StatusValidated:
			result, outcome = checkin.ValidationResult{Success: true}, OutcomeIdempotent
			return nil
		case checkin.StatusPending:
		default:
			result, outcome = checkin.ValidationResult{Message: MessageNotPending}, OutcomeNotPending
			return nil
		}

		a, err := uc.academies.GetByID(ctx, c.AcademyID())
		if err != nil {
			return fmt.Errorf("failed to load academy %s: %w", c.AcademyID(), err)
		}
		inside, distance := a.Geofence(uc.config.DefaultRadiusMeters).Contains(pos)
		c.RecordAttempt(pos, distance)

		if inside {
			if err := c.Validate(); err != nil {
				return err
			}
			result, outcome = checkin.ValidationResult{Success: true}, OutcomeAccepted
		} else {
			result, outcome = checkin.ValidationResult{Message: checkin.RejectionTooFar}, OutcomeTooFar
		}

		uc.logger.Infow("check-in position evaluated",
			"checkin_id", c.ID(),
			"academy_id", c.AcademyID(),
			"distance_meters", distance,
			"inside", inside,
		)
		return uc.checkinRepo.Update(ctx, c)
	})
	if err != nil {
		uc.logger.Errorw("failed to validate check-in", "checkin_id", cmd.CheckinID, "error", err)
		return nil, err
	}

	uc.metrics.RecordValidation(outcome)
	return &result, nil
}

func (uc *ValidateCheckinUseCase) validateCommand(cmd ValidateCheckinCommand, pos checkin.Coordinates) error {
	if cmd.CheckinID == "" {
		return errors.NewValidationError("p_checkin_id is required")
	}
	if cmd.UserID == "" {
		return errors.NewValidationError("p_user_id is required")
	}
	if err := pos.Validate(); err != nil {
		return errors.NewValidationError(err.Error())
	}
	return nil
}
