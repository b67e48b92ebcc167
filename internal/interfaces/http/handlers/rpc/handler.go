// Package rpc serves /rest/v1/rpc/:fn. Each procedure takes a JSON object
// of p_ prefixed arguments and answers with a JSON object.
package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	checkinuc "github.com/fitpass-app/fitpass/internal/application/checkin/usecases"
	competitionuc "github.com/fitpass-app/fitpass/internal/application/competition/usecases"
	profileuc "github.com/fitpass-app/fitpass/internal/application/profile/usecases"
	referraluc "github.com/fitpass-app/fitpass/internal/application/referral/usecases"
	"github.com/fitpass-app/fitpass/internal/domain/checkin"
	"github.com/fitpass-app/fitpass/internal/domain/profile"
	"github.com/fitpass-app/fitpass/internal/domain/referral"
	"github.com/fitpass-app/fitpass/internal/interfaces/http/middleware"
	"github.com/fitpass-app/fitpass/internal/shared/errors"
	"github.com/fitpass-app/fitpass/internal/shared/logger"
	"github.com/fitpass-app/fitpass/internal/shared/utils"
)

// Procedure names.
const (
	ValidateCheckin           = "validate_checkin"
	UpdateCompetitionRankings = "update_competition_rankings"
	GetOrCreateReferralCode   = "get_or_create_referral_code"
	CreateFamilyInvite        = "create_family_invite"
	AcceptFamilyInvite        = "accept_family_invite"
	AdvanceUserOnboarding     = "advance_user_onboarding"
)

// CodeUndefinedFunction is sent for unknown procedures.
const CodeUndefinedFunction = "PGRST202"

const maxBodyBytes = 64 << 10

type validateCheckinUseCase interface {
	Execute(ctx context.Context, cmd checkinuc.ValidateCheckinCommand) (*checkin.ValidationResult, error)
}

type updateRankingsUseCase interface {
	Execute(ctx context.Context, cmd competitionuc.UpdateCompetitionRankingsCommand) (*competitionuc.RankingResult, error)
}

type referralCodeUseCase interface {
	Execute(ctx context.Context, cmd referraluc.GetOrCreateReferralCodeCommand) (*referraluc.CodeResult, error)
}

type createInviteUseCase interface {
	Execute(ctx context.Context, cmd referraluc.CreateFamilyInviteCommand) (*referraluc.InviteResult, error)
}

type acceptInviteUseCase interface {
	Execute(ctx context.Context, cmd referraluc.AcceptFamilyInviteCommand) (*referral.Result, error)
}

type advanceOnboardingUseCase interface {
	Execute(ctx context.Context, cmd profileuc.AdvanceOnboardingCommand) (*profile.OnboardingResult, error)
}

// UseCases backs each procedure.
type UseCases struct {
	ValidateCheckin   validateCheckinUseCase
	UpdateRankings    updateRankingsUseCase
	ReferralCode      referralCodeUseCase
	CreateInvite      createInviteUseCase
	AcceptInvite      acceptInviteUseCase
	AdvanceOnboarding advanceOnboardingUseCase
}

type ValidateCheckinArgs struct {
	CheckinID string   `json:"p_checkin_id" validate:"required"`
	UserID    string   `json:"p_user_id" validate:"required"`
	Latitude  *float64 `json:"p_latitude" validate:"required"`
	Longitude *float64 `json:"p_longitude" validate:"required"`
}

type UpdateRankingsArgs struct {
	CompetitionID string `json:"p_competition_id" validate:"required"`
}

type UserArgs struct {
	UserID string `json:"p_user_id" validate:"required"`
}

type CreateInviteArgs struct {
	OwnerID string `json:"p_owner_id" validate:"required"`
	Email   string `json:"p_email" validate:"required,email"`
}

type AcceptInviteArgs struct {
	Token  string `json:"p_token" validate:"required"`
	UserID string `json:"p_user_id" validate:"required"`
}

type AdvanceOnboardingArgs struct {
	UserID string `json:"p_user_id" validate:"required"`
	Step   string `json:"p_step" validate:"required"`
}

type procedure func(ctx context.Context, caller middleware.Caller, args []byte) (any, error)

type Handler struct {
	procedures map[string]procedure
	logger     logger.Interface
}

func NewHandler(uc UseCases, logger logger.Interface) *Handler {
	return &Handler{
		procedures: map[string]procedure{
			ValidateCheckin: func(ctx context.Context, caller middleware.Caller, raw []byte) (any, error) {
				var args ValidateCheckinArgs
				if err := decode(raw, &args); err != nil {
					return nil, err
				}
				return uc.ValidateCheckin.Execute(ctx, checkinuc.ValidateCheckinCommand{
					CheckinID:  args.CheckinID,
					UserID:     args.UserID,
					CallerID:   caller.UserID,
					CallerRole: caller.Role,
					Latitude:   *args.Latitude,
					Longitude:  *args.Longitude,
				})
			},
			UpdateCompetitionRankings: func(ctx context.Context, caller middleware.Caller, raw []byte) (any, error) {
				var args UpdateRankingsArgs
				if err := decode(raw, &args); err != nil {
					return nil, err
				}
				return uc.UpdateRankings.Execute(ctx, competitionuc.UpdateCompetitionRankingsCommand{CompetitionID: args.CompetitionID})
			},
			GetOrCreateReferralCode: func(ctx context.Context, caller middleware.Caller, raw []byte) (any, error) {
				var args UserArgs
				if err := decode(raw, &args); err != nil {
					return nil, err
				}
				return uc.ReferralCode.Execute(ctx, referraluc.GetOrCreateReferralCodeCommand{
					UserID:     args.UserID,
					CallerID:   caller.UserID,
					CallerRole: caller.Role,
				})
			},
			CreateFamilyInvite: func(ctx context.Context, caller middleware.Caller, raw []byte) (any, error) {
				var args CreateInviteArgs
				if err := decode(raw, &args); err != nil {
					return nil, err
				}
				return uc.CreateInvite.Execute(ctx, referraluc.CreateFamilyInviteCommand{
					OwnerID:    args.OwnerID,
					Email:      args.Email,
					CallerID:   caller.UserID,
					CallerRole: caller.Role,
				})
			},
			AcceptFamilyInvite: func(ctx context.Context, caller middleware.Caller, raw []byte) (any, error) {
				var args AcceptInviteArgs
				if err := decode(raw, &args); err != nil {
					return nil, err
				}
				return uc.AcceptInvite.Execute(ctx, referraluc.AcceptFamilyInviteCommand{
					Token:      args.Token,
					UserID:     args.UserID,
					CallerID:   caller.UserID,
					CallerRole: caller.Role,
				})
			},
			AdvanceUserOnboarding: func(ctx context.Context, caller middleware.Caller, raw []byte) (any, error) {
				var args AdvanceOnboardingArgs
				if err := decode(raw, &args); err != nil {
					return nil, err
				}
				return uc.AdvanceOnboarding.Execute(ctx, profileuc.AdvanceOnboardingCommand{
					UserID:     args.UserID,
					Step:       args.Step,
					CallerID:   caller.UserID,
					CallerRole: caller.Role,
				})
			},
		},
		logger: logger,
	}
}

// Resolve rejects unknown procedures before authorization runs.
func (h *Handler) Resolve(c *gin.Context) {
	if _, ok := h.procedure(c); !ok {
		c.Abort()
		return
	}
	c.Next()
}

func (h *Handler) procedure(c *gin.Context) (procedure, bool) {
	name := c.Param("fn")
	fn, ok := h.procedures[name]
	if !ok {
		c.JSON(http.StatusNotFound, utils.ErrorBody{
			Code:    CodeUndefinedFunction,
			Message: fmt.Sprintf("Could not find the function public.%s in the schema cache", name),
		})
	}
	return fn, ok
}

// Call handles POST /rest/v1/rpc/:fn.
// @Summary Call a remote procedure
// @Description validate_checkin, update_competition_rankings, get_or_create_referral_code, create_family_invite, accept_family_invite and advance_user_onboarding. Arguments are p_ prefixed.
// @Tags RPC
// @Accept json
// @Produce json
// @Param apikey header string true "Anon key"
// @Param fn path string true "Procedure name"
// @Param request body object true "Procedure arguments"
// @Security BearerAuth
// @Success 200 {object} object
// @Failure 400 {object} utils.ErrorBody
// @Failure 403 {object} utils.ErrorBody
// @Failure 404 {object} utils.ErrorBody
// @Failure 429 {object} utils.ErrorBody
// @Router /rest/v1/rpc/{fn} [post]
func (h *Handler) Call(c *gin.Context) {
	fn, ok := h.procedure(c)
	if !ok {
		return
	}
	name := c.Param("fn")

	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodyBytes))
	if err != nil {
		utils.ErrorResponseWithError(c, errors.NewBadRequestError("failed to read request body"))
		return
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		raw = []byte("{}")
	}

	result, err := fn(c.Request.Context(), middleware.CallerFrom(c), raw)
	if err != nil {
		if errors.GetAppError(err) == nil {
			h.logger.Errorw("procedure failed", "function", name, "error", err)
		}
		utils.ErrorResponseWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func decode(raw []byte, target any) error {
	if err := json.Unmarshal(raw, target); err != nil {
		return errors.NewBadRequestError("invalid procedure arguments", err.Error())
	}
	return utils.ValidateStruct(target)
}
