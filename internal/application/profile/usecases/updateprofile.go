package usecases

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/url"
	"strings"
	"time"

	"gorm.io/datatypes"

	"github.com/fitpass-app/fitpass/internal/domain/profile"
	"github.com/fitpass-app/fitpass/internal/shared/biztime"
	"github.com/fitpass-app/fitpass/internal/shared/errors"
	"github.com/fitpass-app/fitpass/internal/shared/logger"
)

const maxFullNameLength = 120

// UpdateProfileCommand carries the editable fields; nil fields are left
// unchanged.
type UpdateProfileCommand struct {
	UserID    string
	FullName  *string
	AvatarURL *string
	Goals     json.RawMessage
}

type UpdateProfileUseCase struct {
	profiles profile.Repository
	logger   logger.Interface
	now      func() time.Time
}

func NewUpdateProfileUseCase(profiles profile.Repository, logger logger.Interface) *UpdateProfileUseCase {
	return &UpdateProfileUseCase{profiles: profiles, logger: logger, now: biztime.NowUTC}
}

func (uc *UpdateProfileUseCase) Execute(ctx context.Context, cmd UpdateProfileCommand) (*profile.Profile, error) {
	uc.logger.Infow("executing update profile use case", "user_id", cmd.UserID)

	if err := uc.validateCommand(cmd); err != nil {
		return nil, err
	}

	p, err := uc.profiles.GetByID(ctx, cmd.UserID)
	if err != nil {
		if stderrors.Is(err, profile.ErrProfileNotFound) {
			return nil, errors.NewNotFoundError("profile not found", cmd.UserID)
		}
		return nil, err
	}

	if cmd.FullName != nil {
		p.FullName = strings.TrimSpace(*cmd.FullName)
	}
	if cmd.AvatarURL != nil {
		p.AvatarURL = *cmd.AvatarURL
	}
	if len(cmd.Goals) > 0 {
		p.Goals = datatypes.JSON(cmd.Goals)
	}
	p.UpdatedAt = uc.now()

	if err := uc.profiles.Update(ctx, p); err != nil {
		uc.logger.Errorw("failed to update profile", "user_id", cmd.UserID, "error", err)
		return nil, err
	}
	return p, nil
}

func (uc *UpdateProfileUseCase) validateCommand(cmd UpdateProfileCommand) error {
	if cmd.UserID == "" {
		return errors.NewUnauthorizedError("authentication required")
	}
	if cmd.FullName != nil && len(*cmd.FullName) > maxFullNameLength {
		return errors.NewValidationError("full_name is too long")
	}
	if cmd.AvatarURL != nil && *cmd.AvatarURL != "" {
		u, err := url.Parse(*cmd.AvatarURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			return errors.NewValidationError("avatar_url must be an http(s) URL")
		}
	}
	if len(cmd.Goals) > 0 && !json.Valid(cmd.Goals) {
		return errors.NewValidationError("goals must be valid JSON")
	}
	return nil
}
