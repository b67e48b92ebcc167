package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"github.com/fitpass-app/fitpass/internal/domain/profile"
	"github.com/fitpass-app/fitpass/internal/domain/session"
	"github.com/fitpass-app/fitpass/internal/infrastructure/supabase"
)

// ProfileUpdate carries the fields a user may change; nil means unchanged.
type ProfileUpdate struct {
	FullName *string         `json:"full_name,omitempty"`
	Goals    json.RawMessage `json:"goals,omitempty"`
}

type Profiles struct {
	client *supabase.Client
}

func NewProfiles(client *supabase.Client) *Profiles {
	return &Profiles{client: client}
}

func (s *Profiles) GetProfile(ctx context.Context, sess *session.Session) (*profile.Profile, error) {
	c, err := as(s.client, sess)
	if err != nil {
		return nil, err
	}
	var p profile.Profile
	if err := c.From(TableProfiles).Eq("id", sess.UserID()).Single(ctx, &p); err != nil {
		if supabase.IsNotFound(err) {
			return nil, profile.ErrProfileNotFound
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return &p, nil
}

func (s *Profiles) UpdateProfile(ctx context.Context, sess *session.Session, upd ProfileUpdate) (*profile.Profile, error) {
	c, err := as(s.client, sess)
	if err != nil {
		return nil, err
	}
	var rows []profile.Profile
	if err := c.From(TableProfiles).Eq("id", sess.UserID()).Update(ctx, upd, &rows); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	if len(rows) == 0 {
		return nil, profile.ErrProfileNotFound
	}
	return &rows[0], nil
}

// AdvanceOnboarding reports completion of step and returns the new position.
func (s *Profiles) AdvanceOnboarding(ctx context.Context, sess *session.Session, step profile.Step) (profile.OnboardingResult, error) {
	c, err := as(s.client, sess)
	if err != nil {
		return profile.OnboardingResult{}, err
	}
	var out profile.OnboardingResult
	params := map[string]string{"p_user_id": sess.UserID(), "p_step": string(step)}
	if err := c.RPC(ctx, RPCAdvanceOnboarding, params, &out); err != nil {
		return profile.OnboardingResult{}, fmt.Errorf("advance onboarding: %w", err)
	}
	return out, nil
}

// UploadAvatar stores the image under the user's folder and points the
// profile at its public URL.
func (s *Profiles) UploadAvatar(ctx context.Context, sess *session.Session, filename string, data []byte, contentType string) (string, error) {
	c, err := as(s.client, sess)
	if err != nil {
		return "", err
	}
	ext := strings.ToLower(path.Ext(filename))
	if ext == "" {
		ext = ".jpg"
	}
	objectPath := sess.UserID() + "/avatar" + ext

	bucket := c.Storage().From(BucketAvatars)
	if _, err := bucket.Upload(ctx, objectPath, data, contentType, true); err != nil {
		return "", err
	}
	publicURL := bucket.PublicURL(objectPath)

	if err := c.From(TableProfiles).Eq("id", sess.UserID()).
		Update(ctx, map[string]string{"avatar_url": publicURL}, nil); err != nil {
		return "", fmt.Errorf("set avatar url: %w", err)
	}
	return publicURL, nil
}
