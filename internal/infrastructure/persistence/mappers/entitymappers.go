package mappers

import (
	"github.com/fitpass-app/fitpass/internal/domain/academy"
	"github.com/fitpass-app/fitpass/internal/domain/competition"
	"github.com/fitpass-app/fitpass/internal/domain/profile"
	"github.com/fitpass-app/fitpass/internal/domain/referral"
	"github.com/fitpass-app/fitpass/internal/domain/review"
	"github.com/fitpass-app/fitpass/internal/infrastructure/persistence/models"
)

func AcademyToEntity(m *models.AcademyModel) *academy.Academy {
	return &academy.Academy{
		ID:           m.ID,
		Name:         m.Name,
		Address:      m.Address,
		Latitude:     m.Latitude,
		Longitude:    m.Longitude,
		RadiusMeters: m.RadiusMeters,
		OwnerID:      m.OwnerID,
		CreatedAt:    m.CreatedAt,
	}
}

func AcademyToModel(a *academy.Academy) *models.AcademyModel {
	return &models.AcademyModel{
		ID:           a.ID,
		Name:         a.Name,
		Address:      a.Address,
		Latitude:     a.Latitude,
		Longitude:    a.Longitude,
		RadiusMeters: a.RadiusMeters,
		OwnerID:      a.OwnerID,
		CreatedAt:    a.CreatedAt,
	}
}

func ProfileToEntity(m *models.ProfileModel) *profile.Profile {
	return &profile.Profile{
		ID:             m.ID,
		Email:          m.Email,
		FullName:       m.FullName,
		AvatarURL:      m.AvatarURL,
		Role:           m.Role,
		OnboardingStep: profile.Step(m.OnboardingStep),
		Goals:          m.Goals,
		FamilyOwnerID:  m.FamilyOwnerID,
		ReferralCode:   m.ReferralCode,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

func ProfileToModel(p *profile.Profile) *models.ProfileModel {
	return &models.ProfileModel{
		ID:             p.ID,
		Email:          p.Email,
		FullName:       p.FullName,
		AvatarURL:      p.AvatarURL,
		Role:           p.Role,
		OnboardingStep: string(p.OnboardingStep),
		Goals:          p.Goals,
		FamilyOwnerID:  p.FamilyOwnerID,
		ReferralCode:   p.ReferralCode,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func CompetitionToEntity(m *models.CompetitionModel) *competition.Competition {
	return &competition.Competition{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		AcademyID:   m.AcademyID,
		StartsAt:    m.StartsAt,
		EndsAt:      m.EndsAt,
		CreatedBy:   m.CreatedBy,
		CreatedAt:   m.CreatedAt,
	}
}

func CompetitionToModel(c *competition.Competition) *models.CompetitionModel {
	return &models.CompetitionModel{
		ID:          c.ID,
		Title:       c.Title,
		Description: c.Description,
		AcademyID:   c.AcademyID,
		StartsAt:    c.StartsAt,
		EndsAt:      c.EndsAt,
		CreatedBy:   c.CreatedBy,
		CreatedAt:   c.CreatedAt,
	}
}

func ParticipantToEntity(m *models.CompetitionParticipantModel) *competition.Participant {
	return &competition.Participant{
		CompetitionID: m.CompetitionID,
		UserID:        m.UserID,
		Score:         m.Score,
		Rank:          m.Rank,
		JoinedAt:      m.JoinedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func ReviewToEntity(m *models.ReviewModel) *review.Review {
	return &review.Review{
		ID:        m.ID,
		UserID:    m.UserID,
		AcademyID: m.AcademyID,
		Rating:    m.Rating,
		Body:      m.Body,
		BodyHTML:  m.BodyHTML,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func ReviewToModel(r *review.Review) *models.ReviewModel {
	return &models.ReviewModel{
		ID:        r.ID,
		UserID:    r.UserID,
		AcademyID: r.AcademyID,
		Rating:    r.Rating,
		Body:      r.Body,
		BodyHTML:  r.BodyHTML,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func FamilyInviteToEntity(m *models.FamilyInviteModel) *referral.FamilyInvite {
	return &referral.FamilyInvite{
		ID:         m.ID,
		OwnerID:    m.OwnerID,
		Email:      m.Email,
		Token:      m.Token,
		ExpiresAt:  m.ExpiresAt,
		AcceptedBy: m.AcceptedBy,
		AcceptedAt: m.AcceptedAt,
		CreatedAt:  m.CreatedAt,
	}
}

func FamilyInviteToModel(i *referral.FamilyInvite) *models.FamilyInviteModel {
	return &models.FamilyInviteModel{
		ID:         i.ID,
		OwnerID:    i.OwnerID,
		Email:      i.Email,
		Token:      i.Token,
		ExpiresAt:  i.ExpiresAt,
		AcceptedBy: i.AcceptedBy,
		AcceptedAt: i.AcceptedAt,
		CreatedAt:  i.CreatedAt,
	}
}
