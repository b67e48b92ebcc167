package migration

import (
	"github.com/fitpass-app/fitpass/internal/infrastructure/persistence/models"
)

// Models lists every table the backend owns, in creation order.
func Models() []interface{} {
	return []interface{}{
		&models.UserModel{},
		&models.AuthSessionModel{},
		&models.ProfileModel{},
		&models.AcademyModel{},
		&models.CheckinModel{},
		&models.CompetitionModel{},
		&models.CompetitionParticipantModel{},
		&models.ReviewModel{},
		&models.FamilyInviteModel{},
	}
}
