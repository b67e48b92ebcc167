package permission

import (
	"github.com/fitpass-app/fitpass/internal/domain/permission"
	"github.com/fitpass-app/fitpass/internal/domain/profile"
	"github.com/fitpass-app/fitpass/internal/shared/errors"
	"github.com/fitpass-app/fitpass/internal/shared/logger"
)

// Service turns enforcer decisions into application errors.
type Service struct {
	enforcer permission.Enforcer
	logger   logger.Interface
}

func NewService(enforcer permission.Enforcer, logger logger.Interface) *Service {
	return &Service{
		enforcer: enforcer,
		logger:   logger,
	}
}

// Authorize returns a forbidden error when role may not perform action on
// resource. Enforcer failures are reported as internal errors.
func (s *Service) Authorize(role, resource, action string) error {
	if role == "" {
		return errors.NewUnauthorizedError("authentication required")
	}
	allowed, err := s.enforcer.Enforce(role, resource, action)
	if err != nil {
		return errors.NewInternalError("permission check failed", err.Error())
	}
	if !allowed {
		s.logger.Infow("permission denied", "role", role, "resource", resource, "action", action)
		return errors.NewForbiddenError("permission denied for " + resource)
	}
	return nil
}

// ActingFor allows callers to act on their own behalf; superadmins may act
// for anyone.
func ActingFor(callerID, callerRole, userID string) error {
	if callerID == "" {
		return errors.NewUnauthorizedError("authentication required")
	}
	if callerID != userID && callerRole != profile.RoleSuperadmin {
		return errors.NewForbiddenError("cannot act on behalf of another user")
	}
	return nil
}
