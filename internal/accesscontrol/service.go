package accesscontrol

import (
	"log/slog"
)

// Service answers "does user U hold permission P". Pure read, fails closed.
type Service struct {
	store  PermissionStore
	logger *slog.Logger
}

func NewService(store PermissionStore, logger *slog.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger,
	}
}

// UserHasPermission returns true if the permission name is reachable through
// at least one of the user's assigned roles. An absent or invalid user is
// never granted anything.
func (s *Service) UserHasPermission(userID int64, permissionName string) (bool, error) {
	if userID <= 0 {
		return false, nil
	}

	roleIDs, err := s.store.GetRoleIDsForUser(userID)
	if err != nil {
		s.logger.Error("failed to resolve roles", "error", err, "user_id", userID)
		return false, err
	}

	for _, roleID := range roleIDs {
		names, err := s.store.GetPermissionNamesForRole(roleID)
		if err != nil {
			s.logger.Error("failed to resolve role permissions", "error", err, "role_id", roleID)
			return false, err
		}
		for _, name := range names {
			if name == permissionName {
				return true, nil
			}
		}
	}

	return false, nil
}
