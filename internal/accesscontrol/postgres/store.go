package postgres

import (
	"gorm.io/gorm"
)

// Store implements the accesscontrol.PermissionStore interface using GORM
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) GetRoleIDsForUser(userID int64) ([]int64, error) {
	var roleIDs []int64
	err := s.db.
		Table("user_roles").
		Select("role_id").
		Where("user_id = ?", userID).
		Scan(&roleIDs).Error
	return roleIDs, err
}

func (s *Store) GetPermissionNamesForRole(roleID int64) ([]string, error) {
	var names []string
	err := s.db.
		Table("permissions").
		Select("permissions.name").
		Joins("JOIN role_permissions ON role_permissions.permission_id = permissions.id").
		Where("role_permissions.role_id = ?", roleID).
		Scan(&names).Error
	return names, err
}
