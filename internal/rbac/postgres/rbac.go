package postgres

import (
	"errors"

	"github.com/frahmantamala/ai-gateway/internal/rbac"
	"gorm.io/gorm"
)

// RBACRepository implements the rbac.Repository interface using GORM
type RBACRepository struct {
	db *gorm.DB
}

func NewRBACRepository(db *gorm.DB) *RBACRepository {
	return &RBACRepository{db: db}
}

func (r *RBACRepository) CreateRole(role *rbac.Role) error {
	return r.db.Create(role).Error
}

func (r *RBACRepository) GetRoleByName(name string) (*rbac.Role, error) {
	var role rbac.Role
	err := r.db.Where("name = ?", name).First(&role).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, rbac.ErrRoleNotFound
		}
		return nil, err
	}
	return &role, nil
}

func (r *RBACRepository) UpdateRoleDescription(roleID int64, description string) error {
	res := r.db.Model(&rbac.Role{}).
		Where("id = ?", roleID).
		Update("description", description)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return rbac.ErrRoleNotFound
	}
	return nil
}

// DeleteRole removes the role and its associations. Assignment rows go first
// so an interrupted delete never leaves dangling references.
func (r *RBACRepository) DeleteRole(roleID int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM user_roles WHERE role_id = ?", roleID).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM role_permissions WHERE role_id = ?", roleID).Error; err != nil {
			return err
		}
		return tx.Delete(&rbac.Role{}, roleID).Error
	})
}

func (r *RBACRepository) ListRoles() ([]*rbac.Role, error) {
	var roles []*rbac.Role
	err := r.db.Order("name ASC").Find(&roles).Error
	return roles, err
}

func (r *RBACRepository) CreatePermission(perm *rbac.Permission) error {
	return r.db.Create(perm).Error
}

func (r *RBACRepository) GetPermissionByName(name string) (*rbac.Permission, error) {
	var perm rbac.Permission
	err := r.db.Where("name = ?", name).First(&perm).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, rbac.ErrPermissionNotFound
		}
		return nil, err
	}
	return &perm, nil
}

func (r *RBACRepository) UpdatePermissionDescription(permissionID int64, description string) error {
	res := r.db.Model(&rbac.Permission{}).
		Where("id = ?", permissionID).
		Update("description", description)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return rbac.ErrPermissionNotFound
	}
	return nil
}

func (r *RBACRepository) DeletePermission(permissionID int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM role_permissions WHERE permission_id = ?", permissionID).Error; err != nil {
			return err
		}
		return tx.Delete(&rbac.Permission{}, permissionID).Error
	})
}

func (r *RBACRepository) ListPermissions() ([]*rbac.Permission, error) {
	var perms []*rbac.Permission
	err := r.db.Order("name ASC").Find(&perms).Error
	return perms, err
}

func (r *RBACRepository) AttachPermissionToRole(roleID, permissionID int64) error {
	return r.db.Exec(
		"INSERT INTO role_permissions (role_id, permission_id) VALUES (?, ?)",
		roleID, permissionID,
	).Error
}

func (r *RBACRepository) DetachPermissionFromRole(roleID, permissionID int64) error {
	return r.db.Exec(
		"DELETE FROM role_permissions WHERE role_id = ? AND permission_id = ?",
		roleID, permissionID,
	).Error
}

func (r *RBACRepository) AssignRoleToUser(userID, roleID int64) error {
	return r.db.Exec(
		"INSERT INTO user_roles (user_id, role_id) VALUES (?, ?)",
		userID, roleID,
	).Error
}
