package rbac

import "errors"

type CreateRoleDTO struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

func (dto CreateRoleDTO) Validate() error {
	if dto.Name == "" {
		return errors.New("role name is required")
	}
	return nil
}

type CreatePermissionDTO struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

func (dto CreatePermissionDTO) Validate() error {
	if dto.Name == "" {
		return errors.New("permission name is required")
	}
	return nil
}

type UpdateDescriptionDTO struct {
	Description string `json:"description"`
}

type AttachPermissionDTO struct {
	PermissionID int64 `json:"permission_id" validate:"required"`
}

func (dto AttachPermissionDTO) Validate() error {
	if dto.PermissionID <= 0 {
		return errors.New("permission_id is required")
	}
	return nil
}

type AssignRoleDTO struct {
	UserID int64 `json:"user_id" validate:"required"`
	RoleID int64 `json:"role_id" validate:"required"`
}

func (dto AssignRoleDTO) Validate() error {
	if dto.UserID <= 0 {
		return errors.New("user_id is required")
	}
	if dto.RoleID <= 0 {
		return errors.New("role_id is required")
	}
	return nil
}
