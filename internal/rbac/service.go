package rbac

import (
	"fmt"
	"log/slog"

	"github.com/frahmantamala/ai-gateway/internal/audit"
)

// Repository defines the data access methods for roles and permissions.
type Repository interface {
	CreateRole(role *Role) error
	GetRoleByName(name string) (*Role, error)
	UpdateRoleDescription(roleID int64, description string) error
	DeleteRole(roleID int64) error
	ListRoles() ([]*Role, error)

	CreatePermission(perm *Permission) error
	GetPermissionByName(name string) (*Permission, error)
	UpdatePermissionDescription(permissionID int64, description string) error
	DeletePermission(permissionID int64) error
	ListPermissions() ([]*Permission, error)

	AttachPermissionToRole(roleID, permissionID int64) error
	DetachPermissionFromRole(roleID, permissionID int64) error
	AssignRoleToUser(userID, roleID int64) error
}

// PermissionChecker gates management operations on CONFIGURE_SYSTEM.
type PermissionChecker interface {
	UserHasPermission(userID int64, permissionName string) (bool, error)
}

// Auditor appends audit entries for every management mutation.
type Auditor interface {
	Log(userID int64, action audit.Action, details string)
}

type Service struct {
	repo    Repository
	access  PermissionChecker
	auditor Auditor
	logger  *slog.Logger
}

func NewService(repo Repository, access PermissionChecker, auditor Auditor, logger *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		access:  access,
		auditor: auditor,
		logger:  logger,
	}
}

// canManageRoles is the single authorization gate for all role and permission
// mutations.
func (s *Service) canManageRoles(actorID int64) error {
	ok, err := s.access.UserHasPermission(actorID, PermConfigureSystem)
	if err != nil {
		return err
	}
	if !ok {
		s.logger.Warn("role management denied", "actor_id", actorID)
		return ErrPermissionDenied
	}
	return nil
}

func (s *Service) CreateRole(actorID int64, dto CreateRoleDTO) (*Role, error) {
	if err := s.canManageRoles(actorID); err != nil {
		return nil, err
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	role := &Role{Name: dto.Name, Description: dto.Description}
	if err := s.repo.CreateRole(role); err != nil {
		s.logger.Error("failed to create role", "error", err, "name", dto.Name)
		return nil, err
	}

	s.auditor.Log(actorID, audit.ActionCreateRole, fmt.Sprintf("Created role '%s' with ID %d", role.Name, role.ID))
	return role, nil
}

func (s *Service) UpdateRoleDescription(actorID, roleID int64, description string) error {
	if err := s.canManageRoles(actorID); err != nil {
		return err
	}
	if err := s.repo.UpdateRoleDescription(roleID, description); err != nil {
		return err
	}
	s.auditor.Log(actorID, audit.ActionUpdateRole, fmt.Sprintf("Updated role %d with description: %s", roleID, description))
	return nil
}

func (s *Service) DeleteRole(actorID, roleID int64) error {
	if err := s.canManageRoles(actorID); err != nil {
		return err
	}
	if err := s.repo.DeleteRole(roleID); err != nil {
		return err
	}
	s.auditor.Log(actorID, audit.ActionDeleteRole, fmt.Sprintf("Deleted role %d", roleID))
	return nil
}

func (s *Service) CreatePermission(actorID int64, dto CreatePermissionDTO) (*Permission, error) {
	if err := s.canManageRoles(actorID); err != nil {
		return nil, err
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	perm := &Permission{Name: dto.Name, Description: dto.Description}
	if err := s.repo.CreatePermission(perm); err != nil {
		s.logger.Error("failed to create permission", "error", err, "name", dto.Name)
		return nil, err
	}

	s.auditor.Log(actorID, audit.ActionCreatePermission, fmt.Sprintf("Created permission '%s' (ID %d)", perm.Name, perm.ID))
	return perm, nil
}

func (s *Service) UpdatePermissionDescription(actorID, permissionID int64, description string) error {
	if err := s.canManageRoles(actorID); err != nil {
		return err
	}
	if err := s.repo.UpdatePermissionDescription(permissionID, description); err != nil {
		return err
	}
	s.auditor.Log(actorID, audit.ActionUpdatePermission, fmt.Sprintf("Updated permission %d with description: %s", permissionID, description))
	return nil
}

func (s *Service) DeletePermission(actorID, permissionID int64) error {
	if err := s.canManageRoles(actorID); err != nil {
		return err
	}
	if err := s.repo.DeletePermission(permissionID); err != nil {
		return err
	}
	s.auditor.Log(actorID, audit.ActionDeletePermission, fmt.Sprintf("Deleted permission %d", permissionID))
	return nil
}

func (s *Service) AttachPermissionToRole(actorID, roleID, permissionID int64) error {
	if err := s.canManageRoles(actorID); err != nil {
		return err
	}
	if err := s.repo.AttachPermissionToRole(roleID, permissionID); err != nil {
		return err
	}
	s.auditor.Log(actorID, audit.ActionAttachPermissionToRole, fmt.Sprintf("Attached permission %d to role %d", permissionID, roleID))
	return nil
}

func (s *Service) DetachPermissionFromRole(actorID, roleID, permissionID int64) error {
	if err := s.canManageRoles(actorID); err != nil {
		return err
	}
	if err := s.repo.DetachPermissionFromRole(roleID, permissionID); err != nil {
		return err
	}
	s.auditor.Log(actorID, audit.ActionDetachPermissionFromRole, fmt.Sprintf("Removed permission %d from role %d", permissionID, roleID))
	return nil
}

func (s *Service) AssignRoleToUser(actorID int64, dto AssignRoleDTO) error {
	if err := s.canManageRoles(actorID); err != nil {
		return err
	}
	if err := dto.Validate(); err != nil {
		return err
	}
	if err := s.repo.AssignRoleToUser(dto.UserID, dto.RoleID); err != nil {
		return err
	}
	s.auditor.Log(actorID, audit.ActionAssignRole, fmt.Sprintf("Assigned role %d to user %d", dto.RoleID, dto.UserID))
	return nil
}

// ListRoles and ListPermissions are read-only and ungated: the admin UI needs
// them to render pickers before any mutation is attempted.
func (s *Service) ListRoles() ([]*Role, error) {
	return s.repo.ListRoles()
}

func (s *Service) ListPermissions() ([]*Permission, error) {
	return s.repo.ListPermissions()
}

// EnsureRole finds a role by name, creating it when missing. Used by user
// registration; not authorization-gated and not audited because it runs on
// behalf of the system itself.
func (s *Service) EnsureRole(name, description string) (int64, error) {
	role, err := s.repo.GetRoleByName(name)
	if err == nil && role != nil {
		return role.ID, nil
	}
	if err != nil && err != ErrRoleNotFound {
		return 0, err
	}

	created := &Role{Name: name, Description: description}
	if err := s.repo.CreateRole(created); err != nil {
		return 0, err
	}
	return created.ID, nil
}

// AssignRoleToUserID is the unaudited registration-time variant of
// AssignRoleToUser.
func (s *Service) AssignRoleToUserID(userID, roleID int64) error {
	return s.repo.AssignRoleToUser(userID, roleID)
}
