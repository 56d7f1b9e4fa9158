package user

import (
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// Repository defines the data access methods for users.
type Repository interface {
	Create(u *User) error
	GetByID(userID int64) (*User, error)
	GetByUsername(username string) (*User, error)
	GetRoleNames(userID int64) ([]string, error)
}

// RoleAssigner grants roles at registration time, creating missing roles on
// the fly (registration predates any role management by an admin).
type RoleAssigner interface {
	EnsureRole(name, description string) (roleID int64, err error)
	AssignRoleToUserID(userID, roleID int64) error
}

type Service struct {
	repo       Repository
	roles      RoleAssigner
	bcryptCost int
	logger     *slog.Logger
}

func NewService(repo Repository, roles RoleAssigner, bcryptCost int, logger *slog.Logger) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		repo:       repo,
		roles:      roles,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

// CreateUser registers a user and assigns the requested roles, defaulting to
// EMPLOYEE when none are given.
func (s *Service) CreateUser(dto CreateUserDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("user validation failed", "error", err, "username", dto.Username)
		return nil, err
	}

	if existing, err := s.repo.GetByUsername(dto.Username); err == nil && existing != nil {
		s.logger.Warn("username already taken", "username", dto.Username)
		return nil, ErrUsernameExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &User{
		Username:     dto.Username,
		PasswordHash: string(hash),
		FullName:     dto.FullName,
		Department:   dto.Department,
		IsActive:     true,
	}
	if err := s.repo.Create(u); err != nil {
		s.logger.Error("failed to create user", "error", err, "username", dto.Username)
		return nil, err
	}

	roleNames := dto.RoleNames
	if len(roleNames) == 0 {
		roleNames = []string{RoleNameEmployee}
	}
	for _, rn := range roleNames {
		roleID, err := s.roles.EnsureRole(rn, fmt.Sprintf("Auto-created role %s", rn))
		if err != nil {
			return nil, fmt.Errorf("ensure role %s: %w", rn, err)
		}
		if err := s.roles.AssignRoleToUserID(u.ID, roleID); err != nil {
			return nil, fmt.Errorf("assign role %s: %w", rn, err)
		}
	}
	u.Kind = KindFromRoles(roleNames)

	s.logger.Info("user created",
		"user_id", u.ID,
		"username", u.Username,
		"roles", roleNames)

	return u, nil
}

// GetByID resolves a user with its variant derived from current role
// assignments.
func (s *Service) GetByID(userID int64) (*User, error) {
	u, err := s.repo.GetByID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	roleNames, err := s.repo.GetRoleNames(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user roles: %w", err)
	}
	u.Kind = KindFromRoles(roleNames)

	return u, nil
}
