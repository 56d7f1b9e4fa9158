package rbac

import (
	"errors"
	"time"
)

// The closed permission set forming the gateway's policy surface. Permissions
// are free-form rows in the store, but the system itself only ever checks
// these names.
const (
	PermConfigureSystem  = "CONFIGURE_SYSTEM"
	PermUseIA            = "USE_IA"
	PermUseExternalAI    = "AI_USE_EXTERNAL"
	PermViewLogs         = "VIEW_LOGS"
	PermManageCompliance = "MANAGE_COMPLIANCE"
)

// AllPermissions lists the built-in permission names with their descriptions,
// used by the seeder.
var AllPermissions = map[string]string{
	PermConfigureSystem:  "Manage roles, permissions and system configuration",
	PermUseIA:            "Permission to use internal AI",
	PermUseExternalAI:    "Permission to use external AI",
	PermViewLogs:         "Read the audit log",
	PermManageCompliance: "Manage consent, retention and erasure",
}

type Role struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"column:name;not null;unique"`
	Description string    `json:"description" gorm:"column:description"`
	CreatedAt   time.Time `json:"created_at" gorm:"column:created_at;default:now()"`
}

func (Role) TableName() string {
	return "roles"
}

type Permission struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"column:name;not null;unique"`
	Description string    `json:"description" gorm:"column:description"`
	CreatedAt   time.Time `json:"created_at" gorm:"column:created_at;default:now()"`
}

func (Permission) TableName() string {
	return "permissions"
}

var (
	ErrPermissionDenied   = errors.New("permission denied: user cannot manage roles")
	ErrRoleNotFound       = errors.New("role not found")
	ErrPermissionNotFound = errors.New("permission not found")
)
