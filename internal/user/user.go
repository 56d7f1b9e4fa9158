package user

import (
	"errors"
	"time"
)

// Kind is the user variant. It is derived from assigned role names at
// authentication time and never stored on the users table.
type Kind string

const (
	KindAdmin    Kind = "admin"
	KindDPO      Kind = "dpo"
	KindEmployee Kind = "employee"
)

// Reserved role names that map onto user variants.
const (
	RoleNameAdmin    = "ADMIN"
	RoleNameDPO      = "DPO"
	RoleNameEmployee = "EMPLOYEE"
)

type User struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"column:username;not null"`
	PasswordHash string    `json:"-" gorm:"column:password_hash;not null"`
	FullName     string    `json:"full_name" gorm:"column:full_name"`
	Department   string    `json:"department,omitempty" gorm:"column:department"`
	IsActive     bool      `json:"is_active" gorm:"column:is_active;default:true"`
	Kind         Kind      `json:"kind" gorm:"-"`
	CreatedAt    time.Time `json:"created_at" gorm:"column:created_at;default:now()"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"column:updated_at;default:now()"`
}

func (User) TableName() string {
	return "users"
}

// IsAuthenticated reports whether this value represents a resolved identity.
// All variants share the same predicate.
func (u *User) IsAuthenticated() bool {
	return u != nil && u.ID > 0
}

// KindFromRoles derives the user variant from role names: ADMIN wins over DPO,
// everything else is an employee.
func KindFromRoles(roleNames []string) Kind {
	for _, name := range roleNames {
		if name == RoleNameAdmin {
			return KindAdmin
		}
	}
	for _, name := range roleNames {
		if name == RoleNameDPO {
			return KindDPO
		}
	}
	return KindEmployee
}

var (
	ErrNotFound       = errors.New("user not found")
	ErrUsernameExists = errors.New("username already exists")
)
