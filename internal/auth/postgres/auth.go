package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/frahmantamala/ai-gateway/internal/auth"
	"github.com/frahmantamala/ai-gateway/internal/user"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) GetCredentials(username string) (int64, string, bool, error) {
	var (
		userID       int64
		passwordHash string
		isActive     bool
	)
	query := `SELECT id, password_hash, is_active FROM users WHERE username = ?`

	row := r.db.Raw(query, username).Row()
	if err := row.Scan(&userID, &passwordHash, &isActive); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, "", false, fmt.Errorf("user not found")
		}
		return 0, "", false, err
	}
	return userID, passwordHash, isActive, nil
}

func (r *Repository) GetSessionUser(userID int64) (*auth.User, error) {
	var u auth.User
	query := `SELECT id, username, full_name FROM users WHERE id = ? AND is_active = true`

	row := r.db.Raw(query, userID).Row()
	if err := row.Scan(&u.ID, &u.Username, &u.FullName); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user not found")
		}
		return nil, err
	}

	roleQuery := `SELECT r.name
	             FROM roles r
	             JOIN user_roles ur ON r.id = ur.role_id
	             WHERE ur.user_id = ?`

	rows, err := r.db.Raw(roleQuery, userID).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roleNames []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		roleNames = append(roleNames, name)
	}

	u.Kind = string(user.KindFromRoles(roleNames))
	return &u, nil
}
