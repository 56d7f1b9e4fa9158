package cmd

import (
	"fmt"
	"log"

	"github.com/frahmantamala/ai-gateway/internal/rbac"
	"github.com/frahmantamala/ai-gateway/internal/user"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

// rolePermissions maps each built-in role to the permissions it receives at
// seed time. ADMIN gets everything; the DPO gets the compliance surface plus
// local AI; employees get local AI only (external access is granted per user
// by an admin).
var rolePermissions = map[string][]string{
	user.RoleNameAdmin: {
		rbac.PermConfigureSystem,
		rbac.PermUseIA,
		rbac.PermUseExternalAI,
		rbac.PermViewLogs,
		rbac.PermManageCompliance,
	},
	user.RoleNameDPO: {
		rbac.PermUseIA,
		rbac.PermViewLogs,
		rbac.PermManageCompliance,
	},
	user.RoleNameEmployee: {
		rbac.PermUseIA,
	},
}

var seedUsers = []struct {
	Username   string
	FullName   string
	Department string
	Role       string
}{
	{"admin", "System Administrator", "IT", user.RoleNameAdmin},
	{"dpo", "Data Protection Officer", "Legal", user.RoleNameDPO},
	{"alice", "Alice Employee", "Engineering", user.RoleNameEmployee},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with roles, permissions and sample users",
	Long:  `Seed built-in roles, the closed permission set, role grants and sample users for development.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer db.Close()

		if clearData {
			clearSeedData(db)
		}

		seedRolesAndPermissions(db)
		seedSampleUsers(db, cfg.Security.BCryptCost)

		fmt.Println("Seeding complete")
	},
}

func clearSeedData(db *sqlx.DB) {
	// Order matters: association tables first. The audit trail is left alone.
	for _, table := range []string{"user_roles", "role_permissions", "consents", "responses", "requests", "users", "permissions", "roles"} {
		if _, err := db.Exec("DELETE FROM " + table); err != nil {
			log.Fatalf("failed to clear %s: %v", table, err)
		}
	}
	fmt.Println("Cleared existing data")
}

func seedRolesAndPermissions(db *sqlx.DB) {
	for name, desc := range rbac.AllPermissions {
		ensureRow(db,
			"SELECT id FROM permissions WHERE name = $1",
			"INSERT INTO permissions (name, description, created_at) VALUES ($1, $2, now())",
			name, desc)
	}

	roles := map[string]string{
		user.RoleNameAdmin:    "Full system administration",
		user.RoleNameDPO:      "Data protection officer",
		user.RoleNameEmployee: "Regular employee",
	}
	for name, desc := range roles {
		ensureRow(db,
			"SELECT id FROM roles WHERE name = $1",
			"INSERT INTO roles (name, description, created_at) VALUES ($1, $2, now())",
			name, desc)
	}

	for roleName, permNames := range rolePermissions {
		var roleID int64
		if err := db.Get(&roleID, "SELECT id FROM roles WHERE name = $1", roleName); err != nil {
			log.Fatalf("role %s not found after seed: %v", roleName, err)
		}
		for _, permName := range permNames {
			var permID int64
			if err := db.Get(&permID, "SELECT id FROM permissions WHERE name = $1", permName); err != nil {
				log.Fatalf("permission %s not found after seed: %v", permName, err)
			}

			var exists int
			err := db.Get(&exists,
				"SELECT 1 FROM role_permissions WHERE role_id = $1 AND permission_id = $2",
				roleID, permID)
			if err == nil {
				continue
			}
			if _, err := db.Exec(
				"INSERT INTO role_permissions (role_id, permission_id) VALUES ($1, $2)",
				roleID, permID); err != nil {
				log.Fatalf("failed to grant %s to %s: %v", permName, roleName, err)
			}
		}
		fmt.Printf("Granted %d permissions to role %s\n", len(permNames), roleName)
	}
}

func seedSampleUsers(db *sqlx.DB, bcryptCost int) {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcryptCost)
	if err != nil {
		log.Fatalf("failed to hash seed password: %v", err)
	}

	for _, su := range seedUsers {
		var userID int64
		if err := db.Get(&userID, "SELECT id FROM users WHERE username = $1", su.Username); err != nil {
			if err := db.QueryRow(
				`INSERT INTO users (username, password_hash, full_name, department, is_active, created_at, updated_at)
				 VALUES ($1, $2, $3, $4, true, now(), now()) RETURNING id`,
				su.Username, string(hash), su.FullName, su.Department).Scan(&userID); err != nil {
				log.Fatalf("failed to insert user %s: %v", su.Username, err)
			}
			fmt.Printf("Seeded user %s (%s)\n", su.Username, su.Role)
		}

		var roleID int64
		if err := db.Get(&roleID, "SELECT id FROM roles WHERE name = $1", su.Role); err != nil {
			log.Fatalf("role %s not found for user %s: %v", su.Role, su.Username, err)
		}

		var exists int
		if err := db.Get(&exists,
			"SELECT 1 FROM user_roles WHERE user_id = $1 AND role_id = $2", userID, roleID); err == nil {
			continue
		}
		if _, err := db.Exec(
			"INSERT INTO user_roles (user_id, role_id) VALUES ($1, $2)", userID, roleID); err != nil {
			log.Fatalf("failed to assign role %s to %s: %v", su.Role, su.Username, err)
		}
	}
}

func ensureRow(db *sqlx.DB, selectQuery, insertQuery string, args ...interface{}) {
	var id int64
	if err := db.Get(&id, selectQuery, args[0]); err == nil {
		return
	}
	if _, err := db.Exec(insertQuery, args...); err != nil {
		log.Fatalf("seed insert failed: %v", err)
	}
}
