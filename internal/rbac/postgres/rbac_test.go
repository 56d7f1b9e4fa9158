package postgres_test

import (
	"testing"
	"time"

	"github.com/frahmantamala/ai-gateway/internal/rbac"
	rbacPostgres "github.com/frahmantamala/ai-gateway/internal/rbac/postgres"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestRBACPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "RBAC Postgres Suite")
}

// SQLite-compatible models for testing

type SQLiteRole struct {
	ID          int64     `gorm:"primaryKey"`
	Name        string    `gorm:"column:name;uniqueIndex;not null"`
	Description string    `gorm:"column:description"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (SQLiteRole) TableName() string { return "roles" }

type SQLitePermission struct {
	ID          int64     `gorm:"primaryKey"`
	Name        string    `gorm:"column:name;uniqueIndex;not null"`
	Description string    `gorm:"column:description"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (SQLitePermission) TableName() string { return "permissions" }

type SQLiteUserRole struct {
	UserID int64 `gorm:"column:user_id;primaryKey"`
	RoleID int64 `gorm:"column:role_id;primaryKey"`
}

func (SQLiteUserRole) TableName() string { return "user_roles" }

type SQLiteRolePermission struct {
	RoleID       int64 `gorm:"column:role_id;primaryKey"`
	PermissionID int64 `gorm:"column:permission_id;primaryKey"`
}

func (SQLiteRolePermission) TableName() string { return "role_permissions" }

var _ = Describe("RBAC PostgreSQL Repository", func() {
	var (
		db   *gorm.DB
		repo *rbacPostgres.RBACRepository
	)

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&SQLiteRole{}, &SQLitePermission{}, &SQLiteUserRole{}, &SQLiteRolePermission{})
		Expect(err).NotTo(HaveOccurred())

		repo = rbacPostgres.NewRBACRepository(db)
	})

	Describe("roles", func() {
		It("should create a role and fill its ID", func() {
			role := &rbac.Role{Name: "ADMIN", Description: "administrators"}
			Expect(repo.CreateRole(role)).To(Succeed())
			Expect(role.ID).To(BeNumerically(">", 0))
		})

		It("should enforce unique role names", func() {
			Expect(repo.CreateRole(&rbac.Role{Name: "ADMIN"})).To(Succeed())
			Expect(repo.CreateRole(&rbac.Role{Name: "ADMIN"})).NotTo(Succeed())
		})

		It("should find a role by name", func() {
			created := &rbac.Role{Name: "DPO"}
			Expect(repo.CreateRole(created)).To(Succeed())

			found, err := repo.GetRoleByName("DPO")
			Expect(err).NotTo(HaveOccurred())
			Expect(found.ID).To(Equal(created.ID))
		})

		It("should report a missing role by name", func() {
			_, err := repo.GetRoleByName("NOBODY")
			Expect(err).To(MatchError(rbac.ErrRoleNotFound))
		})

		It("should update a role description", func() {
			role := &rbac.Role{Name: "ADMIN"}
			Expect(repo.CreateRole(role)).To(Succeed())

			Expect(repo.UpdateRoleDescription(role.ID, "all powers")).To(Succeed())

			found, err := repo.GetRoleByName("ADMIN")
			Expect(err).NotTo(HaveOccurred())
			Expect(found.Description).To(Equal("all powers"))
		})

		It("should report a missing role on update", func() {
			err := repo.UpdateRoleDescription(999, "text")
			Expect(err).To(MatchError(rbac.ErrRoleNotFound))
		})

		It("should list roles ordered by name", func() {
			Expect(repo.CreateRole(&rbac.Role{Name: "EMPLOYEE"})).To(Succeed())
			Expect(repo.CreateRole(&rbac.Role{Name: "ADMIN"})).To(Succeed())

			roles, err := repo.ListRoles()
			Expect(err).NotTo(HaveOccurred())
			Expect(roles).To(HaveLen(2))
			Expect(roles[0].Name).To(Equal("ADMIN"))
		})

		It("should delete a role together with its associations", func() {
			role := &rbac.Role{Name: "ADMIN"}
			perm := &rbac.Permission{Name: "CONFIGURE_SYSTEM"}
			Expect(repo.CreateRole(role)).To(Succeed())
			Expect(repo.CreatePermission(perm)).To(Succeed())
			Expect(repo.AttachPermissionToRole(role.ID, perm.ID)).To(Succeed())
			Expect(repo.AssignRoleToUser(1, role.ID)).To(Succeed())

			Expect(repo.DeleteRole(role.ID)).To(Succeed())

			var n int64
			Expect(db.Model(&SQLiteRolePermission{}).Count(&n).Error).NotTo(HaveOccurred())
			Expect(n).To(BeZero())
			Expect(db.Model(&SQLiteUserRole{}).Count(&n).Error).NotTo(HaveOccurred())
			Expect(n).To(BeZero())
		})
	})

	Describe("permissions", func() {
		It("should create and find a permission", func() {
			perm := &rbac.Permission{Name: "VIEW_LOGS"}
			Expect(repo.CreatePermission(perm)).To(Succeed())

			found, err := repo.GetPermissionByName("VIEW_LOGS")
			Expect(err).NotTo(HaveOccurred())
			Expect(found.ID).To(Equal(perm.ID))
		})

		It("should report a missing permission", func() {
			_, err := repo.GetPermissionByName("NOPE")
			Expect(err).To(MatchError(rbac.ErrPermissionNotFound))
		})

		It("should report a missing permission on update", func() {
			err := repo.UpdatePermissionDescription(999, "text")
			Expect(err).To(MatchError(rbac.ErrPermissionNotFound))
		})

		It("should delete a permission and its role links", func() {
			role := &rbac.Role{Name: "DPO"}
			perm := &rbac.Permission{Name: "MANAGE_COMPLIANCE"}
			Expect(repo.CreateRole(role)).To(Succeed())
			Expect(repo.CreatePermission(perm)).To(Succeed())
			Expect(repo.AttachPermissionToRole(role.ID, perm.ID)).To(Succeed())

			Expect(repo.DeletePermission(perm.ID)).To(Succeed())

			var n int64
			Expect(db.Model(&SQLiteRolePermission{}).Count(&n).Error).NotTo(HaveOccurred())
			Expect(n).To(BeZero())
		})
	})

	Describe("associations", func() {
		It("should attach and detach a permission", func() {
			role := &rbac.Role{Name: "DPO"}
			perm := &rbac.Permission{Name: "VIEW_LOGS"}
			Expect(repo.CreateRole(role)).To(Succeed())
			Expect(repo.CreatePermission(perm)).To(Succeed())

			Expect(repo.AttachPermissionToRole(role.ID, perm.ID)).To(Succeed())
			var n int64
			Expect(db.Model(&SQLiteRolePermission{}).Count(&n).Error).NotTo(HaveOccurred())
			Expect(n).To(Equal(int64(1)))

			Expect(repo.DetachPermissionFromRole(role.ID, perm.ID)).To(Succeed())
			Expect(db.Model(&SQLiteRolePermission{}).Count(&n).Error).NotTo(HaveOccurred())
			Expect(n).To(BeZero())
		})

		It("should assign a role to a user", func() {
			role := &rbac.Role{Name: "EMPLOYEE"}
			Expect(repo.CreateRole(role)).To(Succeed())
			Expect(repo.AssignRoleToUser(7, role.ID)).To(Succeed())

			var link SQLiteUserRole
			Expect(db.First(&link).Error).NotTo(HaveOccurred())
			Expect(link.UserID).To(Equal(int64(7)))
			Expect(link.RoleID).To(Equal(role.ID))
		})
	})
})
