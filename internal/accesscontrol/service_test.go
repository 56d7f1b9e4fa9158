package accesscontrol_test

import (
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/frahmantamala/ai-gateway/internal/accesscontrol"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestAccessControlService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "AccessControl Service Suite")
}

// MockStore implements accesscontrol.PermissionStore
type MockStore struct {
	userRoles  map[int64][]int64
	rolePerms  map[int64][]string
	shouldFail bool
	failError  error
}

func NewMockStore() *MockStore {
	return &MockStore{
		userRoles: map[int64][]int64{},
		rolePerms: map[int64][]string{},
	}
}

func (m *MockStore) SetShouldFail(fail bool, err error) {
	m.shouldFail = fail
	m.failError = err
}

func (m *MockStore) GetRoleIDsForUser(userID int64) ([]int64, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	return m.userRoles[userID], nil
}

func (m *MockStore) GetPermissionNamesForRole(roleID int64) ([]string, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	return m.rolePerms[roleID], nil
}

var _ = Describe("AccessControl Service", func() {
	const (
		alice int64 = 1
		bob   int64 = 2

		employeeRole int64 = 10
		dpoRole      int64 = 11
	)

	var (
		store   *MockStore
		service *accesscontrol.Service
		logger  *slog.Logger
	)

	BeforeEach(func() {
		store = NewMockStore()
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = accesscontrol.NewService(store, logger)

		store.userRoles[alice] = []int64{employeeRole}
		store.userRoles[bob] = []int64{employeeRole, dpoRole}
		store.rolePerms[employeeRole] = []string{"USE_IA"}
		store.rolePerms[dpoRole] = []string{"VIEW_LOGS", "MANAGE_COMPLIANCE"}
	})

	Describe("UserHasPermission", func() {
		It("should grant a permission reachable through a role", func() {
			ok, err := service.UserHasPermission(alice, "USE_IA")
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeTrue())
		})

		It("should deny a permission no role carries", func() {
			ok, err := service.UserHasPermission(alice, "AI_USE_EXTERNAL")
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeFalse())
		})

		It("should search every assigned role", func() {
			ok, err := service.UserHasPermission(bob, "MANAGE_COMPLIANCE")
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeTrue())
		})

		It("should deny a user with no roles", func() {
			ok, err := service.UserHasPermission(99, "USE_IA")
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeFalse())
		})

		It("should deny an invalid user ID without hitting the store", func() {
			store.SetShouldFail(true, errors.New("should not be called"))
			ok, err := service.UserHasPermission(0, "USE_IA")
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeFalse())
		})

		It("should fail closed on store errors", func() {
			store.SetShouldFail(true, errors.New("connection lost"))
			ok, err := service.UserHasPermission(alice, "USE_IA")
			Expect(err).To(HaveOccurred())
			Expect(ok).To(BeFalse())
		})

		It("should reflect a role revocation immediately", func() {
			ok, err := service.UserHasPermission(alice, "USE_IA")
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeTrue())

			store.userRoles[alice] = nil

			ok, err = service.UserHasPermission(alice, "USE_IA")
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeFalse())
		})
	})
})
