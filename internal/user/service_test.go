package user_test

import (
	"log/slog"
	"os"
	"testing"

	"github.com/frahmantamala/ai-gateway/internal/user"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
)

func TestUserService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "User Service Suite")
}

// MockRepository implements user.Repository with in-memory storage.
type MockRepository struct {
	users     map[int64]*user.User
	roleNames map[int64][]string
	nextID    int64
}

func NewMockRepository() *MockRepository {
	return &MockRepository{
		users:     map[int64]*user.User{},
		roleNames: map[int64][]string{},
	}
}

func (m *MockRepository) Create(u *user.User) error {
	m.nextID++
	u.ID = m.nextID
	m.users[u.ID] = u
	return nil
}

func (m *MockRepository) GetByID(userID int64) (*user.User, error) {
	u, ok := m.users[userID]
	if !ok {
		return nil, user.ErrNotFound
	}
	return u, nil
}

func (m *MockRepository) GetByUsername(username string) (*user.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, user.ErrNotFound
}

func (m *MockRepository) GetRoleNames(userID int64) ([]string, error) {
	return m.roleNames[userID], nil
}

// MockRoleAssigner implements user.RoleAssigner and records assignments back
// into the repository's role map.
type MockRoleAssigner struct {
	repo    *MockRepository
	roleIDs map[string]int64
	nextID  int64
}

func NewMockRoleAssigner(repo *MockRepository) *MockRoleAssigner {
	return &MockRoleAssigner{repo: repo, roleIDs: map[string]int64{}}
}

func (m *MockRoleAssigner) EnsureRole(name, description string) (int64, error) {
	if id, ok := m.roleIDs[name]; ok {
		return id, nil
	}
	m.nextID++
	m.roleIDs[name] = m.nextID
	return m.nextID, nil
}

func (m *MockRoleAssigner) AssignRoleToUserID(userID, roleID int64) error {
	for name, id := range m.roleIDs {
		if id == roleID {
			m.repo.roleNames[userID] = append(m.repo.roleNames[userID], name)
		}
	}
	return nil
}

var _ = Describe("User Service", func() {
	var (
		repo    *MockRepository
		roles   *MockRoleAssigner
		service *user.Service
		logger  *slog.Logger
	)

	BeforeEach(func() {
		repo = NewMockRepository()
		roles = NewMockRoleAssigner(repo)
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = user.NewService(repo, roles, bcrypt.MinCost, logger)
	})

	Describe("CreateUser", func() {
		It("should register a user with a hashed password", func() {
			u, err := service.CreateUser(user.CreateUserDTO{
				Username: "alice",
				Password: "correct-horse",
				FullName: "Alice Martin",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(u.ID).NotTo(BeZero())
			Expect(u.PasswordHash).NotTo(Equal("correct-horse"))
			Expect(bcrypt.CompareHashAndPassword(
				[]byte(u.PasswordHash), []byte("correct-horse"))).To(Succeed())
		})

		It("should default to the EMPLOYEE role", func() {
			u, err := service.CreateUser(user.CreateUserDTO{
				Username: "alice",
				Password: "correct-horse",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(repo.roleNames[u.ID]).To(Equal([]string{user.RoleNameEmployee}))
			Expect(u.Kind).To(Equal(user.KindEmployee))
		})

		It("should assign the requested roles and derive the variant", func() {
			u, err := service.CreateUser(user.CreateUserDTO{
				Username:  "dpo",
				Password:  "correct-horse",
				RoleNames: []string{user.RoleNameDPO},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(u.Kind).To(Equal(user.KindDPO))
		})

		It("should refuse a duplicate username", func() {
			_, err := service.CreateUser(user.CreateUserDTO{Username: "alice", Password: "correct-horse"})
			Expect(err).NotTo(HaveOccurred())

			_, err = service.CreateUser(user.CreateUserDTO{Username: "alice", Password: "other-secret"})
			Expect(err).To(MatchError(user.ErrUsernameExists))
		})

		It("should reject a short password", func() {
			_, err := service.CreateUser(user.CreateUserDTO{Username: "alice", Password: "short"})
			Expect(err).To(HaveOccurred())
			Expect(repo.users).To(BeEmpty())
		})

		It("should reject a short username", func() {
			_, err := service.CreateUser(user.CreateUserDTO{Username: "al", Password: "correct-horse"})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("GetByID", func() {
		It("should resolve the user with its current variant", func() {
			created, err := service.CreateUser(user.CreateUserDTO{
				Username:  "root",
				Password:  "correct-horse",
				RoleNames: []string{user.RoleNameAdmin},
			})
			Expect(err).NotTo(HaveOccurred())

			u, err := service.GetByID(created.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(u.Username).To(Equal("root"))
			Expect(u.Kind).To(Equal(user.KindAdmin))
		})

		It("should fail for an unknown ID", func() {
			_, err := service.GetByID(99)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("KindFromRoles", func() {
		It("should prefer ADMIN over DPO", func() {
			kind := user.KindFromRoles([]string{user.RoleNameDPO, user.RoleNameAdmin})
			Expect(kind).To(Equal(user.KindAdmin))
		})

		It("should fall back to employee for unknown roles", func() {
			kind := user.KindFromRoles([]string{"CONTRACTOR"})
			Expect(kind).To(Equal(user.KindEmployee))
		})
	})
})
