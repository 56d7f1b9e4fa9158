package audit_test

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"testing"

	"github.com/frahmantamala/ai-gateway/internal/audit"
	"github.com/frahmantamala/ai-gateway/internal/core/datamodel/request"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestAuditService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Audit Service Suite")
}

// MockRepository implements audit.Repository with an append-only slice.
type MockRepository struct {
	entries    []*audit.Entry
	shouldFail bool
	failError  error
}

func (m *MockRepository) SetShouldFail(fail bool, err error) {
	m.shouldFail = fail
	m.failError = err
}

func (m *MockRepository) Append(entry *audit.Entry) error {
	if m.shouldFail {
		return m.failError
	}
	m.entries = append(m.entries, entry)
	return nil
}

func (m *MockRepository) ListAll() ([]*audit.Entry, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	out := make([]*audit.Entry, len(m.entries))
	for i, e := range m.entries {
		out[len(m.entries)-1-i] = e
	}
	return out, nil
}

// MockAccess implements audit.PermissionChecker
type MockAccess struct {
	grants map[string]bool
	err    error
}

func (m *MockAccess) UserHasPermission(userID int64, permissionName string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	return m.grants[fmt.Sprintf("%d:%s", userID, permissionName)], nil
}

var _ = Describe("Audit Service", func() {
	const (
		auditor int64 = 1
		alice   int64 = 2
	)

	var (
		repo    *MockRepository
		access  *MockAccess
		service *audit.Service
		logger  *slog.Logger
	)

	BeforeEach(func() {
		repo = &MockRepository{}
		access = &MockAccess{grants: map[string]bool{
			fmt.Sprintf("%d:VIEW_LOGS", auditor): true,
		}}
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = audit.NewService(repo, access, logger)
	})

	Describe("Log", func() {
		It("should append an entry", func() {
			service.Log(alice, audit.ActionSetConsent, "Set consent for user 2 to true")
			Expect(repo.entries).To(HaveLen(1))
			Expect(repo.entries[0].UserID).To(Equal(alice))
			Expect(repo.entries[0].Action).To(Equal(audit.ActionSetConsent))
		})

		It("should swallow storage failures", func() {
			repo.SetShouldFail(true, errors.New("disk full"))
			Expect(func() {
				service.Log(alice, audit.ActionSetConsent, "anything")
			}).NotTo(Panic())
			Expect(repo.entries).To(BeEmpty())
		})
	})

	Describe("LogRequest", func() {
		It("should record the request content in the details", func() {
			req, err := request.New(alice, "summarize this document")
			Expect(err).NotTo(HaveOccurred())

			service.LogRequest(req)
			Expect(repo.entries).To(HaveLen(1))
			Expect(repo.entries[0].Action).To(Equal(audit.ActionRequestSubmitted))
			Expect(repo.entries[0].Details).To(Equal(
				fmt.Sprintf("Request ID: %s, Content: summarize this document", req.ID)))
		})
	})

	Describe("LogResponse", func() {
		It("should record the response by reference", func() {
			req, err := request.New(alice, "hello")
			Expect(err).NotTo(HaveOccurred())
			resp, err := request.NewResponse(req, "hi there")
			Expect(err).NotTo(HaveOccurred())

			service.LogResponse(alice, resp)
			Expect(repo.entries).To(HaveLen(1))
			Expect(repo.entries[0].Action).To(Equal(audit.ActionResponseGenerated))
			Expect(repo.entries[0].Details).To(Equal(
				fmt.Sprintf("Response ID: %s, RequestID: %s", resp.ID, req.ID)))
			Expect(repo.entries[0].Details).NotTo(ContainSubstring("hi there"))
		})
	})

	Describe("All", func() {
		BeforeEach(func() {
			service.Log(alice, audit.ActionSetConsent, "first")
			service.Log(alice, audit.ActionSetConsent, "second")
		})

		It("should refuse a viewer without VIEW_LOGS", func() {
			entries, err := service.All(alice)
			Expect(err).To(MatchError(audit.ErrLogAccessDenied))
			Expect(entries).To(BeNil())
		})

		It("should return entries newest first for an authorized viewer", func() {
			entries, err := service.All(auditor)
			Expect(err).NotTo(HaveOccurred())
			Expect(entries).To(HaveLen(2))
			Expect(entries[0].Details).To(Equal("second"))
		})

		It("should fail closed when the permission store fails", func() {
			access.err = errors.New("store down")
			_, err := service.All(auditor)
			Expect(err).To(HaveOccurred())
			Expect(err).NotTo(MatchError(audit.ErrLogAccessDenied))
		})
	})
})
