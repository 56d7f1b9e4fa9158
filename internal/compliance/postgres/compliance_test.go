package postgres_test

import (
	"testing"
	"time"

	compliancePostgres "github.com/frahmantamala/ai-gateway/internal/compliance/postgres"
	"github.com/frahmantamala/ai-gateway/internal/core/datamodel/request"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestCompliancePostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Compliance Postgres Suite")
}

// SQLite-compatible models for testing

type SQLiteConsent struct {
	ID        int64     `gorm:"primaryKey"`
	UserID    int64     `gorm:"column:user_id;uniqueIndex;not null"`
	Granted   bool      `gorm:"column:granted;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (SQLiteConsent) TableName() string { return "consents" }

type SQLiteRequest struct {
	ID        string    `gorm:"primaryKey"`
	UserID    int64     `gorm:"column:user_id;not null"`
	Content   string    `gorm:"column:content;not null"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (SQLiteRequest) TableName() string { return "requests" }

type SQLiteResponse struct {
	ID        string    `gorm:"primaryKey"`
	RequestID string    `gorm:"column:request_id;not null"`
	Content   string    `gorm:"column:content;not null"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (SQLiteResponse) TableName() string { return "responses" }

var _ = Describe("Compliance PostgreSQL Repository", func() {
	var (
		db   *gorm.DB
		repo *compliancePostgres.ComplianceRepository
	)

	seedRound := func(userID int64, content string, at time.Time) {
		req, err := request.New(userID, content)
		Expect(err).NotTo(HaveOccurred())
		req.CreatedAt = at
		Expect(db.Create(req).Error).NotTo(HaveOccurred())

		resp, err := request.NewResponse(req, "answer to "+content)
		Expect(err).NotTo(HaveOccurred())
		Expect(db.Create(resp).Error).NotTo(HaveOccurred())
	}

	countRows := func(model interface{}) int64 {
		var n int64
		Expect(db.Model(model).Count(&n).Error).NotTo(HaveOccurred())
		return n
	}

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&SQLiteConsent{}, &SQLiteRequest{}, &SQLiteResponse{})
		Expect(err).NotTo(HaveOccurred())

		repo = compliancePostgres.NewComplianceRepository(db)
	})

	Describe("consent storage", func() {
		It("should return nil when the user never recorded a decision", func() {
			consent, err := repo.GetConsent(1)
			Expect(err).NotTo(HaveOccurred())
			Expect(consent).To(BeNil())
		})

		It("should insert on first write", func() {
			Expect(repo.UpsertConsent(1, true)).To(Succeed())

			consent, err := repo.GetConsent(1)
			Expect(err).NotTo(HaveOccurred())
			Expect(consent.Granted).To(BeTrue())
		})

		It("should overwrite on a second write without a second row", func() {
			Expect(repo.UpsertConsent(1, true)).To(Succeed())
			Expect(repo.UpsertConsent(1, false)).To(Succeed())

			consent, err := repo.GetConsent(1)
			Expect(err).NotTo(HaveOccurred())
			Expect(consent.Granted).To(BeFalse())
			Expect(countRows(&SQLiteConsent{})).To(Equal(int64(1)))
		})

		It("should delete a consent record", func() {
			Expect(repo.UpsertConsent(1, true)).To(Succeed())
			Expect(repo.DeleteConsent(1)).To(Succeed())

			consent, err := repo.GetConsent(1)
			Expect(err).NotTo(HaveOccurred())
			Expect(consent).To(BeNil())
		})
	})

	Describe("retention deletes", func() {
		var cutoff time.Time

		BeforeEach(func() {
			cutoff = time.Now().Add(-30 * 24 * time.Hour)
			seedRound(1, "old question", cutoff.Add(-time.Hour))
			seedRound(1, "recent question", time.Now())
		})

		It("should delete responses whose requests are past the cutoff", func() {
			n, err := repo.DeleteResponsesOlderThan(cutoff)
			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(Equal(int64(1)))
			Expect(countRows(&SQLiteResponse{})).To(Equal(int64(1)))
		})

		It("should delete requests past the cutoff", func() {
			_, err := repo.DeleteResponsesOlderThan(cutoff)
			Expect(err).NotTo(HaveOccurred())

			n, err := repo.DeleteRequestsOlderThan(cutoff)
			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(Equal(int64(1)))
			Expect(countRows(&SQLiteRequest{})).To(Equal(int64(1)))
		})

		It("should delete nothing on a second sweep", func() {
			_, err := repo.DeleteResponsesOlderThan(cutoff)
			Expect(err).NotTo(HaveOccurred())
			_, err = repo.DeleteRequestsOlderThan(cutoff)
			Expect(err).NotTo(HaveOccurred())

			n, err := repo.DeleteResponsesOlderThan(cutoff)
			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(BeZero())
			n, err = repo.DeleteRequestsOlderThan(cutoff)
			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(BeZero())
		})
	})

	Describe("user-scoped deletes", func() {
		BeforeEach(func() {
			seedRound(1, "alice one", time.Now())
			seedRound(1, "alice two", time.Now())
			seedRound(2, "bob one", time.Now())
		})

		It("should delete only the target user's responses", func() {
			n, err := repo.DeleteResponsesForUser(1)
			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(Equal(int64(2)))
			Expect(countRows(&SQLiteResponse{})).To(Equal(int64(1)))
		})

		It("should delete only the target user's requests", func() {
			_, err := repo.DeleteResponsesForUser(1)
			Expect(err).NotTo(HaveOccurred())

			n, err := repo.DeleteRequestsForUser(1)
			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(Equal(int64(2)))

			var remaining []SQLiteRequest
			Expect(db.Find(&remaining).Error).NotTo(HaveOccurred())
			Expect(remaining).To(HaveLen(1))
			Expect(remaining[0].UserID).To(Equal(int64(2)))
		})
	})
})
