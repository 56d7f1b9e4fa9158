package postgres_test

import (
	"testing"
	"time"

	"github.com/frahmantamala/ai-gateway/internal/core/datamodel/request"
	gatewayPostgres "github.com/frahmantamala/ai-gateway/internal/gateway/postgres"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestGatewayPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Gateway Postgres Suite")
}

// SQLite-compatible models for testing

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

var _ = Describe("Gateway PostgreSQL Repository", func() {
	var (
		db   *gorm.DB
		repo *gatewayPostgres.GatewayRepository
	)

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&SQLiteRequest{}, &SQLiteResponse{})
		Expect(err).NotTo(HaveOccurred())

		repo = gatewayPostgres.NewGatewayRepository(db)
	})

	Describe("SaveRequest", func() {
		It("should persist a request with its generated ID", func() {
			req, err := request.New(1, "summarize this")
			Expect(err).NotTo(HaveOccurred())

			Expect(repo.SaveRequest(req)).To(Succeed())

			var stored SQLiteRequest
			Expect(db.First(&stored, "id = ?", req.ID).Error).NotTo(HaveOccurred())
			Expect(stored.UserID).To(Equal(int64(1)))
			Expect(stored.Content).To(Equal("summarize this"))
		})
	})

	Describe("SaveResponse", func() {
		It("should persist a response bound to its request", func() {
			req, err := request.New(1, "hello")
			Expect(err).NotTo(HaveOccurred())
			Expect(repo.SaveRequest(req)).To(Succeed())

			resp, err := request.NewResponse(req, "hi there")
			Expect(err).NotTo(HaveOccurred())
			Expect(repo.SaveResponse(resp)).To(Succeed())

			var stored SQLiteResponse
			Expect(db.First(&stored, "id = ?", resp.ID).Error).NotTo(HaveOccurred())
			Expect(stored.RequestID).To(Equal(req.ID))
		})
	})

	Describe("HistoryForUser", func() {
		makeRound := func(userID int64, content, answer string, at time.Time) *request.Request {
			req, err := request.New(userID, content)
			Expect(err).NotTo(HaveOccurred())
			req.CreatedAt = at
			Expect(repo.SaveRequest(req)).To(Succeed())

			if answer != "" {
				resp, err := request.NewResponse(req, answer)
				Expect(err).NotTo(HaveOccurred())
				Expect(repo.SaveResponse(resp)).To(Succeed())
			}
			return req
		}

		It("should return the user's requests newest first with their responses", func() {
			base := time.Now().Add(-time.Hour)
			makeRound(1, "first question", "first answer", base)
			makeRound(1, "second question", "second answer", base.Add(time.Minute))

			entries, err := repo.HistoryForUser(1)
			Expect(err).NotTo(HaveOccurred())
			Expect(entries).To(HaveLen(2))
			Expect(entries[0].Content).To(Equal("second question"))
			Expect(entries[0].ResponseContent).To(Equal("second answer"))
			Expect(entries[1].Content).To(Equal("first question"))
		})

		It("should include requests that never got a response", func() {
			makeRound(1, "pending question", "", time.Now())

			entries, err := repo.HistoryForUser(1)
			Expect(err).NotTo(HaveOccurred())
			Expect(entries).To(HaveLen(1))
			Expect(entries[0].ResponseContent).To(BeEmpty())
		})

		It("should not leak other users' requests", func() {
			makeRound(1, "mine", "answer", time.Now())
			makeRound(2, "theirs", "answer", time.Now())

			entries, err := repo.HistoryForUser(1)
			Expect(err).NotTo(HaveOccurred())
			Expect(entries).To(HaveLen(1))
			Expect(entries[0].Content).To(Equal("mine"))
		})

		It("should return an empty history for an unknown user", func() {
			entries, err := repo.HistoryForUser(99)
			Expect(err).NotTo(HaveOccurred())
			Expect(entries).To(BeEmpty())
		})
	})
})
