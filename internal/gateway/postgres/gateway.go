package postgres

import (
	"github.com/frahmantamala/ai-gateway/internal/core/datamodel/request"
	"github.com/frahmantamala/ai-gateway/internal/gateway"
	"gorm.io/gorm"
)

// GatewayRepository implements the gateway.Repository interface using GORM.
// Requests and responses are insert-only here; compliance owns the deletes.
type GatewayRepository struct {
	db *gorm.DB
}

func NewGatewayRepository(db *gorm.DB) *GatewayRepository {
	return &GatewayRepository{db: db}
}

func (r *GatewayRepository) SaveRequest(req *request.Request) error {
	return r.db.Create(req).Error
}

func (r *GatewayRepository) SaveResponse(resp *request.Response) error {
	return r.db.Create(resp).Error
}

func (r *GatewayRepository) HistoryForUser(userID int64) ([]*gateway.HistoryEntry, error) {
	var entries []*gateway.HistoryEntry
	err := r.db.
		Table("requests").
		Select(`requests.id AS request_id,
			requests.content AS content,
			requests.created_at AS submitted_at,
			responses.content AS response_content`).
		Joins("LEFT JOIN responses ON responses.request_id = requests.id").
		Where("requests.user_id = ?", userID).
		Order("requests.created_at DESC").
		Scan(&entries).Error
	return entries, err
}
