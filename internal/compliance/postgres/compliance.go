package postgres

import (
	"errors"
	"time"

	"github.com/frahmantamala/ai-gateway/internal/compliance"
	"github.com/frahmantamala/ai-gateway/internal/core/datamodel/request"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ComplianceRepository implements the compliance.Repository interface using
// GORM. Deletes are issued against requests, responses and consents only.
type ComplianceRepository struct {
	db *gorm.DB
}

func NewComplianceRepository(db *gorm.DB) *ComplianceRepository {
	return &ComplianceRepository{db: db}
}

func (r *ComplianceRepository) GetConsent(userID int64) (*compliance.Consent, error) {
	var consent compliance.Consent
	err := r.db.Where("user_id = ?", userID).First(&consent).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &consent, nil
}

func (r *ComplianceRepository) UpsertConsent(userID int64, granted bool) error {
	consent := compliance.Consent{
		UserID:    userID,
		Granted:   granted,
		UpdatedAt: time.Now(),
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"granted", "updated_at"}),
	}).Create(&consent).Error
}

func (r *ComplianceRepository) DeleteConsent(userID int64) error {
	return r.db.Where("user_id = ?", userID).Delete(&compliance.Consent{}).Error
}

func (r *ComplianceRepository) DeleteResponsesOlderThan(cutoff time.Time) (int64, error) {
	res := r.db.
		Where("request_id IN (?)",
			r.db.Model(&request.Request{}).Select("id").Where("created_at < ?", cutoff)).
		Delete(&request.Response{})
	return res.RowsAffected, res.Error
}

func (r *ComplianceRepository) DeleteRequestsOlderThan(cutoff time.Time) (int64, error) {
	res := r.db.Where("created_at < ?", cutoff).Delete(&request.Request{})
	return res.RowsAffected, res.Error
}

func (r *ComplianceRepository) DeleteResponsesForUser(userID int64) (int64, error) {
	res := r.db.
		Where("request_id IN (?)",
			r.db.Model(&request.Request{}).Select("id").Where("user_id = ?", userID)).
		Delete(&request.Response{})
	return res.RowsAffected, res.Error
}

func (r *ComplianceRepository) DeleteRequestsForUser(userID int64) (int64, error) {
	res := r.db.Where("user_id = ?", userID).Delete(&request.Request{})
	return res.RowsAffected, res.Error
}
