package compliance

import (
	"errors"
	"time"
)

// Consent is a user's current AI-processing consent. One row per user; setting
// consent upserts the row rather than appending history. The audit log carries
// the history.
type Consent struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	UserID    int64     `json:"user_id" gorm:"column:user_id;not null;unique"`
	Granted   bool      `json:"granted" gorm:"column:granted;not null"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func (Consent) TableName() string {
	return "consents"
}

// RetentionReport counts what a retention sweep removed. Both counts zero
// means the sweep was a no-op, which is the expected steady state.
type RetentionReport struct {
	RequestsDeleted  int64 `json:"requests_deleted"`
	ResponsesDeleted int64 `json:"responses_deleted"`
}

var (
	ErrComplianceDenied = errors.New("Permission denied: cannot manage compliance.")
	ErrUnknownUser      = errors.New("unknown user")
)
