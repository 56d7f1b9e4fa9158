package postgres

import (
	"github.com/frahmantamala/ai-gateway/internal/audit"
	"github.com/jmoiron/sqlx"
)

// AuditRepository implements the audit.Repository interface using sqlx. The
// audit trail is append-only; there are no update or delete paths here.
type AuditRepository struct {
	db *sqlx.DB
}

func NewAuditRepository(db *sqlx.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Append(entry *audit.Entry) error {
	query := `
		INSERT INTO audit_logs (user_id, action, details, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING id, created_at`

	return r.db.QueryRowx(query, entry.UserID, string(entry.Action), entry.Details).
		Scan(&entry.ID, &entry.CreatedAt)
}

func (r *AuditRepository) ListAll() ([]*audit.Entry, error) {
	var entries []*audit.Entry
	query := `
		SELECT id, user_id, action, details, created_at
		FROM audit_logs
		ORDER BY created_at DESC, id DESC`

	if err := r.db.Select(&entries, query); err != nil {
		return nil, err
	}
	return entries, nil
}
