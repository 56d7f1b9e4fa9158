package audit

import (
	"errors"
	"time"
)

// Action identifies what an audit entry records. The set is closed: every
// auditable operation in the gateway maps to exactly one of these.
type Action string

const (
	ActionRequestSubmitted  Action = "REQUEST_SUBMITTED"
	ActionResponseGenerated Action = "RESPONSE_GENERATED"

	ActionCreateRole               Action = "CREATE_ROLE"
	ActionUpdateRole               Action = "UPDATE_ROLE"
	ActionDeleteRole               Action = "DELETE_ROLE"
	ActionCreatePermission         Action = "CREATE_PERMISSION"
	ActionUpdatePermission         Action = "UPDATE_PERMISSION"
	ActionDeletePermission         Action = "DELETE_PERMISSION"
	ActionAttachPermissionToRole   Action = "ATTACH_PERMISSION_TO_ROLE"
	ActionDetachPermissionFromRole Action = "DETACH_PERMISSION_FROM_ROLE"
	ActionAssignRole               Action = "ASSIGN_ROLE"

	ActionSetConsent        Action = "SET_CONSENT"
	ActionEraseUserData     Action = "ERASE_USER_DATA"
	ActionRetentionEnforced Action = "RETENTION_ENFORCED"
)

// Entry is a single append-only audit record. Entries are never updated or
// deleted; retention and erasure leave the audit trail intact.
type Entry struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	Action    Action    `json:"action" db:"action"`
	Details   string    `json:"details" db:"details"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

var ErrLogAccessDenied = errors.New("Permission denied: cannot view audit logs.")
