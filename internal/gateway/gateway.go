package gateway

import (
	"time"

	"github.com/frahmantamala/ai-gateway/internal/core/datamodel/request"
)

// Verdict classifies the outcome of a mediated request. Callers branch on the
// verdict instead of matching response text.
type Verdict string

const (
	VerdictCompleted        Verdict = "COMPLETED"
	VerdictNotAuthenticated Verdict = "NOT_AUTHENTICATED"
	VerdictDeniedConsent    Verdict = "DENIED_CONSENT"
	VerdictDeniedPermission Verdict = "DENIED_PERMISSION"
	VerdictBackendError     Verdict = "BACKEND_ERROR"
)

// Denied reports whether the verdict is any of the refusal outcomes.
func (v Verdict) Denied() bool {
	return v != VerdictCompleted
}

// Denial and failure messages, stored verbatim as response content so the
// trail reads the same way the user saw it.
const (
	MsgNotAuthenticated     = "User is not authenticated."
	MsgNoConsent            = "No consent for AI processing."
	MsgNoExternalPermission = "Permission denied: user cannot use external AI."
	MsgNoLocalPermission    = "Permission denied: user cannot use local AI."
	MsgBackendFailure       = "AI backend failure."
)

// Result is the typed outcome of MakeRequest. Response is nil only for
// NOT_AUTHENTICATED, where nothing was persisted.
type Result struct {
	Verdict  Verdict           `json:"verdict"`
	Response *request.Response `json:"response,omitempty"`
	Message  string            `json:"message"`
}

// HistoryEntry pairs a stored request with its response for history listings.
type HistoryEntry struct {
	RequestID       string    `json:"request_id"`
	Content         string    `json:"content"`
	SubmittedAt     time.Time `json:"submitted_at"`
	ResponseContent string    `json:"response_content,omitempty"`
}
