package gateway

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/ai-gateway/internal/auth"
	"github.com/frahmantamala/ai-gateway/internal/transport"
	"github.com/frahmantamala/ai-gateway/pkg/logger"
)

type ServiceAPI interface {
	MakeRequest(ctx context.Context, userID int64, dto MakeRequestDTO) (*Result, error)
	History(userID int64) ([]*HistoryEntry, error)
	AdminLoadLocalModel(ctx context.Context, actorID int64, dto LoadModelDTO) error
	AdminSetExternalAPIKey(actorID int64, dto SetAPIKeyDTO) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

func (h *Handler) actorID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	sessionUser, ok := auth.UserFromContext(r.Context())
	if !ok || sessionUser == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return 0, false
	}
	return sessionUser.ID, true
}

// verdictStatus maps a mediation verdict to the HTTP status of the envelope.
// The Result body travels with every status so clients always see verdict and
// message.
func verdictStatus(v Verdict) int {
	switch v {
	case VerdictCompleted:
		return http.StatusOK
	case VerdictNotAuthenticated:
		return http.StatusUnauthorized
	case VerdictDeniedConsent, VerdictDeniedPermission:
		return http.StatusForbidden
	case VerdictBackendError:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// SubmitRequest mediates one AI request for the authenticated user.
func (h *Handler) SubmitRequest(w http.ResponseWriter, r *http.Request) {
	actorID, ok := h.actorID(w, r)
	if !ok {
		return
	}

	var dto MakeRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.Service.MakeRequest(r.Context(), actorID, dto)
	if err != nil {
		h.Logger.Error("SubmitRequest: service error", "error", err, "user_id", actorID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, verdictStatus(result.Verdict), result)
}

// History lists the caller's submitted requests with their responses.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	actorID, ok := h.actorID(w, r)
	if !ok {
		return
	}

	entries, err := h.Service.History(actorID)
	if err != nil {
		h.Logger.Error("History: service error", "error", err, "user_id", actorID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, entries)
}

// LoadModel switches the local backend to another model.
func (h *Handler) LoadModel(w http.ResponseWriter, r *http.Request) {
	actorID, ok := h.actorID(w, r)
	if !ok {
		return
	}

	var dto LoadModelDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.Service.AdminLoadLocalModel(r.Context(), actorID, dto); err != nil {
		h.Logger.Error("LoadModel: service error", "error", err, "actor_id", actorID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "loaded"})
}

// SetAPIKey rotates the external provider's API key.
func (h *Handler) SetAPIKey(w http.ResponseWriter, r *http.Request) {
	actorID, ok := h.actorID(w, r)
	if !ok {
		return
	}

	var dto SetAPIKeyDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.Service.AdminSetExternalAPIKey(actorID, dto); err != nil {
		h.Logger.Error("SetAPIKey: service error", "error", err, "actor_id", actorID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}
