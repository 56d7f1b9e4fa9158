package compliance

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/frahmantamala/ai-gateway/internal/auth"
	"github.com/frahmantamala/ai-gateway/internal/transport"
	"github.com/frahmantamala/ai-gateway/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	SetConsent(ctx context.Context, actorID int64, dto SetConsentDTO) error
	ConsentFor(userID int64) (*Consent, error)
	EnforceRetentionNow(ctx context.Context, actorID int64) (*RetentionReport, error)
	EraseUserData(ctx context.Context, actorID int64, dto EraseUserDataDTO) error
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

// SetConsent records a consent decision for a user. Self-service or
// MANAGE_COMPLIANCE; the service decides.
func (h *Handler) SetConsent(w http.ResponseWriter, r *http.Request) {
	actorID, ok := h.actorID(w, r)
	if !ok {
		return
	}

	var dto SetConsentDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.Service.SetConsent(r.Context(), actorID, dto); err != nil {
		if err == ErrComplianceDenied {
			h.WriteError(w, http.StatusForbidden, err.Error())
			return
		}
		h.Logger.Error("SetConsent: service error", "error", err, "actor_id", actorID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"user_id": dto.UserID,
		"granted": dto.Granted,
	})
}

// GetConsent returns a user's stored consent decision, or granted=false when
// none was ever recorded.
func (h *Handler) GetConsent(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.actorID(w, r); !ok {
		return
	}

	userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil || userID <= 0 {
		h.WriteError(w, http.StatusBadRequest, "invalid userID")
		return
	}

	consent, err := h.Service.ConsentFor(userID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	if consent == nil {
		h.WriteJSON(w, http.StatusOK, map[string]interface{}{
			"user_id": userID,
			"granted": false,
		})
		return
	}

	h.WriteJSON(w, http.StatusOK, consent)
}

// EnforceRetention triggers an immediate retention sweep.
func (h *Handler) EnforceRetention(w http.ResponseWriter, r *http.Request) {
	actorID, ok := h.actorID(w, r)
	if !ok {
		return
	}

	report, err := h.Service.EnforceRetentionNow(r.Context(), actorID)
	if err != nil {
		if err == ErrComplianceDenied {
			h.WriteError(w, http.StatusForbidden, err.Error())
			return
		}
		h.Logger.Error("EnforceRetention: service error", "error", err, "actor_id", actorID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, report)
}

// EraseUserData removes a user's requests, responses and consent record.
func (h *Handler) EraseUserData(w http.ResponseWriter, r *http.Request) {
	actorID, ok := h.actorID(w, r)
	if !ok {
		return
	}

	var dto EraseUserDataDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.Service.EraseUserData(r.Context(), actorID, dto); err != nil {
		if err == ErrComplianceDenied {
			h.WriteError(w, http.StatusForbidden, err.Error())
			return
		}
		h.Logger.Error("EraseUserData: service error", "error", err, "actor_id", actorID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "erased"})
}
