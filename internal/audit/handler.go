package audit

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/ai-gateway/internal/auth"
	"github.com/frahmantamala/ai-gateway/internal/transport"
	"github.com/frahmantamala/ai-gateway/pkg/logger"
)

type ServiceAPI interface {
	All(viewerID int64) ([]*Entry, error)
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

// ListLogs returns the full audit trail for users holding VIEW_LOGS.
func (h *Handler) ListLogs(w http.ResponseWriter, r *http.Request) {
	sessionUser, ok := auth.UserFromContext(r.Context())
	if !ok || sessionUser == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	entries, err := h.Service.All(sessionUser.ID)
	if err != nil {
		if err == ErrLogAccessDenied {
			h.WriteError(w, http.StatusForbidden, err.Error())
			return
		}
		h.Logger.Error("ListLogs: service error", "error", err, "viewer_id", sessionUser.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, entries)
}
