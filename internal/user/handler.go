package user

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/ai-gateway/internal/auth"
	"github.com/frahmantamala/ai-gateway/internal/transport"
	"github.com/frahmantamala/ai-gateway/pkg/logger"
)

type ServiceAPI interface {
	CreateUser(dto CreateUserDTO) (*User, error)
	GetByID(userID int64) (*User, error)
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

// CreateUser registers a new user. Exposed to administrators only; the route
// is guarded by the CONFIGURE_SYSTEM permission middleware.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var dto CreateUserDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CreateUser: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, err := h.Service.CreateUser(dto)
	if err != nil {
		if err == ErrUsernameExists {
			h.WriteError(w, http.StatusConflict, "username already exists")
			return
		}
		h.Logger.Error("CreateUser: service error", "error", err, "username", dto.Username)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, u)
}

// GetCurrentUser returns the authenticated user's profile.
func (h *Handler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	sessionUser, ok := auth.UserFromContext(r.Context())
	if !ok || sessionUser == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	u, err := h.Service.GetByID(sessionUser.ID)
	if err != nil {
		h.Logger.Error("GetCurrentUser: service error", "error", err, "user_id", sessionUser.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, u)
}
