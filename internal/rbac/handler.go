package rbac

import (
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
	CreateRole(actorID int64, dto CreateRoleDTO) (*Role, error)
	UpdateRoleDescription(actorID, roleID int64, description string) error
	DeleteRole(actorID, roleID int64) error
	ListRoles() ([]*Role, error)

	CreatePermission(actorID int64, dto CreatePermissionDTO) (*Permission, error)
	UpdatePermissionDescription(actorID, permissionID int64, description string) error
	DeletePermission(actorID, permissionID int64) error
	ListPermissions() ([]*Permission, error)

	AttachPermissionToRole(actorID, roleID, permissionID int64) error
	DetachPermissionFromRole(actorID, roleID, permissionID int64) error
	AssignRoleToUser(actorID int64, dto AssignRoleDTO) error
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

// actorID resolves the acting user from the request context. The service does
// its own permission check on top; this only establishes identity.
func (h *Handler) actorID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	sessionUser, ok := auth.UserFromContext(r.Context())
	if !ok || sessionUser == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return 0, false
	}
	return sessionUser.ID, true
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request, param string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, param), 10, 64)
	if err != nil || id <= 0 {
		h.WriteError(w, http.StatusBadRequest, "invalid "+param)
		return 0, false
	}
	return id, true
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	switch err {
	case ErrPermissionDenied:
		h.WriteError(w, http.StatusForbidden, err.Error())
	case ErrRoleNotFound, ErrPermissionNotFound:
		h.WriteError(w, http.StatusNotFound, err.Error())
	default:
		h.HandleServiceError(w, err)
	}
}

func (h *Handler) CreateRole(w http.ResponseWriter, r *http.Request) {
	actorID, ok := h.actorID(w, r)
	if !ok {
		return
	}

	var dto CreateRoleDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := dto.Validate(); err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	role, err := h.Service.CreateRole(actorID, dto)
	if err != nil {
		h.Logger.Error("CreateRole: service error", "error", err, "actor_id", actorID)
		h.writeServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, role)
}

func (h *Handler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	actorID, ok := h.actorID(w, r)
	if !ok {
		return
	}
	roleID, ok := h.pathID(w, r, "roleID")
	if !ok {
		return
	}

	var dto UpdateDescriptionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.Service.UpdateRoleDescription(actorID, roleID, dto.Description); err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (h *Handler) DeleteRole(w http.ResponseWriter, r *http.Request) {
	actorID, ok := h.actorID(w, r)
	if !ok {
		return
	}
	roleID, ok := h.pathID(w, r, "roleID")
	if !ok {
		return
	}

	if err := h.Service.DeleteRole(actorID, roleID); err != nil {
		h.writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := h.Service.ListRoles()
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, roles)
}

func (h *Handler) CreatePermission(w http.ResponseWriter, r *http.Request) {
	actorID, ok := h.actorID(w, r)
	if !ok {
		return
	}

	var dto CreatePermissionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := dto.Validate(); err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	perm, err := h.Service.CreatePermission(actorID, dto)
	if err != nil {
		h.Logger.Error("CreatePermission: service error", "error", err, "actor_id", actorID)
		h.writeServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, perm)
}

func (h *Handler) UpdatePermission(w http.ResponseWriter, r *http.Request) {
	actorID, ok := h.actorID(w, r)
	if !ok {
		return
	}
	permissionID, ok := h.pathID(w, r, "permissionID")
	if !ok {
		return
	}

	var dto UpdateDescriptionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.Service.UpdatePermissionDescription(actorID, permissionID, dto.Description); err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (h *Handler) DeletePermission(w http.ResponseWriter, r *http.Request) {
	actorID, ok := h.actorID(w, r)
	if !ok {
		return
	}
	permissionID, ok := h.pathID(w, r, "permissionID")
	if !ok {
		return
	}

	if err := h.Service.DeletePermission(actorID, permissionID); err != nil {
		h.writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListPermissions(w http.ResponseWriter, r *http.Request) {
	perms, err := h.Service.ListPermissions()
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, perms)
}

func (h *Handler) AttachPermission(w http.ResponseWriter, r *http.Request) {
	actorID, ok := h.actorID(w, r)
	if !ok {
		return
	}
	roleID, ok := h.pathID(w, r, "roleID")
	if !ok {
		return
	}

	var dto AttachPermissionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := dto.Validate(); err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.Service.AttachPermissionToRole(actorID, roleID, dto.PermissionID); err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "attached"})
}

func (h *Handler) DetachPermission(w http.ResponseWriter, r *http.Request) {
	actorID, ok := h.actorID(w, r)
	if !ok {
		return
	}
	roleID, ok := h.pathID(w, r, "roleID")
	if !ok {
		return
	}
	permissionID, ok := h.pathID(w, r, "permissionID")
	if !ok {
		return
	}

	if err := h.Service.DetachPermissionFromRole(actorID, roleID, permissionID); err != nil {
		h.writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) AssignRole(w http.ResponseWriter, r *http.Request) {
	actorID, ok := h.actorID(w, r)
	if !ok {
		return
	}

	var dto AssignRoleDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := dto.Validate(); err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.Service.AssignRoleToUser(actorID, dto); err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "assigned"})
}
