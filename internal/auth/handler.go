package auth

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/ai-gateway/internal/transport"
	"github.com/frahmantamala/ai-gateway/pkg/logger"
)

type ServiceAPI interface {
	Authenticate(dto LoginDTO) (AuthTokens, error)
	RefreshTokens(refreshToken string) (AuthTokens, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
	SessionUser(userID int64) (*User, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
	}
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tokens, err := h.Service.Authenticate(dto)
	if err != nil {
		h.Logger.Error("authentication failed", "error", err)

		switch err {
		case ErrInvalidCredentials:
			h.WriteError(w, http.StatusUnauthorized, "invalid credentials")
		case ErrUserInactive:
			h.WriteError(w, http.StatusUnauthorized, "user is inactive")
		default:
			if _, ok := err.(ValidationError); ok {
				h.WriteError(w, http.StatusBadRequest, err.Error())
			} else {
				h.WriteError(w, http.StatusInternalServerError, "internal server error")
			}
		}
		return
	}

	h.WriteJSON(w, http.StatusOK, tokens)
}

func (h *Handler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var dto RefreshTokenDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := dto.Validate(); err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	tokens, err := h.Service.RefreshTokens(dto.RefreshToken)
	if err != nil {
		h.Logger.Error("token refresh failed", "error", err)

		switch err {
		case ErrInvalidToken, ErrTokenExpired:
			h.WriteError(w, http.StatusUnauthorized, "invalid refresh token")
		default:
			h.WriteError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	h.WriteJSON(w, http.StatusOK, tokens)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	token := h.ExtractTokenFromHeader(r)
	if token == "" {
		h.WriteError(w, http.StatusUnauthorized, "missing authorization token")
		return
	}

	if _, err := h.Service.ValidateAccessToken(token); err != nil {
		h.WriteError(w, http.StatusUnauthorized, "invalid token")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AuthMiddleware validates the bearer token and loads the session user into
// the request context.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := h.ExtractTokenFromHeader(r)
		if token == "" {
			h.WriteError(w, http.StatusUnauthorized, "missing authorization token")
			return
		}

		claims, err := h.Service.ValidateAccessToken(token)
		if err != nil {
			h.Logger.Warn("token validation failed", "error", err)
			h.WriteError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		sessionUser, err := h.Service.SessionUser(claims.UserID)
		if err != nil {
			h.Logger.Error("auth middleware: failed to load session user", "user_id", claims.UserID, "error", err)
			h.WriteError(w, http.StatusUnauthorized, "user not found")
			return
		}

		next.ServeHTTP(w, r.WithContext(ContextWithUser(r.Context(), sessionUser)))
	})
}
