package middleware

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/ai-gateway/internal/auth"
)

// PermissionChecker resolves permissions from the store on every call.
// Re-resolving per request (instead of trusting claims minted at login) means
// a revoked permission takes effect on the next request, not the next login.
type PermissionChecker interface {
	UserHasPermission(userID int64, permissionName string) (bool, error)
}

// RequirePermission guards a route group behind one of the given permission
// names. A store error fails closed.
func RequirePermission(checker PermissionChecker, permissions ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := auth.UserFromContext(r.Context())
			if !ok || user == nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			for _, perm := range permissions {
				allowed, err := checker.UserHasPermission(user.ID, perm)
				if err != nil {
					slog.Error("permission check failed",
						"user_id", user.ID,
						"permission", perm,
						"error", err)
					http.Error(w, "Internal server error", http.StatusInternalServerError)
					return
				}
				if allowed {
					next.ServeHTTP(w, r)
					return
				}
			}

			slog.Warn("access denied: user lacks required permissions",
				"user_id", user.ID,
				"required_permissions", permissions)
			http.Error(w, "Forbidden: insufficient permissions", http.StatusForbidden)
		})
	}
}
