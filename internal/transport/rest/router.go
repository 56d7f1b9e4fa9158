package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/ai-gateway/internal/audit"
	"github.com/frahmantamala/ai-gateway/internal/auth"
	"github.com/frahmantamala/ai-gateway/internal/compliance"
	"github.com/frahmantamala/ai-gateway/internal/gateway"
	"github.com/frahmantamala/ai-gateway/internal/rbac"
	"github.com/frahmantamala/ai-gateway/internal/transport/middleware"
	"github.com/frahmantamala/ai-gateway/internal/transport/swagger"
	"github.com/frahmantamala/ai-gateway/internal/user"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

// Handlers bundles every route handler the router mounts.
type Handlers struct {
	Auth       *auth.Handler
	User       *user.Handler
	Gateway    *gateway.Handler
	RBAC       *rbac.Handler
	Compliance *compliance.Handler
	Audit      *audit.Handler
}

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, h Handlers, perms middleware.PermissionChecker, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	// Apply global middleware
	router.Use(middleware.CORS)
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))

	// Serve OpenAPI spec at root (outside API prefix)
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	// Swagger UI route at root
	router.Handle("/swagger/*", swagger.Handler())

	// Mount API under /api/v1 to match OpenAPI basePath
	router.Route("/api/v1", func(r chi.Router) {
		// Health check route
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		// Auth routes
		if h.Auth != nil {
			r.Route("/auth", func(sr chi.Router) {
				sr.Post("/login", h.Auth.Login)
				sr.Post("/refresh", h.Auth.RefreshToken)
				sr.Post("/logout", h.Auth.Logout)
			})
		}

		if h.Auth == nil {
			return
		}

		// Protected routes that require authentication
		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			// Current user
			if h.User != nil {
				pr.Get("/users/me", h.User.GetCurrentUser)
			}

			// Request mediation. The pipeline enforces consent and AI
			// permissions itself, so no permission middleware here.
			if h.Gateway != nil {
				pr.Route("/gateway", func(gr chi.Router) {
					gr.Post("/requests", h.Gateway.SubmitRequest)
					gr.Get("/requests", h.Gateway.History)

					gr.Group(func(ar chi.Router) {
						ar.Use(middleware.RequirePermission(perms, rbac.PermConfigureSystem))
						ar.Post("/model/load", h.Gateway.LoadModel)
						ar.Put("/external/api-key", h.Gateway.SetAPIKey)
					})
				})
			}

			// Consent is self-service; the service decides whether the actor
			// may touch another user's record.
			if h.Compliance != nil {
				pr.Route("/consents", func(cr chi.Router) {
					cr.Put("/", h.Compliance.SetConsent)
					cr.Get("/{userID}", h.Compliance.GetConsent)
				})

				pr.Group(func(mr chi.Router) {
					mr.Use(middleware.RequirePermission(perms, rbac.PermManageCompliance))
					mr.Post("/compliance/retention/enforce", h.Compliance.EnforceRetention)
					mr.Post("/compliance/erasure", h.Compliance.EraseUserData)
				})
			}

			if h.Audit != nil {
				pr.Group(func(ar chi.Router) {
					ar.Use(middleware.RequirePermission(perms, rbac.PermViewLogs))
					ar.Get("/audit/logs", h.Audit.ListLogs)
				})
			}

			// Administration: user creation and the role/permission model.
			pr.Group(func(ar chi.Router) {
				ar.Use(middleware.RequirePermission(perms, rbac.PermConfigureSystem))

				if h.User != nil {
					ar.Post("/users", h.User.CreateUser)
				}

				if h.RBAC != nil {
					ar.Route("/roles", func(rr chi.Router) {
						rr.Get("/", h.RBAC.ListRoles)
						rr.Post("/", h.RBAC.CreateRole)
						rr.Patch("/{roleID}", h.RBAC.UpdateRole)
						rr.Delete("/{roleID}", h.RBAC.DeleteRole)
						rr.Post("/{roleID}/permissions", h.RBAC.AttachPermission)
						rr.Delete("/{roleID}/permissions/{permissionID}", h.RBAC.DetachPermission)
					})
					ar.Route("/permissions", func(pmr chi.Router) {
						pmr.Get("/", h.RBAC.ListPermissions)
						pmr.Post("/", h.RBAC.CreatePermission)
						pmr.Patch("/{permissionID}", h.RBAC.UpdatePermission)
						pmr.Delete("/{permissionID}", h.RBAC.DeletePermission)
					})
					ar.Post("/user-roles", h.RBAC.AssignRole)
				}
			})
		})
	})
}
