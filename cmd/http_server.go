package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/ai-gateway/internal"
	"github.com/frahmantamala/ai-gateway/internal/accesscontrol"
	accesscontrolstore "github.com/frahmantamala/ai-gateway/internal/accesscontrol/postgres"
	"github.com/frahmantamala/ai-gateway/internal/ai"
	"github.com/frahmantamala/ai-gateway/internal/audit"
	auditstore "github.com/frahmantamala/ai-gateway/internal/audit/postgres"
	"github.com/frahmantamala/ai-gateway/internal/auth"
	authstore "github.com/frahmantamala/ai-gateway/internal/auth/postgres"
	"github.com/frahmantamala/ai-gateway/internal/compliance"
	compliancestore "github.com/frahmantamala/ai-gateway/internal/compliance/postgres"
	"github.com/frahmantamala/ai-gateway/internal/core/events"
	"github.com/frahmantamala/ai-gateway/internal/filter"
	"github.com/frahmantamala/ai-gateway/internal/gateway"
	gatewaystore "github.com/frahmantamala/ai-gateway/internal/gateway/postgres"
	"github.com/frahmantamala/ai-gateway/internal/rbac"
	rbacstore "github.com/frahmantamala/ai-gateway/internal/rbac/postgres"
	"github.com/frahmantamala/ai-gateway/internal/transport/rest"
	"github.com/frahmantamala/ai-gateway/internal/user"
	userstore "github.com/frahmantamala/ai-gateway/internal/user/postgres"
	"github.com/frahmantamala/ai-gateway/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config     *internal.Config
	DB         *sqlx.DB
	GormDB     *gorm.DB
	Router     *chi.Mux
	Logger     *slog.Logger
	Compliance *compliance.Service
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	// Retention sweep at startup, before accepting traffic.
	if report, err := deps.Compliance.EnforceDataRetention(context.Background()); err != nil {
		slog.Error("startup retention sweep failed", "error", err)
	} else {
		slog.Info("startup retention sweep complete",
			"requests_deleted", report.RequestsDeleted,
			"responses_deleted", report.ResponsesDeleted)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	slog.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      deps.Router,
		ReadTimeout:  deps.Config.Server.ReadTimeout,
		WriteTimeout: deps.Config.Server.WriteTimeout,
		IdleTimeout:  deps.Config.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		slog.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			slog.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	slog.Info("Server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(os.Getenv("APP_ENV"))
	lg := logger.LoggerWrapper()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := initGorm(db)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}

	eventBus := events.NewEventBus(lg)
	subscribeObservers(eventBus, lg)

	// Access control and audit come first: nearly everything gates on them.
	accessService := accesscontrol.NewService(accesscontrolstore.NewStore(gormDB), lg)
	auditService := audit.NewService(auditstore.NewAuditRepository(db), accessService, lg)

	// AI backends and the filter.
	localBackend, err := ai.NewLocalBackend(config.AI.Local, lg)
	if err != nil {
		return nil, fmt.Errorf("failed to build local AI backend: %w", err)
	}
	externalBackend, err := ai.NewExternalBackend(config.AI.External, lg)
	if err != nil {
		return nil, fmt.Errorf("failed to build external AI backend: %w", err)
	}
	filterService := filter.NewService(localBackend, lg)

	// Domain services.
	rbacService := rbac.NewService(rbacstore.NewRBACRepository(gormDB), accessService, auditService, lg)
	userService := user.NewService(userstore.NewUserRepository(gormDB), rbacService, config.Security.BCryptCost, lg)

	tokenGen := auth.NewJWTTokenGenerator(
		config.Security.AccessTokenSecret,
		config.Security.RefreshTokenSecret,
		config.Security.AccessTokenDuration,
		config.Security.RefreshTokenDuration,
	)
	authService := auth.NewService(authstore.NewRepository(gormDB), tokenGen)

	complianceService := compliance.NewService(
		compliancestore.NewComplianceRepository(gormDB),
		accessService,
		auditService,
		eventBus,
		config.Compliance.RetentionWindow(),
		lg,
	)

	gatewayService := gateway.NewService(
		gatewaystore.NewGatewayRepository(gormDB),
		complianceService,
		accessService,
		filterService,
		auditService,
		localBackend,
		externalBackend,
		eventBus,
		config.AI.Timeout,
		config.Compliance.FilterLocalRequests,
		lg,
	)

	router := chi.NewRouter()
	rest.RegisterAllRoutes(router, db.DB, rest.Handlers{
		Auth:       auth.NewHandler(authService),
		User:       user.NewHandler(userService),
		Gateway:    gateway.NewHandler(gatewayService),
		RBAC:       rbac.NewHandler(rbacService),
		Compliance: compliance.NewHandler(complianceService),
		Audit:      audit.NewHandler(auditService),
	}, accessService, lg)

	return &Dependencies{
		Config:     config,
		Logger:     lg,
		DB:         db,
		GormDB:     gormDB,
		Router:     router,
		Compliance: complianceService,
	}, nil
}

// subscribeObservers wires slog observers onto the gateway events so every
// pipeline outcome shows up in the logs even when no other consumer exists.
func subscribeObservers(eventBus *events.EventBus, lg *slog.Logger) {
	observe := func(msg string) events.Handler {
		return func(ctx context.Context, event events.Event) error {
			lg.Info(msg,
				"event_id", event.EventID(),
				"payload", event.Payload())
			return nil
		}
	}

	eventBus.Subscribe(events.EventTypeRequestSubmitted, observe("request submitted"))
	eventBus.Subscribe(events.EventTypeResponseGenerated, observe("response generated"))
	eventBus.Subscribe(events.EventTypeRequestDenied, observe("request denied"))
	eventBus.Subscribe(events.EventTypeConsentChanged, observe("consent changed"))
	eventBus.Subscribe(events.EventTypeDataErased, observe("user data erased"))
	eventBus.Subscribe(events.EventTypeRetentionEnforced, observe("retention enforced"))
}

// initDB initializes the database connection
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// verify connection; close underlying *sql.DB on failure
	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}

// initGorm layers GORM over the already-open pgx connection so both access
// paths share one pool.
func initGorm(db *sqlx.DB) (*gorm.DB, error) {
	return gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: db.DB}), &gorm.Config{})
}
