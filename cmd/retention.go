package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/ai-gateway/internal/accesscontrol"
	accesscontrolstore "github.com/frahmantamala/ai-gateway/internal/accesscontrol/postgres"
	"github.com/frahmantamala/ai-gateway/internal/audit"
	auditstore "github.com/frahmantamala/ai-gateway/internal/audit/postgres"
	"github.com/frahmantamala/ai-gateway/internal/compliance"
	compliancestore "github.com/frahmantamala/ai-gateway/internal/compliance/postgres"
	"github.com/frahmantamala/ai-gateway/pkg/logger"
	"github.com/spf13/cobra"
)

var retentionInterval time.Duration

var retentionCmd = &cobra.Command{
	Use:   "retention",
	Short: "Run the data retention sweep",
	Long:  `Delete requests and responses older than the configured retention window. Runs once by default; pass --interval to keep sweeping on a schedule.`,
	Run: func(cmd *cobra.Command, args []string) {
		runRetention()
	},
}

func runRetention() {
	cfg, err := loadConfig(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	lg := logger.LoggerWrapper()

	db, err := initDB(cfg.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	gormDB, err := initGorm(db)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize gorm: %v\n", err)
		os.Exit(1)
	}

	accessService := accesscontrol.NewService(accesscontrolstore.NewStore(gormDB), lg)
	auditService := audit.NewService(auditstore.NewAuditRepository(db), accessService, lg)
	complianceService := compliance.NewService(
		compliancestore.NewComplianceRepository(gormDB),
		accessService,
		auditService,
		nil,
		cfg.Compliance.RetentionWindow(),
		lg,
	)

	sweep := func() {
		report, err := complianceService.EnforceDataRetention(context.Background())
		if err != nil {
			lg.Error("retention sweep failed", "error", err)
			return
		}
		lg.Info("retention sweep complete",
			"requests_deleted", report.RequestsDeleted,
			"responses_deleted", report.ResponsesDeleted)
	}

	sweep()
	if retentionInterval <= 0 {
		return
	}

	lg.Info("retention worker running", "interval", retentionInterval)

	ticker := time.NewTicker(retentionInterval)
	defer ticker.Stop()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-ticker.C:
			sweep()
		case sig := <-sigChan:
			lg.Info("received signal, stopping retention worker", "signal", sig)
			return
		}
	}
}

func init() {
	retentionCmd.Flags().DurationVar(&retentionInterval, "interval", 0, "Sweep repeatedly at this interval (e.g. 24h); 0 runs once")
}
