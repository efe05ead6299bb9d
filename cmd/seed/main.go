// Command seed loads the demo stores through the ingestion pipeline.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/storepulse/storepulse/internal/audit"
	"github.com/storepulse/storepulse/internal/config"
	"github.com/storepulse/storepulse/internal/ingest"
	"github.com/storepulse/storepulse/internal/observability/logger"
	"github.com/storepulse/storepulse/internal/observability/metrics"
	"github.com/storepulse/storepulse/internal/seed"
	"github.com/storepulse/storepulse/internal/store/postgres"
	"github.com/storepulse/storepulse/internal/tenant"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger.InitLogger(logger.Config{
		Level:       cfg.Observability.LogLevel,
		Format:      cfg.Observability.LogFormat,
		ServiceName: cfg.Observability.ServiceName + "-seed",
	})

	ctx := context.Background()
	db, err := postgres.New(ctx, postgres.Config{
		Host:         cfg.Database.Host,
		Port:         cfg.Database.Port,
		User:         cfg.Database.User,
		Password:     cfg.Database.Password,
		Database:     cfg.Database.Database,
		SSLMode:      cfg.Database.SSLMode,
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
	})
	if err != nil {
		slog.Error("failed to connect to database", logger.Error(err))
		os.Exit(1)
	}
	defer db.Close()

	tenantService := tenant.NewService(postgres.NewTenantRepository(db), audit.NewSlogLogger())
	pipeline := ingest.NewPipeline(
		postgres.NewProductRepository(db),
		postgres.NewCustomerRepository(db),
		postgres.NewOrderRepository(db),
		metrics.NoopSyncInstruments(),
	)

	reports, err := seed.New(tenantService, pipeline).Run(ctx)
	if err != nil {
		slog.Error("seed failed", logger.Error(err))
		db.Close()
		os.Exit(1)
	}

	for _, r := range reports {
		fmt.Printf("✓ tenant %d: %d written, %d skipped\n", r.TenantID, r.Succeeded(), r.Failed())
	}
	fmt.Printf("✓ Seed data inserted for %d tenants\n", len(reports))
}
