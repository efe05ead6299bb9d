// Copyright 2026 The StorePulse Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/storepulse/storepulse/internal/analytics"
	"github.com/storepulse/storepulse/internal/audit"
	"github.com/storepulse/storepulse/internal/config"
	"github.com/storepulse/storepulse/internal/ingest"
	"github.com/storepulse/storepulse/internal/observability/logger"
	"github.com/storepulse/storepulse/internal/observability/metrics"
	"github.com/storepulse/storepulse/internal/observability/tracing"
	"github.com/storepulse/storepulse/internal/scheduler"
	"github.com/storepulse/storepulse/internal/seed"
	"github.com/storepulse/storepulse/internal/shopify"
	"github.com/storepulse/storepulse/internal/store/postgres"
	"github.com/storepulse/storepulse/internal/tenant"
	transportHTTP "github.com/storepulse/storepulse/internal/transport/http"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger.InitLogger(logger.Config{
		Level:       cfg.Observability.LogLevel,
		Format:      cfg.Observability.LogFormat,
		ServiceName: cfg.Observability.ServiceName,
	})

	// CLI commands
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "migrate":
			if err := runMigrate(cfg); err != nil {
				fmt.Printf("Migration failed: %v\n", err)
				os.Exit(1)
			}
			os.Exit(0)
		case "seed":
			if err := runSeed(cfg); err != nil {
				fmt.Printf("Seed failed: %v\n", err)
				os.Exit(1)
			}
			os.Exit(0)
		}
	}

	if err := run(cfg); err != nil {
		slog.Error("server failed", logger.Error(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	slog.Info("starting storepulse", logger.String("environment", cfg.Environment))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize tracer
	tracer, err := tracing.New(ctx, tracing.Config{
		Enabled:        cfg.Observability.OTELEnabled,
		ServiceName:    cfg.Observability.ServiceName,
		ServiceVersion: cfg.Observability.ServiceVersion,
		SamplingRate:   1.0,
	})
	if err != nil {
		slog.Error("failed to initialize tracer", logger.Error(err))
	}
	defer tracer.Shutdown(context.Background())

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	instruments := syncInstruments(ctx, cfg, registry)

	db, err := openDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()
	slog.Info("connected to database")

	tenantRepo := postgres.NewTenantRepository(db)
	productRepo := postgres.NewProductRepository(db)
	customerRepo := postgres.NewCustomerRepository(db)
	orderRepo := postgres.NewOrderRepository(db)

	auditLogger := audit.NewSlogLogger()

	tenantService := tenant.NewService(tenantRepo, auditLogger)
	analyticsService := analytics.NewService(productRepo, customerRepo, orderRepo)
	client := shopify.NewClient(shopify.Config{
		Scheme:         cfg.Shopify.Scheme,
		APIVersion:     cfg.Shopify.APIVersion,
		RequestTimeout: cfg.Shopify.RequestTimeout,
	})
	pipeline := ingest.NewPipeline(productRepo, customerRepo, orderRepo, instruments)
	syncer := ingest.NewSyncer(tenantService, client, pipeline, auditLogger, instruments)

	// Background sync
	var schedulerDone <-chan struct{}
	if cfg.Sync.Enabled {
		sched := scheduler.New(scheduler.Config{
			Interval:  cfg.Sync.Interval,
			OnStartup: cfg.Sync.OnStartup,
		}, tenantService, syncer, nil)
		schedulerDone = sched.Start(ctx)
	} else {
		stopped := make(chan struct{})
		close(stopped)
		schedulerDone = stopped
		slog.Info("scheduled sync disabled", logger.Component("scheduler"))
	}

	rateLimiter := transportHTTP.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	go rateLimiter.Run(ctx)

	handler := transportHTTP.NewHandler(tenantService, syncer, analyticsService)
	router := transportHTTP.NewRouter(handler, transportHTTP.RouterConfig{
		RateLimiter:     rateLimiter,
		HTTPMetrics:     metrics.NewHTTPMetrics(registry),
		MetricsHandler:  promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		AllowedOrigins:  cfg.AllowedOrigins(),
		AllowAllOrigins: !cfg.IsProduction(),
	})

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting http server", logger.Component("server"), logger.Operation("listen"), logger.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		slog.Info("shutting down server", logger.String("signal", sig.String()))
	case err := <-serverErr:
		cancel()
		<-schedulerDone
		return fmt.Errorf("http server: %w", err)
	}

	// stops the scheduler and the rate limiter janitor
	cancel()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", logger.Error(err))
	}

	// The database is closed by a deferred call, so the scheduler must be
	// done with it first.
	select {
	case <-schedulerDone:
	case <-shutdownCtx.Done():
		slog.Warn("scheduler did not stop before shutdown deadline", logger.Component("scheduler"))
	}

	slog.Info("server stopped")
	return nil
}

func syncInstruments(ctx context.Context, cfg *config.Config, reg prometheus.Registerer) *metrics.SyncInstruments {
	meter, err := metrics.New(ctx, metrics.Config{
		Enabled: cfg.Observability.OTELEnabled,
	}, cfg.Observability.ServiceName)
	if err != nil {
		slog.Error("failed to initialize meter", logger.Error(err))
		return metrics.NoopSyncInstruments()
	}
	instruments, err := metrics.NewSyncInstruments(meter, reg)
	if err != nil {
		slog.Error("failed to register sync instruments", logger.Error(err))
		return metrics.NoopSyncInstruments()
	}
	return instruments
}

func openDB(ctx context.Context, cfg *config.Config) (*postgres.DB, error) {
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
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

func runMigrate(cfg *config.Config) error {
	ctx := context.Background()
	db, err := openDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.Ping(ctx); err != nil {
		return fmt.Errorf("database unreachable: %w", err)
	}
	fmt.Println("Connected. Applying initial schema...")
	if err := db.Migrate(ctx, postgres.InitialSchema); err != nil {
		return err
	}
	fmt.Println("Migration successful.")
	return nil
}

func runSeed(cfg *config.Config) error {
	ctx := context.Background()
	db, err := openDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	productRepo := postgres.NewProductRepository(db)
	customerRepo := postgres.NewCustomerRepository(db)
	orderRepo := postgres.NewOrderRepository(db)

	tenantService := tenant.NewService(postgres.NewTenantRepository(db), audit.NewSlogLogger())
	pipeline := ingest.NewPipeline(productRepo, customerRepo, orderRepo, metrics.NoopSyncInstruments())

	reports, err := seed.New(tenantService, pipeline).Run(ctx)
	if err != nil {
		return err
	}
	for _, r := range reports {
		fmt.Printf("Seeded tenant %d: %d records written, %d skipped\n", r.TenantID, r.Succeeded(), r.Failed())
	}
	return nil
}
