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

package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/storepulse/storepulse/internal/audit"
	"github.com/storepulse/storepulse/internal/observability/logger"
	"github.com/storepulse/storepulse/internal/observability/metrics"
	"github.com/storepulse/storepulse/internal/shopify"
	"github.com/storepulse/storepulse/internal/tenant"
)

var tracer = otel.Tracer("github.com/storepulse/storepulse/internal/ingest")

// TenantGetter looks up tenants by ID
type TenantGetter interface {
	GetTenant(ctx context.Context, id int64) (*tenant.Tenant, error)
}

// Fetcher reads a tenant's remote snapshot
type Fetcher interface {
	Fetch(ctx context.Context, t *tenant.Tenant) shopify.Outcome
}

// Syncer runs the fetch then ingest sequence for one tenant.
type Syncer struct {
	tenants     TenantGetter
	fetcher     Fetcher
	pipeline    *Pipeline
	auditLogger audit.Logger
	instruments *metrics.SyncInstruments
	now         func() time.Time
}

// NewSyncer creates a new syncer
func NewSyncer(
	tenants TenantGetter,
	fetcher Fetcher,
	pipeline *Pipeline,
	auditLogger audit.Logger,
	instruments *metrics.SyncInstruments,
) *Syncer {
	return &Syncer{
		tenants:     tenants,
		fetcher:     fetcher,
		pipeline:    pipeline,
		auditLogger: auditLogger,
		instruments: instruments,
		now:         time.Now,
	}
}

// Sync looks up tenantID and syncs it. An unknown tenant is a failed fetch,
// not an error; only a failing tenant lookup is returned as an error.
func (s *Syncer) Sync(ctx context.Context, tenantID int64) (Report, error) {
	t, err := s.tenants.GetTenant(ctx, tenantID)
	if err != nil {
		if !errors.Is(err, tenant.ErrTenantNotFound) {
			return Report{}, fmt.Errorf("failed to load tenant %d: %w", tenantID, err)
		}
		slog.WarnContext(ctx, "sync requested for unknown tenant",
			logger.Component("ingest"), logger.TenantID(tenantID))
		return s.run(ctx, tenantID, func(context.Context) shopify.Outcome {
			return shopify.FetchFailed(err)
		}), nil
	}
	return s.SyncTenant(ctx, t), nil
}

// SyncTenant fetches and ingests an already loaded tenant.
func (s *Syncer) SyncTenant(ctx context.Context, t *tenant.Tenant) Report {
	return s.run(ctx, t.ID, func(ctx context.Context) shopify.Outcome {
		return s.fetcher.Fetch(ctx, t)
	})
}

func (s *Syncer) run(ctx context.Context, tenantID int64, fetch func(context.Context) shopify.Outcome) Report {
	runID := uuid.Must(uuid.NewV7()).String()
	ctx, span := tracer.Start(ctx, "ingest.Sync", trace.WithAttributes(
		attribute.Int64("tenant.id", tenantID),
		attribute.String("sync.run_id", runID),
	))
	defer span.End()

	started := s.now()
	outcome := fetch(ctx)
	report := s.pipeline.Ingest(ctx, tenantID, outcome)
	report.RunID = runID
	report.StartedAt = started
	report.FinishedAt = s.now()

	s.instruments.RecordRun(ctx, report.Fetched, report.FinishedAt.Sub(started).Seconds())
	span.SetAttributes(
		attribute.Bool("sync.fetched", report.Fetched),
		attribute.Int("sync.records_ok", report.Succeeded()),
		attribute.Int("sync.records_failed", report.Failed()),
	)

	if !report.Fetched {
		span.SetStatus(codes.Error, report.FetchError)
		s.auditLogger.Log(ctx, audit.Event{
			Type:     audit.TypeSyncFetchFailed,
			TenantID: tenantID,
			Resource: "sync",
			Metadata: map[string]any{"run_id": runID, "reason": report.FetchError},
		})
		return report
	}

	slog.InfoContext(ctx, "tenant sync complete",
		logger.Component("ingest"),
		logger.TenantID(tenantID),
		logger.RunID(runID),
		logger.Count("products_ok", report.Products.Succeeded),
		logger.Count("customers_ok", report.Customers.Succeeded),
		logger.Count("orders_ok", report.Orders.Succeeded),
		logger.Count("failed", report.Failed()),
		logger.Duration(report.FinishedAt.Sub(started).Milliseconds()),
	)
	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeSyncCompleted,
		TenantID: tenantID,
		Resource: "sync",
		Metadata: map[string]any{
			"run_id":    runID,
			"succeeded": report.Succeeded(),
			"failed":    report.Failed(),
		},
	})
	return report
}
