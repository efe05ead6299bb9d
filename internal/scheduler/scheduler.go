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

// Package scheduler syncs every tenant on a fixed interval.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/storepulse/storepulse/internal/ingest"
	"github.com/storepulse/storepulse/internal/observability/logger"
	"github.com/storepulse/storepulse/internal/tenant"
)

var tracer = otel.Tracer("github.com/storepulse/storepulse/internal/scheduler")

// TenantLister lists every known tenant
type TenantLister interface {
	ListTenants(ctx context.Context) ([]*tenant.Tenant, error)
}

// TenantSyncer syncs one tenant
type TenantSyncer interface {
	SyncTenant(ctx context.Context, t *tenant.Tenant) ingest.Report
}

// Config holds scheduler configuration
type Config struct {
	Interval  time.Duration
	OnStartup bool
}

// Scheduler runs a sync cycle over all tenants every interval. Cycles never
// overlap: ticks that arrive while a cycle runs are dropped by the ticker.
type Scheduler struct {
	tenants  TenantLister
	syncer   TenantSyncer
	clock    Clock
	interval time.Duration
	startup  bool
}

// New creates a new scheduler. A nil clock uses the system clock.
func New(cfg Config, tenants TenantLister, syncer TenantSyncer, clock Clock) *Scheduler {
	if clock == nil {
		clock = RealClock{}
	}
	return &Scheduler{
		tenants:  tenants,
		syncer:   syncer,
		clock:    clock,
		interval: cfg.Interval,
		startup:  cfg.OnStartup,
	}
}

// Run blocks, running a cycle on every tick until ctx is done.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := s.clock.NewTicker(s.interval)
	defer ticker.Stop()

	slog.InfoContext(ctx, "sync scheduler started",
		logger.Component("scheduler"),
		logger.String("interval", s.interval.String()),
	)

	if s.startup {
		s.RunOnce(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "sync scheduler stopped", logger.Component("scheduler"))
			return
		case <-ticker.C():
			s.RunOnce(ctx)
		}
	}
}

// Start runs the loop in its own goroutine. The returned channel is closed
// after Run has returned, including any cycle that was in flight.
func (s *Scheduler) Start(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.Run(ctx)
	}()
	return done
}

// RunOnce syncs every tenant sequentially. A tenant whose sync fails, or
// panics, does not stop the rest of the cycle. It returns the number of
// tenants visited.
func (s *Scheduler) RunOnce(ctx context.Context) int {
	started := s.clock.Now()
	ctx, span := tracer.Start(ctx, "scheduler.RunOnce")
	defer span.End()

	tenants, err := s.tenants.ListTenants(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "sync cycle aborted: cannot list tenants",
			logger.Component("scheduler"), logger.Error(err))
		return 0
	}

	visited := 0
	for _, t := range tenants {
		if ctx.Err() != nil {
			break
		}
		s.syncOne(ctx, t)
		visited++
	}

	span.SetAttributes(attribute.Int("scheduler.tenants", visited))
	slog.InfoContext(ctx, "sync cycle complete",
		logger.Component("scheduler"),
		logger.Count("tenants", visited),
		logger.Duration(s.clock.Now().Sub(started).Milliseconds()),
	)
	return visited
}

func (s *Scheduler) syncOne(ctx context.Context, t *tenant.Tenant) {
	defer func() {
		if r := recover(); r != nil {
			slog.ErrorContext(ctx, "tenant sync panicked",
				logger.Component("scheduler"),
				logger.TenantID(t.ID),
				slog.Any("panic", r),
			)
			trace.SpanFromContext(ctx).AddEvent("tenant sync panicked",
				trace.WithAttributes(attribute.Int64("tenant.id", t.ID)))
		}
	}()

	report := s.syncer.SyncTenant(ctx, t)
	if !report.Fetched {
		slog.WarnContext(ctx, "tenant sync fetched nothing",
			logger.Component("scheduler"),
			logger.TenantID(t.ID),
			logger.RunID(report.RunID),
			logger.String("reason", report.FetchError),
		)
	}
}
