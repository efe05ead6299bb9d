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

package metrics

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Config holds metrics configuration
type Config struct {
	Enabled bool
}

// Meter wraps OpenTelemetry meter
type Meter struct {
	meter metric.Meter
}

// New creates a new meter instance
func New(ctx context.Context, cfg Config, serviceName string) (*Meter, error) {
	if !cfg.Enabled {
		return &Meter{
			meter: otel.Meter("noop"),
		}, nil
	}

	// Instruments go to the global meter provider. No provider is installed
	// by this module, so values are dropped unless an embedding program sets
	// one. The Prometheus collectors in SyncInstruments back /metrics.
	return &Meter{
		meter: otel.Meter(serviceName),
	}, nil
}

// GetMeter returns the underlying meter
func (m *Meter) GetMeter() metric.Meter {
	return m.meter
}

// CreateCounter creates a new counter metric
func (m *Meter) CreateCounter(name, description string) (metric.Int64Counter, error) {
	counter, err := m.meter.Int64Counter(
		name,
		metric.WithDescription(description),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create counter %s: %w", name, err)
	}
	return counter, nil
}

// CreateHistogram creates a new histogram metric
func (m *Meter) CreateHistogram(name, description, unit string) (metric.Float64Histogram, error) {
	histogram, err := m.meter.Float64Histogram(
		name,
		metric.WithDescription(description),
		metric.WithUnit(unit),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create histogram %s: %w", name, err)
	}
	return histogram, nil
}

// SyncInstruments records the outcome of tenant syncs. Every value goes to
// the OTel instruments and to Prometheus collectors.
type SyncInstruments struct {
	records  metric.Int64Counter
	runs     metric.Int64Counter
	duration metric.Float64Histogram

	recordsTotal *prometheus.CounterVec
	runsTotal    *prometheus.CounterVec
	runSeconds   *prometheus.HistogramVec
}

// NewSyncInstruments creates the sync instruments on m and registers the
// Prometheus collectors on reg. A nil reg leaves the collectors unregistered.
func NewSyncInstruments(m *Meter, reg prometheus.Registerer) (*SyncInstruments, error) {
	records, err := m.CreateCounter("storepulse.ingest.records", "Remote records processed by the ingestion pipeline")
	if err != nil {
		return nil, err
	}
	runs, err := m.CreateCounter("storepulse.sync.runs", "Tenant sync runs by fetch outcome")
	if err != nil {
		return nil, err
	}
	duration, err := m.CreateHistogram("storepulse.sync.duration", "Wall time of a tenant sync", "s")
	if err != nil {
		return nil, err
	}

	s := &SyncInstruments{
		records:  records,
		runs:     runs,
		duration: duration,
		recordsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storepulse",
			Subsystem: "ingest",
			Name:      "records_total",
			Help:      "Remote records processed by the ingestion pipeline by kind and status.",
		}, []string{"kind", "status"}),
		runsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storepulse",
			Subsystem: "sync",
			Name:      "runs_total",
			Help:      "Tenant sync runs by fetch outcome.",
		}, []string{"outcome"}),
		runSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "storepulse",
			Subsystem: "sync",
			Name:      "duration_seconds",
			Help:      "Wall time of a tenant sync.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}, []string{"outcome"}),
	}
	if reg != nil {
		for _, c := range []prometheus.Collector{s.recordsTotal, s.runsTotal, s.runSeconds} {
			if err := reg.Register(c); err != nil {
				return nil, fmt.Errorf("failed to register sync collector: %w", err)
			}
		}
	}
	return s, nil
}

// NoopSyncInstruments returns instruments backed by the noop meter with
// unregistered collectors.
func NoopSyncInstruments() *SyncInstruments {
	s, _ := NewSyncInstruments(&Meter{meter: otel.Meter("noop")}, nil)
	return s
}

// RecordEntity adds per-kind success and failure counts.
func (s *SyncInstruments) RecordEntity(ctx context.Context, kind string, succeeded, failed int) {
	if s == nil {
		return
	}
	s.records.Add(ctx, int64(succeeded), metric.WithAttributes(
		attribute.String("kind", kind), attribute.String("status", "ok")))
	s.records.Add(ctx, int64(failed), metric.WithAttributes(
		attribute.String("kind", kind), attribute.String("status", "failed")))
	s.recordsTotal.WithLabelValues(kind, "ok").Add(float64(succeeded))
	s.recordsTotal.WithLabelValues(kind, "failed").Add(float64(failed))
}

// RecordRun counts one sync and its duration in seconds.
func (s *SyncInstruments) RecordRun(ctx context.Context, fetched bool, seconds float64) {
	if s == nil {
		return
	}
	outcome := "fetched"
	if !fetched {
		outcome = "fetch_failed"
	}
	attrs := metric.WithAttributes(attribute.String("outcome", outcome))
	s.runs.Add(ctx, 1, attrs)
	s.duration.Record(ctx, seconds, attrs)
	s.runsTotal.WithLabelValues(outcome).Inc()
	s.runSeconds.WithLabelValues(outcome).Observe(seconds)
}
