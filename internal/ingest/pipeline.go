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

// Package ingest writes fetched remote snapshots into the store and drives
// tenant syncs end to end.
package ingest

import (
	"context"
	"log/slog"
	"time"

	"github.com/storepulse/storepulse/internal/commerce"
	"github.com/storepulse/storepulse/internal/observability/logger"
	"github.com/storepulse/storepulse/internal/observability/metrics"
	"github.com/storepulse/storepulse/internal/shopify"
)

// Pipeline upserts snapshot records by external ID. Records are written one
// at a time without a surrounding transaction, so a sync can leave some kinds
// written and others not.
type Pipeline struct {
	products    commerce.ProductRepository
	customers   commerce.CustomerRepository
	orders      commerce.OrderRepository
	instruments *metrics.SyncInstruments
	now         func() time.Time
}

// NewPipeline creates a new ingestion pipeline
func NewPipeline(
	products commerce.ProductRepository,
	customers commerce.CustomerRepository,
	orders commerce.OrderRepository,
	instruments *metrics.SyncInstruments,
) *Pipeline {
	return &Pipeline{
		products:    products,
		customers:   customers,
		orders:      orders,
		instruments: instruments,
		now:         time.Now,
	}
}

// Ingest writes the outcome's snapshot for tenantID. A failed fetch writes
// nothing. Kinds are processed products, customers, orders: orders resolve
// their customer link against rows written in the customers pass.
func (p *Pipeline) Ingest(ctx context.Context, tenantID int64, outcome shopify.Outcome) Report {
	report := newReport(tenantID)

	snap, ok := outcome.Snapshot()
	if !ok {
		report.FetchError = outcome.Reason().Error()
		return report
	}
	report.Fetched = true

	now := p.now()

	report.Products = upsertAll(ctx, tenantID, KindProduct, snap.Products,
		func(r shopify.Product) string { return string(r.ID) },
		func(ctx context.Context, r shopify.Product) error {
			product, err := mapProduct(tenantID, r)
			if err != nil {
				return err
			}
			return p.products.Upsert(ctx, product)
		})

	report.Customers = upsertAll(ctx, tenantID, KindCustomer, snap.Customers,
		func(r shopify.Customer) string { return string(r.ID) },
		func(ctx context.Context, r shopify.Customer) error {
			customer, err := mapCustomer(tenantID, r, now)
			if err != nil {
				return err
			}
			return p.customers.Upsert(ctx, customer)
		})

	report.Orders = upsertAll(ctx, tenantID, KindOrder, snap.Orders,
		func(r shopify.Order) string { return string(r.ID) },
		func(ctx context.Context, r shopify.Order) error {
			order, err := mapOrder(tenantID, r)
			if err != nil {
				return err
			}
			return p.orders.Upsert(ctx, order)
		})

	for _, res := range []EntityResult{report.Products, report.Customers, report.Orders} {
		p.instruments.RecordEntity(ctx, res.Kind, res.Succeeded, res.Failed())
	}

	return report
}

// upsertAll writes every record, collecting failures instead of stopping.
func upsertAll[T any](
	ctx context.Context,
	tenantID int64,
	kind string,
	records []T,
	externalID func(T) string,
	write func(context.Context, T) error,
) EntityResult {
	res := EntityResult{Kind: kind, Failures: []RecordFailure{}}
	for _, r := range records {
		if err := write(ctx, r); err != nil {
			id := externalID(r)
			slog.WarnContext(ctx, "record ingestion failed",
				logger.Component("ingest"),
				logger.TenantID(tenantID),
				logger.Kind(kind),
				logger.ExternalID(id),
				logger.Error(err),
			)
			res.Failures = append(res.Failures, RecordFailure{ExternalID: id, Reason: err.Error(), Err: err})
			continue
		}
		res.Succeeded++
	}
	return res
}
