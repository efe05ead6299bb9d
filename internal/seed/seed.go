// Package seed loads demo stores so the dashboard has data without a live
// commerce account. Demo records are shaped like remote payloads and go
// through the ingestion pipeline, so they obey the same mapping and upsert
// rules as synced data.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/storepulse/storepulse/internal/ingest"
	"github.com/storepulse/storepulse/internal/observability/logger"
	"github.com/storepulse/storepulse/internal/shopify"
	"github.com/storepulse/storepulse/internal/tenant"
)

const (
	customersPerStore = 8
	ordersPerStore    = 10
)

var productTitles = []string{
	"Running Shoes",
	"Sports T-Shirt",
	"Water Bottle",
	"Fitness Tracker",
}

// Store describes one demo tenant
type Store struct {
	Number   int
	Name     string
	ShopURL  string
	BaseDate time.Time
}

// DemoStores are the tenants created by Run. Each starts a month later so
// their charts differ.
var DemoStores = []Store{
	{Number: 1, Name: "Demo Store A", ShopURL: "demo-a.myshopify.com", BaseDate: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)},
	{Number: 2, Name: "Demo Store B", ShopURL: "demo-b.myshopify.com", BaseDate: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)},
	{Number: 3, Name: "Demo Store C", ShopURL: "demo-c.myshopify.com", BaseDate: time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)},
	{Number: 4, Name: "Demo Store D", ShopURL: "demo-d.myshopify.com", BaseDate: time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)},
}

// TenantStore finds or registers demo tenants
type TenantStore interface {
	ListTenants(ctx context.Context) ([]*tenant.Tenant, error)
	CreateTenant(ctx context.Context, name, shopURL, accessToken string) (*tenant.Tenant, error)
}

// Ingester writes a fetched snapshot for a tenant
type Ingester interface {
	Ingest(ctx context.Context, tenantID int64, outcome shopify.Outcome) ingest.Report
}

// Seeder loads DemoStores
type Seeder struct {
	tenants  TenantStore
	pipeline Ingester
}

// New creates a seeder
func New(tenants TenantStore, pipeline Ingester) *Seeder {
	return &Seeder{tenants: tenants, pipeline: pipeline}
}

// Run creates each demo tenant unless a tenant with the same shop URL
// exists, then ingests its snapshot. Running it twice leaves the same rows.
func (s *Seeder) Run(ctx context.Context) ([]ingest.Report, error) {
	existing, err := s.tenants.ListTenants(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tenants: %w", err)
	}
	byShop := make(map[string]*tenant.Tenant, len(existing))
	for _, t := range existing {
		byShop[t.ShopURL] = t
	}

	reports := make([]ingest.Report, 0, len(DemoStores))
	for _, store := range DemoStores {
		t, ok := byShop[store.ShopURL]
		if !ok {
			t, err = s.tenants.CreateTenant(ctx, store.Name, store.ShopURL, fmt.Sprintf("dummy-token-%d", store.Number))
			if err != nil {
				return reports, fmt.Errorf("failed to create %s: %w", store.Name, err)
			}
		}

		report := s.pipeline.Ingest(ctx, t.ID, shopify.Fetched(Snapshot(store)))
		slog.InfoContext(ctx, "seeded demo store",
			logger.Component("seed"),
			logger.TenantID(t.ID),
			logger.ShopURL(t.ShopURL),
			logger.Count("succeeded", report.Succeeded()),
			logger.Count("failed", report.Failed()),
		)
		reports = append(reports, report)
	}
	return reports, nil
}

// Snapshot builds the remote-shaped records of a demo store. External IDs
// carry the store number so stores never collide.
func Snapshot(store Store) shopify.Snapshot {
	n := store.Number
	var snap shopify.Snapshot

	prices := make([]decimal.Decimal, len(productTitles))
	for i, title := range productTitles {
		prices[i] = decimal.NewFromInt(int64(1000 + n*200 + i*150))
		snap.Products = append(snap.Products, shopify.Product{
			ID:       shopify.ID(fmt.Sprintf("T%d_P%d", n, i+1)),
			Title:    fmt.Sprintf("%s (Store %d)", title, n),
			Variants: []shopify.Variant{{ID: shopify.ID(fmt.Sprintf("T%d_V%d", n, i+1)), Price: shopify.Amount{Value: prices[i]}}},
		})
	}

	for i := 1; i <= customersPerStore; i++ {
		snap.Customers = append(snap.Customers, shopify.Customer{
			ID:        shopify.ID(fmt.Sprintf("T%d_C%d", n, i)),
			Email:     fmt.Sprintf("customer%d_t%d@example.com", i, n),
			FirstName: fmt.Sprintf("Customer%d", i),
			LastName:  fmt.Sprintf("Tenant%d", n),
			CreatedAt: store.BaseDate.AddDate(0, 0, i).Format(time.RFC3339),
		})
	}

	for i := 1; i <= ordersPerStore; i++ {
		customer := snap.Customers[(i-1)%customersPerStore]
		price := prices[(i-1)%len(prices)]
		snap.Orders = append(snap.Orders, shopify.Order{
			ID:         shopify.ID(fmt.Sprintf("T%d_O%d", n, i)),
			TotalPrice: shopify.Amount{Value: price.Add(decimal.NewFromInt(int64(100 * ((i + n) % 3))))},
			CreatedAt:  store.BaseDate.AddDate(0, 0, 10+i).Format(time.RFC3339),
			Customer:   &shopify.OrderCustomer{ID: customer.ID},
		})
	}

	return snap
}
