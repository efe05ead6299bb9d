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

// Package analytics computes the dashboard metrics from current rows. Nothing
// is cached: every call reads the tenant's records again.
package analytics

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/storepulse/storepulse/internal/commerce"
)

// TopN bounds the top-customers and top-products rankings.
const TopN = 5

// dateLayout renders order buckets as UTC calendar days.
const dateLayout = "2006-01-02"

// Summary holds tenant-wide totals
type Summary struct {
	TotalCustomers int
	TotalProducts  int
	TotalOrders    int
	TotalRevenue   decimal.Decimal
}

// DatePoint is one calendar day of orders
type DatePoint struct {
	Date    string
	Orders  int
	Revenue decimal.Decimal
}

// CustomerRank is a customer's order count and revenue
type CustomerRank struct {
	ID      int64
	Name    string
	Email   string
	Orders  int
	Revenue decimal.Decimal
}

// ProductRank is a product ranked by price
type ProductRank struct {
	ID       int64
	Title    string
	Price    decimal.Decimal
	ImageURL string
}

// Service provides the read-only metrics queries
type Service struct {
	products  commerce.ProductRepository
	customers commerce.CustomerRepository
	orders    commerce.OrderRepository
}

// NewService creates a new analytics service
func NewService(
	products commerce.ProductRepository,
	customers commerce.CustomerRepository,
	orders commerce.OrderRepository,
) *Service {
	return &Service{
		products:  products,
		customers: customers,
		orders:    orders,
	}
}

// Summary counts the tenant's customers, products and orders and sums order
// revenue. The aggregation runs in the repositories. Revenue is zero when the
// tenant has no orders.
func (s *Service) Summary(ctx context.Context, tenantID int64) (Summary, error) {
	customers, err := s.customers.CountByTenant(ctx, tenantID)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to count customers: %w", err)
	}
	products, err := s.products.CountByTenant(ctx, tenantID)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to count products: %w", err)
	}
	totals, err := s.orders.TotalsByTenant(ctx, tenantID)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to total orders: %w", err)
	}

	return Summary{
		TotalCustomers: customers,
		TotalProducts:  products,
		TotalOrders:    totals.Count,
		TotalRevenue:   totals.Revenue,
	}, nil
}

// OrdersByDate buckets orders by UTC calendar day, ascending. Orders without
// a date are left out.
func (s *Service) OrdersByDate(ctx context.Context, tenantID int64) ([]DatePoint, error) {
	orders, err := s.orders.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to load orders: %w", err)
	}

	byDate := make(map[string]*DatePoint)
	for _, o := range orders {
		if o.OrderDate == nil {
			continue
		}
		day := o.OrderDate.UTC().Format(dateLayout)
		p, ok := byDate[day]
		if !ok {
			p = &DatePoint{Date: day, Revenue: decimal.Zero}
			byDate[day] = p
		}
		p.Orders++
		p.Revenue = p.Revenue.Add(o.TotalPrice)
	}

	points := make([]DatePoint, 0, len(byDate))
	for _, p := range byDate {
		points = append(points, *p)
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date < points[j].Date })
	return points, nil
}

// TopCustomers ranks linked customers by order revenue. Orders without a
// customer are ignored. Order among equal revenues is unspecified.
func (s *Service) TopCustomers(ctx context.Context, tenantID int64) ([]CustomerRank, error) {
	orders, err := s.orders.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to load orders: %w", err)
	}
	customers, err := s.customers.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to load customers: %w", err)
	}

	byID := make(map[int64]*commerce.Customer, len(customers))
	for _, c := range customers {
		byID[c.ID] = c
	}

	var ranks []*CustomerRank
	index := make(map[int64]*CustomerRank)
	for _, o := range orders {
		if o.CustomerID == nil {
			continue
		}
		r, ok := index[*o.CustomerID]
		if !ok {
			r = &CustomerRank{ID: *o.CustomerID, Name: "Unknown", Revenue: decimal.Zero}
			if c, found := byID[*o.CustomerID]; found {
				r.Name = c.DisplayName()
				r.Email = c.Email
			}
			index[r.ID] = r
			ranks = append(ranks, r)
		}
		r.Orders++
		r.Revenue = r.Revenue.Add(o.TotalPrice)
	}

	sort.SliceStable(ranks, func(i, j int) bool {
		return ranks[i].Revenue.GreaterThan(ranks[j].Revenue)
	})

	out := make([]CustomerRank, 0, TopN)
	for i := 0; i < len(ranks) && i < TopN; i++ {
		out = append(out, *ranks[i])
	}
	return out, nil
}

// TopProducts ranks the tenant's products by price. This is a price ranking,
// not a sales ranking: order lines are not consulted.
func (s *Service) TopProducts(ctx context.Context, tenantID int64) ([]ProductRank, error) {
	products, err := s.products.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}

	sorted := make([]*commerce.Product, len(products))
	copy(sorted, products)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Price.GreaterThan(sorted[j].Price)
	})

	out := make([]ProductRank, 0, TopN)
	for i := 0; i < len(sorted) && i < TopN; i++ {
		p := sorted[i]
		out = append(out, ProductRank{ID: p.ID, Title: p.Title, Price: p.Price, ImageURL: p.ImageURL})
	}
	return out, nil
}
