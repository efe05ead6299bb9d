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

// Package commerce holds the persisted store records synced from the remote
// commerce platform. Every record is owned by exactly one tenant and is keyed
// for upsert by the identifier the remote platform assigned to it.
package commerce

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrMissingTenant is returned when a record is written without an owner.
	ErrMissingTenant = errors.New("record has no tenant")
	// ErrOwnedByOtherTenant is returned when an upsert hits an external ID
	// that another tenant already owns. The existing row is left untouched.
	ErrOwnedByOtherTenant = errors.New("external id belongs to another tenant")
)

// Product is a catalog entry. Price always holds the latest fetched value.
type Product struct {
	ID         int64           `json:"id"`
	ExternalID string          `json:"externalId"`
	Title      string          `json:"title"`
	Price      decimal.Decimal `json:"price"`
	ImageURL   string          `json:"imageUrl,omitempty"`
	TenantID   int64           `json:"tenantId"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

// Customer is a store customer. CreatedAt is set on first insert only.
type Customer struct {
	ID         int64     `json:"id"`
	ExternalID string    `json:"externalId"`
	Email      string    `json:"email"`
	FirstName  string    `json:"firstName"`
	LastName   string    `json:"lastName"`
	CreatedAt  time.Time `json:"createdAt"`
	TenantID   int64     `json:"tenantId"`
}

// DisplayName is "first last", else the email, else "Unknown".
func (c *Customer) DisplayName() string {
	if name := strings.TrimSpace(c.FirstName + " " + c.LastName); name != "" {
		return name
	}
	if c.Email != "" {
		return c.Email
	}
	return "Unknown"
}

// Order is a placed order. OrderDate is nil when the remote payload had no
// creation time; CustomerID is nil when no local customer is linked.
type Order struct {
	ID                 int64           `json:"id"`
	ExternalID         string          `json:"externalId"`
	TotalPrice         decimal.Decimal `json:"totalPrice"`
	OrderDate          *time.Time      `json:"orderDate"`
	CustomerExternalID string          `json:"-"`
	CustomerID         *int64          `json:"customerId"`
	TenantID           int64           `json:"tenantId"`
}

// ProductRepository defines storage for products. Upsert never rewrites a
// row owned by a different tenant.
type ProductRepository interface {
	Upsert(ctx context.Context, p *Product) error
	ListByTenant(ctx context.Context, tenantID int64) ([]*Product, error)
	CountByTenant(ctx context.Context, tenantID int64) (int, error)
}

// CustomerRepository defines storage for customers
type CustomerRepository interface {
	Upsert(ctx context.Context, c *Customer) error
	ListByTenant(ctx context.Context, tenantID int64) ([]*Customer, error)
	CountByTenant(ctx context.Context, tenantID int64) (int, error)
}

// OrderTotals is the order count and summed totalPrice of one tenant
type OrderTotals struct {
	Count   int
	Revenue decimal.Decimal
}

// OrderRepository defines storage for orders. Upsert resolves
// CustomerExternalID to the tenant's local customer row and stores NULL
// when it is empty or unknown.
type OrderRepository interface {
	Upsert(ctx context.Context, o *Order) error
	ListByTenant(ctx context.Context, tenantID int64) ([]*Order, error)
	TotalsByTenant(ctx context.Context, tenantID int64) (OrderTotals, error)
}
