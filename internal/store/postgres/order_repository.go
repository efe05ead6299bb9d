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

package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/storepulse/storepulse/internal/commerce"
)

// OrderRepository implements commerce.OrderRepository
type OrderRepository struct {
	db *DB
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Upsert inserts an order or overwrites the row with the same external ID.
// customer_id is looked up among the tenant's customers on every write, so
// an order whose customer disappeared from the payload is unlinked. Orders
// owned by another tenant are left as they are.
func (r *OrderRepository) Upsert(ctx context.Context, o *commerce.Order) error {
	if o.TenantID == 0 {
		return commerce.ErrMissingTenant
	}

	var customerExternalID *string
	if o.CustomerExternalID != "" {
		customerExternalID = &o.CustomerExternalID
	}

	err := r.db.pool.QueryRow(ctx, `
		INSERT INTO orders (external_id, total_price, order_date, customer_external_id, customer_id, tenant_id)
		VALUES (
			$1, $2, $3, $4::text,
			(SELECT id FROM customers WHERE external_id = $4::text AND tenant_id = $5),
			$5
		)
		ON CONFLICT (external_id) DO UPDATE SET
			total_price = EXCLUDED.total_price,
			order_date = EXCLUDED.order_date,
			customer_external_id = EXCLUDED.customer_external_id,
			customer_id = EXCLUDED.customer_id,
			updated_at = now()
		WHERE orders.tenant_id = EXCLUDED.tenant_id
		RETURNING id, customer_id
	`, o.ExternalID, o.TotalPrice, o.OrderDate, customerExternalID, o.TenantID).Scan(&o.ID, &o.CustomerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("order %s: %w", o.ExternalID, commerce.ErrOwnedByOtherTenant)
		}
		return fmt.Errorf("failed to upsert order %s: %w", o.ExternalID, err)
	}
	return nil
}

// ListByTenant returns the tenant's orders
func (r *OrderRepository) ListByTenant(ctx context.Context, tenantID int64) ([]*commerce.Order, error) {
	rows, err := r.db.pool.Query(ctx, `
		SELECT id, external_id, total_price, order_date, customer_external_id, customer_id, tenant_id
		FROM orders
		WHERE tenant_id = $1
		ORDER BY id
	`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	var orders []*commerce.Order
	for rows.Next() {
		var o commerce.Order
		var customerExternalID *string
		if err := rows.Scan(&o.ID, &o.ExternalID, &o.TotalPrice, &o.OrderDate, &customerExternalID, &o.CustomerID, &o.TenantID); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		if customerExternalID != nil {
			o.CustomerExternalID = *customerExternalID
		}
		orders = append(orders, &o)
	}
	return orders, rows.Err()
}

// TotalsByTenant counts the tenant's orders and sums their totals in one
// aggregate query.
func (r *OrderRepository) TotalsByTenant(ctx context.Context, tenantID int64) (commerce.OrderTotals, error) {
	var totals commerce.OrderTotals
	err := r.db.pool.QueryRow(ctx, `
		SELECT count(*), COALESCE(SUM(total_price), 0)
		FROM orders
		WHERE tenant_id = $1
	`, tenantID).Scan(&totals.Count, &totals.Revenue)
	if err != nil {
		return commerce.OrderTotals{}, fmt.Errorf("failed to total orders: %w", err)
	}
	return totals, nil
}
