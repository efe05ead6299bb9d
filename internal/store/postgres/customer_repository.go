package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/storepulse/storepulse/internal/commerce"
)

// CustomerRepository implements commerce.CustomerRepository
type CustomerRepository struct {
	db *DB
}

// NewCustomerRepository creates a new customer repository
func NewCustomerRepository(db *DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

// Upsert inserts a customer or refreshes the contact fields of the row with
// the same external ID. created_at keeps its first-insert value; the stored
// value is scanned back into c. Rows of other tenants are never updated.
func (r *CustomerRepository) Upsert(ctx context.Context, c *commerce.Customer) error {
	if c.TenantID == 0 {
		return commerce.ErrMissingTenant
	}
	err := r.db.pool.QueryRow(ctx, `
		INSERT INTO customers (external_id, email, first_name, last_name, created_at, tenant_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (external_id) DO UPDATE SET
			email = EXCLUDED.email,
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			updated_at = now()
		WHERE customers.tenant_id = EXCLUDED.tenant_id
		RETURNING id, created_at
	`, c.ExternalID, c.Email, c.FirstName, c.LastName, c.CreatedAt, c.TenantID).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("customer %s: %w", c.ExternalID, commerce.ErrOwnedByOtherTenant)
		}
		return fmt.Errorf("failed to upsert customer %s: %w", c.ExternalID, err)
	}
	return nil
}

// ListByTenant returns the tenant's customers
func (r *CustomerRepository) ListByTenant(ctx context.Context, tenantID int64) ([]*commerce.Customer, error) {
	rows, err := r.db.pool.Query(ctx, `
		SELECT id, external_id, email, first_name, last_name, created_at, tenant_id
		FROM customers
		WHERE tenant_id = $1
		ORDER BY id
	`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	defer rows.Close()

	var customers []*commerce.Customer
	for rows.Next() {
		var c commerce.Customer
		if err := rows.Scan(&c.ID, &c.ExternalID, &c.Email, &c.FirstName, &c.LastName, &c.CreatedAt, &c.TenantID); err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		customers = append(customers, &c)
	}
	return customers, rows.Err()
}

// CountByTenant returns the number of the tenant's customers
func (r *CustomerRepository) CountByTenant(ctx context.Context, tenantID int64) (int, error) {
	var n int
	if err := r.db.pool.QueryRow(ctx, `SELECT count(*) FROM customers WHERE tenant_id = $1`, tenantID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count customers: %w", err)
	}
	return n, nil
}
