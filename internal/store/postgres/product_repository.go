package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/storepulse/storepulse/internal/commerce"
)

// ProductRepository implements commerce.ProductRepository
type ProductRepository struct {
	db *DB
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// Upsert inserts a product or overwrites the row with the same external ID.
// A row owned by another tenant is not touched and ErrOwnedByOtherTenant is
// returned.
func (r *ProductRepository) Upsert(ctx context.Context, p *commerce.Product) error {
	if p.TenantID == 0 {
		return commerce.ErrMissingTenant
	}
	err := r.db.pool.QueryRow(ctx, `
		INSERT INTO products (external_id, title, price, image_url, tenant_id)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (external_id) DO UPDATE SET
			title = EXCLUDED.title,
			price = EXCLUDED.price,
			image_url = EXCLUDED.image_url,
			updated_at = now()
		WHERE products.tenant_id = EXCLUDED.tenant_id
		RETURNING id, updated_at
	`, p.ExternalID, p.Title, p.Price, p.ImageURL, p.TenantID).Scan(&p.ID, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("product %s: %w", p.ExternalID, commerce.ErrOwnedByOtherTenant)
		}
		return fmt.Errorf("failed to upsert product %s: %w", p.ExternalID, err)
	}
	return nil
}

// ListByTenant returns the tenant's products
func (r *ProductRepository) ListByTenant(ctx context.Context, tenantID int64) ([]*commerce.Product, error) {
	rows, err := r.db.pool.Query(ctx, `
		SELECT id, external_id, title, price, image_url, tenant_id, updated_at
		FROM products
		WHERE tenant_id = $1
		ORDER BY id
	`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	var products []*commerce.Product
	for rows.Next() {
		var p commerce.Product
		if err := rows.Scan(&p.ID, &p.ExternalID, &p.Title, &p.Price, &p.ImageURL, &p.TenantID, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, &p)
	}
	return products, rows.Err()
}

// CountByTenant returns the number of the tenant's products
func (r *ProductRepository) CountByTenant(ctx context.Context, tenantID int64) (int, error) {
	var n int
	if err := r.db.pool.QueryRow(ctx, `SELECT count(*) FROM products WHERE tenant_id = $1`, tenantID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return n, nil
}
