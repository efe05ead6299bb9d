package ingest

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/storepulse/storepulse/internal/commerce"
	"github.com/storepulse/storepulse/internal/shopify"
)

var (
	ErrMissingExternalID = errors.New("record has no remote id")
	ErrInvalidDate       = errors.New("invalid date")
)

// remote timestamps are ISO 8601 with an offset; a few legacy payloads omit it.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// parseDate parses a remote timestamp. Empty input yields nil.
func parseDate(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			utc := t.UTC()
			return &utc, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrInvalidDate, raw)
}

func mapProduct(tenantID int64, p shopify.Product) (*commerce.Product, error) {
	if p.ID == "" {
		return nil, ErrMissingExternalID
	}
	price := decimal.Zero
	if len(p.Variants) > 0 {
		price = p.Variants[0].Price.Value
	}
	var image string
	if p.Image != nil {
		image = p.Image.Src
	}
	return &commerce.Product{
		ExternalID: string(p.ID),
		Title:      p.Title,
		Price:      price,
		ImageURL:   image,
		TenantID:   tenantID,
	}, nil
}

// mapCustomer falls back to now when the payload has no creation time.
func mapCustomer(tenantID int64, c shopify.Customer, now time.Time) (*commerce.Customer, error) {
	if c.ID == "" {
		return nil, ErrMissingExternalID
	}
	createdAt, err := parseDate(c.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("created_at: %w", err)
	}
	if createdAt == nil {
		utc := now.UTC()
		createdAt = &utc
	}
	return &commerce.Customer{
		ExternalID: string(c.ID),
		Email:      c.Email,
		FirstName:  c.FirstName,
		LastName:   c.LastName,
		CreatedAt:  *createdAt,
		TenantID:   tenantID,
	}, nil
}

func mapOrder(tenantID int64, o shopify.Order) (*commerce.Order, error) {
	if o.ID == "" {
		return nil, ErrMissingExternalID
	}
	orderDate, err := parseDate(o.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("created_at: %w", err)
	}
	var customerRef string
	if o.Customer != nil {
		customerRef = string(o.Customer.ID)
	}
	return &commerce.Order{
		ExternalID:         string(o.ID),
		TotalPrice:         o.TotalPrice.Value,
		OrderDate:          orderDate,
		CustomerExternalID: customerRef,
		TenantID:           tenantID,
	}, nil
}
