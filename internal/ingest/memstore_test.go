package ingest

import (
	"context"
	"errors"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/storepulse/storepulse/internal/commerce"
)

// memStore mimics the postgres upsert semantics: rows are keyed by external
// ID, customer created_at survives updates and order customer links are
// resolved within the tenant. A row owned by another tenant is never updated.
type memStore struct {
	mu        sync.Mutex
	nextID    int64
	products  map[string]*commerce.Product
	customers map[string]*commerce.Customer
	orders    map[string]*commerce.Order
	calls     []string
	failOn    map[string]error
}

func newMemStore() *memStore {
	return &memStore{
		products:  map[string]*commerce.Product{},
		customers: map[string]*commerce.Customer{},
		orders:    map[string]*commerce.Order{},
		failOn:    map[string]error{},
	}
}

func (s *memStore) fail(kind, externalID string, err error) {
	s.failOn[kind+":"+externalID] = err
}

func (s *memStore) check(kind, externalID string) error {
	s.calls = append(s.calls, kind+":"+externalID)
	if err, ok := s.failOn[kind+":"+externalID]; ok {
		return err
	}
	return nil
}

func (s *memStore) id() int64 {
	s.nextID++
	return s.nextID
}

type memProducts struct{ *memStore }
type memCustomers struct{ *memStore }
type memOrders struct{ *memStore }

func (r memProducts) Upsert(ctx context.Context, p *commerce.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.check(KindProduct, p.ExternalID); err != nil {
		return err
	}
	if existing, ok := r.products[p.ExternalID]; ok {
		if existing.TenantID != p.TenantID {
			return commerce.ErrOwnedByOtherTenant
		}
		existing.Title, existing.Price, existing.ImageURL = p.Title, p.Price, p.ImageURL
		p.ID = existing.ID
		return nil
	}
	cp := *p
	cp.ID = r.id()
	r.products[p.ExternalID] = &cp
	p.ID = cp.ID
	return nil
}

func (r memProducts) ListByTenant(ctx context.Context, tenantID int64) ([]*commerce.Product, error) {
	var out []*commerce.Product
	for _, p := range r.products {
		if p.TenantID == tenantID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r memCustomers) Upsert(ctx context.Context, c *commerce.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.check(KindCustomer, c.ExternalID); err != nil {
		return err
	}
	if existing, ok := r.customers[c.ExternalID]; ok {
		if existing.TenantID != c.TenantID {
			return commerce.ErrOwnedByOtherTenant
		}
		existing.Email, existing.FirstName, existing.LastName = c.Email, c.FirstName, c.LastName
		c.ID, c.CreatedAt = existing.ID, existing.CreatedAt
		return nil
	}
	cp := *c
	cp.ID = r.id()
	r.customers[c.ExternalID] = &cp
	c.ID = cp.ID
	return nil
}

func (r memCustomers) ListByTenant(ctx context.Context, tenantID int64) ([]*commerce.Customer, error) {
	var out []*commerce.Customer
	for _, c := range r.customers {
		if c.TenantID == tenantID {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r memOrders) Upsert(ctx context.Context, o *commerce.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.check(KindOrder, o.ExternalID); err != nil {
		return err
	}
	var link *int64
	if c, ok := r.customers[o.CustomerExternalID]; ok && o.CustomerExternalID != "" && c.TenantID == o.TenantID {
		id := c.ID
		link = &id
	}
	if existing, ok := r.orders[o.ExternalID]; ok {
		if existing.TenantID != o.TenantID {
			return commerce.ErrOwnedByOtherTenant
		}
		existing.TotalPrice, existing.OrderDate, existing.CustomerID = o.TotalPrice, o.OrderDate, link
		existing.CustomerExternalID = o.CustomerExternalID
		o.ID, o.CustomerID = existing.ID, link
		return nil
	}
	cp := *o
	cp.ID = r.id()
	cp.CustomerID = link
	r.orders[o.ExternalID] = &cp
	o.ID, o.CustomerID = cp.ID, link
	return nil
}

func (r memOrders) ListByTenant(ctx context.Context, tenantID int64) ([]*commerce.Order, error) {
	var out []*commerce.Order
	for _, o := range r.orders {
		if o.TenantID == tenantID {
			cp := *o
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r memProducts) CountByTenant(ctx context.Context, tenantID int64) (int, error) {
	rows, err := r.ListByTenant(ctx, tenantID)
	return len(rows), err
}

func (r memCustomers) CountByTenant(ctx context.Context, tenantID int64) (int, error) {
	rows, err := r.ListByTenant(ctx, tenantID)
	return len(rows), err
}

func (r memOrders) TotalsByTenant(ctx context.Context, tenantID int64) (commerce.OrderTotals, error) {
	rows, err := r.ListByTenant(ctx, tenantID)
	if err != nil {
		return commerce.OrderTotals{}, err
	}
	totals := commerce.OrderTotals{Count: len(rows), Revenue: decimal.Zero}
	for _, o := range rows {
		totals.Revenue = totals.Revenue.Add(o.TotalPrice)
	}
	return totals, nil
}

var errConstraint = errors.New("violates check constraint")
