package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/storepulse/storepulse/internal/commerce"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockProducts struct{ mock.Mock }

func (m *mockProducts) Upsert(ctx context.Context, p *commerce.Product) error { return nil }
func (m *mockProducts) ListByTenant(ctx context.Context, tenantID int64) ([]*commerce.Product, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*commerce.Product), args.Error(1)
}
func (m *mockProducts) CountByTenant(ctx context.Context, tenantID int64) (int, error) {
	args := m.Called(ctx, tenantID)
	return args.Int(0), args.Error(1)
}

type mockCustomers struct{ mock.Mock }

func (m *mockCustomers) Upsert(ctx context.Context, c *commerce.Customer) error { return nil }
func (m *mockCustomers) ListByTenant(ctx context.Context, tenantID int64) ([]*commerce.Customer, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*commerce.Customer), args.Error(1)
}
func (m *mockCustomers) CountByTenant(ctx context.Context, tenantID int64) (int, error) {
	args := m.Called(ctx, tenantID)
	return args.Int(0), args.Error(1)
}

type mockOrders struct{ mock.Mock }

func (m *mockOrders) Upsert(ctx context.Context, o *commerce.Order) error { return nil }
func (m *mockOrders) ListByTenant(ctx context.Context, tenantID int64) ([]*commerce.Order, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*commerce.Order), args.Error(1)
}
func (m *mockOrders) TotalsByTenant(ctx context.Context, tenantID int64) (commerce.OrderTotals, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).(commerce.OrderTotals), args.Error(1)
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func ptr[T any](v T) *T { return &v }

func at(s string) *time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return &t
}

type fixture struct {
	products  *mockProducts
	customers *mockCustomers
	orders    *mockOrders
	svc       *Service
}

func newFixture() *fixture {
	f := &fixture{products: new(mockProducts), customers: new(mockCustomers), orders: new(mockOrders)}
	f.svc = NewService(f.products, f.customers, f.orders)
	return f
}

// Tenant A: two orders from customer 1 and one guest order.
func (f *fixture) tenantA() {
	f.customers.On("ListByTenant", mock.Anything, int64(1)).Return([]*commerce.Customer{
		{ID: 1, FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", TenantID: 1},
	}, nil)
	f.products.On("ListByTenant", mock.Anything, int64(1)).Return([]*commerce.Product{
		{ID: 10, Title: "Shoes", Price: dec("89.90"), TenantID: 1},
	}, nil)
	f.orders.On("ListByTenant", mock.Anything, int64(1)).Return([]*commerce.Order{
		{ID: 100, TotalPrice: dec("100"), CustomerID: ptr(int64(1)), OrderDate: at("2025-02-03T09:00:00Z"), TenantID: 1},
		{ID: 101, TotalPrice: dec("50"), CustomerID: ptr(int64(1)), OrderDate: at("2025-02-03T23:30:00Z"), TenantID: 1},
		{ID: 102, TotalPrice: dec("30"), OrderDate: at("2025-02-01T12:00:00Z"), TenantID: 1},
	}, nil)
}

func TestService_Summary(t *testing.T) {
	f := newFixture()
	f.customers.On("CountByTenant", mock.Anything, int64(1)).Return(1, nil)
	f.products.On("CountByTenant", mock.Anything, int64(1)).Return(1, nil)
	f.orders.On("TotalsByTenant", mock.Anything, int64(1)).Return(commerce.OrderTotals{Count: 3, Revenue: dec("180")}, nil)

	s, err := f.svc.Summary(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, 1, s.TotalCustomers)
	assert.Equal(t, 1, s.TotalProducts)
	assert.Equal(t, 3, s.TotalOrders)
	assert.True(t, dec("180").Equal(s.TotalRevenue))
	// No row listing is needed for the summary.
	f.orders.AssertNotCalled(t, "ListByTenant", mock.Anything, mock.Anything)
	f.customers.AssertNotCalled(t, "ListByTenant", mock.Anything, mock.Anything)
	f.products.AssertNotCalled(t, "ListByTenant", mock.Anything, mock.Anything)
}

func TestService_Summary_EmptyTenant(t *testing.T) {
	f := newFixture()
	f.customers.On("CountByTenant", mock.Anything, int64(2)).Return(0, nil)
	f.products.On("CountByTenant", mock.Anything, int64(2)).Return(0, nil)
	f.orders.On("TotalsByTenant", mock.Anything, int64(2)).Return(commerce.OrderTotals{Revenue: decimal.Zero}, nil)

	s, err := f.svc.Summary(context.Background(), 2)

	require.NoError(t, err)
	assert.Zero(t, s.TotalOrders)
	assert.True(t, s.TotalRevenue.IsZero())
}

func TestService_Summary_RepositoryError(t *testing.T) {
	f := newFixture()
	boom := errors.New("timeout")
	f.customers.On("CountByTenant", mock.Anything, int64(1)).Return(0, boom)

	_, err := f.svc.Summary(context.Background(), 1)

	assert.ErrorIs(t, err, boom)
}

func TestService_Summary_TotalsError(t *testing.T) {
	f := newFixture()
	boom := errors.New("timeout")
	f.customers.On("CountByTenant", mock.Anything, int64(1)).Return(1, nil)
	f.products.On("CountByTenant", mock.Anything, int64(1)).Return(1, nil)
	f.orders.On("TotalsByTenant", mock.Anything, int64(1)).Return(commerce.OrderTotals{}, boom)

	_, err := f.svc.Summary(context.Background(), 1)

	assert.ErrorIs(t, err, boom)
}

func TestService_TopCustomers_ExcludesGuestOrders(t *testing.T) {
	f := newFixture()
	f.tenantA()

	top, err := f.svc.TopCustomers(context.Background(), 1)

	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, int64(1), top[0].ID)
	assert.Equal(t, "Ada Lovelace", top[0].Name)
	assert.Equal(t, "ada@example.com", top[0].Email)
	assert.Equal(t, 2, top[0].Orders)
	assert.True(t, dec("150").Equal(top[0].Revenue))
}

func TestService_TopCustomers_RanksAndLimits(t *testing.T) {
	f := newFixture()
	var customers []*commerce.Customer
	var orders []*commerce.Order
	for i := int64(1); i <= 7; i++ {
		customers = append(customers, &commerce.Customer{ID: i, Email: "c@example.com"})
		orders = append(orders, &commerce.Order{ID: 100 + i, CustomerID: ptr(i), TotalPrice: decimal.NewFromInt(i * 10)})
	}
	customers[0].Email = ""
	f.customers.On("ListByTenant", mock.Anything, int64(1)).Return(customers, nil)
	f.orders.On("ListByTenant", mock.Anything, int64(1)).Return(orders, nil)

	top, err := f.svc.TopCustomers(context.Background(), 1)

	require.NoError(t, err)
	require.Len(t, top, TopN)
	assert.Equal(t, []int64{7, 6, 5, 4, 3}, []int64{top[0].ID, top[1].ID, top[2].ID, top[3].ID, top[4].ID})
	assert.Equal(t, "c@example.com", top[0].Name)
}

func TestService_TopCustomers_UnknownName(t *testing.T) {
	f := newFixture()
	f.customers.On("ListByTenant", mock.Anything, int64(1)).Return([]*commerce.Customer{{ID: 1}}, nil)
	f.orders.On("ListByTenant", mock.Anything, int64(1)).Return([]*commerce.Order{
		{ID: 1, CustomerID: ptr(int64(1)), TotalPrice: dec("5")},
	}, nil)

	top, err := f.svc.TopCustomers(context.Background(), 1)

	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "Unknown", top[0].Name)
}

func TestService_OrdersByDate(t *testing.T) {
	f := newFixture()
	f.orders.On("ListByTenant", mock.Anything, int64(1)).Return([]*commerce.Order{
		{ID: 1, TotalPrice: dec("100"), OrderDate: at("2025-02-03T23:30:00-05:00")}, // 2025-02-04 UTC
		{ID: 2, TotalPrice: dec("50"), OrderDate: at("2025-02-04T01:00:00Z")},
		{ID: 3, TotalPrice: dec("30"), OrderDate: at("2025-02-01T12:00:00Z")},
		{ID: 4, TotalPrice: dec("999")},
	}, nil)

	points, err := f.svc.OrdersByDate(context.Background(), 1)

	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, "2025-02-01", points[0].Date)
	assert.Equal(t, 1, points[0].Orders)
	assert.True(t, dec("30").Equal(points[0].Revenue))
	assert.Equal(t, "2025-02-04", points[1].Date)
	assert.Equal(t, 2, points[1].Orders)
	assert.True(t, dec("150").Equal(points[1].Revenue))
}

func TestService_OrdersByDate_Empty(t *testing.T) {
	f := newFixture()
	f.orders.On("ListByTenant", mock.Anything, int64(1)).Return([]*commerce.Order{}, nil)

	points, err := f.svc.OrdersByDate(context.Background(), 1)

	require.NoError(t, err)
	assert.NotNil(t, points)
	assert.Empty(t, points)
}

func TestService_TopProducts(t *testing.T) {
	f := newFixture()
	prices := []string{"10", "99.5", "25", "0", "150", "42", "99.5"}
	var products []*commerce.Product
	for i, p := range prices {
		products = append(products, &commerce.Product{ID: int64(i + 1), Title: "p", Price: dec(p)})
	}
	f.products.On("ListByTenant", mock.Anything, int64(1)).Return(products, nil)

	top, err := f.svc.TopProducts(context.Background(), 1)

	require.NoError(t, err)
	require.Len(t, top, TopN)
	assert.True(t, dec("150").Equal(top[0].Price))
	for i := 1; i < len(top); i++ {
		assert.False(t, top[i].Price.GreaterThan(top[i-1].Price), "descending by price")
	}
	assert.True(t, dec("25").Equal(top[4].Price))
}

func TestService_TopProducts_FewerThanN(t *testing.T) {
	f := newFixture()
	f.tenantA()

	top, err := f.svc.TopProducts(context.Background(), 1)

	require.NoError(t, err)
	assert.Len(t, top, 1)
}
