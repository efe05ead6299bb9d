package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/storepulse/storepulse/internal/analytics"
	"github.com/storepulse/storepulse/internal/ingest"
	"github.com/storepulse/storepulse/internal/observability/metrics"
)

type testServer struct {
	tenants   *mockTenantService
	syncer    *mockSyncer
	analytics *mockAnalytics
	router    http.Handler
}

func newTestServer(t *testing.T, cfg RouterConfig) *testServer {
	t.Helper()
	s := &testServer{
		tenants:   new(mockTenantService),
		syncer:    new(mockSyncer),
		analytics: new(mockAnalytics),
	}
	s.router = NewRouter(NewHandler(s.tenants, s.syncer, s.analytics), cfg)
	return s
}

func (s *testServer) do(method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestRouter_RootAndHealth(t *testing.T) {
	s := newTestServer(t, RouterConfig{})

	w := s.do(http.MethodGet, "/")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, Banner, w.Body.String())

	w = s.do(http.MethodGet, "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":true}`, w.Body.String())
}

func TestRouter_Sync(t *testing.T) {
	s := newTestServer(t, RouterConfig{})

	report := ingest.Report{RunID: "run-1", TenantID: 9, Fetched: false, FetchError: "tenant not found"}
	s.syncer.On("Sync", mock.Anything, int64(9)).Return(report, nil)

	w := s.do(http.MethodPost, "/api/ingest/9/sync")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"ok":true`)
	assert.Contains(t, w.Body.String(), `"fetchError":"tenant not found"`)

	s.syncer.On("Sync", mock.Anything, int64(10)).Return(ingest.Report{}, errors.New("db down"))
	w = s.do(http.MethodPost, "/api/ingest/10/sync")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Failed to ingest data", decodeError(t, w))
}

func TestRouter_SyncIgnoresRequestTimeout(t *testing.T) {
	s := newTestServer(t, RouterConfig{RequestTimeout: 20 * time.Millisecond})

	var syncCtx context.Context
	s.syncer.On("Sync", mock.Anything, int64(3)).
		Run(func(args mock.Arguments) {
			syncCtx = args.Get(0).(context.Context)
			time.Sleep(50 * time.Millisecond)
		}).
		Return(ingest.Report{RunID: "slow", TenantID: 3, Fetched: true}, nil)

	w := s.do(http.MethodPost, "/api/ingest/3/sync")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"runId":"slow"`)
	require.NotNil(t, syncCtx)
	_, hasDeadline := syncCtx.Deadline()
	assert.False(t, hasDeadline)
	assert.NoError(t, syncCtx.Err())
}

func TestRouter_SyncSurvivesClientCancel(t *testing.T) {
	s := newTestServer(t, RouterConfig{})

	var syncErr error
	s.syncer.On("Sync", mock.Anything, int64(4)).
		Run(func(args mock.Arguments) {
			syncErr = args.Get(0).(context.Context).Err()
		}).
		Return(ingest.Report{TenantID: 4}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/ingest/4/sync", nil).WithContext(ctx))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, syncErr)
}

func TestRouter_OtherRoutesKeepRequestTimeout(t *testing.T) {
	s := newTestServer(t, RouterConfig{RequestTimeout: 20 * time.Millisecond})

	var hasDeadline bool
	s.tenants.On("ListTenants", mock.Anything).
		Run(func(args mock.Arguments) {
			_, hasDeadline = args.Get(0).(context.Context).Deadline()
		}).
		Return(nil, nil)

	s.do(http.MethodGet, "/api/tenants")

	assert.True(t, hasDeadline)
}

func TestRouter_MalformedTenantID(t *testing.T) {
	s := newTestServer(t, RouterConfig{})

	w := s.do(http.MethodPost, "/api/ingest/abc/sync")
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	w = s.do(http.MethodGet, "/api/metrics/abc/summary")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Failed to compute summary", decodeError(t, w))

	s.syncer.AssertNotCalled(t, "Sync", mock.Anything, mock.Anything)
}

func TestRouter_Metrics(t *testing.T) {
	s := newTestServer(t, RouterConfig{})

	s.analytics.On("Summary", mock.Anything, int64(1)).Return(analytics.Summary{
		TotalCustomers: 1, TotalProducts: 2, TotalOrders: 3,
		TotalRevenue: decimal.RequireFromString("180.00"),
	}, nil)
	s.analytics.On("OrdersByDate", mock.Anything, int64(1)).Return([]analytics.DatePoint{
		{Date: "2024-03-01", Orders: 2, Revenue: decimal.RequireFromString("150.5")},
	}, nil)
	s.analytics.On("TopCustomers", mock.Anything, int64(1)).Return([]analytics.CustomerRank{
		{ID: 4, Name: "Ada Lovelace", Email: "ada@x.io", Orders: 2, Revenue: decimal.NewFromInt(150)},
	}, nil)
	s.analytics.On("TopProducts", mock.Anything, int64(1)).Return([]analytics.ProductRank{}, nil)

	w := s.do(http.MethodGet, "/api/metrics/1/summary")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"totalCustomers":1,"totalProducts":2,"totalOrders":3,"totalRevenue":180}`, w.Body.String())

	w = s.do(http.MethodGet, "/api/metrics/1/orders-by-date")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"date":"2024-03-01","orders":2,"revenue":150.5}]`, w.Body.String())

	w = s.do(http.MethodGet, "/api/metrics/1/top-customers")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"id":4,"name":"Ada Lovelace","email":"ada@x.io","orders":2,"revenue":150}]`, w.Body.String())

	w = s.do(http.MethodGet, "/api/metrics/1/top-products")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestRouter_MetricsFailure(t *testing.T) {
	s := newTestServer(t, RouterConfig{})
	s.analytics.On("TopProducts", mock.Anything, int64(2)).Return([]analytics.ProductRank(nil), errors.New("boom"))

	w := s.do(http.MethodGet, "/api/metrics/2/top-products")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Failed to compute top products", decodeError(t, w))
}

func TestRouter_PrometheusUsesRoutePattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	s := newTestServer(t, RouterConfig{
		HTTPMetrics:    metrics.NewHTTPMetrics(reg),
		MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	})
	s.tenants.On("ListTenants", mock.Anything).Return(nil, nil)

	s.do(http.MethodGet, "/api/tenants")

	w := s.do(http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "storepulse_http_requests_total")
	assert.Contains(t, w.Body.String(), `code="200"`)
	assert.Contains(t, w.Body.String(), `method="GET"`)
}

func TestRouter_CORS(t *testing.T) {
	preflight := func(s *testServer, origin string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodOptions, "/api/tenants", nil)
		req.Header.Set("Origin", origin)
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		w := httptest.NewRecorder()
		s.router.ServeHTTP(w, req)
		return w
	}

	strict := newTestServer(t, RouterConfig{AllowedOrigins: []string{"http://localhost:3000"}})
	assert.Equal(t, "http://localhost:3000", preflight(strict, "http://localhost:3000").Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, preflight(strict, "https://evil.example").Header().Get("Access-Control-Allow-Origin"))

	open := newTestServer(t, RouterConfig{AllowAllOrigins: true})
	assert.Equal(t, "https://anything.example", preflight(open, "https://anything.example").Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_RateLimit(t *testing.T) {
	s := newTestServer(t, RouterConfig{RateLimiter: NewRateLimiter(1, 1)})

	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/health").Code)
	assert.Equal(t, http.StatusTooManyRequests, s.do(http.MethodGet, "/health").Code)
}
