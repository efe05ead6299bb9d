// @title StorePulse API
// @version 1.0.0
// @description Multi-tenant commerce analytics backend

// @host localhost:4000
// @BasePath /

package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/storepulse/storepulse/internal/analytics"
	"github.com/storepulse/storepulse/internal/ingest"
	"github.com/storepulse/storepulse/internal/observability/logger"
	"github.com/storepulse/storepulse/internal/observability/metrics"
	"github.com/storepulse/storepulse/internal/tenant"
)

// Banner is served on the root route.
const Banner = "StorePulse backend is running"

// TenantService is the tenant surface the API needs
type TenantService interface {
	CreateTenant(ctx context.Context, name, shopURL, accessToken string) (*tenant.Tenant, error)
	ListTenants(ctx context.Context) ([]*tenant.Tenant, error)
}

// Syncer runs one on-demand sync for a tenant
type Syncer interface {
	Sync(ctx context.Context, tenantID int64) (ingest.Report, error)
}

// Analytics computes dashboard metrics
type Analytics interface {
	Summary(ctx context.Context, tenantID int64) (analytics.Summary, error)
	OrdersByDate(ctx context.Context, tenantID int64) ([]analytics.DatePoint, error)
	TopCustomers(ctx context.Context, tenantID int64) ([]analytics.CustomerRank, error)
	TopProducts(ctx context.Context, tenantID int64) ([]analytics.ProductRank, error)
}

// Handler holds HTTP handlers and dependencies
type Handler struct {
	tenantService TenantService
	syncer        Syncer
	analytics     Analytics
}

// NewHandler creates a new HTTP handler
func NewHandler(tenantService TenantService, syncer Syncer, analytics Analytics) *Handler {
	return &Handler{
		tenantService: tenantService,
		syncer:        syncer,
		analytics:     analytics,
	}
}

// RouterConfig carries the cross-cutting pieces of the router
type RouterConfig struct {
	RateLimiter *RateLimiter
	HTTPMetrics *metrics.HTTPMetrics
	// MetricsHandler serves /metrics when set
	MetricsHandler http.Handler
	// AllowedOrigins is the browser origin allowlist. AllowAllOrigins
	// accepts any origin and is meant for non-production environments.
	AllowedOrigins  []string
	AllowAllOrigins bool
	RequestTimeout  time.Duration
}

// NewRouter creates a new HTTP router
func NewRouter(h *Handler, cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 60 * time.Second
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(corsOptions(cfg)))
	if cfg.RateLimiter != nil {
		r.Use(RateLimitMiddleware(cfg.RateLimiter))
	}
	r.Use(func(handler http.Handler) http.Handler {
		return otelhttp.NewHandler(handler, "http_request",
			otelhttp.WithSpanNameFormatter(func(operation string, r *http.Request) string {
				return r.Method + " " + r.URL.Path
			}),
		)
	})
	r.Use(LoggingMiddleware())
	if cfg.HTTPMetrics != nil {
		r.Use(PrometheusMiddleware(cfg.HTTPMetrics))
	}
	r.Use(middleware.Recoverer)

	// A manual sync runs to completion; only its outbound calls carry
	// deadlines. Everything else is bounded by RequestTimeout.
	r.Post("/api/ingest/{tenantId}/sync", h.SyncTenant)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(cfg.RequestTimeout))

		r.Get("/", h.Root)
		r.Get("/health", h.HealthCheck)
		if cfg.MetricsHandler != nil {
			r.Method(http.MethodGet, "/metrics", cfg.MetricsHandler)
		}

		r.Route("/api/tenants", func(r chi.Router) {
			r.Get("/", h.ListTenants)
			r.Post("/", h.CreateTenant)
		})

		r.Route("/api/metrics/{tenantId}", func(r chi.Router) {
			r.Get("/summary", h.Summary)
			r.Get("/orders-by-date", h.OrdersByDate)
			r.Get("/top-customers", h.TopCustomers)
			r.Get("/top-products", h.TopProducts)
		})
	})

	return r
}

func corsOptions(cfg RouterConfig) cors.Options {
	allowed := make(map[string]struct{}, len(cfg.AllowedOrigins))
	for _, o := range cfg.AllowedOrigins {
		allowed[strings.TrimRight(o, "/")] = struct{}{}
	}
	return cors.Options{
		AllowOriginFunc: func(_ *http.Request, origin string) bool {
			if cfg.AllowAllOrigins {
				return true
			}
			_, ok := allowed[origin]
			return ok
		},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		MaxAge:         300,
	}
}

// Root serves a plain-text liveness banner
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(Banner))
}

// HealthCheck returns the health status
// @Summary Health Check
// @Description Checks if the service is up and running
// @Tags System
// @Produce json
// @Success 200 {object} map[string]bool
// @Router /health [get]
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode response", logger.Error(err))
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
