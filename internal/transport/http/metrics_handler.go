package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/storepulse/storepulse/internal/observability/logger"
)

// SummaryResponse holds tenant-wide totals
type SummaryResponse struct {
	TotalCustomers int     `json:"totalCustomers"`
	TotalProducts  int     `json:"totalProducts"`
	TotalOrders    int     `json:"totalOrders"`
	TotalRevenue   float64 `json:"totalRevenue"`
}

// DatePointResponse is one day of the orders time series
type DatePointResponse struct {
	Date    string  `json:"date"`
	Orders  int     `json:"orders"`
	Revenue float64 `json:"revenue"`
}

// TopCustomerResponse is one entry of the top-customers ranking
type TopCustomerResponse struct {
	ID      int64   `json:"id"`
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Orders  int     `json:"orders"`
	Revenue float64 `json:"revenue"`
}

// TopProductResponse is one entry of the top-products ranking
type TopProductResponse struct {
	ID       int64   `json:"id"`
	Title    string  `json:"title"`
	Price    float64 `json:"price"`
	ImageURL string  `json:"imageUrl"`
}

// tenantIDParam parses the {tenantId} path segment.
func tenantIDParam(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "tenantId")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid tenant id %q", raw)
	}
	return id, nil
}

// Summary returns tenant-wide counts and revenue
// @Summary Metrics Summary
// @Tags Metrics
// @Produce json
// @Param tenantId path int true "Tenant ID"
// @Success 200 {object} SummaryResponse
// @Failure 500 {object} map[string]string
// @Router /api/metrics/{tenantId}/summary [get]
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	const failure = "Failed to compute summary"
	tenantID, err := tenantIDParam(r)
	if err != nil {
		slog.WarnContext(r.Context(), "invalid tenant id", logger.Error(err))
		respondError(w, http.StatusInternalServerError, failure)
		return
	}

	s, err := h.analytics.Summary(r.Context(), tenantID)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to compute summary", logger.TenantID(tenantID), logger.Error(err))
		respondError(w, http.StatusInternalServerError, failure)
		return
	}

	respondJSON(w, http.StatusOK, SummaryResponse{
		TotalCustomers: s.TotalCustomers,
		TotalProducts:  s.TotalProducts,
		TotalOrders:    s.TotalOrders,
		TotalRevenue:   s.TotalRevenue.InexactFloat64(),
	})
}

// OrdersByDate returns the daily orders time series
// @Summary Orders By Date
// @Tags Metrics
// @Produce json
// @Param tenantId path int true "Tenant ID"
// @Success 200 {array} DatePointResponse
// @Failure 500 {object} map[string]string
// @Router /api/metrics/{tenantId}/orders-by-date [get]
func (h *Handler) OrdersByDate(w http.ResponseWriter, r *http.Request) {
	const failure = "Failed to compute orders by date"
	tenantID, err := tenantIDParam(r)
	if err != nil {
		slog.WarnContext(r.Context(), "invalid tenant id", logger.Error(err))
		respondError(w, http.StatusInternalServerError, failure)
		return
	}

	points, err := h.analytics.OrdersByDate(r.Context(), tenantID)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to compute orders by date", logger.TenantID(tenantID), logger.Error(err))
		respondError(w, http.StatusInternalServerError, failure)
		return
	}

	resp := make([]DatePointResponse, 0, len(points))
	for _, p := range points {
		resp = append(resp, DatePointResponse{
			Date:    p.Date,
			Orders:  p.Orders,
			Revenue: p.Revenue.InexactFloat64(),
		})
	}
	respondJSON(w, http.StatusOK, resp)
}

// TopCustomers returns the five customers with the highest revenue
// @Summary Top Customers
// @Tags Metrics
// @Produce json
// @Param tenantId path int true "Tenant ID"
// @Success 200 {array} TopCustomerResponse
// @Failure 500 {object} map[string]string
// @Router /api/metrics/{tenantId}/top-customers [get]
func (h *Handler) TopCustomers(w http.ResponseWriter, r *http.Request) {
	const failure = "Failed to compute top customers"
	tenantID, err := tenantIDParam(r)
	if err != nil {
		slog.WarnContext(r.Context(), "invalid tenant id", logger.Error(err))
		respondError(w, http.StatusInternalServerError, failure)
		return
	}

	ranks, err := h.analytics.TopCustomers(r.Context(), tenantID)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to compute top customers", logger.TenantID(tenantID), logger.Error(err))
		respondError(w, http.StatusInternalServerError, failure)
		return
	}

	resp := make([]TopCustomerResponse, 0, len(ranks))
	for _, c := range ranks {
		resp = append(resp, TopCustomerResponse{
			ID:      c.ID,
			Name:    c.Name,
			Email:   c.Email,
			Orders:  c.Orders,
			Revenue: c.Revenue.InexactFloat64(),
		})
	}
	respondJSON(w, http.StatusOK, resp)
}

// TopProducts returns the five most expensive products
// @Summary Top Products
// @Tags Metrics
// @Produce json
// @Param tenantId path int true "Tenant ID"
// @Success 200 {array} TopProductResponse
// @Failure 500 {object} map[string]string
// @Router /api/metrics/{tenantId}/top-products [get]
func (h *Handler) TopProducts(w http.ResponseWriter, r *http.Request) {
	const failure = "Failed to compute top products"
	tenantID, err := tenantIDParam(r)
	if err != nil {
		slog.WarnContext(r.Context(), "invalid tenant id", logger.Error(err))
		respondError(w, http.StatusInternalServerError, failure)
		return
	}

	ranks, err := h.analytics.TopProducts(r.Context(), tenantID)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to compute top products", logger.TenantID(tenantID), logger.Error(err))
		respondError(w, http.StatusInternalServerError, failure)
		return
	}

	resp := make([]TopProductResponse, 0, len(ranks))
	for _, p := range ranks {
		resp = append(resp, TopProductResponse{
			ID:       p.ID,
			Title:    p.Title,
			Price:    p.Price.InexactFloat64(),
			ImageURL: p.ImageURL,
		})
	}
	respondJSON(w, http.StatusOK, resp)
}
