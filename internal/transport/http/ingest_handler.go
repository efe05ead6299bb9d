package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/storepulse/storepulse/internal/ingest"
	"github.com/storepulse/storepulse/internal/observability/logger"
)

// SyncResponse is returned by the manual sync endpoint. OK is true whenever
// the sync ran, including when the fetch failed or records were skipped.
type SyncResponse struct {
	OK     bool          `json:"ok"`
	Report ingest.Report `json:"report"`
}

// SyncTenant runs one synchronous sync for a tenant
// @Summary Sync Tenant
// @Description Fetch the store's products, customers and orders and upsert them
// @Tags Ingest
// @Produce json
// @Param tenantId path int true "Tenant ID"
// @Success 200 {object} SyncResponse
// @Failure 500 {object} map[string]string
// @Router /api/ingest/{tenantId}/sync [post]
func (h *Handler) SyncTenant(w http.ResponseWriter, r *http.Request) {
	tenantID, err := tenantIDParam(r)
	if err != nil {
		slog.WarnContext(r.Context(), "invalid tenant id", logger.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to ingest data")
		return
	}

	// The sync outlives a disconnected client so that a started pass always
	// finishes and reports.
	report, err := h.syncer.Sync(context.WithoutCancel(r.Context()), tenantID)
	if err != nil {
		slog.ErrorContext(r.Context(), "sync failed", logger.TenantID(tenantID), logger.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to ingest data")
		return
	}

	respondJSON(w, http.StatusOK, SyncResponse{OK: true, Report: report})
}
