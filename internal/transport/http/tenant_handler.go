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

package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/storepulse/storepulse/internal/observability/logger"
	"github.com/storepulse/storepulse/internal/tenant"
)

// CreateTenantRequest represents tenant creation data
type CreateTenantRequest struct {
	Name        string `json:"name" binding:"required" example:"Demo Store"`
	ShopURL     string `json:"shopUrl" binding:"required" example:"demo.myshopify.com"`
	AccessToken string `json:"accessToken" binding:"required" example:"shpat_xxx"`
}

// ListTenants handles listing all tenants
// @Summary List Tenants
// @Description List every tenant ordered by ID
// @Tags Tenant
// @Produce json
// @Success 200 {array} tenant.Tenant
// @Failure 500 {object} map[string]string
// @Router /api/tenants [get]
func (h *Handler) ListTenants(w http.ResponseWriter, r *http.Request) {
	tenants, err := h.tenantService.ListTenants(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to list tenants", logger.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to list tenants")
		return
	}
	if tenants == nil {
		tenants = []*tenant.Tenant{}
	}

	respondJSON(w, http.StatusOK, tenants)
}

// CreateTenant handles tenant creation
// @Summary Create Tenant
// @Description Register a store. The access token is stored but never returned.
// @Tags Tenant
// @Accept json
// @Produce json
// @Param request body CreateTenantRequest true "Tenant Data"
// @Success 200 {object} tenant.Tenant
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/tenants [post]
func (h *Handler) CreateTenant(w http.ResponseWriter, r *http.Request) {
	var req CreateTenantRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	t, err := h.tenantService.CreateTenant(r.Context(), req.Name, req.ShopURL, req.AccessToken)
	if err != nil {
		if errors.Is(err, tenant.ErrInvalidTenant) {
			respondError(w, http.StatusBadRequest, tenant.ErrInvalidTenant.Error())
			return
		}
		slog.ErrorContext(r.Context(), "failed to create tenant", logger.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to create tenant")
		return
	}

	respondJSON(w, http.StatusOK, t)
}
