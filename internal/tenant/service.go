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

package tenant

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/storepulse/storepulse/internal/audit"
)

// Service provides tenant management business logic
type Service struct {
	repo        Repository
	auditLogger audit.Logger
}

// NewService creates a new tenant service
func NewService(repo Repository, auditLogger audit.Logger) *Service {
	return &Service{
		repo:        repo,
		auditLogger: auditLogger,
	}
}

// CreateTenant registers a store. There is no update path: a tenant is
// written once and never modified or deleted.
func (s *Service) CreateTenant(ctx context.Context, name, shopURL, accessToken string) (*Tenant, error) {
	name = strings.TrimSpace(name)
	shopURL = NormalizeShopURL(shopURL)
	accessToken = strings.TrimSpace(accessToken)

	if name == "" || shopURL == "" || accessToken == "" {
		return nil, ErrInvalidTenant
	}

	t := &Tenant{
		Name:        name,
		ShopURL:     shopURL,
		AccessToken: accessToken,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to create tenant: %w", err)
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeTenantCreated,
		TenantID: t.ID,
		Resource: "tenant",
		Metadata: map[string]any{"shop_url": t.ShopURL, "name": t.Name},
	})

	return t, nil
}

// GetTenant retrieves a tenant by ID
func (s *Service) GetTenant(ctx context.Context, id int64) (*Tenant, error) {
	return s.repo.GetByID(ctx, id)
}

// ListTenants lists every tenant ordered by ID
func (s *Service) ListTenants(ctx context.Context) ([]*Tenant, error) {
	tenants, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tenants: %w", err)
	}
	return tenants, nil
}

// NormalizeShopURL reduces a shop address to its bare host, e.g.
// "https://demo.myshopify.com/" becomes "demo.myshopify.com".
func NormalizeShopURL(raw string) string {
	u := strings.TrimSpace(raw)
	u = strings.TrimPrefix(u, "https://")
	u = strings.TrimPrefix(u, "http://")
	return strings.TrimRight(u, "/")
}
