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

// Package shopify reads a tenant's products, customers and orders from the
// remote commerce platform's admin REST API.
package shopify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/errgroup"

	"github.com/storepulse/storepulse/internal/observability/logger"
	"github.com/storepulse/storepulse/internal/tenant"
)

// AccessTokenHeader carries the tenant's API credential on every request.
const AccessTokenHeader = "X-Shopify-Access-Token"

var errNoSnapshot = errors.New("no snapshot fetched")

// StatusError reports a non-2xx response from the remote API.
type StatusError struct {
	Resource   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d: %s", e.Resource, e.StatusCode, e.Body)
}

// Config holds client configuration
type Config struct {
	Scheme         string // https in production, http for local fakes
	APIVersion     string
	RequestTimeout time.Duration
	Transport      http.RoundTripper
}

// Client fetches remote snapshots. It is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	scheme     string
	apiVersion string
	timeout    time.Duration
}

// NewClient creates a new remote API client
func NewClient(cfg Config) *Client {
	base := cfg.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	scheme := cfg.Scheme
	if scheme == "" {
		scheme = "https"
	}
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Transport: otelhttp.NewTransport(base)},
		scheme:     scheme,
		apiVersion: cfg.APIVersion,
		timeout:    timeout,
	}
}

// Fetch reads the first page of products, customers and orders for t in
// parallel. Any failure is logged and returned as a FetchFailed outcome; a
// partial snapshot is never returned.
func (c *Client) Fetch(ctx context.Context, t *tenant.Tenant) Outcome {
	if t == nil {
		slog.WarnContext(ctx, "remote fetch skipped", logger.Component("shopify"), logger.Error(tenant.ErrTenantNotFound))
		return FetchFailed(tenant.ErrTenantNotFound)
	}

	var (
		products  struct{ Products []Product `json:"products"` }
		customers struct{ Customers []Customer `json:"customers"` }
		orders    struct{ Orders []Order `json:"orders"` }
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return c.get(gctx, t, "products", &products) })
	g.Go(func() error { return c.get(gctx, t, "customers", &customers) })
	g.Go(func() error { return c.get(gctx, t, "orders", &orders) })

	if err := g.Wait(); err != nil {
		slog.ErrorContext(ctx, "remote fetch failed",
			logger.Component("shopify"),
			logger.TenantID(t.ID),
			logger.ShopURL(t.ShopURL),
			logger.Error(err),
		)
		return FetchFailed(err)
	}

	snap := Snapshot{
		Products:  products.Products,
		Customers: customers.Customers,
		Orders:    orders.Orders,
	}
	slog.DebugContext(ctx, "remote fetch complete",
		logger.Component("shopify"),
		logger.TenantID(t.ID),
		logger.Count("products", len(snap.Products)),
		logger.Count("customers", len(snap.Customers)),
		logger.Count("orders", len(snap.Orders)),
	)
	return Fetched(snap)
}

// URL returns the collection endpoint for resource on t's shop.
func (c *Client) URL(t *tenant.Tenant, resource string) string {
	return fmt.Sprintf("%s://%s/admin/api/%s/%s.json", c.scheme, t.ShopURL, c.apiVersion, resource)
}

func (c *Client) get(ctx context.Context, t *tenant.Tenant, resource string, dst any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL(t, resource), nil)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", resource, err)
	}
	req.Header.Set(AccessTokenHeader, t.AccessToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", resource, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{Resource: resource, StatusCode: resp.StatusCode, Body: string(body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("%s: decode response: %w", resource, err)
	}
	return nil
}
