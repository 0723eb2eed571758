/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package orders

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/friendsincode/orderstatus/internal/telemetry"
)

// UpstreamStatusError reports a non-2xx HTTP status from the order API.
type UpstreamStatusError struct {
	StatusCode int
}

func (e *UpstreamStatusError) Error() string {
	return fmt.Sprintf("API returned %d", e.StatusCode)
}

// NotFoundError reports an upstream rejection: a non-zero envelope code or a
// missing order payload. Msg carries the upstream's own reason when present.
type NotFoundError struct {
	Msg string
}

func (e *NotFoundError) Error() string {
	if e.Msg == "" {
		return "Order not found"
	}
	return e.Msg
}

// KeyResolver supplies the Api-Key header value for each upstream call.
type KeyResolver interface {
	Resolve(ctx context.Context) string
}

// Client queries the upstream order-tracking API.
type Client struct {
	baseURL  string
	resolver KeyResolver
	client   *http.Client
	logger   zerolog.Logger
}

// NewClient creates an order API client for the given base URL.
func NewClient(baseURL string, resolver KeyResolver, timeout time.Duration, logger zerolog.Logger) *Client {
	return &Client{
		baseURL:  baseURL,
		resolver: resolver,
		client: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		logger: logger.With().Str("component", "orders").Logger(),
	}
}

// Fetch looks up an order by customer email and order number. One upstream
// call per invocation, no retries.
func (c *Client) Fetch(ctx context.Context, email, orderNumber string) (*Order, error) {
	endpoint := fmt.Sprintf("%s/api/order_info?email=%s&order_number=%s",
		c.baseURL, url.QueryEscape(email), url.QueryEscape(orderNumber))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build order request: %w", err)
	}
	req.Header.Set("Api-Key", c.resolver.Resolve(ctx))
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	telemetry.UpstreamRequestDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		telemetry.UpstreamRequestsTotal.WithLabelValues("transport_error").Inc()
		return nil, fmt.Errorf("fetch order: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		telemetry.UpstreamRequestsTotal.WithLabelValues("upstream_error").Inc()
		c.logger.Warn().Int("status", resp.StatusCode).Msg("order API returned non-success status")
		return nil, &UpstreamStatusError{StatusCode: resp.StatusCode}
	}

	var parsed orderInfoResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		telemetry.UpstreamRequestsTotal.WithLabelValues("transport_error").Inc()
		return nil, fmt.Errorf("decode order response: %w", err)
	}

	if parsed.Code != 0 || parsed.Data.ReOrder == nil {
		telemetry.UpstreamRequestsTotal.WithLabelValues("not_found").Inc()
		c.logger.Debug().Int("code", parsed.Code).Str("msg", parsed.Msg).Msg("order lookup rejected by upstream")
		return nil, &NotFoundError{Msg: parsed.Msg}
	}

	telemetry.UpstreamRequestsTotal.WithLabelValues("ok").Inc()
	return parsed.Data.ReOrder, nil
}
