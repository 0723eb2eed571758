/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package apikey

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/friendsincode/orderstatus/internal/version"
)

// ErrKeyNotFound reports that no key pattern matched the origin page.
var ErrKeyNotFound = errors.New("no API key pattern matched the origin page")

// maxPageBytes caps how much of the origin page is read.
const maxPageBytes = 4 << 20

// keyPatterns target assignment-like source embedded in the origin page.
// Tried in order, first capture wins. Both capture a UUID-shaped hex value.
var keyPatterns = []*regexp.Regexp{
	regexp.MustCompile(`SHIPPING_API_KEY\s*[:=]\s*["']([0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12})["']`),
	regexp.MustCompile(`\bAPI_KEY\s*[:=]\s*["']([0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12})["']`),
}

// Scraper extracts the API key from the tracking site's root page. The page
// is scanned as raw text with regular expressions, not parsed as a DOM; the
// coupling to the site's source is deliberately confined to this type.
type Scraper struct {
	baseURL string
	client  *http.Client
	logger  zerolog.Logger
}

// NewScraper creates a scraper for the given origin base URL.
func NewScraper(baseURL string, timeout time.Duration, logger zerolog.Logger) *Scraper {
	return &Scraper{
		baseURL: baseURL,
		client: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		logger: logger.With().Str("component", "scraper").Logger(),
	}
}

// UserAgent identifies the proxy to the origin site.
func UserAgent() string {
	return fmt.Sprintf("orderstatus-proxy/%s (order status page; key discovery)", version.Version)
}

// Scrape fetches the origin page and searches it for the API key.
func (s *Scraper) Scrape(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/", nil)
	if err != nil {
		return "", fmt.Errorf("build origin request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent())

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch origin page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("origin page returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return "", fmt.Errorf("read origin page: %w", err)
	}

	for _, pattern := range keyPatterns {
		if m := pattern.FindSubmatch(body); m != nil {
			key := string(m[1])
			s.logger.Debug().Msg("scraped API key from origin page")
			return key, nil
		}
	}

	return "", ErrKeyNotFound
}
