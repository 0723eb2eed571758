/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package apikey resolves the upstream API key through a layered
// cache-then-scrape chain with a hardcoded last-known fallback.
package apikey

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/friendsincode/orderstatus/internal/telemetry"
)

// fallbackKey is the last known good key. It terminates the resolution
// chain, so Resolve can never fail.
const fallbackKey = "39b64fd6-9a22-4f4f-ad39-7a6a08cd08b2"

// SharedCache is the distributed cache tier shared across process instances.
type SharedCache interface {
	GetAPIKey(ctx context.Context) (string, bool)
	SetAPIKey(ctx context.Context, key string, ttl time.Duration) error
}

// PageScraper extracts the API key from the origin page.
type PageScraper interface {
	Scrape(ctx context.Context) (string, error)
}

// entry is a resolved key with its acquisition time.
type entry struct {
	key        string
	acquiredAt time.Time
}

// source is one tier of the resolution chain.
type source struct {
	tier   string
	lookup func(ctx context.Context) (string, bool)
}

// Resolver supplies a valid API key for upstream calls. Tiers are tried in
// order: process-local cache, shared cache, origin page scrape, hardcoded
// fallback. The fallback always succeeds, so every failure along the way is
// absorbed.
type Resolver struct {
	shared  SharedCache
	scraper PageScraper
	ttl     time.Duration
	logger  zerolog.Logger
	now     func() time.Time

	sources []source

	mu     sync.RWMutex
	cached entry
}

// NewResolver creates a resolver over the given shared cache and scraper.
// ttl bounds both cache tiers.
func NewResolver(shared SharedCache, scraper PageScraper, ttl time.Duration, logger zerolog.Logger) *Resolver {
	r := &Resolver{
		shared:  shared,
		scraper: scraper,
		ttl:     ttl,
		logger:  logger.With().Str("component", "apikey").Logger(),
		now:     time.Now,
	}
	r.sources = []source{
		{tier: "memory", lookup: r.fromMemory},
		{tier: "shared", lookup: r.fromShared},
		{tier: "scrape", lookup: r.fromScrape},
		{tier: "fallback", lookup: r.fromFallback},
	}
	return r
}

// Resolve returns a usable API key. It never returns an error: a miss in
// every tier degrades to the hardcoded fallback key.
func (r *Resolver) Resolve(ctx context.Context) string {
	for _, src := range r.sources {
		key, ok := src.lookup(ctx)
		if !ok {
			continue
		}
		telemetry.KeyResolutionsTotal.WithLabelValues(src.tier).Inc()
		r.logger.Debug().Str("tier", src.tier).Msg("resolved API key")
		return key
	}
	// Unreachable: the fallback tier always reports a hit.
	return fallbackKey
}

// fromMemory returns the process-local key if it is younger than the TTL.
func (r *Resolver) fromMemory(_ context.Context) (string, bool) {
	r.mu.RLock()
	cached := r.cached
	r.mu.RUnlock()

	if cached.key == "" || r.now().Sub(cached.acquiredAt) >= r.ttl {
		return "", false
	}
	return cached.key, true
}

// fromShared consults the shared cache and promotes a hit into the
// process-local tier.
func (r *Resolver) fromShared(ctx context.Context) (string, bool) {
	key, ok := r.shared.GetAPIKey(ctx)
	if !ok {
		return "", false
	}
	r.storeLocal(key)
	return key, true
}

// fromScrape scrapes the origin page and, on success, populates both cache
// tiers. Scrape and shared-cache write failures are absorbed.
func (r *Resolver) fromScrape(ctx context.Context) (string, bool) {
	key, err := r.scraper.Scrape(ctx)
	if err != nil {
		telemetry.KeyScrapeFailuresTotal.Inc()
		r.logger.Warn().Err(err).Msg("API key scrape failed, falling through")
		return "", false
	}

	r.storeLocal(key)
	if err := r.shared.SetAPIKey(ctx, key, r.ttl); err != nil {
		r.logger.Warn().Err(err).Msg("failed to write API key to shared cache")
	}
	return key, true
}

// fromFallback returns the hardcoded last-known key. It always hits.
func (r *Resolver) fromFallback(_ context.Context) (string, bool) {
	return fallbackKey, true
}

// storeLocal overwrites the process-local entry. Concurrent writers may race
// here; any freshly resolved key is equally valid, so last-write-wins is fine.
func (r *Resolver) storeLocal(key string) {
	r.mu.Lock()
	r.cached = entry{key: key, acquiredAt: r.now()}
	r.mu.Unlock()
}
