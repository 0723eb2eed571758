/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package server wires the HTTP surface and its supporting services.
package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/friendsincode/orderstatus/internal/apikey"
	"github.com/friendsincode/orderstatus/internal/cache"
	"github.com/friendsincode/orderstatus/internal/config"
	"github.com/friendsincode/orderstatus/internal/orders"
	"github.com/friendsincode/orderstatus/internal/telemetry"
	"github.com/friendsincode/orderstatus/internal/web"
)

// Server bundles HTTP and supporting services.
type Server struct {
	cfg        *config.Config
	logger     zerolog.Logger
	router     chi.Router
	httpServer *http.Server
	closers    []func() error

	cache      *cache.Cache
	resolver   *apikey.Resolver
	orders     *orders.Client
	webHandler *web.Handler
}

// New constructs the server and wires dependencies.
func New(cfg *config.Config, logger zerolog.Logger) (*Server, error) {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(securityHeadersMiddleware)
	router.Use(telemetry.TracingMiddleware("orderstatus-web"))
	router.Use(telemetry.MetricsMiddleware)
	router.Use(middleware.Timeout(30 * time.Second))

	s := &Server{
		cfg:    cfg,
		logger: logger,
		router: router,
	}

	if err := s.initDependencies(); err != nil {
		return nil, err
	}

	s.webHandler.Routes(router)
	router.Get("/healthz", s.webHandler.Health)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.HTTPBind, cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

func securityHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "default-src 'self'; img-src 'self' data:; style-src 'self'; frame-ancestors 'none'; base-uri 'self'")

		// Only advertise HSTS for requests served over HTTPS.
		if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
			w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) initDependencies() error {
	// Shared tier of the API key cache. A Redis outage is non-fatal: the
	// resolver degrades to scraping, then to the hardcoded fallback.
	cacheCfg := cache.DefaultConfig()
	cacheCfg.RedisAddr = s.cfg.RedisAddr
	cacheCfg.RedisPassword = s.cfg.RedisPassword
	cacheCfg.RedisDB = s.cfg.RedisDB
	keyCache, err := cache.New(cacheCfg, s.logger)
	if err != nil {
		return fmt.Errorf("initialize key cache: %w", err)
	}
	s.cache = keyCache
	s.DeferClose(keyCache.Close)

	scraper := apikey.NewScraper(s.cfg.UpstreamBaseURL, s.cfg.UpstreamTimeout, s.logger)
	s.resolver = apikey.NewResolver(keyCache, scraper, s.cfg.KeyTTL, s.logger)

	s.orders = orders.NewClient(s.cfg.UpstreamBaseURL, s.resolver, s.cfg.UpstreamTimeout, s.logger)

	webHandler, err := web.NewHandler(s.orders, s.logger)
	if err != nil {
		return fmt.Errorf("initialize web handler: %w", err)
	}
	s.webHandler = webHandler

	return nil
}

// HTTPServer returns the configured HTTP server.
func (s *Server) HTTPServer() *http.Server {
	return s.httpServer
}

// MetricsServer returns a server exposing Prometheus metrics on the
// configured metrics bind.
func (s *Server) MetricsServer() *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return &http.Server{
		Addr:        s.cfg.MetricsBind,
		Handler:     mux,
		ReadTimeout: 15 * time.Second,
	}
}

// DeferClose registers a cleanup function to run on Close.
func (s *Server) DeferClose(fn func() error) {
	s.closers = append(s.closers, fn)
}

// Close runs registered cleanup functions in reverse order.
func (s *Server) Close() error {
	var firstErr error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
