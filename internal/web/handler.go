/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package web serves the customer-facing order status pages.
package web

import (
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/friendsincode/orderstatus/internal/orders"
	"github.com/friendsincode/orderstatus/internal/version"
)

// OrderFetcher looks up an order at the upstream tracking API.
type OrderFetcher interface {
	Fetch(ctx context.Context, email, orderNumber string) (*orders.Order, error)
}

// Handler provides web UI endpoints with server-rendered templates.
type Handler struct {
	fetcher   OrderFetcher
	logger    zerolog.Logger
	templates map[string]*template.Template // Each page gets its own template set

	// now is the classifier's clock; overridable in tests.
	now func() time.Time
}

// PageData holds common data passed to all templates.
type PageData struct {
	Title       string
	CurrentPath string
	Version     string
	Data        any
}

// NewHandler creates a new web handler.
func NewHandler(fetcher OrderFetcher, logger zerolog.Logger) (*Handler, error) {
	h := &Handler{
		fetcher: fetcher,
		logger:  logger.With().Str("component", "web").Logger(),
		now:     time.Now,
	}

	if err := h.loadTemplates(); err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}

	return h, nil
}

func (h *Handler) loadTemplates() error {
	funcMap := template.FuncMap{
		"formatDate": formatDate,
		"lower":      strings.ToLower,
		"upper":      strings.ToUpper,
		"add":        func(a, b int) int { return a + b },
	}

	h.templates = make(map[string]*template.Template)

	var layoutFiles []string
	var pageFiles []string

	err := fs.WalkDir(TemplateFS, "templates", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".html") {
			return nil
		}

		if strings.HasPrefix(path, "templates/layouts/") {
			layoutFiles = append(layoutFiles, path)
		} else if strings.HasPrefix(path, "templates/pages/") {
			pageFiles = append(pageFiles, path)
		}
		return nil
	})
	if err != nil {
		return err
	}

	// For each page template, create its own template set with layouts
	for _, pagePath := range pageFiles {
		tmpl := template.New("").Funcs(funcMap)

		for _, layoutPath := range layoutFiles {
			content, err := fs.ReadFile(TemplateFS, layoutPath)
			if err != nil {
				return fmt.Errorf("read %s: %w", layoutPath, err)
			}
			name := strings.TrimPrefix(layoutPath, "templates/")
			name = strings.TrimSuffix(name, ".html")
			if _, err := tmpl.New(name).Parse(string(content)); err != nil {
				return fmt.Errorf("parse %s: %w", layoutPath, err)
			}
		}

		pageContent, err := fs.ReadFile(TemplateFS, pagePath)
		if err != nil {
			return fmt.Errorf("read %s: %w", pagePath, err)
		}
		pageName := strings.TrimPrefix(pagePath, "templates/")
		pageName = strings.TrimSuffix(pageName, ".html")

		if _, err := tmpl.New(pageName).Parse(string(pageContent)); err != nil {
			return fmt.Errorf("parse %s: %w", pagePath, err)
		}

		h.templates[pageName] = tmpl
		h.logger.Debug().Str("template", pageName).Msg("loaded template")
	}

	return nil
}

// Render renders a template with the given data.
func (h *Handler) Render(w http.ResponseWriter, r *http.Request, name string, data PageData) {
	data.CurrentPath = r.URL.Path
	data.Version = version.Version

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	tmpl, ok := h.templates[name]
	if !ok {
		h.logger.Error().Str("template", name).Msg("template not found")
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}

	if err := tmpl.ExecuteTemplate(w, name, data); err != nil {
		h.logger.Error().Err(err).Str("template", name).Msg("template render failed")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// StaticHandler returns an http.Handler for static files.
func (h *Handler) StaticHandler() http.Handler {
	fsys, _ := fs.Sub(StaticFS, "static")
	return http.StripPrefix("/static/", http.FileServer(http.FS(fsys)))
}

// formatDate renders an upstream date string for display. Malformed input
// falls back to the raw string rather than erroring.
func formatDate(s string) string {
	t, ok := orders.ParseScheduleTime(s)
	if !ok {
		return strings.TrimSpace(s)
	}
	return t.Format("Jan 2, 2006")
}
