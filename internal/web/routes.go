/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes registers all web UI routes on the given router.
func (h *Handler) Routes(r chi.Router) {
	// Static files
	r.Handle("/static/*", h.StaticHandler())

	// Favicon - simple SVG parcel icon
	r.Get("/favicon.ico", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/svg+xml")
		w.Header().Set("Cache-Control", "public, max-age=86400")
		w.Write([]byte(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 32 32"><rect x="5" y="9" width="22" height="16" rx="2" fill="#6366f1"/><path d="M5 13h22" stroke="white" stroke-width="2"/><path d="M16 9v16" stroke="white" stroke-width="2"/></svg>`))
	})

	// Lookup form and order status share the root route; the presence of
	// the email and order_number query parameters selects the view.
	r.Get("/", h.OrderStatus)
}
