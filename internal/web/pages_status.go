/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package web

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/friendsincode/orderstatus/internal/orders"
)

// progressStepView is one segment of the 4-step shipment journey indicator.
type progressStepView struct {
	Number  int
	Label   string
	Reached bool
	Current bool
}

// OrderStatus renders the lookup form, or the status page for the order
// identified by the email and order_number query parameters.
func (h *Handler) OrderStatus(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.URL.Query().Get("email"))
	orderNumber := strings.TrimSpace(r.URL.Query().Get("order_number"))

	if email == "" || orderNumber == "" {
		h.Render(w, r, "pages/lookup", PageData{
			Title: "Track your order",
			Data: map[string]any{
				"Email":       email,
				"OrderNumber": orderNumber,
			},
		})
		return
	}

	order, err := h.fetcher.Fetch(r.Context(), email, orderNumber)
	if err != nil {
		h.renderFetchError(w, r, err)
		return
	}

	step := orders.ProgressStep(order.LineItems, h.now())

	steps := make([]progressStepView, 0, 4)
	for n := orders.StepOrderPlaced; n <= orders.StepShipped; n++ {
		steps = append(steps, progressStepView{
			Number:  n,
			Label:   orders.StepLabel(n),
			Reached: n <= step,
			Current: n == step,
		})
	}

	h.Render(w, r, "pages/status", PageData{
		Title: "Order " + order.OrderNumber,
		Data: map[string]any{
			"Order": order,
			"Email": email,
			"Step":  step,
			"Steps": steps,
		},
	})
}

// renderFetchError maps an order fetch failure onto the error view. Only
// fetch-level failures ever reach the user; key resolution and date parsing
// failures are absorbed upstream of this point.
func (h *Handler) renderFetchError(w http.ResponseWriter, r *http.Request, err error) {
	var statusErr *orders.UpstreamStatusError
	var notFound *orders.NotFoundError

	status := http.StatusBadGateway
	message := ""
	switch {
	case errors.As(err, &statusErr):
		message = statusErr.Error()
	case errors.As(err, &notFound):
		status = http.StatusNotFound
		message = notFound.Error()
	default:
		message = fmt.Sprintf("Failed to fetch order: %s", err)
	}

	h.logger.Warn().Err(err).Msg("order lookup failed")

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	h.Render(w, r, "pages/error", PageData{
		Title: "Order lookup failed",
		Data: map[string]any{
			"Message": message,
		},
	})
}

// Health reports process liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
