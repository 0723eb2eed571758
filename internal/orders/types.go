/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package orders talks to the upstream order-tracking API and derives the
// shipment progress step shown on the status page.
package orders

// LineItem is one order line as returned by the upstream API. Immutable once
// received.
type LineItem struct {
	Name                  string `json:"name"`
	SKU                   string `json:"sku"`
	Quantity              int    `json:"quantity"`
	CurrentQuantity       int    `json:"current_quantity"`
	FulfilledQuantity     int    `json:"fulfilled_quantity"`
	IsCoreProduct         bool   `json:"is_core_product"`
	ExpectedShipWeekStart string `json:"expected_ship_week_start"`
	ExpectedShipWeekEnd   string `json:"expected_ship_week_end"`
}

// Order is the upstream order payload.
type Order struct {
	OrderNumber     string     `json:"order_number"`
	Email           string     `json:"email"`
	CreatedAt       string     `json:"created_at"`
	Status          string     `json:"status"`
	TrackingNumber  string     `json:"tracking_number"`
	TrackingCompany string     `json:"tracking_company"`
	TrackingURL     string     `json:"tracking_url"`
	LineItems       []LineItem `json:"line_items"`
}

// orderInfoResponse is the upstream API envelope. code == 0 plus a present
// reOrder payload signals success; anything else carries msg as the reason.
type orderInfoResponse struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data struct {
		ReOrder *Order `json:"reOrder"`
	} `json:"data"`
}
