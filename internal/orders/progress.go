/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package orders

import (
	"strings"
	"time"
)

// Steps of the shipment journey indicator.
const (
	StepOrderPlaced         = 1
	StepInProduction        = 2
	StepWarehouseProcessing = 3
	StepShipped             = 4
)

// StepLabel returns the display label for a progress step.
func StepLabel(step int) string {
	switch step {
	case StepInProduction:
		return "In production"
	case StepWarehouseProcessing:
		return "Warehouse processing"
	case StepShipped:
		return "Shipped"
	default:
		return "Order placed"
	}
}

// scheduleLayouts are the accepted ship-week date formats. Anything else is
// treated as absent rather than an error.
var scheduleLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// ParseScheduleTime parses an upstream date string. The second return value
// is false for blank or malformed input.
func ParseScheduleTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range scheduleLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// shipped reports whether the full ordered quantity has been fulfilled.
func (li LineItem) shipped() bool {
	return li.FulfilledQuantity >= li.Quantity
}

// hasSchedule reports whether both ends of the expected ship week are set.
func (li LineItem) hasSchedule() bool {
	return strings.TrimSpace(li.ExpectedShipWeekStart) != "" &&
		strings.TrimSpace(li.ExpectedShipWeekEnd) != ""
}

// scheduleEnded reports whether the expected ship week is over. A malformed
// end date counts as not reached.
func (li LineItem) scheduleEnded(now time.Time) bool {
	end, ok := ParseScheduleTime(li.ExpectedShipWeekEnd)
	if !ok {
		return false
	}
	return !end.After(now)
}

// ProgressStep derives the shipment journey step from an order's line items.
// Only core items with a positive current quantity count; with none of those
// the order sits at step 1. Pure and total: fulfilling more quantity or
// passing more schedule windows never moves the step backwards.
//
// An order whose every schedule window has elapsed without any recorded
// fulfillment reports "warehouse processing" rather than "shipped". That is
// the site's intended reading of an expired promise, not a fulfillment
// guarantee.
func ProgressStep(items []LineItem, now time.Time) int {
	var core []LineItem
	for _, li := range items {
		if li.IsCoreProduct && li.CurrentQuantity > 0 {
			core = append(core, li)
		}
	}
	if len(core) == 0 {
		return StepOrderPlaced
	}

	allShipped := true
	anyShipped := false
	allScheduledAndEnded := true
	anySchedule := false
	for _, li := range core {
		if li.shipped() {
			anyShipped = true
		} else {
			allShipped = false
		}
		if li.hasSchedule() {
			anySchedule = true
			if !li.scheduleEnded(now) {
				allScheduledAndEnded = false
			}
		} else {
			allScheduledAndEnded = false
		}
	}

	switch {
	case allShipped:
		return StepShipped
	case anyShipped:
		return StepWarehouseProcessing
	case allScheduledAndEnded:
		return StepWarehouseProcessing
	case !anySchedule:
		return StepOrderPlaced
	default:
		return StepInProduction
	}
}
