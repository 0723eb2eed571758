/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package version provides version information.
package version

// Version is the current version of the order status proxy.
// This is set at build time via ldflags:
//
//	-X github.com/friendsincode/orderstatus/internal/version.Version=X.Y.Z
var Version = "1.2.0"
