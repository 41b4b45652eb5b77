// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package differ aligns the rows of two tables, flags the rows whose records
// differ and renders per-row deltas.
package differ
