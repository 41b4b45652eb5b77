// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package output renders comparison results to a writer as a styled text
// table, CSV, JSON or YAML after applying the column, filter and sort options.
package output
