// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package export writes comparison rows as CSV to a local directory (save) or
// uploads them to an S3-compatible bucket (share).
package export
