// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package table loads CSV text (and .xlsx workbooks) into ordered, string
// keyed records and writes records back out as CSV.
package table
