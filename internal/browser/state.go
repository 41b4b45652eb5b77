// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package browser

import (
	"github.com/csvcmp/csvcmp/internal/attrs"
	"github.com/csvcmp/csvcmp/internal/differ"
	"github.com/csvcmp/csvcmp/internal/filters"
)

// AppState is everything the browser knows about the current session.
type AppState struct {
	File1  string
	File2  string
	Result *differ.Result
	// DiffOnly limits the result table to differing rows.
	DiffOnly bool
	// Filter is a filter spec as accepted by --filter.
	Filter string
	// Status is the message shown under the table.
	Status string
	// Err is the failure behind Status, nil after a successful action.
	Err error
}

// WithFiles returns a copy naming a new pair of input files.
func (s AppState) WithFiles(file1, file2 string) AppState {
	s.File1, s.File2 = file1, file2
	return s
}

// Ready reports whether both input files are known.
func (s AppState) Ready() bool {
	return s.File1 != "" && s.File2 != ""
}

// Compared returns a copy holding a fresh result.
func (s AppState) Compared(res *differ.Result) AppState {
	s.Result = res
	s.Status = res.Summary()
	s.Err = nil
	return s
}

// Failed returns a copy reporting err. The last good result is kept.
func (s AppState) Failed(err error) AppState {
	s.Status = err.Error()
	s.Err = err
	return s
}

// Notice returns a copy with an informational status.
func (s AppState) Notice(msg string) AppState {
	s.Status = msg
	s.Err = nil
	return s
}

// Toggled returns a copy with the all/diff-only view flipped.
func (s AppState) Toggled() AppState {
	s.DiffOnly = !s.DiffOnly
	return s
}

// Filtered returns a copy using spec as the row filter.
func (s AppState) Filtered(spec string) AppState {
	s.Filter = spec
	return s
}

// VisibleRows are the result rows the table shows: all or differing rows,
// narrowed by the filter.
func (s AppState) VisibleRows() []differ.Row {
	if s.Result == nil {
		return nil
	}

	rows := s.Result.Rows(s.DiffOnly)
	if s.Filter == "" {
		return rows
	}

	columns := attrs.FromColumns(s.Result.Columns)
	fs := filters.BuildFilters(s.Filter)

	var out []differ.Row
	for _, row := range rows {
		if filters.Match(row.Record, columns, fs) {
			out = append(out, row)
		}
	}
	return out
}

// UnknownFilterKeys names filter keys that are not result columns.
func (s AppState) UnknownFilterKeys() []string {
	if s.Result == nil || s.Filter == "" {
		return nil
	}
	columns := attrs.FromColumns(s.Result.Columns)
	return filters.UnknownKeys(filters.BuildFilters(s.Filter), s.Result.Columns, columns)
}
