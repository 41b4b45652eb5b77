// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize/english"

	"github.com/csvcmp/csvcmp/internal/log"
	"github.com/csvcmp/csvcmp/internal/table"
)

// DifferenceColumn is the synthetic column appended to every output row.
const DifferenceColumn = "Difference"

var (
	// ErrNoData is reported when either table has no data rows.
	ErrNoData = errors.New("no data")
	// ErrUnknownKey is reported when a key column is missing from a header.
	ErrUnknownKey = errors.New("unknown key column")
	// ErrReservedColumn is reported when an input header already has the
	// Difference column.
	ErrReservedColumn = errors.New("column name is reserved")
)

// ComparisonError means the two tables could not be compared.
type ComparisonError struct {
	Err error
}

func (e *ComparisonError) Error() string {
	return fmt.Sprintf("cannot compare: %v", e.Err)
}

func (e *ComparisonError) Unwrap() error { return e.Err }

// Labels are the two values written to the Difference column.
type Labels struct {
	Yes string
	No  string
}

// DefaultLabels are used unless WithLabels overrides them.
var DefaultLabels = Labels{Yes: "Yes", No: "No"}

// Row is one aligned pair of input records and their merged output.
type Row struct {
	// Line is the 1-based data row in the first table, or 0 for a row that
	// exists only in the second table (key mode).
	Line int
	// Left and Right are the input records; an absent side is empty.
	Left  table.Record
	Right table.Record
	// Record is Left overlaid with Right plus the Difference column.
	Record    table.Record
	Different bool
	// Changed names the columns whose presence or value differs.
	Changed []string
}

// Result holds the outcome of a comparison.
type Result struct {
	// Columns is the first table's header followed by DifferenceColumn.
	Columns     []string
	All         []Row
	Differences []Row
	Labels      Labels
	// Key is the join key used, empty for positional alignment.
	Key []string
}

// DiffCount is the number of differing rows.
func (r *Result) DiffCount() int {
	return len(r.Differences)
}

// Summary is a one-line, human readable outcome.
func (r *Result) Summary() string {
	if n := r.DiffCount(); n > 0 {
		return english.Plural(n, "difference", "") + " found."
	}
	return "The files are identical."
}

// Rows returns the differing rows when diffOnly is set, otherwise all rows.
func (r *Result) Rows(diffOnly bool) []Row {
	if diffOnly {
		return r.Differences
	}
	return r.All
}

// Records extracts the merged output records from rows.
func Records(rows []Row) []table.Record {
	out := make([]table.Record, len(rows))
	for i, row := range rows {
		out[i] = row.Record
	}
	return out
}

type options struct {
	key    []string
	labels Labels
}

// Option customizes Compare.
type Option func(*options)

// WithKey aligns rows on the values of the given columns instead of on row
// position. Blank names are ignored; no names means positional alignment.
func WithKey(columns ...string) Option {
	return func(o *options) {
		o.key = nil
		for _, c := range columns {
			if c = strings.TrimSpace(c); c != "" {
				o.key = append(o.key, c)
			}
		}
	}
}

// WithLabels overrides the Difference column values. Empty strings keep the
// defaults.
func WithLabels(yes, no string) Option {
	return func(o *options) {
		if yes != "" {
			o.labels.Yes = yes
		}
		if no != "" {
			o.labels.No = no
		}
	}
}

// Compare aligns t1 and t2 and flags rows whose records differ. With no key,
// row i of t1 pairs with row i of t2; t1's length drives the alignment, a
// missing t2 row pairs with an empty record (so the row is different), and
// surplus t2 rows are ignored.
func Compare(t1, t2 table.Table, opts ...Option) (*Result, error) {
	o := options{labels: DefaultLabels}
	for _, opt := range opts {
		opt(&o)
	}

	if t1.Len() == 0 || t2.Len() == 0 {
		log.Debugf("compare rejected: len1=%d len2=%d", t1.Len(), t2.Len())
		return nil, &ComparisonError{Err: ErrNoData}
	}
	if contains(t1.Header, DifferenceColumn) || contains(t2.Header, DifferenceColumn) {
		return nil, &ComparisonError{Err: fmt.Errorf("%w: %q", ErrReservedColumn, DifferenceColumn)}
	}

	res := &Result{
		Columns: append(append([]string(nil), t1.Header...), DifferenceColumn),
		All:     make([]Row, 0, t1.Len()),
		Labels:  o.labels,
		Key:     o.key,
	}

	if len(o.key) == 0 {
		if t2.Len() != t1.Len() {
			log.Warnf("row counts differ (%d vs %d); aligning on the first file", t1.Len(), t2.Len())
		}
		for i, r1 := range t1.Records {
			r2, _ := t2.At(i)
			res.add(i+1, r1, r2)
		}
	} else if err := res.joinOnKey(t1, t2); err != nil {
		return nil, err
	}

	log.Debugf("compare done: rows=%d differences=%d key=%v", len(res.All), res.DiffCount(), o.key)
	return res, nil
}

// joinOnKey pairs each t1 row with the first unused t2 row carrying the same
// key. t2 rows left unpaired are appended at the end as different rows.
func (res *Result) joinOnKey(t1, t2 table.Table) error {
	for _, k := range res.Key {
		if !contains(t1.Header, k) || !contains(t2.Header, k) {
			return &ComparisonError{Err: fmt.Errorf("%w: %q", ErrUnknownKey, k)}
		}
	}

	pending := make(map[string][]int, t2.Len())
	for j, r2 := range t2.Records {
		k := keyOf(r2, res.Key)
		pending[k] = append(pending[k], j)
	}

	used := make([]bool, t2.Len())
	for i, r1 := range t1.Records {
		k := keyOf(r1, res.Key)
		var r2 table.Record
		if q := pending[k]; len(q) > 0 {
			r2 = t2.Records[q[0]]
			used[q[0]] = true
			pending[k] = q[1:]
		} else {
			log.Tracef("key %q has no match in second file", k)
		}
		res.add(i+1, r1, r2)
	}

	for j, r2 := range t2.Records {
		if !used[j] {
			res.add(0, table.Record{}, r2)
		}
	}
	return nil
}

func (res *Result) add(line int, r1, r2 table.Record) {
	different := !r1.Equal(r2)

	merged := r1.Merge(r2)
	label := res.Labels.No
	if different {
		label = res.Labels.Yes
	}
	merged.Set(DifferenceColumn, label)

	row := Row{
		Line:      line,
		Left:      r1,
		Right:     r2,
		Record:    merged,
		Different: different,
	}
	if different {
		row.Changed = r1.ChangedKeys(r2)
		res.Differences = append(res.Differences, row)
	}
	res.All = append(res.All, row)
}

// keyOf encodes the key values with length prefixes so distinct tuples never
// share an encoding.
func keyOf(r table.Record, cols []string) string {
	var b strings.Builder
	for _, v := range r.Values(cols) {
		b.WriteString(strconv.Itoa(len(v)))
		b.WriteByte(':')
		b.WriteString(v)
	}
	return b.String()
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
