// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package table

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/csvcmp/csvcmp/internal/log"
)

const bom = "\ufeff"

// Table is an ordered sequence of records sharing the header's column set.
type Table struct {
	Source  string
	Header  []string
	Records []Record
}

// Len is the number of data rows.
func (t Table) Len() int {
	return len(t.Records)
}

// At returns the record at i, or an empty record and false when i is out of
// range.
func (t Table) At(i int) (Record, bool) {
	if i < 0 || i >= len(t.Records) {
		return Record{}, false
	}
	return t.Records[i], true
}

// Parse turns UTF-8 CSV text with a header row into a Table.
func Parse(text string) (Table, error) {
	return ParseNamed("", text)
}

// ParseNamed is Parse with a source name used in error messages.
func ParseNamed(source, text string) (Table, error) {
	if !utf8.ValidString(text) {
		return Table{}, &ParseError{Source: source, Err: ErrEncoding}
	}
	text = strings.TrimPrefix(text, bom)
	if strings.TrimSpace(text) == "" {
		return Table{}, &ParseError{Source: source, Err: ErrEmpty}
	}

	r := csv.NewReader(strings.NewReader(text))
	// Short and long rows are handled in build rather than rejected.
	r.FieldsPerRecord = -1

	rows, err := r.ReadAll()
	if err != nil {
		var csvErr *csv.ParseError
		if errors.As(err, &csvErr) {
			return Table{}, &ParseError{Source: source, Line: csvErr.Line, Err: csvErr.Err}
		}
		return Table{}, &ParseError{Source: source, Err: err}
	}
	log.Tracef("csv read: source=%s rows=%d", source, len(rows))

	return build(source, rows)
}

// build converts raw rows (header first) into a Table.
func build(source string, rows [][]string) (Table, error) {
	for len(rows) > 0 && len(rows[0]) == 0 {
		rows = rows[1:]
	}
	if len(rows) == 0 {
		return Table{}, &ParseError{Source: source, Err: ErrEmpty}
	}

	header := rows[0]
	seen := make(map[string]bool, len(header))
	for _, h := range header {
		if seen[h] {
			return Table{}, &ParseError{Source: source, Line: 1, Err: fmt.Errorf("%w: %q", ErrDuplicateColumn, h)}
		}
		seen[h] = true
	}

	t := Table{
		Source:  source,
		Header:  append([]string(nil), header...),
		Records: make([]Record, 0, len(rows)-1),
	}
	for i, row := range rows[1:] {
		if len(row) == 0 {
			continue
		}
		if len(row) > len(header) {
			log.Warnf("%s row %d has %d fields, header has %d; extra fields dropped",
				displayName(source), i+1, len(row), len(header))
		}
		t.Records = append(t.Records, NewRecord(header, row))
	}

	log.Debugf("table built: source=%s columns=%d records=%d", source, len(t.Header), len(t.Records))
	return t, nil
}

// Serialize renders rows as CSV text. The header is the key list of the first
// row; keys that only appear in later rows are not written. Zero rows render
// as the empty string.
func Serialize(rows []Record) (string, error) {
	var buf bytes.Buffer
	if err := Write(&buf, rows); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Write is Serialize to an io.Writer.
func Write(w io.Writer, rows []Record) error {
	if len(rows) == 0 {
		return nil
	}

	header := rows[0].Keys()
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, r := range rows {
		if err := cw.Write(r.Values(header)); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func displayName(source string) string {
	if source == "" {
		return "input"
	}
	return source
}
