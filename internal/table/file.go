// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package table

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/csvcmp/csvcmp/internal/log"
)

// LoadFile reads path into a Table. Workbooks (.xlsx, .xlsm) are read from
// the named sheet, or their first sheet when none is given; anything else is
// treated as CSV text.
func LoadFile(path string, sheet ...string) (Table, error) {
	if path == "" {
		return Table{}, &FileSelectionError{Err: ErrNoFile}
	}

	info, err := os.Stat(path)
	if err != nil {
		return Table{}, &FileSelectionError{Path: path, Err: err}
	}
	if info.IsDir() {
		return Table{}, &FileSelectionError{Path: path, Err: errors.New("is a directory")}
	}

	name := ""
	if len(sheet) > 0 {
		name = sheet[0]
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return loadWorkbook(path, name)
	}
	if name != "" {
		return Table{}, &FileSelectionError{Path: path, Err: ErrNotWorkbook}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Table{}, &FileSelectionError{Path: path, Err: err}
	}
	log.Debugf("read %d bytes from %s", len(data), path)

	return ParseNamed(path, string(data))
}

func loadWorkbook(path, sheet string) (Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return Table{}, &ParseError{Source: path, Err: fmt.Errorf("failed to open workbook: %w", err)}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return Table{}, &ParseError{Source: path, Err: ErrEmpty}
	}
	if sheet == "" {
		sheet = sheets[0]
	} else if idx, _ := f.GetSheetIndex(sheet); idx < 0 {
		return Table{}, &FileSelectionError{Path: path, Err: fmt.Errorf("%w: %s", ErrNoSheet, sheet)}
	}

	// GetRows trims trailing empty cells, which lines up with the short-row
	// handling for CSV input.
	rows, err := f.GetRows(sheet)
	if err != nil {
		return Table{}, &ParseError{Source: path, Err: fmt.Errorf("failed to read sheet %q: %w", sheet, err)}
	}
	log.Debugf("workbook %s sheet %q: %d rows", path, sheet, len(rows))

	return build(path, rows)
}
