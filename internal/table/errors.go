// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package table

import (
	"errors"
	"fmt"
)

var (
	// ErrEmpty is reported when the input holds no CSV content at all.
	ErrEmpty = errors.New("no CSV content")
	// ErrEncoding is reported when the input is not valid UTF-8.
	ErrEncoding = errors.New("input is not valid UTF-8")
	// ErrDuplicateColumn is reported when a header names a column twice.
	ErrDuplicateColumn = errors.New("duplicate column name")
	// ErrNoFile is reported when no input file was chosen.
	ErrNoFile = errors.New("no file selected")
	// ErrNoSheet is reported when a workbook has no sheet by the given name.
	ErrNoSheet = errors.New("no such sheet")
	// ErrNotWorkbook is reported when a sheet is named for a non-workbook file.
	ErrNotWorkbook = errors.New("sheets can only be selected in .xlsx/.xlsm workbooks")
)

// ParseError describes input that could not be turned into a Table. Line is
// 1-based and zero when the failure is not tied to a line.
type ParseError struct {
	Source string
	Line   int
	Err    error
}

func (e *ParseError) Error() string {
	src := e.Source
	if src == "" {
		src = "input"
	}
	if e.Line > 0 {
		return fmt.Sprintf("failed to parse %s (line %d): %v", src, e.Line, e.Err)
	}
	return fmt.Sprintf("failed to parse %s: %v", src, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// FileSelectionError means an input file was not chosen or cannot be used as
// one. The user can fix it by picking another file.
type FileSelectionError struct {
	Path string
	Err  error
}

func (e *FileSelectionError) Error() string {
	if e.Path == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("cannot use %s: %v", e.Path, e.Err)
}

func (e *FileSelectionError) Unwrap() error { return e.Err }
