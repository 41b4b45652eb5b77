// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"github.com/csvcmp/csvcmp/internal/table"
	"github.com/csvcmp/csvcmp/internal/util"
)

// CompareFiles loads both inputs and compares them. An input is a file path,
// optionally suffixed with ::Sheet to pick a workbook sheet. Load failures
// come back as the table package's FileSelectionError or ParseError.
func CompareFiles(spec1, spec2 string, opts ...Option) (*Result, error) {
	t1, err := loadSpec(spec1)
	if err != nil {
		return nil, err
	}
	t2, err := loadSpec(spec2)
	if err != nil {
		return nil, err
	}
	return Compare(t1, t2, opts...)
}

func loadSpec(spec string) (table.Table, error) {
	if spec == "" {
		return table.LoadFile("")
	}
	path, sheet, err := util.ParseInputSpec(spec)
	if err != nil {
		return table.Table{}, &table.FileSelectionError{Path: spec, Err: err}
	}
	return table.LoadFile(path, sheet)
}
