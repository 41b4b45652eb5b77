// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"fmt"

	"github.com/yudai/gojsondiff"
	"github.com/yudai/gojsondiff/formatter"

	"github.com/csvcmp/csvcmp/internal/table"
)

// Delta renders the field-level difference between the row's two input
// records in the ASCII diff format. Values from the first file are prefixed
// with "-" and values from the second with "+". An identical pair renders as
// the empty string.
func (r Row) Delta(coloring bool) (string, error) {
	left := toObject(r.Left)
	right := toObject(r.Right)

	delta := gojsondiff.New().CompareObjects(left, right)
	if !delta.Modified() {
		return "", nil
	}

	config := formatter.AsciiFormatterConfig{
		ShowArrayIndex: false,
		Coloring:       coloring,
	}

	out, err := formatter.NewAsciiFormatter(left, config).Format(delta)
	if err != nil {
		return "", fmt.Errorf("failed to format row %d delta: %w", r.Line, err)
	}
	return out, nil
}

func toObject(r table.Record) map[string]interface{} {
	obj := make(map[string]interface{}, r.Len())
	for k, v := range r.Map() {
		obj[k] = v
	}
	return obj
}
