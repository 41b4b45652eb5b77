// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"sort"
	"strconv"
	"strings"

	"github.com/csvcmp/csvcmp/internal/attrs"
	"github.com/csvcmp/csvcmp/internal/differ"
)

// SortRows orders rows in place by a --sort spec: comma separated column
// names (or --columns titles), each optionally prefixed with - for descending
// and ! for case sensitive. Cells that both parse as numbers compare
// numerically. The sort is stable, so equal rows keep their file order.
func SortRows(rows []differ.Row, spec string, columns attrs.AttrList) {
	if strings.TrimSpace(spec) == "" {
		return
	}
	fields := strings.Split(spec, ",")

	sort.SliceStable(rows, func(one, two int) bool {
		for _, field := range fields {
			field = strings.TrimSpace(field)

			ascending := true
			if strings.HasPrefix(field, "-") {
				field = strings.TrimPrefix(field, "-")
				ascending = false
			}

			caseSensitive := false
			if strings.HasPrefix(field, "!") {
				field = strings.TrimPrefix(field, "!")
				caseSensitive = true
			}
			if field == "" {
				continue
			}
			key := resolveKey(field, columns)

			oneStr := rows[one].Record.Value(key)
			twoStr := rows[two].Record.Value(key)

			oneNum, oneErr := strconv.ParseFloat(strings.TrimSpace(oneStr), 64)
			twoNum, twoErr := strconv.ParseFloat(strings.TrimSpace(twoStr), 64)
			if oneErr == nil && twoErr == nil {
				if oneNum != twoNum {
					if ascending {
						return oneNum < twoNum
					}
					return oneNum > twoNum
				}
				continue
			}

			if !caseSensitive {
				oneStr = strings.ToLower(oneStr)
				twoStr = strings.ToLower(twoStr)
			}

			if oneStr != twoStr {
				if ascending {
					return oneStr < twoStr
				}
				return oneStr > twoStr
			}
		}
		return false
	})
}

// resolveKey maps a --columns title back to its record column.
func resolveKey(name string, columns attrs.AttrList) string {
	for _, attr := range columns {
		if attr.OutputKey == name {
			return attr.Key
		}
	}
	return name
}
