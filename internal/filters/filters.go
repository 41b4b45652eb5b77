// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package filters

import (
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/csvcmp/csvcmp/internal/attrs"
	"github.com/csvcmp/csvcmp/internal/log"
	"github.com/csvcmp/csvcmp/internal/table"
)

// filterRegex splits an expression into key, operator (optionally negated)
// and target. Operators are one of = ^ ~ < > @ or /. Examples: "name=Bob",
// "city!^San", "Difference=Yes", "amount>100".
var filterRegex = regexp.MustCompile(`^([^!=^~<>@/]*)(!?[=^~<>@/])(.*)$`)

// Filter is a single parsed --filter expression.
type Filter struct {
	Key     string `yaml:"key" json:"Key"`
	Negate  bool   `yaml:"negate" json:"Negate"`
	Operand string `yaml:"operand" json:"Operand"`
	Value   string `yaml:"value" json:"Value"`
}

// BuildFilters parses a filter specification string into a slice of Filter.
// Malformed entries are logged and skipped.
func BuildFilters(spec string) []Filter {
	//nolint:prealloc
	var filters []Filter

	if spec == "" {
		return filters
	}

	// Allow an override for values that contain commas.
	delim := ","
	if d, ok := os.LookupEnv("CSVCMP_FILTER_DELIM"); ok && d != "" {
		delim = d
	}

	for _, filterSpec := range strings.Split(spec, delim) {
		filterSpec = strings.TrimSpace(filterSpec)
		if filterSpec == "" {
			continue
		}

		parts := filterRegex.FindStringSubmatch(filterSpec)
		if parts == nil {
			log.Errorf("invalid filter: %s", filterSpec)
			continue
		}

		key := strings.TrimSpace(parts[1])
		if key == "" {
			log.Errorf("invalid filter: empty key in %s", filterSpec)
			continue
		}

		operand := parts[2]
		negate := strings.HasPrefix(operand, "!")
		operand = strings.TrimPrefix(operand, "!")

		filters = append(filters, Filter{
			Key:     key,
			Negate:  negate,
			Operand: operand,
			Value:   parts[3],
		})
	}

	return filters
}

// Match reports whether r satisfies every filter. A filter key may name a
// record column or the output title given to it in columns. A row lacking
// the column fails the filter.
func Match(r table.Record, columns attrs.AttrList, filters []Filter) bool {
	for _, filter := range filters {
		key := filter.Key
		for _, attr := range columns {
			if attr.OutputKey == filter.Key {
				key = attr.Key
				break
			}
		}

		value, ok := r.Get(key)
		if !ok {
			return false
		}

		// Compare as numbers only when both sides are numbers.
		num, numOK := parseNumber(value)
		_, tgtOK := parseNumber(filter.Value)

		var result bool
		if numOK && tgtOK && isNumericOperand(filter.Operand) {
			result = checkNumericOperand(num, filter)
		} else {
			result = checkStringOperand(value, filter)
		}

		if !result {
			return false
		}
	}
	return true
}

// UnknownKeys returns the filter keys that name neither a column nor a title.
func UnknownKeys(filters []Filter, header []string, columns attrs.AttrList) []string {
	known := make(map[string]bool, len(header)+len(columns))
	for _, h := range header {
		known[h] = true
	}
	for _, attr := range columns {
		known[attr.OutputKey] = true
	}

	var unknown []string
	for _, f := range filters {
		if !known[f.Key] {
			unknown = append(unknown, f.Key)
		}
	}
	return unknown
}

func isNumericOperand(op string) bool {
	return op == "=" || op == "<" || op == ">"
}

// checkNumericOperand compares a numeric value against the filter value using
// numeric semantics. Supported operands: =, >, < and their negations.
func checkNumericOperand(value float64, filter Filter) bool {
	tgt, ok := parseNumber(filter.Value)
	if !ok {
		log.Errorf("invalid numeric value: %s", filter.Value)
		return false
	}

	switch filter.Operand {
	case "=":
		return (value == tgt) == !filter.Negate
	case ">":
		return (value > tgt) == !filter.Negate
	case "<":
		return (value < tgt) == !filter.Negate
	default:
		log.Errorf("unsupported numeric operand: %s", filter.Operand)
		return false
	}
}

// checkStringOperand evaluates a string comparison style filter against the
// provided value using the operand semantics.
func checkStringOperand(value string, filter Filter) bool {
	switch filter.Operand {
	case "=":
		return value == filter.Value == !filter.Negate
	case "~":
		return strings.EqualFold(value, filter.Value) == !filter.Negate
	case "^":
		return strings.HasPrefix(value, filter.Value) == !filter.Negate
	case ">":
		return value > filter.Value == !filter.Negate
	case "<":
		return value < filter.Value == !filter.Negate
	case "@":
		return strings.Contains(value, filter.Value) == !filter.Negate
	case "/":
		matched, err := regexp.MatchString(filter.Value, value)
		if err != nil {
			log.Errorf("invalid regex: %s", filter.Value)
			return false
		}
		return matched == !filter.Negate
	default:
		log.Errorf("unsupported filtering operand: %s", filter.Operand)
		return false
	}
}

// parseNumber reads a cell as a number, tolerating surrounding blanks.
func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
