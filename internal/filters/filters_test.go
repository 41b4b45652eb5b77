// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package filters

import (
	"embed"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/csvcmp/csvcmp/internal/attrs"
	"github.com/csvcmp/csvcmp/internal/table"
)

//go:embed testdata/*.yaml
var testDataFS embed.FS

// testBuildFiltersCase represents a single test case for TestBuildFilters.
type testBuildFiltersCase struct {
	Name      string   `yaml:"name"`
	Spec      string   `yaml:"spec"`
	Delimiter string   `yaml:"delimiter"`
	Want      []Filter `yaml:"want"`
	WantCount int      `yaml:"wantCount"`
}

// testCheckStringOperandCase represents a single test case for
// TestCheckStringOperand.
type testCheckStringOperandCase struct {
	Name   string `yaml:"name"`
	Value  string `yaml:"value"`
	Filter Filter `yaml:"filter"`
	Want   bool   `yaml:"want"`
}

// testCheckNumericOperandCase represents a single test case for
// TestCheckNumericOperand.
type testCheckNumericOperandCase struct {
	Name   string  `yaml:"name"`
	Value  float64 `yaml:"value"`
	Filter Filter  `yaml:"filter"`
	Want   bool    `yaml:"want"`
}

// testMatchCase represents a single test case for TestMatch.
type testMatchCase struct {
	Name    string   `yaml:"name"`
	Filters []Filter `yaml:"filters"`
	Want    bool     `yaml:"want"`
}

// loadTestData loads test data from embedded YAML files.
func loadTestData(filename string, v interface{}) error {
	data, err := testDataFS.ReadFile("testdata/" + filename)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, v)
}

func TestBuildFilters(t *testing.T) {
	var tests []testBuildFiltersCase
	require.NoError(t, loadTestData("build_filters.yaml", &tests))

	for _, tt := range tests {
		t.Run(tt.Name, func(t *testing.T) {
			if tt.Delimiter != "" {
				t.Setenv("CSVCMP_FILTER_DELIM", tt.Delimiter)
			}

			got := BuildFilters(tt.Spec)
			require.Len(t, got, tt.WantCount)
			for i, filter := range tt.Want {
				assert.Equal(t, filter, got[i])
			}
		})
	}
}

func TestCheckStringOperand(t *testing.T) {
	var tests []testCheckStringOperandCase
	require.NoError(t, loadTestData("check_string_operand.yaml", &tests))

	for _, tt := range tests {
		t.Run(tt.Name, func(t *testing.T) {
			assert.Equal(t, tt.Want, checkStringOperand(tt.Value, tt.Filter))
		})
	}
}

func TestCheckNumericOperand(t *testing.T) {
	var tests []testCheckNumericOperandCase
	require.NoError(t, loadTestData("check_numeric_operand.yaml", &tests))

	for _, tt := range tests {
		t.Run(tt.Name, func(t *testing.T) {
			assert.Equal(t, tt.Want, checkNumericOperand(tt.Value, tt.Filter))
		})
	}
}

func TestMatch(t *testing.T) {
	var tests []testMatchCase
	require.NoError(t, loadTestData("match.yaml", &tests))

	row := table.NewRecord(
		[]string{"name", "city", "amount", "Difference"},
		[]string{"Alice", "London", "10", "Yes"},
	)
	columns := attrs.AttrList{
		{Key: "name", OutputKey: "Customer", Include: true},
		{Key: "city", OutputKey: "city", Include: true},
	}

	for _, tt := range tests {
		t.Run(tt.Name, func(t *testing.T) {
			assert.Equal(t, tt.Want, Match(row, columns, tt.Filters))
		})
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in     string
		want   float64
		wantOK bool
	}{
		{in: "42", want: 42, wantOK: true},
		{in: " -3.5 ", want: -3.5, wantOK: true},
		{in: "1e3", want: 1000, wantOK: true},
		{in: "", wantOK: false},
		{in: "12abc", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := parseNumber(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			if ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestUnknownKeys(t *testing.T) {
	filters := BuildFilters("name=A,Customer=B,zip=1")
	columns := attrs.AttrList{{Key: "name", OutputKey: "Customer", Include: true}}

	assert.Equal(t, []string{"zip"}, UnknownKeys(filters, []string{"name", "city"}, columns))
	assert.Empty(t, UnknownKeys(nil, nil, nil))
}
