// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package differ

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csvcmp/csvcmp/internal/table"
)

func mustParse(t *testing.T, text string) table.Table {
	t.Helper()
	tbl, err := table.Parse(text)
	require.NoError(t, err)
	return tbl
}

func TestCompare(t *testing.T) {
	tests := []struct {
		name      string
		left      string
		right     string
		opts      []Option
		wantErr   error
		checkFunc func(*testing.T, *Result)
	}{
		{
			name:  "single differing row",
			left:  "id,name\n1,A\n",
			right: "id,name\n1,B\n",
			checkFunc: func(t *testing.T, res *Result) {
				require.Len(t, res.All, 1)
				r := res.All[0].Record
				assert.Equal(t, []string{"id", "name", "Difference"}, r.Keys())
				assert.Equal(t, "1", r.Value("id"))
				assert.Equal(t, "B", r.Value("name"))
				assert.Equal(t, "Yes", r.Value("Difference"))
				assert.Equal(t, 1, res.DiffCount())
				assert.Equal(t, []string{"name"}, res.All[0].Changed)
			},
		},
		{
			name:  "identical tables",
			left:  "id,name\n1,A\n2,B\n",
			right: "id,name\n1,A\n2,B\n",
			checkFunc: func(t *testing.T, res *Result) {
				assert.Len(t, res.All, 2)
				assert.Empty(t, res.Differences)
				for _, row := range res.All {
					assert.Equal(t, "No", row.Record.Value(DifferenceColumn))
					assert.Empty(t, row.Changed)
				}
				assert.Equal(t, "The files are identical.", res.Summary())
			},
		},
		{
			name:  "only changed row flagged",
			left:  "id,name,city\n1,A,X\n2,B,Y\n3,C,Z\n",
			right: "id,name,city\n1,A,X\n2,B,Q\n3,C,Z\n",
			checkFunc: func(t *testing.T, res *Result) {
				require.Len(t, res.Differences, 1)
				assert.Equal(t, 2, res.Differences[0].Line)
				assert.Equal(t, "Q", res.Differences[0].Record.Value("city"))
				assert.False(t, res.All[0].Different)
				assert.True(t, res.All[1].Different)
				assert.False(t, res.All[2].Different)
				assert.Equal(t, "1 difference found.", res.Summary())
			},
		},
		{
			name:  "second table shorter",
			left:  "id,name\n1,A\n2,B\n3,C\n",
			right: "id,name\n1,A\n",
			checkFunc: func(t *testing.T, res *Result) {
				require.Len(t, res.All, 3)
				assert.Equal(t, 2, res.DiffCount())
				missing := res.All[2]
				assert.True(t, missing.Different)
				assert.Equal(t, 0, missing.Right.Len())
				assert.Equal(t, "C", missing.Record.Value("name"), "merge with empty keeps first file")
				assert.Equal(t, []string{"id", "name"}, missing.Changed)
				assert.Equal(t, "2 differences found.", res.Summary())
			},
		},
		{
			name:  "second table longer ignores surplus",
			left:  "id\n1\n",
			right: "id\n1\n2\n3\n",
			checkFunc: func(t *testing.T, res *Result) {
				assert.Len(t, res.All, 1)
				assert.Zero(t, res.DiffCount())
			},
		},
		{
			name:  "short row key set differs",
			left:  "id,name\n1,\n",
			right: "id,name\n1\n",
			checkFunc: func(t *testing.T, res *Result) {
				assert.Equal(t, 1, res.DiffCount())
			},
		},
		{
			name:  "columns come from first table",
			left:  "id,name\n1,A\n",
			right: "id,name,extra\n1,A,x\n",
			checkFunc: func(t *testing.T, res *Result) {
				assert.Equal(t, []string{"id", "name", "Difference"}, res.Columns)
				assert.Equal(t, "x", res.All[0].Record.Value("extra"))
				assert.Equal(t, []string{"extra"}, res.All[0].Changed)
			},
		},
		{
			name:  "custom labels",
			left:  "id\n1\n2\n",
			right: "id\n1\n3\n",
			opts:  []Option{WithLabels("Sim", "Não")},
			checkFunc: func(t *testing.T, res *Result) {
				assert.Equal(t, "Não", res.All[0].Record.Value(DifferenceColumn))
				assert.Equal(t, "Sim", res.All[1].Record.Value(DifferenceColumn))
			},
		},
		{
			name:  "blank label keeps default",
			left:  "id\n1\n",
			right: "id\n2\n",
			opts:  []Option{WithLabels("", "")},
			checkFunc: func(t *testing.T, res *Result) {
				assert.Equal(t, "Yes", res.All[0].Record.Value(DifferenceColumn))
			},
		},
		{
			name:    "empty first table",
			left:    "id,name\n",
			right:   "id,name\n1,A\n",
			wantErr: ErrNoData,
		},
		{
			name:    "empty second table",
			left:    "id,name\n1,A\n",
			right:   "id,name\n",
			wantErr: ErrNoData,
		},
		{
			name:    "first header has Difference",
			left:    "id,Difference\n1,x\n",
			right:   "id,Difference\n1,x\n",
			wantErr: ErrReservedColumn,
		},
		{
			name:    "second header has Difference",
			left:    "id\n1\n",
			right:   "id,Difference\n1,x\n",
			wantErr: ErrReservedColumn,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Compare(mustParse(t, tt.left), mustParse(t, tt.right), tt.opts...)
			if tt.wantErr != nil {
				require.Error(t, err)
				var ce *ComparisonError
				assert.True(t, errors.As(err, &ce))
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, res)
				return
			}
			require.NoError(t, err)
			tt.checkFunc(t, res)
		})
	}
}

func TestCompareSelf(t *testing.T) {
	tbl := mustParse(t, "id,name,note\n1,A,\"x, y\"\n2,B,\n3,C\n")
	res, err := Compare(tbl, tbl)
	require.NoError(t, err)
	assert.Len(t, res.All, 3)
	assert.Empty(t, res.Differences)
}

func TestCompareWithKey(t *testing.T) {
	left := mustParse(t, "id,name\n1,A\n2,B\n3,C\n")
	right := mustParse(t, "id,name\n3,C\n1,A2\n4,D\n")

	res, err := Compare(left, right, WithKey("id"))
	require.NoError(t, err)

	require.Len(t, res.All, 4)
	assert.Equal(t, []string{"id"}, res.Key)

	assert.True(t, res.All[0].Different)
	assert.Equal(t, "A2", res.All[0].Record.Value("name"))

	assert.True(t, res.All[1].Different, "id 2 has no match")
	assert.Equal(t, 0, res.All[1].Right.Len())

	assert.False(t, res.All[2].Different, "id 3 matched despite reordering")

	rightOnly := res.All[3]
	assert.Equal(t, 0, rightOnly.Line)
	assert.True(t, rightOnly.Different)
	assert.Equal(t, "4", rightOnly.Record.Value("id"))

	assert.Equal(t, 3, res.DiffCount())
}

func TestCompareWithCompositeKeyAndDuplicates(t *testing.T) {
	left := mustParse(t, "a,b,v\n1,x,p\n1,x,q\n1,y,r\n")
	right := mustParse(t, "a,b,v\n1,y,r\n1,x,p\n1,x,q\n")

	res, err := Compare(left, right, WithKey(" a ", "b", ""))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, res.Key)
	assert.Zero(t, res.DiffCount(), "duplicates pair in order")
}

func TestCompareWithKeyValuesThatLookJoined(t *testing.T) {
	cols := []string{"a", "b", "v"}
	left := table.Table{Header: cols, Records: []table.Record{
		table.NewRecord(cols, []string{"x\x1fy", "z", "1"}),
	}}
	right := table.Table{Header: cols, Records: []table.Record{
		table.NewRecord(cols, []string{"x", "y\x1fz", "1"}),
	}}

	res, err := Compare(left, right, WithKey("a", "b"))
	require.NoError(t, err)

	require.Len(t, res.All, 2, "distinct key tuples do not pair")
	assert.Equal(t, 0, res.All[0].Right.Len())
	assert.Equal(t, 0, res.All[1].Line)
	assert.Equal(t, 2, res.DiffCount())
}

func TestCompareWithUnknownKey(t *testing.T) {
	left := mustParse(t, "id,name\n1,A\n")
	right := mustParse(t, "key,name\n1,A\n")

	_, err := Compare(left, right, WithKey("id"))
	assert.ErrorIs(t, err, ErrUnknownKey)
	assert.Contains(t, err.Error(), `"id"`)
}

func TestCompareEmptyKeyIsPositional(t *testing.T) {
	left := mustParse(t, "id\n1\n2\n")
	right := mustParse(t, "id\n2\n1\n")

	res, err := Compare(left, right, WithKey())
	require.NoError(t, err)
	assert.Empty(t, res.Key)
	assert.Equal(t, 2, res.DiffCount())
}

func TestResultRows(t *testing.T) {
	res, err := Compare(mustParse(t, "id\n1\n2\n"), mustParse(t, "id\n1\n9\n"))
	require.NoError(t, err)

	assert.Len(t, res.Rows(false), 2)
	assert.Len(t, res.Rows(true), 1)

	recs := Records(res.Rows(true))
	require.Len(t, recs, 1)
	assert.Equal(t, "9", recs[0].Value("id"))
}

func TestDiffOnlyExportReparse(t *testing.T) {
	res, err := Compare(
		mustParse(t, "id,name\n1,A\n2,B\n3,C\n4,D\n"),
		mustParse(t, "id,name\n1,A\n2,b\n3,C\n"),
	)
	require.NoError(t, err)

	text, err := table.Serialize(Records(res.Differences))
	require.NoError(t, err)

	again, err := table.Parse(text)
	require.NoError(t, err)
	assert.Equal(t, res.DiffCount(), again.Len())
	assert.Equal(t, []string{"id", "name", "Difference"}, again.Header)
}

func TestExportHeaderFollowsFirstRow(t *testing.T) {
	tbl := mustParse(t, "id,name,city\n1\n2,B,C\n")
	res, err := Compare(tbl, tbl)
	require.NoError(t, err)

	text, err := table.Serialize(Records(res.All))
	require.NoError(t, err)
	assert.Equal(t, "id,Difference\n1,No\n2,No\n", text, "columns missing from the first row are not exported")
}

func TestRowDelta(t *testing.T) {
	res, err := Compare(mustParse(t, "id,name\n1,Alpha\n2,B\n"), mustParse(t, "id,name\n1,Beta\n2,B\n"))
	require.NoError(t, err)

	out, err := res.All[0].Delta(false)
	require.NoError(t, err)
	assert.Contains(t, out, `"Alpha"`)
	assert.Contains(t, out, `"Beta"`)

	var minus, plus bool
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "-") && strings.Contains(line, "Alpha") {
			minus = true
		}
		if strings.HasPrefix(line, "+") && strings.Contains(line, "Beta") {
			plus = true
		}
	}
	assert.True(t, minus, "first file value marked with -: %s", out)
	assert.True(t, plus, "second file value marked with +: %s", out)

	same, err := res.All[1].Delta(false)
	require.NoError(t, err)
	assert.Empty(t, same)
}

func TestCompareFiles(t *testing.T) {
	dir := t.TempDir()
	p1 := filepath.Join(dir, "a.csv")
	p2 := filepath.Join(dir, "b.csv")
	require.NoError(t, os.WriteFile(p1, []byte("id,name\n1,A\n"), 0o600))
	require.NoError(t, os.WriteFile(p2, []byte("id,name\n1,B\n"), 0o600))

	res, err := CompareFiles(p1, p2)
	require.NoError(t, err)
	assert.Equal(t, 1, res.DiffCount())

	_, err = CompareFiles(p1, filepath.Join(dir, "missing.csv"))
	var fse *table.FileSelectionError
	assert.True(t, errors.As(err, &fse))

	_, err = CompareFiles("", p2)
	assert.ErrorIs(t, err, table.ErrNoFile)
}
