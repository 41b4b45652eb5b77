// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image/color"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/lipgloss/v2/table"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v2"

	"github.com/csvcmp/csvcmp/internal/attrs"
	"github.com/csvcmp/csvcmp/internal/config"
	"github.com/csvcmp/csvcmp/internal/differ"
	"github.com/csvcmp/csvcmp/internal/filters"
	"github.com/csvcmp/csvcmp/internal/log"
	csvtable "github.com/csvcmp/csvcmp/internal/table"
)

// Formats accepted by --output.
var Formats = []string{"text", "csv", "json", "yaml"}

// emptyCell stands in for a blank value in text output.
const emptyCell = "-"

// Options control how a comparison is rendered.
type Options struct {
	Format   string
	DiffOnly bool
	Color    bool
	Titles   bool
	Padding  int
	Columns  string
	Filter   string
	Sort     string
	// Header is printed above the text table when set.
	Header string
}

// OptionsFromCommand reads the output flags of cmd.
func OptionsFromCommand(cmd *cli.Command) Options {
	return Options{
		Format:   cmd.String("output"),
		DiffOnly: cmd.Bool("diff-only"),
		Color:    cmd.Bool("color"),
		Titles:   cmd.Bool("titles"),
		Padding:  cmd.Int("padding"),
		Columns:  cmd.String("columns"),
		Filter:   cmd.String("filter"),
		Sort:     cmd.String("sort"),
	}
}

// SliceDiceSpit selects, filters, sorts and renders the rows of res to w in
// the requested format. Text output is followed by the result summary.
func SliceDiceSpit(w io.Writer, res *differ.Result, opts Options) error {
	if w == nil {
		w = os.Stdout
	}

	columns := attrs.FromColumns(res.Columns)
	if err := columns.Set(opts.Columns); err != nil {
		return err
	}
	columns.SetGlobalTransformSpec()

	fs := filters.BuildFilters(opts.Filter)
	for _, k := range filters.UnknownKeys(fs, res.Columns, columns) {
		log.Warnf("filter key not found: %s", k)
		fmt.Fprintf(os.Stderr, "warning: filter key not found: %s\n", k)
	}

	//nolint:prealloc
	var rows []differ.Row
	for _, row := range res.Rows(opts.DiffOnly) {
		if filters.Match(row.Record, columns, fs) {
			rows = append(rows, row)
		}
	}
	SortRows(rows, opts.Sort, columns)
	log.Debugf("rows selected: %d of %d", len(rows), len(res.All))

	visible := columns.Included()

	switch opts.Format {
	case "csv":
		return csvtable.Write(w, project(rows, visible))
	case "json":
		return writeJSON(w, rows, visible)
	case "yaml":
		return writeYAML(w, rows, visible)
	case "", "text":
		TableWriter(w, rows, visible, opts)
		fmt.Fprintln(w, res.Summary())
		return nil
	default:
		return fmt.Errorf("unknown output format %q (want %s)", opts.Format, strings.Join(Formats, "|"))
	}
}

// project rebuilds each row's record with only the visible columns, under
// their titles and with transforms applied.
func project(rows []differ.Row, visible attrs.AttrList) []csvtable.Record {
	out := make([]csvtable.Record, 0, len(rows))
	for _, row := range rows {
		var r csvtable.Record
		for i := range visible {
			r.Set(visible[i].OutputKey, visible[i].Transform(row.Record.Value(visible[i].Key)))
		}
		out = append(out, r)
	}
	return out
}

// writeJSON emits an array of objects whose keys keep column order, which a
// map marshal would not.
func writeJSON(w io.Writer, rows []differ.Row, visible attrs.AttrList) error {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, r := range project(rows, visible) {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('{')
		for j, k := range r.Keys() {
			if j > 0 {
				buf.WriteByte(',')
			}
			kb, err := json.Marshal(k)
			if err != nil {
				return err
			}
			vb, err := json.Marshal(r.Value(k))
			if err != nil {
				return err
			}
			buf.Write(kb)
			buf.WriteByte(':')
			buf.Write(vb)
		}
		buf.WriteByte('}')
	}
	buf.WriteString("]\n")
	_, err := w.Write(buf.Bytes())
	return err
}

func writeYAML(w io.Writer, rows []differ.Row, visible attrs.AttrList) error {
	doc := make([]yaml.MapSlice, 0, len(rows))
	for _, r := range project(rows, visible) {
		item := make(yaml.MapSlice, 0, r.Len())
		for _, k := range r.Keys() {
			item = append(item, yaml.MapItem{Key: k, Value: r.Value(k)})
		}
		doc = append(doc, item)
	}

	out, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("yaml marshal: %w", err)
	}
	_, err = w.Write(out)
	return err
}

// TableWriter renders rows in a tabular form honoring color, titles and
// padding options. Differing rows take the diff color when color is on.
func TableWriter(w io.Writer, rows []differ.Row, visible attrs.AttrList, opts Options) {
	if len(rows) == 0 || len(visible) == 0 {
		return
	}

	var (
		headerStyle  = lipgloss.NewStyle().Align(lipgloss.Left).Bold(true)
		cellStyle    = lipgloss.NewStyle().Padding(0, 0).Align(lipgloss.Left)
		evenRowStyle = cellStyle
		oddRowStyle  = cellStyle
		diffRowStyle = cellStyle
	)

	if opts.Color {
		headerColor, evenColor, oddColor, diffColor := getColors("colors")

		headerStyle = headerStyle.Foreground(headerColor)
		evenRowStyle = evenRowStyle.Foreground(evenColor)
		oddRowStyle = oddRowStyle.Foreground(oddColor)
		diffRowStyle = diffRowStyle.Foreground(diffColor).Bold(true)
	}

	data := make([][]string, 0, len(rows))
	for _, row := range rows {
		cells := make([]string, 0, len(visible))
		for i := range visible {
			v := visible[i].Transform(row.Record.Value(visible[i].Key))
			if v == "" {
				v = emptyCell
			}
			cells = append(cells, v)
		}
		data = append(data, cells)
	}

	if opts.Header != "" {
		fmt.Fprintln(w, headerStyle.Render(opts.Header))
	}

	pad := opts.Padding
	t := table.New().
		BorderBottom(false).
		BorderTop(false).
		BorderLeft(false).
		BorderRight(false).
		Border(lipgloss.HiddenBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			var style lipgloss.Style
			switch {
			case row == table.HeaderRow:
				style = headerStyle
			case opts.Color && rows[row].Different:
				style = diffRowStyle
			case row%2 == 0:
				style = evenRowStyle
			default:
				style = oddRowStyle
			}

			if col > 0 {
				style = style.PaddingLeft(pad)
			}

			return style
		}).
		Headers().
		Rows(data...)

	if opts.Titles {
		// https://github.com/charmbracelet/lipgloss/issues/261
		t = t.Headers(visible.Titles()...).BorderHeader(false)
	}
	fmt.Fprintln(w, t)
}

// getColors returns configured color values for table rendering. Each color is
// selected based on terminal background color so that output is reasonably
// visible for light and dark themes.
func getColors(key string) (header, even, odd, diff color.Color) {
	isDark := lipgloss.HasDarkBackground(os.Stdin, os.Stdout)

	// Use the explicit color if found in the config. If not found, pick a
	// reasonable default based on terminal background.
	resolveColor := func(key string, light string, dark string) color.Color {
		colorCfg, err := config.GetString(key)
		if err == nil {
			return lipgloss.Color(colorCfg)
		}

		if isDark {
			return lipgloss.Color(dark)
		}
		return lipgloss.Color(light)
	}

	header = resolveColor(key+".title", "#b08800", "#f6be00")
	even = resolveColor(key+".even", "#333333", "#ffffff")
	odd = resolveColor(key+".odd", "#0088a0", "#00c8f0")
	diff = resolveColor(key+".diff", "#c0152f", "#ff5f6d")

	return
}
