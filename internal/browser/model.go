// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package browser

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/csvcmp/csvcmp/internal/differ"
	"github.com/csvcmp/csvcmp/internal/export"
	"github.com/csvcmp/csvcmp/internal/log"
	csvtable "github.com/csvcmp/csvcmp/internal/table"
)

// Exporter saves or shares exported rows.
type Exporter interface {
	ExportOrShare(ctx context.Context, rows []csvtable.Record, mode export.Mode, dest export.Destination) (string, error)
}

// ErrNoExporter is reported when an export key is pressed but no exporter was
// configured.
var ErrNoExporter = errors.New("export is not configured")

type screen int

const (
	screenPickFirst screen = iota
	screenPickSecond
	screenResults
	screenDelta
	screenFilter
)

// maxColumnWidth caps a result column so wide cells do not push the rest of
// the table off screen.
const maxColumnWidth = 32

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#623CE4"))
	tableStyle  = lipgloss.NewStyle().BorderStyle(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("240"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff5f6d")).Bold(true)
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#623CE4"))
)

type compareDoneMsg struct {
	res *differ.Result
	err error
}

type exportDoneMsg struct {
	where string
	err   error
}

// Model is the bubbletea model of the browser.
type Model struct {
	ctx      context.Context
	state    AppState
	// prior is the state saved when the picker is reopened over a result.
	prior    AppState
	screen   screen
	rows     []differ.Row
	delta    string
	busy     bool
	color    bool
	compare  []differ.Option
	exporter Exporter

	picker filepicker.Model
	table  table.Model
	filter textinput.Model
	help   help.Model
	keys   keyMap

	// err is returned by Run when the user leaves without a comparison.
	err error
}

// New builds a browser model. With both files set the comparison starts
// immediately, otherwise the file picker opens first.
func New(ctx context.Context, opts Options) Model {
	fp := filepicker.New()
	fp.AllowedTypes = []string{".csv", ".txt", ".xlsx", ".xlsm"}
	fp.AutoHeight = true
	fp.CurrentDirectory = "."
	if opts.StartDir != "" {
		fp.CurrentDirectory = opts.StartDir
	}

	t := table.New(table.WithFocused(true), table.WithHeight(15))
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57"))
	t.SetStyles(styles)

	ti := textinput.New()
	ti.Placeholder = "name~alice,Difference=Yes"
	ti.Prompt = promptStyle.Render("filter> ")
	ti.CharLimit = 512

	m := Model{
		ctx:      ctx,
		state:    AppState{}.WithFiles(opts.File1, opts.File2),
		color:    opts.Color,
		compare:  opts.Compare,
		exporter: opts.Exporter,
		picker:   fp,
		table:    t,
		filter:   ti,
		help:     help.New(),
		keys:     defaultKeyMap(),
	}

	switch {
	case m.state.Ready():
		m.screen = screenResults
		m.busy = true
	case opts.File1 != "":
		m.screen = screenPickSecond
	default:
		m.screen = screenPickFirst
	}
	return m
}

// State is the current application state.
func (m Model) State() AppState {
	return m.state
}

func (m Model) Init() tea.Cmd {
	if m.state.Ready() {
		return m.compareCmd()
	}
	return m.picker.Init()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		if h := msg.Height - 8; h > 3 {
			m.table.SetHeight(h)
		}
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		return m, cmd

	case compareDoneMsg:
		m.busy = false
		if msg.err != nil {
			log.WithError(msg.err).Debug("compare failed")
			m.state = m.state.Failed(msg.err)
			if m.state.Result == nil {
				// Nothing to show yet; go back to choosing files.
				m.screen = screenPickFirst
				return m, m.picker.Init()
			}
			m.screen = screenResults
			return m, nil
		}
		log.Debugf("compared %s and %s: %s", m.state.File1, m.state.File2, msg.res.Summary())
		m.state = m.state.Compared(msg.res)
		m.screen = screenResults
		m.refresh()
		return m, nil

	case exportDoneMsg:
		m.busy = false
		if msg.err != nil {
			log.WithError(msg.err).Debug("export failed")
			m.state = m.state.Failed(msg.err)
			return m, nil
		}
		m.state = m.state.Notice("exported to " + msg.where)
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.ForceQuit) {
			return m, tea.Quit
		}
	}

	switch m.screen {
	case screenPickFirst, screenPickSecond:
		return m.updatePicker(msg)
	case screenFilter:
		return m.updateFilter(msg)
	case screenDelta:
		if k, ok := msg.(tea.KeyMsg); ok && key.Matches(k, m.keys.Back, m.keys.Quit, m.keys.Delta) {
			m.screen = screenResults
		}
		return m, nil
	default:
		return m.updateResults(msg)
	}
}

func (m Model) updatePicker(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && key.Matches(k, m.keys.Quit) {
		if m.state.Result != nil {
			if m.prior.Result != nil {
				m.state = m.prior
			}
			m.screen = screenResults
			return m, nil
		}
		m.err = &csvtable.FileSelectionError{Err: csvtable.ErrNoFile}
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)

	if ok, path := m.picker.DidSelectDisabledFile(msg); ok {
		m.state = m.state.Notice("not a CSV file or workbook: " + path)
		return m, cmd
	}

	ok, path := m.picker.DidSelectFile(msg)
	if !ok {
		return m, cmd
	}
	log.Debugf("picked %s", path)

	if m.screen == screenPickFirst {
		m.state = m.state.WithFiles(path, "").Notice("first file: " + path)
		m.screen = screenPickSecond
		return m, cmd
	}

	m.state = m.state.WithFiles(m.state.File1, path)
	m.screen = screenResults
	m.busy = true
	return m, tea.Batch(cmd, m.compareCmd())
}

func (m Model) updateFilter(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(k, m.keys.Back):
			m.filter.Blur()
			m.screen = screenResults
			return m, nil
		case key.Matches(k, m.keys.Delta):
			m.filter.Blur()
			m.state = m.state.Filtered(strings.TrimSpace(m.filter.Value()))
			m.screen = screenResults
			m.refresh()
			if unknown := m.state.UnknownFilterKeys(); len(unknown) > 0 {
				m.state = m.state.Notice("filter key not found: " + strings.Join(unknown, ", "))
			} else {
				m.state = m.state.Notice(fmt.Sprintf("%d of %d rows shown", len(m.rows), len(m.state.Result.Rows(m.state.DiffOnly))))
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	return m, cmd
}

func (m Model) updateResults(msg tea.Msg) (tea.Model, tea.Cmd) {
	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(k, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(k, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(k, m.keys.Open):
		m.prior = m.state
		m.screen = screenPickFirst
		return m, m.picker.Init()

	case key.Matches(k, m.keys.Rerun):
		if !m.state.Ready() {
			return m, nil
		}
		m.busy = true
		return m, m.compareCmd()
	}

	if m.state.Result == nil {
		return m, nil
	}

	switch {
	case key.Matches(k, m.keys.Toggle):
		m.state = m.state.Toggled()
		m.refresh()
		return m, nil

	case key.Matches(k, m.keys.Filter):
		m.screen = screenFilter
		m.filter.SetValue(m.state.Filter)
		m.filter.CursorEnd()
		return m, m.filter.Focus()

	case key.Matches(k, m.keys.Delta):
		row, ok := m.selected()
		if !ok {
			return m, nil
		}
		delta, err := row.Delta(m.color)
		if err != nil {
			m.state = m.state.Failed(err)
			return m, nil
		}
		if delta == "" {
			delta = "The rows are identical."
		}
		m.delta = delta
		m.screen = screenDelta
		return m, nil

	case key.Matches(k, m.keys.SaveAll):
		return m.startExport(export.All, export.Save)
	case key.Matches(k, m.keys.SaveDiff):
		return m.startExport(export.DiffOnly, export.Save)
	case key.Matches(k, m.keys.ShareAll):
		return m.startExport(export.All, export.Share)
	case key.Matches(k, m.keys.ShareDiff):
		return m.startExport(export.DiffOnly, export.Share)
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) startExport(mode export.Mode, dest export.Destination) (tea.Model, tea.Cmd) {
	if m.exporter == nil {
		m.state = m.state.Failed(ErrNoExporter)
		return m, nil
	}
	m.busy = true

	ctx := m.ctx
	exporter := m.exporter
	rows := differ.Records(m.state.Result.Rows(mode == export.DiffOnly))
	log.Debugf("%s %s: %d rows", dest, mode, len(rows))

	return m, func() tea.Msg {
		where, err := exporter.ExportOrShare(ctx, rows, mode, dest)
		return exportDoneMsg{where: where, err: err}
	}
}

func (m Model) compareCmd() tea.Cmd {
	file1, file2 := m.state.File1, m.state.File2
	opts := m.compare
	return func() tea.Msg {
		res, err := differ.CompareFiles(file1, file2, opts...)
		return compareDoneMsg{res: res, err: err}
	}
}

// selected is the result row under the table cursor.
func (m Model) selected() (differ.Row, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.rows) {
		return differ.Row{}, false
	}
	return m.rows[i], true
}

// refresh reloads the table from the visible rows.
func (m *Model) refresh() {
	m.rows = m.state.VisibleRows()

	header := append([]string{"#"}, m.state.Result.Columns...)
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = lipgloss.Width(h)
	}

	data := make([]table.Row, 0, len(m.rows))
	for _, row := range m.rows {
		line := "+"
		if row.Line > 0 {
			line = strconv.Itoa(row.Line)
		}
		cells := append([]string{line}, row.Record.Values(m.state.Result.Columns)...)
		for i, c := range cells {
			widths[i] = max(widths[i], lipgloss.Width(c))
		}
		data = append(data, cells)
	}

	columns := make([]table.Column, len(header))
	for i, h := range header {
		columns[i] = table.Column{Title: h, Width: min(widths[i], maxColumnWidth)}
	}

	// Clear rows first; the table renders existing rows against the new
	// column set as soon as it changes.
	m.table.SetRows(nil)
	m.table.SetColumns(columns)
	m.table.SetRows(data)
}

func (m Model) View() string {
	var b strings.Builder

	title := "csvcmp"
	if m.state.File1 != "" {
		title += "  " + m.state.File1
		if m.state.File2 != "" {
			title += " vs " + m.state.File2
		}
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n\n")

	switch m.screen {
	case screenPickFirst:
		b.WriteString("Pick the first file:\n")
		b.WriteString(m.picker.View())
	case screenPickSecond:
		b.WriteString("Pick the second file:\n")
		b.WriteString(m.picker.View())
	case screenDelta:
		row, _ := m.selected()
		fmt.Fprintf(&b, "Row %s\n\n", lineLabel(row))
		b.WriteString(m.delta)
		b.WriteString("\n")
	default:
		if m.state.Result != nil {
			b.WriteString(tableStyle.Render(m.table.View()))
			b.WriteString("\n")
		}
		if m.screen == screenFilter {
			b.WriteString(m.filter.View())
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	switch {
	case m.busy:
		b.WriteString(statusStyle.Render("working..."))
	case m.state.Err != nil:
		b.WriteString(errorStyle.Render(m.state.Status))
	default:
		b.WriteString(statusStyle.Render(m.status()))
	}
	b.WriteString("\n")

	if m.screen == screenResults {
		b.WriteString(m.help.View(m.keys))
	}

	return b.String()
}

func (m Model) status() string {
	parts := []string{}
	if m.state.Result != nil {
		view := "all rows"
		if m.state.DiffOnly {
			view = "differences"
		}
		parts = append(parts, view)
		if m.state.Filter != "" {
			parts = append(parts, "filter "+m.state.Filter)
		}
	}
	if m.state.Status != "" {
		parts = append(parts, m.state.Status)
	}
	return strings.Join(parts, " | ")
}

func lineLabel(row differ.Row) string {
	if row.Line == 0 {
		return "+ (second file only)"
	}
	return strconv.Itoa(row.Line)
}
