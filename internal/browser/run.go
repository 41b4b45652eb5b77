// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package browser

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/csvcmp/csvcmp/internal/differ"
)

// ErrNotTerminal is returned when stdout is not an interactive terminal.
var ErrNotTerminal = errors.New("browse needs an interactive terminal")

// Options configure a browser session.
type Options struct {
	// File1 and File2 skip the picker when both are set. With only File1 the
	// picker asks for the second file.
	File1 string
	File2 string
	// StartDir is where the picker opens, the current directory by default.
	StartDir string
	Compare  []differ.Option
	Exporter Exporter
	// Color enables colored row deltas.
	Color bool
}

// Run shows the browser until the user quits and returns the final state.
// Leaving the picker before any comparison ran is a FileSelectionError.
func Run(ctx context.Context, opts Options) (AppState, error) {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return AppState{}, ErrNotTerminal
	}

	p := tea.NewProgram(New(ctx, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return AppState{}, fmt.Errorf("browser: %w", err)
	}

	m, ok := final.(Model)
	if !ok {
		return AppState{}, fmt.Errorf("browser: unexpected model %T", final)
	}
	return m.state, m.err
}
