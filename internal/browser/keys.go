// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package browser

import (
	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	Toggle    key.Binding
	Delta     key.Binding
	Back      key.Binding
	SaveAll   key.Binding
	SaveDiff  key.Binding
	ShareAll  key.Binding
	ShareDiff key.Binding
	Rerun     key.Binding
	Open      key.Binding
	Filter    key.Binding
	Help      key.Binding
	Quit      key.Binding
	ForceQuit key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "all/diffs"),
		),
		Delta: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "row delta"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		SaveAll: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "save all"),
		),
		SaveDiff: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "save diffs"),
		),
		ShareAll: key.NewBinding(
			key.WithKeys("S"),
			key.WithHelp("S", "share all"),
		),
		ShareDiff: key.NewBinding(
			key.WithKeys("D"),
			key.WithHelp("D", "share diffs"),
		),
		Rerun: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "re-run"),
		),
		Open: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "open files"),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Delta, k.SaveDiff, k.Filter, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Toggle, k.Delta},
		{k.SaveAll, k.SaveDiff, k.ShareAll, k.ShareDiff},
		{k.Filter, k.Rerun, k.Open, k.Back},
		{k.Help, k.Quit},
	}
}
