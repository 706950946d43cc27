// Copyright 2026 The Sideseat Authors
// SPDX-License-Identifier: Apache-2.0

package seatview

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the console.
type KeyMap struct {
	// Navigation (context-sensitive: list movement or detail
	// scrolling depending on the current screen).
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Home     key.Binding
	End      key.Binding

	// Drill into the selected row (org -> projects, project ->
	// sessions, session -> detail).
	Select key.Binding

	// Back to the previous screen.
	Back key.Binding

	// Screen switching.
	ScreenOrganizations key.Binding
	ScreenProjects      key.Binding
	ScreenSessions      key.Binding
	ScreenStats         key.Binding

	// Time-range toggle (stats screen).
	RangePrevious key.Binding
	RangeNext     key.Binding

	// Filter.
	FilterActivate key.Binding
	FilterClear    key.Binding

	// List pagination.
	PagePrevious key.Binding
	PageNext     key.Binding

	// Force a refetch of the current screen's data.
	Refresh key.Binding

	Quit key.Binding
}

// DefaultKeyMap is the built-in key binding set. Vim-style navigation
// (j/k) alongside standard arrow keys and page up/down.
var DefaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	PageUp: key.NewBinding(
		key.WithKeys("ctrl+u", "pgup"),
		key.WithHelp("C-u", "page up"),
	),
	PageDown: key.NewBinding(
		key.WithKeys("ctrl+d", "pgdown"),
		key.WithHelp("C-d", "page down"),
	),
	Home: key.NewBinding(
		key.WithKeys("g", "home"),
		key.WithHelp("g", "top"),
	),
	End: key.NewBinding(
		key.WithKeys("G", "end"),
		key.WithHelp("G", "bottom"),
	),
	Select: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("Enter", "open"),
	),
	Back: key.NewBinding(
		key.WithKeys("backspace"),
		key.WithHelp("BS", "back"),
	),
	ScreenOrganizations: key.NewBinding(
		key.WithKeys("1"),
		key.WithHelp("1", "orgs"),
	),
	ScreenProjects: key.NewBinding(
		key.WithKeys("2"),
		key.WithHelp("2", "projects"),
	),
	ScreenSessions: key.NewBinding(
		key.WithKeys("3"),
		key.WithHelp("3", "sessions"),
	),
	ScreenStats: key.NewBinding(
		key.WithKeys("4"),
		key.WithHelp("4", "stats"),
	),
	RangePrevious: key.NewBinding(
		key.WithKeys("h", "left"),
		key.WithHelp("h/←", "shorter range"),
	),
	RangeNext: key.NewBinding(
		key.WithKeys("l", "right"),
		key.WithHelp("l/→", "longer range"),
	),
	FilterActivate: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "filter"),
	),
	FilterClear: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("Esc", "clear filter"),
	),
	PagePrevious: key.NewBinding(
		key.WithKeys("["),
		key.WithHelp("[", "prev page"),
	),
	PageNext: key.NewBinding(
		key.WithKeys("]"),
		key.WithHelp("]", "next page"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("ctrl+r"),
		key.WithHelp("C-r", "refresh"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}
