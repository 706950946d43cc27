// Copyright 2026 The Sideseat Authors
// SPDX-License-Identifier: Apache-2.0

package seatview

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sideseat/seatview/lib/timerange"
)

// RangeSelector is the mutually exclusive time-range toggle row shown
// on the stats screen. Exactly one range is always selected; there is
// no cleared state. OnChange fires only when the selection actually
// moves, always with the concrete new range.
type RangeSelector struct {
	// Selected is the current range.
	Selected timerange.Range

	// OnChange is called with the new range after Selected moves.
	// Nil is allowed.
	OnChange func(timerange.Range)
}

// Next moves the selection one step toward longer windows, stopping
// at the last range. Reports whether the selection changed.
func (selector *RangeSelector) Next() bool {
	ranges := timerange.Ranges()
	for index, r := range ranges {
		if r == selector.Selected && index+1 < len(ranges) {
			selector.set(ranges[index+1])
			return true
		}
	}
	return false
}

// Previous moves the selection one step toward shorter windows,
// stopping at the first range. Reports whether the selection changed.
func (selector *RangeSelector) Previous() bool {
	ranges := timerange.Ranges()
	for index, r := range ranges {
		if r == selector.Selected && index > 0 {
			selector.set(ranges[index-1])
			return true
		}
	}
	return false
}

// Set selects a specific range. OnChange fires only if it differs
// from the current selection.
func (selector *RangeSelector) Set(r timerange.Range) {
	if r == selector.Selected {
		return
	}
	selector.set(r)
}

func (selector *RangeSelector) set(r timerange.Range) {
	selector.Selected = r
	if selector.OnChange != nil {
		selector.OnChange(r)
	}
}

// View renders the toggle row: every range label side by side with
// the selected one highlighted.
//
//	5m  30m [1h]  6h  24h  7d
func (selector *RangeSelector) View(theme Theme) string {
	activeStyle := lipgloss.NewStyle().
		Foreground(theme.RangeActiveForeground).
		Background(theme.RangeActiveBackground).
		Bold(true)
	inactiveStyle := lipgloss.NewStyle().
		Foreground(theme.FaintText)

	var parts []string
	for _, r := range timerange.Ranges() {
		label := r.Label()
		if r == selector.Selected {
			parts = append(parts, activeStyle.Render(" "+label+" "))
		} else {
			parts = append(parts, inactiveStyle.Render(" "+label+" "))
		}
	}
	return strings.Join(parts, " ")
}
