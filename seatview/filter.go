// Copyright 2026 The Sideseat Authors
// SPDX-License-Identifier: Apache-2.0

package seatview

import (
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/junegunn/fzf/src/util"
)

// FilterModel implements fzf-style fuzzy filtering of the visible
// list. The filter composes with screens: the screen chooses the base
// row set (organizations, projects, sessions), and the filter narrows
// it client-side without another request.
type FilterModel struct {
	// Input is the current filter query text.
	Input string

	// Active is true when the filter input has keyboard focus
	// (the user pressed / to start typing).
	Active bool
}

// scoredRow is one row that survived the filter, with its fzf score
// and the matched rune positions in the label for highlighting.
type scoredRow struct {
	Row       listRow
	Score     int
	Positions []int
}

// Apply matches the filter against each row's label and secondary
// fields, returning survivors sorted by descending score. An empty
// filter returns every row unscored in original order. Only label
// matches produce highlight positions; a row that matches solely on a
// secondary field (ID, user, environment) is kept but unhighlighted.
func (filter *FilterModel) Apply(rows []listRow) []scoredRow {
	if filter.Input == "" {
		scored := make([]scoredRow, len(rows))
		for index, row := range rows {
			scored[index] = scoredRow{Row: row}
		}
		return scored
	}

	pattern := []rune(filter.Input)
	slab := util.MakeSlab(100*1024, 2048)

	var scored []scoredRow
	for _, row := range rows {
		best := fuzzyMatch(row.Label, pattern, slab)
		entry := scoredRow{Row: row, Score: best.Score, Positions: best.Positions}

		for _, field := range row.Search {
			result := fuzzyMatch(field, pattern, slab)
			if result.Score > entry.Score {
				entry.Score = result.Score
				entry.Positions = nil
			}
		}
		if entry.Score > 0 {
			scored = append(scored, entry)
		}
	}

	sort.SliceStable(scored, func(a, b int) bool {
		return scored[a].Score > scored[b].Score
	})
	return scored
}

// HandleRune processes a character typed while the filter is active.
func (filter *FilterModel) HandleRune(character rune) {
	filter.Input += string(character)
}

// HandleBackspace removes the last character from the filter input.
// Returns true if the input changed.
func (filter *FilterModel) HandleBackspace() bool {
	if len(filter.Input) == 0 {
		return false
	}
	runes := []rune(filter.Input)
	filter.Input = string(runes[:len(runes)-1])
	return true
}

// Clear resets the filter input and deactivates it.
func (filter *FilterModel) Clear() {
	filter.Input = ""
	filter.Active = false
}

// View renders the filter bar. When active, shows the input with a
// cursor. When inactive with text, shows the filter text dimmed.
// When inactive with no text, returns empty string (hidden).
func (filter *FilterModel) View(theme Theme, width int) string {
	if !filter.Active && filter.Input == "" {
		return ""
	}

	if filter.Active {
		cursor := lipgloss.NewStyle().
			Foreground(theme.HeaderForeground).
			Bold(true).
			Render("▎")
		return lipgloss.NewStyle().
			Foreground(theme.NormalText).
			Width(width).
			Render(" / " + filter.Input + cursor)
	}

	return lipgloss.NewStyle().
		Foreground(theme.FaintText).
		Width(width).
		Render(" filter: " + filter.Input)
}
