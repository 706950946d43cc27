// Copyright 2026 The Sideseat Authors
// SPDX-License-Identifier: Apache-2.0

package seatview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sideseat/seatview/lib/api"
)

// listRow is one row in the content pane's list. Screens build rows
// from their resource type; the renderer and filter only see rows.
type listRow struct {
	// ID is the resource identifier used for drill-in.
	ID string

	// Label is the primary column text (name or session ID).
	Label string

	// Detail is the dimmed right-hand column (slug, timestamps,
	// counts). Already formatted by the screen.
	Detail string

	// Search holds secondary searchable fields beyond Label.
	Search []string

	// Live marks sessions that have no end time yet.
	Live bool

	// Cost is the row's USD total, zero when not applicable.
	Cost float64
}

// organizationRow converts an organization to a display row.
func organizationRow(org api.Organization) listRow {
	return listRow{
		ID:     org.ID,
		Label:  org.Name,
		Detail: org.Slug,
		Search: []string{org.ID, org.Slug},
	}
}

// projectRow converts a project to a display row.
func projectRow(project api.Project) listRow {
	return listRow{
		ID:     project.ID,
		Label:  project.Name,
		Detail: "updated " + project.UpdatedAt.Format("2006-01-02 15:04"),
		Search: []string{project.ID},
	}
}

// sessionRow converts a session summary to a display row.
func sessionRow(session api.SessionSummary) listRow {
	detail := fmt.Sprintf("%d traces  %s tok  $%.2f",
		session.TraceCount, formatCount(session.TotalTokens), session.TotalCost)
	if session.UserID != "" {
		detail = session.UserID + "  " + detail
	}
	return listRow{
		ID:     session.SessionID,
		Label:  session.SessionID,
		Detail: detail,
		Search: []string{session.UserID, session.Environment},
		Live:   session.EndTime == nil,
		Cost:   session.TotalCost,
	}
}

// formatCount renders a count compactly: 950, 8.2k, 1.3M.
func formatCount(count int64) string {
	switch {
	case count >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(count)/1_000_000)
	case count >= 1_000:
		return fmt.Sprintf("%.1fk", float64(count)/1_000)
	default:
		return fmt.Sprintf("%d", count)
	}
}

// ListRenderer handles the table-style rendering of rows within a
// given width.
type ListRenderer struct {
	theme Theme
	width int
}

// NewListRenderer creates a ListRenderer for the given width.
func NewListRenderer(theme Theme, width int) ListRenderer {
	return ListRenderer{theme: theme, width: width}
}

// RenderRow renders a single list row. matchPositions contains rune
// indices in the label that matched the current fuzzy filter; when
// non-nil those characters get the match highlight background.
//
// Row layout: live marker + label ... detail (right aligned)
//
//	● sess-7f3a91  alice  42 traces  118.4k tok  $3.12
//	  sess-2bc810  bob    3 traces   2.1k tok    $0.04
func (renderer ListRenderer) RenderRow(row listRow, selected bool, matchPositions []int) string {
	if selected {
		return renderer.renderSelectedRow(row)
	}

	markerStyle := lipgloss.NewStyle().Foreground(renderer.theme.SessionLive)
	labelStyle := lipgloss.NewStyle().Foreground(renderer.theme.NormalText)
	detailStyle := lipgloss.NewStyle().Foreground(renderer.theme.FaintText)

	marker := "  "
	if row.Live {
		marker = markerStyle.Render("●") + " "
	}

	label := truncateString(row.Label, renderer.labelWidth())
	var labelRendered string
	if len(matchPositions) > 0 {
		highlightStyle := labelStyle.Background(renderer.theme.MatchBackground)
		labelRendered = highlightRunes(label, matchPositions, labelStyle, highlightStyle)
	} else {
		labelRendered = labelStyle.Render(label)
	}

	detail := renderer.fitDetail(row, label)
	line := " " + marker + labelRendered + detailStyle.Render(detail)
	return lipgloss.NewStyle().Width(renderer.width).MaxWidth(renderer.width).Render(line)
}

// renderSelectedRow renders the cursor row with a highlight
// background and uniform foreground.
func (renderer ListRenderer) renderSelectedRow(row listRow) string {
	baseStyle := lipgloss.NewStyle().
		Background(renderer.theme.SelectedBackground).
		Foreground(renderer.theme.SelectedForeground)

	marker := "  "
	if row.Live {
		marker = baseStyle.Render("●") + " "
	}

	label := truncateString(row.Label, renderer.labelWidth())
	detail := renderer.fitDetail(row, label)

	line := " " + marker + baseStyle.Bold(true).Render(label) + baseStyle.Render(detail)
	return baseStyle.Width(renderer.width).MaxWidth(renderer.width).Render(line)
}

// labelWidth is the cap on the primary column so the detail column
// keeps a reasonable minimum.
func (renderer ListRenderer) labelWidth() int {
	width := renderer.width / 2
	if width < 12 {
		width = 12
	}
	return width
}

// fitDetail right-pads and truncates the detail column to fill the
// remaining row width after the marker and label.
func (renderer ListRenderer) fitDetail(row listRow, renderedLabel string) string {
	used := 3 + lipgloss.Width(renderedLabel) // leading space + marker + label
	available := renderer.width - used - 2
	if available < 4 {
		return ""
	}
	detail := truncateString(row.Detail, available)
	return strings.Repeat(" ", available-lipgloss.Width(detail)+2) + detail
}

// highlightRunes renders text with the highlight style applied to the
// runes at the given positions. Consecutive runs of same-style
// characters are batched into one Render call to keep ANSI output
// compact.
func highlightRunes(text string, positions []int, baseStyle, highlightStyle lipgloss.Style) string {
	positionSet := make(map[int]bool, len(positions))
	for _, position := range positions {
		positionSet[position] = true
	}

	runes := []rune(text)
	var result strings.Builder
	runStart := 0
	isHighlighted := positionSet[0]

	for index := 1; index <= len(runes); index++ {
		currentHighlighted := index < len(runes) && positionSet[index]
		if currentHighlighted != isHighlighted || index == len(runes) {
			chunk := string(runes[runStart:index])
			if isHighlighted {
				result.WriteString(highlightStyle.Render(chunk))
			} else {
				result.WriteString(baseStyle.Render(chunk))
			}
			runStart = index
			isHighlighted = currentHighlighted
		}
	}
	return result.String()
}

// truncateString truncates a string to maxWidth visual characters,
// appending an ellipsis when anything was cut.
func truncateString(text string, maxWidth int) string {
	if lipgloss.Width(text) <= maxWidth {
		return text
	}
	runes := []rune(text)
	for length := len(runes) - 1; length >= 0; length-- {
		candidate := string(runes[:length])
		if lipgloss.Width(candidate) <= maxWidth-1 {
			return candidate + "…"
		}
	}
	return ""
}
