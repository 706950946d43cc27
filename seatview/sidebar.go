// Copyright 2026 The Sideseat Authors
// SPDX-License-Identifier: Apache-2.0

package seatview

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sideseat/seatview/lib/nav"
)

// sidebarWidth is the fixed column width of the navigation sidebar.
const sidebarWidth = 18

// navEntries is the console's navigation, defined once at startup.
// The root entry matches exactly so "/projects" does not also light
// it up; the project-scoped entries resolve their destination from
// the selected project.
func navEntries() []nav.Entry {
	return []nav.Entry{
		{
			Label:  "Organizations",
			Icon:   "⬡",
			Dest:   nav.Static("/"),
			Rule:   nav.MatchExact,
			Target: "/",
		},
		{
			Label:  "Projects",
			Icon:   "▤",
			Dest:   nav.Static("/projects"),
			Rule:   nav.MatchPrefix,
			Target: "/projects",
		},
		{
			Label: "Sessions",
			Icon:  "◎",
			Dest: nav.Dynamic(func(projectID string) string {
				if projectID == "" {
					return "/sessions"
				}
				return "/sessions?project=" + projectID
			}),
			Rule:   nav.MatchPrefix,
			Target: "/sessions",
		},
		{
			Label: "Stats",
			Icon:  "∑",
			Dest: nav.Dynamic(func(projectID string) string {
				if projectID == "" {
					return "/stats"
				}
				return "/stats?project=" + projectID
			}),
			Rule:   nav.MatchPrefix,
			Target: "/stats",
		},
	}
}

// renderSidebar renders the navigation column. The active entry is
// computed fresh from the current route on every render; nothing
// here is stateful.
func renderSidebar(theme Theme, route, projectID string, height int) string {
	resolved := nav.Resolve(navEntries(), route, projectID)

	activeStyle := lipgloss.NewStyle().
		Foreground(theme.ActiveNavForeground).
		Background(theme.ActiveNavBackground).
		Bold(true).
		Width(sidebarWidth)
	inactiveStyle := lipgloss.NewStyle().
		Foreground(theme.FaintText).
		Width(sidebarWidth)

	lines := make([]string, 0, height)
	for _, entry := range resolved {
		line := " " + entry.Entry.Icon + " " + entry.Entry.Label
		if entry.Active {
			lines = append(lines, activeStyle.Render(line))
		} else {
			lines = append(lines, inactiveStyle.Render(line))
		}
	}

	for len(lines) < height {
		lines = append(lines, inactiveStyle.Render(""))
	}
	return strings.Join(lines[:height], "\n")
}
