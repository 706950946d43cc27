// Copyright 2026 The Sideseat Authors
// SPDX-License-Identifier: Apache-2.0

package seatview

import "github.com/charmbracelet/lipgloss"

// Theme defines the color palette for the console. All colors use
// lipgloss ANSI 256-color codes for broad terminal compatibility.
type Theme struct {
	// Text colors.
	NormalText lipgloss.Color
	FaintText  lipgloss.Color

	// Selected row.
	SelectedBackground lipgloss.Color
	SelectedForeground lipgloss.Color

	// Sidebar.
	ActiveNavForeground lipgloss.Color
	ActiveNavBackground lipgloss.Color

	// Session state colors: live sessions (no end time yet) versus
	// finished ones.
	SessionLive lipgloss.Color
	SessionDone lipgloss.Color

	// Cost emphasis: totals above the attention thresholds in the
	// stats and session views.
	CostWarm lipgloss.Color
	CostHot  lipgloss.Color

	// UI chrome.
	HeaderForeground lipgloss.Color
	BorderColor      lipgloss.Color
	HelpText         lipgloss.Color

	// Error and warning text in the status bar.
	StatusError   lipgloss.Color
	StatusWarning lipgloss.Color

	// Time-range toggle row.
	RangeActiveForeground lipgloss.Color
	RangeActiveBackground lipgloss.Color

	// Fuzzy filter match highlighting.
	MatchBackground lipgloss.Color
}

// CostColor returns the emphasis color for a USD total: normal below
// a dollar, warm to ten dollars, hot above.
func (theme Theme) CostColor(totalUSD float64) lipgloss.Color {
	switch {
	case totalUSD >= 10:
		return theme.CostHot
	case totalUSD >= 1:
		return theme.CostWarm
	default:
		return theme.NormalText
	}
}

// DefaultTheme is the built-in dark-terminal color scheme. Designed
// for 256-color terminals with a dark background.
var DefaultTheme = Theme{
	NormalText: lipgloss.Color("252"),
	FaintText:  lipgloss.Color("245"),

	SelectedBackground: lipgloss.Color("236"),
	SelectedForeground: lipgloss.Color("255"),

	ActiveNavForeground: lipgloss.Color("255"),
	ActiveNavBackground: lipgloss.Color("24"), // deep blue

	SessionLive: lipgloss.Color("114"), // green
	SessionDone: lipgloss.Color("245"), // gray

	CostWarm: lipgloss.Color("208"), // orange
	CostHot:  lipgloss.Color("196"), // bright red

	HeaderForeground: lipgloss.Color("255"),
	BorderColor:      lipgloss.Color("240"),
	HelpText:         lipgloss.Color("241"),

	StatusError:   lipgloss.Color("196"),
	StatusWarning: lipgloss.Color("220"),

	RangeActiveForeground: lipgloss.Color("255"),
	RangeActiveBackground: lipgloss.Color("24"),

	MatchBackground: lipgloss.Color("58"), // dark amber
}
