// Copyright 2026 The Sideseat Authors
// SPDX-License-Identifier: Apache-2.0

package seatview

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/sideseat/seatview/lib/api"
)

func TestFormatCount(t *testing.T) {
	t.Parallel()

	cases := []struct {
		count int64
		want  string
	}{
		{0, "0"},
		{950, "950"},
		{1000, "1.0k"},
		{8230, "8.2k"},
		{999999, "1000.0k"},
		{1_300_000, "1.3M"},
	}
	for _, testCase := range cases {
		if got := formatCount(testCase.count); got != testCase.want {
			t.Errorf("formatCount(%d) = %q, want %q", testCase.count, got, testCase.want)
		}
	}
}

func TestTruncateString(t *testing.T) {
	t.Parallel()

	if got := truncateString("short", 10); got != "short" {
		t.Errorf("truncateString(short, 10) = %q", got)
	}
	got := truncateString("a-rather-long-project-name", 10)
	if !strings.HasSuffix(got, "…") {
		t.Errorf("truncated string %q has no ellipsis", got)
	}
	if len([]rune(got)) > 10 {
		t.Errorf("truncated string %q exceeds width", got)
	}
}

func TestSessionRow(t *testing.T) {
	t.Parallel()

	endTime := time.Date(2026, 8, 1, 13, 0, 0, 0, time.UTC)
	done := sessionRow(api.SessionSummary{
		SessionID:   "sess-1",
		UserID:      "alice",
		EndTime:     &endTime,
		TraceCount:  4,
		TotalTokens: 8230,
		TotalCost:   1.25,
	})
	if done.Live {
		t.Error("finished session marked live")
	}
	for _, want := range []string{"alice", "4 traces", "8.2k tok", "$1.25"} {
		if !strings.Contains(done.Detail, want) {
			t.Errorf("detail %q missing %q", done.Detail, want)
		}
	}

	live := sessionRow(api.SessionSummary{SessionID: "sess-2"})
	if !live.Live {
		t.Error("open session not marked live")
	}
}

func TestRenderRowLayout(t *testing.T) {
	t.Parallel()

	renderer := NewListRenderer(DefaultTheme, 60)
	row := listRow{
		ID: "sess-1", Label: "sess-1", Detail: "alice  4 traces", Live: true,
	}

	plain := ansi.Strip(renderer.RenderRow(row, false, nil))
	if !strings.Contains(plain, "●") {
		t.Errorf("live marker missing: %q", plain)
	}
	if !strings.Contains(plain, "sess-1") || !strings.Contains(plain, "alice") {
		t.Errorf("row missing columns: %q", plain)
	}
	labelIndex := strings.Index(plain, "sess-1")
	detailIndex := strings.Index(plain, "alice")
	if detailIndex < labelIndex {
		t.Errorf("detail not right of label: %q", plain)
	}

	selected := ansi.Strip(renderer.RenderRow(row, true, nil))
	if !strings.Contains(selected, "sess-1") {
		t.Errorf("selected row lost the label: %q", selected)
	}
}

func TestHighlightRunesCoversPositions(t *testing.T) {
	t.Parallel()

	// Whatever the run batching, the visible text must survive
	// highlighting unchanged.
	baseStyle := lipgloss.NewStyle().Foreground(DefaultTheme.NormalText)
	highlightStyle := baseStyle.Background(DefaultTheme.MatchBackground)

	text := "assistant-prod"
	rendered := highlightRunes(text, []int{10, 11, 12, 13}, baseStyle, highlightStyle)
	if ansi.Strip(rendered) != text {
		t.Errorf("highlighted text = %q, want %q", ansi.Strip(rendered), text)
	}
}
