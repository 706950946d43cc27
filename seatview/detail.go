// Copyright 2026 The Sideseat Authors
// SPDX-License-Identifier: Apache-2.0

package seatview

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/sideseat/seatview/lib/api"
)

// sessionMarkdown builds the markdown document shown in the session
// detail viewport. Markdown (rather than hand-positioned lipgloss)
// keeps the detail readable at any pane width: the renderer reflows
// paragraphs and the trace list on resize.
func sessionMarkdown(detail *api.SessionDetail) string {
	var doc strings.Builder

	fmt.Fprintf(&doc, "# Session %s\n\n", detail.SessionID)

	state := "finished"
	if detail.EndTime == nil {
		state = "**live**"
	}
	fmt.Fprintf(&doc, "Started %s, %s.",
		detail.StartTime.Format("2006-01-02 15:04:05 MST"), state)
	if detail.UserID != "" {
		fmt.Fprintf(&doc, " User `%s`.", detail.UserID)
	}
	if detail.Environment != "" {
		fmt.Fprintf(&doc, " Environment `%s`.", detail.Environment)
	}
	doc.WriteString("\n\n")

	fmt.Fprintf(&doc, "- Traces: %d\n", detail.TraceCount)
	fmt.Fprintf(&doc, "- Spans: %d\n", detail.SpanCount)
	fmt.Fprintf(&doc, "- Observations: %d\n", detail.ObservationCount)
	fmt.Fprintf(&doc, "- Tokens: %s in / %s out / %s total\n",
		formatCount(detail.InputTokens), formatCount(detail.OutputTokens),
		formatCount(detail.TotalTokens))
	if detail.ReasoningTokens > 0 {
		fmt.Fprintf(&doc, "- Reasoning tokens: %s\n", formatCount(detail.ReasoningTokens))
	}
	fmt.Fprintf(&doc, "- Cost: $%.4f\n\n", detail.TotalCost)

	if len(detail.Traces) > 0 {
		doc.WriteString("## Traces\n\n")
		for _, trace := range detail.Traces {
			name := trace.TraceName
			if name == "" {
				name = trace.TraceID
			}
			fmt.Fprintf(&doc, "- **%s** · %s", name, formatTraceTiming(trace))
			if trace.TotalTokens > 0 {
				fmt.Fprintf(&doc, ", %s tok", formatCount(trace.TotalTokens))
			}
			if trace.TotalCost > 0 {
				fmt.Fprintf(&doc, ", $%.4f", trace.TotalCost)
			}
			if len(trace.Tags) > 0 {
				fmt.Fprintf(&doc, " `[%s]`", strings.Join(trace.Tags, ", "))
			}
			doc.WriteString("\n")
		}
		doc.WriteString("\n")
	}

	doc.WriteString("## Raw\n\n")
	doc.WriteString("```json\n")
	raw, err := json.MarshalIndent(detail, "", "  ")
	if err == nil {
		doc.Write(raw)
	}
	doc.WriteString("\n```\n")

	return doc.String()
}

// formatTraceTiming renders a trace's start and duration compactly.
func formatTraceTiming(trace api.TraceInSession) string {
	start := trace.StartTime.Format("15:04:05")
	if trace.DurationMS != nil {
		return fmt.Sprintf("%s, %s", start, formatDurationMS(*trace.DurationMS))
	}
	if trace.EndTime == nil {
		return start + ", running"
	}
	return start
}

// formatDurationMS renders a millisecond duration: 840ms, 3.2s, 4m12s.
func formatDurationMS(milliseconds int64) string {
	duration := time.Duration(milliseconds) * time.Millisecond
	switch {
	case duration >= time.Minute:
		return fmt.Sprintf("%dm%02ds", int(duration.Minutes()), int(duration.Seconds())%60)
	case duration >= time.Second:
		return fmt.Sprintf("%.1fs", duration.Seconds())
	default:
		return fmt.Sprintf("%dms", milliseconds)
	}
}

// sparkGlyphs are the eight block characters used for trend bars,
// lowest to highest.
var sparkGlyphs = []rune("▁▂▃▄▅▆▇█")

// renderSparkline maps trace counts per bucket onto block glyphs. An
// all-zero trend renders as a flat floor rather than an empty string
// so the chart area never collapses.
func renderSparkline(buckets []api.TrendBucket, width int) string {
	if len(buckets) == 0 || width <= 0 {
		return ""
	}

	// Downsample to the available width, keeping the most recent
	// buckets (the right edge is "now").
	if len(buckets) > width {
		buckets = buckets[len(buckets)-width:]
	}

	var peak int64
	for _, bucket := range buckets {
		if bucket.TraceCount > peak {
			peak = bucket.TraceCount
		}
	}

	var line strings.Builder
	for _, bucket := range buckets {
		glyph := sparkGlyphs[0]
		if peak > 0 {
			index := int(bucket.TraceCount * int64(len(sparkGlyphs)-1) / peak)
			glyph = sparkGlyphs[index]
		}
		line.WriteRune(glyph)
	}
	return line.String()
}

// StatsRenderer builds the stats screen content for a given width.
type StatsRenderer struct {
	theme Theme
	width int
}

// NewStatsRenderer creates a StatsRenderer.
func NewStatsRenderer(theme Theme, width int) StatsRenderer {
	return StatsRenderer{theme: theme, width: width}
}

// Render produces the full stats block: counts line, cost and token
// tables, activity sparkline, and the per-model breakdown.
func (renderer StatsRenderer) Render(stats *api.ProjectStats) string {
	labelStyle := lipgloss.NewStyle().Foreground(renderer.theme.FaintText)
	valueStyle := lipgloss.NewStyle().Foreground(renderer.theme.NormalText)
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(renderer.theme.HeaderForeground)

	var sections []string

	// Headline counts with trend versus the previous window.
	counts := fmt.Sprintf("%s traces  %s sessions  %s spans  %s users",
		formatCount(stats.Counts.Traces),
		formatCount(stats.Counts.Sessions),
		formatCount(stats.Counts.Spans),
		formatCount(stats.Counts.UniqueUsers))
	if delta := stats.Counts.Traces - stats.Counts.TracesPrevious; stats.Counts.TracesPrevious > 0 {
		sign := "+"
		if delta < 0 {
			sign = ""
		}
		counts += labelStyle.Render(fmt.Sprintf("  (%s%d vs previous)", sign, delta))
	}
	sections = append(sections, valueStyle.Render(counts))

	// Cost breakdown. The total gets the cost emphasis color.
	costStyle := lipgloss.NewStyle().
		Foreground(renderer.theme.CostColor(stats.Costs.Total)).
		Bold(stats.Costs.Total >= 10)
	costLine := labelStyle.Render("cost  ") +
		costStyle.Render(fmt.Sprintf("$%.2f total", stats.Costs.Total)) +
		labelStyle.Render(fmt.Sprintf("  in $%.2f  out $%.2f  cache r/w $%.2f/$%.2f",
			stats.Costs.Input, stats.Costs.Output,
			stats.Costs.CacheRead, stats.Costs.CacheWrite))
	sections = append(sections, costLine)

	tokenLine := labelStyle.Render("tokens  ") +
		valueStyle.Render(fmt.Sprintf("%s total", formatCount(stats.Tokens.Total))) +
		labelStyle.Render(fmt.Sprintf("  in %s  out %s  reasoning %s",
			formatCount(stats.Tokens.Input), formatCount(stats.Tokens.Output),
			formatCount(stats.Tokens.Reasoning)))
	sections = append(sections, tokenLine)

	if stats.AvgTraceDurationMS != nil {
		sections = append(sections, labelStyle.Render("avg trace  ")+
			valueStyle.Render(formatDurationMS(int64(*stats.AvgTraceDurationMS))))
	}

	if len(stats.TrendData) > 0 {
		spark := renderSparkline(stats.TrendData, renderer.width-2)
		sections = append(sections, "",
			headerStyle.Render("Activity"),
			lipgloss.NewStyle().Foreground(renderer.theme.SessionLive).Render(spark))
	}

	if len(stats.ByModel) > 0 {
		sections = append(sections, "", headerStyle.Render("Models"))
		for _, model := range stats.ByModel {
			name := model.Model
			if name == "" {
				name = "(unattributed)"
			}
			barWidth := int(model.Percentage / 100 * float64(renderer.width-40))
			if barWidth < 0 {
				barWidth = 0
			}
			bar := strings.Repeat("▰", barWidth)
			sections = append(sections, fmt.Sprintf("%s %s %s",
				valueStyle.Render(fmt.Sprintf("%-28s", truncateString(name, 28))),
				labelStyle.Render(fmt.Sprintf("%5.1f%%", model.Percentage)),
				lipgloss.NewStyle().Foreground(renderer.theme.CostWarm).Render(bar)))
		}
	}

	return strings.Join(sections, "\n")
}
