// Copyright 2026 The Sideseat Authors
// SPDX-License-Identifier: Apache-2.0

package seatview

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
)

// stripped renders markdown and returns the ANSI-stripped visible text.
func stripped(t *testing.T, input string, width int) string {
	t.Helper()
	return ansi.Strip(renderTerminalMarkdown(input, DefaultTheme, width))
}

func TestRenderMarkdownEmpty(t *testing.T) {
	t.Parallel()

	if output := renderTerminalMarkdown("", DefaultTheme, 80); strings.TrimSpace(ansi.Strip(output)) != "" {
		t.Errorf("empty input rendered %q", output)
	}
}

func TestRenderMarkdownParagraphReflow(t *testing.T) {
	t.Parallel()

	input := "one two three four five six seven eight nine ten"
	wide := stripped(t, input, 80)
	if !strings.Contains(wide, input) {
		t.Errorf("wide render broke the paragraph: %q", wide)
	}

	narrow := stripped(t, input, 24)
	lines := nonEmptyLines(narrow)
	if len(lines) < 2 {
		t.Fatalf("narrow render did not wrap: %q", narrow)
	}
	for _, line := range lines {
		if len([]rune(line)) > 24 {
			t.Errorf("line exceeds width: %q", line)
		}
	}
	rejoined := strings.Join(lines, " ")
	if !strings.Contains(rejoined, "nine ten") {
		t.Errorf("wrap lost content: %q", rejoined)
	}
}

func TestRenderMarkdownHardLineBreak(t *testing.T) {
	t.Parallel()

	output := stripped(t, "first line  \nsecond line", 80)
	lines := nonEmptyLines(output)
	if len(lines) != 2 {
		t.Fatalf("hard break produced %d lines: %q", len(lines), output)
	}
	if strings.TrimSpace(lines[0]) != "first line" || strings.TrimSpace(lines[1]) != "second line" {
		t.Errorf("lines = %q", lines)
	}
}

func TestRenderMarkdownHeading(t *testing.T) {
	t.Parallel()

	output := stripped(t, "# Session abc\n\nbody text", 80)
	lines := nonEmptyLines(output)
	if len(lines) < 2 {
		t.Fatalf("render = %q", output)
	}
	if !strings.Contains(lines[0], "Session abc") {
		t.Errorf("first line = %q, want the heading", lines[0])
	}
	if !strings.Contains(output, "body text") {
		t.Errorf("body missing: %q", output)
	}
}

func TestRenderMarkdownLists(t *testing.T) {
	t.Parallel()

	output := stripped(t, "- alpha\n- beta\n\n1. one\n2. two\n", 80)
	for _, want := range []string{"• alpha", "• beta", "1. one", "2. two"} {
		if !strings.Contains(output, want) {
			t.Errorf("list render missing %q:\n%s", want, output)
		}
	}
}

func TestRenderMarkdownNestedList(t *testing.T) {
	t.Parallel()

	output := stripped(t, "- outer\n  - inner\n", 80)
	outerIndex := strings.Index(output, "• outer")
	innerIndex := strings.Index(output, "• inner")
	if outerIndex < 0 || innerIndex < 0 {
		t.Fatalf("list items missing:\n%s", output)
	}
	outerLine := lineContaining(output, "outer")
	innerLine := lineContaining(output, "inner")
	if indentOf(innerLine) <= indentOf(outerLine) {
		t.Errorf("inner item not indented: %q vs %q", innerLine, outerLine)
	}
}

func TestRenderMarkdownFencedCode(t *testing.T) {
	t.Parallel()

	output := stripped(t, "```json\n{\"ok\": true}\n```\n", 80)
	if !strings.Contains(output, `"ok"`) {
		t.Errorf("code block content missing:\n%s", output)
	}
	line := lineContaining(output, `"ok"`)
	if !strings.HasPrefix(line, "  ") {
		t.Errorf("code block not indented: %q", line)
	}
}

func TestRenderMarkdownCodeSpanAndEmphasis(t *testing.T) {
	t.Parallel()

	output := stripped(t, "uses `gpt-4o` and **bold** words", 80)
	if !strings.Contains(output, "gpt-4o") {
		t.Errorf("code span text missing: %q", output)
	}
	if !strings.Contains(output, "bold") {
		t.Errorf("emphasis text missing: %q", output)
	}
	if strings.ContainsAny(output, "`*") {
		t.Errorf("markup characters leaked: %q", output)
	}
}

func TestRenderMarkdownBlockquote(t *testing.T) {
	t.Parallel()

	output := stripped(t, "> quoted words\n", 80)
	line := lineContaining(output, "quoted words")
	if !strings.Contains(line, "│") {
		t.Errorf("blockquote prefix missing: %q", line)
	}
}

func TestRenderMarkdownLink(t *testing.T) {
	t.Parallel()

	output := stripped(t, "see [the docs](https://example.com/docs)\n", 80)
	if !strings.Contains(output, "the docs") {
		t.Errorf("link text missing: %q", output)
	}
	if !strings.Contains(output, "example.com/docs") {
		t.Errorf("link destination missing: %q", output)
	}
}

func nonEmptyLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func lineContaining(text, substring string) string {
	for _, line := range strings.Split(text, "\n") {
		if strings.Contains(line, substring) {
			return line
		}
	}
	return ""
}

func indentOf(line string) int {
	return len(line) - len(strings.TrimLeft(line, " "))
}
