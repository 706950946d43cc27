// Copyright 2026 The Sideseat Authors
// SPDX-License-Identifier: Apache-2.0

package seatview

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// markdownParserInstance is initialized once and reused. The parser
// configuration never changes and the goldmark Parser is safe to
// share; actual parsing creates per-call state via Parse(reader).
var (
	markdownParserInstance goldmark.Markdown
	markdownParserOnce     sync.Once
)

func getMarkdownParser() goldmark.Markdown {
	markdownParserOnce.Do(func() {
		markdownParserInstance = goldmark.New(
			goldmark.WithExtensions(extension.GFM),
		)
	})
	return markdownParserInstance
}

// chromaStyle is the syntax highlighting style for fenced code
// blocks. Monokai reads well on the dark DefaultTheme palette.
const chromaStyle = "monokai"

// renderTerminalMarkdown parses markdown text and renders it as
// styled terminal output. Soft line breaks (single newlines within
// paragraphs) become spaces so hard-wrapped source reflows correctly
// at any width. Fenced code blocks go through chroma for syntax
// highlighting.
func renderTerminalMarkdown(input string, theme Theme, width int) string {
	if input == "" {
		return ""
	}
	source := []byte(input)
	reader := text.NewReader(source)
	document := getMarkdownParser().Parser().Parse(reader)

	// Force the ANSI256 color profile: this output is always for
	// terminal display inside the bubbletea program, so auto
	// detection (which sees no TTY under tests) must not strip the
	// colors.
	lipRenderer := lipgloss.NewRenderer(os.Stderr, termenv.WithProfile(termenv.ANSI256))
	lipRenderer.SetColorProfile(termenv.ANSI256)

	renderer := &markdownRenderer{
		source:      source,
		theme:       theme,
		width:       width,
		lipRenderer: lipRenderer,
	}
	ast.Walk(document, renderer.walk)
	return strings.TrimRight(renderer.output.String(), "\n")
}

// markdownRenderer walks a goldmark AST and produces styled terminal
// text. A direct ast.Walk fits better than goldmark's renderer
// interface because terminal output needs accumulate-then-wrap
// semantics: inline content collects in a buffer and gets word
// wrapped as a unit when the containing block closes.
type markdownRenderer struct {
	source []byte
	theme  Theme
	width  int

	output strings.Builder

	// Inline accumulator for the current paragraph or heading.
	inline strings.Builder

	// Block prefix (blockquote bars, list indentation).
	prefix string

	// pendingBullet replaces the prefix for the next flushed line
	// only. Set by list items.
	pendingBullet string

	// Inline style counters; counters rather than booleans so nested
	// emphasis unwinds correctly.
	boldCount   int
	italicCount int

	listStack []listState

	lipRenderer *lipgloss.Renderer
}

type listState struct {
	ordered bool
	counter int
}

func (renderer *markdownRenderer) newStyle() lipgloss.Style {
	return renderer.lipRenderer.NewStyle()
}

// contentWidth is the wrap width after the current prefix.
func (renderer *markdownRenderer) contentWidth() int {
	width := renderer.width - lipgloss.Width(renderer.prefix)
	if width < 10 {
		width = 10
	}
	return width
}

// walk dispatches on node kind. Inline nodes append to the
// accumulator; block nodes flush it with wrapping on exit.
func (renderer *markdownRenderer) walk(node ast.Node, entering bool) (ast.WalkStatus, error) {
	switch node := node.(type) {
	case *ast.Heading:
		if !entering {
			renderer.flushInline(renderer.newStyle().
				Bold(true).
				Foreground(renderer.theme.HeaderForeground))
			renderer.blankLine()
		}

	case *ast.Paragraph:
		if !entering {
			renderer.flushInline(renderer.newStyle().
				Foreground(renderer.theme.NormalText))
			if len(renderer.listStack) == 0 {
				renderer.blankLine()
			}
		}

	case *ast.Text:
		if entering {
			renderer.appendText(string(node.Segment.Value(renderer.source)))
			if node.SoftLineBreak() {
				renderer.inline.WriteString(" ")
			}
			if node.HardLineBreak() {
				renderer.inline.WriteString("\n")
			}
		}

	case *ast.Emphasis:
		if entering {
			if node.Level >= 2 {
				renderer.boldCount++
			} else {
				renderer.italicCount++
			}
		} else {
			if node.Level >= 2 {
				renderer.boldCount--
			} else {
				renderer.italicCount--
			}
		}

	case *ast.CodeSpan:
		if entering {
			renderer.inline.WriteString(renderer.newStyle().
				Foreground(renderer.theme.CostWarm).
				Render(string(node.Text(renderer.source))))
			return ast.WalkSkipChildren, nil
		}

	case *ast.Link:
		if !entering {
			renderer.inline.WriteString(renderer.newStyle().
				Foreground(renderer.theme.FaintText).
				Render(" (" + string(node.Destination) + ")"))
		}

	case *ast.AutoLink:
		if entering {
			renderer.appendText(string(node.URL(renderer.source)))
		}

	case *ast.FencedCodeBlock:
		if entering {
			renderer.renderCodeBlock(node)
			return ast.WalkSkipChildren, nil
		}

	case *ast.CodeBlock:
		if entering {
			renderer.renderIndentedCode(node)
			return ast.WalkSkipChildren, nil
		}

	case *ast.List:
		if entering {
			renderer.listStack = append(renderer.listStack, listState{
				ordered: node.IsOrdered(),
				counter: node.Start,
			})
		} else {
			renderer.listStack = renderer.listStack[:len(renderer.listStack)-1]
			if len(renderer.listStack) == 0 {
				renderer.blankLine()
			}
		}

	case *ast.ListItem:
		if entering {
			depth := len(renderer.listStack)
			state := &renderer.listStack[depth-1]
			indent := strings.Repeat("  ", depth-1)
			if state.ordered {
				renderer.pendingBullet = indent + fmt.Sprintf("%d. ", state.counter)
				state.counter++
			} else {
				renderer.pendingBullet = indent + "• "
			}
			renderer.prefix = indent + "  "
		} else if len(renderer.listStack) == 1 {
			renderer.prefix = ""
		} else {
			renderer.prefix = strings.Repeat("  ", len(renderer.listStack)-1)
		}

	case *ast.Blockquote:
		if entering {
			renderer.prefix += "│ "
		} else {
			renderer.prefix = strings.TrimSuffix(renderer.prefix, "│ ")
			renderer.blankLine()
		}

	case *ast.ThematicBreak:
		if entering {
			renderer.output.WriteString(renderer.newStyle().
				Foreground(renderer.theme.BorderColor).
				Render(strings.Repeat("─", renderer.contentWidth())) + "\n")
			renderer.blankLine()
		}
	}

	return ast.WalkContinue, nil
}

// appendText writes plain text through the current emphasis style.
func (renderer *markdownRenderer) appendText(content string) {
	if content == "" {
		return
	}
	style := renderer.newStyle().Foreground(renderer.theme.NormalText)
	if renderer.boldCount > 0 {
		style = style.Bold(true)
	}
	if renderer.italicCount > 0 {
		style = style.Italic(true)
	}
	renderer.inline.WriteString(style.Render(content))
}

// flushInline word-wraps the accumulated inline content and emits it
// with the current prefix. The pending bullet replaces the prefix on
// the first line only.
func (renderer *markdownRenderer) flushInline(style lipgloss.Style) {
	content := renderer.inline.String()
	renderer.inline.Reset()
	if strings.TrimSpace(ansi.Strip(content)) == "" {
		return
	}

	wrapped := ansi.Wordwrap(content, renderer.contentWidth(), "")
	for index, line := range strings.Split(wrapped, "\n") {
		if index == 0 && renderer.pendingBullet != "" {
			bulletStyle := renderer.newStyle().Foreground(renderer.theme.FaintText)
			renderer.output.WriteString(bulletStyle.Render(renderer.pendingBullet))
			renderer.pendingBullet = ""
		} else {
			renderer.output.WriteString(renderer.prefix)
		}
		renderer.output.WriteString(style.Render(line))
		renderer.output.WriteString("\n")
	}
}

// renderCodeBlock highlights a fenced code block with chroma and
// emits it indented two spaces. Highlighting failures fall back to
// the raw text; a code block must never break detail rendering.
func (renderer *markdownRenderer) renderCodeBlock(node *ast.FencedCodeBlock) {
	language := string(node.Language(renderer.source))
	code := renderer.blockLines(node)

	var highlighted strings.Builder
	err := quick.Highlight(&highlighted, code, language, "terminal256", chromaStyle)
	output := highlighted.String()
	if err != nil || output == "" {
		output = code
	}

	for _, line := range strings.Split(strings.TrimRight(output, "\n"), "\n") {
		renderer.output.WriteString(renderer.prefix + "  " + line + "\n")
	}
	renderer.blankLine()
}

// renderIndentedCode emits an indented code block without
// highlighting (indented blocks carry no language tag).
func (renderer *markdownRenderer) renderIndentedCode(node *ast.CodeBlock) {
	code := renderer.blockLines(node)
	faint := renderer.newStyle().Foreground(renderer.theme.FaintText)
	for _, line := range strings.Split(strings.TrimRight(code, "\n"), "\n") {
		renderer.output.WriteString(renderer.prefix + "  " + faint.Render(line) + "\n")
	}
	renderer.blankLine()
}

// blockLines concatenates the raw source lines of a code block node.
func (renderer *markdownRenderer) blockLines(node ast.Node) string {
	var code strings.Builder
	lines := node.Lines()
	for index := 0; index < lines.Len(); index++ {
		segment := lines.At(index)
		code.Write(segment.Value(renderer.source))
	}
	return code.String()
}

// blankLine appends one separating blank line unless the output
// already ends with one.
func (renderer *markdownRenderer) blankLine() {
	current := renderer.output.String()
	if current == "" || strings.HasSuffix(current, "\n\n") {
		return
	}
	renderer.output.WriteString("\n")
}
