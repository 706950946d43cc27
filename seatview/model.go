// Copyright 2026 The Sideseat Authors
// SPDX-License-Identifier: Apache-2.0

package seatview

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sideseat/seatview/lib/api"
	"github.com/sideseat/seatview/lib/timerange"
)

// Screen identifies which content view is active.
type Screen int

const (
	// ScreenOrganizations lists the orgs visible to the API key.
	ScreenOrganizations Screen = iota
	// ScreenProjects lists projects.
	ScreenProjects
	// ScreenSessions lists the selected project's sessions.
	ScreenSessions
	// ScreenSessionDetail shows one session with its traces.
	ScreenSessionDetail
	// ScreenStats shows the selected project's stats rollup.
	ScreenStats
)

// loadTimeout bounds each data load issued from the event loop.
const loadTimeout = 30 * time.Second

// Data load messages. Each carries the sequence number of the load
// that produced it; results from superseded loads are dropped.
type organizationsLoadedMsg struct {
	seq  int
	page *api.Page[api.Organization]
}

type projectsLoadedMsg struct {
	seq  int
	page *api.Page[api.Project]
}

type sessionsLoadedMsg struct {
	seq  int
	page *api.Page[api.SessionSummary]
}

type sessionDetailLoadedMsg struct {
	seq    int
	detail *api.SessionDetail
}

type statsLoadedMsg struct {
	seq   int
	stats *api.ProjectStats
}

type loadFailedMsg struct {
	seq  int
	what string
	err  error
}

// Model is the top-level bubbletea model for the console.
type Model struct {
	source Source
	theme  Theme
	keys   KeyMap

	// Terminal dimensions (set by WindowSizeMsg).
	width  int
	height int
	ready  bool

	// Active screen and selection context.
	screen      Screen
	projectID   string
	projectName string
	sessionID   string

	// List state for the three list screens. rows is the unfiltered
	// page; visible is what the filter lets through.
	rows         []listRow
	visible      []scoredRow
	cursor       int
	scrollOffset int
	pageMeta     api.PageMeta
	listPage     int // Requested page (1-based).

	filter        FilterModel
	rangeSelector RangeSelector

	// Detail and stats content.
	sessionDetail *api.SessionDetail
	stats         *api.ProjectStats
	viewport      viewport.Model

	// Loading state. loadSeq increments per issued load so stale
	// results (superseded by a screen switch) are dropped.
	spin    spinner.Model
	loading bool
	loadSeq int

	// Status bar message from the log handler, cleared on fade.
	statusMessage string
	statusLevel   slog.Level
}

// NewModel creates a Model reading from the given source. The first
// screen is the organization list.
func NewModel(source Source) Model {
	spin := spinner.New(spinner.WithSpinner(spinner.Dot))
	return Model{
		source:   source,
		theme:    DefaultTheme,
		keys:     DefaultKeyMap,
		screen:   ScreenOrganizations,
		listPage: 1,
		spin:     spin,
		viewport: viewport.New(0, 0),
		loading:  true,
	}
}

// SetProject preselects a project, skipping the picker. The console
// starts on the sessions screen in that case.
func (model *Model) SetProject(projectID string) {
	model.projectID = projectID
	model.screen = ScreenSessions
}

// SetRange sets the initial time range for the stats screen.
func (model *Model) SetRange(r timerange.Range) {
	model.rangeSelector.Selected = r
}

// Route returns the synthetic route for the current screen. The nav
// sidebar resolves its active entry from this.
func (model Model) Route() string {
	switch model.screen {
	case ScreenProjects:
		return "/projects"
	case ScreenSessions:
		if model.projectID == "" {
			return "/sessions"
		}
		return "/sessions?project=" + model.projectID
	case ScreenSessionDetail:
		return "/sessions?project=" + model.projectID + "&session=" + model.sessionID
	case ScreenStats:
		if model.projectID == "" {
			return "/stats"
		}
		return "/stats?project=" + model.projectID
	default:
		return "/"
	}
}

// Init implements tea.Model. Starts the spinner and the first load.
// The load runs at the model's current sequence number: Init receives
// a copy, so a bump here would never reach the stored model and the
// result would look stale. NewModel already set the loading flag.
func (model Model) Init() tea.Cmd {
	return tea.Batch(model.spin.Tick, model.loadFor(model.loadSeq))
}

// loadCurrent issues the data load for the current screen. It bumps
// the load sequence and sets the loading flag, so callers must invoke
// it on the model value they are about to return.
func (model *Model) loadCurrent() tea.Cmd {
	model.loadSeq++
	model.loading = true
	return model.loadFor(model.loadSeq)
}

// loadFor builds the load command for the current screen, stamping
// results with the given sequence number.
func (model Model) loadFor(seq int) tea.Cmd {
	source := model.source
	params := api.ListParams{Page: model.listPage}

	switch model.screen {
	case ScreenOrganizations:
		return func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
			defer cancel()
			page, err := source.Organizations(ctx, params)
			if err != nil {
				return loadFailedMsg{seq: seq, what: "organizations", err: err}
			}
			return organizationsLoadedMsg{seq: seq, page: page}
		}

	case ScreenProjects:
		return func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
			defer cancel()
			page, err := source.Projects(ctx, params)
			if err != nil {
				return loadFailedMsg{seq: seq, what: "projects", err: err}
			}
			return projectsLoadedMsg{seq: seq, page: page}
		}

	case ScreenSessions:
		projectID := model.projectID
		return func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
			defer cancel()
			page, err := source.Sessions(ctx, projectID, params)
			if err != nil {
				return loadFailedMsg{seq: seq, what: "sessions", err: err}
			}
			return sessionsLoadedMsg{seq: seq, page: page}
		}

	case ScreenSessionDetail:
		projectID := model.projectID
		sessionID := model.sessionID
		return func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
			defer cancel()
			detail, err := source.SessionDetail(ctx, projectID, sessionID)
			if err != nil {
				return loadFailedMsg{seq: seq, what: "session detail", err: err}
			}
			return sessionDetailLoadedMsg{seq: seq, detail: detail}
		}

	case ScreenStats:
		projectID := model.projectID
		rng := model.rangeSelector.Selected
		return func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
			defer cancel()
			stats, err := source.Stats(ctx, projectID, rng)
			if err != nil {
				return loadFailedMsg{seq: seq, what: "stats", err: err}
			}
			return statsLoadedMsg{seq: seq, stats: stats}
		}
	}
	return nil
}

// Update implements tea.Model.
func (model Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.KeyMsg:
		if model.filter.Active {
			return model.handleFilterKeys(message)
		}
		return model.handleKeys(message)

	case tea.WindowSizeMsg:
		model.width = message.Width
		model.height = message.Height
		model.ready = true
		model.resizeContent()

	case tea.FocusMsg, tea.BlurMsg:
		// Terminal focus changes are deliberately inert: cached data
		// stays on screen and no refetch is triggered. Freshness is
		// the cache's job, not the window manager's.

	case spinner.TickMsg:
		if model.loading {
			var cmd tea.Cmd
			model.spin, cmd = model.spin.Update(message)
			return model, cmd
		}

	case organizationsLoadedMsg:
		if message.seq != model.loadSeq {
			return model, nil
		}
		model.loading = false
		model.pageMeta = message.page.Meta
		model.rows = make([]listRow, len(message.page.Data))
		for index, org := range message.page.Data {
			model.rows[index] = organizationRow(org)
		}
		model.applyFilter()

	case projectsLoadedMsg:
		if message.seq != model.loadSeq {
			return model, nil
		}
		model.loading = false
		model.pageMeta = message.page.Meta
		model.rows = make([]listRow, len(message.page.Data))
		for index, project := range message.page.Data {
			model.rows[index] = projectRow(project)
		}
		model.applyFilter()

	case sessionsLoadedMsg:
		if message.seq != model.loadSeq {
			return model, nil
		}
		model.loading = false
		model.pageMeta = message.page.Meta
		model.rows = make([]listRow, len(message.page.Data))
		for index, session := range message.page.Data {
			model.rows[index] = sessionRow(session)
		}
		model.applyFilter()

	case sessionDetailLoadedMsg:
		if message.seq != model.loadSeq {
			return model, nil
		}
		model.loading = false
		model.sessionDetail = message.detail
		model.refreshViewport()

	case statsLoadedMsg:
		if message.seq != model.loadSeq {
			return model, nil
		}
		model.loading = false
		model.stats = message.stats

	case loadFailedMsg:
		if message.seq != model.loadSeq {
			return model, nil
		}
		model.loading = false
		model.statusMessage = fmt.Sprintf("loading %s failed: %v", message.what, message.err)
		model.statusLevel = slog.LevelError
		return model, scheduleStatusFade()

	case logRecordMsg:
		model.statusMessage = message.Summary
		model.statusLevel = message.Level
		return model, scheduleStatusFade()

	case logRecordFadeMsg:
		model.statusMessage = ""
	}

	return model, nil
}

// scheduleStatusFade clears the status message after the fade delay.
func scheduleStatusFade() tea.Cmd {
	return tea.Tick(logRecordFadeDelay, func(time.Time) tea.Msg {
		return logRecordFadeMsg{}
	})
}

// handleKeys processes keyboard input outside filter mode.
func (model Model) handleKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(message, model.keys.Quit):
		return model, tea.Quit

	case key.Matches(message, model.keys.ScreenOrganizations):
		return model.switchScreen(ScreenOrganizations)

	case key.Matches(message, model.keys.ScreenProjects):
		return model.switchScreen(ScreenProjects)

	case key.Matches(message, model.keys.ScreenSessions):
		if model.projectID == "" {
			return model.needProject()
		}
		return model.switchScreen(ScreenSessions)

	case key.Matches(message, model.keys.ScreenStats):
		if model.projectID == "" {
			return model.needProject()
		}
		return model.switchScreen(ScreenStats)

	case key.Matches(message, model.keys.FilterActivate):
		if model.isListScreen() {
			model.filter.Active = true
			model.cursor = 0
			model.scrollOffset = 0
		}
		return model, nil

	case key.Matches(message, model.keys.FilterClear):
		if model.filter.Input != "" {
			model.filter.Clear()
			model.applyFilter()
		}
		return model, nil

	case key.Matches(message, model.keys.Refresh):
		return model.refreshCurrent()

	case key.Matches(message, model.keys.Select):
		return model.drillIn()

	case key.Matches(message, model.keys.Back):
		return model.goBack()

	case key.Matches(message, model.keys.PageNext):
		if model.isListScreen() && int64(model.listPage) < model.pageMeta.TotalPages {
			model.listPage++
			model.cursor = 0
			model.scrollOffset = 0
			load := model.loadCurrent()
			return model, load
		}
		return model, nil

	case key.Matches(message, model.keys.PagePrevious):
		if model.isListScreen() && model.listPage > 1 {
			model.listPage--
			model.cursor = 0
			model.scrollOffset = 0
			load := model.loadCurrent()
			return model, load
		}
		return model, nil

	case key.Matches(message, model.keys.RangeNext):
		if model.screen == ScreenStats {
			if model.rangeSelector.Next() {
				load := model.loadCurrent()
				return model, load
			}
			return model, nil
		}

	case key.Matches(message, model.keys.RangePrevious):
		if model.screen == ScreenStats {
			if model.rangeSelector.Previous() {
				load := model.loadCurrent()
				return model, load
			}
			return model, nil
		}
	}

	if model.screen == ScreenSessionDetail {
		var cmd tea.Cmd
		model.viewport, cmd = model.viewport.Update(message)
		return model, cmd
	}

	model.handleListNavigation(message)
	return model, nil
}

// handleListNavigation moves the cursor on list screens.
func (model *Model) handleListNavigation(message tea.KeyMsg) {
	switch {
	case key.Matches(message, model.keys.Up):
		if model.cursor > 0 {
			model.cursor--
		}
	case key.Matches(message, model.keys.Down):
		if model.cursor < len(model.visible)-1 {
			model.cursor++
		}
	case key.Matches(message, model.keys.PageUp):
		model.cursor -= model.listHeight()
		if model.cursor < 0 {
			model.cursor = 0
		}
	case key.Matches(message, model.keys.PageDown):
		model.cursor += model.listHeight()
		if model.cursor > len(model.visible)-1 {
			model.cursor = len(model.visible) - 1
		}
		if model.cursor < 0 {
			model.cursor = 0
		}
	case key.Matches(message, model.keys.Home):
		model.cursor = 0
	case key.Matches(message, model.keys.End):
		if len(model.visible) > 0 {
			model.cursor = len(model.visible) - 1
		}
	}
	model.ensureCursorVisible()
}

// handleFilterKeys routes keystrokes while the filter input is
// active. Enter confirms (keeps the text, returns to list
// navigation); Esc clears and deactivates.
func (model Model) handleFilterKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch message.Type {
	case tea.KeyEscape:
		model.filter.Clear()
		model.applyFilter()
	case tea.KeyEnter:
		model.filter.Active = false
	case tea.KeyBackspace:
		if model.filter.HandleBackspace() {
			model.cursor = 0
			model.scrollOffset = 0
			model.applyFilter()
		}
	case tea.KeyRunes, tea.KeySpace:
		for _, character := range message.Runes {
			model.filter.HandleRune(character)
		}
		if message.Type == tea.KeySpace && len(message.Runes) == 0 {
			model.filter.HandleRune(' ')
		}
		model.cursor = 0
		model.scrollOffset = 0
		model.applyFilter()
	case tea.KeyCtrlC:
		return model, tea.Quit
	}
	return model, nil
}

// switchScreen changes the active screen and loads its data. The
// filter and list position reset; each screen starts at page one.
func (model Model) switchScreen(screen Screen) (tea.Model, tea.Cmd) {
	if model.screen == screen {
		return model, nil
	}
	model.screen = screen
	model.listPage = 1
	model.cursor = 0
	model.scrollOffset = 0
	model.rows = nil
	model.visible = nil
	model.pageMeta = api.PageMeta{}
	model.filter.Clear()
	load := model.loadCurrent()
	return model, tea.Batch(load, model.spin.Tick)
}

// drillIn opens the selected row: organization to projects, project
// to its sessions, session to its detail.
func (model Model) drillIn() (tea.Model, tea.Cmd) {
	if !model.isListScreen() || model.cursor >= len(model.visible) {
		return model, nil
	}
	selected := model.visible[model.cursor].Row

	switch model.screen {
	case ScreenOrganizations:
		return model.switchScreen(ScreenProjects)

	case ScreenProjects:
		model.projectID = selected.ID
		model.projectName = selected.Label
		return model.switchScreen(ScreenSessions)

	case ScreenSessions:
		model.sessionID = selected.ID
		model.screen = ScreenSessionDetail
		model.sessionDetail = nil
		load := model.loadCurrent()
		return model, tea.Batch(load, model.spin.Tick)
	}
	return model, nil
}

// goBack returns to the parent screen.
func (model Model) goBack() (tea.Model, tea.Cmd) {
	switch model.screen {
	case ScreenSessionDetail:
		model.screen = ScreenSessions
		model.sessionID = ""
		model.sessionDetail = nil
		// The sessions list is still cached; reload to repopulate
		// rows (served from cache, so this is instant).
		model.listPage = 1
		load := model.loadCurrent()
		return model, load
	case ScreenSessions, ScreenStats:
		return model.switchScreen(ScreenProjects)
	case ScreenProjects:
		return model.switchScreen(ScreenOrganizations)
	}
	return model, nil
}

// refreshCurrent invalidates the current screen's cached data and
// refetches.
func (model Model) refreshCurrent() (tea.Model, tea.Cmd) {
	switch model.screen {
	case ScreenOrganizations:
		model.source.Refresh(resourceOrganizations)
	case ScreenProjects:
		model.source.Refresh(resourceProjects)
	case ScreenSessions, ScreenSessionDetail:
		model.source.Refresh(sessionsResource(model.projectID))
	case ScreenStats:
		model.source.Refresh(statsResource(model.projectID))
	}
	load := model.loadCurrent()
	return model, tea.Batch(load, model.spin.Tick)
}

// needProject shows a hint when a project-scoped screen is requested
// without a selected project.
func (model Model) needProject() (tea.Model, tea.Cmd) {
	model.statusMessage = "select a project first (screen 2, Enter)"
	model.statusLevel = slog.LevelWarn
	return model, scheduleStatusFade()
}

// isListScreen reports whether the current screen shows a row list.
func (model Model) isListScreen() bool {
	switch model.screen {
	case ScreenOrganizations, ScreenProjects, ScreenSessions:
		return true
	}
	return false
}

// applyFilter recomputes the visible rows from the filter and clamps
// the cursor.
func (model *Model) applyFilter() {
	model.visible = model.filter.Apply(model.rows)
	if model.cursor > len(model.visible)-1 {
		model.cursor = len(model.visible) - 1
	}
	if model.cursor < 0 {
		model.cursor = 0
	}
	model.ensureCursorVisible()
}

// resizeContent recomputes the viewport dimensions after a terminal
// resize.
func (model *Model) resizeContent() {
	model.viewport.Width = model.contentWidth()
	model.viewport.Height = model.listHeight()
	model.refreshViewport()
}

// refreshViewport re-renders the session detail into the viewport.
func (model *Model) refreshViewport() {
	if model.sessionDetail == nil {
		return
	}
	rendered := renderTerminalMarkdown(
		sessionMarkdown(model.sessionDetail), model.theme, model.contentWidth()-2)
	model.viewport.SetContent(rendered)
}

// contentWidth is the width of the content pane right of the sidebar
// and its divider column.
func (model Model) contentWidth() int {
	width := model.width - sidebarWidth - 1
	if width < 20 {
		width = 20
	}
	return width
}

// listHeight is the number of content rows between the header line
// and the bottom chrome (separator + status bar).
func (model Model) listHeight() int {
	height := model.height - 1 - 2
	if height < 0 {
		height = 0
	}
	return height
}

// ensureCursorVisible adjusts scrollOffset so the cursor stays in
// the visible window.
func (model *Model) ensureCursorVisible() {
	visible := model.listHeight()
	if visible <= 0 {
		return
	}
	maxOffset := len(model.visible) - visible
	if maxOffset < 0 {
		maxOffset = 0
	}
	if model.scrollOffset > maxOffset {
		model.scrollOffset = maxOffset
	}
	if model.cursor < model.scrollOffset {
		model.scrollOffset = model.cursor
	}
	if model.cursor >= model.scrollOffset+visible {
		model.scrollOffset = model.cursor - visible + 1
	}
}

// View implements tea.Model.
func (model Model) View() string {
	if !model.ready {
		return "Loading..."
	}

	sidebar := renderSidebar(model.theme, model.Route(), model.projectID, model.height)

	divider := model.renderDivider()
	content := lipgloss.JoinVertical(lipgloss.Left,
		model.renderHeader(),
		model.renderBody(),
		model.renderSeparator(),
		model.renderStatusBar(),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, sidebar, divider, content)
}

// renderDivider renders the vertical rule between sidebar and
// content.
func (model Model) renderDivider() string {
	lines := make([]string, model.height)
	for index := range lines {
		lines[index] = "│"
	}
	return lipgloss.NewStyle().
		Foreground(model.theme.BorderColor).
		Render(strings.Join(lines, "\n"))
}

// renderHeader renders the top line of the content pane: screen
// title, project context, range selector on the stats screen, and
// the filter bar when active.
func (model Model) renderHeader() string {
	width := model.contentWidth()

	if filterView := model.filter.View(model.theme, width); filterView != "" {
		return filterView
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(model.theme.HeaderForeground)
	faintStyle := lipgloss.NewStyle().Foreground(model.theme.FaintText)

	title := ""
	switch model.screen {
	case ScreenOrganizations:
		title = "Organizations"
	case ScreenProjects:
		title = "Projects"
	case ScreenSessions:
		title = "Sessions"
	case ScreenSessionDetail:
		title = "Session"
	case ScreenStats:
		title = "Stats"
	}

	line := " " + titleStyle.Render(title)
	if model.projectID != "" && model.screen != ScreenOrganizations && model.screen != ScreenProjects {
		label := model.projectName
		if label == "" {
			label = model.projectID
		}
		line += faintStyle.Render("  " + label)
	}

	if model.screen == ScreenStats {
		line += "   " + model.rangeSelector.View(model.theme)
	}

	if model.isListScreen() && model.pageMeta.TotalPages > 1 {
		line += faintStyle.Render(fmt.Sprintf("  page %d/%d (%d items)",
			model.pageMeta.Page, model.pageMeta.TotalPages, model.pageMeta.TotalItems))
	}

	if model.loading {
		line += "  " + model.spin.View()
	}

	return lipgloss.NewStyle().Width(width).MaxWidth(width).Render(line)
}

// renderBody renders the content area below the header.
func (model Model) renderBody() string {
	width := model.contentWidth()
	height := model.listHeight()

	switch model.screen {
	case ScreenSessionDetail:
		return lipgloss.NewStyle().
			Width(width).
			Height(height).
			Render(model.viewport.View())

	case ScreenStats:
		body := ""
		if model.stats != nil {
			body = NewStatsRenderer(model.theme, width-2).Render(model.stats)
		} else if !model.loading {
			body = lipgloss.NewStyle().
				Foreground(model.theme.FaintText).
				Render("No stats yet.")
		}
		return lipgloss.NewStyle().
			Width(width).
			Height(height).
			Padding(0, 1).
			Render(body)

	default:
		return model.renderList(width, height)
	}
}

// renderList renders the visible window of the filtered rows.
func (model Model) renderList(width, height int) string {
	if len(model.visible) == 0 {
		text := "Nothing here."
		if model.loading {
			text = "Loading..."
		} else if model.filter.Input != "" {
			text = "No rows match the filter."
		}
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			lipgloss.NewStyle().Foreground(model.theme.FaintText).Render(text))
	}

	renderer := NewListRenderer(model.theme, width)
	var rows []string
	for index := model.scrollOffset; index < model.scrollOffset+height && index < len(model.visible); index++ {
		entry := model.visible[index]
		rows = append(rows, renderer.RenderRow(entry.Row, index == model.cursor, entry.Positions))
	}
	for len(rows) < height {
		rows = append(rows, lipgloss.NewStyle().Width(width).Render(""))
	}
	return strings.Join(rows, "\n")
}

// renderSeparator renders the rule above the status bar.
func (model Model) renderSeparator() string {
	return lipgloss.NewStyle().
		Foreground(model.theme.BorderColor).
		Render(strings.Repeat("─", model.contentWidth()))
}

// renderStatusBar renders the bottom line: either the current log
// message or the keyboard help.
func (model Model) renderStatusBar() string {
	width := model.contentWidth()

	if model.statusMessage != "" {
		color := model.theme.StatusWarning
		if model.statusLevel >= slog.LevelError {
			color = model.theme.StatusError
		}
		return lipgloss.NewStyle().
			Foreground(color).
			Bold(true).
			Width(width).
			MaxWidth(width).
			Render(" " + model.statusMessage)
	}

	help := " q quit  ↑↓ navigate  Enter open  BS back  1-4 screens  / filter  C-r refresh"
	if model.screen == ScreenStats {
		help = " q quit  ←→ time range  BS back  1-4 screens  C-r refresh"
	}
	if model.isListScreen() && model.pageMeta.TotalPages > 1 {
		help += "  [/] page"
	}
	if len(model.visible) > 0 && model.isListScreen() {
		help += fmt.Sprintf("  %d/%d", model.cursor+1, len(model.visible))
	}

	return lipgloss.NewStyle().
		Foreground(model.theme.HelpText).
		Width(width).
		MaxWidth(width).
		Render(help)
}
