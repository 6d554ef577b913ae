package tui

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/theakshaypant/gigcheck/internal/check"
	"github.com/theakshaypant/gigcheck/internal/conflict"
	"github.com/theakshaypant/gigcheck/internal/core"
	"github.com/theakshaypant/gigcheck/internal/util"
)

// KeyMap defines the keybindings for the TUI
type KeyMap struct {
	Up           key.Binding
	Down         key.Binding
	ScrollUp     key.Binding
	ScrollDown   key.Binding
	NextConflict key.Binding
	PrevConflict key.Binding
	ViewEvent    key.Binding
	Refresh      key.Binding
	Tab          key.Binding
	Quit         key.Binding
	Help         key.Binding
}

var DefaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓", "down"),
	),
	ScrollUp: key.NewBinding(
		key.WithKeys("ctrl+u", "pgup"),
		key.WithHelp("ctrl+u", "scroll up"),
	),
	ScrollDown: key.NewBinding(
		key.WithKeys("ctrl+d", "pgdown"),
		key.WithHelp("ctrl+d", "scroll down"),
	),
	NextConflict: key.NewBinding(
		key.WithKeys("right", "n"),
		key.WithHelp("→", "next conflict"),
	),
	PrevConflict: key.NewBinding(
		key.WithKeys("left", "p"),
		key.WithHelp("←", "prev conflict"),
	),
	ViewEvent: key.NewBinding(
		key.WithKeys("enter", "v"),
		key.WithHelp("enter", "view event"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh"),
	),
	Tab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "switch panel"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
}

// Panel focus for compact mode
type PanelFocus int

const (
	FocusList PanelFocus = iota
	FocusDetail
)

// Loader produces one report per show. It runs off the UI goroutine.
type Loader func(ctx context.Context) ([]check.Report, error)

// Model is the Bubble Tea model for the TUI
type Model struct {
	reports       []check.Report
	selectedIdx   int
	conflictIdx   int
	width         int
	height        int
	listWidth     int
	detailWidth   int
	contentHeight int
	keys          KeyMap
	load          Loader
	loading       bool
	err           error
	listView      viewport.Model
	detailView    viewport.Model
	viewportReady bool
	compactMode   bool       // True when terminal is too narrow for side-by-side
	focusedPanel  PanelFocus // Which panel is shown in compact mode
	showHelp      bool       // Whether the help overlay is visible
}

// NewModel creates a new TUI model
func NewModel(load Loader) Model {
	return Model{
		keys:    DefaultKeyMap,
		load:    load,
		loading: true,
	}
}

// Messages
type reportsLoadedMsg struct {
	reports []check.Report
	err     error
}

// Commands
func (m Model) loadReports() tea.Cmd {
	return func() tea.Msg {
		reports, err := m.load(context.Background())
		return reportsLoadedMsg{reports: reports, err: err}
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return m.loadReports()
}

func (m Model) selected() (check.Report, bool) {
	if m.selectedIdx < 0 || m.selectedIdx >= len(m.reports) {
		return check.Report{}, false
	}
	return m.reports[m.selectedIdx], true
}

// calculateLayout calculates responsive layout dimensions
func (m *Model) calculateLayout() {
	minHeight := 10

	width := m.width
	height := m.height

	if height < minHeight {
		height = minHeight
	}

	// Header: ~2 lines, Help: ~2 lines, Padding: ~2 lines
	m.contentHeight = height - 6
	if m.contentHeight < 5 {
		m.contentHeight = 5
	}

	compactThreshold := 70
	m.compactMode = width < compactThreshold

	if m.compactMode {
		m.listWidth = max(width-4, 20)
		m.detailWidth = max(width-4, 20)
		return
	}

	switch {
	case width < 100:
		m.listWidth = width * 40 / 100
	case width < 140:
		m.listWidth = width * 35 / 100
	default:
		m.listWidth = min(width*30/100, 55)
	}
	m.listWidth = max(m.listWidth, 30)
	m.detailWidth = max(width-m.listWidth-5, 35)
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.calculateLayout()

		// Account for borders and panel headers
		listViewportHeight := max(m.contentHeight-4, 1)
		listViewportWidth := max(m.listWidth-4, 10)
		detailViewportHeight := max(m.contentHeight-4, 1)
		detailViewportWidth := max(m.detailWidth-4, 10)

		if !m.viewportReady {
			m.listView = viewport.New(listViewportWidth, listViewportHeight)
			m.listView.Style = lipgloss.NewStyle()
			m.detailView = viewport.New(detailViewportWidth, detailViewportHeight)
			m.detailView.Style = lipgloss.NewStyle()
			m.viewportReady = true
		} else {
			m.listView.Width = listViewportWidth
			m.listView.Height = listViewportHeight
			m.detailView.Width = detailViewportWidth
			m.detailView.Height = detailViewportHeight
		}
		m.updateListContent()
		m.updateDetailContent()
		return m, nil

	case reportsLoadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.reports = msg.reports
			if m.selectedIdx >= len(m.reports) {
				m.selectedIdx = 0
			}
			m.conflictIdx = 0
			m.updateListContent()
			m.updateDetailContent()
		}
		return m, nil

	case tea.KeyMsg:
		if m.showHelp {
			m.showHelp = false
			return m, nil
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.Help):
			m.showHelp = true
			return m, nil

		case key.Matches(msg, m.keys.Up):
			if m.selectedIdx > 0 {
				m.selectShow(m.selectedIdx - 1)
			}
			return m, nil

		case key.Matches(msg, m.keys.Down):
			if m.selectedIdx < len(m.reports)-1 {
				m.selectShow(m.selectedIdx + 1)
			}
			return m, nil

		case key.Matches(msg, m.keys.NextConflict):
			if r, ok := m.selected(); ok && m.conflictIdx < len(r.Conflicts)-1 {
				m.conflictIdx++
				m.updateDetailContent()
			}
			return m, nil

		case key.Matches(msg, m.keys.PrevConflict):
			if m.conflictIdx > 0 {
				m.conflictIdx--
				m.updateDetailContent()
			}
			return m, nil

		case key.Matches(msg, m.keys.ScrollUp):
			if m.compactMode && m.focusedPanel == FocusList {
				m.listView.ViewUp()
			} else {
				m.detailView.ViewUp()
			}
			return m, nil

		case key.Matches(msg, m.keys.ScrollDown):
			if m.compactMode && m.focusedPanel == FocusList {
				m.listView.ViewDown()
			} else {
				m.detailView.ViewDown()
			}
			return m, nil

		case key.Matches(msg, m.keys.Tab):
			if m.focusedPanel == FocusList {
				m.focusedPanel = FocusDetail
			} else {
				m.focusedPanel = FocusList
			}
			return m, nil

		case key.Matches(msg, m.keys.Refresh):
			m.loading = true
			return m, m.loadReports()

		case key.Matches(msg, m.keys.ViewEvent):
			if r, ok := m.selected(); ok && m.conflictIdx < len(r.Conflicts) {
				if d, ok := r.Details[r.Conflicts[m.conflictIdx].ID]; ok && d.URL != "" {
					return m, openURL(d.URL)
				}
			}
			return m, nil
		}
	}
	return m, nil
}

func (m *Model) selectShow(idx int) {
	m.selectedIdx = idx
	m.conflictIdx = 0
	m.updateListContent()
	m.scrollListToSelection()
	m.updateDetailContent()
	m.detailView.GotoTop()
}

// View renders the TUI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	header := m.renderHeader()

	var content string
	switch {
	case m.loading:
		content = lipgloss.NewStyle().
			Width(m.width-4).
			Height(m.contentHeight).
			Align(lipgloss.Center, lipgloss.Center).
			Render("Checking your calendar...")
	case m.err != nil:
		content = lipgloss.NewStyle().
			Width(m.width - 4).
			Height(m.contentHeight).
			Foreground(errorColor).
			Render(fmt.Sprintf("Error: %v", m.err))
	case m.compactMode:
		if m.showHelp {
			content = m.renderHelpPanel()
		} else if m.focusedPanel == FocusList {
			content = m.renderListPanel()
		} else {
			content = m.renderDetailPanel()
		}
	default:
		// Help replaces the detail panel
		rightPanel := m.renderDetailPanel()
		if m.showHelp {
			rightPanel = m.renderHelpPanel()
		}
		content = lipgloss.JoinHorizontal(lipgloss.Top, m.renderListPanel(), " ", rightPanel)
	}

	return AppStyle.Render(
		lipgloss.JoinVertical(lipgloss.Left, header, content, m.renderHelp()),
	)
}

func (m Model) renderHeader() string {
	clashing := 0
	for _, r := range m.reports {
		if r.HasConflicts() {
			clashing++
		}
	}

	title := HeaderStyle.Render("🎤 gigcheck")
	summary := lipgloss.NewStyle().Foreground(mutedColor).
		Render(fmt.Sprintf("%d shows • %d with conflicts", len(m.reports), clashing))

	panelIndicator := ""
	if m.compactMode {
		label := " [Shows]"
		if m.focusedPanel == FocusDetail {
			label = " [Conflicts]"
		}
		panelIndicator = lipgloss.NewStyle().Foreground(primaryColor).Bold(true).Render(label)
	}

	return lipgloss.JoinHorizontal(lipgloss.Center, title, "  ", summary, panelIndicator)
}

// updateListContent updates the list viewport with the current shows
func (m *Model) updateListContent() {
	if !m.viewportReady {
		return
	}

	var items []string
	if len(m.reports) == 0 {
		items = append(items, NormalItemStyle.Render("No shows"))
	}
	for i, r := range m.reports {
		items = append(items, m.renderListItem(r, i == m.selectedIdx, m.listView.Width))
	}
	m.listView.SetContent(strings.Join(items, "\n"))
}

// scrollListToSelection keeps the selected show visible
func (m *Model) scrollListToSelection() {
	if !m.viewportReady || len(m.reports) == 0 {
		return
	}

	selectedTop := m.selectedIdx
	selectedBottom := selectedTop + 1

	viewTop := m.listView.YOffset
	viewBottom := viewTop + m.listView.Height

	if selectedTop < viewTop {
		m.listView.SetYOffset(selectedTop)
	}
	if selectedBottom > viewBottom {
		m.listView.SetYOffset(selectedBottom - m.listView.Height)
	}
}

func (m Model) renderListPanel() string {
	scrollInfo := ""
	if m.viewportReady && m.listView.TotalLineCount() > m.listView.Height {
		scrollInfo = lipgloss.NewStyle().
			Foreground(mutedColor).
			Render(fmt.Sprintf(" (%d/%d)", m.selectedIdx+1, len(m.reports)))
	}

	header := lipgloss.NewStyle().
		Foreground(primaryColor).
		Bold(true).
		Render("Shows") + scrollInfo

	return ListPanelStyle.Width(m.listWidth).Height(m.contentHeight).Render(
		lipgloss.JoinVertical(lipgloss.Left, header, m.listView.View()),
	)
}

func (m Model) renderListItem(r check.Report, selected bool, maxWidth int) string {
	dateStr := DateStyle.Render(r.Show.StartTime.Format("Jan 2 15:04"))

	badge := ClearBadgeStyle.Render("✓")
	if r.HasConflicts() {
		badge = ConflictBadgeStyle.Render(fmt.Sprintf("%d!", len(r.Conflicts)))
	}

	// Date (13) + badge (4) + spaces
	titleWidth := max(maxWidth-20, 10)
	venue := r.Show.Venue
	if venue == "" {
		venue = strings.Join(r.Show.Artists, ", ")
	}
	line := fmt.Sprintf("%s %s %s", dateStr, badge, util.TruncateText(venue, titleWidth))

	if selected {
		return SelectedItemStyle.Render(line)
	}
	return NormalItemStyle.Render(line)
}

// updateDetailContent renders the selected show and its conflicts
func (m *Model) updateDetailContent() {
	if !m.viewportReady {
		return
	}
	r, ok := m.selected()
	if !ok {
		m.detailView.SetContent("")
		return
	}

	width := m.detailView.Width
	var lines []string

	title := r.Show.Venue
	if title == "" {
		title = "Show"
	}
	lines = append(lines, TitleStyle.Render(ansi.Wordwrap(title, width, "")))
	lines = append(lines, renderWrappedField("🎸 Line-up", strings.Join(r.Show.Artists, ", "), width))
	lines = append(lines, renderField("🚪 Doors", r.Show.OpenTime.Format("Mon, Jan 2 3:04 PM")))
	lines = append(lines, renderField("🎶 Start", r.Show.StartTime.Format("Mon, Jan 2 3:04 PM")))
	lines = append(lines, renderField("⏱️  Estimate", fmt.Sprintf("%dh", conflict.EstimateDuration(len(r.Show.Artists)))))
	lines = append(lines, renderField("🕐 Window", formatEventTime(r.Window.Start, r.Window.End)))
	lines = append(lines, "")

	if !r.HasConflicts() {
		lines = append(lines, ClearStyle.Render("✅ No conflicts. Enjoy the show!"))
		m.detailView.SetContent(strings.Join(lines, "\n"))
		return
	}

	lines = append(lines, ConflictHeaderStyle.Render(fmt.Sprintf("⚠️  %d CONFLICT(S)", len(r.Conflicts))))
	for i, e := range r.Conflicts {
		lines = append(lines, "")
		lines = append(lines, renderConflict(e, r.Details[e.ID], i == m.conflictIdx, width)...)
	}

	m.detailView.SetContent(strings.Join(lines, "\n"))
}

func renderConflict(e conflict.Event, detail core.Event, selected bool, width int) []string {
	name := ansi.Wordwrap(e.Name, width-2, "")
	marker := "  "
	if selected {
		marker = "▶ "
	}

	lines := []string{ConflictTitleStyle.Render(marker + name)}
	lines = append(lines, renderField("🕐 When", formatEventTime(e.Start, e.End)))
	lines = append(lines, renderField("⏱️  Duration", formatDuration(e.End.Sub(e.Start))))

	if len(detail.Calendars) > 1 {
		var names []string
		for _, cr := range detail.Calendars {
			names = append(names, cr.Calendar.Name)
		}
		lines = append(lines, renderWrappedField("📅 Calendars", strings.Join(names, ", "), width))
	} else if detail.Calendar.Name != "" {
		lines = append(lines, renderField("📅 Calendar", detail.Calendar.Name))
	}
	if detail.Location != "" {
		lines = append(lines, renderWrappedField("📍 Location", detail.Location, width))
	}
	if detail.ID != "" {
		lines = append(lines, renderField("📊 Response", formatStatus(detail.Status)))
	}
	if detail.URL != "" {
		labelWidth := lipgloss.Width(LabelStyle.Render("🔗 Open")) + 1
		displayURL := util.TruncateText(detail.URL, width-labelWidth)
		lines = append(lines, renderField("🔗 Open", util.MakeHyperlink(detail.URL, LinkStyle.Render(displayURL))))
	}
	return lines
}

func (m Model) renderDetailPanel() string {
	if len(m.reports) == 0 {
		return DetailPanelStyle.Width(m.detailWidth).Height(m.contentHeight).Render(
			lipgloss.NewStyle().
				Foreground(mutedColor).
				Render("No show selected"),
		)
	}

	scrollInfo := ""
	if m.viewportReady && m.detailView.TotalLineCount() > m.detailView.Height {
		scrollPct := int(m.detailView.ScrollPercent() * 100)
		scrollInfo = lipgloss.NewStyle().
			Foreground(mutedColor).
			Render(fmt.Sprintf(" (%d%%)", scrollPct))
	}

	header := lipgloss.NewStyle().
		Foreground(primaryColor).
		Bold(true).
		Render("Conflicts") + scrollInfo

	return DetailPanelStyle.Width(m.detailWidth).Height(m.contentHeight).Render(
		lipgloss.JoinVertical(lipgloss.Left, header, "", m.detailView.View()),
	)
}

func (m Model) renderHelp() string {
	keys := []string{
		HelpKeyStyle.Render("↑/↓") + " show",
		HelpKeyStyle.Render("←/→") + " conflict",
		HelpKeyStyle.Render("tab") + " panel",
		HelpKeyStyle.Render("enter") + " view",
		HelpKeyStyle.Render("r") + " refresh",
		HelpKeyStyle.Render("q") + " quit",
	}

	fullLine := strings.Join(keys, "  •  ")

	if lipgloss.Width(fullLine) > m.width-4 {
		return HelpStyle.Render(HelpKeyStyle.Render("?") + " help")
	}
	return HelpStyle.Render(fullLine)
}

func (m Model) renderHelpPanel() string {
	header := lipgloss.NewStyle().
		Foreground(primaryColor).
		Bold(true).
		Render("Keyboard Shortcuts")

	lines := []string{
		"",
		HelpKeyStyle.Render("  ↑ / k      ") + " Previous show",
		HelpKeyStyle.Render("  ↓ / j      ") + " Next show",
		HelpKeyStyle.Render("  → / n      ") + " Next conflict",
		HelpKeyStyle.Render("  ← / p      ") + " Previous conflict",
		HelpKeyStyle.Render("  ctrl+u/d   ") + " Scroll conflicts",
		HelpKeyStyle.Render("  tab        ") + " Switch panel",
		HelpKeyStyle.Render("  enter      ") + " Open conflict in calendar",
		HelpKeyStyle.Render("  r          ") + " Check again",
		HelpKeyStyle.Render("  q / ctrl+c ") + " Quit",
		"",
		lipgloss.NewStyle().Foreground(mutedColor).Italic(true).Render("  Press any key to close"),
	}

	panelWidth := m.detailWidth
	if m.compactMode {
		panelWidth = m.listWidth
	}

	return DetailPanelStyle.Width(panelWidth).Height(m.contentHeight).Render(
		lipgloss.JoinVertical(lipgloss.Left, header, strings.Join(lines, "\n")),
	)
}

// Helper functions
func renderField(label, value string) string {
	return LabelStyle.Render(label) + " " + ValueStyle.Render(value)
}

// renderWrappedField renders a label-value field, word-wrapping the value
// to fit within maxWidth. Continuation lines are indented to align with the value.
func renderWrappedField(label, value string, maxWidth int) string {
	labelRendered := LabelStyle.Render(label)
	labelWidth := lipgloss.Width(labelRendered) + 1
	valueWidth := max(maxWidth-labelWidth, 10)
	wrapped := ansi.Wordwrap(value, valueWidth, "")
	wrapLines := strings.Split(wrapped, "\n")
	indent := strings.Repeat(" ", labelWidth)
	for i := 1; i < len(wrapLines); i++ {
		wrapLines[i] = indent + wrapLines[i]
	}
	return labelRendered + " " + ValueStyle.Render(strings.Join(wrapLines, "\n"))
}

func formatDuration(d time.Duration) string {
	if d < 0 {
		d = -d
	}

	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60

	if days > 0 {
		if hours > 0 {
			return fmt.Sprintf("%dd %dh", days, hours)
		}
		return fmt.Sprintf("%dd", days)
	}
	if hours > 0 {
		if minutes > 0 {
			return fmt.Sprintf("%dh %dm", hours, minutes)
		}
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dm", minutes)
}

func formatEventTime(start, end time.Time) string {
	if start.Year() == end.Year() && start.YearDay() == end.YearDay() {
		return fmt.Sprintf("%s, %s - %s",
			start.Format("Mon, Jan 2"),
			start.Format("3:04 PM"),
			end.Format("3:04 PM"))
	}
	return fmt.Sprintf("%s - %s",
		start.Format("Mon, Jan 2 3:04 PM"),
		end.Format("Mon, Jan 2 3:04 PM"))
}

func formatStatus(status core.EventStatus) string {
	switch status {
	case core.StatusAccepted:
		return StatusAcceptedStyle.Render("Accepted ✓")
	case core.StatusRejected:
		return StatusDeclinedStyle.Render("Declined ✗")
	case core.StatusTentative:
		return StatusPendingStyle.Render("Tentative ?")
	case core.StatusAwaiting:
		return StatusPendingStyle.Render("Awaiting response")
	case core.StatusNoResponse:
		return lipgloss.NewStyle().Foreground(mutedColor).Render("No response needed")
	default:
		return "Unknown"
	}
}

// openURL opens a URL in the default browser
func openURL(url string) tea.Cmd {
	return func() tea.Msg {
		var cmd *exec.Cmd
		switch runtime.GOOS {
		case "darwin":
			cmd = exec.Command("open", url)
		case "linux":
			cmd = exec.Command("xdg-open", url)
		case "windows":
			cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
		default:
			return nil
		}
		_ = cmd.Start()
		return nil
	}
}
