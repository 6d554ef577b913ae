package tui

import "github.com/charmbracelet/lipgloss"

var (
	// Colors
	primaryColor   = lipgloss.Color("#7C3AED") // Purple
	secondaryColor = lipgloss.Color("#10B981") // Green
	mutedColor     = lipgloss.Color("#6B7280") // Gray
	accentColor    = lipgloss.Color("#F59E0B") // Amber
	errorColor     = lipgloss.Color("#EF4444") // Red
	fgColor        = lipgloss.Color("#F9FAFB") // Light

	// Layout styles
	AppStyle    = lipgloss.NewStyle().Padding(1, 2)
	HeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(primaryColor).MarginBottom(1)

	// Show list (left side)
	ListPanelStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(mutedColor).Padding(0, 1)

	// Conflict panel (right side)
	DetailPanelStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(primaryColor).Padding(1, 2)

	// Show list item styles
	SelectedItemStyle  = lipgloss.NewStyle().Background(primaryColor).Foreground(fgColor).Bold(true).Padding(0, 1)
	NormalItemStyle    = lipgloss.NewStyle().Foreground(fgColor).Padding(0, 1)
	DateStyle          = lipgloss.NewStyle().Foreground(secondaryColor).Width(13)
	ClearBadgeStyle    = lipgloss.NewStyle().Foreground(secondaryColor).Width(4)
	ConflictBadgeStyle = lipgloss.NewStyle().Foreground(errorColor).Bold(true).Width(4)

	// Detail panel styles
	TitleStyle          = lipgloss.NewStyle().Bold(true).Foreground(primaryColor).MarginBottom(1)
	LabelStyle          = lipgloss.NewStyle().Foreground(accentColor).Bold(true).Width(14)
	ValueStyle          = lipgloss.NewStyle().Foreground(fgColor)
	LinkStyle           = lipgloss.NewStyle().Foreground(lipgloss.Color("#60A5FA")).Underline(true)
	StatusAcceptedStyle = lipgloss.NewStyle().Foreground(secondaryColor)
	StatusDeclinedStyle = lipgloss.NewStyle().Foreground(errorColor)
	StatusPendingStyle  = lipgloss.NewStyle().Foreground(accentColor)

	// Conflict list
	ConflictHeaderStyle = lipgloss.NewStyle().Foreground(errorColor).Bold(true)
	ConflictTitleStyle  = lipgloss.NewStyle().Foreground(fgColor).Bold(true)
	ClearStyle          = lipgloss.NewStyle().Background(secondaryColor).Foreground(fgColor).Bold(true).Padding(0, 1)

	// Help bar
	HelpStyle    = lipgloss.NewStyle().Foreground(mutedColor).MarginTop(1)
	HelpKeyStyle = lipgloss.NewStyle().Foreground(primaryColor).Bold(true)
)
