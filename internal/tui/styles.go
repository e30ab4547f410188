package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/assistlink/internal/ui"
)

var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(ui.TextColor).
			Background(ui.PrimaryColor).
			Bold(true).
			Padding(0, 1)

	LiveStyle = lipgloss.NewStyle().
			Foreground(ui.SuccessColor).
			Bold(true)

	DownStyle = lipgloss.NewStyle().
			Foreground(ui.ErrorColor).
			Bold(true)

	MutedStyle = lipgloss.NewStyle().
			Foreground(ui.MutedColor)

	ActionStyle = lipgloss.NewStyle().
			Foreground(ui.TextColor)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ui.ErrorColor)

	SpinnerStyle = lipgloss.NewStyle().
			Foreground(ui.WarningColor)

	PromptStyle = lipgloss.NewStyle().
			Foreground(ui.PrimaryColor).
			Bold(true)

	ButtonStyle = lipgloss.NewStyle().
			Foreground(ui.TextColor).
			Background(ui.SurfaceColor).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ui.SecondaryColor).
			Padding(0, 2).
			MarginRight(1)

	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ui.MutedColor).
			Padding(0, 1)
)
