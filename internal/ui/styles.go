package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Dark palette shared by the CLI output and the watch dashboard
var (
	PrimaryColor   = lipgloss.Color("#2196F3") // Blue - headers, borders, selection
	SecondaryColor = lipgloss.Color("#54B6B2") // Teal - server URLs
	SuccessColor   = lipgloss.Color("#4CAF50") // Green - live, success
	ErrorColor     = lipgloss.Color("#CF6679") // Rose - dead, errors
	WarningColor   = lipgloss.Color("#FB8C00") // Orange - in progress, warnings
	MutedColor     = lipgloss.Color("#757575") // Gray - secondary info
	TextColor      = lipgloss.Color("#E0E0E0") // Light gray - main content
	SurfaceColor   = lipgloss.Color("#212121") // Panel background
)

// Layout constants
const (
	MinTerminalWidth = 60
	MaxContentWidth  = 100
	DefaultHeight    = 24
)

var (
	HeaderTitleStyle = lipgloss.NewStyle().
				Foreground(TextColor).
				Bold(true).
				PaddingLeft(2)

	HeaderCommandStyle = lipgloss.NewStyle().
				Foreground(MutedColor).
				PaddingLeft(2)

	HeaderParamKeyStyle = lipgloss.NewStyle().
				Foreground(MutedColor).
				PaddingLeft(2)

	HeaderParamValueStyle = lipgloss.NewStyle().
				Foreground(TextColor)

	ProgressLabelStyle = lipgloss.NewStyle().
				Foreground(TextColor).
				PaddingLeft(2)

	// ServerURLStyle highlights a discovered base URL
	ServerURLStyle = lipgloss.NewStyle().
			Foreground(SecondaryColor).
			Bold(true)

	StepCompleteStyle = lipgloss.NewStyle().
				Foreground(SuccessColor)

	StepRunningStyle = lipgloss.NewStyle().
				Foreground(WarningColor)

	StepPendingStyle = lipgloss.NewStyle().
				Foreground(MutedColor)

	StepNoteStyle = lipgloss.NewStyle().
			Foreground(MutedColor).
			Italic(true)

	SuccessTitleStyle = lipgloss.NewStyle().
				Foreground(SuccessColor).
				Bold(true)

	ErrorTitleStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	WarningTitleStyle = lipgloss.NewStyle().
				Foreground(WarningColor).
				Bold(true)

	ErrorMessageStyle = lipgloss.NewStyle().
				Foreground(ErrorColor)

	ResultKeyStyle = lipgloss.NewStyle().
			Foreground(MutedColor).
			Width(15)

	ResultValueStyle = lipgloss.NewStyle().
				Foreground(TextColor)

	TroubleshootingTitleStyle = lipgloss.NewStyle().
					Foreground(MutedColor).
					Bold(true)

	TroubleshootingItemStyle = lipgloss.NewStyle().
					Foreground(MutedColor)
)

// Status markers
const (
	MarkerLive    = "✓"
	MarkerRunning = "●"
	MarkerPending = "·"
	MarkerDead    = "✗"
	MarkerSkipped = "⊘"
	MarkerWarning = "⚠"
)

// GetTerminalWidth returns the stdout width clamped to the supported range
func GetTerminalWidth() int {
	width, _ := GetTerminalSize()
	return width
}

// GetTerminalSize returns the stdout width (clamped) and height
func GetTerminalSize() (int, int) {
	width, height, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return MinTerminalWidth, DefaultHeight
	}
	return ClampWidth(width), height
}

// IsTerminal reports whether stdout is attached to a terminal
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// ClampWidth limits a width to [MinTerminalWidth, MaxContentWidth]
func ClampWidth(width int) int {
	if width < MinTerminalWidth {
		return MinTerminalWidth
	}
	if width > MaxContentWidth {
		return MaxContentWidth
	}
	return width
}

// SuccessBoxStyle is the border of success result boxes
func SuccessBoxStyle(width int) lipgloss.Style {
	return resultBox(width, SuccessColor)
}

// ErrorBoxStyle is the border of error result boxes
func ErrorBoxStyle(width int) lipgloss.Style {
	return resultBox(width, ErrorColor)
}

// WarningBoxStyle is the border of warning result boxes
func WarningBoxStyle(width int) lipgloss.Style {
	return resultBox(width, WarningColor)
}

func resultBox(width int, color lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(color).
		Width(width-2).
		Padding(0, 2)
}

// HeaderBorderStyle is the border of command headers
func HeaderBorderStyle(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(PrimaryColor).
		Width(width - 2)
}

// TroubleshootingBoxStyle is the inner box listing troubleshooting tips
func TroubleshootingBoxStyle(width int) lipgloss.Style {
	innerWidth := width - 12
	if innerWidth < 40 {
		innerWidth = 40
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(MutedColor).
		Width(innerWidth).
		Padding(0, 1).
		MarginLeft(3)
}
