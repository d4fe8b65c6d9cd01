package ui

import "github.com/charmbracelet/lipgloss"

// Colors used throughout the TUI.
var (
	ColorRed     = lipgloss.Color("#FF0000")
	ColorGreen   = lipgloss.Color("#00FF00")
	ColorYellow  = lipgloss.Color("#FFFF00")
	ColorCyan    = lipgloss.Color("#00FFFF")
	ColorGray    = lipgloss.Color("#666666")
	ColorDimGray = lipgloss.Color("#444444")
	ColorWhite   = lipgloss.Color("#FFFFFF")
	ColorMagenta = lipgloss.Color("#FF00FF")
)

// Base styles reused by UI components.
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorCyan)

	UserLabelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorMagenta)

	AssistantLabelStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorCyan)

	ListeningDotStyle = lipgloss.NewStyle().
				Foreground(ColorRed).
				Bold(true)

	IdleDotStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	SendingStyle = lipgloss.NewStyle().
			Foreground(ColorMagenta)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorRed).
			Bold(true)

	ErrorTextStyle = lipgloss.NewStyle().
			Foreground(ColorRed)

	PromptStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorYellow)

	DimStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	FooterKeyStyle = lipgloss.NewStyle().
			Foreground(ColorYellow).
			Bold(true)

	FooterDescStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	DividerStyle = lipgloss.NewStyle().
			Foreground(ColorDimGray)

	LiveBadgeStyle = lipgloss.NewStyle().
			Foreground(ColorGreen).
			Bold(true)

	ScrollBadgeStyle = lipgloss.NewStyle().
				Foreground(ColorYellow).
				Bold(true)
)
