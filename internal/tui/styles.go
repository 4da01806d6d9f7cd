package tui

import "github.com/charmbracelet/lipgloss"

// Colors - calm slate palette shared with the desktop build
const (
	colorBgAlt     = "#1E293B" // Slate 800
	colorFg        = "#F8FAFC" // Slate 50
	colorFgMuted   = "#94A3B8" // Slate 400
	colorPrimary   = "#3B82F6" // Blue 500
	colorSuccess   = "#10B981" // Emerald 500
	colorWarning   = "#F59E0B" // Amber 500
	colorError     = "#EF4444" // Red 500
	colorBorder    = "#334155" // Slate 700
	colorUser      = "#3B82F6" // Blue 500
	colorAssistant = "#10B981" // Emerald 500
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(colorFg)).
			Background(lipgloss.Color(colorBgAlt)).
			Padding(0, 1)

	headerMetaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorFgMuted)).
			Background(lipgloss.Color(colorBgAlt)).
			Padding(0, 1)

	tabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorFgMuted)).
			Padding(0, 1)

	tabActiveStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(colorPrimary)).
			Padding(0, 1).
			Underline(true)

	userLabelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(colorUser))

	assistantLabelStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color(colorAssistant))

	systemLabelStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color(colorWarning))

	timestampStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorFgMuted))

	spinnerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorPrimary)).
			Italic(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorError))

	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorFgMuted))

	inputBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color(colorBorder)).
				Padding(0, 1)

	popupStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(colorBorder)).
			Padding(0, 1)

	popupSelectedStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color(colorFg)).
				Background(lipgloss.Color(colorBgAlt))

	popupItemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorFgMuted))

	helpTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(colorPrimary))

	helpSectionStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color(colorFg))

	helpKeyStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(colorSuccess))

	helpDescStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorFgMuted))
)
