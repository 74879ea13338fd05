// ABOUTME: Shared lipgloss styles for the asistente-neae TUI
// ABOUTME: Defines the palette, panels, banners and transcript styles

package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Core palette
	Primary   = lipgloss.Color("#06B6D4") // Cyan
	Secondary = lipgloss.Color("#10B981") // Green
	Warning   = lipgloss.Color("#F59E0B") // Amber
	Danger    = lipgloss.Color("#EF4444") // Red
	Muted     = lipgloss.Color("#6B7280") // Gray
	Text      = lipgloss.Color("#F9FAFB") // Light
	Surface   = lipgloss.Color("#374151") // Elevated surface

	// Base styles
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		MarginBottom(1)

	Subtitle = lipgloss.NewStyle().
			Foreground(Muted).
			MarginBottom(1)

	// Connection status line
	StatusConnecting = lipgloss.NewStyle().
				Foreground(Warning)

	StatusConnected = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)

	StatusError = lipgloss.NewStyle().
			Foreground(Danger).
			Bold(true)

	// Panels
	Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Muted).
		Padding(1, 2)

	ActivePanel = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(1, 2)

	// Transcript
	UserLabel = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	AssistantLabel = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)

	PendingMessage = lipgloss.NewStyle().
			Foreground(Muted).
			Italic(true)

	// Banners
	BannerError = lipgloss.NewStyle().
			Foreground(Text).
			Background(Danger).
			Padding(0, 1)

	BannerSuccess = lipgloss.NewStyle().
			Foreground(Text).
			Background(Secondary).
			Padding(0, 1)

	BannerLoading = lipgloss.NewStyle().
			Foreground(Text).
			Background(Surface).
			Padding(0, 1)

	// Help text
	Help = lipgloss.NewStyle().
		Foreground(Muted).
		MarginTop(1)

	// Key style for keyboard shortcuts
	KeyStyle = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	// Usage quota display
	UsageStyle = lipgloss.NewStyle().
			Foreground(Muted)
)
