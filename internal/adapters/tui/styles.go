package tui

import (
	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/rebuild/internal/ui/style"
)

var (
	buildingStyle = lipgloss.NewStyle().
			Foreground(style.Accent).
			Bold(true)

	rebuiltStyle = lipgloss.NewStyle().
			Foreground(style.Green)

	failedStyle = lipgloss.NewStyle().
			Foreground(style.Red)

	upToDateStyle = lipgloss.NewStyle().
			Foreground(style.Muted).
			Faint(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(style.Muted)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1).
			Background(style.Accent).
			Foreground(lipgloss.Color("#FFFFFF"))

	failureTitleStyle = titleStyle.
				Background(style.Red)
)
