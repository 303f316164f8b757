// Package tui provides an interactive terminal view of a rebuild run.
package tui

import (
	"io"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/rebuild/internal/ui/output"
)

// NewModel creates a new TUI model rendering to w.
func NewModel(w io.Writer) Model {
	out := output.New(w, output.Interactive)
	lipgloss.SetColorProfile(out.Profile)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = buildingStyle

	return Model{
		index:      make(map[string]*ModuleRow),
		FollowMode: true,
		spinner:    s,
		started:    time.Now(),
		now:        time.Now,
	}
}
