// Package style holds the colors, icons and duration formatting shared by the renderers.
package style

import (
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Palette.
var (
	Accent = lipgloss.Color("#8B5CF6")
	Muted  = lipgloss.Color("#667085")
	Green  = lipgloss.Color("#22A06B")
	Red    = lipgloss.Color("#D93025")
	Yellow = lipgloss.Color("#F59E0B")
)

// Icons.
const (
	Check   = "✓"
	Cross   = "✗"
	Warning = "!"
	Tilde   = "~"
)

// Elapsed formats a duration for display. Sub-second values keep millisecond
// precision, longer ones are rounded to a tenth of a second.
func Elapsed(d time.Duration) string {
	if d < time.Second {
		return d.Round(time.Millisecond).String()
	}
	return d.Round(100 * time.Millisecond).String() //nolint:mnd // display precision
}
