package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/rebuild/internal/ui/style"
)

// View renders the module list with a summary footer.
func (m *Model) View() string {
	var s strings.Builder

	_, _, failed := m.Counts()
	title := titleStyle
	if failed > 0 {
		title = failureTitleStyle
	}
	s.WriteString(title.Render("REBUILD") + "\n\n")

	if m.Searching && len(m.Modules) == 0 {
		s.WriteString(m.spinner.View() + " Searching dependency tree\n")
	}

	start, end := m.window()
	for _, row := range m.Modules[start:end] {
		s.WriteString(m.renderRow(row) + "\n")
	}

	s.WriteString("\n" + m.footer())
	if !m.Done {
		s.WriteString("\n")
	}
	return s.String()
}

func (m *Model) window() (start, end int) {
	end = len(m.Modules)
	h := m.listHeight()
	if h == 0 {
		return 0, end
	}
	start = min(m.ListOffset, m.maxOffset())
	end = min(start+h, end)
	return start, end
}

func (m *Model) renderRow(row *ModuleRow) string {
	var icon, detail string
	var st lipgloss.Style

	switch row.Status {
	case StatusUpToDate:
		icon, st, detail = style.Tilde, upToDateStyle, "up to date"
	case StatusRebuilt:
		icon, st, detail = style.Check, rebuiltStyle, style.Elapsed(row.Elapsed)
	case StatusFailed:
		icon, st, detail = style.Cross, failedStyle, "failed after "+style.Elapsed(row.Elapsed)
	default:
		return fmt.Sprintf("%s %s", m.spinner.View(), buildingStyle.Render(row.Name))
	}

	return fmt.Sprintf("%s %s %s", st.Render(icon), row.Name, mutedStyle.Render(detail))
}

func (m *Model) footer() string {
	rebuilt, upToDate, failed := m.Counts()
	summary := fmt.Sprintf("%d rebuilt, %d up to date, %d failed", rebuilt, upToDate, failed)
	if !m.started.IsZero() {
		summary += " in " + style.Elapsed(m.now().Sub(m.started))
	}
	return mutedStyle.Render(summary)
}
