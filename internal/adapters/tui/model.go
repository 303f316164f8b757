package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// headerLines is the number of rows taken by the title and footer.
const headerLines = 4

// ModuleStatus is the display state of one module.
type ModuleStatus string

const (
	// StatusBuilding indicates the module is being rebuilt.
	StatusBuilding ModuleStatus = "Building"
	// StatusUpToDate indicates the cache marker matched and no build ran.
	StatusUpToDate ModuleStatus = "UpToDate"
	// StatusRebuilt indicates the build finished successfully.
	StatusRebuilt ModuleStatus = "Rebuilt"
	// StatusFailed indicates the build tool failed.
	StatusFailed ModuleStatus = "Failed"
)

// ModuleRow is a single module in the list.
type ModuleRow struct {
	Name    string
	Status  ModuleStatus
	Elapsed time.Duration
	Err     error
}

// Model is the Bubble Tea model of the rebuild progress view.
type Model struct {
	Modules []*ModuleRow
	index   map[string]*ModuleRow

	Searching bool
	Done      bool

	Width      int
	Height     int
	ListOffset int
	// FollowMode keeps the newest module in view.
	FollowMode bool

	spinner spinner.Model
	started time.Time
	now     func() time.Time
}

// Init starts the spinner.
func (m *Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.follow()
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case MsgSearching:
		m.Searching = true
	case MsgModuleFound:
		m.Searching = false
		m.row(msg.Name).Status = StatusBuilding
		m.follow()
	case MsgModuleSkipped:
		m.row(msg.Name).Status = StatusUpToDate
	case MsgModuleComplete:
		row := m.row(msg.Name)
		row.Elapsed = msg.Elapsed
		row.Err = msg.Err
		if msg.Err != nil {
			row.Status = StatusFailed
		} else {
			row.Status = StatusRebuilt
		}
	case MsgDone:
		m.Searching = false
		m.Done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "k", "up":
		if m.ListOffset > 0 {
			m.ListOffset--
			m.FollowMode = false
		}
	case "j", "down":
		if m.ListOffset < m.maxOffset() {
			m.ListOffset++
		}
		if m.ListOffset == m.maxOffset() {
			m.FollowMode = true
		}
	case "esc":
		m.FollowMode = true
		m.follow()
	}
	return m, nil
}

// row returns the row for name, appending it when first seen.
func (m *Model) row(name string) *ModuleRow {
	if r, ok := m.index[name]; ok {
		return r
	}
	if m.index == nil {
		m.index = make(map[string]*ModuleRow)
	}
	r := &ModuleRow{Name: name, Status: StatusBuilding}
	m.index[name] = r
	m.Modules = append(m.Modules, r)
	return r
}

// listHeight is the number of module rows that fit on screen. Zero means unbounded.
func (m *Model) listHeight() int {
	if m.Height <= headerLines {
		return 0
	}
	return m.Height - headerLines
}

func (m *Model) maxOffset() int {
	h := m.listHeight()
	if h == 0 || len(m.Modules) <= h {
		return 0
	}
	return len(m.Modules) - h
}

func (m *Model) follow() {
	if m.FollowMode || m.ListOffset > m.maxOffset() {
		m.ListOffset = m.maxOffset()
	}
}

// Counts returns the number of rebuilt, up to date and failed modules.
func (m *Model) Counts() (rebuilt, upToDate, failed int) {
	for _, r := range m.Modules {
		switch r.Status {
		case StatusRebuilt:
			rebuilt++
		case StatusUpToDate:
			upToDate++
		case StatusFailed:
			failed++
		case StatusBuilding:
		}
	}
	return rebuilt, upToDate, failed
}
