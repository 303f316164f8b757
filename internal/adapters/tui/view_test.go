package tui_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/rebuild/internal/adapters/tui"
	"go.trai.ch/zerr"
)

func TestView_Rows(t *testing.T) {
	m := newModel(t)
	m, _ = update(m, tui.MsgModuleFound{Name: "addon"})
	m, _ = update(m, tui.MsgModuleComplete{Name: "addon", Elapsed: 1500 * time.Millisecond})
	m, _ = update(m, tui.MsgModuleSkipped{Name: "cached"})
	m, _ = update(m, tui.MsgModuleComplete{Name: "broken", Elapsed: 2 * time.Second, Err: zerr.New("boom")})
	m, _ = update(m, tui.MsgModuleFound{Name: "pending"})

	view := m.View()

	assert.Contains(t, view, "REBUILD")
	assert.Contains(t, view, "✓ addon 1.5s")
	assert.Contains(t, view, "~ cached up to date")
	assert.Contains(t, view, "✗ broken failed after 2s")
	assert.Contains(t, view, "pending")
	assert.Contains(t, view, "1 rebuilt, 1 up to date, 1 failed")
}

func TestView_Searching(t *testing.T) {
	m := newModel(t)
	m, _ = update(m, tui.MsgSearching{})

	assert.Contains(t, m.View(), "Searching dependency tree")
}

func TestView_Window(t *testing.T) {
	m := newModel(t)
	for _, name := range []string{"a1", "a2", "a3", "a4", "a5", "a6"} {
		m, _ = update(m, tui.MsgModuleSkipped{Name: name})
	}
	m, _ = update(m, tui.MsgDone{})
	m.Height = 7
	m.ListOffset = 1

	view := m.View()

	assert.NotContains(t, view, "a1 ")
	assert.Contains(t, view, "a2 ")
	assert.Contains(t, view, "a4 ")
	assert.NotContains(t, view, "a5 ")
	assert.False(t, strings.HasSuffix(view, "\n"), "final frame has no trailing newline")
}
