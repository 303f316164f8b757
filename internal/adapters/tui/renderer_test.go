package tui_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/rebuild/internal/adapters/tui"
	"go.trai.ch/rebuild/internal/core/domain"
)

func newRenderer(t *testing.T) (*tui.Renderer, *tui.Model) {
	t.Helper()
	m := newModel(t)
	r := tui.NewRenderer(
		m,
		tea.WithInput(strings.NewReader("")),
		tea.WithOutput(io.Discard),
		tea.WithoutSignalHandler(),
		tea.WithoutRenderer(),
	)
	return r, m
}

func TestRenderer_Lifecycle(t *testing.T) {
	r, m := newRenderer(t)
	require.NoError(t, r.Start(context.Background()))

	r.OnEvent(domain.LifecycleEvent{Kind: domain.EventStart})
	r.OnEvent(domain.LifecycleEvent{Kind: domain.EventModuleFound, Module: "addon"})
	r.OnModuleComplete("addon", time.Second, nil)
	r.OnEvent(domain.LifecycleEvent{Kind: domain.EventModuleDone, Module: "addon"})
	r.OnEvent(domain.LifecycleEvent{Kind: domain.EventModuleFound, Module: "broken"})
	r.OnModuleComplete("broken", time.Second, errors.New("exit 1"))

	require.NoError(t, r.Stop())
	require.NoError(t, r.Wait())

	assert.True(t, m.Done)
	require.Len(t, m.Modules, 2)
	assert.Equal(t, tui.StatusRebuilt, m.Modules[0].Status)
	assert.Equal(t, tui.StatusFailed, m.Modules[1].Status)
	assert.NotNil(t, r.Program())
}
