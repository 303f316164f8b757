package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.trai.ch/rebuild/internal/core/domain"
)

// Renderer wraps the TUI Bubble Tea model as a ports.Renderer.
type Renderer struct {
	program *tea.Program
	model   *Model
	errCh   chan error
}

// NewRenderer creates a new TUI renderer.
func NewRenderer(model *Model, opts ...tea.ProgramOption) *Renderer {
	return &Renderer{
		program: tea.NewProgram(model, opts...),
		model:   model,
		errCh:   make(chan error, 1),
	}
}

// Start launches the TUI in a background goroutine.
func (r *Renderer) Start(_ context.Context) error {
	go func() {
		_, err := r.program.Run()
		r.errCh <- err
	}()
	return nil
}

// Stop renders the final frame and quits the program.
func (r *Renderer) Stop() error {
	r.program.Send(MsgDone{})
	return nil
}

// Wait blocks until the TUI has terminated.
func (r *Renderer) Wait() error {
	return <-r.errCh
}

// OnEvent forwards lifecycle events to the TUI.
func (r *Renderer) OnEvent(ev domain.LifecycleEvent) {
	switch ev.Kind {
	case domain.EventStart:
		r.program.Send(MsgSearching{})
	case domain.EventModuleFound:
		r.program.Send(MsgModuleFound{Name: ev.Module})
	case domain.EventModuleSkipped:
		r.program.Send(MsgModuleSkipped{Name: ev.Module})
	case domain.EventModuleDone:
	}
}

// OnModuleComplete forwards build completion to the TUI.
func (r *Renderer) OnModuleComplete(name string, elapsed time.Duration, err error) {
	r.program.Send(MsgModuleComplete{Name: name, Elapsed: elapsed, Err: err})
}

// Program returns the underlying tea.Program for testing.
func (r *Renderer) Program() *tea.Program {
	return r.program
}
