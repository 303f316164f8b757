package ports

import (
	"context"
	"time"

	"go.trai.ch/rebuild/internal/core/domain"
)

// Renderer is the abstraction for progress output.
// The same event stream drives either a rich TUI or linear CI logs.
//
//go:generate mockgen -source=renderer.go -destination=mocks/mock_renderer.go -package=mocks
type Renderer interface {
	// Start initializes the renderer and begins its lifecycle.
	// For asynchronous renderers (like TUI), this may launch background goroutines.
	Start(ctx context.Context) error

	// Stop signals the renderer to stop accepting new events and flush its output.
	Stop() error

	// Wait blocks until the renderer has fully terminated.
	Wait() error

	// OnEvent is called for every lifecycle event of the run.
	OnEvent(ev domain.LifecycleEvent)

	// OnModuleComplete is called when a module build span ends.
	// err is nil on success.
	OnModuleComplete(name string, elapsed time.Duration, err error)
}
