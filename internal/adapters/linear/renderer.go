// Package linear provides a synchronous, line-oriented renderer for CI environments.
package linear

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/muesli/termenv"
	"go.trai.ch/rebuild/internal/core/domain"
	"go.trai.ch/rebuild/internal/ui/output"
	"go.trai.ch/rebuild/internal/ui/style"
)

// Renderer implements ports.Renderer for CI/non-interactive environments.
// It prints one line per module state change, prefixed with the module name.
type Renderer struct {
	w      io.Writer
	output *termenv.Output
	now    func() time.Time

	mu      sync.Mutex
	started time.Time
	found   int
	built   int
	skipped int
	failed  int
}

// NewRenderer creates a new linear renderer writing to w (stderr when nil).
func NewRenderer(w io.Writer) *Renderer {
	if w == nil {
		w = os.Stderr
	}
	return &Renderer{
		w:      w,
		output: output.New(w, output.Plain),
		now:    time.Now,
	}
}

// Start records the run start time.
func (r *Renderer) Start(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.started = r.now()
	return nil
}

// Stop prints the run summary.
func (r *Renderer) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, _ = fmt.Fprintf(r.w, "%d module(s) found: %d rebuilt, %d up to date, %d failed (%s)\n",
		r.found, r.built, r.skipped, r.failed, style.Elapsed(r.now().Sub(r.started)))
	return nil
}

// Wait is a no-op for linear renderer (synchronous).
func (r *Renderer) Wait() error {
	return nil
}

// OnEvent prints lifecycle events.
func (r *Renderer) OnEvent(ev domain.LifecycleEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch ev.Kind {
	case domain.EventStart:
		_, _ = fmt.Fprintln(r.w, "Searching dependency tree")
	case domain.EventModuleFound:
		r.found++
		_, _ = fmt.Fprintf(r.w, "%s Building...\n", r.prefix(ev.Module))
	case domain.EventModuleSkipped:
		r.skipped++
		symbol := r.output.String(style.Tilde).Faint().String()
		_, _ = fmt.Fprintf(r.w, "%s %s Up to date\n", r.prefix(ev.Module), symbol)
	case domain.EventModuleDone:
	}
}

// OnModuleComplete prints the outcome of a module build.
func (r *Renderer) OnModuleComplete(name string, elapsed time.Duration, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err != nil {
		r.failed++
		symbol := r.output.String(style.Cross).Foreground(termenv.ANSIRed).String()
		_, _ = fmt.Fprintf(r.w, "%s %s Failed after %s: %v\n", r.prefix(name), symbol, style.Elapsed(elapsed), err)
		return
	}

	r.built++
	symbol := r.output.String(style.Check).Foreground(termenv.ANSIGreen).String()
	_, _ = fmt.Fprintf(r.w, "%s %s Rebuilt in %s\n", r.prefix(name), symbol, style.Elapsed(elapsed))
}

func (r *Renderer) prefix(name string) string {
	return r.output.String(fmt.Sprintf("[%s]", name)).Faint().String()
}
