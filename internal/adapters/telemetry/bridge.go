package telemetry

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/rebuild/internal/core/domain"
	"go.trai.ch/rebuild/internal/core/ports"
)

// Bridge implements sdktrace.SpanProcessor. Every finished span is written to
// the debug log; finished build spans are also forwarded to the renderer.
type Bridge struct {
	logger ports.Logger

	mu       sync.RWMutex
	renderer ports.Renderer
}

// NewBridge returns a new Bridge.
func NewBridge(logger ports.Logger) *Bridge {
	return &Bridge{logger: logger}
}

// SetRenderer attaches the renderer that receives module completions.
// A nil renderer detaches it.
func (b *Bridge) SetRenderer(r ports.Renderer) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.renderer = r
}

// OnStart is called when a span starts.
func (b *Bridge) OnStart(_ context.Context, _ sdktrace.ReadWriteSpan) {}

// OnEnd is called when a span ends.
func (b *Bridge) OnEnd(s sdktrace.ReadOnlySpan) {
	if !s.SpanContext().IsValid() {
		return
	}

	elapsed := s.EndTime().Sub(s.StartTime())

	var err error
	if s.Status().Code == codes.Error {
		desc := s.Status().Description
		if desc == "" {
			desc = s.Name() + " failed"
		}
		err = errors.New(desc)
	}

	var module string
	for _, kv := range s.Attributes() {
		if string(kv.Key) == domain.ModuleSpanAttribute {
			module = kv.Value.AsString()
		}
	}

	if b.logger != nil {
		label := s.Name()
		if module != "" {
			label += " " + module
		}
		if err != nil {
			b.logger.Debug(fmt.Sprintf("span %s failed after %s", label, elapsed))
		} else {
			b.logger.Debug(fmt.Sprintf("span %s finished in %s", label, elapsed))
		}
	}

	if s.Name() != domain.BuildSpanName || module == "" {
		return
	}

	b.mu.RLock()
	r := b.renderer
	b.mu.RUnlock()
	if r != nil {
		r.OnModuleComplete(module, elapsed, err)
	}
}

// ForceFlush does nothing.
func (b *Bridge) ForceFlush(_ context.Context) error {
	return nil
}

// Shutdown does nothing.
func (b *Bridge) Shutdown(_ context.Context) error {
	return nil
}
