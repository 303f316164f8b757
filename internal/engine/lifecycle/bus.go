// Package lifecycle broadcasts run lifecycle events to subscribers.
package lifecycle

import (
	"sync"

	"go.trai.ch/rebuild/internal/core/domain"
)

// Listener receives lifecycle events. It runs on the emitting goroutine and
// must tolerate concurrent calls when modules build in parallel.
type Listener func(domain.LifecycleEvent)

// Bus delivers every emitted event to all subscribers, synchronously and in
// subscription order. Events from one producer arrive in the order they were
// emitted; events from concurrent producers interleave.
type Bus struct {
	mu        sync.RWMutex
	listeners []Listener
}

// NewBus creates an empty Bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers l. Subscribers must be registered before the run starts
// to observe the start event.
func (b *Bus) Subscribe(l Listener) {
	if l == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners = append(b.listeners, l)
}

// Emit delivers ev to every subscriber. A listener may call Emit or Subscribe
// without deadlocking.
func (b *Bus) Emit(ev domain.LifecycleEvent) {
	b.mu.RLock()
	listeners := b.listeners
	b.mu.RUnlock()

	for _, l := range listeners {
		l(ev)
	}
}

// Start emits the start event.
func (b *Bus) Start() {
	b.Emit(domain.LifecycleEvent{Kind: domain.EventStart})
}

// ModuleFound emits module-found for name.
func (b *Bus) ModuleFound(name string) {
	b.Emit(domain.LifecycleEvent{Kind: domain.EventModuleFound, Module: name})
}

// ModuleSkipped emits module-skip for name.
func (b *Bus) ModuleSkipped(name string) {
	b.Emit(domain.LifecycleEvent{Kind: domain.EventModuleSkipped, Module: name})
}

// ModuleDone emits module-done for name.
func (b *Bus) ModuleDone(name string) {
	b.Emit(domain.LifecycleEvent{Kind: domain.EventModuleDone, Module: name})
}
