package lifecycle_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/rebuild/internal/core/domain"
	"go.trai.ch/rebuild/internal/engine/lifecycle"
)

func TestBus_DeliversInOrder(t *testing.T) {
	bus := lifecycle.NewBus()

	var first, second []domain.LifecycleEvent
	bus.Subscribe(func(ev domain.LifecycleEvent) { first = append(first, ev) })
	bus.Subscribe(func(ev domain.LifecycleEvent) { second = append(second, ev) })
	bus.Subscribe(nil)

	bus.Start()
	bus.ModuleFound("addon")
	bus.ModuleSkipped("addon")
	bus.ModuleDone("addon")

	want := []domain.LifecycleEvent{
		{Kind: domain.EventStart},
		{Kind: domain.EventModuleFound, Module: "addon"},
		{Kind: domain.EventModuleSkipped, Module: "addon"},
		{Kind: domain.EventModuleDone, Module: "addon"},
	}
	assert.Equal(t, want, first)
	assert.Equal(t, want, second)
}

func TestBus_ReentrantEmit(t *testing.T) {
	bus := lifecycle.NewBus()

	var got []domain.EventKind
	bus.Subscribe(func(ev domain.LifecycleEvent) {
		got = append(got, ev.Kind)
		if ev.Kind == domain.EventModuleSkipped {
			bus.ModuleDone(ev.Module)
		}
	})

	bus.ModuleSkipped("addon")

	assert.Equal(t, []domain.EventKind{domain.EventModuleSkipped, domain.EventModuleDone}, got)
}

func TestBus_ConcurrentProducers(t *testing.T) {
	bus := lifecycle.NewBus()

	var mu sync.Mutex
	perModule := make(map[string][]domain.EventKind)
	bus.Subscribe(func(ev domain.LifecycleEvent) {
		mu.Lock()
		defer mu.Unlock()
		perModule[ev.Module] = append(perModule[ev.Module], ev.Kind)
	})

	names := []string{"a", "b", "c", "d"}
	var wg sync.WaitGroup
	for _, name := range names {
		wg.Go(func() {
			bus.ModuleFound(name)
			bus.ModuleDone(name)
		})
	}
	wg.Wait()

	require.Len(t, perModule, len(names))
	for _, name := range names {
		assert.Equal(t, []domain.EventKind{domain.EventModuleFound, domain.EventModuleDone}, perModule[name], name)
	}
}
