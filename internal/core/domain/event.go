package domain

// EventKind tags a lifecycle notification.
type EventKind string

const (
	// EventStart is emitted once module discovery begins.
	EventStart EventKind = "start"
	// EventModuleFound is emitted when a module enters the build unit.
	EventModuleFound EventKind = "module-found"
	// EventModuleDone is emitted when a module is built or skipped.
	EventModuleDone EventKind = "module-done"
	// EventModuleSkipped is emitted when a module needs no rebuild.
	EventModuleSkipped EventKind = "module-skip"
)

// LifecycleEvent is a notification emitted during a rebuild run.
type LifecycleEvent struct {
	Kind   EventKind
	Module string
}

const (
	// BuildSpanName is the span opened around one module build.
	BuildSpanName = "build"
	// ModuleSpanAttribute carries the module name on build spans.
	ModuleSpanAttribute = "module"
)
