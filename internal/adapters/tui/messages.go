package tui

import "time"

// MsgSearching marks the start of module discovery.
type MsgSearching struct{}

// MsgModuleFound adds a module to the list in the building state.
type MsgModuleFound struct {
	Name string
}

// MsgModuleSkipped marks a module as up to date.
type MsgModuleSkipped struct {
	Name string
}

// MsgModuleComplete reports the outcome of a module build.
type MsgModuleComplete struct {
	Name    string
	Elapsed time.Duration
	Err     error
}

// MsgDone tells the model that no further events will arrive.
type MsgDone struct{}
