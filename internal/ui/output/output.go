// Package output creates termenv outputs that honour NO_COLOR.
package output

import (
	"io"
	"os"

	"github.com/muesli/termenv"
)

// NoColorEnvVar disables all color output when set to any non-empty value.
const NoColorEnvVar = "NO_COLOR"

// Mode selects how the color profile is chosen.
type Mode int

const (
	// Interactive detects the terminal's capabilities.
	Interactive Mode = iota
	// Plain uses basic ANSI colors, which every CI log viewer understands.
	Plain
)

// Profile returns the color profile for mode. NO_COLOR always wins.
func Profile(mode Mode) termenv.Profile {
	if os.Getenv(NoColorEnvVar) != "" {
		return termenv.Ascii
	}
	if mode == Plain {
		return termenv.ANSI
	}
	return termenv.EnvColorProfile()
}

// New creates a termenv.Output for w, defaulting to stderr.
func New(w io.Writer, mode Mode) *termenv.Output {
	if w == nil {
		w = os.Stderr
	}
	return termenv.NewOutput(w, termenv.WithProfile(Profile(mode)), termenv.WithTTY(true))
}
