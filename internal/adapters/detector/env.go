// Package detector provides environment detection for output mode selection.
package detector

import (
	"errors"
	"os"

	"go.trai.ch/rebuild/internal/core/domain"
	"go.trai.ch/zerr"
	"golang.org/x/term"
)

// OutputMode represents the rendering mode for the application.
type OutputMode int

const (
	// ModeAuto automatically detects the appropriate mode.
	ModeAuto OutputMode = iota
	// ModeTUI forces the interactive TUI renderer.
	ModeTUI
	// ModeLinear forces the linear CI renderer.
	ModeLinear
)

// String returns the flag spelling of the mode.
func (m OutputMode) String() string {
	switch m {
	case ModeTUI:
		return "tui"
	case ModeLinear:
		return "linear"
	default:
		return "auto"
	}
}

// ErrUnknownOutputMode is returned for an --output-mode value outside auto, tui and linear.
var ErrUnknownOutputMode = zerr.New("unknown output mode, expected 'auto', 'tui' or 'linear'")

// DetectEnvironment returns the recommended output mode for progress written
// to stderr.
func DetectEnvironment() OutputMode {
	return Detect(term.IsTerminal(int(os.Stderr.Fd())), os.Getenv)
}

// Detect picks linear output when the progress stream is not a terminal or a
// CI environment variable is set, and the TUI otherwise.
func Detect(isTTY bool, getenv func(string) string) OutputMode {
	ci := getenv("CI")
	isCI := ci == "true" || ci == "1"

	if !isTTY || isCI || getenv("TERM") == "dumb" {
		return ModeLinear
	}
	return ModeTUI
}

// ParseMode parses a user flag. userFlag should be one of "auto", "tui",
// "linear", "ci", or empty.
func ParseMode(userFlag string) (OutputMode, error) {
	switch userFlag {
	case "tui":
		return ModeTUI, nil
	case "linear", "ci":
		return ModeLinear, nil
	case "auto", "":
		return ModeAuto, nil
	default:
		return ModeAuto, errors.Join(domain.ErrConfig, zerr.With(ErrUnknownOutputMode, "output_mode", userFlag))
	}
}

// ResolveMode applies a parsed user choice to the auto-detected mode.
func ResolveMode(autoDetected, requested OutputMode) OutputMode {
	if requested == ModeAuto {
		return autoDetected
	}
	return requested
}
