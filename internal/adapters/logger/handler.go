package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"go.trai.ch/rebuild/internal/ui/output"
	"go.trai.ch/rebuild/internal/ui/style"
)

// PrettyHandler is a slog.Handler that writes one colored line per record.
// Warnings, errors and debug records are prefixed with an icon.
type PrettyHandler struct {
	out    *termenv.Output
	level  slog.Leveler
	prefix string
	fields []string
}

// NewPrettyHandler creates a new PrettyHandler writing to w. A *slog.LevelVar
// passed in opts keeps tracking later level changes.
func NewPrettyHandler(w io.Writer, opts *slog.HandlerOptions) *PrettyHandler {
	if w == nil {
		w = os.Stderr
	}

	var level slog.Leveler = slog.LevelInfo
	if opts != nil && opts.Level != nil {
		level = opts.Level
	}

	return &PrettyHandler{out: output.New(w, output.Interactive), level: level}
}

// Enabled reports whether the handler handles records at the given level.
func (h *PrettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle formats and outputs the log record.
//
//nolint:gocritic // slog.Handler interface requires slog.Record by value
func (h *PrettyHandler) Handle(_ context.Context, r slog.Record) error {
	parts := make([]string, 0, 2+len(h.fields)+r.NumAttrs()) //nolint:mnd // icon and message
	icon, color := decoration(r.Level)
	if icon != "" {
		parts = append(parts, icon)
	}
	parts = append(parts, r.Message)
	parts = append(parts, h.fields...)
	r.Attrs(func(attr slog.Attr) bool {
		parts = append(parts, field(h.prefix, attr))
		return true
	})

	line := h.out.String(strings.Join(parts, " ")).Foreground(h.out.Color(string(color)))
	if r.Level < slog.LevelInfo {
		line = line.Faint()
	}
	_, err := h.out.WriteString(line.String() + "\n")
	return err
}

// WithAttrs returns a new Handler with the given attributes appended.
func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.fields = append([]string{}, h.fields...)
	for _, attr := range attrs {
		clone.fields = append(clone.fields, field(h.prefix, attr))
	}
	return &clone
}

// WithGroup returns a new Handler qualifying later attributes with name.
func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	clone := *h
	clone.prefix = h.prefix + name + "."
	return &clone
}

func decoration(level slog.Level) (string, lipgloss.Color) {
	switch {
	case level >= slog.LevelError:
		return style.Cross, style.Red
	case level >= slog.LevelWarn:
		return style.Warning, style.Yellow
	case level < slog.LevelInfo:
		return style.Tilde, style.Muted
	default:
		return "", style.Muted
	}
}

func field(prefix string, attr slog.Attr) string {
	return prefix + attr.Key + "=" + attr.Value.String()
}
