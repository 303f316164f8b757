package logger_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/rebuild/internal/adapters/logger"
	"go.trai.ch/zerr"
)

// newTestLogger creates a logger with an injected bytes.Buffer for isolated testing.
// It also sets NO_COLOR=1 to ensure deterministic output without ANSI escape codes.
func newTestLogger(t *testing.T) (*logger.Logger, *bytes.Buffer) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")
	t.Setenv(logger.DebugEnvVar, "")

	buf := &bytes.Buffer{}
	lg := logger.New().(*logger.Logger)
	lg.SetOutput(buf)
	return lg, buf
}

func TestLogger_Levels(t *testing.T) {
	lg, buf := newTestLogger(t)

	lg.Info("downloading: https://example.com/lib")
	lg.Warn("path contains spaces")
	lg.Debug("hidden")

	assert.Equal(t, "downloading: https://example.com/lib\n! path contains spaces\n", buf.String())
}

func TestLogger_Debug(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.SetDebug(true)

	lg.Debug("unresolved placeholders: {foo}")
	assert.Equal(t, "~ unresolved placeholders: {foo}\n", buf.String())

	buf.Reset()
	lg.SetDebug(false)
	lg.Debug("dropped")
	assert.Empty(t, buf.String())
}

func TestLogger_DebugFromEnv(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	t.Setenv(logger.DebugEnvVar, "other,rebuild")

	buf := &bytes.Buffer{}
	lg := logger.New().(*logger.Logger)
	lg.SetOutput(buf)
	lg.Debug("visible")

	assert.Equal(t, "~ visible\n", buf.String())
}

func TestDebugEnabled(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"", false},
		{"rebuild", true},
		{"express,rebuild", true},
		{"rebuild:fetch", true},
		{"*", true},
		{"rebuilder", false},
		{"express", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			assert.Equal(t, tt.want, logger.DebugEnabled(tt.value))
		})
	}
}

func TestLogger_Error(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		goldenName string
	}{
		{
			name:       "stdlib error",
			err:        os.ErrPermission,
			goldenName: "error_simple",
		},
		{
			name: "zerr chain with metadata",
			err: zerr.With(
				zerr.Wrap(zerr.New("unexpected response status"), "failed to fetch resource"),
				"url", "https://nodejs.org/x.tar.gz",
			),
			goldenName: "error_chain_metadata",
		},
		{
			name: "class join",
			err: errors.Join(
				zerr.New("invalid configuration"),
				zerr.With(zerr.New("force-abi must be a number"), "force_abi", "abc"),
			),
			goldenName: "error_class_join",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lg, buf := newTestLogger(t)
			lg.Error(tt.err)

			g := goldie.New(t)
			g.Assert(t, tt.goldenName, buf.Bytes())
		})
	}
}

func TestLogger_Error_Nil(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.Error(nil)
	assert.Empty(t, buf.String())
}

func TestLogger_SetJSON(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.SetJSON(true)

	lg.Info("json message")
	lg.Error(zerr.New("boom"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var first map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, "json message", first["msg"])
	assert.Equal(t, "INFO", first["level"])

	var second map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))
	assert.Equal(t, "operation failed", second["msg"])
	errField, ok := second["error"].(map[string]any)
	require.True(t, ok, "error should serialize as an object, got %T", second["error"])
	assert.Equal(t, "boom", errField["msg"])

	buf.Reset()
	lg.SetJSON(false)
	lg.Info("pretty again")
	assert.Equal(t, "pretty again\n", buf.String())
}

func TestLogger_ConcurrentAccess(t *testing.T) {
	lg, _ := newTestLogger(t)

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			lg.Info("concurrent")
			lg.Debug("concurrent")
		}()
		go func() {
			defer wg.Done()
			lg.SetJSON(true)
			lg.SetJSON(false)
		}()
	}
	wg.Wait()
}

func TestPrettyHandler_Attrs(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	h := logger.NewPrettyHandler(buf, &slog.HandlerOptions{Level: slog.LevelInfo})
	lg := slog.New(h).With("module", "addon").WithGroup("build")

	lg.Info("done", "exit", 0)
	assert.Equal(t, "done module=addon build.exit=0\n", buf.String())
}
