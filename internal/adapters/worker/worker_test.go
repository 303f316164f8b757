package worker_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/rebuild/internal/adapters/worker"
	"go.trai.ch/rebuild/internal/core/domain"
	"go.trai.ch/rebuild/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

const workerEnv = "REBUILD_TEST_WORKER"

// TestMain lets the test binary double as the worker process.
func TestMain(m *testing.M) {
	if os.Getenv(workerEnv) == "1" {
		os.Exit(worker.Serve(context.Background(), os.Stdin, os.Stdout, os.Stderr))
	}
	os.Exit(m.Run())
}

// fakeTool writes a shell script that prints its arguments and working
// directory, then exits with $FAKE_EXIT.
func fakeTool(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script build tool requires a POSIX shell")
	}

	path := filepath.Join(t.TempDir(), "fake-gyp")
	script := "#!/bin/sh\necho \"args: $*\"\necho \"cwd: $(pwd)\"\necho \"oops\" >&2\nexit ${FAKE_EXIT:-0}\n"
	require.NoError(t, os.WriteFile(path, []byte(script), 0o700)) //nolint:gosec // test script must be executable
	return path
}

func request(t *testing.T, req domain.WorkerRequest) *bytes.Reader {
	t.Helper()
	data, err := json.Marshal(req)
	require.NoError(t, err)
	return bytes.NewReader(data)
}

func TestServe(t *testing.T) {
	tool := fakeTool(t)

	var stdout, stderr bytes.Buffer
	code := worker.Serve(context.Background(), request(t, domain.WorkerRequest{
		ModuleName: "addon",
		BuildArgs:  []string{"rebuild", "--verbose"},
		WorkDir:    "/tmp/gyp",
		Tool:       tool,
	}), &stdout, &stderr)

	assert.Equal(t, 0, code)
	assert.Contains(t, stdout.String(), "args: rebuild --verbose --devdir=/tmp/gyp")
	assert.Contains(t, stderr.String(), "oops")
}

func TestServe_ExitCode(t *testing.T) {
	tool := fakeTool(t)
	t.Setenv("FAKE_EXIT", "3")

	code := worker.Serve(context.Background(), request(t, domain.WorkerRequest{Tool: tool}), &bytes.Buffer{}, &bytes.Buffer{})
	assert.Equal(t, 3, code)
}

func TestServe_ToolFromEnv(t *testing.T) {
	tool := fakeTool(t)
	t.Setenv(worker.BuildToolEnvVar, tool)

	var stdout bytes.Buffer
	code := worker.Serve(context.Background(), request(t, domain.WorkerRequest{BuildArgs: []string{"rebuild"}}), &stdout, &bytes.Buffer{})
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout.String(), "args: rebuild --devdir=")
}

func TestServe_BadRequest(t *testing.T) {
	var stderr bytes.Buffer
	code := worker.Serve(context.Background(), strings.NewReader("{not json"), &bytes.Buffer{}, &stderr)
	assert.Equal(t, worker.ExitBadRequest, code)
	assert.Contains(t, stderr.String(), "invalid build worker request")
}

func TestServe_MissingTool(t *testing.T) {
	var stderr bytes.Buffer
	code := worker.Serve(context.Background(), request(t, domain.WorkerRequest{
		ModuleName: "addon",
		Tool:       filepath.Join(t.TempDir(), "does-not-exist"),
	}), &bytes.Buffer{}, &stderr)
	assert.Equal(t, worker.ExitToolNotStarted, code)
	assert.Contains(t, stderr.String(), "addon")
}

func newSpawner(t *testing.T, extraEnv ...string) *worker.Spawner {
	t.Helper()
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Debug(gomock.Any()).AnyTimes()

	exe, err := os.Executable()
	require.NoError(t, err)
	return worker.NewSpawnerFor(exe, nil, append([]string{workerEnv + "=1"}, extraEnv...), log)
}

func TestSpawner_CapturesCombinedOutput(t *testing.T) {
	tool := fakeTool(t)
	moduleDir := t.TempDir()

	for name, spawner := range map[string]*worker.Spawner{
		"pty":   newSpawner(t),
		"pipes": newSpawner(t).WithoutPTY(),
	} {
		t.Run(name, func(t *testing.T) {
			res, err := spawner.Spawn(context.Background(), moduleDir, domain.WorkerRequest{
				ModuleName: "addon",
				BuildArgs:  []string{"rebuild"},
				WorkDir:    "/tmp/gyp/_p/addon",
				Tool:       tool,
			})
			require.NoError(t, err)
			assert.Equal(t, 0, res.ExitCode)

			out := string(res.Output)
			assert.Contains(t, out, "args: rebuild --devdir=/tmp/gyp/_p/addon")
			assert.Contains(t, out, "oops")

			resolved, err := filepath.EvalSymlinks(moduleDir)
			require.NoError(t, err)
			assert.Contains(t, out, "cwd: "+resolved)
		})
	}
}

func TestSpawner_NonZeroExit(t *testing.T) {
	tool := fakeTool(t)

	res, err := newSpawner(t, "FAKE_EXIT=1").WithoutPTY().Spawn(context.Background(), t.TempDir(), domain.WorkerRequest{
		ModuleName: "addon",
		Tool:       tool,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.ExitCode)
	assert.Contains(t, string(res.Output), "oops")
}

func TestSpawner_StartFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)

	spawner := worker.NewSpawnerFor(filepath.Join(t.TempDir(), "missing"), nil, nil, log)
	_, err := spawner.Spawn(context.Background(), t.TempDir(), domain.WorkerRequest{ModuleName: "addon"})
	require.Error(t, err)
	assert.ErrorContains(t, err, "failed to start build worker")
}
