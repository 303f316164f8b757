package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"go.trai.ch/rebuild/internal/app"
	"go.trai.ch/rebuild/internal/core/domain"
	"go.trai.ch/rebuild/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func provide(a *app.App, log *mocks.MockLogger) ComponentProvider {
	return func(_ context.Context) (*app.Components, func(), error) {
		return &app.Components{App: a, Logger: log}, func() {}, nil
	}
}

// TestRun_Success verifies that the run function returns 0 when the command succeeds.
func TestRun_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)

	application := app.New(app.Adapters{Logger: mockLogger})

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, stderr, provide(application, mockLogger))
	assert.Equal(t, 0, exitCode)
}

// TestRun_InitializationError verifies that run returns 1 when component initialization fails.
func TestRun_InitializationError(t *testing.T) {
	provider := func(_ context.Context) (*app.Components, func(), error) {
		return nil, nil, errors.New("init failed")
	}

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, stderr, provider)

	assert.Equal(t, 1, exitCode)
	assert.Contains(t, stderr.String(), "Error: init failed")
}

// TestRun_ExecutionError verifies that run returns 1 and logs when the rebuild fails.
func TestRun_ExecutionError(t *testing.T) {
	ctrl := gomock.NewController(t)

	mockLoader := mocks.NewMockConfigLoader(ctrl)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Error(gomock.Any()).Times(1)

	mockLoader.EXPECT().Load(gomock.Any(), "").Return(nil, errors.New("load failed"))

	application := app.New(app.Adapters{ConfigLoader: mockLoader, Logger: mockLogger})

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"--output-mode", "linear"}, stderr, provide(application, mockLogger),
		func(a *app.App) {
			a.WithStderr(io.Discard).WithTeaOptions(tea.WithInput(nil), tea.WithOutput(io.Discard))
		},
	)

	assert.Equal(t, 1, exitCode)
}

// TestRun_WorkerExitCode verifies that the worker subcommand's exit code is passed through.
func TestRun_WorkerExitCode(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)

	application := app.New(app.Adapters{Logger: mockLogger})

	stdin := filepath.Join(t.TempDir(), "request.json")
	if err := os.WriteFile(stdin, []byte("{"), domain.FilePerm); err != nil {
		t.Fatal(err)
	}
	in, err := os.Open(stdin)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = in.Close() }()

	orig := os.Stdin
	os.Stdin = in
	defer func() { os.Stdin = orig }()

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"worker"}, stderr, provide(application, mockLogger))

	assert.Equal(t, 2, exitCode)
	assert.True(t, strings.Contains(stderr.String(), "invalid build worker request"))
}
