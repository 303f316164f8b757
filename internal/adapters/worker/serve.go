package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"go.trai.ch/rebuild/internal/core/domain"
)

const (
	// DefaultBuildTool is run when neither the request nor the environment names a tool.
	DefaultBuildTool = "node-gyp"
	// BuildToolEnvVar overrides the default build tool.
	BuildToolEnvVar = "REBUILD_BUILD_TOOL"

	// ExitBadRequest is the exit code for an unreadable request.
	ExitBadRequest = 2
	// ExitToolNotStarted is the exit code when the build tool cannot be started.
	ExitToolNotStarted = 127
)

// Serve reads one WorkerRequest from stdin, runs the build tool with the
// request's arguments plus --devdir in the current directory, and returns the
// process exit code to use.
func Serve(ctx context.Context, stdin io.Reader, stdout, stderr io.Writer) int {
	var req domain.WorkerRequest
	if err := json.NewDecoder(stdin).Decode(&req); err != nil {
		_, _ = fmt.Fprintf(stderr, "%s: %v\n", domain.ErrWorkerRequestInvalid, err)
		return ExitBadRequest
	}

	args := append(append([]string{}, req.BuildArgs...), "--devdir="+req.WorkDir)

	cmd := exec.CommandContext(ctx, resolveTool(req.Tool), args...) //nolint:gosec // build tool is operator supplied
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	err := cmd.Run()
	if err == nil {
		return 0
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() >= 0 {
		return exitErr.ExitCode()
	}

	_, _ = fmt.Fprintf(stderr, "failed to run %s for %s: %v\n", cmd.Path, req.ModuleName, err)
	return ExitToolNotStarted
}

func resolveTool(requested string) string {
	if requested != "" {
		return requested
	}
	if tool := os.Getenv(BuildToolEnvVar); tool != "" {
		return tool
	}
	return DefaultBuildTool
}
