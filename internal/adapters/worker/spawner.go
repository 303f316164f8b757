// Package worker runs native builds in a child process of this executable.
//
// The parent side (Spawner) starts "<self> worker", writes one JSON request to
// the child's stdin and captures its combined output. The child side (Serve)
// runs the build tool and exits with the tool's exit code.
package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"

	"github.com/creack/pty"
	"go.trai.ch/rebuild/internal/core/domain"
	"go.trai.ch/rebuild/internal/core/ports"
	"go.trai.ch/zerr"
)

// Spawner implements ports.WorkerSpawner.
type Spawner struct {
	executable string
	args       []string
	env        []string
	logger     ports.Logger
	usePTY     bool
}

// NewSpawner creates a Spawner that re-executes the running binary with the
// hidden worker subcommand.
func NewSpawner(logger ports.Logger) (*Spawner, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, zerr.Wrap(err, "failed to determine executable path")
	}
	return NewSpawnerFor(exe, []string{"worker"}, nil, logger), nil
}

// NewSpawnerFor creates a Spawner for an arbitrary worker command. env is
// appended to the inherited environment.
func NewSpawnerFor(executable string, args, env []string, logger ports.Logger) *Spawner {
	return &Spawner{
		executable: executable,
		args:       args,
		env:        env,
		logger:     logger,
		usePTY:     true,
	}
}

// WithoutPTY forces plain pipe capture.
func (s *Spawner) WithoutPTY() *Spawner {
	s.usePTY = false
	return s
}

// Spawn runs one worker in dir and waits for it.
func (s *Spawner) Spawn(ctx context.Context, dir string, req domain.WorkerRequest) (domain.WorkerResult, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return domain.WorkerResult{}, zerr.Wrap(err, domain.ErrWorkerRequestInvalid.Error())
	}

	cmd := exec.CommandContext(ctx, s.executable, s.args...) //nolint:gosec // re-executes this binary
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), s.env...)
	cmd.Stdin = bytes.NewReader(payload)

	var output syncBuffer
	live := &logWriter{logger: s.logger, prefix: req.ModuleName}
	sink := io.MultiWriter(&output, live)

	if s.usePTY {
		err = runPTY(cmd, sink)
		if errors.Is(err, errNoPTY) {
			err = runPipes(cmd, sink)
		}
	} else {
		err = runPipes(cmd, sink)
	}
	_ = live.Close()

	result := domain.WorkerResult{Output: output.Bytes()}
	if err == nil {
		return result, nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return result, zerr.Wrap(ctxErr, "build worker interrupted")
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
		return result, nil
	}

	return result, zerr.With(zerr.Wrap(err, domain.ErrWorkerStartFailed.Error()), "module", req.ModuleName)
}

var errNoPTY = errors.New("pseudo-terminal unavailable")

// runPTY attaches the child's stdout and stderr to one pseudo-terminal so the
// build tool sees a terminal and both streams interleave as printed.
func runPTY(cmd *exec.Cmd, sink io.Writer) error {
	ptmx, tty, err := pty.Open()
	if err != nil {
		return errors.Join(errNoPTY, err)
	}
	defer func() { _ = ptmx.Close() }()

	cmd.Stdout = tty
	cmd.Stderr = tty

	if err := cmd.Start(); err != nil {
		_ = tty.Close()
		return err
	}
	// The child holds its own copy; closing ours lets reads end with EIO on exit.
	_ = tty.Close()

	ioDone := make(chan struct{})
	go func() {
		defer close(ioDone)
		_, _ = io.Copy(sink, ptmx)
	}()

	err = cmd.Wait()
	<-ioDone
	return err
}

func runPipes(cmd *exec.Cmd, sink io.Writer) error {
	cmd.Stdout = sink
	cmd.Stderr = sink
	return cmd.Run()
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return bytes.Clone(b.buf.Bytes())
}

// logWriter forwards complete output lines to the debug log.
type logWriter struct {
	logger ports.Logger
	prefix string
	buf    []byte
}

func (w *logWriter) Write(p []byte) (int, error) {
	w.buf = append(w.buf, p...)
	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		w.logLine(w.buf[:i])
		w.buf = w.buf[i+1:]
	}
	return len(p), nil
}

func (w *logWriter) Close() error {
	if len(w.buf) > 0 {
		w.logLine(w.buf)
		w.buf = nil
	}
	return nil
}

func (w *logWriter) logLine(line []byte) {
	if w.logger == nil {
		return
	}
	// PTYs may introduce \r.
	msg := strings.TrimSuffix(string(line), "\r")
	w.logger.Debug("[" + w.prefix + "] " + msg)
}
