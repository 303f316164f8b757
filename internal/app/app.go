// Package app implements the application layer for rebuild.
package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"go.trai.ch/rebuild/internal/adapters/detector"  //nolint:depguard // Wired in app layer
	"go.trai.ch/rebuild/internal/adapters/linear"    //nolint:depguard // Wired in app layer
	"go.trai.ch/rebuild/internal/adapters/telemetry" //nolint:depguard // Wired in app layer
	"go.trai.ch/rebuild/internal/adapters/tui"       //nolint:depguard // Wired in app layer
	"go.trai.ch/rebuild/internal/core/domain"
	"go.trai.ch/rebuild/internal/core/ports"
	"go.trai.ch/rebuild/internal/engine/assets"
	"go.trai.ch/rebuild/internal/engine/lifecycle"
	"go.trai.ch/rebuild/internal/engine/orchestrator"
	"go.trai.ch/rebuild/internal/engine/rebuilder"
	"go.trai.ch/rebuild/internal/engine/walker"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultNodeVersion is the runtime version targeted when none is configured.
	DefaultNodeVersion = "22.6.0"
	// ToolsetEnvVar selects the build tool's toolset on the host.
	ToolsetEnvVar = "GYP_MSVS_VERSION"

	// LogFormatPretty renders log records as colored lines.
	LogFormatPretty = "pretty"
	// LogFormatJSON renders log records as one JSON object per line.
	LogFormatJSON = "json"
)

// jsonLogger is implemented by loggers that can switch to JSON records.
type jsonLogger interface {
	SetJSON(enable bool)
}

// Components groups the objects main needs from the dependency graph.
type Components struct {
	App    *App
	Logger ports.Logger
}

// Adapters are the ports the App drives.
type Adapters struct {
	ConfigLoader ports.ConfigLoader
	Host         ports.HostProbe
	Fetcher      ports.Fetcher
	Extractor    ports.ArchiveExtractor
	Manifests    ports.ManifestReader
	Store        ports.MarkerStore
	Spawner      ports.WorkerSpawner
	Logger       ports.Logger
	Tracer       ports.Tracer
	// Bridge forwards completed build spans to the active renderer. Optional.
	Bridge *telemetry.Bridge
}

// App represents the main application logic.
type App struct {
	adapters   Adapters
	teaOptions []tea.ProgramOption
	stderr     io.Writer
	getenv     func(string) string
	homeDir    func() (string, error)
	detect     func() detector.OutputMode
}

// New creates a new App instance.
func New(adapters Adapters) *App {
	return &App{
		adapters: adapters,
		stderr:   os.Stderr,
		getenv:   os.Getenv,
		homeDir:  os.UserHomeDir,
		detect:   detector.DetectEnvironment,
	}
}

// WithTeaOptions adds bubbletea program options to the App.
// This is primarily used for testing to disable input/output.
func (a *App) WithTeaOptions(opts ...tea.ProgramOption) *App {
	a.teaOptions = append(a.teaOptions, opts...)
	return a
}

// WithStderr redirects progress and failed build output.
func (a *App) WithStderr(w io.Writer) *App {
	a.stderr = w
	return a
}

// WithEnv replaces the environment lookup.
func (a *App) WithEnv(getenv func(string) string) *App {
	a.getenv = getenv
	return a
}

// WithHomeDir replaces the home directory lookup used for the default gyp dir.
func (a *App) WithHomeDir(home func() (string, error)) *App {
	a.homeDir = home
	return a
}

// RunOptions configuration for the Run method. Zero values fall back to the
// defaults file, then to built-in defaults.
type RunOptions struct {
	// WorkingDir is the directory relative paths resolve against. Defaults to the process cwd.
	WorkingDir string
	// ConfigPath is an explicit defaults file.
	ConfigPath string
	// OutputMode is one of auto, tui and linear.
	OutputMode string
	// LogFormat is pretty or json. Empty means pretty.
	LogFormat string

	ModuleDir    string
	Arch         string
	Force        bool
	Debug        bool
	Parallel     bool
	Sequential   bool
	Types        []string
	WhichModules []string
	// Only is nil when no filter was given.
	Only              []string
	Ignore            []string
	DistURL           string
	ForceABI          string
	DisablePreGypCopy bool

	NodeDir     string
	NodeLibFile string
	NodeVersion string
}

func (a *App) setLogFormat(format string) error {
	var enable bool
	switch format {
	case "", LogFormatPretty:
	case LogFormatJSON:
		enable = true
	default:
		return errors.Join(domain.ErrConfig, zerr.With(domain.ErrUnknownLogFormat, "log_format", format))
	}
	if l, ok := a.adapters.Logger.(jsonLogger); ok {
		l.SetJSON(enable)
	}
	return nil
}

// Run rebuilds the native modules selected by opts.
func (a *App) Run(ctx context.Context, opts RunOptions) error {
	if err := a.setLogFormat(opts.LogFormat); err != nil {
		return err
	}

	cwd := opts.WorkingDir
	if cwd == "" {
		wd, err := os.Getwd()
		if err != nil {
			return zerr.Wrap(err, "failed to determine working directory")
		}
		cwd = wd
	}

	cfg, err := a.Config(cwd, opts)
	if err != nil {
		return err
	}

	requested, err := detector.ParseMode(opts.OutputMode)
	if err != nil {
		return err
	}
	mode := detector.ResolveMode(a.detect(), requested)

	// Output of failed builds is held back while the TUI owns the terminal.
	console := &deferredWriter{out: a.stderr, hold: mode == detector.ModeTUI}
	defer console.Flush()

	var renderer ports.Renderer
	if mode == detector.ModeTUI {
		model := tui.NewModel(a.stderr)
		optsTea := append([]tea.ProgramOption{tea.WithContext(ctx), tea.WithOutput(a.stderr)}, a.teaOptions...)
		renderer = tui.NewRenderer(&model, optsTea...)
	} else {
		renderer = linear.NewRenderer(a.stderr)
	}

	if a.adapters.Bridge != nil {
		a.adapters.Bridge.SetRenderer(renderer)
		defer a.adapters.Bridge.SetRenderer(nil)
	}

	orch := a.newOrchestrator(console)
	orch.Subscribe(renderer.OnEvent)

	workCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	workDone := make(chan struct{})

	var g errgroup.Group

	g.Go(func() error {
		if err := renderer.Start(workCtx); err != nil {
			return err
		}
		err := renderer.Wait()
		// A TUI closed by the user ends the run.
		if mode == detector.ModeTUI {
			select {
			case <-workDone:
			default:
				cancel()
			}
		}
		return err
	})

	g.Go(func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = zerr.With(zerr.New("rebuild panicked"), "panic", fmt.Sprint(r))
			}
			close(workDone)
			_ = renderer.Stop()
		}()
		return orch.Run(workCtx, cfg)
	})

	return g.Wait()
}

func (a *App) newOrchestrator(console io.Writer) *orchestrator.Orchestrator {
	ad := a.adapters
	factory := func(cfg *domain.RebuildConfig, rt domain.Runtime, bus *lifecycle.Bus) orchestrator.ModuleBuilder {
		return rebuilder.New(cfg, rt, rebuilder.Deps{
			Manifests: ad.Manifests,
			Store:     ad.Store,
			Spawner:   ad.Spawner,
			Host:      ad.Host,
			Logger:    ad.Logger,
			Tracer:    ad.Tracer,
			Bus:       bus,
			Console:   console,
		})
	}

	return orchestrator.New(
		assets.NewProvisioner(ad.Fetcher, ad.Extractor, ad.Logger),
		walker.New(ad.Manifests, ad.Logger, ad.Tracer),
		factory,
		ad.Logger,
		ad.Tracer,
	)
}

// Config resolves opts against the defaults file and the host into the
// configuration of one run. Flags win over the defaults file, which wins over
// built-in defaults.
//
//nolint:cyclop,funlen // flat precedence resolution
func (a *App) Config(cwd string, opts RunOptions) (*domain.RebuildConfig, error) {
	defaults, err := a.adapters.ConfigLoader.Load(cwd, opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	buildPath, err := resolveBuildPath(cwd, opts.ModuleDir)
	if err != nil {
		return nil, err
	}

	projectRoot, err := a.adapters.ConfigLoader.DiscoverProjectRoot(cwd)
	if err != nil {
		return nil, errors.Join(domain.ErrConfig, err)
	}

	nodeVersion := strings.TrimPrefix(first(opts.NodeVersion, defaults.NodeVersion, DefaultNodeVersion), "v")
	abi, err := domain.ResolveABI(nodeVersion, opts.ForceABI)
	if err != nil {
		return nil, err
	}

	types := domain.DefaultDependencyTypes
	if raw := firstList(opts.Types, defaults.Types); len(raw) > 0 {
		if types, err = domain.ParseDependencyTypes(raw); err != nil {
			return nil, err
		}
	}

	mode, err := resolveMode(opts, defaults.Mode)
	if err != nil {
		return nil, err
	}

	buildType := domain.BuildRelease
	if opts.Debug {
		buildType = domain.BuildDebug
	}

	gypDir := defaults.GypDir
	if gypDir == "" {
		home, err := a.homeDir()
		if err != nil {
			return nil, errors.Join(domain.ErrConfig, zerr.Wrap(err, "failed to determine home directory"))
		}
		gypDir = filepath.Join(home, domain.GypDirName)
	}

	return &domain.RebuildConfig{
		BuildPath:           buildPath,
		ProjectRootPath:     projectRoot,
		Platform:            a.adapters.Host.Platform(),
		Arch:                first(opts.Arch, defaults.Arch, a.adapters.Host.Arch()),
		ABI:                 abi,
		BuildType:           buildType,
		Mode:                mode,
		Force:               opts.Force,
		Types:               types,
		OnlyModules:         opts.Only,
		ExtraModules:        merge(opts.WhichModules, defaults.Extra),
		IgnoreModules:       merge(opts.Ignore, defaults.Ignore),
		NodeVersion:         nodeVersion,
		NodeDir:             absOrEmpty(cwd, opts.NodeDir),
		NodeLibFile:         absOrEmpty(cwd, opts.NodeLibFile),
		HeadersURL:          first(opts.DistURL, defaults.HeadersURL),
		LibraryURL:          defaults.LibraryURL,
		DisableArtifactCopy: opts.DisablePreGypCopy || defaults.DisableArtifactCopy,
		BuildTool:           defaults.BuildTool,
		ToolsetVersion:      a.getenv(ToolsetEnvVar),
		GypDir:              gypDir,
	}, nil
}

// resolveBuildPath returns the module dir resolved against cwd, or cwd itself
// when it holds a manifest.
func resolveBuildPath(cwd, moduleDir string) (string, error) {
	if moduleDir != "" {
		return absOrEmpty(cwd, moduleDir), nil
	}
	if _, err := os.Stat(filepath.Join(cwd, domain.ManifestFileName)); err != nil {
		return "", errors.Join(domain.ErrConfig, zerr.With(domain.ErrBuildRootNotFound, "cwd", cwd))
	}
	return cwd, nil
}

func resolveMode(opts RunOptions, fallback domain.Mode) (domain.Mode, error) {
	switch {
	case opts.Parallel && opts.Sequential:
		return "", errors.Join(domain.ErrConfig, domain.ErrInvalidMode)
	case opts.Parallel:
		return domain.ModeParallel, nil
	case opts.Sequential:
		return domain.ModeSequential, nil
	case fallback != "":
		return fallback, nil
	default:
		return domain.ModeSequential, nil
	}
}

func absOrEmpty(cwd, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(cwd, path)
}

func first(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstList(values ...[]string) []string {
	for _, v := range values {
		if len(v) > 0 {
			return v
		}
	}
	return nil
}

func merge(a, b []string) []string {
	out := make([]string, 0, len(a)+len(b))
	seen := make(map[string]struct{}, len(a)+len(b))
	for _, v := range append(append([]string{}, a...), b...) {
		if _, ok := seen[v]; ok || v == "" {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// deferredWriter buffers writes while hold is set and releases them on Flush.
type deferredWriter struct {
	mu   sync.Mutex
	out  io.Writer
	hold bool
	buf  bytes.Buffer
}

func (w *deferredWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.hold {
		return w.buf.Write(p)
	}
	return w.out.Write(p)
}

// Flush writes out anything held back.
func (w *deferredWriter) Flush() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.buf.Len() > 0 {
		_, _ = w.buf.WriteTo(w.out)
	}
	w.hold = false
}
