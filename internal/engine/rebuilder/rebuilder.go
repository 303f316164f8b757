// Package rebuilder drives a single module through cache check, build and artifact relocation.
package rebuilder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/rebuild/internal/core/domain"
	"go.trai.ch/rebuild/internal/core/ports"
	"go.trai.ch/rebuild/internal/engine/lifecycle"
	"go.trai.ch/zerr"
)

// Rebuilder rebuilds individual modules for one run configuration.
type Rebuilder struct {
	cfg       *domain.RebuildConfig
	runtime   domain.Runtime
	manifests ports.ManifestReader
	store     ports.MarkerStore
	spawner   ports.WorkerSpawner
	host      ports.HostProbe
	logger    ports.Logger
	tracer    ports.Tracer
	bus       *lifecycle.Bus
	console   io.Writer
}

// Deps are the collaborators of a Rebuilder.
type Deps struct {
	Manifests ports.ManifestReader
	Store     ports.MarkerStore
	Spawner   ports.WorkerSpawner
	Host      ports.HostProbe
	Logger    ports.Logger
	Tracer    ports.Tracer
	Bus       *lifecycle.Bus
	// Console receives the captured output of failed builds. Defaults to stderr.
	Console io.Writer
}

// New creates a Rebuilder for cfg linking against runtime.
func New(cfg *domain.RebuildConfig, runtime domain.Runtime, deps Deps) *Rebuilder {
	console := deps.Console
	if console == nil {
		console = os.Stderr
	}
	return &Rebuilder{
		cfg:       cfg,
		runtime:   runtime,
		manifests: deps.Manifests,
		store:     deps.Store,
		spawner:   deps.Spawner,
		host:      deps.Host,
		logger:    deps.Logger,
		tracer:    deps.Tracer,
		bus:       deps.Bus,
		console:   console,
	}
}

// Rebuild builds mod unless it is ignored or already built for the current
// target. A skipped module emits module-skip then module-done; a built one
// emits module-done once its artifact and marker are in place.
func (r *Rebuilder) Rebuild(ctx context.Context, mod domain.Module) error {
	if r.cfg.IsIgnored(mod.Name) {
		r.logger.Debug(fmt.Sprintf("%s: ignored", mod.Name))
		r.skip(mod)
		return nil
	}

	built, err := r.alreadyBuilt(mod)
	if err != nil {
		return zerr.With(err, "module", mod.Name)
	}
	if built && !r.cfg.Force {
		r.logger.Debug(fmt.Sprintf("%s: already built for %s", mod.Name, r.cfg.MetaData()))
		r.skip(mod)
		return nil
	}

	if err := r.build(ctx, mod); err != nil {
		return err
	}

	r.bus.ModuleDone(mod.Name)
	return nil
}

func (r *Rebuilder) skip(mod domain.Module) {
	r.bus.ModuleSkipped(mod.Name)
	r.bus.ModuleDone(mod.Name)
}

// alreadyBuilt reports whether the module's marker matches the current target byte for byte.
func (r *Rebuilder) alreadyBuilt(mod domain.Module) (bool, error) {
	marker, err := r.store.Get(mod.Path, r.cfg.BuildType)
	if err != nil {
		return false, err
	}
	return marker == r.cfg.MetaData(), nil
}

func (r *Rebuilder) build(ctx context.Context, mod domain.Module) (err error) {
	ctx, span := r.tracer.Start(ctx, domain.BuildSpanName)
	span.SetAttribute(domain.ModuleSpanAttribute, mod.Name)
	defer func() {
		if err != nil {
			span.RecordError(err)
		}
		span.End()
	}()

	m, err := r.manifests.Read(mod.Path)
	if err != nil {
		return zerr.With(err, "module", mod.Name)
	}

	if strings.Contains(mod.Path, " ") {
		r.logger.Warn(fmt.Sprintf("%s: building a module with a space in its path, the build tool may not handle it", mod.Name))
	}

	args, unresolved := BuildArgs(ArgsInput{
		ModulePath:     mod.Path,
		Manifest:       m,
		BuildType:      r.cfg.BuildType,
		Platform:       r.cfg.Platform,
		Arch:           r.cfg.Arch,
		Libc:           r.host.Libc(),
		NodeDir:        r.runtime.NodeDir,
		NodeLibFile:    r.runtime.NodeLibFile,
		ToolsetVersion: r.cfg.ToolsetVersion,
	})
	if len(unresolved) > 0 {
		r.logger.Debug(fmt.Sprintf("%s: unresolved placeholders %s", mod.Name, strings.Join(unresolved, ", ")))
	}
	r.logger.Debug(fmt.Sprintf("%s: rebuilding with args %s", mod.Name, strings.Join(args, " ")))

	res, err := r.spawner.Spawn(ctx, mod.Path, domain.WorkerRequest{
		ModuleName: mod.Name,
		BuildArgs:  args,
		WorkDir:    r.workDir(mod),
		Tool:       r.cfg.BuildTool,
	})
	if err != nil {
		return zerr.With(err, "module", mod.Name)
	}
	if res.ExitCode != 0 {
		_, _ = r.console.Write(res.Output)
		return &domain.BuildError{
			Module:   mod.Name,
			Path:     mod.Path,
			ExitCode: res.ExitCode,
			Output:   res.Output,
		}
	}

	if err := r.relocate(mod); err != nil {
		return err
	}

	if err := r.store.Put(mod.Path, r.cfg.BuildType, r.cfg.MetaData()); err != nil {
		return zerr.With(err, "module", mod.Name)
	}
	return nil
}

// workDir returns the build tool work directory: shared when sequential,
// isolated per module when parallel.
func (r *Rebuilder) workDir(mod domain.Module) string {
	if r.cfg.Mode == domain.ModeParallel {
		return filepath.Join(r.cfg.GypDir, domain.ParallelGypDirName, filepath.FromSlash(mod.Name))
	}
	return r.cfg.GypDir
}

// relocate copies the compiled add-on into bin/<platform>-<arch>-<abi>/.
// A build without an add-on file is not an error.
func (r *Rebuilder) relocate(mod domain.Module) error {
	outDir := domain.BuildOutputDir(mod.Path, r.cfg.BuildType)
	entries, err := os.ReadDir(outDir)
	if err != nil {
		r.logger.Debug(fmt.Sprintf("%s: no build output in %s", mod.Name, outDir))
		return nil //nolint:nilerr // nothing to relocate
	}

	var addon string
	for _, e := range entries {
		if e.Name() != domain.AddonExt && strings.HasSuffix(e.Name(), domain.AddonExt) {
			addon = filepath.Join(outDir, e.Name())
			break
		}
	}
	if addon == "" {
		r.logger.Debug(fmt.Sprintf("%s: no %s file in %s", mod.Name, domain.AddonExt, outDir))
		return nil
	}
	if r.cfg.DisableArtifactCopy {
		return nil
	}

	dir := domain.ArtifactDir(mod.Path, r.cfg.Platform, r.cfg.Arch, r.cfg.ABI)
	dest := filepath.Join(dir, artifactName(mod.Name)+domain.AddonExt)
	r.logger.Debug(fmt.Sprintf("%s: copying %s to %s", mod.Name, addon, dest))

	if err := copyFile(addon, dest); err != nil {
		return errors.Join(domain.ErrCacheIO,
			zerr.With(zerr.With(zerr.Wrap(err, domain.ErrArtifactCopyFailed.Error()), "module", mod.Name), "path", dest))
	}
	return nil
}

// artifactName returns the last element of a possibly scoped module name.
func artifactName(name string) string {
	if i := strings.LastIndex(name, "/"); i >= 0 {
		return name[i+1:]
	}
	return name
}

func copyFile(src, dest string) (err error) {
	if err := os.MkdirAll(filepath.Dir(dest), domain.DirPerm); err != nil {
		return err
	}

	//nolint:gosec // Path is inside the module's build output
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	//nolint:gosec // Path is inside the module's artifact directory
	out, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, domain.FilePerm)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	_, err = io.Copy(out, in)
	return err
}
