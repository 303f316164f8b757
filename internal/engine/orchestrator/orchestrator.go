// Package orchestrator runs a complete rebuild: runtime assets, module
// discovery and per-module builds, sequentially or in parallel.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"go.trai.ch/rebuild/internal/core/domain"
	"go.trai.ch/rebuild/internal/core/ports"
	"go.trai.ch/rebuild/internal/engine/lifecycle"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// AssetProvisioner makes the target runtime assets available.
type AssetProvisioner interface {
	Ensure(ctx context.Context, cfg *domain.RebuildConfig) (domain.Runtime, error)
}

// ModuleWalker discovers the modules to rebuild.
type ModuleWalker interface {
	Walk(ctx context.Context, cfg *domain.RebuildConfig) ([]domain.Module, error)
}

// ModuleBuilder drives one module through the build unit.
type ModuleBuilder interface {
	Rebuild(ctx context.Context, mod domain.Module) error
}

// BuilderFactory creates the module builder of one run.
type BuilderFactory func(cfg *domain.RebuildConfig, rt domain.Runtime, bus *lifecycle.Bus) ModuleBuilder

// Orchestrator coordinates a rebuild run.
type Orchestrator struct {
	assets     AssetProvisioner
	walker     ModuleWalker
	newBuilder BuilderFactory
	logger     ports.Logger
	tracer     ports.Tracer
	bus        *lifecycle.Bus
}

// New creates a new Orchestrator.
func New(
	assets AssetProvisioner,
	walker ModuleWalker,
	newBuilder BuilderFactory,
	logger ports.Logger,
	tracer ports.Tracer,
) *Orchestrator {
	return &Orchestrator{
		assets:     assets,
		walker:     walker,
		newBuilder: newBuilder,
		logger:     logger,
		tracer:     tracer,
		bus:        lifecycle.NewBus(),
	}
}

// Subscribe registers l for the lifecycle events of subsequent runs.
func (o *Orchestrator) Subscribe(l lifecycle.Listener) {
	o.bus.Subscribe(l)
}

// Run rebuilds the modules of cfg. Configuration and asset failures abort the
// run before any module is touched. In sequential mode the first failing
// module stops the run; in parallel mode every module build runs to
// completion and the first failure is returned.
func (o *Orchestrator) Run(ctx context.Context, cfg *domain.RebuildConfig) (err error) {
	if !filepath.IsAbs(cfg.BuildPath) {
		return errors.Join(domain.ErrConfig, zerr.With(domain.ErrBuildPathNotAbsolute, "path", cfg.BuildPath))
	}

	ctx, span := o.tracer.Start(ctx, "rebuild")
	defer func() {
		if err != nil {
			span.RecordError(err)
		}
		span.End()
	}()

	rt, err := o.assets.Ensure(ctx, cfg)
	if err != nil {
		return err
	}

	o.bus.Start()

	modules, err := o.walker.Walk(ctx, cfg)
	if err != nil {
		return err
	}
	o.logger.Debug(fmt.Sprintf("found %d module(s) to rebuild in %s", len(modules), cfg.BuildPath))

	builder := o.newBuilder(cfg, rt, o.bus)

	if cfg.Mode == domain.ModeParallel {
		return o.parallel(ctx, builder, modules)
	}
	return o.sequential(ctx, builder, modules)
}

func (o *Orchestrator) sequential(ctx context.Context, builder ModuleBuilder, modules []domain.Module) error {
	for _, mod := range modules {
		o.bus.ModuleFound(mod.Name)
		if err := builder.Rebuild(ctx, mod); err != nil {
			return err
		}
	}
	return nil
}

// parallel starts every build at once. The group carries no derived context,
// so a failing build never cancels its siblings.
func (o *Orchestrator) parallel(ctx context.Context, builder ModuleBuilder, modules []domain.Module) error {
	var g errgroup.Group
	for _, mod := range modules {
		g.Go(func() error {
			o.bus.ModuleFound(mod.Name)
			return builder.Rebuild(ctx, mod)
		})
	}
	return g.Wait()
}
