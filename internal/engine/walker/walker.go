// Package walker computes the set of modules that need a native rebuild.
package walker

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/rebuild/internal/core/domain"
	"go.trai.ch/rebuild/internal/core/ports"
	"go.trai.ch/zerr"
)

// Walker discovers modules below a build root.
type Walker struct {
	manifests ports.ManifestReader
	logger    ports.Logger
	tracer    ports.Tracer
}

// New creates a new Walker.
func New(manifests ports.ManifestReader, logger ports.Logger, tracer ports.Tracer) *Walker {
	return &Walker{manifests: manifests, logger: logger, tracer: tracer}
}

// edge is a declared dependency of a manifest.
type edge struct {
	name string
	typ  domain.DependencyType
}

// walk holds the state of one Walk call.
type walk struct {
	*Walker
	cfg *domain.RebuildConfig

	// stopAt bounds node-style resolution and supplementary root discovery.
	stopAt string
	// best maps a resolved module path to the most permissive classification seen.
	best map[string]domain.DependencyType
	// seen dedupes enumerated modules by resolved path.
	seen    map[string]bool
	modules []domain.Module
}

// Walk returns the modules of cfg's tree that need a native rebuild, in
// discovery order. The build root itself comes last when it has a build
// descriptor.
func (w *Walker) Walk(ctx context.Context, cfg *domain.RebuildConfig) (modules []domain.Module, err error) {
	if !filepath.IsAbs(cfg.BuildPath) {
		return nil, errors.Join(domain.ErrConfig, zerr.With(domain.ErrBuildPathNotAbsolute, "path", cfg.BuildPath))
	}

	ctx, span := w.tracer.Start(ctx, "walk")
	defer func() {
		if err != nil {
			span.RecordError(err)
		}
		span.SetAttribute("modules", len(modules))
		span.End()
	}()

	root := resolve(cfg.BuildPath)
	stopAt := cfg.ProjectRootPath
	if stopAt == "" || !within(root, resolve(stopAt)) {
		stopAt = root
	}

	s := &walk{
		Walker: w,
		cfg:    cfg,
		stopAt: resolve(stopAt),
		best:   make(map[string]domain.DependencyType),
		seen:   map[string]bool{root: true},
	}

	s.classifyRoot(root)

	for _, dir := range s.roots(root) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := s.enumerate(dir); err != nil {
			return nil, err
		}
	}

	if exists(filepath.Join(root, domain.BuildDescriptorFileName)) {
		s.modules = append(s.modules, domain.Module{
			Path:               root,
			Name:               s.rootName(root),
			Type:               domain.DepProd,
			HasBuildDescriptor: true,
		})
	}

	return s.modules, nil
}

// classifyRoot walks the declared dependency graph from the root manifest.
func (s *walk) classifyRoot(root string) {
	m, err := s.manifests.Read(root)
	if err != nil {
		s.warnManifest(root, err)
		return
	}
	s.visit(root, m, domain.DepProd, true)
}

func (s *walk) visit(dir string, m *domain.Manifest, typ domain.DependencyType, isRoot bool) {
	for _, e := range edges(m, isRoot) {
		path := s.lookup(dir, e.name)
		if path == "" {
			if e.typ != domain.DepOptional {
				s.logger.Debug(fmt.Sprintf("%s: dependency %s is not installed", dir, e.name))
			}
			continue
		}

		t := typ.Narrow(e.typ)
		if s.best[path].Rank() >= t.Rank() {
			continue
		}
		s.best[path] = t

		child, err := s.manifests.Read(path)
		if err != nil {
			s.warnManifest(path, err)
			continue
		}
		s.visit(path, child, t, false)
	}
}

// edges lists the declared dependencies of m. Development dependencies only
// count for the build root.
func edges(m *domain.Manifest, isRoot bool) []edge {
	var out []edge
	add := func(deps map[string]string, typ domain.DependencyType) {
		names := make([]string, 0, len(deps))
		for name := range deps {
			names = append(names, name)
		}
		slices.Sort(names)
		for _, name := range names {
			out = append(out, edge{name: name, typ: typ})
		}
	}

	add(m.Dependencies, domain.DepProd)
	add(m.OptionalDependencies, domain.DepOptional)
	if isRoot {
		add(m.DevDependencies, domain.DepDev)
	}
	return out
}

// lookup resolves name from dir the way the runtime does: dir/node_modules/name,
// then each ancestor's node_modules, up to the project root.
func (s *walk) lookup(dir, name string) string {
	for {
		candidate := filepath.Join(dir, domain.NodeModulesDirName, filepath.FromSlash(name))
		if isDir(candidate) {
			return resolve(candidate)
		}
		if dir == s.stopAt {
			return ""
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// roots returns the module directories to enumerate: the build root's own,
// then those of every ancestor up to the project root (workspace layouts).
func (s *walk) roots(root string) []string {
	var dirs []string
	dir := root
	for {
		nm := filepath.Join(dir, domain.NodeModulesDirName)
		if isDir(nm) {
			dirs = append(dirs, nm)
		}
		if dir == s.stopAt {
			return dirs
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dirs
		}
		dir = parent
	}
}

// enumerate visits every module directory in a node_modules directory,
// expanding scopes and recursing into nested node_modules.
func (s *walk) enumerate(nodeModules string) error {
	entries, err := os.ReadDir(nodeModules)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return zerr.With(zerr.Wrap(err, "failed to read module directory"), "path", nodeModules)
	}

	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		path := filepath.Join(nodeModules, name)
		if !isDir(path) {
			continue
		}

		if strings.HasPrefix(name, "@") {
			if err := s.enumerateScope(path); err != nil {
				return err
			}
			continue
		}
		if err := s.consider(path); err != nil {
			return err
		}
	}
	return nil
}

func (s *walk) enumerateScope(scopeDir string) error {
	entries, err := os.ReadDir(scopeDir)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to read scope directory"), "path", scopeDir)
	}
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		path := filepath.Join(scopeDir, entry.Name())
		if !isDir(path) {
			continue
		}
		if err := s.consider(path); err != nil {
			return err
		}
	}
	return nil
}

// consider applies the admission filter to the module at path and recurses
// into its nested module directory. Each resolved path is considered once.
func (s *walk) consider(path string) error {
	resolved := resolve(path)
	if s.seen[resolved] {
		return nil
	}
	s.seen[resolved] = true

	mod := domain.Module{
		Path:               resolved,
		Name:               domain.ModuleName(path),
		Type:               s.best[resolved],
		HasBuildDescriptor: exists(filepath.Join(resolved, domain.BuildDescriptorFileName)),
	}
	if s.admit(mod) {
		s.modules = append(s.modules, mod)
	}

	return s.enumerate(filepath.Join(resolved, domain.NodeModulesDirName))
}

// admit reports whether mod passes the type, only, extra and ignore filters
// and has a build descriptor.
func (s *walk) admit(mod domain.Module) bool {
	if !mod.HasBuildDescriptor {
		return false
	}
	if s.cfg.IsIgnored(mod.Name) {
		return false
	}
	if s.cfg.OnlyModules != nil && !slices.Contains(s.cfg.OnlyModules, mod.Name) {
		return false
	}

	types := s.cfg.Types
	if len(types) == 0 {
		types = domain.DefaultDependencyTypes
	}
	if mod.Type != "" && slices.Contains(types, mod.Type) {
		return true
	}
	return slices.Contains(s.cfg.ExtraModules, mod.Name)
}

func (s *walk) rootName(root string) string {
	if m, err := s.manifests.Read(root); err == nil && m.Name != "" {
		return m.Name
	}
	return filepath.Base(root)
}

func (s *walk) warnManifest(path string, err error) {
	s.logger.Warn(fmt.Sprintf("skipping %s: manifest could not be read", path))
	s.logger.Debug(err.Error())
}

// resolve returns the symlink-free form of path, or path itself when it
// cannot be resolved.
func resolve(path string) string {
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		return resolved
	}
	return filepath.Clean(path)
}

func within(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
