// Package config loads run defaults and discovers the project root.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/rebuild/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct{}

// NewLoader creates a new Loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads the defaults file at path, or the nearest .rebuildrc.yaml found
// walking up from cwd when path is empty.
func (l *Loader) Load(cwd, path string) (*domain.Defaults, error) {
	if path == "" {
		path = l.findConfiguration(cwd)
		if path == "" {
			return &domain.Defaults{}, nil
		}
	} else if !filepath.IsAbs(path) {
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path) //nolint:gosec // discovered or user-supplied config file
	if err != nil {
		return nil, errors.Join(domain.ErrConfig,
			zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", path))
	}

	var rc RCFile
	if err := yaml.Unmarshal(data, &rc); err != nil {
		return nil, errors.Join(domain.ErrConfig,
			zerr.With(zerr.Wrap(err, domain.ErrConfigParseFailed.Error()), "path", path))
	}

	return toDefaults(&rc, path)
}

func (l *Loader) findConfiguration(cwd string) string {
	for dir := cwd; ; {
		candidate := filepath.Join(dir, domain.ConfigFileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

func toDefaults(rc *RCFile, path string) (*domain.Defaults, error) {
	mode := domain.Mode(strings.TrimSpace(rc.Mode))
	switch mode {
	case "", domain.ModeSequential, domain.ModeParallel:
	default:
		return nil, errors.Join(domain.ErrConfig, zerr.With(zerr.With(domain.ErrUnknownMode, "mode", rc.Mode), "path", path))
	}

	if len(rc.Types) > 0 {
		if _, err := domain.ParseDependencyTypes(rc.Types); err != nil {
			return nil, zerr.With(err, "path", path)
		}
	}

	gypDir := rc.Build.GypDir
	if gypDir != "" && !filepath.IsAbs(gypDir) {
		gypDir = filepath.Join(filepath.Dir(path), gypDir)
	}

	return &domain.Defaults{
		Types:               rc.Types,
		Extra:               rc.Extra,
		Ignore:              rc.Ignore,
		Mode:                mode,
		Arch:                rc.Arch,
		NodeVersion:         strings.TrimPrefix(rc.Node.Version, "v"),
		HeadersURL:          rc.Node.HeadersURL,
		LibraryURL:          rc.Node.LibraryURL,
		BuildTool:           rc.Build.Tool,
		GypDir:              gypDir,
		DisableArtifactCopy: rc.DisableArtifactCopy,
	}, nil
}

// DiscoverProjectRoot returns the topmost ancestor of cwd (cwd included) that
// holds a package manager lock file, or cwd when none does.
func (l *Loader) DiscoverProjectRoot(cwd string) (string, error) {
	abs, err := filepath.Abs(cwd)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to resolve working directory"), "cwd", cwd)
	}

	root := abs
	for dir := abs; ; {
		if l.hasLockFile(dir) {
			root = dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return root, nil
		}
		dir = parent
	}
}

func (l *Loader) hasLockFile(dir string) bool {
	for _, name := range domain.LockFileNames {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return true
		}
	}
	return false
}
