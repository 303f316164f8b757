// Package assets provisions the target runtime's library file and header tree.
package assets

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/rebuild/internal/core/domain"
	"go.trai.ch/rebuild/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/singleflight"
)

const (
	// DefaultLibraryURL is the mirror base the runtime library is downloaded from.
	DefaultLibraryURL = "https://content.cfx.re/mirrors/vendor/node"
	// DefaultHeadersURL is the distribution base the header archive is downloaded from.
	DefaultHeadersURL = "https://nodejs.org/download/release"
)

// LibraryURL returns the download URL of the runtime library for version.
func LibraryURL(base, version string) string {
	if base == "" {
		base = DefaultLibraryURL
	}
	return strings.TrimSuffix(base, "/") + "/v" + version + "/libnode/" + domain.LibraryFileName(version)
}

// HeadersURL returns the download URL of the header archive for version.
func HeadersURL(base, version string) string {
	if base == "" {
		base = DefaultHeadersURL
	}
	return strings.TrimSuffix(base, "/") + "/v" + version + "/" + domain.HeadersArchiveName(version)
}

// Provisioner makes sure the runtime assets exist under the build root.
// Existing files are reused; concurrent calls for the same file in one
// process share a single download. Separate processes are not coordinated.
type Provisioner struct {
	fetcher   ports.Fetcher
	extractor ports.ArchiveExtractor
	logger    ports.Logger
	group     singleflight.Group
}

// NewProvisioner creates a new Provisioner.
func NewProvisioner(fetcher ports.Fetcher, extractor ports.ArchiveExtractor, logger ports.Logger) *Provisioner {
	return &Provisioner{fetcher: fetcher, extractor: extractor, logger: logger}
}

// Ensure returns the library file and header directory for cfg, downloading
// whatever is missing. Existing overrides in cfg win over the download.
func (p *Provisioner) Ensure(ctx context.Context, cfg *domain.RebuildConfig) (domain.Runtime, error) {
	lib, err := p.library(ctx, cfg)
	if err != nil {
		return domain.Runtime{}, err
	}

	dir, err := p.headers(ctx, cfg)
	if err != nil {
		return domain.Runtime{}, err
	}

	return domain.Runtime{NodeDir: dir, NodeLibFile: lib}, nil
}

func (p *Provisioner) library(ctx context.Context, cfg *domain.RebuildConfig) (string, error) {
	if cfg.NodeLibFile != "" && exists(cfg.NodeLibFile) {
		return cfg.NodeLibFile, nil
	}

	runtimeDir := domain.RuntimeDir(cfg.BuildPath, cfg.NodeVersion)
	path := filepath.Join(runtimeDir, domain.LibraryFileName(cfg.NodeVersion))

	_, err, _ := p.group.Do(path, func() (any, error) {
		if exists(path) {
			return nil, nil
		}

		url := LibraryURL(cfg.LibraryURL, cfg.NodeVersion)
		data, err := p.fetcher.Fetch(ctx, url)
		if err != nil {
			return nil, err
		}
		if err := os.MkdirAll(runtimeDir, domain.DirPerm); err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to create runtime directory"), "path", runtimeDir)
		}
		if err := os.WriteFile(path, data, domain.FilePerm); err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to write runtime library"), "path", path)
		}
		return nil, nil
	})
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrLibraryDownloadFailed.Error()), "version", cfg.NodeVersion)
	}
	return path, nil
}

func (p *Provisioner) headers(ctx context.Context, cfg *domain.RebuildConfig) (string, error) {
	if cfg.NodeDir != "" && exists(cfg.NodeDir) {
		return cfg.NodeDir, nil
	}

	runtimeDir := domain.RuntimeDir(cfg.BuildPath, cfg.NodeVersion)
	dir := filepath.Join(runtimeDir, domain.HeadersDirName(cfg.NodeVersion))

	_, err, _ := p.group.Do(dir, func() (any, error) {
		if exists(dir) {
			return nil, nil
		}

		url := HeadersURL(cfg.HeadersURL, cfg.NodeVersion)
		data, err := p.fetcher.Fetch(ctx, url)
		if err != nil {
			return nil, err
		}
		if err := os.MkdirAll(runtimeDir, domain.DirPerm); err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to create runtime directory"), "path", runtimeDir)
		}

		archive := filepath.Join(runtimeDir, domain.HeadersArchiveName(cfg.NodeVersion))
		if err := os.WriteFile(archive, data, domain.FilePerm); err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to write header archive"), "path", archive)
		}

		p.logger.Debug("extracting " + archive)
		if err := p.extractor.Extract(archive, runtimeDir); err != nil {
			return nil, err
		}
		if err := os.Remove(archive); err != nil && !errors.Is(err, os.ErrNotExist) {
			p.logger.Warn("could not remove " + archive + ": " + err.Error())
		}
		return nil, nil
	})
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrHeadersDownloadFailed.Error()), "version", cfg.NodeVersion)
	}
	return dir, nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
