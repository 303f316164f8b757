// Package meta implements the per-module build cache marker.
package meta

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/rebuild/internal/core/domain"
	"go.trai.ch/zerr"
)

// Store implements ports.MarkerStore with one plain-text file per module and
// build type, at build/<Debug|Release>/.forge-meta inside the module.
type Store struct{}

// NewStore creates a new MarkerStore.
func NewStore() *Store {
	return &Store{}
}

// Get returns the marker content, or "" when the marker does not exist.
func (s *Store) Get(modulePath string, buildType domain.BuildType) (string, error) {
	filename := domain.MetaPath(modulePath, buildType)
	//nolint:gosec // Path is built from the module directory and fixed names
	data, err := os.ReadFile(filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", errors.Join(domain.ErrCacheIO,
			zerr.With(zerr.Wrap(err, domain.ErrMetaReadFailed.Error()), "path", filename))
	}
	return string(data), nil
}

// Put writes the marker content verbatim.
func (s *Store) Put(modulePath string, buildType domain.BuildType, data string) error {
	filename := domain.MetaPath(modulePath, buildType)
	if err := os.MkdirAll(filepath.Dir(filename), domain.DirPerm); err != nil {
		return errors.Join(domain.ErrCacheIO,
			zerr.With(zerr.Wrap(err, domain.ErrMetaWriteFailed.Error()), "path", filename))
	}

	//nolint:gosec // Path is built from the module directory and fixed names
	if err := os.WriteFile(filename, []byte(data), domain.FilePerm); err != nil {
		return errors.Join(domain.ErrCacheIO,
			zerr.With(zerr.Wrap(err, domain.ErrMetaWriteFailed.Error()), "path", filename))
	}
	return nil
}
