// Package manifest reads package.json manifests.
package manifest

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"go.trai.ch/rebuild/internal/core/domain"
	"go.trai.ch/zerr"
)

// Reader implements ports.ManifestReader. Parsed manifests are memoized by
// directory for the lifetime of the reader.
type Reader struct {
	mu    sync.Mutex
	cache map[string]*domain.Manifest
}

// NewReader creates a new Reader.
func NewReader() *Reader {
	return &Reader{cache: make(map[string]*domain.Manifest)}
}

// Read parses moduleDir/package.json.
func (r *Reader) Read(moduleDir string) (*domain.Manifest, error) {
	r.mu.Lock()
	cached, ok := r.cache[moduleDir]
	r.mu.Unlock()
	if ok {
		return cached, nil
	}

	path := filepath.Join(moduleDir, domain.ManifestFileName)
	//nolint:gosec // Path is built from a discovered module directory
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Join(domain.ErrManifestRead, zerr.With(zerr.Wrap(err, "failed to read file"), "path", path))
	}

	var m domain.Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.Join(domain.ErrManifestRead, zerr.With(zerr.Wrap(err, "failed to parse json"), "path", path))
	}

	r.mu.Lock()
	r.cache[moduleDir] = &m
	r.mu.Unlock()
	return &m, nil
}
