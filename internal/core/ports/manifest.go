package ports

import "go.trai.ch/rebuild/internal/core/domain"

// ManifestReader reads module manifests.
//
//go:generate mockgen -source=manifest.go -destination=mocks/mock_manifest.go -package=mocks
type ManifestReader interface {
	// Read parses the manifest at the root of moduleDir.
	Read(moduleDir string) (*domain.Manifest, error)
}
