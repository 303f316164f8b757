package ports

import "go.trai.ch/rebuild/internal/core/domain"

// MarkerStore defines the interface for the per-module build cache marker.
//
//go:generate mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type MarkerStore interface {
	// Get returns the marker content for a module and build type.
	// Returns "", nil if no marker exists.
	Get(modulePath string, buildType domain.BuildType) (string, error)

	// Put writes the marker content, creating parent directories as needed.
	Put(modulePath string, buildType domain.BuildType, data string) error
}
