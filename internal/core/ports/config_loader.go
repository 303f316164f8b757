package ports

import "go.trai.ch/rebuild/internal/core/domain"

// ConfigLoader defines the interface for loading run defaults.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the defaults file. When path is empty, the file is looked up by
	// walking up from cwd. A missing file yields empty defaults.
	Load(cwd, path string) (*domain.Defaults, error)

	// DiscoverProjectRoot walks up from cwd to the topmost directory holding a
	// package manager lock file. It returns cwd when there is none.
	DiscoverProjectRoot(cwd string) (string, error)
}
