// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/rebuild/internal/adapters/archive"
	_ "go.trai.ch/rebuild/internal/adapters/config"
	_ "go.trai.ch/rebuild/internal/adapters/fetcher"
	_ "go.trai.ch/rebuild/internal/adapters/host"
	_ "go.trai.ch/rebuild/internal/adapters/logger"
	_ "go.trai.ch/rebuild/internal/adapters/manifest"
	_ "go.trai.ch/rebuild/internal/adapters/meta"
	_ "go.trai.ch/rebuild/internal/adapters/telemetry"
	_ "go.trai.ch/rebuild/internal/adapters/worker"
	// Register app nodes.
	_ "go.trai.ch/rebuild/internal/app"
)
