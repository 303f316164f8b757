package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/rebuild/internal/adapters/archive"   //nolint:depguard // Wired in app layer
	"go.trai.ch/rebuild/internal/adapters/config"    //nolint:depguard // Wired in app layer
	"go.trai.ch/rebuild/internal/adapters/fetcher"   //nolint:depguard // Wired in app layer
	"go.trai.ch/rebuild/internal/adapters/host"      //nolint:depguard // Wired in app layer
	"go.trai.ch/rebuild/internal/adapters/logger"    //nolint:depguard // Wired in app layer
	"go.trai.ch/rebuild/internal/adapters/manifest"  //nolint:depguard // Wired in app layer
	"go.trai.ch/rebuild/internal/adapters/meta"      //nolint:depguard // Wired in app layer
	"go.trai.ch/rebuild/internal/adapters/telemetry" //nolint:depguard // Wired in app layer
	"go.trai.ch/rebuild/internal/adapters/worker"    //nolint:depguard // Wired in app layer
	"go.trai.ch/rebuild/internal/core/ports"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			host.NodeID,
			fetcher.NodeID,
			archive.NodeID,
			manifest.NodeID,
			meta.NodeID,
			worker.NodeID,
			logger.NodeID,
			telemetry.NodeID,
			telemetry.BridgeNodeID,
		},
		Run: func(ctx context.Context) (*App, error) {
			var (
				ad  Adapters
				err error
			)

			if ad.ConfigLoader, err = graft.Dep[ports.ConfigLoader](ctx); err != nil {
				return nil, err
			}
			if ad.Host, err = graft.Dep[ports.HostProbe](ctx); err != nil {
				return nil, err
			}
			if ad.Fetcher, err = graft.Dep[ports.Fetcher](ctx); err != nil {
				return nil, err
			}
			if ad.Extractor, err = graft.Dep[ports.ArchiveExtractor](ctx); err != nil {
				return nil, err
			}
			if ad.Manifests, err = graft.Dep[ports.ManifestReader](ctx); err != nil {
				return nil, err
			}
			if ad.Store, err = graft.Dep[ports.MarkerStore](ctx); err != nil {
				return nil, err
			}
			if ad.Spawner, err = graft.Dep[ports.WorkerSpawner](ctx); err != nil {
				return nil, err
			}
			if ad.Logger, err = graft.Dep[ports.Logger](ctx); err != nil {
				return nil, err
			}
			if ad.Tracer, err = graft.Dep[ports.Tracer](ctx); err != nil {
				return nil, err
			}
			if ad.Bridge, err = graft.Dep[*telemetry.Bridge](ctx); err != nil {
				return nil, err
			}

			return New(ad), nil
		},
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			app, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return &Components{App: app, Logger: log}, nil
		},
	})
}
