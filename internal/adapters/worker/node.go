package worker

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/rebuild/internal/adapters/logger" //nolint:depguard // Wired in adapter layer
	"go.trai.ch/rebuild/internal/core/ports"
)

// NodeID is the unique identifier for the worker spawner Graft node.
const NodeID graft.ID = "adapter.worker"

func init() {
	graft.Register(graft.Node[ports.WorkerSpawner]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.WorkerSpawner, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			spawner, err := NewSpawner(log)
			if err != nil {
				return nil, err
			}
			return spawner, nil
		},
	})
}
