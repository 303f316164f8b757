package fetcher

import (
	"context"
	"os"

	"github.com/grindlemire/graft"
	"go.trai.ch/rebuild/internal/adapters/logger"    //nolint:depguard // Wired in adapter layer
	"go.trai.ch/rebuild/internal/adapters/telemetry" //nolint:depguard // Wired in adapter layer
	"go.trai.ch/rebuild/internal/core/ports"
	"golang.org/x/term"
)

// NodeID is the unique identifier for the fetcher Graft node.
const NodeID graft.ID = "adapter.fetcher"

func init() {
	graft.Register(graft.Node[ports.Fetcher]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID, telemetry.NodeID},
		Run: func(ctx context.Context) (ports.Fetcher, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			tracer, err := graft.Dep[ports.Tracer](ctx)
			if err != nil {
				return nil, err
			}

			var opts []Option
			if term.IsTerminal(int(os.Stderr.Fd())) && os.Getenv("CI") == "" {
				opts = append(opts, WithProgress(os.Stderr))
			}
			return New(log, tracer, opts...), nil
		},
	})
}
