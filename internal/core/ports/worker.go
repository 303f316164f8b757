package ports

import (
	"context"

	"go.trai.ch/rebuild/internal/core/domain"
)

// WorkerSpawner runs one build worker process per module build.
//
//go:generate mockgen -source=worker.go -destination=mocks/mock_worker.go -package=mocks
type WorkerSpawner interface {
	// Spawn starts a worker in dir, sends it req and waits for it to exit.
	// A non-zero exit is reported through the result, not the error. The error
	// is reserved for failures to start or talk to the worker.
	Spawn(ctx context.Context, dir string, req domain.WorkerRequest) (domain.WorkerResult, error)
}
