package orchestrator_test

import (
	"testing"

	"go.trai.ch/rebuild/internal/adapters/archive"
	"go.trai.ch/rebuild/internal/adapters/manifest"
	"go.trai.ch/rebuild/internal/adapters/meta"
	"go.trai.ch/rebuild/internal/adapters/telemetry"
	"go.trai.ch/rebuild/internal/core/domain"
	"go.trai.ch/rebuild/internal/core/ports/mocks"
	"go.trai.ch/rebuild/internal/engine/assets"
	"go.trai.ch/rebuild/internal/engine/lifecycle"
	"go.trai.ch/rebuild/internal/engine/orchestrator"
	"go.trai.ch/rebuild/internal/engine/rebuilder"
	"go.trai.ch/rebuild/internal/engine/walker"
	"go.uber.org/mock/gomock"
)

// newPipeline assembles the real engine around a mocked worker spawner.
// The fetcher mock has no expectations: any download fails the test.
func newPipeline(t *testing.T, spawner *mocks.MockWorkerSpawner) *orchestrator.Orchestrator {
	t.Helper()
	ctrl := gomock.NewController(t)

	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Debug(gomock.Any()).AnyTimes()
	log.EXPECT().Warn(gomock.Any()).AnyTimes()

	host := mocks.NewMockHostProbe(ctrl)
	host.EXPECT().Libc().Return("glibc").AnyTimes()

	tracer := telemetry.NewNoOpTracer()
	manifests := manifest.NewReader()

	factory := func(cfg *domain.RebuildConfig, rt domain.Runtime, bus *lifecycle.Bus) orchestrator.ModuleBuilder {
		return rebuilder.New(cfg, rt, rebuilder.Deps{
			Manifests: manifests,
			Store:     meta.NewStore(),
			Spawner:   spawner,
			Host:      host,
			Logger:    log,
			Tracer:    tracer,
			Bus:       bus,
		})
	}

	return orchestrator.New(
		assets.NewProvisioner(mocks.NewMockFetcher(ctrl), archive.New(), log),
		walker.New(manifests, log, tracer),
		factory,
		log,
		tracer,
	)
}
