package telemetry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/rebuild/internal/adapters/telemetry"
	"go.trai.ch/rebuild/internal/core/domain"
	"go.trai.ch/rebuild/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func newTracer(bridge *telemetry.Bridge) *telemetry.OTelTracer {
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(bridge))
	return telemetry.NewOTelTracer(tp)
}

func TestBridge_BuildSpanReachesRenderer(t *testing.T) {
	ctrl := gomock.NewController(t)

	mockLogger := mocks.NewMockLogger(ctrl)
	mockRenderer := mocks.NewMockRenderer(ctrl)

	mockLogger.EXPECT().Debug(gomock.Any()).Times(1)
	mockRenderer.EXPECT().OnModuleComplete("addon", gomock.Any(), nil).Times(1)

	bridge := telemetry.NewBridge(mockLogger)
	bridge.SetRenderer(mockRenderer)

	_, span := newTracer(bridge).Start(context.Background(), domain.BuildSpanName)
	span.SetAttribute(domain.ModuleSpanAttribute, "addon")
	span.End()
}

func TestBridge_FailedBuildSpan(t *testing.T) {
	ctrl := gomock.NewController(t)

	mockLogger := mocks.NewMockLogger(ctrl)
	mockRenderer := mocks.NewMockRenderer(ctrl)

	mockLogger.EXPECT().Debug(gomock.Any()).Times(1)
	mockRenderer.EXPECT().OnModuleComplete("addon", gomock.Any(), gomock.Any()).
		Do(func(_ string, elapsed time.Duration, err error) {
			assert.GreaterOrEqual(t, elapsed, time.Duration(0))
			assert.EqualError(t, err, "exit code 1")
		})

	bridge := telemetry.NewBridge(mockLogger)
	bridge.SetRenderer(mockRenderer)

	_, span := newTracer(bridge).Start(context.Background(), domain.BuildSpanName)
	span.SetAttribute(domain.ModuleSpanAttribute, "addon")
	span.RecordError(errors.New("exit code 1"))
	span.End()
}

func TestBridge_OtherSpansOnlyLogged(t *testing.T) {
	ctrl := gomock.NewController(t)

	mockLogger := mocks.NewMockLogger(ctrl)
	mockRenderer := mocks.NewMockRenderer(ctrl)

	mockLogger.EXPECT().Debug(gomock.Any()).Times(1)

	bridge := telemetry.NewBridge(mockLogger)
	bridge.SetRenderer(mockRenderer)

	_, span := newTracer(bridge).Start(context.Background(), "fetch")
	span.SetAttribute("url", "https://example.com")
	span.SetAttribute("attempts", 2)
	span.End()
}

func TestBridge_NoRenderer(t *testing.T) {
	ctrl := gomock.NewController(t)

	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Debug(gomock.Any()).Times(1)

	bridge := telemetry.NewBridge(mockLogger)

	_, span := newTracer(bridge).Start(context.Background(), domain.BuildSpanName)
	span.SetAttribute(domain.ModuleSpanAttribute, "addon")
	span.End()
}

func TestNoOpTracer(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	newCtx, span := telemetry.NewNoOpTracer().Start(ctx, "noop")
	assert.Equal(t, ctx, newCtx)

	span.SetAttribute("key", "value")
	span.RecordError(errors.New("ignored"))
	span.End()
}
