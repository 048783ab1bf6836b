package telemetry_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/spvbuild/internal/adapters/telemetry"
	"go.trai.ch/spvbuild/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func newBridgedProvider(t *testing.T, bridge *telemetry.Bridge) *sdktrace.TracerProvider {
	t.Helper()

	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(bridge))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return tp
}

func TestBridge_Success(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)

	renderer := mocks.NewMockRenderer(ctrl)
	gomock.InOrder(
		renderer.EXPECT().OnJobStart(gomock.Any(), "geometry.vert.spv", gomock.Any()),
		renderer.EXPECT().OnJobComplete(gomock.Any(), gomock.Any(), nil, false),
	)

	tp := newBridgedProvider(t, telemetry.NewBridge(renderer))
	_, span := tp.Tracer("test").Start(context.Background(), "geometry.vert.spv")
	span.End()
}

func TestBridge_Failure(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)

	renderer := mocks.NewMockRenderer(ctrl)
	renderer.EXPECT().OnJobStart(gomock.Any(), gomock.Any(), gomock.Any())
	renderer.EXPECT().
		OnJobComplete(gomock.Any(), gomock.Any(), gomock.Any(), false).
		Do(func(_ string, _ time.Time, err error, _ bool) {
			assert.EqualError(t, err, "exit status 2")
		})

	tp := newBridgedProvider(t, telemetry.NewBridge(renderer))
	_, span := tp.Tracer("test").Start(context.Background(), "a.spv")
	span.SetStatus(codes.Error, "exit status 2")
	span.End()
}

func TestBridge_Cached(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)

	renderer := mocks.NewMockRenderer(ctrl)
	renderer.EXPECT().OnJobStart(gomock.Any(), gomock.Any(), gomock.Any())
	renderer.EXPECT().OnJobComplete(gomock.Any(), gomock.Any(), nil, true)

	tp := newBridgedProvider(t, telemetry.NewBridge(renderer))
	_, span := tp.Tracer("test").Start(context.Background(), "a.spv")
	span.SetAttributes(attribute.Bool(telemetry.CachedAttribute, true))
	span.End()
}

func TestBridge_NilRenderer(t *testing.T) {
	t.Parallel()

	bridge := telemetry.NewBridge(nil)
	tp := newBridgedProvider(t, bridge)
	_, span := tp.Tracer("test").Start(context.Background(), "a.spv")
	span.End()

	_ = bridge.ForceFlush(context.Background())
	_ = bridge.Shutdown(context.Background())
}
