// Package telemetry implements ports.Tracer on OpenTelemetry and bridges
// finished spans to a ports.Renderer.
package telemetry

import (
	"context"
	"fmt"
	"io"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.trai.ch/spvbuild/internal/core/ports"
)

// CachedAttribute marks a span whose job was skipped because its inputs were
// unchanged.
const CachedAttribute = "spvbuild.cached"

var (
	_ ports.Tracer = (*OTelTracer)(nil)
	_ ports.Span   = (*OTelSpan)(nil)
)

// OTelTracer implements ports.Tracer with the global OpenTelemetry provider.
// The provider is looked up on every Start so that a provider installed
// after construction is honoured.
type OTelTracer struct {
	name string

	mu       sync.RWMutex
	renderer ports.Renderer
}

// NewOTelTracer creates a new OTelTracer with the given instrumentation name.
func NewOTelTracer(name string) *OTelTracer {
	return &OTelTracer{name: name}
}

// WithRenderer routes span output and plans to r.
func (t *OTelTracer) WithRenderer(r ports.Renderer) *OTelTracer {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.renderer = r
	return t
}

func (t *OTelTracer) currentRenderer() ports.Renderer {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.renderer
}

// Start creates a new span.
func (t *OTelTracer) Start(ctx context.Context, name string) (context.Context, ports.Span) {
	ctx, span := otel.Tracer(t.name).Start(ctx, name)
	return ctx, &OTelSpan{
		span:     span,
		spanID:   span.SpanContext().SpanID().String(),
		renderer: t.currentRenderer(),
	}
}

// EmitPlan records the plan on the span in ctx, if any, and hands it to the
// renderer.
func (t *OTelTracer) EmitPlan(ctx context.Context, jobNames []string) {
	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.AddEvent("plan_emitted", trace.WithAttributes(
			attribute.StringSlice("jobs", jobNames),
		))
	}

	if r := t.currentRenderer(); r != nil {
		r.OnPlanEmit(jobNames)
	}
}

// OTelSpan implements ports.Span on an OpenTelemetry span.
type OTelSpan struct {
	span     trace.Span
	spanID   string
	renderer ports.Renderer
}

// End completes the span.
func (s *OTelSpan) End() {
	s.span.End()
}

// RecordError records err and marks the span as failed.
func (s *OTelSpan) RecordError(err error) {
	s.span.RecordError(err)
	s.span.SetStatus(codes.Error, err.Error())
}

// MarkCached flags the span as skipped.
func (s *OTelSpan) MarkCached() {
	s.span.SetAttributes(attribute.Bool(CachedAttribute, true))
}

// SetAttribute adds a key-value pair to the span.
func (s *OTelSpan) SetAttribute(key string, value any) {
	switch v := value.(type) {
	case string:
		s.span.SetAttributes(attribute.String(key, v))
	case int:
		s.span.SetAttributes(attribute.Int(key, v))
	case int64:
		s.span.SetAttributes(attribute.Int64(key, v))
	case bool:
		s.span.SetAttributes(attribute.Bool(key, v))
	case []string:
		s.span.SetAttributes(attribute.StringSlice(key, v))
	default:
		s.span.SetAttributes(attribute.String(key, fmt.Sprintf("%v", v)))
	}
}

// Write forwards compiler stdout to the renderer, or records it as a span
// event when no renderer is attached.
func (s *OTelSpan) Write(p []byte) (int, error) {
	return s.write(ports.StreamStdout, p)
}

// Stderr returns a writer that forwards compiler diagnostics the same way.
func (s *OTelSpan) Stderr() io.Writer {
	return stderrWriter{s}
}

func (s *OTelSpan) write(stream ports.LogStream, p []byte) (int, error) {
	if s.renderer != nil {
		s.renderer.OnJobLog(s.spanID, stream, append([]byte(nil), p...))
		return len(p), nil
	}
	s.span.AddEvent("log", trace.WithAttributes(
		attribute.String("message", string(p)),
		attribute.String("stream", streamName(stream)),
	))
	return len(p), nil
}

type stderrWriter struct {
	span *OTelSpan
}

func (w stderrWriter) Write(p []byte) (int, error) {
	return w.span.write(ports.StreamStderr, p)
}

func streamName(stream ports.LogStream) string {
	if stream == ports.StreamStderr {
		return "stderr"
	}
	return "stdout"
}
