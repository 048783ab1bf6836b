package ports

import (
	"context"
	"io"
)

//go:generate mockgen -source=telemetry.go -destination=mocks/mock_telemetry.go -package=mocks

// Tracer is the entry point for creating spans.
type Tracer interface {
	// Start creates a new span.
	Start(ctx context.Context, name string) (context.Context, Span)
	// EmitPlan signals the ordered list of jobs about to run.
	EmitPlan(ctx context.Context, jobNames []string)
}

// Span represents one job execution. Bytes written to it are the job's
// standard output.
type Span interface {
	io.Writer
	// Stderr returns a writer for the job's diagnostic output.
	Stderr() io.Writer
	// End completes the span.
	End()
	// RecordError records an error for the span.
	RecordError(err error)
	// MarkCached flags the span as skipped because its inputs were unchanged.
	MarkCached()
	// SetAttribute adds a key-value pair to the span.
	SetAttribute(key string, value any)
}
