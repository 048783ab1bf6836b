package ports

import (
	"context"
	"time"
)

// LogStream identifies the compiler stream that produced job output.
type LogStream uint8

const (
	// StreamStdout is informational compiler output.
	StreamStdout LogStream = iota
	// StreamStderr is compiler diagnostics.
	StreamStderr
)

// Renderer is the abstraction for presenting build progress.
//
//go:generate mockgen -source=renderer.go -destination=mocks/mock_renderer.go -package=mocks
type Renderer interface {
	// Start initializes the renderer.
	Start(ctx context.Context) error

	// Stop flushes buffered output.
	Stop() error

	// Wait blocks until the renderer has fully terminated.
	Wait() error

	// OnPlanEmit is called once with the job names in execution order.
	OnPlanEmit(jobs []string)

	// OnJobStart is called when a job begins.
	OnJobStart(spanID, name string, startTime time.Time)

	// OnJobLog is called with raw compiler output for a job.
	// data may contain partial lines.
	OnJobLog(spanID string, stream LogStream, data []byte)

	// OnJobComplete is called when a job finishes. err is nil on success;
	// cached reports that the compiler was not run.
	OnJobComplete(spanID string, endTime time.Time, err error, cached bool)
}
