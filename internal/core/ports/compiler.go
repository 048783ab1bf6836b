// Package ports defines the core interfaces for the application.
package ports

import (
	"context"
	"io"

	"go.trai.ch/spvbuild/internal/core/domain"
)

// Compiler defines the interface for turning a job into SPIR-V.
//
//go:generate mockgen -source=compiler.go -destination=mocks/mock_compiler.go -package=mocks
type Compiler interface {
	// CommandLine returns the full argument list, executable first, that
	// Compile runs for the job.
	CommandLine(tc domain.Toolchain, job domain.Job) []string

	// Compile runs the compiler for the job and blocks until it exits.
	// Compiler output is streamed line by line to stdout and stderr.
	// A non-zero exit is returned as an error carrying the exit status.
	Compile(ctx context.Context, tc domain.Toolchain, job domain.Job, stdout, stderr io.Writer) error
}
