package ports

import "go.trai.ch/spvbuild/internal/core/domain"

// Hasher defines the interface for computing job hashes.
//
//go:generate mockgen -source=hasher.go -destination=mocks/mock_hasher.go -package=mocks
type Hasher interface {
	// ComputeInputHash hashes everything that determines a job's output:
	// the command line, the source file and every file it includes.
	ComputeInputHash(tc domain.Toolchain, job domain.Job, commandLine []string) (string, error)

	// ComputeOutputHash hashes the job's output file.
	ComputeOutputHash(tc domain.Toolchain, job domain.Job) (string, error)
}
