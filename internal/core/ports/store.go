package ports

import "go.trai.ch/spvbuild/internal/core/domain"

// BuildInfoStore defines the interface for storing and retrieving build information.
//
//go:generate mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type BuildInfoStore interface {
	// Get retrieves the build info for a job below the given shader directory.
	// Returns nil, nil if not found.
	Get(root, jobName string) (*domain.BuildInfo, error)

	// Put stores the build info below the given shader directory.
	Put(root string, info domain.BuildInfo) error
}
