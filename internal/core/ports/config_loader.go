package ports

import "go.trai.ch/spvbuild/internal/core/domain"

// ConfigLoader defines the interface for loading the job manifest.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load returns the manifest stored at path. An empty path selects the
	// built-in manifest.
	Load(path string) (*domain.Manifest, error)
}
