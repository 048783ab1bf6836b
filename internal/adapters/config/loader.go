// Package config provides the manifest loader for spvbuild.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"go.trai.ch/spvbuild/internal/core/domain"
	"go.trai.ch/spvbuild/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.ConfigLoader = (*Loader)(nil)

// supportedVersion is the only manifest schema version understood by this build.
const supportedVersion = "1"

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load reads the manifest at path. An empty path returns the built-in manifest.
func (l *Loader) Load(path string) (*domain.Manifest, error) {
	if path == "" {
		return domain.DefaultManifest(), nil
	}

	var file Manifestfile
	if err := readAndUnmarshalYAML(path, &file); err != nil {
		return nil, zerr.With(err, "path", path)
	}

	switch file.Version {
	case supportedVersion:
	case "":
		l.Logger.Warn(fmt.Sprintf("%s has no version, assuming %q", filepath.Base(path), supportedVersion))
	default:
		return nil, zerr.With(domain.ErrUnsupportedManifestVersion, "version", file.Version)
	}

	if len(file.Jobs) == 0 {
		return nil, zerr.With(domain.ErrEmptyManifest, "path", path)
	}

	jobs := make([]domain.Job, 0, len(file.Jobs))
	for i, dto := range file.Jobs {
		if dto == nil {
			return nil, zerr.With(zerr.With(domain.ErrInvalidJob, "reason", "empty entry"), "index", i)
		}
		jobs = append(jobs, buildJob(dto))
	}

	manifest, err := domain.NewManifest(jobs)
	if err != nil {
		return nil, zerr.With(err, "path", path)
	}
	return manifest, nil
}

func buildJob(dto *JobDTO) domain.Job {
	root := dto.Root
	if root == "" {
		root = "."
	}
	return domain.Job{
		Root:    filepath.FromSlash(root),
		Source:  dto.Source,
		Output:  dto.Output,
		Defines: dto.Defines,
	}
}

func readAndUnmarshalYAML[T any](configPath string, target *T) error {
	// #nosec G304 -- configPath is user configuration
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		return zerr.Wrap(err, domain.ErrConfigReadFailed.Error())
	}

	if parseErr := yaml.Unmarshal(configFile, target); parseErr != nil {
		return zerr.Wrap(parseErr, domain.ErrConfigParseFailed.Error())
	}

	return nil
}
