package domain

import "path/filepath"

const (
	// StateDirName is the name of the internal state directory inside the shader directory.
	StateDirName = ".spvbuild"

	// StoreDirName is the name of the build info store directory.
	StoreDirName = "store"

	// ManifestFileName is the manifest file name suggested in the CLI help.
	// Manifests are only read when passed explicitly.
	ManifestFileName = "spvbuild.yaml"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// DefaultStorePath returns the store path relative to the shader directory.
func DefaultStorePath() string {
	return filepath.Join(StateDirName, StoreDirName)
}
