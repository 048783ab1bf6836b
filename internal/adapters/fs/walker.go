// Package fs provides file system adapters for walking shader trees and
// hashing job inputs.
package fs

import (
	"io/fs"
	"iter"
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/spvbuild/internal/core/domain"
)

// shaderExtensions are the file extensions glslangValidator infers a stage
// from, plus the conventional include extensions.
var shaderExtensions = []string{
	".vert", ".frag", ".comp", ".geom", ".tesc", ".tese",
	".mesh", ".task", ".rgen", ".rint", ".rahit", ".rchit", ".rmiss", ".rcall",
	".glsl", ".h", ".inc",
}

// Walker walks shader directories.
type Walker struct{}

// NewWalker creates a new Walker.
func NewWalker() *Walker {
	return &Walker{}
}

// WalkDirs yields root and every directory below it, skipping VCS metadata
// and the spvbuild state directory.
func (w *Walker) WalkDirs(root string) iter.Seq[string] {
	return func(yield func(string) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() {
				return nil
			}
			if path != root && skipDir(d.Name()) {
				return filepath.SkipDir
			}
			if !yield(path) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}

// IsShaderFile reports whether path looks like a GLSL source or include.
func IsShaderFile(path string) bool {
	return slices.Contains(shaderExtensions, strings.ToLower(filepath.Ext(path)))
}

func skipDir(name string) bool {
	switch name {
	case ".git", ".jj", domain.StateDirName:
		return true
	}
	return false
}
