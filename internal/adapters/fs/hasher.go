package fs

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/spvbuild/internal/core/domain"
	"go.trai.ch/spvbuild/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Hasher = (*Hasher)(nil)

// Hasher computes job hashes with xxhash.
type Hasher struct {
	includes *IncludeScanner
}

// NewHasher creates a new Hasher.
func NewHasher(includes *IncludeScanner) *Hasher {
	return &Hasher{includes: includes}
}

// ComputeFileHash computes the xxhash of a file's content.
func (h *Hasher) ComputeFileHash(path string) (uint64, error) {
	f, err := os.Open(path) //nolint:gosec // Path is controlled by caller
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, domain.ErrFileOpenFailed.Error()), "path", path)
	}
	defer f.Close() //nolint:errcheck // Best effort close in defer

	hasher := xxhash.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return 0, zerr.With(zerr.Wrap(err, domain.ErrFileHashFailed.Error()), "path", path)
	}

	return hasher.Sum64(), nil
}

// ComputeInputHash hashes the command line, the defines, the source file and
// every file the source includes.
func (h *Hasher) ComputeInputHash(tc domain.Toolchain, job domain.Job, commandLine []string) (string, error) {
	hasher := xxhash.New()

	for _, arg := range commandLine {
		_, _ = hasher.WriteString(arg)
		_, _ = hasher.Write([]byte{0})
	}
	_, _ = hasher.Write([]byte{0})

	for _, def := range job.Defines {
		_, _ = hasher.WriteString(def)
		_, _ = hasher.Write([]byte{0})
	}
	_, _ = hasher.Write([]byte{0})

	source := filepath.Join(tc.ShaderDir, job.SourcePath())
	includes, err := h.includes.Closure(source, filepath.Join(tc.ShaderDir, job.Root))
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrInputHashComputationFailed.Error()), "job", job.Name())
	}

	for _, path := range append([]string{source}, includes...) {
		if err := h.hashFile(tc.ShaderDir, path, hasher); err != nil {
			return "", zerr.With(zerr.Wrap(err, domain.ErrInputHashComputationFailed.Error()), "job", job.Name())
		}
	}

	return fmt.Sprintf("%016x", hasher.Sum64()), nil
}

// ComputeOutputHash hashes the job's output file.
func (h *Hasher) ComputeOutputHash(tc domain.Toolchain, job domain.Job) (string, error) {
	hash, err := h.ComputeFileHash(filepath.Join(tc.ShaderDir, job.OutputPath()))
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrOutputHashComputationFailed.Error()), "job", job.Name())
	}
	return fmt.Sprintf("%016x", hash), nil
}

// hashFile writes the path relative to dir and the file's content hash. The
// relative path keeps hashes stable when the shader tree moves.
func (h *Hasher) hashFile(dir, path string, mainHasher io.Writer) error {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		rel = path
	}
	_, _ = mainHasher.Write([]byte(filepath.ToSlash(rel)))
	_, _ = mainHasher.Write([]byte{0})

	hash, err := h.ComputeFileHash(path)
	if err != nil {
		return err
	}

	if err := binary.Write(mainHasher, binary.LittleEndian, hash); err != nil {
		return zerr.Wrap(err, "failed to write hash to digest")
	}
	return nil
}
