package fs

import (
	"bufio"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"

	"go.trai.ch/spvbuild/internal/core/domain"
	"go.trai.ch/zerr"
)

// includeDirective matches the quoted form of #include. Angle-bracket
// includes are resolved against compiler search paths and are not tracked.
var includeDirective = regexp.MustCompile(`^\s*#\s*include\s+"([^"]+)"`)

// IncludeScanner finds the files a GLSL source pulls in through #include.
type IncludeScanner struct{}

// NewIncludeScanner creates a new IncludeScanner.
func NewIncludeScanner() *IncludeScanner {
	return &IncludeScanner{}
}

// Closure returns every file transitively included by source, in first-seen
// order and without duplicates. A directive is resolved relative to the
// including file first and then relative to root.
func (s *IncludeScanner) Closure(source, root string) ([]string, error) {
	seen := map[string]bool{filepath.Clean(source): true}
	var closure []string

	var visit func(path string) error
	visit = func(path string) error {
		names, err := s.directives(path)
		if err != nil {
			return err
		}
		for _, name := range names {
			resolved, err := resolveInclude(name, filepath.Dir(path), root)
			if err != nil {
				return zerr.With(err, "included_from", path)
			}
			if seen[resolved] {
				continue
			}
			seen[resolved] = true
			closure = append(closure, resolved)
			if err := visit(resolved); err != nil {
				return err
			}
		}
		return nil
	}

	if err := visit(filepath.Clean(source)); err != nil {
		return nil, err
	}
	return closure, nil
}

func (s *IncludeScanner) directives(path string) ([]string, error) {
	f, err := os.Open(path) //nolint:gosec // Path comes from the job list or an include directive
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrFileOpenFailed.Error()), "path", path)
	}
	defer f.Close() //nolint:errcheck // Read-only file

	var names []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if m := includeDirective.FindStringSubmatch(scanner.Text()); m != nil {
			names = append(names, m[1])
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrFileHashFailed.Error()), "path", path)
	}
	return names, nil
}

func resolveInclude(name, dir, root string) (string, error) {
	candidates := []string{filepath.Join(dir, name), filepath.Join(root, name)}
	for _, candidate := range candidates {
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return filepath.Clean(candidate), nil
		}
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return "", zerr.With(zerr.Wrap(err, domain.ErrFileOpenFailed.Error()), "path", candidate)
		}
	}
	return "", zerr.With(domain.ErrIncludeNotFound, "include", name)
}
