// Package domain contains the core domain models for shader compilation jobs.
package domain

import (
	"path/filepath"
	"strings"

	"go.trai.ch/zerr"
)

// Job is a single GLSL to SPIR-V compilation: one source file, one output
// file, both relative to Root, plus the preprocessor defines that specialize
// the source.
type Job struct {
	Root    string
	Source  string
	Output  string
	Defines []string
}

// SourcePath returns the source file path relative to the shader directory.
func (j Job) SourcePath() string {
	return filepath.Join(j.Root, j.Source)
}

// OutputPath returns the output file path relative to the shader directory.
func (j Job) OutputPath() string {
	return filepath.Join(j.Root, j.Output)
}

// Name identifies the job. Output paths are unique within a manifest, so
// the output path doubles as the name.
func (j Job) Name() string {
	return filepath.ToSlash(j.OutputPath())
}

// Validate checks that the job can be turned into a compiler invocation.
func (j Job) Validate() error {
	if strings.TrimSpace(j.Source) == "" {
		return zerr.With(ErrInvalidJob, "reason", "empty source")
	}
	if strings.TrimSpace(j.Output) == "" {
		return zerr.With(ErrInvalidJob, "reason", "empty output")
	}
	for _, def := range j.Defines {
		if err := validateDefine(def); err != nil {
			return zerr.With(err, "job", j.Name())
		}
	}
	return nil
}

func validateDefine(def string) error {
	if def == "" {
		return ErrInvalidDefine
	}
	if strings.HasPrefix(def, "-") {
		return zerr.With(ErrInvalidDefine, "define", def)
	}
	if strings.ContainsAny(def, " \t\r\n") {
		return zerr.With(ErrInvalidDefine, "define", def)
	}
	return nil
}

// Manifest is the ordered list of jobs for one build. It is never mutated
// once constructed.
type Manifest struct {
	jobs []Job
}

// NewManifest validates the jobs and returns a manifest preserving their order.
func NewManifest(jobs []Job) (*Manifest, error) {
	seen := make(map[string]int, len(jobs))
	for i, job := range jobs {
		if err := job.Validate(); err != nil {
			return nil, zerr.With(err, "index", i)
		}
		if prev, ok := seen[job.Name()]; ok {
			return nil, zerr.With(zerr.With(ErrDuplicateOutput, "output", job.Name()), "first_index", prev)
		}
		seen[job.Name()] = i
	}

	owned := make([]Job, len(jobs))
	for i, job := range jobs {
		job.Defines = append([]string(nil), job.Defines...)
		owned[i] = job
	}
	return &Manifest{jobs: owned}, nil
}

// Jobs returns a copy of the jobs in declared order.
func (m *Manifest) Jobs() []Job {
	out := make([]Job, len(m.jobs))
	for i, job := range m.jobs {
		job.Defines = append([]string(nil), job.Defines...)
		out[i] = job
	}
	return out
}

// Len returns the number of jobs.
func (m *Manifest) Len() int {
	return len(m.jobs)
}

// Names returns the job names in declared order.
func (m *Manifest) Names() []string {
	names := make([]string, len(m.jobs))
	for i, job := range m.jobs {
		names[i] = job.Name()
	}
	return names
}
