// Package runner executes a manifest's compile jobs one after another.
package runner

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.trai.ch/spvbuild/internal/core/domain"
	"go.trai.ch/spvbuild/internal/core/ports"
	"go.trai.ch/zerr"
)

// Options controls a single run.
type Options struct {
	// Incremental skips jobs whose inputs and output are unchanged since the
	// last successful compile.
	Incremental bool
}

// Summary counts the outcomes of a run.
type Summary struct {
	Compiled int
	Cached   int
}

// Runner compiles jobs strictly in manifest order and stops at the first
// failure. Jobs after a failed job are never started.
type Runner struct {
	compiler ports.Compiler
	store    ports.BuildInfoStore
	hasher   ports.Hasher
	tracer   ports.Tracer
	logger   ports.Logger

	mu     sync.RWMutex
	status map[string]domain.JobStatus
}

// NewRunner creates a new Runner. store and hasher are only used by
// incremental runs.
func NewRunner(
	compiler ports.Compiler,
	store ports.BuildInfoStore,
	hasher ports.Hasher,
	tracer ports.Tracer,
	logger ports.Logger,
) *Runner {
	return &Runner{
		compiler: compiler,
		store:    store,
		hasher:   hasher,
		tracer:   tracer,
		logger:   logger,
		status:   make(map[string]domain.JobStatus),
	}
}

// Status returns the status of the named job in the most recent run.
func (r *Runner) Status(name string) (domain.JobStatus, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.status[name]
	return s, ok
}

func (r *Runner) setStatus(name string, status domain.JobStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.status[name] = status
}

// Run compiles every job of manifest. A missing compiler path is reported
// before any job starts. A compiler failure is returned joined with
// domain.ErrCompileFailed and keeps the compiler's exit status reachable
// through domain.ExitCode.
func (r *Runner) Run(ctx context.Context, tc domain.Toolchain, manifest *domain.Manifest, opts Options) (Summary, error) {
	var summary Summary

	if err := tc.Validate(); err != nil {
		return summary, err
	}

	jobs := manifest.Jobs()

	r.mu.Lock()
	clear(r.status)
	for _, job := range jobs {
		r.status[job.Name()] = domain.JobStatusPending
	}
	r.mu.Unlock()

	r.tracer.EmitPlan(ctx, manifest.Names())

	for _, job := range jobs {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		cached, err := r.runJob(ctx, tc, job, opts)
		if err != nil {
			r.setStatus(job.Name(), domain.JobStatusFailed)
			return summary, errors.Join(domain.ErrCompileFailed, zerr.With(err, "job", job.Name()))
		}

		if cached {
			r.setStatus(job.Name(), domain.JobStatusCached)
			summary.Cached++
			continue
		}
		r.setStatus(job.Name(), domain.JobStatusCompiled)
		summary.Compiled++
	}

	return summary, nil
}

// runJob runs one job inside its own span. The span ends before runJob
// returns so the renderer has reported the job before the next one starts.
func (r *Runner) runJob(ctx context.Context, tc domain.Toolchain, job domain.Job, opts Options) (bool, error) {
	ctx, span := r.tracer.Start(ctx, job.Name())
	defer span.End()

	if len(job.Defines) > 0 {
		span.SetAttribute("defines", job.Defines)
	}

	commandLine := r.compiler.CommandLine(tc, job)

	var inputHash string
	if opts.Incremental {
		var upToDate bool
		inputHash, upToDate = r.checkCache(tc, job, commandLine)
		if upToDate {
			span.MarkCached()
			return true, nil
		}
	}

	r.setStatus(job.Name(), domain.JobStatusRunning)
	if err := r.compiler.Compile(ctx, tc, job, span, span.Stderr()); err != nil {
		span.RecordError(err)
		return false, err
	}

	if opts.Incremental && inputHash != "" {
		r.recordBuild(tc, job, inputHash)
	}

	return false, nil
}

// checkCache returns the job's input hash and whether the stored build is
// still valid. Any hashing or store problem counts as a miss.
func (r *Runner) checkCache(tc domain.Toolchain, job domain.Job, commandLine []string) (string, bool) {
	inputHash, err := r.hasher.ComputeInputHash(tc, job, commandLine)
	if err != nil {
		r.warn("cannot hash inputs of "+job.Name()+", compiling without cache", err)
		return "", false
	}

	info, err := r.store.Get(tc.ShaderDir, job.Name())
	if err != nil {
		r.warn("cannot read build info of "+job.Name(), err)
		return inputHash, false
	}
	if info == nil || info.InputHash != inputHash {
		return inputHash, false
	}

	outputHash, err := r.hasher.ComputeOutputHash(tc, job)
	if err != nil {
		return inputHash, false
	}

	return inputHash, outputHash == info.OutputHash
}

func (r *Runner) recordBuild(tc domain.Toolchain, job domain.Job, inputHash string) {
	outputHash, err := r.hasher.ComputeOutputHash(tc, job)
	if err != nil {
		r.warn("cannot hash output of "+job.Name(), err)
		return
	}

	info := domain.BuildInfo{
		JobName:    job.Name(),
		InputHash:  inputHash,
		OutputHash: outputHash,
		Timestamp:  time.Now().UTC(),
	}
	if err := r.store.Put(tc.ShaderDir, info); err != nil {
		r.warn("cannot store build info of "+job.Name(), err)
	}
}

func (r *Runner) warn(msg string, err error) {
	if r.logger != nil {
		r.logger.Warn(msg + ": " + err.Error())
	}
}
