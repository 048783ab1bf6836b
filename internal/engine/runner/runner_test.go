package runner_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/spvbuild/internal/core/domain"
	"go.trai.ch/spvbuild/internal/core/ports"
	"go.trai.ch/spvbuild/internal/core/ports/mocks"
	"go.trai.ch/spvbuild/internal/engine/runner"
	"go.uber.org/mock/gomock"
)

// exitError mimics *exec.ExitError for tests that do not spawn processes.
type exitError struct{ code int }

func (e exitError) Error() string { return "exit status" }
func (e exitError) ExitCode() int { return e.code }

type fixture struct {
	compiler *mocks.MockCompiler
	store    *mocks.MockBuildInfoStore
	hasher   *mocks.MockHasher
	tracer   *mocks.MockTracer
	span     *mocks.MockSpan
	diag     *bytes.Buffer
	logger   *mocks.MockLogger
	runner   *runner.Runner
	tc       domain.Toolchain
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	f := &fixture{
		compiler: mocks.NewMockCompiler(ctrl),
		store:    mocks.NewMockBuildInfoStore(ctrl),
		hasher:   mocks.NewMockHasher(ctrl),
		tracer:   mocks.NewMockTracer(ctrl),
		span:     mocks.NewMockSpan(ctrl),
		diag:     &bytes.Buffer{},
		logger:   mocks.NewMockLogger(ctrl),
		tc:       domain.Toolchain{CompilerPath: "/opt/vulkan/bin/glslangValidator", ShaderDir: "shaders"},
	}
	f.runner = runner.NewRunner(f.compiler, f.store, f.hasher, f.tracer, f.logger)

	f.tracer.EXPECT().EmitPlan(gomock.Any(), gomock.Any()).AnyTimes()
	f.tracer.EXPECT().Start(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ string) (context.Context, ports.Span) {
			return ctx, f.span
		}).AnyTimes()
	f.span.EXPECT().End().AnyTimes()
	f.span.EXPECT().Stderr().Return(f.diag).AnyTimes()
	f.span.EXPECT().SetAttribute(gomock.Any(), gomock.Any()).AnyTimes()
	f.compiler.EXPECT().CommandLine(gomock.Any(), gomock.Any()).Return([]string{"glslangValidator"}).AnyTimes()
	return f
}

func smallManifest(t *testing.T) *domain.Manifest {
	t.Helper()
	m, err := domain.NewManifest([]domain.Job{
		{Root: ".", Source: "geometry.vert", Output: "geometry.vert.spv"},
		{Root: "gaussian_blur", Source: "gaussian_blur.comp", Output: "gaussian_blur.vertical.comp.spv", Defines: []string{"GAUSSIAN_BLUR_DIRECTION=0"}},
	})
	require.NoError(t, err)
	return m
}

func TestRunner_RunsAllJobsInOrder(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	manifest := domain.DefaultManifest()

	calls := make([]any, 0, manifest.Len())
	for _, job := range manifest.Jobs() {
		calls = append(calls, f.compiler.EXPECT().Compile(gomock.Any(), f.tc, job, f.span, f.diag).Return(nil))
	}
	gomock.InOrder(calls...)

	summary, err := f.runner.Run(context.Background(), f.tc, manifest, runner.Options{})
	require.NoError(t, err)
	assert.Equal(t, runner.Summary{Compiled: 11}, summary)

	for _, name := range manifest.Names() {
		status, ok := f.runner.Status(name)
		require.True(t, ok)
		assert.Equal(t, domain.JobStatusCompiled, status)
	}
}

func TestRunner_StopsAtFirstFailure(t *testing.T) {
	t.Parallel()

	manifest := domain.DefaultManifest()
	jobs := manifest.Jobs()

	for _, failAt := range []int{0, 3, len(jobs) - 1} {
		f := newFixture(t)

		calls := make([]any, 0, failAt+1)
		for i := range failAt {
			calls = append(calls, f.compiler.EXPECT().Compile(gomock.Any(), f.tc, jobs[i], f.span, f.diag).Return(nil))
		}
		calls = append(calls, f.compiler.EXPECT().
			Compile(gomock.Any(), f.tc, jobs[failAt], f.span, f.diag).
			Return(exitError{code: 3}))
		gomock.InOrder(calls...)
		f.span.EXPECT().RecordError(gomock.Any())

		summary, err := f.runner.Run(context.Background(), f.tc, manifest, runner.Options{})
		require.Error(t, err)
		require.ErrorIs(t, err, domain.ErrCompileFailed)
		assert.Equal(t, 3, domain.ExitCode(err))
		assert.Equal(t, failAt, summary.Compiled)

		status, _ := f.runner.Status(jobs[failAt].Name())
		assert.Equal(t, domain.JobStatusFailed, status)
		for _, later := range jobs[failAt+1:] {
			status, _ := f.runner.Status(later.Name())
			assert.Equal(t, domain.JobStatusPending, status, "job %s must not run", later.Name())
		}
	}
}

func TestRunner_MissingCompilerPath(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	_, err := f.runner.Run(context.Background(), domain.Toolchain{}, domain.DefaultManifest(), runner.Options{})
	require.ErrorIs(t, err, domain.ErrMissingCompilerPath)
	assert.Equal(t, 1, domain.ExitCode(err))
}

func TestRunner_CancelledContext(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.runner.Run(ctx, f.tc, smallManifest(t), runner.Options{})
	require.ErrorIs(t, err, context.Canceled)
}

func TestRunner_Incremental_SkipsUpToDateJobs(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	manifest := smallManifest(t)
	jobs := manifest.Jobs()

	// First job is up to date.
	f.hasher.EXPECT().ComputeInputHash(f.tc, jobs[0], []string{"glslangValidator"}).Return("in0", nil)
	f.store.EXPECT().Get("shaders", jobs[0].Name()).
		Return(&domain.BuildInfo{JobName: jobs[0].Name(), InputHash: "in0", OutputHash: "out0"}, nil)
	f.hasher.EXPECT().ComputeOutputHash(f.tc, jobs[0]).Return("out0", nil)
	f.span.EXPECT().MarkCached()

	// Second job changed since the last build.
	f.hasher.EXPECT().ComputeInputHash(f.tc, jobs[1], gomock.Any()).Return("in1-new", nil)
	f.store.EXPECT().Get("shaders", jobs[1].Name()).
		Return(&domain.BuildInfo{JobName: jobs[1].Name(), InputHash: "in1-old", OutputHash: "out1"}, nil)
	f.compiler.EXPECT().Compile(gomock.Any(), f.tc, jobs[1], f.span, f.diag).Return(nil)
	f.hasher.EXPECT().ComputeOutputHash(f.tc, jobs[1]).Return("out1-new", nil)
	f.store.EXPECT().Put("shaders", gomock.Any()).DoAndReturn(func(_ string, info domain.BuildInfo) error {
		assert.Equal(t, jobs[1].Name(), info.JobName)
		assert.Equal(t, "in1-new", info.InputHash)
		assert.Equal(t, "out1-new", info.OutputHash)
		assert.False(t, info.Timestamp.IsZero())
		return nil
	})

	summary, err := f.runner.Run(context.Background(), f.tc, manifest, runner.Options{Incremental: true})
	require.NoError(t, err)
	assert.Equal(t, runner.Summary{Compiled: 1, Cached: 1}, summary)

	status, _ := f.runner.Status(jobs[0].Name())
	assert.Equal(t, domain.JobStatusCached, status)
}

func TestRunner_Incremental_MissingOutputRebuilds(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	manifest := smallManifest(t)
	job := manifest.Jobs()[0]

	f.hasher.EXPECT().ComputeInputHash(f.tc, job, gomock.Any()).Return("in", nil)
	f.store.EXPECT().Get("shaders", job.Name()).Return(&domain.BuildInfo{InputHash: "in", OutputHash: "out"}, nil)
	f.hasher.EXPECT().ComputeOutputHash(f.tc, job).Return("", errors.New("missing"))
	f.compiler.EXPECT().Compile(gomock.Any(), f.tc, job, f.span, f.diag).Return(errors.New("syntax error"))
	f.span.EXPECT().RecordError(gomock.Any())

	_, err := f.runner.Run(context.Background(), f.tc, manifest, runner.Options{Incremental: true})
	require.ErrorIs(t, err, domain.ErrCompileFailed)
	assert.Equal(t, 1, domain.ExitCode(err))
}

func TestRunner_Incremental_HashFailureCompilesWithoutCache(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	manifest := smallManifest(t)
	jobs := manifest.Jobs()

	for _, job := range jobs {
		f.hasher.EXPECT().ComputeInputHash(f.tc, job, gomock.Any()).Return("", errors.New("include not found"))
		f.compiler.EXPECT().Compile(gomock.Any(), f.tc, job, f.span, f.diag).Return(nil)
	}
	f.logger.EXPECT().Warn(gomock.Any()).Times(len(jobs))

	summary, err := f.runner.Run(context.Background(), f.tc, manifest, runner.Options{Incremental: true})
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Compiled)
}

func TestRunner_KeepsCompilerStreamsApart(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	manifest := smallManifest(t)

	f.span.EXPECT().Write([]byte("to-stdout\n")).Return(10, nil).Times(manifest.Len())
	f.compiler.EXPECT().Compile(gomock.Any(), f.tc, gomock.Any(), f.span, f.diag).
		DoAndReturn(func(_ context.Context, _ domain.Toolchain, _ domain.Job, stdout, stderr io.Writer) error {
			if _, err := stdout.Write([]byte("to-stdout\n")); err != nil {
				return err
			}
			_, err := stderr.Write([]byte("to-stderr\n"))
			return err
		}).Times(manifest.Len())

	_, err := f.runner.Run(context.Background(), f.tc, manifest, runner.Options{})
	require.NoError(t, err)
	assert.Equal(t, "to-stderr\nto-stderr\n", f.diag.String())
}
