package linear_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/spvbuild/internal/adapters/linear"
	"go.trai.ch/spvbuild/internal/core/ports"
)

func newRenderer(t *testing.T) (*linear.Renderer, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	var stdout, stderr bytes.Buffer
	return linear.NewRenderer(&stdout, &stderr), &stdout, &stderr
}

func TestRenderer_JobLifecycle(t *testing.T) {
	r, stdout, stderr := newRenderer(t)
	require.NoError(t, r.Start(context.Background()))

	r.OnPlanEmit([]string{"geometry.frag.spv", "geometry.vert.spv"})
	assert.Equal(t, "Compiling 2 shader(s)\n", stderr.String())

	start := time.Now()
	r.OnJobStart("span1", "geometry.vert.spv", start)
	assert.Contains(t, stderr.String(), "[geometry.vert.spv] Starting (2/2)...\n")

	r.OnJobLog("span1", ports.StreamStdout, []byte("geometry.vert\n"))
	r.OnJobLog("span1", ports.StreamStdout, []byte("WARNING: 0:3: unused\r\n"))
	assert.Equal(t, "[geometry.vert.spv] geometry.vert\n[geometry.vert.spv] WARNING: 0:3: unused\n", stdout.String())

	r.OnJobComplete("span1", start.Add(120*time.Millisecond), nil, false)
	assert.Contains(t, stderr.String(), "[geometry.vert.spv] ✓ Completed in 120ms\n")

	require.NoError(t, r.Stop())
	require.NoError(t, r.Wait())
}

func TestRenderer_PartialLines(t *testing.T) {
	r, stdout, _ := newRenderer(t)

	r.OnJobStart("span1", "a.spv", time.Now())
	r.OnJobLog("span1", ports.StreamStdout, []byte("par"))
	assert.Empty(t, stdout.String())

	r.OnJobLog("span1", ports.StreamStdout, []byte("tial\nrest"))
	assert.Equal(t, "[a.spv] partial\n", stdout.String())

	r.OnJobComplete("span1", time.Now(), nil, false)
	assert.Equal(t, "[a.spv] partial\n[a.spv] rest\n", stdout.String())
}

func TestRenderer_Failure(t *testing.T) {
	r, _, stderr := newRenderer(t)

	start := time.Now()
	r.OnJobStart("span1", "deferred/ssao.comp.spv", start)
	r.OnJobComplete("span1", start.Add(time.Second), errors.New("exit status 2"), false)

	assert.Contains(t, stderr.String(), "[deferred/ssao.comp.spv] Starting...\n")
	assert.Contains(t, stderr.String(), "[deferred/ssao.comp.spv] ✗ Failed after 1s: exit status 2\n")
}

func TestRenderer_Cached(t *testing.T) {
	r, _, stderr := newRenderer(t)

	r.OnJobStart("span1", "a.spv", time.Now())
	r.OnJobComplete("span1", time.Now(), nil, true)

	assert.Contains(t, stderr.String(), "[a.spv] ~ Cached\n")
}

func TestRenderer_UnknownSpan(t *testing.T) {
	r, stdout, stderr := newRenderer(t)

	r.OnJobLog("missing", ports.StreamStdout, []byte("ignored\n"))
	r.OnJobComplete("missing", time.Now(), nil, false)

	assert.Empty(t, stdout.String())
	assert.Empty(t, stderr.String())
}

func TestRenderer_StopFlushesPartialOutput(t *testing.T) {
	r, stdout, _ := newRenderer(t)

	r.OnJobStart("span1", "a.spv", time.Now())
	r.OnJobLog("span1", ports.StreamStdout, []byte("no newline"))
	require.NoError(t, r.Stop())

	assert.Equal(t, "[a.spv] no newline\n", stdout.String())
}

func TestRenderer_SeparatesStreams(t *testing.T) {
	r, stdout, stderr := newRenderer(t)

	r.OnJobStart("span1", "a.spv", time.Now())
	stderr.Reset()

	r.OnJobLog("span1", ports.StreamStdout, []byte("to-stdout\n"))
	r.OnJobLog("span1", ports.StreamStderr, []byte("ERROR: 0:1: to-stderr\npart"))
	r.OnJobLog("span1", ports.StreamStdout, []byte("tail"))

	assert.Equal(t, "[a.spv] to-stdout\n", stdout.String())
	assert.Equal(t, "[a.spv] ERROR: 0:1: to-stderr\n", stderr.String())

	require.NoError(t, r.Stop())
	assert.Equal(t, "[a.spv] to-stdout\n[a.spv] tail\n", stdout.String())
	assert.Equal(t, "[a.spv] ERROR: 0:1: to-stderr\n[a.spv] part\n", stderr.String())
}

func TestRenderer_SetOutput(t *testing.T) {
	r, stdout, stderr := newRenderer(t)

	var out, diag bytes.Buffer
	r.SetOutput(&out, &diag)

	r.OnPlanEmit([]string{"a.spv"})
	r.OnJobStart("span1", "a.spv", time.Now())
	r.OnJobLog("span1", ports.StreamStdout, []byte("a.comp\n"))
	r.OnJobComplete("span1", time.Now(), nil, false)

	assert.Empty(t, stdout.String())
	assert.Empty(t, stderr.String())
	assert.Equal(t, "[a.spv] a.comp\n", out.String())
	assert.Contains(t, diag.String(), "Compiling 1 shader(s)\n")
	assert.Contains(t, diag.String(), "[a.spv] ✓ Completed")
}
