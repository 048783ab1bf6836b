package domain_test

import (
	"errors"
	"fmt"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/spvbuild/internal/core/domain"
	"go.trai.ch/zerr"
)

func TestDefaultManifest_Order(t *testing.T) {
	m := domain.DefaultManifest()
	require.Equal(t, 11, m.Len())

	assert.Equal(t, []string{
		"deferred/gbuffer.frag.spv",
		"deferred/gbuffer.vert.spv",
		"deferred/light.comp.spv",
		"deferred/ssao.comp.spv",
		"geometry.frag.spv",
		"geometry.vert.spv",
		"oetf_srgb.comp.spv",
		"testpattern.comp.spv",
		"shadowmapping/offscreen.vert.spv",
		"gaussian_blur/gaussian_blur.vertical.comp.spv",
		"gaussian_blur/gaussian_blur.horizontal.comp.spv",
	}, m.Names())
}

func TestDefaultManifest_BlurVariants(t *testing.T) {
	var blur []domain.Job
	for _, job := range domain.DefaultJobs() {
		if job.Source == "gaussian_blur.comp" {
			blur = append(blur, job)
		}
	}
	require.Len(t, blur, 2)

	vertical, horizontal := blur[0], blur[1]
	assert.Equal(t, vertical.Root, horizontal.Root)
	assert.Equal(t, vertical.SourcePath(), horizontal.SourcePath())
	assert.Equal(t, "gaussian_blur.vertical.comp.spv", vertical.Output)
	assert.Equal(t, "gaussian_blur.horizontal.comp.spv", horizontal.Output)
	assert.Equal(t, []string{"GAUSSIAN_BLUR_DIRECTION=0"}, vertical.Defines)
	assert.Equal(t, []string{"GAUSSIAN_BLUR_DIRECTION=1"}, horizontal.Defines)

	for _, job := range domain.DefaultJobs() {
		if job.Source != "gaussian_blur.comp" {
			assert.Empty(t, job.Defines, job.Name())
		}
	}
}

func TestDefaultManifest_JobsAreCopies(t *testing.T) {
	m := domain.DefaultManifest()
	jobs := m.Jobs()
	jobs[0].Output = "mutated.spv"

	assert.Equal(t, "deferred/gbuffer.frag.spv", m.Jobs()[0].Name())
}

func TestNewManifest_Validation(t *testing.T) {
	tests := []struct {
		name    string
		jobs    []domain.Job
		wantErr string
	}{
		{
			name: "valid",
			jobs: []domain.Job{{Root: ".", Source: "a.vert", Output: "a.vert.spv"}},
		},
		{
			name:    "empty source",
			jobs:    []domain.Job{{Root: ".", Output: "a.vert.spv"}},
			wantErr: "invalid job",
		},
		{
			name:    "empty output",
			jobs:    []domain.Job{{Root: ".", Source: "a.vert"}},
			wantErr: "invalid job",
		},
		{
			name: "duplicate output",
			jobs: []domain.Job{
				{Root: "x", Source: "a.vert", Output: "a.spv"},
				{Root: "x", Source: "b.vert", Output: "a.spv"},
			},
			wantErr: "duplicate output",
		},
		{
			name:    "define looks like a flag",
			jobs:    []domain.Job{{Source: "a.comp", Output: "a.spv", Defines: []string{"-o"}}},
			wantErr: "invalid define",
		},
		{
			name:    "define with whitespace",
			jobs:    []domain.Job{{Source: "a.comp", Output: "a.spv", Defines: []string{"A B"}}},
			wantErr: "invalid define",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := domain.NewManifest(tt.jobs)
			if tt.wantErr == "" {
				require.NoError(t, err)
				assert.Equal(t, len(tt.jobs), m.Len())
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

type exitStatus int

func (e exitStatus) Error() string { return fmt.Sprintf("exit status %d", int(e)) }
func (e exitStatus) ExitCode() int { return int(e) }

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, domain.ExitCode(nil))
	assert.Equal(t, 1, domain.ExitCode(errors.New("plain")))
	assert.Equal(t, 7, domain.ExitCode(exitStatus(7)))
	assert.Equal(t, 7, domain.ExitCode(zerr.Wrap(exitStatus(7), "wrapped")))
	assert.Equal(t, 7, domain.ExitCode(errors.Join(domain.ErrCompileFailed, exitStatus(7))))
	assert.Equal(t, 1, domain.ExitCode(exitStatus(-1)))
}

func TestExitCode_ProcessExit(t *testing.T) {
	err := exec.Command("sh", "-c", "exit 3").Run()
	require.Error(t, err)
	assert.Equal(t, 3, domain.ExitCode(err))
}
