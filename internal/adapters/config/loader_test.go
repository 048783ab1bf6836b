package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/spvbuild/internal/adapters/config"
	"go.trai.ch/spvbuild/internal/core/domain"
	"go.trai.ch/spvbuild/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func createFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), domain.FilePerm))
	return path
}

func TestLoader_Load_Default(t *testing.T) {
	ctrl := gomock.NewController(t)
	loader := config.NewLoader(mocks.NewMockLogger(ctrl))

	m, err := loader.Load("")
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultManifest().Names(), m.Names())
}

func TestLoader_Load_File(t *testing.T) {
	ctrl := gomock.NewController(t)
	loader := config.NewLoader(mocks.NewMockLogger(ctrl))

	path := createFile(t, t.TempDir(), domain.ManifestFileName, `
version: "1"
jobs:
  - root: post
    source: tonemap.comp
    output: tonemap.comp.spv
  - source: fullscreen.vert
    output: fullscreen.vert.spv
  - root: gaussian_blur
    source: gaussian_blur.comp
    output: gaussian_blur.vertical.comp.spv
    defines: [GAUSSIAN_BLUR_DIRECTION=0]
`)

	m, err := loader.Load(path)
	require.NoError(t, err)

	jobs := m.Jobs()
	require.Len(t, jobs, 3)
	assert.Equal(t, domain.Job{Root: "post", Source: "tonemap.comp", Output: "tonemap.comp.spv"}, jobs[0])
	assert.Equal(t, ".", jobs[1].Root)
	assert.Equal(t, []string{"GAUSSIAN_BLUR_DIRECTION=0"}, jobs[2].Defines)
}

func TestLoader_Load_MissingVersionWarns(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Warn(gomock.Any()).Times(1)
	loader := config.NewLoader(mockLogger)

	path := createFile(t, t.TempDir(), domain.ManifestFileName, `
jobs:
  - source: a.vert
    output: a.vert.spv
`)

	m, err := loader.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1, m.Len())
}

func TestLoader_Load_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "invalid yaml",
			content: "jobs: [",
			wantErr: domain.ErrConfigParseFailed.Error(),
		},
		{
			name:    "unsupported version",
			content: "version: \"2\"\njobs:\n  - source: a.vert\n    output: a.spv\n",
			wantErr: domain.ErrUnsupportedManifestVersion.Error(),
		},
		{
			name:    "no jobs",
			content: "version: \"1\"\njobs: []\n",
			wantErr: domain.ErrEmptyManifest.Error(),
		},
		{
			name:    "job without output",
			content: "version: \"1\"\njobs:\n  - source: a.vert\n",
			wantErr: domain.ErrInvalidJob.Error(),
		},
		{
			name: "duplicate output",
			content: "version: \"1\"\njobs:\n" +
				"  - source: a.vert\n    output: a.spv\n" +
				"  - source: b.vert\n    output: a.spv\n",
			wantErr: domain.ErrDuplicateOutput.Error(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			loader := config.NewLoader(mocks.NewMockLogger(ctrl))

			path := createFile(t, t.TempDir(), domain.ManifestFileName, tt.content)
			_, err := loader.Load(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoader_Load_MissingFile(t *testing.T) {
	ctrl := gomock.NewController(t)
	loader := config.NewLoader(mocks.NewMockLogger(ctrl))

	_, err := loader.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrConfigReadFailed.Error())
}
