// Package glslang runs glslangValidator to compile GLSL jobs to SPIR-V.
package glslang

import (
	"context"
	"errors"
	"io"
	"os/exec"
	"path/filepath"
	"strings"

	"go.trai.ch/spvbuild/internal/core/domain"
	"go.trai.ch/spvbuild/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Compiler = (*Compiler)(nil)

// baseFlags request debug info (-g), Vulkan SPIR-V output (-V) and no
// informational banner (--quiet).
var baseFlags = []string{"-g", "-V", "--quiet"}

// Compiler implements ports.Compiler by running the compiler executable as a
// synchronous subprocess.
type Compiler struct{}

// NewCompiler creates a new Compiler.
func NewCompiler() *Compiler {
	return &Compiler{}
}

// CommandLine returns
//
//	<compiler> -g -V --quiet <source> -o <output> [-D<define> ...]
//
// with source and output resolved against the shader directory.
func (c *Compiler) CommandLine(tc domain.Toolchain, job domain.Job) []string {
	source := filepath.Join(tc.ShaderDir, job.SourcePath())
	output := filepath.Join(tc.ShaderDir, job.OutputPath())

	argv := make([]string, 0, 1+len(baseFlags)+3+len(job.Defines))
	argv = append(argv, tc.CompilerPath)
	argv = append(argv, baseFlags...)
	argv = append(argv, source, "-o", output)
	for _, define := range job.Defines {
		argv = append(argv, "-D"+define)
	}
	return argv
}

// Compile runs the compiler for the job and waits for it to exit.
func (c *Compiler) Compile(
	ctx context.Context,
	tc domain.Toolchain,
	job domain.Job,
	stdout, stderr io.Writer,
) error {
	if err := tc.Validate(); err != nil {
		return err
	}
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}

	argv := c.CommandLine(tc, job)

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...) //nolint:gosec // compiler path is user configuration
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			failed := zerr.With(zerr.Wrap(err, "compiler exited with failure"), "exit_code", exitErr.ExitCode())
			return zerr.With(failed, "command", strings.Join(argv, " "))
		}
		return zerr.With(zerr.Wrap(err, domain.ErrCompilerStartFailed.Error()), "compiler", tc.CompilerPath)
	}

	return nil
}
