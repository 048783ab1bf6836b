package domain

// Toolchain locates the compiler and the shader directory for a run.
type Toolchain struct {
	// CompilerPath is the path of the glslangValidator executable, passed to
	// the operating system unchanged.
	CompilerPath string
	// ShaderDir is the directory job roots are resolved against.
	ShaderDir string
}

// Validate reports a configuration error when the compiler path is absent.
func (t Toolchain) Validate() error {
	if t.CompilerPath == "" {
		return ErrMissingCompilerPath
	}
	return nil
}
