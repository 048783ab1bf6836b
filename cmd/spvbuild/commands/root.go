// Package commands implements the CLI commands for spvbuild.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/spvbuild/internal/app"
	"go.trai.ch/spvbuild/internal/build"
	"go.trai.ch/spvbuild/internal/core/domain"
)

// CLI represents the command line interface for spvbuild.
type CLI struct {
	app     Application
	rootCmd *cobra.Command

	compilerPath string
	dir          string
	manifest     string
	logFormat    string
}

// Application represents the application logic interface.
type Application interface {
	ConfigureLogging(format string) error
	Compile(ctx context.Context, opts app.CompileOptions) error
	List(ctx context.Context, opts app.ListOptions) error
	Clean(ctx context.Context, opts app.CleanOptions) error
}

// New creates a new CLI instance with the given app.
func New(a Application) *CLI {
	c := &CLI{app: a}

	rootCmd := &cobra.Command{
		Use:   "spvbuild -c <glslangValidator>",
		Short: "Compile the renderer's GLSL shaders to SPIR-V",
		Long: "spvbuild runs glslangValidator once per shader job, in a fixed order,\n" +
			"and stops at the first job that fails.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return c.app.ConfigureLogging(c.logFormat)
		},
		RunE: c.runCompile,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&c.compilerPath, "compiler", "c", "", "Path of the glslangValidator executable")
	pf.StringVar(&c.dir, "dir", ".", "Shader directory job paths are resolved against")
	pf.StringVar(&c.manifest, "manifest", "",
		fmt.Sprintf("YAML manifest replacing the built-in job list, e.g. %s", domain.ManifestFileName))
	pf.StringVar(&c.logFormat, "log-format", app.LogFormatPretty, "Log format: pretty or json")

	rootCmd.Flags().Bool("incremental", false, "Skip jobs whose inputs and output are unchanged")
	rootCmd.Flags().BoolP("watch", "w", false, "Rebuild when shader sources change (implies --incremental)")

	c.rootCmd = rootCmd

	rootCmd.AddCommand(c.newListCmd())
	rootCmd.AddCommand(c.newCleanCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

func (c *CLI) runCompile(cmd *cobra.Command, _ []string) error {
	incremental, _ := cmd.Flags().GetBool("incremental")
	watch, _ := cmd.Flags().GetBool("watch")

	return c.app.Compile(cmd.Context(), app.CompileOptions{
		CompilerPath: c.compilerPath,
		Dir:          c.dir,
		Manifest:     c.manifest,
		Incremental:  incremental,
		Watch:        watch,
	})
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}
