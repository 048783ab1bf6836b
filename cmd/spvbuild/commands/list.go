package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/spvbuild/internal/app"
)

func (c *CLI) newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print the shader jobs and their compiler command lines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.List(cmd.Context(), app.ListOptions{
				CompilerPath: c.compilerPath,
				Dir:          c.dir,
				Manifest:     c.manifest,
			})
		},
	}
}
