package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/spvbuild/internal/app"
)

func (c *CLI) newCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove incremental build state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			outputs, _ := cmd.Flags().GetBool("outputs")

			return c.app.Clean(cmd.Context(), app.CleanOptions{
				Dir:      c.dir,
				Manifest: c.manifest,
				Outputs:  outputs,
			})
		},
	}

	cmd.Flags().Bool("outputs", false, "Also remove every job's SPIR-V output")

	return cmd
}
