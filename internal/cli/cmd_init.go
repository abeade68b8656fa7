// Package cli implements the pulse command-line interface.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/pulse/internal/config"
)

// newInitCmd creates the init command
func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize pulse in the current directory",
		Long: `Initialize pulse here: creates the .pulse directory with a default
config.yaml, an empty projects.yaml registry, and the data directories
pulse writes into.

Example:
  pulse init
  pulse init --force    # overwrite an existing config`,
		RunE: func(cmd *cobra.Command, args []string) error {
			force, _ := cmd.Flags().GetBool("force")

			if err := config.Init(force); err != nil {
				return err
			}

			fmt.Println("✅ pulse initialized")
			fmt.Println("   Config:   .pulse/config.yaml")
			fmt.Println("   Registry: .pulse/projects.yaml")
			fmt.Println()
			fmt.Println("Next steps:")
			fmt.Println("   pulse discover     # find projects on disk")
			fmt.Println("   pulse recap        # see today's activity")
			return nil
		},
	}

	cmd.Flags().BoolP("force", "f", false, "overwrite existing configuration")
	return cmd
}
