// Package cli implements the pulse command-line interface.
package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/pulse/internal/errors"
	"github.com/randalmurphal/pulse/internal/roadmap"
)

// newThemeCmd creates the theme command group
func newThemeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "theme",
		Short: "Manage project themes",
		Long: `Add and list the themes (named initiatives) under your projects.
Theme status moves through the review workflow; this command only
creates and shows them.

Examples:
  pulse theme add Billing "Usage-based invoicing"
  pulse theme list
  pulse theme list Billing`,
	}

	cmd.AddCommand(newThemeAddCmd())
	cmd.AddCommand(newThemeListCmd())
	return cmd
}

func newThemeAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <project> <name>",
		Short: "Add a theme to a project",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, rm, err := loadForReview()
			if err != nil {
				return err
			}

			p := rm.FindProject(args[0])
			if p == nil {
				return errors.ErrProjectNotFound(args[0])
			}
			if p.FindTheme(args[1]) != nil {
				return errors.ErrDuplicateName(args[1])
			}

			th := p.AddTheme(args[1])
			if err := rm.Save(cfg.RoadmapPath()); err != nil {
				return err
			}
			fmt.Printf("✅ Theme %s added to %s: %s\n", th.ID, p.Name, th.Name)
			return nil
		},
	}
}

func newThemeListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list [project]",
		Aliases: []string{"ls"},
		Short:   "List themes, optionally for one project",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, rm, err := loadForReview()
			if err != nil {
				return err
			}

			projects := rm.Projects
			if len(args) == 1 {
				p := rm.FindProject(args[0])
				if p == nil {
					return errors.ErrProjectNotFound(args[0])
				}
				projects = []*roadmap.Project{p}
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "PROJECT\tID\tSTATUS\tTHEME\tTASKS")
			fmt.Fprintln(w, "───────\t──\t──────\t─────\t─────")
			rows := 0
			for _, p := range projects {
				for _, th := range p.Themes {
					fmt.Fprintf(w, "%s\t%s\t%s %s\t%s\t%d\n",
						p.Name, th.ID, themeIcon(th.Status), th.Status, truncate(th.Name, 40), len(th.Tasks))
					rows++
				}
			}
			w.Flush()

			if rows == 0 {
				fmt.Println("No themes yet. Add one with: pulse theme add <project> <name>")
			}
			return nil
		},
	}
}
