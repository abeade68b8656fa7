// Package cli implements the pulse command-line interface.
package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/pulse/internal/roadmap"
)

// newStatusCmd creates the status command
func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "status",
		Aliases: []string{"st"},
		Short:   "Show the roadmap at a glance",
		Long: `Print the roadmap tree: every project with its themes and tasks,
status icons (○ planned  ● active  ! blocked  ✓ complete) and a
staleness marker for themes untouched past the configured window.

Examples:
  pulse status
  pulse status --all    # include complete themes and done tasks`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, rm, err := loadForReview()
			if err != nil {
				return err
			}
			all, _ := cmd.Flags().GetBool("all")

			if jsonOut {
				return printJSON(os.Stdout, rm)
			}

			if len(rm.Projects) == 0 {
				fmt.Println("No projects registered.")
				fmt.Println("Seed .pulse/projects.yaml or run: pulse discover")
				return nil
			}

			now := time.Now().UTC()
			for _, p := range rm.Projects {
				team := ""
				if p.Team != "" {
					team = fmt.Sprintf("  (%s)", p.Team)
				}
				fmt.Printf("%s%s\n", p.Name, team)
				if p.FolderPath != "" && verbose {
					fmt.Printf("  %s\n", p.FolderPath)
				}
				for _, th := range p.Themes {
					if !all && th.Status == roadmap.ThemeComplete {
						continue
					}
					stale := ""
					if th.IsStale(cfg.StalenessDays, now) {
						stale = "  (stale)"
					}
					fmt.Printf("  %s %s  %s%s\n", themeIcon(th.Status), th.ID, th.Name, stale)
					for _, t := range th.Tasks {
						if !all && t.Status == roadmap.TaskDone {
							continue
						}
						fmt.Printf("    %s %s  %s\n", taskIcon(t.Status), t.ID, truncate(t.Description, 60))
					}
				}
				fmt.Println()
			}

			if pending := len(rm.Pending()); pending > 0 {
				fmt.Printf("📋 %d pending change(s): pulse review list\n", pending)
			}
			return nil
		},
	}

	cmd.Flags().BoolP("all", "a", false, "include complete themes and done tasks")
	return cmd
}
