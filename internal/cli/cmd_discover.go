// Package cli implements the pulse command-line interface.
package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/pulse/internal/discover"
)

// newDiscoverCmd creates the discover command
func newDiscoverCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "discover",
		Short: "Find unregistered projects on disk",
		Long: `Walk the scan root looking for directories that carry project
indicators (a .git folder, go.mod, package.json, a Makefile, ...).
Each unknown candidate is queued as a new_project change for review;
nothing is registered until you approve it.

Examples:
  pulse discover
  pulse discover --root ~/work`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, rm, err := loadForReview()
			if err != nil {
				return err
			}

			root, _ := cmd.Flags().GetString("root")
			if root == "" {
				root = cfg.ScanRoot
			}

			scanner := discover.NewScanner(root, cfg.ExcludeDirs, nil)
			cands, err := scanner.Scan(cmd.Context())
			if err != nil {
				return err
			}

			if jsonOut {
				return printJSON(os.Stdout, cands)
			}
			if len(cands) == 0 {
				fmt.Printf("No project candidates under %s\n", root)
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tCONF\tTEAM\tPATH\tINDICATORS")
			fmt.Fprintln(w, "────\t────\t────\t────\t──────────")
			for _, c := range cands {
				team := c.Team
				if team == "" {
					team = "-"
				}
				fmt.Fprintf(w, "%s\t%d%%\t%s\t%s\t%d\n",
					c.Name, int(c.Confidence*100), team, truncate(c.Path, 50), len(c.Indicators))
			}
			w.Flush()

			queued := discover.Changes(rm, cands)
			if len(queued) == 0 {
				fmt.Println("\nEverything here is already registered or pending.")
				return nil
			}
			if err := rm.Save(cfg.RoadmapPath()); err != nil {
				return err
			}
			fmt.Printf("\n📋 %d new project(s) proposed. Review with: pulse review list\n", len(queued))
			return nil
		},
	}

	cmd.Flags().String("root", "", "directory to scan (default scan_root from config)")
	return cmd
}
