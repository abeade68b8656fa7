// Package cli implements the pulse command-line interface.
package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/pulse/internal/config"
	"github.com/randalmurphal/pulse/internal/roadmap"
)

// newReviewCmd creates the review command group
func newReviewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "review",
		Short: "Review proposed roadmap changes",
		Long: `Inspect and decide the changes pulse proposed from collected activity:
theme status transitions, stale-theme warnings, new theme suggestions and
discovered projects. Nothing mutates the roadmap until you approve it.

Examples:
  pulse review list
  pulse review approve 3f2a91c0
  pulse review approve --all
  pulse review reject 3f2a91c0
  pulse review clear`,
	}

	cmd.AddCommand(newReviewListCmd())
	cmd.AddCommand(newReviewApproveCmd())
	cmd.AddCommand(newReviewRejectCmd())
	cmd.AddCommand(newReviewClearCmd())
	return cmd
}

func newReviewListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List pending changes",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, rm, err := loadForReview()
			if err != nil {
				return err
			}

			pending := rm.Pending()
			if jsonOut {
				return printJSON(os.Stdout, pending)
			}
			if len(pending) == 0 {
				fmt.Println("No pending changes. Run: pulse recap")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTYPE\tCREATED\tDESCRIPTION")
			fmt.Fprintln(w, "──\t────\t───────\t───────────")
			for _, c := range pending {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					c.ID, c.Type, c.CreatedAt.Format("2006-01-02"), truncate(c.Description, 60))
			}
			w.Flush()

			fmt.Printf("\n%d pending. Decide with: pulse review approve|reject <id>\n", len(pending))
			return nil
		},
	}
}

func newReviewApproveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "approve [change-id]",
		Short: "Approve a pending change",
		Long: `Approve a pending change and apply its mutation to the roadmap.
Accepts a unique id prefix. --all approves every pending change.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			all, _ := cmd.Flags().GetBool("all")
			if !all && len(args) == 0 {
				return fmt.Errorf("provide a change id or --all")
			}

			cfg, rm, err := loadForReview()
			if err != nil {
				return err
			}

			var decided []*roadmap.ProposedChange
			if all {
				for _, c := range rm.Pending() {
					if _, err := rm.Approve(c.ID); err != nil {
						fmt.Printf("⚠️  %s: %v\n", c.ID, err)
						continue
					}
					decided = append(decided, c)
				}
			} else {
				c, err := rm.Approve(args[0])
				if err != nil {
					return err
				}
				decided = append(decided, c)
			}

			if len(decided) == 0 {
				fmt.Println("Nothing approved.")
				return nil
			}
			if err := rm.Save(cfg.RoadmapPath()); err != nil {
				return err
			}
			for _, c := range decided {
				fmt.Printf("✅ %s approved: %s\n", c.ID, c.Description)
			}
			return nil
		},
	}
	cmd.Flags().Bool("all", false, "approve every pending change")
	return cmd
}

func newReviewRejectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reject <change-id>",
		Short: "Reject a pending change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, rm, err := loadForReview()
			if err != nil {
				return err
			}

			c, err := rm.Reject(args[0])
			if err != nil {
				return err
			}
			if err := rm.Save(cfg.RoadmapPath()); err != nil {
				return err
			}
			fmt.Printf("❌ %s rejected: %s\n", c.ID, c.Description)
			return nil
		},
	}
}

func newReviewClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Drop decided changes from the audit list",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, rm, err := loadForReview()
			if err != nil {
				return err
			}

			dropped := rm.ClearDecided()
			if dropped == 0 {
				fmt.Println("Nothing to clear.")
				return nil
			}
			if err := rm.Save(cfg.RoadmapPath()); err != nil {
				return err
			}
			fmt.Printf("🧹 Cleared %d decided change(s)\n", dropped)
			return nil
		},
	}
}

// loadForReview is the common preamble of every review subcommand.
func loadForReview() (*config.Settings, *roadmap.Roadmap, error) {
	if err := config.RequireInit(); err != nil {
		return nil, nil, err
	}
	cfg, err := loadSettings()
	if err != nil {
		return nil, nil, err
	}
	rm, _, err := openRoadmap(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, rm, nil
}
