// Package cli implements the pulse command-line interface.
package cli

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/pulse/internal/activity"
	"github.com/randalmurphal/pulse/internal/archive"
	"github.com/randalmurphal/pulse/internal/config"
	"github.com/randalmurphal/pulse/internal/recap"
)

// newHistoryCmd creates the history command
func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show activity trends from daily snapshots",
		Long: `Render the rolling snapshot history: recent daily totals, the
week-over-week change and a sparkline. Snapshots accrue from saving
recap runs and the last 30 are retained.

Examples:
  pulse history
  pulse history --days 14
  pulse history --rebuild    # rebuild the archive index from the JSON logs`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.RequireInit(); err != nil {
				return err
			}
			cfg, err := loadSettings()
			if err != nil {
				return err
			}

			if rebuild, _ := cmd.Flags().GetBool("rebuild"); rebuild {
				return rebuildArchive(cmd, cfg)
			}

			days, _ := cmd.Flags().GetInt("days")
			snaps, err := recap.LoadHistory(cfg.SnapshotsPath())
			if err != nil {
				return err
			}
			if jsonOut {
				return printJSON(os.Stdout, snaps)
			}
			if len(snaps) == 0 {
				fmt.Println("No snapshots yet. They accrue from: pulse recap --save")
				return nil
			}

			today := time.Now().UTC().Format("2006-01-02")

			shown := snaps
			if len(shown) > days {
				shown = shown[len(shown)-days:]
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "DATE\tACTIVITIES\tFILES\tUNCATEGORIZED")
			fmt.Fprintln(w, "────\t──────────\t─────\t─────────────")
			for _, s := range shown {
				fmt.Fprintf(w, "%s\t%d\t%d\t%d\n", s.Date, s.Total, s.Files, s.Uncategorized)
			}
			w.Flush()

			fmt.Printf("\n%s  last 7 days\n", recap.Sparkline(snaps, today, 7))
			change := recap.WeekTrend(snaps, today)
			switch {
			case change > 0:
				fmt.Printf("📈 %+d%% vs previous week\n", change)
			case change < 0:
				fmt.Printf("📉 %+d%% vs previous week\n", change)
			default:
				fmt.Println("➡️  flat vs previous week")
			}
			return nil
		},
	}

	cmd.Flags().Int("days", 7, "how many snapshot days to list")
	cmd.Flags().Bool("rebuild", false, "rebuild the archive index from the activity logs")
	return cmd
}

// rebuildArchive replays every daily activity log into a fresh archive
// index. The JSON logs stay the source of truth; the index only serves
// range and search queries.
func rebuildArchive(cmd *cobra.Command, cfg *config.Settings) error {
	arch, err := archive.Open(cfg.ArchivePath())
	if err != nil {
		return err
	}
	defer func() { _ = arch.Close() }()

	store := activity.NewStore(cfg.ActivitiesDir(), nil)
	n, err := arch.Rebuild(cmd.Context(), store)
	if err != nil {
		return err
	}
	fmt.Printf("✅ Archive rebuilt: %d activities indexed\n", n)
	return nil
}
