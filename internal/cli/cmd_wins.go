// Package cli implements the pulse command-line interface.
package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/pulse/internal/config"
	"github.com/randalmurphal/pulse/internal/recap"
)

// newWinsCmd creates the wins command
func newWinsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wins",
		Short: "Show the week's detected wins",
		Long: `Wins are detected during saving recap runs: commits whose subject
carries a completion signal, coding sessions with substantial output,
and days of sustained file churn. This command renders one ISO week
of them as a Markdown digest.

Examples:
  pulse wins                       # current week
  pulse wins --week 2026-W34
  pulse wins --render              # styled terminal output
  pulse wins --save                # write wins/wins_<week>.md`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.RequireInit(); err != nil {
				return err
			}
			cfg, err := loadSettings()
			if err != nil {
				return err
			}

			week, _ := cmd.Flags().GetString("week")
			if week == "" {
				week = recap.ISOWeek(time.Now().UTC().Format("2006-01-02"))
			}

			wins, err := recap.LoadWins(recap.WinsLogPath(cfg.WinsDir()))
			if err != nil {
				return err
			}
			weekWins := recap.WeekWins(wins, week)

			if jsonOut {
				return printJSON(os.Stdout, weekWins)
			}
			if len(weekWins) == 0 {
				fmt.Printf("No wins recorded for %s. They accrue from: pulse recap --save\n", week)
				return nil
			}

			doc := recap.RenderWeekly(week, weekWins)

			if save, _ := cmd.Flags().GetBool("save"); save {
				path, err := recap.SaveWeekly(cfg.WinsDir(), week, weekWins)
				if err != nil {
					return err
				}
				fmt.Printf("💾 Saved to %s\n", path)
				return nil
			}

			if render, _ := cmd.Flags().GetBool("render"); render {
				fmt.Print(renderMarkdown(doc))
				return nil
			}
			fmt.Print(doc)
			return nil
		},
	}

	cmd.Flags().String("week", "", "ISO week to show (e.g. 2026-W34, default current)")
	cmd.Flags().Bool("render", false, "render the Markdown for the terminal")
	cmd.Flags().Bool("save", false, "write the weekly digest under the wins directory")
	return cmd
}
