// Package cli implements the pulse command-line interface.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/pulse/internal/activity"
	"github.com/randalmurphal/pulse/internal/archive"
	"github.com/randalmurphal/pulse/internal/classify"
	"github.com/randalmurphal/pulse/internal/collect"
	"github.com/randalmurphal/pulse/internal/config"
	"github.com/randalmurphal/pulse/internal/recap"
	"github.com/randalmurphal/pulse/internal/report"
	"github.com/randalmurphal/pulse/internal/roadmap"
)

// newRecapCmd creates the recap command
func newRecapCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recap",
		Short: "Collect, classify and summarize recent activity",
		Long: `Run the full pipeline: collect activity from the filesystem, git
history and Claude Code sessions, classify it against your registered
projects, queue any proposed roadmap changes, and print the recap.

Examples:
  pulse recap                 # last 24 hours (or config lookback)
  pulse recap --hours 48      # wider window
  pulse recap --save          # persist recap, activity log and snapshot
  pulse recap --date 2026-08-21   # re-render a saved recap`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.RequireInit(); err != nil {
				return err
			}
			cfg, err := loadSettings()
			if err != nil {
				return err
			}

			date, _ := cmd.Flags().GetString("date")
			if date != "" {
				return showSavedRecap(cfg, date)
			}

			hours, _ := cmd.Flags().GetInt("hours")
			if hours <= 0 {
				hours = cfg.LookbackHours
			}
			save, _ := cmd.Flags().GetBool("save")
			return runRecap(cmd.Context(), cfg, hours, save)
		},
	}

	cmd.Flags().IntP("hours", "H", 0, "lookback window in hours (default from config)")
	cmd.Flags().BoolP("save", "s", false, "persist the recap, activity log and daily snapshot")
	cmd.Flags().String("date", "", "re-render a saved recap (YYYY-MM-DD)")
	return cmd
}

// runRecap executes the collect → classify → propose → aggregate pipeline.
func runRecap(ctx context.Context, cfg *config.Settings, hours int, save bool) error {
	now := time.Now().UTC()
	date := now.Format("2006-01-02")
	window := collect.WindowBack(hours, now)

	rm, synced, err := openRoadmap(cfg)
	if err != nil {
		return err
	}

	acts := collect.Run(ctx, buildCollectors(cfg), window, slog.Default())

	mcfg := classify.Config{
		Threshold:        cfg.Classifier.Threshold,
		HighConfidence:   cfg.Classifier.HighConfidence,
		KeywordOverrides: cfg.Classifier.KeywordOverrides,
	}
	matcher := classify.NewMatcher(rm.Projects, mcfg)
	matcher.Classify(acts)

	transitions := classify.DetectTransitions(rm.Projects, acts)
	suggestions := classify.SuggestThemes(acts, rm.Projects, 0)
	queued := recap.QueueChanges(rm, transitions, suggestions, cfg.StalenessDays, now)

	r := recap.Build(date, hours, acts, rm)
	r.Daily = dailyNotes(cfg, date)
	r.PendingChanges = len(rm.Pending())

	if save {
		if err := persistRun(ctx, cfg, rm, acts, r); err != nil {
			return err
		}
	} else if synced || len(queued) > 0 {
		// Queued proposals must survive for review even on a dry run.
		if err := rm.Save(cfg.RoadmapPath()); err != nil {
			return err
		}
	}

	if jsonOut {
		return printJSON(os.Stdout, r)
	}

	fmt.Print(report.Text(r, termWidth()))
	if len(queued) > 0 {
		fmt.Printf("\n📋 %d change(s) proposed. Review with: pulse review list\n", len(queued))
	}
	if save {
		fmt.Printf("\n💾 Saved to %s\n", recap.Path(cfg.RecapsDir(), date))
	}
	return nil
}

// persistRun writes everything a saving recap produces: the activity log,
// the archive index, the daily snapshot, detected wins, the recap document
// and the roadmap with its queued changes. Whole-file rewrites keep each
// document valid on its own; there is no cross-file atomicity.
func persistRun(ctx context.Context, cfg *config.Settings, rm *roadmap.Roadmap,
	acts []*activity.Activity, r *recap.Recap) error {

	store := activity.NewStore(cfg.ActivitiesDir(), nil)
	added, dups, err := store.Append(acts)
	if err != nil {
		return err
	}
	slog.Debug("activity log updated", "added", added, "duplicates", dups)

	if arch, err := archive.Open(cfg.ArchivePath()); err != nil {
		slog.Warn("archive unavailable, skipping index", "error", err)
	} else {
		if _, err := arch.Index(ctx, acts); err != nil {
			slog.Warn("archive index failed", "error", err)
		}
		_ = arch.Close()
	}

	sum := recap.Aggregate(acts, rm)
	if _, err := recap.RecordSnapshot(cfg.SnapshotsPath(), recap.FromSummary(r.Date, sum)); err != nil {
		slog.Warn("snapshot not recorded", "error", err)
	}

	if wins := recap.DetectWins(r.Date, acts); len(wins) > 0 {
		if _, err := recap.AppendWins(recap.WinsLogPath(cfg.WinsDir()), wins); err != nil {
			slog.Warn("wins not recorded", "error", err)
		}
	}

	if _, err := recap.Save(cfg.RecapsDir(), r); err != nil {
		return err
	}
	return rm.Save(cfg.RoadmapPath())
}

// buildCollectors assembles the collector set the settings enable.
func buildCollectors(cfg *config.Settings) []collect.Collector {
	collectors := []collect.Collector{
		collect.NewFilesystemCollector(cfg.ScanRoot, cfg.ExcludeDirs, cfg.ExcludePatterns, cfg.Extensions, nil),
		collect.NewGitCollector(cfg.ScanRoot, cfg.ExcludeDirs, cfg.GitTimeout, &collect.ExecRunner{}, nil),
		collect.NewClaudeCollector(cfg.Claude.ProjectsDir, nil),
	}
	if cfg.GitHub.Enabled && cfg.GitHub.Token != "" {
		collectors = append(collectors, collect.NewGitHubCollector(cfg.GitHub.Token, cfg.GitHub.User, nil))
	}
	return collectors
}

// showSavedRecap re-renders a recap persisted by an earlier --save run.
func showSavedRecap(cfg *config.Settings, date string) error {
	r, err := recap.Load(cfg.RecapsDir(), date)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("no saved recap for %s (run: pulse recap --save)", date)
		}
		return err
	}
	if jsonOut {
		return printJSON(os.Stdout, r)
	}
	fmt.Print(report.Text(r, termWidth()))
	return nil
}
