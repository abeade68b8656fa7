// Package cli implements the pulse command-line interface.
package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/pulse/internal/activity"
	"github.com/randalmurphal/pulse/internal/classify"
	"github.com/randalmurphal/pulse/internal/config"
	"github.com/randalmurphal/pulse/internal/recap"
	"github.com/randalmurphal/pulse/internal/report"
	"github.com/randalmurphal/pulse/internal/util"
)

// newReportCmd creates the report command
func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate a static report from logged activity",
		Long: `Render logged activity into a shareable artifact. The HTML dashboard
embeds the recap data in the page itself, so the file opens over
file:// with no server. Markdown renders the last day.

Examples:
  pulse report                       # reports/dashboard.html
  pulse report --format md           # reports/recap_<date>.md
  pulse report --out -               # write to stdout`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.RequireInit(); err != nil {
				return err
			}
			cfg, err := loadSettings()
			if err != nil {
				return err
			}

			format, _ := cmd.Flags().GetString("format")
			out, _ := cmd.Flags().GetString("out")
			views, _ := cmd.Flags().GetStringSlice("views")

			switch format {
			case "html":
				return reportHTML(cfg, out, views)
			case "md", "markdown":
				return reportMarkdown(cfg, out)
			default:
				return fmt.Errorf("unknown format %q (want html or md)", format)
			}
		},
	}

	cmd.Flags().StringP("format", "f", "html", "output format: html or md")
	cmd.Flags().StringP("out", "o", "", "output path ('-' for stdout, default under reports/)")
	cmd.Flags().StringSlice("views", []string{report.ViewToday, report.ViewWeek, report.ViewMonth},
		"dashboard views to include (today, week, month)")
	return cmd
}

// reportHTML builds the dashboard from the activity log, one tab per view.
func reportHTML(cfg *config.Settings, out string, views []string) error {
	now := time.Now().UTC()
	date := now.Format("2006-01-02")

	recaps := make(map[string]*recap.Recap, len(views))
	for _, view := range views {
		hours, ok := report.ViewHours[view]
		if !ok {
			return fmt.Errorf("unknown view %q (want today, week or month)", view)
		}
		r, err := buildStoredRecap(cfg, hours, now)
		if err != nil {
			return err
		}
		recaps[view] = r
	}

	var trend *report.Trend
	if snaps, err := recap.LoadHistory(cfg.SnapshotsPath()); err == nil {
		trend = report.TrendFromHistory(snaps, date)
	} else {
		slog.Warn("snapshot history unreadable, omitting trend", "error", err)
	}

	page, err := report.HTML(report.NewDashboard(recaps, trend, now))
	if err != nil {
		return err
	}

	if out == "-" {
		_, err := os.Stdout.Write(page)
		return err
	}
	if out == "" {
		out = filepath.Join(cfg.ReportsDir(), "dashboard.html")
	}
	if err := util.AtomicWriteFile(out, page, 0644); err != nil {
		return err
	}
	fmt.Printf("✅ Dashboard written to %s\n", out)
	fmt.Println("   Open it directly in a browser; no server needed.")
	return nil
}

// reportMarkdown renders the last 24 hours as a Markdown recap.
func reportMarkdown(cfg *config.Settings, out string) error {
	now := time.Now().UTC()
	r, err := buildStoredRecap(cfg, report.ViewHours[report.ViewToday], now)
	if err != nil {
		return err
	}

	doc, err := report.Markdown(r, now)
	if err != nil {
		return err
	}

	if out == "-" {
		fmt.Print(doc)
		return nil
	}
	if out == "" {
		out = filepath.Join(cfg.ReportsDir(), "recap_"+r.Date+".md")
	}
	if err := util.AtomicWriteFileString(out, doc, 0644); err != nil {
		return err
	}
	fmt.Printf("✅ Markdown recap written to %s\n", out)
	return nil
}

// buildStoredRecap assembles a recap for the window ending now from the
// persisted activity log, reclassifying against the current roadmap so
// registry edits apply retroactively.
func buildStoredRecap(cfg *config.Settings, hours int, now time.Time) (*recap.Recap, error) {
	rm, _, err := openRoadmap(cfg)
	if err != nil {
		return nil, err
	}

	store := activity.NewStore(cfg.ActivitiesDir(), nil)
	acts := store.LoadRange(now.Add(-time.Duration(hours)*time.Hour), now)

	matcher := classify.NewMatcher(rm.Projects, classify.Config{
		Threshold:        cfg.Classifier.Threshold,
		HighConfidence:   cfg.Classifier.HighConfidence,
		KeywordOverrides: cfg.Classifier.KeywordOverrides,
	})
	matcher.Classify(acts)

	date := now.Format("2006-01-02")
	r := recap.Build(date, hours, acts, rm)
	r.Daily = dailyNotes(cfg, date)
	r.PendingChanges = len(rm.Pending())
	return r, nil
}
