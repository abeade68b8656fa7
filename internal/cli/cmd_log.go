// Package cli implements the pulse command-line interface.
package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/pulse/internal/activity"
	"github.com/randalmurphal/pulse/internal/classify"
	"github.com/randalmurphal/pulse/internal/config"
)

// newLogCmd creates the log command
func newLogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log <text>",
		Short: "Log a manual activity",
		Long: `Record an ad hoc activity the collectors cannot see — a meeting, a
review, thinking time. With --project the assignment is explicit;
otherwise the classifier takes its best guess from the text.

Examples:
  pulse log "Sprint planning with the platform team"
  pulse log "Reviewed billing PR" --project Billing`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.RequireInit(); err != nil {
				return err
			}
			cfg, err := loadSettings()
			if err != nil {
				return err
			}
			rm, _, err := openRoadmap(cfg)
			if err != nil {
				return err
			}

			text := strings.Join(args, " ")
			project, _ := cmd.Flags().GetString("project")

			a := activity.New(activity.SourceManual, time.Now().UTC(), text, 1.0)
			if project != "" {
				if rm.FindProject(project) == nil {
					fmt.Printf("⚠️  Project %q is not registered; logging anyway\n", project)
				}
				a.Raw["project"] = project
			}

			matcher := classify.NewMatcher(rm.Projects, classify.Config{
				Threshold:        cfg.Classifier.Threshold,
				HighConfidence:   cfg.Classifier.HighConfidence,
				KeywordOverrides: cfg.Classifier.KeywordOverrides,
			})
			matcher.Classify([]*activity.Activity{a})

			store := activity.NewStore(cfg.ActivitiesDir(), nil)
			added, _, err := store.Append([]*activity.Activity{a})
			if err != nil {
				return err
			}
			if added == 0 {
				fmt.Println("Already logged (same text, source and minute).")
				return nil
			}

			if a.Project == activity.Uncategorized {
				fmt.Printf("✅ Logged (uncategorized): %s\n", truncate(text, 60))
			} else {
				fmt.Printf("✅ Logged to %s: %s\n", a.Project, truncate(text, 60))
			}
			return nil
		},
	}

	cmd.Flags().StringP("project", "p", "", "assign the activity to a project explicitly")
	return cmd
}
