// Package cli implements the pulse command-line interface.
package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/pulse/internal/errors"
	"github.com/randalmurphal/pulse/internal/roadmap"
)

// newTaskCmd creates the task command group
func newTaskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage theme tasks",
		Long: `Add tasks under a theme and mark them done.

Examples:
  pulse task add Billing theme-001 "Wire the proration endpoint"
  pulse task done Billing theme-001 task-002`,
	}

	cmd.AddCommand(newTaskAddCmd())
	cmd.AddCommand(newTaskDoneCmd())
	return cmd
}

func newTaskAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <project> <theme> <description>",
		Short: "Add a task to a theme",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, rm, err := loadForReview()
			if err != nil {
				return err
			}

			_, th, err := findTheme(rm, args[0], args[1])
			if err != nil {
				return err
			}

			t := th.AddTask(strings.Join(args[2:], " "))
			if err := rm.Save(cfg.RoadmapPath()); err != nil {
				return err
			}
			fmt.Printf("✅ Task %s added to %s: %s\n", t.ID, th.Name, t.Description)
			return nil
		},
	}
}

func newTaskDoneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "done <project> <theme> <task-id>",
		Short: "Mark a task done",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, rm, err := loadForReview()
			if err != nil {
				return err
			}

			_, th, err := findTheme(rm, args[0], args[1])
			if err != nil {
				return err
			}
			t := th.FindTask(args[2])
			if t == nil {
				return errors.ErrTaskNotFound(args[2])
			}
			if t.Status == roadmap.TaskDone {
				fmt.Printf("Task %s is already done.\n", t.ID)
				return nil
			}

			now := time.Now().UTC()
			t.Status = roadmap.TaskDone
			t.LastTouched = &now
			th.Touch(now)
			if err := rm.Save(cfg.RoadmapPath()); err != nil {
				return err
			}
			fmt.Printf("☑ Task %s done: %s\n", t.ID, t.Description)
			return nil
		},
	}
}

// findTheme resolves a project name and theme id/name pair.
func findTheme(rm *roadmap.Roadmap, project, theme string) (*roadmap.Project, *roadmap.Theme, error) {
	p := rm.FindProject(project)
	if p == nil {
		return nil, nil, errors.ErrProjectNotFound(project)
	}
	th := p.FindTheme(theme)
	if th == nil {
		return nil, nil, errors.ErrThemeNotFound(p.Name, theme)
	}
	return p, th, nil
}
