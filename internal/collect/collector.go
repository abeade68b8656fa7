// Package collect gathers raw activity from local sources: modified files
// on disk, git commit history, Claude Code session logs, and optionally
// GitHub events. Collectors run sequentially and a failing source degrades
// to zero activities rather than aborting the run.
package collect

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/randalmurphal/pulse/internal/activity"
)

// Window bounds a collection run. Since is inclusive, Until exclusive.
type Window struct {
	Since time.Time
	Until time.Time
}

// WindowBack returns a window covering the last hours before now.
func WindowBack(hours int, now time.Time) Window {
	return Window{
		Since: now.Add(-time.Duration(hours) * time.Hour),
		Until: now,
	}
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Since) && t.Before(w.Until)
}

// Collector produces activities for one source within a window.
type Collector interface {
	Name() string
	Collect(ctx context.Context, w Window) ([]*activity.Activity, error)
}

// Run executes collectors in order and merges their output sorted by
// timestamp. A collector error is logged and its source contributes
// nothing; Run itself never fails.
func Run(ctx context.Context, collectors []Collector, w Window, logger *slog.Logger) []*activity.Activity {
	if logger == nil {
		logger = slog.Default()
	}

	var all []*activity.Activity
	for _, c := range collectors {
		acts, err := c.Collect(ctx, w)
		if err != nil {
			logger.Warn("collector failed, skipping source",
				"collector", c.Name(),
				"error", err)
			continue
		}
		logger.Debug("collector finished",
			"collector", c.Name(),
			"activities", len(acts))
		all = append(all, acts...)
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Timestamp.Before(all[j].Timestamp)
	})
	return all
}
