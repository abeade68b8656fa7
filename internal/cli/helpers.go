// Package cli implements the pulse command-line interface.
// This file contains shared helper functions used across multiple commands.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/randalmurphal/pulse/internal/config"
	"github.com/randalmurphal/pulse/internal/daily"
	"github.com/randalmurphal/pulse/internal/recap"
	"github.com/randalmurphal/pulse/internal/roadmap"
)

// loadSettings reads the pulse settings, honoring the --config flag.
func loadSettings() (*config.Settings, error) {
	if cfgFile != "" {
		return config.LoadFrom(cfgFile)
	}
	return config.Load()
}

// openRoadmap loads the roadmap and folds the user-curated projects registry
// into it. Registry edits land on the next command that touches the roadmap,
// so there is no separate sync step. Returns the roadmap and whether the
// sync changed it (the caller decides when to persist).
func openRoadmap(cfg *config.Settings) (*roadmap.Roadmap, bool, error) {
	rm, err := roadmap.Load(cfg.RoadmapPath())
	if err != nil {
		return nil, false, err
	}
	reg, err := roadmap.LoadRegistry(cfg.RegistryPath())
	if err != nil {
		return nil, false, err
	}
	added, updated := rm.SyncRegistry(reg)
	if added > 0 || updated > 0 {
		slog.Debug("registry synced", "added", added, "updated", updated)
	}
	return rm, added > 0 || updated > 0, nil
}

// dailyNotes fetches the journal entry for a date in recap form. A missing
// entry is nil, which the recap renders as no journal section.
func dailyNotes(cfg *config.Settings, date string) *recap.DailyNotes {
	return daily.NewStore(cfg.DailyDir(), nil).Load(date).Notes()
}

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

// themeIcon returns the status glyph for a theme.
func themeIcon(s roadmap.ThemeStatus) string {
	switch s {
	case roadmap.ThemePlanned:
		return "○"
	case roadmap.ThemeActive:
		return "●"
	case roadmap.ThemeBlocked:
		return "!"
	case roadmap.ThemeComplete:
		return "✓"
	default:
		return "?"
	}
}

// taskIcon returns the status glyph for a task.
func taskIcon(s roadmap.TaskStatus) string {
	switch s {
	case roadmap.TaskTodo:
		return "☐"
	case roadmap.TaskInProgress:
		return "◐"
	case roadmap.TaskDone:
		return "☑"
	default:
		return "?"
	}
}

// truncate shortens s to max runes, appending an ellipsis when it cuts.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
