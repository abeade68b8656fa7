package activity

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/randalmurphal/pulse/internal/util"
)

// Store persists activities as one JSON array per calendar date.
type Store struct {
	dir    string
	logger *slog.Logger
}

// NewStore creates a store rooted at dir. A nil logger falls back to
// slog.Default().
func NewStore(dir string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{dir: dir, logger: logger}
}

// DayPath returns the log file path for a date.
func (s *Store) DayPath(day string) string {
	return filepath.Join(s.dir, day+".json")
}

// LoadDay reads the activities logged for a date. Missing files are an
// empty day; an unreadable file is logged and treated the same so one bad
// day never aborts a run.
func (s *Store) LoadDay(day string) []*Activity {
	var acts []*Activity
	if err := util.ReadJSONFile(s.DayPath(day), &acts); err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("skipping unreadable activity log", "day", day, "error", err)
		}
		return nil
	}
	return acts
}

// Append merges activities into their per-day logs, deduplicating on
// DedupKey. Existing records win so classifier annotations saved earlier
// are not clobbered. Returns how many records were added and how many were
// dropped as duplicates.
func (s *Store) Append(activities []*Activity) (added, dups int, err error) {
	byDay := make(map[string][]*Activity)
	for _, a := range activities {
		byDay[a.Day()] = append(byDay[a.Day()], a)
	}

	for day, batch := range byDay {
		existing := s.LoadDay(day)
		seen := make(map[string]bool, len(existing))
		for _, a := range existing {
			seen[a.DedupKey()] = true
		}

		merged := existing
		for _, a := range batch {
			key := a.DedupKey()
			if seen[key] {
				dups++
				continue
			}
			seen[key] = true
			merged = append(merged, a)
			added++
		}

		sort.Slice(merged, func(i, j int) bool {
			return merged[i].Timestamp.Before(merged[j].Timestamp)
		})

		if err := util.WriteJSONFile(s.DayPath(day), merged); err != nil {
			return added, dups, fmt.Errorf("write activity log %s: %w", day, err)
		}
	}
	return added, dups, nil
}

// LoadRange returns all logged activities with timestamps in [from, to),
// reading only the day files the window touches.
func (s *Store) LoadRange(from, to time.Time) []*Activity {
	from, to = from.UTC(), to.UTC()
	var out []*Activity
	for day := from.Truncate(24 * time.Hour); day.Before(to); day = day.Add(24 * time.Hour) {
		for _, a := range s.LoadDay(day.Format("2006-01-02")) {
			if !a.Timestamp.Before(from) && a.Timestamp.Before(to) {
				out = append(out, a)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out
}

// Days lists the dates that have a log file, oldest first.
func (s *Store) Days() []string {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil
	}
	var days []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || filepath.Ext(name) != ".json" {
			continue
		}
		day := name[:len(name)-len(".json")]
		if _, err := time.Parse("2006-01-02", day); err == nil {
			days = append(days, day)
		}
	}
	sort.Strings(days)
	return days
}
