// Package daily persists the morning journal: one intent line per calendar
// date plus the wins and blockers logged as the day goes on.
package daily

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/randalmurphal/pulse/internal/recap"
	"github.com/randalmurphal/pulse/internal/util"
)

// RetainDays caps how far back the journal reaches. Entries older than the
// newest RetainDays are removed when a save pushes the count past the cap.
const RetainDays = 180

// Entry is one day's journal.
type Entry struct {
	Date      string    `json:"date"`
	Intent    string    `json:"intent,omitempty"`
	Wins      []string  `json:"wins,omitempty"`
	Blockers  []string  `json:"blockers,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Notes converts the entry for embedding in a recap document. Safe on a nil
// entry so callers can chain it straight off Load.
func (e *Entry) Notes() *recap.DailyNotes {
	if e == nil {
		return nil
	}
	return &recap.DailyNotes{Intent: e.Intent, Wins: e.Wins, Blockers: e.Blockers}
}

// Store persists one journal entry per calendar date.
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

// Path returns the entry file path for a date.
func (s *Store) Path(date string) string {
	return filepath.Join(s.dir, date+".json")
}

// Load reads the entry for a date. Missing means the form was never filled;
// an unreadable file is logged and treated the same.
func (s *Store) Load(date string) *Entry {
	var e Entry
	if err := util.ReadJSONFile(s.Path(date), &e); err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("skipping unreadable journal entry", "date", date, "error", err)
		}
		return nil
	}
	return &e
}

// Save writes the entry for its date, stamping UpdatedAt, then applies the
// retention cap. A failed sweep is logged, not returned; the entry itself
// is already on disk.
func (s *Store) Save(e *Entry) error {
	if e.Date == "" {
		return fmt.Errorf("journal entry has no date")
	}
	e.UpdatedAt = time.Now().UTC()
	if err := util.WriteJSONFile(s.Path(e.Date), e); err != nil {
		return fmt.Errorf("write journal entry %s: %w", e.Date, err)
	}
	if _, err := s.Prune(RetainDays); err != nil {
		s.logger.Warn("journal retention sweep failed", "error", err)
	}
	return nil
}

// AddWin appends a win to the date's entry, creating the entry when the
// form was never filled. Returns the updated entry.
func (s *Store) AddWin(date, text string) (*Entry, error) {
	return s.appendItem(date, text, func(e *Entry, v string) { e.Wins = append(e.Wins, v) })
}

// AddBlocker appends a blocker to the date's entry, creating it if needed.
func (s *Store) AddBlocker(date, text string) (*Entry, error) {
	return s.appendItem(date, text, func(e *Entry, v string) { e.Blockers = append(e.Blockers, v) })
}

func (s *Store) appendItem(date, text string, add func(*Entry, string)) (*Entry, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("empty journal item")
	}
	e := s.Load(date)
	if e == nil {
		e = &Entry{Date: date}
	}
	add(e, text)
	if err := s.Save(e); err != nil {
		return nil, err
	}
	return e, nil
}

// History returns the entries from the days window ending at today, newest
// first. Days without an entry are skipped; a bad date yields nothing.
func (s *Store) History(today string, days int) []*Entry {
	end, err := time.Parse("2006-01-02", today)
	if err != nil || days <= 0 {
		return nil
	}
	var out []*Entry
	for i := 0; i < days; i++ {
		if e := s.Load(end.AddDate(0, 0, -i).Format("2006-01-02")); e != nil {
			out = append(out, e)
		}
	}
	return out
}

// Dates lists the dates that have an entry, oldest first.
func (s *Store) Dates() []string {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil
	}
	var dates []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || filepath.Ext(name) != ".json" {
			continue
		}
		date := name[:len(name)-len(".json")]
		if _, err := time.Parse("2006-01-02", date); err == nil {
			dates = append(dates, date)
		}
	}
	sort.Strings(dates)
	return dates
}

// Prune removes entries beyond the keep newest dates and reports how many
// files went.
func (s *Store) Prune(keep int) (int, error) {
	dates := s.Dates()
	if keep < 0 || len(dates) <= keep {
		return 0, nil
	}
	removed := 0
	for _, date := range dates[:len(dates)-keep] {
		if err := os.Remove(s.Path(date)); err != nil {
			return removed, fmt.Errorf("prune journal entry %s: %w", date, err)
		}
		removed++
	}
	return removed, nil
}
