package daily

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSaveAndLoad(t *testing.T) {
	store := NewStore(t.TempDir(), nil)

	err := store.Save(&Entry{
		Date:     "2026-08-21",
		Intent:   "ship the invoice exporter",
		Wins:     []string{"exporter passing CI"},
		Blockers: []string{"waiting on API keys"},
	})
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	e := store.Load("2026-08-21")
	if e == nil {
		t.Fatal("Load returned nil for a saved entry")
	}
	if e.Intent != "ship the invoice exporter" {
		t.Errorf("Intent = %q", e.Intent)
	}
	if len(e.Wins) != 1 || len(e.Blockers) != 1 {
		t.Errorf("wins=%d blockers=%d, want 1/1", len(e.Wins), len(e.Blockers))
	}
	if e.UpdatedAt.IsZero() {
		t.Error("Save should stamp UpdatedAt")
	}
}

func TestSaveRequiresDate(t *testing.T) {
	store := NewStore(t.TempDir(), nil)
	if err := store.Save(&Entry{Intent: "dateless"}); err == nil {
		t.Error("Save accepted an entry without a date")
	}
}

func TestLoadMissing(t *testing.T) {
	store := NewStore(t.TempDir(), nil)
	if e := store.Load("2026-08-21"); e != nil {
		t.Errorf("Load on an empty journal = %+v, want nil", e)
	}
}

func TestLoadUnreadable(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir, nil)
	if err := os.WriteFile(filepath.Join(dir, "2026-08-21.json"), []byte("{broken"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	// A corrupt entry degrades to a missing one rather than failing.
	if e := store.Load("2026-08-21"); e != nil {
		t.Errorf("expected nil for unreadable entry, got %+v", e)
	}
}

func TestAddWinCreatesEntry(t *testing.T) {
	store := NewStore(t.TempDir(), nil)

	e, err := store.AddWin("2026-08-21", "closed the flaky-test ticket")
	if err != nil {
		t.Fatalf("AddWin failed: %v", err)
	}
	if e.Date != "2026-08-21" || len(e.Wins) != 1 {
		t.Errorf("entry = %+v", e)
	}

	got := store.Load("2026-08-21")
	if got == nil || len(got.Wins) != 1 || got.Wins[0] != "closed the flaky-test ticket" {
		t.Errorf("persisted entry = %+v", got)
	}
}

func TestAddWinAppendsToExistingEntry(t *testing.T) {
	store := NewStore(t.TempDir(), nil)
	seed := &Entry{Date: "2026-08-21", Intent: "ship it", Wins: []string{"first win"}}
	if err := store.Save(seed); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if _, err := store.AddWin("2026-08-21", "  second win  "); err != nil {
		t.Fatalf("AddWin failed: %v", err)
	}
	if _, err := store.AddBlocker("2026-08-21", "stuck on review"); err != nil {
		t.Fatalf("AddBlocker failed: %v", err)
	}

	e := store.Load("2026-08-21")
	if e.Intent != "ship it" {
		t.Error("quick adds should not clobber the intent")
	}
	if len(e.Wins) != 2 || e.Wins[1] != "second win" {
		t.Errorf("Wins = %v", e.Wins)
	}
	if len(e.Blockers) != 1 || e.Blockers[0] != "stuck on review" {
		t.Errorf("Blockers = %v", e.Blockers)
	}
}

func TestAddWinRejectsEmptyText(t *testing.T) {
	store := NewStore(t.TempDir(), nil)
	if _, err := store.AddWin("2026-08-21", "   "); err == nil {
		t.Error("AddWin accepted blank text")
	}
	if e := store.Load("2026-08-21"); e != nil {
		t.Error("rejected win should not create an entry")
	}
}

func TestHistory(t *testing.T) {
	store := NewStore(t.TempDir(), nil)
	for _, date := range []string{"2026-08-21", "2026-08-19", "2026-08-10"} {
		if err := store.Save(&Entry{Date: date, Intent: "work on " + date}); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	got := store.History("2026-08-21", 7)
	if len(got) != 2 {
		t.Fatalf("History returned %d entries, want 2", len(got))
	}
	if got[0].Date != "2026-08-21" || got[1].Date != "2026-08-19" {
		t.Errorf("dates = %s, %s; want newest first", got[0].Date, got[1].Date)
	}

	if all := store.History("2026-08-21", 30); len(all) != 3 {
		t.Errorf("30-day history returned %d entries, want 3", len(all))
	}
}

func TestHistoryBadDate(t *testing.T) {
	store := NewStore(t.TempDir(), nil)
	if got := store.History("not-a-date", 7); got != nil {
		t.Errorf("History on a bad date = %v, want nil", got)
	}
}

func TestPrune(t *testing.T) {
	store := NewStore(t.TempDir(), nil)
	dates := []string{"2026-08-17", "2026-08-18", "2026-08-19", "2026-08-20", "2026-08-21"}
	for _, date := range dates {
		if err := store.Save(&Entry{Date: date}); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	removed, err := store.Prune(3)
	if err != nil {
		t.Fatalf("Prune failed: %v", err)
	}
	if removed != 2 {
		t.Errorf("removed = %d, want 2", removed)
	}
	if got := store.Dates(); len(got) != 3 || got[0] != "2026-08-19" {
		t.Errorf("Dates after prune = %v", got)
	}

	// Already under the cap; nothing more to sweep.
	if removed, _ := store.Prune(3); removed != 0 {
		t.Errorf("second prune removed %d entries", removed)
	}
}

func TestNotes(t *testing.T) {
	e := &Entry{
		Date:     "2026-08-21",
		Intent:   "ship it",
		Wins:     []string{"done"},
		Blockers: []string{"none really"},
	}
	n := e.Notes()
	if n.Intent != "ship it" || len(n.Wins) != 1 || len(n.Blockers) != 1 {
		t.Errorf("Notes = %+v", n)
	}

	var missing *Entry
	if missing.Notes() != nil {
		t.Error("Notes on a nil entry should be nil")
	}
}
