package cli

// NOTE: these tests chdir into temp directories and must not run in parallel.

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/pulse/internal/activity"
	"github.com/randalmurphal/pulse/internal/config"
	"github.com/randalmurphal/pulse/internal/recap"
	"github.com/randalmurphal/pulse/internal/roadmap"
)

// seedSource creates a fake scan root with one project folder holding a
// freshly modified source file, and registers the project on the roadmap.
func seedSource(t *testing.T) (scanRoot string) {
	t.Helper()
	scanRoot = t.TempDir()
	projDir := filepath.Join(scanRoot, "billing")
	require.NoError(t, os.MkdirAll(projDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(projDir, "invoice.py"), []byte("pass\n"), 0644))

	cfg := testSettings(t)
	rm := roadmap.New()
	require.NoError(t, rm.AddProject(roadmap.NewProject("Billing", "payments", projDir)))
	require.NoError(t, rm.Save(cfg.RoadmapPath()))
	return scanRoot
}

func recapSettings(t *testing.T, scanRoot string) *config.Settings {
	t.Helper()
	cfg := testSettings(t)
	cfg.ScanRoot = scanRoot
	cfg.Claude.ProjectsDir = filepath.Join(scanRoot, "no-claude-here")
	return cfg
}

func TestRunRecap_SavePersistsEverything(t *testing.T) {
	withTestDir(t)
	scanRoot := seedSource(t)
	cfg := recapSettings(t, scanRoot)

	require.NoError(t, runRecap(context.Background(), cfg, 24, true))

	date := time.Now().UTC().Format("2006-01-02")

	r, err := recap.Load(cfg.RecapsDir(), date)
	require.NoError(t, err, "saved recap should load")
	assert.NotZero(t, r.TotalActivities, "recap has no activities despite a fresh file")

	names := make([]string, 0, len(r.Projects))
	for _, p := range r.Projects {
		names = append(names, p.Name)
	}
	assert.Contains(t, names, "Billing")

	store := activity.NewStore(cfg.ActivitiesDir(), nil)
	assert.NotEmpty(t, store.LoadDay(date), "activity log not written")

	snaps, err := recap.LoadHistory(cfg.SnapshotsPath())
	require.NoError(t, err)
	assert.Len(t, snaps, 1, "one snapshot per day")

	_, err = os.Stat(cfg.ArchivePath())
	assert.NoError(t, err, "archive index missing")
}

func TestRunRecap_DryRunWritesNoRecap(t *testing.T) {
	withTestDir(t)
	scanRoot := seedSource(t)
	cfg := recapSettings(t, scanRoot)

	require.NoError(t, runRecap(context.Background(), cfg, 24, false))

	date := time.Now().UTC().Format("2006-01-02")
	_, err := recap.Load(cfg.RecapsDir(), date)
	assert.Error(t, err, "dry run should not save a recap document")

	store := activity.NewStore(cfg.ActivitiesDir(), nil)
	assert.Empty(t, store.LoadDay(date), "dry run should not write the activity log")
}

func TestRunRecap_IdempotentSave(t *testing.T) {
	withTestDir(t)
	scanRoot := seedSource(t)
	cfg := recapSettings(t, scanRoot)

	for i := 0; i < 2; i++ {
		require.NoError(t, runRecap(context.Background(), cfg, 24, true), "run #%d", i+1)
	}

	// The second run re-collects the same evidence; the log dedups it.
	date := time.Now().UTC().Format("2006-01-02")
	store := activity.NewStore(cfg.ActivitiesDir(), nil)
	seen := map[string]bool{}
	for _, a := range store.LoadDay(date) {
		key := a.DedupKey()
		assert.False(t, seen[key], "duplicate record in daily log: %s", key)
		seen[key] = true
	}
}

func TestShowSavedRecap_Missing(t *testing.T) {
	withTestDir(t)
	cfg := testSettings(t)
	assert.Error(t, showSavedRecap(cfg, "2020-01-01"))
}
