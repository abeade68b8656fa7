package cli

// NOTE: these tests chdir into temp directories and must not run in parallel.

import (
	"testing"
	"time"

	"github.com/randalmurphal/pulse/internal/activity"
)

func todayActivities(t *testing.T) []*activity.Activity {
	t.Helper()
	cfg := testSettings(t)
	store := activity.NewStore(cfg.ActivitiesDir(), nil)
	return store.LoadDay(time.Now().UTC().Format("2006-01-02"))
}

func TestLogCommand_ExplicitProject(t *testing.T) {
	withTestDir(t)
	seedRoadmap(t, testSettings(t))

	cmd := newLogCmd()
	cmd.SetArgs([]string{"Reviewed", "the", "proration", "PR", "--project", "Billing"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("log: %v", err)
	}

	acts := todayActivities(t)
	if len(acts) != 1 {
		t.Fatalf("logged activities = %d, want 1", len(acts))
	}
	a := acts[0]
	if a.Source != activity.SourceManual {
		t.Errorf("source = %s, want manual", a.Source)
	}
	if a.Description != "Reviewed the proration PR" {
		t.Errorf("description = %q", a.Description)
	}
	// An explicit hint on a registered project classifies at the hint weight.
	if a.Project != "Billing" {
		t.Errorf("project = %q, want Billing", a.Project)
	}
	if a.MatchConfidence < 0.6 {
		t.Errorf("match confidence = %v, want >= 0.6", a.MatchConfidence)
	}
}

func TestLogCommand_Unclassified(t *testing.T) {
	withTestDir(t)
	seedRoadmap(t, testSettings(t))

	cmd := newLogCmd()
	cmd.SetArgs([]string{"Lunch", "and", "learn"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("log: %v", err)
	}

	acts := todayActivities(t)
	if len(acts) != 1 {
		t.Fatalf("logged activities = %d, want 1", len(acts))
	}
	if acts[0].Project != activity.Uncategorized {
		t.Errorf("project = %q, want uncategorized", acts[0].Project)
	}
}

func TestLogCommand_DedupesSameMinute(t *testing.T) {
	withTestDir(t)
	seedRoadmap(t, testSettings(t))

	for i := 0; i < 2; i++ {
		cmd := newLogCmd()
		cmd.SetArgs([]string{"Standup"})
		if err := cmd.Execute(); err != nil {
			t.Fatalf("log #%d: %v", i+1, err)
		}
	}

	// Identical description, source and minute collapse into one record.
	// The two runs land within the same minute in practice; if the clock
	// rolled over between them both records are legitimate.
	acts := todayActivities(t)
	if len(acts) > 2 {
		t.Fatalf("logged activities = %d, want at most 2", len(acts))
	}
}
