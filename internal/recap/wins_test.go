package recap

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/randalmurphal/pulse/internal/activity"
)

func TestDetectWinsGitMilestone(t *testing.T) {
	t.Parallel()
	a := classified(activity.SourceGit, "Billing", "theme-001", "Deployed invoice exporter v2")

	wins := DetectWins("2026-08-21", []*activity.Activity{a})
	if len(wins) != 1 {
		t.Fatalf("wins = %+v, want 1", wins)
	}
	w := wins[0]
	if w.Type != WinGitMilestone || w.Score != 0.8 {
		t.Errorf("win = %+v", w)
	}
	if w.Description != "Shipped: Deployed invoice exporter v2" {
		t.Errorf("description = %q", w.Description)
	}
	if w.Project != "Billing" {
		t.Errorf("project = %q", w.Project)
	}
}

func TestDetectWinsSignificantSession(t *testing.T) {
	t.Parallel()
	s := classified(activity.SourceChat, "Billing", "", "Claude session: Rework the export job")
	s.Raw["session_id"] = "abc"
	s.Raw["files_edited"] = 6

	wins := DetectWins("2026-08-21", []*activity.Activity{s})
	if len(wins) != 1 {
		t.Fatalf("wins = %+v, want 1", wins)
	}
	w := wins[0]
	if w.Type != WinSignificantSession || w.Score != 0.7 {
		t.Errorf("win = %+v", w)
	}
	if w.Description != "Significant session: Rework the export job (6 files edited)" {
		t.Errorf("description = %q", w.Description)
	}
}

func TestDetectWinsSessionByActionItems(t *testing.T) {
	t.Parallel()

	// Two files edited is quiet, but three task requests make it count.
	s := classified(activity.SourceChat, "Billing", "", "Claude session: triage")
	s.Raw["session_id"] = "abc"
	s.Raw["files_edited"] = 2

	var acts []*activity.Activity
	acts = append(acts, s)
	for _, desc := range []string{"fix the rounding bug", "add retry to uploads", "update the runbook"} {
		task := classified(activity.SourceChatActionItem, "Billing", "", desc)
		task.Raw["session_id"] = "abc"
		acts = append(acts, task)
	}

	wins := DetectWins("2026-08-21", acts)
	if len(wins) != 1 || wins[0].Type != WinSignificantSession {
		t.Errorf("wins = %+v, want one significant session", wins)
	}
}

func TestDetectWinsQuietSession(t *testing.T) {
	t.Parallel()
	s := classified(activity.SourceChat, "Billing", "", "Claude session: quick question")
	s.Raw["session_id"] = "abc"
	s.Raw["files_edited"] = 2

	if wins := DetectWins("2026-08-21", []*activity.Activity{s}); len(wins) != 0 {
		t.Errorf("wins = %+v, want none", wins)
	}
}

func TestDetectWinsSustainedEffort(t *testing.T) {
	t.Parallel()
	billing := classified(activity.SourceFilesystem, "Billing", "", "Modified 7 files in /repo/billing")
	billing.Raw["files"] = []string{"a", "b", "c", "d", "e", "f", "g"}
	website := classified(activity.SourceFilesystem, "Website", "", "Modified 4 files in /repo/website")
	website.Raw["files"] = []string{"h", "i", "j", "k"}

	wins := DetectWins("2026-08-21", []*activity.Activity{billing, website})
	if len(wins) != 1 {
		t.Fatalf("wins = %+v, want 1", wins)
	}
	w := wins[0]
	if w.Type != WinSustainedEffort || w.Score != 0.6 {
		t.Errorf("win = %+v", w)
	}
	if w.Description != "Sustained effort: 11 files modified across 2 projects" {
		t.Errorf("description = %q", w.Description)
	}
}

func TestAppendWinsDedup(t *testing.T) {
	t.Parallel()
	path := WinsLogPath(t.TempDir())

	wins := []Win{
		{Date: "2026-08-21", Type: WinGitMilestone, Description: "Shipped: exporter", Score: 0.8},
		{Date: "2026-08-21", Type: WinSustainedEffort, Description: "Sustained effort: 12 files modified", Score: 0.6},
	}

	added, err := AppendWins(path, wins)
	if err != nil || added != 2 {
		t.Fatalf("AppendWins() = %d, %v; want 2 added", added, err)
	}
	added, err = AppendWins(path, wins)
	if err != nil || added != 0 {
		t.Fatalf("AppendWins() rerun = %d, %v; want 0 added", added, err)
	}

	got, err := LoadWins(path)
	if err != nil {
		t.Fatalf("LoadWins() error: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("log = %+v, want 2 wins", got)
	}
}

func TestISOWeek(t *testing.T) {
	t.Parallel()
	if got := ISOWeek("2026-08-21"); got != "2026-W34" {
		t.Errorf("ISOWeek() = %q, want 2026-W34", got)
	}
	if got := ISOWeek("not-a-date"); got != "" {
		t.Errorf("ISOWeek() = %q, want empty for garbage", got)
	}
}

func TestWeekWins(t *testing.T) {
	t.Parallel()
	wins := []Win{
		{Date: "2026-08-14", Type: WinGitMilestone, Description: "last week"},
		{Date: "2026-08-20", Type: WinGitMilestone, Description: "thursday"},
		{Date: "2026-08-21", Type: WinGitMilestone, Description: "friday"},
	}

	got := WeekWins(wins, "2026-W34")
	if len(got) != 2 {
		t.Fatalf("week wins = %+v, want 2", got)
	}
	// Newest day first.
	if got[0].Description != "friday" || got[1].Description != "thursday" {
		t.Errorf("order = %q, %q", got[0].Description, got[1].Description)
	}
}

func TestRenderWeekly(t *testing.T) {
	t.Parallel()
	wins := []Win{
		{Date: "2026-08-21", Type: WinGitMilestone, Description: "Shipped: exporter", Project: "Billing"},
		{Date: "2026-08-20", Type: WinSustainedEffort, Description: "Sustained effort: 12 files modified"},
	}

	doc := RenderWeekly("2026-W34", wins)
	for _, want := range []string{
		"# Wins for 2026-W34",
		"## 2026-08-21",
		"- Shipped: exporter (Billing)",
		"## 2026-08-20",
		"- Sustained effort: 12 files modified",
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("document missing %q:\n%s", want, doc)
		}
	}
}

func TestRenderWeeklyEmpty(t *testing.T) {
	t.Parallel()
	doc := RenderWeekly("2026-W34", nil)
	if !strings.Contains(doc, "No wins recorded") {
		t.Errorf("document = %q", doc)
	}
}

func TestSaveWeekly(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path, err := SaveWeekly(dir, "2026-W34", []Win{
		{Date: "2026-08-21", Type: WinGitMilestone, Description: "Shipped: exporter"},
	})
	if err != nil {
		t.Fatalf("SaveWeekly() error: %v", err)
	}
	if path != filepath.Join(dir, "2026-W34.md") {
		t.Errorf("path = %q", path)
	}
}
