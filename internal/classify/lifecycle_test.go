package classify

import (
	"testing"
	"time"

	"github.com/randalmurphal/pulse/internal/activity"
	"github.com/randalmurphal/pulse/internal/roadmap"
)

func classifiedActivity(project, theme, desc string) *activity.Activity {
	a := activity.New(activity.SourceGit, time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC), desc, 0.95)
	a.Project = project
	a.Theme = theme
	return a
}

func projectWithTheme(name, themeID, themeName string, status roadmap.ThemeStatus) *roadmap.Project {
	return &roadmap.Project{
		ID:   roadmap.Slugify(name),
		Name: name,
		Themes: []*roadmap.Theme{
			{ID: themeID, Name: themeName, Status: status},
		},
	}
}

func TestDetectTransitionsPlannedToActive(t *testing.T) {
	t.Parallel()
	projects := []*roadmap.Project{
		projectWithTheme("Billing", "theme-001", "Invoice Export", roadmap.ThemePlanned),
	}
	acts := []*activity.Activity{
		classifiedActivity("Billing", "theme-001", "Wire up the export job"),
		classifiedActivity("Billing", "theme-001", "Refactor export config"),
	}

	got := DetectTransitions(projects, acts)
	if len(got) != 1 {
		t.Fatalf("got %d transitions, want 1", len(got))
	}
	tr := got[0]
	if tr.From != roadmap.ThemePlanned || tr.To != roadmap.ThemeActive {
		t.Errorf("transition %s -> %s, want planned -> active", tr.From, tr.To)
	}
	if tr.Reason != "Detected 2 activities" {
		t.Errorf("reason = %q", tr.Reason)
	}
}

func TestDetectTransitionsActiveToComplete(t *testing.T) {
	t.Parallel()
	projects := []*roadmap.Project{
		projectWithTheme("Billing", "theme-001", "Invoice Export", roadmap.ThemeActive),
	}
	acts := []*activity.Activity{
		classifiedActivity("Billing", "theme-001", "Deployed the export job to production"),
	}

	got := DetectTransitions(projects, acts)
	if len(got) != 1 {
		t.Fatalf("got %d transitions, want 1", len(got))
	}
	if got[0].To != roadmap.ThemeComplete {
		t.Errorf("to = %s, want complete", got[0].To)
	}
	if got[0].Reason != `Completion signal: "deploy"` {
		t.Errorf("reason = %q", got[0].Reason)
	}
}

func TestDetectTransitionsActiveToBlocked(t *testing.T) {
	t.Parallel()
	projects := []*roadmap.Project{
		projectWithTheme("Billing", "theme-001", "Invoice Export", roadmap.ThemeActive),
	}
	acts := []*activity.Activity{
		classifiedActivity("Billing", "theme-001", "Still waiting on the vendor API keys"),
	}

	got := DetectTransitions(projects, acts)
	if len(got) != 1 {
		t.Fatalf("got %d transitions, want 1", len(got))
	}
	if got[0].To != roadmap.ThemeBlocked {
		t.Errorf("to = %s, want blocked", got[0].To)
	}
	if got[0].Reason != `Blocked signal: "waiting"` {
		t.Errorf("reason = %q", got[0].Reason)
	}
}

func TestDetectTransitionsKeywordInTaskDescriptions(t *testing.T) {
	t.Parallel()
	projects := []*roadmap.Project{
		projectWithTheme("Billing", "theme-001", "Invoice Export", roadmap.ThemeActive),
	}

	// The session summary itself carries no signal; the captured action
	// item does, and counts the same as the description.
	a := classifiedActivity("Billing", "theme-001", "Coding with Claude")
	a.Raw["task_descriptions"] = []string{"Ship the invoice exporter"}

	got := DetectTransitions(projects, []*activity.Activity{a})
	if len(got) != 1 {
		t.Fatalf("got %d transitions, want 1", len(got))
	}
	if got[0].To != roadmap.ThemeComplete {
		t.Errorf("to = %s, want complete", got[0].To)
	}
	if got[0].Reason != `Completion signal: "ship"` {
		t.Errorf("reason = %q", got[0].Reason)
	}
}

func TestDetectTransitionsCompletionBeatsBlocked(t *testing.T) {
	t.Parallel()
	projects := []*roadmap.Project{
		projectWithTheme("Billing", "theme-001", "Invoice Export", roadmap.ThemeActive),
	}
	acts := []*activity.Activity{
		classifiedActivity("Billing", "theme-001", "Was blocked on review all morning"),
		classifiedActivity("Billing", "theme-001", "Finished the migration anyway"),
	}

	got := DetectTransitions(projects, acts)
	if len(got) != 1 {
		t.Fatalf("got %d transitions, want 1", len(got))
	}
	if got[0].To != roadmap.ThemeComplete {
		t.Errorf("to = %s, completion must win over blocked", got[0].To)
	}
}

func TestDetectTransitionsBlockedResumes(t *testing.T) {
	t.Parallel()
	projects := []*roadmap.Project{
		projectWithTheme("Billing", "theme-001", "Invoice Export", roadmap.ThemeBlocked),
	}
	// Any activity resumes a blocked theme, even one still mentioning
	// the blocker.
	acts := []*activity.Activity{
		classifiedActivity("Billing", "theme-001", "Still waiting on keys, stubbed the vendor API"),
	}

	got := DetectTransitions(projects, acts)
	if len(got) != 1 {
		t.Fatalf("got %d transitions, want 1", len(got))
	}
	if got[0].To != roadmap.ThemeActive || got[0].Reason != "Activity resumed" {
		t.Errorf("got %+v, want resume to active", got[0])
	}
}

func TestDetectTransitionsCompleteIsTerminal(t *testing.T) {
	t.Parallel()
	projects := []*roadmap.Project{
		projectWithTheme("Billing", "theme-001", "Invoice Export", roadmap.ThemeComplete),
	}
	acts := []*activity.Activity{
		classifiedActivity("Billing", "theme-001", "Relaunch the export job next quarter"),
	}

	if got := DetectTransitions(projects, acts); len(got) != 0 {
		t.Errorf("got %d transitions for a complete theme, want 0", len(got))
	}
}

func TestDetectTransitionsQuietThemes(t *testing.T) {
	t.Parallel()
	projects := []*roadmap.Project{
		projectWithTheme("Billing", "theme-001", "Invoice Export", roadmap.ThemePlanned),
		projectWithTheme("Website", "theme-001", "Landing Refresh", roadmap.ThemeActive),
	}
	acts := []*activity.Activity{
		// No keyword means an active theme stays active.
		classifiedActivity("Website", "theme-001", "Tweaked the hero copy"),
	}

	if got := DetectTransitions(projects, acts); len(got) != 0 {
		t.Errorf("got %v, want no transitions", got)
	}
}

func TestDetectTransitionsScopedToProject(t *testing.T) {
	t.Parallel()

	// Both projects use the id theme-001. Billing's activity must not
	// activate Website's planned theme.
	projects := []*roadmap.Project{
		projectWithTheme("Billing", "theme-001", "Invoice Export", roadmap.ThemePlanned),
		projectWithTheme("Website", "theme-001", "Landing Refresh", roadmap.ThemePlanned),
	}
	acts := []*activity.Activity{
		classifiedActivity("Billing", "theme-001", "Wire up the export job"),
	}

	got := DetectTransitions(projects, acts)
	if len(got) != 1 {
		t.Fatalf("got %d transitions, want 1", len(got))
	}
	if got[0].Project != "Billing" {
		t.Errorf("project = %q, want Billing", got[0].Project)
	}
}

func TestDetectTransitionsIgnoresUnthemed(t *testing.T) {
	t.Parallel()
	projects := []*roadmap.Project{
		projectWithTheme("Billing", "theme-001", "Invoice Export", roadmap.ThemePlanned),
	}
	acts := []*activity.Activity{
		classifiedActivity("Billing", "", "Shipped something unrelated"),
	}

	if got := DetectTransitions(projects, acts); len(got) != 0 {
		t.Errorf("got %v, want no transitions from unthemed activity", got)
	}
}
