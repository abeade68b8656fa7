package cli

// NOTE: these tests chdir into temp directories and must not run in parallel.

import (
	"testing"

	"github.com/randalmurphal/pulse/internal/roadmap"
)

// queueStatusChange seeds a roadmap with a theme and one pending status
// change, returning the change id.
func queueStatusChange(t *testing.T) string {
	t.Helper()
	cfg := testSettings(t)
	rm := seedRoadmap(t, cfg)

	p := rm.FindProject("Billing")
	th := p.AddTheme("Invoicing")
	th.Status = roadmap.ThemeActive

	c := roadmap.NewChange(roadmap.ChangeStatus, "Invoicing looks done",
		roadmap.ChangeDetails{
			Project:    "Billing",
			Theme:      th.ID,
			FromStatus: roadmap.ThemeActive,
			ToStatus:   roadmap.ThemeComplete,
		})
	rm.AddChange(c)
	if err := rm.Save(cfg.RoadmapPath()); err != nil {
		t.Fatalf("save roadmap: %v", err)
	}
	return c.ID
}

func TestReviewApprove_AppliesStatusChange(t *testing.T) {
	withTestDir(t)
	id := queueStatusChange(t)

	cmd := newReviewApproveCmd()
	cmd.SetArgs([]string{id})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("approve: %v", err)
	}

	cfg := testSettings(t)
	rm, err := roadmap.Load(cfg.RoadmapPath())
	if err != nil {
		t.Fatalf("reload roadmap: %v", err)
	}
	th := rm.FindProject("Billing").FindTheme("Invoicing")
	if th.Status != roadmap.ThemeComplete {
		t.Errorf("theme status = %s, want complete", th.Status)
	}
	c := rm.FindChange(id)
	if c == nil || c.Approval != roadmap.ApprovalApproved {
		t.Errorf("change approval = %v, want approved", c)
	}
	if len(rm.Pending()) != 0 {
		t.Errorf("pending = %d, want 0", len(rm.Pending()))
	}
}

func TestReviewReject_KeepsAuditRecord(t *testing.T) {
	withTestDir(t)
	id := queueStatusChange(t)

	cmd := newReviewRejectCmd()
	cmd.SetArgs([]string{id})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("reject: %v", err)
	}

	cfg := testSettings(t)
	rm, err := roadmap.Load(cfg.RoadmapPath())
	if err != nil {
		t.Fatalf("reload roadmap: %v", err)
	}

	// Rejection leaves the theme untouched and the record in place.
	th := rm.FindProject("Billing").FindTheme("Invoicing")
	if th.Status != roadmap.ThemeActive {
		t.Errorf("theme status = %s, want active", th.Status)
	}
	c := rm.FindChange(id)
	if c == nil || c.Approval != roadmap.ApprovalRejected {
		t.Fatalf("change approval = %v, want rejected", c)
	}

	// clear drops it.
	clear := newReviewClearCmd()
	clear.SetArgs([]string{})
	if err := clear.Execute(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	rm, err = roadmap.Load(cfg.RoadmapPath())
	if err != nil {
		t.Fatalf("reload roadmap: %v", err)
	}
	if rm.FindChange(id) != nil {
		t.Error("rejected change should be gone after clear")
	}
}

func TestReviewApprove_UnknownID(t *testing.T) {
	withTestDir(t)
	cfg := testSettings(t)
	seedRoadmap(t, cfg)

	cmd := newReviewApproveCmd()
	cmd.SetArgs([]string{"nope1234"})
	if err := cmd.Execute(); err == nil {
		t.Error("approving an unknown change should fail")
	}
}

func TestReviewApprove_All(t *testing.T) {
	withTestDir(t)
	cfg := testSettings(t)
	rm := seedRoadmap(t, cfg)

	rm.AddChange(roadmap.NewChange(roadmap.ChangeNewProject, "Add \"Notes\"",
		roadmap.ChangeDetails{Project: "Notes", FolderPath: "/repo/notes"}))
	rm.AddChange(roadmap.NewChange(roadmap.ChangeStaleWarning, "Theme is stale",
		roadmap.ChangeDetails{Project: "Billing", Theme: "theme-001"}))
	if err := rm.Save(cfg.RoadmapPath()); err != nil {
		t.Fatalf("save roadmap: %v", err)
	}

	cmd := newReviewApproveCmd()
	cmd.SetArgs([]string{"--all"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("approve --all: %v", err)
	}

	rm, err := roadmap.Load(cfg.RoadmapPath())
	if err != nil {
		t.Fatalf("reload roadmap: %v", err)
	}
	if len(rm.Pending()) != 0 {
		t.Errorf("pending = %d, want 0", len(rm.Pending()))
	}
	if rm.FindProject("Notes") == nil {
		t.Error("approved new_project should have registered Notes")
	}
}
