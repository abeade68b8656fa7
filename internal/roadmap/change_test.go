package roadmap

import (
	"errors"
	"testing"

	pulseerr "github.com/randalmurphal/pulse/internal/errors"
)

func testRoadmap(t *testing.T) *Roadmap {
	t.Helper()
	r := New()
	p := NewProject("Billing", "payments", "/repo/billing")
	th := p.AddTheme("invoice revamp")
	th.Status = ThemeActive
	if err := r.AddProject(p); err != nil {
		t.Fatalf("AddProject failed: %v", err)
	}
	return r
}

func TestNewChange(t *testing.T) {
	c := NewChange(ChangeStatus, "activate", ChangeDetails{Project: "Billing"})

	if len(c.ID) != 8 {
		t.Errorf("id length = %d, want 8", len(c.ID))
	}
	if c.Approval != ApprovalPending {
		t.Errorf("approval = %q, want pending", c.Approval)
	}
	if c.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}
}

func TestApprovalHelpers(t *testing.T) {
	if ApprovalPending.Decided() {
		t.Error("pending is not decided")
	}
	if !ApprovalApproved.Decided() || !ApprovalRejected.Decided() {
		t.Error("approved and rejected are decided")
	}
	if !IsValidApproval(ApprovalPending) || IsValidApproval("maybe") {
		t.Error("IsValidApproval misbehaves")
	}
}

func TestApproveStatusChange(t *testing.T) {
	r := testRoadmap(t)
	c := NewChange(ChangeStatus, "block invoice revamp", ChangeDetails{
		Project:    "Billing",
		Theme:      "theme-001",
		FromStatus: ThemeActive,
		ToStatus:   ThemeBlocked,
		Reason:     "waiting on tax vendor",
	})
	r.AddChange(c)

	got, err := r.Approve(c.ID)
	if err != nil {
		t.Fatalf("Approve failed: %v", err)
	}
	if got.Approval != ApprovalApproved {
		t.Errorf("approval = %q, want approved", got.Approval)
	}
	th := r.FindProject("Billing").FindTheme("theme-001")
	if th.Status != ThemeBlocked {
		t.Errorf("theme status = %q, want blocked", th.Status)
	}
	if th.LastTouched == nil {
		t.Error("apply should touch the theme")
	}
}

// Manual reactivation of a complete theme goes through an approved change;
// the keyword-driven transitions never do this on their own.
func TestApproveReactivatesCompleteTheme(t *testing.T) {
	r := testRoadmap(t)
	r.FindProject("Billing").FindTheme("theme-001").Status = ThemeComplete

	c := NewChange(ChangeStatus, "reopen invoice revamp", ChangeDetails{
		Project: "Billing", Theme: "theme-001", FromStatus: ThemeComplete, ToStatus: ThemeActive,
	})
	r.AddChange(c)

	if _, err := r.Approve(c.ID); err != nil {
		t.Fatalf("Approve failed: %v", err)
	}
	if got := r.FindProject("Billing").FindTheme("theme-001").Status; got != ThemeActive {
		t.Errorf("status = %q, want active", got)
	}
}

func TestApproveNewTheme(t *testing.T) {
	r := testRoadmap(t)
	c := NewChange(ChangeNewTheme, "new theme: tax engine", ChangeDetails{
		Project:   "Billing",
		ThemeName: "tax engine",
		Reason:    "7 uncategorized activities mention tax",
	})
	r.AddChange(c)

	if _, err := r.Approve(c.ID); err != nil {
		t.Fatalf("Approve failed: %v", err)
	}
	th := r.FindProject("Billing").FindTheme("tax engine")
	if th == nil {
		t.Fatal("theme was not created")
	}
	if th.Status != ThemePlanned {
		t.Errorf("new theme status = %q, want planned", th.Status)
	}
	if th.ID != "theme-002" {
		t.Errorf("new theme id = %q, want theme-002", th.ID)
	}
}

func TestApproveNewProject(t *testing.T) {
	r := testRoadmap(t)
	c := NewChange(ChangeNewProject, "register discovered project", ChangeDetails{
		Project:    "Side Quest",
		FolderPath: "/repo/sidequest",
		Team:       "personal",
		Confidence: 0.95,
	})
	r.AddChange(c)

	if _, err := r.Approve(c.ID); err != nil {
		t.Fatalf("Approve failed: %v", err)
	}
	p := r.FindProject("Side Quest")
	if p == nil {
		t.Fatal("project was not created")
	}
	if p.FolderPath != "/repo/sidequest" || p.Team != "personal" {
		t.Errorf("project fields = %+v", p)
	}
}

func TestApproveStaleWarningIsAcknowledgement(t *testing.T) {
	r := testRoadmap(t)
	c := NewChange(ChangeStaleWarning, "theme untouched for 21 days", ChangeDetails{
		Project: "Billing", Theme: "theme-001",
	})
	r.AddChange(c)

	if _, err := r.Approve(c.ID); err != nil {
		t.Fatalf("Approve failed: %v", err)
	}
	// No mutation: status unchanged.
	if got := r.FindProject("Billing").FindTheme("theme-001").Status; got != ThemeActive {
		t.Errorf("status = %q, want active", got)
	}
}

func TestRejectKeepsAuditRecord(t *testing.T) {
	r := testRoadmap(t)
	c := NewChange(ChangeStatus, "complete invoice revamp", ChangeDetails{
		Project: "Billing", Theme: "theme-001", ToStatus: ThemeComplete,
	})
	r.AddChange(c)

	if _, err := r.Reject(c.ID); err != nil {
		t.Fatalf("Reject failed: %v", err)
	}
	// Mutation was not applied.
	if got := r.FindProject("Billing").FindTheme("theme-001").Status; got != ThemeActive {
		t.Errorf("status = %q, want active", got)
	}
	// Record remains until cleared.
	if len(r.PendingChanges) != 1 {
		t.Errorf("changes = %d, want 1", len(r.PendingChanges))
	}
	if len(r.Pending()) != 0 {
		t.Error("rejected change must not count as pending")
	}
}

func TestDecisionIsTerminal(t *testing.T) {
	r := testRoadmap(t)
	c := NewChange(ChangeStaleWarning, "stale", ChangeDetails{Project: "Billing", Theme: "theme-001"})
	r.AddChange(c)

	if _, err := r.Approve(c.ID); err != nil {
		t.Fatalf("Approve failed: %v", err)
	}
	if _, err := r.Approve(c.ID); !errors.Is(err, pulseerr.ErrChangeDecided(c.ID, "approved")) {
		t.Errorf("second approve error = %v, want CHANGE_ALREADY_DECIDED", err)
	}
	if _, err := r.Reject(c.ID); !errors.Is(err, pulseerr.ErrChangeDecided(c.ID, "approved")) {
		t.Errorf("reject after approve error = %v, want CHANGE_ALREADY_DECIDED", err)
	}
}

func TestApproveUnknownChange(t *testing.T) {
	r := testRoadmap(t)
	if _, err := r.Approve("deadbeef"); !errors.Is(err, pulseerr.ErrChangeNotFound("deadbeef")) {
		t.Errorf("error = %v, want CHANGE_NOT_FOUND", err)
	}
}

func TestFindChangePrefix(t *testing.T) {
	r := testRoadmap(t)
	c := NewChange(ChangeStaleWarning, "stale", ChangeDetails{Project: "Billing", Theme: "theme-001"})
	c.ID = "a1b2c3d4"
	other := NewChange(ChangeStaleWarning, "stale", ChangeDetails{Project: "Billing", Theme: "theme-001"})
	other.ID = "a1ffffff"
	r.AddChange(c)
	r.AddChange(other)

	if got := r.FindChange("a1b2"); got != c {
		t.Errorf("unique prefix should match, got %v", got)
	}
	if got := r.FindChange("a1"); got != nil {
		t.Error("ambiguous prefix must not match")
	}
	if got := r.FindChange("a1ffffff"); got != other {
		t.Error("full id should match exactly")
	}
}

func TestClearDecided(t *testing.T) {
	r := testRoadmap(t)
	keep := NewChange(ChangeStaleWarning, "stale a", ChangeDetails{Project: "Billing", Theme: "theme-001"})
	done := NewChange(ChangeStaleWarning, "stale b", ChangeDetails{Project: "Billing", Theme: "theme-001"})
	r.AddChange(keep)
	r.AddChange(done)

	if _, err := r.Approve(done.ID); err != nil {
		t.Fatalf("Approve failed: %v", err)
	}
	if dropped := r.ClearDecided(); dropped != 1 {
		t.Errorf("dropped = %d, want 1", dropped)
	}
	if len(r.PendingChanges) != 1 || r.PendingChanges[0] != keep {
		t.Errorf("remaining changes wrong: %+v", r.PendingChanges)
	}
}

func TestHasPendingFor(t *testing.T) {
	r := testRoadmap(t)
	r.AddChange(NewChange(ChangeStatus, "x", ChangeDetails{Project: "Billing", Theme: "theme-001"}))

	if !r.HasPendingFor(ChangeStatus, "Billing", "theme-001") {
		t.Error("expected pending match")
	}
	if r.HasPendingFor(ChangeStaleWarning, "Billing", "theme-001") {
		t.Error("type must be part of the key")
	}
	if r.HasPendingFor(ChangeStatus, "Billing", "theme-002") {
		t.Error("theme must be part of the key")
	}
}
