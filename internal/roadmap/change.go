package roadmap

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/randalmurphal/pulse/internal/errors"
)

// Approval is the review state of a proposed change. It is deliberately a
// three-valued enum rather than a nullable bool: pending means undecided,
// and approved/rejected are terminal.
type Approval string

const (
	ApprovalPending  Approval = "pending"
	ApprovalApproved Approval = "approved"
	ApprovalRejected Approval = "rejected"
)

// ValidApprovals returns all valid approval values.
func ValidApprovals() []Approval {
	return []Approval{ApprovalPending, ApprovalApproved, ApprovalRejected}
}

// IsValidApproval returns true if a is a valid approval value.
func IsValidApproval(a Approval) bool {
	switch a {
	case ApprovalPending, ApprovalApproved, ApprovalRejected:
		return true
	default:
		return false
	}
}

// Decided reports whether the approval reached a terminal state.
func (a Approval) Decided() bool {
	return a == ApprovalApproved || a == ApprovalRejected
}

// ChangeType identifies what a proposed change would mutate.
type ChangeType string

const (
	// ChangeStatus updates a theme's lifecycle status.
	ChangeStatus ChangeType = "status_change"
	// ChangeStaleWarning flags a theme untouched past the staleness window.
	// Approving acknowledges it; no mutation is applied.
	ChangeStaleWarning ChangeType = "stale_warning"
	// ChangeNewTheme suggests a theme detected from uncategorized activity.
	ChangeNewTheme ChangeType = "new_theme_suggestion"
	// ChangeNewProject suggests registering a discovered project folder.
	ChangeNewProject ChangeType = "new_project"
)

// ChangeDetails carries the structured payload of a proposed change. Fields
// are populated per change type; unused ones stay empty.
type ChangeDetails struct {
	Project    string      `json:"project,omitempty"`
	Theme      string      `json:"theme,omitempty"`
	ThemeName  string      `json:"theme_name,omitempty"`
	FromStatus ThemeStatus `json:"from_status,omitempty"`
	ToStatus   ThemeStatus `json:"to_status,omitempty"`
	Reason     string      `json:"reason,omitempty"`
	FolderPath string      `json:"folder_path,omitempty"`
	Team       string      `json:"team,omitempty"`
	Confidence float64     `json:"confidence,omitempty"`
}

// ProposedChange is a pending, human-reviewable mutation to the roadmap.
type ProposedChange struct {
	ID          string        `json:"id"`
	Type        ChangeType    `json:"change_type"`
	Description string        `json:"description"`
	Details     ChangeDetails `json:"details"`
	CreatedAt   time.Time     `json:"created_at"`
	Approval    Approval      `json:"approval"`
}

// NewChange builds a pending change with a short unique id.
func NewChange(t ChangeType, description string, details ChangeDetails) *ProposedChange {
	return &ProposedChange{
		ID:          uuid.NewString()[:8],
		Type:        t,
		Description: description,
		Details:     details,
		CreatedAt:   time.Now().UTC(),
		Approval:    ApprovalPending,
	}
}

// FindChange returns the change with the given id, matching on a unique
// prefix the way short git hashes do. Returns nil when absent or ambiguous.
func (r *Roadmap) FindChange(id string) *ProposedChange {
	var found *ProposedChange
	for _, c := range r.PendingChanges {
		if c.ID == id {
			return c
		}
		if strings.HasPrefix(c.ID, id) {
			if found != nil {
				return nil // ambiguous prefix
			}
			found = c
		}
	}
	return found
}

// Pending returns the changes still awaiting a decision.
func (r *Roadmap) Pending() []*ProposedChange {
	var out []*ProposedChange
	for _, c := range r.PendingChanges {
		if c.Approval == ApprovalPending {
			out = append(out, c)
		}
	}
	return out
}

// HasPendingFor reports whether an undecided change of the given type already
// targets the project/theme pair. Generators use it to avoid duplicates.
func (r *Roadmap) HasPendingFor(t ChangeType, project, theme string) bool {
	for _, c := range r.PendingChanges {
		if c.Approval == ApprovalPending && c.Type == t &&
			c.Details.Project == project && c.Details.Theme == theme {
			return true
		}
	}
	return false
}

// AddChange appends a proposed change to the pending list.
func (r *Roadmap) AddChange(c *ProposedChange) {
	r.PendingChanges = append(r.PendingChanges, c)
}

// Approve applies the change's mutation to the roadmap and marks it
// approved. Once decided a change cannot be decided again.
func (r *Roadmap) Approve(id string) (*ProposedChange, error) {
	c := r.FindChange(id)
	if c == nil {
		return nil, errors.ErrChangeNotFound(id)
	}
	if c.Approval.Decided() {
		return c, errors.ErrChangeDecided(c.ID, string(c.Approval))
	}
	if err := r.apply(c); err != nil {
		return c, err
	}
	c.Approval = ApprovalApproved
	return c, nil
}

// Reject marks the change rejected. The record stays for auditing until
// ClearDecided drops it.
func (r *Roadmap) Reject(id string) (*ProposedChange, error) {
	c := r.FindChange(id)
	if c == nil {
		return nil, errors.ErrChangeNotFound(id)
	}
	if c.Approval.Decided() {
		return c, errors.ErrChangeDecided(c.ID, string(c.Approval))
	}
	c.Approval = ApprovalRejected
	return c, nil
}

// ClearDecided drops approved and rejected changes, returning the count.
func (r *Roadmap) ClearDecided() int {
	kept := r.PendingChanges[:0]
	dropped := 0
	for _, c := range r.PendingChanges {
		if c.Approval.Decided() {
			dropped++
			continue
		}
		kept = append(kept, c)
	}
	r.PendingChanges = kept
	return dropped
}

// apply performs the mutation a change describes.
func (r *Roadmap) apply(c *ProposedChange) error {
	switch c.Type {
	case ChangeStatus:
		p := r.FindProject(c.Details.Project)
		if p == nil {
			return errors.ErrProjectNotFound(c.Details.Project)
		}
		th := p.FindTheme(c.Details.Theme)
		if th == nil {
			return errors.ErrThemeNotFound(p.Name, c.Details.Theme)
		}
		if !IsValidThemeStatus(c.Details.ToStatus) {
			return fmt.Errorf("invalid theme status %q", c.Details.ToStatus)
		}
		th.Status = c.Details.ToStatus
		th.Touch(time.Now().UTC())
		return nil

	case ChangeNewTheme:
		p := r.FindProject(c.Details.Project)
		if p == nil {
			return errors.ErrProjectNotFound(c.Details.Project)
		}
		name := c.Details.ThemeName
		if name == "" {
			return fmt.Errorf("new theme suggestion %s has no theme name", c.ID)
		}
		if p.FindTheme(name) != nil {
			return fmt.Errorf("project %q already has a theme named %q", p.Name, name)
		}
		th := p.AddTheme(name)
		th.Notes = c.Details.Reason
		th.Touch(time.Now().UTC())
		return nil

	case ChangeNewProject:
		name := c.Details.Project
		if name == "" {
			return fmt.Errorf("new project suggestion %s has no project name", c.ID)
		}
		p := NewProject(name, c.Details.Team, c.Details.FolderPath)
		if err := r.AddProject(p); err != nil {
			return errors.ErrDuplicateName(name).WithCause(err)
		}
		return nil

	case ChangeStaleWarning:
		// Acknowledgement only.
		return nil

	default:
		return fmt.Errorf("unknown change type %q", c.Type)
	}
}
