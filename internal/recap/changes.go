package recap

import (
	"fmt"
	"strings"
	"time"

	"github.com/randalmurphal/pulse/internal/classify"
	"github.com/randalmurphal/pulse/internal/roadmap"
)

// QueueChanges turns detected lifecycle transitions, stale themes and new
// theme suggestions into pending proposed changes on the roadmap, skipping
// any that duplicate a change still awaiting review. Returns the newly
// queued changes; the caller persists the roadmap.
func QueueChanges(rm *roadmap.Roadmap, transitions []classify.Transition,
	suggestions []classify.Suggestion, staleDays int, now time.Time) []*roadmap.ProposedChange {

	var queued []*roadmap.ProposedChange
	queue := func(c *roadmap.ProposedChange) {
		rm.AddChange(c)
		queued = append(queued, c)
	}

	for _, tr := range transitions {
		if rm.HasPendingFor(roadmap.ChangeStatus, tr.Project, tr.ThemeID) {
			continue
		}
		queue(roadmap.NewChange(roadmap.ChangeStatus,
			fmt.Sprintf("Theme %q in %s: %s -> %s (%s)",
				tr.Theme, tr.Project, tr.From, tr.To, tr.Reason),
			roadmap.ChangeDetails{
				Project:    tr.Project,
				Theme:      tr.ThemeID,
				FromStatus: tr.From,
				ToStatus:   tr.To,
				Reason:     tr.Reason,
			}))
	}

	for _, warn := range staleThemes(rm, staleDays, now) {
		if rm.HasPendingFor(roadmap.ChangeStaleWarning, warn.project, warn.themeID) {
			continue
		}
		queue(roadmap.NewChange(roadmap.ChangeStaleWarning,
			fmt.Sprintf("Theme %q in %s: %s", warn.themeName, warn.project, warn.reason),
			roadmap.ChangeDetails{
				Project: warn.project,
				Theme:   warn.themeID,
				Reason:  warn.reason,
			}))
	}

	for _, s := range suggestions {
		if rm.HasPendingFor(roadmap.ChangeNewTheme, s.Project, s.ThemeID) {
			continue
		}
		reason := fmt.Sprintf("Clustered from %d unthemed activities", s.ActivityCount)
		if len(s.Samples) > 0 {
			reason += ": " + strings.Join(s.Samples, "; ")
		}
		queue(roadmap.NewChange(roadmap.ChangeNewTheme,
			s.Describe(),
			roadmap.ChangeDetails{
				Project:   s.Project,
				Theme:     s.ThemeID,
				ThemeName: s.ThemeName,
				Reason:    reason,
			}))
	}

	return queued
}

type staleWarning struct {
	project   string
	themeID   string
	themeName string
	reason    string
}

// staleThemes finds started themes that have gone quiet. Planned themes
// haven't started and complete ones are finished, so neither warns.
func staleThemes(rm *roadmap.Roadmap, staleDays int, now time.Time) []staleWarning {
	if staleDays <= 0 {
		return nil
	}
	var warns []staleWarning
	for _, p := range rm.Projects {
		for _, th := range p.Themes {
			if th.Status != roadmap.ThemeActive && th.Status != roadmap.ThemeBlocked {
				continue
			}
			if !th.IsStale(staleDays, now) {
				continue
			}
			reason := "no recorded activity"
			if th.LastTouched != nil {
				days := int(now.Sub(*th.LastTouched).Hours() / 24)
				reason = fmt.Sprintf("no activity for %d days", days)
			}
			warns = append(warns, staleWarning{
				project:   p.Name,
				themeID:   th.ID,
				themeName: th.Name,
				reason:    reason,
			})
		}
	}
	return warns
}
