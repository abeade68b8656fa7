package classify

import (
	"fmt"
	"strings"

	"github.com/randalmurphal/pulse/internal/activity"
	"github.com/randalmurphal/pulse/internal/roadmap"
)

// completionKeywords signal that a theme's work has shipped.
var completionKeywords = []string{
	"ship", "shipped", "launch", "launched", "deploy", "deployed",
	"complete", "completed", "finish", "finished", "done", "released",
	"live", "published", "delivered",
}

// blockedKeywords signal that a theme's work has stalled.
var blockedKeywords = []string{
	"blocked", "waiting", "stuck", "paused", "on hold", "pending review",
}

// Transition is one detected theme status change. Transitions are
// proposals for review, never applied directly.
type Transition struct {
	Project string
	ThemeID string
	Theme   string
	From    roadmap.ThemeStatus
	To      roadmap.ThemeStatus
	Reason  string
}

// DetectTransitions runs the theme lifecycle over classified activities.
// Each theme moves at most once per run:
//
//	planned -> active   any activity
//	active  -> complete completion keyword in activity text
//	active  -> blocked  blocked keyword in activity text
//	blocked -> active   any activity (resumed)
//
// Complete is terminal here. Reactivating a finished theme takes an
// explicitly approved change, not a keyword.
func DetectTransitions(projects []*roadmap.Project, acts []*activity.Activity) []Transition {
	// Theme ids are only unique within a project, so group on both.
	type themeKey struct {
		project string
		theme   string
	}
	byTheme := map[themeKey][]*activity.Activity{}
	for _, a := range acts {
		if a.Theme != "" {
			k := themeKey{project: a.Project, theme: a.Theme}
			byTheme[k] = append(byTheme[k], a)
		}
	}

	var transitions []Transition
	for _, p := range projects {
		for _, th := range p.Themes {
			themeActs := byTheme[themeKey{project: p.Name, theme: th.ID}]

			switch th.Status {
			case roadmap.ThemePlanned:
				if len(themeActs) > 0 {
					transitions = append(transitions, Transition{
						Project: p.Name,
						ThemeID: th.ID,
						Theme:   th.Name,
						From:    th.Status,
						To:      roadmap.ThemeActive,
						Reason:  fmt.Sprintf("Detected %d activities", len(themeActs)),
					})
				}

			case roadmap.ThemeActive:
				if kw, ok := findKeyword(themeActs, completionKeywords); ok {
					transitions = append(transitions, Transition{
						Project: p.Name,
						ThemeID: th.ID,
						Theme:   th.Name,
						From:    th.Status,
						To:      roadmap.ThemeComplete,
						Reason:  fmt.Sprintf("Completion signal: %q", kw),
					})
					continue
				}
				if kw, ok := findKeyword(themeActs, blockedKeywords); ok {
					transitions = append(transitions, Transition{
						Project: p.Name,
						ThemeID: th.ID,
						Theme:   th.Name,
						From:    th.Status,
						To:      roadmap.ThemeBlocked,
						Reason:  fmt.Sprintf("Blocked signal: %q", kw),
					})
				}

			case roadmap.ThemeBlocked:
				if len(themeActs) > 0 {
					transitions = append(transitions, Transition{
						Project: p.Name,
						ThemeID: th.ID,
						Theme:   th.Name,
						From:    th.Status,
						To:      roadmap.ThemeActive,
						Reason:  "Activity resumed",
					})
				}

			case roadmap.ThemeComplete:
				// Terminal for automatic transitions.
			}
		}
	}
	return transitions
}

// CompletionSignal returns the completion keyword found in text, if any.
// Win detection shares the lifecycle's keyword set so a shipped commit both
// completes its theme and counts as a milestone.
func CompletionSignal(text string) (string, bool) {
	text = strings.ToLower(text)
	for _, kw := range completionKeywords {
		if strings.Contains(text, kw) {
			return kw, true
		}
	}
	return "", false
}

// findKeyword returns the first keyword from the set found in any
// activity's text. Scans the same text the matcher does, so a signal in a
// session's captured task descriptions counts too.
func findKeyword(acts []*activity.Activity, keywords []string) (string, bool) {
	for _, a := range acts {
		text := matchText(a)
		for _, kw := range keywords {
			if strings.Contains(text, kw) {
				return kw, true
			}
		}
	}
	return "", false
}
