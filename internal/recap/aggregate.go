// Package recap turns a classified activity batch into the documents pulse
// persists: the aggregate summary, the daily recap, queued proposed changes,
// history snapshots and detected wins.
package recap

import (
	"math"
	"sort"

	"github.com/randalmurphal/pulse/internal/activity"
	"github.com/randalmurphal/pulse/internal/roadmap"
)

// UncategorizedWarnRate is the share of uncategorized activities above which
// a summary carries a warning. A quarter of the day unmatched usually means
// the registry is missing a project or a folder path moved.
const UncategorizedWarnRate = 0.25

// topThemeLimit caps how many themes a summary lists.
const topThemeLimit = 5

// ThemeCount is one theme's activity tally.
type ThemeCount struct {
	Project   string `json:"project"`
	ThemeID   string `json:"theme_id"`
	ThemeName string `json:"theme_name,omitempty"`
	Count     int    `json:"count"`
}

// Summary is the aggregate view of one classified batch.
type Summary struct {
	Total      int
	TotalFiles int

	// ByProject counts activities per assigned project, uncategorized
	// included under its own bucket.
	ByProject map[string]int
	// BySource counts activities per collector source.
	BySource map[string]int
	// TeamPercent is the integer-rounded share of categorized activity per
	// team. Projects without a team fall under "unassigned".
	TeamPercent map[string]int
	// TopThemes lists the most active themes, busiest first.
	TopThemes []ThemeCount

	Uncategorized        []*activity.Activity
	UncategorizedWarning bool
}

// Aggregate rolls a classified batch up against the roadmap. Pure: it reads
// the inputs and builds a fresh summary every call.
func Aggregate(acts []*activity.Activity, rm *roadmap.Roadmap) *Summary {
	sum := &Summary{
		Total:       len(acts),
		ByProject:   map[string]int{},
		BySource:    map[string]int{},
		TeamPercent: map[string]int{},
	}

	teamCounts := map[string]int{}
	themeCounts := map[string]*ThemeCount{}
	categorized := 0

	for _, a := range acts {
		sum.BySource[string(a.Source)]++
		sum.TotalFiles += fileCount(a)

		project := a.Project
		if project == "" {
			project = activity.Uncategorized
		}
		sum.ByProject[project]++

		if project == activity.Uncategorized {
			sum.Uncategorized = append(sum.Uncategorized, a)
			continue
		}
		categorized++

		team := "unassigned"
		if p := rm.FindProject(project); p != nil && p.Team != "" {
			team = p.Team
		}
		teamCounts[team]++

		if a.Theme != "" {
			key := project + "/" + a.Theme
			tc := themeCounts[key]
			if tc == nil {
				tc = &ThemeCount{Project: project, ThemeID: a.Theme}
				if p := rm.FindProject(project); p != nil {
					if th := p.FindTheme(a.Theme); th != nil {
						tc.ThemeName = th.Name
					}
				}
				themeCounts[key] = tc
			}
			tc.Count++
		}
	}

	for team, count := range teamCounts {
		sum.TeamPercent[team] = int(math.Round(float64(count) / float64(categorized) * 100))
	}

	for _, tc := range themeCounts {
		sum.TopThemes = append(sum.TopThemes, *tc)
	}
	sort.Slice(sum.TopThemes, func(i, j int) bool {
		a, b := sum.TopThemes[i], sum.TopThemes[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		if a.Project != b.Project {
			return a.Project < b.Project
		}
		return a.ThemeID < b.ThemeID
	})
	if len(sum.TopThemes) > topThemeLimit {
		sum.TopThemes = sum.TopThemes[:topThemeLimit]
	}

	if sum.Total > 0 {
		rate := float64(len(sum.Uncategorized)) / float64(sum.Total)
		sum.UncategorizedWarning = rate > UncategorizedWarnRate
	}

	return sum
}

// fileCount is how many files an activity touched: the file list from the
// filesystem and git collectors, or the edit count a session recorded.
func fileCount(a *activity.Activity) int {
	if files := a.RawStrings("files"); len(files) > 0 {
		return len(files)
	}
	return a.RawInt("files_edited")
}
