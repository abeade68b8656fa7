package recap

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/randalmurphal/pulse/internal/activity"
	"github.com/randalmurphal/pulse/internal/roadmap"
	"github.com/randalmurphal/pulse/internal/util"
)

// highlightLimit caps how many descriptions a project recap quotes.
const highlightLimit = 3

// ProjectRecap is one project's slice of the day.
type ProjectRecap struct {
	Name       string   `json:"name"`
	Team       string   `json:"team,omitempty"`
	Activities int      `json:"activities"`
	Files      int      `json:"files"`
	Highlights []string `json:"highlights,omitempty"`
}

// ClaudeRecap rolls up the day's coding sessions.
type ClaudeRecap struct {
	Sessions    int            `json:"sessions"`
	Messages    int            `json:"messages"`
	FilesEdited int            `json:"files_edited"`
	ActionItems int            `json:"action_items"`
	Tools       map[string]int `json:"tools,omitempty"`
}

// DailyNotes carries the user's own journal entries into the recap.
type DailyNotes struct {
	Intent   string   `json:"intent,omitempty"`
	Wins     []string `json:"wins,omitempty"`
	Blockers []string `json:"blockers,omitempty"`
}

// Recap is the persisted daily recap document.
type Recap struct {
	Date            string         `json:"date"`
	GeneratedAt     time.Time      `json:"generated_at"`
	WindowHours     int            `json:"window_hours"`
	TotalActivities int            `json:"total_activities"`
	TotalFiles      int            `json:"total_files"`
	Projects        []ProjectRecap `json:"projects"`
	Claude          ClaudeRecap    `json:"claude"`
	Team            map[string]int `json:"team,omitempty"`
	Sources         map[string]int `json:"sources,omitempty"`
	TopThemes       []ThemeCount   `json:"top_themes,omitempty"`

	Uncategorized        int  `json:"uncategorized"`
	UncategorizedWarning bool `json:"uncategorized_warning,omitempty"`

	// PendingChanges is the review-queue size when the recap was written.
	PendingChanges int `json:"pending_changes"`

	Daily *DailyNotes `json:"daily,omitempty"`
}

// Build assembles the recap document for one day from a classified batch.
// The caller attaches DailyNotes and the pending-change count afterwards;
// both exist outside the batch.
func Build(date string, windowHours int, acts []*activity.Activity, rm *roadmap.Roadmap) *Recap {
	sum := Aggregate(acts, rm)

	r := &Recap{
		Date:                 date,
		GeneratedAt:          time.Now().UTC(),
		WindowHours:          windowHours,
		TotalActivities:      sum.Total,
		TotalFiles:           sum.TotalFiles,
		Team:                 sum.TeamPercent,
		Sources:              sum.BySource,
		TopThemes:            sum.TopThemes,
		Uncategorized:        len(sum.Uncategorized),
		UncategorizedWarning: sum.UncategorizedWarning,
	}

	byProject := map[string]*ProjectRecap{}
	for _, a := range acts {
		name := a.Project
		if name == "" || name == activity.Uncategorized {
			continue
		}
		pr := byProject[name]
		if pr == nil {
			pr = &ProjectRecap{Name: name}
			if p := rm.FindProject(name); p != nil {
				pr.Team = p.Team
			}
			byProject[name] = pr
		}
		pr.Activities++
		pr.Files += fileCount(a)
		if len(pr.Highlights) < highlightLimit {
			pr.Highlights = append(pr.Highlights, a.Description)
		}
	}
	for _, pr := range byProject {
		r.Projects = append(r.Projects, *pr)
	}
	sort.Slice(r.Projects, func(i, j int) bool {
		if r.Projects[i].Activities != r.Projects[j].Activities {
			return r.Projects[i].Activities > r.Projects[j].Activities
		}
		return r.Projects[i].Name < r.Projects[j].Name
	})

	r.Claude = claudeRollup(acts)
	return r
}

// claudeRollup totals session metrics across the batch.
func claudeRollup(acts []*activity.Activity) ClaudeRecap {
	var c ClaudeRecap
	for _, a := range acts {
		switch a.Source {
		case activity.SourceChat:
			c.Sessions++
			c.Messages += a.RawInt("messages")
			c.FilesEdited += a.RawInt("files_edited")
			mergeToolCounts(&c, a)
		case activity.SourceChatActionItem:
			c.ActionItems++
		}
	}
	return c
}

// mergeToolCounts adds a session's tool usage into the rollup. Counts arrive
// as ints in-process and as float64 after a JSON round trip.
func mergeToolCounts(c *ClaudeRecap, a *activity.Activity) {
	raw, ok := a.Raw["tools_used"]
	if !ok {
		return
	}
	if c.Tools == nil {
		c.Tools = map[string]int{}
	}
	switch tools := raw.(type) {
	case map[string]int:
		for name, n := range tools {
			c.Tools[name] += n
		}
	case map[string]any:
		for name, v := range tools {
			if n, isFloat := v.(float64); isFloat {
				c.Tools[name] += int(n)
			}
		}
	}
}

// Path returns the recap file path for a date.
func Path(dir, date string) string {
	return filepath.Join(dir, "recap_"+date+".json")
}

// Save writes the recap document and returns its path.
func Save(dir string, r *Recap) (string, error) {
	path := Path(dir, r.Date)
	if err := util.WriteJSONFile(path, r); err != nil {
		return "", fmt.Errorf("write recap: %w", err)
	}
	return path, nil
}

// Load reads the recap for a date.
func Load(dir, date string) (*Recap, error) {
	var r Recap
	if err := util.ReadJSONFile(Path(dir, date), &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// Dates lists the dates with a saved recap, oldest first.
func Dates(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var dates []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, "recap_") || !strings.HasSuffix(name, ".json") {
			continue
		}
		date := strings.TrimSuffix(strings.TrimPrefix(name, "recap_"), ".json")
		if _, err := time.Parse("2006-01-02", date); err == nil {
			dates = append(dates, date)
		}
	}
	sort.Strings(dates)
	return dates
}
