package recap

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/randalmurphal/pulse/internal/activity"
	"github.com/randalmurphal/pulse/internal/classify"
	"github.com/randalmurphal/pulse/internal/util"
)

// Win kinds, strongest signal first.
const (
	WinGitMilestone       = "git_milestone"
	WinSignificantSession = "significant_session"
	WinSustainedEffort    = "sustained_effort"
)

// Significance cutoffs for win detection.
const (
	winSessionFiles   = 5  // files edited in one session
	winSessionTasks   = 3  // action items raised in one session
	winSustainedFiles = 10 // files touched across the day
)

// Win is one detected accomplishment.
type Win struct {
	Date        string  `json:"date"`
	Type        string  `json:"type"`
	Description string  `json:"description"`
	Project     string  `json:"project,omitempty"`
	Score       float64 `json:"score"`
}

// DetectWins applies the win heuristics to one day's classified batch:
// commits carrying a completion signal, sessions with substantial output,
// and days with sustained file churn.
func DetectWins(day string, acts []*activity.Activity) []Win {
	var wins []Win

	// Action items per session corroborate session significance.
	tasksBySession := map[string]int{}
	for _, a := range acts {
		if a.Source == activity.SourceChatActionItem {
			tasksBySession[a.RawString("session_id")]++
		}
	}

	var (
		dayFiles    int
		dayProjects = map[string]bool{}
	)

	for _, a := range acts {
		switch a.Source {
		case activity.SourceGit:
			if _, ok := classify.CompletionSignal(a.Description); ok {
				wins = append(wins, Win{
					Date:        day,
					Type:        WinGitMilestone,
					Description: "Shipped: " + a.Description,
					Project:     winProject(a),
					Score:       0.8,
				})
			}

		case activity.SourceChat:
			files := a.RawInt("files_edited")
			tasks := tasksBySession[a.RawString("session_id")]
			if files < winSessionFiles && tasks < winSessionTasks {
				continue
			}
			topic := strings.TrimPrefix(a.Description, "Claude session: ")
			wins = append(wins, Win{
				Date:        day,
				Type:        WinSignificantSession,
				Description: fmt.Sprintf("Significant session: %s (%d files edited)", topic, files),
				Project:     winProject(a),
				Score:       0.7,
			})

		case activity.SourceFilesystem:
			dayFiles += fileCount(a)
			if p := winProject(a); p != "" {
				dayProjects[p] = true
			}
		}
	}

	if dayFiles >= winSustainedFiles {
		desc := fmt.Sprintf("Sustained effort: %d files modified", dayFiles)
		if n := len(dayProjects); n > 0 {
			desc = fmt.Sprintf("%s across %d projects", desc, n)
		}
		wins = append(wins, Win{
			Date:        day,
			Type:        WinSustainedEffort,
			Description: desc,
			Score:       0.6,
		})
	}

	return wins
}

// winProject is the project a win credits, empty for uncategorized work.
func winProject(a *activity.Activity) string {
	if a.Project == activity.Uncategorized {
		return ""
	}
	return a.Project
}

// WinsLogPath returns the rolling win log inside the wins directory.
func WinsLogPath(dir string) string {
	return filepath.Join(dir, "wins.json")
}

// LoadWins reads the win log. A missing file is an empty log.
func LoadWins(path string) ([]Win, error) {
	var wins []Win
	if err := util.ReadJSONFile(path, &wins); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return wins, nil
}

// AppendWins merges new wins into the log, skipping exact repeats so a
// re-run recap doesn't double-log the day. Returns how many were added.
func AppendWins(path string, wins []Win) (int, error) {
	existing, err := LoadWins(path)
	if err != nil {
		return 0, err
	}

	seen := make(map[string]bool, len(existing))
	for _, w := range existing {
		seen[winKey(w)] = true
	}

	added := 0
	for _, w := range wins {
		key := winKey(w)
		if seen[key] {
			continue
		}
		seen[key] = true
		existing = append(existing, w)
		added++
	}
	if added == 0 {
		return 0, nil
	}

	sort.Slice(existing, func(i, j int) bool {
		if existing[i].Date != existing[j].Date {
			return existing[i].Date < existing[j].Date
		}
		return existing[i].Description < existing[j].Description
	})
	if err := util.WriteJSONFile(path, existing); err != nil {
		return 0, fmt.Errorf("write win log: %w", err)
	}
	return added, nil
}

func winKey(w Win) string {
	return w.Date + "|" + w.Type + "|" + w.Description
}

// ISOWeek returns the ISO week label for a date, e.g. 2026-W34.
func ISOWeek(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return ""
	}
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// WeekWins filters the log to one ISO week, newest day first.
func WeekWins(wins []Win, week string) []Win {
	var out []Win
	for _, w := range wins {
		if ISOWeek(w.Date) == week {
			out = append(out, w)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		return out[i].Score > out[j].Score
	})
	return out
}

// RenderWeekly renders a week's wins as a markdown document grouped by day.
func RenderWeekly(week string, wins []Win) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Wins for %s\n", week)

	if len(wins) == 0 {
		b.WriteString("\nNo wins recorded this week.\n")
		return b.String()
	}

	currentDay := ""
	for _, w := range wins {
		if w.Date != currentDay {
			currentDay = w.Date
			fmt.Fprintf(&b, "\n## %s\n\n", currentDay)
		}
		line := w.Description
		if w.Project != "" {
			line = fmt.Sprintf("%s (%s)", line, w.Project)
		}
		fmt.Fprintf(&b, "- %s\n", line)
	}
	return b.String()
}

// SaveWeekly writes the week's markdown document and returns its path.
func SaveWeekly(dir, week string, wins []Win) (string, error) {
	path := filepath.Join(dir, week+".md")
	if err := util.AtomicWriteFileString(path, RenderWeekly(week, wins), 0644); err != nil {
		return "", fmt.Errorf("write weekly wins: %w", err)
	}
	return path, nil
}
