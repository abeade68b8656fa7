package report

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/randalmurphal/pulse/internal/recap"
)

const defaultWidth = 80

// textProjectLimit caps the project table; a daily recap rarely touches
// more, and the full list is always in the saved JSON.
const textProjectLimit = 8

// Text renders a recap for the terminal. width bounds the name columns;
// pass 0 for the default.
func Text(r *recap.Recap, width int) string {
	if width <= 0 {
		width = defaultWidth
	}
	maxName := width - 30
	if maxName < 12 {
		maxName = 12
	}

	var b strings.Builder
	banner := strings.Repeat("=", 50)

	header := fmt.Sprintf("  RECAP: %s", r.Date)
	if r.WindowHours > 0 && r.WindowHours != 24 {
		header += fmt.Sprintf(" (last %dh)", r.WindowHours)
	}
	fmt.Fprintf(&b, "%s\n%s\n%s\n\n", banner, header, banner)

	if r.Daily != nil && r.Daily.Intent != "" {
		fmt.Fprintf(&b, "  Intent: %s\n\n", r.Daily.Intent)
	}

	fmt.Fprintf(&b, "  %d activities | %d files\n\n", r.TotalActivities, r.TotalFiles)

	b.WriteString("  By Project:\n")
	if len(r.Projects) == 0 {
		b.WriteString("    (none)\n")
	} else {
		projects := r.Projects
		if len(projects) > textProjectLimit {
			projects = projects[:textProjectLimit]
		}
		w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "    NAME\tACTIVITIES\tFILES")
		fmt.Fprintln(w, "    ────\t──────────\t─────")
		for _, p := range projects {
			fmt.Fprintf(w, "    %s\t%d\t%d\n", truncate(p.Name, maxName), p.Activities, p.Files)
		}
		w.Flush()
	}

	if len(r.TopThemes) > 0 {
		b.WriteString("\n  Top Themes:\n")
		for _, t := range r.TopThemes {
			name := t.ThemeName
			if name == "" {
				name = t.ThemeID
			}
			fmt.Fprintf(&b, "    %s (%s): %d\n", truncate(name, maxName), t.Project, t.Count)
		}
	}

	if r.Claude.Sessions > 0 {
		fmt.Fprintf(&b, "\n  Claude Code: %d sessions, %d messages, %d files edited",
			r.Claude.Sessions, r.Claude.Messages, r.Claude.FilesEdited)
		if r.Claude.ActionItems > 0 {
			fmt.Fprintf(&b, ", %d action items", r.Claude.ActionItems)
		}
		b.WriteString("\n")
	}

	if len(r.Team) > 1 {
		parts := make([]string, 0, len(r.Team))
		for _, name := range sortedKeys(r.Team) {
			parts = append(parts, fmt.Sprintf("%s %d%%", name, r.Team[name]))
		}
		fmt.Fprintf(&b, "\n  Team: %s\n", strings.Join(parts, ", "))
	}

	if r.Daily != nil && len(r.Daily.Wins) > 0 {
		b.WriteString("\n  Wins:\n")
		for _, w := range r.Daily.Wins {
			fmt.Fprintf(&b, "    + %s\n", w)
		}
	}
	if r.Daily != nil && len(r.Daily.Blockers) > 0 {
		b.WriteString("\n  Blockers:\n")
		for _, bl := range r.Daily.Blockers {
			fmt.Fprintf(&b, "    ! %s\n", bl)
		}
	}

	if r.UncategorizedWarning {
		fmt.Fprintf(&b, "\n  ⚠️  %d of %d activities uncategorized. Add folder paths or aliases.\n",
			r.Uncategorized, r.TotalActivities)
	} else if r.Uncategorized > 0 {
		fmt.Fprintf(&b, "\n  Uncategorized: %d\n", r.Uncategorized)
	}
	if r.PendingChanges > 0 {
		fmt.Fprintf(&b, "\n  Pending roadmap changes: %d (review with: pulse review list)\n",
			r.PendingChanges)
	}

	fmt.Fprintf(&b, "\n%s\n", banner)
	return b.String()
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
