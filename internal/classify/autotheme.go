package classify

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/randalmurphal/pulse/internal/activity"
	"github.com/randalmurphal/pulse/internal/roadmap"
)

// MinActivitiesForTheme is how many unthemed activities in one project it
// takes before suggesting a new theme.
const MinActivitiesForTheme = 3

// wordPattern tokenizes descriptions into candidate theme words.
var wordPattern = regexp.MustCompile(`\b[a-zA-Z]{3,}\b`)

// clusterStopwords excludes words that carry no theme meaning, including
// the boilerplate the collectors themselves generate.
var clusterStopwords = map[string]bool{
	"the": true, "and": true, "but": true, "for": true, "with": true,
	"from": true, "was": true, "are": true, "were": true, "been": true,
	"have": true, "has": true, "had": true, "does": true, "did": true,
	"will": true, "would": true, "could": true, "should": true, "may": true,
	"might": true, "must": true, "shall": true, "can": true, "need": true,
	"this": true, "that": true, "these": true, "those": true, "you": true,
	"she": true, "they": true, "what": true, "which": true, "who": true,
	"when": true, "where": true, "why": true, "how": true, "all": true,
	"each": true, "every": true, "both": true, "few": true, "more": true,
	"most": true, "other": true, "some": true, "such": true, "nor": true,
	"not": true, "only": true, "own": true, "same": true, "than": true,
	"too": true, "very": true, "just": true, "claude": true,
	"modified": true, "files": true, "file": true, "session": true,
	"add": true, "added": true, "update": true, "updated": true,
	"fix": true, "fixed": true, "create": true, "created": true,
}

// descriptionPrefixes strips collector boilerplate before a fallback name
// is taken from an activity description.
var descriptionPrefixes = []*regexp.Regexp{
	regexp.MustCompile(`^\[.*?\]\s*`),
	regexp.MustCompile(`^Modified \d+ files? in `),
	regexp.MustCompile(`^Claude session: `),
}

// Suggestion proposes a new theme extracted from clustered activity.
type Suggestion struct {
	Project       string
	ThemeName     string
	ThemeID       string
	ActivityCount int
	Samples       []string
}

// SuggestThemes clusters activities that matched a project but no theme
// and proposes a theme per project with enough of them. Projects absent
// from the registry and suggestions duplicating an existing theme name
// are skipped.
func SuggestThemes(acts []*activity.Activity, projects []*roadmap.Project, minActivities int) []Suggestion {
	if minActivities <= 0 {
		minActivities = MinActivitiesForTheme
	}

	byName := map[string]*roadmap.Project{}
	for _, p := range projects {
		byName[p.Name] = p
	}

	grouped := map[string][]*activity.Activity{}
	for _, a := range acts {
		if a.Project == "" || a.Project == activity.Uncategorized || a.Theme != "" {
			continue
		}
		grouped[a.Project] = append(grouped[a.Project], a)
	}

	names := make([]string, 0, len(grouped))
	for name := range grouped {
		names = append(names, name)
	}
	sort.Strings(names)

	var suggestions []Suggestion
	for _, name := range names {
		group := grouped[name]
		if len(group) < minActivities {
			continue
		}
		project := byName[name]
		if project == nil {
			continue
		}

		themeName := ExtractThemeName(group)
		exists := false
		for _, th := range project.Themes {
			if strings.EqualFold(th.Name, themeName) {
				exists = true
				break
			}
		}
		if exists {
			continue
		}

		samples := make([]string, 0, 3)
		for _, a := range group[:min(3, len(group))] {
			samples = append(samples, a.Description)
		}
		suggestions = append(suggestions, Suggestion{
			Project:       name,
			ThemeName:     themeName,
			ThemeID:       roadmap.Slugify(themeName),
			ActivityCount: len(group),
			Samples:       samples,
		})
	}
	return suggestions
}

// ExtractThemeName names a cluster from its dominant words: the top three
// words appearing at least twice, title-cased. Falls back to the first
// activity's leading words when no word repeats.
func ExtractThemeName(acts []*activity.Activity) string {
	var texts []string
	for _, a := range acts {
		texts = append(texts, a.Description)
		texts = append(texts, a.RawStrings("task_descriptions")...)
	}

	counts := map[string]int{}
	for _, text := range texts {
		for _, word := range wordPattern.FindAllString(strings.ToLower(text), -1) {
			if !clusterStopwords[word] {
				counts[word]++
			}
		}
	}

	words := make([]string, 0, len(counts))
	for w, n := range counts {
		if n >= 2 {
			words = append(words, w)
		}
	}
	sort.Slice(words, func(i, j int) bool {
		if counts[words[i]] != counts[words[j]] {
			return counts[words[i]] > counts[words[j]]
		}
		return words[i] < words[j]
	})
	if len(words) > 3 {
		words = words[:3]
	}
	if len(words) > 0 {
		titled := make([]string, len(words))
		for i, w := range words {
			titled[i] = strings.ToUpper(w[:1]) + w[1:]
		}
		return strings.Join(titled, " ")
	}

	// No repeated word. Take the first description's leading words.
	if len(texts) > 0 {
		first := texts[0]
		for _, re := range descriptionPrefixes {
			first = re.ReplaceAllString(first, "")
		}
		fields := strings.Fields(first)
		if len(fields) > 4 {
			fields = fields[:4]
		}
		if name := strings.Trim(strings.Join(fields, " "), ".,;:"); name != "" {
			return name
		}
	}
	return "Development Work"
}

// Describe renders a suggestion the way the review list shows it.
func (s Suggestion) Describe() string {
	return fmt.Sprintf("Consider creating theme %q in %s (%d activities)",
		s.ThemeName, s.Project, s.ActivityCount)
}
