// Package classify assigns activities to projects and themes using
// priority-weighted signal fusion. One matcher is the single authority on
// project inference; collectors and reports never guess on their own.
package classify

import (
	"fmt"
	"sort"
	"strings"

	"github.com/randalmurphal/pulse/internal/activity"
	"github.com/randalmurphal/pulse/internal/roadmap"
)

// Signal weights. Families combine by summing one best contribution per
// family, clamped into [0,1]. Path dominates because folder containment is
// unambiguous; an explicit hint alone lands exactly at hintWeight; keyword
// and source hints only corroborate and cannot classify on their own at
// the default threshold.
const (
	pathWeight    = 1.0
	hintWeight    = 0.6
	keywordWeight = 0.25
	sourceWeight  = 0.2

	themeKeywordScore = 0.7
	aliasKeywordScore = 0.6
	channelHintScore  = 0.9
	branchHintScore   = 0.7
)

// Signal priority for breaking exact score ties.
const (
	priorityPath = iota
	priorityExplicit
	priorityKeyword
	prioritySource
	priorityNone
)

// Config carries the classifier's tunables. Callers build it from settings;
// the matcher itself holds no global state.
type Config struct {
	// Threshold is the minimum accumulated score to assign a project.
	Threshold float64
	// HighConfidence marks matches strong enough to act on without review.
	HighConfidence float64
	// KeywordOverrides maps a keyword found in activity text directly to a
	// project name. User-maintained hard overrides.
	KeywordOverrides map[string]string
}

// DefaultConfig returns the standard thresholds.
func DefaultConfig() Config {
	return Config{Threshold: 0.5, HighConfidence: 0.7}
}

// Result is one activity's match outcome.
type Result struct {
	Project    string
	ThemeID    string
	Confidence float64
	Signals    []string
}

// themeRef links a keyword back to the theme that contributed it.
type themeRef struct {
	project string
	themeID string
	score   float64
	signal  string
}

// Matcher scores activities against a fixed project registry. Build one
// per run; it never mutates the registry.
type Matcher struct {
	cfg Config

	// folderPaths holds (lowered folder path, project name) pairs sorted
	// by descending path length so deeper folders are preferred.
	folderPaths []pathEntry
	// keywordRefs maps a lowered keyword to the themes and aliases that
	// claim it, in deterministic order.
	keywordRefs map[string][]themeRef
	keywords    []string
	// aliasNames and channelNames map lowered hints to project names.
	aliasNames   map[string]string
	channelNames map[string]string
	// projectNames maps lowered exact names to their canonical form.
	projectNames map[string]string
}

type pathEntry struct {
	folder  string
	project string
}

// themeWordStopwords excludes words too generic to identify a theme.
var themeWordStopwords = map[string]bool{
	"with": true, "from": true, "this": true, "that": true, "have": true,
}

// NewMatcher builds lookup tables from the registry. Projects with empty
// names are ignored.
func NewMatcher(projects []*roadmap.Project, cfg Config) *Matcher {
	if cfg.Threshold == 0 {
		cfg.Threshold = 0.5
	}
	if cfg.HighConfidence == 0 {
		cfg.HighConfidence = 0.7
	}

	m := &Matcher{
		cfg:          cfg,
		keywordRefs:  map[string][]themeRef{},
		aliasNames:   map[string]string{},
		channelNames: map[string]string{},
		projectNames: map[string]string{},
	}

	for _, p := range projects {
		if p.Name == "" {
			continue
		}
		m.projectNames[strings.ToLower(p.Name)] = p.Name

		if p.FolderPath != "" {
			m.folderPaths = append(m.folderPaths, pathEntry{
				folder:  strings.ToLower(p.FolderPath),
				project: p.Name,
			})
		}
		for _, alias := range p.Aliases {
			if alias != "" {
				m.aliasNames[strings.ToLower(alias)] = p.Name
			}
		}
		for _, ch := range p.Channels {
			ch = strings.TrimPrefix(strings.ToLower(ch), "#")
			if ch != "" {
				m.channelNames[ch] = p.Name
			}
		}

		// Theme name words become keywords for theme-level matching.
		for _, th := range p.Themes {
			for _, word := range strings.Fields(strings.ToLower(th.Name)) {
				if len(word) <= 3 || themeWordStopwords[word] {
					continue
				}
				m.keywordRefs[word] = append(m.keywordRefs[word], themeRef{
					project: p.Name,
					themeID: th.ID,
					score:   themeKeywordScore,
					signal:  fmt.Sprintf("keyword: %s", word),
				})
			}
		}
		// Aliases and the project name itself match at alias strength.
		for _, alias := range p.Aliases {
			alias = strings.ToLower(alias)
			if alias == "" {
				continue
			}
			m.keywordRefs[alias] = append(m.keywordRefs[alias], themeRef{
				project: p.Name,
				score:   aliasKeywordScore,
				signal:  fmt.Sprintf("keyword: %s", alias),
			})
		}
		name := strings.ToLower(p.Name)
		m.keywordRefs[name] = append(m.keywordRefs[name], themeRef{
			project: p.Name,
			score:   aliasKeywordScore,
			signal:  fmt.Sprintf("keyword: %s", name),
		})
	}

	sort.SliceStable(m.folderPaths, func(i, j int) bool {
		return len(m.folderPaths[i].folder) > len(m.folderPaths[j].folder)
	})
	for kw := range m.keywordRefs {
		m.keywords = append(m.keywords, kw)
	}
	sort.Strings(m.keywords)

	return m
}

// candidate accumulates one project's evidence.
type candidate struct {
	score    float64
	priority int
	themeID  string
	theme    float64 // score of the keyword that set themeID
	signals  []string
}

// Match scores one activity against every project and returns the best
// assignment, or an empty project when nothing reaches the threshold.
// Match is pure: calling it twice yields the same result.
func (m *Matcher) Match(a *activity.Activity) Result {
	cands := map[string]*candidate{}
	get := func(project string) *candidate {
		c := cands[project]
		if c == nil {
			c = &candidate{priority: priorityNone}
			cands[project] = c
		}
		return c
	}
	add := func(project string, family int, score float64, signal string) {
		c := get(project)
		c.score += score
		if family < c.priority {
			c.priority = family
		}
		c.signals = append(c.signals, signal)
	}

	// Path containment, best match per project.
	if project, contrib, ok := m.matchPath(a); ok {
		add(project, priorityPath, contrib*pathWeight,
			fmt.Sprintf("path match (%d%%)", int(contrib*100)))
	}

	// Explicit hints: collector-embedded project names and configured
	// keyword overrides.
	text := matchText(a)
	if hinted := a.RawString("project"); hinted != "" {
		if name, ok := m.projectNames[strings.ToLower(hinted)]; ok {
			add(name, priorityExplicit, hintWeight, "explicit project")
		}
	}
	for _, kw := range sortedKeys(m.cfg.KeywordOverrides) {
		if strings.Contains(text, strings.ToLower(kw)) {
			if name, ok := m.projectNames[strings.ToLower(m.cfg.KeywordOverrides[kw])]; ok {
				add(name, priorityExplicit, hintWeight,
					fmt.Sprintf("keyword override: %s", kw))
			}
		}
	}

	// Keyword overlap: one best keyword per project.
	for project, ref := range m.matchKeywords(text) {
		add(project, priorityKeyword, ref.score*keywordWeight, ref.signal)
		if ref.themeID != "" {
			c := get(project)
			if ref.score > c.theme {
				c.theme = ref.score
				c.themeID = ref.themeID
			}
		}
	}

	// Source-specific hints.
	if project, contrib, ok := m.matchSource(a); ok {
		add(project, prioritySource, contrib*sourceWeight,
			fmt.Sprintf("source hint (%s)", a.Source))
	}

	best := pickBest(cands)
	if best == "" {
		return Result{}
	}
	c := cands[best]
	conf := c.score
	if conf > 1.0 {
		conf = 1.0
	}
	return Result{
		Project:    best,
		ThemeID:    c.themeID,
		Confidence: conf,
		Signals:    c.signals,
	}
}

// Classify annotates every activity in place. Matches below the threshold
// are labeled uncategorized but keep their score and signals so reports
// can show near-misses.
func (m *Matcher) Classify(acts []*activity.Activity) {
	for _, a := range acts {
		r := m.Match(a)
		a.MatchConfidence = r.Confidence
		a.MatchSignals = r.Signals
		if r.Project == "" || r.Confidence < m.cfg.Threshold {
			a.Project = activity.Uncategorized
			a.Theme = ""
			continue
		}
		a.Project = r.Project
		a.Theme = r.ThemeID
	}
}

// HighConfidence reports whether a score clears the high-confidence bar.
func (m *Matcher) HighConfidence(score float64) bool {
	return score >= m.cfg.HighConfidence
}

// Threshold returns the configured acceptance threshold.
func (m *Matcher) Threshold() float64 {
	return m.cfg.Threshold
}

// matchPath finds the best folder containment over every path the
// activity carries. Deeper containment scores higher: the contribution is
// 0.6 plus up to 0.4 for specificity, where an exact folder match is
// perfectly specific.
func (m *Matcher) matchPath(a *activity.Activity) (string, float64, bool) {
	var paths []string
	if a.Path != "" {
		paths = append(paths, a.Path)
	}
	for _, key := range []string{"folder", "path", "cwd", "project_path", "directory", "repo"} {
		if v := a.RawString(key); v != "" {
			paths = append(paths, v)
		}
	}
	paths = append(paths, a.RawStrings("files")...)

	bestProject := ""
	bestContrib := 0.0
	for _, path := range paths {
		pathLower := strings.ToLower(path)
		if pathLower == "" {
			continue
		}
		for _, entry := range m.folderPaths {
			if !strings.Contains(pathLower, entry.folder) {
				continue
			}
			specificity := float64(len(entry.folder)) / float64(len(pathLower))
			contrib := 0.6 + specificity*0.4
			if contrib > 1.0 {
				contrib = 1.0
			}
			if contrib > bestContrib {
				bestContrib = contrib
				bestProject = entry.project
			}
		}
	}
	return bestProject, bestContrib, bestProject != ""
}

// matchKeywords returns each project's single strongest keyword hit.
func (m *Matcher) matchKeywords(text string) map[string]themeRef {
	best := map[string]themeRef{}
	for _, kw := range m.keywords {
		if !strings.Contains(text, kw) {
			continue
		}
		for _, ref := range m.keywordRefs[kw] {
			cur, ok := best[ref.project]
			if !ok || ref.score > cur.score {
				best[ref.project] = ref
			}
		}
	}
	return best
}

// matchSource checks source-specific hints: chat channels and git branch
// names containing a project alias.
func (m *Matcher) matchSource(a *activity.Activity) (string, float64, bool) {
	switch a.Source {
	case activity.SourceChat, activity.SourceChatActionItem, activity.SourceManual:
		channels := a.RawStrings("channels")
		if ch := a.RawString("channel"); ch != "" {
			channels = append(channels, ch)
		}
		for _, ch := range channels {
			ch = strings.TrimPrefix(strings.ToLower(ch), "#")
			if project, ok := m.channelNames[ch]; ok {
				return project, channelHintScore, true
			}
		}
	case activity.SourceGit:
		branch := strings.ToLower(a.RawString("branch"))
		if branch != "" {
			for _, alias := range sortedKeys(m.aliasNames) {
				if strings.Contains(branch, alias) {
					return m.aliasNames[alias], branchHintScore, true
				}
			}
		}
	}
	return "", 0, false
}

// pickBest selects the winning candidate: highest score, then strongest
// signal priority, then name, so results are deterministic.
func pickBest(cands map[string]*candidate) string {
	names := make([]string, 0, len(cands))
	for name := range cands {
		names = append(names, name)
	}
	sort.Strings(names)

	best := ""
	for _, name := range names {
		if best == "" {
			best = name
			continue
		}
		b, n := cands[best], cands[name]
		if n.score > b.score || (n.score == b.score && n.priority < b.priority) {
			best = name
		}
	}
	return best
}

// matchText is the lowered searchable text of an activity: its
// description plus any task descriptions captured from sessions.
func matchText(a *activity.Activity) string {
	parts := []string{a.Description}
	parts = append(parts, a.RawStrings("task_descriptions")...)
	return strings.ToLower(strings.Join(parts, " "))
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
