// Package discover scans the filesystem for project roots worth registering
// and proposes them as roadmap changes.
package discover

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/randalmurphal/pulse/internal/roadmap"
)

// Indicator scores by tier. A directory's confidence is its best indicator
// plus a small bonus when several agree.
var (
	primaryIndicators = map[string]float64{
		".git":             0.95,
		"package.json":     0.95,
		"go.mod":           0.95,
		"Cargo.toml":       0.95,
		"pom.xml":          0.95,
		"build.gradle":     0.95,
		"requirements.txt": 0.90,
		"pyproject.toml":   0.90,
		"CMakeLists.txt":   0.90,
		"Makefile":         0.80,
	}
	secondaryIndicators = map[string]float64{
		"tsconfig.json":      0.80,
		"setup.py":           0.80,
		"docker-compose.yml": 0.75,
		"README.md":          0.70,
		"Dockerfile":         0.70,
		".env.example":       0.65,
	}
	contentIndicators = map[string]float64{
		"slides":            0.55,
		"presentation.html": 0.55,
		"index.html":        0.50,
		"assets":            0.45,
	}
)

// teamHints infers a team from a path segment on the way to the project.
var teamHints = map[string]string{
	"work":     "Work",
	"clients":  "Clients",
	"client":   "Clients",
	"personal": "Personal",
	"oss":      "Open Source",
}

// DefaultMaxDepth bounds the scan; projects deeper than this under the root
// are almost always vendored or generated trees.
const DefaultMaxDepth = 4

// DefaultMinConfidence is the floor below which a directory isn't worth
// proposing. A lone index.html stays under it; a real manifest clears it.
const DefaultMinConfidence = 0.6

// Candidate is one directory that looks like a project root. Name is the
// folder's base name verbatim; renaming happens at approval time if at all.
type Candidate struct {
	Path       string   `json:"path"`
	Name       string   `json:"name"`
	Team       string   `json:"team,omitempty"`
	Confidence float64  `json:"confidence"`
	Indicators []string `json:"indicators"`
}

// Scanner walks a root looking for project candidates.
type Scanner struct {
	Root          string
	ExcludeDir    map[string]bool
	MaxDepth      int
	MinConfidence float64

	logger *slog.Logger
}

// NewScanner builds a scanner over root. excludeDirs are directory names
// never descended into.
func NewScanner(root string, excludeDirs []string, logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = slog.Default()
	}
	exclude := make(map[string]bool, len(excludeDirs))
	for _, d := range excludeDirs {
		exclude[d] = true
	}
	return &Scanner{
		Root:          root,
		ExcludeDir:    exclude,
		MaxDepth:      DefaultMaxDepth,
		MinConfidence: DefaultMinConfidence,
		logger:        logger,
	}
}

// Scan walks the root and returns project candidates, strongest first.
// A matched directory is not descended into, so nested tooling inside a
// found project never shows up as its own candidate.
func (s *Scanner) Scan(ctx context.Context) ([]Candidate, error) {
	var cands []Candidate
	if err := s.scanDir(ctx, s.Root, 0, &cands); err != nil {
		return nil, err
	}
	sort.Slice(cands, func(i, j int) bool {
		if cands[i].Confidence != cands[j].Confidence {
			return cands[i].Confidence > cands[j].Confidence
		}
		return cands[i].Path < cands[j].Path
	})
	return cands, nil
}

func (s *Scanner) scanDir(ctx context.Context, dir string, depth int, cands *[]Candidate) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		// Unreadable directories are common under $HOME; log and move on.
		s.logger.Debug("skipping unreadable directory", "dir", dir, "error", err)
		return nil
	}

	if conf, indicators := score(entries); conf >= s.MinConfidence {
		*cands = append(*cands, Candidate{
			Path:       dir,
			Name:       filepath.Base(dir),
			Team:       inferTeam(dir),
			Confidence: conf,
			Indicators: indicators,
		})
		return nil
	}

	maxDepth := s.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	if depth >= maxDepth {
		return nil
	}

	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		name := e.Name()
		if s.ExcludeDir[name] || strings.HasPrefix(name, ".") {
			continue
		}
		if err := s.scanDir(ctx, filepath.Join(dir, name), depth+1, cands); err != nil {
			return err
		}
	}
	return nil
}

// score rates a directory from its immediate entries: the strongest
// indicator sets the base and agreement between several nudges it up.
func score(entries []os.DirEntry) (float64, []string) {
	best := 0.0
	var matched []string

	check := func(name string, isDir bool) {
		var v float64
		var ok bool
		if v, ok = primaryIndicators[name]; !ok {
			if v, ok = secondaryIndicators[name]; !ok {
				v, ok = contentIndicators[name]
				if ok && (name == "slides" || name == "assets") && !isDir {
					ok = false
				}
			}
		}
		if !ok {
			return
		}
		matched = append(matched, name)
		if v > best {
			best = v
		}
	}

	for _, e := range entries {
		check(e.Name(), e.IsDir())
	}
	if best == 0 {
		return 0, nil
	}

	switch {
	case len(matched) >= 3:
		best += 0.10
	case len(matched) >= 2:
		best += 0.05
	}
	if best > 1.0 {
		best = 1.0
	}
	sort.Strings(matched)
	return best, matched
}

// inferTeam guesses a team from the path segments leading to the project.
func inferTeam(path string) string {
	for _, seg := range strings.Split(filepath.ToSlash(path), "/") {
		if team, ok := teamHints[strings.ToLower(seg)]; ok {
			return team
		}
	}
	return ""
}

// Changes turns candidates into new_project proposals, skipping folders
// already registered (or inside a registered folder), names already taken,
// and candidates with a proposal still pending. Returns the newly queued
// changes; the caller persists the roadmap.
func Changes(rm *roadmap.Roadmap, cands []Candidate) []*roadmap.ProposedChange {
	var queued []*roadmap.ProposedChange
	for _, c := range cands {
		if knownFolder(rm, c.Path) || rm.FindProject(c.Name) != nil {
			continue
		}
		if rm.HasPendingFor(roadmap.ChangeNewProject, c.Name, "") {
			continue
		}
		ch := roadmap.NewChange(roadmap.ChangeNewProject,
			fmt.Sprintf("Add %q as new project at %s (%d%% confidence)",
				c.Name, c.Path, int(c.Confidence*100)),
			roadmap.ChangeDetails{
				Project:    c.Name,
				FolderPath: c.Path,
				Team:       c.Team,
				Confidence: c.Confidence,
			})
		rm.AddChange(ch)
		queued = append(queued, ch)
	}
	return queued
}

// knownFolder reports whether path is a registered folder or inside one.
func knownFolder(rm *roadmap.Roadmap, path string) bool {
	path = filepath.Clean(path)
	for _, p := range rm.Projects {
		if p.FolderPath == "" {
			continue
		}
		folder := filepath.Clean(p.FolderPath)
		if path == folder || strings.HasPrefix(path, folder+string(filepath.Separator)) {
			return true
		}
	}
	return false
}
