package collect

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/randalmurphal/pulse/internal/activity"
)

// filesystemConfidence reflects that a file changing on disk is a weaker
// signal of intentional work than a commit or a recorded session.
const filesystemConfidence = 0.7

// FilesystemCollector walks a root directory and reports files modified
// within the window, grouped into one activity per containing directory.
type FilesystemCollector struct {
	Root       string
	ExcludeDir map[string]bool
	Patterns   []string
	Extensions map[string]bool

	logger *slog.Logger
}

// NewFilesystemCollector builds a collector over root. excludeDirs are
// directory names skipped wherever they appear, patterns are glob patterns
// matched against root-relative paths, and extensions whitelists file types.
func NewFilesystemCollector(root string, excludeDirs, patterns, extensions []string, logger *slog.Logger) *FilesystemCollector {
	if logger == nil {
		logger = slog.Default()
	}
	dirSet := make(map[string]bool, len(excludeDirs))
	for _, d := range excludeDirs {
		dirSet[d] = true
	}
	extSet := make(map[string]bool, len(extensions))
	for _, e := range extensions {
		extSet[e] = true
	}
	return &FilesystemCollector{
		Root:       root,
		ExcludeDir: dirSet,
		Patterns:   patterns,
		Extensions: extSet,
		logger:     logger,
	}
}

func (c *FilesystemCollector) Name() string { return "filesystem" }

// Collect walks the root and emits one activity per directory that has
// files modified inside the window. Unreadable entries are skipped.
func (c *FilesystemCollector) Collect(ctx context.Context, w Window) ([]*activity.Activity, error) {
	type dirGroup struct {
		files  []string
		latest time.Time
	}
	groups := map[string]*dirGroup{}

	err := filepath.WalkDir(c.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if d.IsDir() {
			if path != c.Root && c.ExcludeDir[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}

		rel, relErr := filepath.Rel(c.Root, path)
		if relErr != nil {
			return nil
		}
		if c.excluded(rel) {
			return nil
		}
		if len(c.Extensions) > 0 && !c.Extensions[filepath.Ext(path)] {
			return nil
		}

		info, statErr := d.Info()
		if statErr != nil {
			return nil
		}
		mtime := info.ModTime()
		if !w.Contains(mtime) {
			return nil
		}

		dir := filepath.Dir(path)
		g := groups[dir]
		if g == nil {
			g = &dirGroup{}
			groups[dir] = g
		}
		g.files = append(g.files, d.Name())
		if mtime.After(g.latest) {
			g.latest = mtime
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	dirs := make([]string, 0, len(groups))
	for dir := range groups {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)

	acts := make([]*activity.Activity, 0, len(dirs))
	for _, dir := range dirs {
		g := groups[dir]
		sort.Strings(g.files)
		a := activity.New(activity.SourceFilesystem, g.latest,
			describeFileGroup(len(g.files), filepath.Base(dir)), filesystemConfidence)
		a.Path = dir
		a.Raw["directory"] = dir
		a.Raw["files"] = g.files
		a.Raw["file_count"] = len(g.files)
		acts = append(acts, a)
	}

	c.logger.Debug("filesystem scan complete",
		"root", c.Root,
		"directories", len(acts))
	return acts, nil
}

// excluded reports whether the root-relative path matches any glob pattern.
// Invalid patterns never match.
func (c *FilesystemCollector) excluded(rel string) bool {
	rel = filepath.ToSlash(rel)
	for _, pat := range c.Patterns {
		if ok, err := doublestar.Match(pat, rel); err == nil && ok {
			return true
		}
	}
	return false
}

func describeFileGroup(n int, dirName string) string {
	if n == 1 {
		return fmt.Sprintf("Modified 1 file in %s", dirName)
	}
	return fmt.Sprintf("Modified %d files in %s", n, dirName)
}
