package collect

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/randalmurphal/pulse/internal/activity"
)

// gitConfidence is near-certain: a commit is deliberate, attributed work.
const gitConfidence = 0.95

// gitLogFormat yields one line per commit: hash|author|email|date|subject.
const gitLogFormat = "%H|%an|%ae|%ai|%s"

// GitCollector walks a root for git repositories and turns their recent
// commits into activities. Every subprocess call gets its own timeout so
// one hung repository cannot stall the whole run.
type GitCollector struct {
	Root       string
	ExcludeDir map[string]bool
	Timeout    time.Duration

	runner CommandRunner
	logger *slog.Logger
}

// NewGitCollector builds a collector over root using runner for git
// invocations. A nil runner gets the real ExecRunner.
func NewGitCollector(root string, excludeDirs []string, timeout time.Duration, runner CommandRunner, logger *slog.Logger) *GitCollector {
	if runner == nil {
		runner = &ExecRunner{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	dirSet := make(map[string]bool, len(excludeDirs))
	for _, d := range excludeDirs {
		dirSet[d] = true
	}
	return &GitCollector{
		Root:       root,
		ExcludeDir: dirSet,
		Timeout:    timeout,
		runner:     runner,
		logger:     logger,
	}
}

func (c *GitCollector) Name() string { return "git" }

// Collect finds repositories under the root and gathers commits inside the
// window. A repository whose git invocation fails contributes no commits
// and the failure is logged, never propagated.
func (c *GitCollector) Collect(ctx context.Context, w Window) ([]*activity.Activity, error) {
	repos := c.findRepos()

	var acts []*activity.Activity
	for _, repo := range repos {
		if ctx.Err() != nil {
			return acts, ctx.Err()
		}
		commits, err := c.collectRepo(ctx, repo, w)
		if err != nil {
			c.logger.Warn("git log failed, skipping repository",
				"repo", repo,
				"error", err)
			continue
		}
		acts = append(acts, commits...)
	}

	c.logger.Debug("git scan complete",
		"repos", len(repos),
		"commits", len(acts))
	return acts, nil
}

// findRepos locates directories containing .git under the root. Discovery
// does not descend into a repository, so nested checkouts are ignored.
func (c *GitCollector) findRepos() []string {
	var repos []string
	_ = filepath.WalkDir(c.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != c.Root && c.ExcludeDir[d.Name()] {
			return filepath.SkipDir
		}
		if _, statErr := os.Stat(filepath.Join(path, ".git")); statErr == nil {
			repos = append(repos, path)
			return filepath.SkipDir
		}
		return nil
	})
	return repos
}

// collectRepo runs git log for one repository and builds commit activities.
func (c *GitCollector) collectRepo(ctx context.Context, repo string, w Window) ([]*activity.Activity, error) {
	out, err := c.run(ctx, repo, "log",
		"--since="+w.Since.Format(time.RFC3339),
		"--until="+w.Until.Format(time.RFC3339),
		"--format="+gitLogFormat,
		"--no-merges")
	if err != nil {
		return nil, err
	}
	if out == "" {
		return nil, nil
	}

	// Branch is a classification hint; a repo in detached HEAD just
	// reports "HEAD" which matches nothing.
	branch, branchErr := c.run(ctx, repo, "rev-parse", "--abbrev-ref", "HEAD")
	if branchErr != nil {
		branch = ""
	}

	var acts []*activity.Activity
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, "|", 5)
		if len(parts) != 5 {
			c.logger.Warn("unparseable git log line", "repo", repo, "line", line)
			continue
		}
		hash, author, email, dateStr, subject := parts[0], parts[1], parts[2], parts[3], parts[4]

		when, parseErr := time.Parse("2006-01-02 15:04:05 -0700", dateStr)
		if parseErr != nil {
			c.logger.Warn("unparseable commit date", "repo", repo, "commit", hash, "date", dateStr)
			continue
		}

		a := activity.New(activity.SourceGit, when, subject, gitConfidence)
		a.Path = repo
		a.Raw["commit"] = hash
		a.Raw["author"] = author
		a.Raw["email"] = email
		a.Raw["repo"] = repo
		if branch != "" {
			a.Raw["branch"] = branch
		}
		if files := c.commitFiles(ctx, repo, hash); len(files) > 0 {
			a.Raw["files"] = files
		}
		acts = append(acts, a)
	}
	return acts, nil
}

// commitFiles lists the paths a commit touched. Failure here only loses
// detail, so it degrades to an empty list.
func (c *GitCollector) commitFiles(ctx context.Context, repo, hash string) []string {
	out, err := c.run(ctx, repo, "diff-tree", "--no-commit-id", "--name-only", "-r", hash)
	if err != nil || out == "" {
		return nil
	}
	var files []string
	for _, f := range strings.Split(out, "\n") {
		if f = strings.TrimSpace(f); f != "" {
			files = append(files, f)
		}
	}
	return files
}

// run executes one git command under the collector's timeout.
func (c *GitCollector) run(ctx context.Context, repo string, args ...string) (string, error) {
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}
	return c.runner.Run(ctx, repo, "git", args...)
}
