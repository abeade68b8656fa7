package collect

import (
	"bufio"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/randalmurphal/pulse/internal/activity"
)

const (
	// sessionConfidence reflects a recorded coding session. High but below
	// git because a session may be exploratory rather than productive.
	sessionConfidence = 0.9

	// actionItemConfidence applies to individual task requests inside a
	// session. Slightly weaker than the session itself.
	actionItemConfidence = 0.85

	// maxSessionLine bounds JSONL line size. Tool results can embed whole
	// files, so the default scanner buffer is far too small.
	maxSessionLine = 10 * 1024 * 1024
)

// taskLeadPattern matches user messages phrased as direct work requests.
var taskLeadPattern = regexp.MustCompile(`(?i)^(create|build|add|fix|update|implement|write|make|help|can you|please)\b`)

// taskIntentPattern matches user messages expressing intent to start work.
var taskIntentPattern = regexp.MustCompile(`(?i)^(i need|i want|let's|we need)\b`)

// ClaudeCollector reads Claude Code session transcripts from the projects
// directory. Each project gets a subdirectory whose name encodes the
// project's absolute path, containing one JSONL file per session.
type ClaudeCollector struct {
	ProjectsDir string

	logger *slog.Logger
}

// NewClaudeCollector builds a collector over projectsDir, normally
// ~/.claude/projects.
func NewClaudeCollector(projectsDir string, logger *slog.Logger) *ClaudeCollector {
	if logger == nil {
		logger = slog.Default()
	}
	return &ClaudeCollector{ProjectsDir: projectsDir, logger: logger}
}

func (c *ClaudeCollector) Name() string { return "claude" }

// Collect scans session files and emits one activity per session active
// inside the window, plus one per task-like user message. A missing
// projects directory means Claude Code is not in use and yields nothing.
func (c *ClaudeCollector) Collect(ctx context.Context, w Window) ([]*activity.Activity, error) {
	entries, err := os.ReadDir(c.ProjectsDir)
	if err != nil {
		if os.IsNotExist(err) {
			c.logger.Debug("claude projects directory not found", "dir", c.ProjectsDir)
			return nil, nil
		}
		return nil, err
	}

	var acts []*activity.Activity
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if ctx.Err() != nil {
			return acts, ctx.Err()
		}
		projectPath := DecodeProjectDir(entry.Name())
		sessionDir := filepath.Join(c.ProjectsDir, entry.Name())

		files, readErr := os.ReadDir(sessionDir)
		if readErr != nil {
			c.logger.Warn("unreadable session directory", "dir", sessionDir, "error", readErr)
			continue
		}
		for _, f := range files {
			if f.IsDir() || filepath.Ext(f.Name()) != ".jsonl" {
				continue
			}
			info, infoErr := f.Info()
			if infoErr != nil || info.ModTime().Before(w.Since) {
				continue
			}
			acts = append(acts, c.collectSession(filepath.Join(sessionDir, f.Name()), projectPath, w)...)
		}
	}
	return acts, nil
}

// collectSession parses one transcript and builds its activities.
// Malformed lines are skipped; a session with no parseable user message
// still counts if it recorded any events.
func (c *ClaudeCollector) collectSession(path, projectPath string, w Window) []*activity.Activity {
	f, err := os.Open(path)
	if err != nil {
		c.logger.Warn("unreadable session file", "path", path, "error", err)
		return nil
	}
	defer func() { _ = f.Close() }()

	sessionID := strings.TrimSuffix(filepath.Base(path), ".jsonl")

	var (
		firstUserMsg string
		first, last  time.Time
		messages     int
		filesEdited  = map[string]bool{}
		toolCounts   = map[string]int{}
		taskMsgs     []*activity.Activity
	)

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), maxSessionLine)
	for scanner.Scan() {
		line := scanner.Text()
		if !gjson.Valid(line) {
			continue
		}

		ts, ok := parseTimestamp(gjson.Get(line, "timestamp").String())
		if ok {
			if first.IsZero() || ts.Before(first) {
				first = ts
			}
			if ts.After(last) {
				last = ts
			}
		}

		switch gjson.Get(line, "type").String() {
		case "user":
			text := userText(line)
			if text == "" {
				continue
			}
			messages++
			if firstUserMsg == "" {
				firstUserMsg = text
			}
			if ok && w.Contains(ts) && isTaskRequest(text) {
				a := activity.New(activity.SourceChatActionItem, ts, truncate(text, 100), actionItemConfidence)
				a.Path = projectPath
				a.Raw["session_id"] = sessionID
				a.Raw["project_path"] = projectPath
				taskMsgs = append(taskMsgs, a)
			}
		case "assistant":
			gjson.Get(line, "message.content").ForEach(func(_, block gjson.Result) bool {
				if block.Get("type").String() != "tool_use" {
					return true
				}
				name := block.Get("name").String()
				toolCounts[name]++
				switch name {
				case "Edit", "Write", "MultiEdit", "NotebookEdit":
					if fp := block.Get("input.file_path").String(); fp != "" {
						filesEdited[fp] = true
					}
				}
				return true
			})
		}
	}
	if scanErr := scanner.Err(); scanErr != nil {
		c.logger.Warn("session file truncated", "path", path, "error", scanErr)
	}

	if last.IsZero() || !w.Contains(last) {
		return nil
	}

	desc := "Claude session"
	if firstUserMsg != "" {
		desc = "Claude session: " + truncate(firstUserMsg, 80)
	}
	session := activity.New(activity.SourceChat, last, desc, sessionConfidence)
	session.Path = projectPath
	session.Raw["session_id"] = sessionID
	session.Raw["project_path"] = projectPath
	session.Raw["messages"] = messages
	session.Raw["files_edited"] = len(filesEdited)
	if len(toolCounts) > 0 {
		session.Raw["tools_used"] = toolCounts
	}
	if !first.IsZero() {
		session.Raw["duration_minutes"] = int(last.Sub(first).Minutes())
	}

	return append([]*activity.Activity{session}, taskMsgs...)
}

// DecodeProjectDir recovers a project path from its session directory
// name. Encoding replaced both "/" and "." with "-", so dots in the
// original path cannot be restored.
func DecodeProjectDir(name string) string {
	if !strings.HasPrefix(name, "-") {
		return name
	}
	return "/" + strings.ReplaceAll(strings.TrimPrefix(name, "-"), "-", "/")
}

// userText extracts the human-written text of a user line. Content is
// either a plain string or a list of blocks; tool results and injected
// command wrappers are not human text.
func userText(line string) string {
	content := gjson.Get(line, "message.content")
	var text string
	switch {
	case content.Type == gjson.String:
		text = content.String()
	case content.IsArray():
		var parts []string
		content.ForEach(func(_, block gjson.Result) bool {
			if block.Get("type").String() == "text" {
				parts = append(parts, block.Get("text").String())
			}
			return true
		})
		text = strings.Join(parts, " ")
	}
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "<") || strings.HasPrefix(text, "Caveat:") {
		return ""
	}
	return text
}

// isTaskRequest reports whether a message reads like a work request
// substantial enough to track.
func isTaskRequest(text string) bool {
	if len(text) < 15 {
		return false
	}
	return taskLeadPattern.MatchString(text) || taskIntentPattern.MatchString(text)
}

func parseTimestamp(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
