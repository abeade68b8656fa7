// Package roadmap provides the project/theme/task model and its JSON store.
package roadmap

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ThemeStatus represents the lifecycle state of a theme.
type ThemeStatus string

const (
	ThemePlanned  ThemeStatus = "planned"
	ThemeActive   ThemeStatus = "active"
	ThemeBlocked  ThemeStatus = "blocked"
	ThemeComplete ThemeStatus = "complete"
)

// ValidThemeStatuses returns all valid theme status values.
func ValidThemeStatuses() []ThemeStatus {
	return []ThemeStatus{ThemePlanned, ThemeActive, ThemeBlocked, ThemeComplete}
}

// IsValidThemeStatus returns true if s is a valid theme status value.
func IsValidThemeStatus(s ThemeStatus) bool {
	switch s {
	case ThemePlanned, ThemeActive, ThemeBlocked, ThemeComplete:
		return true
	default:
		return false
	}
}

// TaskStatus represents the state of a task within a theme.
type TaskStatus string

const (
	TaskTodo       TaskStatus = "todo"
	TaskInProgress TaskStatus = "in-progress"
	TaskDone       TaskStatus = "done"
)

// ValidTaskStatuses returns all valid task status values.
func ValidTaskStatuses() []TaskStatus {
	return []TaskStatus{TaskTodo, TaskInProgress, TaskDone}
}

// IsValidTaskStatus returns true if s is a valid task status value.
func IsValidTaskStatus(s TaskStatus) bool {
	switch s {
	case TaskTodo, TaskInProgress, TaskDone:
		return true
	default:
		return false
	}
}

// Task is a single actionable item under a theme.
type Task struct {
	ID          string     `yaml:"id" json:"id"`
	Description string     `yaml:"description" json:"description"`
	Status      TaskStatus `yaml:"status" json:"status"`
	LastTouched *time.Time `yaml:"last_touched,omitempty" json:"last_touched,omitempty"`
}

// Theme is a named initiative within a project.
type Theme struct {
	ID          string      `yaml:"id" json:"id"`
	Name        string      `yaml:"name" json:"name"`
	Status      ThemeStatus `yaml:"status" json:"status"`
	Notes       string      `yaml:"notes,omitempty" json:"notes,omitempty"`
	LastTouched *time.Time  `yaml:"last_touched,omitempty" json:"last_touched,omitempty"`
	Tasks       []*Task     `yaml:"tasks,omitempty" json:"tasks"`
}

// Project is a user-registered unit of work. Name is the join key used by
// the classifier and must be unique within the roadmap.
type Project struct {
	ID         string   `yaml:"id,omitempty" json:"id"`
	Name       string   `yaml:"name" json:"name"`
	Team       string   `yaml:"team,omitempty" json:"team,omitempty"`
	FolderPath string   `yaml:"folder_path,omitempty" json:"folder_path,omitempty"`
	Aliases    []string `yaml:"aliases,omitempty" json:"aliases,omitempty"`
	Channels   []string `yaml:"channels,omitempty" json:"channels,omitempty"`
	Private    bool     `yaml:"private,omitempty" json:"private,omitempty"`
	Themes     []*Theme `yaml:"themes,omitempty" json:"themes"`
}

// Roadmap is the root aggregate persisted as a single JSON document.
type Roadmap struct {
	Version        int               `json:"version"`
	LastUpdated    time.Time         `json:"last_updated"`
	Projects       []*Project        `json:"projects"`
	PendingChanges []*ProposedChange `json:"pending_changes"`
}

// New returns an empty roadmap at the current schema version.
func New() *Roadmap {
	return &Roadmap{
		Version:        1,
		Projects:       []*Project{},
		PendingChanges: []*ProposedChange{},
	}
}

// Slugify converts a display name into an id: lowercased with word
// separators collapsed into single dashes.
func Slugify(name string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// NewProject creates a project with an id derived from its name.
func NewProject(name, team, folderPath string) *Project {
	return &Project{
		ID:         Slugify(name),
		Name:       name,
		Team:       team,
		FolderPath: folderPath,
		Themes:     []*Theme{},
	}
}

// FindProject returns the project with the given name, trying an exact match
// first and falling back to case-insensitive. Returns nil when absent.
func (r *Roadmap) FindProject(name string) *Project {
	for _, p := range r.Projects {
		if p.Name == name {
			return p
		}
	}
	for _, p := range r.Projects {
		if strings.EqualFold(p.Name, name) {
			return p
		}
	}
	return nil
}

// AddProject appends a project after checking the name is free.
func (r *Roadmap) AddProject(p *Project) error {
	if r.FindProject(p.Name) != nil {
		return fmt.Errorf("project name %q is already registered", p.Name)
	}
	if p.ID == "" {
		p.ID = Slugify(p.Name)
	}
	if p.Themes == nil {
		p.Themes = []*Theme{}
	}
	r.Projects = append(r.Projects, p)
	return nil
}

// FindTheme returns the theme matching id or name, or nil.
func (p *Project) FindTheme(idOrName string) *Theme {
	for _, th := range p.Themes {
		if th.ID == idOrName || strings.EqualFold(th.Name, idOrName) {
			return th
		}
	}
	return nil
}

var themeIDRe = regexp.MustCompile(`^theme-(\d+)$`)

// NextThemeID returns the next sequential theme id within the project.
func (p *Project) NextThemeID() string {
	max := 0
	for _, th := range p.Themes {
		if m := themeIDRe.FindStringSubmatch(th.ID); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil && n > max {
				max = n
			}
		}
	}
	return fmt.Sprintf("theme-%03d", max+1)
}

// AddTheme creates a planned theme under the project and returns it.
func (p *Project) AddTheme(name string) *Theme {
	th := &Theme{
		ID:     p.NextThemeID(),
		Name:   name,
		Status: ThemePlanned,
		Tasks:  []*Task{},
	}
	p.Themes = append(p.Themes, th)
	return th
}

var taskIDRe = regexp.MustCompile(`^task-(\d+)$`)

// NextTaskID returns the next sequential task id within the theme.
func (th *Theme) NextTaskID() string {
	max := 0
	for _, t := range th.Tasks {
		if m := taskIDRe.FindStringSubmatch(t.ID); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil && n > max {
				max = n
			}
		}
	}
	return fmt.Sprintf("task-%03d", max+1)
}

// AddTask creates a todo task under the theme and returns it.
func (th *Theme) AddTask(description string) *Task {
	now := time.Now().UTC()
	t := &Task{
		ID:          th.NextTaskID(),
		Description: description,
		Status:      TaskTodo,
		LastTouched: &now,
	}
	th.Tasks = append(th.Tasks, t)
	th.Touch(now)
	return t
}

// FindTask returns the task with the given id, or nil.
func (th *Theme) FindTask(id string) *Task {
	for _, t := range th.Tasks {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// Touch updates the theme's last-touched timestamp.
func (th *Theme) Touch(at time.Time) {
	at = at.UTC()
	th.LastTouched = &at
}

// IsStale reports whether the theme has gone untouched for longer than the
// given number of days. Complete themes are never stale.
func (th *Theme) IsStale(days int, now time.Time) bool {
	if th.Status == ThemeComplete || days <= 0 {
		return false
	}
	if th.LastTouched == nil {
		return true
	}
	return now.Sub(*th.LastTouched) > time.Duration(days)*24*time.Hour
}

// Validate checks the roadmap's structural invariants: unique project names
// and unique theme/task ids within their parents.
func (r *Roadmap) Validate() error {
	names := make(map[string]bool, len(r.Projects))
	for _, p := range r.Projects {
		key := strings.ToLower(p.Name)
		if names[key] {
			return fmt.Errorf("duplicate project name %q", p.Name)
		}
		names[key] = true

		themeIDs := make(map[string]bool, len(p.Themes))
		for _, th := range p.Themes {
			if themeIDs[th.ID] {
				return fmt.Errorf("project %q: duplicate theme id %q", p.Name, th.ID)
			}
			themeIDs[th.ID] = true
			if !IsValidThemeStatus(th.Status) {
				return fmt.Errorf("project %q: theme %q has invalid status %q", p.Name, th.ID, th.Status)
			}

			taskIDs := make(map[string]bool, len(th.Tasks))
			for _, t := range th.Tasks {
				if taskIDs[t.ID] {
					return fmt.Errorf("theme %q: duplicate task id %q", th.ID, t.ID)
				}
				taskIDs[t.ID] = true
				if !IsValidTaskStatus(t.Status) {
					return fmt.Errorf("theme %q: task %q has invalid status %q", th.ID, t.ID, t.Status)
				}
			}
		}
	}
	return nil
}
