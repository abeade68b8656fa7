// Package activity defines the unit of collected work and its daily log.
package activity

import (
	"fmt"
	"time"
)

// Source identifies which collector produced an activity.
type Source string

const (
	SourceFilesystem     Source = "filesystem"
	SourceGit            Source = "git"
	SourceChat           Source = "chat"
	SourceChatActionItem Source = "chat-action-item"
	SourceManual         Source = "manual"
)

// ValidSources returns all valid source values.
func ValidSources() []Source {
	return []Source{SourceFilesystem, SourceGit, SourceChat, SourceChatActionItem, SourceManual}
}

// IsValidSource returns true if s is a valid source value.
func IsValidSource(s Source) bool {
	switch s {
	case SourceFilesystem, SourceGit, SourceChat, SourceChatActionItem, SourceManual:
		return true
	default:
		return false
	}
}

// Uncategorized is the project bucket for activities whose best match falls
// below the classifier threshold.
const Uncategorized = "uncategorized"

// Activity is a single detected unit of work. Collectors create them;
// the only later mutation is the classifier filling in the Project, Theme,
// MatchConfidence and MatchSignals annotations.
type Activity struct {
	Source      Source         `json:"source"`
	Timestamp   time.Time      `json:"timestamp"`
	Description string         `json:"description"`
	Confidence  float64        `json:"confidence"`
	Raw         map[string]any `json:"raw_data,omitempty"`
	Path        string         `json:"path,omitempty"`

	// Classifier annotations.
	Project         string   `json:"project,omitempty"`
	Theme           string   `json:"theme,omitempty"`
	MatchConfidence float64  `json:"match_confidence,omitempty"`
	MatchSignals    []string `json:"match_signals,omitempty"`
}

// New builds an activity with the raw attribute bag initialized.
func New(source Source, at time.Time, description string, confidence float64) *Activity {
	return &Activity{
		Source:      source,
		Timestamp:   at.UTC(),
		Description: description,
		Confidence:  confidence,
		Raw:         map[string]any{},
	}
}

// RawString returns the string value stored under key, or "".
func (a *Activity) RawString(key string) string {
	if a.Raw == nil {
		return ""
	}
	if s, ok := a.Raw[key].(string); ok {
		return s
	}
	return ""
}

// RawInt returns the integer value stored under key, or 0. JSON decoding
// turns numbers into float64, so both representations are handled.
func (a *Activity) RawInt(key string) int {
	if a.Raw == nil {
		return 0
	}
	switch v := a.Raw[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}

// RawStrings returns the string-slice value stored under key. JSON decoding
// turns arrays into []any, so both representations are handled.
func (a *Activity) RawStrings(key string) []string {
	if a.Raw == nil {
		return nil
	}
	switch v := a.Raw[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// DedupKey is the merge key for the daily log: identical description, source
// and minute-truncated timestamp collapse into one record. Raw attributes
// (commit hashes included) never enter the key.
func (a *Activity) DedupKey() string {
	return fmt.Sprintf("%s|%s|%s", a.Description, a.Source, a.Timestamp.UTC().Format("2006-01-02T15:04"))
}

// Day returns the calendar date (UTC) the activity belongs to.
func (a *Activity) Day() string {
	return a.Timestamp.UTC().Format("2006-01-02")
}
