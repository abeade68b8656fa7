// Package errors provides structured error types for pulse.
package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"
)

// Code represents a unique error code.
type Code string

// Error codes for pulse.
const (
	// Initialization errors
	CodeNotInitialized Code = "PULSE_NOT_INITIALIZED"

	// Roadmap errors
	CodeProjectNotFound Code = "PROJECT_NOT_FOUND"
	CodeThemeNotFound   Code = "THEME_NOT_FOUND"
	CodeTaskNotFound    Code = "TASK_NOT_FOUND"
	CodeDuplicateName   Code = "DUPLICATE_PROJECT_NAME"

	// Review errors
	CodeChangeNotFound Code = "CHANGE_NOT_FOUND"
	CodeChangeDecided  Code = "CHANGE_ALREADY_DECIDED"

	// Config errors
	CodeConfigInvalid Code = "CONFIG_INVALID"
	CodeConfigMissing Code = "CONFIG_MISSING"
)

// Error is the structured error type for pulse. What/Why/Fix render as the
// CLI failure message; Cause carries the wrapped error for errors.Is/As.
type Error struct {
	Code  Code   `json:"code"`
	What  string `json:"what"`
	Why   string `json:"why,omitempty"`
	Fix   string `json:"fix,omitempty"`
	Cause error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.What)
	if e.Why != "" {
		b.WriteString(": ")
		b.WriteString(e.Why)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// UserMessage returns a user-friendly message for CLI output.
func (e *Error) UserMessage() string {
	var b strings.Builder
	b.WriteString("Error: ")
	b.WriteString(e.What)
	if e.Why != "" {
		b.WriteString("\n\nWhy: ")
		b.WriteString(e.Why)
	}
	if e.Fix != "" {
		b.WriteString("\n\nFix: ")
		b.WriteString(e.Fix)
	}
	return b.String()
}

// MarshalJSON implements json.Marshaler.
func (e *Error) MarshalJSON() ([]byte, error) {
	type alias Error
	aux := struct {
		*alias
		CauseMsg string `json:"cause,omitempty"`
	}{
		alias: (*alias)(e),
	}
	if e.Cause != nil {
		aux.CauseMsg = e.Cause.Error()
	}
	return json.Marshal(aux)
}

// Is reports whether target is an Error with the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithCause returns a copy of the error with the given cause.
func (e *Error) WithCause(err error) *Error {
	return &Error{
		Code:  e.Code,
		What:  e.What,
		Why:   e.Why,
		Fix:   e.Fix,
		Cause: err,
	}
}

// --- Error constructors ---

// ErrNotInitialized returns an error for a missing pulse data directory.
func ErrNotInitialized() *Error {
	return &Error{
		Code: CodeNotInitialized,
		What: "pulse is not initialized",
		Why:  "No .pulse/ directory found in the current path or home directory",
		Fix:  "Run 'pulse init' to create the config and data directories",
	}
}

// ErrProjectNotFound returns an error when a project doesn't exist.
func ErrProjectNotFound(name string) *Error {
	return &Error{
		Code: CodeProjectNotFound,
		What: fmt.Sprintf("project %q not found", name),
		Why:  "No project with this name exists in the roadmap",
		Fix:  "Run 'pulse status' to list projects, or add one to projects.yaml",
	}
}

// ErrThemeNotFound returns an error when a theme doesn't exist.
func ErrThemeNotFound(project, theme string) *Error {
	return &Error{
		Code: CodeThemeNotFound,
		What: fmt.Sprintf("theme %q not found in project %q", theme, project),
		Why:  "No theme with this id or name exists under the project",
		Fix:  fmt.Sprintf("Run 'pulse theme list --project %s' to see its themes", project),
	}
}

// ErrTaskNotFound returns an error when a task doesn't exist.
func ErrTaskNotFound(id string) *Error {
	return &Error{
		Code: CodeTaskNotFound,
		What: fmt.Sprintf("task %s not found", id),
		Why:  "No task with this id exists under the theme",
		Fix:  "Run 'pulse status' to see themes and their tasks",
	}
}

// ErrDuplicateName returns an error when a project name is already taken.
// Project names are the classifier's join key and must stay unique.
func ErrDuplicateName(name string) *Error {
	return &Error{
		Code: CodeDuplicateName,
		What: fmt.Sprintf("project name %q is already registered", name),
		Why:  "Project names are used as the activity-matching key and must be unique",
		Fix:  "Pick a different name or add an alias to the existing project",
	}
}

// ErrChangeNotFound returns an error when a proposed change doesn't exist.
func ErrChangeNotFound(id string) *Error {
	return &Error{
		Code: CodeChangeNotFound,
		What: fmt.Sprintf("proposed change %s not found", id),
		Why:  "No pending change with this id exists in the roadmap",
		Fix:  "Run 'pulse review list' to see pending changes",
	}
}

// ErrChangeDecided returns an error when a change was already approved or rejected.
func ErrChangeDecided(id, state string) *Error {
	return &Error{
		Code: CodeChangeDecided,
		What: fmt.Sprintf("proposed change %s is already %s", id, state),
		Why:  "Approval is terminal once decided",
		Fix:  "Run 'pulse review clear' to drop decided changes from the list",
	}
}

// ErrConfigInvalid returns an error for invalid configuration.
func ErrConfigInvalid(field, reason string) *Error {
	return &Error{
		Code: CodeConfigInvalid,
		What: fmt.Sprintf("invalid configuration: %s", field),
		Why:  reason,
		Fix:  "Check .pulse/config.yaml and fix the invalid field",
	}
}

// ErrConfigMissing returns an error for missing configuration.
func ErrConfigMissing(field string) *Error {
	return &Error{
		Code: CodeConfigMissing,
		What: fmt.Sprintf("missing required configuration: %s", field),
		Why:  "This field is required but not set in configuration",
		Fix:  fmt.Sprintf("Add '%s' to .pulse/config.yaml or set the PULSE_ environment variable", field),
	}
}

// AsError attempts to convert an error to a pulse Error.
// Returns nil if the error is not one.
func AsError(err error) *Error {
	var perr *Error
	if stderrors.As(err, &perr) {
		return perr
	}
	return nil
}

// Wrap wraps a generic error into a pulse Error with unknown code.
func Wrap(err error, what string) *Error {
	return &Error{
		Code:  Code("UNKNOWN"),
		What:  what,
		Cause: err,
	}
}
