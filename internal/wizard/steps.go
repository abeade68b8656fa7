package wizard

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// ---------------------- Input Step ----------------------

// InputStep asks for a single line of text.
type InputStep struct {
	id           string
	title        string
	description  string
	placeholder  string
	defaultValue string
	stateKey     string
	skipFunc     func(State) bool
	validate     func(string) error
}

// NewInputStep creates a new text input step.
func NewInputStep(id, title string) *InputStep {
	return &InputStep{
		id:       id,
		title:    title,
		stateKey: id,
	}
}

// WithDescription sets the step description.
func (s *InputStep) WithDescription(desc string) *InputStep {
	s.description = desc
	return s
}

// WithPlaceholder sets the placeholder text.
func (s *InputStep) WithPlaceholder(placeholder string) *InputStep {
	s.placeholder = placeholder
	return s
}

// WithDefault sets the default value.
func (s *InputStep) WithDefault(val string) *InputStep {
	s.defaultValue = val
	return s
}

// WithStateKey sets the key where the result is stored in state.
func (s *InputStep) WithStateKey(key string) *InputStep {
	s.stateKey = key
	return s
}

// WithSkipFunc sets a function to determine if this step should be skipped.
func (s *InputStep) WithSkipFunc(fn func(State) bool) *InputStep {
	s.skipFunc = fn
	return s
}

// WithValidate sets a validator run when the user confirms the value.
func (s *InputStep) WithValidate(fn func(string) error) *InputStep {
	s.validate = fn
	return s
}

func (s *InputStep) ID() string          { return s.id }
func (s *InputStep) Title() string       { return s.title }
func (s *InputStep) Description() string { return s.description }

func (s *InputStep) Skip(state State) bool {
	if s.skipFunc != nil {
		return s.skipFunc(state)
	}
	return false
}

func (s *InputStep) Init(state State) tea.Model {
	ti := textinput.New()
	ti.Placeholder = s.placeholder
	ti.SetValue(s.defaultValue)
	ti.Focus()
	ti.Width = 50

	return &inputModel{
		textInput: ti,
		validate:  s.validate,
	}
}

func (s *InputStep) Result(model tea.Model, state State) {
	if m, ok := model.(*inputModel); ok {
		state[s.stateKey] = strings.TrimSpace(m.textInput.Value())
	}
}

type inputModel struct {
	textInput textinput.Model
	validate  func(string) error
	err       error
}

func (m *inputModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *inputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			if m.validate != nil {
				if err := m.validate(strings.TrimSpace(m.textInput.Value())); err != nil {
					m.err = err
					return m, nil
				}
			}
			return m, CompleteStep()
		}
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func (m *inputModel) View() string {
	var s string
	s += m.textInput.View() + "\n\n"

	if m.err != nil {
		s += errStyle.Render("Error: "+m.err.Error()) + "\n"
	}

	s += subtleStyle.Render("enter: confirm")

	return s
}

// ---------------------- List Step ----------------------

// ListStep collects short free-text items one per line. Enter adds the
// typed line; enter on a blank line finishes the step.
type ListStep struct {
	id          string
	title       string
	description string
	placeholder string
	stateKey    string
	seed        []string
	skipFunc    func(State) bool
}

// NewListStep creates a new list input step.
func NewListStep(id, title string) *ListStep {
	return &ListStep{
		id:       id,
		title:    title,
		stateKey: id,
	}
}

// WithDescription sets the step description.
func (s *ListStep) WithDescription(desc string) *ListStep {
	s.description = desc
	return s
}

// WithPlaceholder sets the placeholder text.
func (s *ListStep) WithPlaceholder(placeholder string) *ListStep {
	s.placeholder = placeholder
	return s
}

// WithSeed pre-fills items collected earlier, so re-running a form edits
// instead of starting over.
func (s *ListStep) WithSeed(items []string) *ListStep {
	s.seed = items
	return s
}

// WithStateKey sets the key where the result is stored in state.
func (s *ListStep) WithStateKey(key string) *ListStep {
	s.stateKey = key
	return s
}

// WithSkipFunc sets a function to determine if this step should be skipped.
func (s *ListStep) WithSkipFunc(fn func(State) bool) *ListStep {
	s.skipFunc = fn
	return s
}

func (s *ListStep) ID() string          { return s.id }
func (s *ListStep) Title() string       { return s.title }
func (s *ListStep) Description() string { return s.description }

func (s *ListStep) Skip(state State) bool {
	if s.skipFunc != nil {
		return s.skipFunc(state)
	}
	return false
}

func (s *ListStep) Init(state State) tea.Model {
	ti := textinput.New()
	ti.Placeholder = s.placeholder
	ti.Focus()
	ti.Width = 50

	return &listModel{
		textInput: ti,
		items:     append([]string(nil), s.seed...),
	}
}

func (s *ListStep) Result(model tea.Model, state State) {
	if m, ok := model.(*listModel); ok {
		state[s.stateKey] = append([]string(nil), m.items...)
	}
}

type listModel struct {
	textInput textinput.Model
	items     []string
}

func (m *listModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *listModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			v := strings.TrimSpace(m.textInput.Value())
			if v == "" {
				return m, CompleteStep()
			}
			m.items = append(m.items, v)
			m.textInput.SetValue("")
			return m, nil
		case "backspace":
			// Backspace with nothing typed removes the last captured item.
			if m.textInput.Value() == "" && len(m.items) > 0 {
				m.items = m.items[:len(m.items)-1]
				return m, nil
			}
		}
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func (m *listModel) View() string {
	var b strings.Builder

	for _, item := range m.items {
		b.WriteString("  " + accentStyle.Render("-") + " " + item + "\n")
	}
	if len(m.items) > 0 {
		b.WriteString("\n")
	}

	b.WriteString(m.textInput.View() + "\n\n")
	b.WriteString(subtleStyle.Render("enter: add • blank enter: done • backspace on empty: remove last"))

	return b.String()
}

// ---------------------- Display Step ----------------------

// DisplayStep shows information without requiring input.
type DisplayStep struct {
	id          string
	title       string
	description string
	content     func(State) string
	skipFunc    func(State) bool
}

// NewDisplayStep creates a new display step.
func NewDisplayStep(id, title string, content func(State) string) *DisplayStep {
	return &DisplayStep{
		id:      id,
		title:   title,
		content: content,
	}
}

// WithDescription sets the step description.
func (s *DisplayStep) WithDescription(desc string) *DisplayStep {
	s.description = desc
	return s
}

// WithSkipFunc sets a function to determine if this step should be skipped.
func (s *DisplayStep) WithSkipFunc(fn func(State) bool) *DisplayStep {
	s.skipFunc = fn
	return s
}

func (s *DisplayStep) ID() string          { return s.id }
func (s *DisplayStep) Title() string       { return s.title }
func (s *DisplayStep) Description() string { return s.description }

func (s *DisplayStep) Skip(state State) bool {
	if s.skipFunc != nil {
		return s.skipFunc(state)
	}
	return false
}

func (s *DisplayStep) Init(state State) tea.Model {
	return &displayModel{
		content: s.content(state),
	}
}

func (s *DisplayStep) Result(model tea.Model, state State) {
	// Display steps don't produce results
}

type displayModel struct {
	content string
}

func (m *displayModel) Init() tea.Cmd { return nil }

func (m *displayModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter", " ":
			return m, CompleteStep()
		}
	}
	return m, nil
}

func (m *displayModel) View() string {
	return m.content + "\n\n" + subtleStyle.Render("enter: continue")
}
