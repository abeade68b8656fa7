package wizard

import (
	"errors"
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestInputStep(t *testing.T) {
	step := NewInputStep("intent", "Today's intent").
		WithDefault("ship it").
		WithPlaceholder("What are you shipping?")

	if step.ID() != "intent" {
		t.Errorf("ID = %s", step.ID())
	}
	if step.Skip(nil) {
		t.Error("Skip should default to false")
	}

	model := step.Init(nil)
	m, ok := model.(*inputModel)
	if !ok {
		t.Fatal("expected inputModel type")
	}
	if m.textInput.Value() != "ship it" {
		t.Errorf("default value = %q", m.textInput.Value())
	}

	m.textInput.SetValue("  finish the exporter  ")
	state := make(State)
	step.Result(m, state)
	if state["intent"] != "finish the exporter" {
		t.Errorf("state[intent] = %q, want trimmed value", state["intent"])
	}
}

func TestInputStepValidate(t *testing.T) {
	step := NewInputStep("intent", "Today's intent").
		WithValidate(func(v string) error {
			if v == "" {
				return fmt.Errorf("intent is required")
			}
			return nil
		})

	m := step.Init(nil).(*inputModel)

	// Blank value fails validation and stays on the step.
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Error("invalid value should not complete the step")
	}
	if m.err == nil {
		t.Error("expected a validation error")
	}

	m.textInput.SetValue("write the report")
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("valid value should complete the step")
	}
	if _, ok := cmd().(StepCompleteMsg); !ok {
		t.Errorf("cmd produced %T, want StepCompleteMsg", cmd())
	}
}

func TestListStepCollectsItems(t *testing.T) {
	step := NewListStep("wins", "What did you complete?")

	m := step.Init(nil).(*listModel)

	m.textInput.SetValue("landed the migration")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m.textInput.SetValue("  closed two tickets  ")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	// Blank enter finishes the step.
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("blank enter should complete the step")
	}
	if _, ok := cmd().(StepCompleteMsg); !ok {
		t.Errorf("cmd produced %T, want StepCompleteMsg", cmd())
	}

	state := make(State)
	step.Result(m, state)
	items, ok := state["wins"].([]string)
	if !ok || len(items) != 2 {
		t.Fatalf("state[wins] = %#v, want 2 items", state["wins"])
	}
	if items[1] != "closed two tickets" {
		t.Errorf("items[1] = %q, want trimmed value", items[1])
	}
}

func TestListStepSeedAndRemove(t *testing.T) {
	step := NewListStep("blockers", "What's blocking you?").
		WithSeed([]string{"waiting on keys", "flaky CI"})

	m := step.Init(nil).(*listModel)
	if len(m.items) != 2 {
		t.Fatalf("seeded %d items, want 2", len(m.items))
	}

	// Backspace with nothing typed pops the last item.
	m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	if len(m.items) != 1 || m.items[0] != "waiting on keys" {
		t.Errorf("items after remove = %v", m.items)
	}

	// With text in the input, backspace edits the text instead.
	m.textInput.SetValue("x")
	m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	if len(m.items) != 1 {
		t.Errorf("backspace while typing removed an item: %v", m.items)
	}
}

func TestDisplayStep(t *testing.T) {
	step := NewDisplayStep("summary", "Ready to save", func(s State) string {
		return "Intent: " + s["intent"].(string)
	})

	model := step.Init(State{"intent": "ship it"})
	m, ok := model.(*displayModel)
	if !ok {
		t.Fatal("expected displayModel type")
	}
	if m.content != "Intent: ship it" {
		t.Errorf("content = %q", m.content)
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("enter should complete a display step")
	}
}

func TestWizardAdvancesThroughSteps(t *testing.T) {
	w := New(
		NewInputStep("intent", "Intent"),
		NewListStep("wins", "Wins"),
	)

	// Mirror what Run does before handing the model to bubbletea.
	w.skipToNextStep()
	w.model = w.steps[w.current].Init(w.state)

	w.model.(*inputModel).textInput.SetValue("ship the exporter")
	w.Update(StepCompleteMsg{})

	if w.current != 1 {
		t.Fatalf("current = %d after first step, want 1", w.current)
	}
	if w.state["intent"] != "ship the exporter" {
		t.Errorf("state[intent] = %q", w.state["intent"])
	}

	w.model.(*listModel).items = []string{"done"}
	w.Update(StepCompleteMsg{})

	if !w.done {
		t.Error("wizard should be done after the last step")
	}
	if items := w.state["wins"].([]string); len(items) != 1 {
		t.Errorf("state[wins] = %v", items)
	}
}

func TestWizardSkipsSteps(t *testing.T) {
	skipped := NewInputStep("skipped", "Never shown").
		WithSkipFunc(func(s State) bool { return true })
	shown := NewInputStep("shown", "Shown")

	w := New(skipped, shown)
	w.skipToNextStep()

	if w.current != 1 {
		t.Errorf("current = %d, want 1 (first step skipped)", w.current)
	}
}

func TestWizardCancelKey(t *testing.T) {
	w := New(NewInputStep("intent", "Intent"))
	w.skipToNextStep()
	w.model = w.steps[0].Init(w.state)

	w.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if !errors.Is(w.err, ErrCancelled) {
		t.Errorf("err = %v, want ErrCancelled", w.err)
	}
}

func TestWizardWithState(t *testing.T) {
	w := New().WithState(State{"date": "2026-08-21"})
	if w.State()["date"] != "2026-08-21" {
		t.Error("preset state should be preserved")
	}

	// No runnable steps means Run is a no-op, not an error.
	if err := w.Run(); err != nil {
		t.Errorf("Run with no steps = %v", err)
	}
}
