package cli

// NOTE: these tests chdir into temp directories and must not run in parallel.

import (
	"testing"

	"github.com/randalmurphal/pulse/internal/roadmap"
)

func TestThemeAdd_ThenTaskLifecycle(t *testing.T) {
	withTestDir(t)
	cfg := testSettings(t)
	seedRoadmap(t, cfg)

	add := newThemeAddCmd()
	add.SetArgs([]string{"Billing", "Usage-based invoicing"})
	if err := add.Execute(); err != nil {
		t.Fatalf("theme add: %v", err)
	}

	taskAdd := newTaskAddCmd()
	taskAdd.SetArgs([]string{"Billing", "theme-001", "Wire", "the", "proration", "endpoint"})
	if err := taskAdd.Execute(); err != nil {
		t.Fatalf("task add: %v", err)
	}

	done := newTaskDoneCmd()
	done.SetArgs([]string{"Billing", "theme-001", "task-001"})
	if err := done.Execute(); err != nil {
		t.Fatalf("task done: %v", err)
	}

	rm, err := roadmap.Load(cfg.RoadmapPath())
	if err != nil {
		t.Fatalf("reload roadmap: %v", err)
	}
	th := rm.FindProject("Billing").FindTheme("theme-001")
	if th == nil {
		t.Fatal("theme not persisted")
	}
	if th.Name != "Usage-based invoicing" {
		t.Errorf("theme name = %q", th.Name)
	}
	task := th.FindTask("task-001")
	if task == nil {
		t.Fatal("task not persisted")
	}
	if task.Status != roadmap.TaskDone {
		t.Errorf("task status = %s, want done", task.Status)
	}
	if task.Description != "Wire the proration endpoint" {
		t.Errorf("task description = %q", task.Description)
	}
}

func TestThemeAdd_UnknownProject(t *testing.T) {
	withTestDir(t)
	seedRoadmap(t, testSettings(t))

	add := newThemeAddCmd()
	add.SetArgs([]string{"Nope", "Anything"})
	if err := add.Execute(); err == nil {
		t.Error("adding a theme to an unknown project should fail")
	}
}

func TestThemeAdd_DuplicateName(t *testing.T) {
	withTestDir(t)
	seedRoadmap(t, testSettings(t))

	for i := 0; i < 2; i++ {
		add := newThemeAddCmd()
		add.SetArgs([]string{"Billing", "Invoicing"})
		err := add.Execute()
		if i == 0 && err != nil {
			t.Fatalf("first add: %v", err)
		}
		if i == 1 && err == nil {
			t.Error("duplicate theme name should fail")
		}
	}
}
