package store

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/SangamNirala/TodoList/pkg/models"
)

func TestSnapshot_RoundTrip(t *testing.T) {
	s := New()
	older := mustAdd(t, s, "older task")
	newer := mustAdd(t, s, "newer task")
	token := mustBegin(t, s, older.ID)
	s.ResolveGeneration(older.ID, token, []string{"step one", "step two"})
	if _, err := s.ToggleSubtask(older.ID, mustGet(t, s, older.ID).Subtasks[0].ID); err != nil {
		t.Fatalf("ToggleSubtask() error = %v", err)
	}
	mustToggle(t, s, newer.ID)

	blob, err := s.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}

	restored := New()
	restored.Restore(blob)

	want := s.Tasks(models.FilterAll)
	got := restored.Tasks(models.FilterAll)
	if len(got) != len(want) {
		t.Fatalf("restored %d tasks, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].ID != want[i].ID {
			t.Errorf("task[%d].ID = %s, want %s (order must survive)", i, got[i].ID, want[i].ID)
		}
		if got[i].Text != want[i].Text {
			t.Errorf("task[%d].Text = %q, want %q", i, got[i].Text, want[i].Text)
		}
		if got[i].Completed != want[i].Completed {
			t.Errorf("task[%d].Completed = %v, want %v", i, got[i].Completed, want[i].Completed)
		}
		if got[i].Expanded != want[i].Expanded {
			t.Errorf("task[%d].Expanded = %v, want %v", i, got[i].Expanded, want[i].Expanded)
		}
		if len(got[i].Subtasks) != len(want[i].Subtasks) {
			t.Errorf("task[%d] has %d subtasks, want %d", i, len(got[i].Subtasks), len(want[i].Subtasks))
			continue
		}
		for j := range want[i].Subtasks {
			if got[i].Subtasks[j] != want[i].Subtasks[j] {
				t.Errorf("task[%d].Subtasks[%d] = %+v, want %+v", i, j, got[i].Subtasks[j], want[i].Subtasks[j])
			}
		}
	}
}

func TestSnapshot_OmitsGenerationState(t *testing.T) {
	s := New()
	task := mustAdd(t, s, "plan trip")
	token := mustBegin(t, s, task.ID)

	blob, err := s.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	if strings.Contains(string(blob), token) {
		t.Error("snapshot must not contain the generation token")
	}
	var raw map[string]any
	if err := json.Unmarshal(blob, &raw); err != nil {
		t.Fatalf("snapshot is not valid JSON: %v", err)
	}
	if raw["version"] != float64(snapshotVersion) {
		t.Errorf("snapshot version = %v, want %d", raw["version"], snapshotVersion)
	}

	restored := New()
	restored.Restore(blob)
	got := mustGet(t, restored, task.ID)
	if got.Generation != models.GenerationIdle {
		t.Errorf("restored Generation = %q, want %q", got.Generation, models.GenerationIdle)
	}
	if got.GenToken != "" {
		t.Errorf("restored GenToken = %q, want empty", got.GenToken)
	}

	// A restored task must be requestable again; nothing is wedged pending.
	if _, err := restored.BeginGeneration(task.ID); err != nil {
		t.Errorf("BeginGeneration() after restore error = %v, want nil", err)
	}
}

func TestRestore_FailSoft(t *testing.T) {
	tests := []struct {
		name string
		blob []byte
	}{
		{"nil blob", nil},
		{"empty blob", []byte{}},
		{"not json", []byte("definitely not json")},
		{"wrong shape", []byte(`{"version": "one", "tasks": 12}`)},
		{"truncated", []byte(`{"version":1,"tasks":[{"id":"a"`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New()
			mustAdd(t, s, "pre-existing")
			s.Restore(tt.blob)
			if total, _, _ := s.Counts(); total != 0 {
				t.Errorf("Counts() total = %d after bad restore, want 0 (fresh start)", total)
			}
			// The store remains usable.
			if _, err := s.Add("after restore"); err != nil {
				t.Errorf("Add() after bad restore error = %v", err)
			}
		})
	}
}

func TestRestore_SkipsInvalidEntries(t *testing.T) {
	blob := []byte(`{
		"version": 1,
		"tasks": [
			{"id": "good", "text": "valid task"},
			{"id": "", "text": "no id"},
			{"id": "blank", "text": "   "},
			{"id": "good", "text": "duplicate id"},
			{"id": "subs", "text": "has subtasks", "subtasks": [
				{"id": "s1", "text": "keep me"},
				{"id": "", "text": "drop me"},
				{"id": "s2", "text": "  "}
			]}
		]
	}`)

	s := New()
	s.Restore(blob)

	tasks := s.Tasks(models.FilterAll)
	if len(tasks) != 2 {
		t.Fatalf("restored %d tasks, want 2 (invalid entries skipped)", len(tasks))
	}
	if tasks[0].ID != "good" || tasks[0].Text != "valid task" {
		t.Errorf("tasks[0] = %+v, want the first valid entry", tasks[0])
	}
	if len(tasks[1].Subtasks) != 1 || tasks[1].Subtasks[0].ID != "s1" {
		t.Errorf("tasks[1].Subtasks = %+v, want only the valid subtask", tasks[1].Subtasks)
	}
}

func TestRestore_ReplacesExistingContents(t *testing.T) {
	donor := New()
	mustAdd(t, donor, "from snapshot")
	blob, err := donor.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}

	s := New()
	mustAdd(t, s, "stale one")
	mustAdd(t, s, "stale two")
	s.Restore(blob)

	tasks := s.Tasks(models.FilterAll)
	if len(tasks) != 1 || tasks[0].Text != "from snapshot" {
		t.Errorf("Tasks() = %v, want only the snapshot task", taskIDs(tasks))
	}
}

func TestSnapshot_EmptyStore(t *testing.T) {
	s := New()
	blob, err := s.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}

	restored := New()
	restored.Restore(blob)
	if total, _, _ := restored.Counts(); total != 0 {
		t.Errorf("Counts() total = %d, want 0", total)
	}
}

func mustGet(t *testing.T, s *Store, id string) models.Task {
	t.Helper()
	task, ok := s.Get(id)
	if !ok {
		t.Fatalf("Get(%s) returned not found", id)
	}
	return task
}
