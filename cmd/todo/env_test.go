package main

import (
	"testing"

	"github.com/SangamNirala/TodoList/internal/store"
	"github.com/SangamNirala/TodoList/pkg/models"
)

func TestTaskByIndex_MatchesListNumbering(t *testing.T) {
	st := store.New()
	for _, text := range []string{"first", "second", "third"} {
		if _, err := st.Add(text); err != nil {
			t.Fatalf("Add(%q) error: %v", text, err)
		}
	}

	// Newest tasks come first, so index 1 is the latest addition.
	task, err := taskByIndex(st, models.FilterAll, 1)
	if err != nil {
		t.Fatalf("taskByIndex(1) error: %v", err)
	}
	if task.Text != "third" {
		t.Errorf("index 1 = %q, want %q", task.Text, "third")
	}

	task, err = taskByIndex(st, models.FilterAll, 3)
	if err != nil {
		t.Fatalf("taskByIndex(3) error: %v", err)
	}
	if task.Text != "first" {
		t.Errorf("index 3 = %q, want %q", task.Text, "first")
	}
}

func TestTaskByIndex_RespectsFilter(t *testing.T) {
	st := store.New()
	if _, err := st.Add("keep going"); err != nil {
		t.Fatalf("Add error: %v", err)
	}
	done, err := st.Add("all done")
	if err != nil {
		t.Fatalf("Add error: %v", err)
	}
	if _, err := st.ToggleTask(done.ID); err != nil {
		t.Fatalf("ToggleTask error: %v", err)
	}

	task, err := taskByIndex(st, models.FilterCompleted, 1)
	if err != nil {
		t.Fatalf("taskByIndex error: %v", err)
	}
	if task.Text != "all done" {
		t.Errorf("completed index 1 = %q, want %q", task.Text, "all done")
	}

	task, err = taskByIndex(st, models.FilterActive, 1)
	if err != nil {
		t.Fatalf("taskByIndex error: %v", err)
	}
	if task.Text != "keep going" {
		t.Errorf("active index 1 = %q, want %q", task.Text, "keep going")
	}
}

func TestTaskByIndex_OutOfRange(t *testing.T) {
	st := store.New()
	if _, err := st.Add("only one"); err != nil {
		t.Fatalf("Add error: %v", err)
	}

	for _, n := range []int{0, -1, 2} {
		if _, err := taskByIndex(st, models.FilterAll, n); err == nil {
			t.Errorf("taskByIndex(%d) expected error, got nil", n)
		}
	}
}

func TestTaskByIndex_EmptyStore(t *testing.T) {
	st := store.New()
	if _, err := taskByIndex(st, models.FilterAll, 1); err == nil {
		t.Error("expected error for empty store, got nil")
	}
}
