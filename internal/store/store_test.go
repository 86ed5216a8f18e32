package store

import (
	"errors"
	"sync"
	"testing"

	"github.com/SangamNirala/TodoList/pkg/models"
)

func TestAdd_PrependsNewest(t *testing.T) {
	s := New()

	first, err := s.Add("first task")
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	second, err := s.Add("second task")
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	tasks := s.Tasks(models.FilterAll)
	if len(tasks) != 2 {
		t.Fatalf("Tasks() length = %d, want 2", len(tasks))
	}
	if tasks[0].ID != second.ID {
		t.Errorf("tasks[0].ID = %s, want newest %s", tasks[0].ID, second.ID)
	}
	if tasks[1].ID != first.ID {
		t.Errorf("tasks[1].ID = %s, want oldest %s", tasks[1].ID, first.ID)
	}
}

func TestAdd_TrimsText(t *testing.T) {
	s := New()
	task, err := s.Add("   buy milk  \n")
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if task.Text != "buy milk" {
		t.Errorf("Task.Text = %q, want %q", task.Text, "buy milk")
	}
	if task.Generation != models.GenerationIdle {
		t.Errorf("Task.Generation = %q, want %q", task.Generation, models.GenerationIdle)
	}
	if task.ID == "" {
		t.Error("Task.ID should be assigned")
	}
	if task.CreatedAt.IsZero() {
		t.Error("Task.CreatedAt should be set")
	}
}

func TestAdd_RejectsEmptyText(t *testing.T) {
	s := New()
	for _, text := range []string{"", "   ", "\t\n"} {
		if _, err := s.Add(text); !errors.Is(err, ErrEmptyText) {
			t.Errorf("Add(%q) error = %v, want ErrEmptyText", text, err)
		}
	}
	if total, _, _ := s.Counts(); total != 0 {
		t.Errorf("Counts() total = %d after rejected adds, want 0", total)
	}
}

func TestToggleTask_CompletesAndCascades(t *testing.T) {
	s := New()
	task := mustAdd(t, s, "plan trip")
	token := mustBegin(t, s, task.ID)
	if !s.ResolveGeneration(task.ID, token, []string{"book flights", "reserve hotel"}) {
		t.Fatal("ResolveGeneration() = false, want true")
	}

	got, err := s.ToggleTask(task.ID)
	if err != nil {
		t.Fatalf("ToggleTask() error = %v", err)
	}
	if !got.Completed {
		t.Error("task should be completed after toggle")
	}
	for _, sub := range got.Subtasks {
		if !sub.Completed {
			t.Errorf("subtask %q should be completed when parent is completed", sub.Text)
		}
	}
}

func TestToggleTask_UncompleteDoesNotCascade(t *testing.T) {
	s := New()
	task := mustAdd(t, s, "plan trip")
	token := mustBegin(t, s, task.ID)
	s.ResolveGeneration(task.ID, token, []string{"book flights", "reserve hotel"})

	// Complete (cascades down), then un-complete.
	if _, err := s.ToggleTask(task.ID); err != nil {
		t.Fatalf("ToggleTask() error = %v", err)
	}
	got, err := s.ToggleTask(task.ID)
	if err != nil {
		t.Fatalf("ToggleTask() error = %v", err)
	}

	if got.Completed {
		t.Error("task should be active after second toggle")
	}
	for _, sub := range got.Subtasks {
		if !sub.Completed {
			t.Errorf("subtask %q should stay completed when parent is un-completed", sub.Text)
		}
	}
}

func TestToggleTask_NotFound(t *testing.T) {
	s := New()
	if _, err := s.ToggleTask("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("ToggleTask(missing) error = %v, want ErrNotFound", err)
	}
}

func TestToggleSubtask_LastSubtaskCompletesParent(t *testing.T) {
	s := New()
	task := mustAdd(t, s, "plan trip")
	token := mustBegin(t, s, task.ID)
	s.ResolveGeneration(task.ID, token, []string{"book flights", "reserve hotel"})
	task, _ = s.Get(task.ID)

	got, err := s.ToggleSubtask(task.ID, task.Subtasks[0].ID)
	if err != nil {
		t.Fatalf("ToggleSubtask() error = %v", err)
	}
	if got.Completed {
		t.Error("parent should stay active while a subtask is incomplete")
	}

	got, err = s.ToggleSubtask(task.ID, task.Subtasks[1].ID)
	if err != nil {
		t.Fatalf("ToggleSubtask() error = %v", err)
	}
	if !got.Completed {
		t.Error("completing the last subtask should complete the parent")
	}

	// Re-opening any subtask re-derives the parent back to active.
	got, err = s.ToggleSubtask(task.ID, task.Subtasks[0].ID)
	if err != nil {
		t.Fatalf("ToggleSubtask() error = %v", err)
	}
	if got.Completed {
		t.Error("re-opening a subtask should un-complete the parent")
	}
	if got.Subtasks[1].Completed != true {
		t.Error("untouched subtask should keep its completed flag")
	}
}

func TestToggleSubtask_NotFound(t *testing.T) {
	s := New()
	task := mustAdd(t, s, "plan trip")

	if _, err := s.ToggleSubtask("missing", "sub"); !errors.Is(err, ErrNotFound) {
		t.Errorf("ToggleSubtask(missing task) error = %v, want ErrNotFound", err)
	}
	if _, err := s.ToggleSubtask(task.ID, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("ToggleSubtask(missing subtask) error = %v, want ErrNotFound", err)
	}
}

func TestToggleExpanded(t *testing.T) {
	s := New()
	task := mustAdd(t, s, "plan trip")

	got, err := s.ToggleExpanded(task.ID)
	if err != nil {
		t.Fatalf("ToggleExpanded() error = %v", err)
	}
	if !got.Expanded {
		t.Error("task should be expanded after toggle")
	}
	if got.Completed {
		t.Error("expansion must not touch completion")
	}

	if _, err := s.ToggleExpanded("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("ToggleExpanded(missing) error = %v, want ErrNotFound", err)
	}
}

func TestDelete_Idempotent(t *testing.T) {
	s := New()
	task := mustAdd(t, s, "plan trip")
	keep := mustAdd(t, s, "water plants")

	s.Delete(task.ID)
	s.Delete(task.ID) // second delete is a no-op
	s.Delete("never-existed")

	tasks := s.Tasks(models.FilterAll)
	if len(tasks) != 1 {
		t.Fatalf("Tasks() length = %d, want 1", len(tasks))
	}
	if tasks[0].ID != keep.ID {
		t.Errorf("remaining task = %s, want %s", tasks[0].ID, keep.ID)
	}
}

func TestClearCompleted(t *testing.T) {
	s := New()
	a := mustAdd(t, s, "task a")
	b := mustAdd(t, s, "task b")
	c := mustAdd(t, s, "task c")
	mustToggle(t, s, a.ID)
	mustToggle(t, s, c.ID)

	if got := s.ClearCompleted(); got != 2 {
		t.Errorf("ClearCompleted() = %d, want 2", got)
	}

	tasks := s.Tasks(models.FilterAll)
	if len(tasks) != 1 || tasks[0].ID != b.ID {
		t.Errorf("remaining tasks = %v, want only %s", taskIDs(tasks), b.ID)
	}

	// Nothing completed left: clearing again removes nothing.
	if got := s.ClearCompleted(); got != 0 {
		t.Errorf("ClearCompleted() on active-only store = %d, want 0", got)
	}
}

func TestBeginGeneration_StatesAndErrors(t *testing.T) {
	s := New()
	task := mustAdd(t, s, "plan trip")

	token, err := s.BeginGeneration(task.ID)
	if err != nil {
		t.Fatalf("BeginGeneration() error = %v", err)
	}
	if token == "" {
		t.Fatal("BeginGeneration() returned empty token")
	}
	got, _ := s.Get(task.ID)
	if got.Generation != models.GenerationPending {
		t.Errorf("Generation = %q, want %q", got.Generation, models.GenerationPending)
	}

	// Second request while pending is rejected.
	if _, err := s.BeginGeneration(task.ID); !errors.Is(err, ErrGenerationPending) {
		t.Errorf("BeginGeneration() while pending error = %v, want ErrGenerationPending", err)
	}

	// After a successful decomposition the task is never decomposed again.
	s.ResolveGeneration(task.ID, token, []string{"step one"})
	if _, err := s.BeginGeneration(task.ID); !errors.Is(err, ErrAlreadyDecomposed) {
		t.Errorf("BeginGeneration() after decomposition error = %v, want ErrAlreadyDecomposed", err)
	}

	completed := mustAdd(t, s, "already done")
	mustToggle(t, s, completed.ID)
	if _, err := s.BeginGeneration(completed.ID); !errors.Is(err, ErrTaskCompleted) {
		t.Errorf("BeginGeneration() on completed task error = %v, want ErrTaskCompleted", err)
	}

	if _, err := s.BeginGeneration("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("BeginGeneration(missing) error = %v, want ErrNotFound", err)
	}
}

func TestResolveGeneration_AppliesSubtasks(t *testing.T) {
	s := New()
	task := mustAdd(t, s, "plan trip")
	token := mustBegin(t, s, task.ID)

	applied := s.ResolveGeneration(task.ID, token, []string{" book flights ", "", "reserve hotel"})
	if !applied {
		t.Fatal("ResolveGeneration() = false, want true")
	}

	got, _ := s.Get(task.ID)
	if len(got.Subtasks) != 2 {
		t.Fatalf("subtask count = %d, want 2 (blank entries dropped)", len(got.Subtasks))
	}
	if got.Subtasks[0].Text != "book flights" {
		t.Errorf("subtasks[0].Text = %q, want %q", got.Subtasks[0].Text, "book flights")
	}
	if got.Subtasks[1].Text != "reserve hotel" {
		t.Errorf("subtasks[1].Text = %q, want %q", got.Subtasks[1].Text, "reserve hotel")
	}
	if got.Subtasks[0].ID == "" || got.Subtasks[0].ID == got.Subtasks[1].ID {
		t.Error("subtasks should get distinct non-empty ids")
	}
	if got.Generation != models.GenerationIdle {
		t.Errorf("Generation = %q, want %q", got.Generation, models.GenerationIdle)
	}
	if got.GenToken != "" {
		t.Errorf("GenToken = %q after resolution, want empty", got.GenToken)
	}
	if !got.Expanded {
		t.Error("successful decomposition should expand the task")
	}
}

func TestResolveGeneration_EmptyBatchIsFailure(t *testing.T) {
	s := New()
	task := mustAdd(t, s, "plan trip")
	token := mustBegin(t, s, task.ID)

	if !s.ResolveGeneration(task.ID, token, []string{"", "   "}) {
		t.Fatal("ResolveGeneration() with blank batch should still settle the attempt")
	}

	got, _ := s.Get(task.ID)
	if got.Decomposed() {
		t.Error("failure outcome must not attach subtasks")
	}
	if got.Generation != models.GenerationIdle {
		t.Errorf("Generation = %q, want %q", got.Generation, models.GenerationIdle)
	}
	if got.Expanded {
		t.Error("failure outcome must not change expansion")
	}

	// The task is retryable after a failure.
	if _, err := s.BeginGeneration(task.ID); err != nil {
		t.Errorf("BeginGeneration() after failure error = %v, want nil", err)
	}
}

func TestResolveGeneration_StaleTokenDiscarded(t *testing.T) {
	s := New()
	task := mustAdd(t, s, "plan trip")

	first := mustBegin(t, s, task.ID)
	if !s.ResolveGeneration(task.ID, first, nil) {
		t.Fatal("failure resolution should settle the first attempt")
	}
	second := mustBegin(t, s, task.ID)

	// The first attempt's late response arrives after the retry started.
	if s.ResolveGeneration(task.ID, first, []string{"stale step"}) {
		t.Error("stale token should be discarded")
	}
	got, _ := s.Get(task.ID)
	if got.Decomposed() {
		t.Error("stale resolution must not attach subtasks")
	}
	if got.Generation != models.GenerationPending {
		t.Errorf("Generation = %q, want %q (second attempt still in flight)", got.Generation, models.GenerationPending)
	}

	// The current attempt still resolves normally.
	if !s.ResolveGeneration(task.ID, second, []string{"fresh step"}) {
		t.Error("current token should be applied")
	}
	got, _ = s.Get(task.ID)
	if len(got.Subtasks) != 1 || got.Subtasks[0].Text != "fresh step" {
		t.Errorf("subtasks = %v, want the fresh step only", got.Subtasks)
	}
}

func TestResolveGeneration_DeletedTaskDiscarded(t *testing.T) {
	s := New()
	task := mustAdd(t, s, "plan trip")
	token := mustBegin(t, s, task.ID)

	s.Delete(task.ID)

	if s.ResolveGeneration(task.ID, token, []string{"orphan step"}) {
		t.Error("resolution for a deleted task should be discarded")
	}
	if total, _, _ := s.Counts(); total != 0 {
		t.Errorf("Counts() total = %d, want 0", total)
	}
}

func TestResolveGeneration_IdleTaskDiscarded(t *testing.T) {
	s := New()
	task := mustAdd(t, s, "plan trip")

	if s.ResolveGeneration(task.ID, "never-issued", []string{"step"}) {
		t.Error("resolution without a pending attempt should be discarded")
	}
}

func TestTasks_Filtering(t *testing.T) {
	s := New()
	a := mustAdd(t, s, "active task")
	c := mustAdd(t, s, "completed task")
	mustToggle(t, s, c.ID)

	tests := []struct {
		name   string
		filter models.Filter
		want   []string
	}{
		{"all", models.FilterAll, []string{c.ID, a.ID}},
		{"active", models.FilterActive, []string{a.ID}},
		{"completed", models.FilterCompleted, []string{c.ID}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := taskIDs(s.Tasks(tt.filter))
			if len(got) != len(tt.want) {
				t.Fatalf("Tasks(%s) ids = %v, want %v", tt.filter, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Tasks(%s)[%d] = %s, want %s", tt.filter, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestFiltered_RestartableSeesFreshState(t *testing.T) {
	s := New()
	mustAdd(t, s, "first")
	view := s.Filtered(models.FilterAll)

	count := 0
	for range view {
		count++
	}
	if count != 1 {
		t.Fatalf("first pass yielded %d tasks, want 1", count)
	}

	mustAdd(t, s, "second")

	count = 0
	for range view {
		count++
	}
	if count != 2 {
		t.Errorf("second pass yielded %d tasks, want 2 (view must restart against fresh state)", count)
	}
}

func TestFiltered_EarlyBreak(t *testing.T) {
	s := New()
	mustAdd(t, s, "one")
	mustAdd(t, s, "two")
	mustAdd(t, s, "three")

	var got []string
	for task := range s.Filtered(models.FilterAll) {
		got = append(got, task.Text)
		if len(got) == 2 {
			break
		}
	}
	if len(got) != 2 {
		t.Errorf("collected %d tasks after break, want 2", len(got))
	}
}

func TestCounts(t *testing.T) {
	s := New()
	mustAdd(t, s, "a")
	b := mustAdd(t, s, "b")
	mustAdd(t, s, "c")
	mustToggle(t, s, b.ID)

	total, active, completed := s.Counts()
	if total != 3 || active != 2 || completed != 1 {
		t.Errorf("Counts() = (%d, %d, %d), want (3, 2, 1)", total, active, completed)
	}
}

func TestReads_ReturnDeepCopies(t *testing.T) {
	s := New()
	task := mustAdd(t, s, "plan trip")
	token := mustBegin(t, s, task.ID)
	s.ResolveGeneration(task.ID, token, []string{"book flights"})

	got, _ := s.Get(task.ID)
	got.Text = "mutated"
	got.Subtasks[0].Completed = true

	fresh, _ := s.Get(task.ID)
	if fresh.Text != "plan trip" {
		t.Errorf("store text = %q after caller mutation, want %q", fresh.Text, "plan trip")
	}
	if fresh.Subtasks[0].Completed {
		t.Error("mutating a returned subtask must not change the store")
	}
}

func TestConcurrentMutations(t *testing.T) {
	s := New()
	const workers = 8
	const perWorker = 25

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				task, err := s.Add("concurrent task")
				if err != nil {
					t.Errorf("Add() error = %v", err)
					return
				}
				if _, err := s.ToggleTask(task.ID); err != nil {
					t.Errorf("ToggleTask() error = %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()

	total, active, completed := s.Counts()
	if total != workers*perWorker {
		t.Errorf("Counts() total = %d, want %d", total, workers*perWorker)
	}
	if active != 0 || completed != total {
		t.Errorf("Counts() = (%d, %d, %d), want all completed", total, active, completed)
	}
	if got := len(s.Tasks(models.FilterAll)); got != total {
		t.Errorf("Tasks() length = %d, want %d (order slice out of sync)", got, total)
	}
}

func mustAdd(t *testing.T, s *Store, text string) models.Task {
	t.Helper()
	task, err := s.Add(text)
	if err != nil {
		t.Fatalf("Add(%q) error = %v", text, err)
	}
	return task
}

func mustToggle(t *testing.T, s *Store, id string) {
	t.Helper()
	if _, err := s.ToggleTask(id); err != nil {
		t.Fatalf("ToggleTask(%s) error = %v", id, err)
	}
}

func mustBegin(t *testing.T, s *Store, id string) string {
	t.Helper()
	token, err := s.BeginGeneration(id)
	if err != nil {
		t.Fatalf("BeginGeneration(%s) error = %v", id, err)
	}
	return token
}

func taskIDs(tasks []models.Task) []string {
	ids := make([]string, len(tasks))
	for i, task := range tasks {
		ids[i] = task.ID
	}
	return ids
}
