// Package store implements the in-memory task collection and its state
// machine. Every mutating operation runs under one mutex, so observers
// never see a half-applied transition, and reads hand out deep copies so
// callers can never mutate store state behind its back.
package store

import (
	"errors"
	"fmt"
	"iter"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/SangamNirala/TodoList/pkg/models"
)

// Sentinel errors returned by store operations. Callers match them with
// errors.Is and decide how to surface each one.
var (
	// ErrEmptyText rejects task text that is empty after trimming.
	ErrEmptyText = errors.New("task text is empty")
	// ErrNotFound means the task or subtask id did not resolve.
	ErrNotFound = errors.New("not found")
	// ErrGenerationPending rejects a decomposition request while one is
	// already in flight for the task.
	ErrGenerationPending = errors.New("decomposition already in progress")
	// ErrAlreadyDecomposed rejects decomposition of a task that already
	// has subtasks. Decomposition applies at most once per task.
	ErrAlreadyDecomposed = errors.New("task already has subtasks")
	// ErrTaskCompleted rejects decomposition of a completed task.
	ErrTaskCompleted = errors.New("task is already completed")
)

// Store holds the ordered task collection. Tasks live in a map for O(1)
// lookup plus an id slice that preserves display order, newest first.
type Store struct {
	mu    sync.Mutex
	tasks map[string]*models.Task
	order []string
}

// New creates an empty store.
func New() *Store {
	return &Store{
		tasks: make(map[string]*models.Task),
	}
}

// Add creates a task from the given text and inserts it at the front of
// the collection. Text is trimmed; empty input is rejected.
func (s *Store) Add(text string) (models.Task, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.Task{}, ErrEmptyText
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	task := &models.Task{
		ID:         uuid.New().String(),
		Text:       text,
		Generation: models.GenerationIdle,
		CreatedAt:  time.Now(),
	}
	s.tasks[task.ID] = task
	s.order = append([]string{task.ID}, s.order...)
	return task.Clone(), nil
}

// Get returns a copy of the task with the given id.
func (s *Store) Get(id string) (models.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[id]
	if !ok {
		return models.Task{}, false
	}
	return task.Clone(), true
}

// ToggleTask flips a task's completed flag and returns the updated task.
// Completing a task marks every existing subtask completed; un-completing
// leaves subtasks exactly as they are.
func (s *Store) ToggleTask(id string) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[id]
	if !ok {
		return models.Task{}, fmt.Errorf("task %s: %w", id, ErrNotFound)
	}

	task.Completed = !task.Completed
	if task.Completed {
		for i := range task.Subtasks {
			task.Subtasks[i].Completed = true
		}
	}
	return task.Clone(), nil
}

// ToggleSubtask flips one subtask's completed flag, then re-derives the
// parent: a task with subtasks is completed exactly when all of them are.
func (s *Store) ToggleSubtask(taskID, subtaskID string) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[taskID]
	if !ok {
		return models.Task{}, fmt.Errorf("task %s: %w", taskID, ErrNotFound)
	}
	sub := task.SubtaskByID(subtaskID)
	if sub == nil {
		return models.Task{}, fmt.Errorf("subtask %s: %w", subtaskID, ErrNotFound)
	}

	sub.Completed = !sub.Completed
	task.Completed = task.AllSubtasksCompleted()
	return task.Clone(), nil
}

// ToggleExpanded flips whether a task's subtasks are shown. Display state
// only; completion logic never reads it.
func (s *Store) ToggleExpanded(id string) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[id]
	if !ok {
		return models.Task{}, fmt.Errorf("task %s: %w", id, ErrNotFound)
	}
	task.Expanded = !task.Expanded
	return task.Clone(), nil
}

// Delete removes a task and its subtasks. Deleting an id that is not
// present is a no-op: delete is idempotent. Any decomposition still in
// flight for the task will find its token gone and discard itself.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[id]; !ok {
		return
	}
	delete(s.tasks, id)
	for i, tid := range s.order {
		if tid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// ClearCompleted removes every completed task and reports how many were
// removed. Remaining tasks keep their relative order.
func (s *Store) ClearCompleted() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	kept := make([]string, 0, len(s.order))
	for _, id := range s.order {
		if s.tasks[id].Completed {
			delete(s.tasks, id)
			removed++
			continue
		}
		kept = append(kept, id)
	}
	s.order = kept
	return removed
}

// BeginGeneration marks a task as awaiting decomposition and returns the
// token identifying this attempt. The token is the concurrency guard: at
// most one decomposition per task is in flight, and only a resolution
// carrying the current token is ever applied.
func (s *Store) BeginGeneration(taskID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[taskID]
	if !ok {
		return "", fmt.Errorf("task %s: %w", taskID, ErrNotFound)
	}
	if task.Generation == models.GenerationPending {
		return "", ErrGenerationPending
	}
	if task.Decomposed() {
		return "", ErrAlreadyDecomposed
	}
	if task.Completed {
		return "", ErrTaskCompleted
	}

	task.Generation = models.GenerationPending
	task.GenToken = uuid.New().String()
	return task.GenToken, nil
}

// ResolveGeneration reconciles the outcome of a decomposition attempt.
// texts holds the subtask descriptions from the service; blank entries are
// dropped and an empty batch is the failure outcome, which leaves the task
// idle with no subtasks so it can be retried. The outcome is applied only
// when token matches the task's current attempt; a stale or orphaned
// resolution returns false and changes nothing.
func (s *Store) ResolveGeneration(taskID, token string, texts []string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[taskID]
	if !ok || task.Generation != models.GenerationPending || task.GenToken != token {
		return false
	}

	task.Generation = models.GenerationIdle
	task.GenToken = ""

	subtasks := make([]models.Subtask, 0, len(texts))
	for _, text := range texts {
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		subtasks = append(subtasks, models.Subtask{
			ID:   uuid.New().String(),
			Text: text,
		})
	}
	if len(subtasks) == 0 {
		// Failure outcome: the attempt is consumed but the task keeps
		// no subtasks and stays eligible for another request.
		return true
	}

	task.Subtasks = subtasks
	task.Expanded = true
	return true
}

// Tasks collects the filtered view into a slice of copies, newest first.
func (s *Store) Tasks(f models.Filter) []models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Task, 0, len(s.order))
	for _, id := range s.order {
		task := s.tasks[id]
		if f.Matches(task) {
			out = append(out, task.Clone())
		}
	}
	return out
}

// Filtered returns a lazy view of the tasks matching f, newest first. The
// sequence snapshots the collection when iteration starts, so it is safe
// to mutate the store mid-iteration, and ranging over it again observes
// the store's state at that later moment.
func (s *Store) Filtered(f models.Filter) iter.Seq[models.Task] {
	return func(yield func(models.Task) bool) {
		for _, task := range s.Tasks(f) {
			if !yield(task) {
				return
			}
		}
	}
}

// Counts reports the total, active, and completed task counts.
func (s *Store) Counts() (total, active, completed int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	total = len(s.order)
	for _, task := range s.tasks {
		if task.Completed {
			completed++
		}
	}
	active = total - completed
	return total, active, completed
}
