package store

import (
	"encoding/json"
	"strings"

	"github.com/SangamNirala/TodoList/pkg/models"
)

// snapshotVersion is the current snapshot blob format version.
const snapshotVersion = 1

// snapshot is the serialized form of the task collection. Tasks appear in
// display order, newest first.
type snapshot struct {
	Version int           `json:"version"`
	Tasks   []models.Task `json:"tasks"`
}

// Snapshot serializes the full task collection. Transient generation
// state is excluded by the model's JSON tags: a pending request cannot
// survive the process, and persisting it would leave the task wedged.
func (s *Store) Snapshot() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := snapshot{
		Version: snapshotVersion,
		Tasks:   make([]models.Task, 0, len(s.order)),
	}
	for _, id := range s.order {
		snap.Tasks = append(snap.Tasks, s.tasks[id].Clone())
	}
	return json.Marshal(snap)
}

// Restore replaces the store contents with the tasks from a snapshot
// blob. Restoring is fail-soft: nil, empty, or malformed input yields an
// empty collection, and individual entries that would break invariants
// (missing id, blank text, duplicate id) are skipped rather than aborting
// the rest. Restored tasks are always idle; whatever was pending when the
// snapshot was taken is gone.
func (s *Store) Restore(blob []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks = make(map[string]*models.Task)
	s.order = nil

	if len(blob) == 0 {
		return
	}
	var snap snapshot
	if err := json.Unmarshal(blob, &snap); err != nil {
		return
	}

	for i := range snap.Tasks {
		task := snap.Tasks[i]
		if task.ID == "" || strings.TrimSpace(task.Text) == "" {
			continue
		}
		if _, ok := s.tasks[task.ID]; ok {
			continue
		}

		task.Generation = models.GenerationIdle
		task.GenToken = ""
		task.Subtasks = cleanSubtasks(task.Subtasks)

		s.tasks[task.ID] = &task
		s.order = append(s.order, task.ID)
	}
}

// cleanSubtasks drops subtask entries that would break invariants.
func cleanSubtasks(subs []models.Subtask) []models.Subtask {
	if len(subs) == 0 {
		return nil
	}
	out := make([]models.Subtask, 0, len(subs))
	for _, sub := range subs {
		if sub.ID == "" || strings.TrimSpace(sub.Text) == "" {
			continue
		}
		out = append(out, sub)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
