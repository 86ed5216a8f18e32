package models

import "time"

// GenerationState tracks whether a decomposition request is in flight for
// a task. It is runtime-only state: a pending request never survives the
// process, so the state is not serialized.
type GenerationState string

const (
	// GenerationIdle means no decomposition is in flight.
	GenerationIdle GenerationState = "idle"
	// GenerationPending means a decomposition request is awaiting its result.
	GenerationPending GenerationState = "pending"
)

// Valid returns true if the state is a known value.
func (s GenerationState) Valid() bool {
	switch s {
	case GenerationIdle, GenerationPending:
		return true
	default:
		return false
	}
}

// Subtask is one step produced by decomposing a task. Subtasks are created
// only as a batch from a successful decomposition; afterwards only the
// Completed flag ever changes.
type Subtask struct {
	// ID is the unique identifier for this subtask.
	ID string `json:"id"`
	// Text is the subtask description.
	Text string `json:"text"`
	// Completed marks the subtask as done.
	Completed bool `json:"completed"`
}

// Task is a single tracked todo item.
type Task struct {
	// ID is the unique identifier for this task.
	ID string `json:"id"`
	// Text is the user-entered description.
	Text string `json:"text"`
	// Completed marks the task as done.
	Completed bool `json:"completed"`
	// Expanded controls whether subtasks are shown in the list. Display
	// state only; it never affects completion logic.
	Expanded bool `json:"expanded"`
	// Subtasks holds the decomposition steps in the order the service
	// produced them. Empty until the task is decomposed.
	Subtasks []Subtask `json:"subtasks,omitempty"`
	// CreatedAt is when the task was added.
	CreatedAt time.Time `json:"created_at"`

	// Generation is the in-flight decomposition state (not serialized).
	Generation GenerationState `json:"-"`
	// GenToken identifies the current decomposition attempt so stale
	// results can be discarded. Empty unless Generation is pending.
	GenToken string `json:"-"`
}

// Decomposed returns true once the task has received subtasks.
func (t *Task) Decomposed() bool {
	return len(t.Subtasks) > 0
}

// AllSubtasksCompleted returns true if the task has at least one subtask
// and every one of them is completed.
func (t *Task) AllSubtasksCompleted() bool {
	if len(t.Subtasks) == 0 {
		return false
	}
	for _, st := range t.Subtasks {
		if !st.Completed {
			return false
		}
	}
	return true
}

// SubtaskByID returns a pointer to the subtask with the given id, or nil
// if the task has no such subtask.
func (t *Task) SubtaskByID(id string) *Subtask {
	for i := range t.Subtasks {
		if t.Subtasks[i].ID == id {
			return &t.Subtasks[i]
		}
	}
	return nil
}

// Clone returns a deep copy of the task. The subtask slice is copied so
// mutations on the clone never reach the original.
func (t *Task) Clone() Task {
	out := *t
	if t.Subtasks != nil {
		out.Subtasks = make([]Subtask, len(t.Subtasks))
		copy(out.Subtasks, t.Subtasks)
	}
	return out
}
