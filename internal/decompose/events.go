package decompose

import (
	"log"
	"sync/atomic"
	"time"
)

// DefaultEventBuffer is the event channel capacity used when a Config
// does not set one.
const DefaultEventBuffer = 16

// EventType identifies a coordinator event.
type EventType string

const (
	// EventDecomposed reports that subtasks were attached to a task.
	EventDecomposed EventType = "decomposed"
	// EventGenerationFailed reports that a decomposition attempt failed.
	// The task is idle again and may be retried; the event only exists so
	// the UI can show a transient notice, it is not task state.
	EventGenerationFailed EventType = "generation_failed"
)

// Event is delivered to the subscriber when a decomposition attempt
// settles. Discarded stale results produce no event.
type Event struct {
	// Type identifies what happened.
	Type EventType
	// TaskID is the task the attempt belonged to.
	TaskID string
	// Subtasks is the number of subtasks created (EventDecomposed only).
	Subtasks int
	// Message is ready to show to the user.
	Message string
	// Err is the underlying failure (EventGenerationFailed only).
	Err error
	// Timestamp is when the attempt settled.
	Timestamp time.Time
}

// EventEmitter fans coordinator events out to a subscriber over a
// buffered channel. Emit never blocks a resolution indefinitely: a full
// channel gets one short grace period, then the event is dropped and
// counted.
type EventEmitter struct {
	events       chan Event
	droppedCount atomic.Uint64
}

// NewEventEmitter creates an emitter with the given buffer size.
func NewEventEmitter(bufferSize int) *EventEmitter {
	return &EventEmitter{
		events: make(chan Event, bufferSize),
	}
}

// Emit sends an event to the events channel. If the channel is full it
// retries briefly to let the receiver drain, then drops the event.
func (e *EventEmitter) Emit(event Event) {
	select {
	case e.events <- event:
		return
	default:
	}

	select {
	case e.events <- event:
	case <-time.After(100 * time.Millisecond):
		count := e.droppedCount.Add(1)
		if count%10 == 1 { // log every 10th drop to avoid spam
			log.Printf("[decompose] WARNING: event channel full, dropped event (total dropped: %d): type=%s", count, event.Type)
		}
	}
}

// DroppedCount returns the total number of events that have been dropped.
func (e *EventEmitter) DroppedCount() uint64 {
	return e.droppedCount.Load()
}

// Events returns the read-only channel subscribers receive on.
func (e *EventEmitter) Events() <-chan Event {
	return e.events
}

// Close closes the events channel. Call only once every emitter goroutine
// has finished.
func (e *EventEmitter) Close() {
	close(e.events)
}
