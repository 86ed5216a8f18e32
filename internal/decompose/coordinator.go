// Package decompose coordinates asynchronous task decomposition: it asks
// the generation service for subtasks and reconciles each outcome into
// the task store without racing deletes or retries.
package decompose

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
)

// ErrEmptyDecomposition is the failure recorded when the service returns
// no usable subtasks. An empty decomposition is never a success: it would
// consume the task's single decomposition without giving the user
// anything to act on.
var ErrEmptyDecomposition = errors.New("generation service returned no subtasks")

// TaskStore is the slice of the store the coordinator drives. The
// begin/resolve bracket plus the attempt token it carries are the entire
// concurrency contract between them.
type TaskStore interface {
	// BeginGeneration marks the task pending and returns the attempt token.
	BeginGeneration(taskID string) (string, error)
	// ResolveGeneration applies a decomposition outcome. It reports false
	// when the attempt is stale and the outcome was discarded.
	ResolveGeneration(taskID, token string, texts []string) bool
}

// Config carries the coordinator's collaborators.
type Config struct {
	// Store receives begin/resolve calls. Required.
	Store TaskStore
	// Generator produces the subtasks. Required.
	Generator Generator
	// Logger receives debug lines. Nil disables logging.
	Logger *DebugLogger
	// EventBuffer is the event channel capacity. Zero or negative means
	// DefaultEventBuffer.
	EventBuffer int
}

// Coordinator runs at most one decomposition per task at a time and folds
// results back into the store. Each request resolves exactly once: as
// applied subtasks, as a failure, or as a silent discard when the task
// was deleted or re-requested while the response was in flight.
type Coordinator struct {
	store   TaskStore
	gen     Generator
	emitter *EventEmitter
	logger  *DebugLogger
	wg      sync.WaitGroup
}

// New creates a Coordinator from the given config.
func New(cfg Config) *Coordinator {
	buffer := cfg.EventBuffer
	if buffer <= 0 {
		buffer = DefaultEventBuffer
	}
	return &Coordinator{
		store:   cfg.Store,
		gen:     cfg.Generator,
		emitter: NewEventEmitter(buffer),
		logger:  cfg.Logger,
	}
}

// Request starts one decomposition for the task. It fails fast, without
// contacting the service, when the store rejects the attempt (unknown
// task, already pending, already decomposed, completed); nothing is left
// in flight in that case. On success the request runs in the background
// and its outcome arrives on Events.
func (c *Coordinator) Request(ctx context.Context, taskID, text string) error {
	token, err := c.store.BeginGeneration(taskID)
	if err != nil {
		return fmt.Errorf("begin generation: %w", err)
	}
	c.logger.Log("decomposition started: task=%s token=%s", taskID, token)

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.run(ctx, taskID, token, text)
	}()
	return nil
}

// run performs one decomposition attempt and settles it against the
// store.
func (c *Coordinator) run(ctx context.Context, taskID, token, text string) {
	texts, err := c.gen.Subtasks(ctx, text)

	cleaned := make([]string, 0, len(texts))
	for _, t := range texts {
		if t = strings.TrimSpace(t); t != "" {
			cleaned = append(cleaned, t)
		}
	}
	if err == nil && len(cleaned) == 0 {
		err = ErrEmptyDecomposition
	}

	if err != nil {
		c.logger.Log("decomposition failed: task=%s err=%v", taskID, err)
		if c.store.ResolveGeneration(taskID, token, nil) {
			c.emitter.Emit(Event{
				Type:      EventGenerationFailed,
				TaskID:    taskID,
				Message:   "Couldn't break down the task. Try again.",
				Err:       err,
				Timestamp: time.Now(),
			})
		}
		return
	}

	if !c.store.ResolveGeneration(taskID, token, cleaned) {
		// The task was deleted, or this attempt was superseded. The
		// result is discarded without any user-visible trace.
		c.logger.Log("stale decomposition discarded: task=%s token=%s", taskID, token)
		return
	}
	c.logger.Log("decomposition applied: task=%s subtasks=%d", taskID, len(cleaned))
	c.emitter.Emit(Event{
		Type:      EventDecomposed,
		TaskID:    taskID,
		Subtasks:  len(cleaned),
		Message:   fmt.Sprintf("Broke the task into %d steps", len(cleaned)),
		Timestamp: time.Now(),
	})
}

// Events returns the channel consumers watch for decomposition outcomes.
func (c *Coordinator) Events() <-chan Event {
	return c.emitter.Events()
}

// Dropped returns how many events were dropped because no one drained
// the channel in time.
func (c *Coordinator) Dropped() uint64 {
	return c.emitter.DroppedCount()
}

// Wait blocks until every in-flight request has settled.
func (c *Coordinator) Wait() {
	c.wg.Wait()
}

// Close waits for in-flight requests to settle and closes the event
// channel. No Request call may follow.
func (c *Coordinator) Close() {
	c.wg.Wait()
	c.emitter.Close()
}
