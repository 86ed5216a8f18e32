package models

import (
	"fmt"
	"strings"
)

// Filter selects which tasks a view includes.
type Filter string

const (
	// FilterAll includes every task.
	FilterAll Filter = "all"
	// FilterActive includes only tasks not yet completed.
	FilterActive Filter = "active"
	// FilterCompleted includes only completed tasks.
	FilterCompleted Filter = "completed"
)

// Valid returns true if the filter is a known value.
func (f Filter) Valid() bool {
	switch f {
	case FilterAll, FilterActive, FilterCompleted:
		return true
	default:
		return false
	}
}

// Matches reports whether the task belongs to this filter's view. Only
// the task's own completed flag is consulted; subtasks never affect
// membership directly.
func (f Filter) Matches(t *Task) bool {
	switch f {
	case FilterActive:
		return !t.Completed
	case FilterCompleted:
		return t.Completed
	default:
		return true
	}
}

// Next cycles to the following filter: all, active, completed, all.
func (f Filter) Next() Filter {
	switch f {
	case FilterAll:
		return FilterActive
	case FilterActive:
		return FilterCompleted
	default:
		return FilterAll
	}
}

// ParseFilter maps a user-supplied name to a Filter. Matching is
// case-insensitive.
func ParseFilter(s string) (Filter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "all", "":
		return FilterAll, nil
	case "active":
		return FilterActive, nil
	case "completed", "done":
		return FilterCompleted, nil
	default:
		return FilterAll, fmt.Errorf("unknown filter %q (expected all, active, or completed)", s)
	}
}
