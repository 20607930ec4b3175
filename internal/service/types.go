// Package service defines the task vocabulary shared by the registry, the
// store and the views.
package service

import "strings"

// Status values, matching the Google Tasks vocabulary.
const (
	StatusNeedsAction = "needsAction"
	StatusCompleted   = "completed"
)

// Task represents a single task item.
// Name is the identity: there is at most one live task per name.
type Task struct {
	Name      string
	Completed bool
}

// Status returns "needsAction" or "completed".
func (t Task) Status() string {
	if t.Completed {
		return StatusCompleted
	}
	return StatusNeedsAction
}

// FilterMode selects which tasks a view shows.
type FilterMode int

const (
	// FilterAll shows every task.
	FilterAll FilterMode = iota

	// FilterActive shows tasks that are not completed.
	FilterActive

	// FilterCompleted shows completed tasks only.
	FilterCompleted
)

// FilterModes lists the modes in display order.
var FilterModes = []FilterMode{FilterAll, FilterActive, FilterCompleted}

// String returns "all", "active" or "completed".
func (m FilterMode) String() string {
	switch m {
	case FilterAll:
		return "all"
	case FilterActive:
		return "active"
	case FilterCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// Valid reports whether m is one of the defined modes.
func (m FilterMode) Valid() bool {
	return m >= FilterAll && m <= FilterCompleted
}

// Next returns the mode after m, wrapping around.
func (m FilterMode) Next() FilterMode {
	if !m.Valid() {
		return FilterAll
	}
	return FilterModes[(int(m)+1)%len(FilterModes)]
}

// NormalizeName trims surrounding whitespace from a task name.
func NormalizeName(name string) string {
	return strings.TrimSpace(name)
}

// Snapshot is the canonical task list plus the current filter.
// Seq increases with every change, so a later snapshot always has a
// larger Seq.
type Snapshot struct {
	Tasks  []Task
	Filter FilterMode
	Seq    uint64
}
