// Package filter decides which tasks are visible under a filter mode.
// Every function here is pure.
package filter

import (
	"fmt"
	"strings"

	"ltask/internal/service"
)

// IsVisible reports whether task is shown under mode.
// Unknown modes show everything.
func IsVisible(task service.Task, mode service.FilterMode) bool {
	switch mode {
	case service.FilterActive:
		return !task.Completed
	case service.FilterCompleted:
		return task.Completed
	default:
		return true
	}
}

// Apply returns the visible tasks, preserving order.
func Apply(tasks []service.Task, mode service.FilterMode) []service.Task {
	visible := make([]service.Task, 0, len(tasks))
	for _, t := range tasks {
		if IsVisible(t, mode) {
			visible = append(visible, t)
		}
	}
	return visible
}

// Counts holds the number of tasks per status.
type Counts struct {
	All       int
	Active    int
	Completed int
}

// Count tallies tasks by status.
func Count(tasks []service.Task) Counts {
	var c Counts
	for _, t := range tasks {
		c.All++
		if t.Completed {
			c.Completed++
		} else {
			c.Active++
		}
	}
	return c
}

// Of returns the count matching mode.
func (c Counts) Of(mode service.FilterMode) int {
	switch mode {
	case service.FilterActive:
		return c.Active
	case service.FilterCompleted:
		return c.Completed
	default:
		return c.All
	}
}

// ParseMode parses "all", "active" or "completed" (case-insensitive).
func ParseMode(s string) (service.FilterMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "all", "":
		return service.FilterAll, nil
	case "active":
		return service.FilterActive, nil
	case "completed", "done":
		return service.FilterCompleted, nil
	default:
		return service.FilterAll, fmt.Errorf("%w: unknown filter: %s", service.ErrInvalidInput, s)
	}
}
