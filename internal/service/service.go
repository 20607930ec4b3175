// Package service defines the task vocabulary shared by the registry, the
// store and the views.
package service

import (
	"context"
	"errors"
)

var (
	// ErrInvalidInput is returned for a blank task name or an unknown filter mode.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound is returned when a task name does not exist.
	ErrNotFound = errors.New("task not found")

	// ErrStorageFailure wraps any failure of the persistent store.
	ErrStorageFailure = errors.New("storage failure")
)

// Service is the interface views use to drive task state.
// Views never talk to the store directly.
type Service interface {
	// AddTask creates a task, or re-activates an existing task with the same name.
	AddTask(ctx context.Context, name string) (Task, error)

	// ToggleCompletion sets the completed flag of an existing task.
	ToggleCompletion(ctx context.Context, name string, completed bool) (Task, error)

	// ListTasks returns the canonical task list in insertion order.
	ListTasks() []Task

	// Lookup finds a task by exact (trimmed) name.
	Lookup(name string) (Task, bool)

	// Filter returns the current filter mode.
	Filter() FilterMode

	// SetFilter changes the current filter mode.
	SetFilter(mode FilterMode) error

	// Snapshot returns the task list and filter as one consistent value.
	Snapshot() Snapshot

	// Subscribe registers a listener for snapshots.
	// The returned function removes it.
	Subscribe(l Listener) func()
}

// Listener receives a snapshot after every change of task state or filter.
type Listener interface {
	TasksChanged(s Snapshot)
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(s Snapshot)

// TasksChanged implements Listener.
func (f ListenerFunc) TasksChanged(s Snapshot) { f(s) }
