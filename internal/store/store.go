// Package store persists task completion flags in a key-value store.
//
// One key per task name; the value is the completion flag encoded as the
// text "true" or "false". The store has no notion of order and no delete.
package store

import (
	"context"
	"errors"
)

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("store is closed")

// Entry is one persisted task.
type Entry struct {
	Name      string
	Completed bool
}

// Store is the durable side of task state.
type Store interface {
	// Put upserts one entry. A later Put for the same name overwrites it.
	Put(ctx context.Context, name string, completed bool) error

	// GetAll returns every persisted entry in unspecified order.
	// Calling it repeatedly without intervening writes returns the same set.
	GetAll(ctx context.Context) ([]Entry, error)

	// Close releases the underlying resources.
	Close() error
}

// EncodeBool renders a completion flag the way it is stored.
func EncodeBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// DecodeBool parses a stored completion flag. Anything but "true" is false.
func DecodeBool(s string) bool {
	return s == "true"
}
