// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"errors"
	"sync"

	"ltask/internal/store"
)

// ErrInjected is a convenience error for failure injection.
var ErrInjected = errors.New("injected failure")

// Write records one Put call.
type Write struct {
	Name      string
	Completed bool
}

// FakeStore is an in-memory implementation of store.Store for testing.
// It records every write and lets tests inject failures.
type FakeStore struct {
	mu     sync.Mutex
	data   map[string]bool
	order  []string
	writes []Write
	closed bool

	// Error injection for testing
	PutErr    error
	GetAllErr error
	CloseErr  error

	// PutErrFor fails writes for specific names only.
	PutErrFor map[string]error
}

// NewFakeStore creates an empty FakeStore.
func NewFakeStore() *FakeStore {
	return &FakeStore{
		data:      make(map[string]bool),
		PutErrFor: make(map[string]error),
	}
}

// Seed stores entries without recording them as writes.
func (f *FakeStore) Seed(entries ...store.Entry) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range entries {
		f.set(e.Name, e.Completed)
	}
}

func (f *FakeStore) set(name string, completed bool) {
	if _, ok := f.data[name]; !ok {
		f.order = append(f.order, name)
	}
	f.data[name] = completed
}

// Put implements store.Store.
func (f *FakeStore) Put(ctx context.Context, name string, completed bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return store.ErrClosed
	}
	if f.PutErr != nil {
		return f.PutErr
	}
	if err := f.PutErrFor[name]; err != nil {
		return err
	}
	f.writes = append(f.writes, Write{Name: name, Completed: completed})
	f.set(name, completed)
	return nil
}

// GetAll implements store.Store. Entries come back in first-write order.
func (f *FakeStore) GetAll(ctx context.Context) ([]store.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return nil, store.ErrClosed
	}
	if f.GetAllErr != nil {
		return nil, f.GetAllErr
	}
	entries := make([]store.Entry, 0, len(f.order))
	for _, name := range f.order {
		entries = append(entries, store.Entry{Name: name, Completed: f.data[name]})
	}
	return entries, nil
}

// Close implements store.Store.
func (f *FakeStore) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.CloseErr != nil {
		return f.CloseErr
	}
	f.closed = true
	return nil
}

// Writes returns a copy of every successful Put, in call order.
func (f *FakeStore) Writes() []Write {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Write, len(f.writes))
	copy(out, f.writes)
	return out
}

// Value returns the stored flag for name.
func (f *FakeStore) Value(name string) (completed, ok bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	completed, ok = f.data[name]
	return completed, ok
}
