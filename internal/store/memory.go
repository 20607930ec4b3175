package store

import (
	"context"
	"fmt"
	"sync"
)

// Memory is a Store that lives only as long as the process.
// Values are kept in their encoded text form, like the durable backends.
type Memory struct {
	mu     sync.RWMutex
	data   map[string]string
	closed bool
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string]string)}
}

// Put implements Store.
func (m *Memory) Put(ctx context.Context, name string, completed bool) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("put %q: %w", name, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	m.data[name] = EncodeBool(completed)
	return nil
}

// GetAll implements Store.
func (m *Memory) GetAll(ctx context.Context) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("get all: %w", err)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, ErrClosed
	}
	entries := make([]Entry, 0, len(m.data))
	for name, v := range m.data {
		entries = append(entries, Entry{Name: name, Completed: DecodeBool(v)})
	}
	return entries, nil
}

// Close implements Store. Further calls fail with ErrClosed.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
