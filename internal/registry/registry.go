// Package registry holds the canonical task list.
//
// The Registry is the single source of truth for tasks. Every mutation goes
// through the store first; the in-memory list changes only after the write
// succeeds, so memory never runs ahead of durable state. Views subscribe as
// listeners and render whatever snapshot they receive.
package registry

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"ltask/internal/logging"
	"ltask/internal/service"
	"ltask/internal/store"
)

// Registry implements service.Service on top of a store.Store.
type Registry struct {
	store  store.Store
	logger *slog.Logger

	mu     sync.Mutex
	tasks  []service.Task
	index  map[string]int // name -> position in tasks
	filter service.FilterMode

	seq    uint64 // Seq of the latest snapshot

	lmu       sync.Mutex
	listeners map[int]service.Listener
	nextID    int

	dmu       sync.Mutex // serializes delivery
	delivered uint64     // Seq of the last delivered snapshot
}

// loadedEntry is the persisted entry chosen for a name during Initialize.
type loadedEntry struct {
	key       string
	exact     bool // key is already trimmed
	completed bool
}

func (e loadedEntry) replaces(prev loadedEntry) bool {
	if e.exact != prev.exact {
		return e.exact
	}
	return e.key >= prev.key
}

var _ service.Service = (*Registry)(nil)

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithFilter sets the initial filter mode.
func WithFilter(mode service.FilterMode) Option {
	return func(r *Registry) {
		if mode.Valid() {
			r.filter = mode
		}
	}
}

// New creates an empty registry over s. Call Initialize to load persisted tasks.
func New(s store.Store, opts ...Option) *Registry {
	r := &Registry{
		store:     s,
		logger:    logging.Discard().Logger,
		index:     make(map[string]int),
		filter:    service.FilterAll,
		listeners: make(map[int]service.Listener),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Initialize replaces the in-memory list with the store's contents.
//
// Every persisted task is restored, completed or not. Keys are trimmed; when
// several keys trim to the same name, the key already in trimmed form wins,
// then the greatest raw key, then the last entry seen. Writes always use the
// trimmed name, so after one toggle the trimmed key decides the value on
// every later restart. Loaded tasks are ordered by name since the store does
// not preserve insertion order. On a read failure the previous state is kept.
func (r *Registry) Initialize(ctx context.Context) error {
	entries, err := r.store.GetAll(ctx)
	if err != nil {
		recordOp("initialize", resultStorageFailure)
		return fmt.Errorf("%w: load tasks: %w", service.ErrStorageFailure, err)
	}

	latest := make(map[string]loadedEntry, len(entries))
	for _, e := range entries {
		name := service.NormalizeName(e.Name)
		if name == "" {
			r.logger.Warn("skipping persisted entry with blank name")
			continue
		}
		next := loadedEntry{key: e.Name, exact: e.Name == name, completed: e.Completed}
		if prev, ok := latest[name]; ok && !next.replaces(prev) {
			continue
		}
		if !next.exact {
			r.logger.Warn("persisted task name has surrounding whitespace", "key", e.Name)
		}
		latest[name] = next
	}

	names := make([]string, 0, len(latest))
	for name := range latest {
		names = append(names, name)
	}
	sort.Strings(names)

	tasks := make([]service.Task, len(names))
	index := make(map[string]int, len(names))
	for i, name := range names {
		tasks[i] = service.Task{Name: name, Completed: latest[name].completed}
		index[name] = i
	}

	r.mu.Lock()
	r.tasks = tasks
	r.index = index
	snap := r.nextSnapshotLocked()
	r.mu.Unlock()

	recordOp("initialize", resultOK)
	r.logger.Debug("tasks loaded", "count", len(tasks))
	r.notify(snap)
	return nil
}

// AddTask adds a task named name (trimmed).
//
// A blank name fails with service.ErrInvalidInput. If the name already
// exists the task is re-activated in place: its completed flag is reset to
// false and no second entry is created. Either way exactly one store write
// of (name, false) happens.
func (r *Registry) AddTask(ctx context.Context, name string) (service.Task, error) {
	name = service.NormalizeName(name)
	if name == "" {
		recordOp("add", resultInvalidInput)
		return service.Task{}, fmt.Errorf("%w: task name is empty", service.ErrInvalidInput)
	}

	r.mu.Lock()
	if err := r.put(ctx, name, false); err != nil {
		r.mu.Unlock()
		recordOp("add", resultStorageFailure)
		return service.Task{}, err
	}

	task := service.Task{Name: name, Completed: false}
	if i, ok := r.index[name]; ok {
		r.tasks[i] = task
		r.logger.Debug("task re-activated", "name", name)
	} else {
		r.index[name] = len(r.tasks)
		r.tasks = append(r.tasks, task)
		r.logger.Debug("task added", "name", name)
	}
	snap := r.nextSnapshotLocked()
	r.mu.Unlock()

	recordOp("add", resultOK)
	r.notify(snap)
	return task, nil
}

// ToggleCompletion sets the completed flag of the task named name.
// An unknown name fails with service.ErrNotFound and writes nothing.
func (r *Registry) ToggleCompletion(ctx context.Context, name string, completed bool) (service.Task, error) {
	name = service.NormalizeName(name)

	r.mu.Lock()
	i, ok := r.index[name]
	if !ok {
		r.mu.Unlock()
		recordOp("toggle", resultNotFound)
		return service.Task{}, fmt.Errorf("%w: %s", service.ErrNotFound, name)
	}
	if err := r.put(ctx, name, completed); err != nil {
		r.mu.Unlock()
		recordOp("toggle", resultStorageFailure)
		return service.Task{}, err
	}

	r.tasks[i].Completed = completed
	task := r.tasks[i]
	snap := r.nextSnapshotLocked()
	r.mu.Unlock()

	r.logger.Debug("task toggled", "name", name, "completed", completed)
	recordOp("toggle", resultOK)
	r.notify(snap)
	return task, nil
}

// put writes one entry. Caller holds r.mu.
func (r *Registry) put(ctx context.Context, name string, completed bool) error {
	start := time.Now()
	err := r.store.Put(ctx, name, completed)
	storeWriteDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		r.logger.Error("store write failed", "name", name, "error", err)
		return fmt.Errorf("%w: save %q: %w", service.ErrStorageFailure, name, err)
	}
	return nil
}

// ListTasks returns a copy of the canonical list.
func (r *Registry) ListTasks() []service.Task {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.copyTasksLocked()
}

// Lookup finds a task by name.
func (r *Registry) Lookup(name string) (service.Task, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i, ok := r.index[service.NormalizeName(name)]
	if !ok {
		return service.Task{}, false
	}
	return r.tasks[i], true
}

// Filter returns the current filter mode.
func (r *Registry) Filter() service.FilterMode {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.filter
}

// SetFilter changes the filter mode and notifies listeners.
func (r *Registry) SetFilter(mode service.FilterMode) error {
	if !mode.Valid() {
		return fmt.Errorf("%w: unknown filter mode %d", service.ErrInvalidInput, mode)
	}
	r.mu.Lock()
	r.filter = mode
	snap := r.nextSnapshotLocked()
	r.mu.Unlock()

	r.notify(snap)
	return nil
}

// Snapshot returns the current tasks and filter.
func (r *Registry) Snapshot() service.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

// Subscribe registers l and returns a function that removes it.
func (r *Registry) Subscribe(l service.Listener) func() {
	r.lmu.Lock()
	defer r.lmu.Unlock()
	id := r.nextID
	r.nextID++
	r.listeners[id] = l
	return func() {
		r.lmu.Lock()
		defer r.lmu.Unlock()
		delete(r.listeners, id)
	}
}

// Close closes the underlying store.
func (r *Registry) Close() error {
	return r.store.Close()
}

func (r *Registry) copyTasksLocked() []service.Task {
	out := make([]service.Task, len(r.tasks))
	copy(out, r.tasks)
	return out
}

func (r *Registry) snapshotLocked() service.Snapshot {
	return service.Snapshot{Tasks: r.copyTasksLocked(), Filter: r.filter, Seq: r.seq}
}

// nextSnapshotLocked records a change and returns the new snapshot.
func (r *Registry) nextSnapshotLocked() service.Snapshot {
	r.seq++
	return r.snapshotLocked()
}

// notify delivers snap to every listener. It runs outside r.mu, so
// listeners may read the registry, but they must not mutate it.
//
// Deliveries are serialized and never go backwards: when two changes race,
// a snapshot older than one already delivered is dropped, so every listener
// ends on the latest state.
func (r *Registry) notify(snap service.Snapshot) {
	r.dmu.Lock()
	defer r.dmu.Unlock()
	if snap.Seq <= r.delivered {
		return
	}
	r.delivered = snap.Seq
	updateGauges(snap.Tasks)

	r.lmu.Lock()
	ids := make([]int, 0, len(r.listeners))
	for id := range r.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	listeners := make([]service.Listener, 0, len(ids))
	for _, id := range ids {
		listeners = append(listeners, r.listeners[id])
	}
	r.lmu.Unlock()

	for _, l := range listeners {
		l.TasksChanged(snap)
	}
}
