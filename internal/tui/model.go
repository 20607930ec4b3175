// Package tui is the interactive checkbox view over a task service.
//
// The model keeps only the last snapshot it received. Every key that
// changes state is turned into a registry intent and dispatched from a
// tea.Cmd; the registry's listener delivers the resulting snapshot back
// into the program.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"ltask/internal/filter"
	"ltask/internal/registry"
	"ltask/internal/service"
)

type focus int

const (
	focusList focus = iota
	focusInput
)

// snapshotMsg carries a registry snapshot into the program.
type snapshotMsg service.Snapshot

// errMsg reports a rejected intent.
type errMsg struct{ err error }

// Model is the bubbletea model for the task view.
type Model struct {
	ctx context.Context
	svc service.Service

	input  textinput.Model
	focus  focus
	tasks  []service.Task
	mode   service.FilterMode
	seq    uint64
	cursor int // index into the visible tasks
	err    error
	width  int

	quitting bool
}

// New creates a model showing the current state of svc.
func New(ctx context.Context, svc service.Service) Model {
	ti := textinput.New()
	ti.Placeholder = "new task"
	ti.Prompt = "+ "
	ti.CharLimit = 256

	snap := svc.Snapshot()
	return Model{
		ctx:   ctx,
		svc:   svc,
		input: ti,
		tasks: snap.Tasks,
		mode:  snap.Filter,
		seq:   snap.Seq,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = max(msg.Width-len(m.input.Prompt)-1, 0)
		return m, nil

	case snapshotMsg:
		if msg.Seq < m.seq {
			return m, nil
		}
		m.seq = msg.Seq
		m.tasks = msg.Tasks
		m.mode = msg.Filter
		m.err = nil
		m.clampCursor()
		return m, nil

	case errMsg:
		m.err = msg.err
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.quitting = true
			return m, tea.Quit
		}
		if m.focus == focusInput {
			return m.updateInput(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		text := m.input.Value()
		m.input.Reset()
		m.input.Blur()
		m.focus = focusList
		return m, m.dispatch(registry.AddIntent{Text: text})

	case tea.KeyEsc:
		m.input.Reset()
		m.input.Blur()
		m.focus = focusList
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		m.quitting = true
		return m, tea.Quit

	case "a", "i", "enter":
		m.focus = focusInput
		return m, m.input.Focus()

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case "down", "j":
		if m.cursor < len(m.visible())-1 {
			m.cursor++
		}
		return m, nil

	case " ", "x":
		task, ok := m.Selected()
		if !ok {
			return m, nil
		}
		return m, m.dispatch(registry.ToggleIntent{Name: task.Name, Completed: !task.Completed})

	case "tab":
		return m, m.dispatch(registry.FilterIntent{Mode: m.mode.Next()})

	case "1", "2", "3":
		mode := service.FilterModes[msg.String()[0]-'1']
		return m, m.dispatch(registry.FilterIntent{Mode: mode})
	}
	return m, nil
}

// dispatch applies in off the event loop. Success produces no message of its
// own: the registry notifies listeners with the new snapshot.
func (m Model) dispatch(in registry.Intent) tea.Cmd {
	ctx, svc := m.ctx, m.svc
	return func() tea.Msg {
		if err := registry.Dispatch(ctx, svc, in); err != nil {
			return errMsg{err: err}
		}
		return nil
	}
}

// visible returns the tasks shown under the current filter.
func (m Model) visible() []service.Task {
	return filter.Apply(m.tasks, m.mode)
}

// Selected returns the task under the cursor.
func (m Model) Selected() (service.Task, bool) {
	vis := m.visible()
	if m.cursor < 0 || m.cursor >= len(vis) {
		return service.Task{}, false
	}
	return vis[m.cursor], true
}

// Filter returns the filter mode of the last snapshot.
func (m Model) Filter() service.FilterMode { return m.mode }

// Err returns the error from the last rejected intent, if any.
func (m Model) Err() error { return m.err }

// Editing reports whether the new-task input has focus.
func (m Model) Editing() bool { return m.focus == focusInput }

func (m *Model) clampCursor() {
	n := len(m.visible())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}
