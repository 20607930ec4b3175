package tui

import (
	"context"
	"errors"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"ltask/internal/service"
)

// Run starts the interactive view and blocks until the user quits or ctx is
// cancelled. opts are applied after the input and output options.
func Run(ctx context.Context, svc service.Service, in io.Reader, out io.Writer, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
	}, opts...)
	p := tea.NewProgram(New(ctx, svc), opts...)

	unsubscribe := svc.Subscribe(service.ListenerFunc(func(s service.Snapshot) {
		p.Send(snapshotMsg(s))
	}))
	defer unsubscribe()

	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
