package registry

import (
	"context"
	"fmt"

	"ltask/internal/service"
)

// Intent is a user action reported by a view.
type Intent interface {
	intent()
}

// AddIntent asks to add (or re-activate) a task.
type AddIntent struct {
	Text string
}

// ToggleIntent asks to set a task's completed flag.
type ToggleIntent struct {
	Name      string
	Completed bool
}

// FilterIntent asks to change the filter mode.
type FilterIntent struct {
	Mode service.FilterMode
}

func (AddIntent) intent()    {}
func (ToggleIntent) intent() {}
func (FilterIntent) intent() {}

// Handle applies one intent. Listeners are notified on success.
func (r *Registry) Handle(ctx context.Context, in Intent) error {
	return Dispatch(ctx, r, in)
}

// Dispatch applies one intent to any service.Service.
func Dispatch(ctx context.Context, svc service.Service, in Intent) error {
	switch in := in.(type) {
	case AddIntent:
		_, err := svc.AddTask(ctx, in.Text)
		return err
	case ToggleIntent:
		_, err := svc.ToggleCompletion(ctx, in.Name, in.Completed)
		return err
	case FilterIntent:
		return svc.SetFilter(in.Mode)
	default:
		return fmt.Errorf("%w: unsupported intent %T", service.ErrInvalidInput, in)
	}
}
