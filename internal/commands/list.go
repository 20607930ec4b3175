package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"ltask/internal/config"
	"ltask/internal/exitcode"
	"ltask/internal/filter"
	"ltask/internal/output"
	"ltask/internal/service"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command.
// Handles both `ltask` (no args) and `ltask list --filter <mode>`.
// Numbers are positions in the full list, so they stay valid as refs for
// done/reopen whatever filter is applied.
type ListCmd struct {
	filterName string
}

// SetFilter sets the filter name (for testing).
func (c *ListCmd) SetFilter(name string) {
	c.filterName = name
}

func (c *ListCmd) Name() string      { return "list" }
func (c *ListCmd) Aliases() []string { return []string{"ls"} }
func (c *ListCmd) Synopsis() string  { return "List tasks" }
func (c *ListCmd) Usage() string     { return "ltask list [--filter all|active|completed]" }
func (c *ListCmd) NeedsStore() bool  { return true }

func (c *ListCmd) RegisterFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&c.filterName, "filter", "f", "all", "")
}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	mode, err := filter.ParseMode(c.filterName)
	if err != nil {
		fmt.Fprintf(errOut, "error: unknown filter: %s\n", c.filterName)
		return exitcode.UserError
	}
	if err := svc.SetFilter(mode); err != nil {
		return reportError(errOut, err)
	}

	mode = svc.Filter()
	tasks := svc.ListTasks()

	if filter.Count(tasks).Of(mode) == 0 {
		if !cfg.Quiet {
			fmt.Fprintln(out, "no tasks found")
		}
		return exitcode.Success
	}

	if mode != service.FilterAll {
		output.FormatFilterHeader(out, mode)
	}
	for i, task := range tasks {
		if filter.IsVisible(task, mode) {
			output.FormatTask(out, i+1, task)
		}
	}
	return exitcode.Success
}
