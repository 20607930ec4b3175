package commands

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/pflag"

	"ltask/internal/config"
	"ltask/internal/exitcode"
	"ltask/internal/service"
)

func init() {
	Register(&DoneCmd{})
	Register(&ReopenCmd{})
	Register(&ToggleCmd{})
}

// DoneCmd implements the done command.
type DoneCmd struct{}

func (c *DoneCmd) Name() string      { return "done" }
func (c *DoneCmd) Aliases() []string { return []string{"complete"} }
func (c *DoneCmd) Synopsis() string  { return "Mark a task completed" }
func (c *DoneCmd) Usage() string     { return "ltask done <ref>" }
func (c *DoneCmd) NeedsStore() bool  { return true }

func (c *DoneCmd) RegisterFlags(fs *pflag.FlagSet) {}

func (c *DoneCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	return runToggle(ctx, cfg, svc, args, true, out, errOut)
}

// ReopenCmd implements the reopen command.
type ReopenCmd struct{}

func (c *ReopenCmd) Name() string      { return "reopen" }
func (c *ReopenCmd) Aliases() []string { return []string{"undone"} }
func (c *ReopenCmd) Synopsis() string  { return "Mark a task active again" }
func (c *ReopenCmd) Usage() string     { return "ltask reopen <ref>" }
func (c *ReopenCmd) NeedsStore() bool  { return true }

func (c *ReopenCmd) RegisterFlags(fs *pflag.FlagSet) {}

func (c *ReopenCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	return runToggle(ctx, cfg, svc, args, false, out, errOut)
}

// ToggleCmd sets the completed flag explicitly: the last argument is
// "true" or "false".
type ToggleCmd struct{}

func (c *ToggleCmd) Name() string      { return "toggle" }
func (c *ToggleCmd) Aliases() []string { return nil }
func (c *ToggleCmd) Synopsis() string  { return "Set a task's completed flag" }
func (c *ToggleCmd) Usage() string     { return "ltask toggle <ref> <true|false>" }
func (c *ToggleCmd) NeedsStore() bool  { return true }

func (c *ToggleCmd) RegisterFlags(fs *pflag.FlagSet) {}

func (c *ToggleCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) < 2 {
		fmt.Fprintln(errOut, "error: usage: "+c.Usage())
		return exitcode.UserError
	}
	completed, err := strconv.ParseBool(args[len(args)-1])
	if err != nil {
		fmt.Fprintf(errOut, "error: invalid completed value: %s\n", args[len(args)-1])
		return exitcode.UserError
	}
	return runToggle(ctx, cfg, svc, args[:len(args)-1], completed, out, errOut)
}

// runToggle is the shared implementation for done, reopen and toggle.
func runToggle(ctx context.Context, cfg *config.Config, svc service.Service, args []string, completed bool, out, errOut io.Writer) int {
	ref, err := ParseTaskRef(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	task, err := ResolveTaskRef(svc, ref)
	if err != nil {
		return reportError(errOut, err)
	}

	if _, err := svc.ToggleCompletion(ctx, task.Name, completed); err != nil {
		return reportError(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
