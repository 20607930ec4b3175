package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"ltask/internal/config"
	"ltask/internal/exitcode"
	"ltask/internal/service"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "ltask help" }
func (c *HelpCmd) NeedsStore() bool  { return false }

func (c *HelpCmd) RegisterFlags(fs *pflag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, helpText)
	return exitcode.Success
}

const helpText = `Usage:
  ltask                                          List all tasks
  ltask list [common flags] [--filter <mode>]    List tasks (all, active, completed)
  ltask add [common flags] <text...>             Add a task, or re-activate it
  ltask create [common flags] <text...>
  ltask done [common flags] <ref>                Mark a task completed
  ltask reopen [common flags] <ref>              Mark a task active again
  ltask toggle [common flags] <ref> <true|false>
  ltask stats [common flags]                     Count tasks by status
  ltask export [common flags] [--output <file>]  Write tasks as Google Tasks JSON
  ltask import [common flags] <file>             Add tasks from Google Tasks JSON
  ltask tui [common flags]                       Interactive view
  ltask help
  ltask version

A <ref> is a task name, or the number shown by list.

Common flags:
  --config <dir>   Override config directory
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr
  --ephemeral      Keep tasks in memory only
`
