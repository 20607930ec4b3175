package commands

import (
	"context"
	"io"

	"github.com/spf13/pflag"

	"ltask/internal/config"
	"ltask/internal/exitcode"
	"ltask/internal/filter"
	"ltask/internal/output"
	"ltask/internal/service"
)

func init() {
	Register(&StatsCmd{})
}

// StatsCmd prints the number of tasks per status.
type StatsCmd struct{}

func (c *StatsCmd) Name() string      { return "stats" }
func (c *StatsCmd) Aliases() []string { return nil }
func (c *StatsCmd) Synopsis() string  { return "Count tasks by status" }
func (c *StatsCmd) Usage() string     { return "ltask stats" }
func (c *StatsCmd) NeedsStore() bool  { return true }

func (c *StatsCmd) RegisterFlags(fs *pflag.FlagSet) {}

func (c *StatsCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	output.FormatCounts(out, filter.Count(svc.ListTasks()))
	return exitcode.Success
}
