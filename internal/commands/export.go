package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"ltask/internal/config"
	"ltask/internal/exitcode"
	"ltask/internal/export"
	"ltask/internal/service"
)

func init() {
	Register(&ExportCmd{})
	Register(&ImportCmd{})
}

// ExportCmd writes all tasks as a Google Tasks JSON document.
type ExportCmd struct {
	outputPath string
}

// SetOutput sets the output path (for testing).
func (c *ExportCmd) SetOutput(path string) {
	c.outputPath = path
}

func (c *ExportCmd) Name() string      { return "export" }
func (c *ExportCmd) Aliases() []string { return nil }
func (c *ExportCmd) Synopsis() string  { return "Export tasks as Google Tasks JSON" }
func (c *ExportCmd) Usage() string     { return "ltask export [--output <file>]" }
func (c *ExportCmd) NeedsStore() bool  { return true }

func (c *ExportCmd) RegisterFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&c.outputPath, "output", "o", "", "")
}

func (c *ExportCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	tasks := svc.ListTasks()

	if c.outputPath == "" || c.outputPath == "-" {
		if err := export.Write(out, tasks); err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
		return exitcode.Success
	}

	f, err := os.Create(c.outputPath)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	if err := export.Write(f, tasks); err != nil {
		f.Close()
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	if err := f.Close(); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "exported %d tasks\n", len(tasks))
	}
	return exitcode.Success
}

// ImportCmd adds every task from a Google Tasks JSON document.
type ImportCmd struct{}

func (c *ImportCmd) Name() string      { return "import" }
func (c *ImportCmd) Aliases() []string { return nil }
func (c *ImportCmd) Synopsis() string  { return "Import tasks from Google Tasks JSON" }
func (c *ImportCmd) Usage() string     { return "ltask import <file>" }
func (c *ImportCmd) NeedsStore() bool  { return true }

func (c *ImportCmd) RegisterFlags(fs *pflag.FlagSet) {}

func (c *ImportCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) != 1 {
		fmt.Fprintln(errOut, "error: file required")
		return exitcode.UserError
	}

	f, err := os.Open(args[0])
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	defer f.Close()

	tasks, err := export.Read(f)
	if err != nil {
		return reportError(errOut, err)
	}

	n, err := export.Apply(ctx, svc, tasks)
	if err != nil {
		fmt.Fprintf(errOut, "error: imported %d of %d tasks\n", n, len(tasks))
		return reportError(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "imported %d tasks\n", n)
	}
	return exitcode.Success
}
