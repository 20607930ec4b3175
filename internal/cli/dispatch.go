package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"ltask/internal/commands"
	"ltask/internal/config"
	"ltask/internal/exitcode"
	"ltask/internal/logging"
	"ltask/internal/metrics"
	"ltask/internal/service"
)

// ServiceFactory creates a Service from config.
// Used to inject the store during dispatch. The returned function releases
// whatever the service holds open.
type ServiceFactory func(ctx context.Context, cfg *config.Config, logger *slog.Logger) (service.Service, func() error, error)

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	registry *commands.Registry
	factory  ServiceFactory
}

// NewDispatcher creates a new dispatcher with the given registry and service factory.
func NewDispatcher(registry *commands.Registry, factory ServiceFactory) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		factory:  factory,
	}
}

// commonFlags are accepted by every command.
type commonFlags struct {
	configDir string
	quiet     bool
	debug     bool
	ephemeral bool
}

// Run parses arguments and dispatches to the appropriate command.
// Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	// No args -> dispatch to "list" command with no args
	if len(args) == 0 {
		args = []string{"list"}
	}

	cmdName := args[0]

	// If first token starts with -, it's an error (flags require a command)
	if strings.HasPrefix(cmdName, "-") {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}
	if _, ok := d.registry.Find(cmdName); !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}

	code := exitcode.Success
	root := d.newRoot(&code, out, errOut)
	root.SetArgs(args)

	if err := root.ExecuteContext(ctx); err != nil {
		// Only flag and argument parsing errors reach here.
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	return code
}

// newRoot builds a cobra tree with one subcommand per registered command.
// Each subcommand stores its exit code in *code.
func (d *Dispatcher) newRoot(code *int, out, errOut io.Writer) *cobra.Command {
	var flags commonFlags

	root := &cobra.Command{
		Use:           config.AppName,
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetOut(out)
	root.SetErr(errOut)

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configDir, "config", "", "override config directory")
	pf.BoolVar(&flags.quiet, "quiet", false, "suppress informational output")
	pf.BoolVar(&flags.debug, "debug", false, "print debug logs to stderr")
	pf.BoolVar(&flags.ephemeral, "ephemeral", false, "keep tasks in memory only")

	for _, cmd := range d.registry.All() {
		sub := &cobra.Command{
			Use:     cmd.Name(),
			Aliases: cmd.Aliases(),
			Short:   cmd.Synopsis(),
			Args:    cobra.ArbitraryArgs,
			RunE: func(c *cobra.Command, args []string) error {
				*code = d.execute(c.Context(), cmd, flags, args, out, errOut)
				return nil
			},
		}
		cmd.RegisterFlags(sub.Flags())

		if cmd.Name() == "help" {
			root.SetHelpCommand(sub)
			// --help on any command prints the same text as `ltask help`.
			root.SetHelpFunc(func(c *cobra.Command, _ []string) {
				*code = cmd.Run(c.Context(), &config.Config{}, nil, nil, out, errOut)
			})
			continue
		}
		root.AddCommand(sub)
	}

	return root
}

// execute loads config, opens the store when the command needs one, and runs it.
// Commands without a store still run when config.yaml is invalid.
func (d *Dispatcher) execute(ctx context.Context, cmd commands.Command, flags commonFlags, args []string, out, errOut io.Writer) int {
	cfg, loadErr := config.Load(flags.configDir)
	if loadErr != nil {
		if cmd.NeedsStore() {
			fmt.Fprintf(errOut, "error: %v\n", loadErr)
			return exitcode.ConfigError
		}
		cfg, _ = config.New(flags.configDir)
	}
	cfg.Quiet = flags.quiet
	cfg.Debug = flags.debug
	cfg.Ephemeral = flags.ephemeral

	lg, err := logging.New(logging.Config{
		Level:  cfg.LogLevel(),
		File:   cfg.File.Log.File,
		Stderr: errOut,
	})
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.ConfigError
	}
	defer lg.Close()

	logger := lg.With("session", uuid.NewString(), "command", cmd.Name())
	logger.Debug("dispatch", "args", args, "config_dir", cfg.Dir)
	if loadErr != nil {
		logger.Debug("ignoring config", "error", loadErr)
	}

	var svc service.Service
	if cmd.NeedsStore() {
		if d.factory == nil {
			fmt.Fprintln(errOut, "error: storage error: no store configured")
			return exitcode.StorageError
		}
		s, closeFn, err := d.factory(ctx, cfg, logger)
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.StorageError
		}
		defer func() {
			if err := closeFn(); err != nil {
				logger.Warn("close store", "error", err)
			}
		}()
		svc = s
	}

	code := cmd.Run(ctx, cfg, svc, args, out, errOut)
	logger.Debug("command finished", "exit_code", code)

	if err := metrics.WriteTextfile(cfg.File.Metrics.Textfile, nil); err != nil {
		logger.Warn("write metrics", "error", err)
	}
	return code
}
