package cli_test

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ltask/internal/cli"
	"ltask/internal/commands"
	"ltask/internal/config"
	"ltask/internal/exitcode"
	"ltask/internal/registry"
	"ltask/internal/service"
	"ltask/internal/testutil"
)

// testFactory creates a service factory that serves one registry over fs.
func testFactory(t *testing.T, fs *testutil.FakeStore) cli.ServiceFactory {
	t.Helper()
	reg := registry.New(fs)
	if err := reg.Initialize(context.Background()); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	return func(ctx context.Context, cfg *config.Config, logger *slog.Logger) (service.Service, func() error, error) {
		return reg, func() error { return nil }, nil
	}
}

func run(t *testing.T, d *cli.Dispatcher, args ...string) (stdout, stderr string, code int) {
	t.Helper()
	var out, errOut bytes.Buffer
	code = d.Run(context.Background(), args, &out, &errOut)
	return out.String(), errOut.String(), code
}

func newDispatcher(t *testing.T) (*cli.Dispatcher, *testutil.FakeStore) {
	t.Helper()
	fs := testutil.NewFakeStore()
	return cli.NewDispatcher(commands.DefaultRegistry, testFactory(t, fs)), fs
}

func TestDispatcher_UnknownCommand(t *testing.T) {
	d, _ := newDispatcher(t)

	_, stderr, code := run(t, d, "unknowncmd")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown command: unknowncmd\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_FlagBeforeCommand(t *testing.T) {
	d, _ := newDispatcher(t)

	_, stderr, code := run(t, d, "--quiet")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown command: --quiet\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_HelpCommand(t *testing.T) {
	d, _ := newDispatcher(t)

	stdout, stderr, code := run(t, d, "help")

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if !strings.Contains(stdout, "Usage:") {
		t.Error("expected help output to contain 'Usage:'")
	}
}

func TestDispatcher_HelpFlag(t *testing.T) {
	d, _ := newDispatcher(t)

	stdout, _, code := run(t, d, "list", "--help")

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if !strings.Contains(stdout, "Usage:\n  ltask") {
		t.Errorf("expected ltask help text, got %q", stdout)
	}
}

func TestDispatcher_VersionCommand(t *testing.T) {
	d, _ := newDispatcher(t)

	stdout, stderr, code := run(t, d, "version")

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "ltask 0.1.0\n" {
		t.Errorf("expected 'ltask 0.1.0\\n', got %q", stdout)
	}
}

func TestDispatcher_UnknownFlag(t *testing.T) {
	d, _ := newDispatcher(t)

	_, stderr, code := run(t, d, "help", "--unknown")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown flag: --unknown\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_MissingFlagValue(t *testing.T) {
	d, _ := newDispatcher(t)

	_, stderr, code := run(t, d, "list", "--filter")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if !strings.HasPrefix(stderr, "error: flag needs an argument") {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestDispatcher_NoArgsLists(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	d, _ := newDispatcher(t)

	if _, _, code := run(t, d, "add", "Buy", "milk"); code != exitcode.Success {
		t.Fatalf("add: expected exit code %d, got %d", exitcode.Success, code)
	}

	stdout, stderr, code := run(t, d)
	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	if stdout != "   1  [ ] Buy milk\n" {
		t.Errorf("unexpected list output %q", stdout)
	}
}

func TestDispatcher_AliasAndFlagsAfterArgs(t *testing.T) {
	d, fs := newDispatcher(t)

	stdout, stderr, code := run(t, d, "create", "Write", "report", "--quiet", "--config", t.TempDir())
	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	if stdout != "" {
		t.Errorf("expected quiet output, got %q", stdout)
	}
	if _, ok := fs.Value("Write report"); !ok {
		t.Error("expected task to be stored")
	}

	stdout, _, code = run(t, d, "ls", "-f", "active", "--config", t.TempDir())
	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if !strings.Contains(stdout, "[ ] Write report") {
		t.Errorf("unexpected list output %q", stdout)
	}
}

func TestDispatcher_DoubleDashPassesDashedName(t *testing.T) {
	d, fs := newDispatcher(t)

	_, stderr, code := run(t, d, "add", "--config", t.TempDir(), "--", "-x")
	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	if _, ok := fs.Value("-x"); !ok {
		t.Error("expected task -x to be stored")
	}
}

func TestDispatcher_StorageErrorExitCode(t *testing.T) {
	d, fs := newDispatcher(t)
	fs.PutErr = testutil.ErrInjected

	_, stderr, code := run(t, d, "add", "--config", t.TempDir(), "a")
	if code != exitcode.StorageError {
		t.Errorf("expected exit code %d, got %d", exitcode.StorageError, code)
	}
	if !strings.HasPrefix(stderr, "error: ") {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestDispatcher_FactoryError(t *testing.T) {
	factory := func(ctx context.Context, cfg *config.Config, logger *slog.Logger) (service.Service, func() error, error) {
		return nil, nil, service.ErrStorageFailure
	}
	d := cli.NewDispatcher(commands.DefaultRegistry, factory)

	_, stderr, code := run(t, d, "list", "--config", t.TempDir())
	if code != exitcode.StorageError {
		t.Errorf("expected exit code %d, got %d", exitcode.StorageError, code)
	}
	if stderr != "error: storage failure\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}

	// Commands without a store never call the factory.
	_, _, code = run(t, d, "version")
	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
}

func TestDispatcher_InvalidConfig(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "store:\n  backend: floppy\n")
	d, _ := newDispatcher(t)

	_, stderr, code := run(t, d, "list", "--config", dir)
	if code != exitcode.ConfigError {
		t.Errorf("expected exit code %d, got %d", exitcode.ConfigError, code)
	}
	if !strings.HasPrefix(stderr, "error: invalid config") {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestDispatcher_InvalidConfigStillShowsHelpAndVersion(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "store:\n  backend: floppy\n")
	d, _ := newDispatcher(t)

	tests := []struct {
		args []string
		want string
	}{
		{[]string{"help", "--config", dir}, "Usage:"},
		{[]string{"version", "--config", dir}, "ltask 0.1.0"},
	}
	for _, tt := range tests {
		t.Run(tt.args[0], func(t *testing.T) {
			stdout, stderr, code := run(t, d, tt.args...)
			if code != exitcode.Success {
				t.Errorf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
			}
			if stderr != "" {
				t.Errorf("expected no stderr, got %q", stderr)
			}
			if !strings.Contains(stdout, tt.want) {
				t.Errorf("expected stdout to contain %q, got %q", tt.want, stdout)
			}
		})
	}
}

func writeConfig(t *testing.T, dir, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, config.ConfigFile), []byte(body), 0600); err != nil {
		t.Fatal(err)
	}
}

func TestDefaultFactory_PersistsAcrossRuns(t *testing.T) {
	for _, backend := range []string{config.BackendSQLite, config.BackendBadger} {
		t.Run(backend, func(t *testing.T) {
			dir := t.TempDir()
			writeConfig(t, dir, "store:\n  backend: "+backend+"\n")
			d := cli.NewDispatcher(commands.DefaultRegistry, cli.DefaultFactory)

			for _, args := range [][]string{
				{"add", "--config", dir, "a"},
				{"add", "--config", dir, "b"},
				{"done", "--config", dir, "b"},
			} {
				if _, stderr, code := run(t, d, args...); code != exitcode.Success {
					t.Fatalf("%v: exit code %d (stderr %q)", args, code, stderr)
				}
			}

			stdout, stderr, code := run(t, d, "list", "--config", dir)
			if code != exitcode.Success {
				t.Fatalf("list: exit code %d (stderr %q)", code, stderr)
			}
			expected := "   1  [ ] a\n   2  [x] b\n"
			if stdout != expected {
				t.Errorf("expected %q, got %q", expected, stdout)
			}
		})
	}
}

func TestDefaultFactory_Ephemeral(t *testing.T) {
	dir := t.TempDir()
	d := cli.NewDispatcher(commands.DefaultRegistry, cli.DefaultFactory)

	if _, _, code := run(t, d, "add", "--config", dir, "--ephemeral", "a"); code != exitcode.Success {
		t.Fatalf("add: exit code %d", code)
	}

	stdout, _, code := run(t, d, "list", "--config", dir, "--ephemeral")
	if code != exitcode.Success {
		t.Fatalf("list: exit code %d", code)
	}
	if stdout != "no tasks found\n" {
		t.Errorf("expected nothing to survive an ephemeral run, got %q", stdout)
	}
	if _, err := os.Stat(filepath.Join(dir, config.BadgerDir)); !os.IsNotExist(err) {
		t.Errorf("expected no badger directory, stat err = %v", err)
	}
}

func TestDispatcher_WritesMetricsTextfile(t *testing.T) {
	dir := t.TempDir()
	prom := filepath.Join(dir, "metrics", "ltask.prom")
	writeConfig(t, dir, "metrics:\n  textfile: "+prom+"\n")
	d, _ := newDispatcher(t)

	if _, stderr, code := run(t, d, "add", "--config", dir, "a"); code != exitcode.Success {
		t.Fatalf("add: exit code %d (stderr %q)", code, stderr)
	}

	data, err := os.ReadFile(prom)
	if err != nil {
		t.Fatalf("read metrics: %v", err)
	}
	if !strings.Contains(string(data), "ltask_registry_operations_total") {
		t.Errorf("expected registry metrics in textfile, got:\n%s", data)
	}
}

func TestDispatcher_LogFile(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "ltask.log")
	writeConfig(t, dir, "log:\n  level: debug\n  file: "+logPath+"\n")
	d, _ := newDispatcher(t)

	if _, _, code := run(t, d, "version", "--config", dir); code != exitcode.Success {
		t.Fatalf("version: exit code %d", code)
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), `"session"`) {
		t.Errorf("expected session attribute in JSON log, got:\n%s", data)
	}
}
