// Package exitcode defines exit codes for the CLI.
package exitcode

// Exit codes.
const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, blank name, unknown task).
	UserError = 1

	// ConfigError indicates an unreadable or invalid configuration.
	ConfigError = 2

	// StorageError indicates the persistent store failed.
	StorageError = 3
)
