package commands

import (
	"errors"
	"fmt"
	"io"

	"ltask/internal/exitcode"
	"ltask/internal/service"
)

// reportError prints err in the CLI's "error: ..." form and returns the
// matching exit code.
func reportError(errOut io.Writer, err error) int {
	fmt.Fprintf(errOut, "error: %v\n", err)
	if errors.Is(err, service.ErrStorageFailure) {
		return exitcode.StorageError
	}
	return exitcode.UserError
}
