package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.trai.ch/rebuild/internal/adapters/worker" //nolint:depguard // Worker entry point
)

// ExitError carries the exit code of a command that has already reported its
// own failure.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

func (c *CLI) newWorkerCmd() *cobra.Command {
	return &cobra.Command{
		Use:    "worker",
		Short:  "Run one native build from a request on stdin",
		Hidden: true,
		Args:   cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			code := worker.Serve(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
			if code != 0 {
				return &ExitError{Code: code}
			}
			return nil
		},
	}
}
