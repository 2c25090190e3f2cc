package cli

import (
	stdcontext "context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// NewRootCmd constructs the spawnkit command tree.
func NewRootCmd() *cobra.Command {
	var manifestFile string

	root := &cobra.Command{
		Use:   "spawnkit",
		Short: "Spawn and supervise child processes",
	}

	root.PersistentFlags().
		StringVarP(&manifestFile, "file", "f", "jobs.yaml", "Path to job manifest")

	root.AddCommand(newRunCmd())
	root.AddCommand(newBatchCmd(&manifestFile))
	root.AddCommand(newCheckCmd(&manifestFile))

	root.SilenceUsage = true
	root.SilenceErrors = true

	return root
}

// Execute runs the CLI entrypoint. An interrupt or termination signal cancels
// the command context, which stops the runner before its next spawn; a wait
// already in progress is never interrupted. The child's exit code, when a
// command surfaces one, becomes the runner's own exit code.
func Execute() {
	ctx, stop := signal.NotifyContext(stdcontext.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := NewRootCmd()
	root.SetContext(ctx)

	if err := root.ExecuteContext(ctx); err != nil {
		var exitErr exitCodeError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// exitCodeError carries a child's non-zero exit status up to Execute without
// printing it as an error message.
type exitCodeError struct {
	code int
}

func (e exitCodeError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}
