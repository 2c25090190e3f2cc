package cli

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tarrenq/spawnkit/internal/cliutil"
	"github.com/tarrenq/spawnkit/internal/config"
	"github.com/tarrenq/spawnkit/internal/proc"
)

func newBatchCmd(manifestFile *string) *cobra.Command {
	var keepGoing bool

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Run the jobs of a manifest sequentially",
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := config.Load(*manifestFile)
			if err != nil {
				return err
			}

			logger := cliutil.NewLogger(cmd.OutOrStdout(), cmd.ErrOrStderr())
			failed := 0
			for _, job := range doc.Jobs {
				// Stop between jobs on interrupt; a running job is waited out.
				if err := cmd.Context().Err(); err != nil {
					return err
				}
				if err := runJob(logger, job); err != nil {
					logger.Failed(job.Name, err)
					failed++
					if !keepGoing {
						break
					}
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d job(s) failed", failed)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&keepGoing, "keep-going", false, "Continue with remaining jobs after a failure")

	return cmd
}

func runJob(logger *cliutil.Logger, job *config.JobSpec) error {
	builder := proc.NewCommandBuilder(proc.Parse(job.Command))
	if job.Workdir != "" {
		builder.SetWorkingDirectory(job.Workdir)
	}
	if job.Stdout != "" {
		builder.RedirectStdoutToFile(job.Stdout)
	}
	if job.HasEnv() {
		builder.SetEnvironment(jobEnvironment(job))
	}

	child, err := builder.Start()
	if err != nil {
		return fmt.Errorf("start: %w", err)
	}
	logger.Started(job.Name)

	if err := child.Wait(); err != nil {
		return fmt.Errorf("wait: %w", err)
	}
	code, err := child.ExitCode()
	if err != nil {
		return err
	}
	logger.Exited(job.Name, code)
	if code != 0 {
		return fmt.Errorf("exit status %d", code)
	}
	return nil
}

// jobEnvironment seeds the child's environment from the runner's and layers
// the job's entries on top, in sorted order for deterministic spawns.
func jobEnvironment(job *config.JobSpec) *proc.Environment {
	env := proc.NewEnvironment()
	for _, entry := range os.Environ() {
		name, value, ok := strings.Cut(entry, "=")
		if ok && name != "" {
			env.Set(name, value)
		}
	}
	names := make([]string, 0, len(job.Env))
	for name := range job.Env {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		env.Set(name, job.Env[name])
	}
	return env
}
