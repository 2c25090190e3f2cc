package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tarrenq/spawnkit/internal/proc"
)

func newRunCmd() *cobra.Command {
	var stdoutPath string
	var dir string
	var envPairs []string
	var inheritEnv bool

	cmd := &cobra.Command{
		Use:   "run [flags] -- <command> [args...]",
		Short: "Spawn a single child process and wait for it",
		Long: `Run spawns one child process and blocks until it exits, then exits with
the child's own exit code. A single argument is parsed as a quoted command
line; multiple arguments are taken verbatim as executable and arguments.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var commandLine proc.CommandLine
			if len(args) == 1 {
				commandLine = proc.Parse(args[0])
			} else {
				commandLine = proc.NewCommandLine(args[0], args[1:]...)
			}

			builder := proc.NewCommandBuilder(commandLine)
			if cmd.Flags().Changed("dir") {
				builder.SetWorkingDirectory(dir)
			}
			if cmd.Flags().Changed("stdout") {
				builder.RedirectStdoutToFile(stdoutPath)
			}
			if len(envPairs) > 0 || !inheritEnv {
				env, err := buildEnvironment(envPairs, inheritEnv)
				if err != nil {
					return err
				}
				builder.SetEnvironment(env)
			}

			if err := cmd.Context().Err(); err != nil {
				return err
			}
			child, err := builder.Start()
			if err != nil {
				return fmt.Errorf("run %s: %w", commandLine.Executable(), err)
			}
			if err := child.Wait(); err != nil {
				return fmt.Errorf("wait for %s: %w", commandLine.Executable(), err)
			}
			code, err := child.ExitCode()
			if err != nil {
				return err
			}
			if code != 0 {
				return exitCodeError{code: code}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&stdoutPath, "stdout", "", "Redirect the child's standard output to this file")
	cmd.Flags().StringVar(&dir, "dir", "", "Working directory for the child")
	cmd.Flags().StringArrayVar(&envPairs, "env", nil, "Environment variable NAME=VALUE (repeatable)")
	cmd.Flags().BoolVar(&inheritEnv, "inherit-env", true, "Seed the child's environment from the runner's")

	return cmd
}

// buildEnvironment assembles the child's full environment from optional
// inherited entries plus NAME=VALUE overrides, later entries winning.
func buildEnvironment(pairs []string, inherit bool) (*proc.Environment, error) {
	env := proc.NewEnvironment()
	if inherit {
		for _, entry := range os.Environ() {
			name, value, ok := strings.Cut(entry, "=")
			if ok && name != "" {
				env.Set(name, value)
			}
		}
	}
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --env value %q, want NAME=VALUE", pair)
		}
		env.Set(name, value)
	}
	return env, nil
}
