//go:build !windows

package proc

import (
	"fmt"
	"os"
	"path/filepath"
	"syscall"
)

type procHandle struct {
	process *os.Process
}

// spawn creates the child through the fork/exec family. The runtime reports
// exec-image failures back through its close-on-exec status pipe, so a bad
// interpreter or permission problem surfaces here rather than as an opaque
// child exit.
func (b *Builder) spawn() (*Child, error) {
	executable := b.commandLine.Executable()
	if _, err := os.Stat(executable); err != nil {
		return nil, &SpawnError{Kind: KindExecutableNotFound, Path: executable, Err: err}
	}

	absExecutable, err := filepath.Abs(executable)
	if err != nil {
		return nil, &SpawnError{Kind: KindGeneric, Path: executable, Err: err}
	}

	files := []*os.File{os.Stdin, os.Stdout, os.Stderr}
	if b.stdoutPath != nil {
		out, err := os.OpenFile(*b.stdoutPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
		if err != nil {
			return nil, &SpawnError{Kind: KindRedirectFailed, Path: *b.stdoutPath, Err: err}
		}
		// The child receives a duplicated descriptor; the parent's copy is
		// released on every path out of this function.
		defer out.Close()
		files[1] = out
	}

	attr := &os.ProcAttr{
		Dir:   b.dir(),
		Files: files,
	}
	if b.environment != nil {
		attr.Env = b.environment.Strings()
	}

	process, err := os.StartProcess(absExecutable, b.commandLine.Argv(), attr)
	if err != nil {
		return nil, &SpawnError{Kind: KindSpawnFailed, Path: absExecutable, Err: err}
	}
	return &Child{handle: procHandle{process: process}, state: Running}, nil
}

// wait reaps the child and decodes its wait status. Termination by signal is
// reported using the shell convention of 128 plus the signal number.
func (h procHandle) wait() (int, error) {
	state, err := h.process.Wait()
	if err != nil {
		return 0, fmt.Errorf("wait for pid %d: %w", h.process.Pid, err)
	}
	if status, ok := state.Sys().(syscall.WaitStatus); ok && status.Signaled() {
		return 128 + int(status.Signal()), nil
	}
	return state.ExitCode(), nil
}
