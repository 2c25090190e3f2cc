package proc

import (
	"errors"
	"fmt"
)

// Kind classifies spawn failures.
type Kind int

const (
	// KindGeneric covers failures with no more specific classification.
	KindGeneric Kind = iota
	// KindExecutableNotFound reports that the executable path does not exist;
	// detected before any OS-level spawn attempt.
	KindExecutableNotFound
	// KindSpawnFailed reports that the native process-creation primitive failed.
	KindSpawnFailed
	// KindRedirectFailed reports that the stdout redirection target could not
	// be opened.
	KindRedirectFailed
)

func (k Kind) String() string {
	switch k {
	case KindExecutableNotFound:
		return "executable not found"
	case KindSpawnFailed:
		return "spawn failed"
	case KindRedirectFailed:
		return "redirect failed"
	default:
		return "generic"
	}
}

// SpawnError describes a failed spawn attempt.
type SpawnError struct {
	Kind Kind
	Path string
	Err  error
}

func (e *SpawnError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Path)
}

func (e *SpawnError) Unwrap() error {
	return e.Err
}

var (
	// ErrNotStarted is returned by Wait on a Child that was never spawned.
	ErrNotStarted = errors.New("process was never started")
	// ErrNotExited is returned by ExitCode before Wait has completed.
	ErrNotExited = errors.New("process has not exited")
	// ErrBuilderUsed is returned by Start on a Builder that already spawned.
	ErrBuilderUsed = errors.New("builder already consumed by a previous start")
)
