package proc

// State describes where a Child is in its lifecycle.
type State int

const (
	// Unstarted is the zero state: no process handle is owned.
	Unstarted State = iota
	// Running means the process exists and has not been reaped.
	Running
	// Exited means Wait completed and the exit code is available.
	Exited
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Exited:
		return "exited"
	default:
		return "unstarted"
	}
}

// Child owns the handle of a spawned process. The zero value is Unstarted.
// A Child is exclusively owned by its holder: concurrent calls on the same
// value must be serialized by the caller.
type Child struct {
	handle   procHandle
	state    State
	exitCode int
}

// State returns the current lifecycle state.
func (c *Child) State() State {
	return c.state
}

// Wait blocks until the owned process terminates and records its exit code.
// It returns ErrNotStarted on an Unstarted child and is a no-op once the
// child has exited.
func (c *Child) Wait() error {
	switch c.state {
	case Unstarted:
		return ErrNotStarted
	case Exited:
		return nil
	}
	code, err := c.handle.wait()
	if err != nil {
		return err
	}
	c.exitCode = code
	c.state = Exited
	return nil
}

// ExitCode returns the terminated process's exit status. Calling it before a
// completed Wait returns ErrNotExited; it never reports a stale or fabricated
// value.
func (c *Child) ExitCode() (int, error) {
	if c.state != Exited {
		return 0, ErrNotExited
	}
	return c.exitCode, nil
}
