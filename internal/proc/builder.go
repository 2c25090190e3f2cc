package proc

// Builder composes a command line with optional environment, working
// directory and stdout redirection, and performs the platform spawn. Optional
// settings are tracked explicitly so an empty string never doubles as
// "unset". A Builder is consumed by Start and must not be reused.
type Builder struct {
	commandLine CommandLine
	environment *Environment
	workdir     *string
	stdoutPath  *string
	started     bool
}

// NewBuilder parses a raw command-line string into a Builder.
func NewBuilder(commandLine string) *Builder {
	return NewCommandBuilder(Parse(commandLine))
}

// NewCommandBuilder constructs a Builder from an already-parsed command line.
func NewCommandBuilder(commandLine CommandLine) *Builder {
	return &Builder{commandLine: commandLine}
}

// SetEnvironment replaces the child's entire environment. Without it the
// child inherits the parent's environment unmodified.
func (b *Builder) SetEnvironment(env *Environment) {
	b.environment = env
}

// SetWorkingDirectory sets the directory the child starts in. The parent's
// working directory is never changed.
func (b *Builder) SetWorkingDirectory(dir string) {
	b.workdir = &dir
}

// RedirectStdoutToFile routes the child's standard output to the file at
// path. The redirection is in place before the child's program begins
// executing, so its first output already lands in the file.
func (b *Builder) RedirectStdoutToFile(path string) {
	b.stdoutPath = &path
}

// Start spawns the configured process. On failure it returns a nil Child and
// a *SpawnError; a failed start never yields a running process. Start may
// block briefly during creation but returns as soon as the child exists.
func (b *Builder) Start() (*Child, error) {
	if b.started {
		return nil, ErrBuilderUsed
	}
	b.started = true
	return b.spawn()
}

func (b *Builder) dir() string {
	if b.workdir == nil {
		return ""
	}
	return *b.workdir
}
