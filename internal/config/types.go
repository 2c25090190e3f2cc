package config

// Manifest mirrors the jobs.yaml document structure.
type Manifest struct {
	Version string     `yaml:"version"`
	Jobs    []*JobSpec `yaml:"jobs"`
}

// JobSpec describes one child process to spawn.
type JobSpec struct {
	Name        string            `yaml:"name"`
	Command     string            `yaml:"command"`
	Workdir     string            `yaml:"workdir"`
	Env         map[string]string `yaml:"env"`
	EnvFromFile string            `yaml:"envFromFile"`
	Stdout      string            `yaml:"stdout"`
}

// HasEnv reports whether the job supplies an explicit environment. A job
// without one inherits the runner's environment unmodified.
func (j *JobSpec) HasEnv() bool {
	return len(j.Env) > 0 || j.EnvFromFile != ""
}
