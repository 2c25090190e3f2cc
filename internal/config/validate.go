package config

import (
	"fmt"
	"strings"

	"github.com/tarrenq/spawnkit/internal/proc"
)

const supportedVersion = "1"

// Validate checks the manifest for structural problems before any job is
// spawned.
func (m *Manifest) Validate() error {
	if m.Version == "" {
		return fmt.Errorf("version is required")
	}
	if m.Version != supportedVersion {
		return fmt.Errorf("unsupported version %q (supported: %q)", m.Version, supportedVersion)
	}
	if len(m.Jobs) == 0 {
		return fmt.Errorf("at least one job is required")
	}

	seen := make(map[string]struct{}, len(m.Jobs))
	for idx, job := range m.Jobs {
		if job == nil {
			return fmt.Errorf("jobs[%d]: job is empty", idx)
		}
		if strings.TrimSpace(job.Name) == "" {
			return fmt.Errorf("jobs[%d]: name is required", idx)
		}
		if _, dup := seen[job.Name]; dup {
			return fmt.Errorf("%s: duplicate job name", jobField(job.Name, "name"))
		}
		seen[job.Name] = struct{}{}

		if strings.TrimSpace(job.Command) == "" {
			return fmt.Errorf("%s: command is required", jobField(job.Name, "command"))
		}
		if proc.Parse(job.Command).Executable() == "" {
			return fmt.Errorf("%s: command %q has no executable", jobField(job.Name, "command"), job.Command)
		}

		for name := range job.Env {
			if name == "" {
				return fmt.Errorf("%s: variable name must not be empty", jobField(job.Name, "env"))
			}
			if strings.ContainsAny(name, "=\x00") {
				return fmt.Errorf("%s: invalid variable name %q", jobField(job.Name, "env"), name)
			}
		}
	}
	return nil
}

func jobField(job, field string) string {
	return fmt.Sprintf("jobs.%s.%s", job, field)
}
