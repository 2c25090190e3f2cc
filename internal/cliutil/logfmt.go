package cliutil

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/term"
)

// Event names for job lifecycle records.
const (
	EventStarted = "started"
	EventExited  = "exited"
	EventFailed  = "failed"
)

// JobRecord represents a structured job event ready for encoding.
type JobRecord struct {
	Timestamp time.Time `json:"ts"`
	Job       string    `json:"job"`
	Event     string    `json:"event"`
	ExitCode  *int      `json:"exitCode,omitempty"`
	Message   string    `json:"msg,omitempty"`
}

// Logger emits job records either as JSON lines or, on a terminal, as
// human-readable lines.
type Logger struct {
	out    io.Writer
	stderr io.Writer
	enc    *json.Encoder
	pretty bool
}

// NewLogger constructs a logger writing to out. When out is a terminal the
// logger uses a readable line format instead of JSON.
func NewLogger(out, stderr io.Writer) *Logger {
	l := &Logger{out: out, stderr: stderr}
	if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		l.pretty = true
	} else {
		l.enc = json.NewEncoder(out)
	}
	return l
}

// Emit writes a job record, stamping the current time if unset.
func (l *Logger) Emit(record JobRecord) {
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now()
	}
	if l.pretty {
		line := fmt.Sprintf("%s  %-12s %s", record.Timestamp.Format(time.TimeOnly), record.Job, record.Event)
		if record.ExitCode != nil {
			line += fmt.Sprintf(" (exit %d)", *record.ExitCode)
		}
		if record.Message != "" {
			line += ": " + record.Message
		}
		fmt.Fprintln(l.out, line)
		return
	}
	if err := l.enc.Encode(&record); err != nil {
		fmt.Fprintf(l.stderr, "error: encode job event: %v\n", err)
	}
}

// Started reports that a job's process was created.
func (l *Logger) Started(job string) {
	l.Emit(JobRecord{Job: job, Event: EventStarted})
}

// Exited reports a job's exit code after its process was reaped.
func (l *Logger) Exited(job string, code int) {
	l.Emit(JobRecord{Job: job, Event: EventExited, ExitCode: &code})
}

// Failed reports that a job could not be spawned or waited on.
func (l *Logger) Failed(job string, err error) {
	l.Emit(JobRecord{Job: job, Event: EventFailed, Message: err.Error()})
}
