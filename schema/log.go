package schema

import "time"

// LogType classifies the origin of a log entry.
type LogType string

const (
	// LogTypeStdout marks a line captured from the process stdout.
	LogTypeStdout LogType = "stdout"
	// LogTypeStderr marks a line captured from the process stderr.
	LogTypeStderr LogType = "stderr"
	// LogTypeSystem marks a line produced by the run controller itself.
	LogTypeSystem LogType = "system"
)

// LogEntry is one line in the run log buffer.
type LogEntry struct {
	ID        string
	RunID     RunID
	Type      LogType
	Text      string
	Timestamp time.Time
}

// StreamKind indicates which stream produced a command output line.
type StreamKind string

const (
	// StreamStdout indicates output captured from stdout.
	StreamStdout StreamKind = "stdout"
	// StreamStderr indicates output captured from stderr.
	StreamStderr StreamKind = "stderr"
)

// OutputLine is one captured line of command output.
type OutputLine struct {
	Stream StreamKind
	Text   string
}
