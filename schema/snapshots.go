package schema

import "time"

// RunStatus describes the current state of the managed run.
type RunStatus string

const (
	// RunStatusRunning indicates the run is in progress.
	RunStatusRunning RunStatus = "running"
	// RunStatusCompleted indicates the process exited on its own.
	RunStatusCompleted RunStatus = "completed"
	// RunStatusFailed indicates the run failed to start or to be waited on.
	RunStatusFailed RunStatus = "failed"
	// RunStatusKilled indicates the run was terminated on request.
	RunStatusKilled RunStatus = "killed"
)

// CommandStatus describes the state of a terminal command.
type CommandStatus string

const (
	// CommandStatusPending indicates the command has not started yet.
	CommandStatusPending CommandStatus = "pending"
	// CommandStatusRunning indicates the command is executing.
	CommandStatusRunning CommandStatus = "running"
	// CommandStatusCompleted indicates the command exited with code zero.
	CommandStatusCompleted CommandStatus = "completed"
	// CommandStatusFailed indicates a nonzero exit, spawn failure, or cancel.
	CommandStatusFailed CommandStatus = "failed"
)

// RunSnapshot is a read-only view of the managed run for transports.
type RunSnapshot struct {
	ID         RunID
	Spec       RunSpec
	Status     RunStatus
	StartedAt  time.Time
	EndedAt    *time.Time
	ExitCode   *int
	Error      string
	Stdout     []string
	Stderr     []string
	DurationMS int64
}

// SessionSnapshot is a read-only view of a terminal session.
type SessionSnapshot struct {
	ID           SessionID
	Title        string
	WorkingDir   string
	CreatedAt    time.Time
	Active       bool
	Executing    bool
	CommandCount int
}

// CommandSnapshot is a read-only view of a terminal command.
type CommandSnapshot struct {
	ID         CommandID
	SessionID  SessionID
	Input      string
	Name       string
	Args       []string
	Status     CommandStatus
	Output     []OutputLine
	Error      string
	ExitCode   *int
	StartedAt  time.Time
	DurationMS int64
}

// Finished reports whether the command reached a terminal status.
func (c CommandSnapshot) Finished() bool {
	return c.Status == CommandStatusCompleted || c.Status == CommandStatusFailed
}

// Finished reports whether the run reached a terminal status.
func (r RunSnapshot) Finished() bool {
	switch r.Status {
	case RunStatusCompleted, RunStatusFailed, RunStatusKilled:
		return true
	}
	return false
}
