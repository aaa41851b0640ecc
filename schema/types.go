package schema

// RunID identifies a managed run.
type RunID string

// SessionID identifies a terminal session.
type SessionID string

// CommandID identifies a command executed in a terminal session.
type CommandID string

// RunMode selects the launch profile for a managed run.
type RunMode string

const (
	// RunModeDoctor runs the environment self-check profile.
	RunModeDoctor RunMode = "doctor"
	// RunModeRun runs the normal start profile.
	RunModeRun RunMode = "run"
	// RunModeEval runs the evaluation/dev profile.
	RunModeEval RunMode = "eval"
	// RunModeCustom runs with caller-supplied arguments only.
	RunModeCustom RunMode = "custom"
)

// Valid reports whether the mode is one of the known profiles.
func (m RunMode) Valid() bool {
	switch m {
	case RunModeDoctor, RunModeRun, RunModeEval, RunModeCustom:
		return true
	}
	return false
}

// RunSpec describes a managed run invocation. Command and Args are opaque
// to the core; it does not interpret what they mean.
type RunSpec struct {
	ID         RunID
	Mode       RunMode
	Command    string
	Args       []string
	Env        map[string]string
	WorkingDir string
}

// HistoryDirection selects the direction of a history cursor move.
type HistoryDirection string

const (
	// HistoryUp moves the cursor toward older entries.
	HistoryUp HistoryDirection = "up"
	// HistoryDown moves the cursor toward newer entries.
	HistoryDown HistoryDirection = "down"
)
