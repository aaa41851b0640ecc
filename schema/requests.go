package schema

// Run lifecycle.

// StartRunRequest describes a request to start the managed run.
type StartRunRequest struct {
	Spec RunSpec
}

// StartRunResponse reports the started run snapshot.
type StartRunResponse struct {
	Run RunSnapshot
}

// StopRunRequest describes a graceful stop request. RunID may be empty to
// target whatever run is active.
type StopRunRequest struct {
	RunID RunID
}

// StopRunResponse reports whether a running target was found.
type StopRunResponse struct {
	Run     RunSnapshot
	Stopped bool
}

// KillRunRequest describes a forced kill request.
type KillRunRequest struct {
	RunID RunID
}

// KillRunResponse reports whether a running target was found.
type KillRunResponse struct {
	Run    RunSnapshot
	Killed bool
}

// GetRunRequest describes a request for the current run snapshot.
type GetRunRequest struct{}

// GetRunResponse reports the run snapshot, if any run has been started.
type GetRunResponse struct {
	Run   RunSnapshot
	Found bool
}

// WaitRunRequest describes a request to block until the run finishes.
type WaitRunRequest struct {
	RunID RunID
}

// WaitRunResponse reports the terminal run snapshot.
type WaitRunResponse struct {
	Run RunSnapshot
}

// GetRunLogRequest describes a request for recent run log entries.
type GetRunLogRequest struct {
	Limit int
}

// GetRunLogResponse reports the log view.
type GetRunLogResponse struct {
	Entries []LogEntry
	Total   int
}

// Session lifecycle.

// CreateSessionRequest describes a request to create a terminal session.
type CreateSessionRequest struct {
	Title      string
	WorkingDir string
}

// CreateSessionResponse reports the created session snapshot.
type CreateSessionResponse struct {
	Session SessionSnapshot
}

// CloseSessionRequest describes a request to close a session.
type CloseSessionRequest struct {
	SessionID SessionID
}

// CloseSessionResponse reports the closed session snapshot.
type CloseSessionResponse struct {
	Session SessionSnapshot
}

// ActivateSessionRequest describes a request to focus a session.
type ActivateSessionRequest struct {
	SessionID SessionID
}

// ActivateSessionResponse reports the activated session snapshot.
type ActivateSessionResponse struct {
	Session SessionSnapshot
}

// ListSessionsRequest describes a request to list sessions.
type ListSessionsRequest struct{}

// ListSessionsResponse reports sessions in creation order.
type ListSessionsResponse struct {
	Sessions      []SessionSnapshot
	ActiveSession SessionID
}

// GetSessionRequest describes a request for a session with its commands.
type GetSessionRequest struct {
	SessionID SessionID
}

// GetSessionResponse reports the session and its command records.
type GetSessionResponse struct {
	Session  SessionSnapshot
	Commands []CommandSnapshot
}

// Command execution.

// ExecuteCommandRequest describes a command submission.
type ExecuteCommandRequest struct {
	SessionID SessionID
	Input     string
}

// ExecuteCommandResponse reports the command record.
type ExecuteCommandResponse struct {
	Command CommandSnapshot
}

// CancelCommandRequest describes a request to cancel a running command.
type CancelCommandRequest struct {
	CommandID CommandID
}

// CancelCommandResponse reports whether a running target was found.
type CancelCommandResponse struct {
	Command   CommandSnapshot
	Cancelled bool
}

// History.

// NavigateHistoryRequest moves the global history cursor.
type NavigateHistoryRequest struct {
	Direction HistoryDirection
}

// NavigateHistoryResponse reports the entry under the cursor; empty when
// the cursor is past the newest entry.
type NavigateHistoryResponse struct {
	Entry string
}

// GetHistoryRequest describes a request for the global history.
type GetHistoryRequest struct{}

// GetHistoryResponse reports history entries, oldest first.
type GetHistoryResponse struct {
	Entries []string
}

// Working directory.

// ChangeWorkingDirRequest changes a session's working directory.
type ChangeWorkingDirRequest struct {
	SessionID SessionID
	Dir       string
}

// ChangeWorkingDirResponse reports the updated session snapshot.
type ChangeWorkingDirResponse struct {
	Session SessionSnapshot
}
