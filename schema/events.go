package schema

// RunEventType identifies a run lifecycle transition.
type RunEventType string

const (
	// RunEventStarted indicates a run entered the running state.
	RunEventStarted RunEventType = "started"
	// RunEventFinished indicates a run reached a terminal state.
	RunEventFinished RunEventType = "finished"
)

// RunEvent announces a run lifecycle transition.
type RunEvent struct {
	Type RunEventType
	Run  RunSnapshot
}

// SessionEventType identifies a session lifecycle transition.
type SessionEventType string

const (
	// SessionEventCreated indicates a session was created.
	SessionEventCreated SessionEventType = "created"
	// SessionEventClosed indicates a session was closed.
	SessionEventClosed SessionEventType = "closed"
	// SessionEventActivated indicates a session became active.
	SessionEventActivated SessionEventType = "activated"
	// SessionEventCommand indicates a command in the session changed state.
	SessionEventCommand SessionEventType = "command"
)

// SessionEvent announces a session or command state change. Command is set
// for SessionEventCommand only.
type SessionEvent struct {
	Type    SessionEventType
	Session SessionSnapshot
	Command *CommandSnapshot
}
