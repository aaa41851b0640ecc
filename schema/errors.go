package schema

import "errors"

var (
	// ErrInvalidRequest indicates a malformed request payload.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrInvalidRunSpec indicates a malformed run spec.
	ErrInvalidRunSpec = errors.New("invalid run spec")
	// ErrRunActive indicates a managed run is already in progress.
	ErrRunActive = errors.New("a run is already active")
	// ErrSessionNotFound indicates a requested session could not be found.
	ErrSessionNotFound = errors.New("session not found")
	// ErrEmptyCommand indicates the submitted command line was empty.
	ErrEmptyCommand = errors.New("empty command")
	// ErrTooManySessions indicates the session cap has been reached.
	ErrTooManySessions = errors.New("too many sessions")
	// ErrRunnerUnavailable indicates no runner is configured.
	ErrRunnerUnavailable = errors.New("runner not configured")
	// ErrInvalidWorkingDir indicates the requested directory is unusable.
	ErrInvalidWorkingDir = errors.New("invalid working directory")
)
