package core

import (
	"errors"
	"fmt"
)

// SpawnError reports that a process could not be started at all, as
// opposed to starting and exiting nonzero.
type SpawnError struct {
	Command string
	Err     error
}

// NewSpawnError constructs a spawn failure for the given command.
func NewSpawnError(command string, err error) *SpawnError {
	return &SpawnError{Command: command, Err: err}
}

func (e *SpawnError) Error() string {
	if e == nil {
		return "spawn failed"
	}
	if e.Command != "" {
		return fmt.Sprintf("failed to start %s: %v", e.Command, e.Err)
	}
	return fmt.Sprintf("failed to start process: %v", e.Err)
}

func (e *SpawnError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// IsSpawnError reports whether err wraps a SpawnError.
func IsSpawnError(err error) bool {
	var spawnErr *SpawnError
	return errors.As(err, &spawnErr)
}
