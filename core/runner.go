package core

import (
	"context"

	"pkt.systems/termdeck/schema"
)

// Runner starts external processes and exposes their output streams.
type Runner interface {
	Start(ctx context.Context, req StartProcessRequest) (ProcessHandle, error)
}

// StartProcessRequest describes a process invocation.
type StartProcessRequest struct {
	Command    string
	Args       []string
	Env        map[string]string
	WorkingDir string
}

// ProcessHandle exposes output and lifecycle controls for a process.
type ProcessHandle interface {
	Outputs() OutputStream
	Signal(ctx context.Context, sig ProcessSignal) error
	Wait(ctx context.Context) (ProcessResult, error)
	Done() <-chan struct{}
	Close() error
}

// OutputStream yields captured output lines. Next returns io.EOF once both
// streams are exhausted.
type OutputStream interface {
	Next(ctx context.Context) (schema.OutputLine, error)
	Close() error
}

// ProcessResult describes the process outcome. A nonzero exit code is a
// result, not an error.
type ProcessResult struct {
	ExitCode int
}

// ProcessSignal indicates which signal to send to the process.
type ProcessSignal string

const (
	// ProcessSignalHUP requests a hangup signal.
	ProcessSignalHUP ProcessSignal = "HUP"
	// ProcessSignalTERM requests a termination signal.
	ProcessSignalTERM ProcessSignal = "TERM"
	// ProcessSignalKILL requests an immediate kill signal.
	ProcessSignalKILL ProcessSignal = "KILL"
)
