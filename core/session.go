package core

import (
	"context"
	"fmt"
	"time"

	"pkt.systems/termdeck/schema"
)

// terminalCommand is the record of one command executed in a session.
type terminalCommand struct {
	ID        schema.CommandID
	SessionID schema.SessionID
	Input     string
	Name      string
	Args      []string
	Status    schema.CommandStatus
	Output    []schema.OutputLine
	Err       string
	ExitCode  *int
	StartedAt time.Time
	Duration  time.Duration

	handle    ProcessHandle
	cancel    context.CancelFunc
	cancelled bool
}

func (c *terminalCommand) finished() bool {
	return c.Status == schema.CommandStatusCompleted || c.Status == schema.CommandStatusFailed
}

func (c *terminalCommand) snapshot() schema.CommandSnapshot {
	snap := schema.CommandSnapshot{
		ID:         c.ID,
		SessionID:  c.SessionID,
		Input:      c.Input,
		Name:       c.Name,
		Args:       append([]string(nil), c.Args...),
		Status:     c.Status,
		Output:     append([]schema.OutputLine(nil), c.Output...),
		Error:      c.Err,
		StartedAt:  c.StartedAt,
		DurationMS: c.Duration.Milliseconds(),
	}
	if c.ExitCode != nil {
		code := *c.ExitCode
		snap.ExitCode = &code
	}
	return snap
}

// trimOutput drops the oldest lines beyond max, never editing what remains.
func (c *terminalCommand) trimOutput(max int) {
	if max <= 0 || len(c.Output) <= max {
		return
	}
	c.Output = append([]schema.OutputLine(nil), c.Output[len(c.Output)-max:]...)
}

// session is one terminal session in the multiplexer.
type session struct {
	ID         schema.SessionID
	Title      string
	WorkingDir string
	CreatedAt  time.Time
	Executing  bool

	commands []*terminalCommand
}

func (s *session) snapshot(active bool) schema.SessionSnapshot {
	return schema.SessionSnapshot{
		ID:           s.ID,
		Title:        s.Title,
		WorkingDir:   s.WorkingDir,
		CreatedAt:    s.CreatedAt,
		Active:       active,
		Executing:    s.Executing,
		CommandCount: len(s.commands),
	}
}

func (s *session) findCommand(id schema.CommandID) *terminalCommand {
	for _, cmd := range s.commands {
		if cmd.ID == id {
			return cmd
		}
	}
	return nil
}

func (s *session) hasRunning() bool {
	for _, cmd := range s.commands {
		if cmd.Status == schema.CommandStatusRunning {
			return true
		}
	}
	return false
}

// compact drops all but the keep most recent commands once the session
// exceeds soft, and shrinks retained output to outputCap lines. Returns
// whether anything changed.
func (s *session) compact(soft, keep, outputCap int) bool {
	if soft <= 0 || len(s.commands) <= soft {
		return false
	}
	if keep > len(s.commands) {
		keep = len(s.commands)
	}
	s.commands = append([]*terminalCommand(nil), s.commands[len(s.commands)-keep:]...)
	for _, cmd := range s.commands {
		cmd.trimOutput(outputCap)
	}
	return true
}

// truncateOutput enforces the write-completion cap: the first max lines
// are kept and a single marker line reports the rest.
func truncateOutput(lines []schema.OutputLine, max int) []schema.OutputLine {
	if max <= 0 || len(lines) <= max {
		return lines
	}
	extra := len(lines) - max
	out := append([]schema.OutputLine(nil), lines[:max]...)
	out = append(out, schema.OutputLine{
		Stream: schema.StreamStdout,
		Text:   fmt.Sprintf("... (%d more lines truncated)", extra),
	})
	return out
}
