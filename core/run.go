package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"pkt.systems/termdeck/schema"
)

// managedRun tracks the lifecycle of the single foreground run.
type managedRun struct {
	ID        schema.RunID
	Spec      schema.RunSpec
	Status    schema.RunStatus
	StartedAt time.Time
	EndedAt   *time.Time
	Duration  time.Duration
	ExitCode  *int
	Err       string
	Stdout    []string
	Stderr    []string

	handle        ProcessHandle
	cancel        context.CancelFunc
	stopRequested bool
	done          chan struct{}
}

func newManagedRun(spec schema.RunSpec) *managedRun {
	return &managedRun{
		ID:        spec.ID,
		Spec:      spec,
		Status:    schema.RunStatusRunning,
		StartedAt: time.Now(),
		done:      make(chan struct{}),
	}
}

func (r *managedRun) running() bool {
	return r != nil && r.Status == schema.RunStatusRunning
}

func (r *managedRun) snapshot() schema.RunSnapshot {
	snap := schema.RunSnapshot{
		ID:         r.ID,
		Spec:       r.Spec,
		Status:     r.Status,
		StartedAt:  r.StartedAt,
		Error:      r.Err,
		Stdout:     append([]string(nil), r.Stdout...),
		Stderr:     append([]string(nil), r.Stderr...),
		DurationMS: r.Duration.Milliseconds(),
	}
	if r.EndedAt != nil {
		ended := *r.EndedAt
		snap.EndedAt = &ended
	}
	if r.ExitCode != nil {
		code := *r.ExitCode
		snap.ExitCode = &code
	}
	return snap
}

func validateRunSpec(spec schema.RunSpec) error {
	if !spec.Mode.Valid() {
		return fmt.Errorf("%w: unknown mode %q", schema.ErrInvalidRunSpec, spec.Mode)
	}
	if strings.TrimSpace(spec.Command) == "" {
		return fmt.Errorf("%w: command is required", schema.ErrInvalidRunSpec)
	}
	for key := range spec.Env {
		if strings.TrimSpace(key) == "" {
			return fmt.Errorf("%w: empty env key", schema.ErrInvalidRunSpec)
		}
	}
	return nil
}
