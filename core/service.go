package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"pkt.systems/pslog"

	"pkt.systems/termdeck/internal/logx"
	"pkt.systems/termdeck/schema"
)

// stopGrace is how long a graceful stop waits before escalating to KILL.
const stopGrace = 10 * time.Second

// stopSleep is swappable for tests.
var stopSleep = time.Sleep

type service struct {
	cfg     schema.ServiceConfig
	runner  Runner
	sandbox SandboxProvider
	sink    EventSink
	logger  pslog.Logger
	sweeper *cron.Cron

	mu         sync.Mutex
	run        *managedRun
	runLog     *logBuffer
	sessions   map[schema.SessionID]*session
	order      []schema.SessionID
	active     schema.SessionID
	history    *historyBuffer
	workingDir string
	titleSeq   int
}

// NewService constructs the core service and starts its background sweep.
func NewService(cfg schema.ServiceConfig, deps ServiceDeps) (Service, error) {
	cfg, err := schema.NormalizeServiceConfig(cfg)
	if err != nil {
		return nil, err
	}
	logger := deps.Logger
	if logger == nil {
		logger = pslog.Ctx(context.Background())
	}
	svc := &service{
		cfg:        cfg,
		runner:     deps.Runner,
		sandbox:    deps.Sandbox,
		sink:       deps.EventSink,
		logger:     logger,
		runLog:     newLogBuffer(cfg.LogMaxEntries),
		sessions:   make(map[schema.SessionID]*session),
		history:    newHistory(cfg.HistoryMax),
		workingDir: cfg.WorkingDir,
	}
	svc.sweeper = cron.New()
	if _, err := svc.sweeper.AddFunc(fmt.Sprintf("@every %s", cfg.SweepInterval), svc.sweepSessions); err != nil {
		return nil, err
	}
	svc.sweeper.Start()
	return svc, nil
}

// Close stops the sweep and terminates any running processes.
func (s *service) Close(ctx context.Context) error {
	if s.sweeper != nil {
		s.sweeper.Stop()
	}
	s.mu.Lock()
	var handles []ProcessHandle
	var cancels []context.CancelFunc
	if s.run.running() && s.run.handle != nil {
		s.run.stopRequested = true
		handles = append(handles, s.run.handle)
		if s.run.cancel != nil {
			cancels = append(cancels, s.run.cancel)
		}
	}
	for _, sess := range s.sessions {
		for _, cmd := range sess.commands {
			if cmd.Status == schema.CommandStatusRunning && cmd.handle != nil {
				cmd.cancelled = true
				handles = append(handles, cmd.handle)
				if cmd.cancel != nil {
					cancels = append(cancels, cmd.cancel)
				}
			}
		}
	}
	s.mu.Unlock()
	for _, handle := range handles {
		_ = handle.Signal(ctx, ProcessSignalKILL)
	}
	for _, cancel := range cancels {
		cancel()
	}
	return nil
}

// StartRun starts the managed run. At most one run may be active.
func (s *service) StartRun(ctx context.Context, req schema.StartRunRequest) (schema.StartRunResponse, error) {
	if s.runner == nil {
		return schema.StartRunResponse{}, schema.ErrRunnerUnavailable
	}
	spec := req.Spec
	if spec.ID == "" {
		spec.ID = schema.RunID(newID("run"))
	}
	if err := validateRunSpec(spec); err != nil {
		logx.Ctx(ctx).Warn("run spec rejected", "mode", spec.Mode, "err", err)
		return schema.StartRunResponse{}, err
	}
	log := logx.WithRun(ctx, spec.ID)

	s.mu.Lock()
	if s.run.running() {
		active := s.run.ID
		s.mu.Unlock()
		log.Warn("run already active", "active", active)
		return schema.StartRunResponse{}, schema.ErrRunActive
	}
	run := newManagedRun(spec)
	s.run = run
	s.mu.Unlock()

	env := make(map[string]string, len(spec.Env))
	if s.sandbox != nil {
		if sandbox, ok := s.sandbox.Current(); ok {
			for key, value := range sandbox.Env() {
				env[key] = value
			}
			log.Debug("sandbox config applied", "base_url", sandbox.BaseURL, "project", sandbox.ProjectID)
		}
	}
	for key, value := range spec.Env {
		env[key] = value
	}
	workdir := spec.WorkingDir
	if workdir == "" {
		workdir = s.cfg.WorkingDir
	}
	workdir = resolveRunDir(workdir)

	runCtx, cancel := context.WithCancel(s.detachContext(ctx, run.ID))
	handle, err := s.runner.Start(runCtx, StartProcessRequest{
		Command:    spec.Command,
		Args:       spec.Args,
		Env:        env,
		WorkingDir: workdir,
	})
	if err != nil {
		cancel()
		s.mu.Lock()
		now := time.Now()
		run.Status = schema.RunStatusFailed
		run.Err = err.Error()
		run.EndedAt = &now
		run.Duration = now.Sub(run.StartedAt)
		close(run.done)
		entry := s.newLogEntry(run.ID, schema.LogTypeSystem, fmt.Sprintf("failed to start %s: %v", spec.Command, err))
		s.runLog.Append(entry)
		snap := run.snapshot()
		s.mu.Unlock()
		s.emitLog(entry)
		s.emitRunEvent(schema.RunEvent{Type: schema.RunEventFinished, Run: snap})
		log.Error("run start failed", "command", spec.Command, "err", err)
		return schema.StartRunResponse{}, err
	}

	s.mu.Lock()
	run.handle = handle
	run.cancel = cancel
	entry := s.newLogEntry(run.ID, schema.LogTypeSystem, fmt.Sprintf("starting %s (mode %s)", spec.Command, spec.Mode))
	s.runLog.Append(entry)
	snap := run.snapshot()
	s.mu.Unlock()
	s.emitLog(entry)
	s.emitRunEvent(schema.RunEvent{Type: schema.RunEventStarted, Run: snap})
	log.Info("run started", "mode", spec.Mode, "command", spec.Command, "args", spec.Args, "workdir", workdir)

	go s.consumeRun(pslog.ContextWithLogger(runCtx, log), run)
	return schema.StartRunResponse{Run: snap}, nil
}

// consumeRun drains run output and finalizes the run state.
func (s *service) consumeRun(ctx context.Context, run *managedRun) {
	log := pslog.Ctx(ctx)
	stream := run.handle.Outputs()
	for {
		line, err := stream.Next(ctx)
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, context.Canceled) {
				log.Warn("run output stream failed", "err", err)
			}
			break
		}
		typ := schema.LogTypeStdout
		if line.Stream == schema.StreamStderr {
			typ = schema.LogTypeStderr
		}
		s.appendRunLine(run, typ, line.Text)
	}
	result, waitErr := run.handle.Wait(ctx)
	_ = run.handle.Close()

	s.mu.Lock()
	now := time.Now()
	run.EndedAt = &now
	run.Duration = now.Sub(run.StartedAt)
	if waitErr == nil {
		code := result.ExitCode
		run.ExitCode = &code
	}
	var text string
	switch {
	case run.stopRequested:
		run.Status = schema.RunStatusKilled
		text = "process killed"
	case waitErr != nil:
		run.Status = schema.RunStatusFailed
		run.Err = waitErr.Error()
		text = fmt.Sprintf("process failed: %v", waitErr)
	default:
		run.Status = schema.RunStatusCompleted
		text = fmt.Sprintf("process completed (exit code %d)", result.ExitCode)
	}
	entry := s.newLogEntry(run.ID, schema.LogTypeSystem, text)
	s.runLog.Append(entry)
	snap := run.snapshot()
	close(run.done)
	s.mu.Unlock()
	s.emitLog(entry)
	s.emitRunEvent(schema.RunEvent{Type: schema.RunEventFinished, Run: snap})
	log.Info("run finished",
		"status", snap.Status,
		"exit_code", result.ExitCode,
		"duration_ms", snap.DurationMS,
	)
}

// appendRunLine records one output line in the buffer, then broadcasts it.
// The append happens before the emit so a subscriber that reads the buffer
// after receiving the event always sees the line.
func (s *service) appendRunLine(run *managedRun, typ schema.LogType, text string) {
	s.mu.Lock()
	entry := s.newLogEntry(run.ID, typ, text)
	s.runLog.Append(entry)
	switch typ {
	case schema.LogTypeStdout:
		run.Stdout = append(run.Stdout, text)
	case schema.LogTypeStderr:
		run.Stderr = append(run.Stderr, text)
	}
	s.mu.Unlock()
	s.emitLog(entry)
}

// StopRun requests a graceful stop. Missing or finished targets are a
// no-op success.
func (s *service) StopRun(ctx context.Context, req schema.StopRunRequest) (schema.StopRunResponse, error) {
	s.mu.Lock()
	run := s.run
	if !run.running() || (req.RunID != "" && req.RunID != run.ID) {
		s.mu.Unlock()
		logx.Ctx(ctx).Debug("stop run ignored", "run", req.RunID)
		return schema.StopRunResponse{}, nil
	}
	run.stopRequested = true
	handle := run.handle
	snap := run.snapshot()
	s.mu.Unlock()
	logx.WithRun(ctx, run.ID).Info("run stop requested")
	s.stopHandleAsync(handle)
	return schema.StopRunResponse{Run: snap, Stopped: true}, nil
}

// KillRun terminates the run immediately. Missing or finished targets are
// a no-op success.
func (s *service) KillRun(ctx context.Context, req schema.KillRunRequest) (schema.KillRunResponse, error) {
	s.mu.Lock()
	run := s.run
	if !run.running() || (req.RunID != "" && req.RunID != run.ID) {
		s.mu.Unlock()
		logx.Ctx(ctx).Debug("kill run ignored", "run", req.RunID)
		return schema.KillRunResponse{}, nil
	}
	run.stopRequested = true
	handle := run.handle
	cancel := run.cancel
	snap := run.snapshot()
	s.mu.Unlock()
	logx.WithRun(ctx, run.ID).Info("run kill requested")
	if handle != nil {
		_ = handle.Signal(ctx, ProcessSignalKILL)
	}
	if cancel != nil {
		cancel()
	}
	return schema.KillRunResponse{Run: snap, Killed: true}, nil
}

// GetRun returns the current run snapshot, if any run has been started.
func (s *service) GetRun(ctx context.Context, req schema.GetRunRequest) (schema.GetRunResponse, error) {
	_ = ctx
	_ = req
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.run == nil {
		return schema.GetRunResponse{}, nil
	}
	return schema.GetRunResponse{Run: s.run.snapshot(), Found: true}, nil
}

// WaitRun blocks until the run reaches a terminal state.
func (s *service) WaitRun(ctx context.Context, req schema.WaitRunRequest) (schema.WaitRunResponse, error) {
	s.mu.Lock()
	run := s.run
	if run == nil || (req.RunID != "" && req.RunID != run.ID) {
		s.mu.Unlock()
		return schema.WaitRunResponse{}, fmt.Errorf("%w: no such run", schema.ErrInvalidRequest)
	}
	done := run.done
	s.mu.Unlock()
	select {
	case <-ctx.Done():
		return schema.WaitRunResponse{}, ctx.Err()
	case <-done:
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return schema.WaitRunResponse{Run: run.snapshot()}, nil
}

// GetRunLog returns the most recent run log entries.
func (s *service) GetRunLog(ctx context.Context, req schema.GetRunLogRequest) (schema.GetRunLogResponse, error) {
	_ = ctx
	s.mu.Lock()
	view := s.runLog.Snapshot(req.Limit)
	s.mu.Unlock()
	return schema.GetRunLogResponse{Entries: view.Entries, Total: view.Total}, nil
}

// stopHandleAsync sends TERM, waits the grace period, then escalates to
// KILL unless the process exited in the meantime.
func (s *service) stopHandleAsync(handle ProcessHandle) {
	if handle == nil {
		return
	}
	go func() {
		_ = handle.Signal(context.Background(), ProcessSignalTERM)
		stopSleep(stopGrace)
		select {
		case <-handle.Done():
			return
		default:
		}
		_ = handle.Signal(context.Background(), ProcessSignalKILL)
	}()
}

// detachContext keeps the logger and log markers but drops cancelation,
// so consumers outlive the request that started them.
func (s *service) detachContext(ctx context.Context, runID schema.RunID) context.Context {
	detached := pslog.ContextWithLogger(context.Background(), pslog.Ctx(ctx))
	detached = logx.CopyContextFields(detached, ctx)
	return logx.ContextWithRun(detached, runID)
}

func (s *service) newLogEntry(runID schema.RunID, typ schema.LogType, text string) schema.LogEntry {
	return schema.LogEntry{
		ID:        newID("log"),
		RunID:     runID,
		Type:      typ,
		Text:      text,
		Timestamp: time.Now(),
	}
}

func (s *service) emitLog(entry schema.LogEntry) {
	if s.sink != nil {
		s.sink.OnLog(entry)
	}
}

func (s *service) emitRunEvent(event schema.RunEvent) {
	if s.sink != nil {
		s.sink.OnRunEvent(event)
	}
}

func (s *service) emitSessionEvent(event schema.SessionEvent) {
	if s.sink != nil {
		s.sink.OnSessionEvent(event)
	}
}
