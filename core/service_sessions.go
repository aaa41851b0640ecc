package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"pkt.systems/pslog"

	"pkt.systems/termdeck/internal/command"
	"pkt.systems/termdeck/internal/logx"
	"pkt.systems/termdeck/schema"
)

// CreateSession opens a new terminal session and makes it active.
func (s *service) CreateSession(ctx context.Context, req schema.CreateSessionRequest) (schema.CreateSessionResponse, error) {
	workdir := req.WorkingDir
	if workdir != "" {
		resolved, err := resolveSessionDir(workdir)
		if err != nil {
			logx.Ctx(ctx).Warn("session workdir rejected", "dir", workdir, "err", err)
			return schema.CreateSessionResponse{}, err
		}
		workdir = resolved
	}

	s.mu.Lock()
	if len(s.sessions) >= s.cfg.MaxSessions {
		s.mu.Unlock()
		logx.Ctx(ctx).Warn("session cap reached", "max", s.cfg.MaxSessions)
		return schema.CreateSessionResponse{}, schema.ErrTooManySessions
	}
	s.titleSeq++
	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = fmt.Sprintf("Terminal %d", s.titleSeq)
	}
	if workdir == "" {
		workdir = s.workingDir
	}
	sess := &session{
		ID:         schema.SessionID(newID("term")),
		Title:      title,
		WorkingDir: workdir,
		CreatedAt:  time.Now(),
	}
	s.sessions[sess.ID] = sess
	s.order = append(s.order, sess.ID)
	s.active = sess.ID
	snap := sess.snapshot(true)
	s.mu.Unlock()

	s.emitSessionEvent(schema.SessionEvent{Type: schema.SessionEventCreated, Session: snap})
	logx.WithSession(ctx, sess.ID).Info("session created", "title", title, "workdir", workdir)
	return schema.CreateSessionResponse{Session: snap}, nil
}

// CloseSession cancels running commands and removes the session. The first
// remaining session becomes active when the active one is closed.
func (s *service) CloseSession(ctx context.Context, req schema.CloseSessionRequest) (schema.CloseSessionResponse, error) {
	s.mu.Lock()
	sess, ok := s.sessions[req.SessionID]
	if !ok {
		s.mu.Unlock()
		return schema.CloseSessionResponse{}, schema.ErrSessionNotFound
	}
	var handles []ProcessHandle
	var cancels []context.CancelFunc
	for _, cmd := range sess.commands {
		if cmd.Status == schema.CommandStatusRunning {
			cmd.cancelled = true
			if cmd.handle != nil {
				handles = append(handles, cmd.handle)
			}
			if cmd.cancel != nil {
				cancels = append(cancels, cmd.cancel)
			}
		}
	}
	delete(s.sessions, req.SessionID)
	for i, id := range s.order {
		if id == req.SessionID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	if s.active == req.SessionID {
		s.active = ""
		if len(s.order) > 0 {
			s.active = s.order[0]
		}
	}
	snap := sess.snapshot(false)
	s.mu.Unlock()

	for _, handle := range handles {
		s.stopHandleAsync(handle)
	}
	for _, cancel := range cancels {
		cancel()
	}
	s.emitSessionEvent(schema.SessionEvent{Type: schema.SessionEventClosed, Session: snap})
	logx.WithSession(ctx, req.SessionID).Info("session closed", "cancelled_commands", len(handles))
	return schema.CloseSessionResponse{Session: snap}, nil
}

// ActivateSession focuses an existing session.
func (s *service) ActivateSession(ctx context.Context, req schema.ActivateSessionRequest) (schema.ActivateSessionResponse, error) {
	s.mu.Lock()
	sess, ok := s.sessions[req.SessionID]
	if !ok {
		s.mu.Unlock()
		return schema.ActivateSessionResponse{}, schema.ErrSessionNotFound
	}
	s.active = req.SessionID
	snap := sess.snapshot(true)
	s.mu.Unlock()
	s.emitSessionEvent(schema.SessionEvent{Type: schema.SessionEventActivated, Session: snap})
	logx.WithSession(ctx, req.SessionID).Debug("session activated")
	return schema.ActivateSessionResponse{Session: snap}, nil
}

// ListSessions returns sessions in creation order.
func (s *service) ListSessions(ctx context.Context, req schema.ListSessionsRequest) (schema.ListSessionsResponse, error) {
	_ = ctx
	_ = req
	s.mu.Lock()
	defer s.mu.Unlock()
	sessions := make([]schema.SessionSnapshot, 0, len(s.order))
	for _, id := range s.order {
		if sess := s.sessions[id]; sess != nil {
			sessions = append(sessions, sess.snapshot(id == s.active))
		}
	}
	return schema.ListSessionsResponse{Sessions: sessions, ActiveSession: s.active}, nil
}

// GetSession returns a session with its command records.
func (s *service) GetSession(ctx context.Context, req schema.GetSessionRequest) (schema.GetSessionResponse, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[req.SessionID]
	if !ok {
		return schema.GetSessionResponse{}, schema.ErrSessionNotFound
	}
	commands := make([]schema.CommandSnapshot, 0, len(sess.commands))
	for _, cmd := range sess.commands {
		commands = append(commands, cmd.snapshot())
	}
	return schema.GetSessionResponse{
		Session:  sess.snapshot(req.SessionID == s.active),
		Commands: commands,
	}, nil
}

// ExecuteCommand tokenizes the input on whitespace and runs it in the
// session's working directory. A spawn failure is recorded on the command
// record rather than failing the operation.
func (s *service) ExecuteCommand(ctx context.Context, req schema.ExecuteCommandRequest) (schema.ExecuteCommandResponse, error) {
	if s.runner == nil {
		return schema.ExecuteCommandResponse{}, schema.ErrRunnerUnavailable
	}
	name, args, ok := command.Parse(req.Input)
	if !ok {
		return schema.ExecuteCommandResponse{}, schema.ErrEmptyCommand
	}
	log := logx.WithSession(ctx, req.SessionID)

	s.mu.Lock()
	sess, found := s.sessions[req.SessionID]
	if !found {
		s.mu.Unlock()
		return schema.ExecuteCommandResponse{}, schema.ErrSessionNotFound
	}
	cmd := &terminalCommand{
		ID:        schema.CommandID(newID("cmd")),
		SessionID: req.SessionID,
		Input:     strings.TrimSpace(req.Input),
		Name:      name,
		Args:      args,
		Status:    schema.CommandStatusPending,
		StartedAt: time.Now(),
	}
	sess.commands = append(sess.commands, cmd)
	s.history.Append(cmd.Input)
	workdir := sess.WorkingDir
	s.mu.Unlock()
	log = logx.WithCommand(log, cmd.ID)

	cmdCtx, cancel := context.WithCancel(s.detachSessionContext(ctx, req.SessionID))
	handle, err := s.runner.Start(cmdCtx, StartProcessRequest{
		Command:    name,
		Args:       args,
		WorkingDir: workdir,
	})
	if err != nil {
		cancel()
		s.mu.Lock()
		cmd.Status = schema.CommandStatusFailed
		cmd.Err = err.Error()
		cmd.Duration = time.Since(cmd.StartedAt)
		snap := cmd.snapshot()
		sessSnap := sess.snapshot(s.active == sess.ID)
		s.mu.Unlock()
		s.emitSessionEvent(schema.SessionEvent{Type: schema.SessionEventCommand, Session: sessSnap, Command: &snap})
		log.Warn("command spawn failed", "input", cmd.Input, "err", err)
		return schema.ExecuteCommandResponse{Command: snap}, nil
	}

	s.mu.Lock()
	cmd.Status = schema.CommandStatusRunning
	cmd.handle = handle
	cmd.cancel = cancel
	sess.Executing = true
	snap := cmd.snapshot()
	sessSnap := sess.snapshot(s.active == sess.ID)
	s.mu.Unlock()
	s.emitSessionEvent(schema.SessionEvent{Type: schema.SessionEventCommand, Session: sessSnap, Command: &snap})
	log.Info("command started", "input", cmd.Input, "workdir", workdir)

	go s.consumeCommand(pslog.ContextWithLogger(cmdCtx, log), req.SessionID, cmd)
	return schema.ExecuteCommandResponse{Command: snap}, nil
}

// consumeCommand collects output to completion and finalizes the record.
func (s *service) consumeCommand(ctx context.Context, sessionID schema.SessionID, cmd *terminalCommand) {
	log := pslog.Ctx(ctx)
	lines, result, err := CollectOutput(ctx, cmd.handle)
	_ = cmd.handle.Close()

	s.mu.Lock()
	cmd.Duration = time.Since(cmd.StartedAt)
	cmd.Output = truncateOutput(lines, s.cfg.MaxOutputLines)
	if err == nil {
		code := result.ExitCode
		cmd.ExitCode = &code
	}
	switch {
	case cmd.cancelled:
		cmd.Status = schema.CommandStatusFailed
		cmd.Err = "cancelled by user"
	case err != nil:
		cmd.Status = schema.CommandStatusFailed
		cmd.Err = err.Error()
	case result.ExitCode != 0:
		cmd.Status = schema.CommandStatusFailed
		cmd.Err = fmt.Sprintf("exit status %d", result.ExitCode)
	default:
		cmd.Status = schema.CommandStatusCompleted
	}
	compacted := false
	var sessSnap schema.SessionSnapshot
	sess := s.sessions[sessionID]
	if sess != nil {
		sess.Executing = sess.hasRunning()
		compacted = sess.compact(s.cfg.SessionSoftLimit, s.cfg.SessionKeepCount, s.cfg.RetainedOutputLines())
		sessSnap = sess.snapshot(s.active == sessionID)
	}
	snap := cmd.snapshot()
	s.mu.Unlock()

	if sess != nil {
		s.emitSessionEvent(schema.SessionEvent{Type: schema.SessionEventCommand, Session: sessSnap, Command: &snap})
	}
	log.Info("command finished",
		"status", snap.Status,
		"exit_code", result.ExitCode,
		"lines", len(snap.Output),
		"duration_ms", snap.DurationMS,
		"compacted", compacted,
	)
}

// CancelCommand requests cancellation of a running command. The final
// status is forced to failed regardless of how the process exits. Missing
// or finished targets are a no-op success.
func (s *service) CancelCommand(ctx context.Context, req schema.CancelCommandRequest) (schema.CancelCommandResponse, error) {
	s.mu.Lock()
	var cmd *terminalCommand
	for _, id := range s.order {
		if sess := s.sessions[id]; sess != nil {
			if found := sess.findCommand(req.CommandID); found != nil {
				cmd = found
				break
			}
		}
	}
	if cmd == nil || cmd.finished() {
		s.mu.Unlock()
		logx.Ctx(ctx).Debug("cancel command ignored", "command", req.CommandID)
		return schema.CancelCommandResponse{}, nil
	}
	cmd.cancelled = true
	handle := cmd.handle
	cancel := cmd.cancel
	snap := cmd.snapshot()
	s.mu.Unlock()

	if handle != nil {
		_ = handle.Signal(ctx, ProcessSignalTERM)
	}
	if cancel != nil {
		cancel()
	}
	logx.WithCommand(logx.WithSession(ctx, snap.SessionID), snap.ID).Info("command cancel requested")
	return schema.CancelCommandResponse{Command: snap, Cancelled: true}, nil
}

// NavigateHistory moves the global history cursor.
func (s *service) NavigateHistory(ctx context.Context, req schema.NavigateHistoryRequest) (schema.NavigateHistoryResponse, error) {
	_ = ctx
	s.mu.Lock()
	entry := s.history.Navigate(req.Direction)
	s.mu.Unlock()
	return schema.NavigateHistoryResponse{Entry: entry}, nil
}

// GetHistory returns the global history, oldest first.
func (s *service) GetHistory(ctx context.Context, req schema.GetHistoryRequest) (schema.GetHistoryResponse, error) {
	_ = ctx
	_ = req
	s.mu.Lock()
	entries := s.history.Entries()
	s.mu.Unlock()
	return schema.GetHistoryResponse{Entries: entries}, nil
}

// ChangeWorkingDir updates a session's working directory and the
// multiplexer's last-known directory.
func (s *service) ChangeWorkingDir(ctx context.Context, req schema.ChangeWorkingDirRequest) (schema.ChangeWorkingDirResponse, error) {
	resolved, err := resolveSessionDir(req.Dir)
	if err != nil {
		logx.WithSession(ctx, req.SessionID).Warn("workdir change rejected", "dir", req.Dir, "err", err)
		return schema.ChangeWorkingDirResponse{}, err
	}
	s.mu.Lock()
	sess, ok := s.sessions[req.SessionID]
	if !ok {
		s.mu.Unlock()
		return schema.ChangeWorkingDirResponse{}, schema.ErrSessionNotFound
	}
	sess.WorkingDir = resolved
	s.workingDir = resolved
	snap := sess.snapshot(s.active == req.SessionID)
	s.mu.Unlock()
	logx.WithSession(ctx, req.SessionID).Info("workdir changed", "dir", resolved)
	return schema.ChangeWorkingDirResponse{Session: snap}, nil
}

// sweepSessions is the periodic compaction pass. It takes the same mutex
// as command completion, so sweep and append never interleave.
func (s *service) sweepSessions() {
	s.mu.Lock()
	compacted := 0
	for _, id := range s.order {
		if sess := s.sessions[id]; sess != nil {
			if sess.compact(s.cfg.SessionSoftLimit, s.cfg.SessionKeepCount, s.cfg.RetainedOutputLines()) {
				compacted++
			}
		}
	}
	s.mu.Unlock()
	if compacted > 0 {
		s.logger.Debug("session sweep compacted", "sessions", compacted)
	}
}

func (s *service) detachSessionContext(ctx context.Context, sessionID schema.SessionID) context.Context {
	detached := pslog.ContextWithLogger(context.Background(), pslog.Ctx(ctx))
	detached = logx.CopyContextFields(detached, ctx)
	return logx.ContextWithSession(detached, sessionID)
}
