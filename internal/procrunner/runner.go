package procrunner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strings"
	"sync"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
	"pkt.systems/pslog"

	"pkt.systems/termdeck/core"
)

// Config controls how processes are launched.
type Config struct {
	// ExtraEnv holds static KEY=VALUE entries added to every process.
	ExtraEnv []string
}

// Runner implements core.Runner by spawning host processes.
type Runner struct {
	cfg Config
}

// New constructs a host process runner.
func New(cfg Config) *Runner {
	return &Runner{cfg: cfg}
}

// Start spawns the process and returns a handle. Failures to spawn are
// reported as *core.SpawnError.
func (r *Runner) Start(ctx context.Context, req core.StartProcessRequest) (core.ProcessHandle, error) {
	if strings.TrimSpace(req.Command) == "" {
		return nil, core.NewSpawnError(req.Command, errors.New("empty command"))
	}
	log := pslog.Ctx(ctx)

	cmd := exec.CommandContext(ctx, req.Command, req.Args...)
	if req.WorkingDir != "" {
		cmd.Dir = req.WorkingDir
	}
	env := append(os.Environ(), r.cfg.ExtraEnv...)
	if len(req.Env) > 0 {
		keys := make([]string, 0, len(req.Env))
		for key := range req.Env {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			env = append(env, fmt.Sprintf("%s=%s", key, req.Env[key]))
		}
	}
	cmd.Env = env

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		log.Error("process stdout pipe failed", "command", req.Command, "err", err)
		return nil, core.NewSpawnError(req.Command, err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		log.Error("process stderr pipe failed", "command", req.Command, "err", err)
		return nil, core.NewSpawnError(req.Command, err)
	}
	if err := cmd.Start(); err != nil {
		log.Error("process start failed", "command", req.Command, "err", err)
		return nil, core.NewSpawnError(req.Command, err)
	}
	log.Debug("process started",
		"command", req.Command,
		"args", req.Args,
		"pid", cmd.Process.Pid,
		"workdir", req.WorkingDir,
		"env_extra", len(req.Env)+len(r.cfg.ExtraEnv),
	)

	stream := newLineStream(ctx, stdout, stderr)
	h := &handle{
		cmd:     cmd,
		stream:  stream,
		log:     log,
		started: time.Now(),
		done:    make(chan struct{}),
	}
	go h.waitProcess()
	return h, nil
}

type handle struct {
	cmd     *exec.Cmd
	stream  *lineStream
	log     pslog.Logger
	started time.Time
	done    chan struct{}

	mu     sync.Mutex
	result core.ProcessResult
	err    error
}

// waitProcess drains the pipes, reaps the child, and records the result.
// A signal death or nonzero exit is a result, not an error.
func (h *handle) waitProcess() {
	h.stream.waitReaders()
	err := h.cmd.Wait()
	exitCode := 0
	signal := ""
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
			if status, ok := exitErr.Sys().(syscall.WaitStatus); ok && status.Signaled() {
				signal = status.Signal().String()
			}
			err = nil
		}
	}
	h.mu.Lock()
	h.result = core.ProcessResult{ExitCode: exitCode}
	h.err = err
	h.mu.Unlock()
	close(h.done)

	fields := []any{
		"exit_code", exitCode,
		"duration_ms", time.Since(h.started).Milliseconds(),
	}
	if signal != "" {
		fields = append(fields, "signal", signal)
	}
	if err != nil {
		fields = append(fields, "err", err)
	}
	h.log.Debug("process finished", fields...)
}

func (h *handle) Outputs() core.OutputStream {
	return h.stream
}

func (h *handle) Signal(ctx context.Context, sig core.ProcessSignal) error {
	_ = ctx
	if h.cmd == nil || h.cmd.Process == nil {
		return fmt.Errorf("process not started")
	}
	switch sig {
	case core.ProcessSignalHUP:
		return h.cmd.Process.Signal(unix.SIGHUP)
	case core.ProcessSignalTERM:
		return h.cmd.Process.Signal(unix.SIGTERM)
	case core.ProcessSignalKILL:
		return h.cmd.Process.Signal(unix.SIGKILL)
	default:
		return fmt.Errorf("unsupported signal: %s", sig)
	}
}

func (h *handle) Wait(ctx context.Context) (core.ProcessResult, error) {
	select {
	case <-ctx.Done():
		return core.ProcessResult{}, ctx.Err()
	case <-h.done:
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.result, h.err
}

func (h *handle) Done() <-chan struct{} {
	return h.done
}

func (h *handle) Close() error {
	return h.stream.Close()
}
