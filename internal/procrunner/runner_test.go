package procrunner

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"pkt.systems/termdeck/core"
	"pkt.systems/termdeck/schema"
)

func collect(t *testing.T, handle core.ProcessHandle) ([]schema.OutputLine, core.ProcessResult) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	lines, result, err := core.CollectOutput(ctx, handle)
	if err != nil {
		t.Fatalf("collect output: %v", err)
	}
	return lines, result
}

func TestStartCapturesStdout(t *testing.T) {
	runner := New(Config{})
	handle, err := runner.Start(context.Background(), core.StartProcessRequest{
		Command: "sh",
		Args:    []string{"-c", "echo one; echo two"},
	})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	lines, result := collect(t, handle)
	if result.ExitCode != 0 {
		t.Fatalf("expected exit 0, got %d", result.ExitCode)
	}
	if len(lines) != 2 || lines[0].Text != "one" || lines[1].Text != "two" {
		t.Fatalf("unexpected lines: %v", lines)
	}
	for _, line := range lines {
		if line.Stream != schema.StreamStdout {
			t.Fatalf("expected stdout stream, got %s", line.Stream)
		}
	}
}

func TestStartTagsStderr(t *testing.T) {
	runner := New(Config{})
	handle, err := runner.Start(context.Background(), core.StartProcessRequest{
		Command: "sh",
		Args:    []string{"-c", "echo oops 1>&2"},
	})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	lines, result := collect(t, handle)
	if result.ExitCode != 0 {
		t.Fatalf("expected exit 0, got %d", result.ExitCode)
	}
	if len(lines) != 1 || lines[0].Stream != schema.StreamStderr || lines[0].Text != "oops" {
		t.Fatalf("expected tagged stderr line, got %v", lines)
	}
}

func TestNonzeroExitIsResultNotError(t *testing.T) {
	runner := New(Config{})
	handle, err := runner.Start(context.Background(), core.StartProcessRequest{Command: "false"})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	_, result := collect(t, handle)
	if result.ExitCode != 1 {
		t.Fatalf("expected exit 1, got %d", result.ExitCode)
	}
}

func TestSpawnFailureIsDistinct(t *testing.T) {
	runner := New(Config{})
	_, err := runner.Start(context.Background(), core.StartProcessRequest{
		Command: "definitely-not-a-real-binary-9e41",
	})
	if err == nil {
		t.Fatalf("expected spawn error")
	}
	if !core.IsSpawnError(err) {
		t.Fatalf("expected SpawnError, got %T: %v", err, err)
	}
	var spawnErr *core.SpawnError
	if !errors.As(err, &spawnErr) || spawnErr.Command == "" {
		t.Fatalf("expected command on spawn error, got %+v", spawnErr)
	}
}

func TestEmptyCommandIsSpawnError(t *testing.T) {
	runner := New(Config{})
	_, err := runner.Start(context.Background(), core.StartProcessRequest{Command: "   "})
	if !core.IsSpawnError(err) {
		t.Fatalf("expected SpawnError, got %v", err)
	}
}

func TestRequestEnvReachesProcess(t *testing.T) {
	runner := New(Config{ExtraEnv: []string{"TD_STATIC=yes"}})
	handle, err := runner.Start(context.Background(), core.StartProcessRequest{
		Command: "sh",
		Args:    []string{"-c", "echo $TD_PROBE-$TD_STATIC"},
		Env:     map[string]string{"TD_PROBE": "ok"},
	})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	lines, _ := collect(t, handle)
	if len(lines) != 1 || lines[0].Text != "ok-yes" {
		t.Fatalf("expected env to reach process, got %v", lines)
	}
}

func TestWorkingDirApplies(t *testing.T) {
	dir := t.TempDir()
	runner := New(Config{})
	handle, err := runner.Start(context.Background(), core.StartProcessRequest{
		Command:    "pwd",
		WorkingDir: dir,
	})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	lines, _ := collect(t, handle)
	if len(lines) != 1 || lines[0].Text != dir {
		t.Fatalf("expected pwd %q, got %v", dir, lines)
	}
}

func TestSignalTermEndsProcess(t *testing.T) {
	runner := New(Config{})
	handle, err := runner.Start(context.Background(), core.StartProcessRequest{
		Command: "sleep",
		Args:    []string{"30"},
	})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := handle.Signal(context.Background(), core.ProcessSignalTERM); err != nil {
		t.Fatalf("signal: %v", err)
	}
	select {
	case <-handle.Done():
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for termination")
	}
	result, err := handle.Wait(context.Background())
	if err != nil {
		t.Fatalf("wait: %v", err)
	}
	if result.ExitCode == 0 {
		t.Fatalf("expected nonzero exit after TERM, got %d", result.ExitCode)
	}
}

func TestKilledChattyProcessIsReaped(t *testing.T) {
	runner := New(Config{})
	handle, err := runner.Start(context.Background(), core.StartProcessRequest{
		Command: "sh",
		Args:    []string{"-c", "seq 1 5000; sleep 60"},
	})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	// No consumer: leave the line channel full so the readers would block
	// without Close tearing the stream down.
	time.Sleep(500 * time.Millisecond)
	if err := handle.Signal(context.Background(), core.ProcessSignalKILL); err != nil {
		t.Fatalf("signal: %v", err)
	}
	if err := handle.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	select {
	case <-handle.Done():
	case <-time.After(5 * time.Second):
		t.Fatalf("process never reaped after KILL")
	}
}

func TestStreamEOFAfterClose(t *testing.T) {
	runner := New(Config{})
	handle, err := runner.Start(context.Background(), core.StartProcessRequest{Command: "true"})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	stream := handle.Outputs()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for {
		if _, err := stream.Next(ctx); err != nil {
			if !errors.Is(err, io.EOF) {
				t.Fatalf("expected EOF, got %v", err)
			}
			break
		}
	}
	if _, err := handle.Wait(ctx); err != nil {
		t.Fatalf("wait: %v", err)
	}
}
