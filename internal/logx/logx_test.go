package logx

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"pkt.systems/pslog"

	"pkt.systems/termdeck/schema"
)

func newCaptureLogger(capture *logCapture) pslog.Logger {
	return pslog.NewWithOptions(capture, pslog.Options{
		Mode:          pslog.ModeStructured,
		NoColor:       true,
		MinLevel:      pslog.InfoLevel,
		VerboseFields: true,
	})
}

func TestWithRunAddsField(t *testing.T) {
	capture := &logCapture{}
	ctx := pslog.ContextWithLogger(context.Background(), newCaptureLogger(capture))
	log := WithRun(ctx, schema.RunID("run-1"))
	log.Info("hello")

	entry := capture.firstEntry(t)
	if entry["run"] != "run-1" {
		t.Fatalf("expected run field, got %+v", entry)
	}
}

func TestWithRunSkipsDuplicateMarker(t *testing.T) {
	capture := &logCapture{}
	ctx := pslog.ContextWithLogger(context.Background(), newCaptureLogger(capture))
	ctx = ContextWithRun(ctx, schema.RunID("run-1"))
	log := WithRun(ctx, schema.RunID("run-1"))
	log.Info("hello")

	entry := capture.firstEntry(t)
	if _, ok := entry["run"]; ok {
		t.Fatalf("did not expect duplicate run field, got %+v", entry)
	}
}

func TestWithSessionAndCommandAddFields(t *testing.T) {
	capture := &logCapture{}
	ctx := pslog.ContextWithLogger(context.Background(), newCaptureLogger(capture))
	log := WithSession(ctx, schema.SessionID("term-1"))
	log = WithCommand(log, schema.CommandID("cmd-1"))
	log.Info("hello")

	entry := capture.firstEntry(t)
	if entry["session"] != "term-1" {
		t.Fatalf("expected session field, got %+v", entry)
	}
	if entry["command"] != "cmd-1" {
		t.Fatalf("expected command field, got %+v", entry)
	}
}

func TestCopyContextFields(t *testing.T) {
	src := ContextWithRun(context.Background(), schema.RunID("run-1"))
	src = ContextWithSession(src, schema.SessionID("term-1"))
	dst := CopyContextFields(context.Background(), src)

	if run, ok := dst.Value(runKey).(schema.RunID); !ok || run != "run-1" {
		t.Fatalf("expected run marker to copy, got %v", dst.Value(runKey))
	}
	if sess, ok := dst.Value(sessionKey).(schema.SessionID); !ok || sess != "term-1" {
		t.Fatalf("expected session marker to copy, got %v", dst.Value(sessionKey))
	}
}

type logCapture struct {
	buf bytes.Buffer
}

func (c *logCapture) Write(p []byte) (int, error) {
	return c.buf.Write(p)
}

func (c *logCapture) firstEntry(t *testing.T) map[string]any {
	t.Helper()
	data := c.buf.Bytes()
	idx := bytes.IndexByte(data, '\n')
	if idx == -1 {
		idx = len(data)
	}
	line := bytes.TrimSpace(data[:idx])
	entry := map[string]any{}
	if err := json.Unmarshal(line, &entry); err != nil {
		t.Fatalf("parse log entry: %v", err)
	}
	return entry
}
