package termdeck

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"pkt.systems/termdeck/core"
	"pkt.systems/termdeck/schema"
)

func TestOpenWithDefaultsAndClose(t *testing.T) {
	dir := t.TempDir()
	deck, err := Open(context.Background(), Options{
		ConfigPath: filepath.Join(dir, "config.yaml"),
	})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() {
		if err := deck.Close(context.Background()); err != nil {
			t.Fatalf("close: %v", err)
		}
	}()
	if deck.Config.Runner.Binary != "elizaos" {
		t.Fatalf("expected default binary, got %q", deck.Config.Runner.Binary)
	}
	sess, err := deck.Service.CreateSession(context.Background(), schema.CreateSessionRequest{WorkingDir: dir})
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	if sess.Session.WorkingDir != dir {
		t.Fatalf("expected workdir %q, got %q", dir, sess.Session.WorkingDir)
	}
}

func TestOpenDeliversEventsToExtraSinks(t *testing.T) {
	dir := t.TempDir()
	sink := &recordingSink{}
	deck, err := Open(context.Background(), Options{
		ConfigPath: filepath.Join(dir, "config.yaml"),
		ExtraSinks: []core.EventSink{sink},
	})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() { _ = deck.Close(context.Background()) }()

	events, cancel := deck.Bus.Subscribe()
	defer cancel()

	if _, err := deck.Service.CreateSession(context.Background(), schema.CreateSessionRequest{WorkingDir: dir}); err != nil {
		t.Fatalf("create session: %v", err)
	}
	select {
	case <-events:
	case <-time.After(time.Second):
		t.Fatalf("expected bus to receive session event")
	}
	if sink.sessionCount() != 1 {
		t.Fatalf("expected extra sink to receive session event, got %d", sink.sessionCount())
	}
}

func TestFanoutSkipsNilSinks(t *testing.T) {
	sink := &recordingSink{}
	fanout := eventFanout{sinks: []core.EventSink{nil, sink}}
	fanout.OnLog(schema.LogEntry{ID: "log-1"})
	fanout.OnRunEvent(schema.RunEvent{Type: schema.RunEventStarted})
	fanout.OnSessionEvent(schema.SessionEvent{Type: schema.SessionEventCreated})
	if sink.logCount() != 1 || sink.runCount() != 1 || sink.sessionCount() != 1 {
		t.Fatalf("expected one event of each kind, got %d/%d/%d", sink.logCount(), sink.runCount(), sink.sessionCount())
	}
}

type recordingSink struct {
	mu       sync.Mutex
	logs     int
	runs     int
	sessions int
}

func (s *recordingSink) OnLog(schema.LogEntry) {
	s.mu.Lock()
	s.logs++
	s.mu.Unlock()
}

func (s *recordingSink) OnRunEvent(schema.RunEvent) {
	s.mu.Lock()
	s.runs++
	s.mu.Unlock()
}

func (s *recordingSink) OnSessionEvent(schema.SessionEvent) {
	s.mu.Lock()
	s.sessions++
	s.mu.Unlock()
}

func (s *recordingSink) logCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.logs
}

func (s *recordingSink) runCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runs
}

func (s *recordingSink) sessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions
}
