package eventbus

import (
	"context"
	"sync"

	"pkt.systems/pslog"

	"pkt.systems/termdeck/schema"
)

// EventType identifies the event payload.
type EventType string

const (
	// EventLog carries a run log entry.
	EventLog EventType = "log"
	// EventRun carries a run lifecycle update.
	EventRun EventType = "run"
	// EventSession carries a session or command lifecycle update.
	EventSession EventType = "session"
)

// Event represents a UI-facing event emitted by the core service.
type Event struct {
	Type    EventType
	Log     schema.LogEntry
	Run     schema.RunEvent
	Session schema.SessionEvent
}

// Bus fans events out to subscribers. Publishing never blocks; slow
// subscribers drop events. Late subscribers do not see earlier events.
type Bus struct {
	mu    sync.Mutex
	subs  map[chan Event]struct{}
	log   pslog.Logger
	depth int
}

// New constructs a Bus.
func New(logger pslog.Logger) *Bus {
	if logger == nil {
		logger = pslog.Ctx(context.Background())
	}
	return &Bus{
		subs:  make(map[chan Event]struct{}),
		log:   logger,
		depth: 256,
	}
}

// Subscribe registers a subscriber and returns a channel + cancel.
func (b *Bus) Subscribe() (<-chan Event, func()) {
	if b == nil {
		return nil, func() {}
	}
	ch := make(chan Event, b.depth)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	count := len(b.subs)
	b.mu.Unlock()
	if b.log != nil {
		b.log.Debug("eventbus subscribe", "subs", count)
	}
	var once sync.Once
	return ch, func() {
		once.Do(func() {
			// Close under the mutex so publish never sends on a closed
			// channel.
			b.mu.Lock()
			delete(b.subs, ch)
			close(ch)
			b.mu.Unlock()
			if b.log != nil {
				b.log.Debug("eventbus unsubscribe")
			}
		})
	}
}

// OnLog publishes a run log entry.
func (b *Bus) OnLog(entry schema.LogEntry) {
	b.publish(Event{Type: EventLog, Log: entry})
}

// OnRunEvent publishes a run lifecycle event.
func (b *Bus) OnRunEvent(event schema.RunEvent) {
	b.publish(Event{Type: EventRun, Run: event})
}

// OnSessionEvent publishes a session lifecycle event.
func (b *Bus) OnSessionEvent(event schema.SessionEvent) {
	b.publish(Event{Type: EventSession, Session: event})
}

func (b *Bus) publish(event Event) {
	if b == nil {
		return
	}
	// Sends are non-blocking, so holding the mutex keeps publish and
	// unsubscribe from racing without stalling producers.
	b.mu.Lock()
	dropped := 0
	for sub := range b.subs {
		select {
		case sub <- event:
		default:
			dropped++
		}
	}
	b.mu.Unlock()
	if dropped > 0 && b.log != nil {
		b.log.Trace("eventbus dropped", "count", dropped)
	}
}
