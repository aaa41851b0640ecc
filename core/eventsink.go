package core

import "pkt.systems/termdeck/schema"

// EventSink receives run and session events from the core service.
type EventSink interface {
	OnLog(entry schema.LogEntry)
	OnRunEvent(event schema.RunEvent)
	OnSessionEvent(event schema.SessionEvent)
}
