package termdeck

import (
	"pkt.systems/termdeck/core"
	"pkt.systems/termdeck/schema"
)

type eventFanout struct {
	sinks []core.EventSink
}

func (f eventFanout) OnLog(entry schema.LogEntry) {
	for _, sink := range f.sinks {
		if sink == nil {
			continue
		}
		sink.OnLog(entry)
	}
}

func (f eventFanout) OnRunEvent(event schema.RunEvent) {
	for _, sink := range f.sinks {
		if sink == nil {
			continue
		}
		sink.OnRunEvent(event)
	}
}

func (f eventFanout) OnSessionEvent(event schema.SessionEvent) {
	for _, sink := range f.sinks {
		if sink == nil {
			continue
		}
		sink.OnSessionEvent(event)
	}
}
