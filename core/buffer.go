package core

import "pkt.systems/termdeck/schema"

// logView is a snapshot of the run log buffer.
type logView struct {
	Entries []schema.LogEntry
	Total   int
}

// logBuffer stores run log entries with oldest-first eviction.
type logBuffer struct {
	entries    []schema.LogEntry
	maxEntries int
	total      int
}

func newLogBuffer(maxEntries int) *logBuffer {
	if maxEntries <= 0 {
		maxEntries = schema.DefaultLogMaxEntries
	}
	return &logBuffer{maxEntries: maxEntries}
}

// Append adds entries, evicting the oldest beyond the configured max.
func (b *logBuffer) Append(entries ...schema.LogEntry) {
	if len(entries) == 0 {
		return
	}
	b.entries = append(b.entries, entries...)
	b.total += len(entries)
	if len(b.entries) > b.maxEntries {
		trim := len(b.entries) - b.maxEntries
		b.entries = append([]schema.LogEntry(nil), b.entries[trim:]...)
	}
}

// Len returns the number of retained entries.
func (b *logBuffer) Len() int {
	return len(b.entries)
}

// Snapshot returns up to limit of the most recent entries. Total counts
// every entry ever appended, including evicted ones.
func (b *logBuffer) Snapshot(limit int) logView {
	retained := len(b.entries)
	if limit <= 0 || limit > retained {
		limit = retained
	}
	entries := make([]schema.LogEntry, limit)
	copy(entries, b.entries[retained-limit:])
	return logView{Entries: entries, Total: b.total}
}
