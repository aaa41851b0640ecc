package core

import (
	"strings"

	"pkt.systems/termdeck/schema"
)

// historyBuffer is the global deduplicated command history. The cursor
// points at the entry a history navigation would recall; len(entries)
// means past the newest entry (empty prompt).
type historyBuffer struct {
	entries []string
	max     int
	cursor  int
}

func newHistory(max int) *historyBuffer {
	if max <= 0 {
		max = schema.DefaultHistoryMax
	}
	return &historyBuffer{max: max}
}

// Append records an entry. A duplicate moves to the newest position
// instead of appearing twice. The cursor resets past the newest entry.
func (h *historyBuffer) Append(entry string) bool {
	if h == nil {
		return false
	}
	entry = strings.TrimSpace(entry)
	if entry == "" {
		return false
	}
	for i, existing := range h.entries {
		if existing == entry {
			h.entries = append(h.entries[:i], h.entries[i+1:]...)
			break
		}
	}
	h.entries = append(h.entries, entry)
	if len(h.entries) > h.max {
		h.entries = append([]string(nil), h.entries[len(h.entries)-h.max:]...)
	}
	h.cursor = len(h.entries)
	return true
}

// Navigate moves the cursor and returns the entry under it. Up moves
// toward older entries and sticks at the oldest; down moves toward newer
// entries and yields "" once past the newest.
func (h *historyBuffer) Navigate(direction schema.HistoryDirection) string {
	if h == nil || len(h.entries) == 0 {
		return ""
	}
	switch direction {
	case schema.HistoryUp:
		if h.cursor > 0 {
			h.cursor--
		}
	case schema.HistoryDown:
		if h.cursor < len(h.entries) {
			h.cursor++
		}
	}
	if h.cursor >= len(h.entries) {
		return ""
	}
	return h.entries[h.cursor]
}

// Entries returns a copy of the history, oldest first.
func (h *historyBuffer) Entries() []string {
	if h == nil {
		return nil
	}
	return append([]string(nil), h.entries...)
}
