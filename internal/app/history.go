package app

import (
	"sort"
	"time"
)

// PersistedMessage is one message as the history endpoint returns it. The
// client never mutates these; they exist to be read, grouped and deleted.
type PersistedMessage struct {
	Sender    string `json:"sender"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
	SessionID string `json:"session_id"`
}

// Thread is a read-only grouping of persisted messages that share a session
// id, used only for history browsing. Rebuilt in full on every fetch.
type Thread struct {
	SessionID      string
	Messages       []PersistedMessage
	FirstTimestamp string
}

// Preview returns the text of the thread's first message, for list rows.
func (t Thread) Preview() string {
	if len(t.Messages) == 0 {
		return "Empty Chat"
	}
	return t.Messages[0].Text
}

// timestampLayouts covers the shapes the store writes: naive UTC ISO 8601
// with microsecond precision and no offset, plus offset-carrying RFC 3339.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
}

// StartedAt parses the thread's first timestamp. Naive timestamps are read as
// UTC. The zero time is returned when the store handed back something
// unparseable.
func (t Thread) StartedAt() time.Time {
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, t.FirstTimestamp); err == nil {
			return ts
		}
	}
	return time.Time{}
}

// GroupHistory folds the flat history feed into conversation threads. Messages
// keep the store's delivery order within each thread, FirstTimestamp is the
// timestamp of the first message seen for the thread (the store delivers
// chronologically; out-of-order feeds are not corrected here), and threads are
// sorted most recent first. The sort is stable so equal timestamps keep
// delivery order.
func GroupHistory(history []PersistedMessage) []Thread {
	if len(history) == 0 {
		return nil
	}

	index := make(map[string]int, len(history))
	threads := make([]Thread, 0, len(history))
	for _, msg := range history {
		i, ok := index[msg.SessionID]
		if !ok {
			i = len(threads)
			index[msg.SessionID] = i
			threads = append(threads, Thread{
				SessionID:      msg.SessionID,
				FirstTimestamp: msg.Timestamp,
			})
		}
		threads[i].Messages = append(threads[i].Messages, msg)
	}

	sort.SliceStable(threads, func(a, b int) bool {
		return threads[a].StartedAt().After(threads[b].StartedAt())
	})
	return threads
}
