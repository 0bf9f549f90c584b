package app

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func msg(session, text, ts string) PersistedMessage {
	return PersistedMessage{Sender: "user", Text: text, Timestamp: ts, SessionID: session}
}

func TestGroupHistory_Empty(t *testing.T) {
	if got := GroupHistory(nil); len(got) != 0 {
		t.Fatalf("GroupHistory(nil) = %v, want empty", got)
	}
	if got := GroupHistory([]PersistedMessage{}); len(got) != 0 {
		t.Fatalf("GroupHistory(empty) = %v, want empty", got)
	}
}

func TestGroupHistory_PartitionsWithoutLossOrDuplication(t *testing.T) {
	input := []PersistedMessage{
		msg("a", "a1", "2024-05-01T10:00:00Z"),
		msg("b", "b1", "2024-05-02T10:00:00Z"),
		msg("a", "a2", "2024-05-01T10:01:00Z"),
		msg("c", "c1", "2024-05-03T10:00:00Z"),
		msg("b", "b2", "2024-05-02T10:05:00Z"),
	}

	threads := GroupHistory(input)

	total := 0
	seen := map[string]int{}
	for _, th := range threads {
		for _, m := range th.Messages {
			if m.SessionID != th.SessionID {
				t.Fatalf("message %q filed under thread %q", m.SessionID, th.SessionID)
			}
			seen[m.Text]++
			total++
		}
	}
	if total != len(input) {
		t.Fatalf("threads hold %d messages, want %d", total, len(input))
	}
	for _, m := range input {
		if seen[m.Text] != 1 {
			t.Fatalf("message %q appears %d times, want exactly once", m.Text, seen[m.Text])
		}
	}
}

func TestGroupHistory_PreservesDeliveryOrderWithinThread(t *testing.T) {
	input := []PersistedMessage{
		msg("a", "first", "2024-05-01T10:00:00Z"),
		msg("b", "other", "2024-05-02T10:00:00Z"),
		msg("a", "second", "2024-05-01T10:01:00Z"),
		msg("a", "third", "2024-05-01T10:02:00Z"),
	}

	threads := GroupHistory(input)

	var a *Thread
	for i := range threads {
		if threads[i].SessionID == "a" {
			a = &threads[i]
		}
	}
	if a == nil {
		t.Fatal("thread a missing")
	}
	want := []string{"first", "second", "third"}
	var got []string
	for _, m := range a.Messages {
		got = append(got, m.Text)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("thread order mismatch (-want +got):\n%s", diff)
	}
	if a.FirstTimestamp != "2024-05-01T10:00:00Z" {
		t.Fatalf("FirstTimestamp = %q, want first-seen timestamp", a.FirstTimestamp)
	}
}

func TestGroupHistory_SortsMostRecentFirst(t *testing.T) {
	input := []PersistedMessage{
		msg("old", "o", "2024-01-01T00:00:00Z"),
		msg("new", "n", "2024-06-01T00:00:00Z"),
		msg("mid", "m", "2024-03-01T00:00:00Z"),
	}

	threads := GroupHistory(input)

	var got []string
	for _, th := range threads {
		got = append(got, th.SessionID)
	}
	want := []string{"new", "mid", "old"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("thread sort mismatch (-want +got):\n%s", diff)
	}
}

func TestGroupHistory_SortsNaiveUTCTimestamps(t *testing.T) {
	// The store serializes timestamps as naive UTC ISO 8601 with microsecond
	// precision and no offset.
	input := []PersistedMessage{
		msg("old", "o", "2024-01-01T00:00:00.000001"),
		msg("new", "n", "2024-06-01T00:00:00.000001"),
		msg("mid", "m", "2024-03-01T00:00:00.000001"),
	}

	threads := GroupHistory(input)

	var got []string
	for _, th := range threads {
		got = append(got, th.SessionID)
	}
	want := []string{"new", "mid", "old"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("thread sort mismatch (-want +got):\n%s", diff)
	}
}

func TestThreadStartedAt(t *testing.T) {
	tests := []struct {
		ts   string
		want time.Time
	}{
		{"2024-05-01T10:00:00Z", time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)},
		{"2024-05-01T10:00:00+02:00", time.Date(2024, 5, 1, 10, 0, 0, 0, time.FixedZone("", 2*60*60))},
		{"2024-05-01T10:00:00.123456", time.Date(2024, 5, 1, 10, 0, 0, 123456000, time.UTC)},
		{"2024-05-01T10:00:00", time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)},
		{"not a timestamp", time.Time{}},
		{"", time.Time{}},
	}
	for _, tc := range tests {
		th := Thread{FirstTimestamp: tc.ts}
		if got := th.StartedAt(); !got.Equal(tc.want) {
			t.Fatalf("StartedAt(%q) = %v, want %v", tc.ts, got, tc.want)
		}
	}
}

func TestGroupHistory_TiesKeepDeliveryOrder(t *testing.T) {
	ts := "2024-05-01T10:00:00Z"
	input := []PersistedMessage{
		msg("x", "x1", ts),
		msg("y", "y1", ts),
		msg("z", "z1", ts),
	}

	threads := GroupHistory(input)

	var got []string
	for _, th := range threads {
		got = append(got, th.SessionID)
	}
	want := []string{"x", "y", "z"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("tie-break order mismatch (-want +got):\n%s", diff)
	}
}

func TestThreadPreview(t *testing.T) {
	empty := Thread{}
	if got := empty.Preview(); got != "Empty Chat" {
		t.Fatalf("empty thread preview = %q", got)
	}
	th := Thread{Messages: []PersistedMessage{msg("a", "hello", "2024-05-01T10:00:00Z")}}
	if got := th.Preview(); got != "hello" {
		t.Fatalf("preview = %q, want first message text", got)
	}
}
