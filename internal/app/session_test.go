package app

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

type fakeAgent struct {
	chatOut string
	chatErr error
	crewOut string
	crewErr error

	chatSessions []string
	chatInputs   []string
	crewTopics   []string

	// crewStarted/crewRelease let a test observe the conversation while the
	// crew call is still outstanding.
	crewStarted chan struct{}
	crewRelease chan struct{}
}

func (f *fakeAgent) SendChatTurn(_ context.Context, sessionID, text string) (string, error) {
	f.chatSessions = append(f.chatSessions, sessionID)
	f.chatInputs = append(f.chatInputs, text)
	return f.chatOut, f.chatErr
}

func (f *fakeAgent) InvokeCrew(_ context.Context, topic string) (string, error) {
	f.crewTopics = append(f.crewTopics, topic)
	if f.crewStarted != nil {
		close(f.crewStarted)
		<-f.crewRelease
	}
	return f.crewOut, f.crewErr
}

func (f *fakeAgent) ArtifactURL(name string) string {
	return "https://backend.example" + "/" + name
}

func TestStartNew(t *testing.T) {
	s := NewSession(&fakeAgent{})
	s.StartNew("Ada")

	if s.ID() == "" {
		t.Fatal("StartNew left an empty session id")
	}
	msgs := s.Messages()
	if len(msgs) != 1 {
		t.Fatalf("got %d messages, want 1", len(msgs))
	}
	if msgs[0].Sender != SenderAgent {
		t.Fatalf("greeting sender = %q, want agent", msgs[0].Sender)
	}
	if !strings.Contains(msgs[0].Text, "Ada") {
		t.Fatalf("greeting %q does not reference the name", msgs[0].Text)
	}

	// Starting again replaces everything, including the id.
	prev := s.ID()
	s.StartNew("")
	if s.ID() == prev {
		t.Fatal("StartNew reused the previous session id")
	}
	if got := s.Messages(); len(got) != 1 || !strings.Contains(got[0].Text, "there") {
		t.Fatalf("greeting without a name = %v, want fallback to 'there'", got)
	}
}

func TestLoad(t *testing.T) {
	s := NewSession(&fakeAgent{})

	s.Load(nil)
	if s.ID() == "" {
		t.Fatal("loading an empty thread should still produce a session id")
	}
	if got := s.Messages(); len(got) != 0 {
		t.Fatalf("empty thread loaded %d messages", len(got))
	}

	thread := []PersistedMessage{
		{Sender: "agent", Text: "hello", Timestamp: "2024-05-01T10:00:00Z", SessionID: "sess-1"},
		{Sender: "user", Text: "hi", Timestamp: "2024-05-01T10:01:00Z", SessionID: "sess-1"},
	}
	s.Load(thread)

	if s.ID() != "sess-1" {
		t.Fatalf("session id = %q, want sess-1", s.ID())
	}
	msgs := s.Messages()
	if len(msgs) != 2 {
		t.Fatalf("got %d messages, want 2", len(msgs))
	}
	if msgs[0].Text != "hello" || msgs[1].Text != "hi" {
		t.Fatalf("loaded order wrong: %v", msgs)
	}
	if msgs[0].Sender != SenderAgent || msgs[1].Sender != SenderUser {
		t.Fatalf("loaded senders wrong: %v", msgs)
	}
	if msgs[0].ID == "" || msgs[0].ID == msgs[1].ID {
		t.Fatal("loaded messages need fresh distinct local ids")
	}
}

func TestSubmit_IgnoresBlankAndInactive(t *testing.T) {
	agent := &fakeAgent{chatOut: "reply"}
	s := NewSession(agent)

	// No session yet.
	s.Submit(context.Background(), "hello")
	if len(s.Messages()) != 0 {
		t.Fatal("submit without an active session should be a no-op")
	}

	s.StartNew("Ada")
	before := len(s.Messages())
	for _, input := range []string{"", "   ", "\t\n"} {
		s.Submit(context.Background(), input)
	}
	if got := len(s.Messages()); got != before {
		t.Fatalf("blank submits changed message count: %d -> %d", before, got)
	}
	if len(agent.chatInputs) != 0 {
		t.Fatalf("blank submits reached the backend: %v", agent.chatInputs)
	}
}

func TestSubmit_ChatTurnVerbatim(t *testing.T) {
	agent := &fakeAgent{chatOut: "Turing was a mathematician."}
	s := NewSession(agent)
	s.StartNew("Ada")

	s.Submit(context.Background(), "Who was Alan Turing?")

	msgs := s.Messages()
	if len(msgs) != 3 {
		t.Fatalf("got %d messages, want greeting + echo + reply", len(msgs))
	}
	if msgs[1].Sender != SenderUser || msgs[1].Text != "Who was Alan Turing?" {
		t.Fatalf("echo = %+v", msgs[1])
	}
	if msgs[2].Sender != SenderAgent || msgs[2].Text != "Turing was a mathematician." {
		t.Fatalf("reply = %+v", msgs[2])
	}
	if msgs[2].ImageURL != "" {
		t.Fatalf("plain reply should carry no image url, got %q", msgs[2].ImageURL)
	}
	if agent.chatSessions[0] != s.ID() {
		t.Fatalf("chat turn used session %q, want %q", agent.chatSessions[0], s.ID())
	}
}

func TestSubmit_ChartArtifact(t *testing.T) {
	agent := &fakeAgent{chatOut: "chart_42.png \n"}
	s := NewSession(agent)
	s.StartNew("Ada")

	s.Submit(context.Background(), "draw it")

	msgs := s.Messages()
	reply := msgs[len(msgs)-1]
	if reply.Text != "Here is the chart you requested:" {
		t.Fatalf("caption = %q", reply.Text)
	}
	if reply.ImageURL != "https://backend.example/chart_42.png" {
		t.Fatalf("image url = %q", reply.ImageURL)
	}
}

func TestSubmit_ChatFailureKeepsEcho(t *testing.T) {
	agent := &fakeAgent{chatErr: &TransportError{Err: errors.New("connection refused")}}
	s := NewSession(agent)
	s.StartNew("Ada")
	before := len(s.Messages())

	s.Submit(context.Background(), "hello?")

	msgs := s.Messages()
	if len(msgs) != before+2 {
		t.Fatalf("got %d messages, want echo + one error message", len(msgs)-before)
	}
	if msgs[before].Sender != SenderUser || msgs[before].Text != "hello?" {
		t.Fatalf("optimistic echo missing after failure: %+v", msgs[before])
	}
	last := msgs[len(msgs)-1]
	if last.Sender != SenderAgent {
		t.Fatalf("failure message sender = %q, want agent", last.Sender)
	}
	if !strings.Contains(last.Text, "Could not reach") {
		t.Fatalf("failure message = %q", last.Text)
	}
}

func TestSubmit_CrewAppendsAckBeforeResolution(t *testing.T) {
	agent := &fakeAgent{
		crewOut:     "the blog post",
		crewStarted: make(chan struct{}),
		crewRelease: make(chan struct{}),
	}
	s := NewSession(agent)
	s.StartNew("Ada")
	before := len(s.Messages())

	done := make(chan struct{})
	go func() {
		s.Submit(context.Background(), "/blog space elevators")
		close(done)
	}()

	select {
	case <-agent.crewStarted:
	case <-time.After(2 * time.Second):
		t.Fatal("crew call never started")
	}

	// Echo and acknowledgment are already visible while the call is
	// outstanding.
	msgs := s.Messages()
	if len(msgs) != before+2 {
		t.Fatalf("got %d pre-resolution appends, want 2", len(msgs)-before)
	}
	ack := msgs[len(msgs)-1]
	if ack.Sender != SenderAgent || !strings.Contains(ack.Text, `"space elevators"`) {
		t.Fatalf("acknowledgment = %+v", ack)
	}

	close(agent.crewRelease)
	<-done

	msgs = s.Messages()
	if len(msgs) != before+3 {
		t.Fatalf("got %d total appends, want 3", len(msgs)-before)
	}
	if got := msgs[len(msgs)-1]; got.Sender != SenderAgent || got.Text != "the blog post" {
		t.Fatalf("crew result = %+v", got)
	}
	if len(agent.crewTopics) != 1 || agent.crewTopics[0] != "space elevators" {
		t.Fatalf("crew topics = %v", agent.crewTopics)
	}
}

func TestSubmit_CrewFailure(t *testing.T) {
	agent := &fakeAgent{crewErr: &ServiceError{Status: 500, Detail: "An error occurred while the AI crew was working."}}
	s := NewSession(agent)
	s.StartNew("Ada")
	before := len(s.Messages())

	s.Submit(context.Background(), "/blog doomed topic")

	msgs := s.Messages()
	if len(msgs) != before+3 {
		t.Fatalf("got %d appends, want echo + ack + error", len(msgs)-before)
	}
	last := msgs[len(msgs)-1]
	if last.Sender != SenderAgent || last.Text != "An error occurred while the AI crew was working." {
		t.Fatalf("crew failure message = %+v", last)
	}
}

func TestSubmit_CommandRouting(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantCrew  bool
		wantTopic string
	}{
		{name: "lowercase", input: "/blog The Future of AI", wantCrew: true, wantTopic: "The Future of AI"},
		{name: "mixed case prefix", input: "/BLOG warp drives", wantCrew: true, wantTopic: "warp drives"},
		{name: "prefix mid-text", input: "tell me about /blog posts", wantCrew: false},
		{name: "no trailing space", input: "/blogging tips", wantCrew: false},
		{name: "plain question", input: "what is a blog", wantCrew: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			agent := &fakeAgent{chatOut: "ok", crewOut: "ok"}
			s := NewSession(agent)
			s.StartNew("Ada")

			s.Submit(context.Background(), tc.input)

			if tc.wantCrew {
				if len(agent.crewTopics) != 1 {
					t.Fatalf("crew calls = %v, want one", agent.crewTopics)
				}
				if agent.crewTopics[0] != tc.wantTopic {
					t.Fatalf("topic = %q, want %q", agent.crewTopics[0], tc.wantTopic)
				}
				if len(agent.chatInputs) != 0 {
					t.Fatalf("crew input also hit the chat endpoint: %v", agent.chatInputs)
				}
			} else {
				if len(agent.chatInputs) != 1 || agent.chatInputs[0] != tc.input {
					t.Fatalf("chat inputs = %v, want the raw input", agent.chatInputs)
				}
				if len(agent.crewTopics) != 0 {
					t.Fatalf("chat input hit the crew endpoint: %v", agent.crewTopics)
				}
			}
		})
	}
}

func TestUpdates_SignalsOnAppend(t *testing.T) {
	s := NewSession(&fakeAgent{chatOut: "ok"})

	s.StartNew("Ada")
	select {
	case <-s.Updates():
	case <-time.After(time.Second):
		t.Fatal("no update signal after StartNew")
	}

	s.Submit(context.Background(), "hi")
	select {
	case <-s.Updates():
	case <-time.After(time.Second):
		t.Fatal("no update signal after Submit")
	}
}
