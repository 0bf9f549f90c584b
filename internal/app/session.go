package app

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Sender tells the two sides of a conversation apart.
type Sender string

const (
	SenderUser  Sender = "user"
	SenderAgent Sender = "agent"
)

// Message is one turn of the live conversation. Immutable once appended.
type Message struct {
	ID       string
	Text     string
	Sender   Sender
	ImageURL string
}

// crewPrefix routes an utterance to the long-running crew endpoint. Matched
// case-insensitively and only at the start of the input, so the command never
// fires inside ordinary text.
const crewPrefix = "/blog "

const chartCaption = "Here is the chart you requested:"

// AgentCaller is the slice of the backend client the session needs.
type AgentCaller interface {
	SendChatTurn(ctx context.Context, sessionID, text string) (string, error)
	InvokeCrew(ctx context.Context, topic string) (string, error)
	ArtifactURL(name string) string
}

// Session owns the live conversation: its id and the ordered message list.
// StartNew and Load replace the conversation wholesale; Submit appends to it.
// Appends happen from the Submit goroutine while the UI snapshots from its
// own, so the list is guarded by a mutex. Only one Submit is in flight at a
// time; the UI gates the input while a call is outstanding.
type Session struct {
	client AgentCaller

	mu       sync.Mutex
	id       string
	messages []Message

	updates chan struct{}
}

func NewSession(client AgentCaller) *Session {
	return &Session{
		client:  client,
		updates: make(chan struct{}, 1),
	}
}

// Updates signals after every append so the UI can re-render mid-call: the
// optimistic echo and the crew acknowledgment are visible while the remote
// call is still outstanding.
func (s *Session) Updates() <-chan struct{} {
	return s.updates
}

// ID returns the current session identifier, empty when no session is active.
func (s *Session) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

// Active reports whether a session has been started or loaded.
func (s *Session) Active() bool {
	return s.ID() != ""
}

// Messages returns a snapshot of the live message list.
func (s *Session) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// StartNew begins a fresh conversation: a new session id and a single
// synthesized greeting addressed to displayName. Purely local.
func (s *Session) StartNew(displayName string) {
	if displayName == "" {
		displayName = "there"
	}
	greeting := Message{
		ID:     NewID(),
		Text:   fmt.Sprintf("Hi %s! I'm ready for a new conversation.", displayName),
		Sender: SenderAgent,
	}
	s.mu.Lock()
	s.id = NewID()
	s.messages = []Message{greeting}
	s.mu.Unlock()
	s.signal()
}

// Load replaces the live conversation with a persisted thread. Each message
// gets a fresh local id; persisted ids are never reused. The session id comes
// from the first message, or is freshly generated when the thread is empty.
func (s *Session) Load(thread []PersistedMessage) {
	loaded := make([]Message, 0, len(thread))
	for _, msg := range thread {
		loaded = append(loaded, Message{
			ID:     NewID(),
			Text:   msg.Text,
			Sender: Sender(msg.Sender),
		})
	}
	id := NewID()
	if len(thread) > 0 && thread[0].SessionID != "" {
		id = thread[0].SessionID
	}
	s.mu.Lock()
	s.id = id
	s.messages = loaded
	s.mu.Unlock()
	s.signal()
}

// Submit routes one user utterance to the backend and folds the outcome into
// the conversation. The user's message is echoed immediately and never rolled
// back; any remote failure becomes a trailing agent message instead of an
// escaping fault, so the conversation stays the single channel for success
// and failure alike.
func (s *Session) Submit(ctx context.Context, raw string) {
	if strings.TrimSpace(raw) == "" || !s.Active() {
		return
	}

	s.append(Message{ID: NewID(), Text: raw, Sender: SenderUser})

	if strings.HasPrefix(strings.ToLower(raw), crewPrefix) {
		s.submitCrew(ctx, raw[len(crewPrefix):])
		return
	}
	s.submitChat(ctx, raw)
}

func (s *Session) submitCrew(ctx context.Context, topic string) {
	s.append(Message{
		ID:     NewID(),
		Text:   fmt.Sprintf("Ok, dispatching my AI agent team to write a blog post about: %q. This may take a few minutes...", topic),
		Sender: SenderAgent,
	})

	result, err := s.client.InvokeCrew(ctx, topic)
	if err != nil {
		s.append(Message{ID: NewID(), Text: UserMessage(err), Sender: SenderAgent})
		return
	}
	s.append(Message{ID: NewID(), Text: result, Sender: SenderAgent})
}

func (s *Session) submitChat(ctx context.Context, raw string) {
	output, err := s.client.SendChatTurn(ctx, s.ID(), raw)
	if err != nil {
		s.append(Message{ID: NewID(), Text: UserMessage(err), Sender: SenderAgent})
		return
	}

	reply := Message{ID: NewID(), Text: output, Sender: SenderAgent}
	// Chart artifacts come back as a bare file name rather than display text.
	if trimmed := strings.TrimSpace(output); strings.HasSuffix(trimmed, ".png") {
		reply.ImageURL = s.client.ArtifactURL(trimmed)
		reply.Text = chartCaption
	}
	s.append(reply)
}

func (s *Session) append(msg Message) {
	s.mu.Lock()
	s.messages = append(s.messages, msg)
	s.mu.Unlock()
	s.signal()
}

func (s *Session) signal() {
	select {
	case s.updates <- struct{}{}:
	default:
	}
}
