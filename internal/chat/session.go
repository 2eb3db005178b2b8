// Package chat holds the in-memory state of a single chat screen: the ordered
// message list and the flag gating one outstanding request.
package chat

import (
	"strings"
	"sync"
	"time"
)

// Role identifies who authored a message
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Placeholder is the content of the assistant message shown while a reply is pending
const Placeholder = "..."

// FallbackReply replaces the placeholder whenever the request fails, whatever the cause
const FallbackReply = "Sorry, I encountered an error. Please try again."

// Message is one entry of the conversation
type Message struct {
	Role    Role
	Content string
	Loading bool
	At      time.Time
}

// Ticket identifies an accepted submission until its reply arrives
type Ticket struct {
	Prompt string
	epoch  uint64
}

// Session is the conversation shown on screen. It is never persisted.
type Session struct {
	mu       sync.Mutex
	messages []Message
	pending  bool
	epoch    uint64
	now      func() time.Time
}

// NewSession creates an empty session
func NewSession() *Session {
	return &Session{now: time.Now}
}

// Submit appends the user message and a loading placeholder.
// It returns false, changing nothing, when input is blank or a request is pending.
func (s *Session) Submit(input string) (Ticket, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(input) == "" || s.pending {
		return Ticket{}, false
	}

	at := s.now()
	s.messages = append(s.messages,
		Message{Role: RoleUser, Content: input, At: at},
		Message{Role: RoleAssistant, Content: Placeholder, Loading: true, At: at},
	)
	s.pending = true

	return Ticket{Prompt: input, epoch: s.epoch}, true
}

// Resolve replaces the placeholder with the reply text.
// It reports false when the ticket predates the last Reset.
func (s *Session) Resolve(t Ticket, text string) bool {
	return s.settle(t, text)
}

// Fail replaces the placeholder with FallbackReply. The error itself is not shown.
func (s *Session) Fail(t Ticket, _ error) bool {
	return s.settle(t, FallbackReply)
}

// settle clears the pending flag and, if the ticket belongs to the current
// conversation, swaps the trailing placeholder for the final content.
func (s *Session) settle(t Ticket, content string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pending = false
	if t.epoch != s.epoch {
		return false
	}

	n := len(s.messages)
	if n == 0 || !s.messages[n-1].Loading {
		return false
	}
	s.messages[n-1] = Message{Role: RoleAssistant, Content: content, At: s.now()}
	return true
}

// Reset starts a new chat. A request already in flight stays pending, but its
// reply is dropped when it arrives.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.messages = nil
	s.epoch++
}

// Messages returns a copy of the conversation in chronological order
func (s *Session) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Len returns the number of messages
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.messages)
}

// Empty reports whether the conversation has no messages
func (s *Session) Empty() bool {
	return s.Len() == 0
}

// Pending reports whether a request is in flight
func (s *Session) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// LastReply returns the most recent settled assistant message, if any
func (s *Session) LastReply() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := len(s.messages) - 1; i >= 0; i-- {
		m := s.messages[i]
		if m.Role == RoleAssistant && !m.Loading {
			return m.Content, true
		}
	}
	return "", false
}
