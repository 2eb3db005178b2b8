package chat

import (
	"errors"
	"testing"
	"time"
)

func fixedSession() *Session {
	s := NewSession()
	s.now = func() time.Time { return time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC) }
	return s
}

func TestSubmit(t *testing.T) {
	s := fixedSession()

	ticket, ok := s.Submit("Hello")
	if !ok {
		t.Fatal("Submit returned false for valid input")
	}
	if ticket.Prompt != "Hello" {
		t.Errorf("ticket.Prompt = %q, want Hello", ticket.Prompt)
	}
	if !s.Pending() {
		t.Error("session should be pending after submit")
	}

	msgs := s.Messages()
	if len(msgs) != 2 {
		t.Fatalf("len(messages) = %d, want 2", len(msgs))
	}
	if msgs[0].Role != RoleUser || msgs[0].Content != "Hello" || msgs[0].Loading {
		t.Errorf("unexpected user message: %+v", msgs[0])
	}
	if msgs[1].Role != RoleAssistant || msgs[1].Content != Placeholder || !msgs[1].Loading {
		t.Errorf("unexpected placeholder: %+v", msgs[1])
	}
}

func TestSubmitRejects(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"spaces", "   "},
		{"newlines and tabs", "\n\t \n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSession()
			if _, ok := s.Submit(tt.input); ok {
				t.Errorf("Submit(%q) accepted blank input", tt.input)
			}
			if !s.Empty() || s.Pending() {
				t.Error("rejected submit changed the session")
			}
		})
	}
}

func TestSubmitKeepsRawInput(t *testing.T) {
	s := NewSession()
	ticket, ok := s.Submit("  padded  ")
	if !ok {
		t.Fatal("Submit rejected non-blank input")
	}
	if ticket.Prompt != "  padded  " || s.Messages()[0].Content != "  padded  " {
		t.Error("input should be stored and sent unmodified")
	}
}

func TestSubmitWhilePending(t *testing.T) {
	s := NewSession()
	if _, ok := s.Submit("first"); !ok {
		t.Fatal("first submit rejected")
	}
	if _, ok := s.Submit("second"); ok {
		t.Error("second submit accepted while pending")
	}
	if s.Len() != 2 {
		t.Errorf("Len() = %d, want 2", s.Len())
	}
}

func TestResolve(t *testing.T) {
	s := fixedSession()
	ticket, _ := s.Submit("Hello")
	if !s.Resolve(ticket, "Hi! How can I help?") {
		t.Error("Resolve should report the reply as applied")
	}

	if s.Pending() {
		t.Error("session still pending after resolve")
	}
	msgs := s.Messages()
	if len(msgs) != 2 {
		t.Fatalf("len(messages) = %d, want 2", len(msgs))
	}
	last := msgs[1]
	if last.Role != RoleAssistant || last.Content != "Hi! How can I help?" || last.Loading {
		t.Errorf("unexpected reply: %+v", last)
	}

	if _, ok := s.Submit("again"); !ok {
		t.Error("submit should be accepted after resolve")
	}
}

func TestFail(t *testing.T) {
	s := NewSession()
	ticket, _ := s.Submit("Hello")
	s.Fail(ticket, errors.New("boom"))

	if s.Pending() {
		t.Error("session still pending after failure")
	}
	msgs := s.Messages()
	if msgs[1].Content != FallbackReply || msgs[1].Loading {
		t.Errorf("unexpected failure message: %+v", msgs[1])
	}
}

func TestResetClears(t *testing.T) {
	s := NewSession()
	ticket, _ := s.Submit("Hello")
	s.Resolve(ticket, "Hi")

	s.Reset()
	if !s.Empty() {
		t.Errorf("Len() = %d after reset, want 0", s.Len())
	}
	if s.Pending() {
		t.Error("reset of idle session should not be pending")
	}
}

func TestResetWhilePending(t *testing.T) {
	s := NewSession()
	stale, _ := s.Submit("old question")

	s.Reset()
	if !s.Empty() {
		t.Fatal("messages not cleared")
	}
	if !s.Pending() {
		t.Error("in-flight request should keep the session pending")
	}
	if _, ok := s.Submit("new question"); ok {
		t.Error("submit accepted while the old request is in flight")
	}

	if s.Resolve(stale, "old answer") {
		t.Error("Resolve reported a stale ticket as applied")
	}
	if s.Pending() {
		t.Error("stale reply should clear pending")
	}
	if !s.Empty() {
		t.Errorf("stale reply leaked into new chat: %+v", s.Messages())
	}

	if _, ok := s.Submit("new question"); !ok {
		t.Error("submit should work once the stale reply arrived")
	}
}

func TestMessagesIsCopy(t *testing.T) {
	s := NewSession()
	s.Submit("Hello")

	msgs := s.Messages()
	msgs[0].Content = "changed"
	if s.Messages()[0].Content != "Hello" {
		t.Error("Messages() exposed internal state")
	}
}

func TestLastReply(t *testing.T) {
	s := NewSession()
	if _, ok := s.LastReply(); ok {
		t.Error("empty session has no reply")
	}

	ticket, _ := s.Submit("one")
	if _, ok := s.LastReply(); ok {
		t.Error("placeholder is not a reply")
	}
	s.Resolve(ticket, "first answer")

	ticket, _ = s.Submit("two")
	reply, ok := s.LastReply()
	if !ok || reply != "first answer" {
		t.Errorf("LastReply() = %q, %v; want first answer", reply, ok)
	}

	s.Fail(ticket, errors.New("down"))
	reply, _ = s.LastReply()
	if reply != FallbackReply {
		t.Errorf("LastReply() = %q, want fallback", reply)
	}
}
