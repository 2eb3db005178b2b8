package chat

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Transcript renders the settled messages as a markdown document
func (s *Session) Transcript() string {
	msgs := s.Messages()

	var sb strings.Builder
	sb.WriteString("# Gemini chat\n\n")

	written := 0
	for _, msg := range msgs {
		if msg.Loading {
			continue
		}
		if written > 0 {
			sb.WriteString("\n---\n\n")
		}

		role := "You"
		if msg.Role == RoleAssistant {
			role = "Gemini"
		}
		sb.WriteString("## ")
		sb.WriteString(role)
		if !msg.At.IsZero() {
			sb.WriteString(" (")
			sb.WriteString(msg.At.Format("15:04:05"))
			sb.WriteString(")")
		}
		sb.WriteString("\n\n")
		sb.WriteString(msg.Content)
		sb.WriteString("\n")
		written++
	}

	if written == 0 {
		sb.WriteString("_No messages._\n")
	} else {
		sb.WriteString(fmt.Sprintf("\n---\n\n_%d messages_\n", written))
	}
	return sb.String()
}

// TranscriptJSON renders the settled messages as JSON
func (s *Session) TranscriptJSON() ([]byte, error) {
	type exportMessage struct {
		Role    Role   `json:"role"`
		Content string `json:"content"`
		At      string `json:"at,omitempty"`
	}

	out := []exportMessage{}
	for _, msg := range s.Messages() {
		if msg.Loading {
			continue
		}
		em := exportMessage{Role: msg.Role, Content: msg.Content}
		if !msg.At.IsZero() {
			em.At = msg.At.Format("2006-01-02T15:04:05Z07:00")
		}
		out = append(out, em)
	}
	return json.MarshalIndent(out, "", "  ")
}
