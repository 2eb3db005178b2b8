package chat

import (
	"github.com/diogo/geminichat/internal/api"
	apierrors "github.com/diogo/geminichat/internal/errors"
	"github.com/diogo/geminichat/internal/logging"
)

// Reply is the outcome of a submission
type Reply struct {
	Ticket Ticket
	Text   string
	Err    error
}

// Send performs the API call for t. It blocks and is meant to run off the UI loop.
func Send(client api.GeminiClientInterface, t Ticket, opts *api.GenerateOptions) Reply {
	output, err := client.GenerateContent(t.Prompt, opts)
	if err != nil {
		logging.L().Error("reply failed", "error", err, "body", apierrors.GetResponseBody(err))
		return Reply{Ticket: t, Err: err}
	}
	return Reply{Ticket: t, Text: output.Text()}
}

// Apply settles r on the session and reports whether it reached the conversation
func (s *Session) Apply(r Reply) bool {
	if r.Err != nil {
		return s.Fail(r.Ticket, r.Err)
	}
	return s.Resolve(r.Ticket, r.Text)
}
