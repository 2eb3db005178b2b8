package models

import "strings"

// Candidate represents a single response candidate from Gemini
type Candidate struct {
	Index        int
	Text         string
	FinishReason string
}

// Usage holds token accounting reported by the API
type Usage struct {
	PromptTokens    int
	CandidateTokens int
	TotalTokens     int
}

// ModelOutput represents the complete API response from Gemini
type ModelOutput struct {
	Candidates   []Candidate
	Chosen       int // Index of selected candidate
	Usage        Usage
	ModelVersion string
}

// ChosenCandidate returns a pointer to the chosen candidate
func (m *ModelOutput) ChosenCandidate() *Candidate {
	if m == nil || len(m.Candidates) == 0 {
		return nil
	}
	if m.Chosen < 0 || m.Chosen >= len(m.Candidates) {
		return &m.Candidates[0]
	}
	return &m.Candidates[m.Chosen]
}

// Text returns the chosen candidate's text
func (m *ModelOutput) Text() string {
	if c := m.ChosenCandidate(); c != nil {
		return c.Text
	}
	return ""
}

// FinishReason returns the chosen candidate's finish reason
func (m *ModelOutput) FinishReason() string {
	if c := m.ChosenCandidate(); c != nil {
		return c.FinishReason
	}
	return ""
}

// Truncated reports whether the reply stopped for a reason other than a natural stop
func (m *ModelOutput) Truncated() bool {
	reason := strings.ToUpper(m.FinishReason())
	return reason != "" && reason != FinishReasonStop
}
