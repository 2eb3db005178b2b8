package api

import (
	"sync"

	"github.com/diogo/geminichat/internal/models"
)

// MockGeminiClient is a mock implementation of GeminiClientInterface for testing
type MockGeminiClient struct {
	// Mock return values
	Model              models.Model
	IsClosedVal        bool
	GenerateContentVal *models.ModelOutput
	GenerateContentErr error
	// GenerateFunc, when set, replaces the canned return values
	GenerateFunc func(prompt string, opts *GenerateOptions) (*models.ModelOutput, error)

	// Call counters/recorders
	mu                    sync.Mutex
	CloseCalled           bool
	GenerateContentCalled bool
	GenerateCalls         int
	LastPrompt            string
	LastOptions           *GenerateOptions
}

// Ensure MockGeminiClient implements GeminiClientInterface
var _ GeminiClientInterface = (*MockGeminiClient)(nil)

// NewMockReply returns a mock whose GenerateContent answers with text
func NewMockReply(text string) *MockGeminiClient {
	return &MockGeminiClient{
		Model: models.DefaultModel,
		GenerateContentVal: &models.ModelOutput{
			Candidates: []models.Candidate{{Text: text, FinishReason: models.FinishReasonStop}},
		},
	}
}

func (m *MockGeminiClient) GenerateContent(prompt string, opts *GenerateOptions) (*models.ModelOutput, error) {
	m.mu.Lock()
	m.GenerateContentCalled = true
	m.GenerateCalls++
	m.LastPrompt = prompt
	m.LastOptions = opts
	fn := m.GenerateFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(prompt, opts)
	}
	return m.GenerateContentVal, m.GenerateContentErr
}

func (m *MockGeminiClient) GetModel() models.Model {
	return m.Model
}

func (m *MockGeminiClient) SetModel(model models.Model) {
	m.Model = model
}

func (m *MockGeminiClient) Close() {
	m.CloseCalled = true
}

func (m *MockGeminiClient) IsClosed() bool {
	return m.IsClosedVal
}

// Calls returns the number of GenerateContent calls
func (m *MockGeminiClient) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.GenerateCalls
}
