package commands

import (
	"github.com/atotto/clipboard"

	"github.com/diogo/geminichat/internal/api"
	"github.com/diogo/geminichat/internal/config"
	"github.com/diogo/geminichat/internal/tui"
)

// TUIInterface defines the methods required from the TUI package.
type TUIInterface interface {
	RunChat(client api.GeminiClientInterface, cfg config.Config) error
	RunConfig() error
}

// Dependencies holds the external dependencies for the commands.
// This allows for dependency injection and easier testing.
type Dependencies struct {
	// Client is the Gemini API client. When nil, one is built from the
	// resolved API key and the loaded config.
	Client api.GeminiClientInterface

	// TUI is the terminal user interface.
	TUI TUIInterface

	// CopyText writes text to the system clipboard.
	CopyText func(string) error
}

// DefaultTUI is the production implementation of TUIInterface.
type DefaultTUI struct{}

func (d *DefaultTUI) RunChat(client api.GeminiClientInterface, cfg config.Config) error {
	return tui.RunChat(client, cfg)
}

func (d *DefaultTUI) RunConfig() error {
	return tui.RunConfig()
}

// NewDependencies creates a new Dependencies struct with default implementations.
func NewDependencies() *Dependencies {
	return &Dependencies{
		TUI:      &DefaultTUI{},
		CopyText: clipboard.WriteAll,
	}
}

func (d *Dependencies) tui() TUIInterface {
	if d == nil || d.TUI == nil {
		return &DefaultTUI{}
	}
	return d.TUI
}

func (d *Dependencies) copyText(text string) error {
	if d == nil || d.CopyText == nil {
		return clipboard.WriteAll(text)
	}
	return d.CopyText(text)
}
