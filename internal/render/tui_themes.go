package render

import (
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// TUITheme defines the color scheme for the TUI interface
type TUITheme struct {
	Name        string
	Description string

	// Base colors
	Background lipgloss.Color
	Surface    lipgloss.Color
	Border     lipgloss.Color

	// Accent colors
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color

	// Text colors
	Text     lipgloss.Color
	TextDim  lipgloss.Color
	TextMute lipgloss.Color

	// User messages are drawn as filled bubbles
	UserBubble lipgloss.Color
	UserText   lipgloss.Color
}

// Built-in TUI themes
var (
	// GeminiTheme is the default theme built around the Gemini purple
	GeminiTheme = TUITheme{
		Name:        "gemini",
		Description: "Gemini - Dark theme with the Gemini purple",

		Background: lipgloss.Color("#131314"),
		Surface:    lipgloss.Color("#1e1f20"),
		Border:     lipgloss.Color("#3c3d40"),

		Primary:   lipgloss.Color("#8e44ef"),
		Secondary: lipgloss.Color("#4285f4"),
		Accent:    lipgloss.Color("#c39bff"),
		Warning:   lipgloss.Color("#fbbc04"),
		Error:     lipgloss.Color("#f28b82"),

		Text:     lipgloss.Color("#e3e3e3"),
		TextDim:  lipgloss.Color("#9aa0a6"),
		TextMute: lipgloss.Color("#5f6368"),

		UserBubble: lipgloss.Color("#8e44ef"),
		UserText:   lipgloss.Color("#ffffff"),
	}

	// LightTheme suits bright terminal backgrounds
	LightTheme = TUITheme{
		Name:        "light",
		Description: "Light - Gemini purple on a bright background",

		Background: lipgloss.Color("#ffffff"),
		Surface:    lipgloss.Color("#f0f4f9"),
		Border:     lipgloss.Color("#c4c7c5"),

		Primary:   lipgloss.Color("#8e44ef"),
		Secondary: lipgloss.Color("#1a73e8"),
		Accent:    lipgloss.Color("#6f2dbd"),
		Warning:   lipgloss.Color("#b06000"),
		Error:     lipgloss.Color("#d93025"),

		Text:     lipgloss.Color("#1f1f1f"),
		TextDim:  lipgloss.Color("#5f6368"),
		TextMute: lipgloss.Color("#9aa0a6"),

		UserBubble: lipgloss.Color("#e9ddfd"),
		UserText:   lipgloss.Color("#1f1f1f"),
	}

	// TokyoNightTheme is a dark theme based on Tokyo Night color scheme
	TokyoNightTheme = TUITheme{
		Name:        "tokyonight",
		Description: "Tokyo Night - Dark theme with blue accents",

		Background: lipgloss.Color("#1a1b26"),
		Surface:    lipgloss.Color("#24283b"),
		Border:     lipgloss.Color("#414868"),

		Primary:   lipgloss.Color("#7aa2f7"),
		Secondary: lipgloss.Color("#9ece6a"),
		Accent:    lipgloss.Color("#bb9af7"),
		Warning:   lipgloss.Color("#e0af68"),
		Error:     lipgloss.Color("#f7768e"),

		Text:     lipgloss.Color("#c0caf5"),
		TextDim:  lipgloss.Color("#565f89"),
		TextMute: lipgloss.Color("#3b4261"),

		UserBubble: lipgloss.Color("#3d59a1"),
		UserText:   lipgloss.Color("#c0caf5"),
	}

	// CatppuccinMochaTheme is based on Catppuccin Mocha palette
	CatppuccinMochaTheme = TUITheme{
		Name:        "catppuccin",
		Description: "Catppuccin Mocha - Warm dark theme with pastel colors",

		Background: lipgloss.Color("#1e1e2e"),
		Surface:    lipgloss.Color("#313244"),
		Border:     lipgloss.Color("#45475a"),

		Primary:   lipgloss.Color("#89b4fa"), // Blue
		Secondary: lipgloss.Color("#a6e3a1"), // Green
		Accent:    lipgloss.Color("#cba6f7"), // Mauve
		Warning:   lipgloss.Color("#f9e2af"), // Yellow
		Error:     lipgloss.Color("#f38ba8"), // Red

		Text:     lipgloss.Color("#cdd6f4"),
		TextDim:  lipgloss.Color("#6c7086"),
		TextMute: lipgloss.Color("#45475a"),

		UserBubble: lipgloss.Color("#45475a"),
		UserText:   lipgloss.Color("#cdd6f4"),
	}

	// NordTheme is based on the Nord color palette
	NordTheme = TUITheme{
		Name:        "nord",
		Description: "Nord - Arctic-inspired theme with cool tones",

		Background: lipgloss.Color("#2e3440"),
		Surface:    lipgloss.Color("#3b4252"),
		Border:     lipgloss.Color("#4c566a"),

		Primary:   lipgloss.Color("#88c0d0"), // Frost
		Secondary: lipgloss.Color("#a3be8c"), // Aurora green
		Accent:    lipgloss.Color("#b48ead"), // Aurora purple
		Warning:   lipgloss.Color("#ebcb8b"), // Aurora yellow
		Error:     lipgloss.Color("#bf616a"), // Aurora red

		Text:     lipgloss.Color("#eceff4"),
		TextDim:  lipgloss.Color("#7b88a1"),
		TextMute: lipgloss.Color("#4c566a"),

		UserBubble: lipgloss.Color("#5e81ac"),
		UserText:   lipgloss.Color("#eceff4"),
	}
)

var (
	themeMu         sync.RWMutex
	currentTUITheme = GeminiTheme
)

// GetTUITheme returns the currently active TUI theme
func GetTUITheme() TUITheme {
	themeMu.RLock()
	defer themeMu.RUnlock()
	return currentTUITheme
}

// SetTUITheme sets the active TUI theme by name
func SetTUITheme(name string) bool {
	theme, ok := GetTUIThemeByName(name)
	if !ok {
		return false
	}
	themeMu.Lock()
	currentTUITheme = theme
	themeMu.Unlock()
	return true
}

// GetTUIThemeByName returns a TUI theme by its name
func GetTUIThemeByName(name string) (TUITheme, bool) {
	for _, theme := range AvailableTUIThemes() {
		if theme.Name == name {
			return theme, true
		}
	}
	return TUITheme{}, false
}

// AvailableTUIThemes returns a list of all available TUI themes
func AvailableTUIThemes() []TUITheme {
	return []TUITheme{
		GeminiTheme,
		TokyoNightTheme,
		CatppuccinMochaTheme,
		NordTheme,
		LightTheme,
	}
}

// TUIThemeNames returns just the theme names for selection
func TUIThemeNames() []string {
	themes := AvailableTUIThemes()
	names := make([]string, len(themes))
	for i, t := range themes {
		names[i] = t.Name
	}
	return names
}
