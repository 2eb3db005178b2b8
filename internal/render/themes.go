package render

import (
	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"
)

// Markdown style names
const (
	ThemeGemini     = "gemini"
	ThemeDark       = styles.DarkStyle
	ThemeLight      = styles.LightStyle
	ThemeDracula    = styles.DraculaStyle
	ThemeTokyoNight = styles.TokyoNightStyle
	ThemePink       = styles.PinkStyle
	ThemeNoTTY      = styles.NoTTYStyle
	ThemeASCII      = styles.AsciiStyle
)

const (
	geminiPurple = "#8e44ef"
	geminiLilac  = "#c39bff"
	geminiWhite  = "#ffffff"
)

// GeminiStyle is glamour's dark style with the Gemini purple on headings,
// links, inline code and rules.
func GeminiStyle() ansi.StyleConfig {
	cfg := styles.DarkStyleConfig

	purple, lilac, white := geminiPurple, geminiLilac, geminiWhite
	bold := true

	cfg.Heading.Color = &lilac
	cfg.Heading.Bold = &bold
	cfg.H1.Color = &white
	cfg.H1.BackgroundColor = &purple
	cfg.Link.Color = &lilac
	cfg.LinkText.Color = &lilac
	cfg.Code.Color = &lilac
	cfg.HorizontalRule.Color = &purple
	cfg.BlockQuote.Color = &lilac

	return cfg
}

// IsBuiltinStyle reports whether style names a built-in style rather than a file
func IsBuiltinStyle(style string) bool {
	if style == ThemeGemini {
		return true
	}
	_, ok := styles.DefaultStyles[style]
	return ok
}

// ThemeInfo contains information about a theme for display purposes.
type ThemeInfo struct {
	Name        string
	Description string
}

// AvailableThemes returns the built-in markdown styles
func AvailableThemes() []ThemeInfo {
	return []ThemeInfo{
		{Name: ThemeGemini, Description: "Gemini purple on dark (default)"},
		{Name: ThemeDark, Description: "Dark theme"},
		{Name: ThemeLight, Description: "Light theme for bright terminals"},
		{Name: ThemeDracula, Description: "Dracula color scheme"},
		{Name: ThemeTokyoNight, Description: "Tokyo Night color scheme"},
		{Name: ThemePink, Description: "Pink accents"},
		{Name: ThemeNoTTY, Description: "Plain text (no styling)"},
		{Name: ThemeASCII, Description: "ASCII-only output"},
	}
}

// ThemeNames returns just the theme names for selection.
func ThemeNames() []string {
	themes := AvailableThemes()
	names := make([]string, len(themes))
	for i, t := range themes {
		names[i] = t.Name
	}
	return names
}
