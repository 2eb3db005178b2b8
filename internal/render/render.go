// Package render turns markdown replies into styled terminal text.
package render

import (
	"strings"

	"github.com/diogo/geminichat/internal/logging"
)

// Options configures the markdown renderer.
// Options is comparable and doubles as the renderer pool key.
type Options struct {
	Width int
	// Style is a built-in style name (see ThemeNames) or a path to a JSON style
	Style string

	EnableEmoji      bool
	PreserveNewLines bool
	TableWrap        bool
	InlineTableLinks bool
}

// DefaultOptions returns the options used when nothing is configured
func DefaultOptions() Options {
	return Options{
		Width:            80,
		Style:            ThemeGemini,
		EnableEmoji:      true,
		PreserveNewLines: true,
		TableWrap:        true,
	}
}

// WithWidth returns a copy of o wrapping at width
func (o Options) WithWidth(width int) Options {
	o.Width = width
	return o
}

// WithStyle returns a copy of o using style
func (o Options) WithStyle(style string) Options {
	o.Style = style
	return o
}

// Markdown renders content for terminal display
func Markdown(content string, opts Options) (string, error) {
	return shared.render(content, opts)
}

// Reply renders an assistant reply wrapped at width, without trailing newlines.
// When rendering fails the raw text is returned and the error logged.
func Reply(content string, opts Options, width int) string {
	out, err := Markdown(content, opts.WithWidth(width))
	if err != nil {
		logging.L().Warn("markdown render failed", "style", opts.Style, "error", err)
		out = content
	}
	return strings.TrimRight(out, "\n")
}
