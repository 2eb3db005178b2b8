package render

import (
	"sync"

	"github.com/charmbracelet/glamour"
)

// renderers hands out glamour renderers per option set.
// A TermRenderer must not serve two Render calls at once, so callers take
// one from the pool and put it back when done.
type renderers struct {
	mu    sync.Mutex
	pools map[Options]*sync.Pool
}

var shared = &renderers{pools: make(map[Options]*sync.Pool)}

func (r *renderers) pool(opts Options) *sync.Pool {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.pools[opts]
	if !ok {
		p = &sync.Pool{
			New: func() any {
				tr, err := newRenderer(opts)
				if err != nil {
					return nil
				}
				return tr
			},
		}
		r.pools[opts] = p
	}
	return p
}

func (r *renderers) render(content string, opts Options) (string, error) {
	p := r.pool(opts)

	tr, _ := p.Get().(*glamour.TermRenderer)
	if tr == nil {
		// New swallowed the error; build again to report it
		var err error
		if tr, err = newRenderer(opts); err != nil {
			return "", err
		}
	}
	defer p.Put(tr)

	return tr.Render(content)
}

func (r *renderers) size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pools)
}

func newRenderer(opts Options) (*glamour.TermRenderer, error) {
	rendererOpts := []glamour.TermRendererOption{
		styleOption(opts.Style),
		glamour.WithWordWrap(opts.Width),
		glamour.WithTableWrap(opts.TableWrap),
		glamour.WithInlineTableLinks(opts.InlineTableLinks),
	}
	if opts.EnableEmoji {
		rendererOpts = append(rendererOpts, glamour.WithEmoji())
	}
	if opts.PreserveNewLines {
		rendererOpts = append(rendererOpts, glamour.WithPreservedNewLines())
	}
	return glamour.NewTermRenderer(rendererOpts...)
}

// styleOption picks the glamour option for a style name or JSON file path
func styleOption(style string) glamour.TermRendererOption {
	switch {
	case style == "" || style == ThemeGemini:
		return glamour.WithStyles(GeminiStyle())
	case IsBuiltinStyle(style):
		return glamour.WithStandardStyle(style)
	default:
		return glamour.WithStylePath(style)
	}
}

// ClearCache drops all pooled renderers.
// Called when settings change so renderers for old styles can be collected.
func ClearCache() {
	shared.mu.Lock()
	shared.pools = make(map[Options]*sync.Pool)
	shared.mu.Unlock()
}
