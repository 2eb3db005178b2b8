package commands

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	apierrors "github.com/diogo/geminichat/internal/errors"
	"github.com/diogo/geminichat/internal/logging"
	"github.com/diogo/geminichat/internal/render"
	"github.com/diogo/geminichat/internal/tui"
)

// Gradient colors for animation
var gradientColors = []lipgloss.Color{
	lipgloss.Color("#5b2bb5"),
	lipgloss.Color("#7236d6"),
	lipgloss.Color("#8e44ef"),
	lipgloss.Color("#a66bf5"),
	lipgloss.Color("#c39bff"),
	lipgloss.Color("#a66bf5"),
	lipgloss.Color("#8e44ef"),
	lipgloss.Color("#7236d6"),
}

var (
	colorText     = lipgloss.Color("#e6e1f5")
	colorTextDim  = lipgloss.Color("#8a8299")
	colorTextMute = lipgloss.Color("#4a4458")
	colorSuccess  = lipgloss.Color("#9ece6a")
	colorWarning  = lipgloss.Color("#f7768e")
	colorPrimary  = lipgloss.Color("#8e44ef")
)

// Styles matching the chat TUI
var (
	assistantLabelStyle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	assistantBubbleStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(colorPrimary).
				Foreground(colorText).
				Padding(0, 1).
				MarginTop(1).
				MarginBottom(1)

	verboseStyle = lipgloss.NewStyle().Foreground(colorTextDim)
)

const (
	minBubbleWidth = 40
	maxBubbleWidth = 120
)

// spinner handles the animated loading indicator on stderr
type spinner struct {
	out     io.Writer
	message string
	stop    chan struct{}
	done    chan struct{}
	mu      sync.Mutex
	frame   int
	stopped bool // Flag to prevent double-close
}

// newSpinner creates a new animated spinner
func newSpinner(out io.Writer, message string) *spinner {
	return &spinner{
		out:     out,
		message: message,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// start begins the animation
func (s *spinner) start() {
	go func() {
		defer close(s.done)

		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		// Hide cursor
		fmt.Fprint(s.out, "\033[?25l")

		for {
			select {
			case <-s.stop:
				// Clear line and show cursor
				fmt.Fprint(s.out, "\r\033[K\033[?25h")
				return
			case <-ticker.C:
				s.mu.Lock()
				s.render()
				s.frame++
				s.mu.Unlock()
			}
		}
	}()
}

// render draws the current animation frame
func (s *spinner) render() {
	chars := []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}

	spinColor := gradientColors[s.frame%len(gradientColors)]
	spinnerChar := lipgloss.NewStyle().Foreground(spinColor).Bold(true).Render(chars[s.frame%len(chars)])

	var dots strings.Builder
	numDots := (s.frame / 3) % 4
	for i := 0; i < 3; i++ {
		if i < numDots {
			dotColor := gradientColors[(s.frame+i)%len(gradientColors)]
			dots.WriteString(lipgloss.NewStyle().Foreground(dotColor).Render("●"))
		} else {
			dots.WriteString(lipgloss.NewStyle().Foreground(colorTextMute).Render("○"))
		}
	}

	msg := lipgloss.NewStyle().Foreground(colorText).Render(s.message)
	fmt.Fprintf(s.out, "\r\033[K%s %s %s", spinnerChar, msg, dots.String())
}

// stopOnce safely closes the stop channel only once
func (s *spinner) stopOnce() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.stopped {
		close(s.stop)
		s.stopped = true
	}
}

// stopWithSuccess stops the spinner and shows success message
func (s *spinner) stopWithSuccess(message string) {
	s.stopOnce()
	<-s.done

	checkmark := lipgloss.NewStyle().Foreground(colorSuccess).Bold(true).Render("✓")
	msg := lipgloss.NewStyle().Foreground(colorSuccess).Render(message)
	fmt.Fprintf(s.out, "%s %s\n", checkmark, msg)
}

// stopWithError stops the spinner and leaves the line clear for the error
func (s *spinner) stopWithError() {
	s.stopOnce()
	<-s.done
}

// runQuery sends a single prompt and prints the reply.
// Decoration (spinner, bubble, markdown) is dropped with --raw or when stdout
// is not a terminal, so the reply can be piped.
func runQuery(cmd *cobra.Command, deps *Dependencies, opts *rootOptions, prompt string) error {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return apierrors.ErrEmptyPrompt
	}

	stdout := cmd.OutOrStdout()
	stderr := cmd.ErrOrStderr()
	raw := opts.raw || !isTerminal(stdout)
	verbose := opts.cfg.Verbose && !raw

	client, release, err := opts.client(deps)
	if err != nil {
		if raw {
			return err
		}
		fmt.Fprintln(stderr, tui.FormatError(err))
		return reported(err)
	}
	defer release()

	genOpts := opts.generateOptions()
	if verbose {
		fmt.Fprintln(stderr, verboseStyle.Render(fmt.Sprintf("[verbose] Model: %s", genOpts.Model.Name)))
	}

	var spin *spinner
	if !raw {
		spin = newSpinner(stderr, "Asking Gemini")
		spin.start()
	}

	startTime := time.Now()
	output, err := client.GenerateContent(prompt, genOpts)
	requestDuration := time.Since(startTime)

	if err != nil {
		logging.L().Error("query failed", "error", err, "model", genOpts.Model.Name,
			"body", apierrors.GetResponseBody(err))
		wrapped := fmt.Errorf("generation failed: %w", err)
		if raw {
			return wrapped
		}
		spin.stopWithError()
		fmt.Fprintln(stderr, tui.FormatError(err))
		return reported(wrapped)
	}
	if !raw {
		spin.stopWithSuccess("Done")
	}

	if verbose {
		fmt.Fprintln(stderr, verboseStyle.Render(fmt.Sprintf("[verbose] Request took %s", requestDuration.Round(time.Millisecond))))
		if output.ModelVersion != "" {
			fmt.Fprintln(stderr, verboseStyle.Render(fmt.Sprintf("[verbose] Model version: %s", output.ModelVersion)))
		}
		fmt.Fprintln(stderr, verboseStyle.Render(fmt.Sprintf("[verbose] Tokens: %d prompt, %d reply, %d total",
			output.Usage.PromptTokens, output.Usage.CandidateTokens, output.Usage.TotalTokens)))
		if output.Truncated() {
			fmt.Fprintln(stderr, verboseStyle.Render(fmt.Sprintf("[verbose] Reply stopped early: %s", output.FinishReason())))
		}
	}

	text := output.Text()

	if opts.cfg.CopyToClipboard {
		if err := deps.copyText(text); err != nil {
			logging.L().Warn("clipboard copy failed", "error", err)
			if !raw {
				fmt.Fprintln(stderr, lipgloss.NewStyle().Foreground(colorWarning).Render(
					fmt.Sprintf("⚠ Failed to copy to clipboard: %v", err)))
			}
		} else if !raw {
			fmt.Fprintln(stderr, lipgloss.NewStyle().Foreground(colorSuccess).Render("✓ Copied to clipboard"))
		}
	}

	if opts.output != "" {
		if err := os.WriteFile(opts.output, []byte(text), 0o644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		if !raw {
			fmt.Fprintln(stderr, lipgloss.NewStyle().Foreground(colorSuccess).Render(
				fmt.Sprintf("✓ Response saved to %s", opts.output)))
		}
		return nil
	}

	if raw {
		fmt.Fprint(stdout, text)
		if !strings.HasSuffix(text, "\n") {
			fmt.Fprintln(stdout)
		}
		return nil
	}

	fmt.Fprintln(stdout, renderReply(text, render.OptionsFromConfig(opts.cfg), terminalWidth(stdout)))
	return nil
}

// renderReply draws text as markdown inside the assistant bubble.
// The bubble is sized from termWidth and clamped to a readable range.
func renderReply(text string, renderOpts render.Options, termWidth int) string {
	bubbleWidth := termWidth - 4
	if bubbleWidth < minBubbleWidth {
		bubbleWidth = minBubbleWidth
	}
	if bubbleWidth > maxBubbleWidth {
		bubbleWidth = maxBubbleWidth
	}
	contentWidth := bubbleWidth - 4

	rendered := render.Reply(text, renderOpts, contentWidth)

	label := assistantLabelStyle.Render("✦ Gemini")
	bubble := assistantBubbleStyle.Width(bubbleWidth).Render(rendered)
	return label + "\n" + bubble
}

// terminalWidth returns the width of w when it is a terminal, or 80
func terminalWidth(w io.Writer) int {
	if f, ok := w.(*os.File); ok {
		if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 {
			return width
		}
	}
	return 80
}

// isTerminal reports whether w is connected to a terminal
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
