package commands

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/diogo/geminichat/internal/api"
	"github.com/diogo/geminichat/internal/config"
	apierrors "github.com/diogo/geminichat/internal/errors"
	"github.com/diogo/geminichat/internal/render"
)

func TestRunQuery_RawOutput(t *testing.T) {
	mock := api.NewMockReply("# Hello\n\nplain **markdown**")
	cmd, stdout, stderr := newTestRoot(t, &Dependencies{Client: mock})

	if err := run(t, cmd, "--raw", "say hello"); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if got, want := stdout.String(), "# Hello\n\nplain **markdown**\n"; got != want {
		t.Errorf("stdout = %q, want %q", got, want)
	}
	if stderr.Len() != 0 {
		t.Errorf("raw mode should keep stderr quiet, got %q", stderr.String())
	}
	if mock.CloseCalled {
		t.Error("an injected client must not be closed by the command")
	}
}

func TestRunQuery_NonTerminalIsRaw(t *testing.T) {
	mock := api.NewMockReply("ends with newline\n")
	cmd, stdout, _ := newTestRoot(t, &Dependencies{Client: mock})

	if err := run(t, cmd, "hi"); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if got := stdout.String(); got != "ends with newline\n" {
		t.Errorf("stdout = %q", got)
	}
}

func TestRunQuery_EmptyPrompt(t *testing.T) {
	mock := api.NewMockReply("unused")
	cmd, _, _ := newTestRoot(t, &Dependencies{Client: mock})

	err := run(t, cmd, "   ")
	if !errors.Is(err, apierrors.ErrEmptyPrompt) {
		t.Errorf("Execute() error = %v, want ErrEmptyPrompt", err)
	}
	if mock.Calls() != 0 {
		t.Error("blank prompt must not reach the API")
	}
}

func TestRunQuery_GenerationError(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
	}{
		{"auth", apierrors.NewAuthError("bad key"), apierrors.IsAuthError},
		{"quota", apierrors.NewUsageLimitError("quota"), apierrors.IsRateLimitError},
		{"timeout", apierrors.NewTimeoutError(""), apierrors.IsTimeoutError},
		{"blocked", apierrors.NewBlockedError("SAFETY"), apierrors.IsBlockedError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &api.MockGeminiClient{GenerateContentErr: tt.err}
			cmd, stdout, _ := newTestRoot(t, &Dependencies{Client: mock})

			err := run(t, cmd, "hi")
			if err == nil || !tt.check(err) {
				t.Fatalf("Execute() error = %v, want wrapped %T", err, tt.err)
			}
			if !strings.HasPrefix(err.Error(), "generation failed: ") {
				t.Errorf("error should be wrapped, got %q", err.Error())
			}
			if stdout.Len() != 0 {
				t.Errorf("nothing should reach stdout on failure, got %q", stdout.String())
			}
		})
	}
}

func TestRunQuery_OutputFile(t *testing.T) {
	mock := api.NewMockReply("saved reply")
	cmd, stdout, _ := newTestRoot(t, &Dependencies{Client: mock})
	path := filepath.Join(t.TempDir(), "reply.md")

	if err := run(t, cmd, "-o", path, "hi"); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("output file not written: %v", err)
	}
	if string(data) != "saved reply" {
		t.Errorf("file content = %q", data)
	}
	if stdout.Len() != 0 {
		t.Errorf("reply should go to the file only, got %q on stdout", stdout.String())
	}
}

func TestRunQuery_OutputFileError(t *testing.T) {
	cmd, _, _ := newTestRoot(t, &Dependencies{Client: api.NewMockReply("x")})
	path := filepath.Join(t.TempDir(), "missing-dir", "reply.md")

	err := run(t, cmd, "-o", path, "hi")
	if err == nil || !strings.Contains(err.Error(), "failed to write output file") {
		t.Errorf("Execute() error = %v", err)
	}
}

func TestRunQuery_CopyToClipboard(t *testing.T) {
	tests := []struct {
		name    string
		enabled bool
		copyErr error
		want    []string
	}{
		{name: "disabled", enabled: false, want: nil},
		{name: "enabled", enabled: true, want: []string{"copied reply"}},
		{name: "copy failure is not fatal", enabled: true, copyErr: errors.New("no clipboard"), want: []string{"copied reply"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var copied []string
			deps := &Dependencies{
				Client: api.NewMockReply("copied reply"),
				CopyText: func(s string) error {
					copied = append(copied, s)
					return tt.copyErr
				},
			}
			cmd, _, _ := newTestRoot(t, deps)
			saveConfig(t, func(c *config.Config) { c.CopyToClipboard = tt.enabled })

			if err := run(t, cmd, "hi"); err != nil {
				t.Fatalf("Execute() error = %v", err)
			}
			if len(copied) != len(tt.want) || (len(copied) > 0 && copied[0] != tt.want[0]) {
				t.Errorf("copied = %q, want %q", copied, tt.want)
			}
		})
	}
}

func TestRenderReply(t *testing.T) {
	opts := render.DefaultOptions().WithStyle(render.ThemeNoTTY)

	out := renderReply("**hello** world", opts, 80)
	if !strings.Contains(out, "Gemini") {
		t.Error("reply should carry the assistant label")
	}
	if !strings.Contains(out, "hello") || !strings.Contains(out, "world") {
		t.Errorf("reply text missing from %q", out)
	}
	if !strings.Contains(out, "╭") {
		t.Error("reply should be drawn inside a rounded bubble")
	}
}

func TestRenderReply_WidthClamp(t *testing.T) {
	opts := render.DefaultOptions().WithStyle(render.ThemeNoTTY)

	narrow := renderReply("x", opts, 10)
	wide := renderReply("x", opts, 500)

	if w := maxLineWidth(narrow); w < minBubbleWidth {
		t.Errorf("narrow bubble width = %d, want at least %d", w, minBubbleWidth)
	}
	if w := maxLineWidth(wide); w > maxBubbleWidth+2 {
		t.Errorf("wide bubble width = %d, want at most %d", w, maxBubbleWidth+2)
	}
}

func maxLineWidth(s string) int {
	widest := 0
	for _, line := range strings.Split(s, "\n") {
		if n := len([]rune(line)); n > widest {
			widest = n
		}
	}
	return widest
}

func TestTerminalHelpers(t *testing.T) {
	var buf bytes.Buffer
	if isTerminal(&buf) {
		t.Error("a buffer is not a terminal")
	}
	if got := terminalWidth(&buf); got != 80 {
		t.Errorf("terminalWidth(buffer) = %d, want 80", got)
	}
}

func TestSpinnerLifecycle_StopWithSuccess(t *testing.T) {
	var buf bytes.Buffer
	s := newSpinner(&buf, "Asking Gemini")
	s.start()
	time.Sleep(200 * time.Millisecond)
	s.stopWithSuccess("done")

	out := buf.String()
	if !strings.Contains(out, "Asking Gemini") {
		t.Errorf("spinner never drew its message: %q", out)
	}
	if !strings.Contains(out, "\033[?25h") {
		t.Error("cursor should be restored on stop")
	}
	if !strings.Contains(out, "done") {
		t.Error("success message missing")
	}
}

func TestSpinnerLifecycle_StopTwice(t *testing.T) {
	var buf bytes.Buffer
	s := newSpinner(&buf, "Asking Gemini")
	s.start()
	s.stopWithError()
	// Second stop must not panic on the closed channel
	s.stopWithError()
}
