package commands

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/diogo/geminichat/internal/api"
	"github.com/diogo/geminichat/internal/config"
	apierrors "github.com/diogo/geminichat/internal/errors"
	"github.com/diogo/geminichat/internal/logging"
	"github.com/diogo/geminichat/internal/models"
)

// fakeTUI records what the commands hand to the terminal UI
type fakeTUI struct {
	chatCalls   int
	configCalls int
	client      api.GeminiClientInterface
	cfg         config.Config
	err         error
}

func (f *fakeTUI) RunChat(client api.GeminiClientInterface, cfg config.Config) error {
	f.chatCalls++
	f.client = client
	f.cfg = cfg
	return f.err
}

func (f *fakeTUI) RunConfig() error {
	f.configCalls++
	return f.err
}

// newTestRoot isolates HOME and the key variables and captures output
func newTestRoot(t *testing.T, deps *Dependencies) (*cobra.Command, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv(config.EnvAPIKey, "")
	t.Setenv(config.EnvViteAPIKey, "")
	t.Setenv(config.EnvLogLevel, "")
	t.Setenv("GLAMOUR_STYLE", "")
	t.Cleanup(logging.Close)

	cmd := NewRootCmd(deps)
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetIn(strings.NewReader(""))
	return cmd, stdout, stderr
}

func run(t *testing.T, cmd *cobra.Command, args ...string) error {
	t.Helper()
	cmd.SetArgs(args)
	return cmd.Execute()
}

func saveConfig(t *testing.T, mutate func(*config.Config)) {
	t.Helper()
	cfg := config.DefaultConfig()
	mutate(&cfg)
	if err := config.SaveConfig(cfg); err != nil {
		t.Fatalf("SaveConfig() error = %v", err)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	cmd := NewRootCmd(NewDependencies())
	if cmd.Use != "geminichat [prompt]" {
		t.Errorf("Expected use 'geminichat [prompt]', got %s", cmd.Use)
	}
	if cmd.Short == "" || cmd.Long == "" {
		t.Error("descriptions should not be empty")
	}
	if cmd.Args == nil {
		t.Error("Args validation should be configured")
	}

	for _, name := range []string{"chat", "config"} {
		if sub, _, err := cmd.Find([]string{name}); err != nil || sub.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}

	for _, flag := range []string{"model", "api-key", "log-level"} {
		if cmd.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("persistent flag --%s missing", flag)
		}
	}
	for _, flag := range []string{"output", "file", "raw", "version"} {
		if cmd.Flags().Lookup(flag) == nil {
			t.Errorf("flag --%s missing", flag)
		}
	}
}

func TestRootCommand_Version(t *testing.T) {
	for _, arg := range []string{"-v", "--version"} {
		t.Run(arg, func(t *testing.T) {
			cmd, stdout, _ := newTestRoot(t, &Dependencies{Client: api.NewMockReply("unused")})
			if err := run(t, cmd, arg); err != nil {
				t.Fatalf("Execute() error = %v", err)
			}
			if !strings.Contains(stdout.String(), "geminichat "+Version) {
				t.Errorf("version output = %q", stdout.String())
			}
		})
	}
}

func TestRootCommand_NoInputShowsHelp(t *testing.T) {
	mock := api.NewMockReply("unused")
	cmd, stdout, _ := newTestRoot(t, &Dependencies{Client: mock})

	if err := run(t, cmd); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(stdout.String(), "Usage:") {
		t.Errorf("expected help output, got %q", stdout.String())
	}
	if mock.Calls() != 0 {
		t.Error("no request should be sent without a prompt")
	}
}

func TestRootCommand_TooManyArgs(t *testing.T) {
	cmd, _, _ := newTestRoot(t, &Dependencies{Client: api.NewMockReply("unused")})
	if err := run(t, cmd, "one", "two"); err == nil {
		t.Error("expected an error for two positional arguments")
	}
}

func TestRootCommand_PromptSources(t *testing.T) {
	dir := t.TempDir()
	promptFile := filepath.Join(dir, "prompt.md")
	if err := os.WriteFile(promptFile, []byte("from file\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		args  []string
		stdin string
		want  string
	}{
		{name: "argument", args: []string{"from arg"}, want: "from arg"},
		{name: "stdin", stdin: "from stdin\n", want: "from stdin"},
		{name: "file", args: []string{"-f", promptFile}, want: "from file"},
		{name: "file wins over stdin", args: []string{"-f", promptFile}, stdin: "ignored", want: "from file"},
		{name: "stdin wins over argument", args: []string{"ignored"}, stdin: "piped", want: "piped"},
		{name: "blank stdin falls back to argument", args: []string{"from arg"}, stdin: "  \n", want: "from arg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := api.NewMockReply("ok")
			cmd, _, _ := newTestRoot(t, &Dependencies{Client: mock})
			cmd.SetIn(strings.NewReader(tt.stdin))

			if err := run(t, cmd, tt.args...); err != nil {
				t.Fatalf("Execute() error = %v", err)
			}
			if mock.LastPrompt != tt.want {
				t.Errorf("prompt = %q, want %q", mock.LastPrompt, tt.want)
			}
		})
	}
}

func TestRootCommand_MissingFile(t *testing.T) {
	cmd, _, _ := newTestRoot(t, &Dependencies{Client: api.NewMockReply("unused")})
	err := run(t, cmd, "-f", filepath.Join(t.TempDir(), "missing.md"))
	if err == nil || !strings.Contains(err.Error(), "failed to read file") {
		t.Errorf("Execute() error = %v, want read failure", err)
	}
}

func TestRootCommand_ModelSelection(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		configure func(*config.Config)
		want      string
	}{
		{name: "default", args: []string{"hi"}, want: models.DefaultModel.Name},
		{name: "flag", args: []string{"-m", "gemini-2.5-pro", "hi"}, want: "gemini-2.5-pro"},
		{
			name:      "config",
			args:      []string{"hi"},
			configure: func(c *config.Config) { c.DefaultModel = "gemini-2.0-flash" },
			want:      "gemini-2.0-flash",
		},
		{
			name:      "flag beats config",
			args:      []string{"--model", "gemini-2.0-flash-lite", "hi"},
			configure: func(c *config.Config) { c.DefaultModel = "gemini-2.5-pro" },
			want:      "gemini-2.0-flash-lite",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := api.NewMockReply("ok")
			cmd, _, _ := newTestRoot(t, &Dependencies{Client: mock})
			if tt.configure != nil {
				saveConfig(t, tt.configure)
			}

			if err := run(t, cmd, tt.args...); err != nil {
				t.Fatalf("Execute() error = %v", err)
			}
			if mock.LastOptions == nil || mock.LastOptions.Model.Name != tt.want {
				t.Errorf("model = %+v, want %s", mock.LastOptions, tt.want)
			}
		})
	}
}

func TestRootCommand_GenerationSettingsFromConfig(t *testing.T) {
	mock := api.NewMockReply("ok")
	cmd, _, _ := newTestRoot(t, &Dependencies{Client: mock})
	saveConfig(t, func(c *config.Config) {
		c.Temperature = 0.4
		c.MaxOutputTokens = 512
		c.SystemInstruction = "Answer briefly."
	})

	if err := run(t, cmd, "hi"); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	got := mock.LastOptions
	if got.Temperature != 0.4 || got.MaxOutputTokens != 512 || got.SystemInstruction != "Answer briefly." {
		t.Errorf("options = %+v", got)
	}
}

func TestRootCommand_NoAPIKey(t *testing.T) {
	tui := &fakeTUI{}
	cmd, _, _ := newTestRoot(t, &Dependencies{TUI: tui})

	err := run(t, cmd, "hi")
	if !apierrors.IsAuthError(err) {
		t.Errorf("Execute() error = %v, want auth error", err)
	}
}

func TestRootCommand_LogLevelFlag(t *testing.T) {
	cmd, _, _ := newTestRoot(t, &Dependencies{Client: api.NewMockReply("ok")})

	if err := run(t, cmd, "--log-level", "debug", "hi"); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	logPath, err := config.GetLogPath()
	if err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}
	if !strings.Contains(string(data), "command start") {
		t.Errorf("debug record missing from log:\n%s", data)
	}
}

func TestHasPipedInput(t *testing.T) {
	if !hasPipedInput(strings.NewReader("x")) {
		t.Error("a plain reader counts as piped input")
	}
	if hasPipedInput(nil) {
		t.Error("nil reader is not input")
	}
}

func TestFirstNonEmpty(t *testing.T) {
	tests := []struct {
		in   []string
		want string
	}{
		{[]string{"", " ", "debug", "info"}, "debug"},
		{[]string{"warn"}, "warn"},
		{[]string{"", ""}, ""},
		{nil, ""},
	}
	for _, tt := range tests {
		if got := firstNonEmpty(tt.in...); got != tt.want {
			t.Errorf("firstNonEmpty(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestExecuteWrapperSuccess(t *testing.T) {
	old := rootCmd
	rootCmd = &cobra.Command{
		Use: "test",
		RunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
	}
	rootCmd.SetArgs([]string{})
	defer func() { rootCmd = old }()

	// Should not call os.Exit for successful execution
	Execute()
}

func TestReportError(t *testing.T) {
	t.Run("unreported error is printed", func(t *testing.T) {
		mock := &api.MockGeminiClient{GenerateContentErr: apierrors.NewTimeoutError("")}
		cmd, _, _ := newTestRoot(t, &Dependencies{Client: mock})

		err := run(t, cmd, "--raw", "hi")
		var out bytes.Buffer
		reportError(&out, err)
		if !strings.HasPrefix(out.String(), "Error: generation failed: ") {
			t.Errorf("reportError() wrote %q", out.String())
		}
	})

	t.Run("error shown by the command is not printed again", func(t *testing.T) {
		tui := &fakeTUI{}
		cmd, _, stderr := newTestRoot(t, &Dependencies{TUI: tui})

		err := run(t, cmd, "chat")
		if !apierrors.IsAuthError(err) {
			t.Fatalf("Execute() error = %v, want auth error", err)
		}
		if strings.Count(stderr.String(), "no API key configured") != 1 {
			t.Errorf("stderr should show the error once, got %q", stderr.String())
		}

		var out bytes.Buffer
		reportError(&out, err)
		if out.Len() != 0 {
			t.Errorf("reportError() should stay quiet, wrote %q", out.String())
		}
	})

	t.Run("reported marker keeps the chain", func(t *testing.T) {
		err := reported(fmt.Errorf("generation failed: %w", apierrors.NewBlockedError("SAFETY")))
		if !apierrors.IsBlockedError(err) || err.Error() != "generation failed: content blocked: SAFETY" {
			t.Errorf("reported() changed the error: %v", err)
		}
	})
}

func TestFakeTUIError(t *testing.T) {
	want := errors.New("no tty")
	tui := &fakeTUI{err: want}
	cmd, _, _ := newTestRoot(t, &Dependencies{Client: api.NewMockReply("ok"), TUI: tui})

	if err := run(t, cmd, "config"); !errors.Is(err, want) {
		t.Errorf("Execute() error = %v, want %v", err, want)
	}
}
