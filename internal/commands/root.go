// Package commands provides CLI commands for geminichat.
package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/diogo/geminichat/internal/api"
	"github.com/diogo/geminichat/internal/config"
	"github.com/diogo/geminichat/internal/logging"
	"github.com/diogo/geminichat/internal/models"
)

var (
	// Version info (set at build time)
	Version   = "0.1.0"
	BuildTime = "unknown"
)

// rootOptions holds the flag values and the config loaded for one invocation
type rootOptions struct {
	model    string
	apiKey   string
	output   string
	file     string
	logLevel string
	raw      bool

	cfg config.Config
}

// rootCmd represents the base command
var rootCmd = NewRootCmd(NewDependencies())

// NewRootCmd builds the command tree around deps
func NewRootCmd(deps *Dependencies) *cobra.Command {
	opts := &rootOptions{cfg: config.DefaultConfig()}

	cmd := &cobra.Command{
		Use:   "geminichat [prompt]",
		Short: "Chat with Google Gemini from the terminal",
		Long: `geminichat sends prompts to the Gemini API and renders the markdown
reply in the terminal. Run it with a prompt for a single answer, or start
the chat screen with 'geminichat chat'.

The API key is read from --api-key, GEMINI_API_KEY, VITE_GEMINI_API_KEY
or the config file, in that order. A .env file in the working directory
is loaded first.

Examples:
  geminichat chat                        Start interactive chat
  geminichat config                      Configure settings
  geminichat config set-key <key>        Store the API key
  geminichat "What is Go?"               Send a single query
  geminichat -f prompt.md                Read prompt from file
  cat prompt.md | geminichat             Read prompt from stdin
  geminichat "Hello" -o response.md      Save response to file`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logging.Close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if v, _ := cmd.Flags().GetBool("version"); v {
				fmt.Fprintf(cmd.OutOrStdout(), "geminichat %s (built %s)\n", Version, BuildTime)
				return nil
			}

			prompt, ok, err := readPrompt(cmd, opts.file, args)
			if err != nil {
				return err
			}
			if !ok {
				return cmd.Help()
			}
			return runQuery(cmd, deps, opts, prompt)
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.model, "model", "m", "", "Model to use (e.g., gemini-2.5-flash)")
	cmd.PersistentFlags().StringVar(&opts.apiKey, "api-key", "", "Gemini API key (overrides env and config)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Save response to file")
	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "Read prompt from file")
	cmd.Flags().BoolVar(&opts.raw, "raw", false, "Print the reply text without decoration")
	cmd.Flags().BoolP("version", "v", false, "Show version and exit")

	cmd.AddCommand(NewChatCmd(deps, opts))
	cmd.AddCommand(NewConfigCmd(deps))

	return cmd
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		reportError(os.Stderr, err)
		os.Exit(1)
	}
}

// reportedError marks an error whose details were already printed
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }

func (e *reportedError) Unwrap() error { return e.err }

func reported(err error) error {
	return &reportedError{err: err}
}

// reportError prints err unless a command already showed it
func reportError(w io.Writer, err error) {
	var shown *reportedError
	if err == nil || errors.As(err, &shown) {
		return
	}
	fmt.Fprintln(w, "Error:", err)
}

// setup loads .env, the config file and the log file for this run.
// Problems here only produce warnings; the command can still work on defaults.
func (o *rootOptions) setup(cmd *cobra.Command) error {
	stderr := cmd.ErrOrStderr()

	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(stderr, "Warning: failed to load .env: %v\n", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(stderr, "Warning: %v (using defaults)\n", err)
	}
	o.cfg = cfg

	level := firstNonEmpty(o.logLevel, os.Getenv(config.EnvLogLevel), cfg.LogLevel, "info")
	if logPath, err := config.GetLogPath(); err == nil {
		if err := logging.Init(logPath, level); err != nil {
			fmt.Fprintf(stderr, "Warning: logging disabled: %v\n", err)
		}
	}

	logging.L().Debug("command start", "command", cmd.CommandPath(), "version", Version)
	return nil
}

// modelName returns the model to use (from flag or config)
func (o *rootOptions) modelName() string {
	if o.model != "" {
		return o.model
	}
	if o.cfg.DefaultModel != "" {
		return o.cfg.DefaultModel
	}
	return models.DefaultModel.Name
}

// generateOptions maps the config onto per-request options
func (o *rootOptions) generateOptions() *api.GenerateOptions {
	return &api.GenerateOptions{
		Model:             models.ModelFromName(o.modelName()),
		Temperature:       o.cfg.Temperature,
		MaxOutputTokens:   o.cfg.MaxOutputTokens,
		SystemInstruction: o.cfg.SystemInstruction,
	}
}

// client returns the injected client or builds one from the resolved key.
// The returned func releases the client when this command created it.
func (o *rootOptions) client(deps *Dependencies) (api.GeminiClientInterface, func(), error) {
	if deps != nil && deps.Client != nil {
		return deps.Client, func() {}, nil
	}

	apiKey, err := config.ResolveAPIKey(o.apiKey, o.cfg)
	if err != nil {
		return nil, nil, err
	}

	client, err := api.NewClient(apiKey,
		api.WithModel(models.ModelFromName(o.modelName())),
		api.WithTimeout(time.Duration(o.cfg.Timeout)*time.Second),
		api.WithLogger(logging.L()),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create client: %w", err)
	}
	return client, client.Close, nil
}

// readPrompt picks the prompt from -f, piped stdin or the argument, in that order.
// ok is false when none of them supplied anything.
func readPrompt(cmd *cobra.Command, file string, args []string) (string, bool, error) {
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", false, fmt.Errorf("failed to read file: %w", err)
		}
		return string(data), true, nil
	}

	if in := cmd.InOrStdin(); hasPipedInput(in) {
		data, err := io.ReadAll(in)
		if err != nil {
			return "", false, fmt.Errorf("failed to read stdin: %w", err)
		}
		if strings.TrimSpace(string(data)) != "" {
			return string(data), true, nil
		}
	}

	if len(args) > 0 {
		return args[0], true, nil
	}
	return "", false, nil
}

// hasPipedInput reports whether r carries input rather than an interactive terminal
func hasPipedInput(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return r != nil
	}
	stat, err := f.Stat()
	if err != nil {
		return false
	}
	return stat.Mode()&os.ModeCharDevice == 0
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
