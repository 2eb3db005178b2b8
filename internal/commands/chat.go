package commands

import (
	"github.com/spf13/cobra"

	"github.com/diogo/geminichat/internal/logging"
	"github.com/diogo/geminichat/internal/models"
	"github.com/diogo/geminichat/internal/tui"
)

// NewChatCmd creates the chat command
func NewChatCmd(deps *Dependencies, opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat session",
		Long: `Start the chat screen.

Each message is sent to Gemini on its own and the reply is shown as
rendered markdown. Enter sends, Alt+Enter inserts a newline, Ctrl+N starts
a new chat, Ctrl+B focuses the sidebar and Esc or Ctrl+C quits. Ctrl+Y
copies the last reply; Ctrl+T and Ctrl+O copy the conversation as markdown
or JSON.

The -m flag only sets the model for this session. Use the settings menu to
change the saved default model.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd, deps, opts)
		},
	}
}

func runChat(cmd *cobra.Command, deps *Dependencies, opts *rootOptions) error {
	client, release, err := opts.client(deps)
	if err != nil {
		cmd.PrintErrln(tui.FormatError(err))
		return reported(err)
	}
	defer release()

	// -m only affects this session; the config goes to the UI as loaded
	// so the settings menu never writes the flag value back.
	client.SetModel(models.ModelFromName(opts.modelName()))

	logging.L().Info("chat start", "model", client.GetModel().Name)
	return deps.tui().RunChat(client, opts.cfg)
}
