package main

import (
	"context"
	"errors"

	"github.com/aretw0/dialogs/internal/cli"
	"github.com/aretw0/dialogs/internal/presentation/tui"
	"github.com/aretw0/dialogs/pkg/adapters/console"
	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to the bot in the terminal",
	Long: `Starts a conversation on stdin/stdout. Type /quit to end it.
With a file or Redis store, pass --conversation to resume an earlier chat.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, cfg, _, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		id, _ := cmd.Flags().GetString("conversation")
		locale, _ := cmd.Flags().GetString("locale")
		if locale == "" {
			locale = cfg.Bot.DefaultLocale
		}

		out := cmd.OutOrStdout()
		interactive := tui.IsTerminal(out)
		c := rt.Engine.Console(
			console.WithInput(cmd.InOrStdin()),
			console.WithOutput(out),
			console.WithRenderer(tui.RendererFor(out)),
			console.WithBanner(interactive),
			console.WithConversationID(id),
			console.WithLocale(locale),
		)

		sc := cli.NewSignalContext(cmd.Context())
		defer sc.Cancel()

		err = c.Run(sc)
		if errors.Is(err, context.Canceled) && sc.Signal() != nil {
			cli.PrintSystemMessage(out, "Interrupted. Resume with --conversation %s", c.ConversationID())
			return nil
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.Flags().String("conversation", "", "Conversation ID (default: a new UUID)")
	chatCmd.Flags().String("locale", "", "Locale sent with each message (default: bot.default_locale)")
}
