package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aretw0/dialogs/internal/presentation/graph"
	"github.com/spf13/cobra"
)

var conversationsCmd = &cobra.Command{
	Use:     "conversations",
	Aliases: []string{"conv"},
	Short:   "Manage persisted conversations",
	Long:    `List, inspect, and remove conversations kept by the configured store.`,
}

var conversationsLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List all stored conversations",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, _, _, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		ids, err := rt.Engine.Sessions().List(cmd.Context())
		if err != nil {
			return fmt.Errorf("error listing conversations: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(ids) == 0 {
			fmt.Fprintln(out, "No conversations found.")
			return nil
		}
		fmt.Fprintln(out, "Conversations:")
		for _, id := range ids {
			fmt.Fprintln(out, "- "+id)
		}
		return nil
	},
}

var conversationsInspectCmd = &cobra.Command{
	Use:   "inspect <conversation-id>",
	Short: "Print the state of a conversation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		if format != "json" && format != "mermaid" {
			return fmt.Errorf("unknown format %q (want json or mermaid)", format)
		}

		rt, _, _, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		id := args[0]
		state, err := rt.Engine.Sessions().Load(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("error loading conversation '%s': %w", id, err)
		}

		out := cmd.OutOrStdout()
		if format == "mermaid" {
			fmt.Fprint(out, graph.GenerateMermaid(state.Stack, rt.Engine.Dialogs().Capabilities))
			return nil
		}

		data, err := json.MarshalIndent(state, "", "  ")
		if err != nil {
			return fmt.Errorf("error marshaling state: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	},
}

var conversationsRmCmd = &cobra.Command{
	Use:   "rm <conversation-id>...",
	Short: "Cancel and remove one or more conversations",
	RunE: func(cmd *cobra.Command, args []string) error {
		all, _ := cmd.Flags().GetBool("all")
		if !all && len(args) == 0 {
			return errors.New("requires at least one conversation id, or --all")
		}

		rt, _, _, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		if all {
			ids, err := rt.Engine.Sessions().List(cmd.Context())
			if err != nil {
				return fmt.Errorf("error listing conversations: %w", err)
			}
			args = ids
		}

		out := cmd.OutOrStdout()
		var errs []error
		for _, id := range args {
			if err := rt.Engine.Bot().EndConversation(cmd.Context(), id); err != nil {
				errs = append(errs, fmt.Errorf("error removing '%s': %w", id, err))
				continue
			}
			fmt.Fprintf(out, "Removed conversation '%s'\n", id)
		}
		return errors.Join(errs...)
	},
}

func init() {
	rootCmd.AddCommand(conversationsCmd)
	conversationsCmd.AddCommand(conversationsLsCmd)
	conversationsCmd.AddCommand(conversationsInspectCmd)
	conversationsCmd.AddCommand(conversationsRmCmd)

	conversationsInspectCmd.Flags().StringP("format", "f", "json", "Output format (json, mermaid)")
	conversationsRmCmd.Flags().Bool("all", false, "Remove every stored conversation")
}
