package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var dialogsCmd = &cobra.Command{
	Use:   "dialogs",
	Short: "List the registered dialogs and their capabilities",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, _, _, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		set := rt.Engine.Dialogs()
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tCAPABILITIES")
		for _, id := range set.IDs() {
			caps, _ := set.Capabilities(id)
			fmt.Fprintf(w, "%s\t%s\n", id, caps)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(dialogsCmd)
}
