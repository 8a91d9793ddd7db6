package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var panesCmd = &cobra.Command{
	Use:   "panes <sessionId>",
	Short: "List a session's panes and their foreground commands",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, shutdown, err := newManager(cmd.Context())
		if err != nil {
			return err
		}
		defer shutdown()
		adoptLive(cmd.Context(), mgr)

		panes, err := mgr.GetPaneInfo(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		for _, p := range panes {
			if p.AgentID != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", p.ID, p.Command, p.AgentID)
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", p.ID, p.Command)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(panesCmd)
}
