package cmd

import (
	"github.com/spf13/cobra"
)

var assignCmd = &cobra.Command{
	Use:   "assign <sessionId> <agentId> <paneId>",
	Short: "Bind an agent to a pane",
	Long: `Bind a logical agent identity to a concrete pane: set the pane title to
the agent id and change the pane's working directory to the agent's home
under the configured agent root.

The two steps are not atomic. If the title is set but the directory change
fails, rerun the same assign command; assignment is last-write-wins.`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, shutdown, err := newManager(cmd.Context())
		if err != nil {
			return err
		}
		defer shutdown()
		adoptLive(cmd.Context(), mgr)

		return mgr.AssignAgentToPane(cmd.Context(), args[0], args[1], args[2])
	},
}

func init() {
	rootCmd.AddCommand(assignCmd)
}
