package cmd

import (
	"github.com/spf13/cobra"
)

var killCmd = &cobra.Command{
	Use:   "kill <sessionId>",
	Short: "Terminate a session",
	Long: `Kill the session's multiplexer process and remove it from the registry.

If the kill fails, the registry entry is kept so the session can be retried
or swept up by "pane-wrangler cleanup".`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, shutdown, err := newManager(cmd.Context())
		if err != nil {
			return err
		}
		defer shutdown()
		adoptLive(cmd.Context(), mgr)

		return mgr.TerminateSession(cmd.Context(), args[0])
	},
}

func init() {
	rootCmd.AddCommand(killCmd)
}
