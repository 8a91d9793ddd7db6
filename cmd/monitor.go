package cmd

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
)

var monitorCmd = &cobra.Command{
	Use:   "monitor <sessionId>",
	Short: "Show live metadata and pane states for a session",
	Long: `Query the multiplexer for one session's live metadata (name, window
count, creation time) and per-pane state (id, title, foreground command,
active flag), and print the result as JSON.

Unlike "sessions", this command fails when the multiplexer is unavailable.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, shutdown, err := newManager(cmd.Context())
		if err != nil {
			return err
		}
		defer shutdown()
		adoptLive(cmd.Context(), mgr)

		status, err := mgr.MonitorSession(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(status)
	},
}

func init() {
	rootCmd.AddCommand(monitorCmd)
}
