package cmd

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List active sessions owned by this process",
	Long: `List the registered sessions whose external multiplexer session is
currently live and carries the owning prefix, as JSON lines.

If the multiplexer is unavailable, the full in-memory registry is printed
instead of failing, so status introspection stays usable without a running
multiplexer.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, shutdown, err := newManager(cmd.Context())
		if err != nil {
			return err
		}
		defer shutdown()
		adoptLive(cmd.Context(), mgr)

		enc := json.NewEncoder(os.Stdout)
		for _, sess := range mgr.ActiveSessions(cmd.Context()) {
			if err := enc.Encode(sess); err != nil {
				return err
			}
		}
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize the session registry",
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, shutdown, err := newManager(cmd.Context())
		if err != nil {
			return err
		}
		defer shutdown()
		adoptLive(cmd.Context(), mgr)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(mgr.SessionStats())
	},
}

func init() {
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(statsCmd)
}
