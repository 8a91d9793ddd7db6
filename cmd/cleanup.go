package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Terminate every registered session, best-effort",
	Long: `Attempt to terminate every session in the registry. A failure on one
session is recorded and does not stop the rest; failed sessions stay
registered and are retried on the next cleanup.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, shutdown, err := newManager(cmd.Context())
		if err != nil {
			return err
		}
		defer shutdown()
		adoptLive(cmd.Context(), mgr)

		result := mgr.CleanupSessions(cmd.Context())
		for _, name := range result.CleanedSessionNames {
			fmt.Fprintf(cmd.OutOrStdout(), "cleaned %s\n", name)
		}
		for _, e := range result.Errors {
			fmt.Fprintf(cmd.ErrOrStderr(), "error: %s\n", e)
		}
		if len(result.Errors) > 0 {
			return fmt.Errorf("%d of %d sessions could not be cleaned",
				len(result.Errors), len(result.Errors)+len(result.CleanedSessionNames))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cleanupCmd)
}
