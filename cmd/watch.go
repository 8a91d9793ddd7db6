package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/timvw/pane-wrangler/internal/config"
	"github.com/timvw/pane-wrangler/internal/dashboard"
)

var flagTheme string

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Interactive dashboard over active agent sessions",
	Long: `Launch a terminal UI that periodically reconciles the registry against
live multiplexer state and shows every owned session with its layout
progress and pane assignments. Sessions can be killed from the dashboard.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		mgr, shutdown, err := newManager(ctx)
		if err != nil {
			return err
		}
		defer shutdown()
		adoptLive(ctx, mgr)

		cfg, err := config.Load()
		if err != nil {
			return err
		}

		d := &dashboard.Dashboard{
			Manager:         mgr,
			RefreshInterval: cfg.RefreshDuration,
			ThemeName:       flagTheme,
		}
		return d.Run(ctx)
	},
}

func init() {
	watchCmd.Flags().StringVar(&flagTheme, "theme", "dark", "Color theme: dark, light")
	rootCmd.AddCommand(watchCmd)
}
