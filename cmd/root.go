package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/timvw/pane-wrangler/internal/config"
	"github.com/timvw/pane-wrangler/internal/mux"
	"github.com/timvw/pane-wrangler/internal/orchestrator"
	telem "github.com/timvw/pane-wrangler/internal/otel"
)

// Version is injected at build time via -ldflags.
var Version = "dev"

var (
	// Global flags.
	flagMux    string
	flagPrefix string
)

var rootCmd = &cobra.Command{
	Use:   "pane-wrangler",
	Short: "Multiplexer session orchestration for concurrently running AI agents",
	Long: `pane-wrangler creates, lays out, populates, monitors, and tears down
terminal multiplexer sessions that host concurrently running agent processes.

Each session is uniquely named with an owning prefix, laid out according to
the agent count (splits for up to six agents, one window per agent beyond
that), and each agent is bound to a pane by title and working directory.

All multiplexer state is externally owned: the in-memory registry tracks
what this process created and reconciles against live sessions on demand.`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagMux, "mux", envOrDefault("PANE_WRANGLER_MUX", ""), "terminal multiplexer: tmux, zellij (default: auto-detect)")
	rootCmd.PersistentFlags().StringVar(&flagPrefix, "prefix", "", "session name prefix (overrides config)")
}

// getMultiplexer returns the configured or auto-detected multiplexer.
func getMultiplexer() (mux.Multiplexer, error) {
	if flagMux != "" {
		return mux.FromName(flagMux)
	}
	return mux.Detect()
}

// newManager loads configuration and wires up a Manager, optionally with
// telemetry. The returned shutdown func flushes OTEL providers; it is safe
// to call even when telemetry is disabled.
func newManager(ctx context.Context) (*orchestrator.Manager, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("config: %w", err)
	}
	if cfg.ConfigFile != "" {
		fmt.Fprintf(os.Stderr, "config: loaded %s\n", cfg.ConfigFile)
	}
	if flagPrefix != "" {
		cfg.Prefix = flagPrefix
	}

	m, err := getMultiplexer()
	if err != nil {
		return nil, nil, err
	}

	// Wire build version into OTEL service metadata
	telem.Version = Version

	tel, err := telem.Init(ctx, telem.OTELConfig{
		Endpoint: cfg.OTELEndpoint,
		Headers:  cfg.OTELHeaders,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: otel init failed: %v\n", err)
	}

	var metrics *telem.Metrics
	shutdown := func() {}
	if tel != nil {
		metrics = tel.Metrics
		shutdown = func() { tel.Shutdown(ctx) }
	}

	mgr := orchestrator.New(m, orchestrator.Options{
		Prefix:         cfg.Prefix,
		Cols:           cfg.Cols,
		Rows:           cfg.Rows,
		AgentRoot:      cfg.AgentRoot,
		CommandTimeout: cfg.CommandTimeoutDuration,
		Metrics:        metrics,
	})
	return mgr, shutdown, nil
}

// adoptLive pulls live prefix-matching sessions into the fresh registry of
// this CLI invocation. Best-effort: without a running multiplexer there is
// nothing to adopt and the warning is all the caller needs.
func adoptLive(ctx context.Context, mgr *orchestrator.Manager) {
	if err := mgr.AdoptLiveSessions(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not adopt live sessions: %v\n", err)
	}
}

func envOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
