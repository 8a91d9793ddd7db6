package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/timvw/pane-wrangler/internal/orchestrator"
)

var flagNoAssign bool

var createCmd = &cobra.Command{
	Use:   "create <agentId>...",
	Short: "Create a session laid out for the given agents",
	Long: `Create a new multiplexer session, apply the layout for the given agent
count, and bind each agent to a pane.

1-2 agents share a split window, 3-6 agents get a grid, and agents beyond
six each get their own window. At most ten agents get a pane or window of
their own; any overflow is reported.

A layout failure does not tear the session down: the already-applied panes
stay up and the session remains registered. Run "pane-wrangler cleanup" to
remove half-configured sessions.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, shutdown, err := newManager(cmd.Context())
		if err != nil {
			return err
		}
		defer shutdown()

		sessionID, err := mgr.CreateAgentSession(cmd.Context(), args)
		if err != nil {
			return err
		}

		if err := mgr.SetupMultiPaneEnvironment(cmd.Context(), sessionID, len(args)); err != nil {
			var partial *orchestrator.PartialLayoutError
			if errors.As(err, &partial) {
				fmt.Fprintf(cmd.ErrOrStderr(),
					"warning: session %s is partially laid out (%d/%d operations applied)\n",
					sessionID, partial.Applied, partial.Total)
			}
			return err
		}

		if !flagNoAssign {
			if err := assignAgents(cmd, mgr, sessionID, args); err != nil {
				return err
			}
		}

		fmt.Fprintln(cmd.OutOrStdout(), sessionID)
		return nil
	},
}

// assignAgents binds each agent to an observed pane, in pane order.
func assignAgents(cmd *cobra.Command, mgr *orchestrator.Manager, sessionID string, agentIDs []string) error {
	panes, err := mgr.GetPaneInfo(cmd.Context(), sessionID)
	if err != nil {
		return fmt.Errorf("observing panes: %w", err)
	}
	for i, agentID := range agentIDs {
		if i >= len(panes) {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: no pane available for agent %q\n", agentID)
			continue
		}
		if err := mgr.AssignAgentToPane(cmd.Context(), sessionID, agentID, panes[i].ID); err != nil {
			return fmt.Errorf("assigning agent %q: %w", agentID, err)
		}
	}
	return nil
}

func init() {
	createCmd.Flags().BoolVar(&flagNoAssign, "no-assign", false, "skip binding agents to panes after layout")
	rootCmd.AddCommand(createCmd)
}
