// Package layout computes pane and window topologies for agent sessions.
//
// Planning is pure: the same agent count always yields the same ordered
// operation list, and nothing here touches the multiplexer. Each operation
// addresses panes created by earlier operations, so a plan must be applied
// strictly in order.
package layout

import "fmt"

// OpKind distinguishes the two layout operations.
type OpKind string

const (
	// OpSplit splits an existing pane.
	OpSplit OpKind = "split"
	// OpWindow creates a new window in the session.
	OpWindow OpKind = "window"
)

// Direction is the split orientation.
type Direction string

const (
	Horizontal Direction = "horizontal"
	Vertical   Direction = "vertical"
)

// Op is a single layout operation. Target is a session-relative address:
// "0" for the root window, "0.2" for window 0 pane 2. The executor prefixes
// the session name to form the full multiplexer target.
type Op struct {
	Kind       OpKind
	Target     string    // for OpSplit
	Direction  Direction // for OpSplit
	WindowName string    // for OpWindow
}

// Plan is an ordered layout plan for one session.
type Plan struct {
	// Ops must be applied in order; later operations address panes and
	// windows created by earlier ones.
	Ops []Op
	// Unallocated is the number of agents that did not get a pane or
	// window because the count exceeded the ceiling of maxHomes.
	Unallocated int
}

// maxHomes is the ceiling on agents that get a pane or window of their own.
// Agents beyond it are reported via Plan.Unallocated rather than dropped
// silently.
const maxHomes = 10

// ForAgents computes the layout plan for the given agent count.
//
//	1-2 agents: one horizontal split of the root window
//	3-4 agents: 2x2 grid
//	5-6 agents: 2x3 grid
//	7+  agents: one extra window per agent beyond the first, capped
//
// A non-positive count yields an empty plan; there is nothing to lay out
// for zero agents.
func ForAgents(agentCount int) Plan {
	switch {
	case agentCount <= 0:
		return Plan{}
	case agentCount <= 2:
		return Plan{Ops: []Op{
			{Kind: OpSplit, Target: "0", Direction: Horizontal},
		}}
	case agentCount <= 4:
		return Plan{Ops: []Op{
			{Kind: OpSplit, Target: "0", Direction: Horizontal},
			{Kind: OpSplit, Target: "0.0", Direction: Vertical},
			{Kind: OpSplit, Target: "0.2", Direction: Vertical},
		}}
	case agentCount <= 6:
		return Plan{Ops: []Op{
			{Kind: OpSplit, Target: "0", Direction: Horizontal},
			{Kind: OpSplit, Target: "0.0", Direction: Vertical},
			{Kind: OpSplit, Target: "0.1", Direction: Vertical},
			{Kind: OpSplit, Target: "0.3", Direction: Vertical},
			{Kind: OpSplit, Target: "0.4", Direction: Vertical},
		}}
	default:
		placed := agentCount
		if placed > maxHomes {
			placed = maxHomes
		}
		ops := make([]Op, 0, placed-1)
		for i := 1; i < placed; i++ {
			ops = append(ops, Op{Kind: OpWindow, WindowName: fmt.Sprintf("agent-%d", i)})
		}
		return Plan{Ops: ops, Unallocated: agentCount - placed}
	}
}
