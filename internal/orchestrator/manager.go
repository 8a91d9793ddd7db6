// Package orchestrator creates, lays out, populates, monitors, and tears
// down multiplexer sessions that host concurrently running agent processes.
//
// All multiplexer side effects go through the injected mux.Multiplexer, and
// all session bookkeeping goes through the Registry. Layout plans come from
// the layout package and are applied strictly in order, because later
// operations address panes created by earlier ones. There is no rollback:
// a plan that fails partway leaves the session half-configured for the
// caller to inspect or clean up.
package orchestrator

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/timvw/pane-wrangler/internal/layout"
	"github.com/timvw/pane-wrangler/internal/model"
	"github.com/timvw/pane-wrangler/internal/mux"
	telem "github.com/timvw/pane-wrangler/internal/otel"
)

var tracer = otel.Tracer("pane-wrangler")

// Defaults applied by New when the corresponding option is zero.
const (
	defaultPrefix    = "wrangler"
	defaultCols      = 220
	defaultRows      = 50
	defaultAgentRoot = "./src/agents"
)

// Options configures a Manager.
type Options struct {
	// Prefix namespaces session names so foreign multiplexer sessions can
	// be filtered out. Default "wrangler".
	Prefix string
	// Cols and Rows are the terminal geometry for new sessions.
	// Defaults 220x50.
	Cols, Rows int
	// AgentRoot is the directory under which each agent's working
	// directory lives ({AgentRoot}/{agentID}). Default "./src/agents".
	AgentRoot string
	// CommandTimeout bounds each multiplexer call. Zero disables the
	// bound and every call can block as long as the multiplexer does.
	CommandTimeout time.Duration
	// Metrics receives operation counters; nil disables recording.
	Metrics *telem.Metrics
}

// Manager owns session creation, layout application, agent placement, and
// termination. It is safe for concurrent use: registry mutation is
// serialized by the registry's lock, and operations against different
// session names are independent at the multiplexer.
type Manager struct {
	mux      mux.Multiplexer
	registry *Registry

	prefix         string
	cols, rows     int
	agentRoot      string
	commandTimeout time.Duration
	metrics        *telem.Metrics
}

// New creates a Manager around the given multiplexer.
func New(m mux.Multiplexer, opts Options) *Manager {
	if opts.Prefix == "" {
		opts.Prefix = defaultPrefix
	}
	if opts.Cols <= 0 {
		opts.Cols = defaultCols
	}
	if opts.Rows <= 0 {
		opts.Rows = defaultRows
	}
	if opts.AgentRoot == "" {
		opts.AgentRoot = defaultAgentRoot
	}
	return &Manager{
		mux:            m,
		registry:       NewRegistry(),
		prefix:         opts.Prefix,
		cols:           opts.Cols,
		rows:           opts.Rows,
		agentRoot:      opts.AgentRoot,
		commandTimeout: opts.CommandTimeout,
		metrics:        opts.Metrics,
	}
}

// Prefix returns the session name prefix this manager owns.
func (m *Manager) Prefix() string {
	return m.prefix
}

// Registry exposes the session registry for read-mostly consumers
// (monitoring, stats).
func (m *Manager) Registry() *Registry {
	return m.registry
}

// callCtx bounds a multiplexer call with the configured timeout.
func (m *Manager) callCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if m.commandTimeout > 0 {
		return context.WithTimeout(ctx, m.commandTimeout)
	}
	return context.WithCancel(ctx)
}

// CreateAgentSession creates a new uniquely named multiplexer session for
// the given agents and registers it. Nothing is registered if the external
// call fails. Layout and agent placement happen separately: see
// SetupMultiPaneEnvironment and AssignAgentToPane.
func (m *Manager) CreateAgentSession(ctx context.Context, agentIDs []string) (string, error) {
	ctx, span := tracer.Start(ctx, "create_agent_session",
		trace.WithAttributes(attribute.Int("agents.count", len(agentIDs))))
	defer span.End()

	// UUID-based ids: unique per process lifetime even for calls issued
	// within the same millisecond.
	id := uuid.NewString()
	name := fmt.Sprintf("%s-%s", m.prefix, id[:8])

	cctx, cancel := m.callCtx(ctx)
	defer cancel()
	if err := m.mux.NewSession(cctx, name, m.cols, m.rows); err != nil {
		m.metrics.RecordCommandFailure(ctx, "new-session")
		return "", &CommandError{Op: "new-session", Session: name, Err: err}
	}

	m.registry.Put(model.Session{
		ID:        id,
		Name:      name,
		CreatedAt: time.Now().UTC(),
		Layout:    model.LayoutNone,
	})
	m.metrics.RecordSessionCreated(ctx)
	span.SetAttributes(attribute.String("session.name", name))
	return id, nil
}

// SetupMultiPaneEnvironment computes the layout plan for agentCount and
// applies it operation by operation. If an operation fails after earlier
// ones succeeded, the already-applied operations are not rolled back and
// the session stays registered in LayoutPartial; the returned
// PartialLayoutError records how far application got. Cleanup is the
// caller's recovery path.
func (m *Manager) SetupMultiPaneEnvironment(ctx context.Context, sessionID string, agentCount int) error {
	ctx, span := tracer.Start(ctx, "setup_multi_pane_environment",
		trace.WithAttributes(
			attribute.String("session.id", sessionID),
			attribute.Int("agents.count", agentCount),
		))
	defer span.End()

	sess, ok := m.registry.Get(sessionID)
	if !ok {
		return &SessionNotFoundError{SessionID: sessionID}
	}

	plan := layout.ForAgents(agentCount)
	if plan.Unallocated > 0 {
		fmt.Fprintf(os.Stderr, "warning: %d agents exceed the pane/window ceiling and were not allocated a home\n",
			plan.Unallocated)
	}

	m.registry.Update(sessionID, func(s *model.Session) {
		s.Layout = model.LayoutPending
		s.Unallocated = plan.Unallocated
	})

	for i, op := range plan.Ops {
		if err := m.applyOp(ctx, sess.Name, op); err != nil {
			m.registry.Update(sessionID, func(s *model.Session) {
				s.Layout = model.LayoutPartial
			})
			span.SetAttributes(attribute.Int("layout.applied", i))
			return &PartialLayoutError{
				SessionID: sessionID,
				Applied:   i,
				Total:     len(plan.Ops),
				Err:       err,
			}
		}
		m.recordOp(sessionID, i, op)
		m.metrics.RecordLayoutOp(ctx, string(op.Kind))
	}

	m.registry.Update(sessionID, func(s *model.Session) {
		s.Layout = model.LayoutComplete
	})
	span.SetAttributes(attribute.Int("layout.applied", len(plan.Ops)))
	return nil
}

// applyOp issues a single layout operation against the multiplexer.
func (m *Manager) applyOp(ctx context.Context, sessionName string, op layout.Op) error {
	cctx, cancel := m.callCtx(ctx)
	defer cancel()

	switch op.Kind {
	case layout.OpSplit:
		target := sessionName + ":" + op.Target
		if err := m.mux.SplitWindow(cctx, target, mux.Direction(op.Direction)); err != nil {
			m.metrics.RecordCommandFailure(ctx, "split-window")
			return &CommandError{Op: "split-window", Session: sessionName, Err: err}
		}
		return nil
	case layout.OpWindow:
		if err := m.mux.NewWindow(cctx, sessionName, op.WindowName); err != nil {
			m.metrics.RecordCommandFailure(ctx, "new-window")
			return &CommandError{Op: "new-window", Session: sessionName, Err: err}
		}
		return nil
	default:
		return fmt.Errorf("unknown layout op kind %q", op.Kind)
	}
}

// recordOp reflects a completed layout operation into the registry. Only
// completed operations get recorded, so a partial layout leaves exactly the
// applied prefix visible. Pane ids are multiplexer-assigned and observed
// later via GetPaneInfo, so splits only ensure the root window entry exists.
func (m *Manager) recordOp(sessionID string, opIndex int, op layout.Op) {
	m.registry.Update(sessionID, func(s *model.Session) {
		switch op.Kind {
		case layout.OpSplit:
			if len(s.Windows) == 0 {
				s.Windows = append(s.Windows, model.Window{Index: 0})
			}
		case layout.OpWindow:
			s.Windows = append(s.Windows, model.Window{
				Index: opIndex + 1,
				Name:  op.WindowName,
			})
		}
	})
}

// AssignAgentToPane binds an agent identity to a concrete pane: it sets the
// pane title to the agent id, then sends a command that moves the pane into
// the agent's working directory. The session must exist in the registry;
// otherwise SessionNotFoundError is returned before any external call.
//
// The two external calls are not atomic. If the title call succeeds and the
// working-directory command fails, the pane is titled but not initialized;
// the caller resolves that by retrying the assignment.
func (m *Manager) AssignAgentToPane(ctx context.Context, sessionID, agentID, paneID string) error {
	sess, ok := m.registry.Get(sessionID)
	if !ok {
		return &SessionNotFoundError{SessionID: sessionID}
	}

	target := "%" + strings.TrimPrefix(paneID, "%")

	cctx, cancel := m.callCtx(ctx)
	defer cancel()
	if err := m.mux.SelectPane(cctx, target, agentID); err != nil {
		m.metrics.RecordCommandFailure(ctx, "select-pane")
		return &CommandError{Op: "select-pane", Session: sess.Name, Err: err}
	}

	cctx, cancel = m.callCtx(ctx)
	defer cancel()
	cdCmd := fmt.Sprintf("cd %s/%s", m.agentRoot, agentID)
	if err := m.mux.SendKeys(cctx, target, cdCmd); err != nil {
		m.metrics.RecordCommandFailure(ctx, "send-keys")
		return &CommandError{Op: "send-keys", Session: sess.Name, Err: err}
	}

	// Last-write-wins: a pane carries at most one agent id at a time.
	m.registry.Update(sessionID, func(s *model.Session) {
		id := strings.TrimPrefix(paneID, "%")
		for wi := range s.Windows {
			for pi := range s.Windows[wi].Panes {
				if s.Windows[wi].Panes[pi].ID == id {
					s.Windows[wi].Panes[pi].AgentID = agentID
					return
				}
			}
		}
	})
	return nil
}

// TerminateSession kills the session's multiplexer process and removes it
// from the registry. On failure the registry entry is retained so a later
// retry or cleanup pass can finish the job.
func (m *Manager) TerminateSession(ctx context.Context, sessionID string) error {
	sess, ok := m.registry.Get(sessionID)
	if !ok {
		return &SessionNotFoundError{SessionID: sessionID}
	}

	cctx, cancel := m.callCtx(ctx)
	defer cancel()
	if err := m.mux.KillSession(cctx, sess.Name); err != nil {
		m.metrics.RecordCommandFailure(ctx, "kill-session")
		return &CommandError{Op: "kill-session", Session: sess.Name, Err: err}
	}

	m.registry.Remove(sessionID)
	m.metrics.RecordSessionTerminated(ctx)
	return nil
}

// CleanupSessions terminates every registered session, best-effort per
// entry: one session's failure is recorded and does not stop the rest.
// Only successfully killed sessions leave the registry; failed ones remain
// for a retry on the next call. CleanupSessions never returns an error.
func (m *Manager) CleanupSessions(ctx context.Context) model.CleanupResult {
	ctx, span := tracer.Start(ctx, "cleanup_sessions")
	defer span.End()

	result := model.CleanupResult{
		CleanedSessionNames: []string{},
		Errors:              []string{},
	}

	for _, sess := range m.registry.List() {
		cctx, cancel := m.callCtx(ctx)
		err := m.mux.KillSession(cctx, sess.Name)
		cancel()
		if err != nil {
			m.metrics.RecordCommandFailure(ctx, "kill-session")
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", sess.Name, err))
			continue
		}
		m.registry.Remove(sess.ID)
		m.metrics.RecordSessionTerminated(ctx)
		result.CleanedSessionNames = append(result.CleanedSessionNames, sess.Name)
	}

	m.metrics.RecordCleanupRun(ctx)
	span.SetAttributes(
		attribute.Int("cleanup.cleaned", len(result.CleanedSessionNames)),
		attribute.Int("cleanup.errors", len(result.Errors)),
	)
	return result
}
