package orchestrator

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/timvw/pane-wrangler/internal/model"
)

// Multiplexer format strings used by the read-only queries.
const (
	sessionListFormat = "#{session_name}\t#{session_created}"
	sessionInfoFormat = "#{session_name}\t#{session_windows}\t#{session_created}"
	paneStateFormat   = "#{pane_id}\t#{pane_title}\t#{pane_current_command}\t#{pane_active}"
	paneInfoFormat    = "#{pane_id}:#{pane_current_command}"
)

// ActiveSessions reconciles the registry against live multiplexer state:
// it returns the registry entries whose external session is currently
// observed live and carries this manager's naming prefix.
//
// If the multiplexer query itself fails (e.g., no server running), the
// error is deliberately not propagated: status introspection should not
// break just because the multiplexer is unavailable, so the full in-memory
// registry is returned unfiltered instead. This silent fallback is a
// design choice; MonitorSession is strict by contrast.
func (m *Manager) ActiveSessions(ctx context.Context) []model.Session {
	cctx, cancel := m.callCtx(ctx)
	defer cancel()

	out, err := m.mux.ListSessions(cctx, sessionListFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: list-sessions failed, reporting registry state only: %v\n", err)
		return m.registry.List()
	}

	live := make(map[string]bool)
	for _, name := range parseSessionNames(out) {
		if strings.HasPrefix(name, m.prefix+"-") {
			live[name] = true
		}
	}

	var active []model.Session
	for _, sess := range m.registry.List() {
		if live[sess.Name] {
			active = append(active, sess)
		}
	}
	return active
}

// MonitorSession returns live session-level metadata and per-pane state for
// one registered session. Unlike ActiveSessions there is no fallback: a
// multiplexer query failure propagates to the caller.
func (m *Manager) MonitorSession(ctx context.Context, sessionID string) (model.SessionStatus, error) {
	sess, ok := m.registry.Get(sessionID)
	if !ok {
		return model.SessionStatus{}, &SessionNotFoundError{SessionID: sessionID}
	}

	cctx, cancel := m.callCtx(ctx)
	defer cancel()
	infoOut, err := m.mux.DisplayMessage(cctx, sess.Name, sessionInfoFormat)
	if err != nil {
		m.metrics.RecordCommandFailure(ctx, "display-message")
		return model.SessionStatus{}, &CommandError{Op: "display-message", Session: sess.Name, Err: err}
	}

	info, err := parseSessionInfo(infoOut)
	if err != nil {
		return model.SessionStatus{}, fmt.Errorf("session %q: %w", sess.Name, err)
	}

	cctx, cancel = m.callCtx(ctx)
	defer cancel()
	panesOut, err := m.mux.ListPanes(cctx, sess.Name, paneStateFormat)
	if err != nil {
		m.metrics.RecordCommandFailure(ctx, "list-panes")
		return model.SessionStatus{}, &CommandError{Op: "list-panes", Session: sess.Name, Err: err}
	}

	return model.SessionStatus{
		SessionInfo: info,
		PaneStates:  parsePaneStates(panesOut),
	}, nil
}

// GetPaneInfo lists the session's panes as "{paneId}:{command}" pairs and
// reconciles them into the registry, preserving any agent assignments made
// earlier for panes that are still present.
func (m *Manager) GetPaneInfo(ctx context.Context, sessionID string) ([]model.Pane, error) {
	sess, ok := m.registry.Get(sessionID)
	if !ok {
		return nil, &SessionNotFoundError{SessionID: sessionID}
	}

	cctx, cancel := m.callCtx(ctx)
	defer cancel()
	out, err := m.mux.ListPanes(cctx, sess.Name, paneInfoFormat)
	if err != nil {
		m.metrics.RecordCommandFailure(ctx, "list-panes")
		return nil, &CommandError{Op: "list-panes", Session: sess.Name, Err: err}
	}

	panes := parsePaneInfo(out)

	m.registry.Update(sessionID, func(s *model.Session) {
		// Carry forward assignments by pane id.
		assigned := make(map[string]string)
		for _, w := range s.Windows {
			for _, p := range w.Panes {
				if p.AgentID != "" {
					assigned[p.ID] = p.AgentID
				}
			}
		}
		merged := make([]model.Pane, len(panes))
		for i, p := range panes {
			merged[i] = p
			if agent, ok := assigned[p.ID]; ok {
				merged[i].AgentID = agent
			}
		}
		if len(s.Windows) == 0 {
			s.Windows = append(s.Windows, model.Window{Index: 0})
		}
		s.Windows[0].Panes = merged
	})

	return panes, nil
}

// SessionStats summarizes the registry without touching the multiplexer.
func (m *Manager) SessionStats() model.Stats {
	sessions := m.registry.List()
	return model.Stats{
		ActiveSessions: len(sessions),
		Sessions:       sessions,
	}
}

// AdoptLiveSessions registers live multiplexer sessions that carry this
// manager's prefix but are unknown to the registry. The registry itself is
// process-lifetime only, so a fresh process (e.g., a new CLI invocation)
// adopts sessions a previous run created before operating on them. Adopted
// sessions use their multiplexer name as the internal id and report
// LayoutNone; their true layout history is unknowable.
func (m *Manager) AdoptLiveSessions(ctx context.Context) error {
	cctx, cancel := m.callCtx(ctx)
	defer cancel()

	out, err := m.mux.ListSessions(cctx, sessionListFormat)
	if err != nil {
		return &CommandError{Op: "list-sessions", Session: "", Err: err}
	}

	known := make(map[string]bool)
	for _, sess := range m.registry.List() {
		known[sess.Name] = true
	}

	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		if line == "" {
			continue
		}
		fields := strings.SplitN(line, "\t", 2)
		name := fields[0]
		if !strings.HasPrefix(name, m.prefix+"-") || known[name] {
			continue
		}
		created := time.Now().UTC()
		if len(fields) == 2 {
			if ts, err := strconv.ParseInt(fields[1], 10, 64); err == nil {
				created = time.Unix(ts, 0).UTC()
			}
		}
		m.registry.Put(model.Session{
			ID:        name,
			Name:      name,
			CreatedAt: created,
			Layout:    model.LayoutNone,
		})
	}
	return nil
}

// parseSessionNames extracts session names from list-sessions output
// rendered with sessionListFormat.
func parseSessionNames(out string) []string {
	var names []string
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		if line == "" {
			continue
		}
		fields := strings.SplitN(line, "\t", 2)
		names = append(names, fields[0])
	}
	return names
}

// parseSessionInfo parses display-message output rendered with
// sessionInfoFormat. tmux reports session_created as unix seconds.
func parseSessionInfo(out string) (model.SessionInfo, error) {
	line := strings.TrimSpace(out)
	fields := strings.SplitN(line, "\t", 3)
	if len(fields) != 3 {
		return model.SessionInfo{}, fmt.Errorf("unexpected session info %q", line)
	}
	windows, err := strconv.Atoi(fields[1])
	if err != nil {
		return model.SessionInfo{}, fmt.Errorf("invalid window count %q: %w", fields[1], err)
	}
	created, err := strconv.ParseInt(fields[2], 10, 64)
	if err != nil {
		return model.SessionInfo{}, fmt.Errorf("invalid creation time %q: %w", fields[2], err)
	}
	return model.SessionInfo{
		Name:    fields[0],
		Windows: windows,
		Created: time.Unix(created, 0).UTC(),
	}, nil
}

// parsePaneStates parses list-panes output rendered with paneStateFormat.
// Lines that do not match are skipped.
func parsePaneStates(out string) []model.PaneState {
	var states []model.PaneState
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		if line == "" {
			continue
		}
		fields := strings.SplitN(line, "\t", 4)
		if len(fields) != 4 {
			continue
		}
		states = append(states, model.PaneState{
			ID:      strings.TrimPrefix(fields[0], "%"),
			Title:   fields[1],
			Command: fields[2],
			Active:  fields[3] == "1",
		})
	}
	return states
}

// parsePaneInfo parses list-panes output rendered with paneInfoFormat,
// one "{paneId}:{command}" pair per line. The multiplexer's leading "%"
// sigil is stripped before storage.
func parsePaneInfo(out string) []model.Pane {
	var panes []model.Pane
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		if line == "" {
			continue
		}
		fields := strings.SplitN(line, ":", 2)
		if len(fields) != 2 {
			continue
		}
		panes = append(panes, model.Pane{
			ID:      strings.TrimPrefix(fields[0], "%"),
			Command: fields[1],
		})
	}
	return panes
}
