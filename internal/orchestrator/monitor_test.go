package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/timvw/pane-wrangler/internal/model"
)

func TestActiveSessionsFiltersByLiveState(t *testing.T) {
	fake := newFakeMux()
	mgr := newTestManager(fake)

	liveID, err := mgr.CreateAgentSession(context.Background(), []string{"a1"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	deadID, err := mgr.CreateAgentSession(context.Background(), []string{"a2"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	live, _ := mgr.Registry().Get(liveID)
	fake.outputs["list-sessions"] = joinLines(
		sessionLine(live.Name, 1700000000),
		sessionLine("unrelated-session", 1700000001),
	)

	active := mgr.ActiveSessions(context.Background())
	if len(active) != 1 {
		t.Fatalf("active sessions: got %d, want 1", len(active))
	}
	if active[0].ID != liveID {
		t.Errorf("active session: got %q, want %q", active[0].ID, liveID)
	}
	if active[0].ID == deadID {
		t.Errorf("session %q is not live and must not be reported", deadID)
	}
}

func TestActiveSessionsIgnoresForeignPrefixes(t *testing.T) {
	fake := newFakeMux()
	mgr := newTestManager(fake)

	id, err := mgr.CreateAgentSession(context.Background(), []string{"a1"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	sess, _ := mgr.Registry().Get(id)

	// A foreign session happens to share the registered session's suffix.
	fake.outputs["list-sessions"] = joinLines(
		sessionLine("other-"+sess.Name, 1700000000),
	)

	if active := mgr.ActiveSessions(context.Background()); len(active) != 0 {
		t.Errorf("foreign-prefix sessions must be ignored, got %d active", len(active))
	}
}

func TestActiveSessionsFallsBackToRegistryOnQueryFailure(t *testing.T) {
	fake := newFakeMux()
	mgr := newTestManager(fake)

	for i := 0; i < 3; i++ {
		if _, err := mgr.CreateAgentSession(context.Background(), []string{"a"}); err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
	}

	fake.errs["list-sessions"] = fmt.Errorf("no server running")

	// The query failure is swallowed and the full registry is reported.
	active := mgr.ActiveSessions(context.Background())
	if len(active) != 3 {
		t.Errorf("fallback should report the full registry, got %d of 3", len(active))
	}
}

func TestActiveSessionsExcludesTerminated(t *testing.T) {
	fake := newFakeMux()
	mgr := newTestManager(fake)

	id, err := mgr.CreateAgentSession(context.Background(), []string{"a1"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	sess, _ := mgr.Registry().Get(id)
	fake.outputs["list-sessions"] = joinLines(sessionLine(sess.Name, 1700000000))

	if err := mgr.TerminateSession(context.Background(), id); err != nil {
		t.Fatalf("terminate: %v", err)
	}

	// Even with stale list-sessions output the registry no longer has the
	// entry, so it cannot appear.
	if active := mgr.ActiveSessions(context.Background()); len(active) != 0 {
		t.Errorf("terminated session reported as active")
	}
}

func TestMonitorSession(t *testing.T) {
	fake := newFakeMux()
	mgr := newTestManager(fake)

	id, err := mgr.CreateAgentSession(context.Background(), []string{"a1", "a2"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	sess, _ := mgr.Registry().Get(id)

	fake.outputs["display-message"] = sess.Name + "\t2\t1700000000\n"
	fake.outputs["list-panes"] = joinLines(
		"%0\ta1\tnode\t1",
		"%1\t\tzsh\t0",
	)

	status, err := mgr.MonitorSession(context.Background(), id)
	if err != nil {
		t.Fatalf("monitor: %v", err)
	}

	if status.SessionInfo.Name != sess.Name {
		t.Errorf("info name: got %q, want %q", status.SessionInfo.Name, sess.Name)
	}
	if status.SessionInfo.Windows != 2 {
		t.Errorf("info windows: got %d, want 2", status.SessionInfo.Windows)
	}
	wantCreated := time.Unix(1700000000, 0).UTC()
	if !status.SessionInfo.Created.Equal(wantCreated) {
		t.Errorf("info created: got %v, want %v", status.SessionInfo.Created, wantCreated)
	}

	if len(status.PaneStates) != 2 {
		t.Fatalf("pane states: got %d, want 2", len(status.PaneStates))
	}
	first := status.PaneStates[0]
	if first.ID != "0" || first.Title != "a1" || first.Command != "node" || !first.Active {
		t.Errorf("first pane state: got %+v", first)
	}
	if status.PaneStates[1].Active {
		t.Errorf("second pane should be inactive")
	}
}

func TestMonitorSessionPropagatesQueryFailure(t *testing.T) {
	fake := newFakeMux()
	mgr := newTestManager(fake)

	id, err := mgr.CreateAgentSession(context.Background(), []string{"a1"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Unlike ActiveSessions there is no fallback here.
	fake.errs["display-message"] = fmt.Errorf("no server running")

	_, err = mgr.MonitorSession(context.Background(), id)
	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) {
		t.Fatalf("expected CommandError, got %v", err)
	}
	if cmdErr.Op != "display-message" {
		t.Errorf("CommandError op: got %q, want display-message", cmdErr.Op)
	}
}

func TestMonitorSessionUnknownSession(t *testing.T) {
	fake := newFakeMux()
	mgr := newTestManager(fake)

	_, err := mgr.MonitorSession(context.Background(), "nope")
	var notFound *SessionNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected SessionNotFoundError, got %v", err)
	}
	if len(fake.calls) != 0 {
		t.Errorf("expected zero multiplexer calls, got %d", len(fake.calls))
	}
}

func TestGetPaneInfoParsesAndStripsSigil(t *testing.T) {
	fake := newFakeMux()
	mgr := newTestManager(fake)

	id, err := mgr.CreateAgentSession(context.Background(), []string{"a1"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	fake.outputs["list-panes"] = joinLines("%3:node", "%7:zsh")

	panes, err := mgr.GetPaneInfo(context.Background(), id)
	if err != nil {
		t.Fatalf("pane info: %v", err)
	}
	if len(panes) != 2 {
		t.Fatalf("panes: got %d, want 2", len(panes))
	}
	if panes[0].ID != "3" || panes[0].Command != "node" {
		t.Errorf("first pane: got %+v, want {ID:3 Command:node}", panes[0])
	}
	if panes[1].ID != "7" || panes[1].Command != "zsh" {
		t.Errorf("second pane: got %+v, want {ID:7 Command:zsh}", panes[1])
	}
}

func TestGetPaneInfoPreservesAssignments(t *testing.T) {
	fake := newFakeMux()
	mgr := newTestManager(fake)

	id, err := mgr.CreateAgentSession(context.Background(), []string{"a1"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	fake.outputs["list-panes"] = joinLines("%3:zsh")
	if _, err := mgr.GetPaneInfo(context.Background(), id); err != nil {
		t.Fatalf("pane info: %v", err)
	}
	if err := mgr.AssignAgentToPane(context.Background(), id, "a1", "3"); err != nil {
		t.Fatalf("assign: %v", err)
	}

	// Re-observing the panes must not wipe the assignment.
	fake.outputs["list-panes"] = joinLines("%3:node")
	if _, err := mgr.GetPaneInfo(context.Background(), id); err != nil {
		t.Fatalf("pane info: %v", err)
	}

	sess, _ := mgr.Registry().Get(id)
	if len(sess.Windows) != 1 || len(sess.Windows[0].Panes) != 1 {
		t.Fatalf("registry panes: got %+v", sess.Windows)
	}
	pane := sess.Windows[0].Panes[0]
	if pane.AgentID != "a1" {
		t.Errorf("assignment lost on re-observation: got %+v", pane)
	}
	if pane.Command != "node" {
		t.Errorf("command not refreshed: got %q", pane.Command)
	}
}

func TestSessionStats(t *testing.T) {
	fake := newFakeMux()
	mgr := newTestManager(fake)

	for i := 0; i < 2; i++ {
		if _, err := mgr.CreateAgentSession(context.Background(), []string{"a"}); err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
	}

	stats := mgr.SessionStats()
	if stats.ActiveSessions != 2 {
		t.Errorf("active sessions: got %d, want 2", stats.ActiveSessions)
	}
	if len(stats.Sessions) != 2 {
		t.Errorf("sessions: got %d, want 2", len(stats.Sessions))
	}
	// Stats are registry-only.
	if len(fake.callsOf("list-sessions")) != 0 {
		t.Errorf("stats must not query the multiplexer")
	}
}

func TestAdoptLiveSessions(t *testing.T) {
	fake := newFakeMux()
	mgr := newTestManager(fake)

	id, err := mgr.CreateAgentSession(context.Background(), []string{"a1"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	sess, _ := mgr.Registry().Get(id)

	fake.outputs["list-sessions"] = joinLines(
		sessionLine(sess.Name, 1700000000),
		sessionLine("wrangler-deadbeef", 1700000100),
		sessionLine("unrelated-session", 1700000200),
	)

	if err := mgr.AdoptLiveSessions(context.Background()); err != nil {
		t.Fatalf("adopt: %v", err)
	}

	if mgr.Registry().Len() != 2 {
		t.Fatalf("registry: got %d entries, want 2", mgr.Registry().Len())
	}

	adopted, ok := mgr.Registry().Get("wrangler-deadbeef")
	if !ok {
		t.Fatal("orphan session was not adopted")
	}
	if adopted.Name != "wrangler-deadbeef" {
		t.Errorf("adopted name: got %q", adopted.Name)
	}
	if adopted.Layout != model.LayoutNone {
		t.Errorf("adopted layout: got %q, want %q", adopted.Layout, model.LayoutNone)
	}
	wantCreated := time.Unix(1700000100, 0).UTC()
	if !adopted.CreatedAt.Equal(wantCreated) {
		t.Errorf("adopted created: got %v, want %v", adopted.CreatedAt, wantCreated)
	}

	// Adoption must not duplicate or overwrite the existing entry.
	existing, _ := mgr.Registry().Get(id)
	if existing.ID != id {
		t.Errorf("existing session was rewritten")
	}
}

func TestAdoptLiveSessionsPropagatesQueryFailure(t *testing.T) {
	fake := newFakeMux()
	mgr := newTestManager(fake)

	fake.errs["list-sessions"] = fmt.Errorf("no server running")

	err := mgr.AdoptLiveSessions(context.Background())
	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) {
		t.Fatalf("expected CommandError, got %v", err)
	}
}

func TestParseSessionInfoRejectsMalformed(t *testing.T) {
	cases := []string{
		"",
		"name-only",
		"name\tnotanumber\t1700000000",
		"name\t2\tnotatime",
	}
	for _, in := range cases {
		if _, err := parseSessionInfo(in); err == nil {
			t.Errorf("parseSessionInfo(%q) should fail", in)
		}
	}
}

func TestParsePaneStatesSkipsMalformedLines(t *testing.T) {
	out := joinLines(
		"%0\ta1\tnode\t1",
		"garbage",
		"%1\t\tzsh\t0",
	)
	states := parsePaneStates(out)
	if len(states) != 2 {
		t.Fatalf("pane states: got %d, want 2", len(states))
	}
}

func TestParsePaneInfoEmptyOutput(t *testing.T) {
	if panes := parsePaneInfo("\n"); len(panes) != 0 {
		t.Errorf("empty output should yield no panes, got %d", len(panes))
	}
}
