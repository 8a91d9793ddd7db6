package model

import (
	"time"
)

// LayoutState tracks how far a session's layout plan has progressed.
// There is no failed terminal state: a session whose layout stopped partway
// stays in LayoutPartial until it is terminated or cleaned up.
type LayoutState string

const (
	// LayoutNone means no layout has been requested yet.
	LayoutNone LayoutState = "none"
	// LayoutPending means layout application is in progress.
	LayoutPending LayoutState = "pending"
	// LayoutComplete means every planned operation was applied.
	LayoutComplete LayoutState = "complete"
	// LayoutPartial means layout application failed after some operations
	// were already applied. The applied operations are not rolled back.
	LayoutPartial LayoutState = "partial"
)

// Session is a multiplexer session owned by this process.
type Session struct {
	// ID is the internal session identifier, unique per process lifetime.
	ID string `json:"id"`
	// Name is the multiplexer-visible session name. It always carries the
	// owning prefix so foreign sessions can be filtered out.
	Name string `json:"name"`
	// CreatedAt is when this process created the session.
	CreatedAt time.Time `json:"created_at"`
	// Layout is the current layout progress.
	Layout LayoutState `json:"layout"`
	// Windows are the windows known to the registry. Only windows and panes
	// produced by completed layout operations appear here.
	Windows []Window `json:"windows"`
	// Unallocated is the number of agents the layout plan could not place
	// (agent counts above the pane/window ceiling).
	Unallocated int `json:"unallocated,omitempty"`
}

// Window is a tab-like subdivision of a session.
type Window struct {
	// Index is the window index within the session.
	Index int `json:"index"`
	// Name is the window name (e.g., "agent-3").
	Name string `json:"name"`
	// Panes are the panes known to the registry for this window.
	Panes []Pane `json:"panes"`
}

// Pane is a single terminal surface within a window.
type Pane struct {
	// ID is the multiplexer-assigned pane identifier with the leading "%"
	// sigil stripped. Observed only after creation, never chosen here.
	ID string `json:"id"`
	// AgentID is the logical agent bound to this pane. Empty means
	// unassigned. Assignment is last-write-wins.
	AgentID string `json:"agent_id,omitempty"`
	// Command is the foreground command currently running in the pane.
	Command string `json:"command,omitempty"`
}

// SessionInfo is session-level metadata as reported by the multiplexer,
// not by the registry.
type SessionInfo struct {
	// Name is the multiplexer-visible session name.
	Name string `json:"name"`
	// Windows is the window count reported by the multiplexer.
	Windows int `json:"windows"`
	// Created is the creation time reported by the multiplexer.
	Created time.Time `json:"created"`
}

// PaneState is per-pane metadata as reported by the multiplexer.
type PaneState struct {
	// ID is the pane identifier with the leading "%" sigil stripped.
	ID string `json:"id"`
	// Title is the pane title (the agent id once assigned).
	Title string `json:"title"`
	// Command is the current foreground command.
	Command string `json:"command"`
	// Active reports whether this is the active pane.
	Active bool `json:"active"`
}

// SessionStatus is the result of monitoring a single session: live
// session-level metadata plus per-pane state.
type SessionStatus struct {
	SessionInfo SessionInfo `json:"session_info"`
	PaneStates  []PaneState `json:"pane_states"`
}

// CleanupResult aggregates a best-effort bulk cleanup pass.
type CleanupResult struct {
	// CleanedSessionNames are the multiplexer names of sessions that were
	// successfully killed and removed from the registry.
	CleanedSessionNames []string `json:"cleaned_session_names"`
	// Errors are per-session failure descriptions. A failed session stays
	// in the registry for a later retry.
	Errors []string `json:"errors"`
}

// Stats is a summary of the sessions this process believes it owns.
type Stats struct {
	ActiveSessions int       `json:"active_sessions"`
	Sessions       []Session `json:"sessions"`
}
