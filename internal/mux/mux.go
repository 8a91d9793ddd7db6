// Package mux provides an abstraction over terminal multiplexers (tmux, zellij).
//
// This package is pure transport: it issues single multiplexer operations and
// returns raw text or an error. It never interprets session state; ownership
// filtering, registry reconciliation, and layout sequencing all live in the
// orchestrator.
package mux

import "context"

// Direction is a split orientation.
type Direction string

const (
	Horizontal Direction = "horizontal"
	Vertical   Direction = "vertical"
)

// Multiplexer abstracts terminal multiplexer operations.
// Implementations exist for tmux and (future) zellij.
//
// Targets use multiplexer addressing: a bare session name, or
// "session:window.pane" for a single pane. Pane identifiers returned by
// ListPanes carry the multiplexer's leading "%" sigil; callers strip it.
type Multiplexer interface {
	// Name returns the multiplexer name (e.g., "tmux", "zellij").
	Name() string

	// NewSession creates a detached session with the given name and
	// terminal geometry.
	NewSession(ctx context.Context, name string, cols, rows int) error

	// SplitWindow splits the pane addressed by target.
	SplitWindow(ctx context.Context, target string, dir Direction) error

	// NewWindow creates a named window in the session.
	NewWindow(ctx context.Context, session, windowName string) error

	// SelectPane selects the pane addressed by target and sets its title.
	SelectPane(ctx context.Context, target, title string) error

	// SendKeys types text into the pane addressed by target, followed by
	// an Enter keystroke.
	SendKeys(ctx context.Context, target, text string) error

	// ListPanes lists all panes under target, one per line, rendered with
	// the given format string.
	ListPanes(ctx context.Context, target, format string) (string, error)

	// ListSessions lists all live sessions, one per line, rendered with
	// the given format string.
	ListSessions(ctx context.Context, format string) (string, error)

	// DisplayMessage renders the format string against target and returns
	// the result.
	DisplayMessage(ctx context.Context, target, format string) (string, error)

	// KillSession kills the named session.
	KillSession(ctx context.Context, name string) error
}
