package mux

import (
	"context"
	"fmt"
	"os/exec"
)

// Tmux implements the Multiplexer interface for tmux.
type Tmux struct{}

// NewTmux creates a new tmux multiplexer.
func NewTmux() *Tmux {
	return &Tmux{}
}

// Name returns "tmux".
func (t *Tmux) Name() string {
	return "tmux"
}

// NewSession creates a detached tmux session sized to the given geometry.
func (t *Tmux) NewSession(ctx context.Context, name string, cols, rows int) error {
	_, err := t.run(ctx, "new-session", "-d", "-s", name,
		"-x", fmt.Sprintf("%d", cols), "-y", fmt.Sprintf("%d", rows))
	if err != nil {
		return fmt.Errorf("tmux new-session -s %s: %w", name, err)
	}
	return nil
}

// SplitWindow splits the pane addressed by target.
func (t *Tmux) SplitWindow(ctx context.Context, target string, dir Direction) error {
	// tmux's flag naming is orthogonal to the visual result: -h places
	// panes side by side, -v stacks them.
	flag := "-v"
	if dir == Horizontal {
		flag = "-h"
	}
	if _, err := t.run(ctx, "split-window", flag, "-t", target); err != nil {
		return fmt.Errorf("tmux split-window -t %s: %w", target, err)
	}
	return nil
}

// NewWindow creates a named window in the session.
func (t *Tmux) NewWindow(ctx context.Context, session, windowName string) error {
	if _, err := t.run(ctx, "new-window", "-t", session+":", "-n", windowName); err != nil {
		return fmt.Errorf("tmux new-window -t %s: %w", session, err)
	}
	return nil
}

// SelectPane selects the pane addressed by target and sets its title.
func (t *Tmux) SelectPane(ctx context.Context, target, title string) error {
	if _, err := t.run(ctx, "select-pane", "-t", target, "-T", title); err != nil {
		return fmt.Errorf("tmux select-pane -t %s: %w", target, err)
	}
	return nil
}

// SendKeys types text into the pane addressed by target in literal mode,
// then sends Enter (C-m) as a separate keystroke so the text is never
// interpreted as a key name.
func (t *Tmux) SendKeys(ctx context.Context, target, text string) error {
	if _, err := t.run(ctx, "send-keys", "-t", target, "-l", "--", text); err != nil {
		return fmt.Errorf("tmux send-keys -t %s: %w", target, err)
	}
	if _, err := t.run(ctx, "send-keys", "-t", target, "C-m"); err != nil {
		return fmt.Errorf("tmux send-keys -t %s C-m: %w", target, err)
	}
	return nil
}

// ListPanes lists all panes under target rendered with the given format.
func (t *Tmux) ListPanes(ctx context.Context, target, format string) (string, error) {
	out, err := t.run(ctx, "list-panes", "-s", "-t", target, "-F", format)
	if err != nil {
		return "", fmt.Errorf("tmux list-panes -t %s: %w", target, err)
	}
	return out, nil
}

// ListSessions lists all live sessions rendered with the given format.
func (t *Tmux) ListSessions(ctx context.Context, format string) (string, error) {
	out, err := t.run(ctx, "list-sessions", "-F", format)
	if err != nil {
		return "", fmt.Errorf("tmux list-sessions: %w", err)
	}
	return out, nil
}

// DisplayMessage renders the format string against target.
func (t *Tmux) DisplayMessage(ctx context.Context, target, format string) (string, error) {
	out, err := t.run(ctx, "display-message", "-p", "-t", target, format)
	if err != nil {
		return "", fmt.Errorf("tmux display-message -t %s: %w", target, err)
	}
	return out, nil
}

// KillSession kills the named session.
func (t *Tmux) KillSession(ctx context.Context, name string) error {
	if _, err := t.run(ctx, "kill-session", "-t", name); err != nil {
		return fmt.Errorf("tmux kill-session -t %s: %w", name, err)
	}
	return nil
}

// run executes a tmux command and returns its stdout.
func (t *Tmux) run(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "tmux", args...)
	out, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return "", fmt.Errorf("%w: %s", err, string(exitErr.Stderr))
		}
		return "", err
	}
	return string(out), nil
}
