package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"github.com/timvw/pane-wrangler/internal/mux"
)

// fakeMux records multiplexer calls and simulates failures without a real
// multiplexer. Errors are keyed by operation name, optionally narrowed to a
// specific argument ("split-window sess:0.0" beats "split-window").
type fakeMux struct {
	calls   [][]string        // each call is [op, arg1, arg2, ...]
	errs    map[string]error  // op or "op arg" -> error
	outputs map[string]string // op -> canned stdout for query ops
}

func newFakeMux() *fakeMux {
	return &fakeMux{
		errs:    make(map[string]error),
		outputs: make(map[string]string),
	}
}

func (f *fakeMux) record(op string, args ...string) {
	f.calls = append(f.calls, append([]string{op}, args...))
}

func (f *fakeMux) err(op string, args ...string) error {
	for _, a := range args {
		if e, ok := f.errs[op+" "+a]; ok {
			return e
		}
	}
	return f.errs[op]
}

// callsOf returns the recorded calls for one operation.
func (f *fakeMux) callsOf(op string) [][]string {
	var out [][]string
	for _, c := range f.calls {
		if c[0] == op {
			out = append(out, c)
		}
	}
	return out
}

func (f *fakeMux) Name() string { return "fake" }

func (f *fakeMux) NewSession(_ context.Context, name string, cols, rows int) error {
	f.record("new-session", name, fmt.Sprintf("%d", cols), fmt.Sprintf("%d", rows))
	return f.err("new-session", name)
}

func (f *fakeMux) SplitWindow(_ context.Context, target string, dir mux.Direction) error {
	f.record("split-window", target, string(dir))
	return f.err("split-window", target)
}

func (f *fakeMux) NewWindow(_ context.Context, session, windowName string) error {
	f.record("new-window", session, windowName)
	return f.err("new-window", windowName)
}

func (f *fakeMux) SelectPane(_ context.Context, target, title string) error {
	f.record("select-pane", target, title)
	return f.err("select-pane", target)
}

func (f *fakeMux) SendKeys(_ context.Context, target, text string) error {
	f.record("send-keys", target, text)
	return f.err("send-keys", target)
}

func (f *fakeMux) ListPanes(_ context.Context, target, format string) (string, error) {
	f.record("list-panes", target, format)
	if err := f.err("list-panes", target); err != nil {
		return "", err
	}
	return f.outputs["list-panes"], nil
}

func (f *fakeMux) ListSessions(_ context.Context, format string) (string, error) {
	f.record("list-sessions", format)
	if err := f.err("list-sessions"); err != nil {
		return "", err
	}
	return f.outputs["list-sessions"], nil
}

func (f *fakeMux) DisplayMessage(_ context.Context, target, format string) (string, error) {
	f.record("display-message", target, format)
	if err := f.err("display-message", target); err != nil {
		return "", err
	}
	return f.outputs["display-message"], nil
}

func (f *fakeMux) KillSession(_ context.Context, name string) error {
	f.record("kill-session", name)
	return f.err("kill-session", name)
}

// sessionLine renders a list-sessions line for canned output.
func sessionLine(name string, created int64) string {
	return fmt.Sprintf("%s\t%d", name, created)
}

func joinLines(lines ...string) string {
	return strings.Join(lines, "\n") + "\n"
}
