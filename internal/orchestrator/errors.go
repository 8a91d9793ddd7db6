package orchestrator

import "fmt"

// SessionNotFoundError reports an operation that referenced a session id
// absent from the registry. It is raised before any external call.
type SessionNotFoundError struct {
	SessionID string
}

func (e *SessionNotFoundError) Error() string {
	return fmt.Sprintf("session %q not found in registry", e.SessionID)
}

// CommandError reports a multiplexer command that returned a non-zero
// status or could not be spawned, with operation and session context.
type CommandError struct {
	Op      string // multiplexer operation, e.g. "split-window"
	Session string // multiplexer session name
	Err     error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("multiplexer %s failed for session %q: %v", e.Op, e.Session, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// PartialLayoutError reports a layout plan that failed after some
// operations were already applied. The applied operations are not rolled
// back and the session remains registered in LayoutPartial.
type PartialLayoutError struct {
	SessionID string
	Applied   int // operations applied before the failure
	Total     int // operations in the plan
	Err       error
}

func (e *PartialLayoutError) Error() string {
	return fmt.Sprintf("layout for session %q failed after %d of %d operations: %v",
		e.SessionID, e.Applied, e.Total, e.Err)
}

func (e *PartialLayoutError) Unwrap() error {
	return e.Err
}
