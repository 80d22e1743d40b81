package game

import "fmt"

// InvariantError reports a programming-contract violation inside the rule
// engine: a log entry naming an unknown player, a second elimination of the
// same player, and so on. It aborts the affected game rather than letting a
// corrupt record escape, and names the phase where the state machine broke.
type InvariantError struct {
	Phase  PhaseType
	Index  int
	Reason string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("invariant violation at %s %d: %s", e.Phase, e.Index, e.Reason)
}

func invariant(phase PhaseType, index int, format string, args ...any) *InvariantError {
	return &InvariantError{Phase: phase, Index: index, Reason: fmt.Sprintf(format, args...)}
}
