// Package progress models the single cooperative suspension point
// described in spec.md §5: a function passed in at call time, not an
// ambient singleton, checked roughly every 500 lines during a
// schematic parse and at the start of each numbered CADSTAR import
// step.
package progress

// Observer is the explicit collaborator every long-running operation
// accepts. Implementations must be safe to call from the single
// goroutine driving the parse/import (no concurrent calls are made).
type Observer interface {
	// Report notifies the observer of current progress out of total.
	// total may be 0 if the total length is not known in advance.
	Report(current, total int)

	// ShouldCancel is polled at each suspension point; returning true
	// aborts the current operation with diag.IoCanceled.
	ShouldCancel() bool
}

// Noop never cancels and ignores progress reports; the zero value is
// ready to use and is the default when a caller passes a nil Observer.
type Noop struct{}

func (Noop) Report(current, total int) {}
func (Noop) ShouldCancel() bool        { return false }

// Checkpoint wraps nil-safety around an Observer so call sites never
// need a nil check: Checkpoint(obs, line, total) reports progress and
// returns true if the caller should abort.
func Checkpoint(obs Observer, current, total int) bool {
	if obs == nil {
		return false
	}
	obs.Report(current, total)
	return obs.ShouldCancel()
}
