package diag

import "go.uber.org/multierr"

// RecoveryScope accumulates non-fatal per-item failures the way
// parse_library's per-symbol recovery boundary (§7) and the CADSTAR
// importer's per-step warning collection both need: keep going, but
// don't lose any individual failure. Combine() returns every
// accumulated error via go.uber.org/multierr so a caller that does
// want to see them all (tests, the CLI's verbose mode) can, without
// the Sink losing the pointer to whichever single error aborted a
// *fatal* scope.
type RecoveryScope struct {
	sink Sink
	errs error
}

func NewRecoveryScope(sink Sink) *RecoveryScope {
	return &RecoveryScope{sink: sink}
}

// Recover records err as a warning (kind is almost always Inconsistent
// or Unsupported; ParseError is accepted too for the per-symbol library
// recovery case in §7, which downgrades what would otherwise be fatal).
func (r *RecoveryScope) Recover(kind Kind, loc Location, err error) {
	if err == nil {
		return
	}
	r.sink.Warning(kind, loc, "%v", err)
	r.errs = multierr.Append(r.errs, err)
}

// Combine returns every recorded error combined, or nil if none.
func (r *RecoveryScope) Combine() error { return r.errs }
