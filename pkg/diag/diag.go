// Package diag implements the error taxonomy and diagnostic sink
// described in spec.md §7. It is passed explicitly into every parse
// and import call (per the "Global state in the source" design note)
// rather than reached for as a package-level singleton.
package diag

import "fmt"

// Kind distinguishes the six diagnostic categories from §7.
type Kind int

const (
	ParseError Kind = iota
	FutureFormat
	IoCanceled
	IoError
	Inconsistent // warning
	Unsupported  // warning
)

func (k Kind) String() string {
	switch k {
	case ParseError:
		return "ParseError"
	case FutureFormat:
		return "FutureFormat"
	case IoCanceled:
		return "IoCanceled"
	case IoError:
		return "IoError"
	case Inconsistent:
		return "Inconsistent"
	case Unsupported:
		return "Unsupported"
	default:
		return "Unknown"
	}
}

// Fatal reports whether diagnostics of this kind abort the operation
// (per §7's policy column); Inconsistent and Unsupported are warnings.
func (k Kind) Fatal() bool { return k == ParseError || k == FutureFormat || k == IoCanceled || k == IoError }

// Location pinpoints a diagnostic's origin in the source document.
type Location struct {
	File   string
	Line   int
	Offset int
}

func (l Location) String() string {
	if l.File == "" && l.Line == 0 {
		return ""
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// Diagnostic is one entry in a Sink: either a returned fatal error or
// an accumulated warning.
type Diagnostic struct {
	Kind     Kind
	Message  string
	Location Location

	// Set only for FutureFormat, carrying the two values §8 scenario 1
	// requires the caller be able to inspect.
	RequiredVersion int
	GeneratorVer    string
}

func (d *Diagnostic) Error() string {
	if loc := d.Location.String(); loc != "" {
		return fmt.Sprintf("%s: %s: %s", loc, d.Kind, d.Message)
	}
	return fmt.Sprintf("%s: %s", d.Kind, d.Message)
}

// NewError builds a fatal Diagnostic usable directly as an error.
func NewError(kind Kind, loc Location, format string, args ...any) *Diagnostic {
	return &Diagnostic{Kind: kind, Message: fmt.Sprintf(format, args...), Location: loc}
}

// NewFutureFormat builds the specific FutureFormat error shape §8
// scenario 1 requires.
func NewFutureFormat(loc Location, required int, generatorVer string) *Diagnostic {
	return &Diagnostic{
		Kind:            FutureFormat,
		Message:         fmt.Sprintf("file version exceeds supported %d (generator %s)", required, generatorVer),
		Location:        loc,
		RequiredVersion: required,
		GeneratorVer:    generatorVer,
	}
}

// Sink is the explicit collaborator every public operation in §4.1/§4.2
// accepts: message/warning/error, with no synchronization requirement
// because it is only ever appended to by the calling goroutine (§5
// "Shared-resource policy").
type Sink interface {
	Message(format string, args ...any)
	Warning(kind Kind, loc Location, format string, args ...any)
	Error(kind Kind, loc Location, format string, args ...any)
}

// SliceSink is the simplest Sink: it accumulates everything in memory,
// useful for tests and for the CLI's default "print at the end" mode.
type SliceSink struct {
	Messages []string
	Warnings []*Diagnostic
	Errors   []*Diagnostic
}

func NewSliceSink() *SliceSink { return &SliceSink{} }

func (s *SliceSink) Message(format string, args ...any) {
	s.Messages = append(s.Messages, fmt.Sprintf(format, args...))
}

func (s *SliceSink) Warning(kind Kind, loc Location, format string, args ...any) {
	s.Warnings = append(s.Warnings, NewError(kind, loc, format, args...))
}

func (s *SliceSink) Error(kind Kind, loc Location, format string, args ...any) {
	s.Errors = append(s.Errors, NewError(kind, loc, format, args...))
}

// HasErrors reports whether any fatal-kind diagnostic was recorded.
func (s *SliceSink) HasErrors() bool { return len(s.Errors) > 0 }
