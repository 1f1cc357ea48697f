package schematic

import "strconv"

// DefaultMaxSupportedVersion is the reader's maximum supported version
// V referenced by §4.1's version gate: the highest yyyymmdd date named
// by any fixup in the version-dependent fixup table, rounded forward a
// little to represent "the current reader", matching the donor's own
// practice of defining a single MinSupportedVersion constant (here a
// maximum, since the gate in this spec rejects files that are too NEW,
// not too old).
const DefaultMaxSupportedVersion = 20250901

// LocaleAdapter is the "locale adapter (for numeric parsing)" explicit
// collaborator called for by the "Global state in the source" design
// note, replacing a process-wide locale singleton.
type LocaleAdapter interface {
	ParseFloat(s string) (float64, error)
}

type defaultLocale struct{}

func (defaultLocale) ParseFloat(s string) (float64, error) { return strconv.ParseFloat(s, 64) }

// Options is the explicit options struct the design note calls for,
// passed into every parse call instead of being read from ambient
// global state.
type Options struct {
	MaxSupportedVersion int
	Locale              LocaleAdapter
	// CopyableFragment corresponds to the original's aIsCopyableOnly:
	// when true, a stray T_EOF inside the schematic body is tolerated
	// (clipboard paste of a fragment); otherwise it is a ParseError
	// per the §9 Open Question decision.
	CopyableFragment bool
	// FallbackVersion is used when a schematic fragment (CopyableFragment)
	// carries no version header of its own.
	FallbackVersion int
	// CheckpointEvery controls how often the progress observer is
	// polled; see the approximate-line-count note in parser.go.
	CheckpointEvery int
}

func DefaultOptions() Options {
	return Options{
		MaxSupportedVersion: DefaultMaxSupportedVersion,
		Locale:              defaultLocale{},
		FallbackVersion:     DefaultMaxSupportedVersion,
		CheckpointEvery:     500,
	}
}
