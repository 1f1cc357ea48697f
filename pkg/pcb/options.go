package pcb

// Options mirrors pkg/schematic's explicit options struct (the
// "Global state in the source" design note applies equally here):
// every parse call takes its configuration as a parameter rather than
// reading ambient state.
type Options struct {
	MaxSupportedVersion int
	CheckpointEvery     int
}

// DefaultMaxSupportedVersion is this reader's ceiling for .kicad_pcb
// files, matching the schematic reader's own ceiling since both file
// families share KiCad's release cadence.
const DefaultMaxSupportedVersion = 20250901

func DefaultOptions() Options {
	return Options{MaxSupportedVersion: DefaultMaxSupportedVersion, CheckpointEvery: 500}
}
