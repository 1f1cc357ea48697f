package cadstarimport

// LayerRemapCallback is the application-provided callback of §4.2.2:
// given the list of CADSTAR layers the importer could not confidently
// classify, it returns a mapping from those layer IDs to the KiCad
// layer name that should be used instead. A nil callback leaves
// unresolved layers mapped to the generic "Cmts.User" fallback.
type LayerRemapCallback func(unresolved []UnresolvedLayer) map[string]string

// UnresolvedLayer describes one CADSTAR layer the heuristic mapper in
// §4.2.2 could not place with confidence.
type UnresolvedLayer struct {
	ID   string
	Name string
}

// Options configures one Import call.
type Options struct {
	// RemapLayers is consulted for every layer collected during
	// remapUnsureLayers (§4.2.2).
	RemapLayers LayerRemapCallback
}

func DefaultOptions() Options {
	return Options{}
}
