package cadstarimport

import (
	"strings"

	"github.com/kicad-go/eda-importers/pkg/cadstar"
)

// layerMapper resolves every CADSTAR layer ID referenced by a shape,
// pad, or zone to a KiCad layer name, per §4.4. Copper layers are
// resolved once from the stackup's electrical order (front = 1, back
// = the last non-dummy entry); everything else is resolved
// heuristically by name, per §4.2.2.
type layerMapper struct {
	byID       map[cadstar.LayerID]string
	unresolved []UnresolvedLayer
}

func newLayerMapper(a *cadstar.Archive, copperOrder []cadstar.LayerID) *layerMapper {
	m := &layerMapper{byID: map[cadstar.LayerID]string{}}

	numCopper := 0
	for _, id := range copperOrder {
		if id != "" {
			numCopper++
		}
	}
	idx := 0
	for _, id := range copperOrder {
		if id == "" {
			idx++
			continue
		}
		if idx == 0 {
			m.byID[id] = "F.Cu"
		} else if idx == numCopper-1 {
			m.byID[id] = "B.Cu"
		} else {
			m.byID[id] = inLayerName(idx)
		}
		idx++
	}

	// Heuristically classify every remaining (non-copper,
	// non-construction) layer by name, per §4.2.2. The chosen side (F
	// or B) is determined by whether any copper layer has been seen yet
	// while walking the declared stack order.
	seenCopper := false
	for _, id := range a.Assignments.Layerdefs.LayerStack {
		l := a.Assignments.Layerdefs.Layers[id]
		switch l.Type {
		case cadstar.LayerElec, cadstar.LayerPower, cadstar.LayerJumper:
			seenCopper = true
			continue
		case cadstar.LayerConstruction:
			continue
		}
		if _, already := m.byID[id]; already {
			continue
		}
		side := "F"
		if seenCopper {
			side = "B"
		}
		if name, ok := heuristicLayerName(l.Name, side); ok {
			m.byID[id] = name
		} else {
			m.unresolved = append(m.unresolved, UnresolvedLayer{ID: string(id), Name: l.Name})
		}
	}

	return m
}

func inLayerName(physicalIndex int) string {
	return "In" + itoa(physicalIndex) + ".Cu"
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	digits := []byte{}
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}

// heuristicLayerName maps a CADSTAR non-copper layer name to a KiCad
// technical layer, per §4.2.2's enumerated layer families (doc,
// assembly, placement, paste, silk, mask, generic non-electrical).
func heuristicLayerName(name, side string) (string, bool) {
	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "silk"):
		return side + ".SilkS", true
	case strings.Contains(lower, "paste"):
		return side + ".Paste", true
	case strings.Contains(lower, "mask") || strings.Contains(lower, "resist"):
		return side + ".Mask", true
	case strings.Contains(lower, "assembl") || strings.Contains(lower, "placement"):
		return side + ".Fab", true
	case strings.Contains(lower, "eco1"):
		return "Eco1.User", true
	case strings.Contains(lower, "eco2"):
		return "Eco2.User", true
	case strings.Contains(lower, "doc") || strings.Contains(lower, "drawing"):
		return "Dwgs.User", true
	}
	return "", false
}

// apply applies the resolved remap (from the application callback) on
// top of the heuristic guesses; any layer still unresolved falls back
// to Cmts.User.
func (m *layerMapper) apply(remap map[string]string) {
	for _, u := range m.unresolved {
		id := cadstar.LayerID(u.ID)
		if name, ok := remap[u.ID]; ok {
			m.byID[id] = name
		} else {
			m.byID[id] = "Cmts.User"
		}
	}
}

// get resolves a single layer ID; an unknown ID falls back to
// Cmts.User rather than panicking, since a malformed archive should
// degrade gracefully (per §7's Unsupported/best-effort policy).
func (m *layerMapper) get(id cadstar.LayerID) string {
	if name, ok := m.byID[id]; ok {
		return name
	}
	return "Cmts.User"
}
