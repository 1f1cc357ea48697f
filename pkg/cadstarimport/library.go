package cadstarimport

import (
	"sort"

	"github.com/kicad-go/eda-importers/pkg/cadstar"
	"github.com/kicad-go/eda-importers/pkg/diag"
	"github.com/kicad-go/eda-importers/pkg/pcb"
	"github.com/maruel/natural"
)

// loadComponentLibrary builds one footprint template per SYMDEF_PCB
// (§4.2 step 5): figures, component coppers, keepout areas, and pads.
// The returned map is keyed by SymdefID and is duplicated per
// Component instance in loadComponents.
func loadComponentLibrary(a *cadstar.Archive, lm *layerMapper, sink diag.Sink) map[cadstar.SymdefID]pcb.Footprint {
	out := make(map[cadstar.SymdefID]pcb.Footprint, len(a.Library.ComponentDefinitions))

	for id, comp := range a.Library.ComponentDefinitions {
		fp := pcb.Footprint{
			Library:  comp.ReferenceName,
			Name:     comp.ReferenceName,
			Position: pcb.PositionAngle{Position: toPcbPosition(toGeomPoint(comp.Origin))},
		}
		if comp.Alternate != "" {
			fp.Name = comp.ReferenceName + " (" + comp.Alternate + ")"
		}

		for _, fig := range comp.Figures {
			layer := lm.get(fig.LayerID)
			width := lineThickness(a, fig.LineCodeID)
			fp.Graphics = append(fp.Graphics, segmentsToGraphics(shapeToSegments(fig.Shape), layer, width)...)
		}

		for _, cc := range comp.ComponentCoppers {
			layer := lm.get(cc.LayerID)
			width := copperWidth(a, cc.CopperCodeID)
			fp.Graphics = append(fp.Graphics, segmentsToGraphics(shapeToSegments(cc.Shape), layer, width)...)
		}

		for _, area := range comp.ComponentAreas {
			if !area.NoVias && !area.NoTracks {
				sink.Warning(diag.Unsupported, diag.Location{}, "component %q: area %q is neither a via nor route keepout; not imported", comp.ReferenceName, area.ID)
				continue
			}
			z := pcb.Zone{
				Name:          area.ID,
				Layer:         lm.get(area.LayerID),
				IsRuleArea:    true,
				KeepoutTracks: area.NoTracks,
				KeepoutCopper: area.NoTracks,
				KeepoutVias:   area.NoVias,
				Outline:       polygonToPositions(shapeOutline(area.Shape)),
			}
			fp.Zones = append(fp.Zones, z)
		}

		// Pads are ordered by numeric PAD_ID so that later net/part pin
		// assignment (which indexes pads positionally) lines up exactly
		// as the donor's insertion-ordered pad list does.
		for _, cp := range orderedPads(comp.ComponentPads) {
			code := a.Codes.Padcodes[cp.PadCodeID]
			layers := padCopperLayers(cp.Side)
			fp.Pads = append(fp.Pads, buildPad(cp, code, layers, sink, diag.Location{}))
		}

		out[id] = fp
	}

	return out
}

func lineThickness(a *cadstar.Archive, id cadstar.TextcodeID) float64 {
	if tc, ok := a.Codes.Textcodes[id]; ok {
		return toMM(tc.Width)
	}
	return 0
}

func copperWidth(a *cadstar.Archive, id cadstar.CoppercodeID) float64 {
	if cc, ok := a.Codes.Coppercodes[id]; ok {
		return toMM(cc.CopperWidth)
	}
	return 0
}

// padCopperLayers resolves a pad's KiCad copper layer set purely from
// its mount side; through-hole pads get every copper layer plus
// F/B.Paste and F/B.Mask are intentionally omitted here (no CADSTAR
// paste-layer equivalent for through-hole per the donor's own "assume
// no paste layers" comment).
func padCopperLayers(side cadstar.PadSide) pcb.LayerSet {
	switch side {
	case cadstar.PadSideBottom:
		return pcb.LayerSet{"B.Cu", "B.Paste", "B.Mask"}
	case cadstar.PadSideTop:
		return pcb.LayerSet{"F.Cu", "F.Paste", "F.Mask"}
	default:
		return pcb.LayerSet{"*.Cu", "*.Mask"}
	}
}

func orderedPads(pads map[cadstar.PadID]cadstar.ComponentPad) []cadstar.ComponentPad {
	ids := make([]string, 0, len(pads))
	for id := range pads {
		ids = append(ids, id)
	}
	sort.Sort(natural.StringSlice(ids))
	out := make([]cadstar.ComponentPad, 0, len(ids))
	for _, id := range ids {
		out = append(out, pads[id])
	}
	return out
}
