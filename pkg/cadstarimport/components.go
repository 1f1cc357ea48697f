package cadstarimport

import (
	"github.com/kicad-go/eda-importers/pkg/cadstar"
	"github.com/kicad-go/eda-importers/pkg/diag"
	"github.com/kicad-go/eda-importers/pkg/pcb"
)

// loadComponents instantiates one footprint per CADSTAR component
// (§4.2 step 9): the library template is duplicated, placed at the
// component's origin/rotation, its pads renamed from the matching part
// definition's pin list, and any per-pad exceptions re-applied through
// buildPad. Pad and graphic coordinates stay footprint-local exactly as
// the donor's own .kicad_pcb footprints store them; only the
// footprint's own Position/Angle carries the placement, so no further
// coordinate transform is needed here.
func (c *importCtx) loadComponents() {
	for _, id := range sortedKeys(c.a.Layout.Components) {
		comp := c.a.Layout.Components[id]
		symdef, ok := c.a.Library.ComponentDefinitions[comp.SymdefID]
		if !ok {
			c.sink.Warning(diag.Inconsistent, diag.Location{}, "component %q: library definition %q not found", comp.Name, comp.SymdefID)
			continue
		}
		tmpl, ok := c.library[comp.SymdefID]
		if !ok {
			continue
		}

		fp := cloneFootprint(tmpl)
		fp.UUID = c.alloc.New()
		fp.Reference = comp.Name
		fp.Layer = "F.Cu"
		if comp.Mirror {
			fp.Layer = "B.Cu"
		}
		fp.Position = pcb.PositionAngle{
			Position: toPcbPosition(toGeomPoint(comp.Origin)),
			Angle:    pcb.Angle(toDegrees(comp.OrientAngle)),
		}

		if part, ok := c.a.Parts.PartDefinitions[comp.PartID]; ok {
			renamePadsFromPart(&fp, part)
		}
		applyPadExceptions(&fp, symdef, comp.PadExceptions, c.a, c.sink)

		c.componentFootprint[id] = len(c.board.Footprints)
		c.board.Footprints = append(c.board.Footprints, fp)
		c.addToGroup(id, fp.UUID)
	}
}

// cloneFootprint deep-copies a library template's slice fields so every
// placed instance owns its own backing arrays.
func cloneFootprint(fp pcb.Footprint) pcb.Footprint {
	out := fp
	out.Pads = append([]pcb.Pad(nil), fp.Pads...)
	for i, p := range out.Pads {
		out.Pads[i].Primitives = append([]pcb.Position(nil), p.Primitives...)
	}
	out.Graphics = append([]pcb.Graphic(nil), fp.Graphics...)
	out.Texts = append([]pcb.GrText(nil), fp.Texts...)
	out.Zones = append([]pcb.Zone(nil), fp.Zones...)
	return out
}

// renamePadsFromPart labels each pad with its part-pin identifier when
// the part's pin count matches the footprint's pad count exactly,
// mirroring the donor's part-pin-to-pad name association.
func renamePadsFromPart(fp *pcb.Footprint, part cadstar.Part) {
	if len(part.Pins) != len(fp.Pads) {
		return
	}
	for i := range fp.Pads {
		pin, ok := part.Pins[int64(i+1)]
		if !ok {
			continue
		}
		name := pin.Identifier
		if name == "" {
			name = pin.Name
		}
		if name != "" {
			fp.Pads[i].Number = name
		}
	}
}

// applyPadExceptions re-derives any pad the component overrides with a
// PAD_EXCEPTION (different padcode, side, or orientation), rebuilding
// it through buildPad exactly as the unexceptional pads were built so
// the same shape/slot logic applies.
func applyPadExceptions(fp *pcb.Footprint, symdef cadstar.SymdefPCB, exceptions map[cadstar.PadID]cadstar.PadException, a *cadstar.Archive, sink diag.Sink) {
	if len(exceptions) == 0 {
		return
	}
	order := orderedPads(symdef.ComponentPads)
	index := make(map[cadstar.PadID]int, len(order))
	for i, cp := range order {
		index[cp.ID] = i
	}

	for _, padID := range sortedKeys(exceptions) {
		exc := exceptions[padID]
		idx, ok := index[padID]
		if !ok || idx >= len(fp.Pads) {
			continue
		}
		cp := order[idx]
		code := a.Codes.Padcodes[cp.PadCodeID]
		if exc.PadCode != "" {
			if c2, ok := a.Codes.Padcodes[exc.PadCode]; ok {
				code = c2
			}
		}
		if exc.OverrideSide {
			cp.Side = exc.Side
		}
		if exc.OverrideOrientation {
			cp.OrientAngle = exc.OrientAngle
		}
		layers := padCopperLayers(cp.Side)
		rebuilt := buildPad(cp, code, layers, sink, diag.Location{})
		rebuilt.Number = fp.Pads[idx].Number
		fp.Pads[idx] = rebuilt
	}
}
