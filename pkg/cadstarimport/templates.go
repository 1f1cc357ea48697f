package cadstarimport

import (
	"github.com/kicad-go/eda-importers/pkg/cadstar"
	"github.com/kicad-go/eda-importers/pkg/diag"
	"github.com/kicad-go/eda-importers/pkg/pcb"
)

// loadTemplates converts every TEMPLATE into a fill zone, then adds an
// implicit solid-fill zone for every POWER-type stackup layer no
// explicit template already covers (§4.2 step 11, §4.2.4).
func (c *importCtx) loadTemplates(powerPlaneLayers []cadstar.LayerID) {
	covered := map[cadstar.LayerID]bool{}

	for _, id := range sortedKeys(c.a.Layout.Templates) {
		t := c.a.Layout.Templates[id]
		z := pcb.Zone{
			UUID:     c.alloc.New(),
			Name:     t.Name,
			Layer:    c.layers.get(t.LayerID),
			Outline:  polygonToPositions(shapeOutline(t.Shape)),
			FillMode: fillModeName(t.Pouring.FillType),
		}
		if net, ok := c.nets[t.NetID]; ok {
			z.Net = net
			z.HasNet = true
		}
		if t.Pouring.ThermalReliefOnPads {
			z.ThermalBridgePads = toMM(t.Pouring.ClearanceWidth)
		}
		if t.Pouring.ThermalReliefOnVias {
			z.ThermalGapPads = toMM(t.Pouring.ClearanceWidth)
		}
		if t.Pouring.MinIsolatedCopper != 0 {
			z.MinWidth = toMM(t.Pouring.MinIsolatedCopper)
		}
		if !t.Pouring.AutomaticRepour {
			c.sink.Warning(diag.Unsupported, diag.Location{}, "template %q: manual-repour setting has no KiCad equivalent; zone fills automatically", t.Name)
		}
		if t.Pouring.BoxIsolatedPins {
			c.sink.Warning(diag.Unsupported, diag.Location{}, "template %q: box-isolated-pins setting has no KiCad equivalent", t.Name)
		}

		c.board.Zones = append(c.board.Zones, z)
		c.addToGroup(id, z.UUID)
		covered[t.LayerID] = true
	}

	for _, layerID := range powerPlaneLayers {
		if covered[layerID] {
			continue
		}
		name := c.layers.get(layerID)
		c.board.Zones = append(c.board.Zones, pcb.Zone{
			UUID:     c.alloc.New(),
			Name:     "power_plane_" + name,
			Layer:    name,
			FillMode: "solid",
		})
	}
}

func fillModeName(ft cadstar.FillType) string {
	if ft == cadstar.FillHatched {
		return "hatch"
	}
	return "solid"
}
