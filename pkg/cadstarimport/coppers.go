package cadstarimport

import (
	"github.com/kicad-go/eda-importers/pkg/cadstar"
	"github.com/kicad-go/eda-importers/pkg/geom"
	"github.com/kicad-go/eda-importers/pkg/pcb"
)

// loadCoppers converts every explicit COPPER record into a zone
// (§4.2 step 12, §4.2.5): poured coppers inherit their template's net
// and are inflated/deflated by half the difference between the
// copper's own width and its pour template's relief width; standalone
// coppers (outline-only or pre-filled) carry no net.
func (c *importCtx) loadCoppers() {
	for _, cu := range c.a.Layout.Coppers {
		layer := c.layers.get(cu.LayerID)
		outline := shapeOutline(cu.Shape)
		z := pcb.Zone{UUID: c.alloc.New(), Layer: layer, Outline: polygonToPositions(outline)}

		switch cu.Kind {
		case cadstar.CopperPoured:
			z.Name = "poured_" + cu.PourTemplateID
			if tmpl, ok := c.a.Layout.Templates[cu.PourTemplateID]; ok {
				if net, ok := c.nets[tmpl.NetID]; ok {
					z.Net = net
					z.HasNet = true
				}
				width := copperWidth(c.a, cu.CopperCodeID)
				var reliefWidth float64
				if cc, ok := c.a.Codes.Coppercodes[tmpl.Pouring.ReliefCopperCodeID]; ok {
					reliefWidth = toMM(cc.CopperWidth)
				}
				if delta := (width - reliefWidth) / 2; delta != 0 {
					z.Outline = polygonToPositions(geom.Inflate(outline, delta))
				}
			}
			z.FilledPolys = map[string][]pcb.Position{layer: z.Outline}
		case cadstar.CopperStandaloneOutline:
			z.Name = "copper_outline"
		case cadstar.CopperStandaloneFilled:
			z.Name = "copper_filled"
			z.FilledPolys = map[string][]pcb.Position{layer: z.Outline}
		}

		c.board.Zones = append(c.board.Zones, z)
	}
}
