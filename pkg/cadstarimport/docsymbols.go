package cadstarimport

import (
	"github.com/kicad-go/eda-importers/pkg/diag"
	"github.com/kicad-go/eda-importers/pkg/pcb"
)

// loadDocumentationSymbols places the graphics (and only the graphics)
// of a documentation symbol's referenced library definition onto the
// board (§4.2 step 10); pads and component coppers, which a doc symbol
// never carries semantically, are intentionally dropped even if the
// referenced definition happens to have them.
func (c *importCtx) loadDocumentationSymbols() {
	for _, id := range sortedKeys(c.a.Layout.DocumentationSymbols) {
		ds := c.a.Layout.DocumentationSymbols[id]
		tmpl, ok := c.library[ds.SymdefID]
		if !ok {
			c.sink.Warning(diag.Inconsistent, diag.Location{}, "documentation symbol %q: library definition %q not found", id, ds.SymdefID)
			continue
		}
		layer := c.layers.get(ds.LayerID)
		for _, g := range tmpl.Graphics {
			uuid := c.alloc.New()
			switch g.Type {
			case "line":
				c.board.Graphics.Lines = append(c.board.Graphics.Lines, pcb.GrLine{Start: g.Start, End: g.End, Stroke: g.Stroke, Layer: layer, UUID: uuid})
			case "arc":
				c.board.Graphics.Arcs = append(c.board.Graphics.Arcs, pcb.GrArc{Start: g.Start, Mid: g.Center, End: g.End, Stroke: g.Stroke, Layer: layer, UUID: uuid})
			case "circle":
				c.board.Graphics.Circles = append(c.board.Graphics.Circles, pcb.GrCircle{Center: g.Center, End: g.End, Stroke: g.Stroke, Fill: g.Fill, Layer: layer, UUID: uuid})
			case "rect":
				c.board.Graphics.Rects = append(c.board.Graphics.Rects, pcb.GrRect{Start: g.Start, End: g.End, Stroke: g.Stroke, Fill: g.Fill, Layer: layer, UUID: uuid})
			case "polygon":
				c.board.Graphics.Polys = append(c.board.Graphics.Polys, pcb.GrPoly{Points: g.Points, Stroke: g.Stroke, Fill: g.Fill, Layer: layer, UUID: uuid})
			default:
				continue
			}
			c.addToGroup(id, uuid)
		}
	}
}
