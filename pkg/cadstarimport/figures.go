package cadstarimport

import (
	"github.com/kicad-go/eda-importers/pkg/diag"
	"github.com/kicad-go/eda-importers/pkg/pcb"
)

// loadFigures converts every free (board-level, not library) figure
// into graphics on its mapped layer (§4.2 step 8).
func (c *importCtx) loadFigures() {
	for _, id := range sortedKeys(c.a.Layout.Figures) {
		fig := c.a.Layout.Figures[id]
		layer := c.layers.get(fig.LayerID)
		width := lineThickness(c.a, fig.LineCodeID)
		lines, arcs := segmentsToGrItems(shapeToSegments(fig.Shape), layer, width, c.alloc)
		for _, l := range lines {
			c.board.Graphics.Lines = append(c.board.Graphics.Lines, l)
			c.addToGroup(id, l.UUID)
		}
		for _, arc := range arcs {
			c.board.Graphics.Arcs = append(c.board.Graphics.Arcs, arc)
			c.addToGroup(id, arc.UUID)
		}
	}
}

// loadTexts places every free text item as board-level text.
func (c *importCtx) loadTexts() {
	for _, id := range sortedKeys(c.a.Layout.Texts) {
		t := c.a.Layout.Texts[id]
		height := 1.0
		if tc, ok := c.a.Codes.Textcodes[t.TextCodeID]; ok {
			height = toMM(tc.Height)
		}
		gt := pcb.GrText{
			Text:     t.Text,
			Position: toPcbPosition(toGeomPoint(t.Position)),
			Angle:    pcb.Angle(toDegrees(t.OrientAngle)),
			Layer:    c.layers.get(t.LayerID),
			Size:     pcb.Size{Width: height, Height: height},
			UUID:     c.alloc.New(),
		}
		c.board.Graphics.Texts = append(c.board.Graphics.Texts, gt)
		c.addToGroup(id, gt.UUID)
	}
}

// loadDimensions converts every free-standing dimension to a board
// Dimension, approximated from its shape's first and last outline
// points since CADSTAR dimension geometry carries no explicit
// aligned/leader/center discriminator in this archive shape.
func (c *importCtx) loadDimensions() {
	for _, id := range sortedKeys(c.a.Layout.Dimensions) {
		d := c.a.Layout.Dimensions[id]
		pts := shapeOutline(d.Shape)
		dim := pcb.Dimension{UUID: c.alloc.New(), Type: "aligned", Layer: c.layers.get(d.LayerID)}
		if len(pts) > 0 {
			dim.Start = toPcbPosition(pts[0])
		}
		if len(pts) > 1 {
			dim.End = toPcbPosition(pts[len(pts)-1])
		}
		c.board.Dimensions = append(c.board.Dimensions, dim)
		c.addToGroup(id, dim.UUID)
	}
}

// loadAreas converts board-level keepout areas into rule-area zones,
// the same shape library areas take in loadComponentLibrary.
func (c *importCtx) loadAreas() {
	for _, id := range sortedKeys(c.a.Layout.Areas) {
		area := c.a.Layout.Areas[id]
		if !area.NoVias && !area.NoTracks {
			c.sink.Warning(diag.Unsupported, diag.Location{}, "board area %q is neither a via nor route keepout; not imported", id)
			continue
		}
		z := pcb.Zone{
			UUID:          c.alloc.New(),
			Name:          id,
			Layer:         c.layers.get(area.LayerID),
			IsRuleArea:    true,
			KeepoutTracks: area.NoTracks,
			KeepoutCopper: area.NoTracks,
			KeepoutVias:   area.NoVias,
			Outline:       polygonToPositions(shapeOutline(area.Shape)),
		}
		c.board.Zones = append(c.board.Zones, z)
		c.addToGroup(id, z.UUID)
	}
}
