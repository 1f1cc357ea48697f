package cadstarimport

import (
	"github.com/kicad-go/eda-importers/pkg/cadstar"
	"github.com/kicad-go/eda-importers/pkg/geom"
	"github.com/kicad-go/eda-importers/pkg/idgen"
	"github.com/kicad-go/eda-importers/pkg/pcb"
)

func toGeomPoint(p cadstar.Point) geom.Point {
	return geom.Point{X: toMM(p.X), Y: toMM(p.Y)}
}

func toPcbPosition(p geom.Point) pcb.Position {
	return pcb.Position{X: p.X, Y: p.Y}
}

func toGeomVertex(v cadstar.Vertex) geom.Vertex {
	var kind geom.EdgeKind
	switch v.Edge {
	case cadstar.EdgeArcCW:
		kind = geom.EdgeArcCW
	case cadstar.EdgeArcCCW:
		kind = geom.EdgeArcCCW
	case cadstar.EdgeSemicircleCW:
		kind = geom.EdgeSemicircleCW
	case cadstar.EdgeSemicircleCCW:
		kind = geom.EdgeSemicircleCCW
	default:
		kind = geom.EdgeStraight
	}
	return geom.Vertex{Point: toGeomPoint(v.End), Edge: kind, Center: toGeomPoint(v.Center)}
}

// shapeToSegments reconstructs a CADSTAR shape's outline into KiCad
// shape primitives, per §4.3. The starting point is synthesized as a
// leading straight-edge vertex so VerticesToSegments sees the full
// closed (or open) chain.
func shapeToSegments(s cadstar.Shape) []geom.Segment {
	verts := make([]geom.Vertex, 0, len(s.Vertices)+1)
	verts = append(verts, geom.Vertex{Point: toGeomPoint(s.Start), Edge: geom.EdgeStraight})
	for _, v := range s.Vertices {
		verts = append(verts, toGeomVertex(v))
	}
	return geom.VerticesToSegments(verts, s.Closed)
}

// shapeOutline flattens a shape's outline to a point polygon, for
// zone outlines and overlap-area computation (no cutouts — cutouts are
// handled separately by callers that need them, e.g. keepout areas).
func shapeOutline(s cadstar.Shape) []geom.Point {
	return geom.Tessellate(shapeToSegments(s), 16)
}

// segmentsToGraphics converts a reconstructed segment chain to board
// or footprint graphics on the given (already-mapped) KiCad layer.
func segmentsToGraphics(segs []geom.Segment, layer string, strokeWidth float64) []pcb.Graphic {
	out := make([]pcb.Graphic, 0, len(segs))
	stroke := pcb.Stroke{Width: strokeWidth, Type: "solid"}
	for _, s := range segs {
		if s.IsArc {
			out = append(out, pcb.Graphic{
				Type:   "arc",
				Layer:  layer,
				Start:  toPcbPosition(s.Start),
				End:    toPcbPosition(s.End),
				Center: toPcbPosition(mustCenter(s.Arc)),
				Stroke: stroke,
			})
			continue
		}
		out = append(out, pcb.Graphic{
			Type:   "line",
			Layer:  layer,
			Start:  toPcbPosition(s.Start),
			End:    toPcbPosition(s.End),
			Stroke: stroke,
		})
	}
	return out
}

func mustCenter(a geom.Arc) geom.Point {
	c, err := a.Center()
	if err != nil {
		return a.Start
	}
	return c
}

// segmentsToTracks converts a reconstructed segment chain into a
// chain of straight/arc Track values carrying a common net and width,
// per §4.2.7's "convert outline to a chain of tracks and arcs".
func segmentsToTracks(segs []geom.Segment, layer string, width float64, net pcb.Net, hasNet bool) []pcb.Track {
	out := make([]pcb.Track, 0, len(segs))
	for _, s := range segs {
		t := pcb.Track{Start: toPcbPosition(s.Start), End: toPcbPosition(s.End), Layer: layer, Width: width, Net: net, HasNet: hasNet}
		if s.IsArc {
			t.IsArc = true
			t.Mid = toPcbPosition(s.Arc.Mid)
		}
		out = append(out, t)
	}
	return out
}

// segmentsToGrItems converts a reconstructed segment chain into board-
// level graphics (GrLine/GrArc, each carrying a fresh UUID so callers
// can register them with a group via addToGroup), used by the
// board-outline, free-figure, and documentation-symbol load steps.
func segmentsToGrItems(segs []geom.Segment, layer string, width float64, alloc *idgen.Allocator) ([]pcb.GrLine, []pcb.GrArc) {
	stroke := pcb.Stroke{Width: width, Type: "solid"}
	var lines []pcb.GrLine
	var arcs []pcb.GrArc
	for _, s := range segs {
		if s.IsArc {
			arcs = append(arcs, pcb.GrArc{Start: toPcbPosition(s.Start), Mid: toPcbPosition(s.Arc.Mid), End: toPcbPosition(s.End), Stroke: stroke, Layer: layer, UUID: alloc.New()})
			continue
		}
		lines = append(lines, pcb.GrLine{Start: toPcbPosition(s.Start), End: toPcbPosition(s.End), Stroke: stroke, Layer: layer, UUID: alloc.New()})
	}
	return lines, arcs
}

// polygonToPositions converts a flattened point polygon to the
// Position slice pkg/pcb's zone outlines and graphics store.
func polygonToPositions(pts []geom.Point) []pcb.Position {
	out := make([]pcb.Position, len(pts))
	for i, p := range pts {
		out[i] = toPcbPosition(p)
	}
	return out
}
