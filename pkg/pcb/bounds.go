package pcb

import (
	"math"

	"github.com/kicad-go/eda-importers/pkg/sexp"
)

// GetBoundingBox computes the board's overall bounding box across
// tracks, vias, footprint pads, and free graphics.
func (b *Board) GetBoundingBox() BoundingBox {
	bbox := sexp.NewBoundingBox()

	for _, track := range b.Tracks {
		bbox.Expand(track.Start)
		bbox.Expand(track.End)
	}

	for _, via := range b.Vias {
		radius := via.Size / 2.0
		bbox.Expand(Position{X: via.Position.X - radius, Y: via.Position.Y - radius})
		bbox.Expand(Position{X: via.Position.X + radius, Y: via.Position.Y + radius})
	}

	for _, fp := range b.Footprints {
		bbox.ExpandBox(fp.GetBoundingBox())
	}

	for _, line := range b.Graphics.Lines {
		bbox.Expand(line.Start)
		bbox.Expand(line.End)
	}
	for _, circle := range b.Graphics.Circles {
		dx := circle.End.X - circle.Center.X
		dy := circle.End.Y - circle.Center.Y
		radius := math.Sqrt(dx*dx + dy*dy)
		bbox.Expand(Position{X: circle.Center.X - radius, Y: circle.Center.Y - radius})
		bbox.Expand(Position{X: circle.Center.X + radius, Y: circle.Center.Y + radius})
	}
	for _, arc := range b.Graphics.Arcs {
		bbox.Expand(arc.Start)
		bbox.Expand(arc.Mid)
		bbox.Expand(arc.End)
	}
	for _, rect := range b.Graphics.Rects {
		bbox.Expand(rect.Start)
		bbox.Expand(rect.End)
	}
	for _, poly := range b.Graphics.Polys {
		for _, p := range poly.Points {
			bbox.Expand(p)
		}
	}
	for _, text := range b.Graphics.Texts {
		bbox.Expand(text.Position)
	}
	for _, dim := range b.Dimensions {
		bbox.Expand(dim.Start)
		bbox.Expand(dim.End)
	}

	return bbox
}

// GetBoundingBox computes a footprint's bounding box from its pads'
// positions, transformed into board space.
func (fp *Footprint) GetBoundingBox() BoundingBox {
	bbox := sexp.NewBoundingBox()

	for _, pad := range fp.Pads {
		absPos := fp.TransformPosition(pad.Position)
		halfW := pad.Size.Width / 2.0
		halfH := pad.Size.Height / 2.0
		bbox.Expand(Position{X: absPos.X - halfW, Y: absPos.Y - halfH})
		bbox.Expand(Position{X: absPos.X + halfW, Y: absPos.Y + halfH})
	}

	if len(fp.Pads) == 0 {
		bbox.Expand(fp.Position.Position)
	}

	return bbox
}

// TransformPosition maps a pad position (relative to its footprint)
// into board space by the footprint's own rotation and translation,
// matching the mirror->scale->rotate->translate order of §4.3 with
// mirror/scale identities for the footprint-local case (a footprint's
// own placement carries no independent scale; board-level mirroring
// is applied to the footprint as a whole via its Layer, not per-pad).
func (fp *Footprint) TransformPosition(relPos PositionAngle) Position {
	x, y := relPos.X, relPos.Y

	if fp.Position.Angle != 0 {
		angleRad := -float64(fp.Position.Angle) * math.Pi / 180.0
		cos := math.Cos(angleRad)
		sin := math.Sin(angleRad)
		x, y = x*cos-y*sin, x*sin+y*cos
	}

	x += fp.Position.X
	y += fp.Position.Y

	return Position{X: x, Y: y}
}
