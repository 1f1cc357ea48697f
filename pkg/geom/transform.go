package geom

import "math"

// Transform is the affine transform shared by §4.1 (placing library
// draw items at a symbol instance) and §4.2 (placing CADSTAR
// components and coppers on the board). Operations are applied in the
// fixed order mandated by §4.3: mirror, then scale, then rotate about
// Center, then translate by Offset — the donor's own
// pkg/kicad/renderer/transform.go applies scale→rotate→translate with
// no mirror stage, which this corrects.
type Transform struct {
	MirrorX, MirrorY bool
	ScaleX, ScaleY   float64
	RotateDeg        float64
	Center           Point
	Offset           Point
}

// Identity returns a Transform that leaves points unchanged.
func Identity() Transform {
	return Transform{ScaleX: 1, ScaleY: 1}
}

// Apply transforms p through mirror, scale, rotate (about Center), then
// translate, in that order.
func (t Transform) Apply(p Point) Point {
	if t.MirrorX {
		p.X = -p.X
	}
	if t.MirrorY {
		p.Y = -p.Y
	}

	sx, sy := t.ScaleX, t.ScaleY
	if sx == 0 {
		sx = 1
	}
	if sy == 0 {
		sy = 1
	}
	p.X *= sx
	p.Y *= sy

	if t.RotateDeg != 0 {
		rad := t.RotateDeg * math.Pi / 180
		cos, sin := math.Cos(rad), math.Sin(rad)
		dx, dy := p.X-t.Center.X, p.Y-t.Center.Y
		rx := dx*cos - dy*sin
		ry := dx*sin + dy*cos
		p.X = t.Center.X + rx
		p.Y = t.Center.Y + ry
	}

	p.X += t.Offset.X
	p.Y += t.Offset.Y
	return p
}

// ApplyAll transforms every point of a polyline/polygon in place order
// (returns a new slice; does not mutate pts).
func (t Transform) ApplyAll(pts []Point) []Point {
	out := make([]Point, len(pts))
	for i, p := range pts {
		out[i] = t.Apply(p)
	}
	return out
}
