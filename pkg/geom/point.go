// Package geom implements the geometric reconstruction helpers shared
// by the schematic parser and the CADSTAR importer (spec.md §4.3):
// vertex-to-shape conversion, polygon inflate/cutout, and the fixed-
// order affine transform (mirror, then scale, then rotate, then
// translate).
package geom

import "math"

type Point struct {
	X, Y float64
}

func (p Point) Sub(o Point) Point { return Point{p.X - o.X, p.Y - o.Y} }
func (p Point) Add(o Point) Point { return Point{p.X + o.X, p.Y + o.Y} }
func (p Point) Scale(s float64) Point { return Point{p.X * s, p.Y * s} }

func (p Point) Dist(o Point) float64 {
	return math.Hypot(p.X-o.X, p.Y-o.Y)
}

// Collinear reports whether three points are collinear within eps,
// used to reject a malformed arc per §8 "An arc with three collinear
// control points is rejected as a parse error."
func Collinear(a, b, c Point, eps float64) bool {
	cross := (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
	return math.Abs(cross) < eps
}
