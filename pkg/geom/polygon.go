package geom

import "math"

// EdgeKind is the edge-type discriminator on a CADSTAR/KiCad vertex
// record, per §4.3: "each a point with an edge-type: straight,
// clockwise-arc, counterclockwise-arc, clockwise-semicircle,
// counterclockwise-semicircle".
type EdgeKind int

const (
	EdgeStraight EdgeKind = iota
	EdgeArcCW
	EdgeArcCCW
	EdgeSemicircleCW
	EdgeSemicircleCCW
)

// Vertex is one point of a vertex-chain together with the edge type of
// the segment LEADING OUT of it to the next vertex (or, for the
// closing edge, out of the last vertex back to the first).
type Vertex struct {
	Point Point
	Edge  EdgeKind
	// Center is required for EdgeArcCW/EdgeArcCCW; ignored otherwise
	// (semicircle edges derive their center from the endpoint
	// midpoint per §4.3).
	Center Point
}

// Segment is a reconstructed KiCad shape primitive: either a straight
// line or an arc, expressed in the canonical three-point Arc form.
type Segment struct {
	IsArc bool
	Start Point
	End   Point
	Arc   Arc // valid iff IsArc
}

// VerticesToSegments converts a vertex chain into KiCad shape
// primitives per §4.3: arcs store the arc-center plus start/end;
// semicircles take the midpoint of endpoints as the center.
func VerticesToSegments(vertices []Vertex, closed bool) []Segment {
	if len(vertices) == 0 {
		return nil
	}
	n := len(vertices)
	limit := n - 1
	if closed {
		limit = n
	}
	segs := make([]Segment, 0, limit)
	for i := 0; i < limit; i++ {
		v := vertices[i]
		next := vertices[(i+1)%n]
		switch v.Edge {
		case EdgeStraight:
			segs = append(segs, Segment{Start: v.Point, End: next.Point})
		case EdgeArcCW, EdgeArcCCW:
			mid := arcMidpoint(v.Point, next.Point, v.Center, v.Edge == EdgeArcCW)
			segs = append(segs, Segment{IsArc: true, Start: v.Point, End: next.Point,
				Arc: Arc{Start: v.Point, Mid: mid, End: next.Point}})
		case EdgeSemicircleCW, EdgeSemicircleCCW:
			center := Point{X: (v.Point.X + next.Point.X) / 2, Y: (v.Point.Y + next.Point.Y) / 2}
			mid := arcMidpoint(v.Point, next.Point, center, v.Edge == EdgeSemicircleCW)
			segs = append(segs, Segment{IsArc: true, Start: v.Point, End: next.Point,
				Arc: Arc{Start: v.Point, Mid: mid, End: next.Point}})
		}
	}
	return segs
}

// arcMidpoint finds the point on the circle through start/end centered
// at center that lies on the requested side (clockwise or
// counter-clockwise sweep from start to end).
func arcMidpoint(start, end, center Point, clockwise bool) Point {
	radius := center.Dist(start)
	startAngle := math.Atan2(start.Y-center.Y, start.X-center.X)
	endAngle := math.Atan2(end.Y-center.Y, end.X-center.X)

	sweep := endAngle - startAngle
	for sweep <= 0 {
		sweep += 2 * math.Pi
	}
	for sweep > 2*math.Pi {
		sweep -= 2 * math.Pi
	}
	if clockwise {
		sweep -= 2 * math.Pi
	}
	midAngle := startAngle + sweep/2
	return Point{X: center.X + radius*math.Cos(midAngle), Y: center.Y + radius*math.Sin(midAngle)}
}

// Tessellate flattens a segment chain into a polyline suitable for
// area/overlap computation, approximating arcs with steps points.
func Tessellate(segs []Segment, steps int) []Point {
	if steps < 2 {
		steps = 8
	}
	var pts []Point
	for _, s := range segs {
		pts = append(pts, s.Start)
		if s.IsArc {
			c, err := s.Arc.Center()
			if err != nil {
				continue
			}
			r := c.Dist(s.Start)
			a0 := math.Atan2(s.Start.Y-c.Y, s.Start.X-c.X)
			sweepDeg, err := s.Arc.AngleDegrees()
			if err != nil {
				continue
			}
			midDeg := toDeg360(math.Atan2(s.Arc.Mid.Y-c.Y, s.Arc.Mid.X-c.X))
			startDeg := toDeg360(a0)
			dir := 1.0
			if norm360(midDeg-startDeg) > sweepDeg {
				dir = -1
			}
			for i := 1; i < steps; i++ {
				a := a0 + dir*(sweepDeg*math.Pi/180)*float64(i)/float64(steps)
				pts = append(pts, Point{X: c.X + r*math.Cos(a), Y: c.Y + r*math.Sin(a)})
			}
		}
	}
	return pts
}

// PolygonArea returns the signed area of a closed polygon (shoelace
// formula); positive for counter-clockwise winding.
func PolygonArea(pts []Point) float64 {
	if len(pts) < 3 {
		return 0
	}
	sum := 0.0
	n := len(pts)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += pts[i].X*pts[j].Y - pts[j].X*pts[i].Y
	}
	return sum / 2
}

// Inflate offsets a closed, simple polygon outward (positive delta) or
// inward (negative) by delta, using a per-vertex normal average. This
// is a simplified offsetting step — it does not self-intersect-clean
// the result — adequate for §4.2.5's "inflating or deflating the
// polygon by half the difference" between a poured copper's stroke
// width and its template's minimum width, where deltas are small
// relative to feature size.
func Inflate(pts []Point, delta float64) []Point {
	n := len(pts)
	if n < 3 || delta == 0 {
		return pts
	}
	out := make([]Point, n)
	for i := 0; i < n; i++ {
		prev := pts[(i-1+n)%n]
		cur := pts[i]
		next := pts[(i+1)%n]

		n1 := normal(prev, cur)
		n2 := normal(cur, next)
		avg := Point{X: (n1.X + n2.X) / 2, Y: (n1.Y + n2.Y) / 2}
		length := math.Hypot(avg.X, avg.Y)
		if length < 1e-12 {
			out[i] = cur
			continue
		}
		avg = Point{X: avg.X / length, Y: avg.Y / length}
		out[i] = Point{X: cur.X + avg.X*delta, Y: cur.Y + avg.Y*delta}
	}
	return out
}

func normal(a, b Point) Point {
	dx, dy := b.X-a.X, b.Y-a.Y
	length := math.Hypot(dx, dy)
	if length < 1e-12 {
		return Point{}
	}
	// Outward normal for a counter-clockwise-wound polygon.
	return Point{X: dy / length, Y: -dx / length}
}

// ClipToConvex intersects a (possibly non-convex, simple) subject
// polygon against a convex clip polygon using Sutherland-Hodgman,
// returning the intersection polygon (empty if disjoint). This is the
// primitive §4.2.6's zone-priority overlap-area computation and
// §4.2.5's poured-copper union/inflate step are built on; CADSTAR
// zone outlines are not guaranteed convex, so callers needing a fully
// general polygon boolean (concave-vs-concave) must pre-decompose one
// side into convex pieces and sum per-piece areas, which is what
// cadstarimport's overlapArea helper does.
func ClipToConvex(subject, clip []Point) []Point {
	if len(subject) == 0 || len(clip) < 3 {
		return nil
	}
	output := subject
	n := len(clip)
	for i := 0; i < n; i++ {
		a, b := clip[i], clip[(i+1)%n]
		input := output
		output = nil
		if len(input) == 0 {
			break
		}
		for j := 0; j < len(input); j++ {
			cur := input[j]
			prev := input[(j-1+len(input))%len(input)]
			curIn := isInside(a, b, cur)
			prevIn := isInside(a, b, prev)
			if curIn {
				if !prevIn {
					output = append(output, segmentIntersect(prev, cur, a, b))
				}
				output = append(output, cur)
			} else if prevIn {
				output = append(output, segmentIntersect(prev, cur, a, b))
			}
		}
	}
	return output
}

func isInside(a, b, p Point) bool {
	return (b.X-a.X)*(p.Y-a.Y)-(b.Y-a.Y)*(p.X-a.X) >= 0
}

func segmentIntersect(p1, p2, a, b Point) Point {
	a1 := b.Y - a.Y
	b1 := a.X - b.X
	c1 := a1*a.X + b1*a.Y

	a2 := p2.Y - p1.Y
	b2 := p1.X - p2.X
	c2 := a2*p1.X + b2*p1.Y

	det := a1*b2 - a2*b1
	if math.Abs(det) < 1e-12 {
		return p2
	}
	return Point{X: (b2*c1 - b1*c2) / det, Y: (a1*c2 - a2*c1) / det}
}
