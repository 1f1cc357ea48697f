package geom

import (
	"fmt"
	"math"
)

// Arc is the normalized three-point representation every on-disk arc
// variant (§4.1 "Arc parsing") is converted to internally.
type Arc struct {
	Start, Mid, End Point
}

// ArcFromThreePoints validates a three-point arc, rejecting collinear
// control points per §8's boundary behavior.
func ArcFromThreePoints(start, mid, end Point) (Arc, error) {
	if Collinear(start, mid, end, 1e-9) {
		return Arc{}, fmt.Errorf("arc control points are collinear")
	}
	return Arc{Start: start, Mid: mid, End: end}, nil
}

// ArcFromCenterRadiusAngles reconstructs the legacy
// (start)(end)(radius (at center)(length r)(angles s e)) form into the
// canonical three-point representation, used by §4.1's legacy arc
// parsing path.
func ArcFromCenterRadiusAngles(center Point, radius, startAngleDeg, endAngleDeg float64) Arc {
	start := pointOnCircle(center, radius, startAngleDeg)
	end := pointOnCircle(center, radius, endAngleDeg)
	midAngle := startAngleDeg + angleSpan(startAngleDeg, endAngleDeg)/2
	mid := pointOnCircle(center, radius, midAngle)
	return Arc{Start: start, Mid: mid, End: end}
}

func pointOnCircle(center Point, radius, angleDeg float64) Point {
	rad := angleDeg * math.Pi / 180
	return Point{X: center.X + radius*math.Cos(rad), Y: center.Y + radius*math.Sin(rad)}
}

// angleSpan returns the signed sweep from a to b in (-360, 360).
func angleSpan(a, b float64) float64 {
	d := b - a
	for d > 360 {
		d -= 360
	}
	for d < -360 {
		d += 360
	}
	return d
}

// Center computes the arc's center from its three points (the
// perpendicular-bisector intersection); callers needing the center for
// rendering or for the angle-swap fixup call this rather than storing
// it, since the three-point form is the canonical representation.
func (a Arc) Center() (Point, error) {
	// Intersection of the perpendicular bisectors of (start,mid) and
	// (mid,end).
	ax, ay := a.Start.X, a.Start.Y
	bx, by := a.Mid.X, a.Mid.Y
	cx, cy := a.End.X, a.End.Y

	d := 2 * (ax*(by-cy) + bx*(cy-ay) + cx*(ay-by))
	if math.Abs(d) < 1e-12 {
		return Point{}, fmt.Errorf("degenerate arc: control points collinear")
	}
	ux := ((ax*ax+ay*ay)*(by-cy) + (bx*bx+by*by)*(cy-ay) + (cx*cx+cy*cy)*(ay-by)) / d
	uy := ((ax*ax+ay*ay)*(cx-bx) + (bx*bx+by*by)*(ax-cx) + (cx*cx+cy*cy)*(bx-ax)) / d
	return Point{X: ux, Y: uy}, nil
}

// AngleDegrees returns the arc's subtended angle in (0, 360], measured
// as the sweep from Start through Mid to End.
func (a Arc) AngleDegrees() (float64, error) {
	c, err := a.Center()
	if err != nil {
		return 0, err
	}
	startDeg := toDeg360(math.Atan2(a.Start.Y-c.Y, a.Start.X-c.X))
	midDeg := toDeg360(math.Atan2(a.Mid.Y-c.Y, a.Mid.X-c.X))
	endDeg := toDeg360(math.Atan2(a.End.Y-c.Y, a.End.X-c.X))

	ccwToEnd := norm360(endDeg - startDeg)
	ccwToMid := norm360(midDeg - startDeg)
	if ccwToMid <= ccwToEnd {
		// Mid lies on the counter-clockwise short way from start to
		// end: that is the true sweep direction.
		if ccwToEnd == 0 {
			return 360, nil
		}
		return ccwToEnd, nil
	}
	// Otherwise the arc actually sweeps clockwise; its angle is the
	// complement.
	return 360 - ccwToEnd, nil
}

func toDeg360(rad float64) float64 { return norm360(rad * 180 / math.Pi) }

func norm360(deg float64) float64 {
	for deg < 0 {
		deg += 360
	}
	for deg >= 360 {
		deg -= 360
	}
	return deg
}

// SwapEnds implements the ≤20230121 legacy angle-swap fixup (§4.1,
// §8 scenario 3): when the computed arc angle exceeds 180°, swap start
// and end so the stored arc represents the complementary, non-reflex
// sweep.
func (a Arc) SwapEnds() Arc {
	return Arc{Start: a.End, Mid: a.Mid, End: a.Start}
}
