package cadstarimport

import (
	"math"
	"sort"

	"github.com/kicad-go/eda-importers/pkg/geom"
	"github.com/kicad-go/eda-importers/pkg/pcb"
)

// calculateZonePriorities derives each same-layer zone pair's
// "winning" overlap (the smaller-area zone fills on top of the
// larger, ties broken by ascending UUID) and topologically sorts the
// resulting relation into fill priorities, per §4.2 step 13 / §4.2.6.
func (c *importCtx) calculateZonePriorities() {
	zones := c.board.Zones
	n := len(zones)
	if n == 0 {
		return
	}

	outlines := make([][]geom.Point, n)
	areas := make([]float64, n)
	byLayer := map[string][]int{}
	for i, z := range zones {
		outlines[i] = positionsToGeomPoints(z.Outline)
		areas[i] = math.Abs(geom.PolygonArea(outlines[i]))
		byLayer[z.Layer] = append(byLayer[z.Layer], i)
	}

	indeg := make([]int, n)
	adj := make([][]int, n)
	for _, idxs := range byLayer {
		for a := 0; a < len(idxs); a++ {
			for b := a + 1; b < len(idxs); b++ {
				i, j := idxs[a], idxs[b]
				if overlapArea(outlines[i], outlines[j]) <= 0 {
					continue
				}
				winner, loser := i, j
				switch {
				case areas[j] < areas[i]:
					winner, loser = j, i
				case areas[j] == areas[i] && zones[j].UUID < zones[i].UUID:
					winner, loser = j, i
				}
				adj[loser] = append(adj[loser], winner)
				indeg[winner]++
			}
		}
	}

	var ready []int
	for i := 0; i < n; i++ {
		if indeg[i] == 0 {
			ready = append(ready, i)
		}
	}
	var order []int
	for len(ready) > 0 {
		sort.Slice(ready, func(a, b int) bool { return zones[ready[a]].UUID < zones[ready[b]].UUID })
		next := ready[0]
		ready = ready[1:]
		order = append(order, next)
		for _, m := range adj[next] {
			indeg[m]--
			if indeg[m] == 0 {
				ready = append(ready, m)
			}
		}
	}

	for priority, idx := range order {
		zones[idx].Priority = priority
	}
}

func positionsToGeomPoints(pts []pcb.Position) []geom.Point {
	out := make([]geom.Point, len(pts))
	for i, p := range pts {
		out[i] = geom.Point{X: p.X, Y: p.Y}
	}
	return out
}

// overlapArea computes the intersection area of two simple (possibly
// non-convex) polygons by fan-triangulating a from its centroid into
// convex wedges and clipping b against each wedge with
// geom.ClipToConvex, summing the unsigned result — the decomposition
// geom.ClipToConvex's own doc comment anticipates for exactly this
// caller.
func overlapArea(a, b []geom.Point) float64 {
	if len(a) < 3 || len(b) < 3 {
		return 0
	}
	var centroid geom.Point
	for _, p := range a {
		centroid.X += p.X
		centroid.Y += p.Y
	}
	centroid.X /= float64(len(a))
	centroid.Y /= float64(len(a))

	var total float64
	n := len(a)
	for i := 0; i < n; i++ {
		wedge := []geom.Point{centroid, a[i], a[(i+1)%n]}
		clipped := geom.ClipToConvex(b, wedge)
		total += math.Abs(geom.PolygonArea(clipped))
	}
	return total
}
