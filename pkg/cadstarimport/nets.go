package cadstarimport

import (
	"github.com/kicad-go/eda-importers/pkg/cadstar"
	"github.com/kicad-go/eda-importers/pkg/geom"
	"github.com/kicad-go/eda-importers/pkg/pcb"
)

// loadNetTracks converts every routed connection's vertex chain into
// straight/arc tracks on the connection's layer (§4.2 step 14,
// §4.2.7); unrouted connections carry no geometry and are skipped.
func (c *importCtx) loadNetTracks() {
	for _, id := range sortedKeys(c.a.Layout.Nets) {
		n := c.a.Layout.Nets[id]
		net, hasNet := c.nets[id], true
		for _, conn := range n.Connections {
			if conn.Unrouted {
				continue
			}
			layer := c.layers.get(conn.Route.LayerID)

			verts := make([]geom.Vertex, 0, len(conn.Route.RouteVertices)+1)
			verts = append(verts, geom.Vertex{Point: toGeomPoint(conn.Route.StartPoint), Edge: geom.EdgeStraight})
			var width float64
			for _, rv := range conn.Route.RouteVertices {
				verts = append(verts, toGeomVertex(rv.Vertex))
				if rv.RouteWidth != 0 {
					width = toMM(rv.RouteWidth)
				}
			}

			tracks := segmentsToTracks(geom.VerticesToSegments(verts, false), layer, width, net, hasNet)
			for i := range tracks {
				tracks[i].UUID = c.alloc.New()
			}
			c.board.Tracks = append(c.board.Tracks, tracks...)
		}
	}
}

// loadNetVia places one via per NET_VIA, deriving through/blind-buried/
// micro classification from the physical layer span its layer pair
// resolves to.
func (c *importCtx) loadNetVias() {
	for _, id := range sortedKeys(c.a.Layout.Nets) {
		n := c.a.Layout.Nets[id]
		net := c.nets[id]
		for _, viaKey := range sortedKeys(n.Vias) {
			v := n.Vias[viaKey]
			vc, ok := c.a.Codes.Viacodes[v.ViaCodeID]
			if !ok {
				continue
			}
			kind, layers := c.viaTypeAndLayers(v.LayerPairID)
			c.board.Vias = append(c.board.Vias, pcb.Via{
				UUID:     c.alloc.New(),
				Position: toPcbPosition(toGeomPoint(v.Location)),
				Size:     toMM(vc.Shape.Size),
				Drill:    toMM(vc.DrillDiameter),
				Layers:   layers,
				Type:     kind,
				Net:      net,
				HasNet:   true,
			})
		}
	}
}

// viaTypeAndLayers classifies a via by its layer pair's physical span:
// spanning the whole board is "through", touching only one surface is
// "blind_buried" (or "micro" when it spans a single physical layer
// pair), per §4.2.7.
func (c *importCtx) viaTypeAndLayers(pairID cadstar.LayerPairID) (string, [2]string) {
	lp, ok := c.a.Codes.LayerPairs[pairID]
	if !ok {
		return "through", [2]string{"F.Cu", "B.Cu"}
	}
	start := c.physicalLayerName(lp.PhysicalLayerStart)
	end := c.physicalLayerName(lp.PhysicalLayerEnd)
	total := c.a.Assignments.Technology.MaxPhysicalLayer

	switch {
	case lp.PhysicalLayerStart <= 1 && lp.PhysicalLayerEnd >= total:
		return "through", [2]string{start, end}
	case absInt(lp.PhysicalLayerEnd-lp.PhysicalLayerStart) == 1:
		return "micro", [2]string{start, end}
	default:
		return "blind_buried", [2]string{start, end}
	}
}

func (c *importCtx) physicalLayerName(physicalLayer int) string {
	idx := physicalLayer - 1
	if idx < 0 || idx >= len(c.copperOrder) {
		return "F.Cu"
	}
	id := c.copperOrder[idx]
	if id == "" {
		return inLayerName(idx)
	}
	return c.layers.get(id)
}

// assignPinNets binds each net's declared pin memberships to the
// matching footprint's pad, looking the pad up by its 1-based sequence
// number exactly as the part-pin/pad ordering established in
// loadComponentLibrary and loadComponents guarantees.
func (c *importCtx) assignPinNets() {
	for _, id := range sortedKeys(c.a.Layout.Nets) {
		n := c.a.Layout.Nets[id]
		net := c.nets[id]
		for _, pinKey := range sortedKeys(n.Pins) {
			pin := n.Pins[pinKey]
			fpIdx, ok := c.componentFootprint[pin.ComponentID]
			if !ok {
				continue
			}
			padIdx := int(pin.PadID) - 1
			pads := c.board.Footprints[fpIdx].Pads
			if padIdx < 0 || padIdx >= len(pads) {
				continue
			}
			pads[padIdx].Net = net
			pads[padIdx].HasNet = true
		}
	}
}
