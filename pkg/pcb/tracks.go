package pcb

import (
	"fmt"

	"github.com/kicad-go/eda-importers/pkg/sexp"
)

// parseSegment extracts a straight (segment (start x y) (end x y)
// (width w) (layer "...") (net n) (uuid ...)) track.
func parseSegment(n *sexp.Node, nets *NetMap) (Track, error) {
	var t Track
	start, ok := sexp.FindNode(n, "start")
	if !ok {
		return t, fmt.Errorf("segment: missing start")
	}
	sp, err := sexp.GetPosition(start)
	if err != nil {
		return t, err
	}
	t.Start = sp.Position

	end, ok := sexp.FindNode(n, "end")
	if !ok {
		return t, fmt.Errorf("segment: missing end")
	}
	ep, err := sexp.GetPosition(end)
	if err != nil {
		return t, err
	}
	t.End = ep.Position

	if w, ok := sexp.FindNode(n, "width"); ok {
		t.Width, _ = sexp.GetFloat(w, 1)
	}
	if l, ok := sexp.FindNode(n, "layer"); ok {
		t.Layer, _ = sexp.GetString(l, 1)
	}
	assignNet(&t.Net, &t.HasNet, n, nets)
	t.UUID, _ = sexp.GetUUID(n)
	return t, nil
}

// parseArcTrack extracts a curved (arc (start x y) (mid x y) (end x y)
// (width w) (layer "...") (net n) (uuid ...)) track segment, per
// §3's "tracks (straight and arc)".
func parseArcTrack(n *sexp.Node, nets *NetMap) (Track, error) {
	var t Track
	t.IsArc = true
	for _, field := range []struct {
		name string
		dst  *Position
	}{{"start", &t.Start}, {"mid", &t.Mid}, {"end", &t.End}} {
		fn, ok := sexp.FindNode(n, field.name)
		if !ok {
			return t, fmt.Errorf("arc track: missing %s", field.name)
		}
		p, err := sexp.GetPosition(fn)
		if err != nil {
			return t, err
		}
		*field.dst = p.Position
	}
	if w, ok := sexp.FindNode(n, "width"); ok {
		t.Width, _ = sexp.GetFloat(w, 1)
	}
	if l, ok := sexp.FindNode(n, "layer"); ok {
		t.Layer, _ = sexp.GetString(l, 1)
	}
	assignNet(&t.Net, &t.HasNet, n, nets)
	t.UUID, _ = sexp.GetUUID(n)
	return t, nil
}

// parseVia extracts a (via [kind] (at x y) (size d) (drill d)
// (layers a b) (net n) (uuid ...)) through/blind-buried/microvia.
// The via "kind" keyword (blind, micro) is read positionally per the
// file format; an unadorned via is "through" per §4.2.7.
func parseVia(n *sexp.Node, nets *NetMap) (Via, error) {
	v := Via{Type: "through"}
	if sexp.HasSymbol(n, "blind") {
		v.Type = "blind_buried"
	} else if sexp.HasSymbol(n, "micro") {
		v.Type = "micro"
	}

	at, ok := sexp.FindNode(n, "at")
	if !ok {
		return v, fmt.Errorf("via: missing at")
	}
	pa, err := sexp.GetPosition(at)
	if err != nil {
		return v, err
	}
	v.Position = pa.Position

	if sz, ok := sexp.FindNode(n, "size"); ok {
		v.Size, _ = sexp.GetFloat(sz, 1)
	}
	if dr, ok := sexp.FindNode(n, "drill"); ok {
		v.Drill, _ = sexp.GetFloat(dr, 1)
	}
	if layers, ok := sexp.FindNode(n, "layers"); ok {
		if a, err := sexp.GetString(layers, 1); err == nil {
			v.Layers[0] = a
		}
		if b, err := sexp.GetString(layers, 2); err == nil {
			v.Layers[1] = b
		}
	}
	assignNet(&v.Net, &v.HasNet, n, nets)
	v.UUID, _ = sexp.GetUUID(n)
	return v, nil
}

// parseZone extracts a (zone (net n) (net_name "...") (layer "...")
// (hatch ...) (priority p) (connect_pads ...) (min_thickness t)
// (filled_areas_thickness bool) (keepout ...) (fill ...) (polygon
// (pts ...)) (filled_polygon (layer "...") (pts ...))*) copper zone.
func parseZone(n *sexp.Node, nets *NetMap) (Zone, error) {
	z := Zone{FilledPolys: map[string][]Position{}}
	assignNet(&z.Net, &z.HasNet, n, nets)

	if nn, ok := sexp.FindNode(n, "net_name"); ok {
		z.Name, _ = sexp.GetString(nn, 1)
	}
	if l, ok := sexp.FindNode(n, "layer"); ok {
		z.Layer, _ = sexp.GetString(l, 1)
	} else if ls, ok := sexp.FindNode(n, "layers"); ok {
		if l0, err := sexp.GetString(ls, 1); err == nil {
			z.Layer = l0
		}
	}
	if p, ok := sexp.FindNode(n, "priority"); ok {
		z.Priority, _ = sexp.GetInt(p, 1)
	}
	if h, ok := sexp.FindNode(n, "hatch"); ok {
		if mode, err := sexp.GetString(h, 1); err == nil {
			z.FillMode = mode
		}
	} else {
		z.FillMode = "solid"
	}
	if mw, ok := sexp.FindNode(n, "min_thickness"); ok {
		z.MinWidth, _ = sexp.GetFloat(mw, 1)
	}
	if ko, ok := sexp.FindNode(n, "keepout"); ok {
		z.IsRuleArea = true
		z.KeepoutCopper = keepoutAllows(ko, "copperpour")
		z.KeepoutTracks = keepoutAllows(ko, "tracks")
		z.KeepoutVias = keepoutAllows(ko, "vias")
	}
	if poly, ok := sexp.FindNode(n, "polygon"); ok {
		if pts, ok := sexp.FindNode(poly, "pts"); ok {
			z.Outline = readXYPoints(pts)
		}
	}
	for _, fp := range sexp.FindAllNodes(n, "filled_polygon") {
		layer := z.Layer
		if l, ok := sexp.FindNode(fp, "layer"); ok {
			if v, err := sexp.GetString(l, 1); err == nil {
				layer = v
			}
		}
		if pts, ok := sexp.FindNode(fp, "pts"); ok {
			z.FilledPolys[layer] = append(z.FilledPolys[layer], readXYPoints(pts)...)
		}
	}
	z.UUID, _ = sexp.GetUUID(n)
	return z, nil
}

// keepoutAllows reads a (keepout (copperpour allowed|not_allowed) ...)
// sub-field, returning true ("keeps out", i.e. not allowed) when the
// field is absent or explicitly disallowed.
func keepoutAllows(ko *sexp.Node, field string) bool {
	fn, ok := sexp.FindNode(ko, field)
	if !ok {
		return false
	}
	v, err := sexp.GetString(fn, 1)
	return err == nil && v == "not_allowed"
}

func readXYPoints(pts *sexp.Node) []Position {
	var out []Position
	for _, xy := range sexp.FindAllNodes(pts, "xy") {
		x, errX := sexp.GetFloat(xy, 1)
		y, errY := sexp.GetFloat(xy, 2)
		if errX == nil && errY == nil {
			out = append(out, Position{X: x, Y: y})
		}
	}
	return out
}

func assignNet(dst *Net, hasNet *bool, n *sexp.Node, nets *NetMap) {
	netNode, ok := sexp.FindNode(n, "net")
	if !ok || nets == nil {
		return
	}
	num, err := sexp.GetInt(netNode, 1)
	if err != nil {
		return
	}
	if net, ok := nets.GetByNumber(num); ok {
		*dst = net
		*hasNet = true
	}
}

// parseGroupRef stages a (group "name" (id uuid) (members uuid...))
// reference for two-pass resolution, the PCB-side analogue of §4.1's
// group handling.
func parseGroupRef(n *sexp.Node) groupRef {
	var g groupRef
	g.name, _ = sexp.GetString(n, 1)
	if id, ok := sexp.FindNode(n, "id"); ok {
		g.uuid, _ = sexp.GetString(id, 1)
	}
	if mem, ok := sexp.FindNode(n, "members"); ok {
		for _, c := range mem.Children[1:] {
			if c.Kind == sexp.KindAtom {
				g.members = append(g.members, c.Text)
			}
		}
	}
	return g
}

// resolveGroups instantiates every staged groupRef and links member
// UUIDs against the board, silently dropping unresolvable members and
// rejecting cyclic membership — identical structure to
// pkg/schematic.resolveGroups.
func (b *Board) resolveGroups() {
	byUUID := make(map[string]*Group, len(b.groupRefs))
	for _, ref := range b.groupRefs {
		g := &Group{UUID: ref.uuid, Name: ref.name, Members: ref.members}
		byUUID[ref.uuid] = g
		b.Groups = append(b.Groups, g)
	}
	visited := make(map[string]bool)
	var checkCycle func(uuid string, stack map[string]bool) bool
	checkCycle = func(uuid string, stack map[string]bool) bool {
		if stack[uuid] {
			return true
		}
		if visited[uuid] {
			return false
		}
		visited[uuid] = true
		stack[uuid] = true
		g, ok := byUUID[uuid]
		if ok {
			for _, m := range g.Members {
				if _, isGroup := byUUID[m]; isGroup && checkCycle(m, stack) {
					return true
				}
			}
		}
		delete(stack, uuid)
		return false
	}

	var kept []*Group
	for _, g := range b.Groups {
		if checkCycle(g.UUID, map[string]bool{}) {
			continue
		}
		var members []string
		for _, m := range g.Members {
			if _, isGroup := byUUID[m]; isGroup {
				members = append(members, m)
				continue
			}
			if _, ok := b.ResolveMember(m); ok {
				members = append(members, m)
			}
		}
		g.Members = members
		kept = append(kept, g)
	}
	b.Groups = kept
}
