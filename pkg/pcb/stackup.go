package pcb

import "github.com/kicad-go/eda-importers/pkg/sexp"

// parseLayers reads the board's (layers (0 "F.Cu" signal) ...)
// declaration into a LayerMap.
func parseLayers(n *sexp.Node) *LayerMap {
	var layers []Layer
	for _, c := range n.Children[1:] {
		if c.Kind != sexp.KindList {
			continue
		}
		num, err := sexp.GetInt(c, 0)
		if err != nil {
			continue
		}
		name, err := sexp.GetString(c, 1)
		if err != nil {
			continue
		}
		typ, _ := sexp.GetString(c, 2)
		l := Layer{Number: num, Name: name, Type: typ}
		if user, err := sexp.GetString(c, 3); err == nil {
			l.User = user
		}
		layers = append(layers, l)
	}
	return NewLayerMap(layers)
}

// parseNets reads every (net n "name") declaration.
func parseNets(root *sexp.Node) *NetMap {
	var nets []Net
	for _, n := range sexp.FindAllNodes(root, "net") {
		num, err := sexp.GetInt(n, 1)
		if err != nil {
			continue
		}
		name, _ := sexp.GetString(n, 2)
		nets = append(nets, Net{Number: num, Name: name})
	}
	return NewNetMap(nets)
}

// parseSetup reads the board's (setup ...) block: design rules and
// stackup-adjacent settings §4.2's step 4 (design rules) populates
// from CADSTAR spacing codes when importing, and that a native
// .kicad_pcb file carries directly.
func parseSetup(root *sexp.Node) Setup {
	var s Setup
	setup, ok := sexp.FindNode(root, "setup")
	if !ok {
		return s
	}
	if v, ok := sexp.FindNode(setup, "trace_clearance"); ok {
		s.TraceClearance, _ = sexp.GetFloat(v, 1)
	}
	if v, ok := sexp.FindNode(setup, "trace_min_width"); ok {
		s.TraceMinWidth, _ = sexp.GetFloat(v, 1)
	}
	if v, ok := sexp.FindNode(setup, "via_min_annulus"); ok {
		s.ViaMinAnnulus, _ = sexp.GetFloat(v, 1)
	}
	if v, ok := sexp.FindNode(setup, "via_min_size"); ok {
		s.ViaMinSize, _ = sexp.GetFloat(v, 1)
	}
	if v, ok := sexp.FindNode(setup, "via_min_drill"); ok {
		s.ViaMinDrill, _ = sexp.GetFloat(v, 1)
	}
	if v, ok := sexp.FindNode(setup, "copper_finish"); ok {
		s.CopperFinish, _ = sexp.GetString(v, 1)
	}
	if v, ok := sexp.FindNode(setup, "board_thickness"); ok {
		s.BoardThickness, _ = sexp.GetFloat(v, 1)
	}
	return s
}

// parseStackup reads the (setup (stackup (layer "F.Cu" (type
// "copper") (thickness t)) ...)) physical stackup, the data a native
// file carries directly and that §4.2.1's construction algorithm
// otherwise derives from the CADSTAR archive.
func parseStackup(root *sexp.Node) []StackupLayer {
	setup, ok := sexp.FindNode(root, "setup")
	if !ok {
		return nil
	}
	stk, ok := sexp.FindNode(setup, "stackup")
	if !ok {
		return nil
	}
	var out []StackupLayer
	for _, l := range sexp.FindAllNodes(stk, "layer") {
		sl := StackupLayer{}
		sl.Name, _ = sexp.GetString(l, 1)
		if t, ok := sexp.FindNode(l, "type"); ok {
			sl.Type, _ = sexp.GetString(t, 1)
		}
		if th, ok := sexp.FindNode(l, "thickness"); ok {
			sl.Thickness, _ = sexp.GetFloat(th, 1)
		}
		if m, ok := sexp.FindNode(l, "material"); ok {
			sl.Material, _ = sexp.GetString(m, 1)
		}
		if e, ok := sexp.FindNode(l, "epsilon_r"); ok {
			sl.EpsilonR, _ = sexp.GetFloat(e, 1)
		}
		if lt, ok := sexp.FindNode(l, "loss_tangent"); ok {
			sl.LossTangent, _ = sexp.GetFloat(lt, 1)
		}
		out = append(out, sl)
	}
	return out
}

// parseGeneral reads the board's (general (thickness t) ...) block.
func parseGeneral(root *sexp.Node) General {
	var g General
	gn, ok := sexp.FindNode(root, "general")
	if !ok {
		return g
	}
	if th, ok := sexp.FindNode(gn, "thickness"); ok {
		g.Thickness, _ = sexp.GetFloat(th, 1)
	}
	g.LegacyTeardrops = sexp.HasSymbol(gn, "legacy_teardrops")
	return g
}
