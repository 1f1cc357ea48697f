package pcb

import (
	"fmt"
	"strings"

	"github.com/kicad-go/eda-importers/pkg/sexp"
)

// parsePad extracts a (pad "number" type shape (at x y [angle])
// (size w h) (drill ...) (layers ...) (net n "name") ...) definition.
func parsePad(n *sexp.Node, nets *NetMap) (Pad, error) {
	pad := Pad{}

	number, err := sexp.GetString(n, 1)
	if err != nil {
		return pad, fmt.Errorf("pad: missing number: %w", err)
	}
	pad.Number = number

	padType, err := sexp.GetString(n, 2)
	if err != nil {
		return pad, fmt.Errorf("pad %s: missing type: %w", number, err)
	}
	pad.Type = padType

	shape, err := sexp.GetString(n, 3)
	if err != nil {
		return pad, fmt.Errorf("pad %s: missing shape: %w", number, err)
	}
	pad.Shape = shape

	at, ok := sexp.FindNode(n, "at")
	if !ok {
		return pad, fmt.Errorf("pad %s: missing at", number)
	}
	pa, err := sexp.GetPosition(at)
	if err != nil {
		return pad, err
	}
	pad.Position = pa

	size, ok := sexp.FindNode(n, "size")
	if !ok {
		return pad, fmt.Errorf("pad %s: missing size", number)
	}
	w, err := sexp.GetFloat(size, 1)
	if err != nil {
		return pad, err
	}
	h, err := sexp.GetFloat(size, 2)
	if err != nil {
		return pad, err
	}
	pad.Size = Size{Width: w, Height: h}

	if drill, ok := sexp.FindNode(n, "drill"); ok {
		// Either a bare (drill d) or an oblong (drill oval d (offset x y)).
		if v, err := sexp.GetFloat(drill, 1); err == nil {
			pad.Drill = v
		} else if sexp.HasSymbol(drill, "oval") {
			if v, err := sexp.GetFloat(drill, 2); err == nil {
				pad.DrillOval = true
				pad.DrillSize.Width = v
			}
		}
	}

	layers, ok := sexp.FindNode(n, "layers")
	if !ok {
		return pad, fmt.Errorf("pad %s: missing layers", number)
	}
	var layerNames []string
	for _, c := range layers.Children[1:] {
		if c.Kind == sexp.KindAtom {
			layerNames = append(layerNames, c.Text)
		}
	}
	pad.Layers = LayerSet(layerNames)

	if netNode, ok := sexp.FindNode(n, "net"); ok {
		if netNum, err := sexp.GetInt(netNode, 1); err == nil && nets != nil {
			if net, ok := nets.GetByNumber(netNum); ok {
				pad.Net = net
				pad.HasNet = true
			}
		}
	}

	return pad, nil
}

// parseFootprint extracts one (footprint "lib:name" (layer "...")
// (at x y [angle]) (property "Reference" "R1" ...) (pad ...)* ...)
// placement.
func parseFootprint(n *sexp.Node, nets *NetMap) (Footprint, error) {
	fp := Footprint{}

	full, err := sexp.GetString(n, 1)
	if err != nil {
		return fp, fmt.Errorf("footprint: missing name: %w", err)
	}
	if idx := strings.IndexByte(full, ':'); idx > 0 {
		fp.Library = full[:idx]
		fp.Name = full[idx+1:]
	} else {
		fp.Name = full
	}

	layer, ok := sexp.FindNode(n, "layer")
	if !ok {
		return fp, fmt.Errorf("footprint %s: missing layer", fp.Name)
	}
	fp.Layer, err = sexp.GetString(layer, 1)
	if err != nil {
		return fp, err
	}

	at, ok := sexp.FindNode(n, "at")
	if !ok {
		return fp, fmt.Errorf("footprint %s: missing at", fp.Name)
	}
	fp.Position, err = sexp.GetPosition(at)
	if err != nil {
		return fp, err
	}

	fp.Locked = sexp.HasSymbol(n, "locked")
	fp.UUID, _ = sexp.GetUUID(n)

	for _, pn := range sexp.FindAllNodes(n, "property") {
		name, err := sexp.GetString(pn, 1)
		if err != nil {
			continue
		}
		val, err := sexp.GetString(pn, 2)
		if err != nil {
			continue
		}
		switch name {
		case "Reference":
			fp.Reference = val
		case "Value":
			fp.Value = val
		}
	}

	for _, pn := range sexp.FindAllNodes(n, "pad") {
		pad, err := parsePad(pn, nets)
		if err != nil {
			continue
		}
		fp.Pads = append(fp.Pads, pad)
	}

	for _, ln := range sexp.FindAllNodes(n, "fp_line") {
		if l, err := parseGrLine(ln); err == nil {
			fp.Graphics = append(fp.Graphics, Graphic{Type: "line", Layer: l.Layer, Start: l.Start, End: l.End, Stroke: l.Stroke})
		}
	}
	for _, cn := range sexp.FindAllNodes(n, "fp_circle") {
		if c, err := parseGrCircle(cn); err == nil {
			fp.Graphics = append(fp.Graphics, Graphic{Type: "circle", Layer: c.Layer, Center: c.Center, End: c.End, Stroke: c.Stroke, Fill: c.Fill})
		}
	}
	for _, an := range sexp.FindAllNodes(n, "fp_arc") {
		if a, err := parseGrArc(an); err == nil {
			fp.Graphics = append(fp.Graphics, Graphic{Type: "arc", Layer: a.Layer, Start: a.Start, Center: a.Mid, End: a.End, Stroke: a.Stroke})
		}
	}
	for _, rn := range sexp.FindAllNodes(n, "fp_rect") {
		if r, err := parseGrRect(rn); err == nil {
			fp.Graphics = append(fp.Graphics, Graphic{Type: "rect", Layer: r.Layer, Start: r.Start, End: r.End, Stroke: r.Stroke, Fill: r.Fill})
		}
	}
	for _, pn := range sexp.FindAllNodes(n, "fp_poly") {
		if p, err := parseGrPoly(pn); err == nil {
			fp.Graphics = append(fp.Graphics, Graphic{Type: "polygon", Layer: p.Layer, Points: p.Points, Stroke: p.Stroke, Fill: p.Fill})
		}
	}
	for _, tn := range sexp.FindAllNodes(n, "fp_text") {
		// fp_text has an extra leading keyword (reference/value/user)
		// before the text content, unlike gr_text.
		if t, err := parseFpText(tn); err == nil {
			fp.Texts = append(fp.Texts, t)
		}
	}

	return fp, nil
}

func parseFpText(n *sexp.Node) (GrText, error) {
	var t GrText
	if _, err := sexp.GetString(n, 1); err != nil {
		return t, err
	}
	text, err := sexp.GetString(n, 2)
	if err != nil {
		return t, err
	}
	t.Text = text
	if at, ok := sexp.FindNode(n, "at"); ok {
		pa, err := sexp.GetPosition(at)
		if err != nil {
			return t, err
		}
		t.Position = pa.Position
		t.Angle = pa.Angle
	}
	if layer, ok := sexp.FindNode(n, "layer"); ok {
		t.Layer, _ = sexp.GetString(layer, 1)
	}
	if eff, ok := sexp.FindNode(n, "effects"); ok {
		font := sexp.GetFont(eff)
		t.Size = font.Size
		t.Thickness = font.Thickness
		t.Bold = font.Bold
		t.Italic = font.Italic
	}
	t.UUID, _ = sexp.GetUUID(n)
	return t, nil
}

// parseFootprints collects every (footprint ...) placement at the
// board root.
func parseFootprints(root *sexp.Node, nets *NetMap) []Footprint {
	nodes := sexp.FindAllNodes(root, "footprint")
	out := make([]Footprint, 0, len(nodes))
	for _, n := range nodes {
		fp, err := parseFootprint(n, nets)
		if err != nil {
			continue
		}
		out = append(out, fp)
	}
	return out
}
