package pcb

import (
	"fmt"

	"github.com/kicad-go/eda-importers/pkg/sexp"
)

// parseGrLine extracts a (gr_line (start x y) (end x y) (stroke ...)
// (layer "...") (uuid ...)) free-graphics line.
func parseGrLine(n *sexp.Node) (GrLine, error) {
	line := GrLine{Stroke: Stroke{Width: 0.15, Type: "solid"}}
	start, ok := sexp.FindNode(n, "start")
	if !ok {
		return line, fmt.Errorf("gr_line: missing start")
	}
	sp, err := sexp.GetPosition(start)
	if err != nil {
		return line, err
	}
	line.Start = sp.Position

	end, ok := sexp.FindNode(n, "end")
	if !ok {
		return line, fmt.Errorf("gr_line: missing end")
	}
	ep, err := sexp.GetPosition(end)
	if err != nil {
		return line, err
	}
	line.End = ep.Position

	if s, ok := sexp.FindNode(n, "stroke"); ok {
		line.Stroke = sexp.GetStroke(s)
	}
	layer, err := layerOf(n, "gr_line")
	if err != nil {
		return line, err
	}
	line.Layer = layer
	line.UUID, _ = sexp.GetUUID(n)
	return line, nil
}

func parseGrCircle(n *sexp.Node) (GrCircle, error) {
	c := GrCircle{Stroke: Stroke{Width: 0.15, Type: "solid"}, Fill: Fill{Type: "none"}}
	center, ok := sexp.FindNode(n, "center")
	if !ok {
		return c, fmt.Errorf("gr_circle: missing center")
	}
	cp, err := sexp.GetPosition(center)
	if err != nil {
		return c, err
	}
	c.Center = cp.Position

	end, ok := sexp.FindNode(n, "end")
	if !ok {
		return c, fmt.Errorf("gr_circle: missing end")
	}
	ep, err := sexp.GetPosition(end)
	if err != nil {
		return c, err
	}
	c.End = ep.Position

	if s, ok := sexp.FindNode(n, "stroke"); ok {
		c.Stroke = sexp.GetStroke(s)
	}
	if f, ok := sexp.FindNode(n, "fill"); ok {
		c.Fill = sexp.GetFill(f)
	}
	layer, err := layerOf(n, "gr_circle")
	if err != nil {
		return c, err
	}
	c.Layer = layer
	c.UUID, _ = sexp.GetUUID(n)
	return c, nil
}

func parseGrArc(n *sexp.Node) (GrArc, error) {
	a := GrArc{Stroke: Stroke{Width: 0.15, Type: "solid"}}
	for _, field := range []struct {
		name string
		dst  *Position
	}{{"start", &a.Start}, {"mid", &a.Mid}, {"end", &a.End}} {
		fn, ok := sexp.FindNode(n, field.name)
		if !ok {
			return a, fmt.Errorf("gr_arc: missing %s", field.name)
		}
		p, err := sexp.GetPosition(fn)
		if err != nil {
			return a, err
		}
		*field.dst = p.Position
	}
	if s, ok := sexp.FindNode(n, "stroke"); ok {
		a.Stroke = sexp.GetStroke(s)
	}
	layer, err := layerOf(n, "gr_arc")
	if err != nil {
		return a, err
	}
	a.Layer = layer
	a.UUID, _ = sexp.GetUUID(n)
	return a, nil
}

func parseGrRect(n *sexp.Node) (GrRect, error) {
	r := GrRect{Stroke: Stroke{Width: 0.15, Type: "solid"}, Fill: Fill{Type: "none"}}
	start, ok := sexp.FindNode(n, "start")
	if !ok {
		return r, fmt.Errorf("gr_rect: missing start")
	}
	sp, err := sexp.GetPosition(start)
	if err != nil {
		return r, err
	}
	r.Start = sp.Position

	end, ok := sexp.FindNode(n, "end")
	if !ok {
		return r, fmt.Errorf("gr_rect: missing end")
	}
	ep, err := sexp.GetPosition(end)
	if err != nil {
		return r, err
	}
	r.End = ep.Position

	if s, ok := sexp.FindNode(n, "stroke"); ok {
		r.Stroke = sexp.GetStroke(s)
	}
	if f, ok := sexp.FindNode(n, "fill"); ok {
		r.Fill = sexp.GetFill(f)
	}
	layer, err := layerOf(n, "gr_rect")
	if err != nil {
		return r, err
	}
	r.Layer = layer
	r.UUID, _ = sexp.GetUUID(n)
	return r, nil
}

func parseGrPoly(n *sexp.Node) (GrPoly, error) {
	poly := GrPoly{Stroke: Stroke{Width: 0.15, Type: "solid"}, Fill: Fill{Type: "none"}}
	pts, ok := sexp.FindNode(n, "pts")
	if !ok {
		return poly, fmt.Errorf("gr_poly: missing pts")
	}
	xys := sexp.FindAllNodes(pts, "xy")
	if len(xys) == 0 {
		return poly, fmt.Errorf("gr_poly: no points")
	}
	for _, xy := range xys {
		x, err := sexp.GetFloat(xy, 1)
		if err != nil {
			return poly, err
		}
		y, err := sexp.GetFloat(xy, 2)
		if err != nil {
			return poly, err
		}
		poly.Points = append(poly.Points, Position{X: x, Y: y})
	}
	if s, ok := sexp.FindNode(n, "stroke"); ok {
		poly.Stroke = sexp.GetStroke(s)
	}
	if f, ok := sexp.FindNode(n, "fill"); ok {
		poly.Fill = sexp.GetFill(f)
	}
	layer, err := layerOf(n, "gr_poly")
	if err != nil {
		return poly, err
	}
	poly.Layer = layer
	poly.UUID, _ = sexp.GetUUID(n)
	return poly, nil
}

func parseGrText(n *sexp.Node) (GrText, error) {
	t := GrText{Size: Size{Width: 1.0, Height: 1.0}, Thickness: 0.15}
	text, err := sexp.GetString(n, 1)
	if err != nil {
		return t, fmt.Errorf("gr_text: %w", err)
	}
	t.Text = text

	at, ok := sexp.FindNode(n, "at")
	if !ok {
		return t, fmt.Errorf("gr_text: missing at")
	}
	pa, err := sexp.GetPosition(at)
	if err != nil {
		return t, err
	}
	t.Position = pa.Position
	t.Angle = pa.Angle

	layer, err := layerOf(n, "gr_text")
	if err != nil {
		return t, err
	}
	t.Layer = layer

	if eff, ok := sexp.FindNode(n, "effects"); ok {
		font := sexp.GetFont(eff)
		t.Size = font.Size
		t.Thickness = font.Thickness
		t.Bold = font.Bold
		t.Italic = font.Italic
		j := sexp.GetJustify(eff)
		t.Justify = justifyString(j)
	}
	t.UUID, _ = sexp.GetUUID(n)
	return t, nil
}

func justifyString(j Justify) string {
	s := ""
	if j.Horizontal != "" && j.Horizontal != "center" {
		s += j.Horizontal
	}
	if j.Vertical != "" && j.Vertical != "center" {
		if s != "" {
			s += " "
		}
		s += j.Vertical
	}
	if j.Mirror {
		if s != "" {
			s += " "
		}
		s += "mirror"
	}
	return s
}

// layerOf reads a (layer "name") child, erroring with tagName in the
// message for callers sharing this helper across several productions.
func layerOf(n *sexp.Node, tagName string) (string, error) {
	ln, ok := sexp.FindNode(n, "layer")
	if !ok {
		return "", fmt.Errorf("%s: missing layer", tagName)
	}
	return sexp.GetString(ln, 1)
}

// parseDimension extracts a (dimension ...) node — the SPEC_FULL
// "dimensions" supplement the donor board model lacked entirely.
func parseDimension(n *sexp.Node) (Dimension, error) {
	d := Dimension{Type: "aligned"}
	if typ, err := sexp.GetString(n, 1); err == nil {
		d.Type = typ
	}
	if layer, ok := sexp.FindNode(n, "layer"); ok {
		if l, err := sexp.GetString(layer, 1); err == nil {
			d.Layer = l
		}
	}
	if pts, ok := sexp.FindNode(n, "pts"); ok {
		xys := sexp.FindAllNodes(pts, "xy")
		if len(xys) >= 1 {
			x, _ := sexp.GetFloat(xys[0], 1)
			y, _ := sexp.GetFloat(xys[0], 2)
			d.Start = Position{X: x, Y: y}
		}
		if len(xys) >= 2 {
			x, _ := sexp.GetFloat(xys[1], 1)
			y, _ := sexp.GetFloat(xys[1], 2)
			d.End = Position{X: x, Y: y}
		}
	}
	if h, ok := sexp.FindNode(n, "height"); ok {
		d.Height, _ = sexp.GetFloat(h, 1)
	}
	if s, ok := sexp.FindNode(n, "style"); ok {
		if thick, ok := sexp.FindNode(s, "thickness"); ok {
			d.Stroke.Width, _ = sexp.GetFloat(thick, 1)
		}
	}
	if gr, ok := sexp.FindNode(n, "gr_text"); ok {
		t, err := parseGrText(gr)
		if err == nil {
			d.Text = t
		}
	}
	d.UUID, _ = sexp.GetUUID(n)
	return d, nil
}

// parseGraphics collects every free-graphics shape at this nesting
// level (board root or a documentation-symbol block).
func parseGraphics(root *sexp.Node) Graphics {
	var g Graphics
	for _, n := range sexp.FindAllNodes(root, "gr_line") {
		if l, err := parseGrLine(n); err == nil {
			g.Lines = append(g.Lines, l)
		}
	}
	for _, n := range sexp.FindAllNodes(root, "gr_circle") {
		if c, err := parseGrCircle(n); err == nil {
			g.Circles = append(g.Circles, c)
		}
	}
	for _, n := range sexp.FindAllNodes(root, "gr_arc") {
		if a, err := parseGrArc(n); err == nil {
			g.Arcs = append(g.Arcs, a)
		}
	}
	for _, n := range sexp.FindAllNodes(root, "gr_rect") {
		if r, err := parseGrRect(n); err == nil {
			g.Rects = append(g.Rects, r)
		}
	}
	for _, n := range sexp.FindAllNodes(root, "gr_poly") {
		if p, err := parseGrPoly(n); err == nil {
			g.Polys = append(g.Polys, p)
		}
	}
	for _, n := range sexp.FindAllNodes(root, "gr_text") {
		if t, err := parseGrText(n); err == nil {
			g.Texts = append(g.Texts, t)
		}
	}
	return g
}
