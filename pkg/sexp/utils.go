package sexp

import (
	"fmt"
	"strconv"
)

// FindNode returns the first direct child list whose tag matches name.
func FindNode(n *Node, name string) (*Node, bool) {
	if n == nil || n.Kind != KindList {
		return nil, false
	}
	for _, c := range n.Children {
		if c.Kind == KindList && c.Tag() == name {
			return c, true
		}
	}
	return nil, false
}

// FindAllNodes returns every direct child list whose tag matches name,
// in document order.
func FindAllNodes(n *Node, name string) []*Node {
	if n == nil || n.Kind != KindList {
		return nil
	}
	var out []*Node
	for _, c := range n.Children {
		if c.Kind == KindList && c.Tag() == name {
			out = append(out, c)
		}
	}
	return out
}

// HasSymbol reports whether n is a list whose i-th item is an atom
// equal to sym (used for bare boolean keyword flags like `power` or
// `locked`, and for the bare `hide` keyword handled in §4.1).
func HasSymbol(n *Node, sym string) bool {
	if n == nil || n.Kind != KindList {
		return false
	}
	for _, c := range n.Children {
		if c.Kind == KindAtom && c.Text == sym {
			return true
		}
	}
	return false
}

// GetString returns the text of the i-th item of n, erroring if it is
// missing or a list.
func GetString(n *Node, i int) (string, error) {
	item := n.Item(i)
	if item == nil {
		return "", fmt.Errorf("missing item %d in %q", i, n.Tag())
	}
	if item.Kind != KindAtom {
		return "", fmt.Errorf("item %d in %q is a list, expected atom", i, n.Tag())
	}
	return item.Text, nil
}

// GetSymbol is an alias of GetString kept for readability at call
// sites that are pulling a bare symbol rather than a quoted string.
func GetSymbol(n *Node, i int) (string, error) { return GetString(n, i) }

// GetQuotedString behaves like GetString; quote-stripping already
// happened in the reader, so this exists purely so callers that
// historically expected a separately-quoted token keep their name.
func GetQuotedString(n *Node, i int) (string, error) { return GetString(n, i) }

func GetFloat(n *Node, i int) (float64, error) {
	s, err := GetString(n, i)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("item %d in %q: not a number: %w", i, n.Tag(), err)
	}
	return v, nil
}

func GetInt(n *Node, i int) (int, error) {
	s, err := GetString(n, i)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("item %d in %q: not an integer: %w", i, n.Tag(), err)
	}
	return int(v), nil
}

func GetNodeName(n *Node) string { return n.Tag() }

func GetUUID(n *Node) (string, bool) {
	u, ok := FindNode(n, "uuid")
	if !ok {
		return "", false
	}
	s, err := GetString(u, 1)
	if err != nil {
		return "", false
	}
	return s, true
}

// GetPosition reads an (at x y [angle]) or (start x y) style node,
// returning coordinates already in millimetres (the file format's
// native unit; callers scale to internal integer units themselves,
// per §6's overflow-clamp rule).
func GetPosition(n *Node) (PositionAngle, error) {
	x, err := GetFloat(n, 1)
	if err != nil {
		return PositionAngle{}, err
	}
	y, err := GetFloat(n, 2)
	if err != nil {
		return PositionAngle{}, err
	}
	pa := PositionAngle{Position: Position{X: x, Y: y}}
	if a, err := GetFloat(n, 3); err == nil {
		pa.Angle = Angle(a)
	}
	return pa, nil
}

func GetAngle(n *Node, i int) (Angle, error) {
	v, err := GetFloat(n, i)
	if err != nil {
		return 0, err
	}
	return Angle(v), nil
}

func GetColor(n *Node) (Color, error) {
	r, err := GetFloat(n, 1)
	if err != nil {
		return Color{}, err
	}
	g, err := GetFloat(n, 2)
	if err != nil {
		return Color{}, err
	}
	b, err := GetFloat(n, 3)
	if err != nil {
		return Color{}, err
	}
	a := 1.0
	if v, err := GetFloat(n, 4); err == nil {
		a = v
	}
	if r > 1 || g > 1 || b > 1 {
		r, g, b = r/255, g/255, b/255
	}
	return Color{R: r, G: g, B: b, A: a}, nil
}

// GetStroke reads a (stroke (width w) (type t) (color ...)) node,
// defaulting width/type/color the way the file format does when a
// sub-field is absent.
func GetStroke(n *Node) Stroke {
	s := Stroke{Width: 0.15, Type: "solid", Color: Color{R: 1, G: 1, B: 1, A: 1}}
	if n == nil {
		return s
	}
	if w, ok := FindNode(n, "width"); ok {
		if v, err := GetFloat(w, 1); err == nil {
			s.Width = v
		}
	}
	if t, ok := FindNode(n, "type"); ok {
		if v, err := GetString(t, 1); err == nil {
			s.Type = v
		}
	}
	if c, ok := FindNode(n, "color"); ok {
		if v, err := GetColor(c); err == nil {
			s.Color = v
		}
	}
	return s
}

// GetFill reads a (fill (type t) (color ...)) node.
func GetFill(n *Node) Fill {
	f := Fill{Type: "none", Color: Color{R: 0, G: 0, B: 0, A: 1}}
	if n == nil {
		return f
	}
	if t, ok := FindNode(n, "type"); ok {
		if v, err := GetString(t, 1); err == nil {
			f.Type = v
		}
	}
	if c, ok := FindNode(n, "color"); ok {
		if v, err := GetColor(c); err == nil {
			f.Color = v
		}
	}
	return f
}

// GetFont reads an (effects (font (size w h) (thickness t) bold italic) ...) node.
func GetFont(n *Node) Font {
	f := Font{Size: Size{Width: 1.27, Height: 1.27}}
	fontNode, ok := FindNode(n, "font")
	if !ok {
		return f
	}
	if sz, ok := FindNode(fontNode, "size"); ok {
		if w, err := GetFloat(sz, 1); err == nil {
			f.Size.Width = w
		}
		if h, err := GetFloat(sz, 2); err == nil {
			f.Size.Height = h
		}
	}
	if th, ok := FindNode(fontNode, "thickness"); ok {
		if v, err := GetFloat(th, 1); err == nil {
			f.Thickness = v
		}
	}
	if fn, ok := FindNode(fontNode, "face"); ok {
		if v, err := GetString(fn, 1); err == nil {
			f.Face = v
		}
	}
	f.Bold = HasSymbol(fontNode, "bold")
	f.Italic = HasSymbol(fontNode, "italic")
	return f
}

func GetJustify(n *Node) Justify {
	j := Justify{Horizontal: "center", Vertical: "center"}
	jn, ok := FindNode(n, "justify")
	if !ok {
		return j
	}
	for _, c := range jn.Children[1:] {
		switch c.Text {
		case "left", "right":
			j.Horizontal = c.Text
		case "top", "bottom":
			j.Vertical = c.Text
		case "mirror":
			j.Mirror = true
		}
	}
	return j
}

// GetEffects reads a full (effects ...) block: font, justify, hide flag.
func GetEffects(n *Node) Effects {
	e := Effects{Font: Font{Size: Size{Width: 1.27, Height: 1.27}}, Justify: Justify{Horizontal: "center", Vertical: "center"}}
	eff, ok := FindNode(n, "effects")
	if !ok {
		return e
	}
	e.Font = GetFont(eff)
	e.Justify = GetJustify(eff)
	e.Hide = HasHideFlag(eff)
	return e
}

// HasHideFlag implements the bare-`hide`-keyword rule from §4.1 pin
// parsing and the general "boundary behaviors" note: a bare `hide`
// atom means hidden, same as a parenthesized (hide yes).
func HasHideFlag(n *Node) bool {
	if hn, ok := FindNode(n, "hide"); ok {
		v, err := GetString(hn, 1)
		return err != nil || v != "no"
	}
	return HasSymbol(n, "hide")
}

func GetProperty(n *Node) (Property, error) {
	key, err := GetString(n, 1)
	if err != nil {
		return Property{}, err
	}
	val, err := GetString(n, 2)
	if err != nil {
		return Property{}, err
	}
	p := Property{Key: key, Value: val}
	if at, ok := FindNode(n, "at"); ok {
		if pa, err := GetPosition(at); err == nil {
			p.Position = pa
		}
	}
	p.Effects = GetEffects(n)
	return p, nil
}
