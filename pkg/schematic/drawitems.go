package schematic

import (
	"fmt"

	"github.com/kicad-go/eda-importers/pkg/diag"
	"github.com/kicad-go/eda-importers/pkg/geom"
	"github.com/kicad-go/eda-importers/pkg/sexp"
)

// validPinOrientations is the §4.1 invariant: a pin's (at x y angle)
// angle must be one of these four values.
var validPinOrientations = map[int]bool{0: true, 90: true, 180: true, 270: true}

// ParseSymbolDrawItem is parse_symbol_draw_item from §4.1's public
// operations table: arc|bezier|circle|pin|polyline|rectangle|text|
// text_box, shared between library-symbol bodies and free-standing
// sheet-level graphics.
func ParseSymbolDrawItem(n *sexp.Node, fx fixupSet) (DrawItem, error) {
	switch n.Tag() {
	case "arc":
		return parseArcItem(n, fx)
	case "bezier":
		return parseBezierItem(n)
	case "circle":
		return parseCircleItem(n)
	case "pin":
		return parsePinItem(n, fx)
	case "polyline":
		return parsePolylineItem(n, fx)
	case "rectangle":
		return parseRectangleItem(n)
	case "text":
		return parseTextItem(n, fx)
	case "text_box":
		return parseTextBoxItem(n, fx)
	default:
		return DrawItem{}, fmt.Errorf("line %d: unrecognized draw item %q", n.Line, n.Tag())
	}
}

func commonHeader(n *sexp.Node) (uuid string, stroke Stroke, fill Fill) {
	uuid, _ = sexp.GetUUID(n)
	if s, ok := sexp.FindNode(n, "stroke"); ok {
		stroke = sexp.GetStroke(s)
	} else {
		stroke = sexp.GetStroke(nil)
	}
	if f, ok := sexp.FindNode(n, "fill"); ok {
		fill = sexp.GetFill(f)
	} else {
		fill = sexp.GetFill(nil)
	}
	return
}

// parseArcItem handles both on-disk arc variants named by §4.1 "Arc
// parsing": the modern (start)(mid)(end) three-point form, and the
// legacy (start)(end)(radius (at cx cy)(length r)(angles s e)) form,
// normalizing both to the canonical geom.Arc via pkg/geom, and
// applying the ≤20230121 angle-swap fixup when the reconstructed sweep
// exceeds 180°.
func parseArcItem(n *sexp.Node, fx fixupSet) (DrawItem, error) {
	uuid, stroke, fill := commonHeader(n)
	item := DrawItem{Kind: ItemArc, UUID: uuid, Stroke: stroke, Fill: fill}

	startNode, hasStart := sexp.FindNode(n, "start")
	midNode, hasMid := sexp.FindNode(n, "mid")
	endNode, hasEnd := sexp.FindNode(n, "end")

	var arc geom.Arc
	if hasStart && hasMid && hasEnd {
		sp, _ := sexp.GetPosition(startNode)
		mp, _ := sexp.GetPosition(midNode)
		ep, _ := sexp.GetPosition(endNode)
		a, err := geom.ArcFromThreePoints(
			geom.Point{X: sp.X, Y: sp.Y}, geom.Point{X: mp.X, Y: mp.Y}, geom.Point{X: ep.X, Y: ep.Y})
		if err != nil {
			return DrawItem{}, fmt.Errorf("line %d: %w", n.Line, err)
		}
		arc = a
	} else if hasStart && hasEnd {
		radiusNode, ok := sexp.FindNode(n, "radius")
		if !ok {
			return DrawItem{}, fmt.Errorf("line %d: arc missing mid point and radius block", n.Line)
		}
		atNode, _ := sexp.FindNode(radiusNode, "at")
		lengthNode, _ := sexp.FindNode(radiusNode, "length")
		anglesNode, _ := sexp.FindNode(radiusNode, "angles")
		center, _ := sexp.GetPosition(atNode)
		length, _ := sexp.GetFloat(lengthNode, 1)
		startAngle, _ := sexp.GetFloat(anglesNode, 1)
		endAngle, _ := sexp.GetFloat(anglesNode, 2)
		arc = geom.ArcFromCenterRadiusAngles(geom.Point{X: center.X, Y: center.Y}, length, startAngle, endAngle)
	} else {
		return DrawItem{}, fmt.Errorf("line %d: arc has neither three-point nor legacy radius form", n.Line)
	}

	if fx.LegacyArcAngleSwap {
		if deg, err := arc.AngleDegrees(); err == nil && deg > 180 {
			arc = arc.SwapEnds()
		}
	}

	item.Start = Position{X: arc.Start.X, Y: arc.Start.Y}
	item.Mid = Position{X: arc.Mid.X, Y: arc.Mid.Y}
	item.End = Position{X: arc.End.X, Y: arc.End.Y}
	return item, nil
}

func parseBezierItem(n *sexp.Node) (DrawItem, error) {
	uuid, stroke, fill := commonHeader(n)
	item := DrawItem{Kind: ItemBezier, UUID: uuid, Stroke: stroke, Fill: fill}
	for _, p := range sexp.FindAllNodes(n, "pts") {
		for _, xy := range sexp.FindAllNodes(p, "xy") {
			pos, err := sexp.GetPosition(xy)
			if err == nil {
				item.Points = append(item.Points, pos.Position)
			}
		}
	}
	return item, nil
}

func parseCircleItem(n *sexp.Node) (DrawItem, error) {
	uuid, stroke, fill := commonHeader(n)
	item := DrawItem{Kind: ItemCircle, UUID: uuid, Stroke: stroke, Fill: fill}
	if c, ok := sexp.FindNode(n, "center"); ok {
		pos, _ := sexp.GetPosition(c)
		item.Center = pos.Position
	}
	if r, ok := sexp.FindNode(n, "radius"); ok {
		item.Radius, _ = sexp.GetFloat(r, 1)
	}
	return item, nil
}

func parseRectangleItem(n *sexp.Node) (DrawItem, error) {
	uuid, stroke, fill := commonHeader(n)
	item := DrawItem{Kind: ItemRectangle, UUID: uuid, Stroke: stroke, Fill: fill}
	if s, ok := sexp.FindNode(n, "start"); ok {
		pos, _ := sexp.GetPosition(s)
		item.Start = pos.Position
	}
	if e, ok := sexp.FindNode(n, "end"); ok {
		pos, _ := sexp.GetPosition(e)
		item.End = pos.Position
	}
	return item, nil
}

func parsePolylineItem(n *sexp.Node, fx fixupSet) (DrawItem, error) {
	uuid, stroke, fill := commonHeader(n)
	if fx.DefaultLineStyleDash && stroke.Type == "default" {
		stroke.Type = "dash"
	}
	item := DrawItem{Kind: ItemPolyline, UUID: uuid, Stroke: stroke, Fill: fill}
	if p, ok := sexp.FindNode(n, "pts"); ok {
		for _, xy := range sexp.FindAllNodes(p, "xy") {
			pos, err := sexp.GetPosition(xy)
			if err == nil {
				item.Points = append(item.Points, pos.Position)
			}
		}
	}
	return item, nil
}

func parseTextItem(n *sexp.Node, fx fixupSet) (DrawItem, error) {
	uuid, _, _ := commonHeader(n)
	item := DrawItem{Kind: ItemText, UUID: uuid}
	text, _ := sexp.GetString(n, 1)
	item.Text = applyTextFixups(text, fx)
	if at, ok := sexp.FindNode(n, "at"); ok {
		item.TextPos, _ = sexp.GetPosition(at)
	}
	item.Effects = sexp.GetEffects(n)
	item.Private = sexp.HasSymbol(n, "private")
	return item, nil
}

func parseTextBoxItem(n *sexp.Node, fx fixupSet) (DrawItem, error) {
	uuid, stroke, fill := commonHeader(n)
	item := DrawItem{Kind: ItemTextBox, UUID: uuid, Stroke: stroke, Fill: fill}
	text, _ := sexp.GetString(n, 1)
	item.Text = applyTextFixups(text, fx)
	if at, ok := sexp.FindNode(n, "at"); ok {
		item.TextPos, _ = sexp.GetPosition(at)
	}
	if s, ok := sexp.FindNode(n, "start"); ok {
		pos, _ := sexp.GetPosition(s)
		item.Start = pos.Position
	}
	if e, ok := sexp.FindNode(n, "end"); ok {
		pos, _ := sexp.GetPosition(e)
		item.End = pos.Position
	}
	if m, ok := sexp.FindNode(n, "margins"); ok {
		for i := 0; i < 4; i++ {
			item.Margins[i], _ = sexp.GetFloat(m, i+1)
		}
	}
	item.Effects = sexp.GetEffects(n)
	return item, nil
}

// parsePinItem validates the ∈{0,90,180,270} orientation invariant and
// the bare `hide` keyword, per §4.1 "Symbol pin parsing".
func parsePinItem(n *sexp.Node, fx fixupSet) (DrawItem, error) {
	uuid, _ := sexp.GetUUID(n)
	item := DrawItem{Kind: ItemPin, UUID: uuid}

	electricalType, _ := sexp.GetString(n, 1)
	graphicShape, _ := sexp.GetString(n, 2)
	item.ElectricalType = electricalType
	item.GraphicShape = graphicShape

	if at, ok := sexp.FindNode(n, "at"); ok {
		pa, _ := sexp.GetPosition(at)
		item.PinPosition = pa
		orientation := int(pa.Angle)
		if !validPinOrientations[((orientation%360)+360)%360] {
			return DrawItem{}, fmt.Errorf("line %d: pin orientation %d is not one of 0/90/180/270", n.Line, orientation)
		}
	}
	if l, ok := sexp.FindNode(n, "length"); ok {
		item.Length, _ = sexp.GetFloat(l, 1)
	}
	item.Hidden = sexp.HasHideFlag(n)

	if name, ok := sexp.FindNode(n, "name"); ok {
		text, _ := sexp.GetString(name, 1)
		item.Name = PinText{Text: applyTextFixups(text, fx), Effects: sexp.GetEffects(name)}
	}
	if number, ok := sexp.FindNode(n, "number"); ok {
		text, _ := sexp.GetString(number, 1)
		item.Number = PinText{Text: applyTextFixups(text, fx), Effects: sexp.GetEffects(number)}
	}
	for _, alt := range sexp.FindAllNodes(n, "alternate") {
		name, _ := sexp.GetString(alt, 1)
		etype, _ := sexp.GetString(alt, 2)
		shape, _ := sexp.GetString(alt, 3)
		item.Alternates = append(item.Alternates, PinAlternate{Name: name, Type: etype, Shape: shape})
	}
	return item, nil
}

// diagFromErr is a small helper letting parse*Item functions return a
// plain error while callers needing a diag.Kind wrap it uniformly.
func diagFromErr(line int, err error) error {
	if err == nil {
		return nil
	}
	return diag.NewError(diag.ParseError, diag.Location{Line: line}, "%v", err)
}
