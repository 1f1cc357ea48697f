package cadstarimport

import (
	"math"

	"github.com/kicad-go/eda-importers/pkg/cadstar"
	"github.com/kicad-go/eda-importers/pkg/diag"
	"github.com/kicad-go/eda-importers/pkg/pcb"
)

// buildPad translates one CADSTAR component pad + its padcode into a
// pcb.Pad, per §4.2.3. copperLayers is the pad's resolved KiCad copper
// layer set (already side-selected by the caller); sink receives the
// Inconsistent warning when a slot is promoted back to centered
// because its rotated outline falls outside the pad shape.
func buildPad(cp cadstar.ComponentPad, code cadstar.Padcode, copperLayers pcb.LayerSet, sink diag.Sink, loc diag.Location) pcb.Pad {
	p := pcb.Pad{Number: cp.Identifier, Layers: copperLayers}
	if p.Number == "" {
		p.Number = cp.ID
	}

	switch cp.Side {
	case cadstar.PadSideTop, cadstar.PadSideBottom:
		p.Type = "smd"
	default:
		if code.Plated {
			p.Type = "thru_hole"
		} else {
			p.Type = "np_thru_hole"
		}
	}

	shape := code.Shape
	size := shape.Size
	if size == 0 {
		size = 1 // zero-sized pads break downstream tooling; make it tiny instead
	}

	var padOffsetX float64
	width, height := toMM(size), toMM(size)

	switch shape.ShapeType {
	case cadstar.PadShapeAnnulus:
		p.Shape = "circle"
		sink.Warning(diag.Unsupported, loc, "pad %q: annulus shape approximated as circle", cp.ID)
	case cadstar.PadShapeCircle:
		p.Shape = "circle"
	case cadstar.PadShapeSquare:
		p.Shape = "rect"
	case cadstar.PadShapeOctagon:
		p.Shape = "custom" // chamfered-rect approximation flattened to custom outline by caller
	case cadstar.PadShapeRectangle:
		p.Shape = "rect"
		width = toMM(size + shape.LeftLength + shape.RightLength)
		padOffsetX = toMM(shape.LeftLength/2 - shape.RightLength/2)
	case cadstar.PadShapeRoundedRect:
		p.Shape = "roundrect"
		width = toMM(size + shape.LeftLength + shape.RightLength)
		padOffsetX = toMM(shape.LeftLength/2 - shape.RightLength/2)
	case cadstar.PadShapeBullet:
		p.Shape = "roundrect" // chamfered-rect approximation
		width = toMM(size + shape.LeftLength + shape.RightLength)
		padOffsetX = toMM(shape.LeftLength/2 - shape.RightLength/2)
	case cadstar.PadShapeFinger:
		p.Shape = "oval"
		width = toMM(size + shape.LeftLength + shape.RightLength)
		padOffsetX = toMM(shape.LeftLength/2 - shape.RightLength/2)
	case cadstar.PadShapeDiamond:
		p.Shape = "rect"
		diag2 := toMM(size) * math.Sqrt2
		width, height = diag2, diag2
		padOffsetX = toMM(shape.LeftLength/2 - shape.RightLength/2)
	default:
		p.Shape = "circle"
	}
	p.Size = pcb.Size{Width: width, Height: height}

	var drillOffset pcb.Position
	if code.DrillDiameter != 0 {
		if code.SlotLength != 0 {
			p.DrillOval = true
			p.DrillSize = pcb.Size{Width: toMM(code.SlotLength + code.DrillDiameter), Height: toMM(code.DrillDiameter)}
		} else {
			p.Drill = toMM(code.DrillDiameter)
		}
		drillOffset = pcb.Position{X: -toMM(code.DrillXOffset), Y: toMM(code.DrillYOffset)}
	}

	padOffset := pcb.Position{X: padOffsetX}

	if code.SlotOrientation != 0 && len(copperLayers) > 0 {
		rotated := rotateSlotOutline(p, padOffset, drillOffset, code.SlotOrientation)
		if polygonContains(rotated, pcb.Position{}) {
			p.Shape = "custom"
			p.Primitives = rotated
			padOffset = pcb.Position{}
		} else {
			code.SlotOrientation = 0
			drillOffset = pcb.Position{}
			p.OutOfBoundsSlot = true
			sink.Warning(diag.Inconsistent, loc, "pad %q: slot hole falls outside the pad shape; centered instead", cp.ID)
		}
	}

	orientation := toDegrees(cp.OrientAngle) + toDegrees(shape.OrientAngle)
	padOffset = rotatePoint(padOffset, orientation)
	drillOffset = rotatePoint(drillOffset, orientation)

	pos := toPcbPosition(toGeomPoint(cp.Position))
	pos.X -= padOffset.X + drillOffset.X
	pos.Y -= padOffset.Y + drillOffset.Y
	p.Position = pcb.PositionAngle{Position: pos, Angle: pcb.Angle(orientation + toDegrees(code.SlotOrientation))}

	return p
}

func rotatePoint(p pcb.Position, deg float64) pcb.Position {
	rad := deg * math.Pi / 180
	cos, sin := math.Cos(rad), math.Sin(rad)
	return pcb.Position{X: p.X*cos - p.Y*sin, Y: p.X*sin + p.Y*cos}
}

// rotateSlotOutline builds the pad's own rectangular outline centered
// at the origin, offset by padOffset-drillOffset, and rotated by
// (180 - slotOrientation), per §4.2.3 step 2.
func rotateSlotOutline(p pcb.Pad, padOffset, drillOffset pcb.Position, slotOrientation int64) []pcb.Position {
	hw, hh := p.Size.Width/2, p.Size.Height/2
	corners := []pcb.Position{{X: -hw, Y: -hh}, {X: hw, Y: -hh}, {X: hw, Y: hh}, {X: -hw, Y: hh}}
	dx, dy := padOffset.X-drillOffset.X, padOffset.Y-drillOffset.Y
	deg := 180.0 - toDegrees(slotOrientation)
	out := make([]pcb.Position, len(corners))
	for i, c := range corners {
		c.X += dx
		c.Y += dy
		out[i] = rotatePoint(c, deg)
	}
	return out
}

// polygonContains is a simple point-in-polygon test (ray casting),
// sufficient for the axis-aligned-ish rectangular pad outlines this
// importer promotes to custom shapes.
func polygonContains(poly []pcb.Position, pt pcb.Position) bool {
	if len(poly) < 3 {
		return false
	}
	inside := false
	n := len(poly)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		pi, pj := poly[i], poly[j]
		if (pi.Y > pt.Y) != (pj.Y > pt.Y) &&
			pt.X < (pj.X-pi.X)*(pt.Y-pi.Y)/(pj.Y-pi.Y)+pi.X {
			inside = !inside
		}
	}
	return inside
}
