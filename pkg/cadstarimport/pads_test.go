package cadstarimport

import (
	"testing"

	"github.com/kicad-go/eda-importers/pkg/cadstar"
	"github.com/kicad-go/eda-importers/pkg/diag"
	"github.com/kicad-go/eda-importers/pkg/pcb"
)

func TestBuildPadCircleThroughHole(t *testing.T) {
	cp := cadstar.ComponentPad{ID: "1", Identifier: "1", Side: cadstar.PadSideThroughHole, Position: cadstar.Point{X: 1000, Y: 2000}}
	code := cadstar.Padcode{Shape: cadstar.PadShape{ShapeType: cadstar.PadShapeCircle, Size: 1000000}, Plated: true, DrillDiameter: 500000}
	sink := diag.NewSliceSink()
	p := buildPad(cp, code, pcb.LayerSet{"F.Cu", "B.Cu"}, sink, diag.Location{})

	if p.Shape != "circle" {
		t.Fatalf("Shape = %q, want circle", p.Shape)
	}
	if p.Type != "thru_hole" {
		t.Fatalf("Type = %q, want thru_hole", p.Type)
	}
	if p.Drill <= 0 {
		t.Fatalf("Drill = %v, want positive", p.Drill)
	}
	if len(sink.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %+v", sink.Warnings)
	}
}

// TestBuildPadAsymmetricRectangleOffsets covers the "asymmetric left/
// right length extension" invariant: the pad's reported origin must
// shift so it still matches CADSTAR's own convention.
func TestBuildPadAsymmetricRectangleOffsets(t *testing.T) {
	cp := cadstar.ComponentPad{ID: "2", Identifier: "2", Side: cadstar.PadSideTop, Position: cadstar.Point{}}
	code := cadstar.Padcode{Shape: cadstar.PadShape{
		ShapeType: cadstar.PadShapeRectangle, Size: 500000, LeftLength: 500000, RightLength: 0,
	}}
	sink := diag.NewSliceSink()
	p := buildPad(cp, code, pcb.LayerSet{"F.Cu"}, sink, diag.Location{})

	if p.Shape != "rect" {
		t.Fatalf("Shape = %q, want rect", p.Shape)
	}
	if p.Position.X >= 0 {
		t.Fatalf("Position.X = %v, want negative (offset toward the longer left extension)", p.Position.X)
	}
}

// TestBuildPadSlotOutsidePadRecenters covers the "slot outside pad"
// recovery path: a slot whose rotated outline doesn't contain the
// origin is recentered rather than promoted to a custom shape, with
// OutOfBoundsSlot set and an Inconsistent warning raised.
func TestBuildPadSlotOutsidePadRecenters(t *testing.T) {
	cp := cadstar.ComponentPad{ID: "3", Identifier: "3", Side: cadstar.PadSideThroughHole, Position: cadstar.Point{}}
	code := cadstar.Padcode{
		Shape:           cadstar.PadShape{ShapeType: cadstar.PadShapeCircle, Size: 100},
		Plated:          true,
		DrillDiameter:   50,
		SlotLength:      50,
		SlotOrientation: 300, // 30 degrees
		DrillXOffset:    100000,
		DrillYOffset:    100000,
	}
	sink := diag.NewSliceSink()
	p := buildPad(cp, code, pcb.LayerSet{"F.Cu", "B.Cu"}, sink, diag.Location{})

	if !p.OutOfBoundsSlot {
		t.Fatal("OutOfBoundsSlot = false, want true for a slot placed far outside a tiny pad")
	}
	if p.Shape == "custom" {
		t.Fatal("Shape = custom, want the pad to fall back to its original shape when recentered")
	}
	if len(sink.Warnings) != 1 || sink.Warnings[0].Kind != diag.Inconsistent {
		t.Fatalf("Warnings = %+v, want exactly one Inconsistent warning", sink.Warnings)
	}
}
