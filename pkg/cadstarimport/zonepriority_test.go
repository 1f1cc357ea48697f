package cadstarimport

import (
	"testing"

	"github.com/kicad-go/eda-importers/pkg/pcb"
)

func square(x0, y0, side float64) []pcb.Position {
	return []pcb.Position{
		{X: x0, Y: y0},
		{X: x0 + side, Y: y0},
		{X: x0 + side, Y: y0 + side},
		{X: x0, Y: y0 + side},
	}
}

// TestCalculateZonePrioritiesSmallerAreaWinsOverlap covers §4.2.6's
// core rule: of two overlapping same-layer zones, the smaller-area one
// gets the higher fill priority (fills on top).
func TestCalculateZonePrioritiesSmallerAreaWinsOverlap(t *testing.T) {
	big := pcb.Zone{UUID: "A", Layer: "F.Cu", Outline: square(0, 0, 10)}
	small := pcb.Zone{UUID: "B", Layer: "F.Cu", Outline: square(2, 2, 2)}
	c := &importCtx{board: &pcb.Board{Zones: []pcb.Zone{big, small}}}
	c.calculateZonePriorities()

	zones := c.board.Zones
	if zones[1].Priority <= zones[0].Priority {
		t.Fatalf("priorities = big:%d small:%d, want small > big", zones[0].Priority, zones[1].Priority)
	}
}

// TestCalculateZonePrioritiesDifferentLayersIndependent covers the
// "same-layer" qualifier: zones on different layers never compete for
// priority against one another, even when their outlines overlap in
// the plane, so no edge constrains their relative order; both are
// ready from the start and are assigned strictly increasing priority
// numbers in ascending-UUID order.
func TestCalculateZonePrioritiesDifferentLayersIndependent(t *testing.T) {
	top := pcb.Zone{UUID: "A", Layer: "F.Cu", Outline: square(0, 0, 10)}
	bottom := pcb.Zone{UUID: "B", Layer: "B.Cu", Outline: square(0, 0, 10)}
	c := &importCtx{board: &pcb.Board{Zones: []pcb.Zone{top, bottom}}}
	c.calculateZonePriorities()

	zones := c.board.Zones
	if zones[0].Priority != 0 || zones[1].Priority != 1 {
		t.Fatalf("priorities = %d, %d, want 0, 1 (UUID-ordered, no dependency)", zones[0].Priority, zones[1].Priority)
	}
}

// TestCalculateZonePrioritiesNonOverlappingSameLayerUnordered covers
// two same-layer zones that never touch: no edge is created between
// them, so both land in the same topological-sort wave.
func TestCalculateZonePrioritiesNonOverlappingSameLayerUnordered(t *testing.T) {
	left := pcb.Zone{UUID: "A", Layer: "F.Cu", Outline: square(0, 0, 5)}
	right := pcb.Zone{UUID: "B", Layer: "F.Cu", Outline: square(100, 100, 5)}
	c := &importCtx{board: &pcb.Board{Zones: []pcb.Zone{left, right}}}
	c.calculateZonePriorities()

	zones := c.board.Zones
	if zones[0].Priority != 0 || zones[1].Priority != 1 {
		t.Fatalf("priorities = %d, %d, want 0, 1 (UUID-ordered, no dependency)", zones[0].Priority, zones[1].Priority)
	}
}

// TestCalculateZonePrioritiesTieBrokenByUUID covers the equal-area tie
// rule: the zone with the lexically smaller UUID wins (gets the higher
// priority) when both overlapping zones have identical area.
func TestCalculateZonePrioritiesTieBrokenByUUID(t *testing.T) {
	a := pcb.Zone{UUID: "Z", Layer: "F.Cu", Outline: square(0, 0, 10)}
	b := pcb.Zone{UUID: "A", Layer: "F.Cu", Outline: square(0, 0, 10)}
	c := &importCtx{board: &pcb.Board{Zones: []pcb.Zone{a, b}}}
	c.calculateZonePriorities()

	zones := c.board.Zones
	if zones[1].Priority <= zones[0].Priority {
		t.Fatalf("priorities = a(Z):%d b(A):%d, want b > a (smaller UUID wins the tie)", zones[0].Priority, zones[1].Priority)
	}
}
