package cadstarimport

import (
	"testing"

	"github.com/kicad-go/eda-importers/pkg/cadstar"
)

func TestNewLayerMapperAssignsFrontAndBackCopper(t *testing.T) {
	a := archiveWithStack(
		cadstar.Layer{ID: "L1", Name: "Top", Type: cadstar.LayerElec},
		cadstar.Layer{ID: "D1", Type: cadstar.LayerConstruction, Thickness: 1000},
		cadstar.Layer{ID: "L2", Name: "Bottom", Type: cadstar.LayerElec},
	)
	res := buildStackup(a)
	m := newLayerMapper(a, res.copperOrder)

	if got := m.get("L1"); got != "F.Cu" {
		t.Fatalf("get(L1) = %q, want F.Cu", got)
	}
	if got := m.get("L2"); got != "B.Cu" {
		t.Fatalf("get(L2) = %q, want B.Cu", got)
	}
}

// TestHeuristicLayerNameClassifiesKnownFamilies covers §4.2.2's
// enumerated non-copper layer families: silkscreen, paste, mask,
// assembly/placement, ECO1/2, and documentation layers are recognized
// by a case-insensitive substring match on the CADSTAR layer name.
func TestHeuristicLayerNameClassifiesKnownFamilies(t *testing.T) {
	cases := []struct {
		name, side, want string
	}{
		{"Top Silk Screen", "F", "F.SilkS"},
		{"BOTTOM SILKSCREEN", "B", "B.SilkS"},
		{"Top Paste", "F", "F.Paste"},
		{"Solder Resist Top", "F", "F.Mask"},
		{"Top Assembly", "F", "F.Fab"},
		{"Component Placement", "B", "B.Fab"},
		{"ECO1", "F", "Eco1.User"},
		{"Eco2 Layer", "F", "Eco2.User"},
		{"Documentation", "F", "Dwgs.User"},
		{"Drawing Notes", "F", "Dwgs.User"},
	}
	for _, c := range cases {
		got, ok := heuristicLayerName(c.name, c.side)
		if !ok {
			t.Errorf("heuristicLayerName(%q, %q): not classified, want %q", c.name, c.side, c.want)
			continue
		}
		if got != c.want {
			t.Errorf("heuristicLayerName(%q, %q) = %q, want %q", c.name, c.side, got, c.want)
		}
	}
}

func TestHeuristicLayerNameRejectsUnknownFamily(t *testing.T) {
	if _, ok := heuristicLayerName("Some Custom Layer", "F"); ok {
		t.Fatal("expected an unrecognized layer name to return ok=false")
	}
}

// TestNewLayerMapperSidesNonCopperLayersByStackPosition covers the
// "seenCopper" rule: a non-copper layer declared before any electrical
// layer in the stack is classified front-side; one declared after is
// back-side.
func TestNewLayerMapperSidesNonCopperLayersByStackPosition(t *testing.T) {
	a := archiveWithStack(
		cadstar.Layer{ID: "SILKT", Name: "Top Silk", Type: cadstar.LayerNonElectrical},
		cadstar.Layer{ID: "L1", Name: "Top", Type: cadstar.LayerElec},
		cadstar.Layer{ID: "L2", Name: "Bottom", Type: cadstar.LayerElec},
		cadstar.Layer{ID: "SILKB", Name: "Bottom Silk", Type: cadstar.LayerNonElectrical},
	)
	res := buildStackup(a)
	m := newLayerMapper(a, res.copperOrder)

	if got := m.get("SILKT"); got != "F.SilkS" {
		t.Fatalf("get(SILKT) = %q, want F.SilkS", got)
	}
	if got := m.get("SILKB"); got != "B.SilkS" {
		t.Fatalf("get(SILKB) = %q, want B.SilkS", got)
	}
}

func TestLayerMapperGetFallsBackToCommentsForUnknownID(t *testing.T) {
	m := &layerMapper{byID: map[cadstar.LayerID]string{}}
	if got := m.get("NOPE"); got != "Cmts.User" {
		t.Fatalf("get(NOPE) = %q, want Cmts.User", got)
	}
}

func TestLayerMapperApplyUsesRemapThenFallsBackToComments(t *testing.T) {
	m := &layerMapper{
		byID:       map[cadstar.LayerID]string{},
		unresolved: []UnresolvedLayer{{ID: "X1", Name: "Custom A"}, {ID: "X2", Name: "Custom B"}},
	}
	m.apply(map[string]string{"X1": "Dwgs.User"})

	if got := m.get("X1"); got != "Dwgs.User" {
		t.Fatalf("get(X1) = %q, want Dwgs.User (explicit remap)", got)
	}
	if got := m.get("X2"); got != "Cmts.User" {
		t.Fatalf("get(X2) = %q, want Cmts.User (no remap entry)", got)
	}
}
