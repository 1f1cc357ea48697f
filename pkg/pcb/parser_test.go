package pcb

import (
	"strings"
	"testing"

	"github.com/kicad-go/eda-importers/pkg/diag"
)

func mustParseBoard(t *testing.T, src string) *Board {
	t.Helper()
	b, _, err := ParseWithOptions(strings.NewReader(src), DefaultOptions(), nil, nil)
	if err != nil {
		t.Fatalf("ParseWithOptions: %v", err)
	}
	return b
}

func TestParseBoardHeader(t *testing.T) {
	src := `(kicad_pcb
  (version 20231014)
  (generator "pcbnew")
  (generator_version "8.0")
  (general (thickness 1.6))
  (layers (0 "F.Cu" signal) (31 "B.Cu" signal))
  (net 0 "")
  (net 1 "GND")
)`
	b := mustParseBoard(t, src)
	if b.Version != 20231014 {
		t.Fatalf("Version = %d, want 20231014", b.Version)
	}
	if b.General.Thickness != 1.6 {
		t.Fatalf("General.Thickness = %v, want 1.6", b.General.Thickness)
	}
	if l, ok := b.Layers.GetByName("F.Cu"); !ok || l.Number != 0 {
		t.Fatalf("layer F.Cu not found or wrong number: %+v ok=%v", l, ok)
	}
	if !b.Layers.IsCopperLayer("B.Cu") {
		t.Fatal("B.Cu should be a copper layer")
	}
	if n, ok := b.GetNet("GND"); !ok || n.Number != 1 {
		t.Fatalf("net GND not found or wrong number: %+v ok=%v", n, ok)
	}
}

func TestFutureFormatRejectedBoard(t *testing.T) {
	src := `(kicad_pcb (version 99991231) (generator "pcbnew") (generator_version "99.0"))`
	_, _, err := ParseWithOptions(strings.NewReader(src), DefaultOptions(), nil, nil)
	if err == nil {
		t.Fatal("expected a FutureFormat error")
	}
	d, ok := err.(*diag.Diagnostic)
	if !ok || d.Kind != diag.FutureFormat {
		t.Fatalf("err = %v, want a FutureFormat diagnostic", err)
	}
}

func TestParseFootprintWithPads(t *testing.T) {
	src := `(kicad_pcb
  (version 20231014)
  (generator "pcbnew")
  (net 0 "")
  (net 1 "GND")
  (footprint "Resistor_SMD:R_0603_1608Metric"
    (layer "F.Cu")
    (at 10 20 90)
    (uuid "11111111-1111-1111-1111-111111111111")
    (property "Reference" "R1" (at 0 0 0))
    (property "Value" "10k" (at 0 1 0))
    (pad "1" smd roundrect (at -0.8 0 90) (size 0.9 0.95) (layers "F.Cu" "F.Paste" "F.Mask") (net 1 "GND"))
    (pad "2" smd roundrect (at 0.8 0 90) (size 0.9 0.95) (layers "F.Cu" "F.Paste" "F.Mask"))
  )
)`
	b := mustParseBoard(t, src)
	if len(b.Footprints) != 1 {
		t.Fatalf("Footprints = %d, want 1", len(b.Footprints))
	}
	fp := b.Footprints[0]
	if fp.Reference != "R1" || fp.Value != "10k" {
		t.Fatalf("Reference/Value = %q/%q, want R1/10k", fp.Reference, fp.Value)
	}
	if len(fp.Pads) != 2 {
		t.Fatalf("Pads = %d, want 2", len(fp.Pads))
	}
	if !fp.Pads[0].HasNet || fp.Pads[0].Net.Name != "GND" {
		t.Fatalf("pad 1 net = %+v, want GND", fp.Pads[0].Net)
	}
	if fp.Pads[1].HasNet {
		t.Fatal("pad 2 should have no net")
	}
}

func TestGetNetPadsAcrossFootprints(t *testing.T) {
	src := `(kicad_pcb
  (version 20231014)
  (generator "pcbnew")
  (net 0 "")
  (net 1 "GND")
  (footprint "X:Y" (layer "F.Cu") (at 0 0)
    (pad "1" smd rect (at 0 0) (size 1 1) (layers "F.Cu") (net 1 "GND")))
  (footprint "X:Y" (layer "F.Cu") (at 5 5)
    (pad "1" smd rect (at 0 0) (size 1 1) (layers "F.Cu") (net 1 "GND")))
)`
	b := mustParseBoard(t, src)
	pads := b.GetNetPads("GND")
	if len(pads) != 2 {
		t.Fatalf("GetNetPads(GND) = %d, want 2", len(pads))
	}
}

func TestParseZoneWithKeepout(t *testing.T) {
	src := `(kicad_pcb
  (version 20231014)
  (generator "pcbnew")
  (net 0 "")
  (zone (net 0) (net_name "") (layer "F.Cu")
    (hatch edge 0.5)
    (priority 3)
    (keepout (copperpour not_allowed) (tracks allowed) (vias allowed))
    (polygon (pts (xy 0 0) (xy 10 0) (xy 10 10) (xy 0 10))))
)`
	b := mustParseBoard(t, src)
	if len(b.Zones) != 1 {
		t.Fatalf("Zones = %d, want 1", len(b.Zones))
	}
	z := b.Zones[0]
	if !z.IsRuleArea {
		t.Fatal("expected IsRuleArea=true for a zone carrying a keepout block")
	}
	if !z.KeepoutCopper {
		t.Fatal("expected KeepoutCopper=true")
	}
	if z.KeepoutTracks {
		t.Fatal("expected KeepoutTracks=false (tracks allowed)")
	}
	if z.Priority != 3 {
		t.Fatalf("Priority = %d, want 3", z.Priority)
	}
	if len(z.Outline) != 4 {
		t.Fatalf("Outline points = %d, want 4", len(z.Outline))
	}
}

func TestParseViaType(t *testing.T) {
	src := `(kicad_pcb
  (version 20231014)
  (generator "pcbnew")
  (net 0 "")
  (net 1 "GND")
  (via blind (at 5 5) (size 0.6) (drill 0.3) (layers "F.Cu" "In1.Cu") (net 1 "GND"))
)`
	b := mustParseBoard(t, src)
	if len(b.Vias) != 1 {
		t.Fatalf("Vias = %d, want 1", len(b.Vias))
	}
	if b.Vias[0].Type != "blind_buried" {
		t.Fatalf("Type = %q, want blind_buried", b.Vias[0].Type)
	}
	if !b.Vias[0].HasNet || b.Vias[0].Net.Name != "GND" {
		t.Fatalf("via net = %+v, want GND", b.Vias[0].Net)
	}
}

func TestGroupResolutionDropsUnresolvedMembers(t *testing.T) {
	src := `(kicad_pcb
  (version 20231014)
  (generator "pcbnew")
  (net 0 "")
  (footprint "X:Y" (layer "F.Cu") (at 0 0) (uuid "11111111-1111-1111-1111-111111111111"))
  (group "G1" (id "22222222-2222-2222-2222-222222222222")
    (members "11111111-1111-1111-1111-111111111111" "99999999-9999-9999-9999-999999999999"))
)`
	b := mustParseBoard(t, src)
	if len(b.Groups) != 1 {
		t.Fatalf("Groups = %d, want 1", len(b.Groups))
	}
	if len(b.Groups[0].Members) != 1 {
		t.Fatalf("Members = %v, want exactly the resolvable footprint UUID", b.Groups[0].Members)
	}
}

func TestBoardBoundingBoxIncludesPads(t *testing.T) {
	src := `(kicad_pcb
  (version 20231014)
  (generator "pcbnew")
  (net 0 "")
  (footprint "X:Y" (layer "F.Cu") (at 100 100)
    (pad "1" smd rect (at -1 0) (size 2 2) (layers "F.Cu")))
)`
	b := mustParseBoard(t, src)
	bbox := b.GetBoundingBox()
	if bbox.IsEmpty() {
		t.Fatal("expected a non-empty bounding box")
	}
	if bbox.Min.X > 98 || bbox.Max.X < 100 {
		t.Fatalf("bbox = %+v, want to span roughly x in [98,100]", bbox)
	}
}
