package schematic

import (
	"strings"
	"testing"

	"github.com/kicad-go/eda-importers/pkg/diag"
	"github.com/kicad-go/eda-importers/pkg/geom"
	"github.com/kicad-go/eda-importers/pkg/sexp"
)

func mustParse(t *testing.T, src string) *Schematic {
	t.Helper()
	sch, _, err := ParseWithOptions(strings.NewReader(src), DefaultOptions(), nil, nil)
	if err != nil {
		t.Fatalf("ParseWithOptions: %v", err)
	}
	return sch
}

func TestParseHeaderBasics(t *testing.T) {
	src := `(kicad_sch
  (version 20231120)
  (generator "eeschema")
  (generator_version "8.0")
  (uuid "4c4e4a1e-8f3a-4e2e-8f0c-1111111111aa")
  (paper "A4")
)`
	sch := mustParse(t, src)
	if sch.Version != 20231120 {
		t.Fatalf("Version = %d, want 20231120", sch.Version)
	}
	if sch.Generator != "eeschema" {
		t.Fatalf("Generator = %q", sch.Generator)
	}
	if sch.Paper != "A4" {
		t.Fatalf("Paper = %q", sch.Paper)
	}
}

func TestFutureFormatRejected(t *testing.T) {
	src := `(kicad_sch
  (version 99991231)
  (generator "eeschema")
  (generator_version "99.0")
  (paper "A4")
)`
	_, _, err := ParseWithOptions(strings.NewReader(src), DefaultOptions(), nil, nil)
	if err == nil {
		t.Fatal("expected a FutureFormat error, got nil")
	}
	d, ok := err.(*diag.Diagnostic)
	if !ok || d.Kind != diag.FutureFormat {
		t.Fatalf("err = %v, want a FutureFormat diagnostic", err)
	}
	if d.RequiredVersion != DefaultMaxSupportedVersion {
		t.Fatalf("RequiredVersion = %d, want %d", d.RequiredVersion, DefaultMaxSupportedVersion)
	}
}

func TestFutureFormatDeferredToFirstSymbol(t *testing.T) {
	// No generator_version and a version new enough that the header
	// itself never checks the gate; it must fire once the first symbol
	// is seen instead (§4.1's staged gate).
	src := `(kicad_sch
  (version 99991231)
  (generator "eeschema")
  (paper "A4")
  (lib_symbols
    (symbol "Device:R"
      (property "Reference" "R" (at 0 0 0))
    )
  )
)`
	_, _, err := ParseWithOptions(strings.NewReader(src), DefaultOptions(), nil, nil)
	if err == nil {
		t.Fatal("expected a deferred FutureFormat error, got nil")
	}
	if d, ok := err.(*diag.Diagnostic); !ok || d.Kind != diag.FutureFormat {
		t.Fatalf("err = %v, want a FutureFormat diagnostic", err)
	}
}

func TestOverbarConversionLegacy(t *testing.T) {
	src := `(kicad_sch
  (version 20211123)
  (generator "eeschema")
  (paper "A4")
  (label "~RESET~" (at 10 10 0))
)`
	sch := mustParse(t, src)
	if len(sch.Labels) != 1 {
		t.Fatalf("Labels = %d, want 1", len(sch.Labels))
	}
	if want := "~{RESET}"; sch.Labels[0].Text != want {
		t.Fatalf("Labels[0].Text = %q, want %q", sch.Labels[0].Text, want)
	}
}

func TestOverbarUnconvertedOnModernFile(t *testing.T) {
	src := `(kicad_sch
  (version 20231120)
  (generator "eeschema")
  (generator_version "8.0")
  (paper "A4")
  (label "~{RESET}" (at 10 10 0))
)`
	sch := mustParse(t, src)
	if want := "~{RESET}"; sch.Labels[0].Text != want {
		t.Fatalf("Labels[0].Text = %q, want %q (unmodified)", sch.Labels[0].Text, want)
	}
}

func TestLegacyArcAngleSwapAppliesOnReflexSweep(t *testing.T) {
	// start(angle 0) -> mid(angle 135) -> end(angle 270) on a radius-10
	// circle traces a 270-degree (reflex) arc; on a pre-20230121 file
	// the fixup must swap start/end relative to the raw three-point
	// reconstruction.
	src := `(arc (start 10 0) (mid -7.0710678 7.0710678) (end 0 -10) (stroke (width 0.254) (type default)) (fill (type none)))`
	n, err := sexp.ParseString(src)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}

	rawArc, err := geom.ArcFromThreePoints(
		geom.Point{X: 10, Y: 0}, geom.Point{X: -7.0710678, Y: 7.0710678}, geom.Point{X: 0, Y: -10})
	if err != nil {
		t.Fatalf("ArcFromThreePoints: %v", err)
	}
	rawDeg, err := rawArc.AngleDegrees()
	if err != nil {
		t.Fatalf("AngleDegrees: %v", err)
	}
	if rawDeg <= 180 {
		t.Fatalf("test fixture is not reflex: AngleDegrees = %v", rawDeg)
	}

	item, err := ParseSymbolDrawItem(n, fixupsFor(20211123))
	if err != nil {
		t.Fatalf("ParseSymbolDrawItem: %v", err)
	}
	if item.Start != (Position{X: 0, Y: -10}) || item.End != (Position{X: 10, Y: 0}) {
		t.Fatalf("Start/End = %+v/%+v, want swapped relative to the raw (0,-10)/(10,0) end points", item.Start, item.End)
	}

	itemNoFixup, err := ParseSymbolDrawItem(n, fixupsFor(20231120))
	if err != nil {
		t.Fatalf("ParseSymbolDrawItem (modern): %v", err)
	}
	if itemNoFixup.Start != (Position{X: 10, Y: 0}) || itemNoFixup.End != (Position{X: 0, Y: -10}) {
		t.Fatalf("modern-file Start/End = %+v/%+v, want unswapped", itemNoFixup.Start, itemNoFixup.End)
	}
}

func TestLegacyArcCollinearRejected(t *testing.T) {
	src := `(arc (start 0 0) (mid 5 0) (end 10 0) (stroke (width 0.254) (type default)) (fill (type none)))`
	n, err := sexp.ParseString(src)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	if _, err := ParseSymbolDrawItem(n, fixupsFor(20231120)); err == nil {
		t.Fatal("expected an error for collinear arc control points")
	}
}

func TestDuplicateUserFieldDisambiguated(t *testing.T) {
	src := `(kicad_sch
  (version 20231120)
  (generator "eeschema")
  (generator_version "8.0")
  (paper "A4")
  (symbol
    (lib_id "Device:R")
    (at 10 10 0)
    (uuid "4c4e4a1e-8f3a-4e2e-8f0c-1111111111bb")
    (property "Reference" "R1" (at 10 8 0))
    (property "Datasheet" "first" (at 10 12 0))
    (property "Datasheet" "second" (at 10 14 0))
  )
)`
	sch := mustParse(t, src)
	if len(sch.Symbols) != 1 {
		t.Fatalf("Symbols = %d, want 1", len(sch.Symbols))
	}
	var first, second string
	for _, p := range sch.Symbols[0].Properties {
		switch p.Key {
		case "Datasheet":
			first = p.Value
		case "Datasheet_1":
			second = p.Value
		}
	}
	if first != "first" || second != "second" {
		t.Fatalf("Datasheet=%q Datasheet_1=%q, want first/second", first, second)
	}
}

func TestPinInvalidOrientationRejected(t *testing.T) {
	src := `(pin input line (at 0 0 45) (length 2.54) (name "A" (effects (font (size 1.27 1.27)))) (number "1" (effects (font (size 1.27 1.27)))))`
	n, err := sexp.ParseString(src)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	if _, err := ParseSymbolDrawItem(n, fixupsFor(20231120)); err == nil {
		t.Fatal("expected an error for a 45-degree pin orientation")
	}
}

func TestGetAllReferencesNaturalOrder(t *testing.T) {
	src := `(kicad_sch
  (version 20231120)
  (generator "eeschema")
  (generator_version "8.0")
  (paper "A4")
  (symbol (lib_id "Device:R") (at 0 0 0) (uuid "11111111-1111-1111-1111-111111111111")
    (property "Reference" "R10" (at 0 0 0)))
  (symbol (lib_id "Device:R") (at 0 0 0) (uuid "22222222-2222-2222-2222-222222222222")
    (property "Reference" "R2" (at 0 0 0)))
  (symbol (lib_id "Device:R") (at 0 0 0) (uuid "33333333-3333-3333-3333-333333333333")
    (property "Reference" "R1" (at 0 0 0)))
)`
	sch := mustParse(t, src)
	refs := sch.GetAllReferences()
	want := []string{"R1", "R2", "R10"}
	if len(refs) != len(want) {
		t.Fatalf("refs = %v, want %v", refs, want)
	}
	for i := range want {
		if refs[i] != want[i] {
			t.Fatalf("refs = %v, want %v", refs, want)
		}
	}
}

func TestDummySymbolOnUnresolvedLibID(t *testing.T) {
	src := `(kicad_sch
  (version 20231120)
  (generator "eeschema")
  (generator_version "8.0")
  (paper "A4")
  (symbol (lib_id "Nonexistent:Part") (at 0 0 0) (uuid "11111111-1111-1111-1111-111111111111")
    (property "Reference" "U1" (at 0 0 0)))
)`
	sch := mustParse(t, src)
	if !sch.Symbols[0].Dummy {
		t.Fatal("expected Dummy=true for an unresolved lib_id")
	}
	if sch.Symbols[0].LibSymbol() != nil {
		t.Fatal("expected a nil LibSymbol() for an unresolved lib_id")
	}
}
