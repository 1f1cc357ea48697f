package cadstarimport

import (
	"github.com/kicad-go/eda-importers/pkg/cadstar"
	"github.com/kicad-go/eda-importers/pkg/diag"
	"github.com/kicad-go/eda-importers/pkg/pcb"
)

// loadDesignRules maps CADSTAR spacing/sizing codes onto the KiCad
// rule set (§4.2 step 4), warning when an expected code is absent
// rather than silently leaving the zero value, per §7's
// best-effort/Unsupported policy.
func loadDesignRules(a *cadstar.Archive, sink diag.Sink) pcb.Setup {
	var s pcb.Setup

	if len(a.Codes.Coppercodes) == 0 {
		sink.Warning(diag.Inconsistent, diag.Location{}, "no copper codes defined; trace width/clearance rules left at defaults")
		return s
	}

	var minWidth, maxWidth int64 = -1, 0
	for _, cc := range a.Codes.Coppercodes {
		if minWidth < 0 || cc.CopperWidth < minWidth {
			minWidth = cc.CopperWidth
		}
		if cc.CopperWidth > maxWidth {
			maxWidth = cc.CopperWidth
		}
	}
	if minWidth >= 0 {
		s.TraceMinWidth = toMM(minWidth)
	}

	var minVia cadstar.Viacode
	haveVia := false
	for _, vc := range a.Codes.Viacodes {
		if !haveVia || vc.Shape.Size < minVia.Shape.Size {
			minVia = vc
			haveVia = true
		}
	}
	if haveVia {
		s.ViaMinSize = toMM(minVia.Shape.Size)
		s.ViaMinDrill = toMM(minVia.DrillDiameter)
		if minVia.Shape.Size > minVia.DrillDiameter {
			s.ViaMinAnnulus = toMM(minVia.Shape.Size-minVia.DrillDiameter) / 2
		}
	} else {
		sink.Warning(diag.Inconsistent, diag.Location{}, "no via codes defined; via size/drill rules left at defaults")
	}

	return s
}
