package cadstarimport

import "github.com/kicad-go/eda-importers/pkg/diag"

// warnUnsupportedFeatures reports the archive-wide features the
// importer has no KiCad equivalent for, counted rather than
// reconstructed: routing trunks, variants beyond the first, and
// flattened reuse blocks (§4.2 step 16).
func (c *importCtx) warnUnsupportedFeatures() {
	if c.a.Layout.TrunkCount > 0 {
		c.sink.Warning(diag.Unsupported, diag.Location{}, "%d routing trunk(s) not imported; no KiCad equivalent", c.a.Layout.TrunkCount)
	}
	if c.a.Layout.VariantCount > 1 {
		c.sink.Warning(diag.Unsupported, diag.Location{}, "%d variant(s) beyond the first not imported", c.a.Layout.VariantCount-1)
	}
	if c.a.Layout.ReuseBlockCount > 0 {
		c.sink.Warning(diag.Unsupported, diag.Location{}, "%d reuse block(s) flattened; block structure not preserved", c.a.Layout.ReuseBlockCount)
	}
}
