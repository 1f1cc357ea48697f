package schematic

import "github.com/kicad-go/eda-importers/internal/fontresolve"

// ResolvedFonts maps an embedded_files entry name to the font family
// name fontresolve extracted from it.
type ResolvedFonts map[string]fontresolve.Resolved

// resolveFonts is the second phase of §4.5's embedded-font resolution:
// it runs only after the whole sheet (and its embedded_files block)
// has been parsed, since a font referenced by an early text effects
// block can be declared later in the same file.
func (p *parser) resolveFonts(sch *Schematic) {
	if !sch.EmbeddedFonts || len(sch.EmbeddedFiles) == 0 {
		return
	}
	payloads := make(map[string][]byte, len(sch.EmbeddedFiles))
	for _, f := range sch.EmbeddedFiles {
		if f.Type == "font" || f.Type == "" {
			payloads[f.Name] = f.Data
		}
	}
	sch.ResolvedFonts = fontresolve.ResolveAll(payloads)
}
