// Package fontresolve extracts the family name from an embedded font
// payload (§4.5 "Embedded font resolution") so a schematic's embedded
// fonts can be matched against its effects(font (face "...")) text
// styling without shelling out to a system font manager.
package fontresolve

import (
	"fmt"

	"github.com/h2non/filetype"
	"golang.org/x/image/font/sfnt"
)

// Resolved describes one embedded font payload after inspection.
type Resolved struct {
	FamilyName string
	IsFont     bool
}

// Resolve sniffs data's type and, if it looks like a font (TTF/OTF),
// parses just enough of it with golang.org/x/image/font/sfnt to pull
// the family name out of its 'name' table. Non-font payloads (most
// commonly a 3D model or a worksheet template sharing the same
// embedded_files container) report IsFont false rather than erroring,
// since §4.5 only cares about the font subset of the bundle.
func Resolve(data []byte) (Resolved, error) {
	kind, err := filetype.Match(data)
	if err != nil {
		return Resolved{}, fmt.Errorf("sniff embedded file: %w", err)
	}
	if kind.MIME.Value != "application/font-sfnt" && kind.Extension != "ttf" && kind.Extension != "otf" {
		return Resolved{}, nil
	}

	f, err := sfnt.Parse(data)
	if err != nil {
		return Resolved{}, fmt.Errorf("parse embedded font: %w", err)
	}
	var buf sfnt.Buffer
	name, err := f.Name(&buf, sfnt.NameIDFamily)
	if err != nil {
		return Resolved{IsFont: true}, nil
	}
	return Resolved{FamilyName: name, IsFont: true}, nil
}

// ResolveAll resolves every embedded payload, keyed by its declared
// name in the schematic's embedded_files block, skipping non-font
// entries.
func ResolveAll(files map[string][]byte) map[string]Resolved {
	out := make(map[string]Resolved)
	for name, data := range files {
		r, err := Resolve(data)
		if err != nil || !r.IsFont {
			continue
		}
		out[name] = r
	}
	return out
}
