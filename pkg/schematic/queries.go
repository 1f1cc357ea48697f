package schematic

import (
	"sort"

	"github.com/maruel/natural"
)

// GetSymbol returns the symbol instance with the given reference
// designator (its "Reference" property), or nil.
func (s *Schematic) GetSymbol(ref string) *SymbolInstance {
	for i := range s.Symbols {
		if s.propertyValue(&s.Symbols[i], "Reference") == ref {
			return &s.Symbols[i]
		}
	}
	return nil
}

// GetSymbolsByLib returns every instance whose LibID matches.
func (s *Schematic) GetSymbolsByLib(libID string) []*SymbolInstance {
	var out []*SymbolInstance
	for i := range s.Symbols {
		if s.Symbols[i].LibID == libID {
			out = append(out, &s.Symbols[i])
		}
	}
	return out
}

// GetAllReferences returns every symbol's reference designator, sorted
// in natural order (R1, R2, R10 — not R1, R10, R2).
func (s *Schematic) GetAllReferences() []string {
	var refs []string
	for i := range s.Symbols {
		if ref := s.propertyValue(&s.Symbols[i], "Reference"); ref != "" {
			refs = append(refs, ref)
		}
	}
	sort.Sort(natural.StringSlice(refs))
	return refs
}

// GetLabels returns the text of every label (plain, global, and
// hierarchical) in the sheet, in document order.
func (s *Schematic) GetLabels() []string {
	var out []string
	for _, l := range s.Labels {
		out = append(out, l.Text)
	}
	for _, l := range s.GlobalLabels {
		out = append(out, l.Text)
	}
	for _, l := range s.HierLabels {
		out = append(out, l.Text)
	}
	return out
}

// GetBoundingBox computes the sheet's overall bounding box across
// wires, symbols, and sheet borders.
func (s *Schematic) GetBoundingBox() BoundingBox {
	bb := BoundingBox{Min: Position{X: 1e18, Y: 1e18}, Max: Position{X: -1e18, Y: -1e18}}
	expand := func(p Position) {
		if p.X < bb.Min.X {
			bb.Min.X = p.X
		}
		if p.Y < bb.Min.Y {
			bb.Min.Y = p.Y
		}
		if p.X > bb.Max.X {
			bb.Max.X = p.X
		}
		if p.Y > bb.Max.Y {
			bb.Max.Y = p.Y
		}
	}
	for _, w := range s.Wires {
		for _, p := range w.Points {
			expand(p)
		}
	}
	for i := range s.Symbols {
		expand(s.Symbols[i].Position.Position)
	}
	for _, sh := range s.Sheets {
		expand(sh.Position)
		expand(Position{X: sh.Position.X + sh.Size.Width, Y: sh.Position.Y + sh.Size.Height})
	}
	return bb
}

func (s *Schematic) propertyValue(sym *SymbolInstance, key string) string {
	for _, p := range sym.Properties {
		if p.Key == key {
			return p.Value
		}
	}
	return ""
}

// ResolveMember looks up an item by UUID across every owning
// collection, used by resolve_groups (§4.1 "Groups") to link a group's
// member UUIDs to the already-created items they name.
func (s *Schematic) ResolveMember(uuid string) (kind string, ok bool) {
	for i := range s.Symbols {
		if s.Symbols[i].UUID == uuid {
			return "symbol", true
		}
	}
	for _, w := range s.Wires {
		if w.UUID == uuid {
			return "wire", true
		}
	}
	for _, l := range s.Labels {
		if l.UUID == uuid {
			return "label", true
		}
	}
	for _, g := range s.Groups {
		if g.UUID == uuid {
			return "group", true
		}
	}
	return "", false
}
