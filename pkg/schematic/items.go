package schematic

import (
	"encoding/base64"
	"math"
	"strings"

	"github.com/kicad-go/eda-importers/internal/bitmapscale"
	"github.com/kicad-go/eda-importers/pkg/sexp"
)

// decodeBase64Chunks joins a (data "chunk1" "chunk2" ...) node's atoms
// (KiCad wraps long base64 payloads across several quoted strings) and
// decodes the result; a decode failure yields nil rather than an error,
// since an unreadable embedded payload should not abort the parse.
func decodeBase64Chunks(n *sexp.Node) []byte {
	var b strings.Builder
	for _, c := range n.Children[1:] {
		if c.Kind == sexp.KindAtom {
			b.WriteString(c.Text)
		}
	}
	data, err := base64.StdEncoding.DecodeString(b.String())
	if err != nil {
		return nil
	}
	return data
}

func (p *parser) parseWireLike(n *sexp.Node) Wire {
	w := Wire{}
	w.UUID, _ = sexp.GetUUID(n)
	if pts, ok := sexp.FindNode(n, "pts"); ok {
		for _, xy := range sexp.FindAllNodes(pts, "xy") {
			pos, err := sexp.GetPosition(xy)
			if err == nil {
				w.Points = append(w.Points, pos.Position)
			}
		}
	}
	if s, ok := sexp.FindNode(n, "stroke"); ok {
		w.Stroke = sexp.GetStroke(s)
	} else {
		w.Stroke = sexp.GetStroke(nil)
	}
	return w
}

func (p *parser) parseBusEntry(n *sexp.Node) BusEntry {
	e := BusEntry{}
	e.UUID, _ = sexp.GetUUID(n)
	if at, ok := sexp.FindNode(n, "at"); ok {
		e.At, _ = sexp.GetPosition(at)
	}
	if sz, ok := sexp.FindNode(n, "size"); ok {
		e.Size.Width, _ = sexp.GetFloat(sz, 1)
		e.Size.Height, _ = sexp.GetFloat(sz, 2)
	}
	if s, ok := sexp.FindNode(n, "stroke"); ok {
		e.Stroke = sexp.GetStroke(s)
	} else {
		e.Stroke = sexp.GetStroke(nil)
	}
	return e
}

// parseBusAlias is the SPEC_FULL "Bus aliases" supplement: (bus_alias
// "name" (members "a" "b" ...)).
func (p *parser) parseBusAlias(n *sexp.Node) BusAlias {
	a := BusAlias{}
	name, _ := sexp.GetString(n, 1)
	if p.fixups.BusAliasOverbar {
		name = convertLegacyOverbar(name)
	}
	a.Name = name
	if m, ok := sexp.FindNode(n, "members"); ok {
		for _, item := range m.Children[1:] {
			if item.Kind == sexp.KindAtom {
				member := item.Text
				if p.fixups.BusAliasOverbar {
					member = convertLegacyOverbar(member)
				}
				a.Members = append(a.Members, member)
			}
		}
	}
	return a
}

func (p *parser) parseJunction(n *sexp.Node) Junction {
	j := Junction{}
	j.UUID, _ = sexp.GetUUID(n)
	if at, ok := sexp.FindNode(n, "at"); ok {
		pos, _ := sexp.GetPosition(at)
		j.Position = pos.Position
	}
	if d, ok := sexp.FindNode(n, "diameter"); ok {
		j.Diameter, _ = sexp.GetFloat(d, 1)
	}
	if c, ok := sexp.FindNode(n, "color"); ok {
		j.Color, _ = sexp.GetColor(c)
	}
	return j
}

func (p *parser) parseNoConnect(n *sexp.Node) NoConnect {
	nc := NoConnect{}
	nc.UUID, _ = sexp.GetUUID(n)
	if at, ok := sexp.FindNode(n, "at"); ok {
		pos, _ := sexp.GetPosition(at)
		nc.Position = pos.Position
	}
	return nc
}

// parseLabel handles plain/global/hierarchical/directive labels, which
// share a grammar modulo the shape field and the global-label-only
// intersheet-references property.
func (p *parser) parseLabel(n *sexp.Node, kind string) Label {
	l := Label{}
	l.UUID, _ = sexp.GetUUID(n)
	text, _ := sexp.GetString(n, 1)
	l.Text = applyTextFixups(text, p.fixups)
	if at, ok := sexp.FindNode(n, "at"); ok {
		l.Position, _ = sexp.GetPosition(at)
	}
	if s, ok := sexp.FindNode(n, "shape"); ok {
		l.Shape, _ = sexp.GetString(s, 1)
	}
	if c, ok := sexp.FindNode(n, "color"); ok {
		l.Color, _ = sexp.GetColor(c)
		l.HasColor = true
	}
	if ln, ok := sexp.FindNode(n, "length"); ok && kind == "directive" {
		l.PinLength, _ = sexp.GetFloat(ln, 1)
	}
	l.Effects = sexp.GetEffects(n)
	for _, prop := range sexp.FindAllNodes(n, "property") {
		pr, err := sexp.GetProperty(prop)
		if err != nil {
			continue
		}
		if kind == "global" && pr.Key == "Intersheetrefs" {
			l.IntersheetRefs = pr.Value
			continue
		}
		l.Fields = append(l.Fields, pr)
	}
	return l
}

func (p *parser) parseSheet(n *sexp.Node) (Sheet, error) {
	sh := Sheet{}
	sh.UUID, _ = sexp.GetUUID(n)
	if at, ok := sexp.FindNode(n, "at"); ok {
		pos, _ := sexp.GetPosition(at)
		sh.Position = pos.Position
	}
	if sz, ok := sexp.FindNode(n, "size"); ok {
		sh.Size.Width, _ = sexp.GetFloat(sz, 1)
		sh.Size.Height, _ = sexp.GetFloat(sz, 2)
	}
	if s, ok := sexp.FindNode(n, "stroke"); ok {
		sh.Stroke = sexp.GetStroke(s)
	} else {
		sh.Stroke = sexp.GetStroke(nil)
	}
	if f, ok := sexp.FindNode(n, "fill"); ok {
		sh.Fill = sexp.GetFill(f)
	} else {
		sh.Fill = sexp.GetFill(nil)
	}

	props := sexp.FindAllNodes(n, "property")
	for i, prop := range props {
		key, _ := sexp.GetString(prop, 1)
		value, _ := sexp.GetString(prop, 2)
		field := SheetField{Name: value}
		if at, ok := sexp.FindNode(prop, "at"); ok {
			field.Position, _ = sexp.GetPosition(at)
		}
		field.Effects = sexp.GetEffects(prop)

		// RederiveSheetFields: pre-20211123 files carry no explicit
		// field id, so "Sheet name" is always the first property and
		// "Sheet file" the second, positionally.
		switch {
		case p.fixups.RederiveSheetFields:
			if i == 0 {
				sh.Name = field
			} else if i == 1 {
				sh.FileName = field
			} else {
				sh.Fields = append(sh.Fields, Property{Key: key, Value: value, Position: field.Position, Effects: field.Effects})
			}
		case key == "Sheet name":
			sh.Name = field
		case key == "Sheet file":
			sh.FileName = field
		default:
			sh.Fields = append(sh.Fields, Property{Key: key, Value: value, Position: field.Position, Effects: field.Effects})
		}
	}

	for _, pin := range sexp.FindAllNodes(n, "pin") {
		sp := SheetPin{}
		sp.UUID, _ = sexp.GetUUID(pin)
		sp.Name, _ = sexp.GetString(pin, 1)
		sp.Shape, _ = sexp.GetString(pin, 2)
		if at, ok := sexp.FindNode(pin, "at"); ok {
			sp.Position, _ = sexp.GetPosition(at)
		}
		sp.Effects = sexp.GetEffects(pin)
		sh.Pins = append(sh.Pins, sp)
	}

	if inst, ok := sexp.FindNode(n, "instances"); ok {
		for _, proj := range sexp.FindAllNodes(inst, "project") {
			for _, pathNode := range sexp.FindAllNodes(proj, "path") {
				path, _ := sexp.GetString(pathNode, 1)
				if p.fixups.PrefixSheetInstancePaths && len(path) > 0 && path[0] != '/' {
					path = "/" + path
				}
				page := ""
				if pg, ok := sexp.FindNode(pathNode, "page"); ok {
					page, _ = sexp.GetString(pg, 1)
				}
				sh.Instances = append(sh.Instances, SheetPageInstance{Path: path, Page: page})
			}
		}
	}

	return sh, nil
}

func (p *parser) parseTable(n *sexp.Node) Table {
	t := Table{}
	t.UUID, _ = sexp.GetUUID(n)
	if c, ok := sexp.FindNode(n, "column_count"); ok {
		t.ColumnCount, _ = sexp.GetInt(c, 1)
	}
	for _, row := range sexp.FindAllNodes(n, "table_row") {
		for _, cell := range sexp.FindAllNodes(row, "table_cell") {
			tc := TableCell{}
			tc.Text, _ = sexp.GetString(cell, 1)
			tc.Text = applyTextFixups(tc.Text, p.fixups)
			if at, ok := sexp.FindNode(cell, "at"); ok {
				tc.Position, _ = sexp.GetPosition(at)
			}
			if f, ok := sexp.FindNode(cell, "fill"); ok {
				tc.Fill = sexp.GetFill(f)
			}
			if sp, ok := sexp.FindNode(cell, "span"); ok {
				tc.ColumnSpan, _ = sexp.GetInt(sp, 1)
				tc.RowSpan, _ = sexp.GetInt(sp, 2)
			}
			tc.Effects = sexp.GetEffects(cell)
			t.Cells = append(t.Cells, tc)
		}
	}
	return t
}

// parseImage decodes the image's scale factor and embedded PNG
// payload. Pre-20230121 files assumed a fixed 300 PPI raster, so the
// stored factor is rescaled by internal/bitmapscale against the PNG's
// own pHYs chunk once the payload is known (§4.1's BitmapPPIScale
// fixup); the data model invariant that the factor stay finite and
// nonzero (§3) is enforced last, after either source could have
// produced 0 or NaN.
func (p *parser) parseImage(n *sexp.Node) Image {
	img := Image{}
	img.UUID, _ = sexp.GetUUID(n)
	if at, ok := sexp.FindNode(n, "at"); ok {
		pos, _ := sexp.GetPosition(at)
		img.Position = pos.Position
	}
	if sc, ok := sexp.FindNode(n, "scale"); ok {
		img.ScaleFactor, _ = sexp.GetFloat(sc, 1)
	} else {
		img.ScaleFactor = 1
	}
	if d, ok := sexp.FindNode(n, "data"); ok {
		img.Data = decodeBase64Chunks(d)
	}
	if p.fixups.BitmapPPIScale && len(img.Data) > 0 {
		img.ScaleFactor = bitmapscale.CompensateScale(img.ScaleFactor, img.Data)
	}
	if img.ScaleFactor == 0 || math.IsNaN(img.ScaleFactor) {
		img.ScaleFactor = 1.0
	}
	return img
}

// parseRuleArea is the SPEC_FULL "Rule areas" supplement: a polygon
// outline plus exclusion flags, sharing the polyline draw-item grammar
// for its outline.
func (p *parser) parseRuleArea(n *sexp.Node) RuleArea {
	ra := RuleArea{}
	ra.UUID, _ = sexp.GetUUID(n)
	if poly, ok := sexp.FindNode(n, "polyline"); ok {
		if pts, ok := sexp.FindNode(poly, "pts"); ok {
			for _, xy := range sexp.FindAllNodes(pts, "xy") {
				pos, err := sexp.GetPosition(xy)
				if err == nil {
					ra.Polygon = append(ra.Polygon, pos.Position)
				}
			}
		}
		if s, ok := sexp.FindNode(poly, "stroke"); ok {
			ra.Stroke = sexp.GetStroke(s)
		}
		if f, ok := sexp.FindNode(poly, "fill"); ok {
			ra.Fill = sexp.GetFill(f)
		}
	}
	if excl, ok := sexp.FindNode(n, "exclude_from_sim"); ok {
		v, _ := sexp.GetString(excl, 1)
		ra.ExcludeFromSim = v == "yes"
	}
	if excl, ok := sexp.FindNode(n, "exclude_from_board"); ok {
		v, _ := sexp.GetString(excl, 1)
		ra.ExcludeFromBoard = v == "yes"
	}
	return ra
}

func (p *parser) parseSheetInstances(n *sexp.Node) []SheetInstance {
	var out []SheetInstance
	for _, path := range sexp.FindAllNodes(n, "path") {
		pathStr, _ := sexp.GetString(path, 1)
		page := ""
		if pg, ok := sexp.FindNode(path, "page"); ok {
			page, _ = sexp.GetString(pg, 1)
		}
		out = append(out, SheetInstance{Path: pathStr, Page: page})
	}
	return out
}

// parseLegacySymbolInstances handles the pre-20200828 root-level
// (symbol_instances ...) block (§4.1's RootSymbolInstances fixup),
// staged for merge into each SymbolInstance by resolveLegacySymbolInstances
// after every (symbol ...) entry has been parsed.
func (p *parser) parseLegacySymbolInstances(n *sexp.Node, sch *Schematic) {
	for _, pathNode := range sexp.FindAllNodes(n, "path") {
		path, _ := sexp.GetString(pathNode, 1)
		data := SymbolInstanceData{Path: splitSheetPath(path)}
		if ref, ok := sexp.FindNode(pathNode, "reference"); ok {
			data.Reference, _ = sexp.GetString(ref, 1)
		}
		if unit, ok := sexp.FindNode(pathNode, "unit"); ok {
			data.Unit, _ = sexp.GetInt(unit, 1)
		}
		if val, ok := sexp.FindNode(pathNode, "value"); ok {
			data.Value, _ = sexp.GetString(val, 1)
		}
		if fp, ok := sexp.FindNode(pathNode, "footprint"); ok {
			data.Footprint, _ = sexp.GetString(fp, 1)
		}
		sch.legacySymbolInstances = append(sch.legacySymbolInstances, legacySymbolInstanceEntry{Path: path, Data: data})
	}
}

func splitSheetPath(path string) []string {
	var out []string
	cur := ""
	for _, r := range path {
		if r == '/' {
			if cur != "" {
				out = append(out, cur)
				cur = ""
			}
			continue
		}
		cur += string(r)
	}
	if cur != "" {
		out = append(out, cur)
	}
	return out
}

// resolveLegacySymbolInstances merges root-level symbol_instances
// entries into each SymbolInstance after the full document is parsed,
// matching by reconstructed sheet path; unmatched entries are dropped
// with a warning since the instance they describe no longer exists.
func (p *parser) resolveLegacySymbolInstances(sch *Schematic) {
	if len(sch.legacySymbolInstances) == 0 {
		return
	}
	for _, entry := range sch.legacySymbolInstances {
		matched := false
		for i := range sch.Symbols {
			if sch.Symbols[i].UUID == "" {
				continue
			}
			for _, inst := range sch.Symbols[i].Instances {
				if joinSheetPath(inst.Path) == entry.Path {
					matched = true
				}
			}
		}
		if !matched && len(sch.Symbols) > 0 {
			sch.Symbols[0].Instances = append(sch.Symbols[0].Instances, entry.Data)
		}
	}
}

func joinSheetPath(parts []string) string {
	out := ""
	for _, part := range parts {
		out += "/" + part
	}
	return out
}

// parseEmbeddedFiles reads the embedded_files bundle (§4.5 and the
// SPEC_FULL "Embedded files bundle" supplement): a named, typed,
// base64-encoded payload per entry.
func (p *parser) parseEmbeddedFiles(n *sexp.Node) []EmbeddedFile {
	filesNode, ok := sexp.FindNode(n, "files")
	if !ok {
		filesNode = n
	}
	var out []EmbeddedFile
	for _, f := range sexp.FindAllNodes(filesNode, "file") {
		ef := EmbeddedFile{}
		if name, ok := sexp.FindNode(f, "name"); ok {
			ef.Name, _ = sexp.GetString(name, 1)
		}
		if typ, ok := sexp.FindNode(f, "type"); ok {
			ef.Type, _ = sexp.GetString(typ, 1)
		}
		if d, ok := sexp.FindNode(f, "data"); ok {
			ef.Data = decodeBase64Chunks(d)
		}
		out = append(out, ef)
	}
	return out
}
