package schematic

import (
	"os"
	"strings"

	"github.com/kicad-go/eda-importers/pkg/diag"
	"github.com/kicad-go/eda-importers/pkg/sexp"
)

// parseLibSymbols is parse_library applied to the (lib_symbols ...)
// block embedded in a schematic document, plus the top-level entry
// point for a standalone .kicad_sym library file (ParseLibraryFile).
func (p *parser) parseLibSymbols(n *sexp.Node, sch *Schematic) error {
	for _, sym := range sexp.FindAllNodes(n, "symbol") {
		ls, err := p.parseLibSymbol(sym)
		if err != nil {
			p.sink.Warning(diag.ParseError, diag.Location{Line: sym.Line}, "%v", err)
			continue
		}
		sch.LibSymbols = append(sch.LibSymbols, ls)
		sch.libSymbolIndex[ls.Name] = &sch.LibSymbols[len(sch.LibSymbols)-1]

		// The deferred half of §4.1's staged FutureFormat gate: a file
		// with no generator_version and a version new enough that the
		// header didn't check inline must be gated here, at the first
		// symbol encountered.
		if !p.versionChecked {
			if err := p.checkVersionGate(diag.Location{Line: sym.Line}); err != nil {
				return err
			}
		}
	}
	return nil
}

// ParseLibraryFile reads a standalone .kicad_sym symbol library, the
// parse_library operation of §4.1's public operations table applied at
// file granularity rather than embedded in a schematic.
func ParseLibraryFile(filename string) ([]LibSymbol, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, diag.NewError(diag.IoError, diag.Location{File: filename}, "%v", err)
	}
	defer f.Close()
	root, err := sexp.Parse(f)
	if err != nil {
		return nil, diag.NewError(diag.IoError, diag.Location{File: filename}, "%v", err)
	}
	return ParseLibrary(root, DefaultOptions(), nil)
}

// ParseLibrary implements parse_library for a standalone
// .kicad_sym-format reader: same (version ...)(generator ...)
// (lib_symbols ...) container grammar as a schematic's embedded block.
func ParseLibrary(root *sexp.Node, opts Options, sink diag.Sink) ([]LibSymbol, error) {
	if sink == nil {
		sink = diag.NewSliceSink()
	}
	if root.Tag() != "kicad_symbol_lib" {
		return nil, diag.NewError(diag.ParseError, diag.Location{Line: root.Line},
			"expected root node 'kicad_symbol_lib', got %q", root.Tag())
	}
	p := newParser(opts, sink, nil)
	verNode, ok := sexp.FindNode(root, "version")
	if !ok {
		return nil, diag.NewError(diag.ParseError, diag.Location{Line: root.Line}, "missing (version ...) header")
	}
	v, err := sexp.GetInt(verNode, 1)
	if err != nil {
		return nil, diag.NewError(diag.ParseError, diag.Location{Line: verNode.Line}, "invalid version: %v", err)
	}
	p.version = v
	p.fixups = fixupsFor(v)
	if genv, ok := sexp.FindNode(root, "generator_version"); ok {
		p.generatorVer, _ = sexp.GetString(genv, 1)
	}
	if p.generatorVer != "" || p.version < 20231120 {
		if err := p.checkVersionGate(diag.Location{Line: root.Line}); err != nil {
			return nil, err
		}
	}

	var out []LibSymbol
	index := make(map[string]*LibSymbol)
	for _, sym := range sexp.FindAllNodes(root, "symbol") {
		ls, err := p.parseLibSymbol(sym)
		if err != nil {
			sink.Warning(diag.ParseError, diag.Location{Line: sym.Line}, "%v", err)
			continue
		}
		out = append(out, ls)
		index[ls.Name] = &out[len(out)-1]
		if !p.versionChecked {
			if err := p.checkVersionGate(diag.Location{Line: sym.Line}); err != nil {
				return nil, err
			}
		}
	}
	resolveExtends(out, index)
	return out, nil
}

// parseLibSymbol handles a single (symbol "Lib:Name" ...) definition,
// including nested (symbol "Name_<unit>_<bodyStyle>" ...) sub-blocks
// per §4.1's "Symbol-unit parsing": names are validated to share the
// parent's prefix, and Units/BodyStyleCount extend to cover whatever
// the highest unit/body-style number observed requires.
func (p *parser) parseLibSymbol(n *sexp.Node) (LibSymbol, error) {
	ls := LibSymbol{UnitCount: 1, BodyStyleCount: 1}
	ls.Name, _ = sexp.GetString(n, 1)

	ls.Power = sexp.HasSymbol(n, "power")
	if ext, ok := sexp.FindNode(n, "extends"); ok {
		ls.Extends, _ = sexp.GetString(ext, 1)
	}
	if pn, ok := sexp.FindNode(n, "pin_names"); ok {
		ls.PinNamesVisible = !sexp.HasHideFlag(pn)
		if off, ok := sexp.FindNode(pn, "offset"); ok {
			ls.PinNamesOffset, _ = sexp.GetFloat(off, 1)
		}
	} else {
		ls.PinNamesVisible = true
	}
	if pnum, ok := sexp.FindNode(n, "pin_numbers"); ok {
		ls.PinNumbersVisible = !sexp.HasHideFlag(pnum)
	} else {
		ls.PinNumbersVisible = true
	}
	if v, ok := sexp.FindNode(n, "in_bom"); ok {
		s, _ := sexp.GetString(v, 1)
		ls.InBOM = s == "yes"
	}
	if v, ok := sexp.FindNode(n, "on_board"); ok {
		s, _ := sexp.GetString(v, 1)
		ls.OnBoard = s == "yes"
	}
	if v, ok := sexp.FindNode(n, "exclude_from_sim"); ok {
		s, _ := sexp.GetString(v, 1)
		ls.ExcludeFromSim = s == "yes"
	}
	ls.LockUnits = sexp.HasSymbol(n, "unit_locked") || sexp.HasSymbol(n, "locked")

	for _, prop := range sexp.FindAllNodes(n, "property") {
		pr, err := sexp.GetProperty(prop)
		if err != nil {
			continue
		}
		pr = p.remapLegacyFieldName(pr)
		switch pr.Key {
		case "ki_description":
			ls.Description = pr.Value
		case "ki_keywords":
			ls.Keywords = pr.Value
		case "ki_fp_filters":
			ls.FPFilters = strings.Fields(pr.Value)
		default:
			ls.Properties = append(ls.Properties, dedupeField(ls.Properties, pr))
		}
	}

	// Top-level draw items (no nested sub-symbol) belong to unit 0,
	// body style 1: visible in every unit/body-style combination.
	var baseItems []DrawItem
	for _, child := range n.Children[1:] {
		if child.Kind != sexp.KindList {
			continue
		}
		switch child.Tag() {
		case "arc", "bezier", "circle", "pin", "polyline", "rectangle", "text", "text_box":
			item, err := ParseSymbolDrawItem(child, p.fixups)
			if err == nil {
				baseItems = append(baseItems, item)
			}
		}
	}
	if len(baseItems) > 0 {
		ls.Units = append(ls.Units, SymbolUnit{Unit: 0, BodyStyle: 1, Items: baseItems})
	}

	for _, sub := range sexp.FindAllNodes(n, "symbol") {
		subName, _ := sexp.GetString(sub, 1)
		if !strings.HasPrefix(subName, ls.Name+"_") {
			p.sink.Warning(diag.ParseError, diag.Location{Line: sub.Line},
				"sub-symbol name %q does not share parent prefix %q", subName, ls.Name)
			continue
		}
		unit, bodyStyle := parseUnitSuffix(subName[len(ls.Name)+1:])
		var items []DrawItem
		for _, child := range sub.Children[1:] {
			if child.Kind != sexp.KindList {
				continue
			}
			switch child.Tag() {
			case "arc", "bezier", "circle", "pin", "polyline", "rectangle", "text", "text_box":
				item, err := ParseSymbolDrawItem(child, p.fixups)
				if err == nil {
					items = append(items, item)
				}
			}
		}
		ls.Units = append(ls.Units, SymbolUnit{Unit: unit, BodyStyle: bodyStyle, Items: items})
		if unit > ls.UnitCount {
			ls.UnitCount = unit
		}
		if bodyStyle > ls.BodyStyleCount {
			ls.BodyStyleCount = bodyStyle
		}
	}

	// DeMorganFromBodyStyle: pre-20200827 files never write an explicit
	// second body style number; its presence is inferred purely from a
	// second drawing set existing under the same unit number.
	if p.fixups.DeMorganFromBodyStyle {
		seen := map[int]int{}
		for _, u := range ls.Units {
			seen[u.Unit]++
			if seen[u.Unit] > ls.BodyStyleCount {
				ls.BodyStyleCount = seen[u.Unit]
			}
		}
	}

	return ls, nil
}

// parseUnitSuffix splits a "<unit>_<bodyStyle>" sub-symbol name suffix;
// a malformed suffix degrades to unit 1, body style 1 rather than
// failing the whole symbol.
func parseUnitSuffix(suffix string) (unit, bodyStyle int) {
	parts := strings.SplitN(suffix, "_", 2)
	unit = atoiDefault(parts[0], 1)
	bodyStyle = 1
	if len(parts) == 2 {
		bodyStyle = atoiDefault(parts[1], 1)
	}
	return
}

func atoiDefault(s string, def int) int {
	n := 0
	if s == "" {
		return def
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return def
		}
		n = n*10 + int(r-'0')
	}
	return n
}

// resolveExtends resolves a derived symbol's Extends field against the
// index of symbols parsed so far in the same library, inheriting units
// and pin data the derived symbol does not itself override. It warns
// (rather than fails) on a missing parent, per the general "boundary
// behaviors" non-fatal-on-dangling-reference pattern.
func resolveExtends(symbols []LibSymbol, index map[string]*LibSymbol) {
	for i := range symbols {
		if symbols[i].Extends == "" {
			continue
		}
		parent, ok := index[symbols[i].Extends]
		if !ok {
			continue
		}
		if len(symbols[i].Units) == 0 {
			symbols[i].Units = parent.Units
		}
		if symbols[i].Description == "" {
			symbols[i].Description = parent.Description
		}
	}
}

// resolveSymbolLibraries links each schematic's symbol instance to its
// library symbol by LibID (§3 "Ownership"), substituting the Dummy
// sentinel when no match exists rather than leaving a nil that every
// caller would need to nil-check.
func (p *parser) resolveSymbolLibraries(sch *Schematic) {
	for i := range sch.Symbols {
		if ls, ok := sch.libSymbolIndex[sch.Symbols[i].LibID]; ok {
			sch.Symbols[i].libSymbol = ls
		} else {
			sch.Symbols[i].Dummy = true
			p.sink.Warning(diag.Inconsistent, diag.Location{},
				"symbol instance %s references unknown library symbol %q", sch.Symbols[i].UUID, sch.Symbols[i].LibID)
		}
	}
	resolveExtends(sch.LibSymbols, sch.libSymbolIndex)
}

// parseSymbolInstance is the (symbol (lib_id ...) ...) placement form
// embedded directly in a schematic sheet.
func (p *parser) parseSymbolInstance(n *sexp.Node) (SymbolInstance, error) {
	si := SymbolInstance{}
	si.UUID, _ = sexp.GetUUID(n)
	if lid, ok := sexp.FindNode(n, "lib_id"); ok {
		si.LibID, _ = sexp.GetString(lid, 1)
	}
	if at, ok := sexp.FindNode(n, "at"); ok {
		si.Position, _ = sexp.GetPosition(at)
	}
	if u, ok := sexp.FindNode(n, "unit"); ok {
		si.Unit, _ = sexp.GetInt(u, 1)
	}
	if m, ok := sexp.FindNode(n, "mirror"); ok {
		si.Mirror, _ = sexp.GetString(m, 1)
	}
	if v, ok := sexp.FindNode(n, "dnp"); ok {
		s, _ := sexp.GetString(v, 1)
		si.DNP = s == "yes"
	}
	if v, ok := sexp.FindNode(n, "in_bom"); ok {
		s, _ := sexp.GetString(v, 1)
		si.InBOM = s == "yes"
	} else {
		si.InBOM = true
	}
	if v, ok := sexp.FindNode(n, "on_board"); ok {
		s, _ := sexp.GetString(v, 1)
		si.OnBoard = s == "yes"
	} else {
		si.OnBoard = true
	}
	if v, ok := sexp.FindNode(n, "fields_autoplaced"); ok {
		s, _ := sexp.GetString(v, 1)
		si.Fields = s == "yes"
	}

	for _, prop := range sexp.FindAllNodes(n, "property") {
		pr, err := sexp.GetProperty(prop)
		if err != nil {
			continue
		}
		pr = p.remapLegacyFieldName(pr)
		si.Properties = append(si.Properties, dedupeField(si.Properties, pr))
	}

	for _, pin := range sexp.FindAllNodes(n, "pin") {
		num, _ := sexp.GetString(pin, 1)
		if alt, ok := sexp.FindNode(pin, "alternate"); ok {
			name, _ := sexp.GetString(alt, 1)
			if si.PinAlternates == nil {
				si.PinAlternates = make(map[string]string)
			}
			si.PinAlternates[num] = name
		}
	}

	if instBlock, ok := sexp.FindNode(n, "instances"); ok {
		for _, proj := range sexp.FindAllNodes(instBlock, "project") {
			for _, pathNode := range sexp.FindAllNodes(proj, "path") {
				path, _ := sexp.GetString(pathNode, 1)
				if p.fixups.PrefixSheetInstancePaths && len(path) > 0 && path[0] != '/' {
					path = "/" + path
				}
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
				si.Instances = append(si.Instances, data)
			}
		}
	}

	return si, nil
}
