package schematic

import (
	"fmt"
	"io"
	"os"

	"github.com/kicad-go/eda-importers/pkg/diag"
	"github.com/kicad-go/eda-importers/pkg/idgen"
	"github.com/kicad-go/eda-importers/pkg/progress"
	"github.com/kicad-go/eda-importers/pkg/sexp"
)

// parser holds the state threaded through one parse_schematic or
// parse_library call: the explicit collaborators named in the "Global
// state in the source" design note (options, sink, progress observer)
// plus per-document allocation state.
type parser struct {
	opts  Options
	sink  diag.Sink
	obs   progress.Observer
	alloc *idgen.Allocator

	version      int
	generatorVer string
	fixups       fixupSet
	// itemCount stands in for the §4.1 "every 500 input lines" check:
	// the external tokenizer boundary this module consumes (spec.md §1,
	// "the low-level tokenizer... we assume a stream of tokens") does
	// not expose source line numbers, so progress is approximated by
	// counting top-level items instead of lines.
	itemCount       int
	versionChecked  bool
	rootUUID        string
}

func newParser(opts Options, sink diag.Sink, obs progress.Observer) *parser {
	if sink == nil {
		sink = diag.NewSliceSink()
	}
	if obs == nil {
		obs = progress.Noop{}
	}
	return &parser{opts: opts, sink: sink, obs: obs, alloc: idgen.NewAllocator()}
}

// ParseFile opens filename and runs ParseWithOptions using default
// options and a fresh in-memory sink, for callers (and the CLI) that
// don't need fine control.
func ParseFile(filename string) (*Schematic, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, diag.NewError(diag.IoError, diag.Location{File: filename}, "%v", err)
	}
	defer f.Close()
	sch, _, err := ParseWithOptions(f, DefaultOptions(), nil, nil)
	return sch, err
}

// Parse matches the donor's minimal test-facing signature: parse a
// schematic from r using default options, discarding warnings.
func Parse(r io.Reader) (*Schematic, error) {
	sch, _, err := ParseWithOptions(r, DefaultOptions(), nil, nil)
	return sch, err
}

// ParseWithOptions is parse_schematic from §4.1's public operations
// table: it populates a new Schematic with items, sheet instances, and
// symbol instances, and resolves groups. It returns the sink so a
// caller using the default SliceSink can inspect warnings even though
// it passed nil.
func ParseWithOptions(r io.Reader, opts Options, sink diag.Sink, obs progress.Observer) (*Schematic, diag.Sink, error) {
	if sink == nil {
		sink = diag.NewSliceSink()
	}
	root, err := sexp.Parse(r)
	if err != nil {
		return nil, sink, diag.NewError(diag.IoError, diag.Location{}, "%v", err)
	}
	if root.Tag() != "kicad_sch" {
		return nil, sink, diag.NewError(diag.ParseError, diag.Location{Line: root.Line},
			"expected root node 'kicad_sch', got %q", root.Tag())
	}

	p := newParser(opts, sink, obs)
	sch := &Schematic{libSymbolIndex: make(map[string]*LibSymbol)}

	if err := p.parseHeader(root, sch); err != nil {
		return nil, sink, err
	}

	every := p.opts.CheckpointEvery
	if every <= 0 {
		every = 500
	}
	for _, child := range root.Children[1:] {
		p.itemCount++
		if p.itemCount%every == 0 && progress.Checkpoint(p.obs, p.itemCount, 0) {
			return nil, sink, diag.NewError(diag.IoCanceled, diag.Location{}, "cancelled")
		}

		if err := p.parseTopLevelItem(child, sch); err != nil {
			return nil, sink, err
		}
	}

	if !p.versionChecked {
		if err := p.checkVersionGate(diag.Location{Line: root.Line}); err != nil {
			return nil, sink, err
		}
	}

	p.resolveGroups(sch)
	p.resolveLegacySymbolInstances(sch)
	p.resolveSymbolLibraries(sch)
	p.resolveFonts(sch)

	return sch, sink, nil
}

// parseHeader reads (version N), (generator ...), (generator_version
// ...), (uuid ...), (paper ...), (title_block ...), per §6's grammar,
// and applies the staged FutureFormat gate of §4.1.
func (p *parser) parseHeader(root *sexp.Node, sch *Schematic) error {
	verNode, ok := sexp.FindNode(root, "version")
	if !ok {
		return diag.NewError(diag.ParseError, diag.Location{Line: root.Line}, "missing (version ...) header")
	}
	v, err := sexp.GetInt(verNode, 1)
	if err != nil {
		return diag.NewError(diag.ParseError, diag.Location{Line: verNode.Line}, "invalid version: %v", err)
	}
	p.version = v
	sch.Version = v
	p.fixups = fixupsFor(v)

	if gen, ok := sexp.FindNode(root, "generator"); ok {
		sch.Generator, _ = sexp.GetString(gen, 1)
	}
	if genv, ok := sexp.FindNode(root, "generator_version"); ok {
		sch.GeneratorVer, _ = sexp.GetString(genv, 1)
		p.generatorVer = sch.GeneratorVer
	}

	if sch.GeneratorVer != "" {
		// generator_version present: check fails fast, per §4.1.
		if err := p.checkVersionGate(diag.Location{Line: root.Line}); err != nil {
			return err
		}
	} else if p.version < 20231120 {
		// Fixup row "version < 20231120: no generator_version present
		// -> perform the version check inline at end of header."
		if err := p.checkVersionGate(diag.Location{Line: root.Line}); err != nil {
			return err
		}
	}
	// Otherwise (legacy file, no generator_version, version >=
	// 20231120 which cannot actually occur together in practice but is
	// handled defensively) the check is deferred to the first symbol,
	// per §4.1; see parseLibSymbols.

	if u, ok := sexp.GetUUID(root); ok {
		sch.UUID = p.alloc.Claim(u)
	} else {
		// Pre-UUID file: synthesize deterministically from the screen's
		// own identity (here, the generator+paper+version tuple stands
		// in for "the screen's own identifier" in the absence of a
		// filename at this layer) per the "Legacy UUID synthesis" note.
		sch.UUID = p.alloc.SynthesizeLegacy(fmt.Sprintf("%s|%s|%d", sch.Generator, sch.Paper, v))
	}
	p.rootUUID = sch.UUID

	if paper, ok := sexp.FindNode(root, "paper"); ok {
		sch.Paper, _ = sexp.GetString(paper, 1)
		if w, err := sexp.GetFloat(paper, 2); err == nil {
			sch.PaperW = w
		}
		if h, err := sexp.GetFloat(paper, 3); err == nil {
			sch.PaperH = h
		}
		sch.PaperPortrait = sexp.HasSymbol(paper, "portrait")
	}

	if tb, ok := sexp.FindNode(root, "title_block"); ok {
		sch.TitleBlock = p.parseTitleBlock(tb)
	}

	if ef, ok := sexp.FindNode(root, "embedded_fonts"); ok {
		v, _ := sexp.GetString(ef, 1)
		sch.EmbeddedFonts = v == "yes"
	}

	return nil
}

// checkVersionGate implements the FutureFormat half of §4.1's version
// gate: N > V is fatal when the gate fires.
func (p *parser) checkVersionGate(loc diag.Location) error {
	p.versionChecked = true
	if p.version > p.opts.MaxSupportedVersion {
		return diag.NewFutureFormat(loc, p.opts.MaxSupportedVersion, p.generatorVer)
	}
	return nil
}

func (p *parser) parseTitleBlock(n *sexp.Node) TitleBlock {
	tb := TitleBlock{}
	if t, ok := sexp.FindNode(n, "title"); ok {
		tb.Title, _ = sexp.GetString(t, 1)
	}
	if d, ok := sexp.FindNode(n, "date"); ok {
		tb.Date, _ = sexp.GetString(d, 1)
	}
	if r, ok := sexp.FindNode(n, "rev"); ok {
		tb.Revision, _ = sexp.GetString(r, 1)
	}
	if c, ok := sexp.FindNode(n, "company"); ok {
		tb.Company, _ = sexp.GetString(c, 1)
	}
	for _, c := range sexp.FindAllNodes(n, "comment") {
		idx, err := sexp.GetInt(c, 1)
		if err != nil || idx < 1 || idx > 9 {
			continue
		}
		text, _ := sexp.GetString(c, 2)
		tb.Comments[idx-1] = text
	}
	return tb
}

// parseTopLevelItem dispatches one ITEM production from §6's grammar.
func (p *parser) parseTopLevelItem(n *sexp.Node, sch *Schematic) error {
	if n.Kind != sexp.KindList {
		return nil
	}
	switch n.Tag() {
	case "lib_symbols":
		return p.parseLibSymbols(n, sch)
	case "symbol":
		inst, err := p.parseSymbolInstance(n)
		if err != nil {
			p.sink.Warning(diag.ParseError, diag.Location{Line: n.Line}, "%v", err)
			return nil
		}
		sch.Symbols = append(sch.Symbols, inst)
	case "wire":
		sch.Wires = append(sch.Wires, p.parseWireLike(n))
	case "bus":
		sch.Buses = append(sch.Buses, p.parseWireLike(n))
	case "bus_entry":
		sch.BusEntries = append(sch.BusEntries, p.parseBusEntry(n))
	case "bus_alias":
		sch.BusAliases = append(sch.BusAliases, p.parseBusAlias(n))
	case "junction":
		sch.Junctions = append(sch.Junctions, p.parseJunction(n))
	case "no_connect":
		sch.NoConnects = append(sch.NoConnects, p.parseNoConnect(n))
	case "label":
		sch.Labels = append(sch.Labels, p.parseLabel(n, "plain"))
	case "global_label":
		sch.GlobalLabels = append(sch.GlobalLabels, p.parseLabel(n, "global"))
	case "hierarchical_label":
		sch.HierLabels = append(sch.HierLabels, p.parseLabel(n, "hierarchical"))
	case "directive_label":
		sch.DirectiveLabels = append(sch.DirectiveLabels, p.parseLabel(n, "directive"))
	case "sheet":
		sheet, err := p.parseSheet(n)
		if err != nil {
			p.sink.Warning(diag.ParseError, diag.Location{Line: n.Line}, "%v", err)
			return nil
		}
		sch.Sheets = append(sch.Sheets, sheet)
	case "polyline":
		item, err := ParseSymbolDrawItem(n, p.fixups)
		if err == nil {
			sch.Polylines = append(sch.Polylines, item)
		}
	case "arc", "circle", "rectangle", "bezier":
		// Free-standing schematic-sheet shapes reuse the same
		// draw-item grammar as library graphics (§6 ITEM production).
		item, err := ParseSymbolDrawItem(n, p.fixups)
		if err == nil {
			sch.Polylines = append(sch.Polylines, item)
		}
	case "text":
		item, err := ParseSymbolDrawItem(n, p.fixups)
		if err == nil {
			sch.Texts = append(sch.Texts, item)
		}
	case "text_box":
		item, err := ParseSymbolDrawItem(n, p.fixups)
		if err == nil {
			sch.TextBoxes = append(sch.TextBoxes, item)
		}
	case "table":
		sch.Tables = append(sch.Tables, p.parseTable(n))
	case "image":
		sch.Images = append(sch.Images, p.parseImage(n))
	case "group":
		p.parseGroupRef(n, sch)
	case "rule_area":
		sch.RuleAreas = append(sch.RuleAreas, p.parseRuleArea(n))
	case "sheet_instances":
		sch.SheetInstances = p.parseSheetInstances(n)
	case "symbol_instances":
		p.parseLegacySymbolInstances(n, sch)
	case "embedded_files":
		sch.EmbeddedFiles = p.parseEmbeddedFiles(n)
	case "version", "generator", "generator_version", "uuid", "paper", "title_block", "embedded_fonts":
		// handled in parseHeader
	default:
		p.sink.Warning(diag.Unsupported, diag.Location{Line: n.Line}, "unrecognized top-level item %q", n.Tag())
	}
	return nil
}
