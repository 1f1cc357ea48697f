package pcb

import (
	"io"
	"os"

	"github.com/kicad-go/eda-importers/pkg/diag"
	"github.com/kicad-go/eda-importers/pkg/idgen"
	"github.com/kicad-go/eda-importers/pkg/progress"
	"github.com/kicad-go/eda-importers/pkg/sexp"
)

type parser struct {
	opts  Options
	sink  diag.Sink
	obs   progress.Observer
	alloc *idgen.Allocator
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

// ParseFile opens and parses a .kicad_pcb file with default options.
func ParseFile(filename string) (*Board, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, diag.NewError(diag.IoError, diag.Location{File: filename}, "%v", err)
	}
	defer f.Close()
	b, _, err := ParseWithOptions(f, DefaultOptions(), nil, nil)
	return b, err
}

// Parse reads a .kicad_pcb document from r with default options.
func Parse(r io.Reader) (*Board, error) {
	b, _, err := ParseWithOptions(r, DefaultOptions(), nil, nil)
	return b, err
}

// ParseWithOptions is the board-model entry point analogous to
// schematic.ParseWithOptions: one KiCad board file, a single pass
// over the top-level forms, then the two-pass group resolution.
func ParseWithOptions(r io.Reader, opts Options, sink diag.Sink, obs progress.Observer) (*Board, diag.Sink, error) {
	root, err := sexp.Parse(r)
	if err != nil {
		return nil, sink, diag.NewError(diag.ParseError, diag.Location{}, "%v", err)
	}
	if root.Tag() != "kicad_pcb" {
		return nil, sink, diag.NewError(diag.ParseError, diag.Location{}, "not a kicad_pcb document (got %q)", root.Tag())
	}

	p := newParser(opts, sink, obs)
	sink = p.sink

	b := &Board{}
	if v, ok := sexp.FindNode(root, "version"); ok {
		b.Version, _ = sexp.GetInt(v, 1)
	}
	if g, ok := sexp.FindNode(root, "generator"); ok {
		b.Generator, _ = sexp.GetString(g, 1)
	}
	if gv, ok := sexp.FindNode(root, "generator_version"); ok {
		b.GeneratorVer, _ = sexp.GetString(gv, 1)
	}
	if b.Version > p.opts.MaxSupportedVersion {
		return nil, sink, diag.NewFutureFormat(diag.Location{}, p.opts.MaxSupportedVersion, b.GeneratorVer)
	}
	b.UUID = p.alloc.New()

	b.General = parseGeneral(root)
	if ln, ok := sexp.FindNode(root, "layers"); ok {
		b.Layers = parseLayers(ln)
	} else {
		b.Layers = NewLayerMap(nil)
	}
	b.Stackup = parseStackup(root)
	b.Setup = parseSetup(root)
	b.Nets = parseNets(root)

	b.Footprints = parseFootprints(root, b.Nets)
	b.Graphics = parseGraphics(root)

	for _, dn := range sexp.FindAllNodes(root, "dimension") {
		if d, err := parseDimension(dn); err == nil {
			b.Dimensions = append(b.Dimensions, d)
		}
	}

	itemCount := 0
	every := p.opts.CheckpointEvery
	if every <= 0 {
		every = 500
	}
	checkpoint := func() error {
		itemCount++
		if itemCount%every == 0 && progress.Checkpoint(p.obs, itemCount, 0) {
			return diag.NewError(diag.IoCanceled, diag.Location{}, "cancelled")
		}
		return nil
	}

	for _, sn := range sexp.FindAllNodes(root, "segment") {
		if err := checkpoint(); err != nil {
			return nil, sink, err
		}
		t, err := parseSegment(sn, b.Nets)
		if err != nil {
			sink.Warning(diag.Inconsistent, diag.Location{}, "segment: %v", err)
			continue
		}
		t.UUID = p.alloc.Claim(t.UUID)
		b.Tracks = append(b.Tracks, t)
	}
	for _, an := range sexp.FindAllNodes(root, "arc") {
		// A top-level (arc ...) with start/mid/end/width/layer is a
		// curved track segment (§3 "tracks (straight and arc)"); it is
		// distinct from a free gr_arc graphic, which carries no net.
		if _, hasNet := sexp.FindNode(an, "net"); !hasNet {
			continue
		}
		if err := checkpoint(); err != nil {
			return nil, sink, err
		}
		t, err := parseArcTrack(an, b.Nets)
		if err != nil {
			sink.Warning(diag.Inconsistent, diag.Location{}, "arc track: %v", err)
			continue
		}
		t.UUID = p.alloc.Claim(t.UUID)
		b.Tracks = append(b.Tracks, t)
	}
	for _, vn := range sexp.FindAllNodes(root, "via") {
		if err := checkpoint(); err != nil {
			return nil, sink, err
		}
		v, err := parseVia(vn, b.Nets)
		if err != nil {
			sink.Warning(diag.Inconsistent, diag.Location{}, "via: %v", err)
			continue
		}
		v.UUID = p.alloc.Claim(v.UUID)
		b.Vias = append(b.Vias, v)
	}
	for _, zn := range sexp.FindAllNodes(root, "zone") {
		if err := checkpoint(); err != nil {
			return nil, sink, err
		}
		z, err := parseZone(zn, b.Nets)
		if err != nil {
			sink.Warning(diag.Inconsistent, diag.Location{}, "zone: %v", err)
			continue
		}
		z.UUID = p.alloc.Claim(z.UUID)
		b.Zones = append(b.Zones, z)
	}
	for _, gn := range sexp.FindAllNodes(root, "group") {
		ref := parseGroupRef(gn)
		ref.uuid = p.alloc.Claim(ref.uuid)
		b.groupRefs = append(b.groupRefs, ref)
	}
	b.resolveGroups()

	return b, sink, nil
}
