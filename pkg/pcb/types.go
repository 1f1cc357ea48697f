// Package pcb implements the KiCad board model of spec.md §3
// ("KiCad board model") and §4.2's output side: footprints, pads,
// tracks, vias, zones, graphics, text, dimensions, groups, and the
// layer stackup that §4.2.1 constructs.
package pcb

import "github.com/kicad-go/eda-importers/pkg/sexp"

type (
	Position      = sexp.Position
	Angle         = sexp.Angle
	PositionAngle = sexp.PositionAngle
	Size          = sexp.Size
	Color         = sexp.Color
	Stroke        = sexp.Stroke
	Fill          = sexp.Fill
	Effects       = sexp.Effects
	BoundingBox   = sexp.BoundingBox
)

// LayerType is the electrical/technical role of a board layer.
type LayerType int

const (
	LayerSignal LayerType = iota
	LayerPower
	LayerMixed
	LayerJumper
	LayerUser
)

// Layer is one entry of the board's "layers" declaration: its KiCad
// enumeration number, canonical name, and type.
type Layer struct {
	Number int
	Name   string
	Type   string // "signal" | "power" | "mixed" | "jumper" | "user"
	User   string // free-form user label, present on technical layers
}

// LayerSet names a group of layers a shape is placed on ("F.Cu",
// "*.Cu", "F&B.Cu", ...).
type LayerSet []string

// LayerMap indexes a board's declared layers by both name and number,
// mirroring the donor's map with the addition of IsCopperLayer used by
// the stackup/layer-remapping logic in pkg/cadstarimport.
type LayerMap struct {
	byName   map[string]Layer
	byNumber map[int]Layer
}

func NewLayerMap(layers []Layer) *LayerMap {
	lm := &LayerMap{byName: make(map[string]Layer, len(layers)), byNumber: make(map[int]Layer, len(layers))}
	for _, l := range layers {
		lm.byName[l.Name] = l
		lm.byNumber[l.Number] = l
	}
	return lm
}

func (lm *LayerMap) GetByName(name string) (Layer, bool) {
	l, ok := lm.byName[name]
	return l, ok
}

func (lm *LayerMap) GetByNumber(n int) (Layer, bool) {
	l, ok := lm.byNumber[n]
	return l, ok
}

// IsCopperLayer reports whether name refers to an electrical copper
// layer ("F.Cu", "B.Cu", "In1.Cu", ...) as opposed to a technical
// layer.
func (lm *LayerMap) IsCopperLayer(name string) bool {
	l, ok := lm.byName[name]
	return ok && (l.Type == "signal" || l.Type == "power" || l.Type == "mixed" || l.Type == "jumper")
}

// Net is one entry of the board's net list.
type Net struct {
	Number int
	Name   string
}

// NetMap indexes nets by name and number, with IsUnconnected for the
// synthetic net 0 ("unconnected pads") every KiCad board declares.
type NetMap struct {
	byName   map[string]Net
	byNumber map[int]Net
}

func NewNetMap(nets []Net) *NetMap {
	nm := &NetMap{byName: make(map[string]Net, len(nets)), byNumber: make(map[int]Net, len(nets))}
	for _, n := range nets {
		nm.byName[n.Name] = n
		nm.byNumber[n.Number] = n
	}
	return nm
}

func (nm *NetMap) GetByName(name string) (Net, bool) {
	n, ok := nm.byName[name]
	return n, ok
}

func (nm *NetMap) GetByNumber(number int) (Net, bool) {
	n, ok := nm.byNumber[number]
	return n, ok
}

func (nm *NetMap) IsUnconnected(number int) bool { return number == 0 }

// StackupLayer is one electrical or dielectric sublayer of the board's
// physical stackup, per §4.2.1 and the "KiCad board model" data-model
// entry. The donor board model had no stackup concept at all (it only
// carried the flat `layers` declaration); this type and Board.Stackup
// are additions grounded on §4.2.1's algorithm.
type StackupLayer struct {
	Name      string
	Type      string // "copper" | "core" | "prepreg" | "dielectric" | "dummy"
	Thickness float64
	Material  string
	// EpsilonR and LossTangent apply to dielectric/core/prepreg
	// sublayers only.
	EpsilonR    float64
	LossTangent float64
}

// GrLine, GrCircle, GrArc, GrRect, GrPoly, GrText mirror the donor's
// free-graphics shapes; Graphics groups one board's (or footprint's)
// worth of them.
type GrLine struct {
	Start, End Position
	Stroke     Stroke
	Layer      string
	UUID       string
}

type GrCircle struct {
	Center, End Position
	Stroke      Stroke
	Fill        Fill
	Layer       string
	UUID        string
}

type GrArc struct {
	Start, Mid, End Position
	Stroke          Stroke
	Layer           string
	UUID            string
}

type GrRect struct {
	Start, End Position
	Stroke     Stroke
	Fill       Fill
	Layer      string
	UUID       string
}

type GrPoly struct {
	Points []Position
	Stroke Stroke
	Fill   Fill
	Layer  string
	UUID   string
}

type GrText struct {
	Text      string
	Position  Position
	Angle     Angle
	Layer     string
	Size      Size
	Thickness float64
	Bold      bool
	Italic    bool
	Justify   string
	UUID      string
}

// Graphic is a generic shape reused for footprint-local graphics
// (fp_line/fp_circle/...), matching the donor's footprints.go
// representation.
type Graphic struct {
	Type   string // "line" | "circle" | "arc" | "rect" | "polygon"
	Layer  string
	Start  Position
	End    Position
	Center Position
	Points []Position
	Stroke Stroke
	Fill   Fill
}

type Graphics struct {
	Lines   []GrLine
	Circles []GrCircle
	Arcs    []GrArc
	Rects   []GrRect
	Polys   []GrPoly
	Texts   []GrText
}

// Dimension is the SPEC_FULL-supplemented entity ("dimensions" in the
// KiCad board model data-model entry); the donor's board model carried
// no dimension support at all.
type Dimension struct {
	UUID    string
	Type    string // "aligned" | "leader" | "center" | "orthogonal" | "radial"
	Layer   string
	Start   Position
	End     Position
	Height  float64
	Text    GrText
	Stroke  Stroke
}

// Group is the PCB-side analogue of the schematic Group entity
// (§3 "Group"): non-owning references to member UUIDs, resolved
// post-parse exactly as §4.1's groups are (two-pass, cycle-checked).
type Group struct {
	UUID    string
	Name    string
	Members []string
}
