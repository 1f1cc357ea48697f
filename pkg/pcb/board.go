package pcb

// Board is the document entity of the "KiCad board model" data-model
// entry: one .kicad_pcb file's worth of footprints, tracks, vias,
// zones, graphics, and the physical stackup §4.2.1 constructs.
type Board struct {
	UUID         string
	Version      int
	Generator    string
	GeneratorVer string

	General General
	Layers  *LayerMap
	Stackup []StackupLayer
	Setup   Setup
	Nets    *NetMap

	Footprints []Footprint
	Graphics   Graphics
	Dimensions []Dimension
	Tracks     []Track
	Vias       []Via
	Zones      []Zone
	Groups     []*Group
	groupRefs  []groupRef

	// TextVariables holds the project's "${NAME}" substitution table
	// (§4.2 step 15): design title, variant name/description, and any
	// filename substitutions, resolved against free text and dimension
	// text at import time rather than left for a renderer to expand.
	TextVariables map[string]string
}

type groupRef struct {
	uuid    string
	name    string
	members []string
}

type General struct {
	Thickness float64
	LegacyTeardrops bool
}

// Setup carries the design-rule values §4.2's step 4 (design rules)
// populates from CADSTAR spacing codes, plus the stackup-adjacent
// settings a .kicad_pcb's own (setup ...) block stores.
type Setup struct {
	TraceClearance   float64
	TraceMinWidth    float64
	ViaMinAnnulus    float64
	ViaMinSize       float64
	ViaMinDrill      float64
	CopperFinish     string
	BoardThickness   float64
}

// Footprint is one placed component (§3's "KiCad board model" entry).
type Footprint struct {
	UUID      string
	Library   string
	Name      string
	Layer     string
	Position  PositionAngle
	Locked    bool
	Reference string
	Value     string
	Pads      []Pad
	Graphics  []Graphic
	Texts     []GrText
	// Zones holds footprint-local keepout areas (CADSTAR component
	// areas with no KiCad pad/track distinction, per §4.2.3); absent
	// from the donor's board model, which had no footprint-owned zones.
	Zones []Zone
}

// Pad is a footprint's copper/drill site. Shape/Drill/Slot fields are
// extended beyond the donor per §4.2.3's pad-construction algorithm:
// CADSTAR shape variants (bullet, diamond, finger, octagon, ...) are
// normalized by pkg/cadstarimport into this struct's Shape/Primitives
// representation rather than being carried as CADSTAR-specific types
// all the way through the board model.
type Pad struct {
	Number   string
	Type     string // "thru_hole" | "smd" | "connect" | "np_thru_hole"
	Shape    string // "circle" | "rect" | "oval" | "roundrect" | "trapezoid" | "custom"
	Position PositionAngle
	Size     Size
	Drill    float64
	// DrillOval is set when the drill is oblong (§4.2.3 "slot_length");
	// DrillSize then holds {length, diameter}.
	DrillOval bool
	DrillSize Size
	Layers    LayerSet
	Net       Net
	HasNet    bool
	// Primitives holds a custom pad's polygon outline, populated when
	// §4.2.3's slot-orientation promotion to a custom shape applies.
	Primitives []Position
	// OutOfBoundsSlot records the §9 Open Question decision: when the
	// drill center falls outside the rotated slot outline, the slot is
	// reset to centered and this flag is set so downstream tooling can
	// report it.
	OutOfBoundsSlot bool
}

// Track is a straight or curved copper segment. Arc tracks carry Mid;
// straight tracks leave it zero.
type Track struct {
	UUID   string
	Start  Position
	End    Position
	Mid    Position
	IsArc  bool
	Width  float64
	Layer  string
	Net    Net
	HasNet bool
}

// Via's Type distinguishes through/blind-buried/microvia per §4.2.7.
type Via struct {
	UUID       string
	Position   Position
	Size       float64
	Drill      float64
	Layers     [2]string // start/end physical layer
	Type       string    // "through" | "blind_buried" | "micro"
	Net        Net
	HasNet     bool
}

// Zone is a copper-pour area: a template-derived fill (§4.2.4), a
// standalone solid/hatched copper (§4.2.5), or an implicit power
// plane. Priority is computed by §4.2.6's topological sort.
type Zone struct {
	UUID         string
	Name         string
	Layer        string
	Net          Net
	HasNet       bool
	Priority     int
	FillMode     string // "solid" | "hatch"
	Outline      []Position
	FilledPolys  map[string][]Position // per-layer fill, keyed by layer name
	IsRuleArea   bool                  // SPEC_FULL supplement: "zones (with rule-area flags)"
	KeepoutCopper   bool
	KeepoutVias     bool
	KeepoutTracks   bool
	MinWidth     float64
	ThermalGapPads  float64
	ThermalBridgePads float64
}
