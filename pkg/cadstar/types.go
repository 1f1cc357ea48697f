// Package cadstar holds the already-parsed CADSTAR PCB archive input
// types that pkg/cadstarimport consumes. These mirror the record
// vocabulary used throughout CADSTAR_PCB_ARCHIVE_LOADER (LAYER,
// SYMDEF_PCB, COMPONENT, NET_PCB, PADCODE, VIACODE, COPPERCODE,
// TEXTCODE, HATCHCODE, ...), generalized into plain Go structs: this
// package has no parser of its own, it is the target shape an
// upstream CADSTAR archive reader (not part of this module) builds
// and cadstarimport walks.
package cadstar

// LayerID and the other *ID types are opaque string identifiers, the
// same convention CADSTAR's own archive format uses throughout.
type LayerID = string
type MaterialID = string
type SymdefID = string
type PadID = string
type FigureID = string
type CompAreaID = string
type ComponentID = string
type PartID = string
type NetID = string
type TemplateID = string
type BoardID = string
type GroupID = string
type DocSymbolID = string
type PadcodeID = string
type ViacodeID = string
type CoppercodeID = string
type TextcodeID = string
type RoutecodeID = string
type HatchcodeID = string
type LayerPairID = string
type AttributeID = string

// LayerType is the CADSTAR electrical/non-electrical layer
// classification walked by stackup construction (§4.2.1).
type LayerType int

const (
	LayerElec LayerType = iota
	LayerPower
	LayerJumper
	LayerConstruction
	LayerDoc
	LayerNonElectrical
)

// Embedding records which side a copper layer's adjacent dielectric
// bonds to, used to decide core vs. prepreg during stackup
// construction.
type Embedding int

const (
	EmbeddingNone Embedding = iota
	EmbeddingAbove
	EmbeddingBelow
)

type Layer struct {
	ID             LayerID
	Name           string
	Type           LayerType
	MaterialID     MaterialID
	Thickness      float64
	PhysicalLayer  int
	Embedding      Embedding
}

type Material struct {
	ID          MaterialID
	Name        string
	Permittivity float64
	LossTangent  float64
}

type LayerDefs struct {
	Layers     map[LayerID]Layer
	LayerStack []LayerID
	Materials  map[MaterialID]Material
}

type Technology struct {
	DesignLimit     Point
	DesignAreaMin   Point
	DesignAreaMax   Point
	MaxPhysicalLayer int
}

type Assignments struct {
	Layerdefs  LayerDefs
	Technology Technology
}

// Point is a raw archive-unit coordinate (CADSTAR design units, not
// yet converted to KiCad millimetres).
type Point struct{ X, Y int64 }

// PadShapeType enumerates the CADSTAR pad-shape descriptor (§4.2.3).
type PadShapeType int

const (
	PadShapeAnnulus PadShapeType = iota
	PadShapeBullet
	PadShapeCircle
	PadShapeDiamond
	PadShapeFinger
	PadShapeOctagon
	PadShapeRectangle
	PadShapeRoundedRect
	PadShapeSquare
)

type PadShape struct {
	ShapeType       PadShapeType
	Size            int64
	LeftLength      int64
	RightLength     int64
	InternalFeature int64
	OrientAngle     int64 // tenth-degree units, per CADSTAR convention
}

type PadSide int

const (
	PadSideThroughHole PadSide = iota
	PadSideTop                 // CADSTAR PAD_SIDE::MINIMUM
	PadSideBottom               // CADSTAR PAD_SIDE::MAXIMUM
)

// Padcode is a named pad definition (shape, drill, relief), reused by
// any number of ComponentPad instances, as in PADCODE.
type Padcode struct {
	ID               PadcodeID
	Name             string
	Shape            PadShape
	Plated           bool
	DrillDiameter    int64 // 0 means undefined
	SlotLength       int64 // 0 means undefined (circular drill)
	SlotOrientation  int64 // tenth-degree; 0 means aligned, no promotion needed
	DrillXOffset     int64
	DrillYOffset     int64
	ReliefClearance  int64 // 0 means undefined
	ReliefWidth      int64 // 0 means undefined
}

// Viacode is a named via definition, as in VIACODE.
type Viacode struct {
	ID            ViacodeID
	Name          string
	Shape         PadShape
	DrillDiameter int64
}

// Coppercode defines copper track/fill widths, as in COPPERCODE.
type Coppercode struct {
	ID          CoppercodeID
	Name        string
	CopperWidth int64
}

// Textcode defines text height/width/stroke, as in TEXTCODE.
type Textcode struct {
	ID     TextcodeID
	Height int64
	Width  int64
}

// Hatchcode defines a zone hatch pattern's gap/thickness/angle, as in
// HATCHCODE.
type Hatchcode struct {
	ID        HatchcodeID
	Step      int64
	LineWidth int64
	OrientAngle int64 // tenth-degree
}

// LayerPair resolves a via's physical start/end copper layers, as in
// LAYERPAIR.
type LayerPair struct {
	ID                 LayerPairID
	PhysicalLayerStart int
	PhysicalLayerEnd   int
}

// Codes groups the per-code lookup tables the importer dereferences
// by ID throughout (getPadCode/getViaCode/getCopperCode/...).
type Codes struct {
	Padcodes    map[PadcodeID]Padcode
	Viacodes    map[ViacodeID]Viacode
	Coppercodes map[CoppercodeID]Coppercode
	Textcodes   map[TextcodeID]Textcode
	Hatchcodes  map[HatchcodeID]Hatchcode
	LayerPairs  map[LayerPairID]LayerPair
}

// EdgeType mirrors pkg/geom.EdgeKind for the archive's own vertex
// records, translated 1:1 by cadstarimport's shape-reconstruction step
// (§4.3).
type EdgeType int

const (
	EdgeStraight EdgeType = iota
	EdgeArcCW
	EdgeArcCCW
	EdgeSemicircleCW
	EdgeSemicircleCCW
)

type Vertex struct {
	End    Point
	Edge   EdgeType
	Center Point // valid for EdgeArcCW/EdgeArcCCW
}

// Shape is a closed or open outline: a starting point plus a vertex
// chain, each vertex carrying the edge type leading out of it.
type Shape struct {
	Start    Point
	Vertices []Vertex
	Closed   bool
	Cutouts  [][]Vertex // additional closed loops cut out of the outline
}

type Figure struct {
	ID         FigureID
	Shape      Shape
	LayerID    LayerID
	LineCodeID TextcodeID
}

type ComponentCopper struct {
	Shape      Shape
	LayerID    LayerID
	CopperCodeID CoppercodeID
}

type ComponentArea struct {
	ID         CompAreaID
	Shape      Shape
	LayerID    LayerID
	LineCodeID TextcodeID
	NoVias     bool
	NoTracks   bool
}

type ComponentPad struct {
	ID          PadID
	Identifier  string
	PadCodeID   PadcodeID
	Side        PadSide
	Position    Point
	OrientAngle int64 // tenth-degree
}

// SymdefPCB is a PCB library footprint definition, as in SYMDEF_PCB.
type SymdefPCB struct {
	ID              SymdefID
	ReferenceName   string
	Alternate       string
	Origin          Point
	Figures         map[FigureID]Figure
	ComponentCoppers []ComponentCopper
	ComponentAreas  map[CompAreaID]ComponentArea
	ComponentPads   map[PadID]ComponentPad
}

type Library struct {
	ComponentDefinitions map[SymdefID]SymdefPCB
}

type PartPin struct {
	ID         int64
	Identifier string
	Name       string
}

type Part struct {
	ID   PartID
	Name string
	Pins map[int64]PartPin // keyed by PART_DEFINITION_PIN_ID
}

type Parts struct {
	PartDefinitions map[PartID]Part
}

type PadException struct {
	ID               PadID
	PadCode          PadcodeID
	OverrideSide     bool
	Side             PadSide
	OverrideOrientation bool
	OrientAngle      int64
}

type Component struct {
	ID            ComponentID
	Name          string
	SymdefID      SymdefID
	PartID        PartID
	Origin        Point
	OrientAngle   int64 // tenth-degree
	Mirror        bool
	PadExceptions map[PadID]PadException
}

type RouteVertex struct {
	Vertex     Vertex
	RouteWidth int64
}

type Route struct {
	LayerID      LayerID
	StartPoint   Point
	RouteVertices []RouteVertex
}

type Connection struct {
	Unrouted bool
	Route    Route
}

type NetVia struct {
	Location    Point
	ViaCodeID   ViacodeID
	LayerPairID LayerPairID
	Fixed       bool
}

type NetPin struct {
	ComponentID ComponentID
	PadID       int64 // 1-based pad sequence number
}

// NetPCB is one electrical net's connectivity: routed/unrouted
// connections, vias, and pin memberships, as in NET_PCB.
type NetPCB struct {
	ID          NetID
	Name        string
	SignalNum   int
	Connections []Connection
	Vias        map[string]NetVia
	Pins        map[string]NetPin
}

type FillType int

const (
	FillSolid FillType = iota
	FillHatched
)

type Pouring struct {
	AllowInNoRouting   bool
	BoxIsolatedPins    bool
	AutomaticRepour    bool
	SliverWidth        int64
	MinIsolatedCopper  int64
	MinDisjointCopper  int64
	AdditionalIsolation int64
	FillType           FillType
	HatchCodeID        HatchcodeID
	ThermalReliefOnPads bool
	ThermalReliefOnVias bool
	ClearanceWidth     int64
	ReliefCopperCodeID CoppercodeID
}

// Template is a copper-pour definition, as in TEMPLATE.
type Template struct {
	ID      TemplateID
	Name    string
	Shape   Shape
	LayerID LayerID
	NetID   NetID
	Pouring Pouring
}

type CopperKind int

const (
	CopperPoured CopperKind = iota
	CopperStandaloneOutline
	CopperStandaloneFilled
)

// Copper is an explicit (non-templated) copper region, §4.2.5.
type Copper struct {
	Shape        Shape
	LayerID      LayerID
	CopperCodeID CoppercodeID
	Kind         CopperKind
	PourTemplateID TemplateID // valid iff Kind == CopperPoured
}

type Board struct {
	ID    BoardID
	Shape Shape
}

type Group struct {
	ID      GroupID
	Name    string
	Members []string // Figure/Component/Copper/Template/etc. IDs, or nested group IDs
}

type DocumentationSymbol struct {
	ID                    DocSymbolID
	SymdefID              SymdefID
	Origin                Point
	OrientAngle           int64
	Mirror                bool
	LayerID               LayerID
	ScaleRatioNumerator   int64
	ScaleRatioDenominator int64
}

type Text struct {
	Text        string
	Position    Point
	OrientAngle int64
	LayerID     LayerID
	TextCodeID  TextcodeID
	Mirror      bool
}

type Dimension struct {
	ID    string
	Shape Shape
	LayerID LayerID
}

type Layout struct {
	Boards              map[BoardID]Board
	Components          map[ComponentID]Component
	Nets                map[NetID]NetPCB
	Templates           map[TemplateID]Template
	Coppers             []Copper
	Groups              map[GroupID]Group
	DocumentationSymbols map[DocSymbolID]DocumentationSymbol
	Figures             map[FigureID]Figure
	Texts               map[string]Text
	Dimensions          map[string]Dimension
	Areas               map[CompAreaID]ComponentArea

	TrunkCount        int // unsupported feature, counted only (§4.2 step 16)
	VariantCount      int
	ReuseBlockCount   int
}

type Header struct {
	JobTitle string
}

// Archive is the top-level pre-parsed CADSTAR PCB design, the
// consumption point of the 16-step importer pipeline (§4.2).
type Archive struct {
	Header      Header
	Assignments Assignments
	Codes       Codes
	Library     Library
	Parts       Parts
	Layout      Layout
}
