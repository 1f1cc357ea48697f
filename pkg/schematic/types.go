// Package schematic implements the document model and parser of
// spec.md §3 and §4.1: a versioned, streaming reader that turns a
// KiCad schematic or symbol-library file into an in-memory document
// tree.
package schematic

import "github.com/kicad-go/eda-importers/pkg/sexp"

type (
	Position      = sexp.Position
	Angle         = sexp.Angle
	PositionAngle = sexp.PositionAngle
	Size          = sexp.Size
	Color         = sexp.Color
	Stroke        = sexp.Stroke
	Fill          = sexp.Fill
	Font          = sexp.Font
	Justify       = sexp.Justify
	Effects       = sexp.Effects
	Property      = sexp.Property
	BoundingBox   = sexp.BoundingBox
)

// Schematic is the document (root sheet) entity of §3.
type Schematic struct {
	UUID         string
	Version      int
	Generator    string
	GeneratorVer string
	Paper        string
	PaperW       float64
	PaperH       float64
	PaperPortrait bool
	TitleBlock   TitleBlock

	EmbeddedFonts bool
	EmbeddedFiles []EmbeddedFile
	ResolvedFonts ResolvedFonts

	LibSymbols []LibSymbol

	Symbols      []SymbolInstance
	Wires        []Wire
	Buses        []Wire
	BusEntries   []BusEntry
	Junctions    []Junction
	NoConnects   []NoConnect
	Labels       []Label
	GlobalLabels []Label
	HierLabels   []Label
	DirectiveLabels []Label
	Sheets       []Sheet
	Polylines    []DrawItem
	Texts        []DrawItem
	TextBoxes    []DrawItem
	Tables       []Table
	Images       []Image
	BusAliases   []BusAlias
	RuleAreas    []RuleArea

	// Groups holds resolved group objects after resolve_groups runs
	// (§4.1 "Groups"); groupRefs is the side list read during parse,
	// before member UUIDs necessarily resolve to anything.
	Groups    []*Group
	groupRefs []groupRef

	SheetInstances []SheetInstance
	// legacySymbolInstances holds (version < 20200828) root-level
	// symbol_instances entries, merged into their Symbol by LibID+path
	// after parse.
	legacySymbolInstances []legacySymbolInstanceEntry

	libSymbolIndex map[string]*LibSymbol
}

// TitleBlock per §3's Document entity and the "Title block variable
// fields" SPEC_FULL supplement.
type TitleBlock struct {
	Title    string
	Date     string
	Revision string
	Company  string
	Comments [9]string
}

type EmbeddedFile struct {
	Name string
	Type string // "font" | "model" | "worksheet" | ... ; §4.5 only consumes "font"
	Data []byte
}

// LibSymbol is §3's Library symbol entity.
type LibSymbol struct {
	Name           string // LIB_ID form for a root symbol ("lib:name")
	UnitCount      int
	BodyStyleCount int
	PinNamesVisible   bool
	PinNamesOffset    float64
	PinNumbersVisible bool
	Power          bool
	LocalPower     bool
	InBOM          bool
	OnBoard        bool
	ExcludeFromSim bool
	LockUnits      bool
	Description    string
	Keywords       string
	FPFilters      []string
	Extends        string // parent symbol name, "" if not derived
	Properties     []Property
	Units          []SymbolUnit
}

// SymbolUnit groups draw items defined under a nested
// (symbol "<name>_<unit>_<bodyStyle>" ...) form, per §4.1 "Symbol-unit
// parsing".
type SymbolUnit struct {
	Unit      int
	BodyStyle int
	Items     []DrawItem
}

// DrawItemKind is the tag of the §9 "Polymorphic draw items" sum type.
type DrawItemKind int

const (
	ItemArc DrawItemKind = iota
	ItemBezier
	ItemCircle
	ItemPin
	ItemPolyline
	ItemRectangle
	ItemText
	ItemTextBox
)

// DrawItem is the tagged sum from the "Polymorphic draw items" design
// note: a shared header (UUID, stroke, fill) plus kind-specific fields,
// all in one struct rather than a class hierarchy.
type DrawItem struct {
	Kind   DrawItemKind
	UUID   string
	Stroke Stroke
	Fill   Fill
	Private bool

	// arc
	Start, Mid, End Position

	// circle
	Center Position
	Radius float64

	// rectangle: Start/End reused as opposite corners

	// polyline / bezier
	Points []Position

	// pin
	ElectricalType string // passive, input, output, bidirectional, ...
	GraphicShape   string // line, inverted, clock, ...
	PinPosition    PositionAngle
	Length         float64
	Name           PinText
	Number         PinText
	Hidden         bool
	Alternates     []PinAlternate

	// text / text_box
	Text     string
	TextPos  PositionAngle
	Effects  Effects
	Margins  [4]float64 // text_box only
}

type PinText struct {
	Text    string
	Effects Effects
}

type PinAlternate struct {
	Name string
	Type string
	Shape string
}

// Symbol instance (§3).
type SymbolInstance struct {
	UUID       string
	LibID      string
	Position   PositionAngle
	Unit       int
	Mirror     string // "", "x", "y"
	DNP        bool
	InBOM      bool
	OnBoard    bool
	Fields     bool
	Properties []Property
	PinAlternates map[string]string // pin number -> alternate name

	Instances []SymbolInstanceData

	// resolved after parse; nil (and Dummy=true) if LibID has no match,
	// per §3 "Ownership": a sentinel dummy is substituted.
	libSymbol *LibSymbol
	Dummy     bool
}

// LibSymbol returns the resolved, non-owned library symbol this
// instance refers to, or nil if unresolved (Dummy is then true).
func (s *SymbolInstance) LibSymbol() *LibSymbol { return s.libSymbol }

type SymbolInstanceData struct {
	Path       []string // ordered sheet UUIDs
	Reference  string
	Unit       int
	Value      string
	Footprint  string
}

type legacySymbolInstanceEntry struct {
	Path string
	Data SymbolInstanceData
}

type Wire struct {
	UUID     string
	Points   []Position
	Stroke   Stroke
}

type BusEntry struct {
	UUID   string
	At     PositionAngle
	Size   Size
	Stroke Stroke
}

type Junction struct {
	UUID     string
	Position Position
	Diameter float64
	Color    Color
}

type NoConnect struct {
	UUID     string
	Position Position
}

// Label covers plain/hierarchical/global/directive labels per §3.
type Label struct {
	UUID      string
	Text      string
	Position  PositionAngle
	Shape     string // hierarchical/global/directive only
	Effects   Effects
	Fields    []Property
	IntersheetRefs string // global labels only
	PinLength float64      // directive labels only
	Color     Color
	HasColor  bool
}

type Sheet struct {
	UUID       string
	Position   Position
	Size       Size
	Stroke     Stroke
	Fill       Fill
	Name       SheetField
	FileName   SheetField
	Fields     []Property
	Pins       []SheetPin
	Instances  []SheetPageInstance
}

type SheetField struct {
	Name string
	Position PositionAngle
	Effects  Effects
}

type SheetPin struct {
	UUID     string
	Name     string
	Shape    string
	Position PositionAngle
	Effects  Effects
}

type SheetPageInstance struct {
	Path string
	Page string
}

type SheetInstance struct {
	Path string
	Page string
}

type Table struct {
	UUID    string
	Position Position
	ColumnCount int
	Cells   []TableCell
}

type TableCell struct {
	Text       string
	Position   PositionAngle
	Effects    Effects
	Fill       Fill
	ColumnSpan int
	RowSpan    int
}

type Image struct {
	UUID        string
	Position    Position
	ScaleFactor float64
	Data        []byte
}

// BusAlias is the SPEC_FULL-supplemented entity (§ "Bus aliases").
type BusAlias struct {
	Name    string
	Members []string
}

// RuleArea is the SPEC_FULL-supplemented entity (§ "Rule areas").
type RuleArea struct {
	UUID     string
	Polygon  []Position
	Stroke   Stroke
	Fill     Fill
	ExcludeFromSim   bool
	ExcludeFromBoard bool
}

// Group is §3's Group entity: UUID, name, and non-owning member
// references resolved post-parse by resolve_groups (§4.1).
type Group struct {
	UUID    string
	Name    string
	Members []string // UUIDs; resolution against the document happens lazily via Schematic.ResolveMember
	DesignBlockLibID string
}

type groupRef struct {
	uuid    string
	name    string
	members []string
	design  string
}
