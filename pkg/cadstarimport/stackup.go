package cadstarimport

import "github.com/kicad-go/eda-importers/pkg/cadstar"

// layerBlock groups one electrical layer (possibly absent, for a
// dummy block) with the dielectric/construction layers stacked below
// it, mirroring the donor's LAYER_BLOCK helper struct in
// loadBoardStackup.
type layerBlock struct {
	elecLayerID      cadstar.LayerID // empty for a dummy block
	constructionIDs  []cadstar.LayerID
}

func (b layerBlock) initialised() bool {
	return b.elecLayerID != "" || len(b.constructionIDs) > 0
}

// buildStackupBlocks walks the CADSTAR stackup and balances it to an
// even copper-layer count, per §4.2.1.
func buildStackupBlocks(a *cadstar.Archive) []layerBlock {
	var blocks []layerBlock
	var current layerBlock

	for _, id := range a.Assignments.Layerdefs.LayerStack {
		l := a.Assignments.Layerdefs.Layers[id]
		switch l.Type {
		case cadstar.LayerJumper, cadstar.LayerPower, cadstar.LayerElec:
			if current.initialised() {
				blocks = append(blocks, current)
				current = layerBlock{}
			}
			current.elecLayerID = id
		case cadstar.LayerConstruction:
			current.constructionIDs = append(current.constructionIDs, id)
		}
	}
	if current.initialised() {
		blocks = append(blocks, current)
	}
	if len(blocks) == 0 {
		return blocks
	}

	// Last block with trailing dielectrics: absorb with a dummy block.
	if len(blocks[len(blocks)-1].constructionIDs) > 0 {
		blocks = append(blocks, layerBlock{})
	}

	// Odd electrical-layer count: steal a dielectric from the
	// second-to-last block (or halve its only one) and insert a dummy
	// block just above the last one.
	if len(blocks)%2 != 0 && len(blocks) >= 2 {
		bottom := blocks[len(blocks)-1]
		second := blocks[len(blocks)-2]
		rest := blocks[:len(blocks)-2]

		var dummy layerBlock
		lastConstruction := second.constructionIDs[len(second.constructionIDs)-1]

		if len(second.constructionIDs) > 1 {
			second.constructionIDs = second.constructionIDs[:len(second.constructionIDs)-1]
		} else {
			cl := a.Assignments.Layerdefs.Layers[lastConstruction]
			cl.Thickness /= 2
			a.Assignments.Layerdefs.Layers[lastConstruction] = cl
		}
		dummy.constructionIDs = append(dummy.constructionIDs, lastConstruction)

		blocks = append(append(append(rest, second), dummy), bottom)
	}

	return blocks
}

// embeddingIsCore decides core-vs-prepreg for the dielectric between
// block and blockBelow (which may be a dummy), per §4.2.1's embedding
// rule: two copper layers that both embed toward each other form a
// core; otherwise the dielectric is a prepreg.
func embeddingIsCore(a *cadstar.Archive, block, blockBelow layerBlock) bool {
	if block.elecLayerID == "" {
		return false // dummy electrical layer: assume prepreg
	}
	copperLayer := a.Assignments.Layerdefs.Layers[block.elecLayerID]
	if blockBelow.elecLayerID == "" {
		return copperLayer.Embedding == cadstar.EmbeddingAbove
	}
	below := a.Assignments.Layerdefs.Layers[blockBelow.elecLayerID]
	return copperLayer.Embedding == cadstar.EmbeddingAbove && below.Embedding == cadstar.EmbeddingBelow
}

// buildStackup materializes the pcb.StackupLayer list and returns the
// ordered electrical layer IDs (for use by the layer-numbering step),
// plus the set of CADSTAR layer IDs with Type == LayerPower (for
// implicit power-plane zone creation in loadTemplates).
type stackupResult struct {
	layers           []pcbStackupLayer
	copperOrder      []cadstar.LayerID // empty string entries are dummy layers
	powerPlaneLayers []cadstar.LayerID
}

// pcbStackupLayer is a type alias kept local so this file doesn't need
// to import pkg/pcb just for the one struct literal below; it is
// converted to pcb.StackupLayer at the call site in importer.go.
type pcbStackupLayer struct {
	Name, Type, Material    string
	Thickness, EpsilonR, LossTangent float64
}

func buildStackup(a *cadstar.Archive) stackupResult {
	blocks := buildStackupBlocks(a)
	var res stackupResult

	for i, b := range blocks {
		if b.elecLayerID == "" {
			res.layers = append(res.layers, pcbStackupLayer{Name: "dummy", Type: "copper", Thickness: 0})
			res.copperOrder = append(res.copperOrder, "")
		} else {
			l := a.Assignments.Layerdefs.Layers[b.elecLayerID]
			sl := pcbStackupLayer{Name: l.Name, Type: "copper", Thickness: toMM(l.Thickness)}
			if l.MaterialID != "" {
				if m, ok := a.Assignments.Layerdefs.Materials[l.MaterialID]; ok {
					sl.Material = m.Name
					sl.EpsilonR = m.Permittivity
					sl.LossTangent = m.LossTangent
				}
			}
			res.layers = append(res.layers, sl)
			res.copperOrder = append(res.copperOrder, b.elecLayerID)
			if l.Type == cadstar.LayerPower {
				res.powerPlaneLayers = append(res.powerPlaneLayers, b.elecLayerID)
			}
		}

		if len(b.constructionIDs) == 0 {
			continue
		}
		var below layerBlock
		if i+1 < len(blocks) {
			below = blocks[i+1]
		}
		core := embeddingIsCore(a, b, below)
		typeName := "prepreg"
		if core {
			typeName = "core"
		}
		for _, cID := range b.constructionIDs {
			cl := a.Assignments.Layerdefs.Layers[cID]
			dl := pcbStackupLayer{Name: cl.Name, Type: typeName, Thickness: toMM(cl.Thickness)}
			if cl.MaterialID != "" {
				if m, ok := a.Assignments.Layerdefs.Materials[cl.MaterialID]; ok {
					dl.Material = m.Name
					dl.EpsilonR = m.Permittivity
					dl.LossTangent = m.LossTangent
				}
			}
			res.layers = append(res.layers, dl)
		}
	}

	return res
}
