package cadstarimport

import (
	"testing"

	"github.com/kicad-go/eda-importers/pkg/cadstar"
)

func archiveWithStack(layers ...cadstar.Layer) *cadstar.Archive {
	a := &cadstar.Archive{}
	a.Assignments.Layerdefs.Layers = make(map[cadstar.LayerID]cadstar.Layer)
	for _, l := range layers {
		a.Assignments.Layerdefs.Layers[l.ID] = l
		a.Assignments.Layerdefs.LayerStack = append(a.Assignments.Layerdefs.LayerStack, l.ID)
	}
	return a
}

// TestStackupEvenCountUnchanged covers the already-even case: two
// copper layers with one dielectric between them produce one block per
// electrical layer and no balancing.
func TestStackupEvenCountUnchanged(t *testing.T) {
	a := archiveWithStack(
		cadstar.Layer{ID: "L1", Name: "Top", Type: cadstar.LayerElec},
		cadstar.Layer{ID: "D1", Name: "Core", Type: cadstar.LayerConstruction, Thickness: 1000},
		cadstar.Layer{ID: "L2", Name: "Bottom", Type: cadstar.LayerElec},
	)
	blocks := buildStackupBlocks(a)
	if len(blocks) != 2 {
		t.Fatalf("len(blocks) = %d, want 2", len(blocks))
	}
	if blocks[0].elecLayerID != "L1" || blocks[1].elecLayerID != "L2" {
		t.Fatalf("blocks = %+v, want L1 then L2", blocks)
	}
	if len(blocks[0].constructionIDs) != 1 || blocks[0].constructionIDs[0] != "D1" {
		t.Fatalf("first block dielectrics = %v, want [D1]", blocks[0].constructionIDs)
	}
}

// TestStackupOddBlockCountStealsSingleDielectric covers §4.2.1's
// odd-count rule: three electrical layers produce an odd block count,
// which is balanced by halving the second-to-last block's sole
// dielectric and inserting a dummy block that shares it, rather than
// shifting any other layer's index.
func TestStackupOddBlockCountStealsSingleDielectric(t *testing.T) {
	a := archiveWithStack(
		cadstar.Layer{ID: "L1", Name: "Top", Type: cadstar.LayerElec},
		cadstar.Layer{ID: "D1", Type: cadstar.LayerConstruction, Thickness: 1000},
		cadstar.Layer{ID: "L2", Name: "Mid", Type: cadstar.LayerElec},
		cadstar.Layer{ID: "D2", Type: cadstar.LayerConstruction, Thickness: 800},
		cadstar.Layer{ID: "L3", Name: "Bottom", Type: cadstar.LayerElec},
	)
	blocks := buildStackupBlocks(a)
	if len(blocks)%2 != 0 {
		t.Fatalf("len(blocks) = %d, want even after balancing", len(blocks))
	}
	if got := a.Assignments.Layerdefs.Layers["D2"].Thickness; got != 400 {
		t.Fatalf("D2 thickness after halving = %v, want 400", got)
	}
	var sharesD2 int
	for _, b := range blocks {
		for _, c := range b.constructionIDs {
			if c == "D2" {
				sharesD2++
			}
		}
	}
	if sharesD2 != 2 {
		t.Fatalf("D2 appears in %d blocks, want 2 (original + inserted dummy)", sharesD2)
	}
}

// TestEmbeddingIsCoreRequiresBothSidesFacing exercises §4.2.1's
// core-vs-prepreg rule: a dielectric is a core only when the layer
// above embeds downward and the layer below embeds upward.
func TestEmbeddingIsCoreRequiresBothSidesFacing(t *testing.T) {
	a := archiveWithStack(
		cadstar.Layer{ID: "L1", Type: cadstar.LayerElec, Embedding: cadstar.EmbeddingAbove},
		cadstar.Layer{ID: "L2", Type: cadstar.LayerElec, Embedding: cadstar.EmbeddingBelow},
	)
	top := layerBlock{elecLayerID: "L1"}
	bottom := layerBlock{elecLayerID: "L2"}
	if !embeddingIsCore(a, top, bottom) {
		t.Fatal("expected core when top embeds above and bottom embeds below")
	}

	a2 := archiveWithStack(
		cadstar.Layer{ID: "L1", Type: cadstar.LayerElec, Embedding: cadstar.EmbeddingAbove},
		cadstar.Layer{ID: "L2", Type: cadstar.LayerElec, Embedding: cadstar.EmbeddingAbove},
	)
	if embeddingIsCore(a2, top, bottom) {
		t.Fatal("expected prepreg when bottom does not embed upward")
	}
}

// TestBuildStackupNumbersCopperAndCollectsPowerPlanes checks that
// buildStackup's copperOrder preserves stack order (dummies as empty
// string) and that power layers are collected for the implicit
// power-plane step (§4.2.4).
func TestBuildStackupNumbersCopperAndCollectsPowerPlanes(t *testing.T) {
	a := archiveWithStack(
		cadstar.Layer{ID: "L1", Name: "Top", Type: cadstar.LayerElec},
		cadstar.Layer{ID: "D1", Type: cadstar.LayerConstruction, Thickness: 200},
		cadstar.Layer{ID: "PWR", Name: "GND", Type: cadstar.LayerPower},
	)
	res := buildStackup(a)
	if len(res.copperOrder) == 0 {
		t.Fatal("copperOrder is empty")
	}
	if len(res.copperOrder)%2 != 0 {
		t.Fatalf("copperOrder length = %d, want even", len(res.copperOrder))
	}
	found := false
	for _, id := range res.powerPlaneLayers {
		if id == "PWR" {
			found = true
		}
	}
	if !found {
		t.Fatalf("powerPlaneLayers = %v, want to contain PWR", res.powerPlaneLayers)
	}
}
