package cadstarimport

import (
	"sort"
	"testing"

	"github.com/kicad-go/eda-importers/pkg/cadstar"
	"github.com/kicad-go/eda-importers/pkg/idgen"
)

func newTestImportCtx(groups map[cadstar.GroupID]cadstar.Group) *importCtx {
	return &importCtx{
		a:     &cadstar.Archive{Layout: cadstar.Layout{Groups: groups}},
		alloc: idgen.NewAllocator(),
	}
}

func TestLoadGroupsBuildsReverseIndex(t *testing.T) {
	c := newTestImportCtx(map[cadstar.GroupID]cadstar.Group{
		"G1": {ID: "G1", Name: "group one", Members: []string{"COMP1", "FIG1"}},
	})
	c.loadGroups()

	if c.groupOf["COMP1"] != "G1" || c.groupOf["FIG1"] != "G1" {
		t.Fatalf("groupOf = %+v, want both members mapped to G1", c.groupOf)
	}
	if c.cadstarGroups["G1"].name != "group one" {
		t.Fatalf("cadstarGroups[G1].name = %q, want %q", c.cadstarGroups["G1"].name, "group one")
	}
}

func TestAddToGroupAppendsResolvedUUID(t *testing.T) {
	c := newTestImportCtx(map[cadstar.GroupID]cadstar.Group{
		"G1": {ID: "G1", Name: "group one", Members: []string{"COMP1"}},
	})
	c.loadGroups()
	c.addToGroup("COMP1", "uuid-comp1")
	c.addToGroup("NOT-A-MEMBER", "uuid-ignored")

	members := c.cadstarGroups["G1"].members
	if len(members) != 1 || members[0] != "uuid-comp1" {
		t.Fatalf("members = %v, want [uuid-comp1]", members)
	}
}

// TestFinalizeGroupsResolvesNestedMembership covers a group that is
// itself a member of another (non-cyclic) group: the child group's own
// UUID must appear among the parent's resolved members.
func TestFinalizeGroupsResolvesNestedMembership(t *testing.T) {
	c := newTestImportCtx(map[cadstar.GroupID]cadstar.Group{
		"PARENT": {ID: "PARENT", Name: "parent", Members: []string{"CHILD"}},
		"CHILD":  {ID: "CHILD", Name: "child", Members: []string{"COMP1"}},
	})
	c.loadGroups()
	c.addToGroup("COMP1", "uuid-comp1")
	results := c.finalizeGroups()

	if len(results) != 2 {
		t.Fatalf("len(results) = %d, want 2 (both groups survive, no cycle)", len(results))
	}
	var parent *pcbGroupResult
	for _, r := range results {
		if r.Name == "parent" {
			parent = r
		}
	}
	if parent == nil {
		t.Fatal("parent group missing from results")
	}
	childUUID := c.cadstarGroups["CHILD"].uuid
	found := false
	for _, m := range parent.Members {
		if m == childUUID {
			found = true
		}
	}
	if !found {
		t.Fatalf("parent.Members = %v, want to contain child's UUID %q", parent.Members, childUUID)
	}
}

// TestFinalizeGroupsRejectsMutualCycle covers the fix to the cycle
// check: when group A names group B as a member and group B names A,
// BOTH must be rejected regardless of which one the (unordered) map
// iteration visits first.
func TestFinalizeGroupsRejectsMutualCycle(t *testing.T) {
	c := newTestImportCtx(map[cadstar.GroupID]cadstar.Group{
		"A": {ID: "A", Name: "a", Members: []string{"B"}},
		"B": {ID: "B", Name: "b", Members: []string{"A"}},
	})
	c.loadGroups()
	results := c.finalizeGroups()

	if len(results) != 0 {
		names := make([]string, len(results))
		for i, r := range results {
			names[i] = r.Name
		}
		sort.Strings(names)
		t.Fatalf("results = %v, want none (both sides of a mutual cycle rejected)", names)
	}
}

// TestFinalizeGroupsRejectsSelfCycle covers the degenerate one-node
// cycle: a group that names itself as a member.
func TestFinalizeGroupsRejectsSelfCycle(t *testing.T) {
	c := newTestImportCtx(map[cadstar.GroupID]cadstar.Group{
		"SELF": {ID: "SELF", Name: "self", Members: []string{"SELF"}},
	})
	c.loadGroups()
	results := c.finalizeGroups()

	if len(results) != 0 {
		t.Fatalf("results = %+v, want none (self-referential group rejected)", results)
	}
}
