package cadstarimport

import "github.com/kicad-go/eda-importers/pkg/cadstar"

// loadGroups stages every CADSTAR group (§4.2 step 6) and builds the
// reverse item->group index used by addToGroup, since a CADSTAR group
// names its members up front but those members (figures, components,
// templates, ...) are not created on the board until later steps.
func (c *importCtx) loadGroups() {
	c.cadstarGroups = make(map[cadstar.GroupID]*groupBuild, len(c.a.Layout.Groups))
	c.groupOf = make(map[string]cadstar.GroupID)

	for id, g := range c.a.Layout.Groups {
		c.cadstarGroups[id] = &groupBuild{uuid: c.alloc.New(), name: g.Name}
		for _, member := range g.Members {
			c.groupOf[member] = id
		}
	}
}

type groupBuild struct {
	uuid    string
	name    string
	members []string
}

// addToGroup records that the board entity assigned uuid corresponds
// to the CADSTAR object cadstarID; if that object is a member of a
// group, the UUID is appended to that group's pending member list.
func (c *importCtx) addToGroup(cadstarID string, uuid string) {
	gid, ok := c.groupOf[cadstarID]
	if !ok {
		return
	}
	c.cadstarGroups[gid].members = append(c.cadstarGroups[gid].members, uuid)
}

// finalizeGroups resolves nested group membership (a group that is
// itself a member of another group) and rejects membership cycles,
// exactly the same two-pass/cycle-checked shape as
// pkg/pcb.Board.resolveGroups and pkg/schematic's group resolution.
func (c *importCtx) finalizeGroups() []*pcbGroupResult {
	for gid, g := range c.cadstarGroups {
		c.addToGroup(gid, g.uuid)
	}

	// cyclic accumulates every group ID found to participate in a
	// membership cycle, across all top-level walks; a plain "visited"
	// cache would wrongly remember a cyclic node as "already checked,
	// no cycle" once a later walk enters it outside the original
	// recursion stack, letting one side of a mutual cycle slip through
	// while its partner is rejected.
	cyclic := map[cadstar.GroupID]bool{}
	var hasCycle func(gid cadstar.GroupID, stack map[cadstar.GroupID]bool) bool
	hasCycle = func(gid cadstar.GroupID, stack map[cadstar.GroupID]bool) bool {
		if stack[gid] || cyclic[gid] {
			return true
		}
		parent, ok := c.groupOf[gid]
		if !ok {
			return false
		}
		stack[gid] = true
		found := hasCycle(parent, stack)
		delete(stack, gid)
		if found {
			cyclic[gid] = true
		}
		return found
	}

	var out []*pcbGroupResult
	for gid, g := range c.cadstarGroups {
		if hasCycle(gid, map[cadstar.GroupID]bool{}) {
			continue
		}
		out = append(out, &pcbGroupResult{UUID: g.uuid, Name: g.name, Members: g.members})
	}
	return out
}

type pcbGroupResult struct {
	UUID    string
	Name    string
	Members []string
}
