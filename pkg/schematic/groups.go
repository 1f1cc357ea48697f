package schematic

import (
	"github.com/kicad-go/eda-importers/pkg/diag"
	"github.com/kicad-go/eda-importers/pkg/sexp"
)

// parseGroupRef reads a (group "name" (uuid ...) (members ...)) block
// into the parser's side list; full resolution against the rest of the
// document happens later, in resolveGroups, since a group can name
// members (including nested groups) that appear later in the file.
func (p *parser) parseGroupRef(n *sexp.Node, sch *Schematic) {
	ref := groupRef{}
	ref.name, _ = sexp.GetString(n, 1)
	if u, ok := sexp.GetUUID(n); ok {
		ref.uuid = p.alloc.Claim(u)
	} else {
		ref.uuid = p.alloc.New()
	}
	if lid, ok := sexp.FindNode(n, "lib_id"); ok {
		ref.design, _ = sexp.GetString(lid, 1)
	}
	if m, ok := sexp.FindNode(n, "members"); ok {
		for _, item := range m.Children[1:] {
			if item.Kind == sexp.KindAtom {
				ref.members = append(ref.members, item.Text)
			}
		}
	}
	sch.groupRefs = append(sch.groupRefs, ref)
}

// resolveGroups is resolve_groups from §4.1 "Groups": a two-pass
// resolution where every Group object is instantiated first (so
// groups can reference each other regardless of file order), then
// member UUIDs are checked against the document via ResolveMember,
// with a cycle guard and silent-drop of members that resolve to
// nothing (a group member pruned by hand-editing the file is not an
// error, just stale data).
func (p *parser) resolveGroups(sch *Schematic) {
	sch.Groups = make([]*Group, 0, len(sch.groupRefs))
	byUUID := make(map[string]*Group, len(sch.groupRefs))
	for _, ref := range sch.groupRefs {
		g := &Group{UUID: ref.uuid, Name: ref.name, Members: ref.members, DesignBlockLibID: ref.design}
		sch.Groups = append(sch.Groups, g)
		byUUID[ref.uuid] = g
	}

	var checkCycle func(uuid string, chain map[string]bool) bool
	checkCycle = func(uuid string, chain map[string]bool) bool {
		if chain[uuid] {
			return true
		}
		chain[uuid] = true
		g, ok := byUUID[uuid]
		if !ok {
			return false
		}
		for _, m := range g.Members {
			if _, isGroup := byUUID[m]; isGroup {
				if checkCycle(m, chain) {
					return true
				}
			}
		}
		return false
	}

	var kept []*Group
	for _, g := range sch.Groups {
		if checkCycle(g.UUID, map[string]bool{}) {
			p.sink.Warning(diag.Inconsistent, diag.Location{}, "group %q participates in a membership cycle, dropping", g.Name)
			continue
		}
		var validMembers []string
		for _, m := range g.Members {
			if _, isGroup := byUUID[m]; isGroup {
				validMembers = append(validMembers, m)
				continue
			}
			if _, ok := sch.ResolveMember(m); ok {
				validMembers = append(validMembers, m)
			}
			// else: silently dropped, per the design note above.
		}
		g.Members = validMembers
		kept = append(kept, g)
	}
	sch.Groups = kept
}
