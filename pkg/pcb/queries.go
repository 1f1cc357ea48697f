package pcb

// GetNet returns the net with the given name, or false if none match.
func (b *Board) GetNet(name string) (Net, bool) {
	if b.Nets == nil {
		return Net{}, false
	}
	return b.Nets.GetByName(name)
}

// GetNetPads returns every pad (across every footprint) assigned to
// the named net.
func (b *Board) GetNetPads(netName string) []Pad {
	var out []Pad
	for _, fp := range b.Footprints {
		for _, p := range fp.Pads {
			if p.HasNet && p.Net.Name == netName {
				out = append(out, p)
			}
		}
	}
	return out
}

// GetNetTracks returns every track assigned to the named net.
func (b *Board) GetNetTracks(netName string) []Track {
	var out []Track
	for _, t := range b.Tracks {
		if t.HasNet && t.Net.Name == netName {
			out = append(out, t)
		}
	}
	return out
}

// GetNetVias returns every via assigned to the named net.
func (b *Board) GetNetVias(netName string) []Via {
	var out []Via
	for _, v := range b.Vias {
		if v.HasNet && v.Net.Name == netName {
			out = append(out, v)
		}
	}
	return out
}

// GetNetInfo returns the net itself plus counts of its members, useful
// for summary reporting (cmd/kicadtool's "pcb inspect" subcommand).
func (b *Board) GetNetInfo(netName string) (net Net, padCount, trackCount, viaCount int, ok bool) {
	net, ok = b.GetNet(netName)
	if !ok {
		return Net{}, 0, 0, 0, false
	}
	padCount = len(b.GetNetPads(netName))
	trackCount = len(b.GetNetTracks(netName))
	viaCount = len(b.GetNetVias(netName))
	return net, padCount, trackCount, viaCount, true
}

// GetAllNetNames returns every declared net name except the implicit
// "no net" (number 0) entry.
func (b *Board) GetAllNetNames() []string {
	if b.Nets == nil {
		return nil
	}
	var out []string
	for _, n := range b.Nets.byName {
		if n.Number != 0 {
			out = append(out, n.Name)
		}
	}
	return out
}

// GetFootprint returns the footprint with the given reference
// designator, or nil.
func (b *Board) GetFootprint(ref string) *Footprint {
	for i := range b.Footprints {
		if b.Footprints[i].Reference == ref {
			return &b.Footprints[i]
		}
	}
	return nil
}

// ResolveMember looks up a board item by UUID, used by resolve_groups
// to link a PCB group's member UUIDs to already-created items — the
// PCB-side analogue of Schematic.ResolveMember.
func (b *Board) ResolveMember(uuid string) (kind string, ok bool) {
	for i := range b.Footprints {
		if b.Footprints[i].UUID == uuid {
			return "footprint", true
		}
	}
	for _, t := range b.Tracks {
		if t.UUID == uuid {
			return "track", true
		}
	}
	for _, v := range b.Vias {
		if v.UUID == uuid {
			return "via", true
		}
	}
	for _, z := range b.Zones {
		if z.UUID == uuid {
			return "zone", true
		}
	}
	for _, g := range b.Groups {
		if g.UUID == uuid {
			return "group", true
		}
	}
	return "", false
}
