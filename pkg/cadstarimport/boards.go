package cadstarimport

// loadBoards converts every CADSTAR board outline into Edge.Cuts
// graphics (§4.2 step 7).
func (c *importCtx) loadBoards() {
	for _, id := range sortedKeys(c.a.Layout.Boards) {
		b := c.a.Layout.Boards[id]
		lines, arcs := segmentsToGrItems(shapeToSegments(b.Shape), "Edge.Cuts", 0, c.alloc)
		for _, l := range lines {
			c.board.Graphics.Lines = append(c.board.Graphics.Lines, l)
			c.addToGroup(id, l.UUID)
		}
		for _, arc := range arcs {
			c.board.Graphics.Arcs = append(c.board.Graphics.Arcs, arc)
			c.addToGroup(id, arc.UUID)
		}
	}
}
