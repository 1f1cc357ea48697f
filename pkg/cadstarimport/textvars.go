package cadstarimport

import "github.com/kicad-go/eda-importers/internal/textvar"

// bindTextVariables populates the board's "${NAME}" substitution table
// from the archive header and resolves any reference already present
// in free text against it (§4.2 step 15). CADSTAR variants beyond
// counting VariantCount (§4.2 step 16) are not carried by this
// archive's input vocabulary, so VARIANT_NAME/VARIANT_DESCRIPTION are
// not populated here — matching the "counted, not reconstructed"
// posture the importer takes for variants elsewhere.
func (c *importCtx) bindTextVariables() {
	if c.a.Header.JobTitle != "" {
		c.board.TextVariables["DESIGN_TITLE"] = c.a.Header.JobTitle
	}
	if len(c.board.TextVariables) == 0 {
		return
	}
	for i, t := range c.board.Graphics.Texts {
		c.board.Graphics.Texts[i].Text = textvar.Substitute(t.Text, c.board.TextVariables)
	}
}
