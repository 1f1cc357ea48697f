// Package textvar implements the "${VARIABLE}" substitution syntax
// KiCad text fields use for title blocks, free text, and dimension
// text (§4.2 step 15). It is consumed both by the CADSTAR importer,
// which populates the variable table from the archive header, and by
// schematic title-block text carrying the same syntax.
package textvar

import (
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var textLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Var", Pattern: `\$\{[^}]*\}`},
	{Name: "Literal", Pattern: `[^$]+|\$`},
})

// Token is one piece of a parsed text: either a literal run or a
// "${NAME}" reference. Var carries the raw "${...}" text as the lexer
// matched it; Name() strips the delimiters.
type Token struct {
	Var     string `  @Var`
	Literal string `| @Literal`
}

// Name strips the "${" "}" delimiters from a Var token's raw text.
func (t *Token) Name() string {
	return strings.TrimSuffix(strings.TrimPrefix(t.Var, "${"), "}")
}

// Document is a full text broken into an ordered run of tokens.
type Document struct {
	Tokens []*Token `@@*`
}

var textParser = participle.MustBuild[Document](
	participle.Lexer(textLexer),
)

// Parse breaks raw into its literal and "${NAME}" pieces.
func Parse(raw string) (*Document, error) {
	return textParser.ParseString("", raw)
}

// Substitute replaces every "${NAME}" reference in raw with vars[NAME],
// leaving unresolved references exactly as authored (matching the
// donor loader's "consistency tracked, not invented" posture for
// fields it cannot resolve). A malformed document (stray "${" with no
// matching "}") is returned unchanged.
func Substitute(raw string, vars map[string]string) string {
	doc, err := Parse(raw)
	if err != nil {
		return raw
	}
	var b strings.Builder
	for _, t := range doc.Tokens {
		if t.Literal != "" {
			b.WriteString(t.Literal)
			continue
		}
		if v, ok := vars[t.Name()]; ok {
			b.WriteString(v)
			continue
		}
		b.WriteString(t.Var)
	}
	return b.String()
}

// SubstituteAll applies Substitute to every value in texts, returning a
// new slice in the same order.
func SubstituteAll(texts []string, vars map[string]string) []string {
	out := make([]string, len(texts))
	for i, t := range texts {
		out[i] = Substitute(t, vars)
	}
	return out
}
