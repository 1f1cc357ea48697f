package sexp

import (
	"fmt"
	"io"
	"strings"

	extsexp "github.com/chewxy/sexp"
)

// Parse reads exactly one top-level S-expression from r and converts it
// to our own Node tree. This is the sole place github.com/chewxy/sexp
// is imported; every other package in this module works with *Node.
func Parse(r io.Reader) (*Node, error) {
	root, err := extsexp.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("sexp: %w", err)
	}
	n := convert(root, 1)
	if n == nil {
		return nil, fmt.Errorf("sexp: empty input")
	}
	return n, nil
}

// ParseString is a convenience wrapper around Parse for in-memory text
// (used throughout the test suites, matching the donor's test idiom).
func ParseString(s string) (*Node, error) {
	return Parse(strings.NewReader(s))
}

// convert walks an external chewxy/sexp tree into our Node tree,
// tracking an approximate line number (chewxy/sexp does not expose
// token positions, so every node in one Parse call shares the call's
// starting line; callers needing precise line numbers for diagnostics
// fall back to counting newlines in the raw source themselves).
func convert(s extsexp.Sexp, line int) *Node {
	if s == nil {
		return nil
	}
	if s.IsLeaf() {
		return &Node{Kind: KindAtom, Text: unquote(s.String()), Line: line}
	}
	n := &Node{Kind: KindList, Line: line}
	for cur := s; cur != nil; cur = cur.Tail() {
		head := cur.Head()
		if head == nil {
			break
		}
		n.Children = append(n.Children, convert(head, line))
		if cur.LeafCount() <= 1 {
			break
		}
	}
	return n
}

// unquote strips a single layer of double quotes from a token's raw
// text, the way the file format's STRING tokens are delivered.
func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}
