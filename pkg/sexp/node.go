// Package sexp provides a parser-agnostic S-expression tree and the
// navigation helpers used by both the schematic parser and the PCB
// package. The tree is built once, at the boundary in reader.go, from
// github.com/chewxy/sexp's token stream; everything else in this
// module only ever sees the Node type below.
package sexp

import "fmt"

// Kind distinguishes an atomic token from a parenthesized list.
type Kind int

const (
	KindAtom Kind = iota
	KindList
)

// Node is one S-expression: either a list of child nodes, or an atom
// carrying its original text (quotes, if any, already stripped).
type Node struct {
	Kind     Kind
	Text     string
	Children []*Node
	Line     int
}

func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	if n.Kind == KindAtom {
		return n.Text
	}
	s := "("
	for i, c := range n.Children {
		if i > 0 {
			s += " "
		}
		s += c.String()
	}
	return s + ")"
}

// Tag returns the leading symbol of a list node ("" for an atom or an
// empty list), e.g. Tag of (symbol "Device:R" ...) is "symbol".
func (n *Node) Tag() string {
	if n == nil || n.Kind != KindList || len(n.Children) == 0 {
		return ""
	}
	return n.Children[0].Text
}

// Item returns the i-th child (0-based, including the tag at index 0),
// or nil if out of range.
func (n *Node) Item(i int) *Node {
	if n == nil || n.Kind != KindList || i < 0 || i >= len(n.Children) {
		return nil
	}
	return n.Children[i]
}

// Len returns the number of children of a list node.
func (n *Node) Len() int {
	if n == nil || n.Kind != KindList {
		return 0
	}
	return len(n.Children)
}

// ParseErrorAt formats an error carrying the node's source line, for
// use building diag.ParseError values from callers of this package.
func ParseErrorAt(n *Node, format string, args ...any) error {
	line := 0
	if n != nil {
		line = n.Line
	}
	return fmt.Errorf("line %d: %s", line, fmt.Sprintf(format, args...))
}
