package lang

import (
	"fmt"

	"sted/internal/syntax"
)

// Fragment parsing embeds a snippet in a minimal host file, parses the
// whole file, and lifts the wanted node back out. Every helper returns a
// detached deep copy, so the caller owns the fragment outright and the host
// scaffolding is discarded.

// ParseNode parses src as a source file and returns a detached copy of the
// first node of the given kind, in document order.
func ParseNode(kind syntax.Kind, src string) (*syntax.Node, error) {
	return extract(src, fmt.Sprintf("%s node", kind), func(n *syntax.Node) bool {
		return n.Kind() == kind
	})
}

// ParseExpr parses src as a single expression.
func ParseExpr(src string) (*syntax.Node, error) {
	return extract("function f() { "+src+" }", "expression", func(n *syntax.Node) bool {
		return n.Kind().IsExpr()
	})
}

// ParseType parses src as a type reference.
func ParseType(src string) (*syntax.Node, error) {
	return extract("function f(x: "+src+") {}", "type", func(n *syntax.Node) bool {
		return n.Kind() == syntax.TypeRef
	})
}

// ParsePat parses src as a binding pattern.
func ParsePat(src string) (*syntax.Node, error) {
	return extract("function f() { let "+src+" = 0; }", "pattern", func(n *syntax.Node) bool {
		return n.Kind() == syntax.BindPat
	})
}

// ParseStmt parses src as a single statement, semicolon included.
func ParseStmt(src string) (*syntax.Node, error) {
	return extract("function f() { "+src+" }", "statement", func(n *syntax.Node) bool {
		return n.Kind().IsStmt()
	})
}

func extract(src, what string, pred func(*syntax.Node) bool) (*syntax.Node, error) {
	tree, err := Parse(src)
	if err != nil {
		return nil, err
	}
	var found *syntax.Node
	syntax.Walk(tree.Root(), func(el syntax.Element) {
		if found != nil {
			return
		}
		if n, ok := el.(*syntax.Node); ok && pred(n) {
			found = n
		}
	})
	if found == nil {
		return nil, fmt.Errorf("lang: no %s in %q", what, src)
	}
	return syntax.Clone(found).(*syntax.Node), nil
}
