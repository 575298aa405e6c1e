// Package edit implements batched structural editing over mutable syntax
// trees. Operations are staged against tree positions and applied in one
// deterministic pass; every position and target resolves against the tree
// as it stood when Apply began, so staging order only matters between
// operations that share an anchor. Misuse (dangling targets, conflicting
// operations, attaching one fragment twice, reusing an applied editor) is
// a programming error and panics; parse failures are the only recoverable
// errors in the editing stack and they live in the lang package.
package edit

import (
	"fmt"

	"sted/internal/syntax"
)

// Position addresses an attachment point for inserted elements.
type Position struct {
	rel    relation
	target syntax.Element
}

type relation uint8

const (
	relBefore relation = iota + 1
	relAfter
	relFirstChild
	relLastChild
)

// Before addresses the point immediately before el.
func Before(el syntax.Element) Position { return Position{rel: relBefore, target: el} }

// After addresses the point immediately after el.
func After(el syntax.Element) Position { return Position{rel: relAfter, target: el} }

// FirstChildOf addresses the point before parent's first child.
func FirstChildOf(parent *syntax.Node) Position {
	return Position{rel: relFirstChild, target: parent}
}

// LastChildOf addresses the point after parent's last child.
func LastChildOf(parent *syntax.Node) Position {
	return Position{rel: relLastChild, target: parent}
}

func (p Position) String() string {
	if p.target == nil {
		return "unaddressed position"
	}
	switch p.rel {
	case relBefore:
		return fmt.Sprintf("before %s", p.target.Kind())
	case relAfter:
		return fmt.Sprintf("after %s", p.target.Kind())
	case relFirstChild:
		return fmt.Sprintf("first child of %s", p.target.Kind())
	case relLastChild:
		return fmt.Sprintf("last child of %s", p.target.Kind())
	}
	return "unaddressed position"
}
