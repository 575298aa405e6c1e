package syntax

// Direction selects a sibling walking order.
type Direction int

const (
	// Next walks toward the end of the parent's child list.
	Next Direction = iota
	// Prev walks toward the start.
	Prev
)

func (d Direction) String() string {
	if d == Next {
		return "next"
	}
	return "prev"
}

// Siblings returns el's siblings in walking order for dir, excluding el
// itself. For Next that is the elements after el left to right; for Prev
// the elements before el right to left.
func (t *Tree) Siblings(el Element, dir Direction) []Element {
	t.ensureIndex()
	s, ok := t.parents[el]
	if !ok {
		return nil
	}
	kids := s.parent.children
	var out []Element
	if dir == Next {
		out = append(out, kids[s.index+1:]...)
	} else {
		for i := s.index - 1; i >= 0; i-- {
			out = append(out, kids[i])
		}
	}
	return out
}

// Neighbor returns the nearest sibling node of the given kind in dir,
// skipping tokens and nodes of other kinds. Returns nil when no such
// sibling exists.
func (t *Tree) Neighbor(el Element, dir Direction, kind Kind) *Node {
	for _, sib := range t.Siblings(el, dir) {
		if n, ok := sib.(*Node); ok && n.Kind() == kind {
			return n
		}
	}
	return nil
}
