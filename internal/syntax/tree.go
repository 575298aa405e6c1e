package syntax

// Tree owns a root node and answers the relational queries (parent, sibling,
// membership) that nodes themselves cannot: the tree holds a lookup index
// from child to parent slot which is rebuilt lazily after every structural
// change. Parent is a derived relation here, never an ownership edge.
type Tree struct {
	root   *Node
	frozen bool

	// parents is nil whenever the index is stale.
	parents map[Element]slot
}

type slot struct {
	parent *Node
	index  int
}

// NewTree wraps root in a frozen tree.
func NewTree(root *Node) *Tree {
	if root == nil {
		panic("syntax: NewTree with nil root")
	}
	return &Tree{root: root, frozen: true}
}

// Root returns the tree's root node.
func (t *Tree) Root() *Node { return t.root }

// Frozen reports whether the tree is immutable.
func (t *Tree) Frozen() bool { return t.frozen }

// Text renders the whole tree back to source text.
func (t *Tree) Text() string { return t.root.Text() }

// Unfreeze returns a deep, exclusively owned mutable copy of the tree.
// The receiver is untouched and stays shareable.
func (t *Tree) Unfreeze() *Tree {
	cp := t.root.deepCopy().(*Node)
	return &Tree{root: cp, frozen: false}
}

// Freeze makes the tree immutable again and returns it. Further mutation
// through any handle panics.
func (t *Tree) Freeze() *Tree {
	t.frozen = true
	return t
}

func (t *Tree) ensureIndex() {
	if t.parents != nil {
		return
	}
	t.parents = make(map[Element]slot)
	var index func(n *Node)
	index = func(n *Node) {
		for i, c := range n.children {
			t.parents[c] = slot{parent: n, index: i}
			if cn, ok := c.(*Node); ok {
				index(cn)
			}
		}
	}
	index(t.root)
}

func (t *Tree) invalidate() { t.parents = nil }

// Parent returns the parent node of el within this tree, or nil for the
// root and for elements that are not part of the tree.
func (t *Tree) Parent(el Element) *Node {
	t.ensureIndex()
	return t.parents[el].parent
}

// IndexInParent returns el's slot in its parent's child list, or -1 for the
// root and for elements that are not part of the tree.
func (t *Tree) IndexInParent(el Element) int {
	t.ensureIndex()
	s, ok := t.parents[el]
	if !ok {
		return -1
	}
	return s.index
}

// Contains reports whether el is reachable from the tree's root.
func (t *Tree) Contains(el Element) bool {
	if el == nil {
		return false
	}
	if n, ok := el.(*Node); ok && n == t.root {
		return true
	}
	t.ensureIndex()
	for {
		s, ok := t.parents[el]
		if !ok {
			return false
		}
		if s.parent == t.root {
			return true
		}
		el = s.parent
	}
}

// Ancestors returns the chain of parents from el's immediate parent up to
// and including the root. Empty for the root and for foreign elements.
func (t *Tree) Ancestors(el Element) []*Node {
	t.ensureIndex()
	var out []*Node
	for {
		s, ok := t.parents[el]
		if !ok {
			return out
		}
		out = append(out, s.parent)
		el = s.parent
	}
}

// NextSibling returns the element immediately after el in its parent's
// child list, or nil.
func (t *Tree) NextSibling(el Element) Element {
	t.ensureIndex()
	s, ok := t.parents[el]
	if !ok || s.index+1 >= len(s.parent.children) {
		return nil
	}
	return s.parent.children[s.index+1]
}

// PrevSibling returns the element immediately before el in its parent's
// child list, or nil.
func (t *Tree) PrevSibling(el Element) Element {
	t.ensureIndex()
	s, ok := t.parents[el]
	if !ok || s.index == 0 {
		return nil
	}
	return s.parent.children[s.index-1]
}

func (t *Tree) mutable(op string) {
	if t.frozen {
		panic("syntax: " + op + " on frozen tree")
	}
}

// InsertChildren splices els into parent's child list at slot at.
// Panics on a frozen tree or an out-of-range slot.
func (t *Tree) InsertChildren(parent *Node, at int, els ...Element) {
	t.mutable("InsertChildren")
	if at < 0 || at > len(parent.children) {
		panic("syntax: InsertChildren slot out of range")
	}
	if len(els) == 0 {
		return
	}
	parent.children = append(parent.children[:at:at], append(els, parent.children[at:]...)...)
	t.invalidate()
}

// RemoveChild removes and returns the child at slot at of parent.
// Panics on a frozen tree or an out-of-range slot.
func (t *Tree) RemoveChild(parent *Node, at int) Element {
	t.mutable("RemoveChild")
	if at < 0 || at >= len(parent.children) {
		panic("syntax: RemoveChild slot out of range")
	}
	el := parent.children[at]
	parent.children = append(parent.children[:at], parent.children[at+1:]...)
	t.invalidate()
	return el
}

// ReplaceChild swaps the child at slot at of parent for el and returns the
// displaced element. Panics on a frozen tree or an out-of-range slot.
func (t *Tree) ReplaceChild(parent *Node, at int, el Element) Element {
	t.mutable("ReplaceChild")
	if at < 0 || at >= len(parent.children) {
		panic("syntax: ReplaceChild slot out of range")
	}
	old := parent.children[at]
	parent.children[at] = el
	t.invalidate()
	return old
}

// SetChildren replaces parent's entire child list. Panics on a frozen tree.
func (t *Tree) SetChildren(parent *Node, els ...Element) {
	t.mutable("SetChildren")
	parent.children = els
	t.invalidate()
}
