package edit

import (
	"fmt"
	"strings"

	"sted/internal/syntax"
)

// Editor stages structural operations against one mutable tree and lands
// them all in a single Apply pass. The editor assumes exclusive ownership
// of the tree from construction until Apply returns; it is not safe for
// concurrent use.
type Editor struct {
	tree    *syntax.Tree
	sep     string
	ops     []op
	claimed map[syntax.Element]bool
	applied bool
}

type opKind uint8

const (
	opInsert opKind = iota
	opDelete
	opReplace
)

func (k opKind) String() string {
	switch k {
	case opInsert:
		return "insert"
	case opDelete:
		return "delete"
	}
	return "replace"
}

type op struct {
	kind   opKind
	pos    Position        // insert only
	target syntax.Element  // delete and replace only
	els    []syntax.Element
}

// NewEditor binds an editor to a mutable tree.
func NewEditor(tree *syntax.Tree) *Editor {
	if tree.Frozen() {
		panic("edit: NewEditor requires a mutable tree")
	}
	return &Editor{tree: tree, sep: ", ", claimed: make(map[syntax.Element]bool)}
}

// Tree returns the tree the editor is bound to.
func (e *Editor) Tree() *syntax.Tree { return e.tree }

// SetSeparator sets the separator recipes use to join list elements. It
// must be a comma followed by blanks.
func (e *Editor) SetSeparator(sep string) {
	if sep == "" || sep[0] != ',' || strings.Trim(sep[1:], " \t\r\n") != "" {
		panic(fmt.Sprintf("edit: invalid separator %q", sep))
	}
	e.sep = sep
}

// Pending returns the number of staged operations.
func (e *Editor) Pending() int { return len(e.ops) }

func (e *Editor) stageable() {
	if e.applied {
		panic("edit: editor already applied")
	}
}

// claim marks els as attached by the staging call in progress. An element
// can be claimed by exactly one insertion point; attachment is identity
// transfer, not copying.
func (e *Editor) claim(els ...syntax.Element) {
	for _, el := range els {
		if el == nil {
			panic("edit: nil element staged for attachment")
		}
		if e.claimed[el] {
			panic(fmt.Sprintf("edit: %s element attached at two insertion points", el.Kind()))
		}
		if e.tree.Contains(el) {
			panic(fmt.Sprintf("edit: %s element is already part of the tree", el.Kind()))
		}
		e.claimed[el] = true
	}
}

// Insert stages el for attachment at pos.
func (e *Editor) Insert(pos Position, el syntax.Element) {
	e.stageable()
	e.claim(el)
	e.ops = append(e.ops, op{kind: opInsert, pos: pos, els: []syntax.Element{el}})
}

// InsertAll stages els for attachment at pos as one contiguous run, in the
// given order.
func (e *Editor) InsertAll(pos Position, els []syntax.Element) {
	e.stageable()
	if len(els) == 0 {
		return
	}
	e.claim(els...)
	e.ops = append(e.ops, op{kind: opInsert, pos: pos, els: els})
}

// Delete stages removal of el together with its subtree.
func (e *Editor) Delete(el syntax.Element) {
	e.stageable()
	e.ops = append(e.ops, op{kind: opDelete, target: el})
}

// Replace stages swapping el for replacement.
func (e *Editor) Replace(el, replacement syntax.Element) {
	e.stageable()
	e.claim(replacement)
	e.ops = append(e.ops, op{kind: opReplace, target: el, els: []syntax.Element{replacement}})
}

// ReplaceWithMany stages swapping el for a run of elements. An empty run
// behaves like Delete.
func (e *Editor) ReplaceWithMany(el syntax.Element, replacements []syntax.Element) {
	e.stageable()
	e.claim(replacements...)
	e.ops = append(e.ops, op{kind: opReplace, target: el, els: replacements})
}

// Apply materializes every staged operation in one deterministic pass.
// Targets resolve against the tree as it stands on entry; operations with
// independent targets land the same way regardless of staging order, and
// runs sharing an anchor keep their staging order. Conflicting or dangling
// operations panic. The editor cannot be reused afterwards.
func (e *Editor) Apply() {
	e.stageable()
	e.applied = true
	if len(e.ops) == 0 {
		return
	}

	removed := e.checkRemovals()
	e.checkAnchors(removed)
	e.checkClaimOverlap()

	plans := make(map[*syntax.Node]*parentPlan)
	var order []*syntax.Node
	planFor := func(n *syntax.Node) *parentPlan {
		p, ok := plans[n]
		if !ok {
			p = &parentPlan{parent: n, removals: make(map[int]*op)}
			plans[n] = p
			order = append(order, n)
		}
		return p
	}

	// Resolve everything before mutating anything.
	for i := range e.ops {
		o := &e.ops[i]
		if o.kind == opInsert {
			parent, gap, s := e.resolve(o.pos)
			p := planFor(parent)
			p.inserts = append(p.inserts, insertRun{gap: gap, side: s, els: o.els})
			continue
		}
		at := e.tree.IndexInParent(o.target)
		planFor(e.tree.Parent(o.target)).removals[at] = o
	}

	for _, parent := range order {
		e.rebuild(plans[parent])
	}
}

// checkRemovals validates delete and replace targets and returns the set
// of removed elements.
func (e *Editor) checkRemovals() map[syntax.Element]bool {
	removed := make(map[syntax.Element]bool)
	for _, o := range e.ops {
		if o.kind == opInsert {
			continue
		}
		if o.target == nil {
			panic("edit: " + o.kind.String() + " of nil element")
		}
		if !e.tree.Contains(o.target) {
			panic(fmt.Sprintf("edit: %s target %s is not in the tree", o.kind, o.target.Kind()))
		}
		if n, ok := o.target.(*syntax.Node); ok && n == e.tree.Root() {
			panic("edit: cannot " + o.kind.String() + " the root node")
		}
		if removed[o.target] {
			panic(fmt.Sprintf("edit: conflicting edits: %s removed twice", o.target.Kind()))
		}
		removed[o.target] = true
	}
	for el := range removed {
		for _, anc := range e.tree.Ancestors(el) {
			if removed[anc] {
				panic(fmt.Sprintf("edit: conflicting edits: %s removed inside removed %s",
					el.Kind(), anc.Kind()))
			}
		}
	}
	return removed
}

// checkAnchors validates insert positions against the tree and against the
// removal set: an anchor that the same batch removes has no well-defined
// reading, so it is a conflict rather than a silent reinterpretation.
func (e *Editor) checkAnchors(removed map[syntax.Element]bool) {
	for _, o := range e.ops {
		if o.kind != opInsert {
			continue
		}
		target := o.pos.target
		if target == nil || o.pos.rel == 0 {
			panic("edit: insert at unaddressed position")
		}
		if !e.tree.Contains(target) {
			panic(fmt.Sprintf("edit: insert anchor %s is not in the tree", target.Kind()))
		}
		if o.pos.rel == relBefore || o.pos.rel == relAfter {
			if e.tree.Parent(target) == nil {
				panic("edit: insert anchor is the root node")
			}
		}
		if removed[target] {
			panic(fmt.Sprintf("edit: conflicting edits: insert anchored at removed %s", target.Kind()))
		}
		for _, anc := range e.tree.Ancestors(target) {
			if removed[anc] {
				panic(fmt.Sprintf("edit: conflicting edits: insert anchored inside removed %s", anc.Kind()))
			}
		}
	}
}

// checkClaimOverlap walks every staged fragment and panics when one
// element is reachable from two attachment points. The stage-time claim
// catches identical roots; this pass catches a fragment staged once and
// also reachable inside another staged fragment.
func (e *Editor) checkClaimOverlap() {
	seen := make(map[syntax.Element]bool)
	for _, o := range e.ops {
		for _, el := range o.els {
			syntax.Walk(el, func(d syntax.Element) {
				if seen[d] {
					panic(fmt.Sprintf("edit: %s element attached at two insertion points", d.Kind()))
				}
				seen[d] = true
			})
		}
	}
}

type side uint8

const (
	sideLeft  side = iota // run sits against the gap's left neighbor
	sideRight             // run sits against the gap's right neighbor
)

type insertRun struct {
	gap  int
	side side
	els  []syntax.Element
}

type parentPlan struct {
	parent   *syntax.Node
	inserts  []insertRun
	removals map[int]*op // child slot -> removal op
}

// resolve maps a position to a parent and gap slot in pre-apply
// coordinates. Gap g sits immediately before child g; the gap one past the
// last child is the append point.
func (e *Editor) resolve(pos Position) (*syntax.Node, int, side) {
	switch pos.rel {
	case relBefore:
		return e.tree.Parent(pos.target), e.tree.IndexInParent(pos.target), sideRight
	case relAfter:
		return e.tree.Parent(pos.target), e.tree.IndexInParent(pos.target) + 1, sideLeft
	case relFirstChild:
		return pos.target.(*syntax.Node), 0, sideLeft
	case relLastChild:
		n := pos.target.(*syntax.Node)
		return n, n.NumChildren(), sideRight
	}
	panic("edit: insert at unaddressed position")
}

// rebuild reconstructs one parent's child list. Left-side runs stack
// toward their anchor, so a later-staged run lands nearer and the bucket
// is emitted in reverse staging order; right-side runs keep staging order.
// Old children survive in place unless a removal claims their slot, in
// which case the replacement run (empty for a delete) is emitted instead.
func (e *Editor) rebuild(p *parentPlan) {
	old := p.parent.Children()
	out := make([]syntax.Element, 0, len(old)+len(p.inserts))

	left := make(map[int][]insertRun)
	right := make(map[int][]insertRun)
	for _, r := range p.inserts {
		if r.side == sideLeft {
			left[r.gap] = append(left[r.gap], r)
		} else {
			right[r.gap] = append(right[r.gap], r)
		}
	}

	for gap := 0; gap <= len(old); gap++ {
		ls := left[gap]
		for i := len(ls) - 1; i >= 0; i-- {
			out = append(out, ls[i].els...)
		}
		for _, r := range right[gap] {
			out = append(out, r.els...)
		}
		if gap == len(old) {
			break
		}
		if rm, hit := p.removals[gap]; hit {
			out = append(out, rm.els...)
			continue
		}
		out = append(out, old[gap])
	}
	e.tree.SetChildren(p.parent, out...)
}
