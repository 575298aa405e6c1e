package lang

import "sted/internal/syntax"

// treeBuilder assembles a syntax tree bottom-up while the parser walks the
// grammar. start opens a node, token appends a leaf to the innermost open
// node, finish closes it and hands the node to its parent frame.
type treeBuilder struct {
	stack []frame
}

type frame struct {
	kind     syntax.Kind
	children []syntax.Element
}

// checkpoint marks a slot in the innermost open frame so that elements
// parsed after it can be wrapped into a node retroactively. Left-associative
// binary expressions are built this way.
type checkpoint int

func (b *treeBuilder) start(kind syntax.Kind) {
	b.stack = append(b.stack, frame{kind: kind})
}

func (b *treeBuilder) token(t *syntax.Token) {
	top := &b.stack[len(b.stack)-1]
	top.children = append(top.children, t)
}

func (b *treeBuilder) finish() *syntax.Node {
	top := b.stack[len(b.stack)-1]
	b.stack = b.stack[:len(b.stack)-1]
	n := syntax.NewNode(top.kind, top.children...)
	if len(b.stack) > 0 {
		parent := &b.stack[len(b.stack)-1]
		parent.children = append(parent.children, n)
	}
	return n
}

// abandon closes the innermost frame without wrapping it in a node; its
// children move to the parent frame as-is. The parser uses this when a
// speculatively opened statement turns out to be a trailing expression.
func (b *treeBuilder) abandon() {
	top := b.stack[len(b.stack)-1]
	b.stack = b.stack[:len(b.stack)-1]
	parent := &b.stack[len(b.stack)-1]
	parent.children = append(parent.children, top.children...)
}

func (b *treeBuilder) mark() checkpoint {
	top := &b.stack[len(b.stack)-1]
	return checkpoint(len(top.children))
}

// startAt opens a node that adopts everything parsed since the checkpoint.
func (b *treeBuilder) startAt(c checkpoint, kind syntax.Kind) {
	top := &b.stack[len(b.stack)-1]
	moved := append([]syntax.Element(nil), top.children[c:]...)
	top.children = top.children[:c]
	b.stack = append(b.stack, frame{kind: kind, children: moved})
}
