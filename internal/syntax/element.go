package syntax

import "strings"

// Element is a node or a token. The two implementations are *Node and
// *Token; identity within a tree is pointer identity.
type Element interface {
	Kind() Kind
	// Text renders the element back to source text.
	Text() string

	writeText(sb *strings.Builder)
	deepCopy() Element
}

// Token is a leaf element carrying a span of source text.
type Token struct {
	kind Kind
	text string
}

// NewToken builds a token of the given kind and text.
func NewToken(kind Kind, text string) *Token {
	if !kind.IsToken() {
		panic("syntax: NewToken called with node kind " + kind.String())
	}
	return &Token{kind: kind, text: text}
}

// Kind returns the token's kind tag.
func (t *Token) Kind() Kind { return t.kind }

// Text returns the token's source text.
func (t *Token) Text() string { return t.text }

func (t *Token) writeText(sb *strings.Builder) { sb.WriteString(t.text) }

func (t *Token) deepCopy() Element {
	cp := *t
	return &cp
}

// Node is an interior element holding an ordered sequence of children,
// nodes interleaved with tokens. A node does not know its parent; the
// owning Tree answers parent queries through its lookup index.
type Node struct {
	kind     Kind
	children []Element
}

// NewNode builds a node of the given kind over children.
func NewNode(kind Kind, children ...Element) *Node {
	if !kind.IsNode() {
		panic("syntax: NewNode called with token kind " + kind.String())
	}
	return &Node{kind: kind, children: children}
}

// Kind returns the node's kind tag.
func (n *Node) Kind() Kind { return n.kind }

// Children returns the node's child list in document order. The returned
// slice is the node's own storage; callers must not modify it.
func (n *Node) Children() []Element { return n.children }

// NumChildren returns the number of direct children.
func (n *Node) NumChildren() int { return len(n.children) }

// Child returns the i-th direct child.
func (n *Node) Child(i int) Element { return n.children[i] }

// FirstChild returns the first direct child, or nil for an empty node.
func (n *Node) FirstChild() Element {
	if len(n.children) == 0 {
		return nil
	}
	return n.children[0]
}

// LastChild returns the last direct child, or nil for an empty node.
func (n *Node) LastChild() Element {
	if len(n.children) == 0 {
		return nil
	}
	return n.children[len(n.children)-1]
}

// ChildOfKind returns the first direct child of the given kind, or nil.
func (n *Node) ChildOfKind(k Kind) Element {
	for _, c := range n.children {
		if c.Kind() == k {
			return c
		}
	}
	return nil
}

// NodeOfKind returns the first direct child node of the given kind, or nil.
func (n *Node) NodeOfKind(k Kind) *Node {
	if c, ok := n.ChildOfKind(k).(*Node); ok {
		return c
	}
	return nil
}

// TokenOfKind returns the first direct child token of the given kind, or nil.
func (n *Node) TokenOfKind(k Kind) *Token {
	if c, ok := n.ChildOfKind(k).(*Token); ok {
		return c
	}
	return nil
}

// ChildNodes returns the direct children that are nodes, skipping tokens.
func (n *Node) ChildNodes() []*Node {
	var out []*Node
	for _, c := range n.children {
		if cn, ok := c.(*Node); ok {
			out = append(out, cn)
		}
	}
	return out
}

// NodesOfKind returns all direct child nodes of the given kind.
func (n *Node) NodesOfKind(k Kind) []*Node {
	var out []*Node
	for _, c := range n.children {
		if cn, ok := c.(*Node); ok && cn.kind == k {
			out = append(out, cn)
		}
	}
	return out
}

// IndexOf returns the slot of el in n's child list, or -1.
func (n *Node) IndexOf(el Element) int {
	for i, c := range n.children {
		if c == el {
			return i
		}
	}
	return -1
}

// Text renders the subtree under n back to source text.
func (n *Node) Text() string {
	var sb strings.Builder
	n.writeText(&sb)
	return sb.String()
}

func (n *Node) writeText(sb *strings.Builder) {
	for _, c := range n.children {
		c.writeText(sb)
	}
}

func (n *Node) deepCopy() Element {
	cp := &Node{kind: n.kind}
	if len(n.children) > 0 {
		cp.children = make([]Element, len(n.children))
		for i, c := range n.children {
			cp.children[i] = c.deepCopy()
		}
	}
	return cp
}

// Clone returns a deep copy of el with fresh identities throughout.
func Clone(el Element) Element { return el.deepCopy() }

// Walk visits el and every element beneath it in document order.
func Walk(el Element, visit func(Element)) {
	visit(el)
	if n, ok := el.(*Node); ok {
		for _, c := range n.children {
			Walk(c, visit)
		}
	}
}

// FindNode returns the first node of the given kind in document order
// within n's subtree, n itself included, or nil.
func (n *Node) FindNode(kind Kind) *Node {
	var found *Node
	Walk(n, func(el Element) {
		if found != nil {
			return
		}
		if d, ok := el.(*Node); ok && d.Kind() == kind {
			found = d
		}
	})
	return found
}

// FirstToken returns the leftmost token under el, or nil.
func FirstToken(el Element) *Token {
	switch v := el.(type) {
	case *Token:
		return v
	case *Node:
		for _, c := range v.children {
			if t := FirstToken(c); t != nil {
				return t
			}
		}
	}
	return nil
}

// LastToken returns the rightmost token under el, or nil.
func LastToken(el Element) *Token {
	switch v := el.(type) {
	case *Token:
		return v
	case *Node:
		for i := len(v.children) - 1; i >= 0; i-- {
			if t := LastToken(v.children[i]); t != nil {
				return t
			}
		}
	}
	return nil
}
