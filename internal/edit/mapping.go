package edit

import (
	"fmt"

	"sted/internal/syntax"
)

// Mapping records, for nodes produced by a recording factory, which
// pre-edit node each one was derived from. Keys are output node
// identities; after an edit lands, Upmap answers "which original node does
// this new node stand in for". A mapping belongs to one editing session
// and is not safe for concurrent use.
type Mapping struct {
	olds  map[*syntax.Node]*syntax.Node
	order []*syntax.Node
}

// MappingEntry is one recorded derivation.
type MappingEntry struct {
	New *syntax.Node
	Old *syntax.Node
}

func NewMapping() *Mapping {
	return &Mapping{olds: make(map[*syntax.Node]*syntax.Node)}
}

// Upmap returns the pre-edit node that n was derived from.
func (m *Mapping) Upmap(n *syntax.Node) (*syntax.Node, bool) {
	old, ok := m.olds[n]
	return old, ok
}

func (m *Mapping) Len() int { return len(m.order) }

// Entries returns every recorded pair in registration order.
func (m *Mapping) Entries() []MappingEntry {
	out := make([]MappingEntry, len(m.order))
	for i, n := range m.order {
		out[i] = MappingEntry{New: n, Old: m.olds[n]}
	}
	return out
}

func (m *Mapping) add(output, input *syntax.Node) {
	if _, dup := m.olds[output]; dup {
		panic(fmt.Sprintf("edit: mapping recorded twice for one %s node", output.Kind()))
	}
	m.olds[output] = input
	m.order = append(m.order, output)
}

// mappingBuilder stages the pairs for one constructed fragment and commits
// them together. A nil builder (factory without a store) swallows every
// call, which keeps the constructors free of recording branches.
type mappingBuilder struct {
	store *Mapping
	pairs []MappingEntry
}

func (b *mappingBuilder) mapNode(input, output *syntax.Node) {
	if b == nil {
		return
	}
	if input == nil || output == nil {
		panic("edit: mapping with nil node")
	}
	b.pairs = append(b.pairs, MappingEntry{New: output, Old: input})
}

func (b *mappingBuilder) mapChildren(inputs, outputs []*syntax.Node) {
	if b == nil {
		return
	}
	n := min(len(inputs), len(outputs))
	for i := 0; i < n; i++ {
		b.mapNode(inputs[i], outputs[i])
	}
}

func (b *mappingBuilder) finish() {
	if b == nil {
		return
	}
	for _, p := range b.pairs {
		b.store.add(p.New, p.Old)
	}
}
