package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixture builds the tree for "let x = 1;" by hand:
//
//	LetDecl
//	  KwLet "let" ws BindPat(Name(Ident "x")) ws Eq "=" ws Literal(IntLit "1") Semi ";"
func fixture() (*Tree, *Node) {
	name := NewNode(Name, NewToken(Ident, "x"))
	pat := NewNode(BindPat, name)
	lit := NewNode(Literal, NewToken(IntLit, "1"))
	decl := NewNode(LetDecl,
		NewToken(KwLet, "let"),
		NewToken(Whitespace, " "),
		pat,
		NewToken(Whitespace, " "),
		NewToken(Eq, "="),
		NewToken(Whitespace, " "),
		lit,
		NewToken(Semi, ";"),
	)
	root := NewNode(SourceFile, decl)
	return NewTree(root), decl
}

func TestTreeText_RoundTrip(t *testing.T) {
	tree, _ := fixture()
	require.Equal(t, "let x = 1;", tree.Text())
}

func TestTree_FrozenByConstruction(t *testing.T) {
	tree, decl := fixture()
	require.True(t, tree.Frozen())

	assert.PanicsWithValue(t, "syntax: InsertChildren on frozen tree", func() {
		tree.InsertChildren(decl, 0, NewToken(Whitespace, " "))
	})
	assert.PanicsWithValue(t, "syntax: RemoveChild on frozen tree", func() {
		tree.RemoveChild(decl, 0)
	})
}

func TestTree_UnfreezeIsDeepCopy(t *testing.T) {
	tree, decl := fixture()
	mut := tree.Unfreeze()

	require.False(t, mut.Frozen())
	require.Equal(t, tree.Text(), mut.Text())

	// The copy holds fresh pointers; the frozen original is not a member.
	assert.False(t, mut.Contains(decl))
	assert.True(t, tree.Contains(decl))

	// Mutating the copy leaves the frozen tree untouched.
	mutDecl := mut.Root().NodeOfKind(LetDecl)
	require.NotNil(t, mutDecl)
	mut.RemoveChild(mut.Root(), 0)
	assert.Equal(t, "", mut.Text())
	assert.Equal(t, "let x = 1;", tree.Text())
}

func TestTree_FreezeEndsMutation(t *testing.T) {
	tree, _ := fixture()
	mut := tree.Unfreeze()
	decl := mut.Root().NodeOfKind(LetDecl)
	require.NotNil(t, decl)
	mut.InsertChildren(decl, 0, NewToken(Whitespace, " "))

	frozen := mut.Freeze()

	require.Same(t, mut, frozen)
	require.True(t, frozen.Frozen())
	assert.Equal(t, " let x = 1;", frozen.Text())
	assert.PanicsWithValue(t, "syntax: RemoveChild on frozen tree", func() {
		frozen.RemoveChild(decl, 0)
	})
}

func TestTree_ParentIsLookupNotOwnership(t *testing.T) {
	tree, decl := fixture()
	pat := decl.NodeOfKind(BindPat)
	require.NotNil(t, pat)

	assert.Same(t, decl, tree.Parent(pat))
	assert.Same(t, tree.Root(), tree.Parent(decl))
	assert.Nil(t, tree.Parent(tree.Root()))
	assert.Equal(t, 2, tree.IndexInParent(pat))

	// An element from another tree has no parent here.
	_, otherDecl := fixture()
	assert.Nil(t, tree.Parent(otherDecl))
	assert.False(t, tree.Contains(otherDecl))
}

func TestTree_IndexRebuiltAfterMutation(t *testing.T) {
	tree, _ := fixture()
	mut := tree.Unfreeze()
	decl := mut.Root().NodeOfKind(LetDecl)
	pat := decl.NodeOfKind(BindPat)

	require.Equal(t, 2, mut.IndexInParent(pat))

	mut.RemoveChild(decl, 0) // drop "let"
	mut.RemoveChild(decl, 0) // drop " "
	assert.Equal(t, 0, mut.IndexInParent(pat))
	assert.Equal(t, "x = 1;", mut.Text())
}

func TestTree_ReplaceChild(t *testing.T) {
	tree, _ := fixture()
	mut := tree.Unfreeze()
	decl := mut.Root().NodeOfKind(LetDecl)
	lit := decl.NodeOfKind(Literal)
	at := mut.IndexInParent(lit)

	displaced := mut.ReplaceChild(decl, at, NewNode(Literal, NewToken(IntLit, "42")))
	assert.Same(t, lit, displaced)
	assert.Equal(t, "let x = 42;", mut.Text())
}

func TestSiblingsAndNeighbor(t *testing.T) {
	a := NewNode(ImportClause, NewNode(Path, NewNode(Name, NewToken(Ident, "a"))))
	b := NewNode(ImportClause, NewNode(Path, NewNode(Name, NewToken(Ident, "b"))))
	c := NewNode(ImportClause, NewNode(Path, NewNode(Name, NewToken(Ident, "c"))))
	group := NewNode(ImportGroup,
		NewToken(LBrace, "{"),
		a,
		NewToken(Comma, ","),
		NewToken(Whitespace, " "),
		b,
		NewToken(Comma, ","),
		NewToken(Whitespace, " "),
		c,
		NewToken(RBrace, "}"),
	)
	tree := NewTree(NewNode(SourceFile, group))

	next := tree.Siblings(b, Next)
	require.Len(t, next, 4)
	assert.Equal(t, Comma, next[0].Kind())

	prev := tree.Siblings(b, Prev)
	require.Len(t, prev, 4)
	assert.Equal(t, Whitespace, prev[0].Kind())

	assert.Same(t, c, tree.Neighbor(b, Next, ImportClause))
	assert.Same(t, a, tree.Neighbor(b, Prev, ImportClause))
	assert.Nil(t, tree.Neighbor(c, Next, ImportClause))
	assert.Nil(t, tree.Neighbor(a, Prev, ImportClause))
}

func TestNextPrevSibling(t *testing.T) {
	tree, decl := fixture()
	kids := decl.Children()

	assert.Same(t, kids[1], tree.NextSibling(kids[0]))
	assert.Same(t, kids[0], tree.PrevSibling(kids[1]))
	assert.Nil(t, tree.NextSibling(kids[len(kids)-1]))
	assert.Nil(t, tree.PrevSibling(kids[0]))
}

func TestFirstLastToken(t *testing.T) {
	_, decl := fixture()
	first := FirstToken(decl)
	last := LastToken(decl)
	require.NotNil(t, first)
	require.NotNil(t, last)
	assert.Equal(t, "let", first.Text())
	assert.Equal(t, ";", last.Text())
}
