package edit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sted/internal/ast"
	"sted/internal/lang"
	"sted/internal/syntax"
)

func mustParse(t *testing.T, src string) *syntax.Tree {
	t.Helper()
	tree, err := lang.Parse(src)
	require.NoError(t, err)
	return tree
}

// session parses src and opens an editor on a mutable copy.
func session(t *testing.T, src string) (*syntax.Tree, *Editor) {
	t.Helper()
	mut := mustParse(t, src).Unfreeze()
	return mut, NewEditor(mut)
}

func genericList(t *testing.T, tree *syntax.Tree) *ast.GenericParamList {
	t.Helper()
	list := ast.CastGenericParamList(tree.Root().FindNode(syntax.GenericParamList))
	require.NotNil(t, list)
	return list
}

func TestNewEditor_RejectsFrozenTree(t *testing.T) {
	tree := mustParse(t, "let x = 1;")
	assert.PanicsWithValue(t, "edit: NewEditor requires a mutable tree", func() {
		NewEditor(tree)
	})
}

func TestApply_EmptyBatchKeepsTextIdentical(t *testing.T) {
	src := "import a.b;\n\nfunction f<T>(x: T) { x }\n"
	tree, ed := session(t, src)
	ed.Apply()
	assert.Equal(t, src, tree.Text())
}

func TestInsert_AfterOneAnchorStacksLastStagedNearest(t *testing.T) {
	tree, ed := session(t, "function f<A>() {}")
	param := genericList(t, tree).LastParam()

	ed.Insert(After(param.Node()), ast.MakeToken(syntax.Comma))
	ed.Insert(After(param.Node()), ast.MakeToken(syntax.Semi))
	ed.Apply()

	assert.Equal(t, "function f<A;,>() {}", tree.Text())
}

func TestInsert_BeforeOneAnchorKeepsStagingOrder(t *testing.T) {
	tree, ed := session(t, "function f<A>() {}")
	param := genericList(t, tree).LastParam()

	ed.Insert(Before(param.Node()), ast.MakeToken(syntax.Comma))
	ed.Insert(Before(param.Node()), ast.MakeToken(syntax.Semi))
	ed.Apply()

	assert.Equal(t, "function f<,;A>() {}", tree.Text())
}

func TestInsertAll_PreservesGivenOrder(t *testing.T) {
	tree, ed := session(t, "function f<A>() {}")
	param := genericList(t, tree).LastParam()

	ed.InsertAll(After(param.Node()), []syntax.Element{
		ast.MakeToken(syntax.Comma),
		ast.MakeWhitespace(" "),
		ast.MakeToken(syntax.Semi),
	})
	ed.Apply()

	assert.Equal(t, "function f<A, ;>() {}", tree.Text())
}

func TestInsert_FirstChildOf(t *testing.T) {
	tree, ed := session(t, "import g.{a};")
	group := tree.Root().FindNode(syntax.ImportGroup)
	require.NotNil(t, group)

	ed.Insert(FirstChildOf(group), ast.MakeToken(syntax.Semi))
	ed.Insert(FirstChildOf(group), ast.MakeToken(syntax.Comma))
	ed.Apply()

	// Later staged prepends in front of earlier staged.
	require.GreaterOrEqual(t, group.NumChildren(), 2)
	assert.Equal(t, syntax.Comma, group.Child(0).Kind())
	assert.Equal(t, syntax.Semi, group.Child(1).Kind())
}

func TestInsert_LastChildOf(t *testing.T) {
	tree, ed := session(t, "import g.{a};")
	group := tree.Root().FindNode(syntax.ImportGroup)
	require.NotNil(t, group)

	ed.Insert(LastChildOf(group), ast.MakeToken(syntax.Semi))
	ed.Insert(LastChildOf(group), ast.MakeToken(syntax.Comma))
	ed.Apply()

	// Appends keep staging order.
	n := group.NumChildren()
	require.GreaterOrEqual(t, n, 2)
	assert.Equal(t, syntax.Semi, group.Child(n-2).Kind())
	assert.Equal(t, syntax.Comma, group.Child(n-1).Kind())
}

func TestDelete_RemovesElement(t *testing.T) {
	tree, ed := session(t, "function f<A, B>() {}")
	list := genericList(t, tree)
	comma := list.Node().TokenOfKind(syntax.Comma)
	require.NotNil(t, comma)

	ed.Delete(comma)
	ed.Apply()

	assert.Equal(t, "function f<A B>() {}", tree.Text())
}

func TestReplace_SwapsElement(t *testing.T) {
	tree, ed := session(t, "function f<A, B>() {}")
	last := genericList(t, tree).LastParam()

	ed.Replace(last.Node(), ast.MakeTypeParam("C", "x.Ord").Node())
	ed.Apply()

	assert.Equal(t, "function f<A, C: x.Ord>() {}", tree.Text())
}

func TestReplaceWithMany(t *testing.T) {
	t.Run("expands one slot into a run", func(t *testing.T) {
		tree, ed := session(t, "function f<A>() {}")
		param := genericList(t, tree).LastParam()

		ed.ReplaceWithMany(param.Node(), []syntax.Element{
			ast.MakeTypeParam("B").Node(),
			ast.MakeToken(syntax.Comma),
			ast.MakeWhitespace(" "),
			ast.MakeTypeParam("C").Node(),
		})
		ed.Apply()

		assert.Equal(t, "function f<B, C>() {}", tree.Text())
	})

	t.Run("empty run behaves like delete", func(t *testing.T) {
		tree, ed := session(t, "function f<A>() {}")
		param := genericList(t, tree).LastParam()

		ed.ReplaceWithMany(param.Node(), nil)
		ed.Apply()

		assert.Equal(t, "function f<>() {}", tree.Text())
	})
}

func TestApply_IndependentTargetsCommute(t *testing.T) {
	const src = "function f<A, B>() {}"

	run := func(aFirst bool) string {
		tree, ed := session(t, src)
		params := genericList(t, tree).Params()
		require.Len(t, params, 2)
		stageA := func() { ed.Insert(After(params[0].Node()), ast.MakeToken(syntax.Semi)) }
		stageB := func() { ed.Delete(params[1].Node()) }
		if aFirst {
			stageA()
			stageB()
		} else {
			stageB()
			stageA()
		}
		ed.Apply()
		return tree.Text()
	}

	assert.Equal(t, run(true), run(false))
}

func TestApply_MixedBatchOnOneParent(t *testing.T) {
	tree, ed := session(t, "function f<A, B, C>() {}")
	list := genericList(t, tree)
	params := list.Params()
	require.Len(t, params, 3)

	// Replace A, insert after B, delete C with its leading separator.
	ed.Replace(params[0].Node(), ast.MakeTypeParam("X").Node())
	ed.Insert(After(params[1].Node()), ast.MakeToken(syntax.Semi))
	children := list.Node().Children()
	idxC := list.Node().IndexOf(params[2].Node())
	ed.Delete(children[idxC-2]) // the comma before C
	ed.Delete(children[idxC-1]) // the space before C
	ed.Delete(params[2].Node())
	ed.Apply()

	assert.Equal(t, "function f<X, B;>() {}", tree.Text())
}

func TestApply_NestedParentsStayIndependent(t *testing.T) {
	tree, ed := session(t, "function f<A>(x: T) { let y = 1; }")
	list := genericList(t, tree)
	body := tree.Root().FindNode(syntax.Block)
	require.NotNil(t, body)
	let := body.NodeOfKind(syntax.LetDecl)
	require.NotNil(t, let)

	ed.Insert(After(list.LastParam().Node()), ast.MakeToken(syntax.Comma))
	ed.Delete(let)
	ed.Apply()

	assert.Equal(t, "function f<A,>(x: T) {  }", tree.Text())
}

func TestApply_PanicsOnConflictsAndMisuse(t *testing.T) {
	t.Run("element removed twice", func(t *testing.T) {
		tree, ed := session(t, "function f<A>() {}")
		param := genericList(t, tree).LastParam()
		ed.Delete(param.Node())
		ed.Delete(param.Node())
		assert.PanicsWithValue(t, "edit: conflicting edits: TypeParam removed twice", ed.Apply)
	})

	t.Run("delete and replace of one element", func(t *testing.T) {
		tree, ed := session(t, "function f<A>() {}")
		param := genericList(t, tree).LastParam()
		ed.Delete(param.Node())
		ed.Replace(param.Node(), ast.MakeTypeParam("B").Node())
		assert.PanicsWithValue(t, "edit: conflicting edits: TypeParam removed twice", ed.Apply)
	})

	t.Run("removal inside a removed subtree", func(t *testing.T) {
		tree, ed := session(t, "function f<A>() {}")
		list := genericList(t, tree)
		ed.Delete(list.Node())
		ed.Delete(list.LastParam().Node())
		assert.PanicsWithValue(t,
			"edit: conflicting edits: TypeParam removed inside removed GenericParamList", ed.Apply)
	})

	t.Run("insert anchored at a removed element", func(t *testing.T) {
		tree, ed := session(t, "function f<A>() {}")
		param := genericList(t, tree).LastParam()
		ed.Delete(param.Node())
		ed.Insert(After(param.Node()), ast.MakeToken(syntax.Comma))
		assert.PanicsWithValue(t,
			"edit: conflicting edits: insert anchored at removed TypeParam", ed.Apply)
	})

	t.Run("insert anchored inside a removed subtree", func(t *testing.T) {
		tree, ed := session(t, "function f<A>() {}")
		list := genericList(t, tree)
		ed.Delete(list.Node())
		ed.Insert(After(list.LastParam().Node()), ast.MakeToken(syntax.Comma))
		assert.PanicsWithValue(t,
			"edit: conflicting edits: insert anchored inside removed GenericParamList", ed.Apply)
	})

	t.Run("dangling target from another tree", func(t *testing.T) {
		_, ed := session(t, "function f<A>() {}")
		other := mustParse(t, "function g<Z>() {}")
		foreign := other.Root().FindNode(syntax.TypeParam)
		ed.Delete(foreign)
		assert.PanicsWithValue(t, "edit: delete target TypeParam is not in the tree", ed.Apply)
	})

	t.Run("dangling insert anchor", func(t *testing.T) {
		_, ed := session(t, "function f<A>() {}")
		other := mustParse(t, "function g<Z>() {}")
		foreign := other.Root().FindNode(syntax.TypeParam)
		ed.Insert(After(foreign), ast.MakeToken(syntax.Comma))
		assert.PanicsWithValue(t, "edit: insert anchor TypeParam is not in the tree", ed.Apply)
	})

	t.Run("deleting the root", func(t *testing.T) {
		tree, ed := session(t, "let x = 1;")
		ed.Delete(tree.Root())
		assert.PanicsWithValue(t, "edit: cannot delete the root node", ed.Apply)
	})

	t.Run("anchoring before the root", func(t *testing.T) {
		tree, ed := session(t, "let x = 1;")
		ed.Insert(Before(tree.Root()), ast.MakeToken(syntax.Semi))
		assert.PanicsWithValue(t, "edit: insert anchor is the root node", ed.Apply)
	})

	t.Run("attaching one element at two points", func(t *testing.T) {
		tree, ed := session(t, "function f<A, B>() {}")
		params := genericList(t, tree).Params()
		tok := ast.MakeToken(syntax.Comma)
		ed.Insert(After(params[0].Node()), tok)
		assert.PanicsWithValue(t, "edit: Comma element attached at two insertion points", func() {
			ed.Insert(After(params[1].Node()), tok)
		})
	})

	t.Run("attaching an element that is already in the tree", func(t *testing.T) {
		tree, ed := session(t, "function f<A, B>() {}")
		params := genericList(t, tree).Params()
		assert.PanicsWithValue(t, "edit: TypeParam element is already part of the tree", func() {
			ed.Insert(After(params[0].Node()), params[1].Node())
		})
	})

	t.Run("attaching a fragment and a piece of it", func(t *testing.T) {
		tree, ed := session(t, "function f<A, B>() {}")
		params := genericList(t, tree).Params()
		param := ast.MakeTypeParam("C")
		ed.Insert(After(params[0].Node()), param.Node())
		ed.Insert(After(params[1].Node()), param.Name().Node())
		assert.PanicsWithValue(t, "edit: Name element attached at two insertion points", ed.Apply)
	})

	t.Run("applying twice", func(t *testing.T) {
		_, ed := session(t, "let x = 1;")
		ed.Apply()
		assert.PanicsWithValue(t, "edit: editor already applied", ed.Apply)
	})

	t.Run("staging after apply", func(t *testing.T) {
		tree, ed := session(t, "let x = 1;")
		ed.Apply()
		assert.PanicsWithValue(t, "edit: editor already applied", func() {
			ed.Delete(tree.Root().FirstChild())
		})
	})
}
