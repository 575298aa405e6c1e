package edit

import (
	"strings"

	"sted/internal/ast"
	"sted/internal/syntax"
)

// Structural recipes. Each one only stages operations; the caller decides
// when the batch lands.

// AddTypeParam stages insertion of param into fn's generic parameter list,
// creating the list when the declaration has none. A list that already
// ends with a separator keeps it trailing; otherwise the new parameter is
// joined on with the editor's separator.
func (e *Editor) AddTypeParam(fn *ast.Fn, param *ast.TypeParam) {
	list := fn.GenericParams()
	if list == nil {
		els := []syntax.Element{
			ast.MakeToken(syntax.LAngle),
			param.Node(),
			ast.MakeToken(syntax.RAngle),
		}
		switch {
		case fn.Name() != nil:
			e.InsertAll(After(fn.Name().Node()), els)
		case fn.FnToken() != nil:
			e.InsertAll(After(fn.FnToken()), els)
		case fn.Params() != nil:
			e.InsertAll(Before(fn.Params().Node()), els)
		default:
			e.InsertAll(LastChildOf(fn.Node()), els)
		}
		return
	}

	last := list.LastParam()
	if last == nil {
		if l := list.LAngle(); l != nil {
			e.Insert(After(l), param.Node())
		} else {
			e.Insert(FirstChildOf(list.Node()), param.Node())
		}
		return
	}

	if hasTrailingSeparator(list, last) {
		// Single inserts after one anchor stack last-staged nearest, so
		// the separator ends up against the old parameter and the existing
		// trailing separator stays trailing.
		e.Insert(After(last.Node()), param.Node())
		sep := e.sepElements()
		for i := len(sep) - 1; i >= 0; i-- {
			e.Insert(After(last.Node()), sep[i])
		}
		return
	}
	e.InsertAll(After(last.Node()), append(e.sepElements(), param.Node()))
}

// sepElements renders the configured separator as elements to stage: the
// comma token plus a whitespace run when the separator carries one.
func (e *Editor) sepElements() []syntax.Element {
	els := []syntax.Element{ast.MakeToken(syntax.Comma)}
	if tail := e.sep[1:]; tail != "" {
		els = append(els, ast.MakeWhitespace(tail))
	}
	return els
}

func hasTrailingSeparator(list *ast.GenericParamList, last *ast.TypeParam) bool {
	children := list.Node().Children()
	idx := list.Node().IndexOf(last.Node())
	if idx < 0 {
		return false
	}
	for _, c := range children[idx+1:] {
		if t, ok := c.(*syntax.Token); ok && t.Kind() == syntax.Comma {
			return true
		}
	}
	return false
}

// RemoveImportDecl stages removal of an import declaration and normalizes
// the blank space around it: the following whitespace run loses the line
// break that ended the declaration's line, and the preceding run is
// trimmed back to its last line break so no indentation is left stranded.
// A preceding run with no line break goes entirely.
func (e *Editor) RemoveImportDecl(decl *ast.ImportDecl) {
	node := decl.Node()
	if ws := ast.CastWhitespace(e.tree.NextSibling(node)); ws != nil {
		if rest, ok := strings.CutPrefix(ws.Text(), "\n"); ok {
			if rest == "" {
				e.Delete(ws.Token())
			} else {
				e.Replace(ws.Token(), ast.MakeWhitespace(rest))
			}
		}
	}
	if ws := ast.CastWhitespace(e.tree.PrevSibling(node)); ws != nil {
		text := ws.Text()
		if i := strings.LastIndex(text, "\n"); i >= 0 {
			if trimmed := text[:i+1]; trimmed != text {
				e.Replace(ws.Token(), ast.MakeWhitespace(trimmed))
			}
		} else {
			e.Delete(ws.Token())
		}
	}
	e.Delete(node)
}

// RemoveImportClause stages removal of one clause from a grouped import
// along with the separator run joining it to its nearest surviving
// neighbor: everything between the clause and the next clause goes, or,
// for the last clause, everything back to the previous one.
func (e *Editor) RemoveImportClause(clause *ast.ImportClause) {
	node := clause.Node()
	if next := e.tree.Neighbor(node, syntax.Next, syntax.ImportClause); next != nil {
		e.deleteSiblingsUntil(node, syntax.Next, next)
	} else if prev := e.tree.Neighbor(node, syntax.Prev, syntax.ImportClause); prev != nil {
		e.deleteSiblingsUntil(node, syntax.Prev, prev)
	}
	e.Delete(node)
}

func (e *Editor) deleteSiblingsUntil(from syntax.Element, dir syntax.Direction, stop *syntax.Node) {
	for _, sib := range e.tree.Siblings(from, dir) {
		if sib == syntax.Element(stop) {
			return
		}
		e.Delete(sib)
	}
}
