package edit

import (
	"sted/internal/ast"
	"sted/internal/syntax"
)

// Factory builds fragments the way the ast constructors do, optionally
// recording which input node each output part was derived from. Recording
// costs nothing unless a store is attached. Inputs are read, never
// attached: every output is a fresh, detached subtree.
type Factory struct {
	mapping *Mapping
}

func NewFactory() *Factory { return &Factory{} }

// NewFactoryWithMapping returns a factory that records derivations into m.
func NewFactoryWithMapping(m *Mapping) *Factory { return &Factory{mapping: m} }

// Mapping returns the attached store, or nil for a non-recording factory.
func (f *Factory) Mapping() *Mapping { return f.mapping }

func (f *Factory) builder() *mappingBuilder {
	if f.mapping == nil {
		return nil
	}
	return &mappingBuilder{store: f.mapping}
}

// Name builds an identifier node. Names are leaves and carry no mapping.
func (f *Factory) Name(text string) *ast.Name { return ast.MakeName(text) }

// TypeRef builds a type reference from text. No mapping.
func (f *Factory) TypeRef(text string) *ast.TypeRef { return ast.MakeTypeRef(text) }

// Literal builds a literal expression from text. No mapping.
func (f *Factory) Literal(text string) *ast.Literal { return ast.MakeLiteral(text) }

// Token builds a fixed-text token. No mapping.
func (f *Factory) Token(kind syntax.Kind) *syntax.Token { return ast.MakeToken(kind) }

// Whitespace builds a whitespace token. No mapping.
func (f *Factory) Whitespace(text string) *syntax.Token { return ast.MakeWhitespace(text) }

// TypeParam builds a type parameter from an existing name and optional
// bound list, recording the name and, when supplied, the bound list.
func (f *Factory) TypeParam(name *ast.Name, bounds *ast.TypeBoundList) *ast.TypeParam {
	var out *ast.TypeParam
	if bounds == nil {
		out = ast.MakeTypeParam(name.Text())
	} else {
		out = ast.MakeTypeParam(name.Text(), boundTexts(bounds)...)
	}
	b := f.builder()
	b.mapNode(name.Node(), out.Name().Node())
	if bounds != nil {
		b.mapNode(bounds.Node(), out.Bounds().Node())
	}
	b.finish()
	return out
}

// BindPat builds a binding pattern, recording the name.
func (f *Factory) BindPat(name *ast.Name) *ast.BindPat {
	out := ast.MakeBindPat(name.Text())
	b := f.builder()
	b.mapNode(name.Node(), out.Name().Node())
	b.finish()
	return out
}

// Block builds a block, pairing statements positionally and recording the
// tail expression when supplied.
func (f *Factory) Block(stmts []*ast.Stmt, tail *ast.Expr) *ast.Block {
	out := ast.MakeBlock(stmts, tail)
	b := f.builder()
	b.mapChildren(stmtNodes(stmts), stmtNodes(out.Stmts()))
	if tail != nil && out.TailExpr() != nil {
		b.mapNode(tail.Node(), out.TailExpr().Node())
	}
	b.finish()
	return out
}

// BinExpr builds a binary expression, recording both operands. The
// operator token is fixed text and carries no mapping.
func (f *Factory) BinExpr(lhs *ast.Expr, op string, rhs *ast.Expr) *ast.BinExpr {
	out := ast.MakeBinExpr(lhs, op, rhs)
	b := f.builder()
	b.mapNode(lhs.Node(), out.Lhs().Node())
	b.mapNode(rhs.Node(), out.Rhs().Node())
	b.finish()
	return out
}

// PathExpr builds a path expression from an existing path, recording it.
func (f *Factory) PathExpr(path *ast.Path) *ast.PathExpr {
	out := ast.MakePathExpr(path.Text())
	b := f.builder()
	b.mapNode(path.Node(), out.Path().Node())
	b.finish()
	return out
}

// RefExpr builds a borrow expression, recording the operand.
func (f *Factory) RefExpr(expr *ast.Expr, mutable bool) *ast.RefExpr {
	out := ast.MakeRefExpr(expr, mutable)
	b := f.builder()
	b.mapNode(expr.Node(), out.Expr().Node())
	b.finish()
	return out
}

// LetDecl builds a let statement, recording the pattern and whichever of
// type and initializer are supplied.
func (f *Factory) LetDecl(pat *ast.BindPat, ty *ast.TypeRef, init *ast.Expr) *ast.LetDecl {
	out := ast.MakeLetDecl(pat, ty, init)
	b := f.builder()
	b.mapNode(pat.Node(), out.Pat().Node())
	if ty != nil {
		b.mapNode(ty.Node(), out.Type().Node())
	}
	if init != nil {
		b.mapNode(init.Node(), out.Init().Node())
	}
	b.finish()
	return out
}

// GenericArgList builds a turbofish list, pairing arguments positionally.
func (f *Factory) GenericArgList(args ...*ast.TypeRef) *ast.GenericArgList {
	out := ast.MakeGenericArgList(args...)
	b := f.builder()
	b.mapChildren(typeRefNodes(args), typeRefNodes(out.Args()))
	b.finish()
	return out
}

// TokenGroup builds a delimited group around copies of els, pairing each
// input node with its copy. Token children carry no mapping.
func (f *Factory) TokenGroup(open syntax.Kind, els ...syntax.Element) *ast.TokenGroup {
	out := ast.MakeTokenGroup(open, els...)
	b := f.builder()
	var inputs []*syntax.Node
	for _, el := range els {
		if n, ok := el.(*syntax.Node); ok {
			inputs = append(inputs, n)
		}
	}
	b.mapChildren(inputs, out.Nodes())
	b.finish()
	return out
}

func boundTexts(bounds *ast.TypeBoundList) []string {
	var out []string
	for _, p := range bounds.Bounds() {
		out = append(out, p.Text())
	}
	return out
}

func stmtNodes(stmts []*ast.Stmt) []*syntax.Node {
	out := make([]*syntax.Node, len(stmts))
	for i, s := range stmts {
		out[i] = s.Node()
	}
	return out
}

func typeRefNodes(refs []*ast.TypeRef) []*syntax.Node {
	out := make([]*syntax.Node, len(refs))
	for i, r := range refs {
		out[i] = r.Node()
	}
	return out
}
