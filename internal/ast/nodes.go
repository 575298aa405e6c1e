// Package ast layers typed views over raw syntax nodes. A wrapper is a
// thin handle around one node; Cast functions return nil when the node is
// not of the wrapped kind, and accessors return nil for grammar slots the
// node does not fill. Wrappers never copy: the underlying node is shared,
// and Node() unwraps it for the editing layer.
package ast

import "sted/internal/syntax"

// Name is an identifier node.
type Name struct{ node *syntax.Node }

func CastName(n *syntax.Node) *Name {
	if n == nil || n.Kind() != syntax.Name {
		return nil
	}
	return &Name{node: n}
}

func (n *Name) Node() *syntax.Node { return n.node }
func (n *Name) Text() string       { return n.node.Text() }

// Path is a dotted name sequence such as "foo.bar.baz".
type Path struct{ node *syntax.Node }

func CastPath(n *syntax.Node) *Path {
	if n == nil || n.Kind() != syntax.Path {
		return nil
	}
	return &Path{node: n}
}

func (p *Path) Node() *syntax.Node { return p.node }
func (p *Path) Text() string       { return p.node.Text() }

// Segments returns the path's name segments in order.
func (p *Path) Segments() []*Name {
	var out []*Name
	for _, n := range p.node.NodesOfKind(syntax.Name) {
		out = append(out, CastName(n))
	}
	return out
}

// TypeRef is a type reference: an optional &/&mut prefix and a path.
type TypeRef struct{ node *syntax.Node }

func CastTypeRef(n *syntax.Node) *TypeRef {
	if n == nil || n.Kind() != syntax.TypeRef {
		return nil
	}
	return &TypeRef{node: n}
}

func (t *TypeRef) Node() *syntax.Node { return t.node }
func (t *TypeRef) Path() *Path        { return CastPath(t.node.NodeOfKind(syntax.Path)) }

// TypeBoundList holds the bounds after the colon of a type parameter.
type TypeBoundList struct{ node *syntax.Node }

func CastTypeBoundList(n *syntax.Node) *TypeBoundList {
	if n == nil || n.Kind() != syntax.TypeBoundList {
		return nil
	}
	return &TypeBoundList{node: n}
}

func (t *TypeBoundList) Node() *syntax.Node { return t.node }

func (t *TypeBoundList) Bounds() []*Path {
	var out []*Path
	for _, n := range t.node.NodesOfKind(syntax.Path) {
		out = append(out, CastPath(n))
	}
	return out
}

// TypeParam is one generic parameter: a name with optional bounds.
type TypeParam struct{ node *syntax.Node }

func CastTypeParam(n *syntax.Node) *TypeParam {
	if n == nil || n.Kind() != syntax.TypeParam {
		return nil
	}
	return &TypeParam{node: n}
}

func (t *TypeParam) Node() *syntax.Node { return t.node }
func (t *TypeParam) Name() *Name        { return CastName(t.node.NodeOfKind(syntax.Name)) }
func (t *TypeParam) Bounds() *TypeBoundList {
	return CastTypeBoundList(t.node.NodeOfKind(syntax.TypeBoundList))
}

// GenericParamList is the angle-bracketed parameter list of a declaration.
type GenericParamList struct{ node *syntax.Node }

func CastGenericParamList(n *syntax.Node) *GenericParamList {
	if n == nil || n.Kind() != syntax.GenericParamList {
		return nil
	}
	return &GenericParamList{node: n}
}

func (g *GenericParamList) Node() *syntax.Node     { return g.node }
func (g *GenericParamList) LAngle() *syntax.Token  { return g.node.TokenOfKind(syntax.LAngle) }
func (g *GenericParamList) RAngle() *syntax.Token  { return g.node.TokenOfKind(syntax.RAngle) }

func (g *GenericParamList) Params() []*TypeParam {
	var out []*TypeParam
	for _, n := range g.node.NodesOfKind(syntax.TypeParam) {
		out = append(out, CastTypeParam(n))
	}
	return out
}

// LastParam returns the final parameter, or nil for an empty list.
func (g *GenericParamList) LastParam() *TypeParam {
	params := g.node.NodesOfKind(syntax.TypeParam)
	if len(params) == 0 {
		return nil
	}
	return CastTypeParam(params[len(params)-1])
}

// ParamList is the parenthesized value-parameter list of a function.
type ParamList struct{ node *syntax.Node }

func CastParamList(n *syntax.Node) *ParamList {
	if n == nil || n.Kind() != syntax.ParamList {
		return nil
	}
	return &ParamList{node: n}
}

func (p *ParamList) Node() *syntax.Node { return p.node }

func (p *ParamList) Params() []*syntax.Node {
	return p.node.NodesOfKind(syntax.Param)
}

// Fn is a function declaration.
type Fn struct{ node *syntax.Node }

func CastFn(n *syntax.Node) *Fn {
	if n == nil || n.Kind() != syntax.FnDecl {
		return nil
	}
	return &Fn{node: n}
}

func (f *Fn) Node() *syntax.Node      { return f.node }
func (f *Fn) FnToken() *syntax.Token  { return f.node.TokenOfKind(syntax.KwFunction) }
func (f *Fn) Name() *Name             { return CastName(f.node.NodeOfKind(syntax.Name)) }
func (f *Fn) Params() *ParamList      { return CastParamList(f.node.NodeOfKind(syntax.ParamList)) }
func (f *Fn) Body() *Block            { return CastBlock(f.node.NodeOfKind(syntax.Block)) }

func (f *Fn) GenericParams() *GenericParamList {
	return CastGenericParamList(f.node.NodeOfKind(syntax.GenericParamList))
}

// Expr wraps any expression node kind.
type Expr struct{ node *syntax.Node }

func CastExpr(n *syntax.Node) *Expr {
	if n == nil || !n.Kind().IsExpr() {
		return nil
	}
	return &Expr{node: n}
}

func (e *Expr) Node() *syntax.Node { return e.node }
func (e *Expr) Text() string       { return e.node.Text() }

// Stmt wraps any statement node kind.
type Stmt struct{ node *syntax.Node }

func CastStmt(n *syntax.Node) *Stmt {
	if n == nil || !n.Kind().IsStmt() {
		return nil
	}
	return &Stmt{node: n}
}

func (s *Stmt) Node() *syntax.Node { return s.node }
func (s *Stmt) Text() string       { return s.node.Text() }

// Block is a braced statement list with an optional trailing expression.
type Block struct{ node *syntax.Node }

func CastBlock(n *syntax.Node) *Block {
	if n == nil || n.Kind() != syntax.Block {
		return nil
	}
	return &Block{node: n}
}

func (b *Block) Node() *syntax.Node { return b.node }

func (b *Block) Stmts() []*Stmt {
	var out []*Stmt
	for _, c := range b.node.ChildNodes() {
		if s := CastStmt(c); s != nil {
			out = append(out, s)
		}
	}
	return out
}

// TailExpr returns the block's bare trailing expression, or nil. The parser
// only leaves an expression unwrapped in statement position when it has no
// semicolon and closes the block.
func (b *Block) TailExpr() *Expr {
	for _, c := range b.node.ChildNodes() {
		if e := CastExpr(c); e != nil {
			return e
		}
	}
	return nil
}

// LetDecl is a local binding: pattern, optional type, optional initializer.
type LetDecl struct{ node *syntax.Node }

func CastLetDecl(n *syntax.Node) *LetDecl {
	if n == nil || n.Kind() != syntax.LetDecl {
		return nil
	}
	return &LetDecl{node: n}
}

func (l *LetDecl) Node() *syntax.Node { return l.node }
func (l *LetDecl) Pat() *BindPat      { return CastBindPat(l.node.NodeOfKind(syntax.BindPat)) }
func (l *LetDecl) Type() *TypeRef     { return CastTypeRef(l.node.NodeOfKind(syntax.TypeRef)) }

// AsStmt views the declaration in statement position.
func (l *LetDecl) AsStmt() *Stmt { return &Stmt{node: l.node} }

func (l *LetDecl) Init() *Expr {
	for _, c := range l.node.ChildNodes() {
		if e := CastExpr(c); e != nil {
			return e
		}
	}
	return nil
}

// BindPat is a binding pattern: optional ref/mut markers and a name.
type BindPat struct{ node *syntax.Node }

func CastBindPat(n *syntax.Node) *BindPat {
	if n == nil || n.Kind() != syntax.BindPat {
		return nil
	}
	return &BindPat{node: n}
}

func (b *BindPat) Node() *syntax.Node     { return b.node }
func (b *BindPat) Name() *Name            { return CastName(b.node.NodeOfKind(syntax.Name)) }
func (b *BindPat) RefToken() *syntax.Token { return b.node.TokenOfKind(syntax.KwRef) }
func (b *BindPat) MutToken() *syntax.Token { return b.node.TokenOfKind(syntax.KwMut) }

// BinExpr is a binary expression. Lhs and Rhs are the first and second
// expression children; Op is the operator token between them.
type BinExpr struct{ node *syntax.Node }

func CastBinExpr(n *syntax.Node) *BinExpr {
	if n == nil || n.Kind() != syntax.BinExpr {
		return nil
	}
	return &BinExpr{node: n}
}

func (b *BinExpr) Node() *syntax.Node { return b.node }
func (b *BinExpr) AsExpr() *Expr      { return &Expr{node: b.node} }

func (b *BinExpr) Lhs() *Expr {
	if e := b.exprChild(0); e != nil {
		return e
	}
	return nil
}

func (b *BinExpr) Rhs() *Expr {
	return b.exprChild(1)
}

func (b *BinExpr) exprChild(i int) *Expr {
	seen := 0
	for _, c := range b.node.ChildNodes() {
		if e := CastExpr(c); e != nil {
			if seen == i {
				return e
			}
			seen++
		}
	}
	return nil
}

func (b *BinExpr) Op() *syntax.Token {
	for _, c := range b.node.Children() {
		if t, ok := c.(*syntax.Token); ok && !t.Kind().IsTrivia() {
			return t
		}
	}
	return nil
}

// PathExpr is a path in expression position, optionally with explicit
// generic arguments.
type PathExpr struct{ node *syntax.Node }

func CastPathExpr(n *syntax.Node) *PathExpr {
	if n == nil || n.Kind() != syntax.PathExpr {
		return nil
	}
	return &PathExpr{node: n}
}

func (p *PathExpr) Node() *syntax.Node { return p.node }
func (p *PathExpr) AsExpr() *Expr      { return &Expr{node: p.node} }
func (p *PathExpr) Path() *Path        { return CastPath(p.node.NodeOfKind(syntax.Path)) }

func (p *PathExpr) GenericArgs() *GenericArgList {
	return CastGenericArgList(p.node.NodeOfKind(syntax.GenericArgList))
}

// RefExpr is a borrow expression: &expr or &mut expr.
type RefExpr struct{ node *syntax.Node }

func CastRefExpr(n *syntax.Node) *RefExpr {
	if n == nil || n.Kind() != syntax.RefExpr {
		return nil
	}
	return &RefExpr{node: n}
}

func (r *RefExpr) Node() *syntax.Node      { return r.node }
func (r *RefExpr) AsExpr() *Expr           { return &Expr{node: r.node} }
func (r *RefExpr) MutToken() *syntax.Token { return r.node.TokenOfKind(syntax.KwMut) }

func (r *RefExpr) Expr() *Expr {
	for _, c := range r.node.ChildNodes() {
		if e := CastExpr(c); e != nil {
			return e
		}
	}
	return nil
}

// Literal wraps a literal expression node.
type Literal struct{ node *syntax.Node }

func CastLiteral(n *syntax.Node) *Literal {
	if n == nil || n.Kind() != syntax.Literal {
		return nil
	}
	return &Literal{node: n}
}

func (l *Literal) Node() *syntax.Node { return l.node }
func (l *Literal) AsExpr() *Expr      { return &Expr{node: l.node} }

func (l *Literal) Token() *syntax.Token {
	if t := l.node.TokenOfKind(syntax.IntLit); t != nil {
		return t
	}
	return l.node.TokenOfKind(syntax.StringLit)
}

// GenericArgList is an explicit generic-argument list: ::<T, U>.
type GenericArgList struct{ node *syntax.Node }

func CastGenericArgList(n *syntax.Node) *GenericArgList {
	if n == nil || n.Kind() != syntax.GenericArgList {
		return nil
	}
	return &GenericArgList{node: n}
}

func (g *GenericArgList) Node() *syntax.Node { return g.node }

func (g *GenericArgList) Args() []*TypeRef {
	var out []*TypeRef
	for _, n := range g.node.NodesOfKind(syntax.TypeRef) {
		out = append(out, CastTypeRef(n))
	}
	return out
}

// TokenGroup is a delimited run of raw elements.
type TokenGroup struct{ node *syntax.Node }

func CastTokenGroup(n *syntax.Node) *TokenGroup {
	if n == nil || n.Kind() != syntax.TokenGroup {
		return nil
	}
	return &TokenGroup{node: n}
}

func (t *TokenGroup) Node() *syntax.Node { return t.node }

// Nodes returns the group's direct child nodes, skipping tokens.
func (t *TokenGroup) Nodes() []*syntax.Node { return t.node.ChildNodes() }

// ImportDecl is an import declaration, plain or grouped.
type ImportDecl struct{ node *syntax.Node }

func CastImportDecl(n *syntax.Node) *ImportDecl {
	if n == nil || n.Kind() != syntax.ImportDecl {
		return nil
	}
	return &ImportDecl{node: n}
}

func (i *ImportDecl) Node() *syntax.Node { return i.node }
func (i *ImportDecl) Path() *Path        { return CastPath(i.node.NodeOfKind(syntax.Path)) }

func (i *ImportDecl) Group() *ImportGroup {
	return CastImportGroup(i.node.NodeOfKind(syntax.ImportGroup))
}

// ImportGroup is the braced clause list of a grouped import.
type ImportGroup struct{ node *syntax.Node }

func CastImportGroup(n *syntax.Node) *ImportGroup {
	if n == nil || n.Kind() != syntax.ImportGroup {
		return nil
	}
	return &ImportGroup{node: n}
}

func (g *ImportGroup) Node() *syntax.Node { return g.node }

func (g *ImportGroup) Clauses() []*ImportClause {
	var out []*ImportClause
	for _, n := range g.node.NodesOfKind(syntax.ImportClause) {
		out = append(out, CastImportClause(n))
	}
	return out
}

// ImportClause is one path entry inside a grouped import.
type ImportClause struct{ node *syntax.Node }

func CastImportClause(n *syntax.Node) *ImportClause {
	if n == nil || n.Kind() != syntax.ImportClause {
		return nil
	}
	return &ImportClause{node: n}
}

func (c *ImportClause) Node() *syntax.Node { return c.node }
func (c *ImportClause) Path() *Path        { return CastPath(c.node.NodeOfKind(syntax.Path)) }

// Whitespace wraps a whitespace token.
type Whitespace struct{ tok *syntax.Token }

func CastWhitespace(el syntax.Element) *Whitespace {
	t, ok := el.(*syntax.Token)
	if !ok || t.Kind() != syntax.Whitespace {
		return nil
	}
	return &Whitespace{tok: t}
}

func (w *Whitespace) Token() *syntax.Token { return w.tok }
func (w *Whitespace) Text() string         { return w.tok.Text() }
