package ast

import (
	"fmt"
	"strings"

	"sted/internal/lang"
	"sted/internal/syntax"
)

// Constructors render the requested shape to text and reparse it, so every
// produced node is detached and freshly built. Arguments that cannot render
// to the expected node kind are programming errors and panic; nothing here
// returns an error.

func mustFragment(op string, n *syntax.Node, err error) *syntax.Node {
	if err != nil {
		panic("ast: " + op + ": " + err.Error())
	}
	return n
}

// MakeName builds a Name node from identifier text.
func MakeName(text string) *Name {
	n, err := lang.ParseNode(syntax.Name, "function "+text+"() {}")
	n = mustFragment("MakeName", n, err)
	if n.Text() != text {
		panic(fmt.Sprintf("ast: MakeName: %q is not an identifier", text))
	}
	return CastName(n)
}

// MakeTypeRef builds a TypeRef node from type text such as "T" or "&mut T".
func MakeTypeRef(text string) *TypeRef {
	n, err := lang.ParseType(text)
	return CastTypeRef(mustFragment("MakeTypeRef", n, err))
}

// MakeTypeParam builds a TypeParam with the given name and optional bounds.
func MakeTypeParam(name string, bounds ...string) *TypeParam {
	text := name
	if len(bounds) > 0 {
		text += ": " + strings.Join(bounds, " + ")
	}
	n, err := lang.ParseNode(syntax.TypeParam, "function f<"+text+">() {}")
	return CastTypeParam(mustFragment("MakeTypeParam", n, err))
}

// MakeBindPat builds a plain binding pattern for the given name.
func MakeBindPat(name string) *BindPat {
	n, err := lang.ParsePat(name)
	return CastBindPat(mustFragment("MakeBindPat", n, err))
}

// MakeBlock builds a braced block from statements and an optional trailing
// expression, one construct per line at a four-space indent.
func MakeBlock(stmts []*Stmt, tail *Expr) *Block {
	var sb strings.Builder
	sb.WriteString("{\n")
	for _, s := range stmts {
		sb.WriteString("    ")
		sb.WriteString(s.Text())
		sb.WriteString("\n")
	}
	if tail != nil {
		sb.WriteString("    ")
		sb.WriteString(tail.Text())
		sb.WriteString("\n")
	}
	sb.WriteString("}")
	n, err := lang.ParseNode(syntax.Block, "function f() "+sb.String())
	return CastBlock(mustFragment("MakeBlock", n, err))
}

// MakeBinExpr builds a binary expression from two operands and an operator
// such as "+" or "==".
func MakeBinExpr(lhs *Expr, op string, rhs *Expr) *BinExpr {
	text := lhs.Text() + " " + op + " " + rhs.Text()
	n, err := lang.ParseExpr(text)
	n = mustFragment("MakeBinExpr", n, err)
	if n.Kind() != syntax.BinExpr {
		panic(fmt.Sprintf("ast: MakeBinExpr: %q did not parse as a binary expression", text))
	}
	return CastBinExpr(n)
}

// MakePathExpr builds a path expression from path text such as "a.b.c".
func MakePathExpr(path string) *PathExpr {
	n, err := lang.ParseExpr(path)
	n = mustFragment("MakePathExpr", n, err)
	if n.Kind() != syntax.PathExpr {
		panic(fmt.Sprintf("ast: MakePathExpr: %q did not parse as a path expression", path))
	}
	return CastPathExpr(n)
}

// MakeRefExpr builds &expr, or &mut expr when mutable is set.
func MakeRefExpr(expr *Expr, mutable bool) *RefExpr {
	text := "&"
	if mutable {
		text = "&mut "
	}
	text += expr.Text()
	n, err := lang.ParseExpr(text)
	n = mustFragment("MakeRefExpr", n, err)
	if n.Kind() != syntax.RefExpr {
		panic(fmt.Sprintf("ast: MakeRefExpr: %q did not parse as a borrow expression", text))
	}
	return CastRefExpr(n)
}

// MakeLetDecl builds a let statement. Type and initializer may be nil.
func MakeLetDecl(pat *BindPat, ty *TypeRef, init *Expr) *LetDecl {
	text := "let " + pat.Node().Text()
	if ty != nil {
		text += ": " + ty.Node().Text()
	}
	if init != nil {
		text += " = " + init.Text()
	}
	text += ";"
	n, err := lang.ParseStmt(text)
	n = mustFragment("MakeLetDecl", n, err)
	if n.Kind() != syntax.LetDecl {
		panic(fmt.Sprintf("ast: MakeLetDecl: %q did not parse as a let statement", text))
	}
	return CastLetDecl(n)
}

// MakeGenericArgList builds a turbofish argument list: ::<A, B>.
func MakeGenericArgList(args ...*TypeRef) *GenericArgList {
	texts := make([]string, len(args))
	for i, a := range args {
		texts[i] = a.Node().Text()
	}
	text := "::<" + strings.Join(texts, ", ") + ">"
	n, err := lang.ParseNode(syntax.GenericArgList, "f"+text+";")
	return CastGenericArgList(mustFragment("MakeGenericArgList", n, err))
}

// MakeLiteral builds a literal expression from its text.
func MakeLiteral(text string) *Literal {
	n, err := lang.ParseExpr(text)
	n = mustFragment("MakeLiteral", n, err)
	if n.Kind() != syntax.Literal {
		panic(fmt.Sprintf("ast: MakeLiteral: %q did not parse as a literal", text))
	}
	return CastLiteral(n)
}

// MakeImportClause builds one grouped-import clause from path text.
func MakeImportClause(path string) *ImportClause {
	n, err := lang.ParseNode(syntax.ImportClause, "import g.{"+path+"};")
	return CastImportClause(mustFragment("MakeImportClause", n, err))
}

var groupDelims = map[syntax.Kind]syntax.Kind{
	syntax.LParen:   syntax.RParen,
	syntax.LBrace:   syntax.RBrace,
	syntax.LBracket: syntax.RBracket,
	syntax.LAngle:   syntax.RAngle,
}

// MakeTokenGroup builds a delimited group around deep copies of the given
// elements. There is no grammar production for groups, so this is the one
// constructor that assembles its node directly. open must be an opening
// delimiter kind; the matching closer is appended automatically.
func MakeTokenGroup(open syntax.Kind, els ...syntax.Element) *TokenGroup {
	closeKind, ok := groupDelims[open]
	if !ok {
		panic(fmt.Sprintf("ast: MakeTokenGroup: %s is not an opening delimiter", open))
	}
	children := make([]syntax.Element, 0, len(els)+2)
	children = append(children, MakeToken(open))
	for _, el := range els {
		children = append(children, syntax.Clone(el))
	}
	children = append(children, MakeToken(closeKind))
	return CastTokenGroup(syntax.NewNode(syntax.TokenGroup, children...))
}

// MakeToken builds a token of a kind with fixed text, such as a comma or
// keyword. Kinds whose text varies per occurrence panic.
func MakeToken(kind syntax.Kind) *syntax.Token {
	text, ok := kind.StaticText()
	if !ok {
		panic(fmt.Sprintf("ast: MakeToken: %s has no fixed text", kind))
	}
	return syntax.NewToken(kind, text)
}

// MakeWhitespace builds a whitespace token. Text must consist of blank
// characters only.
func MakeWhitespace(text string) *syntax.Token {
	if strings.Trim(text, " \t\r\n") != "" {
		panic(fmt.Sprintf("ast: MakeWhitespace: %q contains non-blank characters", text))
	}
	return syntax.NewToken(syntax.Whitespace, text)
}
