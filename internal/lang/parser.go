package lang

import (
	"fmt"
	"strings"

	"sted/internal/syntax"
)

// Ext is the conventional file extension for sources in this language.
const Ext = ".x"

// Parse turns src into a frozen syntax tree rooted at a SourceFile node.
// The tree renders back to src byte for byte.
func Parse(src string) (*syntax.Tree, error) {
	p := newParser(src)
	root, err := p.sourceFile()
	if err != nil {
		return nil, err
	}
	return syntax.NewTree(root), nil
}

type parser struct {
	src     string
	toks    []*syntax.Token
	offsets []int // byte offset of each token in src
	pos     int
	b       treeBuilder
}

func newParser(src string) *parser {
	toks := Lex(src)
	offsets := make([]int, len(toks))
	off := 0
	for i, t := range toks {
		offsets[i] = off
		off += len(t.Text())
	}
	return &parser{src: src, toks: toks, offsets: offsets}
}

// flushTrivia moves pending whitespace and comment tokens into the innermost
// open frame. Trivia between two constructs belongs to their common parent,
// so node-opening helpers flush before pushing a frame.
func (p *parser) flushTrivia() {
	for p.pos < len(p.toks) && p.toks[p.pos].Kind().IsTrivia() {
		p.b.token(p.toks[p.pos])
		p.pos++
	}
}

func (p *parser) startNode(kind syntax.Kind) {
	p.flushTrivia()
	p.b.start(kind)
}

// peekAt returns the n-th significant token ahead (0-based), or nil at EOF.
func (p *parser) peekAt(n int) *syntax.Token {
	for i := p.pos; i < len(p.toks); i++ {
		if p.toks[i].Kind().IsTrivia() {
			continue
		}
		if n == 0 {
			return p.toks[i]
		}
		n--
	}
	return nil
}

// peek returns the kind of the next significant token, or 0 at EOF.
func (p *parser) peek() syntax.Kind {
	if t := p.peekAt(0); t != nil {
		return t.Kind()
	}
	return 0
}

func (p *parser) at(kind syntax.Kind) bool { return p.peek() == kind }

// bump appends the next significant token (preceded by its trivia) to the
// innermost open frame.
func (p *parser) bump() *syntax.Token {
	p.flushTrivia()
	t := p.toks[p.pos]
	p.b.token(t)
	p.pos++
	return t
}

// eat bumps the next token when it has the given kind.
func (p *parser) eat(kind syntax.Kind) bool {
	if !p.at(kind) {
		return false
	}
	p.bump()
	return true
}

func (p *parser) expect(kind syntax.Kind) error {
	if p.at(kind) {
		p.bump()
		return nil
	}
	want := kind.String()
	if s, ok := kind.StaticText(); ok {
		want = fmt.Sprintf("%q", s)
	}
	return p.errExpected(want)
}

func (p *parser) errExpected(want string) error {
	t := p.peekAt(0)
	if t == nil {
		line, col := lineCol(p.src, len(p.src))
		return fmt.Errorf("parse error at %d:%d: expected %s, found end of input", line, col, want)
	}
	off := 0
	for i := p.pos; i < len(p.toks); i++ {
		if !p.toks[i].Kind().IsTrivia() {
			off = p.offsets[i]
			break
		}
	}
	line, col := lineCol(p.src, off)
	return fmt.Errorf("parse error at %d:%d: expected %s, found %q", line, col, want, t.Text())
}

func lineCol(src string, off int) (int, int) {
	line := 1 + strings.Count(src[:off], "\n")
	col := off - strings.LastIndex(src[:off], "\n")
	return line, col
}

func (p *parser) sourceFile() (*syntax.Node, error) {
	p.b.start(syntax.SourceFile)
	for {
		p.flushTrivia()
		if p.pos >= len(p.toks) {
			break
		}
		var err error
		switch p.peek() {
		case syntax.KwFunction:
			err = p.fnDecl()
		case syntax.KwImport:
			err = p.importDecl()
		case syntax.KwLet:
			err = p.letDecl()
		default:
			err = p.exprStmtRequired()
		}
		if err != nil {
			return nil, err
		}
	}
	return p.b.finish(), nil
}

func (p *parser) fnDecl() error {
	p.startNode(syntax.FnDecl)
	if err := p.expect(syntax.KwFunction); err != nil {
		return err
	}
	if err := p.name(); err != nil {
		return err
	}
	if p.at(syntax.LAngle) {
		if err := p.genericParamList(); err != nil {
			return err
		}
	}
	if err := p.paramList(); err != nil {
		return err
	}
	if err := p.block(); err != nil {
		return err
	}
	p.b.finish()
	return nil
}

func (p *parser) name() error {
	p.startNode(syntax.Name)
	if err := p.expect(syntax.Ident); err != nil {
		return err
	}
	p.b.finish()
	return nil
}

func (p *parser) genericParamList() error {
	p.startNode(syntax.GenericParamList)
	if err := p.expect(syntax.LAngle); err != nil {
		return err
	}
	for !p.at(syntax.RAngle) && p.peek() != 0 {
		if err := p.typeParam(); err != nil {
			return err
		}
		if !p.eat(syntax.Comma) {
			break
		}
	}
	if err := p.expect(syntax.RAngle); err != nil {
		return err
	}
	p.b.finish()
	return nil
}

func (p *parser) typeParam() error {
	p.startNode(syntax.TypeParam)
	if err := p.name(); err != nil {
		return err
	}
	if p.eat(syntax.Colon) {
		if err := p.typeBoundList(); err != nil {
			return err
		}
	}
	p.b.finish()
	return nil
}

func (p *parser) typeBoundList() error {
	p.startNode(syntax.TypeBoundList)
	if err := p.path(); err != nil {
		return err
	}
	for p.eat(syntax.Plus) {
		if err := p.path(); err != nil {
			return err
		}
	}
	p.b.finish()
	return nil
}

func (p *parser) paramList() error {
	p.startNode(syntax.ParamList)
	if err := p.expect(syntax.LParen); err != nil {
		return err
	}
	for !p.at(syntax.RParen) && p.peek() != 0 {
		if err := p.param(); err != nil {
			return err
		}
		if !p.eat(syntax.Comma) {
			break
		}
	}
	if err := p.expect(syntax.RParen); err != nil {
		return err
	}
	p.b.finish()
	return nil
}

func (p *parser) param() error {
	p.startNode(syntax.Param)
	if err := p.name(); err != nil {
		return err
	}
	if err := p.expect(syntax.Colon); err != nil {
		return err
	}
	if err := p.typeRef(); err != nil {
		return err
	}
	p.b.finish()
	return nil
}

func (p *parser) typeRef() error {
	p.startNode(syntax.TypeRef)
	if p.eat(syntax.Amp) {
		p.eat(syntax.KwMut)
	}
	if err := p.path(); err != nil {
		return err
	}
	p.b.finish()
	return nil
}

func (p *parser) block() error {
	p.startNode(syntax.Block)
	if err := p.expect(syntax.LBrace); err != nil {
		return err
	}
	for !p.at(syntax.RBrace) && p.peek() != 0 {
		if p.at(syntax.KwLet) {
			if err := p.letDecl(); err != nil {
				return err
			}
			continue
		}
		// Speculatively open an ExprStmt; a trailing expression with no
		// semicolon is unwrapped again and must close the block.
		p.startNode(syntax.ExprStmt)
		if err := p.expr(); err != nil {
			return err
		}
		if p.at(syntax.Semi) {
			p.bump()
			p.b.finish()
			continue
		}
		p.b.abandon()
		if !p.at(syntax.RBrace) {
			return p.errExpected(`";"`)
		}
	}
	if err := p.expect(syntax.RBrace); err != nil {
		return err
	}
	p.b.finish()
	return nil
}

func (p *parser) letDecl() error {
	p.startNode(syntax.LetDecl)
	if err := p.expect(syntax.KwLet); err != nil {
		return err
	}
	if err := p.bindPat(); err != nil {
		return err
	}
	if p.eat(syntax.Colon) {
		if err := p.typeRef(); err != nil {
			return err
		}
	}
	if p.eat(syntax.Eq) {
		if err := p.expr(); err != nil {
			return err
		}
	}
	if err := p.expect(syntax.Semi); err != nil {
		return err
	}
	p.b.finish()
	return nil
}

func (p *parser) bindPat() error {
	p.startNode(syntax.BindPat)
	p.eat(syntax.KwRef)
	p.eat(syntax.KwMut)
	if err := p.name(); err != nil {
		return err
	}
	p.b.finish()
	return nil
}

func (p *parser) exprStmtRequired() error {
	p.startNode(syntax.ExprStmt)
	if err := p.expr(); err != nil {
		return err
	}
	if err := p.expect(syntax.Semi); err != nil {
		return err
	}
	p.b.finish()
	return nil
}

func (p *parser) importDecl() error {
	p.startNode(syntax.ImportDecl)
	if err := p.expect(syntax.KwImport); err != nil {
		return err
	}
	if err := p.path(); err != nil {
		return err
	}
	if p.at(syntax.Dot) {
		p.bump()
		if err := p.importGroup(); err != nil {
			return err
		}
	}
	if err := p.expect(syntax.Semi); err != nil {
		return err
	}
	p.b.finish()
	return nil
}

func (p *parser) importGroup() error {
	p.startNode(syntax.ImportGroup)
	if err := p.expect(syntax.LBrace); err != nil {
		return err
	}
	for !p.at(syntax.RBrace) && p.peek() != 0 {
		p.startNode(syntax.ImportClause)
		if err := p.path(); err != nil {
			return err
		}
		p.b.finish()
		if !p.eat(syntax.Comma) {
			break
		}
	}
	if err := p.expect(syntax.RBrace); err != nil {
		return err
	}
	p.b.finish()
	return nil
}

// path parses a dotted name sequence. A dot is only consumed when an
// identifier follows, which leaves "a.b.{…}" with the dot for the caller.
func (p *parser) path() error {
	p.startNode(syntax.Path)
	if err := p.name(); err != nil {
		return err
	}
	for p.at(syntax.Dot) {
		next := p.peekAt(1)
		if next == nil || next.Kind() != syntax.Ident {
			break
		}
		p.bump()
		if err := p.name(); err != nil {
			return err
		}
	}
	p.b.finish()
	return nil
}

// Expressions, by precedence tier: comparison, additive, multiplicative,
// unary, primary.

func (p *parser) expr() error { return p.cmpExpr() }

func (p *parser) cmpExpr() error {
	c := p.b.mark()
	if err := p.addExpr(); err != nil {
		return err
	}
	for isCmpOp(p.peek()) {
		p.b.startAt(c, syntax.BinExpr)
		p.bump()
		if err := p.addExpr(); err != nil {
			return err
		}
		p.b.finish()
	}
	return nil
}

func (p *parser) addExpr() error {
	c := p.b.mark()
	if err := p.mulExpr(); err != nil {
		return err
	}
	for p.at(syntax.Plus) || p.at(syntax.Minus) {
		p.b.startAt(c, syntax.BinExpr)
		p.bump()
		if err := p.mulExpr(); err != nil {
			return err
		}
		p.b.finish()
	}
	return nil
}

func (p *parser) mulExpr() error {
	c := p.b.mark()
	if err := p.unaryExpr(); err != nil {
		return err
	}
	for p.at(syntax.Star) || p.at(syntax.Slash) {
		p.b.startAt(c, syntax.BinExpr)
		p.bump()
		if err := p.unaryExpr(); err != nil {
			return err
		}
		p.b.finish()
	}
	return nil
}

func (p *parser) unaryExpr() error {
	if p.at(syntax.Amp) {
		p.startNode(syntax.RefExpr)
		p.bump()
		p.eat(syntax.KwMut)
		if err := p.unaryExpr(); err != nil {
			return err
		}
		p.b.finish()
		return nil
	}
	return p.primaryExpr()
}

func (p *parser) primaryExpr() error {
	switch p.peek() {
	case syntax.IntLit, syntax.StringLit:
		p.startNode(syntax.Literal)
		p.bump()
		p.b.finish()
		return nil
	case syntax.LParen:
		p.startNode(syntax.ParenExpr)
		p.bump()
		if err := p.expr(); err != nil {
			return err
		}
		if err := p.expect(syntax.RParen); err != nil {
			return err
		}
		p.b.finish()
		return nil
	case syntax.Ident:
		p.startNode(syntax.PathExpr)
		if err := p.path(); err != nil {
			return err
		}
		if p.at(syntax.ColonColon) {
			if err := p.genericArgList(); err != nil {
				return err
			}
		}
		p.b.finish()
		return nil
	}
	return p.errExpected("expression")
}

func (p *parser) genericArgList() error {
	p.startNode(syntax.GenericArgList)
	if err := p.expect(syntax.ColonColon); err != nil {
		return err
	}
	if err := p.expect(syntax.LAngle); err != nil {
		return err
	}
	for !p.at(syntax.RAngle) && p.peek() != 0 {
		if err := p.typeRef(); err != nil {
			return err
		}
		if !p.eat(syntax.Comma) {
			break
		}
	}
	if err := p.expect(syntax.RAngle); err != nil {
		return err
	}
	p.b.finish()
	return nil
}

func isCmpOp(k syntax.Kind) bool {
	switch k {
	case syntax.EqEq, syntax.NotEq, syntax.LAngle, syntax.RAngle, syntax.LtEq, syntax.GtEq:
		return true
	}
	return false
}
