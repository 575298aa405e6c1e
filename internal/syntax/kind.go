// Package syntax implements the concrete syntax tree that the editing
// layer works on. Trees are full fidelity: every byte of the source,
// whitespace and comments included, lives in exactly one token, and
// rendering a tree concatenates its tokens back into the original text.
//
// A tree is frozen by construction. Frozen trees are immutable and may be
// shared freely between goroutines; Unfreeze produces an exclusively owned
// deep copy that a single owner may mutate through the Tree mutator
// methods. Mutating a frozen tree is a contract violation and panics.
package syntax

import (
	"fmt"
	"sync"
)

// Kind tags every token and node in a tree.
//
// The built-in catalog covers the surface language. Kinds above dynTokenBase
// are registered at runtime by importers of foreign grammars.
type Kind uint16

// Token kinds.
const (
	ErrorToken Kind = iota + 1
	Whitespace
	Comment
	Ident
	IntLit
	StringLit
	KwFunction
	KwImport
	KwLet
	KwMut
	KwRef
	LParen
	RParen
	LBrace
	RBrace
	LBracket
	RBracket
	LAngle
	RAngle
	Comma
	Semi
	Colon
	ColonColon
	Dot
	Eq
	EqEq
	NotEq
	LtEq
	GtEq
	Amp
	Plus
	Minus
	Star
	Slash

	lastTokenKind = Slash
)

// Node kinds.
const (
	SourceFile Kind = iota + 64
	FnDecl
	Name
	GenericParamList
	TypeParam
	TypeBoundList
	ParamList
	Param
	Block
	LetDecl
	BindPat
	ExprStmt
	BinExpr
	RefExpr
	ParenExpr
	PathExpr
	Path
	Literal
	GenericArgList
	TokenGroup
	ImportDecl
	ImportGroup
	ImportClause
	TypeRef
	ErrorNode

	lastNodeKind = ErrorNode
)

// Dynamically registered kinds live above the built-in catalog so foreign
// grammars can be imported without colliding with it.
const (
	dynTokenBase Kind = 1 << 14
	dynNodeBase  Kind = 1 << 15
)

// IsToken reports whether k tags a leaf token.
func (k Kind) IsToken() bool {
	return (k >= ErrorToken && k <= lastTokenKind) || (k >= dynTokenBase && k < dynNodeBase)
}

// IsNode reports whether k tags an interior node.
func (k Kind) IsNode() bool {
	return (k >= SourceFile && k <= lastNodeKind) || k >= dynNodeBase
}

// IsTrivia reports whether k is whitespace or a comment.
func (k Kind) IsTrivia() bool {
	return k == Whitespace || k == Comment
}

// IsExpr reports whether k is one of the expression node kinds.
func (k Kind) IsExpr() bool {
	switch k {
	case BinExpr, RefExpr, ParenExpr, PathExpr, Literal:
		return true
	}
	return false
}

// IsStmt reports whether k is one of the statement node kinds.
func (k Kind) IsStmt() bool {
	return k == LetDecl || k == ExprStmt
}

var kindNames = map[Kind]string{
	ErrorToken:       "ErrorToken",
	Whitespace:       "Whitespace",
	Comment:          "Comment",
	Ident:            "Ident",
	IntLit:           "IntLit",
	StringLit:        "StringLit",
	KwFunction:       "KwFunction",
	KwImport:         "KwImport",
	KwLet:            "KwLet",
	KwMut:            "KwMut",
	KwRef:            "KwRef",
	LParen:           "LParen",
	RParen:           "RParen",
	LBrace:           "LBrace",
	RBrace:           "RBrace",
	LBracket:         "LBracket",
	RBracket:         "RBracket",
	LAngle:           "LAngle",
	RAngle:           "RAngle",
	Comma:            "Comma",
	Semi:             "Semi",
	Colon:            "Colon",
	ColonColon:       "ColonColon",
	Dot:              "Dot",
	Eq:               "Eq",
	EqEq:             "EqEq",
	NotEq:            "NotEq",
	LtEq:             "LtEq",
	GtEq:             "GtEq",
	Amp:              "Amp",
	Plus:             "Plus",
	Minus:            "Minus",
	Star:             "Star",
	Slash:            "Slash",
	SourceFile:       "SourceFile",
	FnDecl:           "FnDecl",
	Name:             "Name",
	GenericParamList: "GenericParamList",
	TypeParam:        "TypeParam",
	TypeBoundList:    "TypeBoundList",
	ParamList:        "ParamList",
	Param:            "Param",
	Block:            "Block",
	LetDecl:          "LetDecl",
	BindPat:          "BindPat",
	ExprStmt:         "ExprStmt",
	BinExpr:          "BinExpr",
	RefExpr:          "RefExpr",
	ParenExpr:        "ParenExpr",
	PathExpr:         "PathExpr",
	Path:             "Path",
	Literal:          "Literal",
	GenericArgList:   "GenericArgList",
	TokenGroup:       "TokenGroup",
	ImportDecl:       "ImportDecl",
	ImportGroup:      "ImportGroup",
	ImportClause:     "ImportClause",
	TypeRef:          "TypeRef",
	ErrorNode:        "ErrorNode",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	if name, ok := dynamicName(k); ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", uint16(k))
}

// staticTexts holds the canonical spelling of every fixed-text token kind.
var staticTexts = map[Kind]string{
	KwFunction: "function",
	KwImport:   "import",
	KwLet:      "let",
	KwMut:      "mut",
	KwRef:      "ref",
	LParen:     "(",
	RParen:     ")",
	LBrace:     "{",
	RBrace:     "}",
	LBracket:   "[",
	RBracket:   "]",
	LAngle:     "<",
	RAngle:     ">",
	Comma:      ",",
	Semi:       ";",
	Colon:      ":",
	ColonColon: "::",
	Dot:        ".",
	Eq:         "=",
	EqEq:       "==",
	NotEq:      "!=",
	LtEq:       "<=",
	GtEq:       ">=",
	Amp:        "&",
	Plus:       "+",
	Minus:      "-",
	Star:       "*",
	Slash:      "/",
}

// StaticText returns the canonical spelling for fixed-text token kinds such
// as punctuation and keywords. Variable-text kinds report ok == false.
func (k Kind) StaticText() (string, bool) {
	s, ok := staticTexts[k]
	return s, ok
}

var keywords = map[string]Kind{
	"function": KwFunction,
	"import":   KwImport,
	"let":      KwLet,
	"mut":      KwMut,
	"ref":      KwRef,
}

// KeywordKind maps an identifier spelling to its keyword kind, if any.
func KeywordKind(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}

// The dynamic registry maps foreign grammar kind names onto fresh Kind
// values. Registration normally happens at init time, but the registry is
// locked so concurrent importers stay safe.
var dynRegistry = struct {
	sync.RWMutex
	byName  map[string]Kind
	names   map[Kind]string
	nextTok Kind
	nextNod Kind
}{
	byName:  map[string]Kind{},
	names:   map[Kind]string{},
	nextTok: dynTokenBase,
	nextNod: dynNodeBase,
}

// RegisterTokenKind returns the Kind for a foreign token kind name,
// allocating one on first use.
func RegisterTokenKind(name string) Kind {
	return registerDynamic("tok:"+name, name, true)
}

// RegisterNodeKind returns the Kind for a foreign node kind name,
// allocating one on first use.
func RegisterNodeKind(name string) Kind {
	return registerDynamic("nod:"+name, name, false)
}

func registerDynamic(key, name string, token bool) Kind {
	dynRegistry.RLock()
	k, ok := dynRegistry.byName[key]
	dynRegistry.RUnlock()
	if ok {
		return k
	}

	dynRegistry.Lock()
	defer dynRegistry.Unlock()
	if k, ok := dynRegistry.byName[key]; ok {
		return k
	}
	if token {
		k = dynRegistry.nextTok
		dynRegistry.nextTok++
		if dynRegistry.nextTok == dynNodeBase {
			panic("syntax: dynamic token kind space exhausted")
		}
	} else {
		k = dynRegistry.nextNod
		dynRegistry.nextNod++
		if dynRegistry.nextNod == 0 {
			panic("syntax: dynamic node kind space exhausted")
		}
	}
	dynRegistry.byName[key] = k
	dynRegistry.names[k] = name
	return k
}

func dynamicName(k Kind) (string, bool) {
	dynRegistry.RLock()
	defer dynRegistry.RUnlock()
	name, ok := dynRegistry.names[k]
	return name, ok
}
