// Package lang lexes and parses the surface language into syntax trees.
// Parsing is full fidelity: every input byte lands in exactly one token and
// rendering the resulting tree reproduces the source byte for byte.
//
// Parse errors are ordinary errors. The editing layer above this package
// reserves panics for its own contract violations; nothing here panics on
// malformed input.
package lang

import "sted/internal/syntax"

// Lex splits src into tokens, whitespace and comments included. Unknown
// bytes become ErrorToken tokens; the parser reports them as errors when it
// reaches them.
func Lex(src string) []*syntax.Token {
	var toks []*syntax.Token
	i := 0
	for i < len(src) {
		c := src[i]
		switch {
		case isSpace(c):
			j := i + 1
			for j < len(src) && isSpace(src[j]) {
				j++
			}
			toks = append(toks, syntax.NewToken(syntax.Whitespace, src[i:j]))
			i = j

		case c == '/' && i+1 < len(src) && src[i+1] == '/':
			j := i + 2
			for j < len(src) && src[j] != '\n' {
				j++
			}
			toks = append(toks, syntax.NewToken(syntax.Comment, src[i:j]))
			i = j

		case isIdentStart(c):
			j := i + 1
			for j < len(src) && isIdentCont(src[j]) {
				j++
			}
			text := src[i:j]
			kind := syntax.Ident
			if kw, ok := syntax.KeywordKind(text); ok {
				kind = kw
			}
			toks = append(toks, syntax.NewToken(kind, text))
			i = j

		case isDigit(c):
			j := i + 1
			for j < len(src) && isDigit(src[j]) {
				j++
			}
			toks = append(toks, syntax.NewToken(syntax.IntLit, src[i:j]))
			i = j

		case c == '"':
			j := i + 1
			for j < len(src) && src[j] != '"' {
				if src[j] == '\\' && j+1 < len(src) {
					j++
				}
				j++
			}
			if j >= len(src) {
				// Unterminated string literal.
				toks = append(toks, syntax.NewToken(syntax.ErrorToken, src[i:]))
				i = len(src)
				break
			}
			toks = append(toks, syntax.NewToken(syntax.StringLit, src[i:j+1]))
			i = j + 1

		default:
			kind, n := punct(src[i:])
			toks = append(toks, syntax.NewToken(kind, src[i:i+n]))
			i += n
		}
	}
	return toks
}

// punct matches the longest punctuation token at the head of s. Unknown
// bytes come back as a one-byte ErrorToken.
func punct(s string) (syntax.Kind, int) {
	if len(s) >= 2 {
		switch s[:2] {
		case "::":
			return syntax.ColonColon, 2
		case "==":
			return syntax.EqEq, 2
		case "!=":
			return syntax.NotEq, 2
		case "<=":
			return syntax.LtEq, 2
		case ">=":
			return syntax.GtEq, 2
		}
	}
	switch s[0] {
	case '(':
		return syntax.LParen, 1
	case ')':
		return syntax.RParen, 1
	case '{':
		return syntax.LBrace, 1
	case '}':
		return syntax.RBrace, 1
	case '[':
		return syntax.LBracket, 1
	case ']':
		return syntax.RBracket, 1
	case '<':
		return syntax.LAngle, 1
	case '>':
		return syntax.RAngle, 1
	case ',':
		return syntax.Comma, 1
	case ';':
		return syntax.Semi, 1
	case ':':
		return syntax.Colon, 1
	case '.':
		return syntax.Dot, 1
	case '=':
		return syntax.Eq, 1
	case '&':
		return syntax.Amp, 1
	case '+':
		return syntax.Plus, 1
	case '-':
		return syntax.Minus, 1
	case '*':
		return syntax.Star, 1
	case '/':
		return syntax.Slash, 1
	}
	return syntax.ErrorToken, 1
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentCont(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
