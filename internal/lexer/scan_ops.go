package lexer

import (
	"fmt"

	"druk/internal/diag"
	"druk/internal/token"
)

// scanOperatorOrPunct is greedy: two-byte operators win over one-byte ones.
func (lx *Lexer) scanOperatorOrPunct() token.Token {
	start := lx.cursor.Mark()

	switch {
	case lx.try2('&', '&'):
		return lx.emit(token.AndAnd, start)
	case lx.try2('|', '|'):
		return lx.emit(token.OrOr, start)
	case lx.try2('=', '='):
		return lx.emit(token.EqEq, start)
	case lx.try2('!', '='):
		return lx.emit(token.BangEq, start)
	case lx.try2('<', '='):
		return lx.emit(token.LtEq, start)
	case lx.try2('>', '='):
		return lx.emit(token.GtEq, start)
	}

	if r, sz := lx.peekRune(); sz > 1 {
		lx.bumpRune()
		tok := lx.emit(token.Invalid, start)
		lx.errLex(diag.LexUnknownChar, tok.Span, fmt.Sprintf("unknown character %q", r))
		return tok
	}

	ch := lx.cursor.Bump()
	if k, ok := singleByteOps[ch]; ok {
		return lx.emit(k, start)
	}
	tok := lx.emit(token.Invalid, start)
	lx.errLex(diag.LexUnknownChar, tok.Span, fmt.Sprintf("unknown character %q", ch))
	return tok
}

var singleByteOps = map[byte]token.Kind{
	'+': token.Plus,
	'-': token.Minus,
	'*': token.Star,
	'/': token.Slash,
	'%': token.Percent,
	'=': token.Assign,
	'!': token.Bang,
	'<': token.Lt,
	'>': token.Gt,
	':': token.Colon,
	';': token.Semicolon,
	',': token.Comma,
	'(': token.LParen,
	')': token.RParen,
	'{': token.LBrace,
	'}': token.RBrace,
	'[': token.LBracket,
	']': token.RBracket,
}
