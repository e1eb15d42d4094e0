package lexer

import (
	"druk/internal/diag"
	"druk/internal/token"
)

// scanNumber accepts 123 and 1.5. A trailing '.' without digits is not part
// of the number.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	kind := token.IntLit

	for isDec(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	if b0, b1, ok := lx.cursor.Peek2(); ok && b0 == '.' && isDec(b1) {
		kind = token.FloatLit
		lx.cursor.Bump()
		for isDec(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
	}
	if isIdentStartByte(lx.cursor.Peek()) {
		for isIdentContinueByte(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
		tok := lx.emit(token.Invalid, start)
		lx.errLex(diag.LexBadNumber, tok.Span, "invalid number literal '"+tok.Text+"'")
		return tok
	}
	return lx.emit(kind, start)
}
