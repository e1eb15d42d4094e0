package lexer

import (
	"druk/internal/diag"
	"druk/internal/token"
)

// scanString scans "..." with backslash escapes. Text keeps the quotes and
// the raw escapes; unquoting is done by the parser.
func (lx *Lexer) scanString() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // opening '"'
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if b == '"' {
			lx.cursor.Bump()
			return lx.emit(token.StringLit, start)
		}
		if b == '\\' {
			lx.cursor.Bump()
			if lx.cursor.EOF() {
				break
			}
			lx.cursor.Bump()
			continue
		}
		if b == '\n' {
			tok := lx.emit(token.Invalid, start)
			lx.errLex(diag.LexUnterminatedString, tok.Span, "newline in string literal")
			return tok
		}
		lx.cursor.Bump()
	}
	tok := lx.emit(token.Invalid, start)
	lx.errLex(diag.LexUnterminatedString, tok.Span, "unterminated string literal")
	return tok
}
