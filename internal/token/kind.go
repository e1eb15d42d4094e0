package token

import "fmt"

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	// Ident represents an identifier token.
	Ident

	KwFunction // function
	KwVar      // var
	KwIf       // if
	KwElse     // else
	KwWhile    // while
	KwReturn   // return
	KwPrint    // print
	KwTrue     // true
	KwFalse    // false

	IntLit    // 42
	FloatLit  // 4.2
	StringLit // "text"

	Plus      // +
	Minus     // -
	Star      // *
	Slash     // /
	Percent   // %
	Assign    // =
	EqEq      // ==
	Bang      // !
	BangEq    // !=
	Lt        // <
	LtEq      // <=
	Gt        // >
	GtEq      // >=
	AndAnd    // && or `and`
	OrOr      // || or `or`
	Colon     // :
	Semicolon // ;
	Comma     // ,
	LParen    // (
	RParen    // )
	LBrace    // {
	RBrace    // }
	LBracket  // [
	RBracket  // ]
)

var kindNames = [...]string{
	Invalid:    "invalid",
	EOF:        "end of file",
	Ident:      "identifier",
	KwFunction: "function",
	KwVar:      "var",
	KwIf:       "if",
	KwElse:     "else",
	KwWhile:    "while",
	KwReturn:   "return",
	KwPrint:    "print",
	KwTrue:     "true",
	KwFalse:    "false",
	IntLit:     "integer literal",
	FloatLit:   "float literal",
	StringLit:  "string literal",
	Plus:       "+",
	Minus:      "-",
	Star:       "*",
	Slash:      "/",
	Percent:    "%",
	Assign:     "=",
	EqEq:       "==",
	Bang:       "!",
	BangEq:     "!=",
	Lt:         "<",
	LtEq:       "<=",
	Gt:         ">",
	GtEq:       ">=",
	AndAnd:     "&&",
	OrOr:       "||",
	Colon:      ":",
	Semicolon:  ";",
	Comma:      ",",
	LParen:     "(",
	RParen:     ")",
	LBrace:     "{",
	RBrace:     "}",
	LBracket:   "[",
	RBracket:   "]",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}
