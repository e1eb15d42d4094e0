package token

var keywords = map[string]Kind{
	"function": KwFunction,
	"var":      KwVar,
	"if":       KwIf,
	"else":     KwElse,
	"while":    KwWhile,
	"return":   KwReturn,
	"print":    KwPrint,
	"true":     KwTrue,
	"false":    KwFalse,
	"and":      AndAnd,
	"or":       OrOr,
}

// LookupKeyword returns the kind for a reserved word. Keywords are
// case-sensitive.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}
