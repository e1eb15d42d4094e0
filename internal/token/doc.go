// Package token defines lexical token kinds for druk sources.
// Invariants:
//   - Token.Text is a slice of the original source (no copies).
//   - Token.Span matches Text exactly (Start..End).
//   - Type names (Number, String, Boolean) are identifiers; the analyzer maps
//     them to types, not the lexer.
//   - `and`/`&&` and `or`/`||` lex to the same kinds.
package token
