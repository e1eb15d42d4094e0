// Package format pretty-prints druk source from its AST. Comments between
// declarations are kept; a declaration that contains a comment is copied
// verbatim.
package format
