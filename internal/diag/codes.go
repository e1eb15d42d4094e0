package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Lexical
	LexInfo               Code = 1000
	LexUnknownChar        Code = 1001
	LexUnterminatedString Code = 1002
	LexBadNumber          Code = 1003

	// Syntax
	SynInfo              Code = 2000
	SynUnexpectedToken   Code = 2001
	SynExpectSemicolon   Code = 2002
	SynExpectIdentifier  Code = 2003
	SynExpectType        Code = 2004
	SynExpectExpression  Code = 2005
	SynExpectColon       Code = 2006
	SynUnclosedParen     Code = 2007
	SynUnclosedBrace     Code = 2008
	SynUnclosedBracket   Code = 2009
	SynInvalidAssignment Code = 2010

	// Semantic
	SemaInfo                  Code = 3000
	SemaError                 Code = 3001
	SemaDuplicateSymbol       Code = 3002
	SemaDuplicateParam        Code = 3003
	SemaUnresolvedSymbol      Code = 3004
	SemaTypeMismatch          Code = 3005
	SemaInvalidBinaryOperands Code = 3006
	SemaInvalidUnaryOperand   Code = 3007
	SemaInvalidBoolContext    Code = 3008

	// I/O
	IOLoadFileError Code = 4001

	// Project
	ProjInfo           Code = 5000
	ProjInvalidConfig  Code = 5001
	ProjMissingMain    Code = 5002
	ProjUnknownBackend Code = 5003

	// Observability
	ObsInfo    Code = 6000
	ObsTimings Code = 6001
)

var codeDescription = map[Code]string{
	UnknownCode:               "Unknown error",
	LexInfo:                   "Lexical information",
	LexUnknownChar:            "Unknown character",
	LexUnterminatedString:     "Unterminated string",
	LexBadNumber:              "Bad number",
	SynInfo:                   "Syntax information",
	SynUnexpectedToken:        "Unexpected token",
	SynExpectSemicolon:        "Expect semicolon",
	SynExpectIdentifier:       "Expect identifier",
	SynExpectType:             "Expect type",
	SynExpectExpression:       "Expect expression",
	SynExpectColon:            "Expect colon",
	SynUnclosedParen:          "Unclosed parenthesis",
	SynUnclosedBrace:          "Unclosed brace",
	SynUnclosedBracket:        "Unclosed bracket",
	SynInvalidAssignment:      "Invalid assignment target",
	SemaInfo:                  "Semantic information",
	SemaError:                 "Semantic error",
	SemaDuplicateSymbol:       "Duplicate symbol",
	SemaDuplicateParam:        "Duplicate parameter",
	SemaUnresolvedSymbol:      "Unresolved symbol",
	SemaTypeMismatch:          "Type mismatch",
	SemaInvalidBinaryOperands: "Invalid binary operands",
	SemaInvalidUnaryOperand:   "Invalid unary operand",
	SemaInvalidBoolContext:    "Non-boolean condition",
	IOLoadFileError:           "I/O load file error",
	ProjInfo:                  "Project information",
	ProjInvalidConfig:         "Invalid project configuration",
	ProjMissingMain:           "Missing main file",
	ProjUnknownBackend:        "Unknown backend",
	ObsInfo:                   "Observability information",
	ObsTimings:                "Phase timings",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("PRJ%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}

// Located reports whether diagnostics with this code point into source text.
// I/O, project and observability diagnostics carry an empty span.
func (c Code) Located() bool {
	return c < IOLoadFileError
}
