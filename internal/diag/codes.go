package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Lexical
	LexInfo                     Code = 1000
	LexUnknownChar              Code = 1001
	LexBadNumber                Code = 1004
	LexUnterminatedBlockComment Code = 1003

	// Syntax
	SynInfo             Code = 2000
	SynUnexpectedToken  Code = 2001
	SynExpectSemicolon  Code = 2012
	SynExpectType       Code = 2202
	SynExpectExpression Code = 2203
	SynExpectIdentifier Code = 2102
	SynUnclosedParen    Code = 2006
	SynUnclosedBrace    Code = 2007
	SynUnclosedBracket  Code = 2008

	// Semantic, raised while lowering to IR
	SemaInfo                   Code = 3000
	SemaError                  Code = 3001
	SemaRedefinition           Code = 3002
	SemaUndefinedIdentifier    Code = 3005
	SemaIllegalAssignment      Code = 3010
	SemaTypeMismatch           Code = 3015
	SemaConstexprRequired      Code = 3026
	SemaInitializerRequired    Code = 3027
	SemaIllegalVoidDeclaration Code = 3028
	SemaInvalidControlTransfer Code = 3029

	// I/O
	IOLoadFileError Code = 4001
	IOWriteError    Code = 4002

	// Project manifest
	ProjInfo              Code = 5000
	ProjBadManifest       Code = 5001
	ProjToolchainMismatch Code = 5002

	// Internal invariants of the IR engine
	IRInternalInvariantViolation Code = 9001
)

var codeDescription = map[Code]string{
	UnknownCode:                  "Unknown error",
	LexInfo:                      "Lexical information",
	LexUnknownChar:               "Unknown character",
	LexBadNumber:                 "Malformed integer literal",
	LexUnterminatedBlockComment:  "Unterminated block comment",
	SynInfo:                      "Syntax information",
	SynUnexpectedToken:           "Unexpected token",
	SynExpectSemicolon:           "Expected semicolon",
	SynExpectType:                "Expected type",
	SynExpectExpression:          "Expected expression",
	SynExpectIdentifier:          "Expected identifier",
	SynUnclosedParen:             "Unclosed parenthesis",
	SynUnclosedBrace:             "Unclosed brace",
	SynUnclosedBracket:           "Unclosed bracket",
	SemaInfo:                     "Semantic information",
	SemaError:                    "Semantic error",
	SemaRedefinition:             "Redefinition",
	SemaUndefinedIdentifier:      "Undefined identifier",
	SemaIllegalAssignment:        "Assignment to constant",
	SemaTypeMismatch:             "Type mismatch",
	SemaConstexprRequired:        "Constant expression required",
	SemaInitializerRequired:      "Initializer required",
	SemaIllegalVoidDeclaration:   "Variable declared void",
	SemaInvalidControlTransfer:   "break/continue outside loop",
	IOLoadFileError:              "I/O load file error",
	IOWriteError:                 "I/O write error",
	ProjInfo:                     "Project information",
	ProjBadManifest:              "Invalid sysyc.toml",
	ProjToolchainMismatch:        "Toolchain version mismatch",
	IRInternalInvariantViolation: "Internal compiler error",
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
	case ic >= 9000 && ic < 10000:
		return fmt.Sprintf("IR%04d", ic)
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
