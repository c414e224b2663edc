package parser

import (
	"fmt"

	"github.com/g-plane/TypeCake/pkg/ast"
)

type TokenType int

const (
	TokenEOF TokenType = iota
	TokenIllegal

	TokenName
	TokenNum
	TokenString
	TokenTemplate
	TokenBackQuote
	TokenDollarBraceL

	TokenBraceL
	TokenBraceR
	TokenBracketL
	TokenBracketR
	TokenParenL
	TokenParenR
	TokenComma
	TokenSemi
	TokenColon
	TokenDot
	TokenEllipsis
	TokenQuestion

	TokenEq         // =
	TokenEquality   // ==
	TokenStar       // *
	TokenAmp        // &
	TokenLogicalAnd // &&
	TokenPipe       // |
	TokenLogicalOr  // ||
	TokenGt         // >
	TokenMinus      // -
	TokenBang       // !

	// Keywords
	TokenSwitch
	TokenIf
	TokenElse
	TokenConst
	TokenIn
	TokenFor
	TokenImport
	TokenTrue
	TokenFalse
	TokenNull
)

var tokenNames = [...]string{
	TokenEOF:          "end of input",
	TokenIllegal:      "illegal",
	TokenName:         "name",
	TokenNum:          "number",
	TokenString:       "string",
	TokenTemplate:     "template",
	TokenBackQuote:    "`",
	TokenDollarBraceL: "${",
	TokenBraceL:       "{",
	TokenBraceR:       "}",
	TokenBracketL:     "[",
	TokenBracketR:     "]",
	TokenParenL:       "(",
	TokenParenR:       ")",
	TokenComma:        ",",
	TokenSemi:         ";",
	TokenColon:        ":",
	TokenDot:          ".",
	TokenEllipsis:     "...",
	TokenQuestion:     "?",
	TokenEq:           "=",
	TokenEquality:     "==",
	TokenStar:         "*",
	TokenAmp:          "&",
	TokenLogicalAnd:   "&&",
	TokenPipe:         "|",
	TokenLogicalOr:    "||",
	TokenGt:           ">",
	TokenMinus:        "-",
	TokenBang:         "!",
	TokenSwitch:       "switch",
	TokenIf:           "if",
	TokenElse:         "else",
	TokenConst:        "const",
	TokenIn:           "in",
	TokenFor:          "for",
	TokenImport:       "import",
	TokenTrue:         "true",
	TokenFalse:        "false",
	TokenNull:         "null",
}

func (t TokenType) String() string {
	if t < 0 || int(t) >= len(tokenNames) {
		return fmt.Sprintf("TokenType(%d)", int(t))
	}
	return tokenNames[t]
}

// IsKeyword reports whether t is a reserved word.
func (t TokenType) IsKeyword() bool {
	return t >= TokenSwitch && t <= TokenNull
}

var keywords = map[string]TokenType{
	"switch": TokenSwitch,
	"if":     TokenIf,
	"else":   TokenElse,
	"const":  TokenConst,
	"in":     TokenIn,
	"for":    TokenFor,
	"import": TokenImport,
	"true":   TokenTrue,
	"false":  TokenFalse,
	"null":   TokenNull,
}

// Token is a lexical token. Value is the decoded text: the name of an
// identifier, the contents of a string, the cooked text of a template chunk
// or the message of an illegal token. Raw is the exact source slice.
type Token struct {
	Type  TokenType
	Value string
	Raw   string
	Start int
	End   int
	Loc   ast.SourceLocation
}

func (t Token) String() string {
	switch t.Type {
	case TokenEOF:
		return "end of input"
	case TokenName, TokenNum, TokenString:
		return fmt.Sprintf("%s %q", t.Type, t.Raw)
	}
	return fmt.Sprintf("%q", t.Raw)
}
