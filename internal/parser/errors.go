package parser

import (
	"errors"
	"fmt"
)

// ErrParserUsed is returned when ParseProgram is called twice on one Parser.
var ErrParserUsed = errors.New("parser: ParseProgram already called on this parser")

// SyntaxError is raised for the first grammar mismatch in the input. It
// carries everything needed to render a code frame without re-parsing.
type SyntaxError struct {
	Message   string
	Token     Token // offending token
	LastToken Token // last consumed token
	Input     string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s (%d:%d)", e.Message, e.Token.Loc.Start.Line, e.Token.Loc.Start.Column)
}

// Line and Column locate the start of the offending token.
func (e *SyntaxError) Line() int   { return e.Token.Loc.Start.Line }
func (e *SyntaxError) Column() int { return e.Token.Loc.Start.Column }

// EndColumn is the end column of the offending token, or 0 when the token
// spans several lines or is empty.
func (e *SyntaxError) EndColumn() int {
	loc := e.Token.Loc
	if loc.End.Line != loc.Start.Line || loc.End.Column <= loc.Start.Column {
		return 0
	}
	return loc.End.Column
}
