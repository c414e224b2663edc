// Package typecake compiles TypeCake, a small functional language for
// type-level programming, into TypeScript type declarations.
//
// # Basic Usage
//
//	out, err := typecake.Compile(`fn Id(x) = x;`)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Print(out) // type Id<x> = x;
//
// # Diagnostics
//
// Parse failures are reported as *SyntaxError, which carries the offending
// token and the input so a code frame can be rendered:
//
//	_, err := typecake.Compile(src)
//	var se *typecake.SyntaxError
//	if errors.As(err, &se) {
//	    frame, _ := typecake.ErrorFrame(se, false)
//	    fmt.Println(frame)
//	}
package typecake

import (
	"github.com/g-plane/TypeCake/internal/generator"
	"github.com/g-plane/TypeCake/internal/parser"
	"github.com/g-plane/TypeCake/pkg/ast"
	"github.com/g-plane/TypeCake/pkg/codeframe"
)

// Re-export commonly used types so callers can import just this package.
type (
	// Program is the root of a parsed TypeCake file.
	Program = ast.Program

	// Token is a lexical token with its source span.
	Token = parser.Token

	// SyntaxError is returned by Parse and Compile for invalid input.
	SyntaxError = parser.SyntaxError

	// RangeError is returned by CodeFrame for locations outside the input.
	RangeError = codeframe.RangeError
)

// Parse parses input into a syntax tree.
func Parse(input string) (*Program, error) {
	return parser.Parse(input)
}

// Emit renders a syntax tree as TypeScript.
func Emit(program *Program) (string, error) {
	return generator.NewGenerator().Generate(program)
}

// Compile parses input and emits TypeScript.
func Compile(input string) (string, error) {
	program, err := Parse(input)
	if err != nil {
		return "", err
	}
	return Emit(program)
}

// CodeFrame renders the lines around line with column underlined. An
// optional endColumn (exclusive) widens the underline.
func CodeFrame(input string, line, column int, endColumn ...int) (string, error) {
	opts := codeframe.Options{Line: line, Column: column}
	if len(endColumn) > 0 {
		opts.EndColumn = endColumn[0]
		opts.HasEnd = true
	}
	return codeframe.Format(input, opts)
}

// ErrorFrame renders the code frame for a syntax error, underlining the
// offending token.
func ErrorFrame(err *SyntaxError, colored bool) (string, error) {
	return codeframe.Printer{Color: colored}.Format(err.Input, codeframe.Options{
		Line:      err.Line(),
		Column:    err.Column(),
		EndColumn: err.EndColumn(),
		HasEnd:    err.EndColumn() != 0,
	})
}
