package typecake_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	typecake "github.com/g-plane/TypeCake"
)

func TestCompile(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"identity", "fn Id(x) = x;", "type Id<x> = x;\n"},
		{"switch", `fn F(x: string) = switch x { "a" -> 1, &_ -> 0 };`, "type F<x extends string> = x extends \"a\" ? 1 : 0;\n"},
		{"pipeline", "fn P(x) = x |> F(1);", "type P<x> = F<1, x>;\n"},
		{"import", `from "mod" import { a, b as c };`, "import { a, b as c } from \"mod\";\n"},
		{"out of range numbers", "fn N() = [1e400, 0xFFFFFFFFFFFFFFFFFF];", "type N = [1e400, 0xFFFFFFFFFFFFFFFFFF];\n"},
		{"if chain", "fn F(a, b, c, d, y, z) = if a : b && c : d { y } else { z };", "type F<a, b, c, d, y, z> = a extends b ? c extends d ? y : z : z;\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := typecake.Compile(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, out)
		})
	}
}

func TestParseThenEmit(t *testing.T) {
	program, err := typecake.Parse("fn A() = 1;\n\nfn B() = 2;")
	require.NoError(t, err)
	assert.Len(t, program.Statements, 2)

	out, err := typecake.Emit(program)
	require.NoError(t, err)
	assert.Equal(t, "type A = 1;\n\ntype B = 2;\n", out)
}

func TestCompileSyntaxError(t *testing.T) {
	input := "fn A() = x\nId(x) = x;\nfn B() = y"
	out, err := typecake.Compile(input)
	assert.Empty(t, out)

	var se *typecake.SyntaxError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "Unexpected token, expected a declaration.", se.Message)
	assert.Equal(t, 2, se.Line())
	assert.Equal(t, 1, se.Column())

	frame, err := typecake.ErrorFrame(se, false)
	require.NoError(t, err)
	assert.Equal(t, "   1 | fn A() = x\n"+
		" > 2 | Id(x) = x;\n"+
		"       ^^\n"+
		"   3 | fn B() = y", frame)
}

func TestCodeFrame(t *testing.T) {
	frame, err := typecake.CodeFrame("abc\ndef", 2, 2)
	require.NoError(t, err)
	assert.Equal(t, "   1 | abc\n > 2 | def\n        ^", frame)

	frame, err = typecake.CodeFrame("abc\ndef", 2, 1, 4)
	require.NoError(t, err)
	assert.Equal(t, "   1 | abc\n > 2 | def\n       ^^^", frame)

	_, err = typecake.CodeFrame("abc", 3, 1)
	var re *typecake.RangeError
	assert.True(t, errors.As(err, &re))

	// an explicit end column of 0 precedes the column
	_, err = typecake.CodeFrame("abc\ndef", 2, 1, 0)
	require.True(t, errors.As(err, &re))
	assert.Equal(t, 0, re.EndColumn)
}
