package generator_test

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"

	"github.com/g-plane/TypeCake/internal/generator"
	"github.com/g-plane/TypeCake/internal/parser"
	"github.com/g-plane/TypeCake/pkg/ast"
)

func compile(t *testing.T, input string) string {
	t.Helper()
	program, err := parser.Parse(input)
	require.NoError(t, err)
	out, err := generator.NewGenerator().Generate(program)
	require.NoError(t, err)
	return out
}

func TestGenerateTypeScript(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Identity",
			input:    "fn Id(x) = x;",
			expected: "type Id<x> = x;\n",
		},
		{
			name:     "No parameters",
			input:    "fn A() = string;",
			expected: "type A = string;\n",
		},
		{
			name:     "Constraint and default",
			input:    `fn D(x: string = "a") = x;`,
			expected: "type D<x extends string = \"a\"> = x;\n",
		},
		{
			name:     "Switch with fallback",
			input:    `fn F(x: string) = switch x { "a" -> 1, _ -> 0 };`,
			expected: "type F<x extends string> = x extends \"a\" ? 1 : 0;\n",
		},
		{
			name:     "Switch with three arms",
			input:    `fn F(x) = switch x { 1 -> "one", 2 -> "two", _ -> "many" };`,
			expected: "type F<x> = x extends 1 ? \"one\" : x extends 2 ? \"two\" : \"many\";\n",
		},
		{
			name:     "Switch with a single arm",
			input:    "fn S(x) = switch x { &a -> a };",
			expected: "type S<x> = x extends infer a ? a : a;\n",
		},
		{
			name:     "Switch with tuple pattern",
			input:    "fn Head(T) = switch T { [&h, ...&_] -> h, _ -> never };",
			expected: "type Head<T> = T extends [infer h, ...infer _] ? h : never;\n",
		},
		{
			name:     "Intersection pattern",
			input:    "fn I(x) = switch x { A & B -> 1, _ -> 0 };",
			expected: "type I<x> = x extends A & B ? 1 : 0;\n",
		},
		{
			name:     "Pipeline into a call",
			input:    "fn P(x) = x |> F(1);",
			expected: "type P<x> = F<1, x>;\n",
		},
		{
			name:     "Pipeline into a name",
			input:    "fn P(x) = x |> F;",
			expected: "type P<x> = F<x>;\n",
		},
		{
			name:     "Chained pipelines",
			input:    "fn P(x) = x |> F |> G(1);",
			expected: "type P<x> = G<1, F<x>>;\n",
		},
		{
			name:     "If with several conditions",
			input:    "fn F(a, b, c, d, y, z) = if a : b && c : d { y } else { z };",
			expected: "type F<a, b, c, d, y, z> = a extends b ? c extends d ? y : z : z;\n",
		},
		{
			name:     "If with else if",
			input:    "fn F(a) = if a : string { 1 } else if a : number { 2 } else { 3 };",
			expected: "type F<a> = a extends string ? 1 : a extends number ? 2 : 3;\n",
		},
		{
			name:     "Equality",
			input:    "fn E(a) = if a == never { 1 } else { 0 };",
			expected: "type E<a> = [a] extends [never] ? 1 : 0;\n",
		},
		{
			name:     "Const in",
			input:    "fn C(T) = const a = T[0], b = T[1] in [b, a];",
			expected: "type C<T> = T[0] extends infer a ? T[1] extends infer b ? [b, a] : never : never;\n",
		},
		{
			name:     "For with mapper",
			input:    "fn M(T) = for K in T as Uppercase(K) { T[K] };",
			expected: "type M<T> = { [K in T as Uppercase<K>]: T[K] };\n",
		},
		{
			name:     "For without mapper",
			input:    "fn M(T) = for K in T { 1 };",
			expected: "type M<T> = { [K in T]: 1 };\n",
		},
		{
			name:     "Arrays",
			input:    "fn A(T) = [string[], Promise(T)[]];",
			expected: "type A<T> = [string[], (Promise<T>)[]];\n",
		},
		{
			name:     "Union and intersection",
			input:    `fn U(a, b) = a & b | "c" | null;`,
			expected: "type U<a, b> = a & b | \"c\" | null;\n",
		},
		{
			name:     "Template literal",
			input:    "fn T(x) = `a-${x}-b`;",
			expected: "type T<x> = `a-${x}-b`;\n",
		},
		{
			name:     "Template keeps escapes raw",
			input:    "fn T() = `a\\n`;",
			expected: "type T = `a\\n`;\n",
		},
		{
			name:     "Literal raw text",
			input:    "fn L() = [0x1F, 'a', 10n, true];",
			expected: "type L = [0x1F, 'a', 10n, true];\n",
		},
		{
			name:     "Namespace and macro",
			input:    "fn N() = [NS.Key, m!(1, 2)];",
			expected: "type N = [NS.Key, m<1, 2>];\n",
		},
		{
			name:     "Small object",
			input:    "fn O() = { a: 1, b?: string };",
			expected: "type O = { a: 1, b?: string };\n",
		},
		{
			name:     "Empty object",
			input:    "fn O() = {};",
			expected: "type O = {};\n",
		},
		{
			name:  "Large object",
			input: "fn O() = { a: 1, b?: string, [k: string]: number };",
			expected: `type O = {
  a: 1,
  b?: string,
  [k: string]: number
};
`,
		},
		{
			name:  "Nested large objects",
			input: "fn O() = { a: { x: 1, y: 2, z: 3 }, b: 2, c: 3 };",
			expected: `type O = {
  a: {
    x: 1,
    y: 2,
    z: 3
  },
  b: 2,
  c: 3
};
`,
		},
		{
			name:     "Named import",
			input:    `from "mod" import { a, b as c };`,
			expected: "import { a, b as c } from \"mod\";\n",
		},
		{
			name:     "Default and namespace import",
			input:    `from "mod" import D, * as ns`,
			expected: "import D, * as ns from \"mod\";\n",
		},
		{
			name:     "Empty import",
			input:    `from "mod" import {}`,
			expected: "import {} from \"mod\";\n",
		},
		{
			name:     "Blank lines are kept",
			input:    "fn A() = 1;\n\n\nfn B() = 2;",
			expected: "type A = 1;\n\n\ntype B = 2;\n",
		},
		{
			name:     "Statements on one line are split",
			input:    "fn A() = 1; fn B() = 2;",
			expected: "type A = 1;\ntype B = 2;\n",
		},
		{
			name:     "Empty program",
			input:    "",
			expected: "\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, compile(t, tt.input))
		})
	}
}

func TestGenerateIfRepeatsAlternate(t *testing.T) {
	for k := 1; k <= 4; k++ {
		conds := make([]string, k)
		for i := range conds {
			conds[i] = fmt.Sprintf("a%d : b%d", i, i)
		}
		input := fmt.Sprintf("fn F() = if %s { yes } else { Alternate };", strings.Join(conds, " && "))

		out := compile(t, input)
		assert.Equal(t, k, strings.Count(out, "Alternate"), out)
		assert.Equal(t, k, strings.Count(out, " extends "), out)
		assert.Equal(t, 1, strings.Count(out, "yes"), out)
	}
}

func TestGenerateHandBuiltTrees(t *testing.T) {
	tests := []struct {
		name     string
		body     ast.Expression
		expected string
	}{
		{
			name:     "Type operator",
			body:     &ast.TypeOperator{Operator: "keyof", Expression: &ast.Identifier{Name: "T"}},
			expected: "type K<T> = keyof T;\n",
		},
		{
			name: "Array of a type operator",
			body: &ast.ArrayExpression{
				Element: &ast.TypeOperator{Operator: "keyof", Expression: &ast.Identifier{Name: "T"}},
			},
			expected: "type K<T> = (keyof T)[];\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			program := &ast.Program{Statements: []ast.Statement{
				&ast.FunctionDeclaration{
					ID:         &ast.Identifier{Name: "K"},
					Parameters: []*ast.Parameter{{ID: &ast.Identifier{Name: "T"}}},
					Body:       tt.body,
				},
			}}
			out, err := generator.NewGenerator().Generate(program)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, out)
		})
	}
}

func TestGenerateRejectsIncompleteTrees(t *testing.T) {
	program := &ast.Program{Statements: []ast.Statement{
		&ast.FunctionDeclaration{ID: &ast.Identifier{Name: "F"}},
	}}
	out, err := generator.NewGenerator().Generate(program)
	assert.Error(t, err)
	assert.Empty(t, out)
}

func TestGenerateIsRepeatable(t *testing.T) {
	program, err := parser.Parse("fn A(x) = switch x { &a -> a };\n\nfn B() = { a: 1, b: 2, c: 3 };")
	require.NoError(t, err)

	g := generator.NewGenerator()
	first, err := g.Generate(program)
	require.NoError(t, err)
	second, err := g.Generate(program)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// an error does not leak into the next run
	_, err = g.Generate(&ast.Program{Statements: []ast.Statement{&ast.FunctionDeclaration{}}})
	require.Error(t, err)
	third, err := g.Generate(program)
	require.NoError(t, err)
	assert.Equal(t, first, third)
}

// TestGolden compiles the input.tc section of every testdata/*.txtar archive
// and compares it with the output.ts section.
func TestGolden(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("testdata", "*.txtar"))
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, file := range files {
		t.Run(filepath.Base(file), func(t *testing.T) {
			archive, err := txtar.ParseFile(file)
			require.NoError(t, err)

			sections := map[string]string{}
			for _, f := range archive.Files {
				sections[f.Name] = string(f.Data)
			}
			input, ok := sections["input.tc"]
			require.True(t, ok, "missing input.tc section")
			expected, ok := sections["output.ts"]
			require.True(t, ok, "missing output.ts section")

			assert.Equal(t, expected, compile(t, input))
		})
	}
}
