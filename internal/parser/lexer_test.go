package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/g-plane/TypeCake/internal/parser"
	"github.com/g-plane/TypeCake/pkg/ast"
)

func lexAll(input string) []parser.Token {
	l := parser.NewLexer(input)
	var tokens []parser.Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == parser.TokenEOF || tok.Type == parser.TokenIllegal {
			return tokens
		}
	}
}

func types(tokens []parser.Token) []parser.TokenType {
	out := make([]parser.TokenType, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Type
	}
	return out
}

func TestLexerTokenTypes(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []parser.TokenType
	}{
		{
			name:  "function declaration",
			input: "fn Id(x) = x;",
			want: []parser.TokenType{
				parser.TokenName, parser.TokenName, parser.TokenParenL, parser.TokenName, parser.TokenParenR,
				parser.TokenEq, parser.TokenName, parser.TokenSemi, parser.TokenEOF,
			},
		},
		{
			name:  "operators",
			input: "== = && & || | |> -> ... . ! ? * :",
			want: []parser.TokenType{
				parser.TokenEquality, parser.TokenEq, parser.TokenLogicalAnd, parser.TokenAmp,
				parser.TokenLogicalOr, parser.TokenPipe, parser.TokenPipe, parser.TokenGt,
				parser.TokenMinus, parser.TokenGt, parser.TokenEllipsis, parser.TokenDot,
				parser.TokenBang, parser.TokenQuestion, parser.TokenStar, parser.TokenColon, parser.TokenEOF,
			},
		},
		{
			name:  "keywords",
			input: "switch if else const in for import true false null from",
			want: []parser.TokenType{
				parser.TokenSwitch, parser.TokenIf, parser.TokenElse, parser.TokenConst, parser.TokenIn,
				parser.TokenFor, parser.TokenImport, parser.TokenTrue, parser.TokenFalse, parser.TokenNull,
				parser.TokenName, parser.TokenEOF,
			},
		},
		{
			name:  "comments are skipped",
			input: "a // line\n/* block\n */ b",
			want:  []parser.TokenType{parser.TokenName, parser.TokenName, parser.TokenEOF},
		},
		{
			name:  "template with a hole",
			input: "`a${b}c`",
			want: []parser.TokenType{
				parser.TokenBackQuote, parser.TokenTemplate, parser.TokenDollarBraceL, parser.TokenName,
				parser.TokenBraceR, parser.TokenTemplate, parser.TokenBackQuote, parser.TokenEOF,
			},
		},
		{
			name:  "empty template still has a chunk",
			input: "``",
			want:  []parser.TokenType{parser.TokenBackQuote, parser.TokenTemplate, parser.TokenBackQuote, parser.TokenEOF},
		},
		{
			name:  "object inside a template hole",
			input: "`${ {a: 1} }`",
			want: []parser.TokenType{
				parser.TokenBackQuote, parser.TokenTemplate, parser.TokenDollarBraceL,
				parser.TokenBraceL, parser.TokenName, parser.TokenColon, parser.TokenNum, parser.TokenBraceR,
				parser.TokenBraceR, parser.TokenTemplate, parser.TokenBackQuote, parser.TokenEOF,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, types(lexAll(tt.input)))
		})
	}
}

func TestLexerPositions(t *testing.T) {
	tokens := lexAll("fn Id\n  ü x")
	require.Len(t, tokens, 5)

	assert.Equal(t, "Id", tokens[1].Value)
	assert.Equal(t, 3, tokens[1].Start)
	assert.Equal(t, 5, tokens[1].End)
	assert.Equal(t, ast.SourceLocation{
		Start: ast.Position{Line: 1, Column: 4},
		End:   ast.Position{Line: 1, Column: 6},
	}, tokens[1].Loc)

	// columns count runes, offsets count bytes
	assert.Equal(t, "ü", tokens[2].Value)
	assert.Equal(t, ast.Position{Line: 2, Column: 3}, tokens[2].Loc.Start)
	assert.Equal(t, ast.Position{Line: 2, Column: 4}, tokens[2].Loc.End)
	assert.Equal(t, 2, tokens[2].End-tokens[2].Start)

	assert.Equal(t, ast.Position{Line: 2, Column: 5}, tokens[3].Loc.Start)
	assert.Equal(t, parser.TokenEOF, tokens[4].Type)
	assert.Equal(t, len("fn Id\n  ü x"), tokens[4].Start)
}

func TestLexerValues(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantType  parser.TokenType
		wantValue string
		wantRaw   string
	}{
		{"double quoted", `"abc"`, parser.TokenString, "abc", `"abc"`},
		{"single quoted with escape", `'it\'s'`, parser.TokenString, "it's", `'it\'s'`},
		{"newline escape", `"a\nb"`, parser.TokenString, "a\nb", `"a\nb"`},
		{"hex escape", `"\x41"`, parser.TokenString, "A", `"\x41"`},
		{"unicode escape", `"\u00e9"`, parser.TokenString, "é", `"\u00e9"`},
		{"code point escape", `"\u{1F600}"`, parser.TokenString, "😀", `"\u{1F600}"`},
		{"surrogate pair", `"\uD83D\uDE00"`, parser.TokenString, "😀", `"\uD83D\uDE00"`},
		{"line continuation", "\"a\\\nb\"", parser.TokenString, "ab", "\"a\\\nb\""},
		{"integer", "42", parser.TokenNum, "42", "42"},
		{"separators", "1_000", parser.TokenNum, "1_000", "1_000"},
		{"hex", "0x1F", parser.TokenNum, "0x1F", "0x1F"},
		{"fraction and exponent", "1.5e-3", parser.TokenNum, "1.5e-3", "1.5e-3"},
		{"leading dot", ".5", parser.TokenNum, ".5", ".5"},
		{"bigint", "10n", parser.TokenNum, "10n", "10n"},
		{"dollar name", "$x_1", parser.TokenName, "$x_1", "$x_1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok := parser.NewLexer(tt.input).NextToken()
			assert.Equal(t, tt.wantType, tok.Type)
			assert.Equal(t, tt.wantValue, tok.Value)
			assert.Equal(t, tt.wantRaw, tok.Raw)
		})
	}
}

func TestLexerTemplateChunks(t *testing.T) {
	tokens := lexAll("`a\\tb${x}`")
	require.Equal(t, parser.TokenTemplate, tokens[1].Type)
	assert.Equal(t, "a\tb", tokens[1].Value)
	assert.Equal(t, `a\tb`, tokens[1].Raw)

	require.Equal(t, parser.TokenTemplate, tokens[5].Type)
	assert.Equal(t, "", tokens[5].Value)
	assert.Equal(t, tokens[5].Start, tokens[5].End)
}

func TestLexerIllegal(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"unterminated string", `"abc`, "Unterminated string constant."},
		{"newline in string", "'a\nb'", "Unterminated string constant."},
		{"unterminated template", "`abc", "Unterminated template."},
		{"unterminated comment", "/* abc", "Unterminated comment."},
		{"bad escape", `"\xZZ"`, "Bad character escape sequence."},
		{"octal escape", `"\01"`, "Octal escape sequences are not allowed."},
		{"name after number", "3px", "Identifier directly after number."},
		{"empty hex", "0x", "Invalid number."},
		{"stray character", "#", `Unexpected character '#'.`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := lexAll(tt.input)
			last := tokens[len(tokens)-1]
			assert.Equal(t, parser.TokenIllegal, last.Type)
			assert.Equal(t, tt.want, last.Value)
		})
	}
}

func TestLexerPeek(t *testing.T) {
	l := parser.NewLexer("`a${b}` c")
	assert.Equal(t, parser.TokenBackQuote, l.NextToken().Type)

	peeked := l.Peek()
	assert.Equal(t, parser.TokenTemplate, peeked.Type)
	assert.Equal(t, peeked, l.NextToken())

	// peeking across a context change leaves the stack untouched
	assert.Equal(t, parser.TokenDollarBraceL, l.Peek().Type)
	assert.Equal(t, parser.TokenDollarBraceL, l.NextToken().Type)
	assert.Equal(t, parser.TokenName, l.NextToken().Type)
	assert.Equal(t, parser.TokenBraceR, l.Peek().Type)
	assert.Equal(t, parser.TokenBraceR, l.NextToken().Type)
	assert.Equal(t, parser.TokenTemplate, l.NextToken().Type)
	assert.Equal(t, parser.TokenBackQuote, l.NextToken().Type)

	c := l.NextToken()
	assert.Equal(t, "c", c.Value)
	assert.Equal(t, parser.TokenEOF, l.Peek().Type)
	assert.Equal(t, parser.TokenEOF, l.NextToken().Type)
}

func TestTokenTypeString(t *testing.T) {
	assert.Equal(t, "==", parser.TokenEquality.String())
	assert.Equal(t, "end of input", parser.TokenEOF.String())
	assert.True(t, parser.TokenNull.IsKeyword())
	assert.False(t, parser.TokenName.IsKeyword())
}
