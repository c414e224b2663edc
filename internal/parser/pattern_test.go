package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/g-plane/TypeCake/pkg/ast"
)

func TestParsePatternRestoresDepthOnPanic(t *testing.T) {
	p := New(NewLexer("&a -> &b"))
	p.nextToken()

	func() {
		defer func() {
			r := recover()
			_, ok := r.(*SyntaxError)
			require.True(t, ok, "expected *SyntaxError, got %v", r)
		}()
		p.parsePattern(func() ast.Expression {
			assert.True(t, p.inPattern())
			p.unexpected()
			return nil
		})
	}()

	assert.Equal(t, 0, p.patternDepth)
	assert.False(t, p.inPattern())
}

func TestParsePatternNests(t *testing.T) {
	p := New(NewLexer("&a"))
	p.nextToken()

	expr := p.parsePattern(func() ast.Expression {
		return p.parsePattern(func() ast.Expression {
			assert.Equal(t, 2, p.patternDepth)
			return p.parseExpression()
		})
	})

	ref, ok := expr.(*ast.InferReference)
	require.True(t, ok, "expected InferReference, got %T", expr)
	assert.Equal(t, "a", ref.ID.Name)
	assert.Equal(t, 0, p.patternDepth)
}
