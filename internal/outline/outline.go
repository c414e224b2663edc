// Package outline prints a syntax tree as an indented list of nodes.
package outline

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/g-plane/TypeCake/pkg/ast"
)

type printer struct {
	w     io.Writer
	depth int
	err   error
}

// Write prints one line per node of root: kind, line:column range and, for
// leaves, the source text.
func Write(w io.Writer, root ast.Node) error {
	p := &printer{w: w}
	visitors := ast.Visitors{}
	for k := ast.KindProgram; k <= ast.KindTypeOperator; k++ {
		visitors[k] = ast.Visitor{Enter: p.enter, Exit: p.exit}
	}
	ast.Traverse(root, visitors)
	return p.err
}

func (p *printer) enter(n ast.Node) {
	if p.err == nil {
		loc := n.Span().Loc
		_, p.err = fmt.Fprintf(p.w, "%s%s %d:%d-%d:%d%s\n",
			strings.Repeat("  ", p.depth), n.Kind(),
			loc.Start.Line, loc.Start.Column, loc.End.Line, loc.End.Column,
			detail(n))
	}
	p.depth++
}

func (p *printer) exit(ast.Node) {
	p.depth--
}

func detail(n ast.Node) string {
	switch n := n.(type) {
	case *ast.Identifier:
		return " " + n.Name
	case *ast.Literal:
		return " " + n.Raw
	case *ast.TemplateElement:
		return " " + strconv.Quote(n.Raw)
	case *ast.SubtypeRelation:
		return " " + n.Relation.String()
	case *ast.ObjectExpressionProperty:
		if n.Optional {
			return " optional"
		}
	case *ast.TypeOperator:
		return " " + n.Operator
	}
	return ""
}

// Count returns how many nodes of each kind root contains.
func Count(root ast.Node) map[ast.Kind]int {
	counts := map[ast.Kind]int{}
	visitors := ast.Visitors{}
	for k := ast.KindProgram; k <= ast.KindTypeOperator; k++ {
		visitors[k] = ast.Visitor{Enter: func(n ast.Node) { counts[n.Kind()]++ }}
	}
	ast.Traverse(root, visitors)
	return counts
}
