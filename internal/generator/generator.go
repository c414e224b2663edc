package generator

import (
	"bytes"
	"fmt"
	"slices"
	"strings"

	"github.com/g-plane/TypeCake/pkg/ast"
)

// Generator lowers a TypeCake program to TypeScript type declarations.
type Generator struct {
	buf         bytes.Buffer
	indentLevel int
	err         error
}

func NewGenerator() *Generator {
	return &Generator{}
}

// Generate renders program. The error is non-nil only for trees that contain
// nodes the generator does not know how to render, such as nil children in a
// hand-built tree.
func (g *Generator) Generate(program *ast.Program) (string, error) {
	g.buf.Reset()
	g.indentLevel = 0
	g.err = nil

	g.emitProgram(program)
	if g.err != nil {
		return "", g.err
	}
	return g.buf.String(), nil
}

func (g *Generator) add(text string) {
	g.buf.WriteString(text)
}

func (g *Generator) newLine() {
	g.buf.WriteByte('\n')
}

func (g *Generator) printIndent() {
	g.add(strings.Repeat("  ", g.indentLevel))
}

func (g *Generator) fail(node any) {
	if g.err == nil {
		g.err = fmt.Errorf("generator: cannot emit %T", node)
	}
}

func (g *Generator) emitProgram(program *ast.Program) {
	stmts := program.Statements
	if len(stmts) == 0 {
		g.newLine()
		return
	}
	for i, stmt := range stmts {
		switch s := stmt.(type) {
		case *ast.FunctionDeclaration:
			g.emitFunctionDeclaration(s)
		case *ast.ImportDeclaration:
			g.emitImportDeclaration(s)
		default:
			g.fail(stmt)
		}

		if i == len(stmts)-1 {
			g.newLine()
			continue
		}
		// Keep the blank lines the author put between declarations.
		gap := stmts[i+1].Span().Loc.Start.Line - stmt.Span().Loc.End.Line
		g.add(strings.Repeat("\n", max(gap, 1)))
	}
}

func (g *Generator) emitImportDeclaration(decl *ast.ImportDeclaration) {
	g.add("import ")

	first := true
	separate := func() {
		if !first {
			g.add(", ")
		}
		first = false
	}
	var named []*ast.ImportNamedSpecifier
	for _, spec := range decl.Specifiers {
		switch s := spec.(type) {
		case *ast.ImportDefaultSpecifier:
			separate()
			g.emitIdentifier(s.Local)
		case *ast.ImportNamespaceSpecifier:
			separate()
			g.add("* as ")
			g.emitIdentifier(s.Local)
		case *ast.ImportNamedSpecifier:
			named = append(named, s)
		default:
			g.fail(spec)
		}
	}
	if len(named) > 0 || len(decl.Specifiers) == 0 {
		separate()
		g.emitImportNamedSpecifiers(named)
	}

	g.add(" from ")
	g.emitLiteral(decl.Source)
	g.add(";")
}

func (g *Generator) emitImportNamedSpecifiers(specifiers []*ast.ImportNamedSpecifier) {
	if len(specifiers) == 0 {
		g.add("{}")
		return
	}
	g.add("{ ")
	for i, spec := range specifiers {
		if i > 0 {
			g.add(", ")
		}
		g.emitIdentifier(spec.Imported)
		if spec.Local != nil {
			g.add(" as ")
			g.emitIdentifier(spec.Local)
		}
	}
	g.add(" }")
}

func (g *Generator) emitFunctionDeclaration(decl *ast.FunctionDeclaration) {
	g.add("type ")
	g.emitIdentifier(decl.ID)
	if len(decl.Parameters) > 0 {
		g.add("<")
		for i, param := range decl.Parameters {
			if i > 0 {
				g.add(", ")
			}
			g.emitParameter(param)
		}
		g.add(">")
	}
	g.add(" = ")
	g.emitExpression(decl.Body)
	g.add(";")
}

func (g *Generator) emitParameter(param *ast.Parameter) {
	g.emitIdentifier(param.ID)
	if param.Constraint != nil {
		g.add(" extends ")
		g.emitExpression(param.Constraint)
	}
	if param.Default != nil {
		g.add(" = ")
		g.emitExpression(param.Default)
	}
}

func (g *Generator) emitExpression(expr ast.Expression) {
	switch e := expr.(type) {
	case *ast.Identifier:
		g.emitIdentifier(e)
	case *ast.Literal:
		g.emitLiteral(e)
	case *ast.TemplateLiteralExpression:
		g.emitTemplateLiteralExpression(e)
	case *ast.TupleExpression:
		g.add("[")
		g.emitList(e.Elements, ", ")
		g.add("]")
	case *ast.RestElement:
		g.add("...")
		g.emitExpression(e.Expression)
	case *ast.ArrayExpression:
		g.emitArrayExpression(e)
	case *ast.IntersectionExpression:
		g.emitList(e.Types, " & ")
	case *ast.UnionExpression:
		g.emitList(e.Types, " | ")
	case *ast.ObjectExpression:
		g.emitObjectExpression(e)
	case *ast.NamespaceAccessExpression:
		g.emitIdentifier(e.Namespace)
		g.add(".")
		g.emitIdentifier(e.Key)
	case *ast.CallExpression:
		g.emitExpression(e.Callee)
		g.emitTypeArguments(e.Arguments)
	case *ast.MacroCallExpression:
		// Macros have no expansion yet; they render as a plain instantiation.
		g.emitIdentifier(e.ID)
		g.emitTypeArguments(e.Arguments)
	case *ast.PipelineExpression:
		g.emitPipelineExpression(e)
	case *ast.IndexedAccessExpression:
		g.emitExpression(e.Object)
		g.add("[")
		g.emitExpression(e.Index)
		g.add("]")
	case *ast.ParenthesizedExpression:
		g.add("(")
		g.emitExpression(e.Expression)
		g.add(")")
	case *ast.SwitchExpression:
		g.emitSwitchExpression(e)
	case *ast.IfExpression:
		g.emitIfExpression(e)
	case *ast.ConstInExpression:
		g.emitConstInExpression(e)
	case *ast.ForExpression:
		g.emitForExpression(e)
	case *ast.InferReference:
		g.add("infer ")
		g.emitIdentifier(e.ID)
	case *ast.TypeOperator:
		g.add(e.Operator)
		g.add(" ")
		g.emitExpression(e.Expression)
	default:
		g.fail(expr)
	}
}

func (g *Generator) emitList(exprs []ast.Expression, sep string) {
	for i, expr := range exprs {
		if i > 0 {
			g.add(sep)
		}
		g.emitExpression(expr)
	}
}

func (g *Generator) emitIdentifier(id *ast.Identifier) {
	if id == nil {
		g.fail(id)
		return
	}
	g.add(id.Name)
}

func (g *Generator) emitLiteral(lit *ast.Literal) {
	if lit == nil {
		g.fail(lit)
		return
	}
	g.add(lit.Raw)
}

func (g *Generator) emitTypeArguments(args []ast.Expression) {
	if len(args) == 0 {
		return
	}
	g.add("<")
	g.emitList(args, ", ")
	g.add(">")
}

// emitPipelineExpression passes the piped value as the last type argument.
func (g *Generator) emitPipelineExpression(e *ast.PipelineExpression) {
	var args []ast.Expression
	if call, ok := e.Transformer.(*ast.CallExpression); ok {
		g.emitExpression(call.Callee)
		args = append(slices.Clone(call.Arguments), e.Source)
	} else {
		g.emitExpression(e.Transformer)
		args = []ast.Expression{e.Source}
	}
	g.emitTypeArguments(args)
}

func (g *Generator) emitTemplateLiteralExpression(e *ast.TemplateLiteralExpression) {
	g.add("`")
	for i, quasi := range e.Quasis {
		g.add(quasi.Raw)
		if i < len(e.Expressions) {
			g.add("${")
			g.emitExpression(e.Expressions[i])
			g.add("}")
		}
	}
	g.add("`")
}

func (g *Generator) emitArrayExpression(e *ast.ArrayExpression) {
	switch e.Element.(type) {
	case *ast.Identifier, *ast.Literal:
		g.emitExpression(e.Element)
	default:
		g.add("(")
		g.emitExpression(e.Element)
		g.add(")")
	}
	g.add("[]")
}

// emitObjectExpression puts objects with more than two properties on
// separate lines.
func (g *Generator) emitObjectExpression(e *ast.ObjectExpression) {
	if len(e.Properties) == 0 {
		g.add("{}")
		return
	}

	multiline := len(e.Properties) > 2
	g.add("{")
	if multiline {
		g.newLine()
		g.indentLevel++
		g.printIndent()
	} else {
		g.add(" ")
	}
	for i, prop := range e.Properties {
		if i > 0 {
			g.add(",")
			if multiline {
				g.newLine()
				g.printIndent()
			} else {
				g.add(" ")
			}
		}
		g.emitObjectExpressionProperty(prop)
	}
	if multiline {
		g.newLine()
		g.indentLevel--
		g.printIndent()
	} else {
		g.add(" ")
	}
	g.add("}")
}

func (g *Generator) emitObjectExpressionProperty(prop *ast.ObjectExpressionProperty) {
	switch key := prop.Key.(type) {
	case *ast.Identifier:
		g.emitIdentifier(key)
	case *ast.IndexedPropertyKey:
		g.add("[")
		g.emitIdentifier(key.ID)
		g.add(": ")
		g.emitExpression(key.Expression)
		g.add("]")
	default:
		g.fail(prop.Key)
	}
	if prop.Optional {
		g.add("?")
	}
	g.add(": ")
	g.emitExpression(prop.Value)
}

// emitConstInExpression binds each name with `infer` in turn. Every binding
// gets its own `: never` branch.
func (g *Generator) emitConstInExpression(e *ast.ConstInExpression) {
	for _, binding := range e.Bindings {
		g.emitExpression(binding.Expression)
		g.add(" extends infer ")
		g.emitIdentifier(binding.ID)
		g.add(" ? ")
	}
	g.emitExpression(e.Body)
	for range e.Bindings {
		g.add(" : never")
	}
}

// emitSwitchExpression tests every arm but the last; the last arm's body is
// the fallback and its pattern is never tested. A single arm is tested and
// its body used for both branches.
func (g *Generator) emitSwitchExpression(e *ast.SwitchExpression) {
	if len(e.Arms) == 1 {
		arm := e.Arms[0]
		g.emitArmTest(e.Expression, arm)
		g.emitExpression(arm.Body)
		return
	}
	for _, arm := range e.Arms[:len(e.Arms)-1] {
		g.emitArmTest(e.Expression, arm)
	}
	g.emitExpression(e.Arms[len(e.Arms)-1].Body)
}

// emitArmTest writes `expr extends pattern ? body : `.
func (g *Generator) emitArmTest(expr ast.Expression, arm *ast.SwitchExpressionArm) {
	g.emitExpression(expr)
	g.add(" extends ")
	g.emitExpression(arm.Pattern)
	g.add(" ? ")
	g.emitExpression(arm.Body)
	g.add(" : ")
}

// emitIfExpression nests one conditional per condition. Each of them falls
// back to its own copy of the alternate.
func (g *Generator) emitIfExpression(e *ast.IfExpression) {
	for _, cond := range e.Conditions {
		g.emitSubtypeRelation(cond)
		g.add(" ? ")
	}
	g.emitExpression(e.Consequent)
	for range e.Conditions {
		g.add(" : ")
		g.emitExpression(e.Alternate)
	}
}

func (g *Generator) emitSubtypeRelation(rel *ast.SubtypeRelation) {
	if rel.Relation == ast.RelationEquals {
		g.add("[")
		g.emitExpression(rel.Expression)
		g.add("] extends [")
		g.emitExpression(rel.Constraint)
		g.add("]")
		return
	}
	g.emitExpression(rel.Expression)
	g.add(" extends ")
	g.emitExpression(rel.Constraint)
}

func (g *Generator) emitForExpression(e *ast.ForExpression) {
	g.add("{ [")
	g.emitIdentifier(e.Each)
	g.add(" in ")
	g.emitExpression(e.Collection)
	if e.Mapper != nil {
		g.add(" as ")
		g.emitExpression(e.Mapper)
	}
	g.add("]: ")
	g.emitExpression(e.Body)
	g.add(" }")
}
