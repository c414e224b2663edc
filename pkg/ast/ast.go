// Package ast defines the syntax tree produced by the TypeCake parser.
//
// The node set is closed: every concrete node type lives in this package and
// carries a Kind tag, a byte offset range and a line/column location.
package ast

// Position is a 1-based line and 1-based column, counted in runes.
type Position struct {
	Line   int
	Column int
}

// SourceLocation is the line/column extent of a node. End is exclusive.
type SourceLocation struct {
	Start Position
	End   Position
}

// Span is the source extent of a node: byte offsets plus line/column
// positions.
type Span struct {
	Start int
	End   int
	Loc   SourceLocation
}

// Contains reports whether other lies within s.
func (s Span) Contains(other Span) bool {
	return other.Start >= s.Start && other.End <= s.End
}

type Node interface {
	Kind() Kind
	Span() Span
	SetSpan(Span)
}

type Statement interface {
	Node
	statementNode()
}

type Expression interface {
	Node
	expressionNode()
}

// ImportSpecifier is one of the default, namespace or named import forms.
type ImportSpecifier interface {
	Node
	importSpecifierNode()
}

// PropertyKey is an Identifier or an IndexedPropertyKey.
type PropertyKey interface {
	Node
	propertyKeyNode()
}

type base struct {
	span Span
}

func (b *base) Span() Span     { return b.span }
func (b *base) SetSpan(s Span) { b.span = s }

type Program struct {
	base
	Statements []Statement
}

func (p *Program) Kind() Kind { return KindProgram }

// Statements

type ImportDeclaration struct {
	base
	Specifiers []ImportSpecifier
	Source     *Literal
}

func (d *ImportDeclaration) statementNode() {}
func (d *ImportDeclaration) Kind() Kind     { return KindImportDeclaration }

type ImportDefaultSpecifier struct {
	base
	Local *Identifier
}

func (s *ImportDefaultSpecifier) importSpecifierNode() {}
func (s *ImportDefaultSpecifier) Kind() Kind           { return KindImportDefaultSpecifier }

type ImportNamespaceSpecifier struct {
	base
	Local *Identifier
}

func (s *ImportNamespaceSpecifier) importSpecifierNode() {}
func (s *ImportNamespaceSpecifier) Kind() Kind           { return KindImportNamespaceSpecifier }

// ImportNamedSpecifier is `imported` or `imported as local`. Local is nil
// when no alias was written.
type ImportNamedSpecifier struct {
	base
	Imported *Identifier
	Local    *Identifier
}

func (s *ImportNamedSpecifier) importSpecifierNode() {}
func (s *ImportNamedSpecifier) Kind() Kind           { return KindImportNamedSpecifier }

type FunctionDeclaration struct {
	base
	ID         *Identifier
	Parameters []*Parameter
	Body       Expression
}

func (d *FunctionDeclaration) statementNode() {}
func (d *FunctionDeclaration) Kind() Kind     { return KindFunctionDeclaration }

// Parameter is a type parameter. Constraint and Default may be nil.
type Parameter struct {
	base
	ID         *Identifier
	Constraint Expression
	Default    Expression
}

func (p *Parameter) Kind() Kind { return KindParameter }

// Expressions

type Identifier struct {
	base
	Name string
}

func (i *Identifier) expressionNode()  {}
func (i *Identifier) propertyKeyNode() {}
func (i *Identifier) Kind() Kind       { return KindIdentifier }

// Literal is a string, number, boolean or null literal. Value holds the
// decoded value (string, float64, *big.Int, bool or nil) and Raw the exact
// source text, which is what gets emitted.
type Literal struct {
	base
	Value any
	Raw   string
}

func (l *Literal) expressionNode() {}
func (l *Literal) Kind() Kind      { return KindLiteral }

// TemplateLiteralExpression holds len(Expressions)+1 quasis when produced by
// the parser.
type TemplateLiteralExpression struct {
	base
	Quasis      []*TemplateElement
	Expressions []Expression
}

func (t *TemplateLiteralExpression) expressionNode() {}
func (t *TemplateLiteralExpression) Kind() Kind      { return KindTemplateLiteralExpression }

type TemplateElement struct {
	base
	Value string
	Raw   string
}

func (t *TemplateElement) Kind() Kind { return KindTemplateElement }

type TupleExpression struct {
	base
	Elements []Expression
}

func (t *TupleExpression) expressionNode() {}
func (t *TupleExpression) Kind() Kind      { return KindTupleExpression }

type RestElement struct {
	base
	Expression Expression
}

func (r *RestElement) expressionNode() {}
func (r *RestElement) Kind() Kind      { return KindRestElement }

// ArrayExpression is the `T[]` suffix form.
type ArrayExpression struct {
	base
	Element Expression
}

func (a *ArrayExpression) expressionNode() {}
func (a *ArrayExpression) Kind() Kind      { return KindArrayExpression }

type IntersectionExpression struct {
	base
	Types []Expression
}

func (i *IntersectionExpression) expressionNode() {}
func (i *IntersectionExpression) Kind() Kind      { return KindIntersectionExpression }

type UnionExpression struct {
	base
	Types []Expression
}

func (u *UnionExpression) expressionNode() {}
func (u *UnionExpression) Kind() Kind      { return KindUnionExpression }

type ObjectExpression struct {
	base
	Properties []*ObjectExpressionProperty
}

func (o *ObjectExpression) expressionNode() {}
func (o *ObjectExpression) Kind() Kind      { return KindObjectExpression }

type ObjectExpressionProperty struct {
	base
	Key      PropertyKey
	Value    Expression
	Optional bool
}

func (p *ObjectExpressionProperty) Kind() Kind { return KindObjectExpressionProperty }

// IndexedPropertyKey is the `[id: Expression]` key form.
type IndexedPropertyKey struct {
	base
	ID         *Identifier
	Expression Expression
}

func (k *IndexedPropertyKey) propertyKeyNode() {}
func (k *IndexedPropertyKey) Kind() Kind       { return KindIndexedPropertyKey }

type NamespaceAccessExpression struct {
	base
	Namespace *Identifier
	Key       *Identifier
}

func (n *NamespaceAccessExpression) expressionNode() {}
func (n *NamespaceAccessExpression) Kind() Kind      { return KindNamespaceAccessExpression }

type CallExpression struct {
	base
	Callee    Expression
	Arguments []Expression
}

func (c *CallExpression) expressionNode() {}
func (c *CallExpression) Kind() Kind      { return KindCallExpression }

// PipelineExpression is `Source |> Transformer`, where Transformer is an
// Identifier or a CallExpression.
type PipelineExpression struct {
	base
	Source      Expression
	Transformer Expression
}

func (p *PipelineExpression) expressionNode() {}
func (p *PipelineExpression) Kind() Kind      { return KindPipelineExpression }

type IndexedAccessExpression struct {
	base
	Object Expression
	Index  Expression
}

func (i *IndexedAccessExpression) expressionNode() {}
func (i *IndexedAccessExpression) Kind() Kind      { return KindIndexedAccessExpression }

type ParenthesizedExpression struct {
	base
	Expression Expression
}

func (p *ParenthesizedExpression) expressionNode() {}
func (p *ParenthesizedExpression) Kind() Kind      { return KindParenthesizedExpression }

type MacroCallExpression struct {
	base
	ID        *Identifier
	Arguments []Expression
}

func (m *MacroCallExpression) expressionNode() {}
func (m *MacroCallExpression) Kind() Kind      { return KindMacroCallExpression }

type SwitchExpression struct {
	base
	Expression Expression
	Arms       []*SwitchExpressionArm
}

func (s *SwitchExpression) expressionNode() {}
func (s *SwitchExpression) Kind() Kind      { return KindSwitchExpression }

type SwitchExpressionArm struct {
	base
	Pattern Expression
	Body    Expression
}

func (a *SwitchExpressionArm) Kind() Kind { return KindSwitchExpressionArm }

type IfExpression struct {
	base
	Conditions []*SubtypeRelation
	Consequent Expression
	Alternate  Expression
}

func (i *IfExpression) expressionNode() {}
func (i *IfExpression) Kind() Kind      { return KindIfExpression }

type RelationKind int

const (
	RelationExtends RelationKind = iota // `:`
	RelationEquals                      // `==`
)

func (k RelationKind) String() string {
	if k == RelationEquals {
		return "equals"
	}
	return "extends"
}

type SubtypeRelation struct {
	base
	Expression Expression
	Constraint Expression
	Relation   RelationKind
}

func (r *SubtypeRelation) Kind() Kind { return KindSubtypeRelation }

type ConstInExpression struct {
	base
	Bindings []*ConstInBinding
	Body     Expression
}

func (c *ConstInExpression) expressionNode() {}
func (c *ConstInExpression) Kind() Kind      { return KindConstInExpression }

type ConstInBinding struct {
	base
	ID         *Identifier
	Expression Expression
}

func (b *ConstInBinding) Kind() Kind { return KindConstInBinding }

// ForExpression is `for Each in Collection as Mapper { Body }`. Mapper may be
// nil.
type ForExpression struct {
	base
	Each       *Identifier
	Collection Expression
	Mapper     Expression
	Body       Expression
}

func (f *ForExpression) expressionNode() {}
func (f *ForExpression) Kind() Kind      { return KindForExpression }

// InferReference is `&name`, only produced inside patterns.
type InferReference struct {
	base
	ID *Identifier
}

func (i *InferReference) expressionNode() {}
func (i *InferReference) Kind() Kind      { return KindInferReference }

// TypeOperator is `Operator Expression` (for example `keyof T`). No syntax
// produces it yet; trees built by hand may use it.
type TypeOperator struct {
	base
	Operator   string
	Expression Expression
}

func (t *TypeOperator) expressionNode() {}
func (t *TypeOperator) Kind() Kind      { return KindTypeOperator }
