package ast

// Visitor is a pair of callbacks for one node kind. Either may be nil.
// Enter runs before the node's children are visited and Exit after.
type Visitor struct {
	Enter func(Node)
	Exit  func(Node)
}

// Visitors maps a node kind to its callbacks. Kinds without an entry are
// still descended into.
type Visitors map[Kind]Visitor

// Enter builds a Visitor whose Enter callback receives the concrete node type.
func Enter[N Node](fn func(N)) Visitor {
	return Visitor{Enter: func(n Node) { fn(n.(N)) }}
}

// Exit builds a Visitor whose Exit callback receives the concrete node type.
func Exit[N Node](fn func(N)) Visitor {
	return Visitor{Exit: func(n Node) { fn(n.(N)) }}
}

// Traverse walks node depth-first, visiting children left to right in field
// order. Callbacks may change fields of the node they receive; replacing or
// removing nodes during the walk is not supported.
func Traverse(node Node, visitors Visitors) {
	t := traverser{visitors: visitors}
	t.visit(node)
}

type traverser struct {
	visitors Visitors
}

func (t traverser) visit(node Node) {
	v, ok := t.visitors[node.Kind()]
	if ok && v.Enter != nil {
		v.Enter(node)
	}
	t.children(node)
	if ok && v.Exit != nil {
		v.Exit(node)
	}
}

func (t traverser) list(nodes []Expression) {
	for _, n := range nodes {
		t.visit(n)
	}
}

func (t traverser) optional(node Expression) {
	if node != nil {
		t.visit(node)
	}
}

func (t traverser) children(node Node) {
	switch n := node.(type) {
	case *Program:
		for _, stmt := range n.Statements {
			t.visit(stmt)
		}
	case *ImportDeclaration:
		t.visit(n.Source)
		for _, spec := range n.Specifiers {
			t.visit(spec)
		}
	case *ImportDefaultSpecifier:
		t.visit(n.Local)
	case *ImportNamespaceSpecifier:
		t.visit(n.Local)
	case *ImportNamedSpecifier:
		t.visit(n.Imported)
		if n.Local != nil {
			t.visit(n.Local)
		}
	case *FunctionDeclaration:
		t.visit(n.ID)
		for _, param := range n.Parameters {
			t.visit(param)
		}
		t.visit(n.Body)
	case *Parameter:
		t.visit(n.ID)
		t.optional(n.Constraint)
		t.optional(n.Default)
	case *Identifier, *Literal, *TemplateElement:
	case *TemplateLiteralExpression:
		for i, quasi := range n.Quasis {
			t.visit(quasi)
			if i < len(n.Expressions) {
				t.visit(n.Expressions[i])
			}
		}
	case *TupleExpression:
		t.list(n.Elements)
	case *RestElement:
		t.visit(n.Expression)
	case *ArrayExpression:
		t.visit(n.Element)
	case *IntersectionExpression:
		t.list(n.Types)
	case *UnionExpression:
		t.list(n.Types)
	case *ObjectExpression:
		for _, prop := range n.Properties {
			t.visit(prop)
		}
	case *ObjectExpressionProperty:
		t.visit(n.Key)
		t.visit(n.Value)
	case *IndexedPropertyKey:
		t.visit(n.ID)
		t.visit(n.Expression)
	case *NamespaceAccessExpression:
		t.visit(n.Namespace)
		t.visit(n.Key)
	case *CallExpression:
		t.visit(n.Callee)
		t.list(n.Arguments)
	case *PipelineExpression:
		t.visit(n.Source)
		t.visit(n.Transformer)
	case *IndexedAccessExpression:
		t.visit(n.Object)
		t.visit(n.Index)
	case *ParenthesizedExpression:
		t.visit(n.Expression)
	case *MacroCallExpression:
		t.visit(n.ID)
		t.list(n.Arguments)
	case *SwitchExpression:
		t.visit(n.Expression)
		for _, arm := range n.Arms {
			t.visit(arm)
		}
	case *SwitchExpressionArm:
		t.visit(n.Pattern)
		t.visit(n.Body)
	case *IfExpression:
		for _, cond := range n.Conditions {
			t.visit(cond)
		}
		t.visit(n.Consequent)
		t.visit(n.Alternate)
	case *SubtypeRelation:
		t.visit(n.Expression)
		t.visit(n.Constraint)
	case *ConstInExpression:
		for _, binding := range n.Bindings {
			t.visit(binding)
		}
		t.visit(n.Body)
	case *ConstInBinding:
		t.visit(n.ID)
		t.visit(n.Expression)
	case *ForExpression:
		t.visit(n.Each)
		t.visit(n.Collection)
		t.optional(n.Mapper)
		t.visit(n.Body)
	case *InferReference:
		t.visit(n.ID)
	case *TypeOperator:
		t.visit(n.Expression)
	}
}
