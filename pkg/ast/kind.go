package ast

// Kind is the discriminant tag of a node.
type Kind int

const (
	KindInvalid Kind = iota
	KindProgram
	KindImportDeclaration
	KindImportDefaultSpecifier
	KindImportNamespaceSpecifier
	KindImportNamedSpecifier
	KindFunctionDeclaration
	KindParameter
	KindIdentifier
	KindLiteral
	KindTemplateLiteralExpression
	KindTemplateElement
	KindTupleExpression
	KindRestElement
	KindArrayExpression
	KindIntersectionExpression
	KindUnionExpression
	KindObjectExpression
	KindObjectExpressionProperty
	KindIndexedPropertyKey
	KindNamespaceAccessExpression
	KindCallExpression
	KindPipelineExpression
	KindIndexedAccessExpression
	KindParenthesizedExpression
	KindMacroCallExpression
	KindSwitchExpression
	KindSwitchExpressionArm
	KindIfExpression
	KindSubtypeRelation
	KindConstInExpression
	KindConstInBinding
	KindForExpression
	KindInferReference
	KindTypeOperator
)

var kindNames = [...]string{
	KindInvalid:                   "Invalid",
	KindProgram:                   "Program",
	KindImportDeclaration:         "ImportDeclaration",
	KindImportDefaultSpecifier:    "ImportDefaultSpecifier",
	KindImportNamespaceSpecifier:  "ImportNamespaceSpecifier",
	KindImportNamedSpecifier:      "ImportNamedSpecifier",
	KindFunctionDeclaration:       "FunctionDeclaration",
	KindParameter:                 "Parameter",
	KindIdentifier:                "Identifier",
	KindLiteral:                   "Literal",
	KindTemplateLiteralExpression: "TemplateLiteralExpression",
	KindTemplateElement:           "TemplateElement",
	KindTupleExpression:           "TupleExpression",
	KindRestElement:               "RestElement",
	KindArrayExpression:           "ArrayExpression",
	KindIntersectionExpression:    "IntersectionExpression",
	KindUnionExpression:           "UnionExpression",
	KindObjectExpression:          "ObjectExpression",
	KindObjectExpressionProperty:  "ObjectExpressionProperty",
	KindIndexedPropertyKey:        "IndexedPropertyKey",
	KindNamespaceAccessExpression: "NamespaceAccessExpression",
	KindCallExpression:            "CallExpression",
	KindPipelineExpression:        "PipelineExpression",
	KindIndexedAccessExpression:   "IndexedAccessExpression",
	KindParenthesizedExpression:   "ParenthesizedExpression",
	KindMacroCallExpression:       "MacroCallExpression",
	KindSwitchExpression:          "SwitchExpression",
	KindSwitchExpressionArm:       "SwitchExpressionArm",
	KindIfExpression:              "IfExpression",
	KindSubtypeRelation:           "SubtypeRelation",
	KindConstInExpression:         "ConstInExpression",
	KindConstInBinding:            "ConstInBinding",
	KindForExpression:             "ForExpression",
	KindInferReference:            "InferReference",
	KindTypeOperator:              "TypeOperator",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "Invalid"
	}
	return kindNames[k]
}
