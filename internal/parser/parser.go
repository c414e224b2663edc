package parser

import (
	"errors"
	"math/big"
	"strconv"
	"strings"

	"github.com/g-plane/TypeCake/pkg/ast"
)

// Parser is a single-use recursive-descent parser over a Lexer. It is not
// safe for concurrent use; create one Parser per input.
type Parser struct {
	l     *Lexer
	input string

	curToken  Token
	lastToken Token

	// patternDepth is non-zero while parsing a switch arm pattern or an if
	// constraint, where `&name` is an infer reference.
	patternDepth int

	used bool
}

func New(l *Lexer) *Parser {
	return &Parser{l: l, input: l.Input()}
}

// Parse parses input into a Program.
func Parse(input string) (*ast.Program, error) {
	return New(NewLexer(input)).ParseProgram()
}

// ParseProgram parses the whole input. On failure it returns a *SyntaxError
// and no tree.
func (p *Parser) ParseProgram() (program *ast.Program, err error) {
	if p.used {
		return nil, ErrParserUsed
	}
	p.used = true

	defer func() {
		if r := recover(); r != nil {
			se, ok := r.(*SyntaxError)
			if !ok {
				panic(r)
			}
			program, err = nil, se
		}
	}()

	p.nextToken()
	return p.parseProgram(), nil
}

func (p *Parser) nextToken() {
	p.lastToken = p.curToken
	p.curToken = p.l.NextToken()
	if p.curToken.Type == TokenIllegal {
		p.raise(p.curToken, p.curToken.Value)
	}
}

func (p *Parser) raise(tok Token, message string) {
	panic(&SyntaxError{
		Message:   message,
		Token:     tok,
		LastToken: p.lastToken,
		Input:     p.input,
	})
}

func (p *Parser) unexpected() {
	p.raise(p.curToken, "Unexpected token.")
}

func (p *Parser) is(t TokenType, value ...string) bool {
	if p.curToken.Type != t {
		return false
	}
	return len(value) == 0 || p.curToken.Value == value[0]
}

func (p *Parser) eat(t TokenType, value ...string) bool {
	if p.is(t, value...) {
		p.nextToken()
		return true
	}
	return false
}

func (p *Parser) expect(t TokenType, value ...string) Token {
	if !p.is(t, value...) {
		p.unexpected()
	}
	tok := p.curToken
	p.nextToken()
	return tok
}

// adjacentPeek reports whether the token right after the current one has
// type t and starts exactly where the current one ends.
func (p *Parser) adjacentPeek(t TokenType) bool {
	next := p.l.Peek()
	return next.Type == t && next.Start == p.curToken.End
}

func (p *Parser) inPattern() bool {
	return p.patternDepth > 0
}

// parsePattern runs fn with pattern mode on. The deferred decrement keeps the
// depth correct when fn raises.
func (p *Parser) parsePattern(fn func() ast.Expression) ast.Expression {
	p.patternDepth++
	defer func() { p.patternDepth-- }()
	return fn()
}

type marker struct {
	start int
	pos   ast.Position
}

func (p *Parser) startNode() marker {
	return marker{start: p.curToken.Start, pos: p.curToken.Loc.Start}
}

func (p *Parser) startNodeFromNode(n ast.Node) marker {
	span := n.Span()
	return marker{start: span.Start, pos: span.Loc.Start}
}

// finishNode closes n at the end of the last consumed token.
func finishNode[N ast.Node](p *Parser, n N, m marker) N {
	n.SetSpan(ast.Span{
		Start: m.start,
		End:   p.lastToken.End,
		Loc: ast.SourceLocation{
			Start: m.pos,
			End:   p.lastToken.Loc.End,
		},
	})
	return n
}

// semicolon ends a statement: an explicit `;`, the end of input or a line
// break before the next token.
func (p *Parser) semicolon() {
	if p.eat(TokenSemi) || p.eat(TokenEOF) {
		return
	}
	if p.curToken.Loc.Start.Line <= p.lastToken.Loc.End.Line {
		p.raise(p.curToken, "Expect a semicolon.")
	}
}

func (p *Parser) parseProgram() *ast.Program {
	m := p.startNode()
	program := &ast.Program{Statements: []ast.Statement{}}
	for !p.eat(TokenEOF) {
		if p.eat(TokenSemi) {
			continue
		}
		program.Statements = append(program.Statements, p.parseStatement())
		p.semicolon()
	}
	return finishNode(p, program, m)
}

func (p *Parser) parseStatement() ast.Statement {
	if p.is(TokenName) {
		switch p.curToken.Value {
		case "fn":
			return p.parseFunctionDeclaration()
		case "from":
			return p.parseImportDeclaration()
		}
	}
	p.raise(p.curToken, "Unexpected token, expected a declaration.")
	return nil
}

// Statements

func (p *Parser) parseImportDeclaration() *ast.ImportDeclaration {
	m := p.startNode()
	p.expect(TokenName, "from")
	source := p.parseLiteral(TokenString)
	p.expect(TokenImport)

	var specifiers []ast.ImportSpecifier
	switch p.curToken.Type {
	case TokenStar:
		specifiers = append(specifiers, p.parseImportNamespaceSpecifier())
	case TokenBraceL:
		specifiers = append(specifiers, p.parseImportNamedSpecifiers()...)
	case TokenName:
		specifiers = append(specifiers, p.parseImportDefaultSpecifier())
		if p.eat(TokenComma) {
			if p.is(TokenStar) {
				specifiers = append(specifiers, p.parseImportNamespaceSpecifier())
			} else {
				specifiers = append(specifiers, p.parseImportNamedSpecifiers()...)
			}
		}
	default:
		p.unexpected()
	}

	return finishNode(p, &ast.ImportDeclaration{Specifiers: specifiers, Source: source}, m)
}

func (p *Parser) parseImportDefaultSpecifier() *ast.ImportDefaultSpecifier {
	m := p.startNode()
	local := p.parseIdentifier()
	return finishNode(p, &ast.ImportDefaultSpecifier{Local: local}, m)
}

func (p *Parser) parseImportNamespaceSpecifier() *ast.ImportNamespaceSpecifier {
	m := p.startNode()
	p.expect(TokenStar)
	p.expect(TokenName, "as")
	local := p.parseIdentifier()
	return finishNode(p, &ast.ImportNamespaceSpecifier{Local: local}, m)
}

func (p *Parser) parseImportNamedSpecifiers() []ast.ImportSpecifier {
	p.expect(TokenBraceL)
	var specifiers []ast.ImportSpecifier
	for !p.eat(TokenBraceR) {
		m := p.startNode()
		spec := &ast.ImportNamedSpecifier{Imported: p.parseIdentifier()}
		if p.eat(TokenName, "as") {
			spec.Local = p.parseIdentifier()
		}
		specifiers = append(specifiers, finishNode(p, spec, m))
		if !p.is(TokenBraceR) {
			p.expect(TokenComma)
		}
	}
	return specifiers
}

func (p *Parser) parseFunctionDeclaration() *ast.FunctionDeclaration {
	m := p.startNode()
	p.expect(TokenName, "fn")
	id := p.parseIdentifier()
	p.expect(TokenParenL)
	params := p.parseParameters()
	p.expect(TokenEq)
	body := p.parseExpression()

	return finishNode(p, &ast.FunctionDeclaration{ID: id, Parameters: params, Body: body}, m)
}

func (p *Parser) parseParameters() []*ast.Parameter {
	var params []*ast.Parameter
	for !p.eat(TokenParenR) {
		params = append(params, p.parseParameter())
		if !p.is(TokenParenR) {
			p.expect(TokenComma)
		}
	}
	return params
}

func (p *Parser) parseParameter() *ast.Parameter {
	m := p.startNode()
	param := &ast.Parameter{ID: p.parseIdentifier()}
	if p.eat(TokenColon) {
		param.Constraint = p.parseExpression()
	}
	if p.eat(TokenEq) {
		param.Default = p.parseExpression()
	}
	return finishNode(p, param, m)
}

// Expressions, loosest binding first.

func (p *Parser) parseExpression() ast.Expression {
	return p.parseUnion()
}

// atUnionSeparator reports a `|` that is not the start of `|>`.
func (p *Parser) atUnionSeparator() bool {
	return p.is(TokenPipe) && !p.adjacentPeek(TokenGt)
}

func (p *Parser) parseUnion() ast.Expression {
	m := p.startNode()
	first := p.parseIntersection()
	if !p.atUnionSeparator() {
		return first
	}
	types := []ast.Expression{first}
	for p.atUnionSeparator() {
		p.nextToken()
		types = append(types, p.parseIntersection())
	}
	return finishNode(p, &ast.UnionExpression{Types: types}, m)
}

// atIntersectionSeparator reports a `&` joining two types. Inside a pattern,
// `&` touching a name (`&a`) is an infer reference instead; `& a` stays an
// intersection.
func (p *Parser) atIntersectionSeparator() bool {
	if !p.is(TokenAmp) {
		return false
	}
	return !p.inPattern() || !p.adjacentPeek(TokenName)
}

func (p *Parser) parseIntersection() ast.Expression {
	m := p.startNode()
	first := p.parsePostfix()
	if !p.atIntersectionSeparator() {
		return first
	}
	types := []ast.Expression{first}
	for p.atIntersectionSeparator() {
		p.nextToken()
		types = append(types, p.parsePostfix())
	}
	return finishNode(p, &ast.IntersectionExpression{Types: types}, m)
}

func (p *Parser) parsePostfix() ast.Expression {
	switch p.curToken.Type {
	case TokenSwitch:
		return p.parseSwitchExpression()
	case TokenIf:
		return p.parseIfExpression()
	case TokenConst:
		return p.parseConstInExpression()
	case TokenFor:
		return p.parseForExpression()
	}
	return p.parseSubscripts(p.parseAtom())
}

func (p *Parser) parseSubscripts(base ast.Expression) ast.Expression {
	for {
		switch {
		case p.is(TokenParenL):
			id, ok := base.(*ast.Identifier)
			if !ok {
				return base
			}
			base = p.parseCallExpression(id)
		case p.is(TokenDot):
			id, ok := base.(*ast.Identifier)
			if !ok {
				return base
			}
			base = p.parseNamespaceAccessExpression(id)
		case p.is(TokenBracketL):
			m := p.startNodeFromNode(base)
			p.nextToken()
			if p.eat(TokenBracketR) {
				base = finishNode(p, &ast.ArrayExpression{Element: base}, m)
			} else {
				index := p.parseExpression()
				p.expect(TokenBracketR)
				base = finishNode(p, &ast.IndexedAccessExpression{Object: base, Index: index}, m)
			}
		case p.is(TokenPipe) && p.adjacentPeek(TokenGt):
			base = p.parsePipelineExpression(base)
		default:
			return base
		}
	}
}

func (p *Parser) parseAtom() ast.Expression {
	switch p.curToken.Type {
	case TokenName:
		id := p.parseIdentifier()
		if p.is(TokenBang) {
			return p.parseMacroCallExpression(id)
		}
		return id
	case TokenString, TokenNum, TokenTrue, TokenFalse, TokenNull:
		return p.parseLiteral(p.curToken.Type)
	case TokenBracketL:
		return p.parseTupleExpression()
	case TokenBraceL:
		return p.parseObjectExpression()
	case TokenBackQuote:
		return p.parseTemplateLiteralExpression()
	case TokenParenL:
		m := p.startNode()
		p.nextToken()
		expr := p.parseExpression()
		p.expect(TokenParenR)
		return finishNode(p, &ast.ParenthesizedExpression{Expression: expr}, m)
	case TokenAmp:
		if !p.inPattern() {
			p.raise(p.curToken, "Inferring type is only allowed in patterns.")
		}
		return p.parseInferReference()
	}
	p.unexpected()
	return nil
}

func (p *Parser) isLiteral() bool {
	switch p.curToken.Type {
	case TokenString, TokenNum, TokenTrue, TokenFalse, TokenNull:
		return true
	}
	return false
}

func (p *Parser) parseIdentifier() *ast.Identifier {
	m := p.startNode()
	name := p.expect(TokenName).Value
	return finishNode(p, &ast.Identifier{Name: name}, m)
}

// parsePropertyName is parseIdentifier that also accepts reserved words.
func (p *Parser) parsePropertyName() *ast.Identifier {
	if !p.curToken.Type.IsKeyword() {
		return p.parseIdentifier()
	}
	m := p.startNode()
	name := p.curToken.Value
	p.nextToken()
	return finishNode(p, &ast.Identifier{Name: name}, m)
}

func (p *Parser) parseLiteral(t TokenType) *ast.Literal {
	if !p.is(t) {
		p.unexpected()
	}
	m := p.startNode()
	tok := p.curToken
	lit := &ast.Literal{Raw: p.input[tok.Start:tok.End]}
	switch tok.Type {
	case TokenString:
		lit.Value = tok.Value
	case TokenNum:
		v, ok := numberValue(tok.Raw)
		if !ok {
			p.raise(tok, "Invalid number.")
		}
		lit.Value = v
	case TokenTrue:
		lit.Value = true
	case TokenFalse:
		lit.Value = false
	case TokenNull:
		lit.Value = nil
	}
	p.nextToken()
	return finishNode(p, lit, m)
}

// numberValue decodes a numeric literal into a float64, or a *big.Int for
// bigint literals.
func numberValue(raw string) (any, bool) {
	if digits, ok := strings.CutSuffix(raw, "n"); ok {
		v, ok := new(big.Int).SetString(digits, 0)
		return v, ok
	}
	if len(raw) > 1 && raw[0] == '0' && strings.ContainsRune("xXoObB", rune(raw[1])) {
		if v, err := strconv.ParseUint(raw, 0, 64); err == nil {
			return float64(v), true
		}
		// wider than 64 bits: round through big.Float, +Inf past float64
		v, ok := new(big.Int).SetString(raw, 0)
		if !ok {
			return nil, false
		}
		f, _ := new(big.Float).SetInt(v).Float64()
		return f, true
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(raw, "_", ""), 64)
	if errors.Is(err, strconv.ErrRange) {
		return v, true
	}
	return v, err == nil
}

func (p *Parser) parseTemplateLiteralExpression() *ast.TemplateLiteralExpression {
	m := p.startNode()
	p.expect(TokenBackQuote)
	tmpl := &ast.TemplateLiteralExpression{}
	for !p.eat(TokenBackQuote) {
		if p.is(TokenTemplate) {
			tmpl.Quasis = append(tmpl.Quasis, p.parseTemplateElement())
			continue
		}
		p.expect(TokenDollarBraceL)
		tmpl.Expressions = append(tmpl.Expressions, p.parseExpression())
		p.expect(TokenBraceR)
	}
	return finishNode(p, tmpl, m)
}

func (p *Parser) parseTemplateElement() *ast.TemplateElement {
	m := p.startNode()
	tok := p.curToken
	p.nextToken()
	return finishNode(p, &ast.TemplateElement{Value: tok.Value, Raw: tok.Raw}, m)
}

func (p *Parser) parseTupleExpression() *ast.TupleExpression {
	m := p.startNode()
	p.expect(TokenBracketL)
	tuple := &ast.TupleExpression{Elements: []ast.Expression{}}
	for !p.eat(TokenBracketR) {
		if p.is(TokenEllipsis) {
			tuple.Elements = append(tuple.Elements, p.parseRestElement())
		} else {
			tuple.Elements = append(tuple.Elements, p.parseExpression())
		}
		if !p.is(TokenBracketR) {
			p.expect(TokenComma)
		}
	}
	return finishNode(p, tuple, m)
}

func (p *Parser) parseRestElement() *ast.RestElement {
	m := p.startNode()
	p.expect(TokenEllipsis)
	expr := p.parseExpression()
	return finishNode(p, &ast.RestElement{Expression: expr}, m)
}

func (p *Parser) parseObjectExpression() *ast.ObjectExpression {
	m := p.startNode()
	p.expect(TokenBraceL)
	obj := &ast.ObjectExpression{Properties: []*ast.ObjectExpressionProperty{}}
	for !p.eat(TokenBraceR) {
		obj.Properties = append(obj.Properties, p.parseObjectExpressionProperty())
		if !p.is(TokenBraceR) {
			p.expect(TokenComma)
		}
	}
	return finishNode(p, obj, m)
}

func (p *Parser) parseObjectExpressionProperty() *ast.ObjectExpressionProperty {
	m := p.startNode()
	prop := &ast.ObjectExpressionProperty{}
	if p.is(TokenBracketL) {
		prop.Key = p.parseIndexedPropertyKey()
	} else {
		prop.Key = p.parsePropertyName()
	}
	prop.Optional = p.eat(TokenQuestion)
	p.expect(TokenColon)
	prop.Value = p.parseExpression()
	return finishNode(p, prop, m)
}

func (p *Parser) parseIndexedPropertyKey() *ast.IndexedPropertyKey {
	m := p.startNode()
	p.expect(TokenBracketL)
	key := &ast.IndexedPropertyKey{ID: p.parseIdentifier()}
	p.expect(TokenColon)
	switch {
	case p.is(TokenName):
		key.Expression = p.parseIdentifier()
	case p.isLiteral():
		key.Expression = p.parseLiteral(p.curToken.Type)
	default:
		p.unexpected()
	}
	p.expect(TokenBracketR)
	return finishNode(p, key, m)
}

func (p *Parser) parseNamespaceAccessExpression(namespace *ast.Identifier) *ast.NamespaceAccessExpression {
	m := p.startNodeFromNode(namespace)
	p.expect(TokenDot)
	key := p.parseIdentifier()
	return finishNode(p, &ast.NamespaceAccessExpression{Namespace: namespace, Key: key}, m)
}

func (p *Parser) parseCallExpression(callee ast.Expression) *ast.CallExpression {
	m := p.startNodeFromNode(callee)
	args := p.parseArguments()
	return finishNode(p, &ast.CallExpression{Callee: callee, Arguments: args}, m)
}

func (p *Parser) parseMacroCallExpression(id *ast.Identifier) *ast.MacroCallExpression {
	m := p.startNodeFromNode(id)
	p.expect(TokenBang)
	args := p.parseArguments()
	return finishNode(p, &ast.MacroCallExpression{ID: id, Arguments: args}, m)
}

func (p *Parser) parseArguments() []ast.Expression {
	p.expect(TokenParenL)
	args := []ast.Expression{}
	for !p.eat(TokenParenR) {
		args = append(args, p.parseExpression())
		if !p.is(TokenParenR) {
			p.expect(TokenComma)
		}
	}
	return args
}

func (p *Parser) parsePipelineExpression(source ast.Expression) *ast.PipelineExpression {
	m := p.startNodeFromNode(source)
	p.expect(TokenPipe)
	p.expect(TokenGt)
	var transformer ast.Expression = p.parseIdentifier()
	if p.is(TokenParenL) {
		transformer = p.parseCallExpression(transformer)
	}
	return finishNode(p, &ast.PipelineExpression{Source: source, Transformer: transformer}, m)
}

func (p *Parser) parseInferReference() *ast.InferReference {
	m := p.startNode()
	p.expect(TokenAmp)
	id := p.parseIdentifier()
	return finishNode(p, &ast.InferReference{ID: id}, m)
}

func (p *Parser) parseSwitchExpression() *ast.SwitchExpression {
	m := p.startNode()
	p.expect(TokenSwitch)
	sw := &ast.SwitchExpression{Expression: p.parseExpression()}
	p.expect(TokenBraceL)
	for !p.is(TokenBraceR) {
		sw.Arms = append(sw.Arms, p.parseSwitchExpressionArm())
		if !p.is(TokenBraceR) {
			p.expect(TokenComma)
		}
	}
	if len(sw.Arms) == 0 {
		p.raise(p.curToken, "A switch expression requires at least one arm.")
	}
	p.expect(TokenBraceR)
	return finishNode(p, sw, m)
}

func (p *Parser) parseSwitchExpressionArm() *ast.SwitchExpressionArm {
	m := p.startNode()
	arm := &ast.SwitchExpressionArm{Pattern: p.parsePattern(p.parseExpression)}
	p.expect(TokenMinus)
	p.expect(TokenGt)
	arm.Body = p.parseExpression()
	return finishNode(p, arm, m)
}

func (p *Parser) parseIfExpression() *ast.IfExpression {
	m := p.startNode()
	p.expect(TokenIf)
	expr := &ast.IfExpression{}
	for {
		expr.Conditions = append(expr.Conditions, p.parseSubtypeRelation())
		if !p.eat(TokenLogicalAnd) {
			break
		}
	}

	p.expect(TokenBraceL)
	expr.Consequent = p.parseExpression()
	p.expect(TokenBraceR)

	p.expect(TokenElse)
	if p.is(TokenIf) {
		expr.Alternate = p.parseIfExpression()
	} else {
		p.expect(TokenBraceL)
		expr.Alternate = p.parseExpression()
		p.expect(TokenBraceR)
	}
	return finishNode(p, expr, m)
}

func (p *Parser) parseSubtypeRelation() *ast.SubtypeRelation {
	m := p.startNode()
	rel := &ast.SubtypeRelation{Expression: p.parseExpression()}
	switch {
	case p.eat(TokenColon):
		rel.Relation = ast.RelationExtends
	case p.eat(TokenEquality):
		rel.Relation = ast.RelationEquals
	default:
		p.unexpected()
	}
	rel.Constraint = p.parsePattern(p.parseExpression)
	return finishNode(p, rel, m)
}

func (p *Parser) parseConstInExpression() *ast.ConstInExpression {
	m := p.startNode()
	p.expect(TokenConst)
	expr := &ast.ConstInExpression{}
	for {
		expr.Bindings = append(expr.Bindings, p.parseConstInBinding())
		if p.eat(TokenIn) {
			break
		}
		p.expect(TokenComma)
	}
	expr.Body = p.parseExpression()
	return finishNode(p, expr, m)
}

func (p *Parser) parseConstInBinding() *ast.ConstInBinding {
	m := p.startNode()
	binding := &ast.ConstInBinding{ID: p.parseIdentifier()}
	p.expect(TokenEq)
	binding.Expression = p.parseExpression()
	return finishNode(p, binding, m)
}

func (p *Parser) parseForExpression() *ast.ForExpression {
	m := p.startNode()
	p.expect(TokenFor)
	expr := &ast.ForExpression{Each: p.parseIdentifier()}
	p.expect(TokenIn)
	expr.Collection = p.parseExpression()
	if p.eat(TokenName, "as") {
		expr.Mapper = p.parseExpression()
	}
	p.expect(TokenBraceL)
	expr.Body = p.parseExpression()
	p.expect(TokenBraceR)
	return finishNode(p, expr, m)
}
