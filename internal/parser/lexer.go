package parser

import (
	"fmt"
	"slices"
	"strings"
	"unicode"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/g-plane/TypeCake/pkg/ast"
)

type lexContext int

const (
	ctxBrace    lexContext = iota // inside { }
	ctxHole                       // inside ${ } of a template
	ctxQuasi                      // inside a template, a chunk is due
	ctxQuasiEnd                   // inside a template, chunk done
)

// Lexer splits TypeCake source into tokens. Lines and columns are 1-based and
// columns count runes.
type Lexer struct {
	input string
	pos   int
	line  int
	col   int

	start    int
	startPos ast.Position

	stack []lexContext
}

func NewLexer(input string) *Lexer {
	return &Lexer{input: input, line: 1, col: 1}
}

// Input returns the source text being tokenized.
func (l *Lexer) Input() string {
	return l.input
}

// Peek returns the next token without consuming it.
func (l *Lexer) Peek() Token {
	saved := *l
	saved.stack = slices.Clone(l.stack)
	tok := l.NextToken()
	*l = saved
	return tok
}

func (l *Lexer) NextToken() Token {
	if n := len(l.stack); n > 0 {
		switch l.stack[n-1] {
		case ctxQuasi:
			return l.lexTemplateChunk()
		case ctxQuasiEnd:
			return l.lexTemplateEnd()
		}
	}

	if tok, ok := l.skipWhitespace(); !ok {
		return tok
	}

	l.mark()
	if l.pos >= len(l.input) {
		return l.emit(TokenEOF)
	}

	r := l.peek()
	switch {
	case isLetter(r):
		return l.lexName()
	case isDigit(r) || (r == '.' && isDigit(l.peekAt(1))):
		return l.lexNumber()
	case r == '\'' || r == '"':
		return l.lexString(r)
	}

	l.next()
	switch r {
	case '`':
		l.push(ctxQuasi)
		return l.emit(TokenBackQuote)
	case '{':
		l.push(ctxBrace)
		return l.emit(TokenBraceL)
	case '}':
		l.pop()
		return l.emit(TokenBraceR)
	case '[':
		return l.emit(TokenBracketL)
	case ']':
		return l.emit(TokenBracketR)
	case '(':
		return l.emit(TokenParenL)
	case ')':
		return l.emit(TokenParenR)
	case ',':
		return l.emit(TokenComma)
	case ';':
		return l.emit(TokenSemi)
	case ':':
		return l.emit(TokenColon)
	case '?':
		return l.emit(TokenQuestion)
	case '*':
		return l.emit(TokenStar)
	case '>':
		return l.emit(TokenGt)
	case '-':
		return l.emit(TokenMinus)
	case '!':
		return l.emit(TokenBang)
	case '.':
		if l.peek() == '.' && l.peekAt(1) == '.' {
			l.next()
			l.next()
			return l.emit(TokenEllipsis)
		}
		return l.emit(TokenDot)
	case '=':
		if l.peek() == '=' {
			l.next()
			return l.emit(TokenEquality)
		}
		return l.emit(TokenEq)
	case '&':
		if l.peek() == '&' {
			l.next()
			return l.emit(TokenLogicalAnd)
		}
		return l.emit(TokenAmp)
	case '|':
		if l.peek() == '|' {
			l.next()
			return l.emit(TokenLogicalOr)
		}
		return l.emit(TokenPipe)
	}
	return l.illegal(fmt.Sprintf("Unexpected character %q.", r))
}

func (l *Lexer) next() rune {
	if l.pos >= len(l.input) {
		return 0
	}
	r, size := utf8.DecodeRuneInString(l.input[l.pos:])
	l.pos += size
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return r
}

func (l *Lexer) peek() rune {
	return l.peekAt(0)
}

// peekAt returns the rune n runes ahead of the cursor, or 0 past the end.
func (l *Lexer) peekAt(n int) rune {
	pos := l.pos
	for ; n > 0 && pos < len(l.input); n-- {
		_, size := utf8.DecodeRuneInString(l.input[pos:])
		pos += size
	}
	if pos >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[pos:])
	return r
}

func (l *Lexer) hasPrefix(s string) bool {
	return strings.HasPrefix(l.input[l.pos:], s)
}

func (l *Lexer) mark() {
	l.start = l.pos
	l.startPos = ast.Position{Line: l.line, Column: l.col}
}

func (l *Lexer) emit(t TokenType) Token {
	raw := l.input[l.start:l.pos]
	return Token{
		Type:  t,
		Value: raw,
		Raw:   raw,
		Start: l.start,
		End:   l.pos,
		Loc: ast.SourceLocation{
			Start: l.startPos,
			End:   ast.Position{Line: l.line, Column: l.col},
		},
	}
}

func (l *Lexer) illegal(msg string) Token {
	tok := l.emit(TokenIllegal)
	tok.Value = msg
	return tok
}

func (l *Lexer) push(ctx lexContext) {
	l.stack = append(l.stack, ctx)
}

func (l *Lexer) pop() {
	if len(l.stack) > 0 {
		l.stack = l.stack[:len(l.stack)-1]
	}
}

func (l *Lexer) replaceTop(ctx lexContext) {
	l.stack[len(l.stack)-1] = ctx
}

// skipWhitespace skips spaces and comments. It reports false along with an
// illegal token when a block comment is never closed.
func (l *Lexer) skipWhitespace() (Token, bool) {
	for l.pos < len(l.input) {
		switch r := l.peek(); {
		case unicode.IsSpace(r):
			l.next()
		case l.hasPrefix("//"):
			for l.pos < len(l.input) && l.peek() != '\n' {
				l.next()
			}
		case l.hasPrefix("/*"):
			l.mark()
			end := strings.Index(l.input[l.pos+2:], "*/")
			if end < 0 {
				for l.pos < len(l.input) {
					l.next()
				}
				return l.illegal("Unterminated comment."), false
			}
			for target := l.pos + 2 + end + 2; l.pos < target; {
				l.next()
			}
		default:
			return Token{}, true
		}
	}
	return Token{}, true
}

func (l *Lexer) lexName() Token {
	for isLetter(l.peek()) || isDigit(l.peek()) {
		l.next()
	}
	if kw, ok := keywords[l.input[l.start:l.pos]]; ok {
		return l.emit(kw)
	}
	return l.emit(TokenName)
}

func (l *Lexer) lexNumber() Token {
	if l.peek() == '0' && strings.ContainsRune("xXoObB", l.peekAt(1)) {
		l.next()
		l.next()
		digits := 0
		for isHexDigit(l.peek()) || l.peek() == '_' {
			l.next()
			digits++
		}
		if digits == 0 {
			return l.illegal("Invalid number.")
		}
	} else {
		l.skipDigits()
		if l.peek() == '.' && l.peekAt(1) != '.' {
			l.next()
			l.skipDigits()
		}
		if r := l.peek(); r == 'e' || r == 'E' {
			l.next()
			if r := l.peek(); r == '+' || r == '-' {
				l.next()
			}
			if !isDigit(l.peek()) {
				return l.illegal("Invalid number.")
			}
			l.skipDigits()
		}
	}
	if l.peek() == 'n' {
		l.next()
	}
	if isLetter(l.peek()) {
		return l.illegal("Identifier directly after number.")
	}
	return l.emit(TokenNum)
}

func (l *Lexer) skipDigits() {
	for isDigit(l.peek()) || l.peek() == '_' {
		l.next()
	}
}

func (l *Lexer) lexString(quote rune) Token {
	l.next() // opening quote
	var sb strings.Builder
	for {
		if l.pos >= len(l.input) {
			return l.illegal("Unterminated string constant.")
		}
		switch r := l.peek(); r {
		case quote:
			l.next()
			tok := l.emit(TokenString)
			tok.Value = sb.String()
			return tok
		case '\n':
			return l.illegal("Unterminated string constant.")
		case '\\':
			l.next()
			s, msg := l.readEscape()
			if msg != "" {
				return l.illegal(msg)
			}
			sb.WriteString(s)
		default:
			l.next()
			sb.WriteRune(r)
		}
	}
}

func (l *Lexer) lexTemplateChunk() Token {
	l.mark()
	var sb strings.Builder
	for {
		if l.pos >= len(l.input) {
			return l.illegal("Unterminated template.")
		}
		if l.peek() == '`' || l.hasPrefix("${") {
			break
		}
		if r := l.next(); r == '\\' {
			s, msg := l.readEscape()
			if msg != "" {
				return l.illegal(msg)
			}
			sb.WriteString(s)
		} else {
			sb.WriteRune(r)
		}
	}
	l.replaceTop(ctxQuasiEnd)
	tok := l.emit(TokenTemplate)
	tok.Value = sb.String()
	return tok
}

func (l *Lexer) lexTemplateEnd() Token {
	l.mark()
	switch {
	case l.peek() == '`':
		l.next()
		l.pop()
		return l.emit(TokenBackQuote)
	case l.hasPrefix("${"):
		l.next()
		l.next()
		l.replaceTop(ctxQuasi)
		l.push(ctxHole)
		return l.emit(TokenDollarBraceL)
	}
	return l.illegal("Unterminated template.")
}

// readEscape decodes the escape sequence after a backslash. A non-empty
// second result is an error message.
func (l *Lexer) readEscape() (string, string) {
	if l.pos >= len(l.input) {
		return "", "Unterminated string constant."
	}
	switch r := l.next(); r {
	case 'n':
		return "\n", ""
	case 't':
		return "\t", ""
	case 'r':
		return "\r", ""
	case 'b':
		return "\b", ""
	case 'f':
		return "\f", ""
	case 'v':
		return "\v", ""
	case '0':
		if isDigit(l.peek()) {
			return "", "Octal escape sequences are not allowed."
		}
		return "\x00", ""
	case 'x':
		v, ok := l.readHex(2)
		if !ok {
			return "", "Bad character escape sequence."
		}
		return string(v), ""
	case 'u':
		v, ok := l.readUnicodeEscape()
		if !ok {
			return "", "Bad character escape sequence."
		}
		if utf16.IsSurrogate(v) && l.hasPrefix(`\u`) {
			saved := *l
			l.next()
			l.next()
			if lo, ok := l.readUnicodeEscape(); ok {
				if combined := utf16.DecodeRune(v, lo); combined != utf8.RuneError {
					return string(combined), ""
				}
			}
			*l = saved
		}
		return string(v), ""
	case '\r':
		if l.peek() == '\n' {
			l.next()
		}
		return "", ""
	case '\n', '\u2028', '\u2029':
		return "", ""
	default:
		return string(r), ""
	}
}

func (l *Lexer) readUnicodeEscape() (rune, bool) {
	if l.peek() != '{' {
		return l.readHex(4)
	}
	l.next()
	var v rune
	digits := 0
	for l.peek() != '}' {
		d, ok := hexValue(l.peek())
		if !ok {
			return 0, false
		}
		l.next()
		v = v*16 + d
		digits++
		if v > unicode.MaxRune {
			return 0, false
		}
	}
	l.next()
	return v, digits > 0
}

func (l *Lexer) readHex(n int) (rune, bool) {
	var v rune
	for i := 0; i < n; i++ {
		d, ok := hexValue(l.peek())
		if !ok {
			return 0, false
		}
		l.next()
		v = v*16 + d
	}
	return v, true
}

func isLetter(r rune) bool {
	return unicode.IsLetter(r) || r == '_' || r == '$'
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isHexDigit(r rune) bool {
	_, ok := hexValue(r)
	return ok
}

func hexValue(r rune) (rune, bool) {
	switch {
	case r >= '0' && r <= '9':
		return r - '0', true
	case r >= 'a' && r <= 'f':
		return r - 'a' + 10, true
	case r >= 'A' && r <= 'F':
		return r - 'A' + 10, true
	}
	return 0, false
}
