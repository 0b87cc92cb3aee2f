package sqlexpr

import (
	"fmt"
	"strings"

	"github.com/mapd/vlcompile/pkg/token"
)

// Parser parses a scalar SQL expression into an AST.
type Parser struct {
	lexer   *Lexer
	token   Token    // current token
	peek    Token    // lookahead token
	prevEnd Position // end of the last consumed token
	errors  []error
}

// NewParser creates a new parser for the given expression.
func NewParser(sql string) *Parser {
	p := &Parser{
		lexer: NewLexer(sql),
	}
	// Read two tokens to initialize current and peek
	p.nextToken()
	p.nextToken()
	return p
}

// Parse parses sql as a single scalar expression. The whole input must be
// consumed; trailing tokens are an error.
func Parse(sql string) (Expr, error) {
	p := NewParser(sql)
	expr := p.ParseExpression()
	if len(p.errors) > 0 {
		return nil, p.errors[0]
	}
	return expr, nil
}

// ParseExpression parses one expression followed by end of input.
func (p *Parser) ParseExpression() Expr {
	if p.check(token.EOF) {
		p.addError(ErrEmptyExpression)
		return nil
	}
	expr := p.parseDisjunction()
	if p.failed() {
		return nil
	}
	if !p.check(token.EOF) {
		p.addError(fmt.Sprintf(ErrTrailingInput, describe(p.token)))
		return nil
	}
	return expr
}

// Errors returns the errors collected while parsing.
func (p *Parser) Errors() []error {
	return p.errors
}

// ---------- Token Helpers ----------

// nextToken advances to the next token.
func (p *Parser) nextToken() {
	p.prevEnd = p.token.EndPos
	p.token = p.peek
	p.peek = p.lexer.NextToken()
	if p.token.Type == token.ILLEGAL {
		p.addLexError()
	}
}

// check returns true if the current token is of the given type.
func (p *Parser) check(t token.TokenType) bool {
	return p.token.Type == t
}

// checkPeek returns true if the peek token is of the given type.
func (p *Parser) checkPeek(t token.TokenType) bool {
	return p.peek.Type == t
}

// match consumes the current token if it matches and returns true.
func (p *Parser) match(t token.TokenType) bool {
	if p.check(t) {
		p.nextToken()
		return true
	}
	return false
}

// checkWord reports whether the current token is the unreserved word w.
// ORDER BY modifiers are matched this way so they stay usable as column
// names everywhere else.
func (p *Parser) checkWord(w string) bool {
	return p.token.Type == token.IDENT && strings.EqualFold(p.token.Literal, w)
}

// matchWord consumes the current token if it is the unreserved word w.
func (p *Parser) matchWord(w string) bool {
	if p.checkWord(w) {
		p.nextToken()
		return true
	}
	return false
}

// expect consumes the current token if it matches, otherwise adds an error.
func (p *Parser) expect(t token.TokenType) bool {
	if p.check(t) {
		p.nextToken()
		return true
	}
	p.addError(fmt.Sprintf(ErrUnexpectedToken, describe(p.token), t))
	return false
}

// failed reports whether any error has been recorded.
func (p *Parser) failed() bool {
	return len(p.errors) > 0
}

// addError adds a parse error at the current token.
func (p *Parser) addError(msg string) {
	p.errors = append(p.errors, &ParseError{
		Pos:     p.token.Pos,
		Message: msg,
	})
}

// addLexError surfaces the lexer error behind an ILLEGAL token.
func (p *Parser) addLexError() {
	for _, err := range p.lexer.Errors() {
		if le, ok := err.(*LexError); ok && le.Pos == p.token.Pos {
			p.errors = append(p.errors, le)
			return
		}
	}
	p.addError(p.token.Literal)
}

// span returns the span from start to the end of the last consumed token.
func (p *Parser) span(start Position) token.Span {
	return token.Span{Start: start, End: p.prevEnd}
}

// describe renders a token for error messages.
func describe(tok Token) string {
	switch tok.Type {
	case token.IDENT, token.NUMBER:
		return fmt.Sprintf("%s %q", tok.Type, tok.Literal)
	default:
		return tok.Type.String()
	}
}
