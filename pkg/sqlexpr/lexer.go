package sqlexpr

import (
	"fmt"
	"strings"

	"github.com/mapd/vlcompile/pkg/token"
)

// Token is an alias for token.Token.
type Token = token.Token

// Lexer tokenizes a scalar SQL expression.
type Lexer struct {
	input   string
	pos     int  // current position in input
	readPos int  // reading position (after current char)
	ch      byte // current char under examination
	line    int  // current line number (1-based)
	col     int  // current column number (1-based)

	// errors collected for ILLEGAL tokens, in order
	errors []error
}

// NewLexer creates a new Lexer for the given input.
func NewLexer(input string) *Lexer {
	l := &Lexer{
		input: input,
		line:  1,
		col:   0,
	}
	l.readChar()
	return l
}

// Errors returns the lexical errors encountered so far.
func (l *Lexer) Errors() []error {
	return l.errors
}

// readChar advances to the next character.
func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0 // ASCII NUL = EOF
	} else {
		l.ch = l.input[l.readPos]
	}
	if l.pos < len(l.input) && l.readPos > 0 && l.input[l.pos] == '\n' {
		l.line++
		l.col = 0
	}
	l.pos = l.readPos
	l.readPos++
	l.col++
}

// atEOF reports whether the whole input has been consumed.
func (l *Lexer) atEOF() bool {
	return l.pos >= len(l.input)
}

// peekChar returns the next character without advancing.
func (l *Lexer) peekChar() byte {
	if l.readPos >= len(l.input) {
		return 0
	}
	return l.input[l.readPos]
}

// currentPos returns the current position.
func (l *Lexer) currentPos() Position {
	return Position{
		Line:   l.line,
		Column: l.col,
		Offset: l.pos,
	}
}

// NextToken returns the next token.
func (l *Lexer) NextToken() Token {
	l.skipWhitespaceAndComments()

	pos := l.currentPos()
	if l.atEOF() {
		return Token{Type: token.EOF, Pos: pos, EndPos: pos}
	}

	switch l.ch {
	case '+':
		return l.single(token.PLUS, pos)
	case '-':
		return l.single(token.MINUS, pos)
	case '*':
		return l.single(token.STAR, pos)
	case '/':
		return l.single(token.SLASH, pos)
	case '%':
		return l.single(token.PERCENT, pos)
	case '^':
		return l.single(token.CARET, pos)
	case '=':
		return l.single(token.EQ, pos)
	case ',':
		return l.single(token.COMMA, pos)
	case '(':
		return l.single(token.LPAREN, pos)
	case ')':
		return l.single(token.RPAREN, pos)
	case '<':
		switch l.peekChar() {
		case '=':
			return l.double(token.LE, pos)
		case '>':
			return l.double(token.NE, pos)
		default:
			return l.single(token.LT, pos)
		}
	case '>':
		if l.peekChar() == '=' {
			return l.double(token.GE, pos)
		}
		return l.single(token.GT, pos)
	case '!':
		if l.peekChar() == '=' {
			return l.double(token.NE, pos)
		}
		return l.illegal(pos, fmt.Sprintf(ErrIllegalCharacter, l.ch))
	case '|':
		if l.peekChar() == '|' {
			return l.double(token.DPIPE, pos)
		}
		return l.illegal(pos, fmt.Sprintf(ErrIllegalCharacter, l.ch))
	case '.':
		if isDigit(l.peekChar()) {
			return l.finish(token.NUMBER, l.readNumber(), pos)
		}
		return l.single(token.DOT, pos)
	case '\'':
		s, ok := l.readString()
		if !ok {
			return l.illegal(pos, ErrUnterminatedString)
		}
		return l.finish(token.STRING, s, pos)
	case '"':
		s, ok := l.readQuotedIdentifier()
		if !ok {
			return l.illegal(pos, ErrUnterminatedIdent)
		}
		return l.finish(token.QIDENT, s, pos)
	}

	switch {
	case isLetter(l.ch) || l.ch == '_':
		ident := l.readIdentifier()
		return l.finish(token.LookupIdent(strings.ToLower(ident)), ident, pos)
	case isDigit(l.ch):
		return l.finish(token.NUMBER, l.readNumber(), pos)
	default:
		return l.illegal(pos, fmt.Sprintf(ErrIllegalCharacter, l.ch))
	}
}

// single consumes one character and returns a token of the given type.
func (l *Lexer) single(t token.TokenType, pos Position) Token {
	lit := string(l.ch)
	l.readChar()
	return l.finish(t, lit, pos)
}

// double consumes two characters and returns a token of the given type.
func (l *Lexer) double(t token.TokenType, pos Position) Token {
	lit := l.input[l.pos : l.pos+2]
	l.readChar()
	l.readChar()
	return l.finish(t, lit, pos)
}

// finish stamps the end position on a token whose text has been consumed.
func (l *Lexer) finish(t token.TokenType, lit string, pos Position) Token {
	return Token{Type: t, Literal: lit, Pos: pos, EndPos: l.currentPos()}
}

// illegal records a lexical error and returns an ILLEGAL token. The
// offending character is consumed so the lexer always makes progress.
func (l *Lexer) illegal(pos Position, msg string) Token {
	l.errors = append(l.errors, &LexError{Pos: pos, Message: msg})
	if !l.atEOF() && l.currentPos().Offset == pos.Offset {
		l.readChar()
	}
	return Token{Type: token.ILLEGAL, Literal: msg, Pos: pos, EndPos: l.currentPos()}
}

// skipWhitespaceAndComments skips whitespace, -- line comments and
// /* block */ comments.
func (l *Lexer) skipWhitespaceAndComments() {
	for {
		for !l.atEOF() && isSpace(l.ch) {
			l.readChar()
		}

		if l.ch == '-' && l.peekChar() == '-' {
			for !l.atEOF() && l.ch != '\n' {
				l.readChar()
			}
			continue
		}

		if l.ch == '/' && l.peekChar() == '*' {
			l.readChar() // skip '/'
			l.readChar() // skip '*'
			for !l.atEOF() {
				if l.ch == '*' && l.peekChar() == '/' {
					l.readChar()
					l.readChar()
					break
				}
				l.readChar()
			}
			continue
		}

		break
	}
}

// readString reads a single-quoted string literal. Doubled single quotes
// are an escape for a quote. A literal that is followed by whitespace
// containing a newline and then another literal continues into it.
func (l *Lexer) readString() (string, bool) {
	var result strings.Builder
	for {
		l.readChar() // skip opening quote
		closed := false
		for !l.atEOF() {
			if l.ch == '\'' {
				if l.peekChar() == '\'' {
					result.WriteByte('\'')
					l.readChar()
					l.readChar()
					continue
				}
				l.readChar() // skip closing quote
				closed = true
				break
			}
			result.WriteByte(l.ch)
			l.readChar()
		}
		if !closed {
			return "", false
		}

		next, ok := l.continuationQuote()
		if !ok {
			return result.String(), true
		}
		for l.pos < next {
			l.readChar()
		}
	}
}

// continuationQuote reports the offset of a string literal that continues
// the one just read, if any.
func (l *Lexer) continuationQuote() (int, bool) {
	sawNewline := false
	for i := l.pos; i < len(l.input); i++ {
		c := l.input[i]
		switch {
		case c == '\n':
			sawNewline = true
		case isSpace(c):
		case c == '\'':
			return i, sawNewline
		default:
			return 0, false
		}
	}
	return 0, false
}

// readQuotedIdentifier reads a double-quoted identifier.
// Doubled double quotes are an escape: "col""name" -> col"name
func (l *Lexer) readQuotedIdentifier() (string, bool) {
	l.readChar() // skip opening quote

	var result strings.Builder
	for !l.atEOF() {
		if l.ch == '"' {
			if l.peekChar() == '"' {
				result.WriteByte('"')
				l.readChar()
				l.readChar()
				continue
			}
			l.readChar() // skip closing quote
			return result.String(), true
		}
		result.WriteByte(l.ch)
		l.readChar()
	}
	return "", false
}

// readIdentifier reads an unquoted identifier.
func (l *Lexer) readIdentifier() string {
	start := l.pos
	for !l.atEOF() && (isLetter(l.ch) || isDigit(l.ch) || l.ch == '_') {
		l.readChar()
	}
	return l.input[start:l.pos]
}

// readNumber reads a numeric literal (integer, decimal, or scientific).
func (l *Lexer) readNumber() string {
	start := l.pos

	for isDigit(l.ch) {
		l.readChar()
	}

	if l.ch == '.' && (isDigit(l.peekChar()) || l.pos > start) {
		l.readChar() // skip '.'
		for isDigit(l.ch) {
			l.readChar()
		}
	}

	// Exponent only when digits follow (1e10, 1E-5); "1e" stays "1".
	if l.ch == 'e' || l.ch == 'E' {
		next := l.peekChar()
		signed := (next == '+' || next == '-') && l.readPos+1 < len(l.input) && isDigit(l.input[l.readPos+1])
		if isDigit(next) || signed {
			l.readChar() // skip 'e'
			if l.ch == '+' || l.ch == '-' {
				l.readChar()
			}
			for isDigit(l.ch) {
				l.readChar()
			}
		}
	}

	return l.input[start:l.pos]
}

// isLetter returns true if ch is an ASCII letter.
func isLetter(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

// isDigit returns true if ch is a digit.
func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' || ch == '\f' || ch == '\v'
}

// Tokenize returns all tokens from the input, ending with EOF.
func Tokenize(input string) []Token {
	l := NewLexer(input)
	var tokens []Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			break
		}
	}
	return tokens
}
