// Package token defines the token types of the scalar SQL expression grammar
// accepted for custom color and measure expressions.
package token

import "fmt"

// TokenType represents the type of a lexical token.
//
//nolint:revive // Accept stutter as token.TokenType is clear and widely used
type TokenType int32

const (
	// Special tokens
	EOF TokenType = iota
	ILLEGAL

	// Literals
	IDENT  // foo, table_1
	QIDENT // "Quoted ""Name"""
	NUMBER // 123, 45.67, 1e10, .5
	STRING // 'hello'

	// Operators
	PLUS    // +
	MINUS   // -
	STAR    // *
	SLASH   // /
	PERCENT // %
	CARET   // ^
	DPIPE   // ||
	EQ      // =
	NE      // != or <>
	LT      // <
	GT      // >
	LE      // <=
	GE      // >=
	DOT     // .
	COMMA   // ,
	LPAREN  // (
	RPAREN  // )

	// Keywords (alphabetical)
	AND
	AS
	BETWEEN
	CASE
	CAST
	DISTINCT
	ELSE
	END
	FALSE
	ILIKE
	IN
	IS
	LIKE
	NOT
	NULL
	OR
	THEN
	TRUE
	WHEN
)

// String returns a human-readable representation of the token type.
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TOKEN(%d)", t)
}

var tokenNames = map[TokenType]string{
	EOF:     "EOF",
	ILLEGAL: "ILLEGAL",

	IDENT:  "IDENT",
	QIDENT: "QUOTED IDENT",
	NUMBER: "NUMBER",
	STRING: "STRING",

	PLUS:    "+",
	MINUS:   "-",
	STAR:    "*",
	SLASH:   "/",
	PERCENT: "%",
	CARET:   "^",
	DPIPE:   "||",
	EQ:      "=",
	NE:      "!=",
	LT:      "<",
	GT:      ">",
	LE:      "<=",
	GE:      ">=",
	DOT:     ".",
	COMMA:   ",",
	LPAREN:  "(",
	RPAREN:  ")",

	AND:      "AND",
	AS:       "AS",
	BETWEEN:  "BETWEEN",
	CASE:     "CASE",
	CAST:     "CAST",
	DISTINCT: "DISTINCT",
	ELSE:     "ELSE",
	END:      "END",
	FALSE:    "FALSE",
	ILIKE:    "ILIKE",
	IN:       "IN",
	IS:       "IS",
	LIKE:     "LIKE",
	NOT:      "NOT",
	NULL:     "NULL",
	OR:       "OR",
	THEN:     "THEN",
	TRUE:     "TRUE",
	WHEN:     "WHEN",
}

// keywords maps lowercase keyword strings to their token types.
var keywords = map[string]TokenType{
	"and":      AND,
	"as":       AS,
	"between":  BETWEEN,
	"case":     CASE,
	"cast":     CAST,
	"distinct": DISTINCT,
	"else":     ELSE,
	"end":      END,
	"false":    FALSE,
	"ilike":    ILIKE,
	"in":       IN,
	"is":       IS,
	"like":     LIKE,
	"not":      NOT,
	"null":     NULL,
	"or":       OR,
	"then":     THEN,
	"true":     TRUE,
	"when":     WHEN,
}

// LookupIdent returns the keyword token type for a lowercase identifier,
// or IDENT when the identifier is not a keyword.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// IsKeyword returns true if the token type is a keyword.
func IsKeyword(t TokenType) bool {
	return t >= AND && t <= WHEN
}

// IsOperator returns true if the token type is an operator.
func IsOperator(t TokenType) bool {
	return t >= PLUS && t <= RPAREN
}

// Token represents a lexical token with position information.
// Literal holds the decoded value (quotes removed, escapes folded); Span
// covers the verbatim source text of the token.
type Token struct {
	Type    TokenType
	Literal string
	Pos     Position
	EndPos  Position
}

// Span returns the source range covered by the token.
func (t Token) Span() Span {
	return Span{Start: t.Pos, End: t.EndPos}
}
