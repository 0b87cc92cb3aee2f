package sqlexpr

import "fmt"

// ParseError represents a parsing error with position information.
type ParseError struct {
	Pos     Position
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}

// LexError represents a lexical analysis error.
type LexError struct {
	Pos     Position
	Message string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lexer error at line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}

// Common error messages
const (
	ErrUnexpectedToken     = "unexpected token %s, expected %s"
	ErrUnexpectedInExpr    = "unexpected token in expression: %s"
	ErrTrailingInput       = "unexpected %s after end of expression"
	ErrUnterminatedString  = "unterminated string literal"
	ErrUnterminatedIdent   = "unterminated quoted identifier"
	ErrIllegalCharacter    = "illegal character %q"
	ErrEmptyExpression     = "empty expression"
	ErrExpectedIsOperand   = "expected NULL, TRUE, or FALSE after IS"
	ErrExpectedMembership  = "expected IN, BETWEEN, LIKE, or ILIKE after NOT"
	ErrExpectedTypeName    = "expected a type name in CAST"
	ErrCaseWithoutBranches = "CASE requires at least one WHEN branch"
)
