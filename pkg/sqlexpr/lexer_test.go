package sqlexpr_test

import (
	"testing"

	"github.com/mapd/vlcompile/pkg/sqlexpr"
	"github.com/mapd/vlcompile/pkg/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLexerTokenTypes(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []token.TokenType
	}{
		{
			name:  "arithmetic",
			input: "a + b*2 - c/d % 3 ^ 2",
			want: []token.TokenType{
				token.IDENT, token.PLUS, token.IDENT, token.STAR, token.NUMBER, token.MINUS,
				token.IDENT, token.SLASH, token.IDENT, token.PERCENT, token.NUMBER, token.CARET,
				token.NUMBER, token.EOF,
			},
		},
		{
			name:  "comparisons",
			input: "= <> != < <= > >=",
			want: []token.TokenType{
				token.EQ, token.NE, token.NE, token.LT, token.LE, token.GT, token.GE, token.EOF,
			},
		},
		{
			name:  "keywords are case insensitive",
			input: "Case WHEN x Then y else z END",
			want: []token.TokenType{
				token.CASE, token.WHEN, token.IDENT, token.THEN, token.IDENT, token.ELSE,
				token.IDENT, token.END, token.EOF,
			},
		},
		{
			name:  "qualified column and concat",
			input: `fact.name || "Dim"."x"`,
			want: []token.TokenType{
				token.IDENT, token.DOT, token.IDENT, token.DPIPE, token.QIDENT, token.DOT,
				token.QIDENT, token.EOF,
			},
		},
		{
			name:  "comments are skipped",
			input: "a -- trailing\n+ /* block\ncomment */ b",
			want:  []token.TokenType{token.IDENT, token.PLUS, token.IDENT, token.EOF},
		},
		{
			name:  "empty input",
			input: "   ",
			want:  []token.TokenType{token.EOF},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tokenTypes(sqlexpr.Tokenize(tt.input)))
		})
	}
}

func TestLexerLiterals(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		typ     token.TokenType
		literal string
	}{
		{"integer", "42", token.NUMBER, "42"},
		{"decimal", "3.25", token.NUMBER, "3.25"},
		{"leading dot", ".5", token.NUMBER, ".5"},
		{"trailing dot", "5.", token.NUMBER, "5."},
		{"exponent", "1.5e10", token.NUMBER, "1.5e10"},
		{"signed exponent", "2E-3", token.NUMBER, "2E-3"},
		{"string", "'hello'", token.STRING, "hello"},
		{"escaped quote", "'it''s'", token.STRING, "it's"},
		{"continued across newline", "'abc'\n   'def'", token.STRING, "abcdef"},
		{"quoted identifier", `"my""col"`, token.QIDENT, `my"col`},
		{"identifier keeps case", "Amount_2", token.IDENT, "Amount_2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := sqlexpr.Tokenize(tt.input)
			require.Len(t, tokens, 2, "expected one token plus EOF")
			assert.Equal(t, tt.typ, tokens[0].Type)
			assert.Equal(t, tt.literal, tokens[0].Literal)
		})
	}
}

func TestLexerExponentNeedsDigits(t *testing.T) {
	tokens := sqlexpr.Tokenize("1e")
	assert.Equal(t, []token.TokenType{token.NUMBER, token.IDENT, token.EOF}, tokenTypes(tokens))
	assert.Equal(t, "1", tokens[0].Literal)
}

func TestLexerAdjacentStringsOnOneLine(t *testing.T) {
	tokens := sqlexpr.Tokenize("'a' 'b'")
	assert.Equal(t, []token.TokenType{token.STRING, token.STRING, token.EOF}, tokenTypes(tokens))
}

func TestLexerPositions(t *testing.T) {
	tokens := sqlexpr.Tokenize("a +\n  bc")
	require.Len(t, tokens, 4)

	assert.Equal(t, token.Position{Line: 1, Column: 1, Offset: 0}, tokens[0].Pos)
	assert.Equal(t, token.Position{Line: 1, Column: 2, Offset: 1}, tokens[0].EndPos)
	assert.Equal(t, token.Position{Line: 1, Column: 3, Offset: 2}, tokens[1].Pos)
	assert.Equal(t, token.Position{Line: 2, Column: 3, Offset: 6}, tokens[2].Pos)
	assert.Equal(t, 8, tokens[2].EndPos.Offset)
}

func TestLexerErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		msg   string
	}{
		{"unterminated string", "'abc", sqlexpr.ErrUnterminatedString},
		{"unterminated identifier", `"abc`, sqlexpr.ErrUnterminatedIdent},
		{"stray bang", "a ! b", "illegal character '!'"},
		{"single pipe", "a | b", "illegal character '|'"},
		{"cast operator", "a::int", "illegal character ':'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := sqlexpr.NewLexer(tt.input)
			var sawIllegal bool
			for {
				tok := l.NextToken()
				if tok.Type == token.ILLEGAL {
					sawIllegal = true
				}
				if tok.Type == token.EOF {
					break
				}
			}
			assert.True(t, sawIllegal)
			require.NotEmpty(t, l.Errors())
			assert.Contains(t, l.Errors()[0].Error(), tt.msg)
		})
	}
}
