package sqlexpr

import (
	"github.com/mapd/vlcompile/pkg/token"
)

// Operator levels, loosest first. Every level parses its operands with the
// next tighter level, so the call chain mirrors the grammar in doc.go.
// Each production returns nil once an error has been recorded.

// binary builds a BinaryExpression spanning both operands.
func binary(left Expr, op token.TokenType, not bool, right Expr) *BinaryExpression {
	return &BinaryExpression{
		NodeInfo: NodeInfo{Span: token.Span{Start: left.Pos(), End: right.End()}},
		Left:     left,
		Op:       op,
		Not:      not,
		Right:    right,
	}
}

// parseLeftAssoc parses operand { op operand } for the given operators.
func (p *Parser) parseLeftAssoc(operand func() Expr, ops ...token.TokenType) Expr {
	left := operand()
	if left == nil {
		return nil
	}
	for {
		op, ok := p.matchOperator(ops)
		if !ok {
			return left
		}
		right := operand()
		if right == nil {
			return nil
		}
		left = binary(left, op, false, right)
	}
}

// matchOperator consumes the current token if it is one of ops.
func (p *Parser) matchOperator(ops []token.TokenType) (token.TokenType, bool) {
	for _, op := range ops {
		if p.check(op) {
			p.nextToken()
			return op, true
		}
	}
	return token.ILLEGAL, false
}

// parseDisjunction parses OR chains.
func (p *Parser) parseDisjunction() Expr {
	return p.parseLeftAssoc(p.parseConjunction, token.OR)
}

// parseConjunction parses AND chains.
func (p *Parser) parseConjunction() Expr {
	return p.parseLeftAssoc(p.parseNegation, token.AND)
}

// parseNegation parses NOT prefixes.
func (p *Parser) parseNegation() Expr {
	if !p.check(token.NOT) {
		return p.parseIsTest()
	}
	start := p.token.Pos
	p.nextToken()
	operand := p.parseNegation()
	if operand == nil {
		return nil
	}
	return &PrefixExpression{NodeInfo: NodeInfo{Span: p.span(start)}, Op: token.NOT, Expr: operand}
}

// parseIsTest parses IS [NOT] NULL / TRUE / FALSE suffixes.
func (p *Parser) parseIsTest() Expr {
	left := p.parseComparison()
	for left != nil && p.match(token.IS) {
		not := p.match(token.NOT)
		switch p.token.Type {
		case token.NULL, token.TRUE, token.FALSE:
			value := p.token.Type
			p.nextToken()
			left = &IsExpression{
				NodeInfo: NodeInfo{Span: p.span(left.Pos())},
				Expr:     left,
				Not:      not,
				Value:    value,
			}
		default:
			p.addError(ErrExpectedIsOperand)
			return nil
		}
	}
	return left
}

// parseComparison parses = <> != < <= > >= chains.
func (p *Parser) parseComparison() Expr {
	return p.parseLeftAssoc(p.parseMembership,
		token.EQ, token.NE, token.LT, token.LE, token.GT, token.GE)
}

// parseMembership parses BETWEEN, IN and LIKE/ILIKE suffixes.
func (p *Parser) parseMembership() Expr {
	left := p.parseAdditive()
	for left != nil {
		not := false
		if p.check(token.NOT) {
			switch p.peek.Type {
			case token.BETWEEN, token.IN, token.LIKE, token.ILIKE:
				p.nextToken()
				not = true
			default:
				// NOT belongs to an enclosing production (or is an error there).
				return left
			}
		}

		switch p.token.Type {
		case token.BETWEEN:
			p.nextToken()
			left = p.parseBetween(left, not)
		case token.IN:
			p.nextToken()
			left = p.parseIn(left, not)
		case token.LIKE, token.ILIKE:
			op := p.token.Type
			p.nextToken()
			pattern := p.parseAdditive()
			if pattern == nil {
				return nil
			}
			left = binary(left, op, not, pattern)
		default:
			if not {
				p.addError(ErrExpectedMembership)
				return nil
			}
			return left
		}
	}
	return nil
}

// parseBetween parses the bounds of a BETWEEN. Bounds are additive
// expressions so the separating AND is not taken as a conjunction.
func (p *Parser) parseBetween(left Expr, not bool) Expr {
	low := p.parseAdditive()
	if low == nil || !p.expect(token.AND) {
		return nil
	}
	high := p.parseAdditive()
	if high == nil {
		return nil
	}
	return &BetweenExpression{
		NodeInfo: NodeInfo{Span: p.span(left.Pos())},
		Expr:     left,
		Not:      not,
		Low:      low,
		High:     high,
	}
}

// parseIn parses the parenthesized value list of an IN.
func (p *Parser) parseIn(left Expr, not bool) Expr {
	if !p.expect(token.LPAREN) {
		return nil
	}
	values := p.parseExpressionList()
	if values == nil || !p.expect(token.RPAREN) {
		return nil
	}
	return &InExpression{
		NodeInfo: NodeInfo{Span: p.span(left.Pos())},
		Expr:     left,
		Not:      not,
		Values:   values,
	}
}

// parseAdditive parses + - || chains.
func (p *Parser) parseAdditive() Expr {
	return p.parseLeftAssoc(p.parseMultiplicative, token.PLUS, token.MINUS, token.DPIPE)
}

// parseMultiplicative parses * / % chains.
func (p *Parser) parseMultiplicative() Expr {
	return p.parseLeftAssoc(p.parseExponent, token.STAR, token.SLASH, token.PERCENT)
}

// parseExponent parses ^ chains.
func (p *Parser) parseExponent() Expr {
	return p.parseLeftAssoc(p.parseAtomic, token.CARET)
}

// parseExpressionList parses expr { "," expr }.
func (p *Parser) parseExpressionList() []Expr {
	var exprs []Expr
	for {
		e := p.parseDisjunction()
		if e == nil {
			return nil
		}
		exprs = append(exprs, e)
		if !p.match(token.COMMA) {
			return exprs
		}
	}
}
