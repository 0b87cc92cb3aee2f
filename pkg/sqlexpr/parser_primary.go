package sqlexpr

import (
	"fmt"
	"strings"

	"github.com/mapd/vlcompile/pkg/token"
)

// Atomic expression parsing: literals, column refs, function calls,
// parentheses, CASE and CAST.

// parseAtomic parses the tightest-binding productions.
func (p *Parser) parseAtomic() Expr {
	if p.failed() {
		return nil
	}

	start := p.token.Pos
	switch p.token.Type {
	case token.NUMBER:
		return p.constant(ConstantNumber, p.token.Literal)
	case token.STRING:
		return p.constant(ConstantString, p.token.Literal)
	case token.TRUE:
		return p.constant(ConstantBool, "true")
	case token.FALSE:
		return p.constant(ConstantBool, "false")
	case token.NULL:
		return p.constant(ConstantNull, "null")

	case token.MINUS, token.PLUS:
		op := p.token.Type
		p.nextToken()
		operand := p.parseAtomic()
		if operand == nil {
			return nil
		}
		return &PrefixExpression{NodeInfo: NodeInfo{Span: p.span(start)}, Op: op, Expr: operand}

	case token.LPAREN:
		p.nextToken()
		inner := p.parseDisjunction()
		if inner == nil || !p.expect(token.RPAREN) {
			return nil
		}
		return &ParenthesesExpression{NodeInfo: NodeInfo{Span: p.span(start)}, Expr: inner}

	case token.CASE:
		return p.parseCase()

	case token.CAST:
		return p.parseCast()

	case token.IDENT:
		if p.checkPeek(token.LPAREN) {
			return p.parseFunction()
		}
		return p.parseColumn()

	case token.QIDENT:
		return p.parseColumn()

	case token.ILLEGAL:
		// already reported by nextToken
		return nil

	default:
		p.addError(fmt.Sprintf(ErrUnexpectedInExpr, describe(p.token)))
		return nil
	}
}

// constant consumes the current token as a literal.
func (p *Parser) constant(kind ConstantKind, value string) Expr {
	start := p.token.Pos
	p.nextToken()
	return &ConstantExpression{NodeInfo: NodeInfo{Span: p.span(start)}, Kind: kind, Value: value}
}

// parseColumn parses column or table.column.
func (p *Parser) parseColumn() Expr {
	start := p.token.Pos
	col := &ColumnExpression{
		Column:       p.token.Literal,
		ColumnQuoted: p.check(token.QIDENT),
	}
	p.nextToken()

	if p.match(token.DOT) {
		if !p.check(token.IDENT) && !p.check(token.QIDENT) {
			p.addError(fmt.Sprintf(ErrUnexpectedToken, describe(p.token), token.IDENT))
			return nil
		}
		col.Table, col.TableQuoted = col.Column, col.ColumnQuoted
		col.Column, col.ColumnQuoted = p.token.Literal, p.check(token.QIDENT)
		p.nextToken()
	}

	col.Span = p.span(start)
	return col
}

// parseFunction parses name "(" [ "*" | [DISTINCT] args [ORDER BY ...] ] ")".
func (p *Parser) parseFunction() Expr {
	start := p.token.Pos
	fn := &FunctionExpression{Name: p.token.Literal}
	p.nextToken() // name
	p.nextToken() // (

	switch {
	case p.check(token.STAR):
		p.nextToken()
		fn.Star = true
	case p.check(token.RPAREN):
	default:
		fn.Distinct = p.match(token.DISTINCT)
		fn.Params = p.parseExpressionList()
		if fn.Params == nil {
			return nil
		}
		if p.checkWord("order") && p.peek.Type == token.IDENT && strings.EqualFold(p.peek.Literal, "by") {
			fn.OrderBy = p.parseOrderBy()
			if fn.OrderBy == nil {
				return nil
			}
		}
	}
	if !p.expect(token.RPAREN) {
		return nil
	}
	fn.Span = p.span(start)
	return fn
}

// parseOrderBy parses ORDER BY item { "," item }.
func (p *Parser) parseOrderBy() *OrderBy {
	start := p.token.Pos
	p.nextToken() // ORDER
	p.nextToken() // BY

	ob := &OrderBy{}
	for {
		item := p.parseOrderByItem()
		if item == nil {
			return nil
		}
		ob.Items = append(ob.Items, item)
		if !p.match(token.COMMA) {
			break
		}
	}
	ob.Span = p.span(start)
	return ob
}

// parseOrderByItem parses expr [ASC|DESC] [NULLS FIRST|LAST].
func (p *Parser) parseOrderByItem() *OrderByExpression {
	start := p.token.Pos
	e := p.parseDisjunction()
	if e == nil {
		return nil
	}
	item := &OrderByExpression{Expr: e}
	if p.matchWord("desc") {
		item.Desc = true
	} else {
		p.matchWord("asc")
	}
	if p.matchWord("nulls") {
		switch {
		case p.matchWord("first"):
			first := true
			item.NullsFirst = &first
		case p.matchWord("last"):
			first := false
			item.NullsFirst = &first
		default:
			p.addError(fmt.Sprintf(ErrUnexpectedToken, describe(p.token), "FIRST or LAST"))
			return nil
		}
	}
	item.Span = p.span(start)
	return item
}

// parseCase parses CASE [operand] WHEN ... THEN ... [ELSE ...] END.
func (p *Parser) parseCase() Expr {
	start := p.token.Pos
	p.nextToken() // CASE

	c := &CaseExpression{}
	if !p.check(token.WHEN) {
		c.Operand = p.parseDisjunction()
		if c.Operand == nil {
			return nil
		}
	}

	for p.match(token.WHEN) {
		cond := p.parseDisjunction()
		if cond == nil || !p.expect(token.THEN) {
			return nil
		}
		result := p.parseDisjunction()
		if result == nil {
			return nil
		}
		c.Whens = append(c.Whens, WhenClause{Condition: cond, Result: result})
	}
	if len(c.Whens) == 0 {
		p.addError(ErrCaseWithoutBranches)
		return nil
	}

	if p.match(token.ELSE) {
		c.Else = p.parseDisjunction()
		if c.Else == nil {
			return nil
		}
	}

	if !p.expect(token.END) {
		return nil
	}
	c.Span = p.span(start)
	return c
}

// parseCast parses CAST "(" expr AS type_name ")". The type name is kept
// verbatim, e.g. "DECIMAL(10, 2)" or "DOUBLE PRECISION".
func (p *Parser) parseCast() Expr {
	start := p.token.Pos
	p.nextToken() // CAST
	if !p.expect(token.LPAREN) {
		return nil
	}
	inner := p.parseDisjunction()
	if inner == nil || !p.expect(token.AS) {
		return nil
	}

	typeName := p.parseTypeName()
	if typeName == "" || !p.expect(token.RPAREN) {
		return nil
	}
	return &CastExpression{NodeInfo: NodeInfo{Span: p.span(start)}, Expr: inner, TypeName: typeName}
}

// parseTypeName parses one or more identifier words with an optional
// "(" NUMBER { "," NUMBER } ")" modifier.
func (p *Parser) parseTypeName() string {
	var words []string
	for p.check(token.IDENT) || p.check(token.QIDENT) {
		words = append(words, p.token.Literal)
		p.nextToken()
	}
	if len(words) == 0 {
		p.addError(ErrExpectedTypeName)
		return ""
	}

	name := strings.Join(words, " ")
	if !p.check(token.LPAREN) {
		return name
	}
	p.nextToken()

	var args []string
	for {
		if !p.check(token.NUMBER) {
			p.addError(fmt.Sprintf(ErrUnexpectedToken, describe(p.token), token.NUMBER))
			return ""
		}
		args = append(args, p.token.Literal)
		p.nextToken()
		if !p.match(token.COMMA) {
			break
		}
	}
	if !p.expect(token.RPAREN) {
		return ""
	}
	return name + "(" + strings.Join(args, ", ") + ")"
}
