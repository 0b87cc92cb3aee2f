package sqlexpr

import (
	"github.com/mapd/vlcompile/pkg/token"
)

// Position is an alias for token.Position.
type Position = token.Position

// Node is the base interface for all AST nodes.
type Node interface {
	// Pos returns the position of the first character of the node.
	Pos() token.Position
	// End returns the position of the character immediately after the node.
	End() token.Position
}

// Expr is a marker interface for expression nodes.
type Expr interface {
	Node
	exprNode()
}

// NodeInfo records the source span of a node.
type NodeInfo struct {
	Span token.Span
}

// Pos implements Node.
func (n NodeInfo) Pos() token.Position { return n.Span.Start }

// End implements Node.
func (n NodeInfo) End() token.Position { return n.Span.End }

// Source returns the verbatim text of node within src.
func Source(src string, node Node) string {
	return token.Span{Start: node.Pos(), End: node.End()}.Text(src)
}

// BinaryExpression is an infix operation. LIKE and ILIKE are binary
// expressions whose Not flag records a leading NOT.
type BinaryExpression struct {
	NodeInfo
	Left  Expr
	Op    token.TokenType
	Not   bool
	Right Expr
}

func (*BinaryExpression) exprNode() {}

// ColumnExpression is a column reference, optionally qualified by a table.
// Table and Column hold unquoted names.
type ColumnExpression struct {
	NodeInfo
	Table        string
	Column       string
	TableQuoted  bool
	ColumnQuoted bool
}

func (*ColumnExpression) exprNode() {}

// Qualified reports whether the column carries a table qualifier.
func (c *ColumnExpression) Qualified() bool { return c.Table != "" || c.TableQuoted }

// ConstantKind identifies the type of a constant.
type ConstantKind int

// ConstantKind values.
const (
	ConstantNumber ConstantKind = iota
	ConstantString
	ConstantBool
	ConstantNull
)

// ConstantExpression is a literal value. Value holds the decoded literal.
type ConstantExpression struct {
	NodeInfo
	Kind  ConstantKind
	Value string
}

func (*ConstantExpression) exprNode() {}

// FunctionExpression is a function call such as avg(x), count(*) or
// string_agg(x, ',' ORDER BY y).
type FunctionExpression struct {
	NodeInfo
	Name     string
	Distinct bool
	Star     bool
	Params   []Expr
	OrderBy  *OrderBy
}

func (*FunctionExpression) exprNode() {}

// WhenClause is one WHEN ... THEN ... branch of a CASE expression.
type WhenClause struct {
	Condition Expr
	Result    Expr
}

// CaseExpression is a searched or simple CASE expression.
type CaseExpression struct {
	NodeInfo
	Operand Expr // nil for searched CASE
	Whens   []WhenClause
	Else    Expr
}

func (*CaseExpression) exprNode() {}

// CastExpression is CAST(expr AS type).
type CastExpression struct {
	NodeInfo
	Expr     Expr
	TypeName string
}

func (*CastExpression) exprNode() {}

// BetweenExpression is expr [NOT] BETWEEN low AND high.
type BetweenExpression struct {
	NodeInfo
	Expr Expr
	Not  bool
	Low  Expr
	High Expr
}

func (*BetweenExpression) exprNode() {}

// InExpression is expr [NOT] IN (values...).
type InExpression struct {
	NodeInfo
	Expr   Expr
	Not    bool
	Values []Expr
}

func (*InExpression) exprNode() {}

// IsExpression is expr IS [NOT] NULL|TRUE|FALSE. Value is token.NULL,
// token.TRUE or token.FALSE.
type IsExpression struct {
	NodeInfo
	Expr  Expr
	Not   bool
	Value token.TokenType
}

func (*IsExpression) exprNode() {}

// PrefixExpression is a unary NOT, minus or plus.
type PrefixExpression struct {
	NodeInfo
	Op   token.TokenType
	Expr Expr
}

func (*PrefixExpression) exprNode() {}

// ParenthesesExpression is a parenthesized expression.
type ParenthesesExpression struct {
	NodeInfo
	Expr Expr
}

func (*ParenthesesExpression) exprNode() {}

// OrderBy is the ORDER BY list inside an aggregate call.
type OrderBy struct {
	NodeInfo
	Items []*OrderByExpression
}

// OrderByExpression is a single ORDER BY item.
type OrderByExpression struct {
	NodeInfo
	Expr       Expr
	Desc       bool
	NullsFirst *bool
}
