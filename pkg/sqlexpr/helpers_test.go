package sqlexpr_test

import (
	"fmt"
	"strings"

	"github.com/mapd/vlcompile/pkg/sqlexpr"
	"github.com/mapd/vlcompile/pkg/token"
)

// render prints an expression as an s-expression so precedence and
// grouping can be asserted as plain strings.
func render(e sqlexpr.Node) string {
	switch n := e.(type) {
	case *sqlexpr.BinaryExpression:
		op := n.Op.String()
		if n.Not {
			op = "NOT " + op
		}
		return fmt.Sprintf("(%s %s %s)", op, render(n.Left), render(n.Right))
	case *sqlexpr.ColumnExpression:
		if n.Qualified() {
			return n.Table + "." + n.Column
		}
		return n.Column
	case *sqlexpr.ConstantExpression:
		if n.Kind == sqlexpr.ConstantString {
			return "'" + n.Value + "'"
		}
		return n.Value
	case *sqlexpr.FunctionExpression:
		var args []string
		if n.Star {
			args = append(args, "*")
		}
		for _, p := range n.Params {
			args = append(args, render(p))
		}
		prefix := ""
		if n.Distinct {
			prefix = "DISTINCT "
		}
		s := n.Name + "(" + prefix + strings.Join(args, ", ")
		if n.OrderBy != nil {
			s += " " + render(n.OrderBy)
		}
		return s + ")"
	case *sqlexpr.OrderBy:
		var items []string
		for _, item := range n.Items {
			items = append(items, render(item))
		}
		return "ORDER BY " + strings.Join(items, ", ")
	case *sqlexpr.OrderByExpression:
		s := render(n.Expr)
		if n.Desc {
			s += " DESC"
		}
		if n.NullsFirst != nil {
			if *n.NullsFirst {
				s += " NULLS FIRST"
			} else {
				s += " NULLS LAST"
			}
		}
		return s
	case *sqlexpr.CaseExpression:
		parts := []string{"CASE"}
		if n.Operand != nil {
			parts = append(parts, render(n.Operand))
		}
		for _, w := range n.Whens {
			parts = append(parts, "WHEN", render(w.Condition), "THEN", render(w.Result))
		}
		if n.Else != nil {
			parts = append(parts, "ELSE", render(n.Else))
		}
		return "(" + strings.Join(parts, " ") + ")"
	case *sqlexpr.CastExpression:
		return fmt.Sprintf("(CAST %s %s)", render(n.Expr), n.TypeName)
	case *sqlexpr.BetweenExpression:
		op := "BETWEEN"
		if n.Not {
			op = "NOT BETWEEN"
		}
		return fmt.Sprintf("(%s %s %s %s)", op, render(n.Expr), render(n.Low), render(n.High))
	case *sqlexpr.InExpression:
		op := "IN"
		if n.Not {
			op = "NOT IN"
		}
		parts := []string{op, render(n.Expr)}
		for _, v := range n.Values {
			parts = append(parts, render(v))
		}
		return "(" + strings.Join(parts, " ") + ")"
	case *sqlexpr.IsExpression:
		op := "IS"
		if n.Not {
			op = "IS NOT"
		}
		return fmt.Sprintf("(%s %s %s)", op, render(n.Expr), n.Value)
	case *sqlexpr.PrefixExpression:
		return fmt.Sprintf("(%s %s)", n.Op, render(n.Expr))
	case *sqlexpr.ParenthesesExpression:
		return "[" + render(n.Expr) + "]"
	}
	return fmt.Sprintf("<%T>", e)
}

func tokenTypes(tokens []token.Token) []token.TokenType {
	out := make([]token.TokenType, 0, len(tokens))
	for _, tok := range tokens {
		out = append(out, tok.Type)
	}
	return out
}
