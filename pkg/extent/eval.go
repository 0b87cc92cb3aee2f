package extent

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/mapd/vlcompile/pkg/sqlexpr"
	"github.com/mapd/vlcompile/pkg/token"
)

// Eval evaluates a formula stage expression. Columns resolve to earlier
// outputs in env. Supported are numeric literals, + - * / % ^, unary
// signs, parentheses and the min, max and abs functions.
func Eval(expr string, env map[string]float64) (float64, error) {
	root, err := sqlexpr.Parse(expr)
	if err != nil {
		return 0, fmt.Errorf("formula %q: %w", expr, err)
	}
	v, err := eval(root, env)
	if err != nil {
		return 0, fmt.Errorf("formula %q: %w", expr, err)
	}
	return v, nil
}

func eval(n sqlexpr.Expr, env map[string]float64) (float64, error) {
	switch e := n.(type) {
	case *sqlexpr.ConstantExpression:
		if e.Kind != sqlexpr.ConstantNumber {
			return 0, fmt.Errorf("non-numeric literal %q", e.Value)
		}
		return strconv.ParseFloat(e.Value, 64)

	case *sqlexpr.ColumnExpression:
		if e.Qualified() {
			return 0, fmt.Errorf("qualified reference %s.%s", e.Table, e.Column)
		}
		v, ok := env[e.Column]
		if !ok {
			return 0, fmt.Errorf("unknown output %q", e.Column)
		}
		return v, nil

	case *sqlexpr.ParenthesesExpression:
		return eval(e.Expr, env)

	case *sqlexpr.PrefixExpression:
		v, err := eval(e.Expr, env)
		if err != nil {
			return 0, err
		}
		switch e.Op {
		case token.MINUS:
			return -v, nil
		case token.PLUS:
			return v, nil
		}
		return 0, fmt.Errorf("unsupported prefix operator %s", e.Op)

	case *sqlexpr.BinaryExpression:
		return evalBinary(e, env)

	case *sqlexpr.FunctionExpression:
		return evalFunction(e, env)
	}
	return 0, fmt.Errorf("unsupported expression %T", n)
}

func evalBinary(e *sqlexpr.BinaryExpression, env map[string]float64) (float64, error) {
	l, err := eval(e.Left, env)
	if err != nil {
		return 0, err
	}
	r, err := eval(e.Right, env)
	if err != nil {
		return 0, err
	}
	switch e.Op {
	case token.PLUS:
		return l + r, nil
	case token.MINUS:
		return l - r, nil
	case token.STAR:
		return l * r, nil
	case token.SLASH:
		if r == 0 {
			return 0, fmt.Errorf("division by zero")
		}
		return l / r, nil
	case token.PERCENT:
		if r == 0 {
			return 0, fmt.Errorf("division by zero")
		}
		return math.Mod(l, r), nil
	case token.CARET:
		return math.Pow(l, r), nil
	}
	return 0, fmt.Errorf("unsupported operator %s", e.Op)
}

func evalFunction(e *sqlexpr.FunctionExpression, env map[string]float64) (float64, error) {
	name := strings.ToLower(e.Name)
	if e.Star || e.Distinct || e.OrderBy != nil {
		return 0, fmt.Errorf("unsupported call form for %s", name)
	}
	args := make([]float64, len(e.Params))
	for i, p := range e.Params {
		v, err := eval(p, env)
		if err != nil {
			return 0, err
		}
		args[i] = v
	}

	switch name {
	case "min", "least":
		if len(args) == 0 {
			return 0, fmt.Errorf("%s requires arguments", name)
		}
		m := args[0]
		for _, a := range args[1:] {
			m = math.Min(m, a)
		}
		return m, nil
	case "max", "greatest":
		if len(args) == 0 {
			return 0, fmt.Errorf("%s requires arguments", name)
		}
		m := args[0]
		for _, a := range args[1:] {
			m = math.Max(m, a)
		}
		return m, nil
	case "abs":
		if len(args) != 1 {
			return 0, fmt.Errorf("abs takes 1 argument, got %d", len(args))
		}
		return math.Abs(args[0]), nil
	}
	return 0, fmt.Errorf("unsupported function %s", e.Name)
}
