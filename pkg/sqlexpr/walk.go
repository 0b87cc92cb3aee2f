package sqlexpr

// Children returns the direct child nodes of n in source order. Nil
// children (an absent CASE operand or ELSE) are omitted.
func Children(n Node) []Node {
	var out []Node
	add := func(nodes ...Node) {
		for _, c := range nodes {
			if c != nil {
				out = append(out, c)
			}
		}
	}

	switch n := n.(type) {
	case *BinaryExpression:
		add(n.Left, n.Right)
	case *FunctionExpression:
		for _, param := range n.Params {
			add(param)
		}
		if n.OrderBy != nil {
			add(n.OrderBy)
		}
	case *CaseExpression:
		if n.Operand != nil {
			add(n.Operand)
		}
		for _, w := range n.Whens {
			add(w.Condition, w.Result)
		}
		if n.Else != nil {
			add(n.Else)
		}
	case *CastExpression:
		add(n.Expr)
	case *BetweenExpression:
		add(n.Expr, n.Low, n.High)
	case *InExpression:
		add(n.Expr)
		for _, v := range n.Values {
			add(v)
		}
	case *IsExpression:
		add(n.Expr)
	case *PrefixExpression:
		add(n.Expr)
	case *ParenthesesExpression:
		add(n.Expr)
	case *OrderBy:
		for _, item := range n.Items {
			add(item)
		}
	case *OrderByExpression:
		add(n.Expr)
	}
	return out
}

// Inspect traverses the AST in depth-first pre-order, calling fn for every
// node. If fn returns false the children of that node are skipped.
func Inspect(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range Children(n) {
		Inspect(c, fn)
	}
}
