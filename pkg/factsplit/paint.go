package factsplit

import (
	"strings"

	"github.com/mapd/vlcompile/pkg/sqlexpr"
)

// Paint classifies an AST node by the tables it references.
type Paint int

// Paint values.
const (
	Neutral Paint = iota
	Safe
	Unsafe
)

func (p Paint) String() string {
	switch p {
	case Safe:
		return "safe"
	case Unsafe:
		return "unsafe"
	default:
		return "neutral"
	}
}

// Painting is a side table of paint values keyed by node. The AST itself is
// never annotated.
type Painting map[sqlexpr.Node]Paint

// Of returns the paint of n. Unknown nodes are Neutral.
func (p Painting) Of(n sqlexpr.Node) Paint {
	return p[n]
}

// PaintAST paints every node under root bottom-up. Columns are Safe when
// unqualified or qualified by factTable (case-insensitive, quotes
// ignored). A composite node is Unsafe if any child is Unsafe, otherwise
// Safe if any child is Safe, otherwise Neutral.
func PaintAST(root sqlexpr.Node, factTable string) Painting {
	painting := make(Painting)
	if root == nil {
		return painting
	}
	paintNode(root, normalizeTable(factTable), painting)
	return painting
}

func paintNode(n sqlexpr.Node, factTable string, painting Painting) Paint {
	var paint Paint
	if col, ok := n.(*sqlexpr.ColumnExpression); ok {
		paint = paintColumn(col, factTable)
	} else {
		for _, child := range sqlexpr.Children(n) {
			paint = combine(paint, paintNode(child, factTable, painting))
		}
	}
	painting[n] = paint
	return paint
}

func paintColumn(col *sqlexpr.ColumnExpression, factTable string) Paint {
	if !col.Qualified() {
		return Safe
	}
	if factTable != "" && strings.EqualFold(col.Table, factTable) {
		return Safe
	}
	return Unsafe
}

// combine folds a child's paint into the paint accumulated so far.
func combine(acc, child Paint) Paint {
	switch {
	case acc == Unsafe || child == Unsafe:
		return Unsafe
	case acc == Safe || child == Safe:
		return Safe
	default:
		return Neutral
	}
}

// normalizeTable strips one level of double quotes from a table name.
func normalizeTable(name string) string {
	name = strings.TrimSpace(name)
	if len(name) >= 2 && name[0] == '"' && name[len(name)-1] == '"' {
		name = strings.ReplaceAll(name[1:len(name)-1], `""`, `"`)
	}
	return name
}
