package factsplit

import (
	"sort"
	"strconv"
	"strings"

	"github.com/mapd/vlcompile/pkg/sqlexpr"
)

// Replacement records one extracted substring of the source. Start and End
// are byte offsets, End exclusive.
type Replacement struct {
	Alias string
	Start int
	End   int
}

// Extraction is the result of ExtractFacts.
type Extraction struct {
	Projections  []string
	Aliases      []string
	Replacements []Replacement
}

// ExtractFacts walks root top-down and projects out every Safe node it
// reaches, without descending into it. Aliases are aliasPrefix followed by
// the running extraction count.
func ExtractFacts(sql string, root sqlexpr.Node, painting Painting, aliasPrefix string) Extraction {
	ex := Extraction{
		Projections:  []string{},
		Aliases:      []string{},
		Replacements: []Replacement{},
	}
	if root == nil {
		return ex
	}

	var visit func(n sqlexpr.Node)
	visit = func(n sqlexpr.Node) {
		if painting.Of(n) == Safe {
			alias := aliasPrefix + strconv.Itoa(len(ex.Projections))
			ex.Projections = append(ex.Projections, sqlexpr.Source(sql, n))
			ex.Aliases = append(ex.Aliases, alias)
			ex.Replacements = append(ex.Replacements, Replacement{
				Alias: alias,
				Start: n.Pos().Offset,
				End:   n.End().Offset,
			})
			return
		}
		for _, child := range sqlexpr.Children(n) {
			visit(child)
		}
	}
	visit(root)
	return ex
}

// ApplyReplacements splices withAlias.alias over every replaced substring.
// Replacements are applied from the highest start offset down so earlier
// offsets stay valid.
func ApplyReplacements(sql, withAlias string, replacements []Replacement) string {
	sorted := make([]Replacement, len(replacements))
	copy(sorted, replacements)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start > sorted[j].Start
	})

	out := sql
	for _, r := range sorted {
		if r.Start < 0 || r.End > len(out) || r.Start > r.End {
			continue
		}
		var b strings.Builder
		b.WriteString(out[:r.Start])
		b.WriteString(withAlias)
		b.WriteByte('.')
		b.WriteString(r.Alias)
		b.WriteString(out[r.End:])
		out = b.String()
	}
	return out
}
