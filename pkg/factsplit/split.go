package factsplit

import (
	"log/slog"

	"github.com/mapd/vlcompile/pkg/sqlexpr"
)

// DefaultAliasPrefix prefixes generated projection aliases.
const DefaultAliasPrefix = "color"

// Result is the fact/dimension split of one expression.
type Result struct {
	FactProjections []string `json:"factProjections"`
	FactAliases     []string `json:"factAliases"`
	Expression      string   `json:"expression"`
}

// Splitter splits custom SQL expressions. The zero value is usable.
type Splitter struct {
	AliasPrefix string
	Logger      *slog.Logger
}

// NewSplitter creates a Splitter with the default alias prefix.
func NewSplitter(logger *slog.Logger) *Splitter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Splitter{AliasPrefix: DefaultAliasPrefix, Logger: logger}
}

// Split parses sql, projects out the largest subexpressions that reference
// only factTable, and rewrites sql to read them through withAlias. If sql
// does not parse or nothing is projected, the result carries no
// projections and the input expression unchanged.
func (s *Splitter) Split(factTable, withAlias, sql string) Result {
	root, err := sqlexpr.Parse(sql)
	if err != nil {
		s.logger().Debug("custom sql not split",
			slog.String("sql", sql),
			slog.String("error", err.Error()))
		return Result{FactProjections: []string{}, FactAliases: []string{}, Expression: sql}
	}

	painting := PaintAST(root, factTable)
	ex := ExtractFacts(sql, root, painting, s.aliasPrefix())
	expression := sql
	if len(ex.Replacements) > 0 {
		expression = spliceRoot(sql, root, withAlias, ex.Replacements)
	}

	s.logger().Debug("custom sql split",
		slog.String("fact_table", factTable),
		slog.Int("projections", len(ex.Projections)),
		slog.String("root_paint", painting.Of(root).String()))

	return Result{
		FactProjections: ex.Projections,
		FactAliases:     ex.Aliases,
		Expression:      expression,
	}
}

// spliceRoot applies replacements to the text spanned by root. Whitespace
// and comments outside the root are dropped.
func spliceRoot(sql string, root sqlexpr.Node, withAlias string, replacements []Replacement) string {
	start, end := root.Pos().Offset, root.End().Offset
	if start < 0 || end > len(sql) || start > end {
		return ApplyReplacements(sql, withAlias, replacements)
	}
	shifted := make([]Replacement, len(replacements))
	for i, r := range replacements {
		shifted[i] = Replacement{Alias: r.Alias, Start: r.Start - start, End: r.End - start}
	}
	return ApplyReplacements(sql[start:end], withAlias, shifted)
}

func (s *Splitter) aliasPrefix() string {
	if s.AliasPrefix == "" {
		return DefaultAliasPrefix
	}
	return s.AliasPrefix
}

func (s *Splitter) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return s.Logger
}

// ParseFactsFromCustomSQL splits sql with the default alias prefix.
func ParseFactsFromCustomSQL(factTable, withAlias, sql string) Result {
	var s Splitter
	return s.Split(factTable, withAlias, sql)
}
