package commands

import (
	"github.com/spf13/cobra"

	"github.com/mapd/vlcompile/internal/cli/output"
	"github.com/mapd/vlcompile/pkg/factsplit"
)

// NewSplitCommand creates the split command.
func NewSplitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "split <sql>",
		Short: "Split a custom SQL expression into fact projections",
		Long: `Split a custom SQL expression into the largest subexpressions that only
read the fact table, and the remaining expression that reads them back
through an alias.

SQL that does not parse is returned unchanged with no projections.`,
		Example: `  # Split against the flights fact table
  vlcompile split --fact-table flights "flights.delay * airports.weight"

  # Use a different alias for the projected subquery
  vlcompile split --fact-table f --alias facts "f.x + d.y"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := NewCommandContext(cmd)
			splitter := factsplit.NewSplitter(cc.Logger)
			res := splitter.Split(cc.Config.FactTable, cc.Config.WithAlias, args[0])

			r := cc.Renderer
			if r.EffectiveMode() == output.ModeJSON {
				return r.JSON(res)
			}
			rows := make([][]any, len(res.FactProjections))
			for i, proj := range res.FactProjections {
				rows[i] = []any{res.FactAliases[i], proj}
			}
			r.Table("Fact projections", []string{"alias", "projection"}, rows)
			r.Println("Expression:", res.Expression)
			return nil
		},
	}
}
