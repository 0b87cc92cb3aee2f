package commands

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/mapd/vlcompile/internal/cli/output"
	"github.com/mapd/vlcompile/pkg/adapter"
	"github.com/mapd/vlcompile/pkg/extent"
	"github.com/mapd/vlcompile/pkg/vega"
)

// NewExtentsCommand creates the extents command.
func NewExtentsCommand() *cobra.Command {
	var table, csvPath string

	cmd := &cobra.Command{
		Use:   "extents <layer-file>...",
		Short: "Compile layers and resolve data-driven scale domains against the target",
		Long: `Compile the given layers, then evaluate every extents transform against
the configured target database and replace the referencing scale domains
with literal values.

Aggregates run in the database over the layer's fact table (or the
projected expression for split custom SQL); formula stages such as sigma
bands and domain stops are evaluated locally.

With --csv the file is loaded into the fact table first (DuckDB only).`,
		Example: `  # Resolve domains against an in-memory DuckDB loaded from a CSV
  vlcompile extents points.yaml --table sales --csv sales.csv

  # Resolve against PostgreSQL
  vlcompile extents points.yaml --target postgres --database analytics`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtents(cmd, args, table, csvPath)
		},
	}

	cmd.Flags().StringVar(&table, "table", "", "Table to aggregate over (default: the layer's fact table)")
	cmd.Flags().StringVar(&csvPath, "csv", "", "Load this CSV file into the table before resolving")
	return cmd
}

func runExtents(cmd *cobra.Command, args []string, table, csvPath string) error {
	cc := NewCommandContext(cmd)
	ctx := cmd.Context()

	layers, err := cc.loadLayers(ctx, args)
	if err != nil {
		return err
	}

	tables := make([]string, len(layers))
	for i, l := range layers {
		tables[i] = table
		if tables[i] == "" {
			tables[i] = l.Doc.Table(l.Defaults)
		}
		if tables[i] == "" {
			return fmt.Errorf("layer %q has no fact table, set fact_table or pass --table", l.Request.Name)
		}
	}

	results, err := cc.compile(ctx, layers)
	if err != nil {
		return err
	}
	for _, res := range results {
		if res.Err != nil {
			return fmt.Errorf("layer %q failed to compile: %w", res.Spec.Name, res.Err)
		}
	}

	target := cc.Config.Target
	adpCfg := target.AdapterConfig()
	adp, err := adapter.Open(ctx, adpCfg, cc.Logger)
	if err != nil {
		return err
	}
	defer func() { _ = adp.Close() }()

	if csvPath != "" {
		loader, ok := adp.(adapter.CSVLoader)
		if !ok {
			return fmt.Errorf("target %s cannot load CSV files", target.Type)
		}
		loaded := map[string]bool{}
		for _, t := range tables {
			if loaded[t] {
				continue
			}
			if err := loader.LoadCSV(ctx, t, csvPath); err != nil {
				return err
			}
			loaded[t] = true
		}
	}

	specs := make([]vega.LayerSpec, len(results))
	for i, res := range results {
		spec := res.Spec
		source := adapter.QualifyTable(tables[i], target.Schema)
		cc.Logger.Debug("resolving extents", slog.String("layer", spec.Name), slog.String("table", source))
		if err := extent.Resolve(ctx, &spec, extent.DatabaseEvaluator(adp, source, spec.SQL)); err != nil {
			return fmt.Errorf("layer %q: %w", spec.Name, err)
		}
		specs[i] = spec
	}

	r := cc.Renderer
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(map[string]any{"layers": specs})
	}
	var rows [][]any
	for _, spec := range specs {
		for _, s := range spec.Scales {
			rows = append(rows, []any{spec.Name, s.Name, s.Type, fmt.Sprint(s.Domain)})
		}
	}
	r.Table("Scale domains", []string{"layer", "scale", "type", "domain"}, rows)
	return nil
}
