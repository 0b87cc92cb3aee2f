package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mapd/vlcompile/internal/cli/output"
	"github.com/mapd/vlcompile/pkg/vega"
)

// NewCompileCommand creates the compile command.
func NewCompileCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "compile <layer-file>...",
		Short: "Compile layer encodings into scales, transforms and mark properties",
		Long: `Compile the encoding of every layer in the given files.

Each channel of a layer compiles independently: a failing channel is
reported while its siblings still produce output. Layers compile in
parallel (see --parallelism).

Output adapts to environment:
  - Terminal: summary table
  - Piped/Scripted: the compiled specs as JSON`,
		Example: `  # Compile a layer file to JSON
  vlcompile compile points.yaml -o json

  # Compile several files, splitting color_sql against the flights table
  vlcompile compile --fact-table flights points.yaml heatmap.yaml`,
		Args: cobra.MinimumNArgs(1),
		RunE: runCompile,
	}
}

// compiledLayer is the JSON form of one compiled layer.
type compiledLayer struct {
	File  string         `json:"file"`
	Spec  vega.LayerSpec `json:"spec"`
	Error string         `json:"error,omitempty"`
}

func runCompile(cmd *cobra.Command, args []string) error {
	cc := NewCommandContext(cmd)
	ctx := cmd.Context()

	layers, err := cc.loadLayers(ctx, args)
	if err != nil {
		return err
	}
	results, err := cc.compile(ctx, layers)
	if err != nil {
		return err
	}

	out := make([]compiledLayer, len(results))
	failed := 0
	for i, res := range results {
		out[i] = compiledLayer{File: layers[i].Path, Spec: res.Spec}
		if res.Err != nil {
			out[i].Error = res.Err.Error()
			failed++
		}
	}

	r := cc.Renderer
	if r.EffectiveMode() == output.ModeJSON {
		if err := r.JSON(map[string]any{"layers": out}); err != nil {
			return err
		}
	} else {
		rows := make([][]any, len(out))
		for i, l := range out {
			status := "ok"
			if l.Error != "" {
				status = "failed"
			}
			rows[i] = []any{l.Spec.Name, l.File, len(l.Spec.Scales), len(l.Spec.Data),
				len(l.Spec.Marks), len(l.Spec.SQL), status}
		}
		r.Table(fmt.Sprintf("Layers (%d total)", len(out)),
			[]string{"layer", "file", "scales", "transforms", "marks", "sql", "status"}, rows)
		for _, l := range out {
			if l.Error != "" {
				r.Warn("layer %q: %s", l.Spec.Name, l.Error)
			}
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d layers failed to compile", failed, len(out))
	}
	return nil
}
