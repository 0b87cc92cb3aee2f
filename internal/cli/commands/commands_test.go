package commands

import (
	"encoding/json"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mapd/vlcompile/internal/cli/testutil"
	"github.com/mapd/vlcompile/internal/config"

	_ "github.com/mapd/vlcompile/pkg/adapters/duckdb"
)

const pointsLayer = `
name: points
fact_table: flights
encoding:
  x: {field: lon}
  color:
    field: delay
    type: quantitative
    scale:
      type: quantize
      range: [red, green, blue]
color_sql: flights.delay * airports.weight
`

// run executes cmd with args in the context the root command would build.
func run(t *testing.T, cmd *cobra.Command, tr *testutil.TestRenderer, cfg *config.Config, args ...string) error {
	t.Helper()
	cmd.SetArgs(args)
	cmd.SetOut(tr.Out)
	cmd.SetErr(tr.ErrOut)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	return cmd.ExecuteContext(tr.Context(t, cfg))
}

func TestNewVersionCommand(t *testing.T) {
	for _, version := range []string{"0.1.0", "1.2.3", "dev"} {
		t.Run(version, func(t *testing.T) {
			tr := testutil.NewTestRendererJSON()
			err := run(t, NewVersionCommand(version), tr, testutil.DefaultConfig(""))
			require.NoError(t, err)
			assert.Contains(t, tr.Output(), "vlcompile v"+version)
		})
	}
}

func TestCommandMetadata(t *testing.T) {
	tests := []struct {
		cmd   *cobra.Command
		use   string
		flags []string
	}{
		{NewCompileCommand(), "compile <layer-file>...", nil},
		{NewSplitCommand(), "split <sql>", nil},
		{NewExtentsCommand(), "extents <layer-file>...", []string{"table", "csv"}},
		{NewVersionCommand("test"), "version", nil},
	}

	for _, tt := range tests {
		t.Run(tt.use, func(t *testing.T) {
			assert.Equal(t, tt.use, tt.cmd.Use)
			assert.NotEmpty(t, tt.cmd.Short)
			assert.NotEmpty(t, tt.cmd.Long)
			for _, flag := range tt.flags {
				assert.NotNil(t, tt.cmd.Flags().Lookup(flag), "flag %q should exist", flag)
			}
		})
	}
}

type compileOutput struct {
	Layers []struct {
		File string `json:"file"`
		Spec struct {
			Name   string `json:"name"`
			Scales []struct {
				Name string `json:"name"`
				Type string `json:"type"`
			} `json:"scales"`
			SQL []struct {
				Expr string `json:"expr"`
				As   string `json:"as"`
			} `json:"sql"`
			ColorExpression string `json:"colorExpression"`
		} `json:"spec"`
		Error string `json:"error"`
	} `json:"layers"`
}

func TestCompileJSON(t *testing.T) {
	path := testutil.WriteFile(t, t.TempDir(), "points.yaml", pointsLayer)
	tr := testutil.NewTestRendererJSON()

	err := run(t, NewCompileCommand(), tr, testutil.DefaultConfig(""), path)
	require.NoError(t, err)

	var out compileOutput
	require.NoError(t, json.Unmarshal(tr.Out.Bytes(), &out))
	require.Len(t, out.Layers, 1)

	l := out.Layers[0]
	assert.Equal(t, path, l.File)
	assert.Empty(t, l.Error)
	assert.Equal(t, "points", l.Spec.Name)
	require.Len(t, l.Spec.Scales, 1)
	assert.Equal(t, "points_color", l.Spec.Scales[0].Name)
	assert.Equal(t, "quantize", l.Spec.Scales[0].Type)
	assert.Equal(t, "color.color0 * airports.weight", l.Spec.ColorExpression)

	var projected []string
	for _, sql := range l.Spec.SQL {
		projected = append(projected, sql.As)
	}
	assert.Contains(t, projected, "color0")
	assert.Contains(t, projected, "color")
}

func TestCompileText(t *testing.T) {
	path := testutil.WriteFile(t, t.TempDir(), "points.yaml", pointsLayer)
	tr := testutil.NewTestRendererText()

	err := run(t, NewCompileCommand(), tr, testutil.DefaultConfig(""), path)
	require.NoError(t, err)
	assert.Contains(t, tr.Output(), "points")
	assert.Contains(t, tr.Output(), "ok")
}

func TestCompileReportsFailedLayers(t *testing.T) {
	dir := t.TempDir()
	good := testutil.WriteFile(t, dir, "good.yaml", pointsLayer)
	bad := testutil.WriteFile(t, dir, "bad.yaml", `
name: broken
encoding:
  size: {field: carrier, type: nominal}
  color: {field: amount, type: quantitative}
`)
	tr := testutil.NewTestRendererJSON()

	err := run(t, NewCompileCommand(), tr, testutil.DefaultConfig(""), good, bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 layers failed")

	var out compileOutput
	require.NoError(t, json.Unmarshal(tr.Out.Bytes(), &out))
	require.Len(t, out.Layers, 2)
	assert.Empty(t, out.Layers[0].Error)
	assert.Contains(t, out.Layers[1].Error, `channel "size"`)
	require.Len(t, out.Layers[1].Spec.Scales, 1, "sibling channels still compile")
	assert.Equal(t, "broken_color", out.Layers[1].Spec.Scales[0].Name)
}

func TestCompileDuplicateLayerNames(t *testing.T) {
	dir := t.TempDir()
	a := testutil.WriteFile(t, dir, "a.yaml", pointsLayer)
	b := testutil.WriteFile(t, dir, "b.yaml", pointsLayer)

	err := run(t, NewCompileCommand(), testutil.NewTestRendererJSON(), testutil.DefaultConfig(""), a, b)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `layer "points"`)
	assert.Contains(t, err.Error(), "already defined")
}

func TestCompileMissingFile(t *testing.T) {
	err := run(t, NewCompileCommand(), testutil.NewTestRendererJSON(), testutil.DefaultConfig(""), "does-not-exist.yaml")
	require.Error(t, err)
}

func TestSplitJSON(t *testing.T) {
	tr := testutil.NewTestRendererJSON()
	err := run(t, NewSplitCommand(), tr, testutil.DefaultConfig("f"),
		"CAST(f.x AS int) > abs(d.y) OR f.z IS NULL")
	require.NoError(t, err)

	var out struct {
		FactProjections []string `json:"factProjections"`
		FactAliases     []string `json:"factAliases"`
		Expression      string   `json:"expression"`
	}
	require.NoError(t, json.Unmarshal(tr.Out.Bytes(), &out))
	assert.Equal(t, []string{"CAST(f.x AS int)", "f.z IS NULL"}, out.FactProjections)
	assert.Equal(t, []string{"color0", "color1"}, out.FactAliases)
	assert.Equal(t, "color.color0 > abs(d.y) OR color.color1", out.Expression)
}

func TestSplitText(t *testing.T) {
	cfg := testutil.DefaultConfig("d")
	cfg.WithAlias = "facts"
	tr := testutil.NewTestRendererText()

	err := run(t, NewSplitCommand(), tr, cfg, "d.y + 1")
	require.NoError(t, err)
	assert.Contains(t, tr.Output(), "d.y + 1")
	assert.Contains(t, tr.Output(), "Expression: facts.color0")
}

const salesCSV = `lon,amount
1,2
2,4
3,4
4,4
5,5
6,5
7,7
8,9
`

const salesLayer = `
name: sales
encoding:
  x: {field: lon}
  color:
    field: amount
    type: quantitative
    scale:
      type: quantize
      range: [red, green, blue]
`

func TestExtentsWithCSV(t *testing.T) {
	dir := t.TempDir()
	csvPath := testutil.WriteFile(t, dir, "sales.csv", salesCSV)
	path := testutil.WriteFile(t, dir, "sales.yaml", salesLayer)
	tr := testutil.NewTestRendererJSON()

	err := run(t, NewExtentsCommand(), tr, testutil.DefaultConfig(""), path, "--table", "sales", "--csv", csvPath)
	require.NoError(t, err)

	var out struct {
		Layers []struct {
			Name   string `json:"name"`
			Scales []struct {
				Name   string    `json:"name"`
				Domain []float64 `json:"domain"`
			} `json:"scales"`
		} `json:"layers"`
	}
	require.NoError(t, json.Unmarshal(tr.Out.Bytes(), &out))
	require.Len(t, out.Layers, 1)
	require.Len(t, out.Layers[0].Scales, 1)

	scale := out.Layers[0].Scales[0]
	assert.Equal(t, "sales_color", scale.Name)
	require.Len(t, scale.Domain, 2)
	assert.InDelta(t, 2, scale.Domain[0], 1e-9, "sigma band is clamped to the minimum")
	assert.InDelta(t, 9, scale.Domain[1], 1e-9, "sigma band is clamped to the maximum")
}

func TestExtentsRequiresTable(t *testing.T) {
	path := testutil.WriteFile(t, t.TempDir(), "sales.yaml", salesLayer)

	err := run(t, NewExtentsCommand(), testutil.NewTestRendererJSON(), testutil.DefaultConfig(""), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "has no fact table")
}

func TestExtentsMissingTable(t *testing.T) {
	path := testutil.WriteFile(t, t.TempDir(), "sales.yaml", salesLayer)

	err := run(t, NewExtentsCommand(), testutil.NewTestRendererJSON(), testutil.DefaultConfig("nowhere"), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `layer "sales"`)
}
