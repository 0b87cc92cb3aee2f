package encoding_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/mapd/vlcompile/internal/testutil"
	"github.com/mapd/vlcompile/pkg/encoding"
	"github.com/mapd/vlcompile/pkg/vega"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileLayerIsolatesChannelFailures(t *testing.T) {
	enc := map[string]any{
		"x":     map[string]any{"field": "lon"},
		"y":     map[string]any{"field": "lat"},
		"size":  map[string]any{"field": "carrier", "type": "nominal"},
		"color": map[string]any{"field": "amount", "type": "quantitative"},
	}

	out := vega.NewPropertyOutputState()
	ctx := encoding.NewContext("L", testutil.NewTestLogger(t))
	err := encoding.CompileLayer(ctx, enc, encoding.StandardDescriptors(), out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `channel "size"`)
	assert.NotContains(t, err.Error(), `channel "color"`)

	assert.Equal(t, []string{"fillColor", "x", "y"}, out.MarkPropertyNames())
	for _, sql := range out.SQLTransforms() {
		assert.NotEqual(t, "size", sql.As, "failed channel must not leave partial output")
	}
	_, ok := out.Scale("L_color")
	assert.True(t, ok)
}

func TestCompileLayerUnknownChannel(t *testing.T) {
	out := vega.NewPropertyOutputState()
	err := encoding.CompileLayer(encoding.NewContext("L", nil), map[string]any{
		"shape": map[string]any{"field": "kind"},
	}, encoding.StandardDescriptors(), out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown encoding channel "shape"`)
}

func TestCompileLayerConflictingMarkProperties(t *testing.T) {
	out := vega.NewPropertyOutputState()
	err := encoding.CompileLayer(encoding.NewContext("L", nil), map[string]any{
		"color":     map[string]any{"field": "a", "scale": nil},
		"fillColor": map[string]any{"field": "b", "scale": nil},
	}, encoding.StandardDescriptors(), out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `mark property "fillColor" already exists`)
}

func TestCompileLayerJoinsErrors(t *testing.T) {
	out := vega.NewPropertyOutputState()
	err := encoding.CompileLayer(encoding.NewContext("L", nil), map[string]any{
		"x":    map[string]any{"field": 1},
		"size": map[string]any{"field": 2},
	}, encoding.StandardDescriptors(), out)
	require.Error(t, err)

	var defErr *encoding.DefinitionError
	require.True(t, errors.As(err, &defErr))
	assert.Contains(t, err.Error(), `channel "size"`)
	assert.Contains(t, err.Error(), `channel "x"`)
}

func TestCompileLayers(t *testing.T) {
	var layers []encoding.LayerRequest
	for i := range 8 {
		layers = append(layers, encoding.LayerRequest{
			Name: fmt.Sprintf("layer%d", i),
			Encoding: map[string]any{
				"color": map[string]any{"field": "amount", "type": "quantitative"},
			},
			SQL:             []vega.SQLTransform{vega.Project("fact.col1", "color0")},
			ColorExpression: "dim.x * color.color0",
		})
	}
	layers[3].Encoding["size"] = map[string]any{"field": "n", "type": "ordinal"}

	results, err := encoding.CompileLayers(context.Background(), testutil.NewTestLogger(t), layers, encoding.StandardDescriptors(), 3)
	require.NoError(t, err)
	require.Len(t, results, len(layers))

	for i, res := range results {
		assert.Equal(t, fmt.Sprintf("layer%d", i), res.Spec.Name)
		require.NotEmpty(t, res.Spec.Scales)
		assert.Equal(t, fmt.Sprintf("layer%d_color", i), res.Spec.Scales[0].Name)
		assert.Equal(t, "color0", res.Spec.SQL[0].As)
		assert.Equal(t, "dim.x * color.color0", res.Spec.ColorExpression)
		if i == 3 {
			assert.Error(t, res.Err)
		} else {
			assert.NoError(t, res.Err)
		}
	}
}

func TestCompileLayersCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := encoding.CompileLayers(ctx, nil, []encoding.LayerRequest{{Name: "a"}}, encoding.StandardDescriptors(), 1)
	require.ErrorIs(t, err, context.Canceled)
}
