package encoding_test

import (
	"testing"

	"github.com/mapd/vlcompile/pkg/encoding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnums(t *testing.T) {
	m, err := encoding.ParseMeasurementType("Quantitative")
	require.NoError(t, err)
	assert.Equal(t, encoding.Quantitative, m)

	_, err = encoding.ParseMeasurementType("geo")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quantitative, temporal, ordinal, nominal")

	st, err := encoding.ParseScaleType("threshold")
	require.NoError(t, err)
	assert.Equal(t, encoding.ScaleThreshold, st)
	assert.Equal(t, encoding.Discretizing, st.Kind())

	_, err = encoding.ParseScaleType("passthru")
	require.Error(t, err, "passthru is internal")

	it, err := encoding.ParseInterpolateType("hcl-long")
	require.NoError(t, err)
	assert.Equal(t, encoding.InterpolateHCLLong, it)

	acc, err := encoding.ParseAccumulatorType("density")
	require.NoError(t, err)
	assert.Equal(t, encoding.AccumulatorDensity, acc)
}

func TestScaleKinds(t *testing.T) {
	tests := []struct {
		scale encoding.ScaleType
		kind  encoding.ScaleKind
	}{
		{encoding.ScaleLinear, encoding.Continuous},
		{encoding.ScalePow, encoding.Continuous},
		{encoding.ScaleSqrt, encoding.Continuous},
		{encoding.ScaleLog, encoding.Continuous},
		{encoding.ScaleOrdinal, encoding.Discrete},
		{encoding.ScaleQuantize, encoding.Discretizing},
		{encoding.ScaleThreshold, encoding.Discretizing},
		{encoding.ScalePassthru, encoding.Passthru},
	}
	for _, tt := range tests {
		t.Run(tt.scale.String(), func(t *testing.T) {
			assert.Equal(t, tt.kind, tt.scale.Kind())
		})
	}

	assert.Equal(t, encoding.ScaleLinear, encoding.DefaultScaleType(encoding.Quantitative))
	assert.Equal(t, encoding.ScaleOrdinal, encoding.DefaultScaleType(encoding.Nominal))
	assert.Equal(t, encoding.ScaleOrdinal, encoding.DefaultScaleType(encoding.Ordinal))
}
