package encoding_test

import (
	"testing"

	"github.com/mapd/vlcompile/pkg/encoding"
	"github.com/mapd/vlcompile/pkg/vega"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtentFlags(t *testing.T) {
	tests := []struct {
		flag  encoding.ExtentFlags
		sigma int
		op    string
		str   string
	}{
		{encoding.OneSigma, 1, "stddev", "1sigma"},
		{encoding.FourSigma, 4, "stddev", "4sigma"},
		{encoding.SixSigma, 6, "stddev", "6sigma"},
		{encoding.ExtentMin, 0, "min", "min"},
		{encoding.ExtentMean, 0, "avg", "mean"},
		{encoding.ExtentMax, 0, "max", "max"},
		{encoding.TwoSigma | encoding.ExtentMin, 0, "", "2sigma|min"},
	}

	for _, tt := range tests {
		t.Run(tt.str, func(t *testing.T) {
			assert.Equal(t, tt.sigma, tt.flag.Sigma())
			assert.Equal(t, tt.op, tt.flag.Op())
			assert.Equal(t, tt.str, tt.flag.String())
		})
	}

	assert.Equal(t, encoding.ThreeSigma, encoding.SigmaFlag(3))
	assert.Equal(t, encoding.ExtentFlags(0), encoding.SigmaFlag(7))
	assert.True(t, (encoding.TwoSigma | encoding.ExtentMax).Has(encoding.ExtentMax))
	assert.False(t, encoding.TwoSigma.Has(encoding.ExtentMax))
}

func TestBuildExtentsTransformCanonicalOrder(t *testing.T) {
	var seen []encoding.ExtentFlags
	insert := func(_ *encoding.ExtentBuilder, flag encoding.ExtentFlags, _ []string) error {
		seen = append(seen, flag)
		return nil
	}

	flags := encoding.ExtentMax | encoding.ExtentMin | encoding.ThreeSigma | encoding.OneSigma | encoding.ExtentMean
	_, err := encoding.BuildExtentsTransform("x", "src", "f", flags, insert, nil)
	require.NoError(t, err)
	assert.Equal(t, []encoding.ExtentFlags{
		encoding.OneSigma, encoding.ThreeSigma, encoding.ExtentMin, encoding.ExtentMean, encoding.ExtentMax,
	}, seen)
}

func TestBuildExtentsTransformDeduplicatesOps(t *testing.T) {
	tr, err := encoding.BuildExtentsTransform("L_color_xform", "L", "color",
		encoding.AllSigmas|encoding.ExtentMean, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, "L_color_xform", tr.Name)
	assert.Equal(t, "L", tr.Source)
	require.Len(t, tr.Transform, 1+2*6)

	agg, ok := tr.Transform[0].(*vega.Aggregate)
	require.True(t, ok)
	assert.Equal(t, []string{"avg", "stddev"}, agg.Ops)
	assert.Equal(t, []string{"color", "color"}, agg.Fields)
	assert.Equal(t, []string{"avg_color", "stddev_color"}, agg.As)

	first := tr.Transform[1].(*vega.Formula)
	assert.Equal(t, "avg_color - 1 * stddev_color", first.Expr)
	assert.Equal(t, "color_sigma_neg1", first.As)
	last := tr.Transform[12].(*vega.Formula)
	assert.Equal(t, "avg_color + 6 * stddev_color", last.Expr)
	assert.Equal(t, "color_sigma_pos6", last.As)
}

func TestBuildExtentsTransformRejectsEmptyFlags(t *testing.T) {
	_, err := encoding.BuildExtentsTransform("x", "src", "f", 0, nil, nil)
	require.Error(t, err)
}
