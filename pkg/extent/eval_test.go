package extent_test

import (
	"testing"

	"github.com/mapd/vlcompile/pkg/extent"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEval(t *testing.T) {
	env := map[string]float64{
		"avg_color":    50,
		"stddev_color": 10,
		"min_color":    0,
		"max_color":    100,
	}

	tests := []struct {
		name string
		expr string
		want float64
	}{
		{"literal", "42", 42},
		{"decimal", "2.5", 2.5},
		{"reference", "avg_color", 50},
		{"sigma band", "avg_color - 2 * stddev_color", 30},
		{"precedence", "1 + 2 * 3", 7},
		{"parens", "(1 + 2) * 3", 9},
		{"unary minus", "-stddev_color + 1", -9},
		{"exponent", "2 ^ 3", 8},
		{"modulo", "7 % 4", 3},
		{"max clamp", "max(min_color, avg_color - 6 * stddev_color)", 0},
		{"min clamp", "min(max_color, avg_color + 2 * stddev_color)", 70},
		{"function case", "MAX(1, 2)", 2},
		{"abs", "abs(min_color - avg_color)", 50},
		{"stop", "min_color + (max_color - min_color) * 1 / 4", 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extent.Eval(tt.expr, env)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestEvalErrors(t *testing.T) {
	tests := []struct {
		name   string
		expr   string
		errMsg string
	}{
		{"unknown output", "avg_size + 1", `unknown output "avg_size"`},
		{"qualified", "t.avg_color", "qualified reference"},
		{"string literal", "'a'", "non-numeric literal"},
		{"division by zero", "1 / 0", "division by zero"},
		{"unsupported function", "sqrt(4)", "unsupported function sqrt"},
		{"comparison", "1 < 2", "unsupported operator"},
		{"parse error", "1 +", "parse error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := extent.Eval(tt.expr, map[string]float64{"avg_color": 1})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}
