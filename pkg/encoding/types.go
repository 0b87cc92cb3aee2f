package encoding

import (
	"fmt"
	"strings"
)

// MeasurementType governs which scale types are legal for a field.
type MeasurementType int

// MeasurementType values.
const (
	Quantitative MeasurementType = iota
	Temporal
	Ordinal
	Nominal
)

var measurementNames = [...]string{
	Quantitative: "quantitative",
	Temporal:     "temporal",
	Ordinal:      "ordinal",
	Nominal:      "nominal",
}

func (m MeasurementType) String() string {
	if m >= 0 && int(m) < len(measurementNames) {
		return measurementNames[m]
	}
	return fmt.Sprintf("MeasurementType(%d)", int(m))
}

// ParseMeasurementType converts a name to a MeasurementType,
// case-insensitively.
func ParseMeasurementType(s string) (MeasurementType, error) {
	for i, name := range measurementNames {
		if strings.EqualFold(s, name) {
			return MeasurementType(i), nil
		}
	}
	return 0, fmt.Errorf("%q is not a valid measurement type, must be one of [%s]",
		s, strings.Join(measurementNames[:], ", "))
}

// ScaleKind partitions scale types by how they map domain to range.
type ScaleKind int

// ScaleKind values.
const (
	Continuous ScaleKind = iota
	Discrete
	Discretizing
	Passthru
)

func (k ScaleKind) String() string {
	switch k {
	case Continuous:
		return "continuous"
	case Discrete:
		return "discrete"
	case Discretizing:
		return "discretizing"
	default:
		return "passthru"
	}
}

// Accepts reports whether a scale of kind k can encode measurement type m.
func (k ScaleKind) Accepts(m MeasurementType) bool {
	switch k {
	case Continuous, Discretizing:
		return m == Quantitative
	case Discrete:
		return m == Nominal || m == Ordinal
	default:
		return true
	}
}

// required names the measurement types k accepts, for error messages.
func (k ScaleKind) required() string {
	switch k {
	case Continuous, Discretizing:
		return Quantitative.String()
	case Discrete:
		return Nominal.String() + " or " + Ordinal.String()
	default:
		return "any"
	}
}

// ScaleType is the concrete type of a scale.
type ScaleType int

// ScaleType values. ScalePassthru marks a scale that was built elsewhere.
const (
	ScaleLinear ScaleType = iota
	ScalePow
	ScaleSqrt
	ScaleLog
	ScaleOrdinal
	ScaleQuantize
	ScaleThreshold
	ScalePassthru
)

var scaleTypeNames = [...]string{
	ScaleLinear:    "linear",
	ScalePow:       "pow",
	ScaleSqrt:      "sqrt",
	ScaleLog:       "log",
	ScaleOrdinal:   "ordinal",
	ScaleQuantize:  "quantize",
	ScaleThreshold: "threshold",
	ScalePassthru:  "passthru",
}

func (t ScaleType) String() string {
	if t >= 0 && int(t) < len(scaleTypeNames) {
		return scaleTypeNames[t]
	}
	return fmt.Sprintf("ScaleType(%d)", int(t))
}

// Kind returns the kind of scale t belongs to.
func (t ScaleType) Kind() ScaleKind {
	switch t {
	case ScaleLinear, ScalePow, ScaleSqrt, ScaleLog:
		return Continuous
	case ScaleOrdinal:
		return Discrete
	case ScaleQuantize, ScaleThreshold:
		return Discretizing
	default:
		return Passthru
	}
}

// ParseScaleType converts a name to a ScaleType. The internal passthru
// marker cannot be parsed.
func ParseScaleType(s string) (ScaleType, error) {
	for i, name := range scaleTypeNames[:ScalePassthru] {
		if strings.EqualFold(s, name) {
			return ScaleType(i), nil
		}
	}
	return 0, fmt.Errorf("%q is not a valid scale type, must be one of [%s]",
		s, strings.Join(scaleTypeNames[:ScalePassthru], ", "))
}

// DefaultScaleType returns the scale type inferred for a measurement type
// when none is given.
func DefaultScaleType(m MeasurementType) ScaleType {
	switch m {
	case Nominal, Ordinal:
		return ScaleOrdinal
	default:
		return ScaleLinear
	}
}

// AccumulatorType is a post-aggregation applied to a scale's domain.
type AccumulatorType int

// AccumulatorType values.
const (
	AccumulatorMin AccumulatorType = iota
	AccumulatorMax
	AccumulatorDensity
	AccumulatorBlend
	AccumulatorPct
)

var accumulatorNames = [...]string{
	AccumulatorMin:     "min",
	AccumulatorMax:     "max",
	AccumulatorDensity: "density",
	AccumulatorBlend:   "blend",
	AccumulatorPct:     "pct",
}

func (a AccumulatorType) String() string {
	if a >= 0 && int(a) < len(accumulatorNames) {
		return accumulatorNames[a]
	}
	return fmt.Sprintf("AccumulatorType(%d)", int(a))
}

// ParseAccumulatorType converts a name to an AccumulatorType.
func ParseAccumulatorType(s string) (AccumulatorType, error) {
	for i, name := range accumulatorNames {
		if strings.EqualFold(s, name) {
			return AccumulatorType(i), nil
		}
	}
	return 0, fmt.Errorf("%q is not a valid accumulator type", s)
}

// InterpolateType is the color-space interpolation of a color scale.
type InterpolateType int

// InterpolateType values.
const (
	InterpolateAuto InterpolateType = iota
	InterpolateRGB
	InterpolateHSL
	InterpolateHSLLong
	InterpolateLab
	InterpolateHCL
	InterpolateHCLLong
	InterpolateCubehelix
	InterpolateCubehelixLong
)

var interpolateNames = [...]string{
	InterpolateAuto:          "auto",
	InterpolateRGB:           "rgb",
	InterpolateHSL:           "hsl",
	InterpolateHSLLong:       "hsl-long",
	InterpolateLab:           "lab",
	InterpolateHCL:           "hcl",
	InterpolateHCLLong:       "hcl-long",
	InterpolateCubehelix:     "cubehelix",
	InterpolateCubehelixLong: "cubehelix-long",
}

func (i InterpolateType) String() string {
	if i >= 0 && int(i) < len(interpolateNames) {
		return interpolateNames[i]
	}
	return fmt.Sprintf("InterpolateType(%d)", int(i))
}

// ParseInterpolateType converts a name to an InterpolateType.
func ParseInterpolateType(s string) (InterpolateType, error) {
	for i, name := range interpolateNames {
		if strings.EqualFold(s, name) {
			return InterpolateType(i), nil
		}
	}
	return 0, fmt.Errorf("%q is not a valid interpolation type, must be one of [%s]",
		s, strings.Join(interpolateNames[:], ", "))
}
