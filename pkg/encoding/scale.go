package encoding

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/mapd/vlcompile/pkg/vega"
)

// Domain keywords.
const (
	DomainAuto    = "auto"
	DomainDensity = "density"
)

// MaxAutoSubdivisions bounds the interior stops an auto domain of a
// continuous scale can be split into.
const MaxAutoSubdivisions = 25

// Default density bounds, in standard deviations from the mean count.
const (
	DefaultMinDensityCnt = "-2ndStdDev"
	DefaultMaxDensityCnt = "2ndStdDev"
)

// ScaleDefinition is a declarative scale attached to one field. It is a
// sum over the continuous, discrete and discretizing kinds; Type selects
// the kind and every kind-specific step dispatches on it.
type ScaleDefinition struct {
	Name string
	Type ScaleType

	prop          string
	typeSet       bool
	domain        any
	rng           any
	hasRange      bool
	clamp         *bool
	interpolate   InterpolateType
	exponent      *float64
	defaultValue  any
	hasDefault    bool
	nullValue     any
	hasNull       bool
	minDensityCnt any
	maxDensityCnt any

	err error
}

// scaleOptions is the decoded shape of a scale definition. Untyped
// fields hold values whose form depends on the key (keyword or list,
// number or std-dev keyword).
type scaleOptions struct {
	Name          *string  `mapstructure:"name"`
	Type          *string  `mapstructure:"type"`
	Domain        any      `mapstructure:"domain"`
	Range         any      `mapstructure:"range"`
	Accumulator   *string  `mapstructure:"accumulator"`
	Clamp         *bool    `mapstructure:"clamp"`
	Interpolate   *string  `mapstructure:"interpolate"`
	Exponent      *float64 `mapstructure:"exponent"`
	Default       any      `mapstructure:"default"`
	Unknown       any      `mapstructure:"unknown"`
	Null          any      `mapstructure:"null"`
	NullValue     any      `mapstructure:"nullValue"`
	MinDensityCnt any      `mapstructure:"minDensityCnt"`
	MaxDensityCnt any      `mapstructure:"maxDensityCnt"`
}

// NewScaleDefinition parses a raw scale definition for property prop.
// Malformed definitions are recorded and returned by Materialize.
func NewScaleDefinition(prop string, raw any) *ScaleDefinition {
	s := &ScaleDefinition{prop: prop, domain: DomainAuto}
	m, ok := asObject(raw)
	if !ok {
		s.err = definitionErrorf(prop, "scale must be an object, got %s", typeName(raw))
		return s
	}
	var opts scaleOptions
	if err := decodeStrict(m, &opts); err != nil {
		s.err = definitionErrorf(prop, "invalid scale: %s", err)
		return s
	}
	s.err = s.apply(m, opts)
	return s
}

// apply validates opts and copies them onto s. m is consulted for keys
// that are present but null.
func (s *ScaleDefinition) apply(m map[string]any, opts scaleOptions) error {
	if opts.Name != nil {
		if *opts.Name == "" {
			return definitionErrorf(s.prop, "scale name must be a non-empty string")
		}
		s.Name = *opts.Name
	}

	if opts.Type != nil {
		t, err := ParseScaleType(*opts.Type)
		if err != nil {
			return definitionErrorf(s.prop, "%s", err)
		}
		s.Type, s.typeSet = t, true
	}

	if _, ok := m["domain"]; ok {
		if err := s.parseDomain(opts.Domain); err != nil {
			return err
		}
	}

	if opts.Accumulator != nil {
		if *opts.Accumulator != DomainDensity {
			return definitionErrorf(s.prop, "%q is not a valid accumulator", *opts.Accumulator)
		}
		if d, isStr := s.domain.(string); !isStr || (d != DomainAuto && d != DomainDensity) {
			return definitionErrorf(s.prop, "a density accumulator derives its domain, remove the scale domain")
		}
		s.domain = DomainDensity
	}

	if _, ok := m["range"]; ok {
		if str, isStr := opts.Range.(string); isStr {
			s.rng = str
		} else if l, isList := asList(opts.Range); isList {
			s.rng = l
		} else {
			return definitionErrorf(s.prop, "scale range must be an array or keyword, got %s", typeName(opts.Range))
		}
		s.hasRange = true
	}

	s.clamp = opts.Clamp

	if opts.Interpolate != nil {
		it, err := ParseInterpolateType(*opts.Interpolate)
		if err != nil {
			return definitionErrorf(s.prop, "%s", err)
		}
		s.interpolate = it
	}

	s.exponent = opts.Exponent

	for _, kv := range []struct {
		key string
		v   any
	}{{"default", opts.Default}, {"unknown", opts.Unknown}} {
		if _, ok := m[kv.key]; !ok {
			continue
		}
		if !isScalar(kv.v) {
			return definitionErrorf(s.prop, "scale %s value must be a scalar, got %s", kv.key, typeName(kv.v))
		}
		s.defaultValue, s.hasDefault = kv.v, true
	}

	if _, ok := m["null"]; ok {
		s.nullValue, s.hasNull = opts.Null, true
	}
	if _, ok := m["nullValue"]; ok {
		s.nullValue, s.hasNull = opts.NullValue, true
	}

	var err error
	if s.minDensityCnt, err = s.densityBound(m, "minDensityCnt", opts.MinDensityCnt, DefaultMinDensityCnt); err != nil {
		return err
	}
	if s.maxDensityCnt, err = s.densityBound(m, "maxDensityCnt", opts.MaxDensityCnt, DefaultMaxDensityCnt); err != nil {
		return err
	}
	return nil
}

func (s *ScaleDefinition) parseDomain(v any) error {
	if str, ok := v.(string); ok {
		s.domain = str
		return nil
	}
	l, ok := asList(v)
	if !ok {
		return definitionErrorf(s.prop, "scale domain must be an array or keyword, got %s", typeName(v))
	}
	if len(l) == 0 {
		return definitionErrorf(s.prop, "scale domain must not be empty")
	}
	s.domain = l
	return nil
}

// densityBound reads a density count bound: a number or a std-dev keyword
// such as "-2ndStdDev".
func (s *ScaleDefinition) densityBound(m map[string]any, key string, v any, def string) (any, error) {
	if _, ok := m[key]; !ok {
		return def, nil
	}
	if f, ok := asNumber(v); ok {
		return f, nil
	}
	if str, ok := v.(string); ok && isStdDevKeyword(str) {
		return str, nil
	}
	return nil, definitionErrorf(s.prop, "%s must be a number or a std-dev keyword like %q, got %v", key, DefaultMaxDensityCnt, v)
}

var ordinalSuffixes = [...]string{"1st", "2nd", "3rd", "4th", "5th", "6th"}

func isStdDevKeyword(s string) bool {
	s = strings.TrimPrefix(s, "-")
	for _, suffix := range ordinalSuffixes {
		if s == suffix+"StdDev" {
			return true
		}
	}
	return false
}

// Kind returns the scale's kind.
func (s *ScaleDefinition) Kind() ScaleKind {
	return s.Type.Kind()
}

// Materialize validates the scale against desc and measurement type m and
// emits it, plus any extent transform its domain needs, into out. It
// returns the scale's name.
func (s *ScaleDefinition) Materialize(ctx *Context, desc PropDescriptor, m MeasurementType, out *vega.PropertyOutputState) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	if !s.typeSet {
		s.Type = DefaultScaleType(m)
	}
	kind := s.Kind()
	if !kind.Accepts(m) {
		return "", &CompatibilityError{Prop: s.prop, Scale: s.Type, Measurement: m, Required: kind.required()}
	}
	if s.Name == "" {
		s.Name = ctx.layerName() + "_" + s.prop
	}

	rng, err := s.materializeRange()
	if err != nil {
		return "", err
	}
	scale := vega.Scale{Name: s.Name, Type: s.Type.String(), Range: rng}

	switch d := s.domain.(type) {
	case string:
		if err := s.materializeDomainFromKeyword(ctx, desc, d, &scale, out); err != nil {
			return "", err
		}
	default:
		scale.Domain = d
	}

	s.materializeExtra(ctx, desc, &scale)
	if s.hasNull {
		scale.NullValue = s.nullValue
	}

	if err := out.AddScale(scale); err != nil {
		return "", fmt.Errorf("property %q: %w", s.prop, err)
	}
	ctx.logger().Debug("scale materialized",
		slog.String("scale", scale.Name),
		slog.String("type", scale.Type),
		slog.String("prop", s.prop))
	return scale.Name, nil
}

// materializeRange resolves the range. Only literal arrays are legal.
func (s *ScaleDefinition) materializeRange() ([]any, error) {
	if !s.hasRange {
		return nil, fmt.Errorf("property %q: %s scale %q requires a range", s.prop, s.Type, s.Name)
	}
	if kw, ok := s.rng.(string); ok {
		return nil, fmt.Errorf("property %q: %q is not a valid range keyword for scale type %s", s.prop, kw, s.Type)
	}
	rng := s.rng.([]any)
	if len(rng) == 0 {
		return nil, fmt.Errorf("property %q: scale %q range must not be empty", s.prop, s.Name)
	}
	return rng, nil
}

func (s *ScaleDefinition) materializeDomainFromKeyword(ctx *Context, desc PropDescriptor, kw string, scale *vega.Scale, out *vega.PropertyOutputState) error {
	switch {
	case kw == DomainAuto:
		return s.materializeAutoDomain(ctx, scale, out)
	case kw == DomainDensity && s.Kind() == Continuous:
		if !desc.IsColor() {
			return fmt.Errorf("property %q: density accumulation scales can only be applied to color properties", s.prop)
		}
		scale.Accumulator = AccumulatorDensity.String()
		scale.MinDensityCnt = s.minDensityCnt
		scale.MaxDensityCnt = s.maxDensityCnt
		scale.Domain = densityDomain(len(scale.Range))
		return nil
	default:
		return fmt.Errorf("property %q: %q is not a valid domain keyword for scale type %s", s.prop, kw, s.Type)
	}
}

// densityDomain spreads n stops evenly over [0, 1].
func densityDomain(n int) []any {
	if n == 1 {
		return []any{0.0}
	}
	domain := make([]any, n)
	for i := range domain {
		domain[i] = float64(i) / float64(n-1)
	}
	return domain
}

func (s *ScaleDefinition) materializeAutoDomain(ctx *Context, scale *vega.Scale, out *vega.PropertyOutputState) error {
	xform := s.Name + "_xform"
	source := ctx.layerName()

	var (
		t      vega.Transform
		fields []string
		err    error
	)
	switch s.Type {
	case ScaleOrdinal:
		as := "distinct_" + s.prop
		t = vega.Transform{
			Name:   xform,
			Source: source,
			Transform: []vega.Stage{
				&vega.Aggregate{Fields: []string{s.prop}, Ops: []string{"distinct"}, As: []string{as}},
			},
		}
		scale.Domain = vega.DataRef{Data: xform, Field: as}
	case ScaleThreshold:
		t, fields, err = buildThresholdExtents(xform, source, s.prop, len(scale.Range))
	case ScaleQuantize:
		t, fields, err = buildClampedExtents(xform, source, s.prop, 0)
	default:
		subdivisions := len(scale.Range) - 2
		if subdivisions > MaxAutoSubdivisions {
			return fmt.Errorf("property %q: too many ranges to auto-fill a domain (%d interior stops, max %d)",
				s.prop, subdivisions, MaxAutoSubdivisions)
		}
		t, fields, err = buildClampedExtents(xform, source, s.prop, max(subdivisions, 0))
	}
	if err != nil {
		return fmt.Errorf("property %q: %w", s.prop, err)
	}
	if fields != nil {
		scale.Domain = vega.DataRef{Data: xform, Fields: fields}
	}

	if err := out.AddTransform(t); err != nil {
		return fmt.Errorf("property %q: %w", s.prop, err)
	}
	ctx.logger().Debug("extent transform built",
		slog.String("transform", t.Name),
		slog.String("scale", s.Name),
		slog.Any("fields", fields))
	return nil
}

// buildClampedExtents builds the two-sigma band clamped to the data's
// min and max, split into subdivisions interior stops.
func buildClampedExtents(name, source, field string, subdivisions int) (vega.Transform, []string, error) {
	var lo, hi string
	insert := func(b *ExtentBuilder, flag ExtentFlags, outputs []string) error {
		switch {
		case flag.IsSigma():
			lo, hi = outputs[0], outputs[1]
		case flag == ExtentMin:
			if lo == "" {
				lo = outputs[0]
			} else {
				lo = b.Formula(fmt.Sprintf("max(%s, %s)", outputs[0], lo), field+"_extent_lo")
			}
		case flag == ExtentMax:
			if hi == "" {
				hi = outputs[0]
			} else {
				hi = b.Formula(fmt.Sprintf("min(%s, %s)", outputs[0], hi), field+"_extent_hi")
			}
		}
		return nil
	}

	var fields []string
	complete := func(b *ExtentBuilder) error {
		fields = append(fields, lo)
		for i := 1; i <= subdivisions; i++ {
			fields = append(fields, b.Formula(
				fmt.Sprintf("%s + (%s - %s) * %d / %d", lo, hi, lo, i, subdivisions+1),
				fmt.Sprintf("%s_extent_stop%d", field, i)))
		}
		fields = append(fields, hi)
		return nil
	}

	t, err := BuildExtentsTransform(name, source, field, TwoSigma|ExtentMin|ExtentMax, insert, complete)
	return t, fields, err
}

// buildThresholdExtents builds ascending sigma breakpoints for a threshold
// scale with rangeLen outputs. The mean is the middle breakpoint when
// rangeLen is even.
func buildThresholdExtents(name, source, field string, rangeLen int) (vega.Transform, []string, error) {
	if maxLen := 2 * (MaxSigma + 1); rangeLen > maxLen {
		return vega.Transform{}, nil, fmt.Errorf(
			"cannot automatically deduce a threshold domain for %d range values, the max number of ranges is %d",
			rangeLen, maxLen)
	}
	if rangeLen < 2 {
		return vega.Transform{}, nil, fmt.Errorf(
			"cannot automatically deduce a threshold domain for %d range values, at least 2 are required", rangeLen)
	}

	var flags ExtentFlags
	sigmas := (rangeLen+1)/2 - 1
	for k := 1; k <= sigmas; k++ {
		flags |= SigmaFlag(k)
	}
	if rangeLen%2 == 0 {
		flags |= ExtentMean
	}

	var fields []string
	insert := func(_ *ExtentBuilder, flag ExtentFlags, outputs []string) error {
		if flag.IsSigma() {
			fields = append([]string{outputs[0]}, fields...)
			fields = append(fields, outputs[1])
			return nil
		}
		mid := len(fields) / 2
		fields = append(fields[:mid], append([]string{outputs[0]}, fields[mid:]...)...)
		return nil
	}

	t, err := BuildExtentsTransform(name, source, field, flags, insert, nil)
	return t, fields, err
}

// materializeExtra applies the kind-specific properties.
func (s *ScaleDefinition) materializeExtra(ctx *Context, desc PropDescriptor, scale *vega.Scale) {
	switch s.Kind() {
	case Continuous:
		clamp := true
		if s.clamp != nil {
			clamp = *s.clamp
		}
		if scale.Accumulator == AccumulatorDensity.String() && !clamp {
			ctx.logger().Debug("forcing clamp on density scale", slog.String("scale", s.Name))
			clamp = true
		}
		scale.Clamp = &clamp

		if desc.IsColor() && s.interpolate != InterpolateAuto {
			scale.Interpolator = s.interpolate.String()
		}
		if s.Type == ScalePow {
			exponent := 1.0
			if s.exponent != nil {
				exponent = *s.exponent
			}
			scale.Exponent = &exponent
		}
	case Discrete:
		if s.hasDefault {
			scale.Default = s.defaultValue
		}
	}
}
