package encoding

import (
	"fmt"
	"strconv"

	"github.com/mapd/vlcompile/pkg/vega"
)

// ExtentFlags is a set of statistical aggregates used to derive a domain.
type ExtentFlags uint16

// ExtentFlags values, in canonical build order.
const (
	OneSigma ExtentFlags = 1 << iota
	TwoSigma
	ThreeSigma
	FourSigma
	FiveSigma
	SixSigma
	ExtentMin
	ExtentMean
	ExtentMax
)

// MaxSigma is the largest sigma factor with a flag.
const MaxSigma = 6

// AllSigmas is the set of every sigma flag.
const AllSigmas = OneSigma | TwoSigma | ThreeSigma | FourSigma | FiveSigma | SixSigma

var extentOrder = [...]ExtentFlags{
	OneSigma, TwoSigma, ThreeSigma, FourSigma, FiveSigma, SixSigma,
	ExtentMin, ExtentMean, ExtentMax,
}

// SigmaFlag returns the flag for sigma factor k (1..MaxSigma).
func SigmaFlag(k int) ExtentFlags {
	if k < 1 || k > MaxSigma {
		return 0
	}
	return OneSigma << (k - 1)
}

// Has reports whether every flag in other is set in f.
func (f ExtentFlags) Has(other ExtentFlags) bool {
	return other != 0 && f&other == other
}

// IsSigma reports whether f is a single sigma flag.
func (f ExtentFlags) IsSigma() bool {
	return f != 0 && f&AllSigmas == f && f&(f-1) == 0
}

// Sigma returns the sigma factor of a single sigma flag, or 0.
func (f ExtentFlags) Sigma() int {
	if !f.IsSigma() {
		return 0
	}
	k := 1
	for flag := OneSigma; flag != f; flag <<= 1 {
		k++
	}
	return k
}

// Op returns the aggregate op behind a single flag.
func (f ExtentFlags) Op() string {
	switch {
	case f.IsSigma():
		return "stddev"
	case f == ExtentMin:
		return "min"
	case f == ExtentMean:
		return "avg"
	case f == ExtentMax:
		return "max"
	default:
		return ""
	}
}

func (f ExtentFlags) String() string {
	switch {
	case f.IsSigma():
		return strconv.Itoa(f.Sigma()) + "sigma"
	case f == ExtentMin, f == ExtentMax:
		return f.Op()
	case f == ExtentMean:
		return "mean"
	}
	var s string
	for _, flag := range extentOrder {
		if f.Has(flag) {
			if s != "" {
				s += "|"
			}
			s += flag.String()
		}
	}
	if s == "" {
		return "none"
	}
	return s
}

// ExtentBuilder assembles an extent transform: one aggregate stage with
// each op computed once, followed by formula stages.
type ExtentBuilder struct {
	field    string
	agg      *vega.Aggregate
	formulas []*vega.Formula
}

// Aggregate adds op over the builder's field unless already present and
// returns its output name, e.g. "avg_color".
func (b *ExtentBuilder) Aggregate(op string) string {
	return b.agg.Add(b.field, op, op+"_"+b.field)
}

// Formula appends a formula stage and returns its output name.
func (b *ExtentBuilder) Formula(expr, as string) string {
	b.formulas = append(b.formulas, &vega.Formula{Expr: expr, As: as})
	return as
}

// Field returns the field the extents are computed over.
func (b *ExtentBuilder) Field() string {
	return b.field
}

// ExtentInsertFunc receives the outputs computed for one flag: the negative
// and positive bounds for a sigma flag, the single aggregate otherwise.
type ExtentInsertFunc func(b *ExtentBuilder, flag ExtentFlags, outputs []string) error

// ExtentCompleteFunc finalizes the domain once every flag was inserted.
type ExtentCompleteFunc func(b *ExtentBuilder) error

// BuildExtentsTransform builds the transform named name over source that
// computes the extents in flags for field. Flags are visited in canonical
// order: sigma 1 through 6, then min, mean and max.
func BuildExtentsTransform(name, source, field string, flags ExtentFlags,
	insert ExtentInsertFunc, complete ExtentCompleteFunc) (vega.Transform, error) {
	if flags == 0 {
		return vega.Transform{}, fmt.Errorf("extent transform %q requests no extents", name)
	}

	b := &ExtentBuilder{field: field, agg: &vega.Aggregate{}}
	for _, flag := range extentOrder {
		if !flags.Has(flag) {
			continue
		}

		var outputs []string
		if flag.IsSigma() {
			k := flag.Sigma()
			avg := b.Aggregate("avg")
			stddev := b.Aggregate(flag.Op())
			outputs = []string{
				b.Formula(fmt.Sprintf("%s - %d * %s", avg, k, stddev), fmt.Sprintf("%s_sigma_neg%d", field, k)),
				b.Formula(fmt.Sprintf("%s + %d * %s", avg, k, stddev), fmt.Sprintf("%s_sigma_pos%d", field, k)),
			}
		} else {
			outputs = []string{b.Aggregate(flag.Op())}
		}

		if insert != nil {
			if err := insert(b, flag, outputs); err != nil {
				return vega.Transform{}, err
			}
		}
	}
	if complete != nil {
		if err := complete(b); err != nil {
			return vega.Transform{}, err
		}
	}

	stages := make([]vega.Stage, 0, 1+len(b.formulas))
	stages = append(stages, b.agg)
	for _, f := range b.formulas {
		stages = append(stages, f)
	}
	return vega.Transform{Name: name, Source: source, Transform: stages}, nil
}
