// Package extent evaluates the extent transforms produced by encoding
// compilation, either over an in-memory sample or against a database,
// and resolves scale domains that reference them.
package extent

import (
	"fmt"
	"math"
	"slices"

	"github.com/aclements/go-moremath/stats"

	"github.com/mapd/vlcompile/pkg/vega"
)

// Result holds the outputs of one evaluated transform.
type Result struct {
	scalars map[string]float64
	sets    map[string][]any
}

func newResult() *Result {
	return &Result{scalars: map[string]float64{}, sets: map[string][]any{}}
}

// Value returns a scalar output.
func (r *Result) Value(name string) (float64, bool) {
	v, ok := r.scalars[name]
	return v, ok
}

// Set returns a distinct-value output.
func (r *Result) Set(name string) ([]any, bool) {
	v, ok := r.sets[name]
	return v, ok
}

// Names returns every output name, sorted.
func (r *Result) Names() []string {
	names := make([]string, 0, len(r.scalars)+len(r.sets))
	for n := range r.scalars {
		names = append(names, n)
	}
	for n := range r.sets {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Domain resolves a data reference into literal domain values. A Field
// naming a distinct-value output expands to the whole set.
func (r *Result) Domain(ref vega.DataRef) ([]any, error) {
	if ref.Field != "" && len(ref.Fields) == 0 {
		if set, ok := r.sets[ref.Field]; ok {
			return set, nil
		}
	}
	var domain []any
	for _, name := range ref.Names() {
		v, ok := r.scalars[name]
		if !ok {
			return nil, fmt.Errorf("data %q has no output %q", ref.Data, name)
		}
		domain = append(domain, v)
	}
	return domain, nil
}

// Compute evaluates t over an in-memory sample of the transform's field.
func Compute(t vega.Transform, values []float64) (*Result, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("transform %q: cannot compute extents of an empty sample", t.Name)
	}
	res := newResult()
	for _, stage := range t.Transform {
		switch s := stage.(type) {
		case *vega.Aggregate:
			for i, op := range s.Ops {
				if op == "distinct" {
					res.sets[s.As[i]] = distinct(values)
					continue
				}
				v, err := aggregate(op, values)
				if err != nil {
					return nil, fmt.Errorf("transform %q: %w", t.Name, err)
				}
				res.scalars[s.As[i]] = v
			}
		case *vega.Formula:
			if err := res.formula(s); err != nil {
				return nil, fmt.Errorf("transform %q: %w", t.Name, err)
			}
		default:
			return nil, fmt.Errorf("transform %q: unsupported stage %q", t.Name, stage.StageType())
		}
	}
	return res, nil
}

func (r *Result) formula(f *vega.Formula) error {
	v, err := Eval(f.Expr, r.scalars)
	if err != nil {
		return err
	}
	r.scalars[f.As] = v
	return nil
}

func aggregate(op string, values []float64) (float64, error) {
	switch op {
	case "min":
		lo, _ := stats.Bounds(values)
		return lo, nil
	case "max":
		_, hi := stats.Bounds(values)
		return hi, nil
	case "avg", "mean":
		return stats.Mean(values), nil
	case "stddev":
		sd := stats.StdDev(values)
		if math.IsNaN(sd) {
			return 0, nil
		}
		return sd, nil
	case "count":
		return float64(len(values)), nil
	}
	return 0, fmt.Errorf("unsupported aggregate %q", op)
}

func distinct(values []float64) []any {
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)
	out := make([]any, len(sorted))
	for i, v := range sorted {
		out[i] = v
	}
	return out
}
