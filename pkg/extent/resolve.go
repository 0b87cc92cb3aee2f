package extent

import (
	"context"
	"fmt"

	"github.com/mapd/vlcompile/pkg/vega"
)

// Evaluator computes the outputs of t, whose aggregates are over field.
type Evaluator func(ctx context.Context, t vega.Transform, field string) (*Result, error)

// DatabaseEvaluator evaluates transforms against table. A field projected
// by one of sqlTransforms is computed over the projected expression.
func DatabaseEvaluator(q Querier, table string, sqlTransforms []vega.SQLTransform) Evaluator {
	exprs := make(map[string]string, len(sqlTransforms))
	for _, st := range sqlTransforms {
		exprs[st.As] = st.Expr
	}
	return func(ctx context.Context, t vega.Transform, field string) (*Result, error) {
		expr, ok := exprs[field]
		if !ok {
			expr = field
		}
		return Query(ctx, q, table, expr, t)
	}
}

// SampleEvaluator evaluates transforms over in-memory samples keyed by field.
func SampleEvaluator(samples map[string][]float64) Evaluator {
	return func(_ context.Context, t vega.Transform, field string) (*Result, error) {
		values, ok := samples[field]
		if !ok {
			return nil, fmt.Errorf("transform %q: no sample for field %q", t.Name, field)
		}
		return Compute(t, values)
	}
}

// Resolve replaces every scale domain in spec that references one of its
// data transforms with the literal values computed by eval. Each
// referenced transform is evaluated once.
func Resolve(ctx context.Context, spec *vega.LayerSpec, eval Evaluator) error {
	transforms := make(map[string]vega.Transform, len(spec.Data))
	for _, t := range spec.Data {
		transforms[t.Name] = t
	}

	results := map[string]*Result{}
	for i := range spec.Scales {
		ref, ok := spec.Scales[i].DomainRef()
		if !ok {
			continue
		}
		res, ok := results[ref.Data]
		if !ok {
			t, found := transforms[ref.Data]
			if !found {
				return fmt.Errorf("scale %q references unknown data %q", spec.Scales[i].Name, ref.Data)
			}
			field, err := transformField(t)
			if err != nil {
				return err
			}
			if res, err = eval(ctx, t, field); err != nil {
				return fmt.Errorf("scale %q: %w", spec.Scales[i].Name, err)
			}
			results[ref.Data] = res
		}

		domain, err := res.Domain(ref)
		if err != nil {
			return fmt.Errorf("scale %q: %w", spec.Scales[i].Name, err)
		}
		spec.Scales[i].Domain = domain
	}
	return nil
}

// transformField returns the single field t aggregates over.
func transformField(t vega.Transform) (string, error) {
	var field string
	for _, stage := range t.Transform {
		agg, ok := stage.(*vega.Aggregate)
		if !ok {
			continue
		}
		for _, f := range agg.Fields {
			if field != "" && f != field {
				return "", fmt.Errorf("transform %q aggregates over more than one field", t.Name)
			}
			field = f
		}
	}
	if field == "" {
		return "", fmt.Errorf("transform %q has no aggregate", t.Name)
	}
	return field, nil
}
