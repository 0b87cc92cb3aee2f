package extent

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/mapd/vlcompile/pkg/vega"
)

// Querier runs SQL against a database. Adapters satisfy it.
type Querier interface {
	Query(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// quoteIdent double-quotes an output name for use as a column alias.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func aggregateSQL(op, expr string) (string, error) {
	var call string
	switch op {
	case "min", "max", "avg", "count":
		call = op + "(" + expr + ")"
	case "mean":
		call = "avg(" + expr + ")"
	case "stddev":
		call = "stddev_samp(" + expr + ")"
	default:
		return "", fmt.Errorf("unsupported aggregate %q", op)
	}
	return "CAST(" + call + " AS DOUBLE PRECISION)", nil
}

// AggregateQuery renders the single SELECT that computes every scalar op
// of agg over expr. It reports false when agg has no scalar ops.
func AggregateQuery(table, expr string, agg *vega.Aggregate) (string, bool, error) {
	var cols []string
	for i, op := range agg.Ops {
		if op == "distinct" {
			continue
		}
		call, err := aggregateSQL(op, expr)
		if err != nil {
			return "", false, err
		}
		cols = append(cols, call+" AS "+quoteIdent(agg.As[i]))
	}
	if len(cols) == 0 {
		return "", false, nil
	}
	return "SELECT " + strings.Join(cols, ", ") + " FROM " + table, true, nil
}

// DistinctQuery renders the query listing the distinct non-null values
// of expr in ascending order.
func DistinctQuery(table, expr, as string) string {
	return fmt.Sprintf("SELECT DISTINCT %s AS %s FROM %s WHERE %s IS NOT NULL ORDER BY 1",
		expr, quoteIdent(as), table, expr)
}

// Query evaluates t against table, with expr as the SQL for the
// transform's field. Aggregates run in the database; formula stages are
// evaluated locally over the fetched values.
func Query(ctx context.Context, q Querier, table, expr string, t vega.Transform) (*Result, error) {
	res := newResult()
	for _, stage := range t.Transform {
		switch s := stage.(type) {
		case *vega.Aggregate:
			if err := res.queryAggregate(ctx, q, table, expr, s); err != nil {
				return nil, fmt.Errorf("transform %q: %w", t.Name, err)
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

func (r *Result) queryAggregate(ctx context.Context, q Querier, table, expr string, agg *vega.Aggregate) error {
	query, ok, err := AggregateQuery(table, expr, agg)
	if err != nil {
		return err
	}
	if ok {
		if err := r.scanScalars(ctx, q, query, agg); err != nil {
			return err
		}
	}

	for i, op := range agg.Ops {
		if op != "distinct" {
			continue
		}
		set, err := querySet(ctx, q, DistinctQuery(table, expr, agg.As[i]))
		if err != nil {
			return err
		}
		r.sets[agg.As[i]] = set
	}
	return nil
}

func (r *Result) scanScalars(ctx context.Context, q Querier, query string, agg *vega.Aggregate) error {
	rows, err := q.Query(ctx, query)
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()

	var names []string
	for i, op := range agg.Ops {
		if op != "distinct" {
			names = append(names, agg.As[i])
		}
	}
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return err
		}
		return fmt.Errorf("aggregate query returned no rows")
	}

	vals := make([]sql.NullFloat64, len(names))
	dest := make([]any, len(names))
	for i := range vals {
		dest[i] = &vals[i]
	}
	if err := rows.Scan(dest...); err != nil {
		return fmt.Errorf("failed to scan aggregates: %w", err)
	}
	for i, name := range names {
		if !vals[i].Valid {
			return fmt.Errorf("aggregate %q is NULL, the source has no non-null values", name)
		}
		r.scalars[name] = vals[i].Float64
	}
	return rows.Err()
}

func querySet(ctx context.Context, q Querier, query string) ([]any, error) {
	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	set := []any{}
	for rows.Next() {
		var v any
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("failed to scan distinct value: %w", err)
		}
		if b, ok := v.([]byte); ok {
			v = string(b)
		}
		set = append(set, v)
	}
	return set, rows.Err()
}
