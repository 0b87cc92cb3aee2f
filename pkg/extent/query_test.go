package extent_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/mapd/vlcompile/pkg/extent"
	"github.com/mapd/vlcompile/pkg/vega"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type dbQuerier struct {
	db *sql.DB
}

func (q dbQuerier) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return q.db.QueryContext(ctx, query, args...)
}

func newMock(t *testing.T) (dbQuerier, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return dbQuerier{db: db}, mock
}

const sigmaBandSQL = `SELECT CAST(avg(fact.amount) AS DOUBLE PRECISION) AS "avg_color", ` +
	`CAST(stddev_samp(fact.amount) AS DOUBLE PRECISION) AS "stddev_color", ` +
	`CAST(min(fact.amount) AS DOUBLE PRECISION) AS "min_color", ` +
	`CAST(max(fact.amount) AS DOUBLE PRECISION) AS "max_color" FROM fact`

func TestAggregateQuery(t *testing.T) {
	agg := sigmaBandTransform().Transform[0].(*vega.Aggregate)

	query, ok, err := extent.AggregateQuery("fact", "fact.amount", agg)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, sigmaBandSQL, query)

	_, ok, err = extent.AggregateQuery("fact", "x", &vega.Aggregate{
		Fields: []string{"color"}, Ops: []string{"distinct"}, As: []string{"distinct_color"},
	})
	require.NoError(t, err)
	assert.False(t, ok, "distinct-only aggregates have no scalar query")
}

func TestQuery(t *testing.T) {
	q, mock := newMock(t)
	mock.ExpectQuery(sigmaBandSQL).WillReturnRows(
		sqlmock.NewRows([]string{"avg_color", "stddev_color", "min_color", "max_color"}).
			AddRow(50.0, 10.0, 0.0, 100.0))

	res, err := extent.Query(context.Background(), q, "fact", "fact.amount", sigmaBandTransform())
	require.NoError(t, err)

	domain, err := res.Domain(vega.DataRef{Data: "L_color_xform", Fields: []string{"color_extent_lo", "color_extent_hi"}})
	require.NoError(t, err)
	assert.Equal(t, []any{30.0, 70.0}, domain)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueryNullAggregate(t *testing.T) {
	q, mock := newMock(t)
	mock.ExpectQuery(sigmaBandSQL).WillReturnRows(
		sqlmock.NewRows([]string{"avg_color", "stddev_color", "min_color", "max_color"}).
			AddRow(nil, nil, nil, nil))

	_, err := extent.Query(context.Background(), q, "fact", "fact.amount", sigmaBandTransform())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `aggregate "avg_color" is NULL`)
}

func TestQueryError(t *testing.T) {
	q, mock := newMock(t)
	mock.ExpectQuery(sigmaBandSQL).WillReturnError(assert.AnError)

	_, err := extent.Query(context.Background(), q, "fact", "fact.amount", sigmaBandTransform())
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, err.Error(), `transform "L_color_xform"`)
}

func TestQueryDistinct(t *testing.T) {
	q, mock := newMock(t)
	mock.ExpectQuery(`SELECT DISTINCT carrier AS "distinct_color" FROM flights WHERE carrier IS NOT NULL ORDER BY 1`).
		WillReturnRows(sqlmock.NewRows([]string{"distinct_color"}).AddRow("AA").AddRow([]byte("DL")).AddRow("UA"))

	tr := vega.Transform{
		Name: "L_color_xform",
		Transform: []vega.Stage{
			&vega.Aggregate{Fields: []string{"color"}, Ops: []string{"distinct"}, As: []string{"distinct_color"}},
		},
	}
	res, err := extent.Query(context.Background(), q, "flights", "carrier", tr)
	require.NoError(t, err)

	set, ok := res.Set("distinct_color")
	require.True(t, ok)
	assert.Equal(t, []any{"AA", "DL", "UA"}, set)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolveWithDatabase(t *testing.T) {
	spec := compileColor(t, map[string]any{
		"field": "amount",
		"type":  "quantitative",
		"scale": map[string]any{"type": "quantize", "range": []any{"red", "green", "blue"}},
	})

	q, mock := newMock(t)
	mock.ExpectQuery(`SELECT CAST(avg(amount) AS DOUBLE PRECISION) AS "avg_color", ` +
		`CAST(stddev_samp(amount) AS DOUBLE PRECISION) AS "stddev_color", ` +
		`CAST(min(amount) AS DOUBLE PRECISION) AS "min_color", ` +
		`CAST(max(amount) AS DOUBLE PRECISION) AS "max_color" FROM sales`).
		WillReturnRows(sqlmock.NewRows([]string{"avg_color", "stddev_color", "min_color", "max_color"}).
			AddRow(10.0, 2.0, 1.0, 40.0))

	err := extent.Resolve(context.Background(), &spec, extent.DatabaseEvaluator(q, "sales", spec.SQL))
	require.NoError(t, err)
	assert.Equal(t, []any{6.0, 14.0}, spec.Scales[0].Domain)
	assert.NoError(t, mock.ExpectationsWereMet())
}
