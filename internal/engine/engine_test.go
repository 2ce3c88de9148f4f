package engine

import (
	"encoding/json"
	"testing"

	"github.com/KaramelBytes/statify-cli/internal/dataset"
	"github.com/KaramelBytes/statify-cli/internal/mutate"
	"github.com/KaramelBytes/statify-cli/internal/profile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func rows() []dataset.Record {
	n := dataset.Number
	s := dataset.String
	return []dataset.Record{
		{"price": n(10), "qty": n(1), "score": n(3), "city": s("Oslo")},
		{"price": n(20), "qty": n(2), "score": n(1), "city": s("Bergen")},
		{"price": n(30), "qty": n(3), "score": dataset.Null(), "city": s("Oslo")},
		{"price": n(40), "qty": n(4), "score": n(2), "city": s("")},
		{"price": n(50), "qty": n(5), "score": n(5), "city": s("Tromsø")},
	}
}

func loaded(t *testing.T) *Engine {
	t.Helper()
	e := New(WithLogger(zap.NewNop()))
	_, err := e.Load(rows(), Metadata{FileName: "shop.csv", FileSize: 123})
	require.NoError(t, err)
	return e
}

func TestLoadPublishesState(t *testing.T) {
	e := loaded(t)
	st := e.State()
	require.NotNil(t, st)
	assert.Equal(t, 5, st.Stats.RowCount)
	assert.Equal(t, 4, st.Stats.ColumnCount)
	assert.Equal(t, "shop.csv", st.Stats.FileName)
	assert.Equal(t, int64(123), st.Stats.FileSize)
	assert.InDelta(t, 90.0, st.Stats.Health, 1e-9)

	ids := make([]string, len(st.Columns))
	for i, c := range st.Columns {
		ids[i] = c.ID
	}
	assert.Equal(t, []string{"city", "price", "qty", "score"}, ids)

	r, ok := st.Correlations.Get("price", "qty")
	require.True(t, ok)
	assert.InDelta(t, 1.0, r, 1e-12)
	_, ok = st.Correlations.Get("price", "city")
	assert.False(t, ok, "string columns are not correlated")

	require.NotEmpty(t, st.Insights)
	assert.Equal(t, "missing-values", st.Insights[0].ID)
}

func TestLoadRejectsNilRecord(t *testing.T) {
	e := New()
	_, err := e.Load([]dataset.Record{{"a": dataset.Number(1)}, nil}, Metadata{})
	assert.ErrorIs(t, err, ErrInvalidRecord)
	assert.Nil(t, e.State())
}

func TestMutateWithoutDataset(t *testing.T) {
	e := New()
	_, err := e.Drop("x")
	assert.ErrorIs(t, err, ErrNoDataset)
	_, err = e.FitRegression("a", "b")
	assert.ErrorIs(t, err, ErrNoDataset)
}

func TestImputeRecomputes(t *testing.T) {
	e := loaded(t)
	before := e.State()
	after, err := e.Impute("score", mutate.StrategyZero)
	require.NoError(t, err)
	assert.NotSame(t, before, after)

	score, ok := profile.Find(after.Columns, "score")
	require.True(t, ok)
	assert.Equal(t, 0, score.Stats.MissingCount)

	// The earlier bundle is left intact.
	old, _ := profile.Find(before.Columns, "score")
	assert.Equal(t, 1, old.Stats.MissingCount)
}

func TestImputeUnknownColumn(t *testing.T) {
	e := loaded(t)
	before := e.State()
	_, err := e.Impute("nope", mutate.StrategyMean)
	assert.ErrorIs(t, err, ErrUnknownColumn)
	assert.Same(t, before, e.State())
}

func TestNonNumericMutationIsSkipped(t *testing.T) {
	e := loaded(t)
	before := e.State()
	st, err := e.Transform("city", mutate.KindLog)
	require.NoError(t, err)
	assert.Same(t, before, st)
}

func TestDropRemovesCorrelationEntries(t *testing.T) {
	e := loaded(t)
	st, err := e.Drop("qty")
	require.NoError(t, err)
	assert.Equal(t, 3, st.Stats.ColumnCount)
	_, ok := st.Correlations.Get("price", "qty")
	assert.False(t, ok)
	_, ok = st.Correlations.Get("qty", "qty")
	assert.False(t, ok)
	assert.False(t, e.Dataset().HasColumn("qty"))

	same, err := e.Drop("qty")
	require.NoError(t, err)
	assert.Same(t, st, same)
}

func TestTransformNormalize(t *testing.T) {
	e := loaded(t)
	st, err := e.Transform("price", mutate.KindNormalize)
	require.NoError(t, err)
	price, ok := profile.Find(st.Columns, "price")
	require.True(t, ok)
	assert.InDelta(t, 0.0, price.Stats.Numeric.Min, 1e-12)
	assert.InDelta(t, 1.0, price.Stats.Numeric.Max, 1e-12)
}

func TestRegressionUsesFilter(t *testing.T) {
	e := loaded(t)
	res, err := e.FitRegression("qty", "price")
	require.NoError(t, err)
	assert.InDelta(t, 10.0, res.Slope, 1e-9)
	assert.Len(t, res.Points, 5)

	e.SetFilter(dataset.Filter{Columns: map[string]string{"city": "oslo"}})
	assert.Len(t, e.Filtered(), 2)
	res, err = e.FitRegression("qty", "price")
	require.NoError(t, err)
	assert.Len(t, res.Points, 2)

	// Profiling ignores the filter.
	assert.Equal(t, 5, e.State().Stats.RowCount)

	e.SetFilter(dataset.Filter{Search: "bergen"})
	_, err = e.FitRegression("qty", "price")
	assert.ErrorIs(t, err, ErrUnavailable)

	_, err = e.FitRegression("qty", "missing")
	assert.ErrorIs(t, err, ErrUnknownColumn)
}

func TestRunClustering(t *testing.T) {
	e := New(WithMaxIterations(10))
	_, err := e.Load(rows(), Metadata{})
	require.NoError(t, err)

	res, err := e.RunClustering([]string{"price", "qty"}, 2)
	require.NoError(t, err)
	assert.Len(t, res.Assignments, 5)
	assert.LessOrEqual(t, res.Iterations, 10)

	_, err = e.RunClustering([]string{"price", "qty"}, 9)
	assert.ErrorIs(t, err, ErrUnavailable)
	_, err = e.RunClustering([]string{"price", "ghost"}, 2)
	assert.ErrorIs(t, err, ErrUnknownColumn)
}

func TestLoadResetsFilter(t *testing.T) {
	e := loaded(t)
	e.SetFilter(dataset.Filter{Search: "oslo"})
	_, err := e.Load(rows(), Metadata{})
	require.NoError(t, err)
	assert.True(t, e.Filter().IsZero())
}

func TestDropPrunesFilter(t *testing.T) {
	e := loaded(t)
	e.SetFilter(dataset.Filter{Columns: map[string]string{"city": "oslo"}})
	res, err := e.FitRegression("qty", "price")
	require.NoError(t, err)
	assert.Len(t, res.Points, 2)

	_, err = e.Drop("city")
	require.NoError(t, err)
	assert.True(t, e.Filter().IsZero())
	res, err = e.FitRegression("qty", "price")
	require.NoError(t, err)
	assert.Len(t, res.Points, 5)
}

func TestSetFilterIgnoresUnknownColumns(t *testing.T) {
	e := loaded(t)
	e.SetFilter(dataset.Filter{Columns: map[string]string{"ghost": "x", "city": "oslo"}})
	assert.Equal(t, map[string]string{"city": "oslo"}, e.Filter().Columns)
	assert.Len(t, e.Filtered(), 2)
}

func TestHugeValuesStayFinite(t *testing.T) {
	e := New()
	st, err := e.Load([]dataset.Record{
		{"huge": dataset.Number(1e308)},
		{"huge": dataset.Number(1e308)},
	}, Metadata{})
	require.NoError(t, err)
	n := st.Columns[0].Stats.Numeric
	require.NotNil(t, n)
	assert.Equal(t, 1e308, n.Mean)
	assert.Equal(t, 1e308, n.Median)
	assert.Equal(t, 0.0, n.StdDev)

	_, err = json.Marshal(st)
	assert.NoError(t, err)
}

func TestHistogramUsesFilteredRows(t *testing.T) {
	e := loaded(t)
	hist, err := e.Histogram("price")
	require.NoError(t, err)
	require.Len(t, hist, profile.HistogramBins+1)
	assert.Equal(t, 10.0, hist[0].Lower)
	assert.Equal(t, 1, hist[0].Count)
	assert.Equal(t, 1, hist[10].Count)

	e.SetFilter(dataset.Filter{Columns: map[string]string{"city": "oslo"}})
	hist, err = e.Histogram("price")
	require.NoError(t, err)
	total := 0
	for _, b := range hist {
		total += b.Count
	}
	assert.Equal(t, 2, total)

	hist, err = e.Histogram("city")
	require.NoError(t, err)
	assert.Nil(t, hist)
	_, err = e.Histogram("ghost")
	assert.ErrorIs(t, err, ErrUnknownColumn)
}
