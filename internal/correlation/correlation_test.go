package correlation

import (
	"testing"

	"github.com/KaramelBytes/statify-cli/internal/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func row(kv ...any) dataset.Record {
	r := dataset.Record{}
	for i := 0; i < len(kv); i += 2 {
		switch v := kv[i+1].(type) {
		case float64:
			r[kv[i].(string)] = dataset.Number(v)
		case int:
			r[kv[i].(string)] = dataset.Number(float64(v))
		case nil:
			r[kv[i].(string)] = dataset.Null()
		case string:
			r[kv[i].(string)] = dataset.String(v)
		}
	}
	return r
}

func TestComputeSymmetricUnitDiagonal(t *testing.T) {
	ds, err := dataset.New([]string{"a", "b", "c", "k"}, []dataset.Record{
		row("a", 1, "b", 2, "c", 10, "k", 5),
		row("a", 2, "b", 4, "c", 8, "k", 5),
		row("a", 3, "b", 6, "c", 9, "k", 5),
		row("a", 4, "b", 8, "c", 1, "k", 5),
	})
	require.NoError(t, err)

	m := Compute(ds, []string{"a", "b", "c", "k"})
	for _, x := range m.Columns {
		r, ok := m.Get(x, x)
		require.True(t, ok)
		assert.Equal(t, 1.0, r, "diagonal of %s", x)
		for _, y := range m.Columns {
			rxy, _ := m.Get(x, y)
			ryx, _ := m.Get(y, x)
			assert.Equal(t, rxy, ryx)
			assert.LessOrEqual(t, rxy, 1.0)
			assert.GreaterOrEqual(t, rxy, -1.0)
		}
	}
	ab, _ := m.Get("a", "b")
	assert.InDelta(t, 1.0, ab, 1e-12)
	ac, _ := m.Get("a", "c")
	assert.Less(t, ac, 0.0)
	// Zero variance column falls back to 0, diagonal still 1.
	ak, _ := m.Get("a", "k")
	assert.Equal(t, 0.0, ak)
	kk, _ := m.Get("k", "k")
	assert.Equal(t, 1.0, kk)
}

func TestComputePairwiseComplete(t *testing.T) {
	ds, err := dataset.New([]string{"x", "y", "z"}, []dataset.Record{
		row("x", 1, "y", 1, "z", nil),
		row("x", 2, "y", 2, "z", 5),
		row("x", 3, "y", 3, "z", nil),
		row("x", nil, "y", 9, "z", 1),
	})
	require.NoError(t, err)

	m := Compute(ds, []string{"x", "y", "z"})
	xy, _ := m.Get("x", "y")
	assert.InDelta(t, 1.0, xy, 1e-12, "row with missing x is skipped for x~y only")
	// x and z share a single complete row.
	xz, _ := m.Get("x", "z")
	assert.Equal(t, 0.0, xz)
	// y and z share two complete rows: (2,5) and (9,1).
	yz, _ := m.Get("y", "z")
	assert.InDelta(t, -1.0, yz, 1e-12)
}

func TestGetAbsentColumn(t *testing.T) {
	ds, err := dataset.New([]string{"a"}, []dataset.Record{row("a", 1)})
	require.NoError(t, err)
	m := Compute(ds, []string{"a"})
	_, ok := m.Get("a", "gone")
	assert.False(t, ok)
	_, ok = m.Get("gone", "a")
	assert.False(t, ok)
	var nilMatrix *Matrix
	_, ok = nilMatrix.Get("a", "a")
	assert.False(t, ok)
}

func TestPairsAndTopPairs(t *testing.T) {
	m := &Matrix{
		Columns: []string{"a", "b", "c"},
		Values: map[string]map[string]float64{
			"a": {"a": 1, "b": 0.2, "c": -0.9},
			"b": {"a": 0.2, "b": 1, "c": 0.5},
			"c": {"a": -0.9, "b": 0.5, "c": 1},
		},
	}
	pairs := m.Pairs()
	require.Len(t, pairs, 3)
	assert.Equal(t, Pair{A: "a", B: "b", R: 0.2}, pairs[0])

	top := m.TopPairs(2)
	require.Len(t, top, 2)
	assert.Equal(t, "c", top[0].B)
	assert.Equal(t, -0.9, top[0].R)
	assert.Equal(t, 0.5, top[1].R)
}

func TestPearsonDegenerate(t *testing.T) {
	assert.Equal(t, 0.0, Pearson([]float64{1}, []float64{2}))
	assert.Equal(t, 0.0, Pearson([]float64{1, 2}, []float64{3, 3}))
	assert.Equal(t, 0.0, Pearson([]float64{1, 2}, []float64{3}))
}
