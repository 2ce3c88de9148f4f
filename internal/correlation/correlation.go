// Package correlation computes pairwise-complete Pearson correlation matrices.
package correlation

import (
	"math"
	"sort"

	"github.com/KaramelBytes/statify-cli/internal/dataset"
	"gonum.org/v1/gonum/stat"
)

// Matrix holds a symmetric Pearson correlation matrix across numeric columns.
type Matrix struct {
	Columns []string                      `json:"columns"`
	Values  map[string]map[string]float64 `json:"values"`
}

// Pair is an unordered pair of distinct columns with their coefficient.
type Pair struct {
	A, B string
	R    float64
}

// Compute correlates every pair of the given columns using only the rows where
// both values are present. Pairs with fewer than two such rows, or a
// zero-variance side, get r = 0. The diagonal is 1 by definition.
// Cost is O(len(ids)^2 * rows).
func Compute(ds *dataset.Dataset, ids []string) *Matrix {
	m := &Matrix{
		Columns: append([]string(nil), ids...),
		Values:  make(map[string]map[string]float64, len(ids)),
	}
	for _, id := range ids {
		m.Values[id] = make(map[string]float64, len(ids))
		m.Values[id][id] = 1
	}
	rows := ds.Rows()
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			a, b := ids[i], ids[j]
			r := pairwise(rows, a, b)
			m.Values[a][b] = r
			m.Values[b][a] = r
		}
	}
	return m
}

func pairwise(rows []dataset.Record, a, b string) float64 {
	xs := make([]float64, 0, len(rows))
	ys := make([]float64, 0, len(rows))
	for _, row := range rows {
		va, vb := row[a], row[b]
		if va.IsMissing() || vb.IsMissing() {
			continue
		}
		x, okx := va.Float()
		y, oky := vb.Float()
		if !okx || !oky {
			continue
		}
		xs = append(xs, x)
		ys = append(ys, y)
	}
	return Pearson(xs, ys)
}

// Pearson returns the correlation of two equal-length samples, or 0 when it is undefined.
func Pearson(xs, ys []float64) float64 {
	if len(xs) < 2 || len(xs) != len(ys) {
		return 0
	}
	if constant(xs) || constant(ys) {
		return 0
	}
	r := stat.Correlation(xs, ys, nil)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0
	}
	return math.Max(-1, math.Min(1, r))
}

func constant(xs []float64) bool {
	for _, x := range xs[1:] {
		if x != xs[0] {
			return false
		}
	}
	return true
}

// Get returns r for a pair; ok is false when either column is not in the matrix.
func (m *Matrix) Get(a, b string) (float64, bool) {
	if m == nil {
		return 0, false
	}
	row, ok := m.Values[a]
	if !ok {
		return 0, false
	}
	r, ok := row[b]
	return r, ok
}

// Pairs lists unordered distinct pairs in column order.
func (m *Matrix) Pairs() []Pair {
	if m == nil {
		return nil
	}
	var out []Pair
	for i := 0; i < len(m.Columns); i++ {
		for j := i + 1; j < len(m.Columns); j++ {
			a, b := m.Columns[i], m.Columns[j]
			out = append(out, Pair{A: a, B: b, R: m.Values[a][b]})
		}
	}
	return out
}

// TopPairs returns up to n pairs ordered by |r| descending.
func (m *Matrix) TopPairs(n int) []Pair {
	pairs := m.Pairs()
	sort.SliceStable(pairs, func(i, j int) bool {
		return math.Abs(pairs[i].R) > math.Abs(pairs[j].R)
	})
	if n >= 0 && len(pairs) > n {
		pairs = pairs[:n]
	}
	return pairs
}
