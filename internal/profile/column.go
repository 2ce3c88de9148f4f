package profile

import (
	"math"
	"sort"

	"github.com/KaramelBytes/statify-cli/internal/dataset"
	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
)

const (
	topFrequencies = 10
	// Tukey fence multiplier.
	iqrMultiplier = 1.5
)

// Column computes the stats bag for one column of the dataset. It never fails:
// values that do not parse for the column's type are left out of the aggregates.
func Column(ds *dataset.Dataset, id string, typ ColumnType) Stats {
	return columnStats(ds.Column(id), typ)
}

func columnStats(values []dataset.Value, typ ColumnType) Stats {
	s := Stats{RowCount: len(values)}
	distinct := make(map[string]struct{}, len(values))
	for _, v := range values {
		if v.IsMissing() {
			s.MissingCount++
		}
		distinct[v.Key()] = struct{}{}
	}
	s.UniqueCount = len(distinct)

	switch typ {
	case TypeNumeric:
		s.Numeric = numericStats(values)
	case TypeDate:
		s.DateRange = dateRange(values)
	default:
		s.Categorical = categoricalStats(values, s.UniqueCount, s.RowCount)
	}
	return s
}

// NumericValues returns the finite numbers of a column in row order.
func NumericValues(values []dataset.Value) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if v.IsMissing() {
			continue
		}
		if f, ok := v.Float(); ok {
			out = append(out, f)
		}
	}
	return out
}

func numericStats(values []dataset.Value) *NumericStats {
	nums := NumericValues(values)
	ns := &NumericStats{Count: len(nums)}
	if len(nums) == 0 {
		return ns
	}
	ns.Min, _ = stats.Min(nums)
	ns.Max, _ = stats.Max(nums)
	ns.Median = Median(nums)
	ns.Mean, ns.StdDev = MeanStdDev(nums)

	sorted := make([]float64, len(nums))
	copy(sorted, nums)
	sort.Float64s(sorted)
	n := float64(len(sorted))
	ns.Q1 = sorted[int(math.Floor(n*0.25))]
	ns.Q3 = sorted[int(math.Floor(n*0.75))]
	ns.IQR = finite(ns.Q3 - ns.Q1)
	ns.LowerFence = finite(ns.Q1 - iqrMultiplier*ns.IQR)
	ns.UpperFence = finite(ns.Q3 + iqrMultiplier*ns.IQR)
	for _, x := range sorted {
		if x < ns.LowerFence || x > ns.UpperFence {
			ns.OutlierCount++
		}
	}
	if ns.StdDev != 0 {
		// Halves first so the difference cannot overflow.
		ns.Skewness = finite(6 * (ns.Mean/2 - ns.Median/2) / ns.StdDev)
	}
	return ns
}

// MeanStdDev returns the population mean and standard deviation of nums.
// Inputs near the float64 limit are rescaled by their largest magnitude so
// the result stays finite. An empty slice yields zeros.
func MeanStdDev(nums []float64) (mean, std float64) {
	if len(nums) == 0 {
		return 0, 0
	}
	mean, std = stat.PopMeanStdDev(nums, nil)
	if isFinite(mean) && isFinite(std) {
		return mean, std
	}
	scaled, scale := rescale(nums)
	mean, std = stat.PopMeanStdDev(scaled, nil)
	return finite(mean * scale), finite(std * scale)
}

// Median returns the median of nums, or 0 for an empty slice.
func Median(nums []float64) float64 {
	m, err := stats.Median(nums)
	if err != nil {
		return 0
	}
	if isFinite(m) {
		return m
	}
	scaled, scale := rescale(nums)
	m, _ = stats.Median(scaled)
	return finite(m * scale)
}

func rescale(nums []float64) ([]float64, float64) {
	scale := 0.0
	for _, x := range nums {
		scale = math.Max(scale, math.Abs(x))
	}
	if scale == 0 {
		scale = 1
	}
	out := make([]float64, len(nums))
	for i, x := range nums {
		out[i] = x / scale
	}
	return out, scale
}

func isFinite(x float64) bool { return !math.IsNaN(x) && !math.IsInf(x, 0) }

// finite maps NaN to 0 and infinities to the largest float64 of the same sign.
func finite(x float64) float64 {
	switch {
	case math.IsNaN(x):
		return 0
	case math.IsInf(x, 1):
		return math.MaxFloat64
	case math.IsInf(x, -1):
		return -math.MaxFloat64
	}
	return x
}

func dateRange(values []dataset.Value) *DateRange {
	var dr *DateRange
	for _, v := range values {
		if v.IsMissing() {
			continue
		}
		t, ok := v.Time()
		if !ok {
			continue
		}
		if dr == nil {
			dr = &DateRange{Min: t, Max: t}
			continue
		}
		if t.Before(dr.Min) {
			dr.Min = t
		}
		if t.After(dr.Max) {
			dr.Max = t
		}
	}
	return dr
}

// Frequencies counts present values by display text. The result is sorted by
// descending count; ties keep first-encountered order.
func Frequencies(values []dataset.Value) []Frequency {
	idx := make(map[string]int)
	var out []Frequency
	for _, v := range values {
		if v.IsMissing() {
			continue
		}
		key := v.String()
		if i, ok := idx[key]; ok {
			out[i].Count++
			continue
		}
		idx[key] = len(out)
		out = append(out, Frequency{Value: key, Count: 1})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

func categoricalStats(values []dataset.Value, unique, rows int) *CategoricalStats {
	freqs := Frequencies(values)
	cs := &CategoricalStats{Cardinality: classifyCardinality(unique, rows)}
	if len(freqs) > 0 {
		counts := make(stats.Float64Data, len(freqs))
		for i, f := range freqs {
			counts[i] = float64(f.Count)
		}
		if h, err := stats.Entropy(counts); err == nil && !math.IsNaN(h) {
			cs.Entropy = h
		}
	}
	if len(freqs) > topFrequencies {
		freqs = freqs[:topFrequencies]
	}
	cs.Frequencies = freqs
	return cs
}

func classifyCardinality(unique, rows int) Cardinality {
	if rows == 0 {
		return CardinalityLow
	}
	ratio := float64(unique) / float64(rows)
	switch {
	case ratio > 0.8:
		return CardinalityHigh
	case ratio > 0.3:
		return CardinalityMedium
	default:
		return CardinalityLow
	}
}
