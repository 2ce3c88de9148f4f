package profile

import "math"

// HistogramBins is the number of equal-width bins between min and max. One
// extra bin holds values equal to max.
const HistogramBins = 10

// Bin is one histogram bucket starting at Lower.
type Bin struct {
	Lower float64 `json:"lower"`
	Count int     `json:"count"`
}

// Histogram counts values into HistogramBins+1 buckets of width (hi-lo)/10.
// A value falls in bin floor((v-lo)/width), capped at the last bin, so hi
// always lands in the last one. Values outside [lo, hi] are ignored. When
// lo == hi every value goes to the first bin.
func Histogram(values []float64, lo, hi float64) []Bin {
	if math.IsNaN(lo) || math.IsNaN(hi) || hi < lo {
		return nil
	}
	// Halves keep the arithmetic finite for values near the float64 limit.
	halfWidth := (hi/2 - lo/2) / HistogramBins
	bins := make([]Bin, HistogramBins+1)
	for i := range bins {
		step := halfWidth * float64(i)
		bins[i].Lower = finite(lo + step + step)
	}
	for _, v := range values {
		if math.IsNaN(v) || v < lo || v > hi {
			continue
		}
		idx := HistogramBins
		switch {
		case halfWidth == 0:
			idx = 0
		case v < hi:
			if f := math.Floor((v/2 - lo/2) / halfWidth); f < HistogramBins {
				idx = int(f)
			}
		}
		bins[idx].Count++
	}
	return bins
}
