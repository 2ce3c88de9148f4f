// Package mining holds the analytical primitives run on demand over a
// dataset view: two-variable least squares and k-means clustering.
package mining

import (
	"math"

	"github.com/KaramelBytes/statify-cli/internal/dataset"
	"gonum.org/v1/gonum/stat"
)

// Point is one (x, y) pair used in a fit.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// RegressionResult is a fitted line y = Slope·x + Intercept.
type RegressionResult struct {
	X         string  `json:"x"`
	Y         string  `json:"y"`
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
	RSquared  float64 `json:"rSquared"`
	Points    []Point `json:"points"`
}

// Predict evaluates the fitted line at x.
func (r *RegressionResult) Predict(x float64) float64 {
	return r.Slope*x + r.Intercept
}

// Line returns the fitted line's endpoints at the smallest and largest x.
func (r *RegressionResult) Line() [2]Point {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, p := range r.Points {
		lo = math.Min(lo, p.X)
		hi = math.Max(hi, p.X)
	}
	return [2]Point{{X: lo, Y: r.Predict(lo)}, {X: hi, Y: r.Predict(hi)}}
}

// LinearRegression fits y on x by ordinary least squares over the rows where
// both cells are finite numbers. ok is false when the fit is undefined: fewer
// than two points, constant x, or constant y (R² has no denominator).
func LinearRegression(rows []dataset.Record, x, y string) (*RegressionResult, bool) {
	xs := make([]float64, 0, len(rows))
	ys := make([]float64, 0, len(rows))
	points := make([]Point, 0, len(rows))
	for _, r := range rows {
		xv, yv := r[x], r[y]
		if xv.IsMissing() || yv.IsMissing() {
			continue
		}
		fx, okx := xv.Float()
		fy, oky := yv.Float()
		if !okx || !oky {
			continue
		}
		xs = append(xs, fx)
		ys = append(ys, fy)
		points = append(points, Point{X: fx, Y: fy})
	}
	if len(points) < 2 || stat.Variance(xs, nil) == 0 || stat.Variance(ys, nil) == 0 {
		return nil, false
	}

	alpha, beta := stat.LinearRegression(xs, ys, nil, false)
	r2 := stat.RSquared(xs, ys, nil, alpha, beta)
	if math.IsNaN(r2) || math.IsNaN(beta) {
		return nil, false
	}
	return &RegressionResult{
		X:         x,
		Y:         y,
		Slope:     beta,
		Intercept: alpha,
		RSquared:  r2,
		Points:    points,
	}, true
}
