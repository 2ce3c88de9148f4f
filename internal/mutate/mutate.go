// Package mutate implements the column operators that rewrite a dataset:
// imputation, numeric transforms and column removal. Every operator returns a
// new dataset and leaves its input untouched.
package mutate

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/KaramelBytes/statify-cli/internal/dataset"
	"github.com/KaramelBytes/statify-cli/internal/profile"
	"github.com/montanaflynn/stats"
)

var (
	// ErrUnknownColumn is returned when an operator targets a column the dataset does not have.
	ErrUnknownColumn = errors.New("unknown column")
	// ErrNotNumeric reports a numeric-only operator applied to a non-numeric column.
	// The dataset is returned unchanged alongside it.
	ErrNotNumeric = errors.New("column is not numeric")
)

// Strategy selects the fill value for Impute.
type Strategy string

const (
	StrategyMean   Strategy = "mean"
	StrategyMedian Strategy = "median"
	StrategyMode   Strategy = "mode"
	StrategyZero   Strategy = "zero"
)

// ParseStrategy accepts a strategy name case-insensitively.
func ParseStrategy(s string) (Strategy, error) {
	switch st := Strategy(strings.ToLower(strings.TrimSpace(s))); st {
	case StrategyMean, StrategyMedian, StrategyMode, StrategyZero:
		return st, nil
	}
	return "", fmt.Errorf("invalid strategy %q (want mean, median, mode or zero)", s)
}

// Kind selects the function applied by Transform.
type Kind string

const (
	KindLog         Kind = "log"
	KindNormalize   Kind = "normalize"
	KindStandardize Kind = "standardize"
)

// ParseTransform accepts a transform name case-insensitively.
func ParseTransform(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindLog, KindNormalize, KindStandardize:
		return k, nil
	}
	return "", fmt.Errorf("invalid transform %q (want log, normalize or standardize)", s)
}

// Impute fills every missing cell of col. Mean and median need a numeric
// column; mode picks the most frequent present value, ties going to the one
// seen first, and keeps its kind; zero writes the number 0.
func Impute(ds *dataset.Dataset, col string, s Strategy) (*dataset.Dataset, error) {
	if !ds.HasColumn(col) {
		return nil, fmt.Errorf("impute %q: %w", col, ErrUnknownColumn)
	}
	values := ds.Column(col)

	var fill dataset.Value
	switch s {
	case StrategyMean, StrategyMedian:
		if profile.InferType(values) != profile.TypeNumeric {
			return ds, fmt.Errorf("impute %s %q: %w", s, col, ErrNotNumeric)
		}
		nums := profile.NumericValues(values)
		if s == StrategyMean {
			mean, _ := profile.MeanStdDev(nums)
			fill = dataset.Number(mean)
		} else {
			fill = dataset.Number(profile.Median(nums))
		}
	case StrategyMode:
		v, ok := mode(values)
		if !ok {
			return ds, nil
		}
		fill = v
	case StrategyZero:
		fill = dataset.Number(0)
	default:
		return nil, fmt.Errorf("impute %q: unsupported strategy %q", col, s)
	}

	return ds.WithColumn(col, func(v dataset.Value) dataset.Value {
		if v.IsMissing() {
			return fill
		}
		return v
	}), nil
}

func mode(values []dataset.Value) (dataset.Value, bool) {
	counts := make(map[string]int, len(values))
	for _, v := range values {
		if !v.IsMissing() {
			counts[v.Key()]++
		}
	}
	var (
		best  dataset.Value
		top   int
		found bool
	)
	for _, v := range values {
		if v.IsMissing() {
			continue
		}
		if c := counts[v.Key()]; c > top {
			best, top, found = v, c, true
		}
	}
	return best, found
}

// Transform rewrites the numeric cells of col. Missing and non-numeric cells
// pass through unchanged.
func Transform(ds *dataset.Dataset, col string, k Kind) (*dataset.Dataset, error) {
	if !ds.HasColumn(col) {
		return nil, fmt.Errorf("transform %q: %w", col, ErrUnknownColumn)
	}
	values := ds.Column(col)
	if profile.InferType(values) != profile.TypeNumeric {
		return ds, fmt.Errorf("transform %s %q: %w", k, col, ErrNotNumeric)
	}
	nums := profile.NumericValues(values)

	var fn func(float64) float64
	switch k {
	case KindLog:
		fn = signedLog
	case KindNormalize:
		lo, _ := stats.Min(nums)
		hi, _ := stats.Max(nums)
		span := hi - lo
		fn = func(x float64) float64 {
			if span == 0 {
				return 0
			}
			return (x - lo) / span
		}
	case KindStandardize:
		mean, std := profile.MeanStdDev(nums)
		fn = func(x float64) float64 {
			if std == 0 {
				return 0
			}
			return (x - mean) / std
		}
	default:
		return nil, fmt.Errorf("transform %q: unsupported kind %q", col, k)
	}

	return ds.WithColumn(col, func(v dataset.Value) dataset.Value {
		if v.IsMissing() {
			return v
		}
		x, ok := v.Float()
		if !ok {
			return v
		}
		return dataset.Number(fn(x))
	}), nil
}

// signedLog is sign(x)·ln(|x|+1): defined at zero and symmetric for negatives.
func signedLog(x float64) float64 {
	if x == 0 {
		return 0
	}
	return math.Copysign(math.Log1p(math.Abs(x)), x)
}

// DropColumn removes col from every row. Dropping an absent column is a no-op.
func DropColumn(ds *dataset.Dataset, col string) *dataset.Dataset {
	if !ds.HasColumn(col) {
		return ds
	}
	return ds.WithoutColumn(col)
}
