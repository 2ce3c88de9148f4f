// Package engine owns a loaded dataset and the statistics derived from it.
//
// Every load or mutation runs the whole pipeline (type inference, profiling,
// quality scoring, correlation, insights) before it returns, and publishes the
// result as a fresh DerivedState. Callers see either the previous state or the
// new one, never a partial update. An Engine is not safe for concurrent use.
package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/KaramelBytes/statify-cli/internal/correlation"
	"github.com/KaramelBytes/statify-cli/internal/dataset"
	"github.com/KaramelBytes/statify-cli/internal/insight"
	"github.com/KaramelBytes/statify-cli/internal/mining"
	"github.com/KaramelBytes/statify-cli/internal/mutate"
	"github.com/KaramelBytes/statify-cli/internal/profile"
	"go.uber.org/zap"
)

var (
	ErrUnknownColumn = errors.New("unknown column")
	ErrUnavailable   = errors.New("insufficient data")
	ErrInvalidRecord = dataset.ErrInvalidRecord
	ErrNoDataset     = errors.New("no dataset loaded")
)

// Metadata describes where a dataset came from.
type Metadata struct {
	FileName string `json:"fileName"`
	FileSize int64  `json:"fileSize"`
}

// Summary holds table-level figures.
type Summary struct {
	RowCount    int     `json:"rowCount"`
	ColumnCount int     `json:"columnCount"`
	FileName    string  `json:"fileName"`
	FileSize    int64   `json:"fileSize"`
	Health      float64 `json:"health"`
}

// DerivedState is the bundle published after each recompute. It is never
// modified once published.
type DerivedState struct {
	Columns      []profile.ColumnProfile `json:"columns"`
	Stats        Summary                 `json:"stats"`
	Correlations *correlation.Matrix     `json:"correlations"`
	Insights     []insight.Insight       `json:"insights"`
}

// Engine holds the single mutable dataset and its derived state.
type Engine struct {
	log       *zap.Logger
	weights   profile.QualityWeights
	threshold insight.Thresholds
	maxIter   int

	ds     *dataset.Dataset
	meta   Metadata
	state  *DerivedState
	filter dataset.Filter
}

// Option configures an Engine at construction.
type Option func(*Engine)

// WithLogger sets the logger. A nil logger keeps the no-op default.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithQualityWeights overrides the column quality penalties.
func WithQualityWeights(w profile.QualityWeights) Option {
	return func(e *Engine) { e.weights = w }
}

// WithThresholds overrides the insight rule thresholds.
func WithThresholds(th insight.Thresholds) Option {
	return func(e *Engine) { e.threshold = th }
}

// WithMaxIterations sets the k-means iteration cap. Values <= 0 keep the default.
func WithMaxIterations(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxIter = n
		}
	}
}

// New returns an empty engine with default weights, thresholds and a no-op
// logger. Load or LoadDataset must be called before anything else.
func New(opts ...Option) *Engine {
	e := &Engine{
		log:       zap.NewNop(),
		weights:   profile.DefaultQualityWeights(),
		threshold: insight.DefaultThresholds(),
		maxIter:   mining.DefaultMaxIterations,
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Load builds a dataset from raw rows, column order following first appearance.
// A nil row fails the whole load with ErrInvalidRecord and leaves the engine as it was.
func (e *Engine) Load(rows []dataset.Record, meta Metadata) (*DerivedState, error) {
	ds, err := dataset.FromRecords(rows)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", meta.FileName, err)
	}
	return e.LoadDataset(ds, meta)
}

// LoadDataset replaces the current dataset wholesale.
func (e *Engine) LoadDataset(ds *dataset.Dataset, meta Metadata) (*DerivedState, error) {
	if ds == nil {
		return nil, ErrNoDataset
	}
	e.meta = meta
	e.filter = dataset.Filter{}
	return e.replace(ds), nil
}

// State returns the last published derived state, or nil before the first load.
func (e *Engine) State() *DerivedState { return e.state }

func (e *Engine) Dataset() *dataset.Dataset { return e.ds }

func (e *Engine) Metadata() Metadata { return e.meta }

func (e *Engine) replace(ds *dataset.Dataset) *DerivedState {
	start := time.Now()
	cols := profile.Profile(ds, e.weights)
	numeric := profile.NumericIDs(cols)
	matrix := correlation.Compute(ds, numeric)
	st := &DerivedState{
		Columns: cols,
		Stats: Summary{
			RowCount:    ds.Len(),
			ColumnCount: len(cols),
			FileName:    e.meta.FileName,
			FileSize:    e.meta.FileSize,
			Health:      insight.Health(cols, ds.Len()),
		},
		Correlations: matrix,
		Insights:     insight.Generate(cols, matrix, e.threshold),
	}
	e.ds, e.state = ds, st
	e.log.Debug("recomputed derived state",
		zap.String("file", e.meta.FileName),
		zap.Int("rows", st.Stats.RowCount),
		zap.Int("columns", st.Stats.ColumnCount),
		zap.Int("numeric_columns", len(numeric)),
		zap.Int("insights", len(st.Insights)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return st
}

// SetFilter sets the display filter used by Filtered, FitRegression and RunClustering.
// Profiling always covers the full dataset. Column entries naming columns the
// dataset lacks are dropped.
func (e *Engine) SetFilter(f dataset.Filter) {
	if e.ds != nil {
		for col := range f.Columns {
			if !e.ds.HasColumn(col) {
				f = f.Without(col)
			}
		}
	}
	e.filter = f
}

func (e *Engine) Filter() dataset.Filter { return e.filter }

// Filtered returns the rows that pass the display filter.
func (e *Engine) Filtered() []dataset.Record {
	return e.filter.Apply(e.ds)
}

// FitRegression regresses y on x over the filtered rows.
func (e *Engine) FitRegression(x, y string) (*mining.RegressionResult, error) {
	if e.ds == nil {
		return nil, ErrNoDataset
	}
	for _, c := range []string{x, y} {
		if !e.ds.HasColumn(c) {
			return nil, fmt.Errorf("regression %q: %w", c, ErrUnknownColumn)
		}
	}
	res, ok := mining.LinearRegression(e.Filtered(), x, y)
	if !ok {
		return nil, fmt.Errorf("regression %s ~ %s: %w", y, x, ErrUnavailable)
	}
	return res, nil
}

// Histogram bins a numeric column's filtered values between the column's
// full-dataset min and max. Non-numeric columns have no histogram.
func (e *Engine) Histogram(col string) ([]profile.Bin, error) {
	if e.ds == nil {
		return nil, ErrNoDataset
	}
	c, ok := profile.Find(e.state.Columns, col)
	if !ok {
		return nil, fmt.Errorf("histogram %q: %w", col, ErrUnknownColumn)
	}
	if !c.IsNumeric() || c.Stats.Numeric.Count == 0 {
		return nil, nil
	}
	values := make([]dataset.Value, 0, e.ds.Len())
	for _, r := range e.Filtered() {
		values = append(values, r[col])
	}
	n := c.Stats.Numeric
	return profile.Histogram(profile.NumericValues(values), n.Min, n.Max), nil
}

// RunClustering runs k-means over the filtered rows.
func (e *Engine) RunClustering(dims []string, k int) (*mining.ClusterResult, error) {
	if e.ds == nil {
		return nil, ErrNoDataset
	}
	for _, c := range dims {
		if !e.ds.HasColumn(c) {
			return nil, fmt.Errorf("clustering %q: %w", c, ErrUnknownColumn)
		}
	}
	res, ok := mining.KMeans(e.Filtered(), dims, k, e.maxIter)
	if !ok {
		return nil, fmt.Errorf("clustering k=%d over %d dims: %w", k, len(dims), ErrUnavailable)
	}
	e.log.Debug("clustering finished", zap.Int("k", k), zap.Int("vectors", len(res.Vectors)), zap.Int("iterations", res.Iterations))
	return res, nil
}

// translate maps operator errors onto the engine's error variants.
func translate(err error) error {
	if errors.Is(err, mutate.ErrUnknownColumn) {
		return fmt.Errorf("%w: %v", ErrUnknownColumn, err)
	}
	return err
}
