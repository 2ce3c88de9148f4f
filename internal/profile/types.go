package profile

import "time"

// ColumnType is the inferred semantic type of a column.
type ColumnType string

const (
	TypeNumeric ColumnType = "numeric"
	TypeDate    ColumnType = "date"
	TypeString  ColumnType = "string"
)

// Cardinality buckets a string column by unique/row ratio.
type Cardinality string

const (
	CardinalityHigh   Cardinality = "high"
	CardinalityMedium Cardinality = "medium"
	CardinalityLow    Cardinality = "low"
)

// Frequency is one value→count pair of a string column.
type Frequency struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// DateRange spans the parseable timestamps of a date column.
type DateRange struct {
	Min time.Time `json:"min"`
	Max time.Time `json:"max"`
}

// NumericStats are populated for numeric columns only.
type NumericStats struct {
	Count        int     `json:"count"`
	Min          float64 `json:"min"`
	Max          float64 `json:"max"`
	Mean         float64 `json:"mean"`
	Median       float64 `json:"median"`
	StdDev       float64 `json:"stdDev"`
	Q1           float64 `json:"q1"`
	Q3           float64 `json:"q3"`
	IQR          float64 `json:"iqr"`
	LowerFence   float64 `json:"lowerFence"`
	UpperFence   float64 `json:"upperFence"`
	OutlierCount int     `json:"outlierCount"`
	Skewness     float64 `json:"skewness"`
}

// CategoricalStats are populated for string columns only.
type CategoricalStats struct {
	Frequencies []Frequency `json:"frequencies"`
	Entropy     float64     `json:"entropy"`
	Cardinality Cardinality `json:"cardinality"`
}

// Stats is the per-column bag. Type-specific sections are nil when not applicable.
type Stats struct {
	RowCount     int               `json:"rowCount"`
	MissingCount int               `json:"missingCount"`
	UniqueCount  int               `json:"uniqueCount"`
	Numeric      *NumericStats     `json:"numeric,omitempty"`
	DateRange    *DateRange        `json:"dateRange,omitempty"`
	Categorical  *CategoricalStats `json:"categorical,omitempty"`
}

// NonMissing is the number of present cells.
func (s Stats) NonMissing() int { return s.RowCount - s.MissingCount }

// MissingPercent is 100*missing/rows, 0 for an empty column.
func (s Stats) MissingPercent() float64 {
	if s.RowCount == 0 {
		return 0
	}
	return 100 * float64(s.MissingCount) / float64(s.RowCount)
}

// ColumnProfile is the profiler output for one column.
type ColumnProfile struct {
	ID           string     `json:"id"`
	Type         ColumnType `json:"type"`
	Stats        Stats      `json:"stats"`
	QualityScore float64    `json:"qualityScore"`
}

func (c ColumnProfile) IsNumeric() bool { return c.Type == TypeNumeric && c.Stats.Numeric != nil }
