package profile

import "math"

// QualityWeights are the tunable constants of the quality heuristic. They are
// design choices, not derived quantities.
type QualityWeights struct {
	MissingWeight float64 `mapstructure:"quality_missing_weight" yaml:"quality_missing_weight"`
	OutlierWeight float64 `mapstructure:"quality_outlier_weight" yaml:"quality_outlier_weight"`
	SkewPenalty   float64 `mapstructure:"quality_skew_penalty" yaml:"quality_skew_penalty"`
	SkewThreshold float64 `mapstructure:"quality_skew_threshold" yaml:"quality_skew_threshold"`
}

// DefaultQualityWeights returns the stock heuristic.
func DefaultQualityWeights() QualityWeights {
	return QualityWeights{
		MissingWeight: 0.8,
		OutlierWeight: 0.5,
		SkewPenalty:   5,
		SkewThreshold: 1,
	}
}

// Score rates a column's reliability in [0, 100].
func Score(s Stats, typ ColumnType, w QualityWeights) float64 {
	score := 100.0
	score -= s.MissingPercent() * w.MissingWeight
	if typ == TypeNumeric && s.Numeric != nil {
		if s.Numeric.Count > 0 {
			outlierPct := 100 * float64(s.Numeric.OutlierCount) / float64(s.Numeric.Count)
			score -= outlierPct * w.OutlierWeight
		}
		if math.Abs(s.Numeric.Skewness) > w.SkewThreshold {
			score -= w.SkewPenalty
		}
	}
	return clamp(score, 0, 100)
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}

// Grade buckets a quality score for display.
type Grade string

const (
	GradeHigh   Grade = "high"
	GradeMedium Grade = "medium"
	GradeLow    Grade = "low"
)

// GradeOf maps a score to high (>= 80), medium (>= 50) or low.
func GradeOf(score float64) Grade {
	switch {
	case score >= 80:
		return GradeHigh
	case score >= 50:
		return GradeMedium
	default:
		return GradeLow
	}
}

// SkewLabel describes the shape of a numeric column.
func SkewLabel(skew float64) string {
	if math.Abs(skew) < 0.5 {
		return "symmetric"
	}
	return "skewed"
}

// Suggestion is the one-line recommendation shown next to a column's score.
func Suggestion(score float64) string {
	if score < 70 {
		return "Data rehabilitation required for predictive accuracy."
	}
	return "High reliability detected. Ready for modeling pipelines."
}
