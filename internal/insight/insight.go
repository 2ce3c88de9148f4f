// Package insight turns column profiles and correlations into findings.
package insight

import (
	"fmt"
	"math"
	"strings"

	"github.com/KaramelBytes/statify-cli/internal/correlation"
	"github.com/KaramelBytes/statify-cli/internal/profile"
)

// Kind classifies an insight for display.
type Kind string

const (
	KindInfo    Kind = "info"
	KindWarning Kind = "warning"
	KindSuccess Kind = "success"
	KindAlert   Kind = "alert"
)

type Impact string

const (
	ImpactLow    Impact = "low"
	ImpactMedium Impact = "medium"
	ImpactHigh   Impact = "high"
)

// Insight is a disposable finding; the full list is rebuilt on every recompute.
type Insight struct {
	ID          string `json:"id"`
	Kind        Kind   `json:"kind"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Impact      Impact `json:"impact"`
}

// Thresholds tune the rules.
type Thresholds struct {
	Correlation     float64 `mapstructure:"insight_correlation_threshold" yaml:"insight_correlation_threshold"`
	DispersionRatio float64 `mapstructure:"insight_dispersion_ratio" yaml:"insight_dispersion_ratio"`
	Quality         float64 `mapstructure:"insight_quality_threshold" yaml:"insight_quality_threshold"`
}

// DefaultThresholds returns |r| 0.85, a dispersion ratio of 2 and a quality floor of 70.
func DefaultThresholds() Thresholds {
	return Thresholds{Correlation: 0.85, DispersionRatio: 2, Quality: 70}
}

// maxListedPairs caps how many collinear pairs are named in one finding.
const maxListedPairs = 2

type rule func(cols []profile.ColumnProfile, m *correlation.Matrix, th Thresholds) (Insight, bool)

// Rule evaluation order is the output order. It is not a severity ranking.
var rules = []rule{
	missingValues,
	multicollinearity,
	highDispersion,
	lowQuality,
}

// Generate evaluates every rule; each contributes at most one insight.
func Generate(cols []profile.ColumnProfile, m *correlation.Matrix, th Thresholds) []Insight {
	out := make([]Insight, 0, len(rules))
	for _, r := range rules {
		if in, ok := r(cols, m, th); ok {
			out = append(out, in)
		}
	}
	return out
}

func missingValues(cols []profile.ColumnProfile, _ *correlation.Matrix, _ Thresholds) (Insight, bool) {
	n := 0
	for _, c := range cols {
		if c.Stats.MissingCount > 0 {
			n++
		}
	}
	if n == 0 {
		return Insight{}, false
	}
	return Insight{
		ID:          "missing-values",
		Kind:        KindWarning,
		Title:       "Missing values detected",
		Description: fmt.Sprintf("%d %s missing values. Consider imputation before modeling.", n, plural(n, "column has", "columns have")),
		Impact:      ImpactHigh,
	}, true
}

func multicollinearity(_ []profile.ColumnProfile, m *correlation.Matrix, th Thresholds) (Insight, bool) {
	var found []string
	for _, p := range m.Pairs() {
		if math.Abs(p.R) > th.Correlation {
			found = append(found, fmt.Sprintf("%s & %s", p.A, p.B))
		}
	}
	if len(found) == 0 {
		return Insight{}, false
	}
	listed := found
	if len(listed) > maxListedPairs {
		listed = listed[:maxListedPairs]
	}
	desc := fmt.Sprintf("Strong linear association (|r| > %.2f) between %s.", th.Correlation, strings.Join(listed, ", "))
	if extra := len(found) - len(listed); extra > 0 {
		desc += fmt.Sprintf(" %d more %s.", extra, plural(extra, "pair", "pairs"))
	}
	return Insight{
		ID:          "multicollinearity",
		Kind:        KindInfo,
		Title:       "Multicollinearity detected",
		Description: desc,
		Impact:      ImpactMedium,
	}, true
}

func highDispersion(cols []profile.ColumnProfile, _ *correlation.Matrix, th Thresholds) (Insight, bool) {
	for _, c := range cols {
		if !c.IsNumeric() {
			continue
		}
		n := c.Stats.Numeric
		if n.StdDev > th.DispersionRatio*n.Mean {
			return Insight{
				ID:          "high-dispersion",
				Kind:        KindInfo,
				Title:       "High dispersion",
				Description: fmt.Sprintf("%s has a standard deviation of %.4g against a mean of %.4g. Consider a log transform.", c.ID, n.StdDev, n.Mean),
				Impact:      ImpactMedium,
			}, true
		}
	}
	return Insight{}, false
}

func lowQuality(cols []profile.ColumnProfile, _ *correlation.Matrix, th Thresholds) (Insight, bool) {
	for _, c := range cols {
		if c.QualityScore < th.Quality {
			return Insight{
				ID:          "low-quality",
				Kind:        KindAlert,
				Title:       "Low quality column",
				Description: fmt.Sprintf("%s scores %.0f/100. %s", c.ID, c.QualityScore, profile.Suggestion(c.QualityScore)),
				Impact:      ImpactHigh,
			}, true
		}
	}
	return Insight{}, false
}

// Health is the percentage of present cells across the whole table.
func Health(cols []profile.ColumnProfile, rowCount int) float64 {
	cells := rowCount * len(cols)
	if cells == 0 {
		return 0
	}
	missing := 0
	for _, c := range cols {
		missing += c.Stats.MissingCount
	}
	return (1 - float64(missing)/float64(cells)) * 100
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
