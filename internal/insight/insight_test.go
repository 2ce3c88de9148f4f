package insight

import (
	"testing"

	"github.com/KaramelBytes/statify-cli/internal/correlation"
	"github.com/KaramelBytes/statify-cli/internal/profile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func numericCol(id string, mean, std, quality float64, missing int) profile.ColumnProfile {
	return profile.ColumnProfile{
		ID:   id,
		Type: profile.TypeNumeric,
		Stats: profile.Stats{
			RowCount:     10,
			MissingCount: missing,
			Numeric:      &profile.NumericStats{Count: 10 - missing, Mean: mean, StdDev: std},
		},
		QualityScore: quality,
	}
}

func matrix(cols []string, vals map[string]map[string]float64) *correlation.Matrix {
	return &correlation.Matrix{Columns: cols, Values: vals}
}

func TestGenerateNoFindings(t *testing.T) {
	cols := []profile.ColumnProfile{numericCol("a", 10, 1, 100, 0)}
	m := matrix([]string{"a"}, map[string]map[string]float64{"a": {"a": 1}})
	assert.Empty(t, Generate(cols, m, DefaultThresholds()))
}

func TestGenerateAllRulesInOrder(t *testing.T) {
	cols := []profile.ColumnProfile{
		numericCol("a", 10, 1, 95, 0),
		numericCol("b", 1, 5, 90, 2),
		numericCol("c", 3, 1, 40, 0),
		numericCol("d", 3, 1, 65, 1),
	}
	m := matrix([]string{"a", "b", "c", "d"}, map[string]map[string]float64{
		"a": {"a": 1, "b": 0.9, "c": -0.95, "d": 0.99},
		"b": {"a": 0.9, "b": 1, "c": 0.1, "d": 0.1},
		"c": {"a": -0.95, "b": 0.1, "c": 1, "d": 0.1},
		"d": {"a": 0.99, "b": 0.1, "c": 0.1, "d": 1},
	})

	got := Generate(cols, m, DefaultThresholds())
	require.Len(t, got, 4)

	assert.Equal(t, "missing-values", got[0].ID)
	assert.Equal(t, KindWarning, got[0].Kind)
	assert.Equal(t, ImpactHigh, got[0].Impact)
	assert.Contains(t, got[0].Description, "2 columns have")

	assert.Equal(t, "multicollinearity", got[1].ID)
	assert.Equal(t, KindInfo, got[1].Kind)
	assert.Equal(t, ImpactMedium, got[1].Impact)
	assert.Contains(t, got[1].Description, "a & b, a & c")
	assert.NotContains(t, got[1].Description, "a & d")
	assert.Contains(t, got[1].Description, "1 more pair")

	assert.Equal(t, "high-dispersion", got[2].ID)
	assert.Contains(t, got[2].Description, "b has")

	assert.Equal(t, "low-quality", got[3].ID)
	assert.Equal(t, KindAlert, got[3].Kind)
	assert.Contains(t, got[3].Description, "c scores 40/100")
}

func TestMulticollinearityThresholdIsStrict(t *testing.T) {
	cols := []profile.ColumnProfile{numericCol("a", 1, 0, 100, 0), numericCol("b", 1, 0, 100, 0)}
	m := matrix([]string{"a", "b"}, map[string]map[string]float64{
		"a": {"a": 1, "b": 0.85},
		"b": {"a": 0.85, "b": 1},
	})
	assert.Empty(t, Generate(cols, m, DefaultThresholds()))
}

func TestDispersionSkipsNonNumeric(t *testing.T) {
	cols := []profile.ColumnProfile{{
		ID:           "s",
		Type:         profile.TypeString,
		Stats:        profile.Stats{RowCount: 3, Categorical: &profile.CategoricalStats{}},
		QualityScore: 100,
	}}
	assert.Empty(t, Generate(cols, matrix(nil, nil), DefaultThresholds()))
}

func TestHealth(t *testing.T) {
	cols := []profile.ColumnProfile{numericCol("a", 1, 1, 100, 2), numericCol("b", 1, 1, 100, 0)}
	assert.InDelta(t, 90.0, Health(cols, 10), 1e-9)
	assert.Equal(t, 0.0, Health(nil, 0))
}
