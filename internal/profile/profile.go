// Package profile infers column types, computes per-column statistics and
// scores column quality.
package profile

import "github.com/KaramelBytes/statify-cli/internal/dataset"

// Profile runs inference, profiling and scoring for every column in dataset order.
func Profile(ds *dataset.Dataset, w QualityWeights) []ColumnProfile {
	cols := ds.Columns()
	out := make([]ColumnProfile, 0, len(cols))
	for _, id := range cols {
		values := ds.Column(id)
		typ := InferType(values)
		s := columnStats(values, typ)
		out = append(out, ColumnProfile{
			ID:           id,
			Type:         typ,
			Stats:        s,
			QualityScore: Score(s, typ, w),
		})
	}
	return out
}

// NumericIDs lists the numeric columns of a profile set in order.
func NumericIDs(cols []ColumnProfile) []string {
	var ids []string
	for _, c := range cols {
		if c.IsNumeric() {
			ids = append(ids, c.ID)
		}
	}
	return ids
}

// Find looks up a column profile by id.
func Find(cols []ColumnProfile, id string) (ColumnProfile, bool) {
	for _, c := range cols {
		if c.ID == id {
			return c, true
		}
	}
	return ColumnProfile{}, false
}
